package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	rupantorpayControllers "github.com/raihanetx/Next-v/controllers/rupantorpay"
)

func SetupPaymentRoutes(api *gin.RouterGroup, db *gorm.DB, deps Deps) {
	payment := api.Group("/rupantorpay")
	{
		payment.POST("/create-payment", rupantorpayControllers.CreatePaymentHandler(deps.Config, deps.Gateway))

		// Unauthenticated; the handler trusts nothing in the payload
		// and re-verifies with the provider before creating an order.
		payment.POST("/webhook", rupantorpayControllers.WebhookHandler(db, deps.Gateway))

		payment.POST("/verify-payment", rupantorpayControllers.VerifyPaymentHandler(deps.Gateway))
	}
}
