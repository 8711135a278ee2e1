package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/raihanetx/Next-v/controllers/order"
)

func SetupOrderRoutes(api *gin.RouterGroup, db *gorm.DB) {
	orders := api.Group("/orders")
	{
		// Customer checkout for manual payment methods.
		orders.POST("", orderControllers.PlaceOrderHandler(db))

		// Order tracking by locally stored ids.
		orders.GET("", orderControllers.GetOrdersHandler(db))
	}
}
