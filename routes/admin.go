package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	adminController "github.com/raihanetx/Next-v/controllers/admin"
	orderControllers "github.com/raihanetx/Next-v/controllers/order"
	"github.com/raihanetx/Next-v/middleware"
)

func SetupAdminRoutes(api *gin.RouterGroup, db *gorm.DB, deps Deps) {
	admin := api.Group("/admin")

	// Credential endpoints, no auth middleware.
	admin.POST("/auth", adminController.LoginHandler(db, deps.Config, deps.Issuer, deps.Sessions, deps.Limiter))
	admin.DELETE("/auth", adminController.LogoutHandler(deps.Config, deps.Sessions))
	admin.POST("/refresh", adminController.RefreshHandler(deps.Config, deps.Issuer, deps.Sessions))

	protected := admin.Group("")
	protected.Use(middleware.RequireAccess(deps.Issuer, deps.Sessions))
	{
		protected.GET("/orders", orderControllers.GetAllOrdersHandler(db))
		protected.GET("/orders/export", orderControllers.ExportOrdersToExcel(db))
		protected.GET("/orders/ws", orderControllers.OrderFeedHandler)

		// State-changing admin calls additionally require the CSRF header.
		mutating := protected.Group("")
		mutating.Use(middleware.RequireCSRF(deps.Sessions))
		{
			mutating.PATCH("/orders/:orderId", orderControllers.UpdateOrderStatusHandler(db))
			mutating.DELETE("/orders/:orderId", orderControllers.DeleteOrderHandler(db))
			mutating.POST("/send-email", adminController.SendEmailHandler(db, deps.Mailer))
		}
	}
}
