package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	catalogController "github.com/raihanetx/Next-v/controllers/catalog"
)

func SetupCatalogRoutes(api *gin.RouterGroup, db *gorm.DB) {
	api.GET("/products", catalogController.GetAllProducts(db))
	api.GET("/products/:categorySlug/:productSlug", catalogController.GetProduct(db))
	api.GET("/categories", catalogController.GetAllCategories(db))
	api.GET("/coupons", catalogController.GetActiveCoupons(db))
	api.GET("/hot-deals", catalogController.GetHotDeals(db))
	api.GET("/site-config", catalogController.GetSiteConfig(db))
	api.GET("/currency-rate", catalogController.GetCurrencyRate(db))
	api.POST("/reviews", catalogController.CreateReview(db))
}
