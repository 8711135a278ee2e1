package catalogController

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/raihanetx/Next-v/models"
)

// GetAllProducts returns the full catalog with pricing tiers, category
// and reviews preloaded, the shape the storefront renders from.
func GetAllProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		err := db.
			Preload("Pricing", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order ASC, id ASC") }).
			Preload("Category").
			Preload("Reviews").
			Find(&products).Error
		if err != nil {
			slog.Error("product listing failed", slog.Any("error", err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// GetProduct resolves a single product by category slug and product
// slug, the canonical storefront URL shape.
func GetProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		categorySlug := c.Param("categorySlug")
		productSlug := c.Param("productSlug")

		var product models.Product
		err := db.
			Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ? AND products.slug = ?", categorySlug, productSlug).
			Preload("Pricing", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order ASC, id ASC") }).
			Preload("Category").
			Preload("Reviews").
			First(&product).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		if err != nil {
			slog.Error("product lookup failed", slog.Any("error", err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to fetch product"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func GetAllCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []models.Category
		if err := db.Order("name ASC").Find(&categories).Error; err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to fetch categories"})
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

// GetActiveCoupons exposes only active coupons; the checkout uses this
// for client-side hints, the server re-validates on order placement.
func GetActiveCoupons(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var coupons []models.Coupon
		if err := db.Where("is_active = ?", true).Find(&coupons).Error; err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to fetch coupons"})
			return
		}
		c.JSON(http.StatusOK, coupons)
	}
}

func GetHotDeals(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var deals []models.HotDeal
		err := db.
			Preload("Product.Pricing", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order ASC, id ASC") }).
			Preload("Product.Category").
			Find(&deals).Error
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to fetch hot deals"})
			return
		}
		c.JSON(http.StatusOK, deals)
	}
}

// GetSiteConfig returns the storefront configuration singleton. The
// admin password hash never serializes, the model excludes it.
func GetSiteConfig(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var site models.SiteConfig
		if err := db.First(&site).Error; err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to fetch site config"})
			return
		}
		c.JSON(http.StatusOK, site)
	}
}

type createReviewRequest struct {
	ProductID uint   `json:"productId" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Rating    int    `json:"rating" binding:"required"`
	Comment   string `json:"comment"`
}

func CreateReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "productId, name and rating are required"})
			return
		}
		if req.Rating < 1 || req.Rating > 5 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 1 and 5"})
			return
		}

		var count int64
		if err := db.Model(&models.Product{}).Where("id = ?", req.ProductID).Count(&count).Error; err != nil || count == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		review := models.Review{
			ProductID: req.ProductID,
			Name:      req.Name,
			Rating:    req.Rating,
			Comment:   req.Comment,
		}
		if err := db.Create(&review).Error; err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to save review"})
			return
		}
		c.JSON(http.StatusCreated, review)
	}
}

// GetCurrencyRate returns the configured USD to BDT conversion rate as
// a small standalone payload for the price toggle.
func GetCurrencyRate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var site models.SiteConfig
		if err := db.First(&site).Error; err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to fetch currency rate"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"usdToBdtRate": site.UsdToBdtRate})
	}
}
