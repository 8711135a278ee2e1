package adminController

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/raihanetx/Next-v/email"
	"github.com/raihanetx/Next-v/models"
)

type sendEmailRequest struct {
	OrderID string `json:"orderId" binding:"required"`
	// Optional per-product access links keyed by product name.
	AccessLinks map[string]string `json:"accessLinks"`
}

// SendEmailHandler mails the customer their product access details for
// a confirmed order.
func SendEmailHandler(db *gorm.DB, sender *email.Sender) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sendEmailRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderId is required"})
			return
		}

		var order models.Order
		err := db.Preload("Items").Where("order_id = ?", req.OrderID).First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		if err != nil {
			slog.Error("order lookup failed", slog.String("orderId", req.OrderID), slog.Any("error", err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to load order"})
			return
		}

		var customer models.CustomerInfo
		if err := json.Unmarshal(order.CustomerInfo, &customer); err != nil || customer.Email == "" {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Order has no customer email"})
			return
		}

		items := make([]email.AccessItem, 0, len(order.Items))
		for _, item := range order.Items {
			var pricing models.PricingSnapshot
			_ = json.Unmarshal(item.Pricing, &pricing)
			items = append(items, email.AccessItem{
				Name:     item.Name,
				Duration: pricing.Duration,
				Link:     req.AccessLinks[item.Name],
			})
		}

		if err := sender.SendProductAccess(customer.Email, customer.Name, order.OrderID, items); err != nil {
			if errors.Is(err, email.ErrNotConfigured) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Email delivery is not configured"})
				return
			}
			slog.Error("product access email failed",
				slog.String("orderId", order.OrderID), slog.Any("error", err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to send email"})
			return
		}

		slog.Info("product access email sent", slog.String("orderId", order.OrderID))
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
