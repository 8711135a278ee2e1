package rupantorpayControllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/raihanetx/Next-v/config"
	orderControllers "github.com/raihanetx/Next-v/controllers/order"
	"github.com/raihanetx/Next-v/models"
)

type createPaymentRequest struct {
	Fullname     string              `json:"fullname" binding:"required"`
	Email        string              `json:"email" binding:"required,email"`
	Amount       float64             `json:"amount" binding:"required"`
	OrderID      string              `json:"orderId" binding:"required"`
	CustomerInfo models.CustomerInfo `json:"customerInfo"`
	Items        []MetadataItem      `json:"items"`
}

// CreatePaymentHandler initiates a hosted gateway checkout and returns
// the redirect URL. All redirect targets derive from the configured
// base URL so the deployment is portable across environments.
func CreatePaymentHandler(cfg *config.Config, client *Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  false,
				"message": "Missing required fields: fullname, email, amount, orderId",
			})
			return
		}

		base := strings.TrimRight(cfg.BaseURL, "/")
		checkout := CheckoutRequest{
			Fullname:   req.Fullname,
			Email:      req.Email,
			Amount:     FormatAmount(req.Amount),
			SuccessURL: base + "/payment-success",
			CancelURL:  base + "/payment-cancelled",
			WebhookURL: base + "/api/rupantorpay/webhook",
			Metadata: Metadata{
				OrderID:      req.OrderID,
				CustomerInfo: req.CustomerInfo,
				Items:        req.Items,
				Timestamp:    time.Now().UTC().Format(time.RFC3339),
			},
		}

		resp, err := client.CreatePayment(checkout)
		if err != nil {
			slog.Error("gateway checkout creation failed",
				slog.String("orderId", req.OrderID), slog.Any("error", err))
			c.JSON(http.StatusBadGateway, gin.H{
				"status":  false,
				"message": "Failed to create payment, please try again",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      resp.Status,
			"message":     resp.Message,
			"payment_url": resp.PaymentURL,
			"paymentUrl":  resp.PaymentURL, // camelCase alias for the storefront client
		})
	}
}

type webhookRequest struct {
	TransactionID string `json:"transactionID"` // capital ID in webhook parameters
	PaymentMethod string `json:"paymentMethod"`
	PaymentAmount string `json:"paymentAmount"`
	PaymentFee    string `json:"paymentFee"`
	Currency      string `json:"currency"`
	Status        string `json:"status"`
}

// WebhookHandler receives the gateway's payment-completion callback.
// Webhook delivery is unauthenticated, so the payload is only a
// trigger: the transaction is re-verified with the provider before any
// order is created, and repeated deliveries for the same transaction id
// collapse onto the existing order.
func WebhookHandler(db *gorm.DB, client *Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := uuid.NewString()

		var req webhookRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.TransactionID == "" || req.Status == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required webhook data"})
			return
		}

		slog.Info("gateway webhook received",
			slog.String("traceId", traceID),
			slog.String("transactionId", req.TransactionID),
			slog.String("status", req.Status))

		// Fast-path dedupe before touching the provider.
		existing, err := orderControllers.FindByTransactionID(db, req.TransactionID)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to check existing orders"})
			return
		}
		if existing != nil {
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"message": "Webhook already processed",
				"orderId": existing.OrderID,
			})
			return
		}

		verify, err := client.VerifyPayment(req.TransactionID)
		if err != nil {
			slog.Error("webhook verification call failed",
				slog.String("traceId", traceID),
				slog.String("transactionId", req.TransactionID),
				slog.Any("error", err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to verify payment"})
			return
		}
		if !IsPaymentSuccessful(verify) {
			slog.Info("webhook for non-completed payment ignored",
				slog.String("traceId", traceID),
				slog.String("transactionId", req.TransactionID),
				slog.String("providerStatus", verify.Status))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payment verification failed"})
			return
		}

		orderID := verify.Metadata.OrderID
		if orderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Order ID not found in payment metadata"})
			return
		}

		customer := verify.Metadata.CustomerInfo
		if customer.Name == "" {
			customer = models.CustomerInfo{Name: verify.Fullname, Email: verify.Email}
		}

		amount := parseAmount(verify.Amount)
		fee := parseAmount(req.PaymentFee)

		order := models.Order{
			OrderID:       orderID,
			TransactionID: &verify.TransactionID,
			CustomerInfo:  orderJSON(customer),
			PaymentInfo: orderJSON(models.PaymentInfo{
				Method:        verify.PaymentMethod,
				TrxID:         verify.TrxID,
				TransactionID: verify.TransactionID,
				Amount:        verify.Amount,
				Fee:           req.PaymentFee,
				Currency:      verify.Currency,
				Status:        verify.Status,
			}),
			Totals: orderJSON(models.OrderTotals{
				Subtotal: amount - fee,
				Discount: 0,
				Total:    amount,
			}),
			Status: models.OrderStatusConfirmed,
		}
		for _, item := range verify.Metadata.Items {
			order.Items = append(order.Items, models.OrderItem{
				ProductID: item.ProductID,
				Name:      item.Name,
				Quantity:  item.Quantity,
				Pricing:   orderJSON(item.Pricing),
			})
		}

		if err := orderControllers.Save(db, &order); err != nil {
			if errors.Is(err, orderControllers.ErrDuplicateOrder) {
				// Lost the race with a concurrent delivery; the unique
				// index already holds the order.
				c.JSON(http.StatusOK, gin.H{
					"success": true,
					"message": "Webhook already processed",
					"orderId": orderID,
				})
				return
			}
			slog.Error("failed to create order from webhook",
				slog.String("traceId", traceID),
				slog.String("orderId", orderID),
				slog.Any("error", err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to process webhook"})
			return
		}

		slog.Info("order created from webhook",
			slog.String("traceId", traceID),
			slog.String("orderId", orderID),
			slog.String("transactionId", verify.TransactionID))

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Webhook processed successfully",
			"orderId": orderID,
		})
	}
}

type verifyRequest struct {
	TransactionID string `json:"transaction_id" binding:"required"`
}

// VerifyPaymentHandler exposes explicit transaction verification to the
// storefront client, passing the provider record through unchanged.
func VerifyPaymentHandler(client *Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req verifyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  false,
				"message": "Missing required field: transaction_id",
			})
			return
		}

		verify, err := client.VerifyPayment(req.TransactionID)
		if err != nil {
			slog.Error("payment verification failed",
				slog.String("transactionId", req.TransactionID), slog.Any("error", err))
			c.JSON(http.StatusBadGateway, gin.H{
				"status":  false,
				"message": "Failed to verify payment",
			})
			return
		}

		c.JSON(http.StatusOK, verify)
	}
}

func orderJSON(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(b)
}

func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
