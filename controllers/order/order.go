package orderControllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/raihanetx/Next-v/models"
	"github.com/raihanetx/Next-v/pricing"
)

// ErrDuplicateOrder is returned when an order id or gateway transaction
// id has already been persisted. The DB unique indexes are the
// authoritative guard; this surfaces their violation.
var ErrDuplicateOrder = errors.New("duplicate order")

// -------- Request Structs --------

type PlaceOrderRequest struct {
	OrderID      string              `json:"orderId"`
	CustomerInfo models.CustomerInfo `json:"customerInfo"`
	PaymentInfo  models.PaymentInfo  `json:"paymentInfo"`
	Items        []pricing.Item      `json:"items"`
	Totals       *models.OrderTotals `json:"totals"`
	CouponCode   string              `json:"couponCode"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// -------- Helpers --------

// NewOrderID generates a business-visible order identifier. ULIDs keep
// the id sortable by creation time while eliminating the collision risk
// of a timestamp-plus-random suffix under concurrent checkouts.
func NewOrderID() string {
	return "ORD" + ulid.Make().String()
}

func mapOrderStatus(status string) (models.OrderStatus, error) {
	switch strings.ToLower(status) {
	case "pending":
		return models.OrderStatusPending, nil
	case "confirmed":
		return models.OrderStatusConfirmed, nil
	case "cancelled":
		return models.OrderStatusCancelled, nil
	default:
		return "", errors.New("invalid order status")
	}
}

func mustJSON(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(b)
}

// ValidateCheckout enforces the required-field rules before anything is
// persisted: customer contact info, a payment method, and for manual
// methods a non-empty transaction id.
func ValidateCheckout(req *PlaceOrderRequest) error {
	if req.CustomerInfo.Name == "" || req.CustomerInfo.Phone == "" || req.CustomerInfo.Email == "" {
		return errors.New("customer name, phone and email are required")
	}
	if req.PaymentInfo.Method == "" {
		return errors.New("payment method is required")
	}
	if req.PaymentInfo.TrxID == "" {
		return errors.New("transaction ID is required")
	}
	if len(req.Items) == 0 {
		return errors.New("cart is empty")
	}
	return nil
}

// loadCatalog resolves the products referenced by the line items into a
// pricing.Resolver for totals computation and snapshot building.
func loadCatalog(db *gorm.DB, items []pricing.Item) (pricing.MapResolver, error) {
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	var products []models.Product
	if err := db.Preload("Pricing", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("sort_order ASC, id ASC")
	}).Preload("Category").Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}

	resolver := pricing.MapResolver{}
	for _, p := range products {
		tiers := make([]pricing.Tier, 0, len(p.Pricing))
		for _, tier := range p.Pricing {
			tiers = append(tiers, pricing.Tier{Duration: tier.Duration, Price: tier.Price})
		}
		resolver[p.ID] = pricing.Product{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category.Name,
			Tiers:    tiers,
		}
	}
	return resolver, nil
}

// BuildItems snapshots the product name and chosen tier for each line
// item. Snapshots are copies; later price edits never touch them.
func BuildItems(items []pricing.Item, resolver pricing.Resolver) ([]models.OrderItem, error) {
	out := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		p, ok := resolver.Product(item.ProductID)
		if !ok {
			return nil, pricing.ErrUnknownProduct
		}
		if item.TierIndex < 0 || item.TierIndex >= len(p.Tiers) {
			return nil, pricing.ErrUnknownTier
		}
		tier := p.Tiers[item.TierIndex]
		out = append(out, models.OrderItem{
			ProductID: item.ProductID,
			Name:      p.Name,
			Quantity:  item.Quantity,
			Pricing:   mustJSON(models.PricingSnapshot{Duration: tier.Duration, Price: tier.Price}),
		})
	}
	return out, nil
}

// totalsMatch compares client-submitted totals with the server
// recomputation. The tolerance sits well below the smallest coupon step
// and only absorbs float representation noise.
func totalsMatch(a models.OrderTotals, b pricing.Totals) bool {
	const eps = 0.005
	return math.Abs(a.Subtotal-b.Subtotal) < eps &&
		math.Abs(a.Discount-b.Discount) < eps &&
		math.Abs(a.Total-b.Total) < eps
}

// Save persists an order, translating unique-index violations on the
// order id or transaction id into ErrDuplicateOrder, and feeds the
// admin websocket stream on success.
func Save(db *gorm.DB, order *models.Order) error {
	if err := db.Create(order).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateOrder
		}
		return err
	}
	broadcastNewOrder(*order)
	return nil
}

// FindByTransactionID is the application-level dedupe fast path for
// repeated webhook deliveries.
func FindByTransactionID(db *gorm.DB, transactionID string) (*models.Order, error) {
	var order models.Order
	err := db.Preload("Items").Where("transaction_id = ?", transactionID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// -------- Handlers --------

// PlaceOrderHandler creates a manual-payment order: the customer has
// already sent money over bKash/Nagad/Rocket and submits the provider
// transaction id for the admin to confirm.
func PlaceOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := ValidateCheckout(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		resolver, err := loadCatalog(db, req.Items)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to load catalog"})
			return
		}

		// The coupon is looked up fresh; the snapshot stored on the
		// order comes from the live record, not from client input.
		var coupon *models.Coupon
		if req.CouponCode != "" {
			var found models.Coupon
			code := strings.ToUpper(strings.TrimSpace(req.CouponCode))
			err := db.Where("code = ?", code).First(&found).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "The coupon code is invalid or has expired."})
				return
			}
			if err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to load coupon"})
				return
			}
			coupon = &found
		}

		totals, err := pricing.CalculateTotals(req.Items, coupon, resolver)
		if err != nil {
			var couponErr *pricing.CouponError
			if errors.As(err, &couponErr) {
				c.JSON(http.StatusBadRequest, gin.H{"error": couponErr.Message})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.Totals != nil && !totalsMatch(*req.Totals, totals) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "submitted totals do not match priced cart"})
			return
		}

		items, err := BuildItems(req.Items, resolver)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		orderID := req.OrderID
		if orderID == "" {
			orderID = NewOrderID()
		}

		order := models.Order{
			OrderID:      orderID,
			CustomerInfo: mustJSON(req.CustomerInfo),
			PaymentInfo:  mustJSON(req.PaymentInfo),
			Totals:       mustJSON(models.OrderTotals(totals)),
			Status:       models.OrderStatusPending,
			Items:        items,
		}
		if coupon != nil {
			order.Coupon = mustJSON(coupon)
		}

		if err := Save(db, &order); err != nil {
			if errors.Is(err, ErrDuplicateOrder) {
				c.JSON(http.StatusConflict, gin.H{"error": "order already exists"})
				return
			}
			slog.Error("failed to create order", slog.String("orderId", orderID), slog.Any("error", err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to place order, please try again"})
			return
		}

		c.JSON(http.StatusCreated, order)
	}
}

// GetOrdersHandler serves customer order history. The browser keeps its
// own index of order ids and submits them as a JSON array.
func GetOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Items").Order("created_at DESC")

		if raw := c.Query("ids"); raw != "" {
			var ids []string
			if err := json.Unmarshal([]byte(raw), &ids); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "ids must be a JSON array of order ids"})
				return
			}
			query = query.Where("order_id IN ?", ids)
		}

		var orders []models.Order
		if err := query.Find(&orders).Error; err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GetAllOrdersHandler lists every order for the admin console.
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.Preload("Items").Order("created_at DESC").Find(&orders).Error; err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// UpdateOrderStatusHandler mutates an order's status.
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderId")
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := mapOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var order models.Order
		if err := db.Preload("Items").Where("order_id = ?", orderID).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to fetch order"})
			return
		}

		if err := db.Model(&order).Update("status", newStatus).Error; err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to update order status"})
			return
		}

		order.Status = newStatus
		c.JSON(http.StatusOK, order)
	}
}

// DeleteOrderHandler removes an order and its items. Pending orders are
// still in flight and cannot be deleted.
func DeleteOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderId")

		var order models.Order
		if err := db.Where("order_id = ?", orderID).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to fetch order"})
			return
		}
		if order.Status == models.OrderStatusPending {
			c.JSON(http.StatusConflict, gin.H{"error": "pending orders cannot be deleted"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			return tx.Delete(&order).Error
		})
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to delete order"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
	}
}
