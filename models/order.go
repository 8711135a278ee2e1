package models

import (
	"time"

	"gorm.io/datatypes"
)

type OrderStatus string

const (
	// Order statuses. Manual orders start Pending; gateway orders created
	// from a verified COMPLETED transaction start Confirmed.
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusConfirmed OrderStatus = "Confirmed"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

type Order struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID string `gorm:"uniqueIndex;not null" json:"orderId"`

	// TransactionID is the gateway transaction reference for gateway-paid
	// orders. The unique index is the authoritative dedupe guard for
	// repeated webhook deliveries.
	TransactionID *string `gorm:"uniqueIndex" json:"transactionId,omitempty"`

	// Snapshots taken at order-creation time. Later edits to products or
	// coupons never touch these.
	CustomerInfo datatypes.JSON `gorm:"not null" json:"customerInfo"`
	PaymentInfo  datatypes.JSON `gorm:"not null" json:"paymentInfo"`
	Totals       datatypes.JSON `gorm:"not null" json:"totals"`
	Coupon       datatypes.JSON `json:"coupon,omitempty"`

	Status OrderStatus `gorm:"type:VARCHAR(20);default:'Pending'" json:"status"`
	Items  []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OrderItem snapshots the product name and the chosen pricing tier at
// transaction time. ProductID is a soft reference kept for admin display.
type OrderItem struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint           `gorm:"index;not null" json:"-"`
	ProductID uint           `json:"productId"`
	Name      string         `gorm:"not null" json:"name"`
	Quantity  int            `gorm:"not null" json:"quantity"`
	Pricing   datatypes.JSON `gorm:"not null" json:"pricing"`
}

// CustomerInfo is the embedded customer document stored on an order.
type CustomerInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address,omitempty"`
}

// PaymentInfo is the embedded payment document stored on an order.
type PaymentInfo struct {
	Method        string `json:"method"`
	TrxID         string `json:"trx_id,omitempty"`
	TransactionID string `json:"transactionId,omitempty"`
	Amount        string `json:"amount,omitempty"`
	Fee           string `json:"fee,omitempty"`
	Currency      string `json:"currency,omitempty"`
	Status        string `json:"status,omitempty"`
}

// OrderTotals is the frozen totals document stored on an order.
type OrderTotals struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// PricingSnapshot is the per-item copy of the chosen tier.
type PricingSnapshot struct {
	Duration string `json:"duration"`
	Price    int    `json:"price"`
}
