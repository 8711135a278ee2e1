package models

import (
	"errors"
	"strings"
	"time"
)

type CouponScope string

const (
	CouponScopeAllProducts   CouponScope = "all_products"
	CouponScopeCategory      CouponScope = "category"
	CouponScopeSingleProduct CouponScope = "single_product"
)

type Coupon struct {
	ID                 uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	Code               string      `gorm:"uniqueIndex;not null" json:"code"`
	DiscountPercentage float64     `gorm:"not null" json:"discountPercentage"`
	Scope              CouponScope `gorm:"type:VARCHAR(20);default:'all_products'" json:"scope"`
	ScopeValue         *string     `json:"scopeValue,omitempty"`
	IsActive           bool        `gorm:"default:true" json:"isActive"`
	CreatedAt          time.Time   `json:"createdAt"`
}

var ErrInvalidCoupon = errors.New("invalid coupon definition")

// Normalize upper-cases the code and checks the scope invariant: a
// category or single_product coupon must carry a scope value.
func (c *Coupon) Normalize() error {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	if c.Code == "" {
		return ErrInvalidCoupon
	}
	if c.DiscountPercentage < 0 || c.DiscountPercentage > 100 {
		return ErrInvalidCoupon
	}
	switch c.Scope {
	case "", CouponScopeAllProducts:
		c.Scope = CouponScopeAllProducts
	case CouponScopeCategory, CouponScopeSingleProduct:
		if c.ScopeValue == nil || strings.TrimSpace(*c.ScopeValue) == "" {
			return ErrInvalidCoupon
		}
	default:
		return ErrInvalidCoupon
	}
	return nil
}
