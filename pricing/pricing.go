// Package pricing computes checkout totals and coupon discounts. All
// functions are pure: the same items, coupon and catalog always produce
// the same totals, so recomputing a persisted order's totals for
// verification matches exactly.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/raihanetx/Next-v/models"
)

var (
	// ErrUnknownProduct is returned when a line item references a product
	// the catalog cannot resolve. A cart that cannot be priced is rejected
	// outright rather than silently summed as zero.
	ErrUnknownProduct = errors.New("line item references unknown product")
	// ErrUnknownTier is returned when the chosen pricing tier index does
	// not exist on the product.
	ErrUnknownTier = errors.New("line item references unknown pricing tier")
	// ErrEmptyCart is returned for a checkout with no line items.
	ErrEmptyCart = errors.New("cart is empty")
)

// CouponError is a user-facing coupon rejection.
type CouponError struct {
	Message string
}

func (e *CouponError) Error() string { return e.Message }

var (
	ErrCouponInactive = &CouponError{Message: "The coupon code is invalid or has expired."}
	ErrCouponNoMatch  = &CouponError{Message: "Coupon is not valid for the items in your cart."}
)

// Item is one checkout line: a product, the chosen tier and a quantity.
type Item struct {
	ProductID uint `json:"productId"`
	TierIndex int  `json:"durationIndex"`
	Quantity  int  `json:"quantity"`
}

// Tier mirrors one purchasable pricing option.
type Tier struct {
	Duration string
	Price    int
}

// Product is the slice of catalog data the engine needs.
type Product struct {
	ID       uint
	Name     string
	Category string // category name, matched by category-scoped coupons
	Tiers    []Tier
}

// Resolver supplies catalog lookups. Controllers back it with the
// database; tests back it with a map.
type Resolver interface {
	Product(id uint) (Product, bool)
}

// Totals is the frozen result persisted on an order.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// MapResolver is a Resolver over an in-memory product set.
type MapResolver map[uint]Product

func (m MapResolver) Product(id uint) (Product, bool) {
	p, ok := m[id]
	return p, ok
}

func lineAmount(item Item, r Resolver) (decimal.Decimal, error) {
	p, ok := r.Product(item.ProductID)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: product %d", ErrUnknownProduct, item.ProductID)
	}
	if item.TierIndex < 0 || item.TierIndex >= len(p.Tiers) {
		return decimal.Zero, fmt.Errorf("%w: product %d tier %d", ErrUnknownTier, item.ProductID, item.TierIndex)
	}
	if item.Quantity <= 0 {
		return decimal.Zero, fmt.Errorf("%w: product %d quantity %d", ErrUnknownTier, item.ProductID, item.Quantity)
	}
	price := decimal.NewFromInt(int64(p.Tiers[item.TierIndex].Price))
	return price.Mul(decimal.NewFromInt(int64(item.Quantity))), nil
}

// Subtotal sums tier price times quantity over all line items.
func Subtotal(items []Item, r Resolver) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, item := range items {
		amount, err := lineAmount(item, r)
		if err != nil {
			return decimal.Zero, err
		}
		sum = sum.Add(amount)
	}
	return sum, nil
}

// matches reports whether a line item falls inside the coupon's scope.
func matches(coupon *models.Coupon, item Item, r Resolver) bool {
	switch coupon.Scope {
	case "", models.CouponScopeAllProducts:
		return true
	case models.CouponScopeCategory:
		p, ok := r.Product(item.ProductID)
		return ok && coupon.ScopeValue != nil && p.Category == *coupon.ScopeValue
	case models.CouponScopeSingleProduct:
		return coupon.ScopeValue != nil && fmt.Sprint(item.ProductID) == *coupon.ScopeValue
	}
	return false
}

// CheckCoupon rejects a coupon that is inactive or whose scope matches
// nothing in the cart. A nil error means the coupon is applicable.
func CheckCoupon(coupon *models.Coupon, items []Item, r Resolver) error {
	if coupon == nil {
		return nil
	}
	if !coupon.IsActive {
		return ErrCouponInactive
	}
	if len(items) == 0 {
		return ErrEmptyCart
	}
	for _, item := range items {
		if matches(coupon, item, r) {
			return nil
		}
	}
	return ErrCouponNoMatch
}

// CalculateTotals prices the cart and applies the coupon, if any, to the
// eligible subset of line items. Total never goes below zero.
func CalculateTotals(items []Item, coupon *models.Coupon, r Resolver) (Totals, error) {
	if len(items) == 0 {
		return Totals{}, ErrEmptyCart
	}

	subtotal, err := Subtotal(items, r)
	if err != nil {
		return Totals{}, err
	}

	discount := decimal.Zero
	if coupon != nil {
		if err := CheckCoupon(coupon, items, r); err != nil {
			return Totals{}, err
		}
		eligible := decimal.Zero
		for _, item := range items {
			if !matches(coupon, item, r) {
				continue
			}
			amount, err := lineAmount(item, r)
			if err != nil {
				return Totals{}, err
			}
			eligible = eligible.Add(amount)
		}
		pct := decimal.NewFromFloat(coupon.DiscountPercentage)
		discount = eligible.Mul(pct).Div(decimal.NewFromInt(100))
	}

	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	subF, _ := subtotal.Float64()
	disF, _ := discount.Float64()
	totF, _ := total.Float64()
	return Totals{Subtotal: subF, Discount: disF, Total: totF}, nil
}
