// Package coupon defines the promotional coupons managed from the dashboard.
package coupon

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xenking/seller-desk/internal/listquery"
)

// DiscountType enumerates the supported coupon discount strategies.
type DiscountType string

const (
	// DiscountPercentage applies a percentage-based discount to the subtotal.
	DiscountPercentage DiscountType = "percentage"
	// DiscountFixed applies a fixed monetary discount capped at the subtotal.
	DiscountFixed DiscountType = "fixed"
)

// Coupon statuses shown in the dashboard list.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusExpired  = "expired"
)

// Coupon is a promotional code with its discount rule and listing state.
type Coupon struct {
	ID           string
	Name         string
	Code         string
	DiscountType DiscountType
	Value        decimal.Decimal
	Status       string
	ExpiresAt    *time.Time
	CreatedAt    time.Time
}

// Repository defines the dashboard's read operations for coupons.
type Repository interface {
	// ListPage returns the requested page together with the total count,
	// both computed from the same predicate in one call.
	ListPage(ctx context.Context, f listquery.Filter) (listquery.Page[Coupon], error)
}
