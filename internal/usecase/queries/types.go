package queries

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CouponView represents read-optimized coupon data
type CouponView struct {
	ID         uuid.UUID      `json:"id"`
	Type       string         `json:"type"`
	Status     string         `json:"status"`
	ExpiryDate *time.Time     `json:"expiry_date,omitempty"`
	Details    map[string]any `json:"details"`
	Conditions map[string]any `json:"conditions,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// ApplicableCoupon is one entry of the applicable listing for a cart.
type ApplicableCoupon struct {
	CouponID uuid.UUID       `json:"coupon_id"`
	Type     string          `json:"type"`
	Discount decimal.Decimal `json:"discount"`
}
