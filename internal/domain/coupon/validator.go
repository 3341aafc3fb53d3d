package coupon

import (
	"context"

	"coupon-engine/internal/pkg/clock"
	"coupon-engine/internal/pkg/errs"
)

// ExpiryRecorder persists the ACTIVE→EXPIRED transition that validation discovers.
type ExpiryRecorder interface {
	RecordExpired(ctx context.Context, c *Coupon) error
}

type Validator struct {
	clock  clock.Clock
	expiry ExpiryRecorder
}

func NewValidator(clk clock.Clock, expiry ExpiryRecorder) *Validator {
	return &Validator{clock: clk, expiry: expiry}
}

// Validate checks status, then expiry, then conditions, and stops at the first
// failure. It is not read-only: finding an ACTIVE coupon past its expiry date moves
// it to EXPIRED and records that through the ExpiryRecorder.
func (v *Validator) Validate(ctx context.Context, c *Coupon, cart Cart) error {
	if c.Status() == StatusUsed {
		return ErrAlreadyUsed
	}

	now := v.clock.Now()
	if c.Status() == StatusExpired || c.IsExpiredAt(now) {
		if c.Expire(now) {
			if err := v.expiry.RecordExpired(ctx, c); err != nil {
				return errs.Wrap(err, "record coupon expiry")
			}
		}
		return newExpiredError(c)
	}

	return checkConditions(c.conditions, cart)
}

// IsApplicable folds every validation failure into false. A true result says
// nothing about whether the discount is positive.
func (v *Validator) IsApplicable(ctx context.Context, c *Coupon, cart Cart) bool {
	return v.Validate(ctx, c, cart) == nil
}
