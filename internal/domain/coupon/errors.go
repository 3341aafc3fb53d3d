package coupon

import "coupon-engine/internal/pkg/errs"

// Classification errors. Every failure leaving this package matches exactly one
// of them under errs.Is.
var (
	ErrNotFound         = errs.New("coupon not found")
	ErrExpired          = errs.New("coupon expired")
	ErrInvalid          = errs.New("invalid coupon")
	ErrMalformedPayload = errs.New("malformed coupon payload")
	ErrConflict         = errs.New("coupon modified concurrently")
)

// Reasons. Each wraps ErrInvalid so both the reason and the class match.
var (
	ErrAlreadyUsed       = errs.Wrap(ErrInvalid, "coupon already used")
	ErrInvalidConditions = errs.Wrap(ErrInvalid, "invalid coupon conditions")
	ErrFewerItems        = errs.Wrap(ErrInvalid, "cart has fewer items than required")
	ErrConditionsNotMet  = errs.Wrap(ErrInvalid, "coupon conditions not met")
	ErrInvalidType       = errs.Wrap(ErrInvalid, "invalid coupon type")
	ErrInvalidStatus     = errs.Wrap(ErrInvalid, "invalid coupon status")
	ErrTypeChange        = errs.Wrap(ErrInvalid, "coupon type cannot be changed")
	ErrStatusTransition  = errs.Wrap(ErrInvalid, "illegal coupon status transition")
	ErrUsedNotDeletable  = errs.Wrap(ErrInvalid, "used coupons cannot be deleted")
)

func newExpiredError(c *Coupon) error {
	return errs.Mark(errs.Newf("coupon %s is expired", c.ID()), ErrExpired)
}

func malformed(err error, t Type) error {
	return errs.Mark(errs.Wrapf(err, "decode %s details", t), ErrMalformedPayload)
}
