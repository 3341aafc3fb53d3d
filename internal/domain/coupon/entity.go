package coupon

import (
	"maps"
	"time"

	"coupon-engine/internal/pkg/clock"

	"github.com/google/uuid"
)

type Coupon struct {
	id         uuid.UUID
	couponType Type
	status     Status
	expiryDate *time.Time
	// Loaded payloads keep whatever JSON value storage held. Only objects are
	// accepted on create and revise.
	details    any
	conditions any
	createdAt  time.Time
	updatedAt  time.Time
}

// NewCoupon validates the type and details up-front; an empty status means ACTIVE.
func NewCoupon(
	couponType Type,
	status Status,
	expiryDate *time.Time,
	details map[string]any,
	conditions map[string]any,
	now time.Time,
) (*Coupon, error) {
	if !couponType.IsValid() {
		return nil, ErrInvalidType
	}
	if status == "" {
		status = StatusActive
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	if _, err := ParseRule(couponType, details); err != nil {
		return nil, err
	}

	return &Coupon{
		id:         uuid.New(),
		couponType: couponType,
		status:     status,
		expiryDate: normalizeDate(expiryDate),
		details:    maps.Clone(details),
		conditions: maps.Clone(conditions),
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// ReconstructCoupon rebuilds a stored coupon. Payloads are not parsed here so that a
// damaged one still loads: bad details surface as ErrMalformedPayload when evaluated,
// bad conditions as ErrInvalidConditions when validated.
func ReconstructCoupon(
	id uuid.UUID,
	couponType Type,
	status Status,
	expiryDate *time.Time,
	details any,
	conditions any,
	createdAt, updatedAt time.Time,
) (*Coupon, error) {
	if !couponType.IsValid() {
		return nil, ErrInvalidType
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	return &Coupon{
		id:         id,
		couponType: couponType,
		status:     status,
		expiryDate: normalizeDate(expiryDate),
		details:    details,
		conditions: conditions,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}, nil
}

type Revision struct {
	Type       Type
	Status     Status // empty keeps the current status
	ExpiryDate *time.Time
	Details    map[string]any
	Conditions map[string]any
}

// Revise replaces the mutable fields. The type is fixed for life and the status
// may only move along legal transitions.
func (c *Coupon) Revise(r Revision, now time.Time) error {
	if r.Type != c.couponType {
		return ErrTypeChange
	}

	next := r.Status
	if next == "" {
		next = c.status
	}
	if !next.IsValid() {
		return ErrInvalidStatus
	}
	if !c.status.CanTransitionTo(next) {
		return ErrStatusTransition
	}
	if _, err := ParseRule(c.couponType, r.Details); err != nil {
		return err
	}

	c.status = next
	c.expiryDate = normalizeDate(r.ExpiryDate)
	c.details = maps.Clone(r.Details)
	c.conditions = maps.Clone(r.Conditions)
	c.updatedAt = now
	return nil
}

// Expire moves an ACTIVE coupon to EXPIRED and reports whether it did.
func (c *Coupon) Expire(now time.Time) bool {
	if c.status != StatusActive {
		return false
	}
	c.status = StatusExpired
	c.updatedAt = now
	return true
}

func (c *Coupon) MarkUsed(now time.Time) error {
	switch c.status {
	case StatusActive:
		c.status = StatusUsed
		c.updatedAt = now
		return nil
	case StatusUsed:
		return ErrAlreadyUsed
	default:
		return ErrStatusTransition
	}
}

// IsExpiredAt compares calendar dates: a coupon expiring today is still valid today.
func (c *Coupon) IsExpiredAt(now time.Time) bool {
	if c.expiryDate == nil {
		return false
	}
	return c.expiryDate.Before(clock.Date(now))
}

func (c *Coupon) EnsureDeletable() error {
	if c.status == StatusUsed {
		return ErrUsedNotDeletable
	}
	return nil
}

func (c *Coupon) ID() uuid.UUID          { return c.id }
func (c *Coupon) Type() Type             { return c.couponType }
func (c *Coupon) Status() Status         { return c.status }
func (c *Coupon) ExpiryDate() *time.Time { return c.expiryDate }
func (c *Coupon) CreatedAt() time.Time   { return c.createdAt }
func (c *Coupon) UpdatedAt() time.Time   { return c.updatedAt }

// Details returns the details object, or nil when the stored value is not one.
func (c *Coupon) Details() map[string]any { return objectOrNil(c.details) }

// Conditions returns the conditions object, or nil when the stored value is not one.
func (c *Coupon) Conditions() map[string]any { return objectOrNil(c.conditions) }

func objectOrNil(v any) map[string]any {
	m, _ := v.(map[string]any)
	return maps.Clone(m)
}

func normalizeDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := clock.Date(*t)
	return &d
}
