//go:build unit || e2e

package builder

import (
	"time"

	"coupon-engine/internal/domain/coupon"
	reqdto "coupon-engine/internal/handler/dto/request"
	sqlc "coupon-engine/internal/infra/sqlc/generated"
	"coupon-engine/internal/usecase/queries"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type CouponBuilder struct {
	ID         uuid.UUID
	Type       coupon.Type
	Status     coupon.Status
	ExpiryDate *time.Time
	Details    map[string]any
	Conditions map[string]any
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewCouponBuilder starts from an ACTIVE cart-wise coupon: 10% off above 100.
func NewCouponBuilder() *CouponBuilder {
	now := time.Now()
	return &CouponBuilder{
		ID:        uuid.New(),
		Type:      coupon.TypeCartWise,
		Status:    coupon.StatusActive,
		Details:   map[string]any{"threshold": 100, "discount": 10},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (b *CouponBuilder) With(mutate func(*CouponBuilder)) *CouponBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *CouponBuilder) BuildDomain() (*coupon.Coupon, error) {
	return coupon.NewCoupon(b.Type, b.Status, b.ExpiryDate, b.Details, b.Conditions, b.CreatedAt)
}

// BuildStored skips details validation, like loading a row from storage.
func (b *CouponBuilder) BuildStored() *coupon.Coupon {
	c, err := coupon.ReconstructCoupon(b.ID, b.Type, b.Status, b.ExpiryDate, b.Details, b.Conditions, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		panic(err)
	}
	return c
}

func (b *CouponBuilder) BuildInfra() sqlc.Coupons {
	details, _ := json.Marshal(b.Details)
	var conditions []byte
	if b.Conditions != nil {
		conditions, _ = json.Marshal(b.Conditions)
	}
	var expiry pgtype.Date
	if b.ExpiryDate != nil {
		expiry = pgtype.Date{Time: *b.ExpiryDate, Valid: true}
	}
	return sqlc.Coupons{
		ID:         b.ID,
		Type:       string(b.Type),
		Status:     string(b.Status),
		ExpiryDate: expiry,
		Details:    details,
		Conditions: conditions,
		CreatedAt:  pgtype.Timestamptz{Time: b.CreatedAt, Valid: true},
		UpdatedAt:  pgtype.Timestamptz{Time: b.UpdatedAt, Valid: true},
	}
}

func (b *CouponBuilder) BuildCreateRequestDTO() reqdto.CouponRequest {
	req := reqdto.CouponRequest{
		Type:       string(b.Type),
		Details:    b.Details,
		Conditions: b.Conditions,
	}
	if b.Status != "" {
		status := string(b.Status)
		req.Status = &status
	}
	if b.ExpiryDate != nil {
		d := reqdto.Date(*b.ExpiryDate)
		req.ExpiryDate = &d
	}
	return req
}

func (b *CouponBuilder) BuildView() *queries.CouponView {
	return &queries.CouponView{
		ID:         b.ID,
		Type:       string(b.Type),
		Status:     string(b.Status),
		ExpiryDate: b.ExpiryDate,
		Details:    b.Details,
		Conditions: b.Conditions,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

// Fluent builder methods
func (b *CouponBuilder) WithID(id uuid.UUID) *CouponBuilder {
	b.ID = id
	return b
}

func (b *CouponBuilder) WithStatus(status coupon.Status) *CouponBuilder {
	b.Status = status
	return b
}

func (b *CouponBuilder) WithExpiryDate(t time.Time) *CouponBuilder {
	b.ExpiryDate = &t
	return b
}

func (b *CouponBuilder) WithDetails(details map[string]any) *CouponBuilder {
	b.Details = details
	return b
}

func (b *CouponBuilder) WithConditions(conditions map[string]any) *CouponBuilder {
	b.Conditions = conditions
	return b
}

func (b *CouponBuilder) WithMinItems(n int) *CouponBuilder {
	if b.Conditions == nil {
		b.Conditions = map[string]any{}
	}
	b.Conditions["min_items"] = n
	return b
}

func (b *CouponBuilder) AsCartWise(threshold, percent float64) *CouponBuilder {
	b.Type = coupon.TypeCartWise
	b.Details = map[string]any{"threshold": threshold, "discount": percent}
	return b
}

func (b *CouponBuilder) AsProductWise(productID int64, percent float64) *CouponBuilder {
	b.Type = coupon.TypeProductWise
	b.Details = map[string]any{"product_id": productID, "discount": percent}
	return b
}

// AsBxGy builds a single buy entry and a single get entry.
func (b *CouponBuilder) AsBxGy(buyProduct int64, buyQty int, getProduct int64, getQty int) *CouponBuilder {
	b.Type = coupon.TypeBxGy
	b.Details = map[string]any{
		"buy_products": []any{map[string]any{"product_id": buyProduct, "quantity": buyQty}},
		"get_products": []any{map[string]any{"product_id": getProduct, "quantity": getQty}},
	}
	return b
}

func (b *CouponBuilder) AsUsed() *CouponBuilder {
	b.Status = coupon.StatusUsed
	return b
}

func (b *CouponBuilder) AsExpiredOn(t time.Time) *CouponBuilder {
	b.ExpiryDate = &t
	return b
}
