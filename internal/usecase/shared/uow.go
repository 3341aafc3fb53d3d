package shared

import (
	"context"
	"time"

	"coupon-engine/internal/domain/coupon"
	sqlc "coupon-engine/internal/infra/sqlc/generated"

	"github.com/google/uuid"
)

//go:generate mockgen -source=uow.go -destination=../../../tests/mock/shared/uow_mock.go -package=sharedmock

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single statements that rely on their own atomicity
	WithDB(ctx context.Context, fn func(ctx context.Context, db sqlc.DBTX) error) error
	// Coupons: Repository for use with WithDB
	Coupons() CouponRepository
}

type Tx interface {
	Coupons() CouponRepository
	DB() sqlc.DBTX
}

type CouponRepository interface {
	FindByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (*coupon.Coupon, error)
	FindByIDForUpdate(ctx context.Context, tx sqlc.DBTX, id uuid.UUID) (*coupon.Coupon, error)
	Create(ctx context.Context, tx sqlc.DBTX, c *coupon.Coupon) error
	Update(ctx context.Context, tx sqlc.DBTX, c *coupon.Coupon) error
	Delete(ctx context.Context, tx sqlc.DBTX, id uuid.UUID) error
	TransitionStatus(ctx context.Context, db sqlc.DBTX, id uuid.UUID, from, to coupon.Status, at time.Time) error
}
