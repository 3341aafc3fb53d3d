package repository

import (
	"context"
	"time"

	"coupon-engine/internal/domain/coupon"
	"coupon-engine/internal/infra"
	"coupon-engine/internal/infra/repository/converter"
	sqlc "coupon-engine/internal/infra/sqlc/generated"
	"coupon-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
)

//go:generate mockgen -source=coupon.go -destination=../../../tests/mock/repository/coupon_mock.go -package=repositorymock

type CouponWriteQueries interface {
	GetCoupon(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Coupons, error)
	GetCouponForUpdate(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Coupons, error)
	InsertCoupon(ctx context.Context, db sqlc.DBTX, arg sqlc.InsertCouponParams) (sqlc.Coupons, error)
	UpdateCoupon(ctx context.Context, db sqlc.DBTX, arg sqlc.UpdateCouponParams) (int64, error)
	DeleteCoupon(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (int64, error)
	TransitionCouponStatus(ctx context.Context, db sqlc.DBTX, arg sqlc.TransitionCouponStatusParams) (int64, error)
}

// CouponInvalidator drops cached reads after a write.
type CouponInvalidator interface {
	Invalidate(id uuid.UUID)
}

type CouponRepository struct {
	queries CouponWriteQueries
	cache   CouponInvalidator
}

func NewCouponRepository(queries CouponWriteQueries, cache CouponInvalidator) *CouponRepository {
	return &CouponRepository{
		queries: queries,
		cache:   cache,
	}
}

// FindByID always reads through to the database.
func (r *CouponRepository) FindByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (*coupon.Coupon, error) {
	row, err := r.queries.GetCoupon(ctx, db, id)
	return r.toDomain(row, err)
}

// FindByIDForUpdate locks the row until the surrounding transaction ends.
func (r *CouponRepository) FindByIDForUpdate(ctx context.Context, tx sqlc.DBTX, id uuid.UUID) (*coupon.Coupon, error) {
	row, err := r.queries.GetCouponForUpdate(ctx, tx, id)
	return r.toDomain(row, err)
}

func (r *CouponRepository) Create(ctx context.Context, tx sqlc.DBTX, c *coupon.Coupon) error {
	params, err := converter.CouponToInsertParams(c)
	if err != nil {
		return infra.WrapRepoErr("failed to encode coupon", err, infra.KindCorruptRow)
	}
	if _, err := r.queries.InsertCoupon(ctx, tx, params); err != nil {
		return infra.WrapRepoErr("failed to create coupon", err)
	}
	return nil
}

func (r *CouponRepository) Update(ctx context.Context, tx sqlc.DBTX, c *coupon.Coupon) error {
	params, err := converter.CouponToUpdateParams(c)
	if err != nil {
		return infra.WrapRepoErr("failed to encode coupon", err, infra.KindCorruptRow)
	}
	affected, err := r.queries.UpdateCoupon(ctx, tx, params)
	if err != nil {
		return infra.WrapRepoErr("failed to update coupon", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	r.invalidate(ctx, c.ID())
	return nil
}

func (r *CouponRepository) Delete(ctx context.Context, tx sqlc.DBTX, id uuid.UUID) error {
	affected, err := r.queries.DeleteCoupon(ctx, tx, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete coupon", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	r.invalidate(ctx, id)
	return nil
}

// TransitionStatus moves the coupon from one status to another only if it still holds
// the expected one. Losing that race is reported as KindConflict.
func (r *CouponRepository) TransitionStatus(ctx context.Context, db sqlc.DBTX, id uuid.UUID, from, to coupon.Status, at time.Time) error {
	affected, err := r.queries.TransitionCouponStatus(ctx, db, sqlc.TransitionCouponStatusParams{
		ID:         id,
		FromStatus: from.String(),
		ToStatus:   to.String(),
		UpdatedAt:  pgconv.TimeToPgtype(at),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to transition coupon status", err)
	}
	r.invalidate(ctx, id)
	if affected == 0 {
		return infra.WrapRepoErr("coupon status changed concurrently", nil, infra.KindConflict)
	}
	return nil
}

// Cached reads are dropped once the write is visible to other connections.
func (r *CouponRepository) invalidate(ctx context.Context, id uuid.UUID) {
	infra.AfterCommit(ctx, func() { r.cache.Invalidate(id) })
}

func (r *CouponRepository) toDomain(row sqlc.Coupons, err error) (*coupon.Coupon, error) {
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon", err)
	}

	c, err := converter.CouponFromRow(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert coupon row", err, infra.KindCorruptRow)
	}
	return c, nil
}
