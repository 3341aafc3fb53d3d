package readstore

import (
	"context"
	"log/slog"

	"coupon-engine/internal/domain/coupon"
	"coupon-engine/internal/infra"
	"coupon-engine/internal/infra/cache"
	"coupon-engine/internal/infra/repository/converter"
	sqlc "coupon-engine/internal/infra/sqlc/generated"
	"coupon-engine/internal/pkg/errs"
	"coupon-engine/internal/pkg/pgconv"
	"coupon-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

type CouponReadQueries interface {
	GetCoupon(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Coupons, error)
	ListCoupons(ctx context.Context, db sqlc.DBTX) ([]sqlc.Coupons, error)
	ListCouponsByStatus(ctx context.Context, db sqlc.DBTX, status string) ([]sqlc.Coupons, error)
}

type CouponRowCache interface {
	Ticket() cache.Ticket
	Get(id uuid.UUID) (sqlc.Coupons, bool)
	Set(row sqlc.Coupons, ticket cache.Ticket) bool
}

type CouponReadStore struct {
	queries CouponReadQueries
	db      sqlc.DBTX
	cache   CouponRowCache
}

func NewCouponReadStore(queries CouponReadQueries, db sqlc.DBTX, cache CouponRowCache) *CouponReadStore {
	return &CouponReadStore{
		queries: queries,
		db:      db,
		cache:   cache,
	}
}

func (r *CouponReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.CouponView, error) {
	if row, ok := r.cache.Get(id); ok {
		return toCouponView(row)
	}

	ticket := r.cache.Ticket()
	row, err := r.queries.GetCoupon(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get coupon by id", err)
	}

	view, err := toCouponView(row)
	if err != nil {
		return nil, err
	}
	r.cache.Set(row, ticket)
	return view, nil
}

func (r *CouponReadStore) List(ctx context.Context) ([]*queries.CouponView, error) {
	rows, err := r.queries.ListCoupons(ctx, r.db)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list coupons", err)
	}

	views := make([]*queries.CouponView, 0, len(rows))
	for _, row := range rows {
		view, err := toCouponView(row)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// ListActive skips rows that cannot become an aggregate, so one damaged coupon does
// not hide the rest of the catalog.
func (r *CouponReadStore) ListActive(ctx context.Context) ([]*coupon.Coupon, error) {
	rows, err := r.queries.ListCouponsByStatus(ctx, r.db, coupon.StatusActive.String())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active coupons", err)
	}

	coupons := make([]*coupon.Coupon, 0, len(rows))
	for _, row := range rows {
		c, err := converter.CouponFromRow(row)
		if err != nil {
			slog.WarnContext(ctx, "skipping unreadable coupon row",
				"coupon_id", row.ID.String(),
				"error", err.Error())
			continue
		}
		coupons = append(coupons, c)
	}
	return coupons, nil
}

// toCouponView renders a row. A payload column holding something other than an
// object is shown as absent; evaluation reports it properly.
func toCouponView(row sqlc.Coupons) (*queries.CouponView, error) {
	details, err := pgconv.ValueFromJSONB(row.Details)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode coupon details", errs.Wrapf(err, "coupon %s", row.ID), infra.KindCorruptRow)
	}
	conditions, err := pgconv.ValueFromJSONB(row.Conditions)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode coupon conditions", errs.Wrapf(err, "coupon %s", row.ID), infra.KindCorruptRow)
	}

	return &queries.CouponView{
		ID:         row.ID,
		Type:       row.Type,
		Status:     row.Status,
		ExpiryDate: pgconv.DatePtrFromPgtype(row.ExpiryDate),
		Details:    asObject(details),
		Conditions: asObject(conditions),
		CreatedAt:  pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:  pgconv.TimeFromPgtype(row.UpdatedAt),
	}, nil
}

func asObject(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}
