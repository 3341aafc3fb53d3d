package queries

import (
	"context"
	"log/slog"

	"coupon-engine/internal/domain/coupon"
	"coupon-engine/internal/infra"
	"coupon-engine/internal/pkg/config"
	"coupon-engine/internal/pkg/errs"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -source=coupon.go -destination=../../../tests/mock/queries/coupon_mock.go -package=queriesmock

type CouponReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CouponView, error)
	List(ctx context.Context) ([]*CouponView, error)
	// ListActive returns the aggregates eligible for evaluation, oldest first.
	ListActive(ctx context.Context) ([]*coupon.Coupon, error)
}

type CouponQueries interface {
	Get(ctx context.Context, id uuid.UUID) (*CouponView, error)
	List(ctx context.Context) ([]*CouponView, error)
	ListApplicable(ctx context.Context, cart coupon.Cart) ([]ApplicableCoupon, error)
}

type couponQueriesImpl struct {
	store     CouponReadStore
	validator *coupon.Validator
	workers   int
	logger    *slog.Logger
}

func NewCouponQueries(store CouponReadStore, validator *coupon.Validator, cfg config.Config, logger *slog.Logger) CouponQueries {
	workers := cfg.Engine.EvaluationWorkers
	if workers <= 0 {
		workers = 1
	}
	return &couponQueriesImpl{
		store:     store,
		validator: validator,
		workers:   workers,
		logger:    logger,
	}
}

func (q *couponQueriesImpl) Get(ctx context.Context, id uuid.UUID) (*CouponView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Wrapf(coupon.ErrNotFound, "coupon %s", id)
		}
		return nil, err
	}
	return view, nil
}

func (q *couponQueriesImpl) List(ctx context.Context) ([]*CouponView, error) {
	return q.store.List(ctx)
}

// ListApplicable evaluates every active coupon against its own view of the cart and
// keeps those that validate and yield a positive discount. Validation may expire
// coupons as a side effect. Order follows creation time.
func (q *couponQueriesImpl) ListApplicable(ctx context.Context, cart coupon.Cart) ([]ApplicableCoupon, error) {
	coupons, err := q.store.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	found := make([]*ApplicableCoupon, len(coupons))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(q.workers)

	for i, c := range coupons {
		snapshot := cart.Clone()
		g.Go(func() error {
			if !q.validator.IsApplicable(gctx, c, snapshot) {
				return nil
			}

			discount, err := coupon.Discount(c, snapshot)
			if err != nil {
				if errs.Is(err, coupon.ErrMalformedPayload) {
					q.logger.WarnContext(gctx, "skipping coupon with malformed details",
						"coupon_id", c.ID().String(),
						"error", err.Error())
					return nil
				}
				return err
			}

			if discount.IsPositive() {
				found[i] = &ApplicableCoupon{
					CouponID: c.ID(),
					Type:     c.Type().String(),
					Discount: discount,
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	applicable := make([]ApplicableCoupon, 0, len(found))
	for _, a := range found {
		if a != nil {
			applicable = append(applicable, *a)
		}
	}
	return applicable, nil
}
