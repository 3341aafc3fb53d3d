package commands

import (
	"context"
	"log/slog"

	"coupon-engine/internal/domain/coupon"
	"coupon-engine/internal/infra"
	sqlc "coupon-engine/internal/infra/sqlc/generated"
	"coupon-engine/internal/usecase/shared"
)

type expiryRecorder struct {
	uow    shared.UnitOfWork
	logger *slog.Logger
}

// NewExpiryRecorder persists expiries found during validation. The write only moves
// ACTIVE coupons, so it never overrides a concurrent USED.
func NewExpiryRecorder(uow shared.UnitOfWork, logger *slog.Logger) coupon.ExpiryRecorder {
	return &expiryRecorder{uow: uow, logger: logger}
}

func (r *expiryRecorder) RecordExpired(ctx context.Context, c *coupon.Coupon) error {
	return r.uow.WithDB(ctx, func(ctx context.Context, db sqlc.DBTX) error {
		err := r.uow.Coupons().TransitionStatus(ctx, db, c.ID(), coupon.StatusActive, coupon.StatusExpired, c.UpdatedAt())
		if infra.IsKind(err, infra.KindConflict) {
			r.logger.InfoContext(ctx, "coupon left ACTIVE before expiry was recorded",
				"coupon_id", c.ID().String())
			return nil
		}
		if err != nil {
			return err
		}

		r.logger.InfoContext(ctx, "coupon expired", "coupon_id", c.ID().String())
		return nil
	})
}
