package commands

import (
	"context"
	"log/slog"
	"time"

	"coupon-engine/internal/domain/coupon"
	"coupon-engine/internal/infra"
	sqlc "coupon-engine/internal/infra/sqlc/generated"
	"coupon-engine/internal/pkg/clock"
	"coupon-engine/internal/pkg/errs"
	"coupon-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=coupon.go -destination=../../../tests/mock/commands/coupon_mock.go -package=commandsmock

type CouponInput struct {
	Type       string
	Status     string // empty means ACTIVE on create and unchanged on update
	ExpiryDate *time.Time
	Details    map[string]any
	Conditions map[string]any
}

type CreateCouponResult struct {
	CouponID uuid.UUID
}

type ApplyResult struct {
	Coupon     *coupon.Coupon
	Cart       coupon.Cart
	Total      decimal.Decimal
	Discount   decimal.Decimal
	FinalPrice decimal.Decimal
}

type CouponCommands interface {
	Create(ctx context.Context, in CouponInput) (*CreateCouponResult, error)
	Update(ctx context.Context, id uuid.UUID, in CouponInput) error
	Delete(ctx context.Context, id uuid.UUID) error
	Apply(ctx context.Context, id uuid.UUID, cart coupon.Cart) (*ApplyResult, error)
}

type couponCommandsImpl struct {
	uow       shared.UnitOfWork
	validator *coupon.Validator
	clock     clock.Clock
	logger    *slog.Logger
}

func NewCouponCommands(uow shared.UnitOfWork, validator *coupon.Validator, clk clock.Clock, logger *slog.Logger) CouponCommands {
	return &couponCommandsImpl{
		uow:       uow,
		validator: validator,
		clock:     clk,
		logger:    logger,
	}
}

func (uc *couponCommandsImpl) Create(ctx context.Context, in CouponInput) (*CreateCouponResult, error) {
	t, status, err := parseTypeAndStatus(in)
	if err != nil {
		return nil, err
	}

	c, err := coupon.NewCoupon(t, status, in.ExpiryDate, in.Details, in.Conditions, uc.clock.Now())
	if err != nil {
		return nil, err
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Coupons().Create(ctx, tx.DB(), c)
	})
	if err != nil {
		return nil, translateRepoErr(err, c.ID())
	}

	uc.logger.InfoContext(ctx, "coupon created",
		"coupon_id", c.ID().String(),
		"type", c.Type().String())
	return &CreateCouponResult{CouponID: c.ID()}, nil
}

func (uc *couponCommandsImpl) Update(ctx context.Context, id uuid.UUID, in CouponInput) error {
	t, status, err := parseTypeAndStatus(in)
	if err != nil {
		return err
	}

	rev := coupon.Revision{
		Type:       t,
		Status:     status,
		ExpiryDate: in.ExpiryDate,
		Details:    in.Details,
		Conditions: in.Conditions,
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		c, derr := tx.Coupons().FindByIDForUpdate(ctx, tx.DB(), id)
		if derr != nil {
			return derr
		}
		if derr = c.Revise(rev, uc.clock.Now()); derr != nil {
			return derr
		}
		return tx.Coupons().Update(ctx, tx.DB(), c)
	})
	if err != nil {
		return translateRepoErr(err, id)
	}
	return nil
}

func (uc *couponCommandsImpl) Delete(ctx context.Context, id uuid.UUID) error {
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		c, derr := tx.Coupons().FindByIDForUpdate(ctx, tx.DB(), id)
		if derr != nil {
			return derr
		}
		if derr = c.EnsureDeletable(); derr != nil {
			return derr
		}
		return tx.Coupons().Delete(ctx, tx.DB(), id)
	})
	if err != nil {
		return translateRepoErr(err, id)
	}
	return nil
}

// Apply validates the coupon against the cart, prices it, and consumes it. The
// coupon is consumed by a conditional ACTIVE→USED write, so of two concurrent
// applies exactly one succeeds and the other gets ErrConflict.
func (uc *couponCommandsImpl) Apply(ctx context.Context, id uuid.UUID, cart coupon.Cart) (*ApplyResult, error) {
	var result *ApplyResult

	err := uc.uow.WithDB(ctx, func(ctx context.Context, db sqlc.DBTX) error {
		repo := uc.uow.Coupons()

		c, err := repo.FindByID(ctx, db, id)
		if err != nil {
			return err
		}
		if err = uc.validator.Validate(ctx, c, cart); err != nil {
			return err
		}

		discount, err := coupon.Discount(c, cart)
		if err != nil {
			return err
		}
		if discount.IsZero() {
			return coupon.ErrConditionsNotMet
		}

		now := uc.clock.Now()
		if err = c.MarkUsed(now); err != nil {
			return err
		}
		if err = repo.TransitionStatus(ctx, db, id, coupon.StatusActive, coupon.StatusUsed, now); err != nil {
			return err
		}

		total := cart.Total()
		result = &ApplyResult{
			Coupon:     c,
			Cart:       cart,
			Total:      total,
			Discount:   discount,
			FinalPrice: total.Sub(discount),
		}
		return nil
	})
	if err != nil {
		return nil, translateRepoErr(err, id)
	}

	uc.logger.InfoContext(ctx, "coupon applied",
		"coupon_id", id.String(),
		"discount", result.Discount.String(),
		"final_price", result.FinalPrice.String())
	return result, nil
}

func parseTypeAndStatus(in CouponInput) (coupon.Type, coupon.Status, error) {
	t, err := coupon.ParseType(in.Type)
	if err != nil {
		return "", "", err
	}
	if in.Status == "" {
		return t, "", nil
	}
	status, err := coupon.ParseStatus(in.Status)
	if err != nil {
		return "", "", err
	}
	return t, status, nil
}

// translateRepoErr maps repository kinds onto the domain classification. Domain
// errors pass through unchanged.
func translateRepoErr(err error, id uuid.UUID) error {
	switch {
	case infra.IsKind(err, infra.KindNotFound):
		return errs.Wrapf(coupon.ErrNotFound, "coupon %s", id)
	case infra.IsKind(err, infra.KindConflict), infra.IsKind(err, infra.KindDuplicateKey):
		return errs.Wrapf(coupon.ErrConflict, "coupon %s", id)
	case infra.IsKind(err, infra.KindConstraintViolated):
		return errs.Wrapf(coupon.ErrInvalid, "coupon %s rejected by storage constraints", id)
	default:
		return err
	}
}
