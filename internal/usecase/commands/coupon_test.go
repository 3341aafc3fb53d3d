//go:build unit

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"coupon-engine/internal/domain/coupon"
	"coupon-engine/internal/infra"
	sqlc "coupon-engine/internal/infra/sqlc/generated"
	"coupon-engine/internal/pkg/clock"
	"coupon-engine/internal/pkg/errs"
	"coupon-engine/internal/usecase/commands"
	"coupon-engine/internal/usecase/shared"
	"coupon-engine/tests/common/builder"
	sharedmock "coupon-engine/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2026, 4, 15, 9, 30, 0, 0, time.UTC)

type fixture struct {
	uow   *sharedmock.MockUnitOfWork
	tx    *sharedmock.MockTx
	repo  *sharedmock.MockCouponRepository
	clock *clock.MockClock
	cmds  commands.CouponCommands
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		uow:   sharedmock.NewMockUnitOfWork(ctrl),
		tx:    sharedmock.NewMockTx(ctrl),
		repo:  sharedmock.NewMockCouponRepository(ctrl),
		clock: clock.NewMockClock(fixedNow),
	}

	f.uow.EXPECT().Within(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
			return fn(ctx, f.tx)
		}).AnyTimes()
	f.uow.EXPECT().WithDB(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, sqlc.DBTX) error) error {
			return fn(ctx, nil)
		}).AnyTimes()
	f.uow.EXPECT().Coupons().Return(f.repo).AnyTimes()
	f.tx.EXPECT().Coupons().Return(f.repo).AnyTimes()
	f.tx.EXPECT().DB().Return(nil).AnyTimes()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	validator := coupon.NewValidator(f.clock, commands.NewExpiryRecorder(f.uow, logger))
	f.cmds = commands.NewCouponCommands(f.uow, validator, f.clock, logger)
	return f
}

func notFound() error {
	return infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

// =============================================================================
// Apply Tests
// =============================================================================

func TestCouponCommands_Apply(t *testing.T) {
	ctx := context.Background()

	successCases := []struct {
		name     string
		coupon   *builder.CouponBuilder
		cart     *builder.CartBuilder
		total    string
		discount string
		final    string
	}{
		{
			name:     "cart-wise",
			coupon:   builder.NewCouponBuilder().AsCartWise(250, 10),
			cart:     builder.NewCartBuilder().WithItem(1, 3, 100),
			total:    "300",
			discount: "30",
			final:    "270",
		},
		{
			name:     "product-wise",
			coupon:   builder.NewCouponBuilder().AsProductWise(1, 20),
			cart:     builder.NewCartBuilder().WithItem(1, 2, 50),
			total:    "100",
			discount: "20",
			final:    "80",
		},
		{
			name:     "bxgy",
			coupon:   builder.NewCouponBuilder().AsBxGy(1, 2, 2, 1),
			cart:     builder.NewCartBuilder().WithItem(1, 2, 30).WithItem(2, 1, 40),
			total:    "100",
			discount: "40",
			final:    "60",
		},
		{
			name:     "discount above the total is not floored",
			coupon:   builder.NewCouponBuilder().AsBxGy(1, 1, 2, 5),
			cart:     builder.NewCartBuilder().WithItem(1, 1, 10).WithItem(2, 1, 40),
			total:    "50",
			discount: "200",
			final:    "-150",
		},
		{
			name:     "negative discount from a stored rule is applied as computed",
			coupon:   builder.NewCouponBuilder().WithDetails(map[string]any{"threshold": 100, "discount": -10}),
			cart:     builder.NewCartBuilder().WithItem(1, 3, 100),
			total:    "300",
			discount: "-30",
			final:    "330",
		},
	}

	for _, tc := range successCases {
		t.Run("success: "+tc.name, func(t *testing.T) {
			f := newFixture(t)
			stored := tc.coupon.BuildStored()
			f.repo.EXPECT().FindByID(gomock.Any(), gomock.Any(), stored.ID()).Return(stored, nil)
			f.repo.EXPECT().TransitionStatus(gomock.Any(), gomock.Any(), stored.ID(), coupon.StatusActive, coupon.StatusUsed, fixedNow).Return(nil)

			result, err := f.cmds.Apply(ctx, stored.ID(), tc.cart.BuildDomain())
			require.NoError(t, err)

			assertDecimal(t, tc.total, result.Total)
			assertDecimal(t, tc.discount, result.Discount)
			assertDecimal(t, tc.final, result.FinalPrice)
			assert.True(t, result.Total.Sub(result.Discount).Equal(result.FinalPrice))
			assert.Equal(t, coupon.StatusUsed, result.Coupon.Status())
			assert.Len(t, result.Cart.Items, len(tc.cart.Items))
		})
	}

	failureCases := []struct {
		name   string
		coupon *builder.CouponBuilder
		cart   *builder.CartBuilder
		setup  func(f *fixture, id uuid.UUID)
		errIs  error
	}{
		{
			name:   "already used coupon",
			coupon: builder.NewCouponBuilder().AsUsed(),
			cart:   builder.NewCartBuilder().WithItem(1, 3, 100),
			errIs:  coupon.ErrAlreadyUsed,
		},
		{
			name:   "used and past expiry reports already used",
			coupon: builder.NewCouponBuilder().AsUsed().AsExpiredOn(fixedNow.AddDate(0, 0, -3)),
			cart:   builder.NewCartBuilder().WithItem(1, 3, 100),
			errIs:  coupon.ErrAlreadyUsed,
		},
		{
			name:   "past expiry records the expiry",
			coupon: builder.NewCouponBuilder().AsExpiredOn(fixedNow.AddDate(0, 0, -1)),
			cart:   builder.NewCartBuilder().WithItem(1, 3, 100),
			setup: func(f *fixture, id uuid.UUID) {
				f.repo.EXPECT().TransitionStatus(gomock.Any(), gomock.Any(), id, coupon.StatusActive, coupon.StatusExpired, fixedNow).Return(nil)
			},
			errIs: coupon.ErrExpired,
		},
		{
			name:   "expiry lost to a concurrent change still reports expired",
			coupon: builder.NewCouponBuilder().AsExpiredOn(fixedNow.AddDate(0, 0, -1)),
			cart:   builder.NewCartBuilder().WithItem(1, 3, 100),
			setup: func(f *fixture, id uuid.UUID) {
				f.repo.EXPECT().TransitionStatus(gomock.Any(), gomock.Any(), id, coupon.StatusActive, coupon.StatusExpired, fixedNow).
					Return(infra.WrapRepoErr("coupon status changed concurrently", nil, infra.KindConflict))
			},
			errIs: coupon.ErrExpired,
		},
		{
			name:   "cart below min_items",
			coupon: builder.NewCouponBuilder().WithMinItems(5),
			cart:   builder.NewCartBuilder().WithItem(1, 3, 100),
			errIs:  coupon.ErrFewerItems,
		},
		{
			name:   "invalid min_items",
			coupon: builder.NewCouponBuilder().WithConditions(map[string]any{"min_items": "five"}),
			cart:   builder.NewCartBuilder().WithItem(1, 3, 100),
			errIs:  coupon.ErrInvalidConditions,
		},
		{
			name:   "zero discount",
			coupon: builder.NewCouponBuilder().AsCartWise(500, 10),
			cart:   builder.NewCartBuilder().WithItem(1, 3, 100),
			errIs:  coupon.ErrConditionsNotMet,
		},
		{
			name:   "malformed details",
			coupon: builder.NewCouponBuilder().WithDetails(map[string]any{"threshold": 10}),
			cart:   builder.NewCartBuilder().WithItem(1, 3, 100),
			errIs:  coupon.ErrMalformedPayload,
		},
		{
			name:   "concurrent apply wins the race",
			coupon: builder.NewCouponBuilder().AsCartWise(250, 10),
			cart:   builder.NewCartBuilder().WithItem(1, 3, 100),
			setup: func(f *fixture, id uuid.UUID) {
				f.repo.EXPECT().TransitionStatus(gomock.Any(), gomock.Any(), id, coupon.StatusActive, coupon.StatusUsed, fixedNow).
					Return(infra.WrapRepoErr("coupon status changed concurrently", nil, infra.KindConflict))
			},
			errIs: coupon.ErrConflict,
		},
	}

	for _, tc := range failureCases {
		t.Run("error: "+tc.name, func(t *testing.T) {
			f := newFixture(t)
			stored := tc.coupon.BuildStored()
			f.repo.EXPECT().FindByID(gomock.Any(), gomock.Any(), stored.ID()).Return(stored, nil)
			if tc.setup != nil {
				tc.setup(f, stored.ID())
			}

			result, err := f.cmds.Apply(ctx, stored.ID(), tc.cart.BuildDomain())
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, errs.Is(err, tc.errIs), "expected %v, got %v", tc.errIs, err)
		})
	}

	t.Run("error: coupon not found", func(t *testing.T) {
		f := newFixture(t)
		id := uuid.New()
		f.repo.EXPECT().FindByID(gomock.Any(), gomock.Any(), id).Return(nil, notFound())

		_, err := f.cmds.Apply(ctx, id, builder.NewCartBuilder().WithItem(1, 1, 10).BuildDomain())
		assert.True(t, errs.Is(err, coupon.ErrNotFound), "got %v", err)
		assert.Contains(t, err.Error(), id.String())
	})
}

// =============================================================================
// Create Tests
// =============================================================================

func TestCouponCommands_Create(t *testing.T) {
	ctx := context.Background()
	expiry := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	t.Run("success: defaults to active", func(t *testing.T) {
		f := newFixture(t)
		var saved *coupon.Coupon
		f.repo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ sqlc.DBTX, c *coupon.Coupon) error {
				saved = c
				return nil
			})

		result, err := f.cmds.Create(ctx, commands.CouponInput{
			Type:       "PRODUCT_WISE",
			ExpiryDate: &expiry,
			Details:    map[string]any{"product_id": 1, "discount": 20},
		})
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, saved.ID(), result.CouponID)
		assert.Equal(t, coupon.StatusActive, saved.Status())
		assert.Equal(t, coupon.TypeProductWise, saved.Type())
		assert.Equal(t, fixedNow, saved.CreatedAt())
	})

	validationCases := []struct {
		name  string
		input commands.CouponInput
		errIs error
	}{
		{
			name:  "unknown type",
			input: commands.CouponInput{Type: "FLAT", Details: map[string]any{"discount": 5}},
			errIs: coupon.ErrInvalidType,
		},
		{
			name:  "unknown status",
			input: commands.CouponInput{Type: "CART_WISE", Status: "PAUSED", Details: map[string]any{"threshold": 1, "discount": 5}},
			errIs: coupon.ErrInvalidStatus,
		},
		{
			name:  "details do not fit the type",
			input: commands.CouponInput{Type: "BXGY", Details: map[string]any{"threshold": 1, "discount": 5}},
			errIs: coupon.ErrMalformedPayload,
		},
	}

	for _, tc := range validationCases {
		t.Run("error: "+tc.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.cmds.Create(ctx, tc.input)
			assert.True(t, errs.Is(err, tc.errIs), "expected %v, got %v", tc.errIs, err)
		})
	}

	t.Run("error: duplicate id is a conflict", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(infra.WrapRepoErr("failed to create coupon", &pgconn.PgError{Code: "23505"}))

		_, err := f.cmds.Create(ctx, commands.CouponInput{Type: "CART_WISE", Details: map[string]any{"threshold": 1, "discount": 5}})
		assert.True(t, errs.Is(err, coupon.ErrConflict), "got %v", err)
	})
}

// =============================================================================
// Update Tests
// =============================================================================

func TestCouponCommands_Update(t *testing.T) {
	ctx := context.Background()
	input := func() commands.CouponInput {
		return commands.CouponInput{
			Type:       "CART_WISE",
			Details:    map[string]any{"threshold": 400, "discount": 15},
			Conditions: map[string]any{"min_items": 2},
		}
	}

	t.Run("success: revision is persisted", func(t *testing.T) {
		f := newFixture(t)
		stored := builder.NewCouponBuilder().BuildStored()
		f.repo.EXPECT().FindByIDForUpdate(gomock.Any(), gomock.Any(), stored.ID()).Return(stored, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), stored).
			DoAndReturn(func(_ context.Context, _ sqlc.DBTX, c *coupon.Coupon) error {
				assert.Equal(t, 400, c.Details()["threshold"])
				assert.Equal(t, fixedNow, c.UpdatedAt())
				return nil
			})

		require.NoError(t, f.cmds.Update(ctx, stored.ID(), input()))
	})

	t.Run("error: coupon not found", func(t *testing.T) {
		f := newFixture(t)
		id := uuid.New()
		f.repo.EXPECT().FindByIDForUpdate(gomock.Any(), gomock.Any(), id).Return(nil, notFound())

		err := f.cmds.Update(ctx, id, input())
		assert.True(t, errs.Is(err, coupon.ErrNotFound), "got %v", err)
	})

	t.Run("error: type change", func(t *testing.T) {
		f := newFixture(t)
		stored := builder.NewCouponBuilder().AsProductWise(1, 5).BuildStored()
		f.repo.EXPECT().FindByIDForUpdate(gomock.Any(), gomock.Any(), stored.ID()).Return(stored, nil)

		err := f.cmds.Update(ctx, stored.ID(), input())
		assert.True(t, errs.Is(err, coupon.ErrTypeChange), "got %v", err)
	})

	t.Run("error: reactivating a used coupon", func(t *testing.T) {
		f := newFixture(t)
		stored := builder.NewCouponBuilder().AsUsed().BuildStored()
		f.repo.EXPECT().FindByIDForUpdate(gomock.Any(), gomock.Any(), stored.ID()).Return(stored, nil)

		in := input()
		in.Status = "ACTIVE"
		err := f.cmds.Update(ctx, stored.ID(), in)
		assert.True(t, errs.Is(err, coupon.ErrStatusTransition), "got %v", err)
		assert.True(t, errs.Is(err, coupon.ErrInvalid))
	})
}

// =============================================================================
// Delete Tests
// =============================================================================

func TestCouponCommands_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success: active coupon deleted", func(t *testing.T) {
		f := newFixture(t)
		stored := builder.NewCouponBuilder().BuildStored()
		f.repo.EXPECT().FindByIDForUpdate(gomock.Any(), gomock.Any(), stored.ID()).Return(stored, nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any(), stored.ID()).Return(nil)

		require.NoError(t, f.cmds.Delete(ctx, stored.ID()))
	})

	t.Run("error: used coupon is kept", func(t *testing.T) {
		f := newFixture(t)
		stored := builder.NewCouponBuilder().AsUsed().BuildStored()
		f.repo.EXPECT().FindByIDForUpdate(gomock.Any(), gomock.Any(), stored.ID()).Return(stored, nil)

		err := f.cmds.Delete(ctx, stored.ID())
		assert.True(t, errs.Is(err, coupon.ErrUsedNotDeletable), "got %v", err)
	})

	t.Run("error: coupon not found", func(t *testing.T) {
		f := newFixture(t)
		id := uuid.New()
		f.repo.EXPECT().FindByIDForUpdate(gomock.Any(), gomock.Any(), id).Return(nil, notFound())

		err := f.cmds.Delete(ctx, id)
		assert.True(t, errs.Is(err, coupon.ErrNotFound), "got %v", err)
	})
}
