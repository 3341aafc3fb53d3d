package uow

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"coupon-engine/internal/infra"
	sqlc "coupon-engine/internal/infra/sqlc/generated"
	"coupon-engine/internal/pkg/config"
	"coupon-engine/internal/pkg/errs"
	"coupon-engine/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

// SQLSTATEs worth running the whole transaction again for.
var retryableCodes = map[string]string{
	"40001": "serialization_failure",
	"40P01": "deadlock_detected",
}

type RetryPolicy struct {
	MaxRetries int
	Base       time.Duration
}

var DefaultRetryPolicy = RetryPolicy{MaxRetries: 3, Base: 100 * time.Millisecond}

// Backoff doubles per attempt and adds up to 20% jitter.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	wait := time.Duration(1<<attempt) * p.Base
	if jitter := int64(wait / 5); jitter > 0 {
		wait += time.Duration(rand.Int64N(jitter))
	}
	return wait
}

func (p RetryPolicy) shouldRetry(err error, attempt int) bool {
	return attempt < p.MaxRetries && isRetryableError(err)
}

type PostgresUoW struct {
	pool    *pgxpool.Pool
	coupons shared.CouponRepository
	policy  RetryPolicy
	logger  *slog.Logger
}

func NewPostgresUoW(pool *pgxpool.Pool, coupons shared.CouponRepository, cfg config.Config, logger *slog.Logger) shared.UnitOfWork {
	policy := RetryPolicy{MaxRetries: cfg.DB.TxMaxRetries, Base: cfg.DB.TxRetryBase}
	if policy.Base <= 0 {
		policy = DefaultRetryPolicy
	}
	return &PostgresUoW{
		pool:    pool,
		coupons: coupons,
		policy:  policy,
		logger:  logger,
	}
}

// ReadCommitted plus the row lock taken by FindByIDForUpdate is enough for
// single-coupon writes.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

func (u *PostgresUoW) WithDB(ctx context.Context, fn func(ctx context.Context, db sqlc.DBTX) error) error {
	return fn(ctx, u.pool)
}

func (u *PostgresUoW) Coupons() shared.CouponRepository {
	return u.coupons
}

// Each attempt settles its own transaction before the next begins, so no defers
// pile up across the loop.
func (u *PostgresUoW) runInTx(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	for attempt := 0; ; attempt++ {
		err := u.attempt(ctx, options, fn)
		if err == nil {
			return nil
		}

		if !u.policy.shouldRetry(err, attempt) {
			if isRetryableError(err) {
				u.logger.ErrorContext(ctx, "transaction failed after max retries",
					"attempts", attempt+1,
					"error", err.Error())
				return errs.Mark(err, errMaxRetriesExceeded)
			}
			return err
		}

		wait := u.policy.Backoff(attempt)
		u.logger.WarnContext(ctx, "retrying transaction",
			"attempt", attempt+1,
			"sqlstate", sqlState(err),
			"wait_ms", wait.Milliseconds())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (u *PostgresUoW) attempt(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, options)
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}

	txCtx, hooks := infra.WithCommitHooks(ctx)
	err = fn(txCtx, &pgTx{dbtx: pgxTx, coupons: u.coupons})
	if err == nil {
		if err = pgxTx.Commit(ctx); err == nil {
			hooks.Run()
			return nil
		}
		err = errs.Mark(err, errTransactionCommit)
	}

	if rbErr := pgxTx.Rollback(ctx); rbErr != nil && !errs.Is(rbErr, pgx.ErrTxClosed) {
		u.logger.WarnContext(ctx, "rollback failed", "error", rbErr.Error())
	}
	return err
}

func isRetryableError(err error) bool {
	_, ok := retryableCodes[sqlState(err)]
	return ok
}

func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if !errs.As(err, &pgErr) {
		return ""
	}
	return pgErr.Code
}

type pgTx struct {
	dbtx    sqlc.DBTX
	coupons shared.CouponRepository
}

func (t *pgTx) DB() sqlc.DBTX {
	return t.dbtx
}

func (t *pgTx) Coupons() shared.CouponRepository {
	return t.coupons
}
