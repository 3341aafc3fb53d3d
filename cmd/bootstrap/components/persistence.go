package components

import (
	"coupon-engine/internal/infra/cache"
	"coupon-engine/internal/infra/readstore"
	"coupon-engine/internal/infra/repository"
	sqlc "coupon-engine/internal/infra/sqlc/generated"
	"coupon-engine/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	cacheModule,
	readstoreModule,
)

var baseOption = fx.Provide(
	NewDBTX,
	fx.Annotate(
		NewSQLQueries,
		fx.As(new(readstore.CouponReadQueries)),
		fx.As(new(repository.CouponWriteQueries)),
	),
)

// One cache instance backs both the read-through path and write-side invalidation.
var cacheModule = fx.Module("persistence/cache",
	fx.Provide(
		fx.Annotate(
			cache.NewCouponCache,
			fx.As(fx.Self()),
			fx.As(new(readstore.CouponRowCache)),
			fx.As(new(repository.CouponInvalidator)),
		),
	),
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		fx.Annotate(
			readstore.NewCouponReadStore,
			fx.As(new(queries.CouponReadStore)),
		),
	),
)

func NewSQLQueries(_ *pgxpool.Pool) *sqlc.Queries {
	return sqlc.New()
}

func NewDBTX(pool *pgxpool.Pool) sqlc.DBTX {
	return pool
}
