package components

import (
	"coupon-engine/internal/infra/repository"
	"coupon-engine/internal/infra/uow"
	"coupon-engine/internal/usecase/shared"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repository.NewCouponRepository,
			fx.As(new(shared.CouponRepository)),
		),
		uow.NewPostgresUoW,
	),
)
