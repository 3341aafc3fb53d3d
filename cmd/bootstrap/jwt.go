package bootstrap

import (
	"coupon-engine/internal/pkg/config"
	"coupon-engine/internal/pkg/jwt"
	"coupon-engine/internal/usecase"

	"go.uber.org/fx"
)

var JWTModule = fx.Module("jwt",
	fx.Provide(
		NewJWTService,
		usecase.NewTokenValidator,
	),
)

func NewJWTService(cfg config.Config) *jwt.Service {
	if cfg.JWT.Secret == "" {
		panic("JWT_SECRET must not be empty")
	}
	return jwt.NewService(cfg.JWT)
}
