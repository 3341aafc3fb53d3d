package components

import (
	"context"

	"coupon-engine/internal/handler"
	"coupon-engine/internal/handler/api"
	"coupon-engine/internal/handler/middleware"
	"coupon-engine/internal/pkg/config"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewCouponHandler,
		middleware.NewAuthMiddleware,
		NewRateLimiter,
	),
	fx.Invoke(handler.NewRouter),
)

func NewRateLimiter(lc fx.Lifecycle, cfg config.Config) *middleware.RateLimiter {
	rl := middleware.NewRateLimiter(cfg.RateLimit)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			rl.Shutdown()
			return nil
		},
	})
	return rl
}
