package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"coupon-engine/internal/handler/api"
	"coupon-engine/internal/handler/middleware"
	"coupon-engine/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	requestLogger *middleware.Logger,
	couponHandler *api.CouponHandler,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
) {
	setupMiddleware(engine, cfg, requestLogger, rateLimiter)
	setupRoutes(engine, couponHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, requestLogger *middleware.Logger, rateLimiter *middleware.RateLimiter) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(requestLogger.LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
	engine.Use(rateLimiter.Middleware())
}

func setupRoutes(engine *gin.Engine, couponHandler *api.CouponHandler, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	operatorOnly := []gin.HandlerFunc{authMiddleware.RequireAuth(), authMiddleware.RequireOperator()}

	coupons := engine.Group("/coupons")
	{
		addRoutes(coupons, []route{
			{Method: http.MethodPost, Path: "", Handler: couponHandler.Create, Mw: operatorOnly},
			{Method: http.MethodGet, Path: "", Handler: couponHandler.List},
			{Method: http.MethodGet, Path: "/:id", Handler: couponHandler.Get},
			{Method: http.MethodPut, Path: "/:id", Handler: couponHandler.Update, Mw: operatorOnly},
			{Method: http.MethodDelete, Path: "/:id", Handler: couponHandler.Delete, Mw: operatorOnly},
		})
	}

	addRoutes(engine.Group(""), []route{
		{Method: http.MethodPost, Path: "/applicable-coupons", Handler: couponHandler.Applicable},
		{Method: http.MethodPost, Path: "/apply-coupon/:id", Handler: couponHandler.Apply},
	})
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
