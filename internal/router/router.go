// Package router builds the echo router: the global middleware chain, the
// system routes and the API routes.
package router

import (
	"github.com/deppfellow/clean-api/internal/handler"
	"github.com/deppfellow/clean-api/internal/middleware"
	"github.com/deppfellow/clean-api/internal/server"
	"github.com/labstack/echo/v4"
)

func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	// Order matters: the request ID and the New Relic transaction must exist
	// before the request logger is built, and the logger before the limiter.
	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.RateLimit.Limit(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)
	registerUsuarioRoutes(router, h, middlewares.Auth)

	return router
}
