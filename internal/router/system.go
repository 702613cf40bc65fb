package router

import (
	"github.com/deppfellow/clean-api/internal/handler"
	"github.com/deppfellow/clean-api/static"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers the endpoints that are not part of the API
// itself: health, docs and the embedded doc assets.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)
	r.StaticFS("/static", static.FS)
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
