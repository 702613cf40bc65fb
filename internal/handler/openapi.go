package handler

import (
	"fmt"
	"io/fs"
	"net/http"

	"github.com/deppfellow/clean-api/internal/server"
	"github.com/deppfellow/clean-api/static"
	"github.com/labstack/echo/v4"
)

// OpenAPIHandler serves the API reference UI, which loads
// /static/openapi.json in the browser.
type OpenAPIHandler struct {
	Handler
	assets fs.FS
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
		assets:  static.FS,
	}
}

// ServeOpenAPIUI serves openapi.html uncached so doc changes show up at once.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	page, err := fs.ReadFile(h.assets, "openapi.html")
	if err != nil {
		return fmt.Errorf("failed to read OpenAPI UI template: %w", err)
	}

	c.Response().Header().Set("Cache-Control", "no-cache")

	if err := c.HTMLBlob(http.StatusOK, page); err != nil {
		return fmt.Errorf("failed to write HTML response: %w", err)
	}

	return nil
}
