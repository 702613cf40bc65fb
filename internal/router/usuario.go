package router

import (
	"net/http"

	"github.com/deppfellow/clean-api/internal/handler"
	"github.com/deppfellow/clean-api/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RouteUsuariosMaisCompram names GET /usuario for echo's Reverse.
const RouteUsuariosMaisCompram = "usuarios_mais_compram"

// registerUsuarioRoutes keeps reads public. Writes need a Clerk session.
func registerUsuarioRoutes(r *echo.Echo, h *handler.Handlers, auth *middleware.AuthMiddleware) {
	u := h.Usuario
	g := r.Group("/usuario")

	g.GET("", handler.Handle(
		u.Handler,
		u.GetUsuariosQueMaisCompram,
		http.StatusOK,
		&handler.GetUsuariosQueMaisCompramRequest{},
	)).Name = RouteUsuariosMaisCompram

	g.GET("/:id", handler.Handle(u.Handler, u.GetUsuario, http.StatusOK, &handler.GetUsuarioRequest{}))

	g.POST("", handler.Handle(u.Handler, u.CreateUsuario, http.StatusCreated, &handler.CreateUsuarioRequest{}), auth.RequireAuth)
	g.PUT("/:id", handler.Handle(u.Handler, u.UpdateUsuario, http.StatusOK, &handler.UpdateUsuarioRequest{}), auth.RequireAuth)
	g.DELETE("/:id", handler.HandleNoContent(u.Handler, u.DeleteUsuario, http.StatusNoContent, &handler.DeleteUsuarioRequest{}), auth.RequireAuth)
}
