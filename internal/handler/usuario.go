package handler

import (
	"github.com/deppfellow/clean-api/internal/model"
	"github.com/deppfellow/clean-api/internal/server"
	"github.com/deppfellow/clean-api/internal/service"
	"github.com/deppfellow/clean-api/internal/validation"
	"github.com/labstack/echo/v4"
)

// UsuariosQueMaisCompramLimit is how many users GET /usuario returns.
const UsuariosQueMaisCompramLimit = 10

type GetUsuariosQueMaisCompramRequest struct{}

func (r *GetUsuariosQueMaisCompramRequest) Validate() error {
	return nil
}

type CreateUsuarioRequest struct {
	Nome  string `json:"nome" validate:"required,max=100"`
	Email string `json:"email" validate:"required,max=200"`
}

func (r *CreateUsuarioRequest) Validate() error {
	return validation.Struct(r)
}

type GetUsuarioRequest struct {
	ID int64 `param:"id" validate:"gt=0"`
}

func (r *GetUsuarioRequest) Validate() error {
	return validation.Struct(r)
}

type UpdateUsuarioRequest struct {
	ID    int64  `param:"id" json:"-" validate:"gt=0"`
	Nome  string `json:"nome" validate:"required,max=100"`
	Email string `json:"email" validate:"required,max=200"`
}

func (r *UpdateUsuarioRequest) Validate() error {
	return validation.Struct(r)
}

type DeleteUsuarioRequest struct {
	ID int64 `param:"id" validate:"gt=0"`
}

func (r *DeleteUsuarioRequest) Validate() error {
	return validation.Struct(r)
}

type UsuarioHandler struct {
	Handler
	usuarioService *service.UsuarioService
}

func NewUsuarioHandler(s *server.Server, usuarioService *service.UsuarioService) *UsuarioHandler {
	return &UsuarioHandler{
		Handler:        NewHandler(s),
		usuarioService: usuarioService,
	}
}

// GetUsuariosQueMaisCompram lists the users who buy the most.
func (h *UsuarioHandler) GetUsuariosQueMaisCompram(c echo.Context, _ *GetUsuariosQueMaisCompramRequest) ([]model.Usuario, error) {
	return h.usuarioService.UsuariosQueMaisCompram(c.Request().Context(), UsuariosQueMaisCompramLimit)
}

func (h *UsuarioHandler) CreateUsuario(c echo.Context, req *CreateUsuarioRequest) (*model.Usuario, error) {
	return h.usuarioService.Create(c.Request().Context(), &model.Usuario{
		Nome:  req.Nome,
		Email: req.Email,
	})
}

func (h *UsuarioHandler) GetUsuario(c echo.Context, req *GetUsuarioRequest) (*model.Usuario, error) {
	return h.usuarioService.GetByID(c.Request().Context(), req.ID)
}

func (h *UsuarioHandler) UpdateUsuario(c echo.Context, req *UpdateUsuarioRequest) (*model.Usuario, error) {
	return h.usuarioService.Update(c.Request().Context(), &model.Usuario{
		Id:    req.ID,
		Nome:  req.Nome,
		Email: req.Email,
	})
}

func (h *UsuarioHandler) DeleteUsuario(c echo.Context, req *DeleteUsuarioRequest) error {
	return h.usuarioService.Delete(c.Request().Context(), req.ID)
}
