// Package handler is the HTTP layer. Handlers bind and validate requests
// through the validation package and call the service layer.
package handler

import (
	"github.com/deppfellow/clean-api/internal/server"
	"github.com/deppfellow/clean-api/internal/service"
)

type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	Usuario *UsuarioHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		Usuario: NewUsuarioHandler(s, services.Usuario),
	}
}
