// Package repository handles all interactions with the database.
//
// Every repository is a Store over a table registered in the database
// Schema, plus whatever entity-specific queries it needs.
package repository

import (
	"github.com/deppfellow/clean-api/internal/database"
	"github.com/deppfellow/clean-api/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Usuario *UsuarioRepository
}

// NewRepositories builds every repository on the server's pool-backed context.
func NewRepositories(s *server.Server) (*Repositories, error) {
	return NewRepositoriesWithContext(s.DB.Context())
}

// NewRepositoriesWithContext builds every repository on dbCtx, e.g. a
// transaction-backed context from database.InTx.
func NewRepositoriesWithContext(dbCtx *database.Context) (*Repositories, error) {
	usuario, err := NewUsuarioRepository(dbCtx)
	if err != nil {
		return nil, err
	}

	return &Repositories{
		Usuario: usuario,
	}, nil
}
