// Package service contains the business logic.
//
// It sits between the handler and repository layers: it receives validated
// data from the handler and calls repository methods to read or persist it.
package service

import (
	"github.com/deppfellow/clean-api/internal/repository"
	"github.com/deppfellow/clean-api/internal/server"
)

type Services struct {
	Usuario *UsuarioService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	// A nil *asynq.Client must not end up inside a non-nil interface.
	var jobs TaskEnqueuer
	if s.Job != nil && s.Job.Client != nil {
		jobs = s.Job.Client
	}

	return &Services{
		Usuario: NewUsuarioService(repos.Usuario, jobs, s.Logger),
	}, nil
}
