package service

import (
	"context"

	"github.com/deppfellow/clean-api/internal/lib/job"
	"github.com/deppfellow/clean-api/internal/logger"
	"github.com/deppfellow/clean-api/internal/model"
	"github.com/deppfellow/clean-api/internal/repository"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// UsuarioRepository is what UsuarioService needs from persistence.
type UsuarioRepository interface {
	repository.Repository[model.Usuario]
	FindUsuariosQueMaisCompram(ctx context.Context, limit int) ([]model.Usuario, error)
}

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type UsuarioService struct {
	repo   UsuarioRepository
	jobs   TaskEnqueuer
	logger *zerolog.Logger
}

// NewUsuarioService creates the service. jobs may be nil, in which case no
// background work is scheduled.
func NewUsuarioService(repo UsuarioRepository, jobs TaskEnqueuer, logger *zerolog.Logger) *UsuarioService {
	return &UsuarioService{
		repo:   repo,
		jobs:   jobs,
		logger: logger,
	}
}

// UsuariosQueMaisCompram returns up to limit of the users who buy the most.
func (s *UsuarioService) UsuariosQueMaisCompram(ctx context.Context, limit int) ([]model.Usuario, error) {
	if limit <= 0 {
		return []model.Usuario{}, nil
	}
	return s.repo.FindUsuariosQueMaisCompram(ctx, limit)
}

// Create stores a new Usuario and schedules its welcome email. A failure to
// schedule the email is logged and does not fail the request.
func (s *UsuarioService) Create(ctx context.Context, usuario *model.Usuario) (*model.Usuario, error) {
	created, err := s.repo.Add(ctx, usuario)
	if err != nil {
		return nil, err
	}

	s.enqueueWelcomeEmail(ctx, created)

	return created, nil
}

func (s *UsuarioService) enqueueWelcomeEmail(ctx context.Context, usuario *model.Usuario) {
	if s.jobs == nil {
		return
	}

	log := s.logger.With().
		Int64("usuario_id", usuario.Id).
		Str("email", logger.RedactEmail(usuario.Email)).
		Logger()

	task, err := job.NewWelcomeEmailTask(usuario.Id, usuario.Email, usuario.Nome)
	if err != nil {
		log.Error().Err(err).Msg("failed to build welcome email task")
		return
	}

	info, err := s.jobs.EnqueueContext(ctx, task)
	if err != nil {
		log.Warn().Err(err).Msg("failed to enqueue welcome email")
		return
	}

	log.Debug().Str("task_id", info.ID).Str("queue", info.Queue).Msg("welcome email enqueued")
}

func (s *UsuarioService) GetByID(ctx context.Context, id int64) (*model.Usuario, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UsuarioService) Update(ctx context.Context, usuario *model.Usuario) (*model.Usuario, error) {
	return s.repo.Update(ctx, usuario)
}

func (s *UsuarioService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
