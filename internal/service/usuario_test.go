package service

import (
	"context"
	"encoding/json"
	"errors"
	"iter"
	"testing"

	"github.com/deppfellow/clean-api/internal/lib/job"
	"github.com/deppfellow/clean-api/internal/model"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	usuarios  []model.Usuario
	nextID    int64
	findCalls []int
	addErr    error
}

func (f *fakeRepository) Add(_ context.Context, u *model.Usuario) (*model.Usuario, error) {
	if f.addErr != nil {
		return nil, f.addErr
	}
	f.nextID++
	u.Id = f.nextID
	f.usuarios = append(f.usuarios, *u)
	return u, nil
}

func (f *fakeRepository) GetByID(_ context.Context, id int64) (*model.Usuario, error) {
	for _, u := range f.usuarios {
		if u.Id == id {
			return &u, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeRepository) All(context.Context) iter.Seq2[*model.Usuario, error] {
	return func(yield func(*model.Usuario, error) bool) {
		for i := range f.usuarios {
			if !yield(&f.usuarios[i], nil) {
				return
			}
		}
	}
}

func (f *fakeRepository) GetAll(context.Context) ([]model.Usuario, error) {
	return f.usuarios, nil
}

func (f *fakeRepository) Update(_ context.Context, u *model.Usuario) (*model.Usuario, error) {
	return u, nil
}

func (f *fakeRepository) Delete(context.Context, int64) error {
	return nil
}

func (f *fakeRepository) FindUsuariosQueMaisCompram(_ context.Context, limit int) ([]model.Usuario, error) {
	f.findCalls = append(f.findCalls, limit)
	if limit > len(f.usuarios) {
		limit = len(f.usuarios)
	}
	return f.usuarios[:limit], nil
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Queue: "default"}, nil
}

func newTestService(repo *fakeRepository, jobs TaskEnqueuer) *UsuarioService {
	logger := zerolog.Nop()
	return NewUsuarioService(repo, jobs, &logger)
}

func TestUsuariosQueMaisCompram(t *testing.T) {
	repo := &fakeRepository{}
	for range 15 {
		_, err := repo.Add(context.Background(), &model.Usuario{Nome: "n", Email: "e@example.com"})
		require.NoError(t, err)
	}
	svc := newTestService(repo, nil)

	got, err := svc.UsuariosQueMaisCompram(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, got, 10)
	assert.Equal(t, []int{10}, repo.findCalls)
}

func TestUsuariosQueMaisCompram_NonPositiveLimit(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestService(repo, nil)

	got, err := svc.UsuariosQueMaisCompram(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, repo.findCalls)
}

func TestCreate_EnqueuesWelcomeEmail(t *testing.T) {
	jobs := &fakeEnqueuer{}
	svc := newTestService(&fakeRepository{}, jobs)

	created, err := svc.Create(context.Background(), &model.Usuario{Nome: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.Id)

	require.Len(t, jobs.tasks, 1)
	assert.Equal(t, job.TaskWelcome, jobs.tasks[0].Type())

	var p job.WelcomeEmailPayload
	require.NoError(t, json.Unmarshal(jobs.tasks[0].Payload(), &p))
	assert.Equal(t, int64(1), p.UsuarioID)
	assert.Equal(t, "ana@example.com", p.To)
}

func TestCreate_EnqueueFailureIsNotFatal(t *testing.T) {
	svc := newTestService(&fakeRepository{}, &fakeEnqueuer{err: errors.New("redis down")})

	created, err := svc.Create(context.Background(), &model.Usuario{Nome: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)
	assert.NotZero(t, created.Id)
}

func TestCreate_RepositoryErrorSkipsEnqueue(t *testing.T) {
	boom := errors.New("insert failed")
	jobs := &fakeEnqueuer{}
	svc := newTestService(&fakeRepository{addErr: boom}, jobs)

	_, err := svc.Create(context.Background(), &model.Usuario{Nome: "Ana", Email: "ana@example.com"})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, jobs.tasks)
}
