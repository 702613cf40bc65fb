package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/deppfellow/clean-api/internal/database"
	"github.com/deppfellow/clean-api/internal/errs"
	"github.com/deppfellow/clean-api/internal/model"
	"github.com/deppfellow/clean-api/internal/sqlerr"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var usuarioColumns = []string{"id", "nome", "email"}

func newTestRepository(t *testing.T) (*UsuarioRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	schema, err := database.NewSchema(database.Configurations...)
	require.NoError(t, err)

	repo, err := NewUsuarioRepository(database.NewContext(mock, schema))
	require.NoError(t, err)

	return repo, mock
}

func seedRows(n int) *pgxmock.Rows {
	rows := pgxmock.NewRows(usuarioColumns)
	for i := 1; i <= n; i++ {
		rows.AddRow(int64(i), fmt.Sprintf("Usuario %d", i), fmt.Sprintf("usuario%d@example.com", i))
	}
	return rows
}

func TestNewUsuarioRepository_RequiresRegisteredTable(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	schema, err := database.NewSchema()
	require.NoError(t, err)

	_, err = NewUsuarioRepository(database.NewContext(mock, schema))
	assert.Error(t, err)
}

func TestStore_Statements(t *testing.T) {
	repo, _ := newTestRepository(t)

	assert.Equal(t, "SELECT Id, Nome, Email FROM Usuarios", repo.selectSQL)
	assert.Equal(t, "SELECT Id, Nome, Email FROM Usuarios WHERE Id = $1", repo.getSQL)
	assert.Equal(t, "INSERT INTO Usuarios (Nome, Email) VALUES ($1, $2) RETURNING Id", repo.insertSQL)
	assert.Equal(t, "UPDATE Usuarios SET Nome = $1, Email = $2 WHERE Id = $3", repo.updateSQL)
	assert.Equal(t, "DELETE FROM Usuarios WHERE Id = $1", repo.deleteSQL)
}

func TestFindUsuariosQueMaisCompram(t *testing.T) {
	t.Run("non-positive limit runs no query", func(t *testing.T) {
		repo, mock := newTestRepository(t)

		for _, limit := range []int{0, -1} {
			got, err := repo.FindUsuariosQueMaisCompram(context.Background(), limit)
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		}
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("limit is passed to the query", func(t *testing.T) {
		repo, mock := newTestRepository(t)

		mock.ExpectQuery("ORDER BY Id LIMIT").
			WithArgs(10).
			WillReturnRows(seedRows(10))

		got, err := repo.FindUsuariosQueMaisCompram(context.Background(), 10)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(got), 10)
		assert.Equal(t, int64(1), got[0].Id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("limit above user count returns everyone", func(t *testing.T) {
		repo, mock := newTestRepository(t)

		mock.ExpectQuery("ORDER BY Id LIMIT").
			WithArgs(50).
			WillReturnRows(seedRows(3))

		got, err := repo.FindUsuariosQueMaisCompram(context.Background(), 50)
		require.NoError(t, err)
		assert.Len(t, got, 3)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAdd_FillsKeyAndRoundTrips(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery("INSERT INTO Usuarios").
		WithArgs("Ana", "ana@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectQuery("FROM Usuarios WHERE Id").
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows(usuarioColumns).AddRow(int64(7), "Ana", "ana@example.com"))

	added, err := repo.Add(context.Background(), &model.Usuario{Nome: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), added.Id)

	fetched, err := repo.GetByID(context.Background(), added.Id)
	require.NoError(t, err)
	assert.Equal(t, *added, *fetched)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdd_ValidationError(t *testing.T) {
	tests := []struct {
		name    string
		usuario model.Usuario
		field   string
	}{
		{"nome over 100", model.Usuario{Nome: strings.Repeat("n", 101), Email: "a@example.com"}, "nome"},
		{"email over 200", model.Usuario{Nome: "Ana", Email: strings.Repeat("e", 201)}, "email"},
		{"nome missing", model.Usuario{Email: "a@example.com"}, "nome"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestRepository(t)

			_, err := repo.Add(context.Background(), &tt.usuario)

			var httpErr *errs.HTTPError
			require.True(t, errors.As(err, &httpErr))
			assert.Equal(t, http.StatusBadRequest, httpErr.Status)
			require.Len(t, httpErr.Errors, 1)
			assert.Equal(t, tt.field, httpErr.Errors[0].Field)

			// Nothing reaches the store.
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery("FROM Usuarios WHERE Id").
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 404)
	require.Error(t, err)
	assert.True(t, sqlerr.IsNotFound(err))

	var httpErr *errs.HTTPError
	require.True(t, errors.As(sqlerr.HandleError(err), &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Usuario not found", httpErr.Message)
}

func TestGetAll_ReturnsEveryRowOnce(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery("SELECT Id, Nome, Email FROM Usuarios").
		WillReturnRows(pgxmock.NewRows(usuarioColumns).
			AddRow(int64(3), "Caio", "caio@example.com").
			AddRow(int64(1), "Ana", "ana@example.com").
			AddRow(int64(2), "Bia", "bia@example.com"))

	got, err := repo.GetAll(context.Background())
	require.NoError(t, err)

	assert.ElementsMatch(t, []model.Usuario{
		{Id: 1, Nome: "Ana", Email: "ana@example.com"},
		{Id: 2, Nome: "Bia", Email: "bia@example.com"},
		{Id: 3, Nome: "Caio", Email: "caio@example.com"},
	}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAll_Empty(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery("FROM Usuarios").WillReturnRows(pgxmock.NewRows(usuarioColumns))

	got, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAll_IsRestartable(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery("FROM Usuarios").WillReturnRows(seedRows(2))
	mock.ExpectQuery("FROM Usuarios").WillReturnRows(seedRows(2))

	seq := repo.All(context.Background())
	for range 2 {
		count := 0
		for u, err := range seq {
			require.NoError(t, err)
			require.NotNil(t, u)
			count++
		}
		assert.Equal(t, 2, count)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAll_StopsEarly(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery("FROM Usuarios").WillReturnRows(seedRows(5)).RowsWillBeClosed()

	for u, err := range repo.All(context.Background()) {
		require.NoError(t, err)
		assert.Equal(t, int64(1), u.Id)
		break
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAll_QueryError(t *testing.T) {
	repo, mock := newTestRepository(t)
	boom := errors.New("connection reset")

	mock.ExpectQuery("FROM Usuarios").WillReturnError(boom)

	_, err := repo.GetAll(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestUpdate(t *testing.T) {
	t.Run("updates existing row", func(t *testing.T) {
		repo, mock := newTestRepository(t)

		mock.ExpectExec("UPDATE Usuarios SET").
			WithArgs("Ana Maria", "ana@example.com", int64(1)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		updated, err := repo.Update(context.Background(), &model.Usuario{Id: 1, Nome: "Ana Maria", Email: "ana@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "Ana Maria", updated.Nome)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row is not found", func(t *testing.T) {
		repo, mock := newTestRepository(t)

		mock.ExpectExec("UPDATE Usuarios SET").
			WithArgs("Ana", "ana@example.com", int64(9)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		_, err := repo.Update(context.Background(), &model.Usuario{Id: 9, Nome: "Ana", Email: "ana@example.com"})
		assert.ErrorIs(t, err, pgx.ErrNoRows)
	})

	t.Run("invalid values never reach the store", func(t *testing.T) {
		repo, mock := newTestRepository(t)

		_, err := repo.Update(context.Background(), &model.Usuario{Id: 1, Nome: "", Email: "ana@example.com"})
		assert.True(t, errors.Is(err, &errs.HTTPError{}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDelete(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec("DELETE FROM Usuarios").
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM Usuarios").
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.Delete(context.Background(), 1))

	err := repo.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	assert.Contains(t, err.Error(), sqlerr.TablePrefix+"Usuarios")
	assert.NoError(t, mock.ExpectationsWereMet())
}
