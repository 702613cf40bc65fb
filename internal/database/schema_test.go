package database

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/deppfellow/clean-api/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usuarioTable(t *testing.T) Table {
	t.Helper()

	schema, err := NewSchema(Configurations...)
	require.NoError(t, err)

	table, ok := schema.Table(UsuariosTable)
	require.True(t, ok)
	return table
}

func TestConfigureUsuario(t *testing.T) {
	table := usuarioTable(t)

	assert.Equal(t, "Id", table.PrimaryKey)
	assert.Equal(t, []string{"Nome", "Email"}, table.ColumnNames())
	assert.Equal(t, "USUARIO_INVALID", table.ErrorCode())
}

func TestSchema_RegisterTwiceFails(t *testing.T) {
	schema, err := NewSchema(ConfigureUsuario)
	require.NoError(t, err)

	err = ConfigureUsuario(schema)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestSchema_RegisterRejectsBadTables(t *testing.T) {
	tests := []struct {
		name  string
		table Table
	}{
		{"no name", Table{PrimaryKey: "Id"}},
		{"no primary key", Table{Name: "Things"}},
		{"key as column", Table{Name: "Things", PrimaryKey: "Id", Columns: []Column{{Name: "Id"}}}},
		{"duplicate column", Table{Name: "Things", PrimaryKey: "Id", Columns: []Column{{Name: "A"}, {Name: "A"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema, err := NewSchema()
			require.NoError(t, err)
			assert.Error(t, schema.Register(tt.table))
		})
	}
}

func TestTable_Validate(t *testing.T) {
	table := usuarioTable(t)

	tests := []struct {
		name   string
		values []any
		fields map[string]string
	}{
		{
			name:   "valid",
			values: []any{"Ana", "ana@example.com"},
		},
		{
			name:   "exact limits",
			values: []any{strings.Repeat("a", 100), strings.Repeat("e", 200)},
		},
		{
			name:   "nome too long",
			values: []any{strings.Repeat("a", 101), "ana@example.com"},
			fields: map[string]string{"nome": "must not exceed 100 characters"},
		},
		{
			name:   "email too long",
			values: []any{"Ana", strings.Repeat("e", 201)},
			fields: map[string]string{"email": "must not exceed 200 characters"},
		},
		{
			name:   "both missing",
			values: []any{"", nil},
			fields: map[string]string{"nome": "is required", "email": "is required"},
		},
		{
			// Length is counted in characters, not bytes.
			name:   "multibyte within limit",
			values: []any{strings.Repeat("ã", 100), "ana@example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := table.Validate(tt.values)
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}

			var httpErr *errs.HTTPError
			require.True(t, errors.As(err, &httpErr))
			assert.Equal(t, http.StatusBadRequest, httpErr.Status)
			assert.Equal(t, "USUARIO_INVALID", httpErr.Code)

			got := make(map[string]string, len(httpErr.Errors))
			for _, fe := range httpErr.Errors {
				got[fe.Field] = fe.Error
			}
			assert.Equal(t, tt.fields, got)
		})
	}
}

func TestTable_ValidateWrongArity(t *testing.T) {
	err := usuarioTable(t).Validate([]any{"only nome"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, &errs.HTTPError{}))
}
