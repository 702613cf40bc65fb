package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *HTTPError
		status int
		code   string
	}{
		{"unauthorized", NewUnauthorizedError("nope", false), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", NewForbiddenError("nope", false), http.StatusForbidden, "FORBIDDEN"},
		{"bad request", NewBadRequestError("bad", false, nil, nil, nil), http.StatusBadRequest, "BAD_REQUEST"},
		{"not found", NewNotFoundError("gone", false, nil), http.StatusNotFound, "NOT_FOUND"},
		{"too many", NewTooManyRequestsError(), http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
		{"internal", NewInternalServerError(), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
		{"unavailable", NewServiceUnavailableError("db down"), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

func TestNewBadRequestError_CustomCode(t *testing.T) {
	code := "USUARIO_INVALID"
	err := NewBadRequestError("bad", true, &code, []FieldError{{Field: "nome", Error: "is required"}}, nil)

	assert.Equal(t, "USUARIO_INVALID", err.Code)
	assert.True(t, err.Override)
	require.Len(t, err.Errors, 1)
	assert.Equal(t, "nome", err.Errors[0].Field)
}

func TestNewFieldValidationError(t *testing.T) {
	err := NewFieldValidationError("USUARIO_INVALID", []FieldError{{Field: "email", Error: "is required"}})

	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, "Validation failed", err.Message)
	assert.Len(t, err.Errors, 1)
}

func TestHTTPError_IsAndAs(t *testing.T) {
	wrapped := fmt.Errorf("loading usuario: %w", NewNotFoundError("Usuario not found", true, nil))

	assert.True(t, errors.Is(wrapped, &HTTPError{}))

	var httpErr *HTTPError
	require.True(t, errors.As(wrapped, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "loading usuario: Usuario not found", wrapped.Error())
}

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", MakeUpperCaseWithUnderscores("Bad Request"))
}
