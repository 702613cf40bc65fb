package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/clean-api/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createRequest struct {
	Nome  string `json:"nome" validate:"required,max=100"`
	Email string `json:"email" validate:"required,max=200"`
}

func (r *createRequest) Validate() error {
	return Struct(r)
}

func newContext(body string) echo.Context {
	req := httptest.NewRequest(http.MethodPost, "/usuario", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestBindAndValidate_Valid(t *testing.T) {
	req := &createRequest{}
	err := BindAndValidate(newContext(`{"nome":"Ana","email":"ana@example.com"}`), req)

	require.NoError(t, err)
	assert.Equal(t, "Ana", req.Nome)
}

func TestBindAndValidate_FieldErrors(t *testing.T) {
	body := `{"nome":"` + strings.Repeat("a", 101) + `"}`

	httpErr := asHTTPError(t, BindAndValidate(newContext(body), &createRequest{}))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "Validation failed", httpErr.Message)
	assert.ElementsMatch(t, []errs.FieldError{
		{Field: "nome", Error: "must not exceed 100 characters"},
		{Field: "email", Error: "is required"},
	}, httpErr.Errors)
}

func TestBindAndValidate_MalformedJSON(t *testing.T) {
	httpErr := asHTTPError(t, BindAndValidate(newContext(`{"nome":`), &createRequest{}))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.NotEmpty(t, httpErr.Message)
	assert.Empty(t, httpErr.Errors)
}
