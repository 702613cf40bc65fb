package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/clerk/clerk-sdk-go/v2"
	clerkhttp "github.com/clerk/clerk-sdk-go/v2/http"
	"github.com/deppfellow/clean-api/internal/errs"
	"github.com/deppfellow/clean-api/internal/server"
	"github.com/labstack/echo/v4"
)

// Echo context keys set by RequireAuth.
const (
	UserIDKey   = "user_id"
	UserRoleKey = "user_role"
)

// AuthMiddleware verifies Clerk session tokens on routes that change data.
type AuthMiddleware struct {
	server *server.Server
}

// NewAuthMiddleware installs the Clerk secret from config for the SDK's
// token verification.
func NewAuthMiddleware(s *server.Server) *AuthMiddleware {
	clerk.SetKey(s.Config.Auth.SecretKey)

	return &AuthMiddleware{
		server: s,
	}
}

// RequireAuth rejects the request with 401 unless it carries a valid
// "Authorization: Bearer <session token>" header. On success the user ID and
// role are stored in the echo context.
func (auth *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return echo.WrapMiddleware(
		clerkhttp.WithHeaderAuthorization(
			clerkhttp.AuthorizationFailureHandler(http.HandlerFunc(auth.rejectInvalidToken)),
		),
	)(func(c echo.Context) error {
		log := GetLogger(c)

		// Clerk lets requests without an Authorization header through with
		// no claims attached.
		claims, ok := clerk.SessionClaimsFromContext(c.Request().Context())
		if !ok {
			log.Warn().Msg("missing session claims")
			return errs.NewUnauthorizedError("Unauthorized", false)
		}

		c.Set(UserIDKey, claims.Subject)
		c.Set(UserRoleKey, claims.ActiveOrganizationRole)

		log.Debug().Str("user_id", claims.Subject).Msg("user authenticated")

		return next(c)
	})
}

// rejectInvalidToken runs outside echo, so it writes the standard error body
// itself instead of returning to GlobalErrorHandler. w is the echo response,
// which already carries the request ID header.
func (auth *AuthMiddleware) rejectInvalidToken(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	w.WriteHeader(http.StatusUnauthorized)

	if err := json.NewEncoder(w).Encode(errs.NewUnauthorizedError("Unauthorized", false)); err != nil {
		auth.server.Logger.Error().
			Err(err).
			Str("request_id", w.Header().Get(RequestIDHeader)).
			Msg("failed to write unauthorized response")
		return
	}

	auth.server.Logger.Warn().
		Str("request_id", w.Header().Get(RequestIDHeader)).
		Str("path", r.URL.Path).
		Msg("rejected invalid session token")
}
