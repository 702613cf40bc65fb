package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/deppfellow/clean-api/internal/middleware"
	"github.com/deppfellow/clean-api/internal/server"
	"github.com/labstack/echo/v4"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"

	defaultHealthCheckTimeout = 5 * time.Second
)

// HealthHandler reports whether the service and its dependencies are up.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

type CheckResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

type HealthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]CheckResult `json:"checks"`
}

// CheckHealth runs every enabled dependency check and answers 200 when all
// pass, 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := HealthResponse{
		Status:      statusHealthy,
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      make(map[string]CheckResult),
	}

	for name, ping := range h.checks() {
		result := h.runCheck(c.Request().Context(), name, ping)
		response.Checks[name] = result

		if result.Status != statusHealthy {
			response.Status = statusUnhealthy
			logger.Error().Str("check", name).Str("error", result.Error).Msg("health check failed")
		}
	}

	if response.Status != statusHealthy {
		h.recordFailure("overall", time.Since(start), "")
		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().Dur("total_duration", time.Since(start)).Msg("health check passed")
	return c.JSON(http.StatusOK, response)
}

func (h *HealthHandler) checks() map[string]func(context.Context) error {
	obs := h.server.Config.Observability
	enabled := func(name string) bool {
		return obs == nil || obs.HealthCheckEnabled(name)
	}

	checks := make(map[string]func(context.Context) error)
	if enabled("database") && h.server.DB != nil {
		checks["database"] = h.server.DB.Pool.Ping
	}
	if enabled("redis") && h.server.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		}
	}
	return checks
}

func (h *HealthHandler) runCheck(ctx context.Context, name string, ping func(context.Context) error) CheckResult {
	timeout := defaultHealthCheckTimeout
	if obs := h.server.Config.Observability; obs != nil && obs.HealthChecks.Timeout > 0 {
		timeout = obs.HealthChecks.Timeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	checkStart := time.Now()
	err := ping(ctx)
	elapsed := time.Since(checkStart)

	if err != nil {
		h.recordFailure(name, elapsed, err.Error())
		return CheckResult{
			Status:       statusUnhealthy,
			ResponseTime: elapsed.String(),
			Error:        err.Error(),
		}
	}

	return CheckResult{
		Status:       statusHealthy,
		ResponseTime: elapsed.String(),
	}
}

// recordFailure sends a HealthCheckError custom event to New Relic.
func (h *HealthHandler) recordFailure(checkType string, elapsed time.Duration, message string) {
	app := h.server.LoggerService.GetApplication()
	if app == nil {
		return
	}

	app.RecordCustomEvent("HealthCheckError", map[string]any{
		"check_type":       checkType,
		"operation":        "health_check",
		"error_type":       checkType + "_unhealthy",
		"response_time_ms": elapsed.Milliseconds(),
		"error_message":    message,
	})
}
