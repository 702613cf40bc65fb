package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deppfellow/clean-api/internal/config"
	"github.com/deppfellow/clean-api/internal/lib/email"
	"github.com/deppfellow/clean-api/internal/logger"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// InitHandlers builds the dependencies task handlers need.
// It must run before Start.
func (j *JobService) InitHandlers(cfg *config.Config, log *zerolog.Logger) {
	j.emailClient = email.NewClient(cfg, log)
}

func (j *JobService) handleWelcomeEmailTask(ctx context.Context, t *asynq.Task) error {
	var p WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// A malformed payload never gets better, so don't retry it.
		return fmt.Errorf("failed to unmarshal welcome email payload: %v: %w", err, asynq.SkipRetry)
	}

	log := j.logger.With().
		Str("type", "welcome").
		Int64("usuario_id", p.UsuarioID).
		Str("to", logger.RedactEmail(p.To)).
		Logger()

	if j.emailClient == nil || !j.emailClient.Enabled() {
		log.Warn().Msg("email delivery is not configured, skipping welcome email")
		return nil
	}

	log.Info().Msg("processing welcome email task")

	if err := j.emailClient.SendWelcomeEmail(p.To, p.Nome); err != nil {
		log.Error().Err(err).Msg("failed to send welcome email")
		return err
	}

	log.Info().Msg("successfully sent welcome email")
	return nil
}
