package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskWelcome is the task type the welcome email handler is routed by.
	TaskWelcome = "email:welcome"
)

// WelcomeEmailPayload is serialized to JSON and stored in Redis.
type WelcomeEmailPayload struct {
	UsuarioID int64  `json:"usuario_id"`
	To        string `json:"to"`
	Nome      string `json:"nome"`
}

// NewWelcomeEmailTask builds the task sent after a Usuario is created.
// It retries up to 3 times and is killed after 30 seconds.
func NewWelcomeEmailTask(usuarioID int64, to, nome string) (*asynq.Task, error) {
	payload, err := json.Marshal(WelcomeEmailPayload{
		UsuarioID: usuarioID,
		To:        to,
		Nome:      nome,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskWelcome,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}
