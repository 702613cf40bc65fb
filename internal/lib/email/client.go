// Package email sends transactional email through Resend.
//
// Templates are embedded in the binary and rendered with html/template.
package email

import (
	"fmt"

	"github.com/deppfellow/clean-api/internal/config"
	"github.com/deppfellow/clean-api/internal/logger"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// DefaultFrom is used when no sender address is configured.
const DefaultFrom = "clean-api <onboarding@resend.dev>"

// Sender is the part of the Resend emails service the client uses.
type Sender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type Client struct {
	sender  Sender
	from    string
	enabled bool
	logger  *zerolog.Logger
}

// NewClient creates a Resend-backed client. Without an API key the client
// is disabled and callers should skip sending.
func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	c := NewClientWithSender(resend.NewClient(cfg.Integration.ResendAPIKey).Emails, cfg.Integration.EmailFrom, logger)
	c.enabled = cfg.Integration.ResendAPIKey != ""
	return c
}

// NewClientWithSender creates an enabled client on top of sender.
func NewClientWithSender(sender Sender, from string, logger *zerolog.Logger) *Client {
	if from == "" {
		from = DefaultFrom
	}
	return &Client{
		sender:  sender,
		from:    from,
		enabled: true,
		logger:  logger,
	}
}

// Enabled reports whether the client can deliver email.
func (c *Client) Enabled() bool {
	return c.enabled
}

// SendEmail renders templateName with data and sends it to a single recipient.
func (c *Client) SendEmail(to, subject string, templateName Template, data map[string]string) error {
	body, err := Render(templateName, data)
	if err != nil {
		return err
	}

	resp, err := c.sender.Send(&resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	if resp != nil {
		c.logger.Debug().
			Str("email_id", resp.Id).
			Str("to", logger.RedactEmail(to)).
			Str("template", string(templateName)).
			Msg("email sent")
	}

	return nil
}
