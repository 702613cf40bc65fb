package email

// SendWelcomeEmail greets a newly created Usuario.
func (c *Client) SendWelcomeEmail(to, nome string) error {
	return c.SendEmail(
		to,
		"Bem-vindo ao clean-api!",
		TemplateWelcome,
		map[string]string{
			"Nome":  nome,
			"Email": to,
		},
	)
}
