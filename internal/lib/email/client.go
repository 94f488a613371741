// Package email sends transactional email through Resend, rendering HTML
// bodies from templates embedded in the binary.
package email

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"

	"github.com/mesbrj/teams-api/internal/config"
)

const defaultFrom = "onboarding@resend.dev"

// sender is the part of the Resend emails service the client uses.
type sender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type Client struct {
	sender sender
	from   string
	logger *zerolog.Logger
}

// NewClient builds a Resend-backed client. Without an API key the client
// renders emails but does not deliver them.
func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	from := cfg.Integration.EmailFrom
	if from == "" {
		from = defaultFrom
	}

	c := &Client{from: from, logger: logger}
	if cfg.Integration.ResendAPIKey != "" {
		c.sender = resend.NewClient(cfg.Integration.ResendAPIKey).Emails
	}
	return c
}

// Render executes the named template with data.
func Render(name Template, data map[string]string) (string, error) {
	tmpl, err := template.ParseFS(templates, fmt.Sprintf("templates/%s.html", name))
	if err != nil {
		return "", errors.Wrapf(err, "failed to parse email template %s", name)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", errors.Wrapf(err, "failed to execute email template %s", name)
	}
	return body.String(), nil
}

func (c *Client) SendEmail(to string, name Template, data map[string]string) error {
	html, err := Render(name, data)
	if err != nil {
		return err
	}

	if c.sender == nil {
		c.logger.Warn().
			Str("template", string(name)).
			Str("to", to).
			Msg("email delivery disabled, no resend api key configured")
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", "Teams", c.from),
		To:      []string{to},
		Subject: subjects[name],
		Html:    html,
	}

	if _, err := c.sender.Send(params); err != nil {
		return errors.Wrap(err, "failed to send email")
	}
	return nil
}

// SendWelcomeEmail greets a newly created user. teamName may be empty.
func (c *Client) SendWelcomeEmail(to, userName, teamName string) error {
	return c.SendEmail(to, TemplateWelcome, map[string]string{
		"UserName": userName,
		"TeamName": teamName,
	})
}
