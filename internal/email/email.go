package email

import (
	"fmt"

	"dukaan_backend/internal/config"
	"dukaan_backend/internal/logger"

	"gopkg.in/gomail.v2"
)

// Provider sends transactional mail. A no-op implementation is used
// when SMTP is not configured so registration never blocks on mail.
type Provider interface {
	Send(to, subject, body string) error
	SendPasswordReset(to, resetURL string) error
}

type SMTPProvider struct {
	cfg config.EmailConfig
}

func NewSMTPProvider(cfg config.EmailConfig) *SMTPProvider {
	return &SMTPProvider{cfg: cfg}
}

func (p *SMTPProvider) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(p.cfg.FromEmail, p.cfg.FromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(
		p.cfg.SMTPHost,
		p.cfg.SMTPPort,
		p.cfg.SMTPUsername,
		p.cfg.SMTPPassword,
	)

	return d.DialAndSend(m)
}

func (p *SMTPProvider) SendPasswordReset(to, resetURL string) error {
	body := fmt.Sprintf(`
		<p>You requested a password reset.</p>
		<p><a href="%s">Reset your password</a></p>
		<p>The link expires in one hour. If you did not request this, ignore this message.</p>`,
		resetURL)
	return p.Send(to, "Reset your password", body)
}

// NoopProvider logs instead of sending. Used in dev and tests.
type NoopProvider struct{}

func (NoopProvider) Send(to, subject, body string) error {
	logger.Debug("email suppressed", "to", to, "subject", subject)
	return nil
}

func (NoopProvider) SendPasswordReset(to, resetURL string) error {
	logger.Debug("password reset email suppressed", "to", to, "url", resetURL)
	return nil
}

// NewProvider picks the SMTP provider when a host is configured.
func NewProvider(cfg config.EmailConfig) Provider {
	if cfg.SMTPHost == "" {
		return NoopProvider{}
	}
	return NewSMTPProvider(cfg)
}
