package providers

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/recordar/contact-gateway/pkg/logger"
	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// SMTPEmail delivers mail over a real SMTP relay. Transient dial and send
// errors are retried with exponential backoff within the caller's context
// deadline.
type SMTPEmail struct {
	cfg SMTPConfig
}

func NewSMTPEmail(cfg SMTPConfig) *SMTPEmail {
	return &SMTPEmail{cfg: cfg}
}

func (p *SMTPEmail) Name() string { return "smtp" }

func (p *SMTPEmail) SendEmail(ctx context.Context, to, subject, body string) (*Outcome, error) {
	m := gomail.NewMessage()
	m.SetHeader("From", p.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(p.cfg.Host, p.cfg.Port, p.cfg.User, p.cfg.Password)

	operation := func() error {
		return d.DialAndSend(m)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxElapsedTime = 15 * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		logger.Warn("smtp send failed", "to", to, "error", err)
		return &Outcome{Status: OutcomeError, Detail: err.Error()}, nil
	}

	return &Outcome{Status: OutcomeSuccess, MessageID: uuid.NewString()}, nil
}
