package providers

import (
	"context"
	"fmt"

	"github.com/recordar/contact-gateway/internal/config"
)

type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeError   OutcomeStatus = "error"
)

// Outcome is the normalized result of one provider call. A transport
// failure surfaces as an error return; a provider-side rejection surfaces
// as an error Outcome with Detail set.
type Outcome struct {
	Status    OutcomeStatus
	MessageID string
	Detail    string
}

func (o *Outcome) OK() bool {
	return o != nil && o.Status == OutcomeSuccess
}

// EmailProvider delivers rendered email bodies.
type EmailProvider interface {
	Name() string
	SendEmail(ctx context.Context, to, subject, body string) (*Outcome, error)
}

// MessagingProvider delivers rendered WhatsApp messages.
type MessagingProvider interface {
	Name() string
	SendMessage(ctx context.Context, to, body string) (*Outcome, error)
}

// NewEmailProvider builds the email provider selected by configuration.
func NewEmailProvider(cfg *config.Config) (EmailProvider, error) {
	switch cfg.EmailProvider {
	case "", "simulated":
		return NewSimulatedEmail(), nil
	case "smtp":
		return NewSMTPEmail(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}), nil
	default:
		return nil, fmt.Errorf("unknown email provider: %q", cfg.EmailProvider)
	}
}

// NewMessagingProvider builds the WhatsApp provider selected by
// configuration.
func NewMessagingProvider(cfg *config.Config) (MessagingProvider, error) {
	switch cfg.WhatsappProvider {
	case "", "simulated":
		return NewSimulatedMessaging(), nil
	case "twilio":
		return NewTwilioMessaging(TwilioConfig{
			AccountSID: cfg.TwilioAccountSID,
			AuthToken:  cfg.TwilioAuthToken,
			From:       cfg.TwilioWhatsappNumber,
		}), nil
	case "gateway":
		return NewGatewayMessaging(GatewayConfig{
			URL:     cfg.WhatsappGatewayURL,
			Timeout: cfg.DispatchTimeout,
		})
	default:
		return nil, fmt.Errorf("unknown whatsapp provider: %q", cfg.WhatsappProvider)
	}
}
