package providers

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/recordar/contact-gateway/pkg/logger"
)

// SimulatedEmail records sends in memory instead of delivering them. It is
// the default provider for local and test environments.
type SimulatedEmail struct {
	mu   sync.Mutex
	sent []SimulatedSend

	// FailFor marks addresses whose sends must fail with the given detail.
	FailFor map[string]string
}

// SimulatedSend is one captured delivery.
type SimulatedSend struct {
	To      string
	Subject string
	Body    string
}

func NewSimulatedEmail() *SimulatedEmail {
	return &SimulatedEmail{FailFor: make(map[string]string)}
}

func (p *SimulatedEmail) Name() string { return "simulated-email" }

func (p *SimulatedEmail) SendEmail(ctx context.Context, to, subject, body string) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if detail, ok := p.FailFor[to]; ok {
		return &Outcome{Status: OutcomeError, Detail: detail}, nil
	}

	p.sent = append(p.sent, SimulatedSend{To: to, Subject: subject, Body: body})
	logger.Debug("simulated email delivered", "to", to, "subject", subject)

	return &Outcome{Status: OutcomeSuccess, MessageID: uuid.NewString()}, nil
}

// Sent returns a copy of every captured delivery.
func (p *SimulatedEmail) Sent() []SimulatedSend {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]SimulatedSend, len(p.sent))
	copy(out, p.sent)
	return out
}

// SimulatedMessaging is the in-memory WhatsApp counterpart of
// SimulatedEmail.
type SimulatedMessaging struct {
	mu   sync.Mutex
	sent []SimulatedSend

	FailFor map[string]string
}

func NewSimulatedMessaging() *SimulatedMessaging {
	return &SimulatedMessaging{FailFor: make(map[string]string)}
}

func (p *SimulatedMessaging) Name() string { return "simulated-whatsapp" }

func (p *SimulatedMessaging) SendMessage(ctx context.Context, to, body string) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if detail, ok := p.FailFor[to]; ok {
		return &Outcome{Status: OutcomeError, Detail: detail}, nil
	}

	p.sent = append(p.sent, SimulatedSend{To: to, Body: body})
	logger.Debug("simulated whatsapp delivered", "to", to)

	return &Outcome{Status: OutcomeSuccess, MessageID: uuid.NewString()}, nil
}

func (p *SimulatedMessaging) Sent() []SimulatedSend {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]SimulatedSend, len(p.sent))
	copy(out, p.sent)
	return out
}
