package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/recordar/contact-gateway/pkg/logger"
	"github.com/valyala/fasthttp"
)

type GatewayConfig struct {
	URL     string
	Timeout time.Duration
}

type gatewaySendRequest struct {
	To      string `json:"to"`
	Content string `json:"content"`
}

type gatewaySendResponse struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
	ErrorMsg  string `json:"error_message,omitempty"`
}

// GatewayMessaging delivers WhatsApp messages through an external HTTP
// gateway speaking a small JSON protocol. cmd/whatsapp-sim implements the
// same protocol for local runs.
type GatewayMessaging struct {
	url     string
	timeout time.Duration
	client  *fasthttp.Client
}

func NewGatewayMessaging(cfg GatewayConfig) (*GatewayMessaging, error) {
	if cfg.URL == "" {
		return nil, errors.New("gateway url is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &GatewayMessaging{
		url:     cfg.URL,
		timeout: timeout,
		client: &fasthttp.Client{
			MaxConnsPerHost:     64,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: 60 * time.Second,
		},
	}, nil
}

func (p *GatewayMessaging) Name() string { return "gateway" }

func (p *GatewayMessaging) SendMessage(ctx context.Context, to, body string) (*Outcome, error) {
	reqBody, err := json.Marshal(gatewaySendRequest{To: to, Content: body})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(p.url + "/api/v1/whatsapp/send")
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(reqBody)

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(p.timeout)
	}

	if err := p.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}

	statusCode := resp.StatusCode()
	if statusCode != fasthttp.StatusOK && statusCode != fasthttp.StatusAccepted {
		return &Outcome{
			Status: OutcomeError,
			Detail: fmt.Sprintf("unexpected status code: %d", statusCode),
		}, nil
	}

	var parsed gatewaySendResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if parsed.Status != "DELIVERED" {
		logger.Warn("gateway rejected message", "to", to, "status", parsed.Status, "error", parsed.ErrorMsg)
		return &Outcome{Status: OutcomeError, MessageID: parsed.MessageID, Detail: parsed.ErrorMsg}, nil
	}

	return &Outcome{Status: OutcomeSuccess, MessageID: parsed.MessageID}, nil
}
