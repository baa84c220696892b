package providers

import (
	"context"
	"strings"

	"github.com/recordar/contact-gateway/pkg/logger"
	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	From       string
}

// TwilioMessaging delivers WhatsApp messages through the Twilio API.
type TwilioMessaging struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioMessaging(cfg TwilioConfig) *TwilioMessaging {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &TwilioMessaging{
		client: client,
		from:   cfg.From,
	}
}

func (p *TwilioMessaging) Name() string { return "twilio" }

func (p *TwilioMessaging) SendMessage(ctx context.Context, to, body string) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetFrom(whatsappAddress(p.from))
	params.SetTo(whatsappAddress(to))
	params.SetBody(body)

	resp, err := p.client.Api.CreateMessage(params)
	if err != nil {
		logger.Warn("twilio send failed", "to", to, "error", err)
		return &Outcome{Status: OutcomeError, Detail: err.Error()}, nil
	}

	var sid string
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	return &Outcome{Status: OutcomeSuccess, MessageID: sid}, nil
}

// whatsappAddress ensures the Twilio channel prefix exactly once.
func whatsappAddress(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}
