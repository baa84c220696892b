package model

import "time"

// DeliveryOutcome is the result of one send attempt.
type DeliveryOutcome string

const (
	DeliveryOutcomeSuccess DeliveryOutcome = "success"
	DeliveryOutcomeFailure DeliveryOutcome = "failure"
)

// DeliveryLog is an append-only record of a single send attempt, one row
// per (contact, channel, attempt).
type DeliveryLog struct {
	ID              string          `json:"id"`
	CommunicationID string          `json:"communication_id"`
	ContactID       string          `json:"contact_id"`
	Channel         Channel         `json:"channel"`
	Content         string          `json:"content"` // rendered message as sent
	Outcome         DeliveryOutcome `json:"outcome"`
	ErrorDetail     string          `json:"error_detail,omitempty"`
	Attempt         int             `json:"attempt"`
	CreatedAt       time.Time       `json:"created_at"`
}

func (DeliveryLog) TableName() string { return "delivery_logs" }

type DeliveryLogFilter struct {
	CommunicationID *string
	ContactID       *string
	From            *time.Time
	To              *time.Time
	Limit           int
	Offset          int
}
