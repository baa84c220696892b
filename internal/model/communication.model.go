package model

import (
	"errors"
	"time"
)

// Channel is a messaging medium a communication can be sent over.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsapp Channel = "whatsapp"
	ChannelBoth     Channel = "both"
)

func (c Channel) Valid() bool {
	return c == ChannelEmail || c == ChannelWhatsapp || c == ChannelBoth
}

// Expand returns the concrete send channels for a communication channel.
// "both" fans out to email then whatsapp, in that order.
func (c Channel) Expand() []Channel {
	if c == ChannelBoth {
		return []Channel{ChannelEmail, ChannelWhatsapp}
	}
	return []Channel{c}
}

// CommunicationStatus is the lifecycle state of a communication.
type CommunicationStatus string

const (
	CommunicationStatusDraft         CommunicationStatus = "draft"
	CommunicationStatusScheduled     CommunicationStatus = "scheduled"
	CommunicationStatusSent          CommunicationStatus = "sent"
	CommunicationStatusPartiallySent CommunicationStatus = "partially_sent"
	CommunicationStatusFailed        CommunicationStatus = "failed"
)

// DeliveryStatus is the per-target delivery state.
type DeliveryStatus string

const (
	DeliveryStatusPending  DeliveryStatus = "pending"
	DeliveryStatusSent     DeliveryStatus = "sent"
	DeliveryStatusFailed   DeliveryStatus = "failed"
	DeliveryStatusRetrying DeliveryStatus = "retrying"
)

// MaxFailedAttempts is the bound on recorded failures per target; reaching
// it forces the target's delivery state to failed.
const MaxFailedAttempts = 3

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// DefaultVariables are the placeholders recognized by the template engine.
var DefaultVariables = []string{"{{name}}", "{{email}}", "{{whatsapp}}"}

type Communication struct {
	ID            string              `json:"id"`
	Title         string              `json:"title"`
	Channel       Channel             `json:"channel"`
	Content       string              `json:"content"`
	Status        CommunicationStatus `json:"status"`
	ScheduledDate string              `json:"scheduled_date,omitempty"` // DateLayout
	ScheduledTime string              `json:"scheduled_time,omitempty"` // TimeLayout
	SentAt        *time.Time          `json:"sent_at,omitempty"`
	Variables     []string            `json:"variables"`
	CreatedAt     time.Time           `json:"created_at"`
	CreatedBy     string              `json:"created_by,omitempty"`
}

func (Communication) TableName() string { return "communications" }

// RecipientTarget is one declared addressee of a communication: either a
// direct contact or a group, never both.
type RecipientTarget struct {
	ID              string         `json:"id"`
	CommunicationID string         `json:"communication_id"`
	ContactID       string         `json:"contact_id,omitempty"`
	GroupID         string         `json:"group_id,omitempty"`
	Position        int            `json:"position"`
	DeliveryStatus  DeliveryStatus `json:"delivery_status"`
	FailedAttempts  int            `json:"failed_attempts"`
	LastError       string         `json:"last_error,omitempty"`
	LastSentAt      *time.Time     `json:"last_sent_at,omitempty"`
}

func (RecipientTarget) TableName() string { return "communication_targets" }

func (t RecipientTarget) Validate() error {
	if (t.ContactID == "") == (t.GroupID == "") {
		return errors.New("target must reference exactly one of contact or group")
	}
	return nil
}

type CommunicationCreateRequest struct {
	Title      string
	Channel    Channel
	Content    string
	CreatedBy  string
	ContactIDs []string
	GroupIDs   []string
}

func (p CommunicationCreateRequest) Validate() error {
	if p.Title == "" {
		return errors.New("title is required")
	}
	if p.Content == "" {
		return errors.New("content is required")
	}
	if !p.Channel.Valid() {
		return errors.New("channel must be one of email, whatsapp, both")
	}
	return nil
}

type CommunicationUpdateRequest struct {
	Title   *string
	Channel *Channel
	Content *string
}

type CommunicationFilter struct {
	Status  *CommunicationStatus
	Channel *Channel
	Limit   int
	Offset  int
	Desc    bool // order by created_at
}

// CommunicationStats is the per-target rollup exposed by the stats endpoint.
type CommunicationStats struct {
	CommunicationID string  `json:"communication_id"`
	Title           string  `json:"title"`
	TotalTargets    int     `json:"total_targets"`
	Sent            int     `json:"sent"`
	Failed          int     `json:"failed"`
	Pending         int     `json:"pending"`
	Retrying        int     `json:"retrying"`
	SuccessRate     float64 `json:"success_rate"`
}
