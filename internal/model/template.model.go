package model

import (
	"errors"
	"time"
)

// MessageTemplate is a reusable communication body with placeholders.
type MessageTemplate struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Channel     Channel   `json:"channel"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (MessageTemplate) TableName() string { return "message_templates" }

type MessageTemplateCreateRequest struct {
	Name        string
	Description string
	Channel     Channel
	Content     string
}

func (p MessageTemplateCreateRequest) Validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	if p.Content == "" {
		return errors.New("content is required")
	}
	if p.Channel != "" && !p.Channel.Valid() {
		return errors.New("channel must be one of email, whatsapp, both")
	}
	return nil
}

type MessageTemplateUpdateRequest struct {
	Name        *string
	Description *string
	Channel     *Channel
	Content     *string
}

type MessageTemplateFilter struct {
	Channel *Channel
	Limit   int
	Offset  int
}
