package model

import (
	"errors"
	"time"
)

type GroupStatus string

const (
	GroupStatusActive   GroupStatus = "active"
	GroupStatusInactive GroupStatus = "inactive"
)

type Group struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Channel     Channel     `json:"channel"`
	Status      GroupStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
}

func (Group) TableName() string { return "groups" }

// GroupMember is the (group, contact) membership pair. It has no identity
// beyond the pair itself.
type GroupMember struct {
	GroupID   string    `json:"group_id"`
	ContactID string    `json:"contact_id"`
	AddedAt   time.Time `json:"added_at"`
}

func (GroupMember) TableName() string { return "group_members" }

type GroupCreateRequest struct {
	Name        string
	Description string
	Channel     Channel
}

func (p GroupCreateRequest) Validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	if !p.Channel.Valid() {
		return errors.New("channel must be one of email, whatsapp, both")
	}
	return nil
}

type GroupUpdateRequest struct {
	Name        *string
	Description *string
	Channel     *Channel
	Status      *GroupStatus
}

type GroupFilter struct {
	Status  *GroupStatus
	Channel *Channel
	Limit   int
	Offset  int
	Desc    bool
}
