package model

import (
	"errors"
	"time"
)

// ContactStatus is the lifecycle state of a contact.
type ContactStatus string

const (
	ContactStatusActive   ContactStatus = "active"
	ContactStatusInactive ContactStatus = "inactive"
)

type Contact struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email,omitempty"`
	Whatsapp  string        `json:"whatsapp,omitempty"`
	Status    ContactStatus `json:"status"`
	Tags      []string      `json:"tags"`
	Notes     string        `json:"notes,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

func (Contact) TableName() string { return "contacts" }

// ContactCreateRequest is the input for creating a contact.
type ContactCreateRequest struct {
	Name     string
	Email    string
	Whatsapp string
	Tags     []string
	Notes    string
}

func (p ContactCreateRequest) Validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	if p.Email == "" && p.Whatsapp == "" {
		return errors.New("at least one of email or whatsapp is required")
	}
	return nil
}

// ContactUpdateRequest carries optional field updates; nil means unchanged.
type ContactUpdateRequest struct {
	Name     *string
	Email    *string
	Whatsapp *string
	Status   *ContactStatus
	Tags     []string
	Notes    *string
}

// ContactFilter controls List queries.
type ContactFilter struct {
	Status *ContactStatus
	Tag    *string // membership in tags
	Search *string // matches name prefix
	Limit  int     // default 50
	Offset int
	Desc   bool // order by created_at
}
