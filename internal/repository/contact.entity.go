package repository

import (
	"encoding/json"
	"time"

	"github.com/recordar/contact-gateway/internal/model"
)

type ContactEntity struct {
	ID        string    `db:"id"         gorm:"primaryKey;column:id"`
	Name      string    `db:"name"       gorm:"column:name;not null"`
	Email     string    `db:"email"      gorm:"column:email"`
	Whatsapp  string    `db:"whatsapp"   gorm:"column:whatsapp"`
	Status    string    `db:"status"     gorm:"column:status;not null;default:active;index"`
	Tags      string    `db:"tags"       gorm:"column:tags"` // JSON-encoded []string
	Notes     string    `db:"notes"      gorm:"column:notes"`
	CreatedAt time.Time `db:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (ContactEntity) TableName() string {
	return "contacts"
}

// encodeStrings serializes a string slice for a text column. Arrays are
// stored as JSON so the same entities work on postgres and sqlite.
func encodeStrings(ss []string) string {
	if len(ss) == 0 {
		return "[]"
	}
	b, err := json.Marshal(ss)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func decodeStrings(s string) []string {
	if s == "" {
		return []string{}
	}
	var ss []string
	if err := json.Unmarshal([]byte(s), &ss); err != nil {
		return []string{}
	}
	return ss
}

func toContactEntity(m *model.Contact) *ContactEntity {
	if m == nil {
		return nil
	}
	return &ContactEntity{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Whatsapp:  m.Whatsapp,
		Status:    string(m.Status),
		Tags:      encodeStrings(m.Tags),
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
	}
}

func toContactModel(e *ContactEntity) *model.Contact {
	if e == nil {
		return nil
	}
	return &model.Contact{
		ID:        e.ID,
		Name:      e.Name,
		Email:     e.Email,
		Whatsapp:  e.Whatsapp,
		Status:    model.ContactStatus(e.Status),
		Tags:      decodeStrings(e.Tags),
		Notes:     e.Notes,
		CreatedAt: e.CreatedAt,
	}
}

func toContactModels(entities []*ContactEntity) []*model.Contact {
	if entities == nil {
		return nil
	}
	models := make([]*model.Contact, len(entities))
	for i, e := range entities {
		models[i] = toContactModel(e)
	}
	return models
}
