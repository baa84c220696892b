package repository

import (
	"time"

	"github.com/recordar/contact-gateway/internal/model"
)

type CommunicationEntity struct {
	ID            string     `db:"id"             gorm:"primaryKey;column:id"`
	Title         string     `db:"title"          gorm:"column:title;not null"`
	Channel       string     `db:"channel"        gorm:"column:channel;not null"`
	Content       string     `db:"content"        gorm:"column:content;not null"`
	Status        string     `db:"status"         gorm:"column:status;not null;default:draft;index"`
	ScheduledDate string     `db:"scheduled_date" gorm:"column:scheduled_date;index"`
	ScheduledTime string     `db:"scheduled_time" gorm:"column:scheduled_time"`
	SentAt        *time.Time `db:"sent_at"        gorm:"column:sent_at"`
	Variables     string     `db:"variables"      gorm:"column:variables"` // JSON-encoded []string
	CreatedAt     time.Time  `db:"created_at"     gorm:"column:created_at;autoCreateTime"`
	CreatedBy     string     `db:"created_by"     gorm:"column:created_by"`
}

func (CommunicationEntity) TableName() string {
	return "communications"
}

type RecipientTargetEntity struct {
	ID              string     `db:"id"               gorm:"primaryKey;column:id"`
	CommunicationID string     `db:"communication_id" gorm:"column:communication_id;not null;index"`
	ContactID       string     `db:"contact_id"       gorm:"column:contact_id"`
	GroupID         string     `db:"group_id"         gorm:"column:group_id"`
	Position        int        `db:"position"         gorm:"column:position;not null;default:0"`
	DeliveryStatus  string     `db:"delivery_status"  gorm:"column:delivery_status;not null;default:pending"`
	FailedAttempts  int        `db:"failed_attempts"  gorm:"column:failed_attempts;not null;default:0"`
	LastError       string     `db:"last_error"       gorm:"column:last_error"`
	LastSentAt      *time.Time `db:"last_sent_at"     gorm:"column:last_sent_at"`
}

func (RecipientTargetEntity) TableName() string {
	return "communication_targets"
}

func toCommunicationEntity(m *model.Communication) *CommunicationEntity {
	if m == nil {
		return nil
	}
	return &CommunicationEntity{
		ID:            m.ID,
		Title:         m.Title,
		Channel:       string(m.Channel),
		Content:       m.Content,
		Status:        string(m.Status),
		ScheduledDate: m.ScheduledDate,
		ScheduledTime: m.ScheduledTime,
		SentAt:        m.SentAt,
		Variables:     encodeStrings(m.Variables),
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
	}
}

func toCommunicationModel(e *CommunicationEntity) *model.Communication {
	if e == nil {
		return nil
	}
	return &model.Communication{
		ID:            e.ID,
		Title:         e.Title,
		Channel:       model.Channel(e.Channel),
		Content:       e.Content,
		Status:        model.CommunicationStatus(e.Status),
		ScheduledDate: e.ScheduledDate,
		ScheduledTime: e.ScheduledTime,
		SentAt:        e.SentAt,
		Variables:     decodeStrings(e.Variables),
		CreatedAt:     e.CreatedAt,
		CreatedBy:     e.CreatedBy,
	}
}

func toCommunicationModels(entities []*CommunicationEntity) []*model.Communication {
	if entities == nil {
		return nil
	}
	models := make([]*model.Communication, len(entities))
	for i, e := range entities {
		models[i] = toCommunicationModel(e)
	}
	return models
}

func toRecipientTargetEntity(m *model.RecipientTarget) *RecipientTargetEntity {
	if m == nil {
		return nil
	}
	return &RecipientTargetEntity{
		ID:              m.ID,
		CommunicationID: m.CommunicationID,
		ContactID:       m.ContactID,
		GroupID:         m.GroupID,
		Position:        m.Position,
		DeliveryStatus:  string(m.DeliveryStatus),
		FailedAttempts:  m.FailedAttempts,
		LastError:       m.LastError,
		LastSentAt:      m.LastSentAt,
	}
}

func toRecipientTargetModel(e *RecipientTargetEntity) *model.RecipientTarget {
	if e == nil {
		return nil
	}
	return &model.RecipientTarget{
		ID:              e.ID,
		CommunicationID: e.CommunicationID,
		ContactID:       e.ContactID,
		GroupID:         e.GroupID,
		Position:        e.Position,
		DeliveryStatus:  model.DeliveryStatus(e.DeliveryStatus),
		FailedAttempts:  e.FailedAttempts,
		LastError:       e.LastError,
		LastSentAt:      e.LastSentAt,
	}
}

func toRecipientTargetModels(entities []*RecipientTargetEntity) []*model.RecipientTarget {
	if entities == nil {
		return nil
	}
	models := make([]*model.RecipientTarget, len(entities))
	for i, e := range entities {
		models[i] = toRecipientTargetModel(e)
	}
	return models
}
