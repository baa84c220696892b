package repository

import (
	"time"

	"github.com/recordar/contact-gateway/internal/model"
)

type DeliveryLogEntity struct {
	ID              string    `db:"id"               gorm:"primaryKey;column:id"`
	CommunicationID string    `db:"communication_id" gorm:"column:communication_id;not null;index"`
	ContactID       string    `db:"contact_id"       gorm:"column:contact_id;not null;index"`
	Channel         string    `db:"channel"          gorm:"column:channel;not null"`
	Content         string    `db:"content"          gorm:"column:content"`
	Outcome         string    `db:"outcome"          gorm:"column:outcome;not null"`
	ErrorDetail     string    `db:"error_detail"     gorm:"column:error_detail"`
	Attempt         int       `db:"attempt"          gorm:"column:attempt;not null;default:1"`
	CreatedAt       time.Time `db:"created_at"       gorm:"column:created_at;autoCreateTime"`
}

func (DeliveryLogEntity) TableName() string {
	return "delivery_logs"
}

func toDeliveryLogEntity(m *model.DeliveryLog) *DeliveryLogEntity {
	if m == nil {
		return nil
	}
	return &DeliveryLogEntity{
		ID:              m.ID,
		CommunicationID: m.CommunicationID,
		ContactID:       m.ContactID,
		Channel:         string(m.Channel),
		Content:         m.Content,
		Outcome:         string(m.Outcome),
		ErrorDetail:     m.ErrorDetail,
		Attempt:         m.Attempt,
		CreatedAt:       m.CreatedAt,
	}
}

func toDeliveryLogModel(e *DeliveryLogEntity) *model.DeliveryLog {
	if e == nil {
		return nil
	}
	return &model.DeliveryLog{
		ID:              e.ID,
		CommunicationID: e.CommunicationID,
		ContactID:       e.ContactID,
		Channel:         model.Channel(e.Channel),
		Content:         e.Content,
		Outcome:         model.DeliveryOutcome(e.Outcome),
		ErrorDetail:     e.ErrorDetail,
		Attempt:         e.Attempt,
		CreatedAt:       e.CreatedAt,
	}
}

func toDeliveryLogModels(entities []*DeliveryLogEntity) []*model.DeliveryLog {
	if entities == nil {
		return nil
	}
	models := make([]*model.DeliveryLog, len(entities))
	for i, e := range entities {
		models[i] = toDeliveryLogModel(e)
	}
	return models
}
