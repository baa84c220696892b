package repository

import (
	"time"

	"github.com/recordar/contact-gateway/internal/model"
)

type MessageTemplateEntity struct {
	ID          string    `db:"id"          gorm:"primaryKey;column:id"`
	Name        string    `db:"name"        gorm:"column:name;not null;uniqueIndex"`
	Description string    `db:"description" gorm:"column:description"`
	Channel     string    `db:"channel"     gorm:"column:channel;not null;default:both"`
	Content     string    `db:"content"     gorm:"column:content;not null"`
	CreatedAt   time.Time `db:"created_at"  gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `db:"updated_at"  gorm:"column:updated_at;autoUpdateTime"`
}

func (MessageTemplateEntity) TableName() string {
	return "message_templates"
}

func toMessageTemplateEntity(m *model.MessageTemplate) *MessageTemplateEntity {
	if m == nil {
		return nil
	}
	return &MessageTemplateEntity{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Channel:     string(m.Channel),
		Content:     m.Content,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toMessageTemplateModel(e *MessageTemplateEntity) *model.MessageTemplate {
	if e == nil {
		return nil
	}
	return &model.MessageTemplate{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Channel:     model.Channel(e.Channel),
		Content:     e.Content,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toMessageTemplateModels(entities []*MessageTemplateEntity) []*model.MessageTemplate {
	if entities == nil {
		return nil
	}
	models := make([]*model.MessageTemplate, len(entities))
	for i, e := range entities {
		models[i] = toMessageTemplateModel(e)
	}
	return models
}
