package repository

import (
	"time"

	"github.com/recordar/contact-gateway/internal/model"
)

type GroupEntity struct {
	ID          string    `db:"id"          gorm:"primaryKey;column:id"`
	Name        string    `db:"name"        gorm:"column:name;not null"`
	Description string    `db:"description" gorm:"column:description"`
	Channel     string    `db:"channel"     gorm:"column:channel;not null"`
	Status      string    `db:"status"      gorm:"column:status;not null;default:active;index"`
	CreatedAt   time.Time `db:"created_at"  gorm:"column:created_at;autoCreateTime"`
}

func (GroupEntity) TableName() string {
	return "groups"
}

type GroupMemberEntity struct {
	GroupID   string    `db:"group_id"   gorm:"primaryKey;column:group_id"`
	ContactID string    `db:"contact_id" gorm:"primaryKey;column:contact_id"`
	AddedAt   time.Time `db:"added_at"   gorm:"column:added_at;autoCreateTime"`
}

func (GroupMemberEntity) TableName() string {
	return "group_members"
}

func toGroupEntity(m *model.Group) *GroupEntity {
	if m == nil {
		return nil
	}
	return &GroupEntity{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Channel:     string(m.Channel),
		Status:      string(m.Status),
		CreatedAt:   m.CreatedAt,
	}
}

func toGroupModel(e *GroupEntity) *model.Group {
	if e == nil {
		return nil
	}
	return &model.Group{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Channel:     model.Channel(e.Channel),
		Status:      model.GroupStatus(e.Status),
		CreatedAt:   e.CreatedAt,
	}
}

func toGroupModels(entities []*GroupEntity) []*model.Group {
	if entities == nil {
		return nil
	}
	models := make([]*model.Group, len(entities))
	for i, e := range entities {
		models[i] = toGroupModel(e)
	}
	return models
}

func toGroupMemberModel(e *GroupMemberEntity) *model.GroupMember {
	if e == nil {
		return nil
	}
	return &model.GroupMember{
		GroupID:   e.GroupID,
		ContactID: e.ContactID,
		AddedAt:   e.AddedAt,
	}
}
