package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/recordar/contact-gateway/internal/model"
	"github.com/recordar/contact-gateway/pkg/pg"
	"gorm.io/gorm"
)

var (
	ErrGroupNotFound  = errors.New("group not found")
	ErrMemberNotFound = errors.New("group member not found")
	ErrMemberExists   = errors.New("contact is already a member of the group")
)

type GroupRepository struct {
	*pg.DB
}

func NewGroupRepository(db *pg.DB) *GroupRepository {
	return &GroupRepository{
		db,
	}
}

func (r *GroupRepository) Create(ctx context.Context, g *model.Group) (*model.Group, error) {
	entity := toGroupEntity(g)
	if entity.ID == "" {
		entity.ID = uuid.NewString()
	}
	if entity.Status == "" {
		entity.Status = string(model.GroupStatusActive)
	}

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toGroupModel(entity), nil
}

func (r *GroupRepository) Get(ctx context.Context, id string) (*model.Group, error) {
	var entity GroupEntity
	err := r.Read(ctx).WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return toGroupModel(&entity), nil
}

func (r *GroupRepository) List(ctx context.Context, f model.GroupFilter) ([]*model.Group, int64, error) {
	q := r.Read(ctx).WithContext(ctx).Model(&GroupEntity{})

	if f.Status != nil {
		q = q.Where("status = ?", string(*f.Status))
	}
	if f.Channel != nil {
		q = q.Where("channel = ?", string(*f.Channel))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at"
	if f.Desc {
		order += " DESC"
	} else {
		order += " ASC"
	}

	limit := f.Limit
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	var entities []*GroupEntity
	if err := q.Order(order).Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	return toGroupModels(entities), total, nil
}

func (r *GroupRepository) Update(ctx context.Context, g *model.Group) (*model.Group, error) {
	entity := toGroupEntity(g)

	result := r.Write(ctx).WithContext(ctx).
		Model(&GroupEntity{}).
		Where("id = ?", entity.ID).
		Updates(map[string]interface{}{
			"name":        entity.Name,
			"description": entity.Description,
			"channel":     entity.Channel,
			"status":      entity.Status,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrGroupNotFound
	}

	return r.Get(ctx, g.ID)
}

func (r *GroupRepository) Delete(ctx context.Context, id string) error {
	err := r.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := r.Write(ctx).WithContext(ctx).Where("group_id = ?", id).Delete(&GroupMemberEntity{}).Error; err != nil {
			return err
		}
		result := r.Write(ctx).WithContext(ctx).Where("id = ?", id).Delete(&GroupEntity{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrGroupNotFound
		}
		return nil
	})
	return err
}

func (r *GroupRepository) AddMember(ctx context.Context, groupID, contactID string) error {
	var count int64
	err := r.Read(ctx).WithContext(ctx).Model(&GroupMemberEntity{}).
		Where("group_id = ? AND contact_id = ?", groupID, contactID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrMemberExists
	}

	entity := &GroupMemberEntity{GroupID: groupID, ContactID: contactID}
	return r.Write(ctx).WithContext(ctx).Create(entity).Error
}

func (r *GroupRepository) RemoveMember(ctx context.Context, groupID, contactID string) error {
	result := r.Write(ctx).WithContext(ctx).
		Where("group_id = ? AND contact_id = ?", groupID, contactID).
		Delete(&GroupMemberEntity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

// ListMemberContacts returns the group's contacts in membership order.
// Contacts that no longer exist are simply absent from the join.
func (r *GroupRepository) ListMemberContacts(ctx context.Context, groupID string) ([]*model.Contact, error) {
	var entities []*ContactEntity
	err := r.Read(ctx).WithContext(ctx).
		Table("contacts AS c").
		Select("c.*").
		Joins("JOIN group_members AS gm ON gm.contact_id = c.id").
		Where("gm.group_id = ?", groupID).
		Order("gm.added_at ASC").
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toContactModels(entities), nil
}

// ListActiveMemberContacts is ListMemberContacts restricted to active
// contacts; this is what recipient resolution uses.
func (r *GroupRepository) ListActiveMemberContacts(ctx context.Context, groupID string) ([]*model.Contact, error) {
	var entities []*ContactEntity
	err := r.Read(ctx).WithContext(ctx).
		Table("contacts AS c").
		Select("c.*").
		Joins("JOIN group_members AS gm ON gm.contact_id = c.id").
		Where("gm.group_id = ? AND c.status = ?", groupID, string(model.ContactStatusActive)).
		Order("gm.added_at ASC").
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toContactModels(entities), nil
}

func (r *GroupRepository) CountMembers(ctx context.Context, groupID string) (int64, error) {
	var count int64
	err := r.Read(ctx).WithContext(ctx).Model(&GroupMemberEntity{}).
		Where("group_id = ?", groupID).
		Count(&count).Error
	return count, err
}
