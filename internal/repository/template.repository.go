package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/recordar/contact-gateway/internal/model"
	"github.com/recordar/contact-gateway/pkg/pg"
	"gorm.io/gorm"
)

var ErrTemplateNotFound = errors.New("message template not found")

type TemplateRepository struct {
	*pg.DB
}

func NewTemplateRepository(db *pg.DB) *TemplateRepository {
	return &TemplateRepository{
		db,
	}
}

func (r *TemplateRepository) Create(ctx context.Context, tpl *model.MessageTemplate) (*model.MessageTemplate, error) {
	entity := toMessageTemplateEntity(tpl)
	if entity.ID == "" {
		entity.ID = uuid.NewString()
	}
	if entity.Channel == "" {
		entity.Channel = string(model.ChannelBoth)
	}
	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toMessageTemplateModel(entity), nil
}

func (r *TemplateRepository) Get(ctx context.Context, id string) (*model.MessageTemplate, error) {
	var entity MessageTemplateEntity
	err := r.Read(ctx).WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return toMessageTemplateModel(&entity), nil
}

func (r *TemplateRepository) List(ctx context.Context, f model.MessageTemplateFilter) ([]*model.MessageTemplate, int64, error) {
	q := r.Read(ctx).WithContext(ctx).Model(&MessageTemplateEntity{})

	if f.Channel != nil {
		q = q.Where("channel = ?", string(*f.Channel))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	var entities []*MessageTemplateEntity
	if err := q.Order("name ASC").Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	return toMessageTemplateModels(entities), total, nil
}

func (r *TemplateRepository) Update(ctx context.Context, tpl *model.MessageTemplate) (*model.MessageTemplate, error) {
	entity := toMessageTemplateEntity(tpl)

	result := r.Write(ctx).WithContext(ctx).
		Model(&MessageTemplateEntity{}).
		Where("id = ?", entity.ID).
		Updates(map[string]interface{}{
			"name":        entity.Name,
			"description": entity.Description,
			"channel":     entity.Channel,
			"content":     entity.Content,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrTemplateNotFound
	}

	return r.Get(ctx, tpl.ID)
}

func (r *TemplateRepository) Delete(ctx context.Context, id string) error {
	result := r.Write(ctx).WithContext(ctx).Where("id = ?", id).Delete(&MessageTemplateEntity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTemplateNotFound
	}
	return nil
}
