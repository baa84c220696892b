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
	// ErrContactNotFound is returned when a contact does not exist.
	ErrContactNotFound = errors.New("contact not found")
)

type ContactRepository struct {
	*pg.DB
}

func NewContactRepository(db *pg.DB) *ContactRepository {
	return &ContactRepository{
		db,
	}
}

func (r *ContactRepository) Create(ctx context.Context, c *model.Contact) (*model.Contact, error) {
	entity := toContactEntity(c)
	if entity.ID == "" {
		entity.ID = uuid.NewString()
	}
	if entity.Status == "" {
		entity.Status = string(model.ContactStatusActive)
	}

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toContactModel(entity), nil
}

func (r *ContactRepository) Get(ctx context.Context, id string) (*model.Contact, error) {
	var entity ContactEntity
	err := r.Read(ctx).WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return toContactModel(&entity), nil
}

func (r *ContactRepository) List(ctx context.Context, f model.ContactFilter) ([]*model.Contact, int64, error) {
	q := r.Read(ctx).WithContext(ctx).Model(&ContactEntity{})

	if f.Status != nil {
		q = q.Where("status = ?", string(*f.Status))
	}
	if f.Tag != nil && *f.Tag != "" {
		// tags column holds a JSON array; a quoted substring match is enough
		q = q.Where("tags LIKE ?", "%\""+*f.Tag+"\"%")
	}
	if f.Search != nil && *f.Search != "" {
		q = q.Where("name LIKE ?", *f.Search+"%")
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

	var entities []*ContactEntity
	if err := q.Order(order).Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	return toContactModels(entities), total, nil
}

func (r *ContactRepository) Update(ctx context.Context, c *model.Contact) (*model.Contact, error) {
	entity := toContactEntity(c)

	result := r.Write(ctx).WithContext(ctx).
		Model(&ContactEntity{}).
		Where("id = ?", entity.ID).
		Updates(map[string]interface{}{
			"name":     entity.Name,
			"email":    entity.Email,
			"whatsapp": entity.Whatsapp,
			"status":   entity.Status,
			"tags":     entity.Tags,
			"notes":    entity.Notes,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrContactNotFound
	}

	return r.Get(ctx, c.ID)
}

func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	result := r.Write(ctx).WithContext(ctx).Where("id = ?", id).Delete(&ContactEntity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrContactNotFound
	}
	return nil
}
