package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/recordar/contact-gateway/internal/model"
	"github.com/recordar/contact-gateway/pkg/pg"
	"gorm.io/gorm"
)

var (
	ErrCommunicationNotFound = errors.New("communication not found")
	ErrTargetNotFound        = errors.New("recipient target not found")
)

type CommunicationRepository struct {
	*pg.DB
}

func NewCommunicationRepository(db *pg.DB) *CommunicationRepository {
	return &CommunicationRepository{
		db,
	}
}

// Create persists the communication and its recipient targets in one
// transaction.
func (r *CommunicationRepository) Create(ctx context.Context, c *model.Communication, targets []*model.RecipientTarget) (*model.Communication, error) {
	entity := toCommunicationEntity(c)
	if entity.ID == "" {
		entity.ID = uuid.NewString()
	}
	if entity.Status == "" {
		entity.Status = string(model.CommunicationStatusDraft)
	}
	if entity.Variables == "" || entity.Variables == "[]" {
		entity.Variables = encodeStrings(model.DefaultVariables)
	}

	err := r.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
			return err
		}
		for i, t := range targets {
			te := toRecipientTargetEntity(t)
			te.ID = uuid.NewString()
			te.CommunicationID = entity.ID
			te.Position = i
			if te.DeliveryStatus == "" {
				te.DeliveryStatus = string(model.DeliveryStatusPending)
			}
			if err := r.Write(ctx).WithContext(ctx).Create(te).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toCommunicationModel(entity), nil
}

func (r *CommunicationRepository) Get(ctx context.Context, id string) (*model.Communication, error) {
	var entity CommunicationEntity
	err := r.Read(ctx).WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommunicationNotFound
		}
		return nil, err
	}
	return toCommunicationModel(&entity), nil
}

func (r *CommunicationRepository) List(ctx context.Context, f model.CommunicationFilter) ([]*model.Communication, int64, error) {
	q := r.Read(ctx).WithContext(ctx).Model(&CommunicationEntity{})

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

	var entities []*CommunicationEntity
	if err := q.Order(order).Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	return toCommunicationModels(entities), total, nil
}

func (r *CommunicationRepository) Update(ctx context.Context, c *model.Communication) (*model.Communication, error) {
	entity := toCommunicationEntity(c)

	result := r.Write(ctx).WithContext(ctx).
		Model(&CommunicationEntity{}).
		Where("id = ?", entity.ID).
		Updates(map[string]interface{}{
			"title":   entity.Title,
			"channel": entity.Channel,
			"content": entity.Content,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrCommunicationNotFound
	}

	return r.Get(ctx, c.ID)
}

// Delete removes the communication with its targets and delivery logs.
func (r *CommunicationRepository) Delete(ctx context.Context, id string) error {
	return r.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := r.Write(ctx).WithContext(ctx).Where("communication_id = ?", id).Delete(&DeliveryLogEntity{}).Error; err != nil {
			return err
		}
		if err := r.Write(ctx).WithContext(ctx).Where("communication_id = ?", id).Delete(&RecipientTargetEntity{}).Error; err != nil {
			return err
		}
		result := r.Write(ctx).WithContext(ctx).Where("id = ?", id).Delete(&CommunicationEntity{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCommunicationNotFound
		}
		return nil
	})
}

// UpdateStatus moves the communication's lifecycle state, stamping sent_at
// when provided.
func (r *CommunicationRepository) UpdateStatus(ctx context.Context, id string, status model.CommunicationStatus, sentAt *time.Time) error {
	updates := map[string]interface{}{"status": string(status)}
	if sentAt != nil {
		updates["sent_at"] = sentAt
	}

	result := r.Write(ctx).WithContext(ctx).
		Model(&CommunicationEntity{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCommunicationNotFound
	}
	return nil
}

// Schedule stamps the scheduled date/time and transitions to scheduled.
func (r *CommunicationRepository) Schedule(ctx context.Context, id string, date, timeOfDay string) error {
	result := r.Write(ctx).WithContext(ctx).
		Model(&CommunicationEntity{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         string(model.CommunicationStatusScheduled),
			"scheduled_date": date,
			"scheduled_time": timeOfDay,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCommunicationNotFound
	}
	return nil
}

// ListScheduledFor returns every scheduled communication whose scheduled
// date equals the given day, regardless of scheduled time. The poller
// applies the time-of-day condition itself.
func (r *CommunicationRepository) ListScheduledFor(ctx context.Context, date string) ([]*model.Communication, error) {
	var entities []*CommunicationEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("status = ? AND scheduled_date = ?", string(model.CommunicationStatusScheduled), date).
		Order("scheduled_time ASC").
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toCommunicationModels(entities), nil
}

// ListTargets returns a communication's targets in declaration order.
func (r *CommunicationRepository) ListTargets(ctx context.Context, communicationID string) ([]*model.RecipientTarget, error) {
	var entities []*RecipientTargetEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("communication_id = ?", communicationID).
		Order("position ASC").
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toRecipientTargetModels(entities), nil
}

// UpdateTarget overwrites one target's delivery bookkeeping in a single
// statement, so concurrent passes over different targets never interleave
// on the same row.
func (r *CommunicationRepository) UpdateTarget(ctx context.Context, t *model.RecipientTarget) error {
	entity := toRecipientTargetEntity(t)

	result := r.Write(ctx).WithContext(ctx).
		Model(&RecipientTargetEntity{}).
		Where("id = ?", entity.ID).
		Updates(map[string]interface{}{
			"delivery_status": entity.DeliveryStatus,
			"failed_attempts": entity.FailedAttempts,
			"last_error":      entity.LastError,
			"last_sent_at":    entity.LastSentAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTargetNotFound
	}
	return nil
}
