package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/recordar/contact-gateway/internal/model"
	"github.com/recordar/contact-gateway/pkg/pg"
)

type DeliveryLogRepository struct {
	*pg.DB
}

func NewDeliveryLogRepository(db *pg.DB) *DeliveryLogRepository {
	return &DeliveryLogRepository{
		db,
	}
}

func (r *DeliveryLogRepository) Create(ctx context.Context, log *model.DeliveryLog) (*model.DeliveryLog, error) {
	entity := toDeliveryLogEntity(log)
	if entity.ID == "" {
		entity.ID = uuid.NewString()
	}
	if entity.Attempt <= 0 {
		entity.Attempt = 1
	}
	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toDeliveryLogModel(entity), nil
}

func (r *DeliveryLogRepository) List(ctx context.Context, f model.DeliveryLogFilter) ([]*model.DeliveryLog, int64, error) {
	q := r.Read(ctx).WithContext(ctx).Model(&DeliveryLogEntity{})

	if f.CommunicationID != nil {
		q = q.Where("communication_id = ?", *f.CommunicationID)
	}
	if f.ContactID != nil {
		q = q.Where("contact_id = ?", *f.ContactID)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
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

	var entities []*DeliveryLogEntity
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	return toDeliveryLogModels(entities), total, nil
}

// CountByOutcome tallies attempt rows per outcome for one communication.
func (r *DeliveryLogRepository) CountByOutcome(ctx context.Context, communicationID string) (map[model.DeliveryOutcome]int64, error) {
	type row struct {
		Outcome string
		Total   int64
	}

	var rows []row
	err := r.Read(ctx).WithContext(ctx).
		Model(&DeliveryLogEntity{}).
		Select("outcome, count(*) as total").
		Where("communication_id = ?", communicationID).
		Group("outcome").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.DeliveryOutcome]int64, len(rows))
	for _, r := range rows {
		counts[model.DeliveryOutcome(r.Outcome)] = r.Total
	}
	return counts, nil
}
