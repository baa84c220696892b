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

var ErrTaskNotFound = errors.New("task not found")

type TaskRepository struct {
	*pg.DB
}

func NewTaskRepository(db *pg.DB) *TaskRepository {
	return &TaskRepository{
		db,
	}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) (*model.Task, error) {
	entity := toTaskEntity(task)
	if entity.ID == "" {
		entity.ID = uuid.NewString()
	}
	if entity.Status == "" {
		entity.Status = string(model.TaskStatusPending)
	}
	if entity.Priority == "" {
		entity.Priority = string(model.TaskPriorityMedium)
	}
	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toTaskModel(entity), nil
}

func (r *TaskRepository) Get(ctx context.Context, id string) (*model.Task, error) {
	var entity TaskEntity
	err := r.Read(ctx).WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return toTaskModel(&entity), nil
}

func (r *TaskRepository) List(ctx context.Context, f model.TaskFilter) ([]*model.Task, int64, error) {
	q := r.Read(ctx).WithContext(ctx).Model(&TaskEntity{})

	if f.Status != nil {
		q = q.Where("status = ?", string(*f.Status))
	}
	if f.Priority != nil {
		q = q.Where("priority = ?", string(*f.Priority))
	}
	if f.Tag != nil {
		q = q.Where("tags LIKE ?", "%\""+*f.Tag+"\"%")
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

	var entities []*TaskEntity
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&entities).Error
	if err != nil {
		return nil, 0, err
	}

	return toTaskModels(entities), total, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *model.Task) (*model.Task, error) {
	entity := toTaskEntity(task)

	result := r.Write(ctx).WithContext(ctx).
		Model(&TaskEntity{}).
		Where("id = ?", entity.ID).
		Updates(map[string]interface{}{
			"title":        entity.Title,
			"description":  entity.Description,
			"due_date":     entity.DueDate,
			"due_time":     entity.DueTime,
			"priority":     entity.Priority,
			"status":       entity.Status,
			"tags":         entity.Tags,
			"completed_at": entity.CompletedAt,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrTaskNotFound
	}

	return r.Get(ctx, task.ID)
}

// Delete removes the task and its audit log rows.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	return r.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := r.Write(ctx).WithContext(ctx).Where("task_id = ?", id).Delete(&TaskLogEntity{}).Error; err != nil {
			return err
		}
		result := r.Write(ctx).WithContext(ctx).Where("id = ?", id).Delete(&TaskEntity{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTaskNotFound
		}
		return nil
	})
}

func (r *TaskRepository) CreateLog(ctx context.Context, log *model.TaskLog) (*model.TaskLog, error) {
	entity := toTaskLogEntity(log)
	if entity.ID == "" {
		entity.ID = uuid.NewString()
	}
	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toTaskLogModel(entity), nil
}

func (r *TaskRepository) ListLogs(ctx context.Context, taskID string) ([]*model.TaskLog, error) {
	var entities []*TaskLogEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toTaskLogModels(entities), nil
}

// Stats aggregates task counts by status and priority, plus overdue
// pending work as of the given day.
func (r *TaskRepository) Stats(ctx context.Context, today string) (*model.TaskStats, error) {
	type row struct {
		Status   string
		Priority string
		Total    int64
	}

	var rows []row
	err := r.Read(ctx).WithContext(ctx).
		Model(&TaskEntity{}).
		Select("status, priority, count(*) as total").
		Group("status").
		Group("priority").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := &model.TaskStats{
		ByStatus:   make(map[model.TaskStatus]int),
		ByPriority: make(map[model.TaskPriority]int),
	}
	for _, rw := range rows {
		stats.Total += int(rw.Total)
		stats.ByStatus[model.TaskStatus(rw.Status)] += int(rw.Total)
		stats.ByPriority[model.TaskPriority(rw.Priority)] += int(rw.Total)
	}

	var overdue int64
	err = r.Read(ctx).WithContext(ctx).
		Model(&TaskEntity{}).
		Where("status IN ?", []string{string(model.TaskStatusPending), string(model.TaskStatusInProgress)}).
		Where("due_date != '' AND due_date < ?", today).
		Count(&overdue).Error
	if err != nil {
		return nil, err
	}
	stats.Overdue = int(overdue)

	return stats, nil
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, id string, status model.TaskStatus, completedAt *time.Time) error {
	result := r.Write(ctx).WithContext(ctx).
		Model(&TaskEntity{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       string(status),
			"completed_at": completedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
