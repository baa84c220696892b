package services

import (
	"context"
	"strings"
	"time"

	"github.com/recordar/contact-gateway/internal/model"
)

type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) (*model.Task, error)
	Get(ctx context.Context, id string) (*model.Task, error)
	List(ctx context.Context, f model.TaskFilter) ([]*model.Task, int64, error)
	Update(ctx context.Context, task *model.Task) (*model.Task, error)
	Delete(ctx context.Context, id string) error
	CreateLog(ctx context.Context, log *model.TaskLog) (*model.TaskLog, error)
	ListLogs(ctx context.Context, taskID string) ([]*model.TaskLog, error)
	Stats(ctx context.Context, today string) (*model.TaskStats, error)
	UpdateStatus(ctx context.Context, id string, status model.TaskStatus, completedAt *time.Time) error
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type TaskService struct {
	repo TaskRepository
	now  func() time.Time
}

func NewTaskService(repo TaskRepository) *TaskService {
	return &TaskService{
		repo: repo,
		now:  time.Now,
	}
}

// WithClock replaces the service's time source, used by urgency
// classification and completion stamps.
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

func (s *TaskService) Create(ctx context.Context, p model.TaskCreateRequest) (*model.Task, error) {
	p.Title = strings.TrimSpace(p.Title)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := validateDayTime(p.DueDate, p.DueTime); err != nil {
		return nil, err
	}

	var created *model.Task
	err := s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		task, err := s.repo.Create(ctx, &model.Task{
			Title:       p.Title,
			Description: p.Description,
			DueDate:     p.DueDate,
			DueTime:     p.DueTime,
			Priority:    p.Priority,
			Tags:        p.Tags,
		})
		if err != nil {
			return err
		}
		created = task

		_, err = s.repo.CreateLog(ctx, &model.TaskLog{
			TaskID:    task.ID,
			Action:    model.TaskLogActionCreated,
			AfterData: taskSnapshot(task),
			Actor:     p.Actor,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *TaskService) Get(ctx context.Context, id string) (*model.TaskWithUrgency, error) {
	task, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withUrgency(task), nil
}

func (s *TaskService) List(ctx context.Context, f model.TaskFilter) ([]*model.TaskWithUrgency, int64, error) {
	tasks, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*model.TaskWithUrgency, len(tasks))
	for i, task := range tasks {
		out[i] = s.withUrgency(task)
	}
	return out, total, nil
}

func (s *TaskService) Update(ctx context.Context, id string, p model.TaskUpdateRequest) (*model.Task, error) {
	task, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	before := taskSnapshot(task)

	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return nil, ErrValidation
		}
		task.Title = title
	}
	if p.Description != nil {
		task.Description = *p.Description
	}
	if p.DueDate != nil {
		task.DueDate = *p.DueDate
	}
	if p.DueTime != nil {
		task.DueTime = *p.DueTime
	}
	if p.Priority != nil {
		if !p.Priority.Valid() {
			return nil, ErrValidation
		}
		task.Priority = *p.Priority
	}
	if p.Tags != nil {
		task.Tags = p.Tags
	}
	if err := validateDayTime(task.DueDate, task.DueTime); err != nil {
		return nil, err
	}

	var updated *model.Task
	err = s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		task, err := s.repo.Update(ctx, task)
		if err != nil {
			return err
		}
		updated = task

		_, err = s.repo.CreateLog(ctx, &model.TaskLog{
			TaskID:     task.ID,
			Action:     model.TaskLogActionUpdated,
			BeforeData: before,
			AfterData:  taskSnapshot(task),
			Actor:      p.Actor,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ChangeStatus transitions the task, stamping completed_at when the new
// status is completed and clearing it otherwise.
func (s *TaskService) ChangeStatus(ctx context.Context, id string, status model.TaskStatus, actor string) (*model.Task, error) {
	if !status.Valid() {
		return nil, ErrValidation
	}

	task, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.Status == status {
		return task, nil
	}

	var completedAt *time.Time
	if status == model.TaskStatusCompleted {
		now := s.now()
		completedAt = &now
	}

	before := map[string]any{"status": string(task.Status)}
	after := map[string]any{"status": string(status)}

	err = s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.UpdateStatus(ctx, id, status, completedAt); err != nil {
			return err
		}
		_, err := s.repo.CreateLog(ctx, &model.TaskLog{
			TaskID:     id,
			Action:     model.TaskLogActionStatusChanged,
			BeforeData: before,
			AfterData:  after,
			Actor:      actor,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, id)
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *TaskService) History(ctx context.Context, id string) ([]*model.TaskLog, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListLogs(ctx, id)
}

func (s *TaskService) Stats(ctx context.Context) (*model.TaskStats, error) {
	return s.repo.Stats(ctx, s.now().Format(model.DateLayout))
}

func (s *TaskService) withUrgency(task *model.Task) *model.TaskWithUrgency {
	out := &model.TaskWithUrgency{Task: *task}
	out.Urgency, out.DaysRemaining = s.classify(task)
	return out
}

// classify derives urgency from the due date relative to today.
func (s *TaskService) classify(task *model.Task) (model.TaskUrgency, *int) {
	if task.DueDate == "" {
		return model.TaskUrgencyNoDue, nil
	}

	due, err := time.Parse(model.DateLayout, task.DueDate)
	if err != nil {
		return model.TaskUrgencyNoDue, nil
	}

	today, _ := time.Parse(model.DateLayout, s.now().Format(model.DateLayout))
	days := int(due.Sub(today).Hours() / 24)

	switch {
	case days < 0:
		return model.TaskUrgencyOverdue, &days
	case days == 0:
		return model.TaskUrgencyDueToday, &days
	case days <= 3:
		return model.TaskUrgencyUrgent, &days
	default:
		return model.TaskUrgencyNormal, &days
	}
}

func taskSnapshot(task *model.Task) map[string]any {
	return map[string]any{
		"title":       task.Title,
		"description": task.Description,
		"due_date":    task.DueDate,
		"due_time":    task.DueTime,
		"priority":    string(task.Priority),
		"status":      string(task.Status),
		"tags":        task.Tags,
	}
}

func validateDayTime(date, timeOfDay string) error {
	if date != "" {
		if _, err := time.Parse(model.DateLayout, date); err != nil {
			return ErrValidation
		}
	}
	if timeOfDay != "" {
		if _, err := time.Parse(model.TimeLayout, timeOfDay); err != nil {
			return ErrValidation
		}
	}
	return nil
}
