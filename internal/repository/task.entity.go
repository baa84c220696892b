package repository

import (
	"encoding/json"
	"time"

	"github.com/recordar/contact-gateway/internal/model"
)

type TaskEntity struct {
	ID          string     `db:"id"           gorm:"primaryKey;column:id"`
	Title       string     `db:"title"        gorm:"column:title;not null"`
	Description string     `db:"description"  gorm:"column:description"`
	DueDate     string     `db:"due_date"     gorm:"column:due_date;index"`
	DueTime     string     `db:"due_time"     gorm:"column:due_time"`
	Priority    string     `db:"priority"     gorm:"column:priority;not null;default:medium"`
	Status      string     `db:"status"       gorm:"column:status;not null;default:pending;index"`
	Tags        string     `db:"tags"         gorm:"column:tags"` // JSON-encoded []string
	CreatedAt   time.Time  `db:"created_at"   gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `db:"updated_at"   gorm:"column:updated_at;autoUpdateTime"`
	CompletedAt *time.Time `db:"completed_at" gorm:"column:completed_at"`
}

func (TaskEntity) TableName() string {
	return "tasks"
}

type TaskLogEntity struct {
	ID         string    `db:"id"          gorm:"primaryKey;column:id"`
	TaskID     string    `db:"task_id"     gorm:"column:task_id;not null;index"`
	Action     string    `db:"action"      gorm:"column:action;not null"`
	BeforeData string    `db:"before_data" gorm:"column:before_data"` // JSON object
	AfterData  string    `db:"after_data"  gorm:"column:after_data"`  // JSON object
	Actor      string    `db:"actor"       gorm:"column:actor"`
	CreatedAt  time.Time `db:"created_at"  gorm:"column:created_at;autoCreateTime"`
}

func (TaskLogEntity) TableName() string {
	return "task_logs"
}

func encodeMap(m map[string]any) string {
	if len(m) == 0 {
		return ""
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(raw)
}

func decodeMap(raw string) map[string]any {
	if raw == "" {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil
	}
	return m
}

func toTaskEntity(m *model.Task) *TaskEntity {
	if m == nil {
		return nil
	}
	return &TaskEntity{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		DueDate:     m.DueDate,
		DueTime:     m.DueTime,
		Priority:    string(m.Priority),
		Status:      string(m.Status),
		Tags:        encodeStrings(m.Tags),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		CompletedAt: m.CompletedAt,
	}
}

func toTaskModel(e *TaskEntity) *model.Task {
	if e == nil {
		return nil
	}
	return &model.Task{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		DueDate:     e.DueDate,
		DueTime:     e.DueTime,
		Priority:    model.TaskPriority(e.Priority),
		Status:      model.TaskStatus(e.Status),
		Tags:        decodeStrings(e.Tags),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
		CompletedAt: e.CompletedAt,
	}
}

func toTaskModels(entities []*TaskEntity) []*model.Task {
	if entities == nil {
		return nil
	}
	models := make([]*model.Task, len(entities))
	for i, e := range entities {
		models[i] = toTaskModel(e)
	}
	return models
}

func toTaskLogEntity(m *model.TaskLog) *TaskLogEntity {
	if m == nil {
		return nil
	}
	return &TaskLogEntity{
		ID:         m.ID,
		TaskID:     m.TaskID,
		Action:     string(m.Action),
		BeforeData: encodeMap(m.BeforeData),
		AfterData:  encodeMap(m.AfterData),
		Actor:      m.Actor,
		CreatedAt:  m.CreatedAt,
	}
}

func toTaskLogModel(e *TaskLogEntity) *model.TaskLog {
	if e == nil {
		return nil
	}
	return &model.TaskLog{
		ID:         e.ID,
		TaskID:     e.TaskID,
		Action:     model.TaskLogAction(e.Action),
		BeforeData: decodeMap(e.BeforeData),
		AfterData:  decodeMap(e.AfterData),
		Actor:      e.Actor,
		CreatedAt:  e.CreatedAt,
	}
}

func toTaskLogModels(entities []*TaskLogEntity) []*model.TaskLog {
	if entities == nil {
		return nil
	}
	models := make([]*model.TaskLog, len(entities))
	for i, e := range entities {
		models[i] = toTaskLogModel(e)
	}
	return models
}
