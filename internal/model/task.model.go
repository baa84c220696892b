package model

import (
	"errors"
	"time"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

// TaskUrgency is derived from the due date relative to today, never stored.
type TaskUrgency string

const (
	TaskUrgencyOverdue  TaskUrgency = "overdue"
	TaskUrgencyDueToday TaskUrgency = "due_today"
	TaskUrgencyUrgent   TaskUrgency = "urgent" // due within 3 days
	TaskUrgencyNormal   TaskUrgency = "normal"
	TaskUrgencyNoDue    TaskUrgency = "no_due_date"
)

type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	DueDate     string       `json:"due_date,omitempty"` // DateLayout
	DueTime     string       `json:"due_time,omitempty"` // TimeLayout
	Priority    TaskPriority `json:"priority"`
	Status      TaskStatus   `json:"status"`
	Tags        []string     `json:"tags"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}

func (Task) TableName() string { return "tasks" }

// TaskWithUrgency augments a task with its derived urgency.
type TaskWithUrgency struct {
	Task
	DaysRemaining *int        `json:"days_remaining"`
	Urgency       TaskUrgency `json:"urgency"`
}

// TaskLogAction is the kind of mutation recorded in the task audit log.
type TaskLogAction string

const (
	TaskLogActionCreated       TaskLogAction = "created"
	TaskLogActionUpdated       TaskLogAction = "updated"
	TaskLogActionStatusChanged TaskLogAction = "status_changed"
)

// TaskLog is an append-only audit record of one task mutation with
// before/after snapshots.
type TaskLog struct {
	ID         string        `json:"id"`
	TaskID     string        `json:"task_id"`
	Action     TaskLogAction `json:"action"`
	BeforeData map[string]any `json:"before_data,omitempty"`
	AfterData  map[string]any `json:"after_data,omitempty"`
	Actor      string        `json:"actor"`
	CreatedAt  time.Time     `json:"created_at"`
}

func (TaskLog) TableName() string { return "task_logs" }

type TaskCreateRequest struct {
	Title       string
	Description string
	DueDate     string
	DueTime     string
	Priority    TaskPriority
	Tags        []string
	Actor       string
}

func (p TaskCreateRequest) Validate() error {
	if p.Title == "" {
		return errors.New("title is required")
	}
	if p.Priority != "" && !p.Priority.Valid() {
		return errors.New("priority must be one of low, medium, high, urgent")
	}
	return nil
}

type TaskUpdateRequest struct {
	Title       *string
	Description *string
	DueDate     *string
	DueTime     *string
	Priority    *TaskPriority
	Tags        []string
	Actor       string
}

type TaskFilter struct {
	Status   *TaskStatus
	Priority *TaskPriority
	Tag      *string
	Limit    int
	Offset   int
}

// TaskStats is the counts rollup exposed by the stats endpoint.
type TaskStats struct {
	Total      int                  `json:"total"`
	ByStatus   map[TaskStatus]int   `json:"by_status"`
	ByPriority map[TaskPriority]int `json:"by_priority"`
	Overdue    int                  `json:"overdue"`
}
