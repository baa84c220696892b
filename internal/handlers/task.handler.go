package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/recordar/contact-gateway/internal/model"
	xhttp "github.com/recordar/contact-gateway/pkg/http"
)

type TaskService interface {
	Create(ctx context.Context, p model.TaskCreateRequest) (*model.Task, error)
	Get(ctx context.Context, id string) (*model.TaskWithUrgency, error)
	List(ctx context.Context, f model.TaskFilter) ([]*model.TaskWithUrgency, int64, error)
	Update(ctx context.Context, id string, p model.TaskUpdateRequest) (*model.Task, error)
	ChangeStatus(ctx context.Context, id string, status model.TaskStatus, actor string) (*model.Task, error)
	Delete(ctx context.Context, id string) error
	History(ctx context.Context, id string) ([]*model.TaskLog, error)
	Stats(ctx context.Context) (*model.TaskStats, error)
}

type TaskHandler struct {
	svc TaskService
}

func RegisterTaskRoutes(e *router.Group, h *TaskHandler) {
	e.POST("/tasks", h.CreateTask)
	e.GET("/tasks", h.ListTasks)
	e.GET("/tasks/stats", h.GetStats)
	e.GET("/tasks/{id}", h.GetTask)
	e.PUT("/tasks/{id}", h.UpdateTask)
	e.PUT("/tasks/{id}/status", h.ChangeStatus)
	e.GET("/tasks/{id}/history", h.GetHistory)
	e.DELETE("/tasks/{id}", h.DeleteTask)
}

func NewTaskHandler(svc TaskService) *TaskHandler {
	return &TaskHandler{
		svc: svc,
	}
}

type createTaskRequest struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	DueDate     string             `json:"due_date"`
	DueTime     string             `json:"due_time"`
	Priority    model.TaskPriority `json:"priority"`
	Tags        []string           `json:"tags"`
	Actor       string             `json:"actor"`
}

type updateTaskRequest struct {
	Title       *string             `json:"title"`
	Description *string             `json:"description"`
	DueDate     *string             `json:"due_date"`
	DueTime     *string             `json:"due_time"`
	Priority    *model.TaskPriority `json:"priority"`
	Tags        []string            `json:"tags"`
	Actor       string              `json:"actor"`
}

type changeStatusRequest struct {
	Status model.TaskStatus `json:"status"`
	Actor  string           `json:"actor"`
}

type taskListResponse struct {
	Items []*model.TaskWithUrgency `json:"items"`
	Total int64                    `json:"total"`
}

type taskHistoryResponse struct {
	Items []*model.TaskLog `json:"items"`
	Total int              `json:"total"`
}

func (h *TaskHandler) CreateTask(ctx *xhttp.RequestCtx) {
	var req createTaskRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	task, err := h.svc.Create(ctx, model.TaskCreateRequest{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		DueTime:     req.DueTime,
		Priority:    req.Priority,
		Tags:        req.Tags,
		Actor:       req.Actor,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 201, task)
}

func (h *TaskHandler) GetTask(ctx *xhttp.RequestCtx) {
	task, err := h.svc.Get(ctx, param(ctx, "id"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, task)
}

func (h *TaskHandler) ListTasks(ctx *xhttp.RequestCtx) {
	var f model.TaskFilter

	if v := query(ctx, "status"); v != "" {
		status := model.TaskStatus(v)
		f.Status = &status
	}
	if v := query(ctx, "priority"); v != "" {
		priority := model.TaskPriority(v)
		f.Priority = &priority
	}
	if v := query(ctx, "tag"); v != "" {
		f.Tag = &v
	}
	f.Limit = queryInt(ctx, "limit")
	f.Offset = queryInt(ctx, "offset")

	items, total, err := h.svc.List(ctx, f)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, taskListResponse{Items: items, Total: total})
}

func (h *TaskHandler) UpdateTask(ctx *xhttp.RequestCtx) {
	var req updateTaskRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	task, err := h.svc.Update(ctx, param(ctx, "id"), model.TaskUpdateRequest{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		DueTime:     req.DueTime,
		Priority:    req.Priority,
		Tags:        req.Tags,
		Actor:       req.Actor,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, task)
}

func (h *TaskHandler) ChangeStatus(ctx *xhttp.RequestCtx) {
	var req changeStatusRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	task, err := h.svc.ChangeStatus(ctx, param(ctx, "id"), req.Status, req.Actor)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, task)
}

func (h *TaskHandler) GetHistory(ctx *xhttp.RequestCtx) {
	logs, err := h.svc.History(ctx, param(ctx, "id"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, taskHistoryResponse{Items: logs, Total: len(logs)})
}

func (h *TaskHandler) GetStats(ctx *xhttp.RequestCtx) {
	stats, err := h.svc.Stats(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, stats)
}

func (h *TaskHandler) DeleteTask(ctx *xhttp.RequestCtx) {
	if err := h.svc.Delete(ctx, param(ctx, "id")); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.Response.SetStatusCode(204)
}
