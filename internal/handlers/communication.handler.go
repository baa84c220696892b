package handlers

import (
	"context"
	"strings"

	"github.com/fasthttp/router"
	"github.com/recordar/contact-gateway/internal/dispatch"
	"github.com/recordar/contact-gateway/internal/model"
	xhttp "github.com/recordar/contact-gateway/pkg/http"
)

type CommunicationService interface {
	Create(ctx context.Context, p model.CommunicationCreateRequest) (*model.Communication, error)
	Get(ctx context.Context, id string) (*model.Communication, error)
	List(ctx context.Context, f model.CommunicationFilter) ([]*model.Communication, int64, error)
	Update(ctx context.Context, id string, p model.CommunicationUpdateRequest) (*model.Communication, error)
	Delete(ctx context.Context, id string) error
	Schedule(ctx context.Context, id string, date, timeOfDay string) (*model.Communication, error)
	SendNow(ctx context.Context, id string) (*dispatch.Stats, error)
	Preview(ctx context.Context, id string, maxContacts int) (*dispatch.Preview, error)
	TargetStatus(ctx context.Context, id string) ([]*model.RecipientTarget, error)
	Logs(ctx context.Context, id string, limit, offset int) ([]*model.DeliveryLog, int64, error)
	Stats(ctx context.Context, id string) (*model.CommunicationStats, error)
}

type CommunicationHandler struct {
	svc CommunicationService
}

func RegisterCommunicationRoutes(e *router.Group, h *CommunicationHandler) {
	e.POST("/communications", h.CreateCommunication)
	e.GET("/communications", h.ListCommunications)
	e.GET("/communications/{id}", h.GetCommunication)
	e.PUT("/communications/{id}", h.UpdateCommunication)
	e.DELETE("/communications/{id}", h.DeleteCommunication)
	e.GET("/communications/{id}/preview", h.PreviewCommunication)
	e.POST("/communications/{id}/schedule", h.ScheduleCommunication)
	e.POST("/communications/{id}/send", h.SendCommunication)
	e.GET("/communications/{id}/targets", h.ListTargets)
	e.GET("/communications/{id}/logs", h.ListLogs)
	e.GET("/communications/{id}/stats", h.GetStats)
}

func NewCommunicationHandler(svc CommunicationService) *CommunicationHandler {
	return &CommunicationHandler{
		svc: svc,
	}
}

type createCommunicationRequest struct {
	Title      string        `json:"title"`
	Channel    model.Channel `json:"channel"`
	Content    string        `json:"content"`
	CreatedBy  string        `json:"created_by"`
	ContactIDs []string      `json:"contact_ids"`
	GroupIDs   []string      `json:"group_ids"`
}

type updateCommunicationRequest struct {
	Title   *string        `json:"title"`
	Channel *model.Channel `json:"channel"`
	Content *string        `json:"content"`
}

type scheduleRequest struct {
	Date string `json:"date"` // YYYY-MM-DD
	Time string `json:"time"` // HH:MM
}

type communicationListResponse struct {
	Items []*model.Communication `json:"items"`
	Total int64                  `json:"total"`
}

type targetListResponse struct {
	Items []*model.RecipientTarget `json:"items"`
	Total int                      `json:"total"`
}

type deliveryLogListResponse struct {
	Items []*model.DeliveryLog `json:"items"`
	Total int64                `json:"total"`
}

func (h *CommunicationHandler) CreateCommunication(ctx *xhttp.RequestCtx) {
	var req createCommunicationRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	comm, err := h.svc.Create(ctx, model.CommunicationCreateRequest{
		Title:      req.Title,
		Channel:    req.Channel,
		Content:    req.Content,
		CreatedBy:  req.CreatedBy,
		ContactIDs: req.ContactIDs,
		GroupIDs:   req.GroupIDs,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 201, comm)
}

func (h *CommunicationHandler) GetCommunication(ctx *xhttp.RequestCtx) {
	comm, err := h.svc.Get(ctx, param(ctx, "id"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, comm)
}

func (h *CommunicationHandler) ListCommunications(ctx *xhttp.RequestCtx) {
	var f model.CommunicationFilter

	if v := query(ctx, "status"); v != "" {
		status := model.CommunicationStatus(v)
		f.Status = &status
	}
	if v := query(ctx, "channel"); v != "" {
		channel := model.Channel(v)
		f.Channel = &channel
	}
	f.Limit = queryInt(ctx, "limit")
	f.Offset = queryInt(ctx, "offset")
	if strings.EqualFold(query(ctx, "order"), "desc") {
		f.Desc = true
	}

	items, total, err := h.svc.List(ctx, f)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, communicationListResponse{Items: items, Total: total})
}

func (h *CommunicationHandler) UpdateCommunication(ctx *xhttp.RequestCtx) {
	var req updateCommunicationRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	comm, err := h.svc.Update(ctx, param(ctx, "id"), model.CommunicationUpdateRequest{
		Title:   req.Title,
		Channel: req.Channel,
		Content: req.Content,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, comm)
}

func (h *CommunicationHandler) DeleteCommunication(ctx *xhttp.RequestCtx) {
	if err := h.svc.Delete(ctx, param(ctx, "id")); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.Response.SetStatusCode(204)
}

func (h *CommunicationHandler) PreviewCommunication(ctx *xhttp.RequestCtx) {
	preview, err := h.svc.Preview(ctx, param(ctx, "id"), queryInt(ctx, "max_contacts"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, preview)
}

func (h *CommunicationHandler) ScheduleCommunication(ctx *xhttp.RequestCtx) {
	var req scheduleRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	comm, err := h.svc.Schedule(ctx, param(ctx, "id"), req.Date, req.Time)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, comm)
}

func (h *CommunicationHandler) SendCommunication(ctx *xhttp.RequestCtx) {
	stats, err := h.svc.SendNow(ctx, param(ctx, "id"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, stats)
}

func (h *CommunicationHandler) ListTargets(ctx *xhttp.RequestCtx) {
	targets, err := h.svc.TargetStatus(ctx, param(ctx, "id"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, targetListResponse{Items: targets, Total: len(targets)})
}

func (h *CommunicationHandler) ListLogs(ctx *xhttp.RequestCtx) {
	logs, total, err := h.svc.Logs(ctx, param(ctx, "id"), queryInt(ctx, "limit"), queryInt(ctx, "offset"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, deliveryLogListResponse{Items: logs, Total: total})
}

func (h *CommunicationHandler) GetStats(ctx *xhttp.RequestCtx) {
	stats, err := h.svc.Stats(ctx, param(ctx, "id"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, stats)
}
