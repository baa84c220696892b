package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/recordar/contact-gateway/internal/model"
	xhttp "github.com/recordar/contact-gateway/pkg/http"
)

type TemplateService interface {
	Create(ctx context.Context, p model.MessageTemplateCreateRequest) (*model.MessageTemplate, error)
	Get(ctx context.Context, id string) (*model.MessageTemplate, error)
	List(ctx context.Context, f model.MessageTemplateFilter) ([]*model.MessageTemplate, int64, error)
	Update(ctx context.Context, id string, p model.MessageTemplateUpdateRequest) (*model.MessageTemplate, error)
	Delete(ctx context.Context, id string) error
}

type TemplateHandler struct {
	svc TemplateService
}

func RegisterTemplateRoutes(e *router.Group, h *TemplateHandler) {
	e.POST("/templates", h.CreateTemplate)
	e.GET("/templates", h.ListTemplates)
	e.GET("/templates/{id}", h.GetTemplate)
	e.PUT("/templates/{id}", h.UpdateTemplate)
	e.DELETE("/templates/{id}", h.DeleteTemplate)
}

func NewTemplateHandler(svc TemplateService) *TemplateHandler {
	return &TemplateHandler{
		svc: svc,
	}
}

type createTemplateRequest struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Channel     model.Channel `json:"channel"`
	Content     string        `json:"content"`
}

type updateTemplateRequest struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Channel     *model.Channel `json:"channel"`
	Content     *string        `json:"content"`
}

type templateListResponse struct {
	Items []*model.MessageTemplate `json:"items"`
	Total int64                    `json:"total"`
}

func (h *TemplateHandler) CreateTemplate(ctx *xhttp.RequestCtx) {
	var req createTemplateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	tpl, err := h.svc.Create(ctx, model.MessageTemplateCreateRequest{
		Name:        req.Name,
		Description: req.Description,
		Channel:     req.Channel,
		Content:     req.Content,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 201, tpl)
}

func (h *TemplateHandler) GetTemplate(ctx *xhttp.RequestCtx) {
	tpl, err := h.svc.Get(ctx, param(ctx, "id"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, tpl)
}

func (h *TemplateHandler) ListTemplates(ctx *xhttp.RequestCtx) {
	var f model.MessageTemplateFilter

	if v := query(ctx, "channel"); v != "" {
		channel := model.Channel(v)
		f.Channel = &channel
	}
	f.Limit = queryInt(ctx, "limit")
	f.Offset = queryInt(ctx, "offset")

	items, total, err := h.svc.List(ctx, f)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, templateListResponse{Items: items, Total: total})
}

func (h *TemplateHandler) UpdateTemplate(ctx *xhttp.RequestCtx) {
	var req updateTemplateRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	tpl, err := h.svc.Update(ctx, param(ctx, "id"), model.MessageTemplateUpdateRequest{
		Name:        req.Name,
		Description: req.Description,
		Channel:     req.Channel,
		Content:     req.Content,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, tpl)
}

func (h *TemplateHandler) DeleteTemplate(ctx *xhttp.RequestCtx) {
	if err := h.svc.Delete(ctx, param(ctx, "id")); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.Response.SetStatusCode(204)
}
