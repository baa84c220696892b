package handlers

import (
	"context"
	"strings"

	"github.com/fasthttp/router"
	"github.com/recordar/contact-gateway/internal/model"
	xhttp "github.com/recordar/contact-gateway/pkg/http"
)

type ContactService interface {
	Create(ctx context.Context, p model.ContactCreateRequest) (*model.Contact, error)
	Get(ctx context.Context, id string) (*model.Contact, error)
	List(ctx context.Context, f model.ContactFilter) ([]*model.Contact, int64, error)
	Update(ctx context.Context, id string, p model.ContactUpdateRequest) (*model.Contact, error)
	Delete(ctx context.Context, id string) error
}

type ContactHandler struct {
	svc ContactService
}

func RegisterContactRoutes(e *router.Group, h *ContactHandler) {
	e.POST("/contacts", h.CreateContact)
	e.GET("/contacts", h.ListContacts)
	e.GET("/contacts/{id}", h.GetContact)
	e.PUT("/contacts/{id}", h.UpdateContact)
	e.DELETE("/contacts/{id}", h.DeleteContact)
}

func NewContactHandler(svc ContactService) *ContactHandler {
	return &ContactHandler{
		svc: svc,
	}
}

type createContactRequest struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Whatsapp string   `json:"whatsapp"`
	Tags     []string `json:"tags"`
	Notes    string   `json:"notes"`
}

type updateContactRequest struct {
	Name     *string             `json:"name"`
	Email    *string             `json:"email"`
	Whatsapp *string             `json:"whatsapp"`
	Status   *model.ContactStatus `json:"status"`
	Tags     []string            `json:"tags"`
	Notes    *string             `json:"notes"`
}

type contactListResponse struct {
	Items []*model.Contact `json:"items"`
	Total int64            `json:"total"`
}

func (h *ContactHandler) CreateContact(ctx *xhttp.RequestCtx) {
	var req createContactRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	contact, err := h.svc.Create(ctx, model.ContactCreateRequest{
		Name:     req.Name,
		Email:    req.Email,
		Whatsapp: req.Whatsapp,
		Tags:     req.Tags,
		Notes:    req.Notes,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 201, contact)
}

func (h *ContactHandler) GetContact(ctx *xhttp.RequestCtx) {
	contact, err := h.svc.Get(ctx, param(ctx, "id"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, contact)
}

func (h *ContactHandler) ListContacts(ctx *xhttp.RequestCtx) {
	var f model.ContactFilter

	if v := query(ctx, "status"); v != "" {
		status := model.ContactStatus(v)
		f.Status = &status
	}
	if v := query(ctx, "tag"); v != "" {
		f.Tag = &v
	}
	if v := query(ctx, "search"); v != "" {
		f.Search = &v
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
	writeJSON(ctx, 200, contactListResponse{Items: items, Total: total})
}

func (h *ContactHandler) UpdateContact(ctx *xhttp.RequestCtx) {
	var req updateContactRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	contact, err := h.svc.Update(ctx, param(ctx, "id"), model.ContactUpdateRequest{
		Name:     req.Name,
		Email:    req.Email,
		Whatsapp: req.Whatsapp,
		Status:   req.Status,
		Tags:     req.Tags,
		Notes:    req.Notes,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, contact)
}

func (h *ContactHandler) DeleteContact(ctx *xhttp.RequestCtx) {
	if err := h.svc.Delete(ctx, param(ctx, "id")); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.Response.SetStatusCode(204)
}
