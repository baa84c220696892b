package handlers

import (
	"context"
	"strings"

	"github.com/fasthttp/router"
	"github.com/recordar/contact-gateway/internal/model"
	xhttp "github.com/recordar/contact-gateway/pkg/http"
)

type GroupService interface {
	Create(ctx context.Context, p model.GroupCreateRequest) (*model.Group, error)
	Get(ctx context.Context, id string) (*model.Group, error)
	List(ctx context.Context, f model.GroupFilter) ([]*model.Group, int64, error)
	Update(ctx context.Context, id string, p model.GroupUpdateRequest) (*model.Group, error)
	Delete(ctx context.Context, id string) error
	AddMember(ctx context.Context, groupID, contactID string) error
	RemoveMember(ctx context.Context, groupID, contactID string) error
	Members(ctx context.Context, groupID string) ([]*model.Contact, error)
}

type GroupHandler struct {
	svc GroupService
}

func RegisterGroupRoutes(e *router.Group, h *GroupHandler) {
	e.POST("/groups", h.CreateGroup)
	e.GET("/groups", h.ListGroups)
	e.GET("/groups/{id}", h.GetGroup)
	e.PUT("/groups/{id}", h.UpdateGroup)
	e.DELETE("/groups/{id}", h.DeleteGroup)
	e.GET("/groups/{id}/members", h.ListMembers)
	e.POST("/groups/{id}/members", h.AddMember)
	e.DELETE("/groups/{id}/members/{contactId}", h.RemoveMember)
}

func NewGroupHandler(svc GroupService) *GroupHandler {
	return &GroupHandler{
		svc: svc,
	}
}

type createGroupRequest struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Channel     model.Channel `json:"channel"`
}

type updateGroupRequest struct {
	Name        *string            `json:"name"`
	Description *string            `json:"description"`
	Channel     *model.Channel     `json:"channel"`
	Status      *model.GroupStatus `json:"status"`
}

type addMemberRequest struct {
	ContactID string `json:"contact_id"`
}

type groupListResponse struct {
	Items []*model.Group `json:"items"`
	Total int64          `json:"total"`
}

type memberListResponse struct {
	Items []*model.Contact `json:"items"`
	Total int              `json:"total"`
}

func (h *GroupHandler) CreateGroup(ctx *xhttp.RequestCtx) {
	var req createGroupRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	group, err := h.svc.Create(ctx, model.GroupCreateRequest{
		Name:        req.Name,
		Description: req.Description,
		Channel:     req.Channel,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 201, group)
}

func (h *GroupHandler) GetGroup(ctx *xhttp.RequestCtx) {
	group, err := h.svc.Get(ctx, param(ctx, "id"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, group)
}

func (h *GroupHandler) ListGroups(ctx *xhttp.RequestCtx) {
	var f model.GroupFilter

	if v := query(ctx, "status"); v != "" {
		status := model.GroupStatus(v)
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
	writeJSON(ctx, 200, groupListResponse{Items: items, Total: total})
}

func (h *GroupHandler) UpdateGroup(ctx *xhttp.RequestCtx) {
	var req updateGroupRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	group, err := h.svc.Update(ctx, param(ctx, "id"), model.GroupUpdateRequest{
		Name:        req.Name,
		Description: req.Description,
		Channel:     req.Channel,
		Status:      req.Status,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, group)
}

func (h *GroupHandler) DeleteGroup(ctx *xhttp.RequestCtx) {
	if err := h.svc.Delete(ctx, param(ctx, "id")); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.Response.SetStatusCode(204)
}

func (h *GroupHandler) ListMembers(ctx *xhttp.RequestCtx) {
	members, err := h.svc.Members(ctx, param(ctx, "id"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, memberListResponse{Items: members, Total: len(members)})
}

func (h *GroupHandler) AddMember(ctx *xhttp.RequestCtx) {
	var req addMemberRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}
	if req.ContactID == "" {
		writeError(ctx, 400, "contact_id is required")
		return
	}

	if err := h.svc.AddMember(ctx, param(ctx, "id"), req.ContactID); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.Response.SetStatusCode(204)
}

func (h *GroupHandler) RemoveMember(ctx *xhttp.RequestCtx) {
	if err := h.svc.RemoveMember(ctx, param(ctx, "id"), param(ctx, "contactId")); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.Response.SetStatusCode(204)
}
