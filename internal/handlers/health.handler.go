package handlers

import (
	"github.com/fasthttp/router"
	"github.com/recordar/contact-gateway/internal/dispatch"
	xhttp "github.com/recordar/contact-gateway/pkg/http"
)

type HealthService interface {
	Get() error
}

type SchedulerStatus interface {
	GetStatus() dispatch.Status
}

type HealthHandler struct {
	svc       HealthService
	scheduler SchedulerStatus
}

func RegisterHealthRoutes(e *router.Group, h *HealthHandler) {
	e.GET("/health", h.GetHealth)
	e.GET("/scheduler/status", h.GetSchedulerStatus)
}

func NewHealthHandler(svc HealthService, scheduler SchedulerStatus) *HealthHandler {
	return &HealthHandler{
		svc:       svc,
		scheduler: scheduler,
	}
}

func (h *HealthHandler) GetHealth(ctx *xhttp.RequestCtx) {
	if err := h.svc.Get(); err != nil {
		writeError(ctx, 503, err.Error())
		return
	}
	ctx.Response.SetBodyString("success")
}

func (h *HealthHandler) GetSchedulerStatus(ctx *xhttp.RequestCtx) {
	if h.scheduler == nil {
		writeJSON(ctx, 200, map[string]bool{"enabled": false})
		return
	}
	writeJSON(ctx, 200, h.scheduler.GetStatus())
}
