package handlers

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/recordar/contact-gateway/internal/dispatch"
	"github.com/recordar/contact-gateway/internal/repository"
	"github.com/recordar/contact-gateway/internal/services"
	xhttp "github.com/recordar/contact-gateway/pkg/http"
)

func readJSON(ctx *xhttp.RequestCtx, dst any) error {
	body := ctx.PostBody()
	return json.Unmarshal(body, dst)
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, _ := json.Marshal(v)
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func writeError(ctx *xhttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, map[string]string{"error": msg})
}

// writeServiceError maps the service and repository sentinels onto HTTP
// status codes. Anything unrecognized is treated as a bad request, matching
// how validation errors surface as plain errors from the request types.
func writeServiceError(ctx *xhttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, repository.ErrContactNotFound),
		errors.Is(err, repository.ErrGroupNotFound),
		errors.Is(err, repository.ErrMemberNotFound),
		errors.Is(err, repository.ErrCommunicationNotFound),
		errors.Is(err, repository.ErrTaskNotFound),
		errors.Is(err, repository.ErrTemplateNotFound):
		writeError(ctx, 404, err.Error())
	case errors.Is(err, repository.ErrMemberExists),
		errors.Is(err, services.ErrInvalidState):
		writeError(ctx, 409, err.Error())
	case errors.Is(err, dispatch.ErrDispatchInProgress):
		writeError(ctx, 409, err.Error())
	default:
		writeError(ctx, 400, err.Error())
	}
}

func param(ctx *xhttp.RequestCtx, name string) string {
	v, _ := ctx.UserValue(name).(string)
	return v
}

func query(ctx *xhttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}

func queryInt(ctx *xhttp.RequestCtx, key string) int {
	n, _ := strconv.Atoi(query(ctx, key))
	return n
}
