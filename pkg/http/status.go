package xhttp

import (
	"github.com/valyala/fasthttp"
)

const (
	StatusNotFound            = fasthttp.StatusNotFound
	StatusRequestTimeout      = fasthttp.StatusRequestTimeout
	StatusInternalServerError = fasthttp.StatusInternalServerError
)

// StatusText returns a text for the HTTP status code.
func StatusText(code int) string {
	return fasthttp.StatusMessage(code)
}
