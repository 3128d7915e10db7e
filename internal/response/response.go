// Package response writes the JSON envelope shared by every endpoint.
package response

import (
	"net/http"

	"github.com/go-chi/render"
)

type Response struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message,omitempty"`
	Data       any    `json:"data,omitempty"`
}

// OK writes data with status 200.
func OK(w http.ResponseWriter, r *http.Request, data any) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, Response{StatusCode: http.StatusOK, Data: data})
}

// Error writes message with the given status and optional data.
func Error(w http.ResponseWriter, r *http.Request, status int, message string, data ...any) {
	resp := Response{StatusCode: status, Message: message}
	if len(data) > 0 {
		resp.Data = data[0]
	}

	render.Status(r, status)
	render.JSON(w, r, resp)
}
