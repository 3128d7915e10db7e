// Package failure maps service errors to HTTP responses.
package failure

import (
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/text/message"

	"copilot-ops/internal/locale"
	"copilot-ops/internal/operation"
	"copilot-ops/internal/request"
	"copilot-ops/internal/response"
	"copilot-ops/internal/service/copilot"
	"copilot-ops/internal/storage"
)

// Printer renders messages in the language the client asked for.
func Printer(r *http.Request) *message.Printer {
	return message.NewPrinter(locale.Negotiate(r.Header.Get("Accept-Language")))
}

// Write reports err to the client. Submit errors keep their own message and
// field errors; anything unrecognised is logged and reported as a 500.
func Write(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	p := Printer(r)

	var submitErr *copilot.SubmitError
	if errors.As(err, &submitErr) {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, storage.ErrOperationNotFound):
			status = http.StatusNotFound
		case submitErr.State == copilot.StatePersistFailed:
			status = http.StatusInternalServerError
		case submitErr.State == copilot.StateConverting && !errors.Is(err, operation.ErrInvalidLevel):
			status = http.StatusInternalServerError
		}

		if status == http.StatusInternalServerError {
			log.Error("submit failed", slog.String("error", err.Error()))
		}

		var fields any
		if len(submitErr.Fields) > 0 {
			fields = submitErr.Fields
		}
		response.Error(w, r, status, submitErr.Message, fields)
		return
	}

	switch {
	case errors.Is(err, request.ErrInvalidBody):
		response.Error(w, r, http.StatusBadRequest, p.Sprintf(locale.MsgBadRequest))
	case errors.Is(err, storage.ErrOperationNotFound):
		response.Error(w, r, http.StatusNotFound, p.Sprintf(locale.MsgNotFound))
	case errors.Is(err, operation.ErrInvalidLevel):
		response.Error(w, r, http.StatusBadRequest, p.Sprintf(locale.MsgInvalidLevel))
	case errors.Is(err, copilot.ErrInvalidDocument):
		response.Error(w, r, http.StatusBadRequest, p.Sprintf(locale.MsgInvalidDocument))
	default:
		log.Error("request failed", slog.String("error", err.Error()))
		response.Error(w, r, http.StatusInternalServerError, p.Sprintf(locale.MsgInternalError))
	}
}
