// Package convert exposes the two normalizers to the editor.
package convert

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"copilot-ops/http-server/failure"
	"copilot-ops/internal/operation"
	"copilot-ops/internal/request"
	"copilot-ops/internal/response"
	"copilot-ops/internal/wire"
)

type EditableRequest struct {
	Content string `json:"content" validate:"required"`
}

type EditableConverter interface {
	Editable(content []byte) (*operation.Operation, error)
}

type QualifiedConverter interface {
	Qualify(ctx context.Context, doc *operation.Operation) (wire.Tree, error)
}

// Editable serves POST /copilot/editable: canonical content in, editable
// document out.
func Editable(log *slog.Logger, converter EditableConverter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.operation.convert.Editable"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req EditableRequest
		if err := request.Decode(r, &req); err != nil {
			failure.Write(w, r, log, err)
			return
		}

		doc, err := converter.Editable([]byte(req.Content))
		if err != nil {
			failure.Write(w, r, log, err)
			return
		}

		response.OK(w, r, doc)
	}
}

// Qualify serves POST /copilot/qualify: editable document in, wire-cased
// canonical document out.
func Qualify(log *slog.Logger, converter QualifiedConverter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.operation.convert.Qualify"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		doc, err := request.Editable(r)
		if err != nil {
			failure.Write(w, r, log, err)
			return
		}

		tree, err := converter.Qualify(r.Context(), doc)
		if err != nil {
			failure.Write(w, r, log, err)
			return
		}

		response.OK(w, r, tree)
	}
}
