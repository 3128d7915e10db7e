package get

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"copilot-ops/http-server/failure"
	"copilot-ops/internal/request"
	"copilot-ops/internal/response"
	"copilot-ops/internal/service/copilot"
)

type OperationGetter interface {
	Get(ctx context.Context, id int64, editable bool) (*copilot.Document, error)
}

// New serves GET /copilot/get/{id}. With ?editable=1 the editable form of the
// content is included.
func New(log *slog.Logger, getter OperationGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.operation.get.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := PathID(r)
		if err != nil {
			failure.Write(w, r, log, err)
			return
		}

		editable, _ := strconv.ParseBool(r.URL.Query().Get("editable"))

		doc, err := getter.Get(r.Context(), id, editable)
		if err != nil {
			failure.Write(w, r, log, err)
			return
		}

		response.OK(w, r, doc)
	}
}

// PathID reads the positive {id} URL parameter.
func PathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id %q", request.ErrInvalidBody, raw)
	}
	return id, nil
}
