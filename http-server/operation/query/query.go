package query

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"

	"copilot-ops/http-server/failure"
	"copilot-ops/internal/response"
	"copilot-ops/internal/service/copilot"
	"copilot-ops/internal/storage"
)

type OperationQuerier interface {
	Query(ctx context.Context, q storage.OperationQuery) (*copilot.Page, error)
}

// New serves GET /copilot/query?level_keyword=&order_by=&page=&limit=.
// Malformed numbers fall back to the defaults.
func New(log *slog.Logger, querier OperationQuerier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.operation.query.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		params := r.URL.Query()
		page, _ := strconv.Atoi(params.Get("page"))
		limit, _ := strconv.Atoi(params.Get("limit"))

		q := storage.OperationQuery{
			Keyword: params.Get("level_keyword"),
			OrderBy: params.Get("order_by"),
			Page:    page,
			Limit:   limit,
		}

		result, err := querier.Query(r.Context(), q)
		if err != nil {
			failure.Write(w, r, log, err)
			return
		}

		response.OK(w, r, result)
	}
}
