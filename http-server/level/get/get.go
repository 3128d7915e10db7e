package get

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"copilot-ops/http-server/failure"
	"copilot-ops/internal/levels"
	"copilot-ops/internal/operation"
	"copilot-ops/internal/response"
)

type LevelsProvider interface {
	Levels(ctx context.Context) ([]operation.Level, error)
}

// New serves GET /arknights/level, optionally filtered by ?keyword=.
func New(log *slog.Logger, provider LevelsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.level.get.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		all, err := provider.Levels(r.Context())
		if err != nil {
			failure.Write(w, r, log, err)
			return
		}

		found := levels.Search(all, r.URL.Query().Get("keyword"))
		if found == nil {
			found = []operation.Level{}
		}

		response.OK(w, r, found)
	}
}
