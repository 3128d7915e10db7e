package update

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"copilot-ops/http-server/failure"
	"copilot-ops/internal/middleware/auth"
	"copilot-ops/internal/request"
	"copilot-ops/internal/response"
	"copilot-ops/internal/service/copilot"
)

type Request struct {
	ID      int64  `json:"id" validate:"required,gt=0"`
	Content string `json:"content" validate:"required"`
}

type Response struct {
	ID int64 `json:"id"`
}

type OperationUpdater interface {
	Update(ctx context.Context, id int64, content, uploader string) (*copilot.Submission, error)
}

func New(log *slog.Logger, updater OperationUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.operation.update.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request
		if err := request.Decode(r, &req); err != nil {
			log.Info("invalid request", slog.String("error", err.Error()))
			failure.Write(w, r, log, err)
			return
		}

		sub, err := updater.Update(r.Context(), req.ID, req.Content, auth.User(r.Context()))
		if err != nil {
			failure.Write(w, r, log, err)
			return
		}

		log.Info("operation updated", slog.Int64("id", sub.ID))
		response.OK(w, r, Response{ID: sub.ID})
	}
}
