package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"copilot-ops/http-server/failure"
	"copilot-ops/internal/request"
	"copilot-ops/internal/response"
)

type Request struct {
	ID int64 `json:"id" validate:"required,gt=0"`
}

type Response struct {
	ID int64 `json:"id"`
}

type OperationDeleter interface {
	Delete(ctx context.Context, id int64) error
}

func New(log *slog.Logger, deleter OperationDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.operation.remove.New"

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

		if err := deleter.Delete(r.Context(), req.ID); err != nil {
			failure.Write(w, r, log, err)
			return
		}

		response.OK(w, r, Response{ID: req.ID})
	}
}
