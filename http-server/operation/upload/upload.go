package upload

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
	Content string `json:"content" validate:"required"`
}

type Response struct {
	ID int64 `json:"id"`
}

type OperationUploader interface {
	Upload(ctx context.Context, content, uploader string) (*copilot.Submission, error)
}

func New(log *slog.Logger, uploader OperationUploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.operation.upload.New"

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

		sub, err := uploader.Upload(r.Context(), req.Content, auth.User(r.Context()))
		if err != nil {
			failure.Write(w, r, log, err)
			return
		}

		log.Info("operation uploaded", slog.Int64("id", sub.ID))
		response.OK(w, r, Response{ID: sub.ID})
	}
}
