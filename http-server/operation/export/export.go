package export

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5/middleware"

	"copilot-ops/http-server/failure"
	"copilot-ops/http-server/operation/get"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type OperationExporter interface {
	Export(ctx context.Context, id int64) ([]byte, string, error)
}

// New serves GET /copilot/export/{id} as an xlsx attachment.
func New(log *slog.Logger, exporter OperationExporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.operation.export.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := get.PathID(r)
		if err != nil {
			failure.Write(w, r, log, err)
			return
		}

		data, name, err := exporter.Export(r.Context(), id)
		if err != nil {
			failure.Write(w, r, log, err)
			return
		}

		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(name)))
		w.WriteHeader(http.StatusOK)

		if _, err := w.Write(data); err != nil {
			log.Error("failed to write export", slog.String("error", err.Error()))
		}
	}
}
