package validate

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"copilot-ops/http-server/failure"
	"copilot-ops/internal/operation"
	"copilot-ops/internal/request"
	"copilot-ops/internal/response"
	"copilot-ops/internal/validation"
)

type OperationValidator interface {
	Validate(op *operation.Operation) *validation.Result
}

// New serves POST /copilot/validate. The body is an editable document; the
// result always comes back with status 200 and says whether it passed.
func New(log *slog.Logger, validator OperationValidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.operation.validate.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		doc, err := request.Editable(r)
		if err != nil {
			failure.Write(w, r, log, err)
			return
		}

		response.OK(w, r, validator.Validate(doc))
	}
}
