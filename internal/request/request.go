// Package request decodes and checks JSON request bodies.
package request

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"copilot-ops/internal/operation"
)

var ErrInvalidBody = errors.New("invalid request body")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Decode reads a JSON body into v and runs its validate tags.
func Decode(r *http.Request, v any) error {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}

	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("%w: %s", ErrInvalidBody, describe(verrs))
		}
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return nil
}

func describe(errs validator.ValidationErrors) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		if e.Param() != "" {
			parts[i] = fmt.Sprintf("%s failed %s=%s", e.Field(), e.Tag(), e.Param())
		} else {
			parts[i] = fmt.Sprintf("%s failed %s", e.Field(), e.Tag())
		}
	}
	return strings.Join(parts, "; ")
}

const maxDocumentSize = 4 << 20

// Editable reads an editable operation document from the body.
func Editable(r *http.Request) (*operation.Operation, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}

	doc, err := operation.ParseEditable(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return doc, nil
}
