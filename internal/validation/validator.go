// Package validation checks operation documents against the copilot JSON
// schema and renders the failures in the editor's display language.
package validation

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	i18n "github.com/kaptinlin/go-i18n"
	"github.com/kaptinlin/jsonschema"
	"golang.org/x/text/message"

	"copilot-ops/internal/locale"
	"copilot-ops/internal/operation"
	"copilot-ops/internal/wire"
)

//go:embed copilot.schema.json
var copilotSchema []byte

var (
	ErrEmptyGroup = errors.New("empty operator group")
	ErrSchema     = errors.New("schema validation failed")
)

// detailsPlaceholder stands in for missing details during validation only;
// the canonical conversion fills in the real value.
const detailsPlaceholder = "dummy"

// Keywords whose errors only summarise failures reported by nested results.
var summaryKeywords = map[string]bool{
	"$ref":        true,
	"allOf":       true,
	"items":       true,
	"prefixItems": true,
	"properties":  true,
	"then":        true,
	"else":        true,
}

type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Result is the outcome of one validation. Message is the document-level
// text shown to the user: every field error on its own line.
type Result struct {
	Valid   bool         `json:"valid"`
	Message string       `json:"message,omitempty"`
	Fields  []FieldError `json:"fields,omitempty"`

	kind error
}

// Err returns nil for a valid result, an *Error otherwise.
func (r *Result) Err() error {
	if r == nil || r.Valid {
		return nil
	}
	return &Error{Kind: r.kind, Message: r.Message, Fields: r.Fields}
}

// Error carries a failed Result. It unwraps to ErrEmptyGroup or ErrSchema.
type Error struct {
	Kind    error
	Message string
	Fields  []FieldError
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

type Validator struct {
	schema    *jsonschema.Schema
	localizer *i18n.Localizer
	printer   *message.Printer
}

// New compiles the built-in copilot schema. lang selects the message
// language; an empty lang means locale.Default.
func New(lang string) (*Validator, error) {
	return NewWithSchema(copilotSchema, lang)
}

func NewWithSchema(schema []byte, lang string) (*Validator, error) {
	const op = "validation.NewWithSchema"

	compiled, err := jsonschema.NewCompiler().Compile(schema)
	if err != nil {
		return nil, fmt.Errorf("%s: compile schema: %w", op, err)
	}

	bundle, err := jsonschema.GetI18n()
	if err != nil {
		return nil, fmt.Errorf("%s: load schema messages: %w", op, err)
	}

	tag := locale.Tag(lang)
	return &Validator{
		schema:    compiled,
		localizer: bundle.NewLocalizer(tag.String()),
		printer:   message.NewPrinter(tag),
	}, nil
}

// Validate checks an editable document. Synthetic identifiers are ignored and
// field names are converted to the wire convention before the schema runs.
func (v *Validator) Validate(op *operation.Operation) *Result {
	cp := op.Clone()
	if cp == nil {
		cp = &operation.Operation{}
	}
	cp.StripIDs()

	tree, err := wire.Encode(cp, wire.Snake)
	if err != nil {
		return &Result{Message: err.Error(), kind: ErrSchema}
	}
	return v.ValidateTree(tree)
}

// ValidateTree checks a wire-cased document tree. tree is not modified.
//
// An empty operator group is reported on its own, before the schema runs.
func (v *Validator) ValidateTree(tree wire.Tree) *Result {
	if name, ok := findEmptyGroup(tree); ok {
		return &Result{
			Message: v.printer.Sprintf(locale.MsgEmptyGroup, name),
			kind:    ErrEmptyGroup,
		}
	}

	doc := wire.Clone(tree)
	if doc == nil {
		doc = wire.Tree{}
	}
	patchDetails(doc)

	res := v.schema.Validate(doc)
	if res.Valid {
		return &Result{Valid: true}
	}

	var fields []FieldError
	v.collect(res, "", &fields)
	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].Path < fields[j].Path
	})

	lines := make([]string, len(fields))
	for i, f := range fields {
		lines[i] = f.Path + ": " + f.Message
	}

	return &Result{
		Message: strings.Join(lines, "\n"),
		Fields:  fields,
		kind:    ErrSchema,
	}
}

// collect flattens res into out. Nested results carry instance locations
// relative to their parent, so the location is accumulated on the way down.
func (v *Validator) collect(res *jsonschema.EvaluationResult, prefix string, out *[]FieldError) {
	location := prefix + res.InstanceLocation
	path := location
	if path == "" {
		path = "/"
	}

	keywords := make([]string, 0, len(res.Errors))
	for k := range res.Errors {
		if !summaryKeywords[k] {
			keywords = append(keywords, k)
		}
	}
	sort.Strings(keywords)

	for _, k := range keywords {
		*out = append(*out, FieldError{
			Path:    path,
			Message: res.Errors[k].Localize(v.localizer),
		})
	}

	for _, d := range res.Details {
		if d != nil && !d.Valid {
			v.collect(d, location, out)
		}
	}
}

func findEmptyGroup(tree wire.Tree) (string, bool) {
	groups, _ := tree["groups"].([]any)
	for _, g := range groups {
		group, ok := g.(map[string]any)
		if !ok {
			continue
		}
		opers, _ := group["opers"].([]any)
		if len(opers) == 0 {
			name, _ := group["name"].(string)
			return name, true
		}
	}
	return "", false
}

func patchDetails(tree wire.Tree) {
	doc, ok := tree["doc"].(map[string]any)
	if !ok {
		if _, present := tree["doc"]; present {
			return
		}
		doc = map[string]any{}
		tree["doc"] = doc
	}
	if details, _ := doc["details"].(string); details == "" {
		doc["details"] = detailsPlaceholder
	}
}
