package operation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"copilot-ops/internal/wire"
)

// ErrInvalidLevel is returned when a title has to be derived from a stage
// that the level catalog does not know.
var ErrInvalidLevel = errors.New("invalid level")

// FindLevel looks a stage up by exact identifier.
func FindLevel(levels []Level, stageName string) (Level, bool) {
	for _, l := range levels {
		if l.LevelID == stageName {
			return l, true
		}
	}
	return Level{}, false
}

// Title joins the non-empty secondary category, tertiary category and name.
func (l Level) Title() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{l.CatTwo, l.CatThree, l.Name} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " - ")
}

// Qualify returns a copy of op with every field the canonical form requires
// filled in and every synthetic identifier removed. Field names are still the
// internal ones; see ToQualified for the wire form.
func Qualify(op *Operation, levels []Level) (*Operation, error) {
	const fn = "operation.Qualify"

	out := op.Clone()
	if out == nil {
		out = &Operation{}
	}

	if out.MinimumRequired == "" {
		out.MinimumRequired = MinimumRequiredV4
	}

	if out.Doc == nil {
		out.Doc = &Doc{}
	}

	if out.Doc.Title == "" {
		level, ok := FindLevel(levels, out.StageName)
		if !ok {
			return nil, fmt.Errorf("%s: stage %q: %w", fn, out.StageName, ErrInvalidLevel)
		}
		out.Doc.Title = level.Title()
	}

	if out.Doc.Details == "" {
		out.Doc.Details = out.Doc.Title
	}

	out.StripIDs()
	return out, nil
}

// ToQualified converts an editable document into the canonical wire tree:
// qualified as by Qualify, with every key in snake_case.
func ToQualified(op *Operation, levels []Level) (wire.Tree, error) {
	q, err := Qualify(op, levels)
	if err != nil {
		return nil, err
	}

	tree, err := wire.Encode(q, wire.Snake)
	if err != nil {
		return nil, fmt.Errorf("operation.ToQualified: %w", err)
	}
	return tree, nil
}

// Decode reads a wire (snake_case) tree back into an Operation.
func Decode(tree wire.Tree) (*Operation, error) {
	var op Operation
	if err := wire.Decode(tree, wire.LowerCamel, &op); err != nil {
		return nil, fmt.Errorf("operation.Decode: %w", err)
	}
	return &op, nil
}

// ParseCanonical decodes a canonical JSON document.
func ParseCanonical(data []byte) (*Operation, error) {
	tree, err := wire.Parse(data)
	if err != nil {
		return nil, err
	}
	return Decode(tree)
}

// ParseEditable decodes a document in the internal field convention, as sent
// by the editor.
func ParseEditable(data []byte) (*Operation, error) {
	var op Operation
	if err := json.Unmarshal(data, &op); err != nil {
		return nil, fmt.Errorf("operation.ParseEditable: %w", err)
	}
	return &op, nil
}
