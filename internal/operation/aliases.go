package operation

import (
	_ "embed"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

//go:embed aliases.yaml
var defaultAliasesYAML []byte

// Aliases resolves legacy and localized enum tokens to canonical ones.
type Aliases struct {
	actionTypes map[string]string
	directions  map[string]string
}

type aliasFile struct {
	ActionTypes map[string][]string `yaml:"action_types"`
	Directions  map[string][]string `yaml:"directions"`
}

// LoadAliases parses an alias table. Every canonical token also resolves to
// itself.
func LoadAliases(data []byte) (*Aliases, error) {
	const op = "operation.LoadAliases"

	var f aliasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	actionTypes, err := buildAliasIndex(f.ActionTypes)
	if err != nil {
		return nil, fmt.Errorf("%s: action_types: %w", op, err)
	}
	directions, err := buildAliasIndex(f.Directions)
	if err != nil {
		return nil, fmt.Errorf("%s: directions: %w", op, err)
	}

	return &Aliases{actionTypes: actionTypes, directions: directions}, nil
}

func buildAliasIndex(table map[string][]string) (map[string]string, error) {
	index := make(map[string]string)
	add := func(alias, canonical string) error {
		key := foldToken(alias)
		if prev, ok := index[key]; ok && prev != canonical {
			return fmt.Errorf("alias %q maps to both %q and %q", alias, prev, canonical)
		}
		index[key] = canonical
		return nil
	}

	for canonical, aliases := range table {
		if err := add(canonical, canonical); err != nil {
			return nil, err
		}
		for _, alias := range aliases {
			if err := add(alias, canonical); err != nil {
				return nil, err
			}
		}
	}
	return index, nil
}

var defaultAliases = mustLoadDefaultAliases()

func mustLoadDefaultAliases() *Aliases {
	a, err := LoadAliases(defaultAliasesYAML)
	if err != nil {
		panic(err)
	}
	return a
}

// DefaultAliases returns the built-in alias table.
func DefaultAliases() *Aliases {
	return defaultAliases
}

// ActionType resolves an action type token. ok is false for unknown tokens.
func (a *Aliases) ActionType(token string) (string, bool) {
	v, ok := a.actionTypes[foldToken(token)]
	return v, ok
}

// Direction resolves a deploy direction token. ok is false for unknown tokens.
func (a *Aliases) Direction(token string) (string, bool) {
	v, ok := a.directions[foldToken(token)]
	return v, ok
}

// foldToken builds a fresh caser per call: a cases.Caser is not safe to share
// between goroutines.
func foldToken(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
