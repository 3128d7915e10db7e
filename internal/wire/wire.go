// Package wire converts documents between their in-memory Go shape and the
// generic key/value trees exchanged with clients and storage.
//
// Key renaming is a pure tree traversal and knows nothing about the document
// it walks; naming conventions are supplied as a KeyFunc.
package wire

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/iancoleman/strcase"
	"github.com/mohae/deepcopy"
)

// ErrNotInteger is returned by Decode when a number with a fractional part
// targets an integer field.
var ErrNotInteger = errors.New("number is not an integer")

// Tree is a decoded JSON object.
type Tree = map[string]any

// KeyFunc maps a single object key to another naming convention.
type KeyFunc func(key string) string

// Snake is the external wire convention: stageName -> stage_name.
func Snake(key string) string {
	return strcase.ToSnake(key)
}

// LowerCamel is the internal convention: stage_name -> stageName.
func LowerCamel(key string) string {
	return strcase.ToLowerCamel(key)
}

// RenameKeys returns a copy of v in which every object key, at any depth, has
// been passed through fn. Sequences are walked element by element; scalar
// values are returned as is.
func RenameKeys(v any, fn KeyFunc) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fn(k)] = RenameKeys(item, fn)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = RenameKeys(item, fn)
		}
		return out
	default:
		return v
	}
}

// RenameTree is RenameKeys for a top level object.
func RenameTree(t Tree, fn KeyFunc) Tree {
	if t == nil {
		return nil
	}
	return RenameKeys(t, fn).(map[string]any)
}

// Clone deep-copies a tree.
func Clone(t Tree) Tree {
	if t == nil {
		return nil
	}
	return deepcopy.Copy(t).(map[string]any)
}

// Encode turns a value into a tree using its json tags and then renames every
// key with fn. A nil fn keeps the keys produced by the tags.
func Encode(v any, fn KeyFunc) (Tree, error) {
	const op = "wire.Encode"

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var t Tree
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if fn == nil {
		return t, nil
	}
	return RenameTree(t, fn), nil
}

// Decode renames every key of t with fn and decodes the result into out,
// matching keys against the json tags of out.
func Decode(t Tree, fn KeyFunc, out any) error {
	const op = "wire.Decode"

	if fn != nil {
		t = RenameTree(t, fn)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "json",
		Result:     out,
		DecodeHook: mapstructure.DecodeHookFuncKind(integralOnly),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := dec.Decode(t); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// integralOnly refuses to truncate a fractional number into an integer kind.
func integralOnly(from, to reflect.Kind, data any) (any, error) {
	if from != reflect.Float64 && from != reflect.Float32 {
		return data, nil
	}

	switch to {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return data, nil
	}

	f := reflect.ValueOf(data).Float()
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: %v", ErrNotInteger, f)
	}
	return data, nil
}

// Parse decodes a JSON object.
func Parse(data []byte) (Tree, error) {
	var t Tree
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("wire.Parse: %w", err)
	}
	if t == nil {
		return nil, fmt.Errorf("wire.Parse: document is not an object")
	}
	return t, nil
}
