package query

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"

	"github.com/ovaphlow/pitchfork/service-adboard/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-adboard/pkg/utilities"
)

// Changes maps a field name to the raw JSON value supplied in a PATCH body.
type Changes map[string]json.RawMessage

// Has reports whether field was supplied.
func (c Changes) Has(field string) bool {
	_, ok := c[field]
	return ok
}

// Setter decodes and validates one raw value and stores it on dst.
type Setter[T any] func(dst *T, raw json.RawMessage) error

// Fields is the allow-list of patchable fields of an entity.
type Fields[T any] map[string]Setter[T]

// Check rejects field names outside the allow-list.
func (f Fields[T]) Check(ch Changes) error {
	var unknown []string
	for name := range ch {
		if _, ok := f[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return apperr.Invalid("unknown field(s): %s", strings.Join(unknown, ", "))
	}
	return nil
}

// Apply runs the setter of every supplied field against dst. Fields are applied
// in name order so the first reported error is deterministic.
func (f Fields[T]) Apply(dst *T, ch Changes) error {
	if err := f.Check(ch); err != nil {
		return err
	}
	names := make([]string, 0, len(ch))
	for name := range ch {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if err := f[name](dst, ch[name]); err != nil {
			return err
		}
	}
	return nil
}

// String builds a setter for a string field validated with validator rules.
func String[T any](field, rules string, set func(*T, string)) Setter[T] {
	return func(dst *T, raw json.RawMessage) error {
		var v string
		if err := decode(field, "string", raw, &v); err != nil {
			return err
		}
		if err := utilities.Validate.Var(v, rules); err != nil {
			return apperr.Invalid("%s: %s", field, utilities.ValidationMessage(err))
		}
		set(dst, v)
		return nil
	}
}

// Int64 builds a setter for an integer field validated with validator rules.
func Int64[T any](field, rules string, set func(*T, int64)) Setter[T] {
	return func(dst *T, raw json.RawMessage) error {
		var v int64
		if err := decode(field, "integer", raw, &v); err != nil {
			return err
		}
		if err := utilities.Validate.Var(v, rules); err != nil {
			return apperr.Invalid("%s: %s", field, utilities.ValidationMessage(err))
		}
		set(dst, v)
		return nil
	}
}

func decode(field, want string, raw json.RawMessage, dst any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return apperr.Invalid("%s: must not be null", field)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return apperr.Invalid("%s: expected %s", field, want)
	}
	return nil
}
