// Package value encodes raw attribute values. A raw value is a boolean, nil,
// a scalar (string or number) or a sequence of raw values; mappings are not
// raw values and fall back to their fmt representation.
package value

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Serialize returns the canonical string encoding of a raw value. The result
// is embedded in element metadata and used as the lookup key into source
// mappings.
func Serialize(v any) string {
	v = Indirect(v)
	if b, ok := asBool(v); ok {
		if b {
			return "1"
		}
		return "0"
	}
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	case []any:
		return joinSerialized(typed)
	case []string:
		return strings.Join(typed, ",")
	}
	if scalar, ok := formatScalar(v); ok {
		return scalar
	}
	if items, ok := sequence(v); ok {
		return joinSerialized(items)
	}
	return fmt.Sprint(v)
}

// Display returns the natural display form of a raw value. Unlike Serialize
// booleans keep their literal spelling; nested sequences are serialized.
func Display(v any) string {
	v = Indirect(v)
	if b, ok := asBool(v); ok {
		return strconv.FormatBool(b)
	}
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	}
	if scalar, ok := formatScalar(v); ok {
		return scalar
	}
	if IsSequence(v) {
		return Serialize(v)
	}
	return fmt.Sprint(v)
}

// Wrap returns the value as a sequence: nil becomes empty, sequences return
// their elements and anything else becomes a single element.
func Wrap(v any) []any {
	v = Indirect(v)
	if v == nil {
		return nil
	}
	if items, ok := sequence(v); ok {
		return items
	}
	return []any{v}
}

// IsSequence reports whether v is a slice or array other than []byte.
func IsSequence(v any) bool {
	_, ok := sequence(v)
	return ok
}

// IsBool reports whether v is a boolean, including named boolean types and
// non-nil pointers to one.
func IsBool(v any) bool {
	_, ok := asBool(Indirect(v))
	return ok
}

// Indirect follows pointers to the value they reference. A nil pointer
// becomes nil. Pointers whose type implements fmt.Stringer are kept.
func Indirect(v any) any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		if _, ok := rv.Interface().(fmt.Stringer); ok {
			return rv.Interface()
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}

func asBool(v any) (bool, bool) {
	if typed, ok := v.(bool); ok {
		return typed, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Bool {
		return rv.Bool(), true
	}
	return false, false
}

func joinSerialized(items []any) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = Serialize(item)
	}
	return strings.Join(parts, ",")
}

func sequence(v any) ([]any, bool) {
	v = Indirect(v)
	switch typed := v.(type) {
	case nil, []byte:
		return nil, false
	case []any:
		return typed, true
	case []string:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = item
		}
		return out, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	default:
		return nil, false
	}
}

func formatScalar(v any) (string, bool) {
	switch typed := v.(type) {
	case int:
		return strconv.FormatInt(int64(typed), 10), true
	case int8:
		return strconv.FormatInt(int64(typed), 10), true
	case int16:
		return strconv.FormatInt(int64(typed), 10), true
	case int32:
		return strconv.FormatInt(int64(typed), 10), true
	case int64:
		return strconv.FormatInt(typed, 10), true
	case uint:
		return strconv.FormatUint(uint64(typed), 10), true
	case uint8:
		return strconv.FormatUint(uint64(typed), 10), true
	case uint16:
		return strconv.FormatUint(uint64(typed), 10), true
	case uint32:
		return strconv.FormatUint(uint64(typed), 10), true
	case uint64:
		return strconv.FormatUint(typed, 10), true
	case float32:
		return strconv.FormatFloat(float64(typed), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case fmt.Stringer:
		return typed.String(), true
	default:
		return "", false
	}
}
