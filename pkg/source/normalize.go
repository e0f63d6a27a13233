package source

import (
	"github.com/goliatone/go-editable/pkg/schema"
	"github.com/goliatone/go-editable/pkg/value"
)

// DefaultBoolean is the mapping used for boolean attributes without an
// explicit source.
func DefaultBoolean() Map {
	return Map{{Key: "1", Label: "Yes"}, {Key: "0", Label: "No"}}
}

// Default returns the source implied by a declared type, or nil.
func Default(t schema.Type) Spec {
	if t == schema.TypeBoolean {
		return DefaultBoolean()
	}
	return nil
}

// Normalize expands shorthand specs into a canonical Map for the declared
// type. Literal, Map and Choices specs are returned unchanged, and so is any
// combination of shape and type that has no expansion.
func Normalize(spec Spec, t schema.Type) Spec {
	normalized, _ := normalize(spec, t)
	return normalized
}

// NormalizeStrict behaves like Normalize but rejects shapes that have no
// expansion for the declared type.
func NormalizeStrict(spec Spec, t schema.Type) (Spec, error) {
	normalized, ok := normalize(spec, t)
	if !ok {
		return nil, &UnsupportedSourceShapeError{Value: spec, Reason: "no expansion for declared type " + string(t)}
	}
	return normalized, nil
}

func normalize(spec Spec, t schema.Type) (Spec, bool) {
	switch typed := spec.(type) {
	case nil:
		return Default(t), true
	case Literal, Map, Choices:
		return typed, true
	case Flat:
		switch {
		case t == schema.TypeBoolean && len(typed) == 2:
			return Map{{Key: "1", Label: typed[0]}, {Key: "0", Label: typed[1]}}, true
		case t == schema.TypeString:
			out := make(Map, 0, len(typed))
			for _, label := range typed {
				out = out.Set(label, label)
			}
			return out, true
		}
	case Paired:
		if t == schema.TypeString {
			out := make(Map, 0, len(typed))
			for _, pair := range typed {
				out = out.Set(pair.Value, pair.Label)
			}
			return out, true
		}
	}
	return spec, false
}

// Lookup finds the label for a serialized raw value.
func Lookup(spec Spec, key string) (string, bool) {
	switch typed := spec.(type) {
	case Map:
		return typed.Get(key)
	case Flat:
		for _, label := range typed {
			if label == key {
				return label, true
			}
		}
	case Paired:
		for _, pair := range typed {
			if pair.Value == key {
				return pair.Label, true
			}
		}
	case Choices:
		for _, choice := range typed {
			if value.Serialize(choice.Value) == key {
				return choice.Text, true
			}
		}
	}
	return "", false
}

// Searchable reports whether Lookup can match anything for spec.
func Searchable(spec Spec) bool {
	switch spec.(type) {
	case Map, Flat, Paired, Choices:
		return true
	default:
		return false
	}
}

// RenderValues returns the display lines for v. When a searchable source is
// available (explicit or implied by t) each element is serialized and
// replaced by its label; unmapped values render as an empty string.
// Otherwise each element's display form is used.
func RenderValues(v any, t schema.Type, spec Spec) []string {
	if spec == nil {
		spec = Default(t)
	}
	items := value.Wrap(v)
	out := make([]string, len(items))
	if !Searchable(spec) {
		for i, item := range items {
			out[i] = value.Display(item)
		}
		return out
	}
	for i, item := range items {
		label, _ := Lookup(spec, value.Serialize(item))
		out[i] = label
	}
	return out
}
