package source

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-editable/pkg/value"
)

// UnsupportedSourceShapeError reports a source value that matches none of
// the recognized shorthand forms.
type UnsupportedSourceShapeError struct {
	Value  any
	Reason string
}

func (e *UnsupportedSourceShapeError) Error() string {
	return fmt.Sprintf("source: unsupported shape %T: %s", e.Value, e.Reason)
}

// Parse converts a loosely typed source value (decoded YAML/JSON or Go
// literals) into a Spec. Unrecognized shapes are kept as Opaque.
func Parse(raw any) Spec {
	spec, err := ParseStrict(raw)
	if err != nil {
		return Opaque{Value: raw}
	}
	return spec
}

// ParseStrict converts raw into a Spec, failing on unrecognized shapes.
// Plain Go maps have no order, so their entries are sorted by key.
func ParseStrict(raw any) (Spec, error) {
	switch typed := raw.(type) {
	case nil:
		return nil, nil
	case Spec:
		return typed, nil
	case string:
		return Literal(typed), nil
	case []string:
		return Flat(append([]string(nil), typed...)), nil
	case [][]string:
		return parsePairs(typed, raw)
	case map[string]string:
		out := make(Map, 0, len(typed))
		for _, key := range sortedKeys(typed) {
			out = out.Set(key, typed[key])
		}
		return out, nil
	case map[string]any:
		out := make(Map, 0, len(typed))
		for _, key := range sortedKeys(typed) {
			out = out.Set(key, value.Display(typed[key]))
		}
		return out, nil
	case []any:
		return parseList(typed)
	default:
		return nil, &UnsupportedSourceShapeError{Value: raw, Reason: "expected a list, mapping or string"}
	}
}

func parseList(items []any) (Spec, error) {
	if len(items) == 0 {
		return Flat{}, nil
	}

	switch items[0].(type) {
	case string:
		out := make(Flat, 0, len(items))
		for _, item := range items {
			label, ok := item.(string)
			if !ok {
				return nil, &UnsupportedSourceShapeError{Value: items, Reason: "mixed label list"}
			}
			out = append(out, label)
		}
		return out, nil
	case map[string]any:
		out := make(Choices, 0, len(items))
		for _, item := range items {
			entry, ok := item.(map[string]any)
			if !ok {
				return nil, &UnsupportedSourceShapeError{Value: items, Reason: "mixed choice list"}
			}
			raw, hasValue := entry["value"]
			if !hasValue {
				return nil, &UnsupportedSourceShapeError{Value: items, Reason: "choice without value"}
			}
			out = append(out, Choice{Value: raw, Text: value.Display(entry["text"])})
		}
		return out, nil
	}

	pairs := make([][]string, 0, len(items))
	for _, item := range items {
		elements := value.Wrap(item)
		if !value.IsSequence(item) || len(elements) != 2 {
			return nil, &UnsupportedSourceShapeError{Value: items, Reason: "expected [label, value] pairs"}
		}
		pairs = append(pairs, []string{value.Display(elements[0]), value.Serialize(elements[1])})
	}
	return parsePairs(pairs, items)
}

func parsePairs(pairs [][]string, raw any) (Spec, error) {
	out := make(Paired, 0, len(pairs))
	for _, pair := range pairs {
		if len(pair) != 2 {
			return nil, &UnsupportedSourceShapeError{Value: raw, Reason: "expected [label, value] pairs"}
		}
		out = append(out, Pair{Label: pair[0], Value: pair[1]})
	}
	return out, nil
}

func sortedKeys[V any](in map[string]V) []string {
	keys := make([]string, 0, len(in))
	for key := range in {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
