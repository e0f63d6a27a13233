// Package options holds the loosely typed option bags callers pass to the
// descriptor builder. Keys are canonicalized once at the boundary so "Data",
// "data" and "DATA" (or "attr_error" and "attr-error") address the same entry.
package options

import (
	"sort"
	"strings"
)

// Keys whose values are themselves option bags. Their keys are canonicalized
// and merged entry by entry.
const (
	KeyData = "data"
	KeyHTML = "html"
)

// Options is a canonical-keyed option bag.
type Options map[string]any

// Canonical returns the canonical form of an option key: trimmed,
// lower-cased, with underscores replaced by dashes.
func Canonical(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "_", "-")
}

// Normalize canonicalizes the top-level keys of raw and the keys of its
// nested data/html bags. Other nested mappings keep their keys untouched.
func Normalize(raw map[string]any) Options {
	if raw == nil {
		return nil
	}
	out := make(Options, len(raw))
	for key, val := range raw {
		canonical := Canonical(key)
		if canonical == "" {
			continue
		}
		if isNested(canonical) {
			if nested, ok := asMap(val); ok {
				val = Normalize(nested)
			}
		}
		out[canonical] = val
	}
	return out
}

// Merge combines layers left to right; later layers win. Nested data/html
// bags are merged key by key, everything else is replaced.
func Merge(layers ...Options) Options {
	out := make(Options)
	for _, layer := range layers {
		for key, val := range layer {
			if isNested(key) {
				if incoming, ok := asMap(val); ok {
					existing, _ := asMap(out[key])
					out[key] = Merge(Normalize(existing), Normalize(incoming))
					continue
				}
			}
			out[key] = val
		}
	}
	return out
}

// Clone returns a shallow copy with nested data/html bags copied as well.
func (o Options) Clone() Options {
	if o == nil {
		return nil
	}
	return Merge(o)
}

// Has reports whether key is present, even with a nil value.
func (o Options) Has(key string) bool {
	_, ok := o[Canonical(key)]
	return ok
}

// Get returns the value stored under key.
func (o Options) Get(key string) (any, bool) {
	val, ok := o[Canonical(key)]
	return val, ok
}

// Take removes key and returns its value.
func (o Options) Take(key string) (any, bool) {
	canonical := Canonical(key)
	val, ok := o[canonical]
	if ok {
		delete(o, canonical)
	}
	return val, ok
}

// TakeString removes key and returns its value when it is a non-empty
// string; fallback is returned otherwise.
func (o Options) TakeString(key, fallback string) string {
	val, ok := o.Take(key)
	if !ok {
		return fallback
	}
	if str, isString := val.(string); isString && str != "" {
		return str
	}
	return fallback
}

// TakeOptions removes key and returns its value as an option bag.
func (o Options) TakeOptions(key string) Options {
	val, ok := o.Take(key)
	if !ok {
		return nil
	}
	nested, ok := asMap(val)
	if !ok {
		return nil
	}
	return Normalize(nested)
}

// Keys returns the keys sorted.
func (o Options) Keys() []string {
	keys := make([]string, 0, len(o))
	for key := range o {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func isNested(key string) bool {
	return key == KeyData || key == KeyHTML
}

func asMap(val any) (map[string]any, bool) {
	switch typed := val.(type) {
	case Options:
		return map[string]any(typed), true
	case map[string]any:
		return typed, true
	case map[string]string:
		out := make(map[string]any, len(typed))
		for key, v := range typed {
			out[key] = v
		}
		return out, true
	default:
		return nil, false
	}
}
