// Package source normalizes the shorthand forms callers use to describe the
// choices of an editable attribute into a canonical ordered mapping from
// serialized raw value to display label.
package source

import (
	"bytes"
	"encoding/json"
)

// Spec is one of Flat, Paired, Choices, Map, Literal or Opaque.
type Spec interface {
	isSpec()
}

// Flat is a plain list of labels.
type Flat []string

// Pair is a form-collection entry: the first element is the display label,
// the second the raw value.
type Pair struct {
	Label string
	Value string
}

// Paired is a list of form-collection pairs.
type Paired []Pair

// Choice is an explicit {value, text} entry.
type Choice struct {
	Value any    `json:"value"`
	Text  string `json:"text"`
}

// Choices is a list of explicit {value, text} entries.
type Choices []Choice

// Entry is one canonical mapping from a serialized raw value to its label.
type Entry struct {
	Key   string
	Label string
}

// Map is the canonical, ordered source mapping. Keys are unique.
type Map []Entry

// Literal is a template or URL identifier. It is never normalized and the
// raw value is rendered directly.
type Literal string

// Opaque carries a raw source value whose shape was not recognized.
type Opaque struct {
	Value any
}

func (Flat) isSpec()    {}
func (Paired) isSpec()  {}
func (Choices) isSpec() {}
func (Map) isSpec()     {}
func (Literal) isSpec() {}
func (Opaque) isSpec()  {}

// Get returns the label stored under key.
func (m Map) Get(key string) (string, bool) {
	for _, entry := range m {
		if entry.Key == key {
			return entry.Label, true
		}
	}
	return "", false
}

// Set stores label under key. Existing keys keep their position.
func (m Map) Set(key, label string) Map {
	for i := range m {
		if m[i].Key == key {
			m[i].Label = label
			return m
		}
	}
	return append(m, Entry{Key: key, Label: label})
}

// Keys returns the keys in order.
func (m Map) Keys() []string {
	keys := make([]string, len(m))
	for i, entry := range m {
		keys[i] = entry.Key
	}
	return keys
}

// MarshalJSON encodes the mapping as a JSON object preserving entry order.
func (m Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Key)
		if err != nil {
			return nil, err
		}
		label, err := json.Marshal(entry.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(label)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON encodes pairs in their [label, value] array form.
func (p Paired) MarshalJSON() ([]byte, error) {
	out := make([][2]string, len(p))
	for i, pair := range p {
		out[i] = [2]string{pair.Label, pair.Value}
	}
	return json.Marshal(out)
}

// MarshalJSON encodes the carried value unchanged.
func (o Opaque) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Value)
}
