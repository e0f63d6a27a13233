package descriptor

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/goliatone/go-editable/pkg/options"
	"github.com/goliatone/go-editable/pkg/source"
	"github.com/goliatone/go-editable/pkg/value"
)

// Descriptor describes how one attribute renders. Interactive fields are
// only populated when Editable is true; otherwise only Content or Markup is
// set.
type Descriptor struct {
	Tag         string          `json:"tag,omitempty"`
	Classes     []string        `json:"classes,omitempty"`
	Title       string          `json:"title,omitempty"`
	Placeholder string          `json:"placeholder,omitempty"`
	Widget      string          `json:"widget,omitempty"`
	Metadata    Metadata        `json:"metadata,omitempty"`
	HTML        options.Options `json:"html,omitempty"`
	Content     []string        `json:"content"`
	Markup      string          `json:"markup,omitempty"`
	Editable    bool            `json:"editable"`
}

// FallbackContent returns the caller supplied markup when present, otherwise
// the content lines joined by newlines.
func (d Descriptor) FallbackContent() string {
	if d.Markup != "" {
		return d.Markup
	}
	return strings.Join(d.Content, "\n")
}

// ClassAttr returns the classes joined for a class attribute.
func (d Descriptor) ClassAttr() string {
	return strings.Join(d.Classes, " ")
}

// Attr is a single metadata entry.
type Attr struct {
	Key   string
	Value any
}

// Metadata is the ordered bag of element metadata. Entries never hold nil.
type Metadata []Attr

// Get returns the value stored under key.
func (m Metadata) Get(key string) (any, bool) {
	for _, attr := range m {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return nil, false
}

// Keys returns the metadata keys in order.
func (m Metadata) Keys() []string {
	keys := make([]string, len(m))
	for i, attr := range m {
		keys[i] = attr.Key
	}
	return keys
}

// set replaces the value of an existing key in place or appends it.
func (m Metadata) set(key string, val any) Metadata {
	for i := range m {
		if m[i].Key == key {
			m[i].Value = val
			return m
		}
	}
	return append(m, Attr{Key: key, Value: val})
}

// MarshalJSON encodes the bag as an object preserving entry order.
func (m Metadata) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, attr := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(attr.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(attr.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DataAttribute is an encoded data-* attribute.
type DataAttribute struct {
	Name  string
	Value string
}

// DataAttributes encodes the bag for embedding as data-* attributes.
// Strings and literal sources are kept verbatim, scalars use their display
// form and structures are encoded as JSON.
func (m Metadata) DataAttributes() ([]DataAttribute, error) {
	out := make([]DataAttribute, 0, len(m))
	for _, attr := range m {
		encoded, err := encodeAttr(attr.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, DataAttribute{Name: "data-" + attr.Key, Value: encoded})
	}
	return out, nil
}

func encodeAttr(val any) (string, error) {
	switch typed := val.(type) {
	case string:
		return typed, nil
	case source.Literal:
		return string(typed), nil
	case bool:
		return value.Display(typed), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return value.Display(typed), nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(val); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
