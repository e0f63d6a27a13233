// Package entity defines the read-only view of domain records the descriptor
// builder walks, plus a map-backed Record used by fixtures and the CLI.
package entity

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entity is a domain record with a class, an identity, attribute values and
// associations.
type Entity interface {
	Class() string
	ID() any
	Attribute(name string) (any, bool)
	One(association string) (Entity, bool)
	Many(association string) []Entity
}

// Validated is implemented by entities that carry field errors.
type Validated interface {
	Errors(attribute string) []string
}

// Record is a map-backed Entity.
type Record struct {
	Model      string               `json:"class" yaml:"class"`
	Key        any                  `json:"id" yaml:"id"`
	Attributes map[string]any       `json:"attributes" yaml:"attributes"`
	HasOne     map[string]*Record   `json:"hasOne,omitempty" yaml:"has_one,omitempty"`
	HasMany    map[string][]*Record `json:"hasMany,omitempty" yaml:"has_many,omitempty"`
	Invalid    map[string][]string  `json:"errors,omitempty" yaml:"errors,omitempty"`
}

var (
	_ Entity    = (*Record)(nil)
	_ Validated = (*Record)(nil)
)

// Class returns the record's class name.
func (r *Record) Class() string { return r.Model }

// ID returns the record identifier.
func (r *Record) ID() any { return r.Key }

// Attribute returns the current value of name.
func (r *Record) Attribute(name string) (any, bool) {
	val, ok := r.Attributes[name]
	return val, ok
}

// One returns the associated record for a to-one association.
func (r *Record) One(association string) (Entity, bool) {
	child, ok := r.HasOne[association]
	if !ok || child == nil {
		return nil, false
	}
	return child, true
}

// Many returns the associated records for a to-many association.
func (r *Record) Many(association string) []Entity {
	children := r.HasMany[association]
	out := make([]Entity, 0, len(children))
	for _, child := range children {
		if child != nil {
			out = append(out, child)
		}
	}
	return out
}

// Errors returns the validation messages recorded for attribute.
func (r *Record) Errors(attribute string) []string {
	return r.Invalid[attribute]
}

// LoadRecord decodes a YAML (or JSON) record fixture.
func LoadRecord(data []byte) (*Record, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, fmt.Errorf("entity: record document is empty")
	}
	var record Record
	if err := yaml.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("entity: parse record: %w", err)
	}
	if strings.TrimSpace(record.Model) == "" {
		return nil, fmt.Errorf("entity: record class is required")
	}
	return &record, nil
}
