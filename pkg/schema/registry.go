package schema

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Option configures a Registry.
type Option func(*Registry)

// WithLabeler overrides the function used to derive human labels for
// attributes without an explicit label.
func WithLabeler(labeler func(string) string) Option {
	return func(r *Registry) {
		if labeler != nil {
			r.labeler = labeler
		}
	}
}

// Registry stores class definitions and answers the schema lookups the
// descriptor builder depends on. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]Class
	labeler func(string) string
}

// NewRegistry creates an empty registry.
func NewRegistry(options ...Option) *Registry {
	reg := &Registry{
		classes: make(map[string]Class),
		labeler: Humanize,
	}
	for _, opt := range options {
		if opt != nil {
			opt(reg)
		}
	}
	return reg
}

// Register adds a class definition. Duplicate class names return an error.
func (r *Registry) Register(class Class) error {
	name := strings.TrimSpace(class.Name)
	if name == "" {
		return fmt.Errorf("schema: class name is required")
	}
	class.Name = name

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.classes[name]; exists {
		return fmt.Errorf("schema: class %q already registered", name)
	}
	r.classes[name] = cloneClass(class)
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(class Class) {
	if err := r.Register(class); err != nil {
		panic(err)
	}
}

// Class returns the definition registered under name.
func (r *Registry) Class(name string) (Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	class, ok := r.classes[name]
	if !ok {
		return Class{}, false
	}
	return cloneClass(class), true
}

// Classes returns the registered class names, sorted.
func (r *Registry) Classes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.classes))
	for name := range r.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AttributeType returns the declared type of attribute on class.
func (r *Registry) AttributeType(class, attribute string) (Type, error) {
	attr, ok := r.attribute(class, attribute)
	if !ok {
		return "", &MissingAttributeError{Class: class, Attribute: attribute}
	}
	return attr.Type, nil
}

// Relation returns the association named assoc on class.
func (r *Registry) Relation(class, assoc string) (Relation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.classes[class]
	if !ok {
		return Relation{}, false
	}
	rel, ok := def.Relations[assoc]
	return rel, ok
}

// HumanLabel returns the declared label of attribute, falling back to the
// registry labeler.
func (r *Registry) HumanLabel(class, attribute string) string {
	if attr, ok := r.attribute(class, attribute); ok && attr.Label != "" {
		return attr.Label
	}
	return r.labeler(attribute)
}

// ModelName returns the element name used for the class in metadata.
func (r *Registry) ModelName(class string) string {
	r.mu.RLock()
	def, ok := r.classes[class]
	r.mu.RUnlock()
	if ok && def.ModelName != "" {
		return def.ModelName
	}
	return Underscore(class)
}

func (r *Registry) attribute(class, attribute string) (Attribute, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.classes[class]
	if !ok {
		return Attribute{}, false
	}
	attr, ok := def.Attributes[attribute]
	return attr, ok
}

func cloneClass(class Class) Class {
	out := class
	if len(class.Attributes) > 0 {
		out.Attributes = make(map[string]Attribute, len(class.Attributes))
		for name, attr := range class.Attributes {
			if attr.Name == "" {
				attr.Name = name
			}
			out.Attributes[name] = attr
		}
	}
	if len(class.Relations) > 0 {
		out.Relations = make(map[string]Relation, len(class.Relations))
		for name, rel := range class.Relations {
			out.Relations[name] = rel
		}
	}
	return out
}
