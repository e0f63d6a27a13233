package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-editable/pkg/value"
)

// Widget identifiers understood by the in-place editing runtime.
const (
	WidgetText      = "text"
	WidgetTextarea  = "textarea"
	WidgetSelect    = "select"
	WidgetChecklist = "checklist"
	WidgetWysihtml5 = "wysihtml5"
	WidgetWysiwyg   = "wysiwyg"
)

// Matcher decides whether a widget should edit the supplied raw value.
type Matcher func(raw any) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry infers the widget for a raw value from registered matchers.
// Higher priority wins; ties fall back to registration order. Values no
// matcher accepts resolve to WidgetText.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in matchers registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// NewEmptyRegistry constructs a registry without built-ins; every value
// resolves to WidgetText until matchers are registered.
func NewEmptyRegistry() *Registry {
	return &Registry{}
}

// Register adds a matcher with the provided name and priority.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget for raw.
func (r *Registry) Resolve(raw any) string {
	if r == nil {
		return WidgetText
	}
	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(raw) {
			return entry.name
		}
	}
	return WidgetText
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetSelect, 90, value.IsBool)
	r.Register(WidgetChecklist, 80, value.IsSequence)
}

var defaultRegistry = NewRegistry()

// InferType resolves the widget for raw using the built-in matchers:
// booleans edit with select, sequences with checklist, anything else text.
func InferType(raw any) string {
	return defaultRegistry.Resolve(raw)
}

// IsChoice reports whether the widget picks from a source mapping.
func IsChoice(name string) bool {
	switch strings.TrimSpace(name) {
	case WidgetSelect, WidgetChecklist:
		return true
	default:
		return false
	}
}

// IsRichText reports whether the widget edits markup and expects its initial
// value base64 wrapped.
func IsRichText(name string) bool {
	switch strings.TrimSpace(name) {
	case WidgetWysihtml5, WidgetWysiwyg:
		return true
	default:
		return false
	}
}
