// Package descriptor assembles the description of how an entity attribute
// renders as an in-place editable element: tag, classes, title, the data-*
// metadata bag read by the editing runtime, and the fallback content shown
// when editing is disabled.
package descriptor

import (
	"io"
	"log/slog"

	"github.com/goliatone/go-editable/pkg/entity"
	"github.com/goliatone/go-editable/pkg/options"
	"github.com/goliatone/go-editable/pkg/schema"
	"github.com/goliatone/go-editable/pkg/widgets"
)

// Schema answers the type, association and label lookups for classes.
type Schema interface {
	AttributeType(class, attribute string) (schema.Type, error)
	Relation(class, association string) (schema.Relation, bool)
	HumanLabel(class, attribute string) string
	ModelName(class string) string
}

// URLResolver returns the default update URL for an entity.
type URLResolver interface {
	URL(e entity.Entity) string
}

// URLResolverFunc adapts a function into a URLResolver.
type URLResolverFunc func(entity.Entity) string

// URL calls the underlying function.
func (fn URLResolverFunc) URL(e entity.Entity) string { return fn(e) }

// Gate decides whether editing is enabled for an entity.
type Gate interface {
	Enabled(e entity.Entity) bool
}

// GateFunc adapts a function into a Gate.
type GateFunc func(entity.Entity) bool

// Enabled calls the underlying function.
func (fn GateFunc) Enabled(e entity.Entity) bool { return fn(e) }

// Configuration supplies the options configured for a class attribute.
type Configuration interface {
	OptionsFor(class, attribute string) options.Options
}

// ErrorSource supplies the current validation errors of an attribute.
type ErrorSource interface {
	Errors(e entity.Entity, attribute string) []string
}

// ErrorSourceFunc adapts a function into an ErrorSource.
type ErrorSourceFunc func(entity.Entity, string) []string

// Errors calls the underlying function.
func (fn ErrorSourceFunc) Errors(e entity.Entity, attribute string) []string { return fn(e, attribute) }

// Option configures a Builder.
type Option func(*Builder)

// WithURLResolver sets the resolver used when no url option is supplied.
func WithURLResolver(resolver URLResolver) Option {
	return func(b *Builder) { b.urls = resolver }
}

// WithGate sets the editing gate consulted by Build.
func WithGate(gate Gate) Option {
	return func(b *Builder) { b.gate = gate }
}

// WithConfiguration sets the per-attribute configured options.
func WithConfiguration(cfg Configuration) Option {
	return func(b *Builder) { b.config = cfg }
}

// WithValidationErrors overrides how attribute errors are read. By default
// entities implementing entity.Validated are asked directly.
func WithValidationErrors(errs ErrorSource) Option {
	return func(b *Builder) {
		if errs != nil {
			b.errors = errs
		}
	}
}

// WithWidgets replaces the registry used to infer widget types.
func WithWidgets(registry *widgets.Registry) Option {
	return func(b *Builder) {
		if registry != nil {
			b.widgets = registry
		}
	}
}

// WithDefaults replaces the built-in option defaults (tag span, container
// body).
func WithDefaults(defaults options.Options) Option {
	return func(b *Builder) { b.defaults = options.Normalize(defaults) }
}

// WithStrictSources makes unrecognized source shapes fail with
// source.UnsupportedSourceShapeError instead of passing through.
func WithStrictSources() Option {
	return func(b *Builder) { b.strict = true }
}

// WithLogger sets the logger used for debug events.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// Builder assembles descriptors. It holds no per-call state and is safe for
// concurrent use once constructed.
type Builder struct {
	schema   Schema
	urls     URLResolver
	gate     Gate
	config   Configuration
	errors   ErrorSource
	widgets  *widgets.Registry
	defaults options.Options
	strict   bool
	logger   *slog.Logger
}

// New constructs a Builder around the schema collaborator.
func New(schema Schema, opts ...Option) *Builder {
	b := &Builder{
		schema:   schema,
		errors:   ErrorSourceFunc(entityErrors),
		widgets:  widgets.NewRegistry(),
		defaults: options.Options{"tag": "span", "container": "body"},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

func entityErrors(e entity.Entity, attribute string) []string {
	if validated, ok := e.(entity.Validated); ok {
		return validated.Errors(attribute)
	}
	return nil
}
