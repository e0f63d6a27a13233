// Package editable turns entity attributes into in-place editable elements.
// The root package re-exports the common types and wires the default
// renderers; the building blocks live under pkg/.
package editable

import (
	"context"
	"fmt"
	"io/fs"
	"sync"

	"github.com/goliatone/go-editable/pkg/descriptor"
	"github.com/goliatone/go-editable/pkg/entity"
	"github.com/goliatone/go-editable/pkg/render"
	"github.com/goliatone/go-editable/pkg/renderers/html"
	"github.com/goliatone/go-editable/pkg/renderers/jsonout"
)

// Descriptor describes how one attribute renders.
type Descriptor = descriptor.Descriptor

// Metadata is the ordered data-* bag of a descriptor.
type Metadata = descriptor.Metadata

// Builder assembles descriptors.
type Builder = descriptor.Builder

// Option configures a Builder.
type Option = descriptor.Option

// Entity is the read-only record view the builder walks.
type Entity = entity.Entity

// Record is the map-backed Entity used by fixtures and the CLI.
type Record = entity.Record

// RenderOptions carries per-request renderer settings.
type RenderOptions = render.RenderOptions

// New constructs a descriptor builder. It mirrors descriptor.New so callers
// can stay on the root package.
func New(schema descriptor.Schema, options ...Option) *Builder {
	return descriptor.New(schema, options...)
}

// NewRegistry returns a renderer registry with the HTML renderer (default)
// and the JSON renderer registered.
func NewRegistry(options ...html.Option) (*render.Registry, error) {
	htmlRenderer, err := html.New(options...)
	if err != nil {
		return nil, err
	}
	registry := render.NewRegistry()
	if err := registry.Register(htmlRenderer); err != nil {
		return nil, err
	}
	if err := registry.Register(jsonout.New()); err != nil {
		return nil, err
	}
	return registry, nil
}

var (
	defaultHTMLOnce sync.Once
	defaultHTML     *html.Renderer
	defaultHTMLErr  error
)

// RenderHTML builds the descriptor for attribute on root and renders it with
// the embedded HTML template.
func RenderHTML(ctx context.Context, builder *Builder, root Entity, attribute string, opts map[string]any) ([]byte, error) {
	if builder == nil {
		return nil, fmt.Errorf("editable: builder is nil")
	}
	desc, err := builder.Build(root, attribute, opts)
	if err != nil {
		return nil, err
	}

	defaultHTMLOnce.Do(func() {
		defaultHTML, defaultHTMLErr = html.New()
	})
	if defaultHTMLErr != nil {
		return nil, defaultHTMLErr
	}
	return defaultHTML.Render(ctx, desc, RenderOptions{})
}

// EmbeddedTemplates exposes the built-in HTML templates so callers can
// extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}
