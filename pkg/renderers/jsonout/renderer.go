// Package jsonout renders descriptors as JSON for clients that build the
// editable element themselves.
package jsonout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-editable/pkg/descriptor"
	"github.com/goliatone/go-editable/pkg/render"
)

// Option configures the renderer.
type Option func(*Renderer)

// WithIndent pretty prints the output using indent for each level.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

// Renderer encodes descriptors as JSON. Metadata keeps its order.
type Renderer struct {
	indent string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the JSON renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Name returns the registry name.
func (r *Renderer) Name() string {
	return "json"
}

// ContentType returns the MIME type of the output.
func (r *Renderer) ContentType() string {
	return "application/json"
}

// Render encodes desc. The fallback content is included pre-joined so
// clients do not need to repeat the joining rules.
func (r *Renderer) Render(_ context.Context, desc descriptor.Descriptor, _ render.RenderOptions) ([]byte, error) {
	payload := struct {
		descriptor.Descriptor
		Fallback string `json:"fallback"`
	}{
		Descriptor: desc,
		Fallback:   desc.FallbackContent(),
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", r.indent)
	if err := enc.Encode(payload); err != nil {
		return nil, fmt.Errorf("json renderer: encode: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
