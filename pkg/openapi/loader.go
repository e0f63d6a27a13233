// Package openapi builds a schema.Registry from the component schemas of an
// OpenAPI 3 document, so descriptors can be assembled for API resources
// without a hand-written class file. kin-openapi stays behind this package.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-editable/pkg/schema"
)

// Options configures how documents are loaded.
type Options struct {
	// Validate runs the kin-openapi validator before conversion.
	Validate bool

	// ExternalRefs allows $ref values pointing outside the document.
	ExternalRefs bool

	// Schema options forwarded to the resulting registry.
	Schema []schema.Option
}

// Option mutates Options prior to loading.
type Option func(*Options)

// WithValidation enables document validation (examples are not validated).
func WithValidation() Option {
	return func(opts *Options) {
		opts.Validate = true
	}
}

// WithExternalRefs allows external references to be resolved.
func WithExternalRefs() Option {
	return func(opts *Options) {
		opts.ExternalRefs = true
	}
}

// WithSchemaOptions forwards options to the schema registry, for example a
// custom labeler.
func WithSchemaOptions(options ...schema.Option) Option {
	return func(opts *Options) {
		opts.Schema = append(opts.Schema, options...)
	}
}

// Load parses an OpenAPI document (JSON or YAML) and registers one class per
// component schema.
func Load(ctx context.Context, data []byte, options ...Option) (*schema.Registry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	cfg := Options{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: cfg.ExternalRefs,
	}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if cfg.Validate {
		if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}

	reg := schema.NewRegistry(cfg.Schema...)
	if doc.Components == nil {
		return reg, nil
	}
	for name, ref := range doc.Components.Schemas {
		if ref == nil || ref.Value == nil {
			continue
		}
		if err := reg.Register(classFromSchema(name, ref.Value)); err != nil {
			return nil, fmt.Errorf("openapi: %w", err)
		}
	}
	return reg, nil
}

// LoadFS reads name from fsys and loads it.
func LoadFS(ctx context.Context, fsys fs.FS, name string, options ...Option) (*schema.Registry, error) {
	if fsys == nil {
		return nil, errors.New("openapi: filesystem is not configured")
	}
	if name == "" {
		return nil, errors.New("openapi: fs path is required")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("openapi: read %s: %w", name, err)
	}
	return Load(ctx, data, options...)
}
