// Package render defines the contract between assembled descriptors and the
// output formats they are rendered into.
package render

import (
	"context"

	"github.com/goliatone/go-editable/pkg/descriptor"
)

// Renderer turns a descriptor into a byte representation (HTML, JSON).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, desc descriptor.Descriptor, options RenderOptions) ([]byte, error)
}
