package render

import theme "github.com/goliatone/go-theme"

// RenderOptions carry per-request data renderers use without changing the
// descriptor itself.
type RenderOptions struct {
	// Theme is a resolved theme configuration. Renderers that support theming
	// fall back to their own selector when it is nil.
	Theme *theme.RendererConfig
	// ThemeName and ThemeVariant are passed to the renderer's selector when
	// Theme is nil.
	ThemeName    string
	ThemeVariant string
	// Attributes adds element attributes on top of the descriptor's html
	// options.
	Attributes map[string]string
}
