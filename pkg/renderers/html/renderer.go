// Package html renders descriptors as the markup the in-place editing
// runtime attaches to: a single element carrying data-* metadata, or the
// bare fallback content when editing is disabled.
package html

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-editable/pkg/descriptor"
	"github.com/goliatone/go-editable/pkg/render"
	rendertemplate "github.com/goliatone/go-editable/pkg/render/template"
	"github.com/goliatone/go-editable/pkg/render/template/gotemplate"
	"github.com/goliatone/go-editable/pkg/value"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

const templateName = "templates/editable.tmpl"

// TemplatesFS exposes the embedded template bundle.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}

var (
	tagPattern  = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9-]*$`)
	attrPattern = regexp.MustCompile(`^[a-zA-Z_:][a-zA-Z0-9_:.-]*$`)
)

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	policy           *bluemonday.Policy
	selector         theme.ThemeSelector
	themeName        string
	themeVariant     string
}

// WithTemplatesFS supplies an alternate template bundle. It must provide
// templates/editable.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithPolicy replaces the sanitizer applied to caller supplied error markup.
// The default is bluemonday's UGC policy.
func WithPolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithThemeSelector resolves themes through selector when a request carries
// no resolved theme configuration.
func WithThemeSelector(selector theme.ThemeSelector, defaultTheme, defaultVariant string) Option {
	return func(cfg *config) {
		cfg.selector = selector
		cfg.themeName = strings.TrimSpace(defaultTheme)
		cfg.themeVariant = strings.TrimSpace(defaultVariant)
	}
}

// Renderer renders descriptors to HTML.
type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	policy       *bluemonday.Policy
	selector     theme.ThemeSelector
	themeName    string
	themeVariant string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.policy == nil {
		cfg.policy = bluemonday.UGCPolicy()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:    renderer,
		policy:       cfg.policy,
		selector:     cfg.selector,
		themeName:    cfg.themeName,
		themeVariant: cfg.themeVariant,
	}, nil
}

// Name returns the registry name.
func (r *Renderer) Name() string {
	return "html"
}

// ContentType returns the MIME type of the output.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render writes desc as HTML. Content lines are escaped and joined with
// <br>; caller markup is sanitized.
func (r *Renderer) Render(_ context.Context, desc descriptor.Descriptor, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}

	data := map[string]any{
		"editable": desc.Editable,
		"content":  desc.Content,
		"markup":   r.policy.Sanitize(desc.Markup),
	}

	if desc.Editable {
		attrs, err := r.attributes(desc, options)
		if err != nil {
			return nil, err
		}
		data["tag"] = safeTag(desc.Tag)
		data["attributes"] = attrs
	}

	result, err := r.templates.RenderTemplate(templateName, data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}

// attributes orders element attributes: class, title, html options, data-*
// metadata, theme attributes, then request attributes. Later entries
// replace earlier ones with the same name in place.
func (r *Renderer) attributes(desc descriptor.Descriptor, options render.RenderOptions) ([]map[string]string, error) {
	var list attrList
	list.setNonEmpty("class", desc.ClassAttr())
	list.setNonEmpty("title", desc.Title)

	for _, key := range sortedKeys(desc.HTML) {
		list.set(key, value.Display(desc.HTML[key]))
	}

	data, err := desc.Metadata.DataAttributes()
	if err != nil {
		return nil, fmt.Errorf("html renderer: encode metadata: %w", err)
	}
	for _, attr := range data {
		list.set(attr.Name, attr.Value)
	}

	cfg, err := r.themeConfig(options)
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		list.setNonEmpty("data-theme", cfg.Theme)
		list.setNonEmpty("data-theme-variant", cfg.Variant)
		list.setNonEmpty("style", cssVarsStyle(cfg))
	}

	for _, key := range sortedKeys(options.Attributes) {
		list.set(key, options.Attributes[key])
	}
	return list.entries(), nil
}

func (r *Renderer) themeConfig(options render.RenderOptions) (*theme.RendererConfig, error) {
	if options.Theme != nil {
		return options.Theme, nil
	}
	if r.selector == nil {
		return nil, nil
	}

	name := firstNonEmpty(options.ThemeName, r.themeName)
	variant := firstNonEmpty(options.ThemeVariant, r.themeVariant)
	selection, err := r.selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("html renderer: select theme %q: %w", name, err)
	}
	if selection == nil {
		return nil, nil
	}

	cfg := &theme.RendererConfig{
		Theme:   selection.Theme,
		Variant: selection.Variant,
	}
	if selection.Manifest != nil && len(selection.Manifest.Tokens) > 0 {
		cfg.Tokens = make(map[string]string, len(selection.Manifest.Tokens))
		cfg.CSSVars = make(map[string]string, len(selection.Manifest.Tokens))
		for key, val := range selection.Manifest.Tokens {
			cfg.Tokens[key] = val
			cfg.CSSVars["--"+strings.TrimPrefix(key, "--")] = val
		}
	}
	return cfg, nil
}

// cssVarsStyle renders the theme variables as an inline style declaration.
func cssVarsStyle(cfg *theme.RendererConfig) string {
	vars := cfg.CSSVars
	if len(vars) == 0 && len(cfg.Tokens) > 0 {
		vars = make(map[string]string, len(cfg.Tokens))
		for key, val := range cfg.Tokens {
			vars["--"+strings.TrimPrefix(key, "--")] = val
		}
	}
	parts := make([]string, 0, len(vars))
	for _, key := range sortedKeys(vars) {
		parts = append(parts, key+": "+vars[key])
	}
	return strings.Join(parts, "; ")
}

type attrList []map[string]string

// set adds name=val, skipping names that are not valid attribute names.
func (l *attrList) set(name, val string) {
	name = strings.ToLower(strings.TrimSpace(name))
	if !attrPattern.MatchString(name) {
		return
	}
	for _, entry := range *l {
		if entry["name"] == name {
			entry["value"] = val
			return
		}
	}
	*l = append(*l, map[string]string{"name": name, "value": val})
}

func (l *attrList) setNonEmpty(name, val string) {
	if val != "" {
		l.set(name, val)
	}
}

func (l attrList) entries() []map[string]string {
	return l
}

func safeTag(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if !tagPattern.MatchString(tag) {
		return "span"
	}
	return tag
}

func sortedKeys[V any](in map[string]V) []string {
	keys := make([]string, 0, len(in))
	for key := range in {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func firstNonEmpty(values ...string) string {
	for _, val := range values {
		if strings.TrimSpace(val) != "" {
			return strings.TrimSpace(val)
		}
	}
	return ""
}
