package descriptor

import (
	"encoding/base64"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/goliatone/go-editable/pkg/entity"
	"github.com/goliatone/go-editable/pkg/nested"
	"github.com/goliatone/go-editable/pkg/options"
	"github.com/goliatone/go-editable/pkg/schema"
	"github.com/goliatone/go-editable/pkg/source"
	"github.com/goliatone/go-editable/pkg/value"
	"github.com/goliatone/go-editable/pkg/widgets"
)

// ErrNilEntity is returned when Build or Assemble receive no root entity.
var ErrNilEntity = errors.New("descriptor: root entity is nil")

// Option keys consumed by Assemble. Keys left over after assembly become
// metadata entries.
const (
	keyURL         = "url"
	keyNested      = "nested"
	keyValue       = "value"
	keySource      = "source"
	keyClasses     = "classes"
	keyError       = "e"
	keyNID         = "nid"
	keyTitle       = "title"
	keyClass       = "class"
	keyType        = "type"
	keyTag         = "tag"
	keyPlaceholder = "placeholder"
	keyContainer   = "container"
)

// Build assembles the descriptor for attribute on root, asking the gate
// whether editing is enabled. Without a gate editing is always enabled.
func (b *Builder) Build(root entity.Entity, attribute string, opts map[string]any) (Descriptor, error) {
	enabled := true
	if b.gate != nil && root != nil {
		enabled = b.gate.Enabled(root)
	}
	return b.Assemble(root, attribute, opts, enabled)
}

// Assemble builds the descriptor for attribute on root. Call-site opts take
// precedence over configured options, which take precedence over the
// builder defaults. opts is never mutated.
func (b *Builder) Assemble(root entity.Entity, attribute string, opts map[string]any, enabled bool) (Descriptor, error) {
	if root == nil {
		return Descriptor{}, ErrNilEntity
	}

	merged := b.mergeOptions(root, attribute, opts)

	url, hasURL := merged.Take(keyURL)
	if !hasURL && b.urls != nil {
		if resolved := b.urls.URL(root); resolved != "" {
			url = resolved
		}
	}

	rawNested, _ := merged.Take(keyNested)
	path, err := nested.Parse(rawNested)
	if err != nil {
		return Descriptor{}, fmt.Errorf("descriptor: %s: %w", attribute, err)
	}

	target := nested.Target{Entity: root, Class: root.Class()}
	if !path.Empty() {
		target, err = nested.Resolve(root, path, b.schema)
		if err != nil {
			b.logger.Debug("nested resolution failed",
				"class", root.Class(),
				"attribute", attribute,
				"error", err,
			)
			return Descriptor{}, fmt.Errorf("descriptor: %s: %w", attribute, err)
		}
		b.logger.Debug("nested target resolved",
			"class", root.Class(),
			"attribute", attribute,
			"target", target.Class,
			"hops", len(path.Hops),
		)
	}
	edited := target.Entity

	attrErrors := b.errors.Errors(edited, attribute)

	raw, hasValue := merged.Take(keyValue)
	if !hasValue {
		raw, _ = edited.Attribute(attribute)
	}

	declared, err := b.schema.AttributeType(edited.Class(), attribute)
	if err != nil {
		return Descriptor{}, fmt.Errorf("descriptor: %w", err)
	}

	src, err := b.sourceFor(merged, declared)
	if err != nil {
		return Descriptor{}, fmt.Errorf("descriptor: %s source: %w", attribute, err)
	}
	classMap, err := b.classesFor(merged, declared)
	if err != nil {
		return Descriptor{}, fmt.Errorf("descriptor: %s classes: %w", attribute, err)
	}
	errMarkup := merged.TakeString(keyError, "")
	htmlOpts := merged.TakeOptions(options.KeyHTML)

	if !enabled {
		if errMarkup != "" {
			return Descriptor{Markup: errMarkup}, nil
		}
		return Descriptor{Content: source.RenderValues(raw, declared, src)}, nil
	}

	nid, _ := merged.Take(keyNID)
	title := merged.TakeString(keyTitle, "")
	if title == "" {
		title = b.schema.HumanLabel(target.Class, attribute)
	}

	output := value.Serialize(raw)
	classes := cssClasses(merged, classMap, output)
	widget := merged.TakeString(keyType, "")
	if widget == "" {
		widget = b.widgets.Resolve(raw)
	}
	tag := merged.TakeString(keyTag, "span")
	placeholder := merged.TakeString(keyPlaceholder, title)
	container, _ := merged.Take(keyContainer)

	encodedValue := output
	if widgets.IsRichText(widget) {
		encodedValue = base64.StdEncoding.EncodeToString([]byte(output))
	}

	var errorsVal any
	if len(attrErrors) > 0 {
		errorsVal = attrErrors
	}
	var nestedVal any
	if !path.Empty() {
		nestedVal = path.Raw
	}

	meta := Metadata{
		{Key: "type", Value: widget},
		{Key: "model", Value: b.schema.ModelName(root.Class())},
		{Key: "name", Value: attribute},
		{Key: "value", Value: encodedValue},
		{Key: "placeholder", Value: placeholder},
		{Key: keyClasses, Value: specValue(classMap)},
		{Key: keySource, Value: specValue(src)},
		{Key: keyURL, Value: url},
		{Key: keyNested, Value: nestedVal},
		{Key: keyNID, Value: nid},
		{Key: "attr-error", Value: errorsVal},
		{Key: keyContainer, Value: container},
	}
	for _, key := range merged.Keys() {
		meta = meta.set(key, merged[key])
	}
	meta = dropAbsent(meta)

	desc := Descriptor{
		Tag:         tag,
		Classes:     classes,
		Title:       title,
		Placeholder: placeholder,
		Widget:      widget,
		Metadata:    meta,
		HTML:        htmlOpts,
		Editable:    true,
	}
	desc.Content = b.editableContent(raw, declared, src, widget, output, edited, attribute)
	return desc, nil
}

func (b *Builder) mergeOptions(root entity.Entity, attribute string, opts map[string]any) options.Options {
	var configured options.Options
	if b.config != nil {
		configured = b.config.OptionsFor(root.Class(), attribute)
	}
	merged := options.Merge(b.defaults, configured, options.Normalize(opts))
	if data := merged.TakeOptions(options.KeyData); data != nil {
		for key, val := range data {
			merged[key] = val
		}
	}
	return merged
}

func (b *Builder) sourceFor(opts options.Options, declared schema.Type) (source.Spec, error) {
	raw, _ := opts.Take(keySource)
	if raw == nil || raw == false {
		return source.Default(declared), nil
	}
	if literal, ok := raw.(string); ok {
		return source.Literal(literal), nil
	}
	return b.normalize(raw, declared)
}

func (b *Builder) classesFor(opts options.Options, declared schema.Type) (source.Spec, error) {
	raw, _ := opts.Take(keyClasses)
	if raw == nil {
		return nil, nil
	}
	return b.normalize(raw, declared)
}

func (b *Builder) normalize(raw any, declared schema.Type) (source.Spec, error) {
	if !b.strict {
		return source.Normalize(source.Parse(raw), declared), nil
	}
	spec, err := source.ParseStrict(raw)
	if err != nil {
		return nil, err
	}
	return source.NormalizeStrict(spec, declared)
}

func (b *Builder) editableContent(raw any, declared schema.Type, src source.Spec, widget, output string, edited entity.Entity, attribute string) []string {
	if !widgets.IsChoice(widget) {
		return source.RenderValues(raw, declared, src)
	}
	if _, ok := src.(source.Literal); ok {
		return []string{value.Display(raw)}
	}
	label, ok := source.Lookup(src, output)
	if !ok {
		b.logger.Debug("value missing from source",
			"class", edited.Class(),
			"attribute", attribute,
			"value", output,
		)
	}
	return []string{label}
}

func cssClasses(opts options.Options, classMap source.Spec, output string) []string {
	tokens := []string{"editable"}
	extra, _ := opts.Take(keyClass)
	switch typed := extra.(type) {
	case string:
		tokens = append(tokens, strings.Fields(typed)...)
	case nil:
	default:
		for _, item := range value.Wrap(typed) {
			tokens = append(tokens, strings.Fields(value.Display(item))...)
		}
	}
	if classMap != nil {
		if class, ok := source.Lookup(classMap, output); ok && class != "" {
			tokens = append(tokens, class)
		}
	}

	seen := make(map[string]struct{}, len(tokens))
	out := tokens[:0]
	for _, token := range tokens {
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	return out
}

// specValue unwraps sources for the metadata bag; opaque sources carry
// their original value.
func specValue(spec source.Spec) any {
	switch typed := spec.(type) {
	case nil:
		return nil
	case source.Opaque:
		return typed.Value
	default:
		return typed
	}
}

func dropAbsent(meta Metadata) Metadata {
	out := meta[:0]
	for _, attr := range meta {
		if isAbsent(attr.Value) {
			continue
		}
		out = append(out, attr)
	}
	return out
}

func isAbsent(val any) bool {
	if val == nil {
		return true
	}
	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}
