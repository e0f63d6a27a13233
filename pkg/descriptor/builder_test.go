package descriptor

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-editable/pkg/config"
	"github.com/goliatone/go-editable/pkg/entity"
	"github.com/goliatone/go-editable/pkg/nested"
	"github.com/goliatone/go-editable/pkg/options"
	"github.com/goliatone/go-editable/pkg/schema"
	"github.com/goliatone/go-editable/pkg/source"
	"github.com/goliatone/go-editable/pkg/testsupport"
	"github.com/goliatone/go-editable/pkg/widgets"
)

func newBuilder(opts ...Option) *Builder {
	return New(testsupport.BlogSchema(), opts...)
}

func TestAssemble_StringSourceListStaysText(t *testing.T) {
	t.Parallel()

	post := testsupport.Post(1, map[string]any{"status": "active"})
	desc, err := newBuilder().Assemble(post, "status", map[string]any{
		"source": []any{"active", "inactive"},
	}, true)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	want := Metadata{
		{Key: "type", Value: "text"},
		{Key: "model", Value: "post"},
		{Key: "name", Value: "status"},
		{Key: "value", Value: "active"},
		{Key: "placeholder", Value: "Status"},
		{Key: "source", Value: source.Map{
			{Key: "active", Label: "active"},
			{Key: "inactive", Label: "inactive"},
		}},
		{Key: "container", Value: "body"},
	}
	if diff := cmp.Diff(want, desc.Metadata); diff != "" {
		t.Fatalf("metadata mismatch (-want +got):\n%s", diff)
	}
	if desc.Tag != "span" || desc.Title != "Status" || !desc.Editable {
		t.Fatalf("unexpected descriptor %+v", desc)
	}
	if got := desc.FallbackContent(); got != "active" {
		t.Fatalf("fallback = %q, want active", got)
	}
}

func TestBuild_DisabledBooleanFallsBackToDefaultSource(t *testing.T) {
	t.Parallel()

	builder := newBuilder(WithGate(GateFunc(func(entity.Entity) bool { return false })))
	post := testsupport.Post(1, map[string]any{"published": false})

	desc, err := builder.Build(post, "published", nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if desc.Editable || desc.Metadata != nil || desc.Tag != "" || desc.Classes != nil {
		t.Fatalf("expected no interactive fields, got %+v", desc)
	}
	if got := desc.FallbackContent(); got != "No" {
		t.Fatalf("fallback = %q, want No", got)
	}
}

func TestAssemble_SelectRoundTrip(t *testing.T) {
	t.Parallel()

	cases := []struct {
		value any
		want  string
		meta  string
	}{
		{value: true, want: "Yes", meta: "1"},
		{value: false, want: "No", meta: "0"},
	}

	for _, tc := range cases {
		post := testsupport.Post(1, map[string]any{"published": tc.value})
		desc, err := newBuilder().Assemble(post, "published", nil, true)
		if err != nil {
			t.Fatalf("assemble: %v", err)
		}
		if desc.Widget != widgets.WidgetSelect {
			t.Fatalf("widget = %q, want select", desc.Widget)
		}
		if got := desc.FallbackContent(); got != tc.want {
			t.Fatalf("fallback for %v = %q, want %q", tc.value, got, tc.want)
		}
		if got, _ := desc.Metadata.Get("value"); got != tc.meta {
			t.Fatalf("value metadata = %v, want %q", got, tc.meta)
		}
		if got, _ := desc.Metadata.Get("source"); !cmp.Equal(got, source.DefaultBoolean()) {
			t.Fatalf("source metadata = %v", got)
		}
	}
}

func TestAssemble_NestedMissingChild(t *testing.T) {
	t.Parallel()

	blog := testsupport.BlogRecord()
	blog.HasMany["posts"] = blog.HasMany["posts"][:1]

	_, err := newBuilder().Assemble(blog, "body", map[string]any{
		"nested": []any{map[string]any{"posts": 5}, map[string]any{"comments": 9}},
	}, true)

	var resolution *nested.ResolutionError
	if !errors.As(err, &resolution) {
		t.Fatalf("expected ResolutionError, got %v", err)
	}
}

func TestAssemble_NestedTarget(t *testing.T) {
	t.Parallel()

	path := []any{map[string]any{"posts": 5}, map[string]any{"comments": 9}}
	desc, err := newBuilder().Assemble(testsupport.BlogRecord(), "body", map[string]any{"nested": path}, true)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if desc.Title != "Comment text" {
		t.Fatalf("title = %q, want nested class label", desc.Title)
	}
	if got, _ := desc.Metadata.Get("model"); got != "blog" {
		t.Fatalf("model = %v, want root model", got)
	}
	if got, _ := desc.Metadata.Get("nested"); !cmp.Equal(got, any(path)) {
		t.Fatalf("nested metadata = %v", got)
	}
	if got, _ := desc.Metadata.Get("value"); got != "Nice" {
		t.Fatalf("value = %v, want nested attribute", got)
	}
}

func TestAssemble_NestedTypedLiterals(t *testing.T) {
	t.Parallel()

	cases := map[string]any{
		"slice of maps": []map[string]any{{"posts": 5}, {"comments": 9}},
		"typed ids":     []map[string]int{{"posts": 5}, {"comments": 9}},
	}
	for name, path := range cases {
		t.Run(name, func(t *testing.T) {
			desc, err := newBuilder().Assemble(testsupport.BlogRecord(), "body", map[string]any{"nested": path}, true)
			if err != nil {
				t.Fatalf("assemble: %v", err)
			}
			if got, _ := desc.Metadata.Get("value"); got != "Nice" {
				t.Fatalf("value = %v, want nested attribute", got)
			}
		})
	}

	desc, err := newBuilder().Assemble(testsupport.BlogRecord(), "title", map[string]any{
		"nested": map[string]int{"posts": 5},
	}, true)
	if err != nil {
		t.Fatalf("assemble single hop: %v", err)
	}
	if got, _ := desc.Metadata.Get("name"); got != "title" {
		t.Fatalf("name = %v", got)
	}
}

func TestAssemble_PointerValues(t *testing.T) {
	t.Parallel()

	published := true
	desc, err := newBuilder().Assemble(testsupport.Post(1, map[string]any{"published": &published}), "published", nil, true)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if desc.Widget != "select" {
		t.Fatalf("widget = %q, want select", desc.Widget)
	}
	if got, _ := desc.Metadata.Get("value"); got != "1" {
		t.Fatalf("value = %v, want serialized pointer target", got)
	}
	if diff := cmp.Diff([]string{"Yes"}, desc.Content); diff != "" {
		t.Fatalf("content mismatch (-want +got):\n%s", diff)
	}

	var status *string
	desc, err = newBuilder().Assemble(testsupport.Post(1, map[string]any{"status": status}), "status", nil, false)
	if err != nil {
		t.Fatalf("assemble nil pointer: %v", err)
	}
	if len(desc.Content) != 0 {
		t.Fatalf("content = %#v, want empty for nil pointer", desc.Content)
	}
}

func TestAssemble_MissingAttribute(t *testing.T) {
	t.Parallel()

	_, err := newBuilder().Assemble(testsupport.Post(1, nil), "subtitle", nil, true)
	var missing *schema.MissingAttributeError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingAttributeError, got %v", err)
	}
	if missing.Class != "Post" || missing.Attribute != "subtitle" {
		t.Fatalf("unexpected error fields %+v", missing)
	}
}

func TestAssemble_NilEntity(t *testing.T) {
	t.Parallel()

	if _, err := newBuilder().Build(nil, "title", nil); !errors.Is(err, ErrNilEntity) {
		t.Fatalf("expected ErrNilEntity, got %v", err)
	}
}

func TestAssemble_RichTextValueIsBase64(t *testing.T) {
	t.Parallel()

	post := testsupport.Post(1, map[string]any{"body": "<b>hi</b>"})
	desc, err := newBuilder().Assemble(post, "body", map[string]any{"type": "wysihtml5"}, true)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if got, _ := desc.Metadata.Get("value"); got != "PGI+aGk8L2I+" {
		t.Fatalf("value = %v, want base64 payload", got)
	}
	if got := desc.FallbackContent(); got != "<b>hi</b>" {
		t.Fatalf("fallback = %q", got)
	}
}

func TestAssemble_OptionLayering(t *testing.T) {
	t.Parallel()

	store := config.NewStore()
	store.SetDefaults(options.Options{"container": "#editor"})
	store.Set("Post", "title", options.Options{
		"tag":         "h1",
		"placeholder": "Untitled",
		"data":        map[string]any{"mode": "popup", "emptytext": "None"},
	})
	builder := newBuilder(WithConfiguration(store))

	post := testsupport.Post(1, map[string]any{"title": "Hello"})
	desc, err := builder.Assemble(post, "title", map[string]any{
		"Tag":  "h2",
		"DATA": map[string]any{"Mode": "inline"},
	}, true)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	if desc.Tag != "h2" {
		t.Fatalf("tag = %q, want call-site override", desc.Tag)
	}
	if desc.Placeholder != "Untitled" {
		t.Fatalf("placeholder = %q, want configured value", desc.Placeholder)
	}
	checks := map[string]any{
		"container": "#editor",
		"mode":      "inline",
		"emptytext": "None",
	}
	for key, want := range checks {
		if got, _ := desc.Metadata.Get(key); got != want {
			t.Fatalf("%s = %v, want %v", key, got, want)
		}
	}
}

func TestAssemble_DisabledWithErrorMarkup(t *testing.T) {
	t.Parallel()

	post := testsupport.Post(1, map[string]any{"title": "Hello"})
	desc, err := newBuilder().Assemble(post, "title", map[string]any{"e": "<em>locked</em>"}, false)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if desc.Content != nil || desc.FallbackContent() != "<em>locked</em>" {
		t.Fatalf("expected caller markup, got %+v", desc)
	}
}

func TestAssemble_ClassesLookup(t *testing.T) {
	t.Parallel()

	post := testsupport.Post(1, map[string]any{"status": "live"})
	desc, err := newBuilder().Assemble(post, "status", map[string]any{
		"class":   "wide  bold wide",
		"classes": map[string]any{"live": "is-live", "draft": "is-draft"},
	}, true)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if diff := cmp.Diff([]string{"editable", "wide", "bold", "is-live"}, desc.Classes); diff != "" {
		t.Fatalf("classes mismatch (-want +got):\n%s", diff)
	}
	if desc.ClassAttr() != "editable wide bold is-live" {
		t.Fatalf("class attr = %q", desc.ClassAttr())
	}
	wantMap := source.Map{{Key: "draft", Label: "is-draft"}, {Key: "live", Label: "is-live"}}
	if got, _ := desc.Metadata.Get("classes"); !cmp.Equal(got, any(wantMap)) {
		t.Fatalf("classes metadata = %v", got)
	}
}

func TestAssemble_MetadataOverlayAndNilDrop(t *testing.T) {
	t.Parallel()

	post := testsupport.Post(1, map[string]any{"title": "Hello"})
	desc, err := newBuilder().Assemble(post, "title", map[string]any{
		"model":     "article",
		"container": nil,
		"nid":       nil,
		"On_Blur":   "submit",
		"data":      map[string]any{"Mode": "inline"},
	}, true)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	want := []string{"type", "model", "name", "value", "placeholder", "mode", "on-blur"}
	if diff := cmp.Diff(want, desc.Metadata.Keys()); diff != "" {
		t.Fatalf("metadata keys mismatch (-want +got):\n%s", diff)
	}
	if got, _ := desc.Metadata.Get("model"); got != "article" {
		t.Fatalf("model = %v, want overlay", got)
	}
}

func TestAssemble_URLAndValidationErrors(t *testing.T) {
	t.Parallel()

	builder := newBuilder(WithURLResolver(URLResolverFunc(func(e entity.Entity) string {
		return "/posts/1"
	})))
	post := testsupport.Post(1, map[string]any{"title": ""})
	post.Invalid = map[string][]string{"title": {"can't be blank"}}

	desc, err := builder.Assemble(post, "title", nil, true)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if got, _ := desc.Metadata.Get("url"); got != "/posts/1" {
		t.Fatalf("url = %v", got)
	}
	if got, _ := desc.Metadata.Get("attr-error"); !cmp.Equal(got, any([]string{"can't be blank"})) {
		t.Fatalf("attr-error = %v", got)
	}

	overridden, err := builder.Assemble(post, "title", map[string]any{"url": "/custom"}, true)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if got, _ := overridden.Metadata.Get("url"); got != "/custom" {
		t.Fatalf("url override = %v", got)
	}
}

func TestAssemble_ChoiceContent(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		value  any
		opts   map[string]any
		want   string
		source any
	}{
		{
			name:   "literal source echoes value",
			value:  "draft",
			opts:   map[string]any{"type": "select", "source": "/statuses.json"},
			want:   "draft",
			source: source.Literal("/statuses.json"),
		},
		{
			name:   "unmapped value renders empty",
			value:  "archived",
			opts:   map[string]any{"type": "select", "source": []any{"draft", "live"}},
			want:   "",
			source: source.Map{{Key: "draft", Label: "draft"}, {Key: "live", Label: "live"}},
		},
		{
			name:  "label swap for pairs",
			value: "l",
			opts: map[string]any{"type": "select", "source": []any{
				[]any{"Draft", "d"},
				[]any{"Live", "l"},
			}},
			want:   "Live",
			source: source.Map{{Key: "d", Label: "Draft"}, {Key: "l", Label: "Live"}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			post := testsupport.Post(1, map[string]any{"status": tc.value})
			desc, err := newBuilder().Assemble(post, "status", tc.opts, true)
			if err != nil {
				t.Fatalf("assemble: %v", err)
			}
			if diff := cmp.Diff([]string{tc.want}, desc.Content); diff != "" {
				t.Fatalf("content mismatch (-want +got):\n%s", diff)
			}
			if got, _ := desc.Metadata.Get("source"); !cmp.Equal(got, tc.source) {
				t.Fatalf("source metadata = %#v", got)
			}
		})
	}
}

func TestAssemble_ValueOverridePresenceWins(t *testing.T) {
	t.Parallel()

	post := testsupport.Post(1, map[string]any{"title": "Hello"})
	desc, err := newBuilder().Assemble(post, "title", map[string]any{"value": nil}, true)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if got, _ := desc.Metadata.Get("value"); got != "" {
		t.Fatalf("value = %v, want explicit nil override", got)
	}
}

func TestAssemble_StrictSources(t *testing.T) {
	t.Parallel()

	post := testsupport.Post(1, map[string]any{"rating": 3})

	loose, err := newBuilder().Assemble(post, "rating", map[string]any{"source": 42}, true)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if got, _ := loose.Metadata.Get("source"); got != 42 {
		t.Fatalf("expected pass-through source, got %v", got)
	}

	_, err = newBuilder(WithStrictSources()).Assemble(post, "rating", map[string]any{"source": 42}, true)
	var shape *source.UnsupportedSourceShapeError
	if !errors.As(err, &shape) {
		t.Fatalf("expected UnsupportedSourceShapeError, got %v", err)
	}
}

func TestAssemble_DoesNotMutateCallerOptions(t *testing.T) {
	t.Parallel()

	opts := map[string]any{
		"tag":  "div",
		"data": map[string]any{"mode": "inline"},
	}
	post := testsupport.Post(1, map[string]any{"title": "Hello"})
	if _, err := newBuilder().Assemble(post, "title", opts, true); err != nil {
		t.Fatalf("assemble: %v", err)
	}
	want := map[string]any{
		"tag":  "div",
		"data": map[string]any{"mode": "inline"},
	}
	if diff := cmp.Diff(want, opts); diff != "" {
		t.Fatalf("caller options mutated (-want +got):\n%s", diff)
	}
}

func TestAssemble_CustomWidgetRegistry(t *testing.T) {
	t.Parallel()

	registry := widgets.NewRegistry()
	registry.Register("number", 95, func(raw any) bool {
		_, ok := raw.(int)
		return ok
	})
	post := testsupport.Post(1, map[string]any{"rating": 4})
	desc, err := newBuilder(WithWidgets(registry)).Assemble(post, "rating", nil, true)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if desc.Widget != "number" {
		t.Fatalf("widget = %q, want number", desc.Widget)
	}
}

func TestAssemble_LogsUnmappedChoice(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	post := testsupport.Post(1, map[string]any{"status": "gone"})

	_, err := newBuilder(WithLogger(logger)).Assemble(post, "status", map[string]any{
		"type":   "select",
		"source": []any{"draft"},
	}, true)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if !strings.Contains(buf.String(), "value missing from source") {
		t.Fatalf("expected debug log, got %q", buf.String())
	}
}

func TestMetadataDataAttributes(t *testing.T) {
	t.Parallel()

	meta := Metadata{
		{Key: "type", Value: "select"},
		{Key: "source", Value: source.Map{{Key: "1", Label: "Yes"}, {Key: "0", Label: "No"}}},
		{Key: "url", Value: source.Literal("/posts/1")},
		{Key: "nid", Value: 7},
		{Key: "autotext", Value: false},
		{Key: "attr-error", Value: []string{"<bad>"}},
	}
	got, err := meta.DataAttributes()
	if err != nil {
		t.Fatalf("data attributes: %v", err)
	}
	want := []DataAttribute{
		{Name: "data-type", Value: "select"},
		{Name: "data-source", Value: `{"1":"Yes","0":"No"}`},
		{Name: "data-url", Value: "/posts/1"},
		{Name: "data-nid", Value: "7"},
		{Name: "data-autotext", Value: "false"},
		{Name: "data-attr-error", Value: `["<bad>"]`},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("data attributes mismatch (-want +got):\n%s", diff)
	}
}
