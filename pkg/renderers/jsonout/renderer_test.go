package jsonout

import (
	"context"
	"testing"

	"github.com/goliatone/go-editable/pkg/descriptor"
	"github.com/goliatone/go-editable/pkg/render"
	"github.com/goliatone/go-editable/pkg/source"
)

func TestRender(t *testing.T) {
	desc := descriptor.Descriptor{
		Tag:         "span",
		Classes:     []string{"editable"},
		Title:       "Published",
		Placeholder: "Published",
		Widget:      "select",
		Metadata: descriptor.Metadata{
			{Key: "type", Value: "select"},
			{Key: "value", Value: "1"},
			{Key: "source", Value: source.DefaultBoolean()},
		},
		Content:  []string{"Yes"},
		Editable: true,
	}

	out, err := New().Render(context.Background(), desc, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := `{"tag":"span","classes":["editable"],"title":"Published","placeholder":"Published",` +
		`"widget":"select","metadata":{"type":"select","value":"1","source":{"1":"Yes","0":"No"}},` +
		`"content":["Yes"],"editable":true,"fallback":"Yes"}`
	if string(out) != want {
		t.Fatalf("output mismatch\nwant: %s\n got: %s", want, out)
	}
}

func TestRenderDisabled(t *testing.T) {
	out, err := New().Render(context.Background(), descriptor.Descriptor{Markup: "<em>locked</em>"}, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `{"content":null,"markup":"<em>locked</em>","editable":false,"fallback":"<em>locked</em>"}`
	if string(out) != want {
		t.Fatalf("output mismatch\nwant: %s\n got: %s", want, out)
	}
}
