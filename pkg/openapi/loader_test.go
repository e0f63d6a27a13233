package openapi

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-editable/pkg/schema"
)

const blogDocument = `
openapi: 3.0.3
info:
  title: Blog
  version: 1.0.0
paths: {}
components:
  schemas:
    Post:
      type: object
      x-editable-model: article
      properties:
        title:
          type: string
          title: Headline
        published:
          type: boolean
        rating:
          type: integer
        tags:
          type: array
          items:
            type: string
        author:
          $ref: '#/components/schemas/User'
        comments:
          type: array
          items:
            $ref: '#/components/schemas/Comment'
        editor:
          type: string
          x-relationships:
            type: belongsTo
            target: '#/components/schemas/User'
    Comment:
      type: object
      properties:
        body:
          type: string
        post:
          allOf:
            - $ref: '#/components/schemas/Post'
          x-relationships:
            type: hasMany
    User:
      type: object
      properties:
        email:
          type: string
`

func TestLoad(t *testing.T) {
	reg, err := Load(context.Background(), []byte(blogDocument))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if diff := cmp.Diff([]string{"Comment", "Post", "User"}, reg.Classes()); diff != "" {
		t.Fatalf("classes mismatch (-want +got):\n%s", diff)
	}

	types := map[string]schema.Type{
		"title":     schema.TypeString,
		"published": schema.TypeBoolean,
		"rating":    schema.TypeNumeric,
		"tags":      schema.TypeOther,
	}
	for attr, want := range types {
		got, err := reg.AttributeType("Post", attr)
		if err != nil {
			t.Fatalf("attribute %s: %v", attr, err)
		}
		if got != want {
			t.Fatalf("attribute %s type = %q, want %q", attr, got, want)
		}
	}

	if got := reg.HumanLabel("Post", "title"); got != "Headline" {
		t.Fatalf("label = %q, want schema title", got)
	}
	if got := reg.ModelName("Post"); got != "article" {
		t.Fatalf("model = %q, want extension value", got)
	}
	if got := reg.ModelName("User"); got != "user" {
		t.Fatalf("model = %q, want derived name", got)
	}
}

func TestLoadInfersRelations(t *testing.T) {
	reg, err := Load(context.Background(), []byte(blogDocument))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	cases := []struct {
		class string
		assoc string
		want  schema.Relation
	}{
		{class: "Post", assoc: "author", want: schema.Relation{Kind: schema.RelationToOne, Target: "User"}},
		{class: "Post", assoc: "comments", want: schema.Relation{Kind: schema.RelationToMany, Target: "Comment"}},
		{class: "Post", assoc: "editor", want: schema.Relation{Kind: schema.RelationToOne, Target: "User"}},
		{class: "Comment", assoc: "post", want: schema.Relation{Kind: schema.RelationToMany, Target: "Post"}},
	}
	for _, tc := range cases {
		got, ok := reg.Relation(tc.class, tc.assoc)
		if !ok {
			t.Fatalf("%s.%s: relation missing", tc.class, tc.assoc)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("%s.%s mismatch (-want +got):\n%s", tc.class, tc.assoc, diff)
		}
	}

	var missing *schema.MissingAttributeError
	if _, err := reg.AttributeType("Post", "author"); !errors.As(err, &missing) {
		t.Fatalf("relations should not register as attributes, got %v", err)
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{"api/openapi.yaml": &fstest.MapFile{Data: []byte(blogDocument)}}
	reg, err := LoadFS(context.Background(), fsys, "api/openapi.yaml", WithValidation())
	if err != nil {
		t.Fatalf("load fs: %v", err)
	}
	if _, ok := reg.Class("Comment"); !ok {
		t.Fatalf("expected Comment class")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(context.Background(), nil); err == nil {
		t.Fatalf("expected empty payload error")
	}
	if _, err := Load(context.Background(), []byte("openapi: [")); err == nil {
		t.Fatalf("expected parse error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Load(ctx, []byte(blogDocument)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}
