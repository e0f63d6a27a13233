package testsupport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-editable/pkg/entity"
	"github.com/goliatone/go-editable/pkg/schema"
)

// BlogSchemaYAML declares the classes shared by package tests.
const BlogSchemaYAML = `
classes:
  Blog:
    attributes:
      name: string
    relations:
      posts: {kind: hasMany, target: Post}
      owner: {kind: hasOne, target: User}
  Post:
    attributes:
      title: string
      status: string
      published: boolean
      body: {type: text, label: Body copy}
      tags: other
      rating: integer
    relations:
      comments: {kind: hasMany, target: Comment}
      author: {kind: belongsTo, target: User}
  Comment:
    model: blog_comment
    attributes:
      body: {type: text, label: Comment text}
      approved: boolean
  User:
    attributes:
      email: string
      admin: boolean
`

// BlogSchema returns a registry built from BlogSchemaYAML. Helpers panic on
// failure to keep setup concise.
func BlogSchema() *schema.Registry {
	reg, err := schema.Load([]byte(BlogSchemaYAML))
	if err != nil {
		panic(fmt.Sprintf("testsupport: blog schema: %v", err))
	}
	return reg
}

// Post returns a post record with the given attributes.
func Post(id any, attributes map[string]any) *entity.Record {
	return &entity.Record{Model: "Post", Key: id, Attributes: attributes}
}

// BlogRecord returns a blog with posts 4 and 5; post 5 carries comment 9.
func BlogRecord() *entity.Record {
	return &entity.Record{
		Model:      "Blog",
		Key:        1,
		Attributes: map[string]any{"name": "Field notes"},
		HasOne: map[string]*entity.Record{
			"owner": {Model: "User", Key: 3, Attributes: map[string]any{"email": "ada@example.com", "admin": true}},
		},
		HasMany: map[string][]*entity.Record{
			"posts": {
				Post(4, map[string]any{"title": "Draft", "published": false}),
				{
					Model:      "Post",
					Key:        5,
					Attributes: map[string]any{"title": "Launch", "published": true},
					HasMany: map[string][]*entity.Record{
						"comments": {
							{Model: "Comment", Key: 9, Attributes: map[string]any{"body": "Nice", "approved": true}},
						},
					},
				},
			},
		},
	}
}

// LoadRecord reads a YAML record fixture.
func LoadRecord(t *testing.T, path string) *entity.Record {
	t.Helper()

	record, err := LoadRecordFromPath(path)
	if err != nil {
		t.Fatalf("load record: %v", err)
	}
	return record
}

// LoadRecordFromPath returns a record without requiring testing.T.
func LoadRecordFromPath(path string) (*entity.Record, error) {
	if path == "" {
		return nil, errors.New("testsupport: record path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read record: %w", err)
	}
	record, err := entity.LoadRecord(data)
	if err != nil {
		return nil, fmt.Errorf("testsupport: %w", err)
	}
	return record, nil
}

// Diff returns a go-cmp diff of want and got, empty when equal.
func Diff(want, got any, opts ...cmp.Option) string {
	return cmp.Diff(want, got, opts...)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureOutput executes a render function that writes to an io.Writer,
// returning the writer contents.
func CaptureOutput(t *testing.T, render func(io.Writer) error) string {
	t.Helper()

	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}
