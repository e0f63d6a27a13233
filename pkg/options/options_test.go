package options

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalize_CanonicalKeys(t *testing.T) {
	t.Parallel()

	got := Normalize(map[string]any{
		" Title ":    "Name",
		"attr_error": "oops",
		"DATA":       map[string]any{"Foo_Bar": 1},
		"source":     map[string]any{"Keep_Me": "x"},
	})

	want := Options{
		"title":      "Name",
		"attr-error": "oops",
		"data":       Options{"foo-bar": 1},
		"source":     map[string]any{"Keep_Me": "x"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("normalize mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_NarrowestWins(t *testing.T) {
	t.Parallel()

	defaults := Options{"tag": "span", "container": "body"}
	configured := Options{"tag": "div", "source": []any{"a"}, "html": Options{"id": "cfg", "role": "note"}}
	call := Options{"source": []any{"b"}, "html": map[string]any{"ID": "call"}}

	got := Merge(defaults, configured, call)
	want := Options{
		"tag":       "div",
		"container": "body",
		"source":    []any{"b"},
		"html":      Options{"id": "call", "role": "note"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
}

func TestTake(t *testing.T) {
	t.Parallel()

	opts := Options{"value": nil, "tag": "em", "title": 3}

	if val, ok := opts.Take("Value"); !ok || val != nil {
		t.Fatalf("expected present nil value, got %v (ok=%v)", val, ok)
	}
	if opts.Has("value") {
		t.Fatalf("expected value to be consumed")
	}
	if got := opts.TakeString("tag", "span"); got != "em" {
		t.Fatalf("expected em, got %q", got)
	}
	if got := opts.TakeString("title", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback for non-string, got %q", got)
	}
	if len(opts) != 0 {
		t.Fatalf("expected all keys consumed, got %v", opts)
	}
}

func TestCloneDoesNotShareNestedBags(t *testing.T) {
	t.Parallel()

	original := Options{"data": Options{"a": 1}}
	clone := original.Clone()
	clone["data"].(Options)["a"] = 2

	if original["data"].(Options)["a"] != 1 {
		t.Fatalf("clone mutated the original nested bag")
	}
}

func TestKeysSorted(t *testing.T) {
	t.Parallel()

	got := Options{"b": 1, "a": 2, "c": 3}.Keys()
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}
