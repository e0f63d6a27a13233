// Package config stores the per-attribute options configured at process
// start. Options are loaded from JSON/YAML documents shaped like:
//
//	defaults:
//	  container: "#editor"
//	classes:
//	  Post:
//	    published:
//	      source: [Published, Draft]
//
// Mapping-valued source and classes options keep their document order.
package config

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-editable/pkg/options"
	"github.com/goliatone/go-editable/pkg/source"
)

// Store keeps configured options. It is safe for concurrent readers when
// treated as immutable after construction.
type Store struct {
	defaults options.Options
	classes  map[string]map[string]options.Options
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{classes: make(map[string]map[string]options.Options)}
}

// Empty reports whether the store holds any options.
func (s *Store) Empty() bool {
	return s == nil || (len(s.defaults) == 0 && len(s.classes) == 0)
}

// Set registers options for class and attribute, replacing previous ones.
func (s *Store) Set(class, attribute string, opts options.Options) {
	attrs, ok := s.classes[class]
	if !ok {
		attrs = make(map[string]options.Options)
		s.classes[class] = attrs
	}
	attrs[attribute] = opts.Clone()
}

// SetDefaults registers options applied to every attribute.
func (s *Store) SetDefaults(opts options.Options) {
	s.defaults = opts.Clone()
}

// OptionsFor returns the defaults merged with the options configured for
// class and attribute. The result is a fresh copy.
func (s *Store) OptionsFor(class, attribute string) options.Options {
	if s == nil {
		return options.Options{}
	}
	return options.Merge(s.defaults, s.classes[class][attribute])
}

// LoadFS walks fsys and merges every JSON/YAML configuration file. Later
// files override earlier ones key by key.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := NewStore()
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isConfigFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("config: read %s: %w", path, err)
		}
		return store.load(data, path)
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Load parses a single configuration document.
func Load(data []byte) (*Store, error) {
	store := NewStore()
	if err := store.load(data, "<inline>"); err != nil {
		return nil, err
	}
	return store, nil
}

type documentFile struct {
	Defaults yaml.Node                       `yaml:"defaults"`
	Classes  map[string]map[string]yaml.Node `yaml:"classes"`
}

func (s *Store) load(data []byte, origin string) error {
	if strings.TrimSpace(string(data)) == "" {
		return fmt.Errorf("config: file %s is empty", origin)
	}

	var doc documentFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("config: parse %s: %w", origin, err)
	}

	if doc.Defaults.Kind != 0 {
		defaults, err := DecodeOptions(&doc.Defaults)
		if err != nil {
			return fmt.Errorf("config: %s defaults: %w", origin, err)
		}
		s.defaults = options.Merge(s.defaults, defaults)
	}

	for class, attrs := range doc.Classes {
		for attribute, node := range attrs {
			node := node
			decoded, err := DecodeOptions(&node)
			if err != nil {
				return fmt.Errorf("config: %s %s.%s: %w", origin, class, attribute, err)
			}
			existing := s.classes[class][attribute]
			s.Set(class, attribute, options.Merge(existing, decoded))
		}
	}
	return nil
}

// DecodeOptions converts a YAML mapping node into canonical options. Mapping
// values of the source and classes keys become ordered source.Map values.
func DecodeOptions(node *yaml.Node) (options.Options, error) {
	if node == nil || node.Kind == 0 {
		return options.Options{}, nil
	}
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a mapping, got %s", kindName(node.Kind))
	}

	raw := make(map[string]any, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := node.Content[i+1]

		switch canonical := options.Canonical(key); {
		case (canonical == "source" || canonical == "classes") && val.Kind == yaml.MappingNode:
			ordered, err := orderedMap(val)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			raw[key] = ordered
		default:
			var decoded any
			if err := val.Decode(&decoded); err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			raw[key] = decoded
		}
	}
	return options.Normalize(raw), nil
}

func orderedMap(node *yaml.Node) (source.Map, error) {
	out := make(source.Map, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		if valNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("label for %q must be a scalar", keyNode.Value)
		}
		out = out.Set(keyNode.Value, valNode.Value)
	}
	return out, nil
}

func kindName(kind yaml.Kind) string {
	switch kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "empty node"
	}
}

func isConfigFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
