package schema

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type documentFile struct {
	Classes map[string]classFile `json:"classes" yaml:"classes"`
}

type classFile struct {
	Model      string                   `json:"model" yaml:"model"`
	Attributes map[string]attributeFile `json:"attributes" yaml:"attributes"`
	Relations  map[string]relationFile  `json:"relations" yaml:"relations"`
}

type attributeFile struct {
	Type  string `json:"type" yaml:"type"`
	Label string `json:"label" yaml:"label"`
}

// UnmarshalYAML accepts either a bare type name or a {type, label} mapping.
func (a *attributeFile) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		a.Type = node.Value
		return nil
	}
	type plain attributeFile
	var out plain
	if err := node.Decode(&out); err != nil {
		return err
	}
	*a = attributeFile(out)
	return nil
}

type relationFile struct {
	Kind   string `json:"kind" yaml:"kind"`
	Target string `json:"target" yaml:"target"`
}

// LoadFS walks fsys and registers every class declared in JSON/YAML schema
// files. A nil filesystem yields an empty registry.
func LoadFS(fsys fs.FS, options ...Option) (*Registry, error) {
	reg := NewRegistry(options...)
	if fsys == nil {
		return reg, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSchemaFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("schema: read %s: %w", path, err)
		}
		return reg.loadDocument(data, path)
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// Load parses a single JSON/YAML schema document into a new registry.
func Load(data []byte, options ...Option) (*Registry, error) {
	reg := NewRegistry(options...)
	if err := reg.loadDocument(data, "<inline>"); err != nil {
		return nil, err
	}
	return reg, nil
}

func (r *Registry) loadDocument(data []byte, source string) error {
	if strings.TrimSpace(string(data)) == "" {
		return fmt.Errorf("schema: file %s is empty", source)
	}

	var doc documentFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("schema: parse %s: %w", source, err)
	}

	for name, raw := range doc.Classes {
		class := Class{
			Name:       strings.TrimSpace(name),
			ModelName:  strings.TrimSpace(raw.Model),
			Attributes: make(map[string]Attribute, len(raw.Attributes)),
			Relations:  make(map[string]Relation, len(raw.Relations)),
		}
		for attrName, attr := range raw.Attributes {
			class.Attributes[attrName] = Attribute{
				Name:  attrName,
				Type:  ParseType(attr.Type),
				Label: strings.TrimSpace(attr.Label),
			}
		}
		for relName, rel := range raw.Relations {
			class.Relations[relName] = Relation{
				Kind:   ParseRelationKind(rel.Kind),
				Target: strings.TrimSpace(rel.Target),
			}
		}
		if err := r.Register(class); err != nil {
			return fmt.Errorf("schema: file %s: %w", source, err)
		}
	}
	return nil
}

func isSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
