package openapi

import (
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-editable/pkg/schema"
)

const (
	relationshipExtensionKey = "x-relationships"
	modelExtensionKey        = "x-editable-model"
)

func classFromSchema(name string, src *openapi3.Schema) schema.Class {
	class := schema.Class{
		Name:       name,
		ModelName:  stringExtension(src.Extensions, modelExtensionKey),
		Attributes: make(map[string]schema.Attribute),
		Relations:  make(map[string]schema.Relation),
	}

	for propName, prop := range src.Properties {
		if prop == nil {
			continue
		}
		if rel, ok := relationFromProperty(prop); ok {
			class.Relations[propName] = rel
			continue
		}
		if prop.Value == nil {
			continue
		}
		class.Attributes[propName] = schema.Attribute{
			Name:  propName,
			Type:  attributeType(prop.Value),
			Label: strings.TrimSpace(prop.Value.Title),
		}
	}
	return class
}

// relationFromProperty infers an association from $ref usage; the
// x-relationships extension overrides the inferred kind and target.
func relationFromProperty(prop *openapi3.SchemaRef) (schema.Relation, bool) {
	var (
		rel   schema.Relation
		found bool
	)

	switch {
	case prop.Ref != "":
		rel = schema.Relation{Kind: schema.RelationToOne, Target: refName(prop.Ref)}
		found = true
	case prop.Value != nil && len(prop.Value.AllOf) == 1 && prop.Value.AllOf[0].Ref != "":
		rel = schema.Relation{Kind: schema.RelationToOne, Target: refName(prop.Value.AllOf[0].Ref)}
		found = true
	case prop.Value != nil && prop.Value.Items != nil && prop.Value.Items.Ref != "" && hasType(prop.Value, openapi3.TypeArray):
		rel = schema.Relation{Kind: schema.RelationToMany, Target: refName(prop.Value.Items.Ref)}
		found = true
	}

	if prop.Value == nil {
		return rel, found
	}
	ext := relationshipExtension(prop.Value.Extensions)
	if len(ext) == 0 {
		return rel, found
	}
	if kind := schema.ParseRelationKind(firstNonEmpty(ext["type"], ext["kind"], ext["cardinality"])); kind != schema.RelationUnknown {
		rel.Kind = kind
	}
	if target := ext["target"]; target != "" {
		rel.Target = refName(target)
	}
	return rel, true
}

func attributeType(src *openapi3.Schema) schema.Type {
	switch {
	case hasType(src, openapi3.TypeBoolean):
		return schema.TypeBoolean
	case hasType(src, openapi3.TypeInteger), hasType(src, openapi3.TypeNumber):
		return schema.TypeNumeric
	case hasType(src, openapi3.TypeString):
		return schema.TypeString
	default:
		return schema.TypeOther
	}
}

func hasType(src *openapi3.Schema, name string) bool {
	if src == nil || src.Type == nil {
		return false
	}
	for _, candidate := range src.Type.Slice() {
		if candidate == name {
			return true
		}
	}
	return false
}

func relationshipExtension(ext map[string]any) map[string]string {
	raw, ok := ext[relationshipExtensionKey].(map[string]any)
	if !ok || len(raw) == 0 {
		return nil
	}
	out := make(map[string]string, len(raw))
	for key, val := range raw {
		str, ok := val.(string)
		if !ok {
			continue
		}
		out[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(str)
	}
	return out
}

func stringExtension(ext map[string]any, key string) string {
	switch val := ext[key].(type) {
	case string:
		return strings.TrimSpace(val)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

// refName returns the last path segment of a component reference.
func refName(ref string) string {
	if idx := strings.LastIndex(ref, "/"); idx >= 0 {
		return ref[idx+1:]
	}
	return ref
}

func firstNonEmpty(values ...string) string {
	for _, val := range values {
		if val != "" {
			return val
		}
	}
	return ""
}
