package schema

import "strings"

// Type is the storage type of an attribute as declared by the schema.
type Type string

const (
	TypeBoolean Type = "boolean"
	TypeString  Type = "string"
	TypeNumeric Type = "numeric"
	TypeOther   Type = "other"
)

// ParseType maps column and JSON Schema spellings onto a Type. Unknown
// spellings resolve to TypeOther.
func ParseType(raw string) Type {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "boolean", "bool":
		return TypeBoolean
	case "string", "varchar":
		return TypeString
	case "numeric", "number", "integer", "int", "float", "decimal", "double":
		return TypeNumeric
	default:
		return TypeOther
	}
}

// RelationKind identifies how an association is dereferenced while walking a
// nested path.
type RelationKind int

const (
	RelationUnknown RelationKind = iota
	RelationToOne
	RelationToMany
)

func (k RelationKind) String() string {
	switch k {
	case RelationToOne:
		return "to-one"
	case RelationToMany:
		return "to-many"
	default:
		return "unknown"
	}
}

// ParseRelationKind accepts hasOne/belongsTo/hasMany spellings in any case,
// with or without separators.
func ParseRelationKind(raw string) RelationKind {
	switch compactKey(raw) {
	case "hasone", "belongsto", "toone", "one":
		return RelationToOne
	case "hasmany", "tomany", "many":
		return RelationToMany
	default:
		return RelationUnknown
	}
}

// Relation describes an association declared on a class.
type Relation struct {
	Kind   RelationKind
	Target string
}

// Attribute describes a single declared attribute.
type Attribute struct {
	Name  string
	Type  Type
	Label string
}

// Class groups the attributes and associations of an entity class.
type Class struct {
	Name       string
	ModelName  string
	Attributes map[string]Attribute
	Relations  map[string]Relation
}

func compactKey(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(raw) {
		switch r {
		case '_', '-', ' ', '\t':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
