// Package nested resolves the entity actually being edited when an attribute
// lives on a record reached through associations of a root entity.
package nested

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/goliatone/go-editable/pkg/entity"
	"github.com/goliatone/go-editable/pkg/schema"
	"github.com/goliatone/go-editable/pkg/value"
)

// Hop is one association step. ID selects the child of a to-many
// association and is ignored for to-one associations.
type Hop struct {
	Association string
	ID          any
}

// Path is an ordered walk from a root entity to the edited entity.
type Path struct {
	Hops []Hop
	// Raw is the shape the caller supplied, echoed into element metadata.
	Raw any
}

// Empty reports whether the path has no hops.
func (p Path) Empty() bool {
	return len(p.Hops) == 0
}

// Last returns the final hop.
func (p Path) Last() Hop {
	if len(p.Hops) == 0 {
		return Hop{}
	}
	return p.Hops[len(p.Hops)-1]
}

// Relations looks up association metadata by class.
type Relations interface {
	Relation(class, association string) (schema.Relation, bool)
}

// Target is the outcome of resolving a path.
type Target struct {
	Entity entity.Entity
	// Class is the class the last association points to, used for labels.
	Class string
}

// ResolutionError reports a hop that could not be followed.
type ResolutionError struct {
	Hop         int
	Association string
	ID          any
	Reason      string
}

func (e *ResolutionError) Error() string {
	if e.Association == "" {
		return fmt.Sprintf("nested: %s", e.Reason)
	}
	return fmt.Sprintf("nested: hop %d (%s=%v): %s", e.Hop, e.Association, e.ID, e.Reason)
}

// Parse accepts a single {association: id} mapping, a list of such mappings
// or a Path. Each mapping must name exactly one association.
func Parse(raw any) (Path, error) {
	switch typed := raw.(type) {
	case nil:
		return Path{}, nil
	case Path:
		return typed, nil
	case []Hop:
		return Path{Hops: append([]Hop(nil), typed...), Raw: raw}, nil
	}

	if mapping, ok := asMapping(raw); ok {
		hop, err := parseHop(mapping, 0)
		if err != nil {
			return Path{}, err
		}
		return Path{Hops: []Hop{hop}, Raw: raw}, nil
	}
	if !value.IsSequence(raw) {
		return Path{}, &ResolutionError{Reason: fmt.Sprintf("unsupported path shape %T", raw)}
	}

	items := value.Wrap(raw)
	hops := make([]Hop, 0, len(items))
	for i, item := range items {
		mapping, ok := asMapping(item)
		if !ok {
			return Path{}, &ResolutionError{Hop: i, Reason: fmt.Sprintf("hop %d must be a mapping, got %T", i, item)}
		}
		hop, err := parseHop(mapping, i)
		if err != nil {
			return Path{}, err
		}
		hops = append(hops, hop)
	}
	return Path{Hops: hops, Raw: raw}, nil
}

// asMapping accepts any map keyed by a string kind.
func asMapping(raw any) (map[string]any, bool) {
	if typed, ok := raw.(map[string]any); ok {
		return typed, true
	}
	rv := reflect.ValueOf(value.Indirect(raw))
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

func parseHop(mapping map[string]any, index int) (Hop, error) {
	if len(mapping) != 1 {
		keys := make([]string, 0, len(mapping))
		for key := range mapping {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		return Hop{}, &ResolutionError{
			Hop:    index,
			Reason: fmt.Sprintf("hop %d must name exactly one association, got [%s]", index, strings.Join(keys, ", ")),
		}
	}
	for assoc, id := range mapping {
		return Hop{Association: strings.TrimSpace(assoc), ID: id}, nil
	}
	return Hop{}, nil
}

// Resolve walks path from root. To-one hops dereference the association,
// to-many hops select the child whose identifier serializes like the hop ID.
func Resolve(root entity.Entity, path Path, relations Relations) (Target, error) {
	if root == nil {
		return Target{}, &ResolutionError{Reason: "root entity is nil"}
	}
	current := root
	class := root.Class()

	for i, hop := range path.Hops {
		fail := func(reason string) error {
			return &ResolutionError{Hop: i, Association: hop.Association, ID: hop.ID, Reason: reason}
		}

		rel, ok := relations.Relation(current.Class(), hop.Association)
		if !ok {
			return Target{}, fail(fmt.Sprintf("%s declares no such association", current.Class()))
		}

		switch rel.Kind {
		case schema.RelationToOne:
			next, ok := current.One(hop.Association)
			if !ok || next == nil {
				return Target{}, fail("association is empty")
			}
			current = next
		case schema.RelationToMany:
			next, ok := findChild(current.Many(hop.Association), hop.ID)
			if !ok {
				return Target{}, fail("no child with matching id")
			}
			current = next
		default:
			return Target{}, fail("relation kind is " + rel.Kind.String())
		}

		class = rel.Target
		if class == "" {
			class = current.Class()
		}
	}

	return Target{Entity: current, Class: class}, nil
}

func findChild(children []entity.Entity, id any) (entity.Entity, bool) {
	want := value.Serialize(id)
	for _, child := range children {
		if child != nil && value.Serialize(child.ID()) == want {
			return child, true
		}
	}
	return nil, false
}
