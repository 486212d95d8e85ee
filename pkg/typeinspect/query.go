package typeinspect

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/speakeasy-api/symtypes"
	"gopkg.in/yaml.v3"
)

// QueryKind names the resolver operation a query runs.
type QueryKind string

const (
	Storage    QueryKind = "storage"    // ConstructTypeStorageForType
	Inheritors QueryKind = "inheritors" // IntersectInheritors
	Ancestors  QueryKind = "ancestors"  // IntersectAncestors
	TopRated   QueryKind = "topRated"   // FindTopRatedTypes
	Concrete   QueryKind = "concrete"   // FindAnyConcreteInheritorIncludingOrDefault
	BitVec     QueryKind = "bitVec"     // ConstructBitVecString
)

var queryKinds = []QueryKind{Storage, Inheritors, Ancestors, TopRated, Concrete, BitVec}

// Query is one resolver question read from a query file.
type Query struct {
	Kind  QueryKind
	Types []string
	// Exact asks a storage query for the declared type alone.
	Exact bool
	// Constraint asks a storage query for its type constraint.
	Constraint bool
	// Take limits topRated results; negative means all.
	Take int
}

func (q Query) String() string {
	s := string(q.Kind) + " " + strings.Join(q.Types, ",")
	if q.Exact {
		s += " (exact)"
	}
	if q.Constraint {
		s += " (constraint)"
	}
	if q.Kind == TopRated && q.Take >= 0 {
		s += fmt.Sprintf(" take %d", q.Take)
	}
	return s
}

// LoadQueries reads a query file:
//
//	queries:
//	  - storage: zoo.Animal
//	  - inheritors: [zoo.Pet, zoo.Animal]
//	  - topRated: [java.io.File, int]
//	    take: 1
func LoadQueries(r io.Reader) ([]Query, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to decode queries: %w", err)
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("query file must be an object")
	}

	root := doc.Content[0]
	var list *yaml.Node
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == "queries" {
			list = root.Content[i+1]
			break
		}
	}
	if list == nil {
		return nil, fmt.Errorf("query file requires 'queries' key")
	}
	if list.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("'queries' must be a list")
	}

	queries := make([]Query, 0, len(list.Content))
	for i, n := range list.Content {
		q, err := ParseQuery(n)
		if err != nil {
			return nil, fmt.Errorf("queries[%d]: %w", i, err)
		}
		queries = append(queries, *q)
	}
	return queries, nil
}

// ParseQuery parses a single query mapping.
func ParseQuery(node *yaml.Node) (*Query, error) {
	// Check YAML node is a mapping (object)
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("query must be an object")
	}

	q := &Query{Take: -1}
	found := false

	// YAML MappingNode stores content as alternating key/value pairs
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]

		switch kind := QueryKind(key.Value); {
		case slices.Contains(queryKinds, kind):
			if found {
				return nil, fmt.Errorf("query has both %s and %s", q.Kind, kind)
			}
			types, err := typeNames(kind, value)
			if err != nil {
				return nil, err
			}
			q.Kind, q.Types, found = kind, types, true
		case key.Value == "exact":
			if err := value.Decode(&q.Exact); err != nil {
				return nil, fmt.Errorf("'exact' must be a boolean")
			}
		case key.Value == "constraint":
			if err := value.Decode(&q.Constraint); err != nil {
				return nil, fmt.Errorf("'constraint' must be a boolean")
			}
		case key.Value == "take":
			if err := value.Decode(&q.Take); err != nil {
				return nil, fmt.Errorf("'take' must be an integer")
			}
		default:
			return nil, fmt.Errorf("unknown query key %q", key.Value)
		}
	}

	if !found {
		return nil, fmt.Errorf("query requires one of %s", kindList())
	}
	return q, q.validate()
}

func typeNames(kind QueryKind, node *yaml.Node) ([]string, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return []string{strings.TrimSpace(node.Value)}, nil
	case yaml.SequenceNode:
		names := make([]string, 0, len(node.Content))
		for _, n := range node.Content {
			if n.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("'%s' value must be a type name or a list of type names", kind)
			}
			names = append(names, strings.TrimSpace(n.Value))
		}
		return names, nil
	default:
		return nil, fmt.Errorf("'%s' value must be a type name or a list of type names", kind)
	}
}

func (q *Query) validate() error {
	for _, name := range q.Types {
		if _, err := symtypes.ParseType(name); err != nil {
			return fmt.Errorf("%s: '%s' is an invalid type: %w", q.Kind, name, err)
		}
	}

	switch q.Kind {
	case Storage:
		if len(q.Types) != 1 {
			return fmt.Errorf("storage requires exactly one type")
		}
	case Concrete:
		if len(q.Types) != 2 {
			return fmt.Errorf("concrete requires a type and a default type")
		}
		for _, name := range q.Types {
			if t, _ := symtypes.ParseType(name); !isRef(t) {
				return fmt.Errorf("concrete: '%s' is not a class type", name)
			}
		}
	case Inheritors, Ancestors, TopRated, BitVec:
		if len(q.Types) == 0 {
			return fmt.Errorf("%s requires at least one type", q.Kind)
		}
	}
	if (q.Exact || q.Constraint) && q.Kind != Storage {
		return fmt.Errorf("'exact' and 'constraint' only apply to storage queries")
	}
	return nil
}

func isRef(t symtypes.Type) bool {
	_, ok := t.(symtypes.RefType)
	return ok
}

func kindList() string {
	names := make([]string, len(queryKinds))
	for i, k := range queryKinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
