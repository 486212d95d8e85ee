// Package typeinspect runs resolver queries against a class universe and
// reports the results.
package typeinspect

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-set/v3"
	"github.com/speakeasy-api/symtypes"
	"github.com/speakeasy-api/symtypes/engine"
	"github.com/speakeasy-api/symtypes/hierarchy"
	"github.com/speakeasy-api/symtypes/pkg/exprfmt"
)

var constraintFormat = exprfmt.Config{Ops: []string{"and", "or"}}

// Result is the answer to one query.
type Result struct {
	Query      string   `yaml:"query"`
	Types      []string `yaml:"types"`
	BitVec     string   `yaml:"bitVec,omitempty"`
	Constraint string   `yaml:"constraint,omitempty"`
	Warnings   []string `yaml:"warnings,omitempty"`
	Error      string   `yaml:"error,omitempty"`
}

// Report collects the results of a query file run against one universe.
type Report struct {
	Source        string   `yaml:"source,omitempty"`
	Classes       int      `yaml:"classes"`
	NumberOfTypes int      `yaml:"numberOfTypes"`
	Results       []Result `yaml:"results"`
}

// Failed reports whether any query produced an error.
func (r *Report) Failed() bool {
	for _, res := range r.Results {
		if res.Error != "" {
			return true
		}
	}
	return false
}

// Inspect loads a universe and a query file and runs every query in a
// fresh session.
func Inspect(universeYAML, queriesYAML string, opts ...engine.Options) (*Report, error) {
	s, err := engine.LoadSession(strings.NewReader(universeYAML), opts...)
	if err != nil {
		return nil, err
	}
	queries, err := LoadQueries(strings.NewReader(queriesYAML))
	if err != nil {
		return nil, err
	}
	return Run(s, queries), nil
}

// Run answers queries with s. Failed queries are reported in their Result.
func Run(s *engine.Session, queries []Query) *Report {
	report := &Report{
		Classes:       s.Provider().Len(),
		NumberOfTypes: s.Registry().NumberOfTypes(),
		Results:       make([]Result, 0, len(queries)),
	}
	for _, q := range queries {
		report.Results = append(report.Results, run(s, q))
	}
	return report
}

func run(s *engine.Session, q Query) Result {
	res := Result{Query: q.String(), Types: []string{}}
	types := make([]symtypes.Type, len(q.Types))
	for i, name := range q.Types {
		t, err := symtypes.ParseType(name)
		if err != nil {
			res.Error = err.Error()
			return res
		}
		types[i] = t
		if ref, ok := symtypes.BaseType(t).(symtypes.RefType); ok {
			if _, known := s.Provider().Class(ref.Name); !known {
				res.Warnings = append(res.Warnings, hierarchy.NewClassNotFoundError(ref.Name).Error())
			}
		}
	}

	reg, resolver := s.Registry(), s.Resolver()
	switch q.Kind {
	case Storage:
		storage := resolver.ConstructTypeStorageForType(types[0], q.Exact)
		res.Types = names(storage.PossibleConcreteTypes())
		res.BitVec = reg.ConstructBitVecString(storage.PossibleConcreteTypes())
		if q.Constraint {
			c := reg.TypeConstraint(s.Builder().AddrVar("addr"), storage).All()
			text, err := exprfmt.Format(c, constraintFormat)
			if err != nil {
				res.Error = err.Error()
				return res
			}
			res.Constraint = text
		}
	case Inheritors:
		res.Types = refNames(resolver.IntersectInheritors(q.Types))
	case Ancestors:
		res.Types = refNames(resolver.IntersectAncestors(q.Types))
	case TopRated:
		res.Types = names(resolver.FindTopRatedTypes(types, q.Take))
	case Concrete:
		evaluated, fallback := types[0].(symtypes.RefType), types[1].(symtypes.RefType)
		t, ok := resolver.FindAnyConcreteInheritorIncludingOrDefault(evaluated, fallback)
		if !ok {
			res.Error = (&engine.NoConcreteTypeError{Evaluated: evaluated, Default: fallback}).Error()
			return res
		}
		res.Types = []string{t.Name}
	case BitVec:
		res.Types = names(symtypes.SortTypes(types))
		res.BitVec = reg.ConstructBitVecString(types)
	default:
		res.Error = fmt.Sprintf("unknown query kind %q", q.Kind)
	}
	return res
}

func names(types []symtypes.Type) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}

func refNames(s *set.Set[symtypes.RefType]) []string {
	types := make([]symtypes.Type, 0, s.Size())
	for _, r := range s.Slice() {
		types = append(types, r)
	}
	return names(symtypes.SortTypes(types))
}
