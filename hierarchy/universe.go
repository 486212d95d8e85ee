// Package hierarchy provides the class universe the type engine reasons
// over: which classes exist, how they relate, and what they declare.
package hierarchy

import (
	"fmt"
	"iter"

	"github.com/speakeasy-api/openapi/sequencedmap"
	"github.com/speakeasy-api/symtypes"
)

// Provider answers hierarchy queries against one class universe. All
// methods must be safe to call repeatedly and return the same answers for
// the lifetime of the provider.
type Provider interface {
	// Len returns the number of loaded classes.
	Len() int
	// Class looks a class up by its dotted name.
	Class(name string) (*Class, bool)
	// Classes iterates over all classes in load order.
	Classes() iter.Seq[*Class]
	// AncestorsOf returns the named class and all its transitive
	// superclasses and interfaces, the class itself first.
	AncestorsOf(name string) ([]*Class, error)
	// InheritorsOf returns the named class and every class that has it as
	// an ancestor, the class itself first.
	InheritorsOf(name string) ([]*Class, error)
	// FieldsOf returns the fields declared by the named class.
	FieldsOf(name string) ([]Field, error)
}

// ClassNotFoundError is returned when a class name is not part of the universe.
type ClassNotFoundError struct {
	Name string
}

func (e *ClassNotFoundError) Error() string {
	return fmt.Sprintf("class not found: %s", e.Name)
}

// NewClassNotFoundError returns a ClassNotFoundError for name.
func NewClassNotFoundError(name string) *ClassNotFoundError {
	return &ClassNotFoundError{Name: name}
}

// Universe is an immutable snapshot of loaded classes. Build one with a
// Builder or LoadYAML.
type Universe struct {
	classes *sequencedmap.Map[string, *Class]
	// direct subclasses and implementors, in load order
	children map[string][]string
}

var _ Provider = (*Universe)(nil)

func (u *Universe) Len() int { return u.classes.Len() }

func (u *Universe) Class(name string) (*Class, bool) {
	return u.classes.Get(name)
}

func (u *Universe) Classes() iter.Seq[*Class] {
	return func(yield func(*Class) bool) {
		for _, c := range u.classes.All() {
			if !yield(c) {
				return
			}
		}
	}
}

// Types returns the reference types of all classes in load order.
func (u *Universe) Types() []symtypes.Type {
	out := make([]symtypes.Type, 0, u.Len())
	for c := range u.Classes() {
		out = append(out, c.Type())
	}
	return out
}

func (u *Universe) AncestorsOf(name string) ([]*Class, error) {
	return u.walk(name, func(c *Class) []string {
		parents := make([]string, 0, len(c.Interfaces)+1)
		if c.Super != "" {
			parents = append(parents, c.Super)
		}
		return append(parents, c.Interfaces...)
	})
}

func (u *Universe) InheritorsOf(name string) ([]*Class, error) {
	return u.walk(name, func(c *Class) []string {
		return u.children[c.Name]
	})
}

// walk collects name and everything reachable from it through next,
// breadth first.
func (u *Universe) walk(name string, next func(*Class) []string) ([]*Class, error) {
	start, ok := u.classes.Get(name)
	if !ok {
		return nil, NewClassNotFoundError(name)
	}
	seen := map[string]bool{name: true}
	out := []*Class{start}
	for i := 0; i < len(out); i++ {
		for _, n := range next(out[i]) {
			if seen[n] {
				continue
			}
			seen[n] = true
			// validated at build time
			c, _ := u.classes.Get(n)
			out = append(out, c)
		}
	}
	return out, nil
}

func (u *Universe) FieldsOf(name string) ([]Field, error) {
	c, ok := u.classes.Get(name)
	if !ok {
		return nil, NewClassNotFoundError(name)
	}
	return c.Fields, nil
}
