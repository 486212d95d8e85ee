package hierarchy

import (
	"fmt"
	"slices"

	"github.com/speakeasy-api/openapi/sequencedmap"
	"github.com/speakeasy-api/symtypes"
)

// Builder collects classes and validates them into a Universe.
type Builder struct {
	classes []Class
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddClass queues c. Classes without a superclass extend java.lang.Object.
func (b *Builder) AddClass(c Class) *Builder {
	b.classes = append(b.classes, c)
	return b
}

// Build validates the queued classes and returns the universe. Duplicate
// names, references to unknown classes and inheritance cycles are errors.
// java.lang.Object and java.lang.Class are added when missing.
func (b *Builder) Build() (*Universe, error) {
	table := sequencedmap.New[string, *Class]()
	declared := func(name string) bool {
		return slices.ContainsFunc(b.classes, func(c Class) bool { return c.Name == name })
	}
	if !declared(symtypes.ObjectClassName) {
		table.Set(symtypes.ObjectClassName, &Class{Name: symtypes.ObjectClassName, Modifiers: ModPublic})
	}

	for i := range b.classes {
		c := b.classes[i]
		if c.Name == "" {
			return nil, fmt.Errorf("class #%d has no name", i)
		}
		if _, dup := table.Get(c.Name); dup {
			return nil, fmt.Errorf("duplicate class %s", c.Name)
		}
		if c.Name == symtypes.ObjectClassName {
			c.Super = ""
		} else if c.Super == "" {
			c.Super = symtypes.ObjectClassName
		}
		c.Interfaces = slices.Clone(c.Interfaces)
		c.Fields = slices.Clone(c.Fields)
		for j := range c.Fields {
			c.Fields[j].Declaring = c.Name
		}
		c.Methods = slices.Clone(c.Methods)
		for j := range c.Methods {
			c.Methods[j].Declaring = c.Name
		}
		table.Set(c.Name, &c)
	}
	if !declared(symtypes.ClassRefClassName) {
		table.Set(symtypes.ClassRefClassName, &Class{
			Name:      symtypes.ClassRefClassName,
			Super:     symtypes.ObjectClassName,
			Modifiers: ModPublic,
		})
	}

	children := make(map[string][]string, table.Len())
	for _, c := range table.All() {
		parents := c.Interfaces
		if c.Super != "" {
			parents = append([]string{c.Super}, parents...)
		}
		for _, p := range parents {
			if _, ok := table.Get(p); !ok {
				return nil, fmt.Errorf("class %s: %w", c.Name, NewClassNotFoundError(p))
			}
			children[p] = append(children[p], c.Name)
		}
	}

	if err := checkCycles(table); err != nil {
		return nil, err
	}
	return &Universe{classes: table, children: children}, nil
}

func checkCycles(table *sequencedmap.Map[string, *Class]) error {
	const (
		visiting = 1
		done     = 2
	)
	state := make(map[string]int, table.Len())
	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case visiting:
			return fmt.Errorf("inheritance cycle through %s", name)
		case done:
			return nil
		}
		state[name] = visiting
		c, _ := table.Get(name)
		if c.Super != "" {
			if err := visit(c.Super); err != nil {
				return err
			}
		}
		for _, i := range c.Interfaces {
			if err := visit(i); err != nil {
				return err
			}
		}
		state[name] = done
		return nil
	}
	for name := range table.All() {
		if err := visit(name); err != nil {
			return err
		}
	}
	return nil
}
