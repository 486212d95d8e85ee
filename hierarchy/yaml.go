package hierarchy

import (
	"fmt"
	"io"

	"github.com/speakeasy-api/symtypes"
	"gopkg.in/yaml.v3"
)

type universeDoc struct {
	Classes []classDoc `yaml:"classes"`
}

type classDoc struct {
	Name       string      `yaml:"name"`
	Super      string      `yaml:"super,omitempty"`
	Interfaces []string    `yaml:"interfaces,omitempty"`
	Modifiers  []string    `yaml:"modifiers,omitempty"`
	Fields     []fieldDoc  `yaml:"fields,omitempty"`
	Methods    []methodDoc `yaml:"methods,omitempty"`
	Mock       *mockDoc    `yaml:"mock,omitempty"`
}

type fieldDoc struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Static bool   `yaml:"static,omitempty"`
}

type methodDoc struct {
	Name            string   `yaml:"name"`
	Params          []string `yaml:"params,omitempty"`
	Returns         string   `yaml:"returns,omitempty"`
	MockConstructor bool     `yaml:"mockConstructor,omitempty"`
}

type mockDoc struct {
	Target string `yaml:"target,omitempty"`
}

// LoadYAML reads a universe snapshot.
func LoadYAML(r io.Reader) (*Universe, error) {
	var doc universeDoc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode universe: %w", err)
	}

	b := NewBuilder()
	for _, cd := range doc.Classes {
		c, err := cd.toClass()
		if err != nil {
			return nil, fmt.Errorf("class %s: %w", cd.Name, err)
		}
		b.AddClass(c)
	}
	u, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("invalid universe: %w", err)
	}
	return u, nil
}

func (cd classDoc) toClass() (Class, error) {
	c := Class{
		Name:       cd.Name,
		Super:      cd.Super,
		Interfaces: cd.Interfaces,
	}
	for _, m := range cd.Modifiers {
		mod, ok := ParseModifier(m)
		if !ok {
			return Class{}, fmt.Errorf("unknown modifier %q", m)
		}
		c.Modifiers |= mod
	}
	for _, fd := range cd.Fields {
		t, err := symtypes.ParseType(fd.Type)
		if err != nil {
			return Class{}, fmt.Errorf("field %s: %w", fd.Name, err)
		}
		c.Fields = append(c.Fields, Field{Name: fd.Name, Type: t, Static: fd.Static})
	}
	for _, md := range cd.Methods {
		m := Method{Name: md.Name, MockConstructor: md.MockConstructor}
		for _, p := range md.Params {
			t, err := symtypes.ParseType(p)
			if err != nil {
				return Class{}, fmt.Errorf("method %s: %w", md.Name, err)
			}
			m.Params = append(m.Params, t)
		}
		if md.Returns != "" && md.Returns != "void" {
			t, err := symtypes.ParseType(md.Returns)
			if err != nil {
				return Class{}, fmt.Errorf("method %s: %w", md.Name, err)
			}
			m.Returns = t
		}
		c.Methods = append(c.Methods, m)
	}
	if cd.Mock != nil {
		c.Mock = &MockAnnotation{Target: cd.Mock.Target}
	}
	return c, nil
}

// MarshalYAML writes u back in the format LoadYAML reads.
func (u *Universe) MarshalYAML() (any, error) {
	var doc universeDoc
	for c := range u.Classes() {
		cd := classDoc{Name: c.Name, Interfaces: c.Interfaces}
		if c.Super != symtypes.ObjectClassName {
			cd.Super = c.Super
		}
		for _, m := range modifierNames {
			if c.Modifiers&m.mod != 0 {
				cd.Modifiers = append(cd.Modifiers, m.name)
			}
		}
		for _, f := range c.Fields {
			cd.Fields = append(cd.Fields, fieldDoc{Name: f.Name, Type: f.Type.String(), Static: f.Static})
		}
		for _, m := range c.Methods {
			md := methodDoc{Name: m.Name, MockConstructor: m.MockConstructor}
			for _, p := range m.Params {
				md.Params = append(md.Params, p.String())
			}
			if m.Returns != nil {
				md.Returns = m.Returns.String()
			}
			cd.Methods = append(cd.Methods, md)
		}
		if c.Mock != nil {
			cd.Mock = &mockDoc{Target: c.Mock.Target}
		}
		doc.Classes = append(doc.Classes, cd)
	}
	return doc, nil
}
