package hierarchy

import (
	"regexp"
	"strings"

	"github.com/speakeasy-api/symtypes"
)

// Modifiers is a bit set of class modifiers.
type Modifiers uint16

const (
	ModPublic Modifiers = 1 << iota
	ModProtected
	ModPrivate
	ModAbstract
	ModInterface
	// ModArtificial marks classes synthesized by the analysis itself, such
	// as lambda implementations.
	ModArtificial
)

var modifierNames = []struct {
	mod  Modifiers
	name string
}{
	{ModPublic, "public"},
	{ModProtected, "protected"},
	{ModPrivate, "private"},
	{ModAbstract, "abstract"},
	{ModInterface, "interface"},
	{ModArtificial, "artificial"},
}

// ParseModifier returns the modifier with the given name.
func ParseModifier(name string) (Modifiers, bool) {
	for _, m := range modifierNames {
		if m.name == name {
			return m.mod, true
		}
	}
	return 0, false
}

func (m Modifiers) String() string {
	var names []string
	for _, n := range modifierNames {
		if m&n.mod != 0 {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, " ")
}

// MockAnnotation is the class-level mock marker. Target is the bytecode
// signature of the class whose methods this class substitutes, e.g.
// "Ljava/util/Random;", and may be empty.
type MockAnnotation struct {
	Target string
}

// Field is a declared field.
type Field struct {
	Name      string
	Type      symtypes.Type
	Static    bool
	Declaring string
}

// Method is a declared method. Returns is nil for void methods.
type Method struct {
	Name            string
	Params          []symtypes.Type
	Returns         symtypes.Type
	Declaring       string
	MockConstructor bool
}

// ConstructorName is the name every constructor has.
const ConstructorName = "<init>"

// IsConstructor reports whether m is a constructor.
func (m Method) IsConstructor() bool { return m.Name == ConstructorName }

func (m Method) String() string {
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		params[i] = p.String()
	}
	ret := "void"
	if m.Returns != nil {
		ret = m.Returns.String()
	}
	return m.Declaring + ": " + ret + " " + m.Name + "(" + strings.Join(params, ",") + ")"
}

// Class describes one loaded class or interface. Super is empty only for
// java.lang.Object.
type Class struct {
	Name       string
	Super      string
	Interfaces []string
	Modifiers  Modifiers
	Fields     []Field
	Methods    []Method
	Mock       *MockAnnotation
}

var (
	localRe     = regexp.MustCompile(`^.*\$\d+[\p{L}\p{M}0-9][\p{L}\p{M}0-9]*$`)
	anonymousRe = regexp.MustCompile(`^.*\$\d+$`)
	lambdaRe    = regexp.MustCompile(`^.*\$lambda_.*$`)
)

// Type returns the reference type of c.
func (c *Class) Type() symtypes.RefType { return symtypes.RefType{Name: c.Name} }

// Package returns the package part of the class name.
func (c *Class) Package() string {
	if i := strings.LastIndexByte(c.Name, '.'); i >= 0 {
		return c.Name[:i]
	}
	return ""
}

func (c *Class) IsPublic() bool     { return c.Modifiers&ModPublic != 0 }
func (c *Class) IsProtected() bool  { return c.Modifiers&ModProtected != 0 }
func (c *Class) IsPrivate() bool    { return c.Modifiers&ModPrivate != 0 }
func (c *Class) IsAbstract() bool   { return c.Modifiers&ModAbstract != 0 }
func (c *Class) IsInterface() bool  { return c.Modifiers&ModInterface != 0 }
func (c *Class) IsArtificial() bool { return c.Modifiers&ModArtificial != 0 }

// IsNested reports whether the class name contains the nesting separator.
func (c *Class) IsNested() bool { return strings.Contains(c.Name, "$") }

// IsLocal reports whether c is a named class declared inside a method body.
func (c *Class) IsLocal() bool { return localRe.MatchString(c.Name) }

// IsAnonymous reports whether c is an anonymous class.
func (c *Class) IsAnonymous() bool { return anonymousRe.MatchString(c.Name) }

// IsLambda reports whether c is an artificial lambda implementation.
func (c *Class) IsLambda() bool { return c.IsArtificial() && lambdaRe.MatchString(c.Name) }

// IsInappropriate reports whether c can not be instantiated directly:
// interfaces, abstract and local classes and mock classes.
func (c *Class) IsInappropriate() bool {
	return c.IsAbstract() || c.IsInterface() || c.IsLocal() || c.Mock != nil
}

// IsAppropriate is the negation of IsInappropriate.
func (c *Class) IsAppropriate() bool { return !c.IsInappropriate() }

// MethodsNamed returns the declared methods called name.
func (c *Class) MethodsNamed(name string) []Method {
	var out []Method
	for _, m := range c.Methods {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}

// SupertypeOfAnonymous returns the type an anonymous class is written as
// in source: its only interface, or its superclass when it implements none.
// It panics when c is not anonymous or reports more than one interface.
func SupertypeOfAnonymous(c *Class) string {
	if !c.IsAnonymous() {
		panic("SupertypeOfAnonymous called on non-anonymous class " + c.Name)
	}
	switch len(c.Interfaces) {
	case 0:
		return c.Super
	case 1:
		return c.Interfaces[0]
	default:
		panic("anonymous class " + c.Name + " has more than one interface: " + strings.Join(c.Interfaces, ", "))
	}
}

// ClassNameFromSignature converts a bytecode class signature such as
// "Ljava/util/Map$Entry;" into a dotted name ("java.util.Map.Entry").
// The second result is false for an empty or malformed signature.
func ClassNameFromSignature(sig string) (string, bool) {
	if len(sig) < 3 {
		return "", false
	}
	name := strings.NewReplacer("/", ".", "$", ".").Replace(sig)
	return name[1 : len(name)-1], true
}
