package symtypes

import (
	"fmt"
	"strings"
)

// Type is a closed sum of the type shapes the engine reasons about:
// PrimType, RefType and ArrayType. Values are comparable and can be used
// as map keys; two types are the same type iff they compare equal.
type Type interface {
	String() string
	isType()
}

// PrimKind enumerates the eight JVM primitive kinds.
type PrimKind uint8

const (
	Byte PrimKind = iota + 1
	Short
	Int
	Long
	Float
	Double
	Boolean
	Char
)

// NumPrimKinds is the number of primitive kinds.
const NumPrimKinds = 8

func (k PrimKind) String() string {
	switch k {
	case Byte:
		return "byte"
	case Short:
		return "short"
	case Int:
		return "int"
	case Long:
		return "long"
	case Float:
		return "float"
	case Double:
		return "double"
	case Boolean:
		return "boolean"
	case Char:
		return "char"
	default:
		return fmt.Sprintf("prim(%d)", uint8(k))
	}
}

// PrimType is a primitive type.
type PrimType struct {
	Kind PrimKind
}

func (t PrimType) String() string { return t.Kind.String() }
func (PrimType) isType()          {}

// RefType is a named class, interface or enum type.
type RefType struct {
	Name string
}

func (t RefType) String() string { return t.Name }
func (RefType) isType()          {}

// ArrayType is an array of Base with Dims >= 1 dimensions. Base is never
// itself an ArrayType; use MakeArray to build normalized values.
type ArrayType struct {
	Base Type
	Dims int
}

func (t ArrayType) String() string {
	return t.Base.String() + strings.Repeat("[]", t.Dims)
}
func (ArrayType) isType() {}

// Frequently used types.
var (
	ObjectType   = RefType{Name: ObjectClassName}
	ClassRefType = RefType{Name: ClassRefClassName}
)

const (
	ObjectClassName   = "java.lang.Object"
	ClassRefClassName = "java.lang.Class"
)

// PrimTypes returns all primitive types in a fixed order.
func PrimTypes() []Type {
	return []Type{
		PrimType{Byte},
		PrimType{Short},
		PrimType{Int},
		PrimType{Long},
		PrimType{Float},
		PrimType{Double},
		PrimType{Boolean},
		PrimType{Char},
	}
}

// MakeArray wraps t into an array with dims additional dimensions.
// Arrays of arrays are flattened into a single ArrayType and dims == 0
// returns t unchanged.
func MakeArray(t Type, dims int) Type {
	if dims < 0 {
		panic(fmt.Sprintf("negative number of dimensions %d for %s", dims, t))
	}
	if dims == 0 {
		return t
	}
	if arr, ok := t.(ArrayType); ok {
		return ArrayType{Base: arr.Base, Dims: arr.Dims + dims}
	}
	return ArrayType{Base: t, Dims: dims}
}

// BaseType returns the element type of an array, or t itself.
func BaseType(t Type) Type {
	if arr, ok := t.(ArrayType); ok {
		return arr.Base
	}
	return t
}

// NumDimensions returns the number of array dimensions of t (0 for non-arrays).
func NumDimensions(t Type) int {
	if arr, ok := t.(ArrayType); ok {
		return arr.Dims
	}
	return 0
}

// IsObject reports whether t is java.lang.Object.
func IsObject(t Type) bool {
	return t == Type(ObjectType)
}

var primByName = map[string]PrimKind{
	"byte":    Byte,
	"short":   Short,
	"int":     Int,
	"long":    Long,
	"float":   Float,
	"double":  Double,
	"boolean": Boolean,
	"char":    Char,
}

// ParseType parses a source-style type name such as "int", "java.util.List"
// or "java.lang.String[][]". Generic arguments ("java.util.List<T>") are
// erased to the raw type.
func ParseType(s string) (Type, error) {
	name := strings.TrimSpace(s)
	dims := 0
	for strings.HasSuffix(name, "[]") {
		name = strings.TrimSpace(strings.TrimSuffix(name, "[]"))
		dims++
	}
	name = RawTypeName(name)
	if name == "" {
		return nil, fmt.Errorf("invalid type name %q", s)
	}
	if strings.ContainsAny(name, " \t[]<>") {
		return nil, fmt.Errorf("invalid type name %q", s)
	}

	var base Type
	if kind, ok := primByName[name]; ok {
		base = PrimType{Kind: kind}
	} else {
		base = RefType{Name: name}
	}
	return MakeArray(base, dims), nil
}

// MustParseType is like ParseType but panics on malformed input.
func MustParseType(s string) Type {
	t, err := ParseType(s)
	if err != nil {
		panic(err)
	}
	return t
}

// RawTypeName strips generic arguments from a type name.
func RawTypeName(name string) string {
	if i := strings.IndexByte(name, '<'); i >= 0 {
		return strings.TrimSpace(name[:i])
	}
	return strings.TrimSpace(name)
}
