package engine

import (
	"fmt"

	"github.com/speakeasy-api/symtypes"
	"github.com/speakeasy-api/symtypes/expr"
)

// ValueKind classifies reference values.
type ValueKind uint8

const (
	VObject ValueKind = iota
	VArray
)

// ReferenceValue is a symbolic reference: an address plus the storage of
// types the referenced object may have.
type ReferenceValue interface {
	Kind() ValueKind
	Addr() expr.Expr
	TypeStorage() symtypes.TypeStorage
	// Type is the least common type of the storage.
	Type() symtypes.Type
}

// ObjectValue is a reference to a non-array object. Wrapper is set when the
// object is modeled by a wrapper implementation.
type ObjectValue struct {
	storage symtypes.TypeStorage
	addr    expr.Expr
	Wrapper *Wrapper
}

// NewObjectValue returns an object value.
func NewObjectValue(storage symtypes.TypeStorage, addr expr.Expr) *ObjectValue {
	return &ObjectValue{storage: storage, addr: addr}
}

func (v *ObjectValue) Kind() ValueKind                   { return VObject }
func (v *ObjectValue) Addr() expr.Expr                   { return v.addr }
func (v *ObjectValue) TypeStorage() symtypes.TypeStorage { return v.storage }
func (v *ObjectValue) Type() symtypes.Type               { return v.storage.LeastCommonType() }

// PossibleConcreteTypes returns the concrete types of the storage.
func (v *ObjectValue) PossibleConcreteTypes() []symtypes.Type {
	return v.storage.PossibleConcreteTypes()
}

// WithTypeStorage returns a copy of v with another storage.
func (v *ObjectValue) WithTypeStorage(storage symtypes.TypeStorage) *ObjectValue {
	cp := *v
	cp.storage = storage
	return &cp
}

func (v *ObjectValue) String() string {
	if v.Wrapper != nil {
		return fmt.Sprintf("ObjectValue(%s, %s, wrapper=%s)", v.storage, v.addr, v.Wrapper.Kind)
	}
	return fmt.Sprintf("ObjectValue(%s, %s)", v.storage, v.addr)
}

// ArrayValue is a reference to an array.
type ArrayValue struct {
	storage symtypes.TypeStorage
	addr    expr.Expr
}

// NewArrayValue returns an array value. The storage's least common type
// must be an array type.
func NewArrayValue(storage symtypes.TypeStorage, addr expr.Expr) *ArrayValue {
	if _, ok := storage.LeastCommonType().(symtypes.ArrayType); !ok {
		panic(fmt.Sprintf("array value with non-array type %s", storage.LeastCommonType()))
	}
	return &ArrayValue{storage: storage, addr: addr}
}

func (v *ArrayValue) Kind() ValueKind                   { return VArray }
func (v *ArrayValue) Addr() expr.Expr                   { return v.addr }
func (v *ArrayValue) TypeStorage() symtypes.TypeStorage { return v.storage }
func (v *ArrayValue) Type() symtypes.Type               { return v.storage.LeastCommonType() }

// ArrayType returns the declared array type.
func (v *ArrayValue) ArrayType() symtypes.ArrayType {
	return v.storage.LeastCommonType().(symtypes.ArrayType)
}

// WithTypeStorage returns a copy of v with another storage.
func (v *ArrayValue) WithTypeStorage(storage symtypes.TypeStorage) *ArrayValue {
	return NewArrayValue(storage, v.addr)
}

func (v *ArrayValue) String() string {
	return fmt.Sprintf("ArrayValue(%s, %s)", v.storage, v.addr)
}

// AsObject returns v as an object value.
func AsObject(v ReferenceValue) (*ObjectValue, bool) {
	o, ok := v.(*ObjectValue)
	return o, ok
}

// AsArray returns v as an array value.
func AsArray(v ReferenceValue) (*ArrayValue, bool) {
	a, ok := v.(*ArrayValue)
	return a, ok
}
