// Package expr is the constraint vocabulary the type engine emits into:
// integer and boolean terms, symbolic arrays with select/store, and a few
// type-specific predicates. Nodes are immutable and never interpreted by
// the engine itself.
package expr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/speakeasy-api/symtypes"
)

// Expr is a node of a constraint tree.
type Expr interface {
	Op() Op
	Sort() Sort
	String() string
}

// Const is an integer or address literal.
type Const struct {
	Value int64
	sort  Sort
}

func (e *Const) Op() Op         { return OpConst }
func (e *Const) Sort() Sort     { return e.sort }
func (e *Const) String() string { return strconv.FormatInt(e.Value, 10) }

// Bool is a boolean literal. Use True and False.
type Bool struct {
	Value bool
}

var (
	True  = &Bool{Value: true}
	False = &Bool{Value: false}
)

func (e *Bool) Op() Op         { return OpBool }
func (e *Bool) Sort() Sort     { return SortBool }
func (e *Bool) String() string { return strconv.FormatBool(e.Value) }

// Var is a free symbolic constant.
type Var struct {
	Name string
	sort Sort
}

func (e *Var) Op() Op         { return OpVar }
func (e *Var) Sort() Sort     { return e.sort }
func (e *Var) String() string { return e.Name }

// Array is a named uninterpreted array.
type Array struct {
	Name   string
	Domain Sort
	Range  Sort
}

func (e *Array) Op() Op         { return OpArray }
func (e *Array) Sort() Sort     { return SortArray }
func (e *Array) String() string { return e.Name }

// ConstArray maps every index to Default.
type ConstArray struct {
	Domain  Sort
	Default Expr
}

func (e *ConstArray) Op() Op     { return OpConstArray }
func (e *ConstArray) Sort() Sort { return SortArray }
func (e *ConstArray) String() string {
	return fmt.Sprintf("(const %s %s)", e.Domain, e.Default)
}

// Select reads Array at Index.
type Select struct {
	Array Expr
	Index Expr
	rng   Sort
}

func (e *Select) Op() Op     { return OpSelect }
func (e *Select) Sort() Sort { return e.rng }
func (e *Select) String() string {
	return fmt.Sprintf("(select %s %s)", e.Array, e.Index)
}

// Store is Array with Index updated to Value.
type Store struct {
	Array Expr
	Index Expr
	Value Expr
}

func (e *Store) Op() Op     { return OpStore }
func (e *Store) Sort() Sort { return SortArray }
func (e *Store) String() string {
	return fmt.Sprintf("(store %s %s %s)", e.Array, e.Index, e.Value)
}

// Binary is an equality or an integer comparison.
type Binary struct {
	op    Op
	Left  Expr
	Right Expr
}

func (e *Binary) Op() Op     { return e.op }
func (e *Binary) Sort() Sort { return SortBool }
func (e *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", e.op, e.Left, e.Right)
}

// Not negates X.
type Not struct {
	X Expr
}

func (e *Not) Op() Op         { return OpNot }
func (e *Not) Sort() Sort     { return SortBool }
func (e *Not) String() string { return fmt.Sprintf("(not %s)", e.X) }

// Nary is a conjunction or a disjunction.
type Nary struct {
	op   Op
	Args []Expr
}

func (e *Nary) Op() Op     { return e.op }
func (e *Nary) Sort() Sort { return SortBool }
func (e *Nary) String() string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(e.op.String())
	for _, a := range e.Args {
		b.WriteByte(' ')
		b.WriteString(a.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Is states that the object at Addr has one of the types of Storage.
// BitVec is the canonical decimal encoding of the storage's type ids and
// NumberOfTypes bounds the id range.
type Is struct {
	Addr          Expr
	Storage       symtypes.TypeStorage
	BitVec        string
	NumberOfTypes int
}

func (e *Is) Op() Op     { return OpIs }
func (e *Is) Sort() Sort { return SortBool }
func (e *Is) String() string {
	return fmt.Sprintf("(is %s %s %s)", e.Addr, e.Storage.LeastCommonType(), e.BitVec)
}

// GenericParams states that the object at Addr is parameterized by one
// type drawn from each of Storages.
type GenericParams struct {
	Addr          Expr
	Storages      []symtypes.TypeStorage
	BitVecs       []string
	NumberOfTypes int
}

func (e *GenericParams) Op() Op     { return OpGenericParams }
func (e *GenericParams) Sort() Sort { return SortBool }
func (e *GenericParams) String() string {
	return fmt.Sprintf("(generic %s [%s])", e.Addr, strings.Join(e.BitVecs, " "))
}

// IsGenericType states that the object at Addr has exactly the type of
// the Index-th type parameter of the object at BaseAddr.
type IsGenericType struct {
	Addr     Expr
	BaseAddr Expr
	Index    int
}

func (e *IsGenericType) Op() Op     { return OpIsGenericType }
func (e *IsGenericType) Sort() Sort { return SortBool }
func (e *IsGenericType) String() string {
	return fmt.Sprintf("(isgeneric %s %s %d)", e.Addr, e.BaseAddr, e.Index)
}

// TermArray is a soft constraint asking the solver to prefer Array being
// Default at every index it does not have to change.
type TermArray struct {
	Array   Expr
	Default Expr
}

func (e *TermArray) Op() Op     { return OpTermArray }
func (e *TermArray) Sort() Sort { return SortBool }
func (e *TermArray) String() string {
	return fmt.Sprintf("(termarray %s %s)", e.Array, e.Default)
}

// Children returns the direct subexpressions of e in evaluation order.
func Children(e Expr) []Expr {
	switch n := e.(type) {
	case *Const, *Bool, *Var, *Array:
		return nil
	case *ConstArray:
		return []Expr{n.Default}
	case *Select:
		return []Expr{n.Array, n.Index}
	case *Store:
		return []Expr{n.Array, n.Index, n.Value}
	case *Binary:
		return []Expr{n.Left, n.Right}
	case *Not:
		return []Expr{n.X}
	case *Nary:
		return n.Args
	case *Is:
		return []Expr{n.Addr}
	case *GenericParams:
		return []Expr{n.Addr}
	case *IsGenericType:
		return []Expr{n.Addr, n.BaseAddr}
	case *TermArray:
		return []Expr{n.Array, n.Default}
	default:
		panic(fmt.Sprintf("unexpected expression %T", e))
	}
}
