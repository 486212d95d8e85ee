package expr

import (
	"fmt"

	"github.com/speakeasy-api/symtypes"
)

// Builder creates expressions for one analysis session. Named arrays are
// interned per builder, so two sessions never share symbolic state.
type Builder struct {
	arrays map[string]*Array
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{arrays: make(map[string]*Array)}
}

// Int returns an integer literal.
func (b *Builder) Int(v int64) Expr { return &Const{Value: v, sort: SortInt} }

// Addr returns a concrete address literal.
func (b *Builder) Addr(v int64) Expr { return &Const{Value: v, sort: SortAddr} }

// AddrVar returns a symbolic address.
func (b *Builder) AddrVar(name string) Expr { return &Var{Name: name, sort: SortAddr} }

// IntVar returns a symbolic integer.
func (b *Builder) IntVar(name string) Expr { return &Var{Name: name, sort: SortInt} }

// Null returns the null address.
func (b *Builder) Null() Expr { return b.Addr(symtypes.NullAddr) }

// Bool returns True or False.
func (b *Builder) Bool(v bool) Expr {
	if v {
		return True
	}
	return False
}

// Array returns the uninterpreted array called name, creating it on first use.
func (b *Builder) Array(name string, domain, rng Sort) Expr {
	if arr, ok := b.arrays[name]; ok {
		if arr.Domain != domain || arr.Range != rng {
			panic(fmt.Sprintf("array %s redeclared with sorts %s -> %s", name, domain, rng))
		}
		return arr
	}
	arr := &Array{Name: name, Domain: domain, Range: rng}
	b.arrays[name] = arr
	return arr
}

// ConstArray returns an array mapping every index of domain to def.
func (b *Builder) ConstArray(domain Sort, def Expr) Expr {
	return &ConstArray{Domain: domain, Default: def}
}

// Select reads arr at idx.
func (b *Builder) Select(arr, idx Expr) Expr {
	return &Select{Array: arr, Index: idx, rng: rangeOf(arr)}
}

// Store returns arr with idx updated to val.
func (b *Builder) Store(arr, idx, val Expr) Expr {
	return &Store{Array: arr, Index: idx, Value: val}
}

func rangeOf(arr Expr) Sort {
	switch a := arr.(type) {
	case *Array:
		return a.Range
	case *ConstArray:
		return a.Default.Sort()
	case *Store:
		return a.Value.Sort()
	default:
		panic(fmt.Sprintf("select from non-array %s", arr))
	}
}

func (b *Builder) Eq(l, r Expr) Expr { return &Binary{op: OpEq, Left: l, Right: r} }
func (b *Builder) Lt(l, r Expr) Expr { return &Binary{op: OpLt, Left: l, Right: r} }
func (b *Builder) Le(l, r Expr) Expr { return &Binary{op: OpLe, Left: l, Right: r} }
func (b *Builder) Gt(l, r Expr) Expr { return &Binary{op: OpGt, Left: l, Right: r} }
func (b *Builder) Ge(l, r Expr) Expr { return &Binary{op: OpGe, Left: l, Right: r} }

// Not negates x.
func (b *Builder) Not(x Expr) Expr { return &Not{X: x} }

// And returns the conjunction of args. No args yields True, one arg is
// returned as is.
func (b *Builder) And(args ...Expr) Expr {
	switch len(args) {
	case 0:
		return True
	case 1:
		return args[0]
	}
	return &Nary{op: OpAnd, Args: args}
}

// Or returns the disjunction of args. No args yields False.
func (b *Builder) Or(args ...Expr) Expr {
	switch len(args) {
	case 0:
		return False
	case 1:
		return args[0]
	}
	return &Nary{op: OpOr, Args: args}
}

// Implies returns (or (not cond) then).
func (b *Builder) Implies(cond, then Expr) Expr {
	return b.Or(b.Not(cond), then)
}

// Is builds a type-membership predicate.
func (b *Builder) Is(addr Expr, storage symtypes.TypeStorage, bitVec string, numberOfTypes int) Expr {
	return &Is{Addr: addr, Storage: storage, BitVec: bitVec, NumberOfTypes: numberOfTypes}
}

// GenericParams builds a type-parameter predicate.
func (b *Builder) GenericParams(addr Expr, storages []symtypes.TypeStorage, bitVecs []string, numberOfTypes int) Expr {
	return &GenericParams{Addr: addr, Storages: storages, BitVecs: bitVecs, NumberOfTypes: numberOfTypes}
}

// IsGenericType binds the type of addr to the i-th type parameter of baseAddr.
func (b *Builder) IsGenericType(addr, baseAddr Expr, i int) Expr {
	return &IsGenericType{Addr: addr, BaseAddr: baseAddr, Index: i}
}

// TermArray builds a soft default for arr.
func (b *Builder) TermArray(arr, def Expr) Expr {
	return &TermArray{Array: arr, Default: def}
}
