package expr

import (
	"testing"

	"github.com/speakeasy-api/symtypes"
)

func TestOpStringRoundTrip(t *testing.T) {
	for op := OpNop; op <= OpTermArray; op++ {
		got, ok := ParseOp(op.String())
		if !ok || got != op {
			t.Errorf("ParseOp(%q) = %v, %v", op.String(), got, ok)
		}
	}
	if _, ok := ParseOp("bogus"); ok {
		t.Error("ParseOp should reject unknown names")
	}
}

func TestBuilderInternsArrays(t *testing.T) {
	b := NewBuilder()
	a1 := b.Array("addrToTypeId", SortAddr, SortInt)
	a2 := b.Array("addrToTypeId", SortAddr, SortInt)
	if a1 != a2 {
		t.Error("expected the same array node for the same name")
	}

	other := NewBuilder().Array("addrToTypeId", SortAddr, SortInt)
	if a1 == other {
		t.Error("builders must not share arrays")
	}
}

func TestBuilderArrayRedeclarationPanics(t *testing.T) {
	b := NewBuilder()
	b.Array("isMock", SortAddr, SortBool)
	defer func() {
		if recover() == nil {
			t.Error("expected panic on sort mismatch")
		}
	}()
	b.Array("isMock", SortAddr, SortInt)
}

func TestAndOrDegenerateArity(t *testing.T) {
	b := NewBuilder()
	if b.And() != True {
		t.Error("empty conjunction should be true")
	}
	if b.Or() != False {
		t.Error("empty disjunction should be false")
	}
	x := b.Eq(b.Int(1), b.Int(1))
	if b.And(x) != x || b.Or(x) != x {
		t.Error("single-argument and/or should return the argument")
	}
}

func TestString(t *testing.T) {
	b := NewBuilder()
	arr := b.Array("addrToTypeId", SortAddr, SortInt)
	e := b.And(
		b.Ge(b.Select(arr, b.AddrVar("p0")), b.Int(0)),
		b.Not(b.Eq(b.AddrVar("p0"), b.Null())),
	)
	want := "(and (>= (select addrToTypeId p0) 0) (not (= p0 0)))"
	if got := e.String(); got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}

func TestEvalStoreChain(t *testing.T) {
	b := NewBuilder()
	arr := b.ConstArray(SortAddr, True)
	arr = b.Store(arr, b.Addr(7), False)
	arr = b.Store(arr, b.Addr(9), True)

	tests := []struct {
		addr int64
		want bool
	}{
		{7, false},
		{9, true},
		{1, true},
	}
	for _, tt := range tests {
		got, ok := EvalBool(b.Select(arr, b.Addr(tt.addr)))
		if !ok {
			t.Fatalf("select at %d should be ground", tt.addr)
		}
		if got != tt.want {
			t.Errorf("select at %d = %v, want %v", tt.addr, got, tt.want)
		}
	}
}

func TestEvalSymbolic(t *testing.T) {
	b := NewBuilder()
	arr := b.Array("addrToNumDimensions", SortAddr, SortInt)
	if _, ok := Eval(b.Select(arr, b.Addr(1))); ok {
		t.Error("uninterpreted arrays are not ground")
	}

	sym := b.Eq(b.AddrVar("p"), b.Null())
	if v, ok := EvalBool(b.Or(sym, True)); !ok || !v {
		t.Error("a true disjunct decides the disjunction")
	}
	if v, ok := EvalBool(b.And(sym, False)); !ok || v {
		t.Error("a false conjunct decides the conjunction")
	}
	if _, ok := EvalBool(b.And(sym, True)); ok {
		t.Error("undecided conjunction must not be ground")
	}
}

func TestEvalComparisons(t *testing.T) {
	b := NewBuilder()
	tests := []struct {
		e    Expr
		want bool
	}{
		{b.Lt(b.Int(1), b.Int(2)), true},
		{b.Le(b.Int(2), b.Int(2)), true},
		{b.Gt(b.Int(1), b.Int(2)), false},
		{b.Ge(b.Int(3), b.Int(2)), true},
		{b.Implies(False, False), true},
		{b.Implies(True, False), false},
	}
	for _, tt := range tests {
		got, ok := EvalBool(tt.e)
		if !ok || got != tt.want {
			t.Errorf("EvalBool(%s) = %v, %v; want %v", tt.e, got, ok, tt.want)
		}
	}
}

func TestChildren(t *testing.T) {
	b := NewBuilder()
	addr := b.AddrVar("p")
	is := b.Is(addr, symtypes.NewSingleTypeStorage(symtypes.ObjectType), "2", 10)
	if got := Children(is); len(got) != 1 || got[0] != addr {
		t.Errorf("Children(is) = %v", got)
	}
	if got := Children(b.Int(1)); got != nil {
		t.Errorf("literals have no children, got %v", got)
	}
}
