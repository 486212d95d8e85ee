package engine

import (
	"math/big"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/speakeasy-api/symtypes"
	"github.com/speakeasy-api/symtypes/expr"
	"github.com/speakeasy-api/symtypes/hierarchy"
)

func TestTypeIDs(t *testing.T) {
	reg := newZooSession(t).Registry()

	intID := reg.FindTypeID(intType)
	longID := reg.FindTypeID(longType)
	if intID != 1 || longID != 2 {
		t.Fatalf("ids = %d, %d, want 1, 2", intID, longID)
	}
	if got := reg.FindTypeID(intType); got != intID {
		t.Errorf("FindTypeID(int) again = %d, want %d", got, intID)
	}

	// ids are never reused, whatever order types are first seen in
	seen := map[int]symtypes.Type{}
	for _, ty := range []symtypes.Type{dogType, catType, intType, symtypes.MakeArray(dogType, 1), dogType} {
		id := reg.FindTypeID(ty)
		if id < symtypes.TypeCounterInitialValue {
			t.Errorf("id of %s = %d, below the first id", ty, id)
		}
		if prev, ok := seen[id]; ok && prev != ty {
			t.Errorf("id %d bound to both %s and %s", id, prev, ty)
		}
		seen[id] = ty
		back, ok := reg.TypeByIDOrNull(id)
		if !ok || back != ty {
			t.Errorf("TypeByIDOrNull(%d) = %v, %v, want %s", id, back, ok, ty)
		}
	}
	if _, ok := reg.TypeByIDOrNull(9999); ok {
		t.Error("TypeByIDOrNull(9999) found a type")
	}
	if _, ok := reg.TypeByIDOrNull(symtypes.EmptyTypeID); ok {
		t.Error("the empty type id is bound to a type")
	}
}

func TestNumberOfTypes(t *testing.T) {
	s := newZooSession(t)
	want := s.Provider().Len() + symtypes.NumPrimKinds + 1
	if got := s.Registry().NumberOfTypes(); got != want {
		t.Errorf("NumberOfTypes() = %d, want %d", got, want)
	}
	if got := s.Registry().ObjectTypeStorage().Len(); got != s.Provider().Len() {
		t.Errorf("ObjectTypeStorage().Len() = %d, want %d", got, s.Provider().Len())
	}
}

func TestConstructBitVecString(t *testing.T) {
	reg := newZooSession(t).Registry()

	dog := reg.ConstructBitVecString([]symtypes.Type{dogType})
	if got := strings.TrimLeft(dog, "0"); got != "2" {
		t.Errorf("bit vector of the first id = %q, want 2", got)
	}

	a := reg.ConstructBitVecString([]symtypes.Type{dogType, catType})
	b := reg.ConstructBitVecString([]symtypes.Type{catType, dogType, catType})
	if a != b {
		t.Errorf("order and duplicates changed the encoding: %q vs %q", a, b)
	}
	c := reg.ConstructBitVecString([]symtypes.Type{symtypes.MakeArray(dogType, 2), catType})
	if a != c {
		t.Errorf("arrays must encode their base type: %q vs %q", a, c)
	}
	if a == dog {
		t.Error("different sets share an encoding")
	}

	// every string of a session has the same width
	limit := new(big.Int).Lsh(big.NewInt(1), uint(reg.NumberOfTypes()+1))
	width := len(limit.Sub(limit, big.NewInt(1)).String())
	for _, s := range []string{dog, a, reg.ConstructBitVecString(nil)} {
		if len(s) != width {
			t.Errorf("len(%q) = %d, want %d", s, len(s), width)
		}
	}

	cached := reg.bitVecs.len()
	reg.ConstructBitVecString([]symtypes.Type{catType, dogType})
	if got := reg.bitVecs.len(); got != cached {
		t.Errorf("cache grew from %d to %d on a repeated set", cached, got)
	}
}

func TestBitVecEncoderNegativeID(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for a negative id")
		}
	}()
	newBitVecEncoder().encode([]int{1, -1}, 4)
}

func TestFindRating(t *testing.T) {
	reg := newZooSession(t).Registry()

	tests := []struct {
		typ  symtypes.RefType
		want int
	}{
		{integerType, 8192 + 1024 + 128 + 16},
		{hashMapType, 4096 + 512 + 128 + 16},
		{fileType, 128 + 16},
		{symtypes.ObjectType, 1024 + 128 + 16 - 32},
		{dogType, 16},
		{animalType, 16 - 8192},
		{anonDogType, -128 - 4096},
	}
	for _, tt := range tests {
		if got := reg.FindRating(tt.typ); got != tt.want {
			t.Errorf("FindRating(%s) = %d, want %d", tt.typ, got, tt.want)
		}
	}
	if !(reg.FindRating(integerType) > reg.FindRating(hashMapType) && reg.FindRating(hashMapType) > reg.FindRating(fileType)) {
		t.Error("expected Integer > HashMap > File")
	}
}

func TestCreateClassRef(t *testing.T) {
	reg := newZooSession(t).Registry()

	addrOf := func(res MethodResult) int64 {
		t.Helper()
		c, ok := res.Value.Addr().(*expr.Const)
		if !ok {
			t.Fatalf("class ref address %s is not a constant", res.Value.Addr())
		}
		return c.Value
	}

	first := reg.CreateClassRef(dogType, 0)
	if got := addrOf(first); got != symtypes.ClassRefAddrsInitialValue {
		t.Errorf("first class ref at %d, want %d", got, symtypes.ClassRefAddrsInitialValue)
	}
	if got := addrOf(reg.CreateClassRef(dogType, 1)); got != addrOf(first) {
		t.Errorf("second class ref of Dog at %d, want %d", got, addrOf(first))
	}
	if got := addrOf(reg.CreateClassRef(catType, 0)); got >= addrOf(first) {
		t.Errorf("class ref of Cat at %d, want below %d", got, addrOf(first))
	}

	if base, ok := reg.ClassRefTypeOrNull(addrOf(first)); !ok || base != dogType {
		t.Errorf("ClassRefTypeOrNull = %v, %v", base, ok)
	}
	if _, ok := reg.ClassRefAddr(fileType); ok {
		t.Error("File has a class ref it never asked for")
	}

	if got := first.Value.Type(); got != symtypes.ClassRefType {
		t.Errorf("class ref type = %s", got)
	}
	if len(first.HardConstraints) != 1 {
		t.Fatalf("got %d hard constraints, want 1", len(first.HardConstraints))
	}

	stores := first.MemoryUpdate.Stores
	if len(stores) != 2 {
		t.Fatalf("got %d stores, want 2", len(stores))
	}
	gotIDs := []string{stores[0].Descriptor.ID.String(), stores[1].Descriptor.ID.String()}
	wantIDs := []string{"java.lang.Class_modeledType", "java.lang.Class_modeledNumDimensions"}
	if diff := cmp.Diff(wantIDs, gotIDs); diff != "" {
		t.Errorf("store chunks mismatch (-want +got):\n%s", diff)
	}
	if v, _ := expr.Eval(stores[0].Value); v != int64(reg.FindTypeID(dogType)) {
		t.Errorf("stored type id = %v, want %d", v, reg.FindTypeID(dogType))
	}
	if v, _ := expr.Eval(stores[1].Value); v != int64(0) {
		t.Errorf("stored dimensions = %v, want 0", v)
	}
	if len(first.MemoryUpdate.TouchedChunkDescriptors) != 2 || first.MemoryUpdate.IsEmpty() {
		t.Error("class ref must touch both chunks")
	}
}

func TestSubstitutions(t *testing.T) {
	s := newZooSession(t)
	reg := s.Registry()
	dog, _ := s.Provider().Class(dogType.Name)

	bark := dog.MethodsNamed("bark")[0]
	sub, ok := reg.FindSubstitutionOrNull(bark)
	if !ok || sub.Declaring != dogMockType.Name {
		t.Errorf("bark substitution = %v, %v", sub, ok)
	}

	var plain, withInt hierarchy.Method
	for _, m := range dog.MethodsNamed(hierarchy.ConstructorName) {
		if len(m.Params) == 0 {
			plain = m
		} else {
			withInt = m
		}
	}
	if _, ok := reg.FindSubstitutionOrNull(plain); ok {
		t.Error("unmarked mock constructor must not substitute")
	}
	if sub, ok := reg.FindSubstitutionOrNull(withInt); !ok || !sub.MockConstructor {
		t.Errorf("marked mock constructor = %v, %v", sub, ok)
	}

	cat, _ := s.Provider().Class(catType.Name)
	if _, ok := reg.FindSubstitutionOrNull(hierarchy.Method{Name: "bark", Params: []symtypes.Type{intType}, Declaring: cat.Name}); ok {
		t.Error("Cat has no mock")
	}

	if mock, ok := reg.FindSubstitutionByTargetOrNull(dogType.Name); !ok || mock.Name != dogMockType.Name {
		t.Errorf("FindSubstitutionByTargetOrNull = %v, %v", mock, ok)
	}
	if target, ok := reg.FindTargetBySubstitutionOrNull(dogMockType.Name); !ok || target.Name != dogType.Name {
		t.Errorf("FindTargetBySubstitutionOrNull = %v, %v", target, ok)
	}

	for in, want := range map[symtypes.Type]symtypes.Type{
		dogMockType: dogType,
		catType:     catType,
		intType:     intType,
	} {
		if got := reg.FindRealType(in); got != want {
			t.Errorf("FindRealType(%s) = %s, want %s", in, got, want)
		}
	}
}

func TestClassCastExceptionCheck(t *testing.T) {
	s := newZooSession(t)
	reg, b := s.Registry(), s.Builder()

	allowed := func(addr int64) bool {
		t.Helper()
		v, ok := expr.EvalBool(reg.IsClassCastExceptionAllowed(b.Addr(addr)))
		if !ok {
			t.Fatalf("cast flag of %d is not ground", addr)
		}
		return v
	}

	if !allowed(7) {
		t.Fatal("casts are allowed by default")
	}
	reg.DisableCastClassExceptionCheck(b.Addr(7))
	if allowed(7) {
		t.Error("disabled flag still allows casts")
	}
	if !allowed(9) {
		t.Error("disabling 7 changed 9")
	}
	reg.DisableCastClassExceptionCheck(b.Addr(9))
	reg.DisableCastClassExceptionCheck(b.Addr(7))
	if allowed(7) || allowed(9) {
		t.Error("a disabled flag came back")
	}
}

func TestTypeConstraint(t *testing.T) {
	s := newZooSession(t)
	reg, b := s.Registry(), s.Builder()
	addr := b.AddrVar("a")

	if got := reg.TypeConstraint(addr, reg.ObjectTypeStorage()).IsConstraint(); got != expr.True {
		t.Errorf("object-wide storage constraint = %s, want true", got)
	}
	if got := reg.TypeConstraint(addr, symtypes.NewTypeStorageUnsafe(animalType, nil)).IsConstraint(); got != expr.False {
		t.Errorf("empty storage constraint = %s, want false", got)
	}

	storage := s.Resolver().ConstructTypeStorageForType(animalType, false)
	tc := reg.TypeConstraint(addr, storage)
	is, ok := tc.IsConstraint().(*expr.Is)
	if !ok {
		t.Fatalf("IsConstraint() = %T, want *expr.Is", tc.IsConstraint())
	}
	if is.BitVec != reg.ConstructBitVecString(storage.PossibleConcreteTypes()) || is.NumberOfTypes != reg.NumberOfTypes() {
		t.Errorf("membership predicate %s does not match the storage", is)
	}
	if got, ok := expr.EvalBool(reg.TypeConstraint(b.Null(), storage).IsNullExpr()); !ok || !got {
		t.Error("null address must satisfy the null check")
	}

	mock := symtypes.NewSingleTypeStorage(symtypes.RefType{Name: s.Options().UtMockClass})
	if got := reg.TypeConstraint(addr, mock).All(); got != expr.True {
		t.Errorf("UtMock constraint = %s, want true", got)
	}
}

func TestGenericTypeParameterConstraints(t *testing.T) {
	s := newZooSession(t)
	reg, b := s.Registry(), s.Builder()
	addr := b.AddrVar("list")

	storages := []symtypes.TypeStorage{
		s.Resolver().ConstructTypeStorageForType(animalType, false),
		symtypes.NewSingleTypeStorage(intType),
	}
	c := reg.GenericTypeParameterConstraint(addr, storages)
	params, ok := c.(*expr.GenericParams)
	if !ok {
		t.Fatalf("GenericTypeParameterConstraint() = %T, want *expr.GenericParams", c)
	}
	want := []string{
		reg.ConstructBitVecString(storages[0].PossibleConcreteTypes()),
		reg.ConstructBitVecString([]symtypes.Type{intType}),
	}
	if diff := cmp.Diff(want, params.BitVecs); diff != "" {
		t.Errorf("bit vectors mismatch (-want +got):\n%s", diff)
	}
	if params.NumberOfTypes != reg.NumberOfTypes() {
		t.Errorf("numberOfTypes = %d, want %d", params.NumberOfTypes, reg.NumberOfTypes())
	}

	elem := b.AddrVar("elem")
	bind, ok := reg.TypeConstraintToGenericTypeParameter(elem, addr, 1).(*expr.IsGenericType)
	if !ok || bind.Addr != elem || bind.BaseAddr != addr || bind.Index != 1 {
		t.Errorf("TypeConstraintToGenericTypeParameter() = %v", bind)
	}
}

func TestCorrectnessConstraint(t *testing.T) {
	objectStorage := func(s *Session) symtypes.TypeStorage {
		return s.Resolver().ConstructTypeStorageForType(symtypes.ObjectType, false)
	}
	conjuncts := func(e expr.Expr) int {
		if n, ok := e.(*expr.Nary); ok && n.Op() == expr.OpAnd {
			return len(n.Args)
		}
		return 1
	}

	s := newZooSession(t)
	addr := s.Builder().AddrVar("a")
	// 4 range bounds, one per primitive kind, one per anonymous class
	got := conjuncts(s.Registry().TypeConstraint(addr, objectStorage(s)).CorrectnessExpr())
	if want := 4 + symtypes.NumPrimKinds + 1; got != want {
		t.Errorf("correctness with workarounds has %d conjuncts, want %d", got, want)
	}

	opts := DefaultOptions()
	opts.ArrayTypeWorkarounds = false
	s = newZooSession(t, opts)
	got = conjuncts(s.Registry().TypeConstraint(addr, objectStorage(s)).CorrectnessExpr())
	if got != 4 {
		t.Errorf("correctness without workarounds has %d conjuncts, want 4", got)
	}
}

func TestArrayChunkID(t *testing.T) {
	reg := newZooSession(t).Registry()

	tests := []struct {
		typ  symtypes.Type
		want string
	}{
		{symtypes.MakeArray(dogType, 1), "RefValues_Arrays"},
		{symtypes.MakeArray(dogMockType, 1), "RefValues_Arrays"},
		{symtypes.MakeArray(intType, 1), "int_Arrays"},
		{symtypes.MakeArray(intType, 2), "Multi_Arrays"},
		{symtypes.MakeArray(dogType, 3), "Multi_Arrays"},
	}
	for _, tt := range tests {
		if got := reg.ArrayChunkID(tt.typ.(symtypes.ArrayType)).String(); got != tt.want {
			t.Errorf("ArrayChunkID(%s) = %s, want %s", tt.typ, got, tt.want)
		}
	}
}

func TestSymbolicReturnValueNames(t *testing.T) {
	reg := newZooSession(t).Registry()
	first := reg.FindNewSymbolicReturnValueName()
	second := reg.FindNewSymbolicReturnValueName()
	if first != "symbolicReturnValue$2147483649" || second != "symbolicReturnValue$2147483650" {
		t.Errorf("names = %s, %s", first, second)
	}
}

func TestSymbolicArrays(t *testing.T) {
	s := newZooSession(t)
	reg, b := s.Registry(), s.Builder()
	addr := b.AddrVar("a")

	tests := []struct {
		name string
		got  expr.Expr
		want string
	}{
		{"type id", reg.SymTypeID(addr), "addrToTypeId"},
		{"dims", reg.SymNumDimensions(addr), "addrToNumDimensions"},
		{"generic type id", reg.GenericTypeID(addr, 1), "genericAddrToTypeId_1"},
		{"generic dims", reg.GenericNumDimensions(addr, 0), "genericAddrToNumDimensions_0"},
		{"mock", reg.IsMock(addr), "isMock"},
	}
	for _, tt := range tests {
		if !strings.Contains(tt.got.String(), tt.want) {
			t.Errorf("%s: %s does not read %s", tt.name, tt.got, tt.want)
		}
	}

	if reg.GenericTypeID(addr, 1).(*expr.Select).Array != reg.GenericTypeID(b.AddrVar("b"), 1).(*expr.Select).Array {
		t.Error("generic arrays must be shared per parameter index")
	}
}

func TestIsMockConstraint(t *testing.T) {
	s := newZooSession(t)
	reg, b := s.Registry(), s.Builder()

	tests := []struct {
		name    string
		addr    expr.Expr
		decided int       // clause settled by the address alone
		forced  expr.Expr // isMock value the other clause demands
	}{
		{"null", b.Null(), 0, expr.False},
		{"object", b.Addr(7), 1, expr.True},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := reg.IsMockConstraint(tt.addr).(*expr.Nary)
			if !ok || c.Op() != expr.OpAnd || len(c.Args) != 2 {
				t.Fatalf("IsMockConstraint() = %s, want a conjunction of two clauses", reg.IsMockConstraint(tt.addr))
			}
			if v, ok := expr.EvalBool(c.Args[tt.decided]); !ok || !v {
				t.Errorf("clause %s is not settled by the address", c.Args[tt.decided])
			}

			open, ok := c.Args[1-tt.decided].(*expr.Nary)
			if !ok || open.Op() != expr.OpOr || len(open.Args) != 2 {
				t.Fatalf("clause %s is not a disjunction", c.Args[1-tt.decided])
			}
			if _, ok := expr.EvalBool(open); ok {
				t.Errorf("clause %s does not depend on isMock", open)
			}
			eq, ok := open.Args[0].(*expr.Binary)
			if !ok || eq.Op() != expr.OpEq || eq.Right != tt.forced || eq.Left.String() != reg.IsMock(tt.addr).String() {
				t.Errorf("clause %s does not force isMock to %s", open, tt.forced)
			}
			if v, ok := expr.EvalBool(open.Args[1]); !ok || v {
				t.Errorf("escape %s of clause %s must be false", open.Args[1], open)
			}
		})
	}
}

func TestDimensionAndDefaultConstraints(t *testing.T) {
	s := newZooSession(t)
	reg, b := s.Registry(), s.Builder()
	addr := b.AddrVar("a")

	zero, ok := reg.ZeroDimensionConstraint(addr).(*expr.Binary)
	if !ok || zero.Op() != expr.OpEq || zero.Left.String() != reg.SymNumDimensions(addr).String() {
		t.Fatalf("ZeroDimensionConstraint() = %s", reg.ZeroDimensionConstraint(addr))
	}
	if v, ok := expr.Eval(zero.Right); !ok || v != int64(symtypes.ObjectNumDimensions) {
		t.Errorf("zero dimension constraint compares against %s", zero.Right)
	}

	tests := []struct {
		name  string
		got   expr.Expr
		array string
		def   int64
	}{
		{"soft dimensions", reg.SoftZeroNumDimensions(), "addrToNumDimensions", symtypes.ObjectNumDimensions},
		{"soft types", reg.SoftEmptyTypes(), "addrToTypeId", symtypes.EmptyTypeID},
	}
	for _, tt := range tests {
		term, ok := tt.got.(*expr.TermArray)
		if !ok {
			t.Errorf("%s: %T, want *expr.TermArray", tt.name, tt.got)
			continue
		}
		if term.Array.String() != tt.array {
			t.Errorf("%s: array = %s, want %s", tt.name, term.Array, tt.array)
		}
		if v, ok := expr.Eval(term.Default); !ok || v != tt.def {
			t.Errorf("%s: default = %s, want %d", tt.name, term.Default, tt.def)
		}
	}
}
