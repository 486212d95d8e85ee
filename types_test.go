package symtypes

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want Type
	}{
		{"int", PrimType{Int}},
		{"boolean", PrimType{Boolean}},
		{"java.lang.String", RefType{"java.lang.String"}},
		{"int[]", ArrayType{Base: PrimType{Int}, Dims: 1}},
		{"java.lang.Object[][]", ArrayType{Base: ObjectType, Dims: 2}},
		{"java.util.List<java.lang.String>", RefType{"java.util.List"}},
		{"java.util.List<T>[]", ArrayType{Base: RefType{"java.util.List"}, Dims: 1}},
		{" long ", PrimType{Long}},
	}
	for _, tt := range tests {
		got, err := ParseType(tt.in)
		if err != nil {
			t.Errorf("ParseType(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseType(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}

func TestParseTypeErrors(t *testing.T) {
	for _, in := range []string{"", "[]", "foo bar", "<T>"} {
		if _, err := ParseType(in); err == nil {
			t.Errorf("ParseType(%q) should fail", in)
		}
	}
}

func TestMakeArrayNormalizes(t *testing.T) {
	inner := MakeArray(PrimType{Char}, 1)
	outer := MakeArray(inner, 2)
	want := ArrayType{Base: PrimType{Char}, Dims: 3}
	if outer != want {
		t.Errorf("MakeArray = %#v, want %#v", outer, want)
	}
	if MakeArray(ObjectType, 0) != Type(ObjectType) {
		t.Error("zero dimensions should return the base type")
	}
	if BaseType(outer) != Type(PrimType{Char}) || NumDimensions(outer) != 3 {
		t.Errorf("BaseType/NumDimensions mismatch for %s", outer)
	}
	if NumDimensions(ObjectType) != 0 || BaseType(ObjectType) != Type(ObjectType) {
		t.Error("non-array types are their own base with zero dimensions")
	}
}

func TestTypeString(t *testing.T) {
	got := []string{
		PrimType{Double}.String(),
		RefType{"a.B"}.String(),
		ArrayType{Base: RefType{"a.B"}, Dims: 2}.String(),
	}
	want := []string{"double", "a.B", "a.B[][]"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("String() mismatch (-want +got):\n%s", diff)
	}
}

func TestPrimTypesDistinct(t *testing.T) {
	seen := map[Type]bool{}
	for _, p := range PrimTypes() {
		if seen[p] {
			t.Errorf("duplicate primitive %s", p)
		}
		seen[p] = true
	}
	if len(seen) != NumPrimKinds {
		t.Errorf("got %d primitive kinds, want %d", len(seen), NumPrimKinds)
	}
}

func TestTypeStorage(t *testing.T) {
	dog := RefType{"zoo.Dog"}
	cat := RefType{"zoo.Cat"}
	animal := RefType{"zoo.Animal"}

	s := NewTypeStorageUnsafe(animal, []Type{dog, cat, dog})
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if !s.Contains(dog) || s.Contains(animal) {
		t.Error("unexpected membership")
	}
	want := []Type{cat, dog}
	if diff := cmp.Diff(want, s.PossibleConcreteTypes()); diff != "" {
		t.Errorf("PossibleConcreteTypes mismatch (-want +got):\n%s", diff)
	}

	same := NewTypeStorageFromSet(animal, s.Set())
	if !s.Equal(same) {
		t.Error("storages with the same content should be equal")
	}
	if s.Equal(NewSingleTypeStorage(animal)) {
		t.Error("storages with different content should differ")
	}

	single := NewSingleTypeStorage(animal)
	if single.String() != "zoo.Animal" {
		t.Errorf("single storage String() = %s", single.String())
	}
	if got := NewTypeStorageUnsafe(animal, []Type{dog}).String(); got != "zoo.Dog" {
		t.Errorf("storage of one concrete type String() = %s, want zoo.Dog", got)
	}

	// mutating the returned set must not leak into the storage
	leaked := s.Set()
	leaked.Insert(animal)
	if s.Contains(animal) {
		t.Error("Set() must return a copy")
	}
}
