package symtypes

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/go-set/v3"
)

// TypeStorage describes the runtime types a symbolic reference may have:
// a least common type and the set of concrete types compatible with it.
// TypeStorage values are immutable.
type TypeStorage struct {
	leastCommonType Type
	possible        *set.Set[Type]
}

// NewTypeStorageUnsafe builds a storage without checking that the concrete
// types are instantiable. Regular callers should go through the resolver.
func NewTypeStorageUnsafe(leastCommonType Type, possibleConcreteTypes []Type) TypeStorage {
	return TypeStorage{
		leastCommonType: leastCommonType,
		possible:        set.From(possibleConcreteTypes),
	}
}

// NewTypeStorageFromSet is NewTypeStorageUnsafe for a set of types. The set
// is copied.
func NewTypeStorageFromSet(leastCommonType Type, possibleConcreteTypes set.Collection[Type]) TypeStorage {
	possible := set.New[Type](possibleConcreteTypes.Size())
	possible.InsertSet(possibleConcreteTypes)
	return TypeStorage{leastCommonType: leastCommonType, possible: possible}
}

// NewSingleTypeStorage builds a storage whose only concrete type is t, even
// when t is abstract or an interface. Used for values whose exact runtime
// type is already known, such as wrappers and class references.
func NewSingleTypeStorage(t Type) TypeStorage {
	return TypeStorage{leastCommonType: t, possible: set.From([]Type{t})}
}

// LeastCommonType returns the declared type of the storage.
func (s TypeStorage) LeastCommonType() Type { return s.leastCommonType }

// PossibleConcreteTypes returns the concrete types sorted by name.
func (s TypeStorage) PossibleConcreteTypes() []Type {
	if s.possible == nil {
		return nil
	}
	return SortTypes(s.possible.Slice())
}

// Set returns a copy of the concrete types as a set.
func (s TypeStorage) Set() *set.Set[Type] {
	if s.possible == nil {
		return set.New[Type](0)
	}
	return s.possible.Copy()
}

// Contains reports whether t is one of the concrete types.
func (s TypeStorage) Contains(t Type) bool {
	return s.possible != nil && s.possible.Contains(t)
}

// Len returns the number of concrete types.
func (s TypeStorage) Len() int {
	if s.possible == nil {
		return 0
	}
	return s.possible.Size()
}

// Equal reports whether both storages have the same least common type and
// the same concrete types.
func (s TypeStorage) Equal(o TypeStorage) bool {
	if s.leastCommonType != o.leastCommonType {
		return false
	}
	return s.Set().Equal(o.Set())
}

// IsObjectTypeStorage reports whether s is as wide as objectStorage.
func (s TypeStorage) IsObjectTypeStorage(objectStorage TypeStorage) bool {
	return s.Len() == objectStorage.Len()
}

func (s TypeStorage) String() string {
	types := s.PossibleConcreteTypes()
	if len(types) == 1 {
		return types[0].String()
	}
	shown := types[:min(len(types), 10)]
	names := make([]string, len(shown))
	for i, t := range shown {
		names[i] = t.String()
	}
	return fmt.Sprintf("(leastCommonType=%s, %d possibleTypes=[%s])",
		s.leastCommonType, len(types), strings.Join(names, ", "))
}

// SortTypes sorts types by their string form in place and returns them.
func SortTypes(types []Type) []Type {
	slices.SortFunc(types, func(a, b Type) int {
		return strings.Compare(a.String(), b.String())
	})
	return types
}
