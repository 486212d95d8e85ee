package engine

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/hashicorp/go-set/v3"
	"github.com/speakeasy-api/symtypes"
	"github.com/speakeasy-api/symtypes/expr"
	"github.com/speakeasy-api/symtypes/hierarchy"
)

// Resolver decides which concrete types a symbolic reference may hold. It
// keeps no state of its own; hierarchy lookups are cached in the registry.
type Resolver struct {
	registry *Registry
	provider hierarchy.Provider
	b        *expr.Builder
	opts     Options
	log      Logger

	wrapperClasses *set.Set[string]
}

// NewResolver returns a resolver over registry and provider.
func NewResolver(registry *Registry, provider hierarchy.Provider, b *expr.Builder, opts Options) *Resolver {
	wrapperClasses := set.New[string](len(opts.Wrappers))
	for _, w := range opts.Wrappers {
		wrapperClasses.Insert(w.Class)
	}
	return &Resolver{
		registry:       registry,
		provider:       provider,
		b:              b,
		opts:           opts,
		log:            opts.logger().With(map[string]any{"component": "resolver"}),
		wrapperClasses: wrapperClasses,
	}
}

func (r *Resolver) classOf(t symtypes.RefType) *hierarchy.Class {
	return r.registry.class(t)
}

func (r *Resolver) isOverridden(c *hierarchy.Class) bool {
	return strings.HasPrefix(c.Package(), r.opts.OverridePackage)
}

// FindOrConstructInheritorsIncludingTypes returns t and all its inheritors.
// A type outside the universe is its own only inheritor.
func (r *Resolver) FindOrConstructInheritorsIncludingTypes(t symtypes.RefType) *set.Set[symtypes.RefType] {
	return r.registry.FindInheritorsIncludingTypes(t, func() *set.Set[symtypes.RefType] {
		classes, err := r.provider.InheritorsOf(t.Name)
		if err != nil {
			r.log.Debugf("inheritors of %s: %v", t, err)
			return set.From([]symtypes.RefType{t})
		}
		return classTypes(classes)
	})
}

// FindOrConstructAncestorsIncludingTypes returns t and all its ancestors.
// A type outside the universe has t and Object as ancestors.
func (r *Resolver) FindOrConstructAncestorsIncludingTypes(t symtypes.RefType) *set.Set[symtypes.RefType] {
	return r.registry.FindAncestorsIncludingTypes(t, func() *set.Set[symtypes.RefType] {
		classes, err := r.provider.AncestorsOf(t.Name)
		if err != nil {
			r.log.Debugf("ancestors of %s: %v", t, err)
			return set.From([]symtypes.RefType{t, symtypes.ObjectType})
		}
		return classTypes(classes)
	})
}

func classTypes(classes []*hierarchy.Class) *set.Set[symtypes.RefType] {
	s := set.New[symtypes.RefType](len(classes))
	for _, c := range classes {
		s.Insert(c.Type())
	}
	return s
}

// FindFields returns the fields declared by t and all its ancestors.
func (r *Resolver) FindFields(t symtypes.RefType) []hierarchy.Field {
	return r.registry.FindFields(t, func() []hierarchy.Field {
		classes, err := r.provider.AncestorsOf(t.Name)
		if err != nil {
			r.log.Debugf("fields of %s: %v", t, err)
			return nil
		}
		var fields []hierarchy.Field
		for _, c := range classes {
			fields = append(fields, c.Fields...)
		}
		return fields
	})
}

// IntersectInheritors returns the instantiable types that inherit from
// every named type. Generic arguments are erased and unknown names stand
// for java.lang.Object.
func (r *Resolver) IntersectInheritors(typeNames []string) *set.Set[symtypes.RefType] {
	return r.intersect(typeNames, r.FindOrConstructInheritorsIncludingTypes)
}

// IntersectAncestors returns the instantiable types that are ancestors of
// every named type.
func (r *Resolver) IntersectAncestors(typeNames []string) *set.Set[symtypes.RefType] {
	return r.intersect(typeNames, r.FindOrConstructAncestorsIncludingTypes)
}

func (r *Resolver) intersect(typeNames []string, related func(symtypes.RefType) *set.Set[symtypes.RefType]) *set.Set[symtypes.RefType] {
	acc := r.FindOrConstructInheritorsIncludingTypes(symtypes.ObjectType).Copy()
	for _, name := range typeNames {
		other := related(r.classOrDefault(name))
		acc.RemoveFunc(func(t symtypes.RefType) bool { return !other.Contains(t) })
	}
	acc.RemoveFunc(func(t symtypes.RefType) bool { return r.classOf(t).IsInappropriate() })
	return acc
}

func (r *Resolver) classOrDefault(typeName string) symtypes.RefType {
	name := symtypes.RawTypeName(typeName)
	if c, ok := r.provider.Class(name); ok {
		return c.Type()
	}
	r.log.Debugf("class %s not found, using %s", name, symtypes.ObjectClassName)
	return symtypes.ObjectType
}

// isAppropriateType reports whether t is a primitive, an instantiable class
// or an array of either.
func (r *Resolver) isAppropriateType(t symtypes.Type) bool {
	switch base := symtypes.BaseType(t).(type) {
	case symtypes.PrimType:
		return true
	case symtypes.RefType:
		return r.classOf(base).IsAppropriate()
	default:
		panic(fmt.Sprintf("unexpected type %T", base))
	}
}

// FindTopRatedTypes returns up to take instantiable types ordered by
// descending rating. Types with a primitive base come first. A negative
// take means no limit.
func (r *Resolver) FindTopRatedTypes(types []symtypes.Type, take int) []symtypes.Type {
	rating := func(t symtypes.Type) int {
		if ref, ok := symtypes.BaseType(t).(symtypes.RefType); ok {
			return r.registry.FindRating(ref)
		}
		return math.MaxInt
	}

	var out []symtypes.Type
	for _, t := range types {
		if r.isAppropriateType(t) {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, func(a, b symtypes.Type) int {
		return cmp.Compare(rating(b), rating(a))
	})
	if take >= 0 && len(out) > take {
		out = out[:take]
	}
	return out
}

// ConstructTypeStorage builds a storage for t from an explicit candidate
// list. Wrapper classes, non-instantiable classes and arrays of mock
// classes are dropped.
func (r *Resolver) ConstructTypeStorage(t symtypes.Type, possibleTypes []symtypes.Type) symtypes.TypeStorage {
	concrete := make([]symtypes.Type, 0, len(possibleTypes))
	for _, p := range possibleTypes {
		if r.isInappropriateOrArrayOfMocks(symtypes.BaseType(p), symtypes.NumDimensions(p)) {
			continue
		}
		concrete = append(concrete, p)
	}
	return r.removeInappropriateTypes(t, concrete)
}

func (r *Resolver) isInappropriateOrArrayOfMocks(base symtypes.Type, numDimensions int) bool {
	ref, ok := base.(symtypes.RefType)
	if !ok {
		return false
	}
	if r.wrapperClasses.Contains(ref.Name) {
		return true
	}
	c := r.classOf(ref)
	if numDimensions == 0 && c.IsInappropriate() {
		return true
	}
	// arrays of interfaces and abstract classes are fine, arrays of mocks are not
	return numDimensions > 0 && c.Mock != nil
}

// ConstructTypeStorageForType builds a storage for t from the hierarchy.
// With useConcreteType the storage holds t alone, whatever t is.
func (r *Resolver) ConstructTypeStorageForType(t symtypes.Type, useConcreteType bool) symtypes.TypeStorage {
	if useConcreteType {
		return symtypes.NewSingleTypeStorage(t)
	}

	_, isArray := t.(symtypes.ArrayType)
	base := symtypes.BaseType(t)

	var inheritors []symtypes.Type
	switch b := base.(type) {
	case symtypes.PrimType:
		inheritors = []symtypes.Type{b}
	case symtypes.RefType:
		for _, ref := range sortedRefs(r.FindOrConstructInheritorsIncludingTypes(b)) {
			// array element types may be abstract
			if isArray || r.classOf(ref).IsAppropriate() {
				inheritors = append(inheritors, ref)
			}
		}
	default:
		panic(fmt.Sprintf("unexpected type %T", base))
	}

	if symtypes.IsObject(base) {
		inheritors = append(inheritors, symtypes.PrimTypes()...)
	}

	possible := inheritors
	if arr, ok := t.(symtypes.ArrayType); ok {
		possible = make([]symtypes.Type, len(inheritors))
		for i, inh := range inheritors {
			possible[i] = symtypes.MakeArray(inh, arr.Dims)
		}
	}
	return r.removeInappropriateTypes(t, possible)
}

// removeInappropriateTypes drops wrapper implementations, classes of the
// framework-visible package and, unless the storage itself is artificial,
// artificial classes other than lambdas.
func (r *Resolver) removeInappropriateTypes(leastCommonType symtypes.Type, types []symtypes.Type) symtypes.TypeStorage {
	keepArtificial := false
	if ref, ok := leastCommonType.(symtypes.RefType); ok {
		keepArtificial = r.classOf(ref).IsArtificial()
	}

	kept := make([]symtypes.Type, 0, len(types))
	for _, t := range types {
		ref, ok := symtypes.BaseType(t).(symtypes.RefType)
		if !ok {
			kept = append(kept, t)
			continue
		}
		c := r.classOf(ref)
		if c.IsArtificial() {
			if c.IsLambda() || keepArtificial {
				kept = append(kept, t)
			}
			continue
		}
		if symtypes.IsObject(leastCommonType) && r.isOverridden(c) {
			continue
		}
		if c.Package() == r.opts.FrameworkVisiblePackage {
			continue
		}
		kept = append(kept, t)
	}
	return symtypes.NewTypeStorageUnsafe(leastCommonType, kept)
}

// NullObject returns the null reference of type t.
func (r *Resolver) NullObject(t symtypes.Type) ReferenceValue {
	storage := symtypes.NewSingleTypeStorage(t)
	switch t.(type) {
	case symtypes.RefType:
		return NewObjectValue(storage, r.b.Null())
	case symtypes.ArrayType:
		return NewArrayValue(storage, r.b.Null())
	default:
		panic(fmt.Sprintf("unsupported null type %s", t))
	}
}

// Wrap returns the wrapper representation of an object of type t at addr,
// if t is wrapped. The wrapper's value type is used only when the universe
// has it, and t must be loaded itself otherwise.
func (r *Resolver) Wrap(t symtypes.RefType, addr expr.Expr) (*ObjectValue, bool) {
	w, ok := r.opts.Wrappers.Lookup(t.Name)
	if !ok {
		return nil, false
	}
	valueType := t
	if _, known := r.provider.Class(w.ValueType); w.ValueType != "" && known {
		valueType = symtypes.RefType{Name: w.ValueType}
	}
	if _, known := r.provider.Class(valueType.Name); !known {
		r.log.Debugf("not wrapping %s: %s is not loaded", t, valueType)
		return nil, false
	}
	v := NewObjectValue(symtypes.NewSingleTypeStorage(valueType), addr)
	v.Wrapper = &w
	return v, true
}

// DownCast narrows v to the inheritors of typeToCast. Wrapped types yield
// their wrapper representation instead.
func (r *Resolver) DownCast(v *ObjectValue, typeToCast symtypes.RefType) *ObjectValue {
	if w, ok := r.Wrap(typeToCast, v.Addr()); ok {
		return w
	}
	inheritors := r.FindOrConstructInheritorsIncludingTypes(typeToCast)
	var possible []symtypes.Type
	for _, t := range v.PossibleConcreteTypes() {
		if ref, ok := t.(symtypes.RefType); ok && inheritors.Contains(ref) {
			possible = append(possible, t)
		}
	}
	r.log.Debugf("downcast %s to %s: %s", v.Type(), typeToCast, typeList(possible, 8))
	return v.WithTypeStorage(r.ConstructTypeStorage(typeToCast, possible))
}

// DownCastArray narrows an array of references to typeToCast. Both element
// types must be reference types.
func (r *Resolver) DownCastArray(v *ArrayValue, typeToCast symtypes.ArrayType) *ArrayValue {
	from, ok := v.ArrayType().Base.(symtypes.RefType)
	if !ok {
		panic(fmt.Sprintf("array downcast from primitive array %s", v.Type()))
	}
	to, ok := typeToCast.Base.(symtypes.RefType)
	if !ok {
		panic(fmt.Sprintf("array downcast to primitive array %s", typeToCast))
	}

	after := r.FindOrConstructInheritorsIncludingTypes(to)
	dims := v.ArrayType().Dims
	var possible []symtypes.Type
	for _, t := range sortedRefs(r.FindOrConstructInheritorsIncludingTypes(from)) {
		if after.Contains(t) {
			possible = append(possible, symtypes.MakeArray(t, dims))
		}
	}
	return v.WithTypeStorage(r.ConstructTypeStorage(typeToCast, possible))
}

// ConnectArrayCeilType states that the value stored in an array cell has
// exactly the type and number of dimensions of the cell. Subtypes of the
// cell type are not admitted.
func (r *Resolver) ConnectArrayCeilType(ceilAddr, valueAddr expr.Expr) expr.Expr {
	reg := r.registry
	return r.b.And(
		r.b.Eq(reg.SymTypeID(ceilAddr), reg.SymTypeID(valueAddr)),
		r.b.Eq(reg.SymNumDimensions(ceilAddr), reg.SymNumDimensions(valueAddr)),
	)
}

// FindAnyConcreteInheritorIncludingOrDefault returns evaluated if it is
// instantiable, else its best rated instantiable inheritor, else the same
// search on defaultType.
func (r *Resolver) FindAnyConcreteInheritorIncludingOrDefault(evaluated, defaultType symtypes.RefType) (symtypes.RefType, bool) {
	if t, ok := r.findAnyConcreteInheritorIncluding(evaluated); ok {
		return t, true
	}
	if t, ok := r.findAnyConcreteInheritorIncluding(defaultType); ok {
		return t, true
	}
	r.log.Warnf("no concrete inheritor for %s or %s", evaluated, defaultType)
	return symtypes.RefType{}, false
}

// FindAnyConcreteInheritorIncludingOrDefaultUnsafe is
// FindAnyConcreteInheritorIncludingOrDefault for callers that know a
// concrete type exists. It panics with *NoConcreteTypeError otherwise.
func (r *Resolver) FindAnyConcreteInheritorIncludingOrDefaultUnsafe(evaluated, defaultType symtypes.RefType) symtypes.RefType {
	t, ok := r.FindAnyConcreteInheritorIncludingOrDefault(evaluated, defaultType)
	if !ok {
		panic(&NoConcreteTypeError{Evaluated: evaluated, Default: defaultType})
	}
	return t
}

func (r *Resolver) findAnyConcreteInheritorIncluding(t symtypes.RefType) (symtypes.RefType, bool) {
	if r.classOf(t).IsAppropriate() {
		return t, true
	}

	candidates := sortedRefs(r.FindOrConstructInheritorsIncludingTypes(t))
	slices.SortStableFunc(candidates, func(a, b symtypes.RefType) int {
		return cmp.Compare(r.registry.FindRating(b), r.registry.FindRating(a))
	})
	for _, c := range candidates {
		if r.classOf(c).IsAppropriate() {
			return c, true
		}
	}
	return symtypes.RefType{}, false
}

func sortedRefs(s *set.Set[symtypes.RefType]) []symtypes.RefType {
	refs := s.Slice()
	slices.SortFunc(refs, func(a, b symtypes.RefType) int { return strings.Compare(a.Name, b.Name) })
	return refs
}
