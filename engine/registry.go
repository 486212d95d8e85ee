package engine

import (
	"fmt"

	"github.com/hashicorp/go-set/v3"
	"github.com/speakeasy-api/symtypes"
	"github.com/speakeasy-api/symtypes/expr"
	"github.com/speakeasy-api/symtypes/hierarchy"
)

// Registry owns the type <-> id mapping of one analysis session together
// with the caches and symbolic arrays derived from it. A Registry is not
// safe for concurrent use.
type Registry struct {
	provider hierarchy.Provider
	b        *expr.Builder
	opts     Options
	log      Logger

	typeIDs     *biMap[symtypes.Type, int]
	typeCounter int
	bitVecs     *bitVecEncoder
	ratings     map[symtypes.RefType]int
	inheritors  map[symtypes.RefType]*set.Set[symtypes.RefType]
	ancestors   map[symtypes.RefType]*set.Set[symtypes.RefType]
	fields      map[symtypes.RefType][]hierarchy.Field

	classRefs       *biMap[symtypes.Type, int64]
	classRefCounter int64

	symbolicReturnCounter int64

	substitutions *substitutionTable

	// per-address flag, true unless cleared
	castAllowed expr.Expr

	addrToTypeID        expr.Expr
	addrToNumDimensions expr.Expr
	isMockArray         expr.Expr
	genericTypeIDs      map[int]expr.Expr
	genericNumDims      map[int]expr.Expr

	objectTypeStorage symtypes.TypeStorage
	numberOfTypes     int
}

// NewRegistry creates the registry for the universe of provider. All
// constraints are built with b.
func NewRegistry(provider hierarchy.Provider, b *expr.Builder, opts Options) *Registry {
	r := &Registry{
		provider:              provider,
		b:                     b,
		opts:                  opts,
		log:                   opts.logger().With(map[string]any{"component": "registry"}),
		typeIDs:               newBiMap[symtypes.Type, int](),
		typeCounter:           symtypes.TypeCounterInitialValue,
		bitVecs:               newBitVecEncoder(),
		ratings:               make(map[symtypes.RefType]int),
		inheritors:            make(map[symtypes.RefType]*set.Set[symtypes.RefType]),
		ancestors:             make(map[symtypes.RefType]*set.Set[symtypes.RefType]),
		fields:                make(map[symtypes.RefType][]hierarchy.Field),
		classRefs:             newBiMap[symtypes.Type, int64](),
		classRefCounter:       symtypes.ClassRefAddrsInitialValue,
		symbolicReturnCounter: symtypes.SymbolicReturnNameCounterInitialValue,
		castAllowed:           b.ConstArray(expr.SortAddr, expr.True),
		addrToTypeID:          b.Array("addrToTypeId", expr.SortAddr, expr.SortInt),
		addrToNumDimensions:   b.Array("addrToNumDimensions", expr.SortAddr, expr.SortInt),
		isMockArray:           b.Array("isMock", expr.SortAddr, expr.SortBool),
		genericTypeIDs:        make(map[int]expr.Expr),
		genericNumDims:        make(map[int]expr.Expr),
		numberOfTypes:         provider.Len() + symtypes.NumPrimKinds + symtypes.TypeCounterInitialValue,
	}

	all := make([]symtypes.Type, 0, provider.Len())
	for c := range provider.Classes() {
		all = append(all, c.Type())
	}
	r.objectTypeStorage = symtypes.NewTypeStorageUnsafe(symtypes.ObjectType, all)
	return r
}

// NumberOfTypes is the upper bound of type ids used in range constraints:
// loaded classes plus primitive kinds plus the reserved empty id.
func (r *Registry) NumberOfTypes() int { return r.numberOfTypes }

// ObjectTypeStorage returns the storage of every loaded class.
func (r *Registry) ObjectTypeStorage() symtypes.TypeStorage { return r.objectTypeStorage }

// FindTypeID returns the id of t, allocating the next one on first request.
func (r *Registry) FindTypeID(t symtypes.Type) int {
	id, fresh := r.typeIDs.getOrPut(t, func() int {
		id := r.typeCounter
		r.typeCounter++
		return id
	})
	if fresh {
		r.log.Debugf("allocated type id %d for %s", id, t)
		if id > r.numberOfTypes {
			r.log.Warnf("type id %d of %s exceeds numberOfTypes %d", id, t, r.numberOfTypes)
		}
	}
	return id
}

// TypeByIDOrNull returns the type with the given id.
func (r *Registry) TypeByIDOrNull(id int) (symtypes.Type, bool) {
	return r.typeIDs.key(id)
}

// ConstructBitVecString encodes the ids of types as a decimal bit vector.
// Array types contribute the id of their base type.
func (r *Registry) ConstructBitVecString(types []symtypes.Type) string {
	ids := make([]int, len(types))
	for i, t := range types {
		ids[i] = r.FindTypeID(symtypes.BaseType(t))
	}
	return r.bitVecs.encode(ids, r.numberOfTypes)
}

// SymTypeID returns the symbolic type id of the object at addr.
func (r *Registry) SymTypeID(addr expr.Expr) expr.Expr {
	return r.b.Select(r.addrToTypeID, addr)
}

// SymNumDimensions returns the symbolic number of dimensions of the object at addr.
func (r *Registry) SymNumDimensions(addr expr.Expr) expr.Expr {
	return r.b.Select(r.addrToNumDimensions, addr)
}

// GenericTypeID returns the symbolic type id of the i-th type parameter of
// the object at addr.
func (r *Registry) GenericTypeID(addr expr.Expr, i int) expr.Expr {
	arr, ok := r.genericTypeIDs[i]
	if !ok {
		arr = r.b.Array(fmt.Sprintf("genericAddrToTypeId_%d", i), expr.SortAddr, expr.SortInt)
		r.genericTypeIDs[i] = arr
	}
	return r.b.Select(arr, addr)
}

// GenericNumDimensions is GenericTypeID for the number of dimensions.
func (r *Registry) GenericNumDimensions(addr expr.Expr, i int) expr.Expr {
	arr, ok := r.genericNumDims[i]
	if !ok {
		arr = r.b.Array(fmt.Sprintf("genericAddrToNumDimensions_%d", i), expr.SortAddr, expr.SortInt)
		r.genericNumDims[i] = arr
	}
	return r.b.Select(arr, addr)
}

// ZeroDimensionConstraint states that the object at addr is not an array.
func (r *Registry) ZeroDimensionConstraint(addr expr.Expr) expr.Expr {
	return r.b.Eq(r.SymNumDimensions(addr), r.b.Int(symtypes.ObjectNumDimensions))
}

// SoftZeroNumDimensions asks the solver to keep every object a non-array
// unless forced otherwise.
func (r *Registry) SoftZeroNumDimensions() expr.Expr {
	return r.b.TermArray(r.addrToNumDimensions, r.b.Int(symtypes.ObjectNumDimensions))
}

// SoftEmptyTypes asks the solver to leave untouched objects at the empty type id.
func (r *Registry) SoftEmptyTypes() expr.Expr {
	return r.b.TermArray(r.addrToTypeID, r.b.Int(symtypes.EmptyTypeID))
}

// IsMock reads whether the object at addr is a mock.
func (r *Registry) IsMock(addr expr.Expr) expr.Expr {
	return r.b.Select(r.isMockArray, addr)
}

// IsMockConstraint states that the object at addr is a mock or null, and
// that null is never a mock.
func (r *Registry) IsMockConstraint(addr expr.Expr) expr.Expr {
	b := r.b
	isNull := b.Eq(addr, b.Null())
	return b.And(
		b.Or(b.Eq(r.IsMock(addr), expr.True), isNull),
		b.Or(b.Eq(r.IsMock(addr), expr.False), b.Not(isNull)),
	)
}

// FindNewSymbolicReturnValueName returns a fresh name for the symbolic
// result of an unmodeled call.
func (r *Registry) FindNewSymbolicReturnValueName() string {
	r.symbolicReturnCounter++
	return fmt.Sprintf("symbolicReturnValue$%d", r.symbolicReturnCounter)
}

// FindInheritorsIncludingTypes returns the cached inheritors of t, calling
// compute on first request.
func (r *Registry) FindInheritorsIncludingTypes(t symtypes.RefType, compute func() *set.Set[symtypes.RefType]) *set.Set[symtypes.RefType] {
	if s, ok := r.inheritors[t]; ok {
		return s
	}
	s := compute()
	r.inheritors[t] = s
	return s
}

// FindAncestorsIncludingTypes is FindInheritorsIncludingTypes for ancestors.
func (r *Registry) FindAncestorsIncludingTypes(t symtypes.RefType, compute func() *set.Set[symtypes.RefType]) *set.Set[symtypes.RefType] {
	if s, ok := r.ancestors[t]; ok {
		return s
	}
	s := compute()
	r.ancestors[t] = s
	return s
}

// FindFields returns the cached fields of t, calling compute on first request.
func (r *Registry) FindFields(t symtypes.RefType, compute func() []hierarchy.Field) []hierarchy.Field {
	if f, ok := r.fields[t]; ok {
		return f
	}
	f := compute()
	r.fields[t] = f
	return f
}

// TypeConstraint builds the constraints tying the object at addr to storage.
func (r *Registry) TypeConstraint(addr expr.Expr, storage symtypes.TypeStorage) TypeConstraint {
	bitVec := r.ConstructBitVecString(storage.PossibleConcreteTypes())
	return TypeConstraint{
		is:            r.b.Is(addr, storage, bitVec, r.numberOfTypes).(*expr.Is),
		isNull:        r.b.Eq(addr, r.b.Null()),
		correctness:   r.correctnessConstraint(addr, storage),
		b:             r.b,
		objectStorage: r.objectTypeStorage,
		mockClasses:   [2]string{r.opts.UtMockClass, r.opts.UtOverrideMockClass},
	}
}

func (r *Registry) correctnessConstraint(addr expr.Expr, storage symtypes.TypeStorage) expr.Expr {
	b := r.b
	symType := r.SymTypeID(addr)
	symDims := r.SymNumDimensions(addr)
	lct := storage.LeastCommonType()

	constraints := []expr.Expr{
		b.Ge(symType, b.Int(symtypes.EmptyTypeID)),
		b.Le(symType, b.Int(int64(r.numberOfTypes))),
		b.Ge(symDims, b.Int(0)),
		b.Le(symDims, b.Int(int64(r.opts.MaxNumDimensions))),
	}

	if r.opts.ArrayTypeWorkarounds {
		// an Object slot holding a primitive array needs more dimensions than the slot has
		if symtypes.IsObject(symtypes.BaseType(lct)) {
			for _, p := range symtypes.PrimTypes() {
				constraints = append(constraints, b.Implies(
					b.Eq(symType, b.Int(int64(r.FindTypeID(p)))),
					b.Gt(symDims, b.Int(int64(symtypes.NumDimensions(lct)))),
				))
			}
		}

		// there are no arrays of anonymous classes
		for _, t := range storage.PossibleConcreteTypes() {
			ref, ok := symtypes.BaseType(t).(symtypes.RefType)
			if !ok {
				continue
			}
			if c, ok := r.provider.Class(ref.Name); !ok || !c.IsAnonymous() {
				continue
			}
			constraints = append(constraints, b.Implies(
				b.Eq(symType, b.Int(int64(r.FindTypeID(ref)))),
				b.Eq(symDims, b.Int(symtypes.ObjectNumDimensions)),
			))
		}
	}

	return b.And(constraints...)
}

// GenericTypeParameterConstraint states that the object at addr is
// parameterized by one type from each of storages.
func (r *Registry) GenericTypeParameterConstraint(addr expr.Expr, storages []symtypes.TypeStorage) expr.Expr {
	bitVecs := make([]string, len(storages))
	for i, s := range storages {
		bitVecs[i] = r.ConstructBitVecString(s.PossibleConcreteTypes())
	}
	return r.b.GenericParams(addr, storages, bitVecs, r.numberOfTypes)
}

// TypeConstraintToGenericTypeParameter states that the object at addr has
// exactly the type of the i-th type parameter of the object at baseAddr.
// Subtypes of the parameter are not admitted.
func (r *Registry) TypeConstraintToGenericTypeParameter(addr, baseAddr expr.Expr, i int) expr.Expr {
	return r.b.IsGenericType(addr, baseAddr, i)
}

// IsClassCastExceptionAllowed reads whether a cast of the object at addr
// may throw.
func (r *Registry) IsClassCastExceptionAllowed(addr expr.Expr) expr.Expr {
	return r.b.Select(r.castAllowed, addr)
}

// DisableCastClassExceptionCheck forbids cast failures for the object at
// addr for the rest of the session.
func (r *Registry) DisableCastClassExceptionCheck(addr expr.Expr) {
	r.castAllowed = r.b.Store(r.castAllowed, addr, expr.False)
}

// ArrayChunkID returns the memory region holding arrays of type t:
// one region for all one-dimensional reference arrays, one per primitive
// element type and one for all multidimensional arrays.
func (r *Registry) ArrayChunkID(t symtypes.ArrayType) ChunkID {
	if t.Dims != 1 {
		return ChunkID{Type: "Multi", Field: "Arrays"}
	}
	if _, ok := t.Base.(symtypes.RefType); ok {
		return ChunkID{Type: "RefValues", Field: "Arrays"}
	}
	return ChunkID{Type: r.FindRealType(t.Base).String(), Field: "Arrays"}
}

// class looks a reference type up, falling back to a bare class with no
// modifiers for names outside the universe.
func (r *Registry) class(t symtypes.RefType) *hierarchy.Class {
	if c, ok := r.provider.Class(t.Name); ok {
		return c
	}
	return &hierarchy.Class{Name: t.Name}
}
