package engine

import (
	"github.com/speakeasy-api/symtypes"
	"github.com/speakeasy-api/symtypes/expr"
)

// CreateClassRef returns the class object of baseType with numDimensions
// array dimensions. Every base type has exactly one class-reference
// address per session, allocated downwards from
// symtypes.ClassRefAddrsInitialValue.
func (r *Registry) CreateClassRef(baseType symtypes.Type, numDimensions int) MethodResult {
	raw, fresh := r.classRefs.getOrPut(baseType, func() int64 {
		addr := r.classRefCounter
		r.classRefCounter--
		return addr
	})
	if fresh {
		r.log.Debugf("allocated class reference %d for %s", raw, baseType)
	}
	addr := r.b.Addr(raw)

	storage := symtypes.NewSingleTypeStorage(symtypes.ClassRefType)
	value := NewObjectValue(storage, addr)
	constraint := r.TypeConstraint(addr, storage).All()

	typeID := r.b.Int(int64(r.FindTypeID(baseType)))
	dims := r.b.Int(int64(numDimensions))

	return MethodResult{
		Value:           value,
		HardConstraints: []expr.Expr{constraint},
		MemoryUpdate: MemoryUpdate{
			Stores: []NamedStore{
				{Descriptor: classRefTypeDescriptor, Index: addr, Value: typeID},
				{Descriptor: classRefNumDimensionsDescriptor, Index: addr, Value: dims},
			},
			TouchedChunkDescriptors: []MemoryChunkDescriptor{
				classRefTypeDescriptor,
				classRefNumDimensionsDescriptor,
			},
		},
	}
}

// ClassRefAddr returns the class-reference address of baseType if one was
// allocated.
func (r *Registry) ClassRefAddr(baseType symtypes.Type) (int64, bool) {
	return r.classRefs.get(baseType)
}

// ClassRefTypeOrNull returns the base type whose class reference lives at addr.
func (r *Registry) ClassRefTypeOrNull(addr int64) (symtypes.Type, bool) {
	return r.classRefs.key(addr)
}
