package engine

import (
	"github.com/speakeasy-api/symtypes"
	"github.com/speakeasy-api/symtypes/expr"
)

// ChunkID names a region of symbolic memory, usually one field of one class.
type ChunkID struct {
	Type  string
	Field string
}

func (id ChunkID) String() string { return id.Type + "_" + id.Field }

// MemoryChunkDescriptor describes a memory region: the owner type and the
// type of the stored elements.
type MemoryChunkDescriptor struct {
	ID          ChunkID
	Type        symtypes.Type
	ElementType symtypes.Type
}

// NamedStore writes Value at Index of the region Descriptor.
type NamedStore struct {
	Descriptor MemoryChunkDescriptor
	Index      expr.Expr
	Value      expr.Expr
}

// MemoryUpdate is a batch of stores the caller merges into its memory.
type MemoryUpdate struct {
	Stores                  []NamedStore
	TouchedChunkDescriptors []MemoryChunkDescriptor
}

// IsEmpty reports whether u changes nothing.
func (u MemoryUpdate) IsEmpty() bool {
	return len(u.Stores) == 0 && len(u.TouchedChunkDescriptors) == 0
}

// MethodResult is a value produced by a modeled operation together with
// the constraints and memory changes that come with it.
type MethodResult struct {
	Value           ReferenceValue
	HardConstraints []expr.Expr
	MemoryUpdate    MemoryUpdate
}

var (
	classRefTypeDescriptor = MemoryChunkDescriptor{
		ID:          ChunkID{Type: symtypes.ClassRefClassName, Field: "modeledType"},
		Type:        symtypes.ClassRefType,
		ElementType: symtypes.PrimType{Kind: symtypes.Int},
	}
	classRefNumDimensionsDescriptor = MemoryChunkDescriptor{
		ID:          ChunkID{Type: symtypes.ClassRefClassName, Field: "modeledNumDimensions"},
		Type:        symtypes.ClassRefType,
		ElementType: symtypes.PrimType{Kind: symtypes.Int},
	}
)
