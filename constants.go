// Package symtypes holds the data model shared by the type registry and
// resolver: JVM types, type storages and the numeric constants that
// partition the symbolic address space.
package symtypes

// Address space and counter layout. Downstream components rely on these
// values to tell object addresses, class-reference addresses and type ids
// apart in solver models.
const (
	// ObjectCounterInitialValue is the first ordinary object address; 0 is null.
	ObjectCounterInitialValue = 0x00000001

	// ClassRefAddrsInitialValue is the first class-reference address. Further
	// class references are allocated downwards from it.
	ClassRefAddrsInitialValue = -16777216 // -(2^24)

	// TypeCounterInitialValue is the first type id; 0 is the empty type.
	TypeCounterInitialValue = 0x00000001

	SymbolicReturnNameCounterInitialValue int64 = 0x80000000

	ObjectNumDimensions = 0
	EmptyTypeID         = 0

	// NullAddr is the address of the null object.
	NullAddr = 0
)
