package expr

// Op identifies the kind of an expression node.
type Op int

const (
	OpNop Op = iota
	OpConst
	OpBool
	OpVar
	OpArray
	OpConstArray
	OpSelect
	OpStore
	OpEq
	OpLt
	OpLe
	OpGt
	OpGe
	OpNot
	OpAnd
	OpOr
	OpIs
	OpGenericParams
	OpIsGenericType
	OpTermArray
)

func (op Op) String() string {
	switch op {
	case OpNop:
		return "nop"
	case OpConst:
		return "const"
	case OpBool:
		return "bool"
	case OpVar:
		return "var"
	case OpArray:
		return "array"
	case OpConstArray:
		return "constarray"
	case OpSelect:
		return "select"
	case OpStore:
		return "store"
	case OpEq:
		return "="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpNot:
		return "not"
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpIs:
		return "is"
	case OpGenericParams:
		return "generic"
	case OpIsGenericType:
		return "isgeneric"
	case OpTermArray:
		return "termarray"
	default:
		panic(op)
	}
}

// ParseOp returns the operator with the given name.
func ParseOp(name string) (Op, bool) {
	for op := OpNop; op <= OpTermArray; op++ {
		if op.String() == name {
			return op, true
		}
	}
	return OpNop, false
}

// Sort is the solver sort of an expression.
type Sort uint8

const (
	SortBool Sort = iota
	SortInt
	SortAddr
	SortArray
)

func (s Sort) String() string {
	switch s {
	case SortBool:
		return "Bool"
	case SortInt:
		return "Int32"
	case SortAddr:
		return "Addr"
	case SortArray:
		return "Array"
	default:
		return "?"
	}
}
