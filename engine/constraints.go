package engine

import (
	"github.com/speakeasy-api/symtypes"
	"github.com/speakeasy-api/symtypes/expr"
)

// TypeConstraint ties an address to a type storage. Use IsConstraint to
// refine the type of an existing object and All when creating one.
type TypeConstraint struct {
	is          *expr.Is
	isNull      expr.Expr
	correctness expr.Expr

	b             *expr.Builder
	objectStorage symtypes.TypeStorage
	mockClasses   [2]string
}

// IsExpr returns the raw membership predicate.
func (c TypeConstraint) IsExpr() *expr.Is { return c.is }

// IsNullExpr returns the null check of the address.
func (c TypeConstraint) IsNullExpr() expr.Expr { return c.isNull }

// CorrectnessExpr returns the range constraints on the type id and the
// number of dimensions.
func (c TypeConstraint) CorrectnessExpr() expr.Expr { return c.correctness }

// IsConstraint returns the membership predicate. It is false for an empty
// storage and true for a storage as wide as Object's.
func (c TypeConstraint) IsConstraint() expr.Expr {
	if c.is.Storage.Len() == 0 {
		return expr.False
	}
	if c.is.Storage.IsObjectTypeStorage(c.objectStorage) {
		return expr.True
	}
	return c.is
}

// IsOrNullConstraint states that the object has one of the types or is null.
func (c TypeConstraint) IsOrNullConstraint() expr.Expr {
	return c.b.Or(c.IsConstraint(), c.isNull)
}

// IsNotNull states that the object has one of the types and is not null.
func (c TypeConstraint) IsNotNull() expr.Expr {
	return c.b.And(c.IsConstraint(), c.b.Not(c.isNull))
}

// All conjoins IsOrNullConstraint with the correctness constraints. Mock
// helper classes need no constraint at all.
func (c TypeConstraint) All() expr.Expr {
	if ref, ok := c.is.Storage.LeastCommonType().(symtypes.RefType); ok {
		if ref.Name == c.mockClasses[0] || ref.Name == c.mockClasses[1] {
			return expr.True
		}
	}
	return c.b.And(c.IsOrNullConstraint(), c.correctness)
}
