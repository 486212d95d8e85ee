package engine

import (
	"fmt"

	"github.com/speakeasy-api/symtypes"
)

// NoConcreteTypeError reports that neither a type nor its fallback has an
// instantiable inheritor. FindAnyConcreteInheritorIncludingOrDefaultUnsafe
// panics with this value.
type NoConcreteTypeError struct {
	Evaluated symtypes.RefType
	Default   symtypes.RefType
}

func (e *NoConcreteTypeError) Error() string {
	return fmt.Sprintf("no concrete types found neither for %s, nor for %s", e.Evaluated, e.Default)
}
