package engine

import (
	"strings"

	"github.com/speakeasy-api/symtypes"
)

// Preferred concrete types get a fixed bonus. Boxed primitives outrank the
// common collections, which outrank anything else from the JDK.
var preferredTypeBonus = map[string]int{
	"java.lang.Integer":    8192,
	"java.lang.Character":  8192,
	"java.lang.Double":     8192,
	"java.lang.Long":       8192,
	"java.util.ArrayList":  4096,
	"java.util.HashMap":    4096,
	"java.util.LinkedList": 2048,
	"java.util.TreeMap":    2048,
	"java.util.HashSet":    2048,
}

// FindRating scores how likely t is to be a useful concrete type. Higher is
// better. The score only orders candidates and never affects soundness.
func (r *Registry) FindRating(t symtypes.RefType) int {
	if rating, ok := r.ratings[t]; ok {
		return rating
	}

	c := r.class(t)
	pkg := c.Package()
	rating := preferredTypeBonus[c.Name]

	if strings.HasPrefix(pkg, "java.lang") {
		rating += 1024
	}
	if strings.HasPrefix(pkg, "java.util") {
		rating += 512
	}
	if strings.HasPrefix(pkg, "java") {
		rating += 128
	}
	if c.IsPublic() {
		rating += 16
	}
	if c.IsPrivate() {
		rating -= 16
	}
	if strings.Contains(strings.ToLower(c.Name), "blocking") {
		rating -= 32
	}
	if symtypes.IsObject(t) {
		rating -= 32
	}
	if c.IsAnonymous() {
		rating -= 128
	}
	if c.IsNested() {
		rating -= 4096
	}
	if c.IsInappropriate() {
		rating -= 8192
	}

	r.ratings[t] = rating
	return rating
}
