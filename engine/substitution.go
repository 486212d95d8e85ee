package engine

import (
	"slices"

	"github.com/speakeasy-api/symtypes"
	"github.com/speakeasy-api/symtypes/hierarchy"
)

// substitutionTable pairs target classes with the mock classes that
// replace their methods.
type substitutionTable struct {
	targetToMock map[string]*hierarchy.Class
	mockToTarget map[string]*hierarchy.Class
}

// substitutionsTable builds the table on first use.
func (r *Registry) substitutionsTable() *substitutionTable {
	if r.substitutions != nil {
		return r.substitutions
	}
	t := &substitutionTable{
		targetToMock: make(map[string]*hierarchy.Class),
		mockToTarget: make(map[string]*hierarchy.Class),
	}
	for c := range r.provider.Classes() {
		if c.Mock == nil {
			continue
		}
		name, ok := hierarchy.ClassNameFromSignature(c.Mock.Target)
		if !ok {
			continue
		}
		target, ok := r.provider.Class(name)
		if !ok {
			r.log.Warnf("mock %s targets unknown class %s", c.Name, name)
			continue
		}
		t.targetToMock[target.Name] = c
		t.mockToTarget[c.Name] = target
	}
	r.log.Debugf("built substitution table with %d entries", len(t.targetToMock))
	r.substitutions = t
	return t
}

// FindSubstitutionOrNull returns the method of the mock class that
// replaces m: same name and parameter types. Constructors are substituted
// only by methods carrying the mock-constructor marker.
func (r *Registry) FindSubstitutionOrNull(m hierarchy.Method) (hierarchy.Method, bool) {
	mock, ok := r.substitutionsTable().targetToMock[m.Declaring]
	if !ok {
		return hierarchy.Method{}, false
	}

	var found []hierarchy.Method
	for _, candidate := range mock.MethodsNamed(m.Name) {
		if slices.Equal(candidate.Params, m.Params) {
			found = append(found, candidate)
		}
	}
	if len(found) != 1 {
		return hierarchy.Method{}, false
	}
	if m.IsConstructor() && !found[0].MockConstructor {
		return hierarchy.Method{}, false
	}
	return found[0], true
}

// FindSubstitutionByTargetOrNull returns the mock class of target.
func (r *Registry) FindSubstitutionByTargetOrNull(target string) (*hierarchy.Class, bool) {
	c, ok := r.substitutionsTable().targetToMock[target]
	return c, ok
}

// FindTargetBySubstitutionOrNull returns the class whose methods mock replaces.
func (r *Registry) FindTargetBySubstitutionOrNull(mock string) (*hierarchy.Class, bool) {
	c, ok := r.substitutionsTable().mockToTarget[mock]
	return c, ok
}

// FindRealType maps a mock class to its target and returns every other
// type unchanged.
func (r *Registry) FindRealType(t symtypes.Type) symtypes.Type {
	ref, ok := t.(symtypes.RefType)
	if !ok {
		return t
	}
	if target, ok := r.FindTargetBySubstitutionOrNull(ref.Name); ok {
		return target.Type()
	}
	return t
}
