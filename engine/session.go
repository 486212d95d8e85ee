// Package engine assigns type ids, builds type storages and emits the type
// constraints of one symbolic-execution session.
//
// Example:
//
//	u, _ := hierarchy.LoadYAML(f)
//	s, err := engine.NewSession(u)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	storage := s.Resolver().ConstructTypeStorageForType(symtypes.RefType{Name: "zoo.Animal"}, false)
//	fmt.Println(storage.PossibleConcreteTypes())
package engine

import (
	"errors"
	"fmt"
	"io"

	"github.com/speakeasy-api/symtypes"
	"github.com/speakeasy-api/symtypes/expr"
	"github.com/speakeasy-api/symtypes/hierarchy"
)

// Session bundles the registry and resolver of one analysis session over
// one class universe. Discard the session when the universe changes.
type Session struct {
	provider hierarchy.Provider
	builder  *expr.Builder
	registry *Registry
	resolver *Resolver
	opts     Options
}

// NewSession creates a session over provider. The universe must contain
// java.lang.Object and java.lang.Class.
func NewSession(provider hierarchy.Provider, opts ...Options) (*Session, error) {
	opt := DefaultOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}
	if err := validateProvider(provider); err != nil {
		return nil, fmt.Errorf("invalid universe: %w", err)
	}
	if err := opt.validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	b := expr.NewBuilder()
	registry := NewRegistry(provider, b, opt)
	return &Session{
		provider: provider,
		builder:  b,
		registry: registry,
		resolver: NewResolver(registry, provider, b, opt),
		opts:     opt,
	}, nil
}

// LoadSession reads a universe snapshot and creates a session over it.
func LoadSession(r io.Reader, opts ...Options) (*Session, error) {
	u, err := hierarchy.LoadYAML(r)
	if err != nil {
		return nil, fmt.Errorf("failed to load universe: %w", err)
	}
	return NewSession(u, opts...)
}

func validateProvider(p hierarchy.Provider) error {
	if p == nil {
		return errors.New("provider cannot be nil")
	}
	for _, name := range []string{symtypes.ObjectClassName, symtypes.ClassRefClassName} {
		if _, ok := p.Class(name); !ok {
			return hierarchy.NewClassNotFoundError(name)
		}
	}
	return nil
}

func (s *Session) Provider() hierarchy.Provider { return s.provider }
func (s *Session) Builder() *expr.Builder       { return s.builder }
func (s *Session) Registry() *Registry          { return s.registry }
func (s *Session) Resolver() *Resolver          { return s.resolver }
func (s *Session) Options() Options             { return s.opts }

// String returns a short summary for debugging.
func (s *Session) String() string {
	if s == nil {
		return "<nil>"
	}
	return fmt.Sprintf("Session{classes: %d, numberOfTypes: %d, typeIds: %d, bitVecs: %d}",
		s.provider.Len(), s.registry.NumberOfTypes(), s.registry.typeIDs.len(), s.registry.bitVecs.len())
}
