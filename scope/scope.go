// Package scope implements the symbol scope tree used by the type checker
// and read by the code generator.
//
// A scope tree node has two upward links, not one: Parent, used for name
// resolution (lookup walks Parent until it finds a binding or runs out of
// ancestors), and Last, the scope to return to on Close. They coincide for
// an ordinarily nested scope (entering a method body, say), but diverge
// when a subclass body is opened: its Parent is the superclass's scope (so
// inherited field and method names resolve), while its Last is the
// enclosing program scope the class pass was in before it started
// visiting this class. This mirrors the teacher's SymbolTable.Outer
// pattern, split into two links because this language's class pass needs
// both relationships at once.
package scope

import "github.com/kongclass/kongc/types"

// Scope is one node in the scope tree.
type Scope struct {
	parent   *Scope
	last     *Scope
	children []*Scope
	store    map[string]types.Type
}

// New creates a fresh root scope with no parent and no last.
func New() *Scope {
	return &Scope{store: make(map[string]types.Type)}
}

// OpenScope creates a child of s whose Parent and Last are both s, and
// returns it as the new current scope.
func (s *Scope) OpenScope() *Scope {
	child := &Scope{parent: s, last: s, store: make(map[string]types.Type)}
	s.children = append(s.children, child)
	return child
}

// OpenScopeAt creates a child scope whose Parent is parent (so name
// resolution walks parent's ancestry) but whose Last is s (so Close
// returns to s, the caller's current scope). This is how entering a
// subclass body inherits the superclass's scope while still returning
// control to the program scope on exit.
func (s *Scope) OpenScopeAt(parent *Scope) *Scope {
	child := &Scope{parent: parent, last: s, store: make(map[string]types.Type)}
	parent.children = append(parent.children, child)
	return child
}

// CloseScope returns the scope to resume at after leaving s. It panics if
// s is a root scope (no Last) — a compiler bug, not a source error, per
// spec.md §7.
func (s *Scope) CloseScope() *Scope {
	if s.last == nil {
		panic("scope: CloseScope called on a root scope")
	}
	return s.last
}

// Insert binds name to sym in s's own table. It returns false without
// modifying s if name is already bound in this scope (the caller is
// expected to raise dup_ident_name).
func (s *Scope) Insert(name string, sym types.Type) bool {
	if _, exists := s.store[name]; exists {
		return false
	}
	s.store[name] = sym
	return true
}

// Lookup searches s, then s's ancestors via Parent, returning the first
// match. The second return value is false if no scope in the chain binds
// name.
func (s *Scope) Lookup(name string) (types.Type, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if sym, ok := cur.store[name]; ok {
			return sym, true
		}
	}
	return types.Type{}, false
}

// Exists reports whether Lookup would succeed for name.
func (s *Scope) Exists(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// ExistsLocal reports whether name is bound directly in s, without
// searching ancestors.
func (s *Scope) ExistsLocal(name string) bool {
	_, ok := s.store[name]
	return ok
}

// Parent returns s's parent scope, or nil at the root.
func (s *Scope) Parent() *Scope { return s.parent }

// Names returns the names bound directly in s, for debug/inspect use.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.store))
	for n := range s.store {
		names = append(names, n)
	}
	return names
}
