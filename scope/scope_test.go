package scope

import (
	"testing"

	"github.com/kongclass/kongc/types"
)

func TestInsertAndLookup(t *testing.T) {
	root := New()
	sym := types.Type{BaseType: types.Integer}

	if !root.Insert("x", sym) {
		t.Fatalf("expected first insert of x to succeed")
	}
	if root.Insert("x", sym) {
		t.Fatalf("expected duplicate insert of x to fail")
	}

	got, ok := root.Lookup("x")
	if !ok || got.BaseType != types.Integer {
		t.Fatalf("expected to find x with BaseType Integer, got %+v ok=%v", got, ok)
	}

	if root.Exists("y") {
		t.Fatalf("did not expect y to exist")
	}
}

func TestNestedLookupWalksParent(t *testing.T) {
	root := New()
	root.Insert("outer", types.Type{BaseType: types.Boolean})

	child := root.OpenScope()
	child.Insert("inner", types.Type{BaseType: types.Integer})

	if !child.Exists("outer") {
		t.Fatalf("expected child scope to see outer's binding via Parent")
	}
	if root.Exists("inner") {
		t.Fatalf("did not expect root scope to see child's binding")
	}

	back := child.CloseScope()
	if back != root {
		t.Fatalf("expected CloseScope to return root")
	}
}

// TestOpenScopeAtDivergesParentFromLast exercises the class-pass
// inheritance mechanism: a subclass's scope resolves names through its
// superclass's scope (Parent) but returns control to the caller's scope
// (Last) on close.
func TestOpenScopeAtDivergesParentFromLast(t *testing.T) {
	program := New()
	superScope := program.OpenScope()
	superScope.Insert("field", types.Type{BaseType: types.Integer})

	// The program scope is "current" when the subclass is entered.
	subScope := program.OpenScopeAt(superScope)

	if !subScope.Exists("field") {
		t.Fatalf("expected subclass scope to inherit superclass's field via Parent")
	}
	if subScope.Parent() != superScope {
		t.Fatalf("expected subclass scope's Parent to be the superclass scope")
	}

	back := subScope.CloseScope()
	if back != program {
		t.Fatalf("expected CloseScope to restore the program scope (Last), not the superclass scope (Parent)")
	}
}

func TestCloseScopeOnRootPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected CloseScope on a root scope to panic")
		}
	}()
	New().CloseScope()
}

func TestExistsLocalDoesNotWalkParent(t *testing.T) {
	root := New()
	root.Insert("outer", types.Type{BaseType: types.Integer})
	child := root.OpenScope()

	if child.ExistsLocal("outer") {
		t.Fatalf("ExistsLocal should not see bindings in ancestor scopes")
	}
	child.Insert("inner", types.Type{BaseType: types.Integer})
	if !child.ExistsLocal("inner") {
		t.Fatalf("expected ExistsLocal to see child's own binding")
	}
}
