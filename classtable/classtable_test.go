package classtable

import (
	"testing"

	"github.com/kongclass/kongc/ast"
	"github.com/kongclass/kongc/scope"
	"github.com/kongclass/kongc/types"
)

func TestOffsetTableInsertAndLookup(t *testing.T) {
	ot := NewOffsetTable()
	ot.Insert("x", 0, WordSize, types.ClassType{BaseType: types.Integer})
	ot.SetTotalSize(WordSize)

	if !ot.Exists("x") {
		t.Fatalf("expected x to exist")
	}
	if off := ot.Offset("x"); off != 0 {
		t.Fatalf("expected offset 0, got %d", off)
	}
	if sz := ot.Size("x"); sz != WordSize {
		t.Fatalf("expected size %d, got %d", WordSize, sz)
	}
	if ot.TotalSize() != WordSize {
		t.Fatalf("expected total size %d, got %d", WordSize, ot.TotalSize())
	}
}

// TestCopyIntoPreservesSuperclassOffsets checks spec.md invariant 4: a
// subclass's offset table extends its superclass's, with every
// inherited field's offset unchanged.
func TestCopyIntoPreservesSuperclassOffsets(t *testing.T) {
	super := NewOffsetTable()
	super.Insert("a", 0, WordSize, types.ClassType{BaseType: types.Integer})
	super.Insert("b", WordSize, WordSize, types.ClassType{BaseType: types.Boolean})
	super.SetTotalSize(2 * WordSize)

	sub := NewOffsetTable()
	super.CopyInto(sub)
	sub.Insert("c", sub.TotalSize(), WordSize, types.ClassType{BaseType: types.Integer})
	sub.SetTotalSize(sub.TotalSize() + WordSize)

	if sub.Offset("a") != super.Offset("a") {
		t.Fatalf("expected inherited field a to keep superclass offset")
	}
	if sub.Offset("b") != super.Offset("b") {
		t.Fatalf("expected inherited field b to keep superclass offset")
	}
	if sub.Offset("c") != 2*WordSize {
		t.Fatalf("expected subclass's own field c appended after super's fields, got %d", sub.Offset("c"))
	}
	if sub.TotalSize() != 3*WordSize {
		t.Fatalf("expected total size %d, got %d", 3*WordSize, sub.TotalSize())
	}
}

func TestClassTableInsertLookupParentOf(t *testing.T) {
	ct := New()
	s := scope.New()

	aBody := &ast.Class{ClassID: "A"}
	ct.Insert("A", "", aBody, s)

	bBody := &ast.Class{ClassID: "B", Superclass: "A"}
	ct.Insert("B", "A", bBody, s.OpenScope())

	if !ct.Exists("A") || !ct.Exists("B") {
		t.Fatalf("expected both A and B to exist")
	}

	parent, ok := ct.ParentOf("B")
	if !ok || parent.Name != "A" {
		t.Fatalf("expected B's parent to be A, got %+v ok=%v", parent, ok)
	}

	if _, ok := ct.ParentOf("A"); ok {
		t.Fatalf("expected A (no declared superclass) to have no parent")
	}
}

// TestResolveMethodWalksSuperclassChain exercises spec.md's S4 dispatch
// scenario: a method declared on a superclass resolves through a
// subclass that does not itself declare it.
func TestResolveMethodWalksSuperclassChain(t *testing.T) {
	ct := New()
	s := scope.New()

	aMethod := &ast.Method{MethodID: "f"}
	aBody := &ast.Class{ClassID: "A", Methods: []*ast.Method{aMethod}}
	ct.Insert("A", "", aBody, s)

	bBody := &ast.Class{ClassID: "B", Superclass: "A"}
	ct.Insert("B", "A", bBody, s.OpenScope())

	owner, ok := ct.ResolveMethod("B", "f")
	if !ok || owner != "A" {
		t.Fatalf("expected f to resolve to owner A, got %q ok=%v", owner, ok)
	}

	if _, ok := ct.ResolveMethod("B", "nope"); ok {
		t.Fatalf("expected an undeclared method to fail resolution")
	}
}
