// Package classtable implements the flat class-name-to-class-record table
// and the per-class/per-method offset tables described in spec.md §3/§4.2.
//
// It is grounded on classhierarchy.{hpp,cpp} from the C++ original this
// spec was distilled from (see original_source/ in the retrieval pack),
// adapted to Go idiom the way the teacher's compiler.SymbolTable is
// structured: a small struct wrapping a map, with Define/Resolve-style
// methods instead of raw pointer manipulation.
package classtable

import (
	"github.com/kongclass/kongc/ast"
	"github.com/kongclass/kongc/scope"
	"github.com/kongclass/kongc/types"
)

// WordSize is the size in bytes of every field, local, and parameter slot
// in this language: all primitives and object references are 4 bytes.
const WordSize = 4

// OffsetTable maps an identifier to its layout record. One exists per
// class (fields, non-negative offsets growing upward) and one per method
// (locals, negative offsets below %ebp; parameters, positive offsets from
// +12 upward).
type OffsetTable struct {
	totalSize int
	paramSize int
	offset    map[string]int
	size      map[string]int
	declType  map[string]types.ClassType
	order     []string // insertion order, for deterministic iteration
}

// NewOffsetTable returns an empty offset table with TotalSize 0.
func NewOffsetTable() *OffsetTable {
	return &OffsetTable{
		offset:   make(map[string]int),
		size:     make(map[string]int),
		declType: make(map[string]types.ClassType),
	}
}

// Insert records the layout of symname. It does not check for duplicates
// — the type checker is responsible for rejecting duplicate identifiers
// via the scope tree before this is called.
func (t *OffsetTable) Insert(symname string, offset, size int, declType types.ClassType) {
	if _, exists := t.offset[symname]; !exists {
		t.order = append(t.order, symname)
	}
	t.offset[symname] = offset
	t.size[symname] = size
	t.declType[symname] = declType
}

// Offset returns the recorded byte offset of symname.
func (t *OffsetTable) Offset(symname string) int { return t.offset[symname] }

// Size returns the recorded size in bytes of symname.
func (t *OffsetTable) Size(symname string) int { return t.size[symname] }

// DeclType returns the recorded declared type of symname.
func (t *OffsetTable) DeclType(symname string) types.ClassType { return t.declType[symname] }

// Exists reports whether symname has a recorded layout.
func (t *OffsetTable) Exists(symname string) bool {
	_, ok := t.offset[symname]
	return ok
}

// TotalSize returns the cumulative byte size tracked so far (for a class:
// the object's total field size; for a method: 4 plus the locals' sizes).
func (t *OffsetTable) TotalSize() int { return t.totalSize }

// SetTotalSize overwrites the cumulative size.
func (t *OffsetTable) SetTotalSize(n int) { t.totalSize = n }

// ParamSize returns the cumulative parameter byte size.
func (t *OffsetTable) ParamSize() int { return t.paramSize }

// SetParamSize overwrites the cumulative parameter size.
func (t *OffsetTable) SetParamSize(n int) { t.paramSize = n }

// Names returns the identifiers in insertion order, for debug/inspect use.
func (t *OffsetTable) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// CopyInto seeds dst with every entry of t, preserving offsets and sizes.
// This is how a subclass's field layout starts out prefix-compatible with
// its superclass's (spec.md §3 invariant 4): dst's own fields are then
// appended starting from t.TotalSize().
func (t *OffsetTable) CopyInto(dst *OffsetTable) {
	for _, name := range t.order {
		dst.Insert(name, t.offset[name], t.size[name], t.declType[name])
	}
	dst.totalSize = t.totalSize
	dst.paramSize = t.paramSize
}

// ClassNode is a class's record in the ClassTable: its name, its
// superclass name (empty for none), its AST body, its class scope (which
// holds its fields and methods as bindings), and its field offset table.
type ClassNode struct {
	Name       string
	Superclass string // "" for no explicit superclass
	Body       *ast.Class
	ClassScope *scope.Scope
	Offsets    *OffsetTable
}

// ClassTable maps class name to ClassNode. Class names are unique; a
// superclass name must already be present at insertion time (the class
// pass processes classes in an order that guarantees this, or rejects the
// program — see typecheck's dup_ident_name / sym_name_undef handling).
type ClassTable struct {
	classes map[string]*ClassNode
	order   []string
}

// New returns an empty ClassTable.
func New() *ClassTable {
	return &ClassTable{classes: make(map[string]*ClassNode)}
}

// Insert records a new class. The caller is responsible for having
// verified that superclass (if non-empty) already exists. Offsets starts
// out empty: offset assignment is codegen's job (spec.md: "offset, size :
// int (populated by codegen)"), not the class/symbol pass's — codegen
// seeds a subclass's OffsetTable from its superclass's via CopyInto when
// it visits the class, by which point the superclass (processed earlier
// in declaration order) has its own offsets already assigned.
func (ct *ClassTable) Insert(name, superclass string, body *ast.Class, classScope *scope.Scope) *ClassNode {
	node := &ClassNode{
		Name:       name,
		Superclass: superclass,
		Body:       body,
		ClassScope: classScope,
		Offsets:    NewOffsetTable(),
	}
	if _, exists := ct.classes[name]; !exists {
		ct.order = append(ct.order, name)
	}
	ct.classes[name] = node
	return node
}

// Lookup returns the ClassNode for name, if any.
func (ct *ClassTable) Lookup(name string) (*ClassNode, bool) {
	n, ok := ct.classes[name]
	return n, ok
}

// Exists reports whether name is a known class.
func (ct *ClassTable) Exists(name string) bool {
	_, ok := ct.classes[name]
	return ok
}

// ParentOf returns name's superclass ClassNode. The bool result is false
// when name has no declared superclass (the "top class" sentinel case in
// spec.md §4.2) or when name itself is unknown.
func (ct *ClassTable) ParentOf(name string) (*ClassNode, bool) {
	node, ok := ct.classes[name]
	if !ok || node.Superclass == "" {
		return nil, false
	}
	return ct.Lookup(node.Superclass)
}

// Names returns class names in insertion order, for debug/inspect use.
func (ct *ClassTable) Names() []string {
	out := make([]string, len(ct.order))
	copy(out, ct.order)
	return out
}

// ResolveMethod walks from className up the superclass chain looking for
// a class whose ClassNode.Body declares methodID, returning the owning
// class's name. This implements the static dispatch rule of spec.md §4.3:
// the receiver's declared class, then its ancestors, in order.
func (ct *ClassTable) ResolveMethod(className, methodID string) (string, bool) {
	for cur, ok := ct.Lookup(className); ok; cur, ok = ct.Lookup(cur.Superclass) {
		for _, m := range cur.Body.Methods {
			if m.MethodID == methodID {
				return cur.Name, true
			}
		}
		if cur.Superclass == "" {
			break
		}
	}
	return "", false
}
