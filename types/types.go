// Package types defines the decoration attribute carried by every AST node
// after type-checking: a tagged type record used both for node decoration
// and as the value type stored in symbol-scope and offset-table entries.
//
// The shape and the tag-constant idiom are adapted from the teacher's
// object package (object.Object / object.Type), which tags runtime values
// with a string constant and a Type()/Inspect() pair; here the same idea
// tags static types instead of runtime values, since this compiler never
// executes anything — it only type-checks and emits text.
package types

// BaseType is the closed set of base types a Type can carry.
type BaseType int

const (
	// Undef marks a node the type checker has not yet visited.
	Undef BaseType = iota
	Integer
	Boolean
	Function
	Object
	Nothing
)

// String returns a human-readable name, used in debug/inspect output.
func (b BaseType) String() string {
	switch b {
	case Integer:
		return "Integer"
	case Boolean:
		return "Boolean"
	case Function:
		return "Function"
	case Object:
		return "Object"
	case Nothing:
		return "Nothing"
	default:
		return "Undef"
	}
}

// ClassType is meaningful when BaseType is Object (ClassID names the class)
// or when it is the return type of a MethodType (ClassID is "" unless the
// return type is itself Object).
type ClassType struct {
	BaseType BaseType
	ClassID  string
}

// MethodType describes a method's signature: its return type and the
// types of its parameters, in declaration order.
type MethodType struct {
	ReturnType ClassType
	ArgsType   []ClassType
}

// Type is the value carried in every AST node's decoration attribute and
// every symbol-table / offset-table entry. It plays both roles because the
// source language's symbol table entries are themselves type records (see
// spec.md §3).
type Type struct {
	BaseType   BaseType
	ClassType  ClassType
	MethodType MethodType

	// Offset and Size are not set by the type checker or the code
	// generator: the code generator keeps each field's, local's, and
	// parameter's byte offset and size in a classtable.OffsetTable
	// instead, so these stay zero on decorated nodes and scope entries.
	Offset int
	Size   int
}

// IsPrimitive reports whether t is one of the two 4-byte scalar types that
// arithmetic, comparison, and boolean operators accept.
func (t Type) IsPrimitive() bool {
	return t.BaseType == Integer || t.BaseType == Boolean
}
