// Package ast defines the abstract syntax tree for the class language.
//
// The AST is the input contract between the (external) parser and the
// three passes this repository implements: the class/symbol pass, the
// type checker, and the code generator. Every node carries an Attribute,
// the decoration slot the type checker mutates in place and the code
// generator later reads.
//
// Key components:
//   - Node: the base interface for all AST nodes
//   - Statement / Expression: marker interfaces over Node
//   - Program: the root node, an ordered sequence of classes
package ast

import (
	"github.com/kongclass/kongc/scope"
	"github.com/kongclass/kongc/types"
)

// Node is the base interface implemented by every AST node.
type Node interface {
	// Attr returns the node's decoration attribute.
	Attr() *Attribute
}

// Statement is implemented by nodes that appear in a method body's
// statement list.
type Statement interface {
	Node
	statementNode()
}

// Expression is implemented by nodes that produce a value.
type Expression interface {
	Node
	expressionNode()
}

// Attribute is the decoration carried by every AST node. TypeCheck
// populates Type and Scope; CodeGen reads both. CodeGen records field and
// local layout in the class and frame offset tables; it does not write
// Type.Offset/Type.Size.
type Attribute struct {
	Line  int
	Type  types.Type
	Scope *scope.Scope
}

func (a *Attribute) Attr() *Attribute { return a }

// Program is the root node: an ordered sequence of classes.
type Program struct {
	Attribute
	Classes []*Class
}

// Class declares a class, its fields, and its methods. Superclass is empty
// for a class with no explicit superclass.
type Class struct {
	Attribute
	ClassID    string
	Superclass string // "" if none
	Decls      []*Declaration
	Methods    []*Method
}

// Declaration declares one or more variables of a single type, either at
// class scope (fields) or inside a method body (locals).
type Declaration struct {
	Attribute
	Type        TypeAnnotation
	VariableIDs []string
}

// Method declares a method: its parameters, return type, and body.
type Method struct {
	Attribute
	MethodID   string
	Params     []*Parameter
	ReturnType TypeAnnotation
	Body       *MethodBody
}

// MethodBody is a method's local declarations, statements, and return.
type MethodBody struct {
	Attribute
	Decls      []*Declaration
	Statements []Statement
	Return     *Return
}

// Parameter declares one formal parameter.
type Parameter struct {
	Attribute
	VariableID string
	Type       TypeAnnotation
}

// TypeAnnotation is the surface syntax for a type: one of TInteger,
// TBoolean, TNothing, or TObject(classID).
type TypeAnnotation struct {
	Line    int
	Base    types.BaseType // Integer, Boolean, Nothing, or Object
	ClassID string         // only meaningful when Base == types.Object
}

// Return is an optional return statement; Expr is nil for a bare `return;`.
type Return struct {
	Attribute
	Expr Expression
}

func (r *Return) statementNode() {}

// --- Statements ---

// Assignment assigns the value of Expr to VariableID.
type Assignment struct {
	Attribute
	VariableID string
	Expr       Expression
}

func (s *Assignment) statementNode() {}

// If executes Then when Cond is truthy. There is no else branch in this
// language (see spec.md §3).
type If struct {
	Attribute
	Cond Expression
	Then Statement
}

func (s *If) statementNode() {}

// Print evaluates Expr and prints its integer value.
type Print struct {
	Attribute
	Expr Expression
}

func (s *Print) statementNode() {}

// --- Expressions ---

// BinaryOp is a catch-all node for the two-operand operators: Plus, Minus,
// Times, Divide, And, LessThan, LessThanEqualTo.
type BinaryOp struct {
	Attribute
	Op    BinOp
	Left  Expression
	Right Expression
}

func (e *BinaryOp) expressionNode() {}

// BinOp enumerates the binary operators.
type BinOp int

const (
	Plus BinOp = iota
	Minus
	Times
	Divide
	And
	LessThan
	LessThanEqualTo
)

// UnaryOp is a catch-all node for the one-operand operators: UnaryMinus,
// Not.
type UnaryOp struct {
	Attribute
	Op      UnOp
	Operand Expression
}

func (e *UnaryOp) expressionNode() {}

// UnOp enumerates the unary operators.
type UnOp int

const (
	UnaryMinus UnOp = iota
	Not
)

// MethodCall invokes MethodID on the object bound to VariableID.
type MethodCall struct {
	Attribute
	VariableID string
	MethodID   string
	Args       []Expression
}

func (e *MethodCall) expressionNode() {}

// SelfCall invokes MethodID on the current receiver (self).
type SelfCall struct {
	Attribute
	MethodID string
	Args     []Expression
}

func (e *SelfCall) expressionNode() {}

// Variable references a local, parameter, or field by name.
type Variable struct {
	Attribute
	VariableID string
}

func (e *Variable) expressionNode() {}

// IntegerLiteral is a literal integer constant.
type IntegerLiteral struct {
	Attribute
	Value int64
}

func (e *IntegerLiteral) expressionNode() {}

// BooleanLiteral is a literal boolean constant.
type BooleanLiteral struct {
	Attribute
	Value bool
}

func (e *BooleanLiteral) expressionNode() {}

// Nothing is the literal value of type Nothing; it never emits code.
type Nothing struct {
	Attribute
}

func (e *Nothing) expressionNode() {}
