// Package typecheck implements the class/symbol resolution pass and the
// type checker in one tree-walk, exactly as the original typecheck.cpp
// visitor combines the two: building the class table and scope tree is
// inseparable from checking the names and types that populate them.
//
// Check returns the first semantic error it encounters and stops — this
// language's checker is fatal-on-first-error (see typecheck.cpp's
// t_error, which calls exit(1)), so Check uses an internal panic/recover
// to unwind to the first failure rather than threading an error value
// through every visit method.
package typecheck

import (
	"fmt"

	"github.com/kongclass/kongc/ast"
	"github.com/kongclass/kongc/classtable"
	"github.com/kongclass/kongc/scope"
	"github.com/kongclass/kongc/types"
)

// ErrorKind is the closed set of semantic errors this checker raises.
// Names and ordering follow typecheck.cpp's errortype enum.
type ErrorKind int

const (
	NoProgram ErrorKind = iota
	NoStart
	StartArgsErr

	DupIdentName
	SymNameUndef
	SymTypeMismatch
	CallNargMismatch
	CallArgsMismatch
	RetTypeMismatch

	IncompatAssign
	IfPredErr

	ExprTypeErr

	NoClassMethod
)

var messages = map[ErrorKind]string{
	NoProgram:       "no Program class",
	NoStart:         "no start function in Program class",
	StartArgsErr:    "start function has arguments",
	DupIdentName:    "duplicate identifier name in same scope",
	SymNameUndef:    "symbol by name undefined",
	SymTypeMismatch: "symbol by name defined, but of unexpected type",
	CallNargMismatch: "function call has different number of args " +
		"than the declaration",
	CallArgsMismatch: "type mismatch in function call args",
	RetTypeMismatch:  "type mismatch in return statement",
	IncompatAssign:   "types of right and left hand side do not match in assignment",
	IfPredErr:        "predicate of if statement is not boolean",
	ExprTypeErr:      "incompatible types used in expression",
	NoClassMethod:    "function doesn't exist in object",
}

// Error is a single diagnosed semantic error, formatted the way
// typecheck.cpp's t_error prints to its error file.
type Error struct {
	Line int
	Kind ErrorKind
}

func (e *Error) Error() string {
	return fmt.Sprintf("on line number %d, error: %s", e.Line, messages[e.Kind])
}

// Result holds the products of a successful check: the decorated AST (in
// place, via pointers already reachable from prog) plus the class table
// the code generator walks to resolve field offsets and method dispatch.
type Result struct {
	Classes *classtable.ClassTable
}

// Check type-checks prog, decorating every node's Attribute in place. It
// returns the populated class table on success, or the first semantic
// error encountered.
func Check(prog *ast.Program) (res *Result, err error) {
	c := &checker{ct: classtable.New(), root: scope.New()}
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*Error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()
	c.cur = c.root
	c.visitProgram(prog)
	return &Result{Classes: c.ct}, nil
}

type checker struct {
	ct   *classtable.ClassTable
	root *scope.Scope
	cur  *scope.Scope
}

func (c *checker) fail(line int, kind ErrorKind) {
	panic(&Error{Line: line, Kind: kind})
}

// acceptsBase implements the "operators also accept a Function-typed
// operand when its declared return type matches" convenience rule.
func acceptsBase(t types.Type, want types.BaseType) bool {
	if t.BaseType == want {
		return true
	}
	return t.BaseType == types.Function && t.MethodType.ReturnType.BaseType == want
}

func (c *checker) resolveType(ann ast.TypeAnnotation) types.ClassType {
	if ann.Base == types.Object {
		if !c.ct.Exists(ann.ClassID) {
			c.fail(ann.Line, SymNameUndef)
		}
		return types.ClassType{BaseType: types.Object, ClassID: ann.ClassID}
	}
	return types.ClassType{BaseType: ann.Base}
}

// --- Program / Class ---

func (c *checker) visitProgram(p *ast.Program) {
	for _, cls := range p.Classes {
		// Program must be the last class declared: if it already exists
		// in the table, any further class (even another "Program", which
		// would also fail dup_ident_name) is an error here.
		if c.ct.Exists("Program") {
			c.fail(p.Line, NoProgram)
		}
		c.visitClass(cls)
	}
	if !c.ct.Exists("Program") {
		c.fail(p.Line, NoProgram)
	}
	p.Scope = c.root
}

func (c *checker) visitClass(cls *ast.Class) {
	if c.ct.Exists(cls.ClassID) {
		c.fail(cls.Line, DupIdentName)
	}

	var classScope *scope.Scope
	if cls.Superclass != "" {
		superNode, ok := c.ct.Lookup(cls.Superclass)
		if !ok {
			c.fail(cls.Line, SymNameUndef)
		}
		classScope = c.cur.OpenScopeAt(superNode.ClassScope)
	} else {
		classScope = c.cur.OpenScope()
	}
	c.ct.Insert(cls.ClassID, cls.Superclass, cls, classScope)

	c.cur = classScope
	cls.Scope = classScope

	for _, d := range cls.Decls {
		c.visitDeclaration(d)
	}
	for _, m := range cls.Methods {
		c.visitMethod(m)
	}

	if cls.ClassID == "Program" {
		sym, ok := classScope.Lookup("start")
		switch {
		case !ok:
			c.fail(cls.Line, NoStart)
		case sym.MethodType.ReturnType.BaseType != types.Nothing:
			c.fail(cls.Line, NoStart)
		case len(sym.MethodType.ArgsType) != 0:
			c.fail(cls.Line, StartArgsErr)
		}
	}

	c.cur = classScope.CloseScope()
}

// --- Declaration / Method ---

func (c *checker) visitDeclaration(d *ast.Declaration) {
	dt := c.resolveType(d.Type)
	full := types.Type{BaseType: dt.BaseType, ClassType: dt}
	for _, name := range d.VariableIDs {
		if !c.cur.Insert(name, full) {
			c.fail(d.Line, DupIdentName)
		}
	}
	d.Attribute.Type = full
	d.Scope = c.cur
}

func (c *checker) visitMethod(m *ast.Method) {
	retCT := c.resolveType(m.ReturnType)
	argsCT := make([]types.ClassType, len(m.Params))
	for i, p := range m.Params {
		argsCT[i] = c.resolveType(p.Type)
	}
	methodType := types.Type{
		BaseType:   types.Function,
		MethodType: types.MethodType{ReturnType: retCT, ArgsType: argsCT},
	}
	m.Type = methodType
	m.Scope = c.cur
	if !c.cur.Insert(m.MethodID, methodType) {
		c.fail(m.Line, DupIdentName)
	}

	methodScope := c.cur.OpenScope()
	c.cur = methodScope

	for i, p := range m.Params {
		full := types.Type{BaseType: argsCT[i].BaseType, ClassType: argsCT[i]}
		p.Attribute.Type = full
		p.Scope = methodScope
		if !methodScope.Insert(p.VariableID, full) {
			c.fail(p.Line, DupIdentName)
		}
	}

	c.visitMethodBody(m.Body)

	bodyType := m.Body.Type
	want := methodType.MethodType.ReturnType
	if bodyType.BaseType != want.BaseType {
		c.fail(m.Line, RetTypeMismatch)
	} else if want.BaseType == types.Object && bodyType.ClassType.ClassID != want.ClassID {
		c.fail(m.Line, RetTypeMismatch)
	}

	c.cur = methodScope.CloseScope()
}

func (c *checker) visitMethodBody(mb *ast.MethodBody) {
	mb.Scope = c.cur
	for _, d := range mb.Decls {
		c.visitDeclaration(d)
	}
	for _, s := range mb.Statements {
		c.visitStatement(s)
	}
	c.visitReturn(mb.Return)
	mb.Type = mb.Return.Type
}

func (c *checker) visitReturn(r *ast.Return) {
	r.Scope = c.cur
	if r.Expr != nil {
		c.visitExpression(r.Expr)
		r.Type = r.Expr.Attr().Type
		return
	}
	r.Type = types.Type{BaseType: types.Nothing}
}

// --- Statements ---

func (c *checker) visitStatement(s ast.Statement) {
	switch st := s.(type) {
	case *ast.Assignment:
		c.visitAssignment(st)
	case *ast.If:
		c.visitIf(st)
	case *ast.Print:
		c.visitPrint(st)
	case *ast.Return:
		c.visitReturn(st)
	default:
		panic(fmt.Sprintf("typecheck: unhandled statement type %T", s))
	}
}

func (c *checker) visitAssignment(s *ast.Assignment) {
	sym, ok := c.cur.Lookup(s.VariableID)
	if !ok {
		c.fail(s.Line, SymNameUndef)
	}
	if sym.BaseType == types.Function {
		c.fail(s.Line, SymTypeMismatch)
	}
	c.visitExpression(s.Expr)
	if sym.BaseType != s.Expr.Attr().Type.BaseType {
		c.fail(s.Line, IncompatAssign)
	}
	s.Type = s.Expr.Attr().Type
	s.Scope = c.cur
}

func (c *checker) visitIf(s *ast.If) {
	c.visitExpression(s.Cond)
	c.visitStatement(s.Then)
	if s.Cond.Attr().Type.BaseType != types.Boolean {
		c.fail(s.Line, IfPredErr)
	}
	s.Scope = c.cur
}

func (c *checker) visitPrint(s *ast.Print) {
	c.visitExpression(s.Expr)
	s.Scope = c.cur
}

// --- Expressions ---

func (c *checker) visitExpression(e ast.Expression) {
	switch ex := e.(type) {
	case *ast.BinaryOp:
		c.visitBinaryOp(ex)
	case *ast.UnaryOp:
		c.visitUnaryOp(ex)
	case *ast.MethodCall:
		c.visitMethodCall(ex)
	case *ast.SelfCall:
		c.visitSelfCall(ex)
	case *ast.Variable:
		c.visitVariable(ex)
	case *ast.IntegerLiteral:
		ex.Type = types.Type{BaseType: types.Integer}
	case *ast.BooleanLiteral:
		ex.Type = types.Type{BaseType: types.Boolean}
	case *ast.Nothing:
		ex.Type = types.Type{BaseType: types.Nothing}
	default:
		panic(fmt.Sprintf("typecheck: unhandled expression type %T", e))
	}
}

func (c *checker) visitBinaryOp(e *ast.BinaryOp) {
	c.visitExpression(e.Left)
	c.visitExpression(e.Right)
	lt, rt := e.Left.Attr().Type, e.Right.Attr().Type

	switch e.Op {
	case ast.Plus, ast.Minus, ast.Times, ast.Divide:
		if !acceptsBase(lt, types.Integer) || !acceptsBase(rt, types.Integer) {
			c.fail(e.Line, ExprTypeErr)
		}
		e.Type = types.Type{BaseType: types.Integer}
	case ast.And:
		if !acceptsBase(lt, types.Boolean) || !acceptsBase(rt, types.Boolean) {
			c.fail(e.Line, ExprTypeErr)
		}
		e.Type = types.Type{BaseType: types.Boolean}
	case ast.LessThan, ast.LessThanEqualTo:
		if !acceptsBase(lt, types.Integer) || !acceptsBase(rt, types.Integer) {
			c.fail(e.Line, ExprTypeErr)
		}
		e.Type = types.Type{BaseType: types.Boolean}
	default:
		panic(fmt.Sprintf("typecheck: unhandled binary operator %v", e.Op))
	}
	e.Scope = c.cur
}

func (c *checker) visitUnaryOp(e *ast.UnaryOp) {
	c.visitExpression(e.Operand)
	ot := e.Operand.Attr().Type

	switch e.Op {
	case ast.Not:
		if !acceptsBase(ot, types.Boolean) {
			c.fail(e.Line, ExprTypeErr)
		}
		e.Type = types.Type{BaseType: types.Boolean}
	case ast.UnaryMinus:
		if !acceptsBase(ot, types.Integer) {
			c.fail(e.Line, ExprTypeErr)
		}
		e.Type = types.Type{BaseType: types.Integer}
	default:
		panic(fmt.Sprintf("typecheck: unhandled unary operator %v", e.Op))
	}
	e.Scope = c.cur
}

func (c *checker) visitVariable(e *ast.Variable) {
	sym, ok := c.cur.Lookup(e.VariableID)
	if !ok {
		c.fail(e.Line, SymNameUndef)
	}
	if sym.BaseType == types.Function {
		c.fail(e.Line, SymTypeMismatch)
	}
	e.Type = sym
	e.Scope = c.cur
}

// checkArgs validates a call's argument list against a resolved method
// signature. A longer-than-declared list fails with call_narg_mismatch
// before any argument is compared; otherwise each supplied argument's base
// type is compared in order (call_args_mismatch on the first difference),
// and a shorter-than-declared list then fails with call_narg_mismatch.
func (c *checker) checkArgs(line int, args []ast.Expression, want []types.ClassType) {
	n := len(args)
	if n > len(want) {
		c.fail(line, CallNargMismatch)
	}
	for i := 0; i < n && i < len(want); i++ {
		if args[i].Attr().Type.BaseType != want[i].BaseType {
			c.fail(line, CallArgsMismatch)
		}
	}
	if n < len(want) {
		c.fail(line, CallNargMismatch)
	}
}

func (c *checker) visitMethodCall(e *ast.MethodCall) {
	for _, a := range e.Args {
		c.visitExpression(a)
	}

	sym, ok := c.cur.Lookup(e.VariableID)
	if !ok {
		c.fail(e.Line, SymNameUndef)
	}
	if sym.BaseType != types.Object {
		c.fail(e.Line, SymTypeMismatch)
	}

	node, ok := c.ct.Lookup(sym.ClassType.ClassID)
	if !ok {
		panic("typecheck: receiver's declared class missing from class table")
	}

	funcSym, ok := node.ClassScope.Lookup(e.MethodID)
	if !ok {
		c.fail(e.Line, NoClassMethod)
	}
	if funcSym.BaseType != types.Function {
		c.fail(e.Line, SymTypeMismatch)
	}

	c.checkArgs(e.Line, e.Args, funcSym.MethodType.ArgsType)

	e.Type = types.Type{
		BaseType:  funcSym.MethodType.ReturnType.BaseType,
		ClassType: funcSym.MethodType.ReturnType,
	}
	e.Scope = c.cur
}

func (c *checker) visitSelfCall(e *ast.SelfCall) {
	for _, a := range e.Args {
		c.visitExpression(a)
	}

	sym, ok := c.cur.Lookup(e.MethodID)
	if !ok {
		c.fail(e.Line, NoClassMethod)
	}
	if sym.BaseType != types.Function {
		c.fail(e.Line, SymTypeMismatch)
	}

	c.checkArgs(e.Line, e.Args, sym.MethodType.ArgsType)

	e.Type = types.Type{
		BaseType:  sym.MethodType.ReturnType.BaseType,
		ClassType: sym.MethodType.ReturnType,
	}
	e.Scope = c.cur
}
