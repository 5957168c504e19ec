// Package codegen walks a type-checked AST and emits x86 (32-bit, AT&T
// syntax) assembly text implementing this language's object layout,
// activation-record layout, and calling convention.
//
// The single Compile-like dispatch method per node, switching on Go's
// dynamic type, follows the shape of the teacher's compiler.Compile: one
// exhaustive type switch over ast.Node walks the whole tree. Here the
// switch emits text instead of bytecode, and there is no error return --
// codegen runs only after typecheck.Check has already accepted the
// program, so every condition this package would otherwise have to
// reject is already impossible; an unexpected shape is a compiler bug
// and panics, mirroring codegen.cpp's liberal use of assert() for the
// same kind of "can't happen" conditions.
//
// Offsets are this pass's responsibility, not the type checker's: a
// class's OffsetTable is seeded from its superclass's (already-finalized
// one, since classes are processed in declaration order and a subclass
// always follows its superclass) the moment its own class is visited,
// and each field or local grows it from there.
package codegen

import (
	"fmt"

	"github.com/kongclass/kongc/asm"
	"github.com/kongclass/kongc/ast"
	"github.com/kongclass/kongc/classtable"
	"github.com/kongclass/kongc/frame"
	"github.com/kongclass/kongc/types"
)

const wordSize = 4

const (
	heapStart = "_heap_start"
	heapTop   = "_heap_top"
	printFmt  = ".LC0"
	printFun  = "Print"
)

// Generator holds the state threaded through one code-generation run:
// the accumulating output, the label allocator, the class table built by
// typecheck, and the current class/method context.
type Generator struct {
	out    *asm.Program
	labels *asm.Labeler
	ct     *classtable.ClassTable

	class *classtable.ClassNode // the class currently being emitted
	frame *frame.Frame          // the method currently being emitted, nil at class scope
}

// Generate emits the complete assembly text for prog, whose classes are
// already recorded in ct by a prior typecheck.Check call.
func Generate(prog *ast.Program, ct *classtable.ClassTable) string {
	g := &Generator{out: asm.New(), labels: asm.NewLabeler(), ct: ct}

	g.preamble()
	for _, cls := range prog.Classes {
		g.genClass(cls)
	}

	progNode, ok := ct.Lookup("Program")
	if !ok {
		panic("codegen: no Program class survived type checking")
	}
	g.start(progNode.Offsets.TotalSize())

	return g.out.String()
}

// preamble emits the fixed header every compiled program carries: the
// heap-arena globals and the Print runtime helper, which loads its
// single integer argument and hands it to libc's printf.
func (g *Generator) preamble() {
	g.out.Raw(".text")
	g.out.Raw("")
	g.out.Raw(fmt.Sprintf(".comm %s,4,4", heapStart))
	g.out.Raw(fmt.Sprintf(".comm %s,4,4", heapTop))
	g.out.Raw("")

	g.out.Label(printFmt)
	g.out.Raw("\t.string \"%d\\n\"")
	g.out.Raw("\t.text")
	g.out.Raw(fmt.Sprintf("\t.globl  %s", printFun))
	g.out.Raw(fmt.Sprintf("\t.type   %s, @function", printFun))
	g.out.Raw("")

	g.out.Raw(fmt.Sprintf(".global %s", printFun))
	g.out.Label(printFun)
	g.out.Emit("pushl %%ebp")
	g.out.Emit("movl %%esp, %%ebp")
	g.out.Emit("movl 8(%%ebp), %%eax")
	g.out.Emit("pushl %%eax")
	g.out.Emit("pushl $.LC0")
	g.out.Emit("call printf")
	g.out.Emit("addl $8, %%esp")
	g.out.Emit("leave")
	g.out.Emit("ret")
}

// start emits the program's actual entry point: it receives the heap
// arena's base address as its own first argument, seeds _heap_start and
// _heap_top from it, reserves room for the Program object ahead of any
// Declaration-site allocation, and calls Program_start.
func (g *Generator) start(programSize int) {
	g.out.Raw("# Start Function")
	g.out.Raw(".global Start")
	g.out.Label("Start")
	g.out.Emit("pushl %%ebp")
	g.out.Emit("movl %%esp, %%ebp")
	g.out.Emit("movl 8(%%ebp), %%ecx")
	g.out.Emit("movl %%ecx, %s", heapStart)
	g.out.Emit("movl %%ecx, %s", heapTop)
	g.out.Emit("addl $%d, %s", programSize, heapTop)
	g.out.Emit("pushl %s", heapStart)
	g.out.Emit("call Program_start")
	g.out.Emit("leave")
	g.out.Emit("ret")
}

// --- Class / Declaration / Method ---

func (g *Generator) genClass(cls *ast.Class) {
	g.out.Comment("CLASS %s", cls.ClassID)

	node, ok := g.ct.Lookup(cls.ClassID)
	if !ok {
		panic("codegen: class missing from class table built by typecheck")
	}
	if cls.Superclass != "" {
		superNode, ok := g.ct.Lookup(cls.Superclass)
		if !ok {
			panic("codegen: superclass missing from class table built by typecheck")
		}
		superNode.Offsets.CopyInto(node.Offsets)
	}

	prevClass := g.class
	g.class = node

	for _, d := range cls.Decls {
		g.genFieldDeclaration(d)
	}
	for _, m := range cls.Methods {
		g.genMethod(m)
	}

	g.class = prevClass
}

// genFieldDeclaration records each field's offset. Fields never emit
// instructions: they live on the heap at a fixed offset from the
// object's base pointer, not on the stack.
func (g *Generator) genFieldDeclaration(d *ast.Declaration) {
	for _, name := range d.VariableIDs {
		off := g.class.Offsets.TotalSize()
		g.class.Offsets.Insert(name, off, wordSize, d.Attribute.Type.ClassType)
		g.class.Offsets.SetTotalSize(off + wordSize)
	}
}

func (g *Generator) genMethod(m *ast.Method) {
	g.out.Comment("METHOD %s", m.MethodID)

	fr := frame.New(g.class.Name, m.MethodID)
	g.frame = fr

	g.out.Label(fr.Label())
	g.out.Emit("pushl %%ebp")
	g.out.Emit("movl %%esp, %%ebp")

	for _, p := range m.Params {
		off := fr.NextParamOffset(wordSize)
		fr.Offsets.Insert(p.VariableID, off, wordSize, p.Attribute.Type.ClassType)
	}

	g.genMethodBody(m.Body)

	// Deallocate locals only -- parameters are the caller's to clean up.
	g.out.Emit("addl $%d, %%esp", fr.Offsets.TotalSize()-4)
	g.out.Emit("leave")
	g.out.Emit("ret")

	g.frame = nil
}

func (g *Generator) genMethodBody(mb *ast.MethodBody) {
	for _, d := range mb.Decls {
		g.genLocalDeclaration(d)
	}
	for _, s := range mb.Statements {
		g.genStatement(s)
	}
	g.genReturn(mb.Return)
}

// genLocalDeclaration allocates one stack slot per declared variable (or,
// for an Object-typed local, a fresh heap region) and records its frame
// offset.
func (g *Generator) genLocalDeclaration(d *ast.Declaration) {
	for _, name := range d.VariableIDs {
		if d.Attribute.Type.BaseType == types.Object {
			target, ok := g.ct.Lookup(d.Attribute.Type.ClassType.ClassID)
			if !ok {
				panic("codegen: declared object class missing from class table")
			}
			g.out.Emit("pushl %s", heapTop)
			g.out.Emit("addl $%d, %s", target.Offsets.TotalSize(), heapTop)
		} else {
			g.out.Emit("subl $%d, %%esp", wordSize)
		}
		off := g.frame.NextLocalOffset(wordSize)
		g.frame.Offsets.Insert(name, off, wordSize, d.Attribute.Type.ClassType)
	}
}

func (g *Generator) genReturn(r *ast.Return) {
	if r.Expr != nil {
		g.genExpression(r.Expr)
	}
	if r.Type.BaseType != types.Nothing {
		g.out.Emit("popl %%ebx")
	} else {
		g.out.Emit("movl $0, %%ebx")
	}
}

// --- Statements ---

func (g *Generator) genStatement(s ast.Statement) {
	switch st := s.(type) {
	case *ast.Assignment:
		g.genAssignment(st)
	case *ast.If:
		g.genIf(st)
	case *ast.Print:
		g.genPrint(st)
	default:
		panic(fmt.Sprintf("codegen: unhandled statement type %T", s))
	}
}

// lookupOffset finds variableID in the current method frame first
// (locals, then parameters), falling back to the current class's field
// table. The bool result says whether it was found in the class's
// fields, which callers need to know: a field access must load the
// receiver pointer from 8(%ebp) first.
func (g *Generator) lookupOffset(variableID string) (offset int, declType types.ClassType, inClass bool) {
	if g.frame != nil && g.frame.Offsets.Exists(variableID) {
		return g.frame.Offsets.Offset(variableID), g.frame.Offsets.DeclType(variableID), false
	}
	return g.class.Offsets.Offset(variableID), g.class.Offsets.DeclType(variableID), true
}

func (g *Generator) genAssignment(s *ast.Assignment) {
	g.genExpression(s.Expr)

	off, _, inClass := g.lookupOffset(s.VariableID)
	g.out.Emit("popl %%eax")
	if !inClass {
		g.out.Emit("movl %%eax, %d(%%ebp)", off)
		return
	}
	g.out.Emit("movl 8(%%ebp), %%ebx")
	g.out.Emit("movl %%eax, %d(%%ebx)", off)
}

func (g *Generator) genIf(s *ast.If) {
	end := g.labels.New()

	g.genExpression(s.Cond)
	g.out.Emit("popl %%eax")
	g.out.Emit("cmp $1, %%eax")
	g.out.Emit("jne %s", end)

	g.genStatement(s.Then)

	g.out.Label(end)
}

func (g *Generator) genPrint(s *ast.Print) {
	g.genExpression(s.Expr)
	g.out.Emit("call Print")
	g.out.Emit("addl $4, %%esp")
}

// --- Expressions ---

func (g *Generator) genExpression(e ast.Expression) {
	switch ex := e.(type) {
	case *ast.BinaryOp:
		g.genBinaryOp(ex)
	case *ast.UnaryOp:
		g.genUnaryOp(ex)
	case *ast.MethodCall:
		g.genMethodCall(ex)
	case *ast.SelfCall:
		g.genSelfCall(ex)
	case *ast.Variable:
		g.genVariable(ex)
	case *ast.IntegerLiteral:
		g.out.Emit("pushl $%d", ex.Value)
	case *ast.BooleanLiteral:
		v := 0
		if ex.Value {
			v = 1
		}
		g.out.Emit("pushl $%d", v)
	case *ast.Nothing:
		// A Nothing literal (the `Nothing` keyword in expression
		// position) pushes no value. A bare `return;` has no
		// expression and never reaches here.
	default:
		panic(fmt.Sprintf("codegen: unhandled expression type %T", e))
	}
}

func (g *Generator) genBinaryOp(e *ast.BinaryOp) {
	switch e.Op {
	case ast.Plus:
		g.genExpression(e.Left)
		g.genExpression(e.Right)
		g.out.Emit("popl %%ebx")
		g.out.Emit("popl %%eax")
		g.out.Emit("addl %%ebx, %%eax")
		g.out.Emit("pushl %%eax")

	case ast.Minus:
		g.genExpression(e.Left)
		g.genExpression(e.Right)
		g.out.Emit("popl %%ebx")
		g.out.Emit("popl %%eax")
		g.out.Emit("subl %%ebx, %%eax")
		g.out.Emit("pushl %%eax")

	case ast.Times:
		g.genExpression(e.Left)
		g.genExpression(e.Right)
		g.out.Emit("popl %%ebx")
		g.out.Emit("popl %%eax")
		g.out.Emit("imul %%ebx, %%eax")
		g.out.Emit("pushl %%eax")

	case ast.Divide:
		g.genExpression(e.Left)
		g.genExpression(e.Right)
		g.out.Emit("movl $0, %%edx")
		g.out.Emit("popl %%ebx")
		g.out.Emit("popl %%eax")
		g.out.Emit("cdq")
		g.out.Emit("idiv %%ebx")
		g.out.Emit("pushl %%eax")

	case ast.And:
		loc1, loc2 := g.labels.New(), g.labels.New()
		g.genExpression(e.Left)
		g.genExpression(e.Right)
		g.out.Emit("popl %%ebx")
		g.out.Emit("popl %%eax")
		g.out.Emit("cmp $0, %%eax")
		g.out.Emit("je %s", loc1)
		g.out.Emit("cmp $0, %%ebx")
		g.out.Emit("je %s", loc1)
		g.out.Emit("mov $1, %%eax")
		g.out.Emit("jmp %s", loc2)
		g.out.Label(loc1)
		g.out.Emit("mov $0, %%eax")
		g.out.Label(loc2)
		g.out.Emit("pushl %%eax")

	case ast.LessThan:
		loc1, loc2 := g.labels.New(), g.labels.New()
		g.genExpression(e.Left)
		g.genExpression(e.Right)
		g.out.Emit("popl %%ebx")
		g.out.Emit("popl %%eax")
		g.out.Emit("cmp %%ebx, %%eax")
		g.out.Emit("jl %s", loc1)
		g.out.Emit("pushl $0")
		g.out.Emit("jmp %s", loc2)
		g.out.Label(loc1)
		g.out.Emit("pushl $1")
		g.out.Label(loc2)

	case ast.LessThanEqualTo:
		loc1, loc2 := g.labels.New(), g.labels.New()
		g.genExpression(e.Left)
		g.genExpression(e.Right)
		g.out.Emit("popl %%ebx")
		g.out.Emit("popl %%eax")
		g.out.Emit("cmp %%ebx, %%eax")
		g.out.Emit("jle %s", loc1)
		g.out.Emit("pushl $0")
		g.out.Emit("jmp %s", loc2)
		g.out.Label(loc1)
		g.out.Emit("pushl $1")
		g.out.Label(loc2)

	default:
		panic(fmt.Sprintf("codegen: unhandled binary operator %v", e.Op))
	}
}

func (g *Generator) genUnaryOp(e *ast.UnaryOp) {
	switch e.Op {
	case ast.Not:
		loc1, loc2 := g.labels.New(), g.labels.New()
		g.genExpression(e.Operand)
		g.out.Emit("popl %%eax")
		g.out.Emit("cmp $0, %%eax")
		g.out.Emit("jne %s", loc1)
		g.out.Emit("mov $1, %%eax")
		g.out.Emit("jmp %s", loc2)
		g.out.Label(loc1)
		g.out.Emit("mov $0, %%eax")
		g.out.Label(loc2)
		g.out.Emit("pushl %%eax")

	case ast.UnaryMinus:
		g.genExpression(e.Operand)
		g.out.Emit("popl %%eax")
		g.out.Emit("negl %%eax")
		g.out.Emit("pushl %%eax")

	default:
		panic(fmt.Sprintf("codegen: unhandled unary operator %v", e.Op))
	}
}

func (g *Generator) genVariable(e *ast.Variable) {
	off, _, inClass := g.lookupOffset(e.VariableID)
	if !inClass {
		g.out.Emit("pushl %d(%%ebp)", off)
		return
	}
	g.out.Emit("movl 8(%%ebp), %%eax")
	g.out.Emit("pushl %d(%%eax)", off)
}

// genCallArgs evaluates args right-to-left (so they land on the stack in
// source order) and returns how many were pushed.
func (g *Generator) genCallArgs(args []ast.Expression) int {
	for i := len(args) - 1; i >= 0; i-- {
		g.genExpression(args[i])
	}
	return len(args)
}

func (g *Generator) genMethodCall(e *ast.MethodCall) {
	off, declType, inClass := g.lookupOffset(e.VariableID)

	g.genCallArgs(e.Args)
	if !inClass {
		g.out.Emit("pushl %d(%%ebp)", off)
	} else {
		g.out.Emit("movl 8(%%ebp), %%ebx")
		g.out.Emit("pushl %d(%%ebx)", off)
	}

	owner, ok := g.ct.ResolveMethod(declType.ClassID, e.MethodID)
	if !ok {
		panic("codegen: method dispatch unresolved after type checking")
	}

	g.out.Emit("call %s_%s", owner, e.MethodID)
	g.out.Emit("addl $%d, %%esp", frame.CleanupSize(len(e.Args)))
	g.out.Emit("pushl %%ebx")
}

func (g *Generator) genSelfCall(e *ast.SelfCall) {
	g.genCallArgs(e.Args)

	g.out.Emit("pushl 8(%%ebp)")

	owner, ok := g.ct.ResolveMethod(g.class.Name, e.MethodID)
	if !ok {
		panic("codegen: method dispatch unresolved after type checking")
	}

	g.out.Emit("call %s_%s", owner, e.MethodID)
	g.out.Emit("addl $%d, %%esp", frame.CleanupSize(len(e.Args)))
	g.out.Emit("pushl %%ebx")
}
