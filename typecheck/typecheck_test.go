package typecheck

import (
	"strings"
	"testing"

	"github.com/kongclass/kongc/ast"
	"github.com/kongclass/kongc/lexer"
	"github.com/kongclass/kongc/parser"
	"github.com/kongclass/kongc/types"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	l := lexer.New(src)
	p := parser.New(l)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	return prog
}

// TestCheckMinimalProgram is spec.md's S1 scenario: Check should accept
// the program and record the Program class in the class table.
func TestCheckMinimalProgram(t *testing.T) {
	prog := mustParse(t, `class Program {
    start() -> Nothing {
        print(1);
        return;
    }
}`)
	res, err := Check(prog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := res.Classes.Lookup("Program"); !ok {
		t.Fatalf("expected Program class in the class table")
	}
}

// TestCheckInheritanceDispatch is spec.md's S4 scenario.
func TestCheckInheritanceDispatch(t *testing.T) {
	prog := mustParse(t, `class A {
    f() -> Integer {
        return 1;
    }
}
class B : A {
}
class Program {
    start() -> Nothing {
        var b : B;
        print(b.f());
        return;
    }
}`)
	if _, err := Check(prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestCheckUndefinedIdentifier is spec.md's S5 scenario.
func TestCheckUndefinedIdentifier(t *testing.T) {
	prog := mustParse(t, `class Program {
    start() -> Nothing {
        return x;
    }
}`)
	_, err := Check(prog)
	if err == nil {
		t.Fatalf("expected an error for the undefined identifier x")
	}
	if !strings.Contains(err.Error(), "symbol by name undefined") {
		t.Fatalf("expected %q in error, got %q", "symbol by name undefined", err.Error())
	}
}

// TestCheckDuplicateIdentifier is spec.md's S6 scenario.
func TestCheckDuplicateIdentifier(t *testing.T) {
	prog := mustParse(t, `class Program {
    start() -> Nothing {
        var x : Integer;
        var x : Integer;
        return;
    }
}`)
	_, err := Check(prog)
	if err == nil {
		t.Fatalf("expected an error for the duplicate declaration of x")
	}
	if !strings.Contains(err.Error(), "duplicate identifier name") {
		t.Fatalf("expected %q in error, got %q", "duplicate identifier name", err.Error())
	}
}

func TestCheckNoProgramClass(t *testing.T) {
	prog := mustParse(t, `class A {
    f() -> Integer {
        return 1;
    }
}`)
	_, err := Check(prog)
	if err == nil || !strings.Contains(err.Error(), "no Program class") {
		t.Fatalf("expected a no_program error, got %v", err)
	}
}

func TestCheckProgramMustBeLast(t *testing.T) {
	prog := mustParse(t, `class Program {
    start() -> Nothing {
        return;
    }
}
class A {
    f() -> Integer {
        return 1;
    }
}`)
	_, err := Check(prog)
	if err == nil || !strings.Contains(err.Error(), "no Program class") {
		t.Fatalf("expected a class declared after Program to raise no_program, got %v", err)
	}
}

func TestCheckNoStartMethod(t *testing.T) {
	prog := mustParse(t, `class Program {
    f() -> Integer {
        return 1;
    }
}`)
	_, err := Check(prog)
	if err == nil || !strings.Contains(err.Error(), "no start function") {
		t.Fatalf("expected a no_start error, got %v", err)
	}
}

func TestCheckStartTakesNoArgs(t *testing.T) {
	prog := mustParse(t, `class Program {
    start(n : Integer) -> Nothing {
        return;
    }
}`)
	_, err := Check(prog)
	if err == nil || !strings.Contains(err.Error(), "start function has arguments") {
		t.Fatalf("expected a start_args_err, got %v", err)
	}
}

func TestCheckIfPredicateMustBeBoolean(t *testing.T) {
	prog := mustParse(t, `class Program {
    start() -> Nothing {
        if (1) print(1);
        return;
    }
}`)
	_, err := Check(prog)
	if err == nil || !strings.Contains(err.Error(), "predicate of if statement is not boolean") {
		t.Fatalf("expected an if_pred_err, got %v", err)
	}
}

func TestCheckIncompatibleAssignment(t *testing.T) {
	prog := mustParse(t, `class Program {
    start() -> Nothing {
        var x : Integer;
        x = true;
        return;
    }
}`)
	_, err := Check(prog)
	if err == nil || !strings.Contains(err.Error(), "do not match in assignment") {
		t.Fatalf("expected an incompat_assign error, got %v", err)
	}
}

func TestCheckArgCountMismatch(t *testing.T) {
	prog := mustParse(t, `class Program {
    helper(a : Integer) -> Integer {
        return a;
    }
    start() -> Nothing {
        print(self.helper(1, 2));
        return;
    }
}`)
	_, err := Check(prog)
	if err == nil || !strings.Contains(err.Error(), "different number of args") {
		t.Fatalf("expected a call_narg_mismatch, got %v", err)
	}
}

func TestCheckArgTypeMismatch(t *testing.T) {
	prog := mustParse(t, `class Program {
    helper(a : Integer) -> Integer {
        return a;
    }
    start() -> Nothing {
        print(self.helper(true));
        return;
    }
}`)
	_, err := Check(prog)
	if err == nil || !strings.Contains(err.Error(), "type mismatch in function call args") {
		t.Fatalf("expected a call_args_mismatch, got %v", err)
	}
}

func TestCheckReturnTypeMismatch(t *testing.T) {
	prog := mustParse(t, `class Program {
    start() -> Nothing {
        return 1;
    }
}`)
	_, err := Check(prog)
	if err == nil || !strings.Contains(err.Error(), "type mismatch in return statement") {
		t.Fatalf("expected a ret_type_mismatch, got %v", err)
	}
}

func TestCheckUndeclaredMethodOnReceiver(t *testing.T) {
	prog := mustParse(t, `class A {
}
class Program {
    start() -> Nothing {
        var a : A;
        print(a.nope());
        return;
    }
}`)
	_, err := Check(prog)
	if err == nil || !strings.Contains(err.Error(), "function doesn't exist in object") {
		t.Fatalf("expected a no_class_method error, got %v", err)
	}
}

// TestCheckArithmeticOverMethodCallResult checks that a method call's
// result (already resolved to its declared return type's base, per
// visitMethodCall/visitSelfCall) can feed an arithmetic operator inline
// -- the usage spec.md §9's Function-operand convenience rule exists to
// support.
func TestCheckArithmeticOverMethodCallResult(t *testing.T) {
	prog := mustParse(t, `class Program {
    one() -> Integer {
        return 1;
    }
    start() -> Nothing {
        print(self.one() + 1);
        return;
    }
}`)
	if _, err := Check(prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestDecoratedTypesNeverUndef is spec.md §8 invariant 1: after a
// successful check, every expression's decorated BaseType is one of the
// four concrete kinds, never Undef.
func TestDecoratedTypesNeverUndef(t *testing.T) {
	prog := mustParse(t, `class Program {
    start() -> Nothing {
        print((1+2)*3);
        return;
    }
}`)
	if _, err := Check(prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	printStmt := prog.Classes[0].Methods[0].Body.Statements[0].(*ast.Print)
	walkExpr(t, printStmt.Expr)
}

func walkExpr(t *testing.T, e ast.Expression) {
	t.Helper()
	if e.Attr().Type.BaseType == types.Undef {
		t.Fatalf("found an Undef-typed node after type-check: %#v", e)
	}
	switch ex := e.(type) {
	case *ast.BinaryOp:
		walkExpr(t, ex.Left)
		walkExpr(t, ex.Right)
	case *ast.UnaryOp:
		walkExpr(t, ex.Operand)
	}
}
