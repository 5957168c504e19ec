package lexer

import (
	"testing"

	"github.com/kongclass/kongc/token"
)

// TestNextToken tests the functionality of the NextToken method in the
// Lexer to ensure all tokens of the class language are correctly
// identified.
func TestNextToken(t *testing.T) {
	input := `class A {
    var x : Integer;

    f(y : Integer) -> Integer {
        return x + y;
    }
}
class B : A {
    g() -> Boolean {
        if (x <= 5 && true) {
            print(-x);
        }
        return !false;
    }
}
class Program {
    var b : B;
    start() -> Nothing {
        print(self.f(1));
        return;
    }
}
`
	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.CLASS, "class"},
		{token.IDENT, "A"},
		{token.LBRACE, "{"},
		{token.VAR, "var"},
		{token.IDENT, "x"},
		{token.COLON, ":"},
		{token.INTEGER, "Integer"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "f"},
		{token.LPAREN, "("},
		{token.IDENT, "y"},
		{token.COLON, ":"},
		{token.INTEGER, "Integer"},
		{token.RPAREN, ")"},
		{token.ARROW, "->"},
		{token.INTEGER, "Integer"},
		{token.LBRACE, "{"},
		{token.RETURN, "return"},
		{token.IDENT, "x"},
		{token.PLUS, "+"},
		{token.IDENT, "y"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.RBRACE, "}"},
		{token.CLASS, "class"},
		{token.IDENT, "B"},
		{token.COLON, ":"},
		{token.IDENT, "A"},
		{token.LBRACE, "{"},
		{token.IDENT, "g"},
		{token.LPAREN, "("},
		{token.RPAREN, ")"},
		{token.ARROW, "->"},
		{token.BOOLEAN, "Boolean"},
		{token.LBRACE, "{"},
		{token.IF, "if"},
		{token.LPAREN, "("},
		{token.IDENT, "x"},
		{token.LTE, "<="},
		{token.INT, "5"},
		{token.AND, "&&"},
		{token.TRUE, "true"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.PRINT, "print"},
		{token.LPAREN, "("},
		{token.MINUS, "-"},
		{token.IDENT, "x"},
		{token.RPAREN, ")"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.RETURN, "return"},
		{token.BANG, "!"},
		{token.FALSE, "false"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.RBRACE, "}"},
		{token.CLASS, "class"},
		{token.IDENT, "Program"},
		{token.LBRACE, "{"},
		{token.VAR, "var"},
		{token.IDENT, "b"},
		{token.COLON, ":"},
		{token.IDENT, "B"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "start"},
		{token.LPAREN, "("},
		{token.RPAREN, ")"},
		{token.ARROW, "->"},
		{token.NOTHING, "Nothing"},
		{token.LBRACE, "{"},
		{token.PRINT, "print"},
		{token.LPAREN, "("},
		{token.SELF, "self"},
		{token.DOT, "."},
		{token.IDENT, "f"},
		{token.LPAREN, "("},
		{token.INT, "1"},
		{token.RPAREN, ")"},
		{token.RPAREN, ")"},
		{token.SEMICOLON, ";"},
		{token.RETURN, "return"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.RBRACE, "}"},
		{token.EOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (literal %q)",
				i, tt.expectedType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

// TestLineNumbers checks that NextToken advances the line counter across
// newlines and that a line comment is skipped without affecting it.
func TestLineNumbers(t *testing.T) {
	input := "class A { // a comment\n  var x : Integer;\n}"
	l := New(input)

	tok := l.NextToken() // class
	if tok.Line != 1 {
		t.Fatalf("expected line 1, got %d", tok.Line)
	}
	for tok.Type != token.VAR {
		tok = l.NextToken()
	}
	if tok.Line != 2 {
		t.Fatalf("expected 'var' on line 2, got %d", tok.Line)
	}
}

// TestIllegalAmpersand checks that a lone '&' (not '&&') is reported as
// illegal rather than silently accepted.
func TestIllegalAmpersand(t *testing.T) {
	l := New("&")
	tok := l.NextToken()
	if tok.Type != token.ILLEGAL {
		t.Fatalf("expected ILLEGAL, got %q", tok.Type)
	}
}
