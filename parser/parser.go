// Package parser implements a recursive-descent parser for the class
// language, producing the AST defined by package ast.
//
// Lexing and parsing are external-collaborator concerns as far as the
// spec's three in-scope passes are concerned (the AST is their input
// contract) — but the CLI described in spec.md §6 still has to turn
// source text on stdin into that AST, so this package exists to do that,
// following the teacher parser's shape: a Parser holding a lexer and an
// accumulated error slice, precedence-climbing for expressions.
//
// Token-position convention (matches the teacher's parser): every parse
// function is entered with curToken on the first token of the construct
// it parses, and returns with curToken still on the *last* token it
// consumed — it never reads past what it owns. Callers that need to
// consume a following token (a ';', a ')') do so explicitly via
// expectPeek.
package parser

import (
	"fmt"
	"strconv"

	"github.com/kongclass/kongc/ast"
	"github.com/kongclass/kongc/lexer"
	"github.com/kongclass/kongc/token"
	"github.com/kongclass/kongc/types"
)

// Precedence levels for expression parsing, lowest to highest.
const (
	_ int = iota
	Lowest
	Or         // &&
	Comparison // < <=
	Sum        // + -
	Product    // * /
	Prefix     // - !
)

var precedences = map[token.Type]int{
	token.AND:   Or,
	token.LT:    Comparison,
	token.LTE:   Comparison,
	token.PLUS:  Sum,
	token.MINUS: Sum,
	token.STAR:  Product,
	token.SLASH: Product,
}

// Parser turns a token stream into an *ast.Program.
type Parser struct {
	l *lexer.Lexer

	curToken  token.Token
	peekToken token.Token

	errors []string
}

// New creates a Parser reading tokens from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l, errors: []string{}}
	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns the accumulated syntax error messages.
func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peekToken.Type == t }

// expectPeek advances past peekToken if it has type t, leaving it as
// curToken; otherwise it records a syntax error and does not advance.
func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.Type) {
	p.errors = append(p.errors, fmt.Sprintf(
		"line %d: expected next token to be %s, got %s instead",
		p.peekToken.Line, t, p.curToken.Type))
}

func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf("line %d: ", p.curToken.Line)+fmt.Sprintf(format, args...))
}

// ParseProgram parses a whole program: a sequence of class declarations.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{Attribute: ast.Attribute{Line: p.curToken.Line}}

	for !p.curIs(token.EOF) {
		if !p.curIs(token.CLASS) {
			p.errorf("expected 'class', got %s", p.curToken.Type)
			p.nextToken()
			continue
		}
		class := p.parseClass()
		if class != nil {
			prog.Classes = append(prog.Classes, class)
		}
		p.nextToken()
	}
	return prog
}

// parseClass is entered with curToken on CLASS and returns with curToken
// on the closing RBRACE.
func (p *Parser) parseClass() *ast.Class {
	class := &ast.Class{Attribute: ast.Attribute{Line: p.curToken.Line}}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	class.ClassID = p.curToken.Literal

	if p.peekIs(token.COLON) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		class.Superclass = p.curToken.Literal
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}

	for !p.peekIs(token.RBRACE) && !p.peekIs(token.EOF) {
		p.nextToken()
		switch {
		case p.curIs(token.VAR):
			if d := p.parseDeclaration(); d != nil {
				class.Decls = append(class.Decls, d)
			}
		case p.curIs(token.IDENT):
			if m := p.parseMethod(); m != nil {
				class.Methods = append(class.Methods, m)
			}
		default:
			p.errorf("unexpected token %s in class body", p.curToken.Type)
		}
	}
	if !p.expectPeek(token.RBRACE) {
		return class
	}
	return class
}

// parseDeclaration is entered with curToken on VAR and returns with
// curToken on the terminating SEMICOLON.
func (p *Parser) parseDeclaration() *ast.Declaration {
	decl := &ast.Declaration{Attribute: ast.Attribute{Line: p.curToken.Line}}

	if !p.expectPeek(token.IDENT) {
		return decl
	}
	decl.VariableIDs = append(decl.VariableIDs, p.curToken.Literal)

	for p.peekIs(token.COMMA) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return decl
		}
		decl.VariableIDs = append(decl.VariableIDs, p.curToken.Literal)
	}

	if !p.expectPeek(token.COLON) {
		return decl
	}
	p.nextToken()
	decl.Type = p.parseTypeAnnotation()

	if !p.expectPeek(token.SEMICOLON) {
		return decl
	}
	return decl
}

// parseTypeAnnotation is entered with curToken on the type keyword/ident
// and does not advance.
func (p *Parser) parseTypeAnnotation() ast.TypeAnnotation {
	ta := ast.TypeAnnotation{Line: p.curToken.Line}
	switch p.curToken.Type {
	case token.INTEGER:
		ta.Base = types.Integer
	case token.BOOLEAN:
		ta.Base = types.Boolean
	case token.NOTHING:
		ta.Base = types.Nothing
	case token.IDENT:
		ta.Base = types.Object
		ta.ClassID = p.curToken.Literal
	default:
		p.errorf("expected a type, got %s", p.curToken.Type)
	}
	return ta
}

// parseMethod is entered with curToken on the method name and returns
// with curToken on the closing RBRACE of the method body.
func (p *Parser) parseMethod() *ast.Method {
	method := &ast.Method{Attribute: ast.Attribute{Line: p.curToken.Line}}
	method.MethodID = p.curToken.Literal

	if !p.expectPeek(token.LPAREN) {
		return method
	}

	for !p.peekIs(token.RPAREN) {
		p.nextToken()
		param := &ast.Parameter{Attribute: ast.Attribute{Line: p.curToken.Line}}
		param.VariableID = p.curToken.Literal
		if !p.expectPeek(token.COLON) {
			return method
		}
		p.nextToken()
		param.Type = p.parseTypeAnnotation()
		method.Params = append(method.Params, param)

		if p.peekIs(token.COMMA) {
			p.nextToken()
		}
	}
	if !p.expectPeek(token.RPAREN) {
		return method
	}
	if !p.expectPeek(token.ARROW) {
		return method
	}
	p.nextToken()
	method.ReturnType = p.parseTypeAnnotation()

	if !p.expectPeek(token.LBRACE) {
		return method
	}
	method.Body = p.parseMethodBody()
	if !p.expectPeek(token.RBRACE) {
		return method
	}
	return method
}

// parseMethodBody is entered with curToken on LBRACE and returns with
// curToken on the token just before the method's closing RBRACE.
func (p *Parser) parseMethodBody() *ast.MethodBody {
	body := &ast.MethodBody{Attribute: ast.Attribute{Line: p.curToken.Line}}

	for p.peekIs(token.VAR) {
		p.nextToken()
		if d := p.parseDeclaration(); d != nil {
			body.Decls = append(body.Decls, d)
		}
	}

	for !p.peekIs(token.RETURN) && !p.peekIs(token.RBRACE) && !p.peekIs(token.EOF) {
		p.nextToken()
		if s := p.parseStatement(); s != nil {
			body.Statements = append(body.Statements, s)
		}
	}

	if p.peekIs(token.RETURN) {
		p.nextToken()
		body.Return = p.parseReturn()
	}
	return body
}

// parseReturn is entered with curToken on RETURN and returns with
// curToken on the terminating SEMICOLON.
func (p *Parser) parseReturn() *ast.Return {
	ret := &ast.Return{Attribute: ast.Attribute{Line: p.curToken.Line}}
	if p.peekIs(token.SEMICOLON) {
		p.nextToken()
		return ret
	}
	p.nextToken()
	ret.Expr = p.parseExpression(Lowest)
	if !p.expectPeek(token.SEMICOLON) {
		return ret
	}
	return ret
}

// parseStatement is entered with curToken on the first token of the
// statement and returns with curToken on the terminating SEMICOLON (for
// Assignment/Print) or the statement's last token (for If, whose inner
// statement already observes this convention).
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.IF:
		return p.parseIf()
	case token.PRINT:
		return p.parsePrint()
	case token.IDENT:
		return p.parseAssignment()
	default:
		p.errorf("unexpected token %s at start of statement", p.curToken.Type)
		return nil
	}
}

func (p *Parser) parseIf() *ast.If {
	stmt := &ast.If{Attribute: ast.Attribute{Line: p.curToken.Line}}
	if !p.expectPeek(token.LPAREN) {
		return stmt
	}
	p.nextToken()
	stmt.Cond = p.parseExpression(Lowest)
	if !p.expectPeek(token.RPAREN) {
		return stmt
	}
	p.nextToken()
	stmt.Then = p.parseStatement()
	return stmt
}

func (p *Parser) parsePrint() *ast.Print {
	stmt := &ast.Print{Attribute: ast.Attribute{Line: p.curToken.Line}}
	if !p.expectPeek(token.LPAREN) {
		return stmt
	}
	p.nextToken()
	stmt.Expr = p.parseExpression(Lowest)
	if !p.expectPeek(token.RPAREN) {
		return stmt
	}
	if !p.expectPeek(token.SEMICOLON) {
		return stmt
	}
	return stmt
}

func (p *Parser) parseAssignment() *ast.Assignment {
	stmt := &ast.Assignment{Attribute: ast.Attribute{Line: p.curToken.Line}}
	stmt.VariableID = p.curToken.Literal
	if !p.expectPeek(token.ASSIGN) {
		return stmt
	}
	p.nextToken()
	stmt.Expr = p.parseExpression(Lowest)
	if !p.expectPeek(token.SEMICOLON) {
		return stmt
	}
	return stmt
}

// parseExpression implements precedence-climbing: it is entered with
// curToken on the first token of the expression and returns with
// curToken on the expression's last token.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	left := p.parsePrefix()

	for !p.peekIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		op, ok := binOpFor(p.peekToken.Type)
		if !ok {
			return left
		}
		line := p.peekToken.Line
		prec := p.peekPrecedence()
		p.nextToken() // move onto the operator
		p.nextToken() // move onto the right operand's first token
		right := p.parseExpression(prec)
		left = &ast.BinaryOp{Attribute: ast.Attribute{Line: line}, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return Lowest
}

func binOpFor(t token.Type) (ast.BinOp, bool) {
	switch t {
	case token.PLUS:
		return ast.Plus, true
	case token.MINUS:
		return ast.Minus, true
	case token.STAR:
		return ast.Times, true
	case token.SLASH:
		return ast.Divide, true
	case token.AND:
		return ast.And, true
	case token.LT:
		return ast.LessThan, true
	case token.LTE:
		return ast.LessThanEqualTo, true
	default:
		return 0, false
	}
}

// parsePrefix handles unary operators and falls through to parsePrimary.
func (p *Parser) parsePrefix() ast.Expression {
	switch p.curToken.Type {
	case token.MINUS:
		line := p.curToken.Line
		p.nextToken()
		return &ast.UnaryOp{Attribute: ast.Attribute{Line: line}, Op: ast.UnaryMinus, Operand: p.parseExpression(Prefix)}
	case token.BANG:
		line := p.curToken.Line
		p.nextToken()
		return &ast.UnaryOp{Attribute: ast.Attribute{Line: line}, Op: ast.Not, Operand: p.parseExpression(Prefix)}
	default:
		return p.parsePrimary()
	}
}

// parsePrimary parses a literal, variable reference, self-call, method
// call, or parenthesized expression. It never advances past its own last
// token.
func (p *Parser) parsePrimary() ast.Expression {
	switch p.curToken.Type {
	case token.INT:
		return p.parseIntegerLiteral()
	case token.TRUE:
		return &ast.BooleanLiteral{Attribute: ast.Attribute{Line: p.curToken.Line}, Value: true}
	case token.FALSE:
		return &ast.BooleanLiteral{Attribute: ast.Attribute{Line: p.curToken.Line}, Value: false}
	case token.NOTHING:
		return &ast.Nothing{Attribute: ast.Attribute{Line: p.curToken.Line}}
	case token.SELF:
		return p.parseSelfCall()
	case token.LPAREN:
		p.nextToken()
		exp := p.parseExpression(Lowest)
		if !p.expectPeek(token.RPAREN) {
			return exp
		}
		return exp
	case token.IDENT:
		return p.parseIdentOrCall()
	default:
		p.errorf("unexpected token %s in expression", p.curToken.Type)
		return nil
	}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	lit := &ast.IntegerLiteral{Attribute: ast.Attribute{Line: p.curToken.Line}}
	v, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.errorf("could not parse %q as integer", p.curToken.Literal)
	}
	lit.Value = v
	return lit
}

// parseSelfCall is entered with curToken on SELF and returns with
// curToken on the call's closing RPAREN.
func (p *Parser) parseSelfCall() ast.Expression {
	line := p.curToken.Line
	if !p.expectPeek(token.DOT) {
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	methodID := p.curToken.Literal
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	args := p.parseArgList()
	return &ast.SelfCall{Attribute: ast.Attribute{Line: line}, MethodID: methodID, Args: args}
}

// parseIdentOrCall is entered with curToken on an IDENT and returns with
// curToken on either that same IDENT (bare variable reference) or the
// call's closing RPAREN (method call).
func (p *Parser) parseIdentOrCall() ast.Expression {
	line := p.curToken.Line
	name := p.curToken.Literal

	if p.peekIs(token.DOT) {
		p.nextToken() // curToken -> DOT
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		methodID := p.curToken.Literal
		if !p.expectPeek(token.LPAREN) {
			return nil
		}
		args := p.parseArgList()
		return &ast.MethodCall{Attribute: ast.Attribute{Line: line}, VariableID: name, MethodID: methodID, Args: args}
	}

	return &ast.Variable{Attribute: ast.Attribute{Line: line}, VariableID: name}
}

// parseArgList is entered with curToken on the call's '(' and returns
// with curToken on the matching ')'.
func (p *Parser) parseArgList() []ast.Expression {
	var args []ast.Expression
	if p.peekIs(token.RPAREN) {
		p.nextToken()
		return args
	}
	p.nextToken()
	args = append(args, p.parseExpression(Lowest))
	for p.peekIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		args = append(args, p.parseExpression(Lowest))
	}
	if !p.expectPeek(token.RPAREN) {
		return args
	}
	return args
}
