// Package parser implements the recursive-descent parser described in
// spec.md §4.2, turning a token stream into the ast package's statement/
// expression tree, with panic-based error recovery (synchronize mode).
package parser

import (
	"loxwalk/internal/ast"
	"loxwalk/internal/errs"
	"loxwalk/internal/token"
)

const maxArgs = 255

// Parser consumes a fixed token slice with a single cursor.
type Parser struct {
	tokens  []token.Token
	current int
	sink    *errs.Sink
}

func New(tokens []token.Token, sink *errs.Sink) *Parser {
	return &Parser{tokens: tokens, sink: sink}
}

// parseError is the internal panic value used to unwind to synchronize().
// It carries nothing: the diagnostic has already been reported to the sink
// by the time it is thrown.
type parseError struct{}

// Parse runs `program → declaration* EOF` and returns every statement that
// parsed successfully. A statement that failed to parse yields no AST
// entry, per spec.md §4.2's error-recovery rule.
func (p *Parser) Parse() []ast.Stmt {
	var statements []ast.Stmt
	for !p.atEnd() {
		if stmt, ok := p.safeDeclaration(); ok {
			statements = append(statements, stmt)
		}
	}
	return statements
}

// ParseExpression parses a single expression instead of a statement
// sequence. cmd/lox does not call it.
func (p *Parser) ParseExpression() (e ast.Expr, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, is := r.(parseError); is {
				ok = false
				return
			}
			panic(r)
		}
	}()
	return p.expression(), true
}

func (p *Parser) safeDeclaration() (stmt ast.Stmt, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, is := r.(parseError); is {
				p.synchronize()
				ok = false
				return
			}
			panic(r)
		}
	}()
	return p.declaration(), true
}

func (p *Parser) declaration() ast.Stmt {
	switch {
	case p.match(token.Class):
		return p.classDecl()
	case p.match(token.Fun):
		return p.function("function")
	case p.match(token.Var):
		return p.varDecl()
	default:
		return p.statement()
	}
}

func (p *Parser) classDecl() ast.Stmt {
	name := p.consume(token.Identifier, "Expect class name.")
	p.consume(token.LeftBrace, "Expect '{' before class body.")

	var methods []*ast.Function
	for !p.check(token.RightBrace) && !p.atEnd() {
		methods = append(methods, p.function("method"))
	}

	p.consume(token.RightBrace, "Expect '}' after class body.")
	return &ast.Class{Name: name, Methods: methods}
}

func (p *Parser) function(kind string) *ast.Function {
	name := p.consume(token.Identifier, "Expect "+kind+" name.")
	p.consume(token.LeftParen, "Expect '(' after "+kind+" name.")

	var params []token.Token
	if !p.check(token.RightParen) {
		for {
			if len(params) >= maxArgs {
				p.errorAt(p.peek(), "Can't have more than 255 parameters.")
			}
			params = append(params, p.consume(token.Identifier, "Expect parameter name."))
			if !p.match(token.Comma) {
				break
			}
		}
	}
	p.consume(token.RightParen, "Expect ')' after parameters.")

	p.consume(token.LeftBrace, "Expect '{' before "+kind+" body.")
	body := p.blockStatements()
	return &ast.Function{Name: name, Parameters: params, Body: body}
}

func (p *Parser) varDecl() ast.Stmt {
	name := p.consume(token.Identifier, "Expect variable name.")

	var initializer ast.Expr
	if p.match(token.Equal) {
		initializer = p.expression()
	}

	p.consume(token.Semicolon, "Expect ';' after variable declaration.")
	return &ast.Var{Name: name, Initializer: initializer}
}

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.For):
		return p.forStmt()
	case p.match(token.If):
		return p.ifStmt()
	case p.match(token.Print):
		return p.printStmt()
	case p.match(token.Return):
		return p.returnStmt()
	case p.match(token.While):
		return p.whileStmt()
	case p.match(token.LeftBrace):
		return &ast.Block{Statements: p.blockStatements()}
	default:
		return p.exprStmt()
	}
}

func (p *Parser) exprStmt() ast.Stmt {
	expr := p.expression()
	p.consume(token.Semicolon, "Expect ';' after expression.")
	return &ast.Expression{Expr: expr}
}

func (p *Parser) printStmt() ast.Stmt {
	value := p.expression()
	p.consume(token.Semicolon, "Expect ';' after value.")
	return &ast.Print{Expr: value}
}

func (p *Parser) returnStmt() ast.Stmt {
	keyword := p.previous()
	var value ast.Expr
	if !p.check(token.Semicolon) {
		value = p.expression()
	}
	p.consume(token.Semicolon, "Expect ';' after return value.")
	return &ast.Return{Keyword: keyword, Value: value}
}

func (p *Parser) ifStmt() ast.Stmt {
	p.consume(token.LeftParen, "Expect '(' after 'if'.")
	condition := p.expression()
	p.consume(token.RightParen, "Expect ')' after if condition.")

	thenBranch := p.statement()
	var elseBranch ast.Stmt
	if p.match(token.Else) {
		elseBranch = p.statement()
	}
	return &ast.If{Condition: condition, Then: thenBranch, Else: elseBranch}
}

func (p *Parser) whileStmt() ast.Stmt {
	p.consume(token.LeftParen, "Expect '(' after 'while'.")
	condition := p.expression()
	p.consume(token.RightParen, "Expect ')' after condition.")
	body := p.statement()
	return &ast.While{Condition: condition, Body: body}
}

// forStmt desugars `for (init; cond; inc) body` at parse time into
// `{ init; while (cond) { body; inc; } }`, per spec.md §4.2. The
// interpreter never sees a for-loop node.
func (p *Parser) forStmt() ast.Stmt {
	p.consume(token.LeftParen, "Expect '(' after 'for'.")

	var initializer ast.Stmt
	switch {
	case p.match(token.Semicolon):
		initializer = nil
	case p.match(token.Var):
		initializer = p.varDecl()
	default:
		initializer = p.exprStmt()
	}

	var condition ast.Expr
	if !p.check(token.Semicolon) {
		condition = p.expression()
	}
	p.consume(token.Semicolon, "Expect ';' after loop condition.")

	var increment ast.Expr
	if !p.check(token.RightParen) {
		increment = p.expression()
	}
	p.consume(token.RightParen, "Expect ')' after for clauses.")

	body := p.statement()

	if increment != nil {
		body = &ast.Block{Statements: []ast.Stmt{body, &ast.Expression{Expr: increment}}}
	}

	if condition == nil {
		condition = &ast.Literal{Kind: ast.LitBool, Bool: true}
	}
	body = &ast.While{Condition: condition, Body: body}

	statements := []ast.Stmt{body}
	if initializer != nil {
		statements = []ast.Stmt{initializer, body}
	}

	return &ast.Block{Statements: statements}
}

func (p *Parser) blockStatements() []ast.Stmt {
	var statements []ast.Stmt
	for !p.check(token.RightBrace) && !p.atEnd() {
		if stmt, ok := p.safeDeclaration(); ok {
			statements = append(statements, stmt)
		}
	}
	p.consume(token.RightBrace, "Expect '}' after block.")
	return statements
}

func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

// assignment parses the left side as an expression, then rewrites it into
// Assign or Set if it turns out to be the target of `=`, per spec.md §4.2.
// An invalid target is reported but does NOT throw — the right-hand side
// is still returned as the expression's value.
func (p *Parser) assignment() ast.Expr {
	expr := p.logicOr()

	if p.match(token.Equal) {
		equals := p.previous()
		value := p.assignment()

		switch target := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{Name: target.Name, Value: value}
		case *ast.Get:
			return &ast.Set{Object: target.Object, Name: target.Name, Value: value}
		default:
			p.errorAt(equals, "Invalid assignment target.")
			return value
		}
	}

	return expr
}

func (p *Parser) logicOr() ast.Expr {
	expr := p.logicAnd()
	for p.match(token.Or) {
		op := p.previous()
		right := p.logicAnd()
		expr = &ast.Logical{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) logicAnd() ast.Expr {
	expr := p.equality()
	for p.match(token.And) {
		op := p.previous()
		right := p.equality()
		expr = &ast.Logical{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(token.BangEqual, token.EqualEqual) {
		op := p.previous()
		right := p.comparison()
		expr = &ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) comparison() ast.Expr {
	expr := p.term()
	for p.match(token.Greater, token.GreaterEqual, token.Less, token.LessEqual) {
		op := p.previous()
		right := p.term()
		expr = &ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) term() ast.Expr {
	expr := p.factor()
	for p.match(token.Minus, token.Plus) {
		op := p.previous()
		right := p.factor()
		expr = &ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) factor() ast.Expr {
	expr := p.unary()
	for p.match(token.Slash, token.Star) {
		op := p.previous()
		right := p.unary()
		expr = &ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.match(token.Bang, token.Minus) {
		op := p.previous()
		right := p.unary()
		return &ast.Unary{Operator: op, Right: right}
	}
	return p.call()
}

func (p *Parser) call() ast.Expr {
	expr := p.primary()

	for {
		switch {
		case p.match(token.LeftParen):
			expr = p.finishCall(expr)
		case p.match(token.Dot):
			name := p.consume(token.Identifier, "Expect property name after '.'.")
			expr = &ast.Get{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RightParen) {
		for {
			if len(args) >= maxArgs {
				p.errorAt(p.peek(), "Can't have more than 255 arguments.")
			}
			args = append(args, p.expression())
			if !p.match(token.Comma) {
				break
			}
		}
	}
	paren := p.consume(token.RightParen, "Expect ')' after arguments.")
	return &ast.Call{Callee: callee, Paren: paren, Arguments: args}
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.False):
		return &ast.Literal{Kind: ast.LitBool, Bool: false}
	case p.match(token.True):
		return &ast.Literal{Kind: ast.LitBool, Bool: true}
	case p.match(token.Nil):
		return &ast.Literal{Kind: ast.LitNil}
	case p.match(token.Number):
		return &ast.Literal{Kind: ast.LitNumber, Number: p.previous().Literal.Number}
	case p.match(token.String):
		return &ast.Literal{Kind: ast.LitString, Str: p.previous().Literal.Str}
	case p.match(token.This):
		return &ast.This{Keyword: p.previous()}
	case p.match(token.Identifier):
		return &ast.Variable{Name: p.previous()}
	case p.match(token.LeftParen):
		expr := p.expression()
		p.consume(token.RightParen, "Expect ')' after expression.")
		return &ast.Grouping{Inner: expr}
	default:
		p.errorAt(p.peek(), "Expect expression.")
		panic(parseError{})
	}
}

// --------------- helpers --------------- //

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(kind token.Kind, message string) token.Token {
	if p.check(kind) {
		return p.advance()
	}
	p.errorAt(p.peek(), message)
	panic(parseError{})
}

func (p *Parser) check(kind token.Kind) bool {
	return !p.atEnd() && p.peek().Kind == kind
}

func (p *Parser) advance() token.Token {
	if !p.atEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) atEnd() bool {
	return p.peek().Kind == token.EOF
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) errorAt(tok token.Token, message string) {
	p.sink.ReportAt(tok, message)
}

// synchronize discards tokens until it believes it is at the start of the
// next statement, per spec.md §4.2.
func (p *Parser) synchronize() {
	// A failing declaration has always consumed its first token when that
	// token is one of these keywords, so stopping here still makes progress.
	switch p.peek().Kind {
	case token.Class, token.Fun, token.Var, token.For, token.If, token.While, token.Print, token.Return:
		return
	}
	p.advance()

	for !p.atEnd() {
		if p.previous().Kind == token.Semicolon {
			return
		}

		switch p.peek().Kind {
		case token.Class, token.Fun, token.Var, token.For, token.If, token.While, token.Print, token.Return:
			return
		}

		p.advance()
	}
}
