package parser

import (
	"fmt"
	"mox/ast"
	"mox/diag"
	"mox/token"
	"mox/value"
)

const MAX_CALL_PARAMS = 255

type Parser struct {
	tokens  []token.Token
	current int

	diags *diag.Collector
}

// Used to unwind the parser up to the declaration loop on malformed syntax.
// It never escapes Parse.
type syntaxError struct{}

func MakeParser(tokens []token.Token, diags *diag.Collector) Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.END_OF_FILE {
		tokens = append(tokens, token.Token{Kind: token.END_OF_FILE})
	}

	return Parser{tokens: tokens, diags: diags}
}

// Scans and parses source. Errors are reported to diags.
func ParseSource(source string, diags *diag.Collector) []ast.Stmt {
	scn := MakeScanner(source, diags)
	p := MakeParser(scn.ScanTokens(), diags)
	return p.Parse()
}

// Parses the whole token stream. Declarations with syntax errors are
// dropped, the caller must check the collector before using the result.
func (p *Parser) Parse() []ast.Stmt {
	stmts := make([]ast.Stmt, 0)

	for !p.check(token.END_OF_FILE) {
		if stmt := p.safeDeclaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}

	return stmts
}

func (p *Parser) safeDeclaration() (stmt ast.Stmt) {
	// Synchronize tokens if malformed syntax is detected.
	defer func() {
		if v := recover(); v != nil {
			if _, ok := v.(syntaxError); !ok {
				panic(v)
			}
			p.synchronize()
			stmt = nil
		}
	}()

	return p.declaration()
}

// Statement parsing methods
// --------------------------------------------------------
func (p *Parser) declaration() ast.Stmt {
	switch {
	case p.match(token.CLASS):
		return p.classDeclaration()
	case p.match(token.FUN):
		return p.function("function")
	case p.match(token.VAR):
		return p.varDeclaration()

	default:
		return p.statement()
	}
}

func (p *Parser) classDeclaration() ast.Stmt {
	name := p.consume(token.IDENTIFIER, "Expect class name.")

	superclass := (*ast.Variable)(nil)
	if p.match(token.LESS) {
		sname := p.consume(token.IDENTIFIER, "Expect superclass name.")
		superclass = &ast.Variable{Name: sname}
	}

	p.consume(token.LEFT_BRACE, "Expect '{' before class body.")

	methods := make([]*ast.Function, 0)
	for !p.check(token.RIGHT_BRACE) && !p.check(token.END_OF_FILE) {
		methods = append(methods, p.function("method"))
	}

	p.consume(token.RIGHT_BRACE, "Expect '}' after class body.")
	return &ast.Class{Name: name, Superclass: superclass, Methods: methods}
}

// Parses functions and methods, kind is only used for error messages.
func (p *Parser) function(kind string) *ast.Function {
	name := p.consume(token.IDENTIFIER, "Expect "+kind+" name.")

	// Parse parameters: '(' parameters? ')'
	p.consume(token.LEFT_PAREN, "Expect '(' after "+kind+" name.")
	params := make([]token.Token, 0)

	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(params) >= MAX_CALL_PARAMS {
				p.errorAt(p.peek(), fmt.Sprintf(
					"Can't have more than %v parameters.", MAX_CALL_PARAMS,
				))
				// Continue after the error as the syntax is well formed.
			}

			params = append(params, p.consume(token.IDENTIFIER, "Expect parameter name."))

			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RIGHT_PAREN, "Expect ')' after parameters.")

	p.consume(token.LEFT_BRACE, "Expect '{' before "+kind+" body.")
	body := p.bareBlock()

	return &ast.Function{Name: name, Params: params, Body: body}
}

func (p *Parser) varDeclaration() ast.Stmt {
	name := p.consume(token.IDENTIFIER, "Expect variable name.")

	init_value := ast.Expr(nil)
	if p.match(token.EQUAL) {
		init_value = p.expression()
	}

	p.consume(token.SEMICOLON, "Expect ';' after variable declaration.")
	return &ast.Var{Name: name, Initializer: init_value}
}

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.PRINT):
		return p.printStatement()
	case p.match(token.RETURN):
		return p.returnStatement()

	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.FOR):
		return p.forStatement()

	case p.match(token.LEFT_BRACE):
		return ast.NewBlock(p.bareBlock()...)

	default:
		return p.expressionStatement()
	}
}

func (p *Parser) printStatement() ast.Stmt {
	expr := p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after value.")

	return &ast.Print{Expression: expr}
}

func (p *Parser) returnStatement() ast.Stmt {
	kw := p.previous()
	result := ast.Expr(nil) // A return with no expression returns nil.

	if !p.check(token.SEMICOLON) {
		result = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after return value.")

	return &ast.Return{Keyword: kw, Value: result}
}

func (p *Parser) ifStatement() ast.Stmt {
	p.consume(token.LEFT_PAREN, "Expect '(' after 'if'.")
	condition := p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after if condition.")

	then_branch := p.statement()
	else_branch := ast.Stmt(nil)
	if p.match(token.ELSE) {
		else_branch = p.statement()
	}

	return &ast.If{
		Condition:  condition,
		ThenBranch: then_branch,
		ElseBranch: else_branch,
	}
}

func (p *Parser) whileStatement() ast.Stmt {
	p.consume(token.LEFT_PAREN, "Expect '(' after 'while'.")
	condition := p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after condition.")

	body := p.statement()

	return &ast.While{Condition: condition, Body: body}
}

func (p *Parser) forStatement() ast.Stmt {
	// We do the following construction:
	// { initializer; while (condition) { body_stmt; increment; } }
	p.consume(token.LEFT_PAREN, "Expect '(' after 'for'.")

	init := ast.Stmt(nil)
	switch {
	case p.match(token.SEMICOLON):
		init = nil
	case p.match(token.VAR):
		init = p.varDeclaration()
	default:
		init = p.expressionStatement()
	}

	cond := ast.Expr(&ast.Literal{Value: value.Boolean(true)})
	if !p.check(token.SEMICOLON) {
		cond = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after loop condition.")

	increment := ast.Expr(nil)
	if !p.check(token.RIGHT_PAREN) {
		increment = p.expression()
	}
	p.consume(token.RIGHT_PAREN, "Expect ')' after for clauses.")

	body := p.statement()

	if increment != nil {
		body = ast.NewBlock(body, &ast.Expression{Expression: increment})
	}

	loop := ast.Stmt(&ast.While{Condition: cond, Body: body})
	if init != nil {
		loop = ast.NewBlock(init, loop)
	}

	return loop
}

func (p *Parser) expressionStatement() ast.Stmt {
	expr := p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after expression.")

	return &ast.Expression{Expression: expr}
}

// Expression parsing methods
// --------------------------------------------------------
func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

func (p *Parser) assignment() ast.Expr {
	// Since the '=' can be any number of tokens ahead,
	// parse the LHS first and then check for equal sign and verify that the
	// assignment target is valid.
	expr := p.ternary()

	if p.match(token.EQUAL) {
		equals := p.previous()
		rhs := p.assignment()

		switch target := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{Name: target.Name, Value: rhs}
		case *ast.Get:
			// If Get(like: expr.name) then transform it into Set.
			// Where the name is the property to be set.
			return &ast.Set{
				Object: target.Object,
				Name:   target.Name,
				Value:  rhs,
			}
		default:
			p.errorAt(equals, "Invalid assignment target.")
			// Continue after the error as the syntax is well formed.
		}
	}

	return expr
}

func (p *Parser) ternary() ast.Expr {
	expr := p.logicOr()

	if p.match(token.QUESTION) {
		true_expr := p.expression()
		p.consume(token.COLON, "Expect ':' after then branch of ternary expression.")
		false_expr := p.ternary()

		return &ast.Ternary{
			Condition: expr,
			TrueExpr:  true_expr,
			FalseExpr: false_expr,
		}
	}

	return expr
}

// Generic helper function for parsing left-associative binary expressions.
func doLeftBinaryExpr[E ast.Binary | ast.Logical](
	p *Parser, next_rule func() ast.Expr, matches ...token.TokenKind) ast.Expr {
	left := next_rule()

	for p.match_any(matches...) {
		op := p.previous()
		right := next_rule()

		left = any(&E{Operator: op, Left: left, Right: right}).(ast.Expr)
	}

	return left
}

func (p *Parser) logicOr() ast.Expr {
	return doLeftBinaryExpr[ast.Logical](p, p.logicAnd, token.OR)
}

func (p *Parser) logicAnd() ast.Expr {
	return doLeftBinaryExpr[ast.Logical](p, p.equality, token.AND)
}

func (p *Parser) equality() ast.Expr {
	return doLeftBinaryExpr[ast.Binary](p, p.comparison,
		token.EQUAL_EQUAL, token.BANG_EQUAL)
}

func (p *Parser) comparison() ast.Expr {
	return doLeftBinaryExpr[ast.Binary](p, p.term,
		token.LESS, token.LESS_EQUAL, token.GREATER, token.GREATER_EQUAL)
}

func (p *Parser) term() ast.Expr {
	return doLeftBinaryExpr[ast.Binary](p, p.factor,
		token.PLUS, token.MINUS)
}

func (p *Parser) factor() ast.Expr {
	return doLeftBinaryExpr[ast.Binary](p, p.unary,
		token.STAR, token.SLASH)
}

func (p *Parser) unary() ast.Expr {
	if p.match_any(token.BANG, token.MINUS) {
		op := p.previous()
		right := p.unary()
		return &ast.Unary{Operator: op, Right: right}
	}

	return p.call()
}

func (p *Parser) call() ast.Expr {
	// This parses function calls and get(property access),
	// both are left-associative.
	expr := p.primary()

	for {
		if p.match(token.DOT) {
			name := p.consume(token.IDENTIFIER, "Expect property name after '.'.")
			expr = &ast.Get{Object: expr, Name: name}
		} else if p.match(token.LEFT_PAREN) {
			expr = p.finish_call(expr)
		} else {
			break
		}
	}

	return expr
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.FALSE):
		return &ast.Literal{Value: value.Boolean(false)}
	case p.match(token.TRUE):
		return &ast.Literal{Value: value.Boolean(true)}
	case p.match(token.NIL):
		return &ast.Literal{Value: value.Nil{}}

	case p.match(token.THIS):
		return &ast.This{Keyword: p.previous()}

	case p.match(token.SUPER):
		keyword := p.previous()
		p.consume(token.DOT, "Expect '.' after 'super'.")
		// Any usage of 'super' must access a method of the superclass.
		method := p.consume(token.IDENTIFIER, "Expect superclass method name.")
		return &ast.Super{Keyword: keyword, Method: method}

	case p.match_any(token.NUMBER, token.STRING):
		return &ast.Literal{Value: p.previous().Literal}

	case p.match(token.IDENTIFIER):
		return &ast.Variable{Name: p.previous()}

	case p.match(token.LEFT_PAREN):
		expr := p.expression()
		p.consume(token.RIGHT_PAREN, "Expect ')' after expression.")
		return &ast.Grouping{Expr: expr}
	}

	p.errorAt(p.peek(), "Expect expression.")
	panic(syntaxError{})
}

// Parsing helpers
// --------------------------------------------------------
// Parses: declaration* '}'.
func (p *Parser) bareBlock() []ast.Stmt {
	stmts := make([]ast.Stmt, 0)

	for !p.check(token.RIGHT_BRACE) && !p.check(token.END_OF_FILE) {
		if stmt := p.safeDeclaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}

	p.consume(token.RIGHT_BRACE, "Expect '}' after block.")

	return stmts
}

// Parses call arguments: (expr (',' expr)*)? ')'
func (p *Parser) finish_call(callee ast.Expr) ast.Expr {
	args := make([]ast.Expr, 0)

	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(args) >= MAX_CALL_PARAMS {
				p.errorAt(p.peek(), fmt.Sprintf(
					"Can't have more than %v arguments.", MAX_CALL_PARAMS,
				))
			}
			// Continue after the error as the syntax is well formed.

			args = append(args, p.expression())

			if !p.match(token.COMMA) {
				break
			}
		}
	}

	paren := p.consume(token.RIGHT_PAREN, "Expect ')' after arguments.")
	return &ast.Call{Callee: callee, Paren: paren, Arguments: args}
}

// Error reporting and recovery methods
// --------------------------------------------------------
func (p *Parser) errorAt(tok token.Token, message string) {
	p.diags.ReportAt(tok, message)
}

// Synchronize the token stream after seeing malformed syntax to prevent
// cascading errors and parse as much correct syntax as possible.
func (p *Parser) synchronize() {
	// Discard the token on which the error happened and continue to do so
	// until we find a token which might begin a new statement/declaration.
	p.advance()

	for !p.check(token.END_OF_FILE) {
		// If a statement has ended then we might see a new statement.
		if p.previous().Kind == token.SEMICOLON {
			return
		}

		// If we see a token which is beginning of a statement.
		switch p.peek().Kind {
		case token.CLASS, token.FUN, token.VAR,
			token.FOR, token.IF, token.WHILE,
			token.RETURN, token.PRINT:
			return

		default:
			p.advance()
		}
	}
}

// Parser token matching and processing methods
// --------------------------------------------------------
func (p *Parser) consume(kind token.TokenKind, message string) token.Token {
	if p.check(kind) {
		return p.advance()
	}

	p.errorAt(p.peek(), message)
	panic(syntaxError{})
}

func (p *Parser) match_any(kinds ...token.TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			p.advance()
			return true
		}
	}

	return false
}

func (p *Parser) match(kind token.TokenKind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}

	return false
}

func (p *Parser) check(kind token.TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() token.Token {
	if p.current == 0 {
		return token.Token{}
	}
	return p.tokens[p.current-1]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Kind == token.END_OF_FILE
}
