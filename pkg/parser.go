package lox

import (
	"strconv"

	"golang.org/x/sync/errgroup"
)

const maxArgs = 255

// SyntacticAnalyzer is the interface the Resolver consumes, mirroring Tokenizer one stage up.
type SyntacticAnalyzer interface {
	GetFilename() string
	Parse() (*Program, error)
}

// Parser is a recursive-descent, precedence-climbing parser with panic-mode error recovery.
// It pulls tokens lazily from a Tokenizer, buffering at most one token of lookahead.
type Parser struct {
	filename  string
	tokenizer Tokenizer
	buf       *Token
	eof       bool
	errs      errorList
}

// NewParser builds a parser reading from tokenizer.
func NewParser(tokenizer Tokenizer) *Parser {
	return &Parser{
		tokenizer: tokenizer,
		filename:  tokenizer.GetFilename(),
	}
}

func (p *Parser) GetFilename() string { return p.filename }

// Parse runs the tokenizer to completion and parses the full program, per the `program` rule of
// the grammar. Errors are accumulated and parsing continues past them (panic-mode recovery);
// Parse returns a non-nil error only once parsing is done, aggregating every problem found.
func (p *Parser) Parse() (*Program, error) {
	var g errgroup.Group
	g.Go(func() error {
		p.tokenizer.Do()
		return nil
	})
	defer g.Wait()

	prog := &Program{Filename: p.filename}
	for p.peek().Typ != TokenEOF {
		stmt := p.declaration()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
	}

	return prog, p.errs.errOrNil()
}

// ParseExpression supports the REPL's "evaluate one expression" mode: it parses a single
// expression and requires exactly EOF to remain.
func (p *Parser) ParseExpression() (expr Expr, err error) {
	var g errgroup.Group
	g.Go(func() error {
		p.tokenizer.Do()
		return nil
	})
	// Parsing may stop before EOF; drain the unread tokens so the producer can finish.
	defer func() {
		for !p.eof && p.tokenizer.Get().Typ != TokenEOF {
		}
		g.Wait()
	}()

	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseBail); ok {
				err = p.errs.errOrNil()
				return
			}
			panic(r)
		}
	}()

	expr = p.expression()
	if p.peek().Typ != TokenEOF {
		p.errorf(p.peek().Loc, &invalidExpressionError{tok: p.peek()})
	}
	return expr, p.errs.errOrNil()
}

// token stream helpers

// peek returns, without consuming, the next non-error token; lexer errors found along the way are
// folded into the parser's own error list so a single pass reports both lexical and syntactic
// problems.
func (p *Parser) peek() Token {
	for p.buf == nil && !p.eof {
		t := p.tokenizer.Get()

		if t.Typ == TokenError {
			p.errorf(t.Loc, lexError(t.Lexeme))
			continue
		}

		p.buf = &t
		if t.Typ == TokenEOF {
			p.eof = true
		}
	}

	if p.buf == nil {
		return Token{Typ: TokenEOF}
	}
	return *p.buf
}

func (p *Parser) next() Token {
	t := p.peek()
	if t.Typ != TokenEOF {
		p.buf = nil
	}
	return t
}

func (p *Parser) check(typ TokenType) bool {
	return p.peek().Typ == typ
}

func (p *Parser) match(types ...TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.next()
			return true
		}
	}
	return false
}

// consume requires the next token to be typ, recording an error and returning the offending token
// (not consumed) and false if not (the caller decides how to recover).
func (p *Parser) consume(typ TokenType) (Token, bool) {
	if p.check(typ) {
		return p.next(), true
	}

	got := p.peek()
	p.errorf(got.Loc, &unexpectedTokenError{got: got.Typ, expected: typ})
	return got, false
}

func (p *Parser) errorf(loc Location, err error) {
	p.errs = p.errs.append(&LocatedError{Loc: loc, Err: err})
}

// synchronize discards tokens until it finds a likely statement boundary: a semicolon just
// consumed, or the next token starting a new statement.
func (p *Parser) synchronize() {
	for p.peek().Typ != TokenEOF {
		if p.peek().Typ == TokenSemicolon {
			p.next()
			return
		}
		if isStmtStart(p.peek().Typ) {
			return
		}
		p.next()
	}
}

func isStmtStart(t TokenType) bool {
	for _, s := range statementStartKeywords {
		if s == t {
			return true
		}
	}
	return false
}

// parseBail unwinds out of a deeply nested recursive-descent call once an unrecoverable error is
// hit inside a single declaration, letting declaration() run synchronize() exactly once.
type parseBail struct{}

func (p *Parser) bail() {
	panic(parseBail{})
}

// declarations and statements

func (p *Parser) declaration() (stmt Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseBail); ok {
				p.synchronize()
				stmt = nil
				return
			}
			panic(r)
		}
	}()

	switch {
	case p.check(TokenVar):
		return p.varDecl()
	case p.check(TokenFun):
		return p.funDecl()
	default:
		return p.statement()
	}
}

func (p *Parser) varDecl() Stmt {
	loc := p.next().Loc // `var`

	name, ok := p.consume(TokenIdentifier)
	if !ok {
		p.bail()
	}

	var init Expr
	if p.match(TokenEqual) {
		init = p.expression()
	}

	if _, ok := p.consume(TokenSemicolon); !ok {
		p.bail()
	}

	return &VarStmt{Name: name.Lexeme, Init: init, Loc: loc}
}

func (p *Parser) funDecl() Stmt {
	loc := p.next().Loc // `fun`

	name, ok := p.consume(TokenIdentifier)
	if !ok {
		p.bail()
	}

	if _, ok := p.consume(TokenLeftParen); !ok {
		p.bail()
	}

	var params []string
	if !p.check(TokenRightParen) {
		for {
			if len(params) >= maxArgs {
				p.errorf(p.peek().Loc, &tooManyArgumentsError{limit: maxArgs})
			}

			param, ok := p.consume(TokenIdentifier)
			if !ok {
				p.bail()
			}
			params = append(params, param.Lexeme)

			if !p.match(TokenComma) {
				break
			}
		}
	}

	if _, ok := p.consume(TokenRightParen); !ok {
		p.bail()
	}

	if _, ok := p.consume(TokenLeftBrace); !ok {
		p.bail()
	}
	body := p.block()

	return &FunctionStmt{Name: name.Lexeme, Params: params, Body: body, Loc: loc}
}

func (p *Parser) statement() Stmt {
	switch {
	case p.check(TokenPrint):
		return p.printStmt()
	case p.check(TokenLeftBrace):
		p.next()
		return &BlockStmt{Statements: p.block()}
	case p.check(TokenIf):
		return p.ifStmt()
	case p.check(TokenWhile):
		return p.whileStmt()
	case p.check(TokenFor):
		return p.forStmt()
	case p.check(TokenReturn):
		return p.returnStmt()
	default:
		return p.exprStmt()
	}
}

func (p *Parser) block() []Stmt {
	var stmts []Stmt
	for !p.check(TokenRightBrace) && p.peek().Typ != TokenEOF {
		stmt := p.declaration()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	if _, ok := p.consume(TokenRightBrace); !ok {
		p.bail()
	}
	return stmts
}

func (p *Parser) printStmt() Stmt {
	p.next() // `print`
	expr := p.expression()
	if _, ok := p.consume(TokenSemicolon); !ok {
		p.bail()
	}
	return &PrintStmt{Expr: expr}
}

func (p *Parser) exprStmt() Stmt {
	expr := p.expression()
	if _, ok := p.consume(TokenSemicolon); !ok {
		p.bail()
	}
	return &ExpressionStmt{Expr: expr}
}

func (p *Parser) ifStmt() Stmt {
	p.next() // `if`
	if _, ok := p.consume(TokenLeftParen); !ok {
		p.bail()
	}
	cond := p.expression()
	if _, ok := p.consume(TokenRightParen); !ok {
		p.bail()
	}

	then := p.statement()
	var elseBranch Stmt
	if p.match(TokenElse) {
		elseBranch = p.statement()
	}

	return &IfStmt{Cond: cond, Then: then, Else: elseBranch}
}

func (p *Parser) whileStmt() Stmt {
	p.next() // `while`
	if _, ok := p.consume(TokenLeftParen); !ok {
		p.bail()
	}
	cond := p.expression()
	if _, ok := p.consume(TokenRightParen); !ok {
		p.bail()
	}
	body := p.statement()

	return &WhileStmt{Cond: cond, Body: body}
}

// forStmt desugars `for(init; cond; step) body` into `Block([init, While(cond, Block([body,
// step]))])`, omitting the inner block/step when absent and defaulting the condition to `true`.
func (p *Parser) forStmt() Stmt {
	loc := p.next().Loc // `for`
	if _, ok := p.consume(TokenLeftParen); !ok {
		p.bail()
	}

	var init Stmt
	switch {
	case p.match(TokenSemicolon):
		init = nil
	case p.check(TokenVar):
		init = p.varDecl()
	default:
		init = p.exprStmt()
	}

	var cond Expr
	if !p.check(TokenSemicolon) {
		cond = p.expression()
	}
	if _, ok := p.consume(TokenSemicolon); !ok {
		p.bail()
	}

	var step Expr
	if !p.check(TokenRightParen) {
		step = p.expression()
	}
	if _, ok := p.consume(TokenRightParen); !ok {
		p.bail()
	}

	body := p.statement()

	if step != nil {
		body = &BlockStmt{Statements: []Stmt{body, &ExpressionStmt{Expr: step}}}
	}

	if cond == nil {
		cond = &Literal{Value: Bool(true), Loc: loc}
	}
	body = &WhileStmt{Cond: cond, Body: body}

	if init != nil {
		body = &BlockStmt{Statements: []Stmt{init, body}}
	}

	return body
}

func (p *Parser) returnStmt() Stmt {
	loc := p.next().Loc // `return`

	var value Expr
	if !p.check(TokenSemicolon) {
		value = p.expression()
	}
	if _, ok := p.consume(TokenSemicolon); !ok {
		p.bail()
	}

	return &ReturnStmt{Value: value, Loc: loc}
}

// expressions, lowest precedence first

func (p *Parser) expression() Expr {
	return p.assignment()
}

func (p *Parser) assignment() Expr {
	expr := p.or()

	if p.check(TokenEqual) {
		eq := p.next()
		value := p.assignment()

		if v, ok := expr.(*Variable); ok {
			return &Assign{Name: v.Name, Value: value, Loc: v.Loc}
		}

		p.errorf(eq.Loc, &invalidLvalueError{})
		return expr
	}

	return expr
}

func (p *Parser) or() Expr {
	expr := p.and()
	for p.check(TokenOr) {
		loc := p.next().Loc
		right := p.and()
		expr = &Binary{Left: expr, Op: OpOr, Right: right, Loc: loc}
	}
	return expr
}

func (p *Parser) and() Expr {
	expr := p.equality()
	for p.check(TokenAnd) {
		loc := p.next().Loc
		right := p.equality()
		expr = &Binary{Left: expr, Op: OpAnd, Right: right, Loc: loc}
	}
	return expr
}

func (p *Parser) equality() Expr {
	expr := p.comparison()
	for p.check(TokenBangEqual) || p.check(TokenEqualEqual) {
		op, loc := p.binOpToken()
		right := p.comparison()
		expr = &Binary{Left: expr, Op: op, Right: right, Loc: loc}
	}
	return expr
}

func (p *Parser) comparison() Expr {
	expr := p.term()
	for p.check(TokenGreater) || p.check(TokenGreaterEqual) || p.check(TokenLess) || p.check(TokenLessEqual) {
		op, loc := p.binOpToken()
		right := p.term()
		expr = &Binary{Left: expr, Op: op, Right: right, Loc: loc}
	}
	return expr
}

func (p *Parser) term() Expr {
	expr := p.factor()
	for p.check(TokenPlus) || p.check(TokenMinus) {
		op, loc := p.binOpToken()
		right := p.factor()
		expr = &Binary{Left: expr, Op: op, Right: right, Loc: loc}
	}
	return expr
}

func (p *Parser) factor() Expr {
	expr := p.unary()
	for p.check(TokenSlash) || p.check(TokenStar) {
		op, loc := p.binOpToken()
		right := p.unary()
		expr = &Binary{Left: expr, Op: op, Right: right, Loc: loc}
	}
	return expr
}

// binOpToken consumes the current token (assumed to be a binary operator) and maps it to a
// BinaryOp.
func (p *Parser) binOpToken() (BinaryOp, Location) {
	tok := p.next()
	switch tok.Typ {
	case TokenPlus:
		return OpAdd, tok.Loc
	case TokenMinus:
		return OpSubtract, tok.Loc
	case TokenStar:
		return OpMultiply, tok.Loc
	case TokenSlash:
		return OpDivide, tok.Loc
	case TokenEqualEqual:
		return OpEqual, tok.Loc
	case TokenBangEqual:
		return OpNotEqual, tok.Loc
	case TokenLess:
		return OpLess, tok.Loc
	case TokenLessEqual:
		return OpLessEqual, tok.Loc
	case TokenGreater:
		return OpGreater, tok.Loc
	case TokenGreaterEqual:
		return OpGreaterEqual, tok.Loc
	default:
		return OpAdd, tok.Loc // unreachable given the callers above
	}
}

func (p *Parser) unary() Expr {
	if p.check(TokenBang) || p.check(TokenMinus) {
		tok := p.next()
		operand := p.unary()
		op := OpNot
		if tok.Typ == TokenMinus {
			op = OpNegate
		}
		return &Unary{Op: op, Operand: operand, Loc: tok.Loc}
	}
	return p.call()
}

func (p *Parser) call() Expr {
	expr := p.primary()

	for p.check(TokenLeftParen) {
		loc := p.next().Loc
		var args []Expr
		if !p.check(TokenRightParen) {
			for {
				if len(args) >= maxArgs {
					p.errorf(p.peek().Loc, &tooManyArgumentsError{limit: maxArgs})
				}
				args = append(args, p.expression())
				if !p.match(TokenComma) {
					break
				}
			}
		}
		if _, ok := p.consume(TokenRightParen); !ok {
			p.bail()
		}
		expr = &Call{Callee: expr, Args: args, Loc: loc}
	}

	return expr
}

func (p *Parser) primary() Expr {
	tok := p.peek()

	switch tok.Typ {
	case TokenNumber:
		p.next()
		return &Literal{Value: parseNumberLiteral(tok.Lexeme), Loc: tok.Loc}
	case TokenString:
		p.next()
		return &Literal{Value: String(tok.Lexeme), Loc: tok.Loc}
	case TokenTrue:
		p.next()
		return &Literal{Value: Bool(true), Loc: tok.Loc}
	case TokenFalse:
		p.next()
		return &Literal{Value: Bool(false), Loc: tok.Loc}
	case TokenNil:
		p.next()
		return &Literal{Value: Nil, Loc: tok.Loc}
	case TokenIdentifier:
		p.next()
		return &Variable{Name: tok.Lexeme, Loc: tok.Loc}
	case TokenLeftParen:
		p.next()
		expr := p.expression()
		if _, ok := p.consume(TokenRightParen); !ok {
			p.bail()
		}
		return &Grouping{Expr: expr, Loc: tok.Loc}
	default:
		p.errorf(tok.Loc, &invalidExpressionError{tok: tok})
		if tok.Typ != TokenEOF {
			p.next()
		}
		p.bail()
		return &BadExpr{Loc: tok.Loc, Msg: "invalid expression"}
	}
}

// parseNumberLiteral converts a lexer-validated digit run into a Number Value. The lexer only
// ever emits TokenNumber for a well-formed float literal, so a parse failure here would be an
// interpreter bug rather than a user-facing one.
func parseNumberLiteral(lexeme string) Value {
	n, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		return Number(0)
	}
	return Number(n)
}
