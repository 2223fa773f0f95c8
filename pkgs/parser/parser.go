// Package parser implements the recursive-descent parser that builds
// the AST while performing scope-offset resolution for identifiers:
// every Identifier the parser emits is annotated with the number of
// environment frames to walk at runtime to find its declaration, so
// the evaluator reads a variable without searching by name.
package parser

import (
	"github.com/aledsdavies/loxwalk/pkgs/ast"
	"github.com/aledsdavies/loxwalk/pkgs/diag"
	"github.com/aledsdavies/loxwalk/pkgs/token"
)

const maxCallArgs = 255

// Parser consumes a fixed token slice (produced by the lexer ahead of
// time) and resolves identifiers against a live scope tree that
// mirrors the runtime environment the evaluator will see.
type Parser struct {
	tokens []token.Token
	pos    int
	scope  *scope
	errors []*diag.Error
}

// New creates a parser over tokens, starting scope resolution from a
// fresh top-level scope.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens, scope: newScope()}
}

// Parse runs to completion, resynchronizing at statement boundaries on
// error, and returns every statement it managed to build plus every
// diagnostic it collected.
func Parse(tokens []token.Token) ([]ast.Stmt, []*diag.Error) {
	p := New(tokens)
	var stmts []ast.Stmt
	for !p.isAtEnd() {
		stmts = append(stmts, p.declaration())
	}
	return stmts, p.errors
}

// --- declarations & statements ---

func (p *Parser) declaration() ast.Stmt {
	if p.match(token.VAR) {
		return p.varDeclaration()
	}
	return p.statement()
}

func (p *Parser) varDeclaration() ast.Stmt {
	nameTok, ok := p.consume(token.IDENTIFIER, "expected variable name")
	if !ok {
		p.synchronize()
		return ast.EmptyStmt{}
	}

	var init ast.Expr = ast.EmptyExpr{}
	if p.match(token.EQUAL) {
		init = p.expression()
	}

	if _, ok := p.consume(token.SEMI, "expected ';' after variable declaration"); !ok {
		p.errAt(p.previous().Loc, diag.KindOpenStatement)
		p.synchronize()
	}

	// Declared only now: the initializer resolved against the outer
	// scope, so `var a = a + 1;` in a shadowing block reads the
	// enclosing `a` (scenario S7).
	p.scope.declare(nameTok.Lexeme)

	return ast.DeclarationStmt{Name: ast.Identifier{Name: nameTok.Lexeme}, Initializer: init}
}

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.PRINT):
		return p.printStatement()
	case p.match(token.LBRACE):
		return p.blockStatement()
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.LOOP):
		return p.loopStatement()
	case p.match(token.FOR):
		return p.forStatement()
	case p.match(token.FUN):
		return p.functionStatement()
	case p.match(token.RETURN):
		return p.returnStatement()
	case p.match(token.BREAK):
		return p.breakStatement()
	case p.match(token.SEMI):
		return ast.EmptyStmt{}
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) printStatement() ast.Stmt {
	expr := p.expression()
	p.expectSemi()
	return ast.PrintStmt{Expr: expr}
}

func (p *Parser) expressionStatement() ast.Stmt {
	expr := p.expression()
	p.expectSemi()
	return ast.ExpressionStmt{Expr: expr}
}

func (p *Parser) expectSemi() {
	if _, ok := p.consume(token.SEMI, "expected ';'"); !ok {
		p.errAt(p.previous().Loc, diag.KindOpenStatement)
		p.synchronize()
	}
}

// blockStatement assumes the opening '{' has already been consumed by
// statement()'s match. It pushes a fresh scope for the duration of
// parsing the block's statements, mirroring the one fresh dynamic
// frame the evaluator narrows per block entry.
func (p *Parser) blockStatement() ast.Stmt {
	stmts := p.blockBody()
	return ast.BlockStmt{Stmts: stmts}
}

// blockBody parses `{ declaration* }` (the '{' already consumed),
// narrowing and restoring p.scope around the body.
func (p *Parser) blockBody() []ast.Stmt {
	p.scope = p.scope.narrow()
	defer func() { p.scope = p.scope.parent }()

	var stmts []ast.Stmt
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		stmts = append(stmts, p.declaration())
	}
	if _, ok := p.consume(token.RBRACE, "expected '}' after block"); !ok {
		p.errAt(p.current().Loc, diag.KindMismatchedParens)
		p.synchronize()
	}
	return stmts
}

func (p *Parser) ifStatement() ast.Stmt {
	if _, ok := p.consume(token.LPAREN, "expected '(' after 'if'"); !ok {
		p.errAt(p.current().Loc, diag.KindMissingToken, "'(' after if")
	}
	cond := p.expression()
	if _, ok := p.consume(token.RPAREN, "expected ')' after condition"); !ok {
		p.errAt(p.current().Loc, diag.KindMismatchedParens)
	}

	then := p.statement()
	var elseStmt ast.Stmt
	if p.match(token.ELSE) {
		elseStmt = p.statement()
	}
	return ast.ConditionalStmt{Cond: cond, Then: then, Else: elseStmt}
}

// whileStatement parses `while (cond) { body }`. cond and body share a
// single parse-time scope, narrowed once before cond, so both resolve
// identifiers against the same frame depth execWhile evaluates them
// in — a fresh per-iteration frame narrowed once from the frame this
// statement itself runs in.
func (p *Parser) whileStatement() ast.Stmt {
	if _, ok := p.consume(token.LPAREN, "expected '(' after 'while'"); !ok {
		p.errAt(p.current().Loc, diag.KindMissingToken, "'(' after while")
	}

	p.scope = p.scope.narrow() // iteration frame; hosts both cond and body
	defer func() { p.scope = p.scope.parent }()

	cond := p.expression()
	if _, ok := p.consume(token.RPAREN, "expected ')' after condition"); !ok {
		p.errAt(p.current().Loc, diag.KindMismatchedParens)
	}

	if _, ok := p.consume(token.LBRACE, "expected '{' to start while body"); !ok {
		p.errAt(p.current().Loc, diag.KindExpectedBlock)
	}
	body := p.rawBlockStmts()
	if _, ok := p.consume(token.RBRACE, "expected '}' after while body"); !ok {
		p.errAt(p.current().Loc, diag.KindMismatchedParens)
	}
	return ast.WhileStmt{Cond: cond, Body: body}
}

func (p *Parser) loopStatement() ast.Stmt {
	if _, ok := p.consume(token.LBRACE, "expected '{' to start loop body"); !ok {
		p.errAt(p.current().Loc, diag.KindExpectedBlock)
	}
	body := p.blockBody()
	return ast.LoopStmt{Body: body}
}

func (p *Parser) breakStatement() ast.Stmt {
	p.expectSemi()
	return ast.BreakStmt{}
}

func (p *Parser) returnStatement() ast.Stmt {
	var value ast.Expr = ast.EmptyExpr{}
	if !p.check(token.SEMI) {
		value = p.expression()
	}
	p.expectSemi()
	return ast.ReturnStmt{Expr: value}
}

// forStatement lowers `for (init; cond; incr) { body }` to
// `Block{ init; While{cond, [body...; incr]} }` (the while body is a
// flat statement list, not a nested Block), pushing two
// nested parse-time scopes: "for-init" hosts init (matching the
// runtime frame the generated BlockStmt narrows once for both init
// and the while), and a second "iteration" scope hosts cond, incr,
// and the body together (matching execWhile's per-iteration frame,
// itself narrowed once from the for-init frame) — incr is appended
// after the body's statements even though it is parsed before
// them, but since cond/incr/body all resolve against
// the same parse-time scope, they agree on frame depth with the
// runtime frame they end up sharing.
func (p *Parser) forStatement() ast.Stmt {
	if _, ok := p.consume(token.LPAREN, "expected '(' after 'for'"); !ok {
		p.errAt(p.current().Loc, diag.KindMissingToken, "'(' after for")
	}

	p.scope = p.scope.narrow() // for-init frame
	defer func() { p.scope = p.scope.parent }()

	var init ast.Stmt = ast.EmptyStmt{}
	switch {
	case p.match(token.SEMI):
		// no initializer
	case p.match(token.VAR):
		init = p.varDeclaration()
	default:
		init = p.expressionStatement()
	}

	p.scope = p.scope.narrow() // iteration frame; hosts cond, incr, and body
	defer func() { p.scope = p.scope.parent }()

	var cond ast.Expr = ast.BasicExpr{Value: ast.Bool(true)}
	if !p.check(token.SEMI) {
		cond = p.expression()
	}
	if _, ok := p.consume(token.SEMI, "expected ';' after loop condition"); !ok {
		p.errAt(p.current().Loc, diag.KindForInitialiser)
	}

	var incr ast.Expr
	if !p.check(token.RPAREN) {
		incr = p.expression()
	}
	if _, ok := p.consume(token.RPAREN, "expected ')' after for clauses"); !ok {
		p.errAt(p.current().Loc, diag.KindMismatchedParens)
	}

	if _, ok := p.consume(token.LBRACE, "expected '{' to start for body"); !ok {
		p.errAt(p.current().Loc, diag.KindExpectedBlock)
	}

	bodyStmts := p.rawBlockStmts()
	if incr != nil {
		bodyStmts = append(bodyStmts, ast.ExpressionStmt{Expr: incr})
	}

	if _, ok := p.consume(token.RBRACE, "expected '}' after for body"); !ok {
		p.errAt(p.current().Loc, diag.KindMismatchedParens)
	}

	whileStmt := ast.WhileStmt{Cond: cond, Body: bodyStmts}
	return ast.BlockStmt{Stmts: []ast.Stmt{init, whileStmt}}
}

// rawBlockStmts parses `declaration*` up to, but not including, the
// closing '}' (the caller consumes it), without touching p.scope —
// callers that already narrowed a scope (whileStatement, forStatement,
// functionTail) use this instead of blockBody to avoid double-narrowing.
func (p *Parser) rawBlockStmts() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		stmts = append(stmts, p.declaration())
	}
	return stmts
}

func (p *Parser) functionStatement() ast.Stmt {
	nameTok, ok := p.consume(token.IDENTIFIER, "expected function name")
	if !ok {
		p.synchronize()
		return ast.EmptyStmt{}
	}
	// The function's own name is visible to itself and to sibling
	// statements from this point on, before its body is parsed.
	p.scope.declare(nameTok.Lexeme)

	params, body := p.functionTail()
	return ast.FunctionStmt{Name: ast.Identifier{Name: nameTok.Lexeme}, Params: params, Body: body}
}

// functionTail parses `(params) { body }`, pushing a fresh scope for
// the duration and declaring each parameter in it before the body is
// parsed, so the body can refer to its own parameters.
func (p *Parser) functionTail() ([]ast.Identifier, []ast.Stmt) {
	if _, ok := p.consume(token.LPAREN, "expected '(' after function name"); !ok {
		p.errAt(p.current().Loc, diag.KindMissingToken, "'(' after function name")
	}

	p.scope = p.scope.narrow()
	defer func() { p.scope = p.scope.parent }()

	var params []ast.Identifier
	if !p.check(token.RPAREN) {
		for {
			tok, ok := p.consume(token.IDENTIFIER, "expected parameter name")
			if ok {
				params = append(params, ast.Identifier{Name: tok.Lexeme})
				p.scope.declare(tok.Lexeme)
			}
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if _, ok := p.consume(token.RPAREN, "expected ')' after parameters"); !ok {
		p.errAt(p.current().Loc, diag.KindMismatchedParens)
	}

	if _, ok := p.consume(token.LBRACE, "expected '{' to start function body"); !ok {
		p.errAt(p.current().Loc, diag.KindExpectedBlock)
	}
	body := p.rawBlockStmts()
	if _, ok := p.consume(token.RBRACE, "expected '}' after function body"); !ok {
		p.errAt(p.current().Loc, diag.KindMismatchedParens)
	}
	return params, body
}

// --- expressions ---

func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

func (p *Parser) assignment() ast.Expr {
	expr := p.logicOr()

	if p.match(token.EQUAL) {
		eqLoc := p.previous().Loc
		value := p.assignment()

		if id, ok := expr.(ast.IdentifierExpr); ok {
			return ast.AssignmentExpr{Target: id, Value: value, Loc: eqLoc}
		}
		p.errAt(eqLoc, diag.KindInvalidAsignee)
		return value
	}
	return expr
}

func (p *Parser) logicOr() ast.Expr {
	expr := p.logicAnd()
	for p.match(token.OR) {
		right := p.logicAnd()
		expr = ast.OrExpr{Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) logicAnd() ast.Expr {
	expr := p.equality()
	for p.match(token.AND) {
		right := p.equality()
		expr = ast.AndExpr{Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(token.EQUAL_EQ, token.BANG_EQ) {
		op := binOpFor(p.previous().Kind)
		loc := p.previous().Loc
		right := p.comparison()
		expr = ast.BinaryExpr{Op: op, Left: expr, Right: right, Loc: loc}
	}
	return expr
}

// comparison, term and factor are right-associative by design (the
// recursive call is on the right operand): `8 / 4 / 2` parses as
// `8 / (4 / 2)`. This is an intentional divergence tests depend on.

func (p *Parser) comparison() ast.Expr {
	left := p.term()
	if p.match(token.GREATER, token.GREATER_EQ, token.LESS, token.LESS_EQ) {
		op := binOpFor(p.previous().Kind)
		loc := p.previous().Loc
		right := p.comparison()
		return ast.BinaryExpr{Op: op, Left: left, Right: right, Loc: loc}
	}
	return left
}

func (p *Parser) term() ast.Expr {
	left := p.factor()
	if p.match(token.PLUS, token.MINUS) {
		op := binOpFor(p.previous().Kind)
		loc := p.previous().Loc
		right := p.term()
		return ast.BinaryExpr{Op: op, Left: left, Right: right, Loc: loc}
	}
	return left
}

func (p *Parser) factor() ast.Expr {
	left := p.unary()
	if p.match(token.STAR, token.SLASH) {
		op := binOpFor(p.previous().Kind)
		loc := p.previous().Loc
		right := p.factor()
		return ast.BinaryExpr{Op: op, Left: left, Right: right, Loc: loc}
	}
	return left
}

func (p *Parser) unary() ast.Expr {
	if p.match(token.BANG, token.MINUS) {
		op := ast.OpNot
		if p.previous().Kind == token.MINUS {
			op = ast.OpNeg
		}
		loc := p.previous().Loc
		operand := p.unary()
		return ast.UnaryExpr{Op: op, Operand: operand, Loc: loc}
	}
	return p.call()
}

func (p *Parser) call() ast.Expr {
	expr := p.primary()
	for p.match(token.LPAREN) {
		expr = p.finishCall(expr)
	}
	return expr
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	parenLoc := p.previous().Loc
	var args []ast.Expr
	if !p.check(token.RPAREN) {
		for {
			if len(args) >= maxCallArgs {
				p.errAt(p.current().Loc, diag.KindArgLimit, "call sites are capped at %d arguments", maxCallArgs)
			}
			args = append(args, p.expression())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if _, ok := p.consume(token.RPAREN, "expected ')' after arguments"); !ok {
		p.errAt(p.current().Loc, diag.KindMismatchedParens)
	}
	return ast.CallExpr{Callee: callee, Args: args, Loc: parenLoc}
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.NUMBER):
		return ast.BasicExpr{Value: ast.Num(p.previous().Num)}
	case p.match(token.STRING):
		return ast.BasicExpr{Value: ast.Str(p.previous().Lexeme)}
	case p.match(token.TRUE):
		return ast.BasicExpr{Value: ast.Bool(true)}
	case p.match(token.FALSE):
		return ast.BasicExpr{Value: ast.Bool(false)}
	case p.match(token.NIL):
		return ast.BasicExpr{Value: ast.Nil()}
	case p.match(token.IDENTIFIER):
		return p.resolvedIdentifier(p.previous())
	case p.match(token.LPAREN):
		inner := p.expression()
		if _, ok := p.consume(token.RPAREN, "expected ')' after expression"); !ok {
			p.errAt(p.current().Loc, diag.KindMismatchedParens)
		}
		return ast.GroupingExpr{Inner: inner}
	default:
		p.errAt(p.current().Loc, diag.KindUnexpected, "%s", p.current().Kind)
		p.advance()
		return ast.EmptyExpr{}
	}
}

// resolvedIdentifier annotates tok's name with its compile-time
// offset in the live scope tree, or leaves it unresolved.
func (p *Parser) resolvedIdentifier(tok token.Token) ast.Expr {
	id := ast.Identifier{Name: tok.Lexeme}
	if offset, ok := p.scope.resolve(tok.Lexeme); ok {
		id.Offset = &offset
	}
	return ast.IdentifierExpr{Id: id, Loc: tok.Loc}
}

func binOpFor(k token.Kind) ast.BinOp {
	switch k {
	case token.EQUAL_EQ:
		return ast.OpEq
	case token.BANG_EQ:
		return ast.OpNotEq
	case token.LESS:
		return ast.OpLess
	case token.LESS_EQ:
		return ast.OpLessEq
	case token.GREATER:
		return ast.OpGreater
	case token.GREATER_EQ:
		return ast.OpGreaterEq
	case token.PLUS:
		return ast.OpAdd
	case token.MINUS:
		return ast.OpSub
	case token.STAR:
		return ast.OpMul
	default:
		return ast.OpDiv
	}
}

// --- token cursor helpers ---

func (p *Parser) isAtEnd() bool { return p.current().Kind == token.EOF }

func (p *Parser) current() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) previous() token.Token {
	if p.pos == 0 {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos-1]
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.pos++
	}
	return p.previous()
}

func (p *Parser) check(kind token.Kind) bool {
	return !p.isAtEnd() && p.current().Kind == kind
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(kind token.Kind, msg string) (token.Token, bool) {
	if p.check(kind) {
		return p.advance(), true
	}
	p.errAt(p.current().Loc, diag.KindExpectedFound, "%s: expected %s, found %s", msg, kind, p.current().Kind)
	return token.Token{}, false
}

func (p *Parser) errAt(loc diag.Location, kind diag.Kind, format ...interface{}) {
	if len(format) == 0 {
		p.errors = append(p.errors, diag.New(loc, kind))
		return
	}
	f, _ := format[0].(string)
	p.errors = append(p.errors, diag.Newf(loc, kind, f, format[1:]...))
}

// synchronize advances until a statement boundary (just past a ';', or
// at a keyword that starts a statement) so the driver can keep parsing
// after a recoverable error.
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		if p.previous().Kind == token.SEMI {
			return
		}
		switch p.current().Kind {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF,
			token.WHILE, token.PRINT, token.RETURN, token.LOOP, token.BREAK:
			return
		}
		p.advance()
	}
}
