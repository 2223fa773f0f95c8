package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/loxwalk/pkgs/ast"
	"github.com/aledsdavies/loxwalk/pkgs/lexer"
	"github.com/aledsdavies/loxwalk/pkgs/token"
)

func scan(t *testing.T, src string) []token.Token {
	t.Helper()
	l := lexer.New(src)
	var toks []token.Token
	for {
		tok := l.Next()
		if tok.Kind == token.EOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

func parseOK(t *testing.T, src string) []ast.Stmt {
	t.Helper()
	stmts, errs := Parse(scan(t, src))
	require.Empty(t, errs, "unexpected parse errors: %v", errs)
	return stmts
}

func TestRightAssociativeDivision(t *testing.T) {
	t.Parallel()
	stmts := parseOK(t, "8 / 4 / 2;")
	require.Len(t, stmts, 1)
	exprStmt := stmts[0].(ast.ExpressionStmt)
	bin := exprStmt.Expr.(ast.BinaryExpr)
	assert.Equal(t, ast.OpDiv, bin.Op)

	left, ok := bin.Left.(ast.BasicExpr)
	require.True(t, ok, "left operand of the outer division should be the literal 8")
	assert.Equal(t, ast.BasicNumber, left.Value.Kind)
	assert.Equal(t, float64(8), left.Value.Num)

	right, ok := bin.Right.(ast.BinaryExpr)
	require.True(t, ok, "right operand should itself be a division: 4 / 2")
	assert.Equal(t, ast.OpDiv, right.Op)
}

func TestIdentifierOffsetResolution(t *testing.T) {
	t.Parallel()
	stmts := parseOK(t, "var a = 1; { var b = a; }")
	require.Len(t, stmts, 2)
	block := stmts[1].(ast.BlockStmt)
	require.Len(t, block.Stmts, 1)
	decl := block.Stmts[0].(ast.DeclarationStmt)
	idExpr := decl.Initializer.(ast.IdentifierExpr)
	require.True(t, idExpr.Id.Resolved())
	assert.Equal(t, 1, *idExpr.Id.Offset, "a is declared one frame out from the block")
}

func TestUnresolvedIdentifierHasNilOffset(t *testing.T) {
	t.Parallel()
	stmts := parseOK(t, "print undeclared;")
	printStmt := stmts[0].(ast.PrintStmt)
	idExpr := printStmt.Expr.(ast.IdentifierExpr)
	assert.False(t, idExpr.Id.Resolved())
}

func TestDeclarationDeclaredAfterInitializer(t *testing.T) {
	t.Parallel()
	// var a = a + 2; inside a block must resolve the initializer's `a`
	// to the outer declaration, not the one being declared.
	stmts := parseOK(t, "var a = 1; { var a = a + 2; }")
	block := stmts[1].(ast.BlockStmt)
	decl := block.Stmts[0].(ast.DeclarationStmt)
	bin := decl.Initializer.(ast.BinaryExpr)
	idExpr := bin.Left.(ast.IdentifierExpr)
	require.True(t, idExpr.Id.Resolved())
	assert.Equal(t, 1, *idExpr.Id.Offset)
}

func TestForLoopLowering(t *testing.T) {
	t.Parallel()
	stmts := parseOK(t, "for (var i = 0; i < 3; i = i + 1) { print i; }")
	require.Len(t, stmts, 1)
	outer := stmts[0].(ast.BlockStmt)
	require.Len(t, outer.Stmts, 2)
	_, isDecl := outer.Stmts[0].(ast.DeclarationStmt)
	assert.True(t, isDecl)

	while, ok := outer.Stmts[1].(ast.WhileStmt)
	require.True(t, ok)
	// body + spliced increment
	require.Len(t, while.Body, 2)
	_, isPrint := while.Body[0].(ast.PrintStmt)
	assert.True(t, isPrint)
	_, isIncr := while.Body[1].(ast.ExpressionStmt)
	assert.True(t, isIncr)
}

func TestWhileConditionResolvesOuterVariable(t *testing.T) {
	t.Parallel()
	stmts := parseOK(t, "var a = true; while (a) { a = false; }")
	while := stmts[1].(ast.WhileStmt)
	idExpr := while.Cond.(ast.IdentifierExpr)
	require.True(t, idExpr.Id.Resolved())
	assert.Equal(t, 1, *idExpr.Id.Offset, "a lives one frame out from the loop's iteration frame")
}

func TestForLoopConditionAndIncrementResolveOuterVariable(t *testing.T) {
	t.Parallel()
	// a is declared outside the loop; b is declared in the for-init
	// clause. Both cond and incr run in the loop's iteration frame, one
	// level deeper than where b was declared and two deeper than a.
	stmts := parseOK(t, "var a = 0; for (var b = 1; a < 3; a = a + b) { }")
	outer := stmts[1].(ast.BlockStmt)
	while := outer.Stmts[1].(ast.WhileStmt)

	cond := while.Cond.(ast.BinaryExpr)
	condID := cond.Left.(ast.IdentifierExpr)
	require.True(t, condID.Id.Resolved())
	assert.Equal(t, 2, *condID.Id.Offset)

	incr := while.Body[0].(ast.ExpressionStmt).Expr.(ast.AssignmentExpr)
	rhs := incr.Value.(ast.BinaryExpr)
	aRef := rhs.Left.(ast.IdentifierExpr)
	bRef := rhs.Right.(ast.IdentifierExpr)
	require.True(t, aRef.Id.Resolved())
	require.True(t, bRef.Id.Resolved())
	assert.Equal(t, 2, *aRef.Id.Offset)
	assert.Equal(t, 1, *bRef.Id.Offset)
}

func TestMissingSemicolonIsOpenStatement(t *testing.T) {
	t.Parallel()
	_, errs := Parse(scan(t, "var a = 1"))
	require.NotEmpty(t, errs)
}

func TestCallArgumentLimit(t *testing.T) {
	t.Parallel()
	src := "f("
	for i := 0; i < 256; i++ {
		if i > 0 {
			src += ","
		}
		src += "1"
	}
	src += ");"
	_, errs := Parse(scan(t, src))
	require.NotEmpty(t, errs)
}

func TestAssignmentToNonIdentifierIsError(t *testing.T) {
	t.Parallel()
	_, errs := Parse(scan(t, "1 = 2;"))
	require.NotEmpty(t, errs)
}

func TestFunctionParamsResolveInBody(t *testing.T) {
	t.Parallel()
	stmts := parseOK(t, "fun add(a, b) { return a + b; }")
	fn := stmts[0].(ast.FunctionStmt)
	ret := fn.Body[0].(ast.ReturnStmt)
	bin := ret.Expr.(ast.BinaryExpr)
	left := bin.Left.(ast.IdentifierExpr)
	right := bin.Right.(ast.IdentifierExpr)
	assert.True(t, left.Id.Resolved())
	assert.True(t, right.Id.Resolved())
	assert.Equal(t, 0, *left.Id.Offset)
	assert.Equal(t, 0, *right.Id.Offset)
}
