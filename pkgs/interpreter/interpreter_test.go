package interpreter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/loxwalk/pkgs/ast"
	"github.com/aledsdavies/loxwalk/pkgs/environment"
	"github.com/aledsdavies/loxwalk/pkgs/lexer"
	"github.com/aledsdavies/loxwalk/pkgs/parser"
	"github.com/aledsdavies/loxwalk/pkgs/token"
)

func lexAll(src string) []token.Token {
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

func interpret(t *testing.T, src string) string {
	t.Helper()
	var out bytes.Buffer
	stmts := mustParse(t, src)
	it := New(&out)
	require.NoError(t, it.Run(stmts, environment.Std()))
	return out.String()
}

func TestShortCircuitOrSkipsRightOperand(t *testing.T) {
	t.Parallel()
	out := interpret(t, `
fun sideEffect() { print "evaluated"; return true; }
print true or sideEffect();
`)
	assert.Equal(t, "true\n", out)
}

func TestShortCircuitAndSkipsRightOperand(t *testing.T) {
	t.Parallel()
	out := interpret(t, `
fun sideEffect() { print "evaluated"; return true; }
print false and sideEffect();
`)
	assert.Equal(t, "false\n", out)
}

func TestOrReturnsDecidingOperandValue(t *testing.T) {
	t.Parallel()
	out := interpret(t, `print nil or "fallback";`)
	assert.Equal(t, "fallback\n", out)
}

func TestFunctionReturnValue(t *testing.T) {
	t.Parallel()
	out := interpret(t, `
fun add(a, b) { return a + b; }
print add(2, 3);
`)
	assert.Equal(t, "5\n", out)
}

func TestRecursiveFunction(t *testing.T) {
	t.Parallel()
	out := interpret(t, `
fun fact(n) {
  if (n <= 1) { return 1; }
  return n * fact(n - 1);
}
print fact(5);
`)
	assert.Equal(t, "120\n", out)
}

func TestDoubleNegation(t *testing.T) {
	t.Parallel()
	out := interpret(t, `print !!false; print -(-5);`)
	assert.Equal(t, "false\n5\n", out)
}

func TestAssignmentExpressionChains(t *testing.T) {
	t.Parallel()
	out := interpret(t, `
var a = 0;
var b = 0;
a = b = "c";
print a;
print b;
`)
	assert.Equal(t, "c\nc\n", out)
}

func TestCallArgsFrameIsBodyFrame(t *testing.T) {
	t.Parallel()
	// A declaration inside the body with the same name as a parameter
	// shadows it in the same frame rather than nesting a new one.
	out := interpret(t, `
fun f(x) {
  var x = x + 1;
  print x;
}
f(10);
`)
	assert.Equal(t, "11\n", out)
}

func TestBreakExitsOnlyInnermostLoop(t *testing.T) {
	t.Parallel()
	out := interpret(t, `
var i = 0;
loop {
  i = i + 1;
  if (i >= 3) { break; }
}
print i;
`)
	assert.Equal(t, "3\n", out)
}

func TestUnresolvedIdentifierRaisesInvalidIdentifier(t *testing.T) {
	t.Parallel()
	stmts := mustParse(t, `print missing;`)
	var out bytes.Buffer
	it := New(&out)
	err := it.Run(stmts, environment.Std())
	require.Error(t, err)
}

func TestInvalidAssignTargetIsNotRepresentableButAssignmentWorksOnIdentifiers(t *testing.T) {
	t.Parallel()
	stmts := mustParse(t, `var a = 1; a = 2; print a;`)
	var out bytes.Buffer
	it := New(&out)
	require.NoError(t, it.Run(stmts, environment.Std()))
	assert.Equal(t, "2\n", out.String())
}

func mustParse(t *testing.T, src string) []ast.Stmt {
	t.Helper()
	toks := lexAll(src)
	stmts, errs := parser.Parse(toks)
	require.Empty(t, errs)
	return stmts
}
