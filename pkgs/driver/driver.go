// Package driver ties the lexer, parser, and interpreter together into
// the incremental scan/parse/interpret cycle a REPL or file runner
// needs: source text accumulates, tokens and statements accumulate
// alongside it, and one interpret environment persists across calls so
// later input sees earlier declarations.
package driver

import (
	"fmt"
	"io"
	"strings"

	"github.com/aledsdavies/loxwalk/pkgs/ast"
	"github.com/aledsdavies/loxwalk/pkgs/diag"
	"github.com/aledsdavies/loxwalk/pkgs/environment"
	"github.com/aledsdavies/loxwalk/pkgs/interpreter"
	"github.com/aledsdavies/loxwalk/pkgs/lexer"
	"github.com/aledsdavies/loxwalk/pkgs/parser"
	"github.com/aledsdavies/loxwalk/pkgs/token"
)

// Driver holds everything that accumulates across one program's (or
// one REPL session's) lifetime: the append-only source buffer, every
// token scanned so far, a line-start index into the buffer, every
// statement parsed so far, and the environment the interpreter
// evaluates against. It holds no separate parse environment: every
// Parse call re-parses all accumulated tokens, and the parser rebuilds
// its own scope model for offset resolution each time.
type Driver struct {
	source strings.Builder
	lineStarts []int

	lex    *lexer.Lexer
	tokens []token.Token

	stmts       []ast.Stmt
	interpreted int

	interp    *interpreter.Interpreter
	interpEnv *environment.Frame
}

// New creates a driver writing print output to out.
func New(out io.Writer) *Driver {
	d := &Driver{
		lex:        lexer.New(""),
		lineStarts: []int{0},
		interpEnv:  environment.Std(),
	}
	d.interp = interpreter.New(out)
	d.interp.Suggest = interpreter.Suggest
	return d
}

// Scan appends chunk to the source buffer and tokenizes everything now
// available, recording line-start offsets as it crosses newlines.
// Lexical diagnostics (Unrecognised, TrailingDot, MultilineString) are
// collected and returned rather than stopping the scan — the lexer
// never aborts on a bad token, it reports and keeps going.
func (d *Driver) Scan(chunk string) []*diag.Error {
	base := d.source.Len()
	d.source.WriteString(chunk)
	for i, r := range chunk {
		if r == '\n' {
			d.lineStarts = append(d.lineStarts, base+i+1)
		}
	}

	d.lex.Feed(chunk)
	var errs []*diag.Error
	for {
		tok := d.lex.Next()
		if tok.Kind == token.ILLEGAL {
			if err := lexer.Diagnose(tok); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		if tok.Kind == token.EOF {
			break
		}
		d.tokens = append(d.tokens, tok)
	}
	return errs
}

// Parse re-parses every token accumulated so far — deterministic given
// the same token sequence, so statements already interpreted keep the
// same meaning — and returns how many new statements this call added,
// plus any diagnostics the parse raised.
func (d *Driver) Parse() (int, []*diag.Error) {
	stmts, errs := parser.Parse(d.tokens)
	added := len(stmts) - len(d.stmts)
	d.stmts = stmts
	return added, errs
}

// InterpretAll executes every statement parsed but not yet interpreted,
// in order, against the persistent interpret environment, stopping at
// the first diagnostic.
func (d *Driver) InterpretAll() error {
	pending := d.stmts[d.interpreted:]
	if err := d.interp.Run(pending, d.interpEnv); err != nil {
		return err
	}
	d.interpreted = len(d.stmts)
	return nil
}

// InterpretIndex executes exactly the statement at index i against the
// persistent interpret environment, without advancing the
// already-interpreted watermark InterpretAll uses. This is what a REPL
// uses to re-run a single numbered line on demand.
func (d *Driver) InterpretIndex(i int) error {
	if i < 0 || i >= len(d.stmts) {
		return diag.Newf(diag.Location{}, diag.KindTokensExhausted, "no statement at index %d", i)
	}
	return d.interp.Run([]ast.Stmt{d.stmts[i]}, d.interpEnv)
}

// HandleDiagnostic renders err per the driver's wire format: the error
// kind, then the one-line source span containing it, prefixed by a
// bracket- and caret-free "> " marker.
func (d *Driver) HandleDiagnostic(err *diag.Error, sink io.Writer) {
	fmt.Fprintf(sink, "Error on line %d at column %d: %s\n", err.Loc.Line, err.Loc.Col, err)
	fmt.Fprintf(sink, "> %s\n", d.sourceLine(err.Loc.Line))
}

func (d *Driver) sourceLine(line int) string {
	if line < 0 || line >= len(d.lineStarts) {
		return ""
	}
	src := d.source.String()
	start := d.lineStarts[line]
	end := len(src)
	if line+1 < len(d.lineStarts) {
		end = d.lineStarts[line+1] - 1 // exclude the newline itself
	}
	if start > len(src) {
		return ""
	}
	if end > len(src) {
		end = len(src)
	}
	if end < start {
		end = start
	}
	return src[start:end]
}

// SetSuggest wires fn into the interpreter as its "did you mean" hook
// for unresolved-name diagnostics.
func (d *Driver) SetSuggest(fn func(name string, frame *environment.Frame) string) {
	d.interp.Suggest = fn
}
