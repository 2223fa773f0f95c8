// Package interpreter tree-walks the AST the parser produced,
// evaluating expressions and executing statements against a
// lexically-scoped environment.Frame. Closures capture the frame that
// was active when their `fun` statement ran. Reading an identifier
// never searches an environment by name beyond the single frame its
// parser-resolved offset points to; assignment walks outward by name
// to the nearest frame that binds the target.
package interpreter

import (
	"io"

	"github.com/aledsdavies/loxwalk/pkgs/ast"
	"github.com/aledsdavies/loxwalk/pkgs/diag"
	"github.com/aledsdavies/loxwalk/pkgs/environment"
)

// Interpreter holds no mutable state of its own beyond the output
// sink every `print` writes to — all variable state lives in the
// environment.Frame chain passed into each call.
type Interpreter struct {
	Out io.Writer
	// Suggest looks up a best-effort "did you mean" candidate for an
	// unresolved name among the names visible from frame. Nil disables
	// suggestions. The driver wires this to a fuzzy-match lookup.
	Suggest func(name string, frame *environment.Frame) string
}

// New creates an interpreter writing print output to out.
func New(out io.Writer) *Interpreter {
	return &Interpreter{Out: out}
}

// Run executes stmts in order against frame, returning the first
// diagnostic encountered, if any. A top-level Break or Return is
// swallowed silently — a driver that wants to reject a bare `break`
// or `return` outside any loop/function should do so during parsing,
// per the grammar's statement-level scoping; this evaluator only
// implements the data-flow described in the design, not that extra
// static check.
func (it *Interpreter) Run(stmts []ast.Stmt, frame *environment.Frame) error {
	_, err := it.execStmts(stmts, frame)
	return err
}

// execStmts executes stmts in frame without narrowing a new child —
// the caller decides whether a fresh frame is warranted (Block/Loop/
// call entry each narrow exactly once per dynamic entry).
func (it *Interpreter) execStmts(stmts []ast.Stmt, frame *environment.Frame) (flow, error) {
	for _, stmt := range stmts {
		f, err := it.execStmt(stmt, frame)
		if err != nil {
			return flow{}, err
		}
		if f.signal != proceed {
			return f, nil
		}
	}
	return flowProceed, nil
}

func (it *Interpreter) execStmt(stmt ast.Stmt, frame *environment.Frame) (flow, error) {
	switch s := stmt.(type) {
	case ast.EmptyStmt:
		return flowProceed, nil

	case ast.ExpressionStmt:
		_, err := it.Evaluate(s.Expr, frame)
		return flowProceed, err

	case ast.PrintStmt:
		v, err := it.Evaluate(s.Expr, frame)
		if err != nil {
			return flow{}, err
		}
		io.WriteString(it.Out, v.Format()+"\n")
		return flowProceed, nil

	case ast.DeclarationStmt:
		value := Nil
		if _, empty := s.Initializer.(ast.EmptyExpr); !empty {
			v, err := it.Evaluate(s.Initializer, frame)
			if err != nil {
				return flow{}, err
			}
			value = v
		}
		frame.Insert(s.Name.Name, value)
		return flowProceed, nil

	case ast.BlockStmt:
		child := frame.Narrow()
		return it.execStmts(s.Stmts, child)

	case ast.ConditionalStmt:
		cond, err := it.Evaluate(s.Cond, frame)
		if err != nil {
			return flow{}, err
		}
		if cond.Truthy() {
			return it.execStmt(s.Then, frame)
		}
		if s.Else != nil {
			return it.execStmt(s.Else, frame)
		}
		return flowProceed, nil

	case ast.WhileStmt:
		return it.execWhile(s, frame)

	case ast.LoopStmt:
		return it.execLoop(s, frame)

	case ast.BreakStmt:
		return flow{signal: breakSignal}, nil

	case ast.FunctionStmt:
		lambda := &Lambda{Params: s.Params, Body: s.Body, Closure: frame}
		frame.Insert(s.Name.Name, Value{Kind: KindLambda, Lambda: lambda})
		return flowProceed, nil

	case ast.ReturnStmt:
		value := Nil
		if _, empty := s.Expr.(ast.EmptyExpr); !empty {
			v, err := it.Evaluate(s.Expr, frame)
			if err != nil {
				return flow{}, err
			}
			value = v
		}
		return flow{signal: returnSignal, value: value}, nil

	default:
		return flowProceed, nil
	}
}

// execWhile repeats: narrow a fresh frame for this iteration, test
// the condition in it, run the body in the same frame if truthy. cond
// and body share one per-iteration frame, matching `Loop { if (!cond)
// break; body }` without literally rewriting the AST at interpret time.
func (it *Interpreter) execWhile(s ast.WhileStmt, frame *environment.Frame) (flow, error) {
	for {
		iter := frame.Narrow()
		cond, err := it.Evaluate(s.Cond, iter)
		if err != nil {
			return flow{}, err
		}
		if !cond.Truthy() {
			return flowProceed, nil
		}
		f, err := it.execStmts(s.Body, iter)
		if err != nil {
			return flow{}, err
		}
		switch f.signal {
		case breakSignal:
			return flowProceed, nil
		case returnSignal:
			return f, nil
		}
	}
}

func (it *Interpreter) execLoop(s ast.LoopStmt, frame *environment.Frame) (flow, error) {
	for {
		iter := frame.Narrow()
		f, err := it.execStmts(s.Body, iter)
		if err != nil {
			return flow{}, err
		}
		switch f.signal {
		case breakSignal:
			return flowProceed, nil
		case returnSignal:
			return f, nil
		}
	}
}

// Evaluate computes the value of expr against frame, left to right,
// short-circuiting `or`/`and`.
func (it *Interpreter) Evaluate(expr ast.Expr, frame *environment.Frame) (Value, error) {
	switch e := expr.(type) {
	case ast.EmptyExpr:
		return Nil, nil

	case ast.BasicExpr:
		return fromBasic(e.Value, frame), nil

	case ast.IdentifierExpr:
		return it.lookup(e, frame)

	case ast.AssignmentExpr:
		return it.evalAssignment(e, frame)

	case ast.UnaryExpr:
		return it.evalUnary(e, frame)

	case ast.BinaryExpr:
		return it.evalBinary(e, frame)

	case ast.OrExpr:
		left, err := it.Evaluate(e.Left, frame)
		if err != nil {
			return Value{}, err
		}
		if left.Truthy() {
			return left, nil
		}
		return it.Evaluate(e.Right, frame)

	case ast.AndExpr:
		left, err := it.Evaluate(e.Left, frame)
		if err != nil {
			return Value{}, err
		}
		if !left.Truthy() {
			return left, nil
		}
		return it.Evaluate(e.Right, frame)

	case ast.GroupingExpr:
		return it.Evaluate(e.Inner, frame)

	case ast.CallExpr:
		return it.evalCall(e, frame)

	default:
		return Nil, nil
	}
}

func (it *Interpreter) lookup(e ast.IdentifierExpr, frame *environment.Frame) (Value, error) {
	if e.Id.Offset == nil {
		return Value{}, it.unresolved(e.Id.Name, e.Loc, frame)
	}
	raw, ok := frame.GetByOffset(e.Id.Name, *e.Id.Offset)
	if !ok {
		return Value{}, it.unresolved(e.Id.Name, e.Loc, frame)
	}
	return raw.(Value), nil
}

func (it *Interpreter) unresolved(name string, loc diag.Location, frame *environment.Frame) *diag.Error {
	err := diag.Newf(loc, diag.KindInvalidIdentifier, "%q", name)
	if it.Suggest != nil {
		if s := it.Suggest(name, frame); s != "" {
			err.Suggestion = s
		}
	}
	return err
}

func (it *Interpreter) evalAssignment(e ast.AssignmentExpr, frame *environment.Frame) (Value, error) {
	id, ok := e.Target.(ast.IdentifierExpr)
	if !ok {
		return Value{}, diag.New(e.Loc, diag.KindInvalidAssignTo)
	}
	value, err := it.Evaluate(e.Value, frame)
	if err != nil {
		return Value{}, err
	}
	if !frame.Assign(id.Id.Name, value) {
		err := diag.Newf(e.Loc, diag.KindMissingAsignee, "%q", id.Id.Name)
		if it.Suggest != nil {
			if s := it.Suggest(id.Id.Name, frame); s != "" {
				err.Suggestion = s
			}
		}
		return Value{}, err
	}
	return value, nil
}

func (it *Interpreter) evalUnary(e ast.UnaryExpr, frame *environment.Frame) (Value, error) {
	operand, err := it.Evaluate(e.Operand, frame)
	if err != nil {
		return Value{}, err
	}
	switch e.Op {
	case ast.OpNeg:
		n, cerr := operand.AsNumber()
		if cerr != nil {
			return Value{}, diag.New(e.Loc, diag.KindConflictingSubexpression)
		}
		return Number(-n), nil
	case ast.OpNot:
		return Bool(!operand.Truthy()), nil
	default:
		return Nil, nil
	}
}

func (it *Interpreter) evalBinary(e ast.BinaryExpr, frame *environment.Frame) (Value, error) {
	switch e.Op {
	case ast.OpEq, ast.OpNotEq:
		left, err := it.Evaluate(e.Left, frame)
		if err != nil {
			return Value{}, err
		}
		right, err := it.Evaluate(e.Right, frame)
		if err != nil {
			return Value{}, err
		}
		eq := left.Equal(right)
		if e.Op == ast.OpNotEq {
			eq = !eq
		}
		return Bool(eq), nil

	case ast.OpAdd:
		left, err := it.Evaluate(e.Left, frame)
		if err != nil {
			return Value{}, err
		}
		right, err := it.Evaluate(e.Right, frame)
		if err != nil {
			return Value{}, err
		}
		switch {
		case left.Kind == KindNumber && right.Kind == KindNumber:
			return Number(left.Num + right.Num), nil
		case left.Kind == KindString && right.Kind == KindString:
			return String(left.Text + right.Text), nil
		default:
			return Value{}, diag.New(e.Loc, diag.KindConflictingSubexpression)
		}

	case ast.OpSub, ast.OpMul, ast.OpDiv:
		l, err := it.evalNumeric(e.Left, frame, e.Loc)
		if err != nil {
			return Value{}, err
		}
		r, err := it.evalNumeric(e.Right, frame, e.Loc)
		if err != nil {
			return Value{}, err
		}
		switch e.Op {
		case ast.OpSub:
			return Number(l - r), nil
		case ast.OpMul:
			return Number(l * r), nil
		default: // OpDiv: IEEE semantics, no error on division by zero
			return Number(l / r), nil
		}

	case ast.OpLess, ast.OpLessEq, ast.OpGreater, ast.OpGreaterEq:
		l, err := it.evalNumeric(e.Left, frame, e.Loc)
		if err != nil {
			return Value{}, err
		}
		r, err := it.evalNumeric(e.Right, frame, e.Loc)
		if err != nil {
			return Value{}, err
		}
		switch e.Op {
		case ast.OpLess:
			return Bool(l < r), nil
		case ast.OpLessEq:
			return Bool(l <= r), nil
		case ast.OpGreater:
			return Bool(l > r), nil
		default:
			return Bool(l >= r), nil
		}

	default:
		return Nil, diag.New(e.Loc, diag.KindConflictingSubexpression)
	}
}

// evalNumeric evaluates expr and coerces it to a number, collapsing
// any coercion failure to ConflictingSubexpression — the error an
// arithmetic/comparison operator raises regardless of which operand
// or which underlying conversion failed.
func (it *Interpreter) evalNumeric(expr ast.Expr, frame *environment.Frame, loc diag.Location) (float64, error) {
	v, err := it.Evaluate(expr, frame)
	if err != nil {
		return 0, err
	}
	n, cerr := v.AsNumber()
	if cerr != nil {
		return 0, diag.New(loc, diag.KindConflictingSubexpression)
	}
	return n, nil
}

func (it *Interpreter) evalCall(e ast.CallExpr, frame *environment.Frame) (Value, error) {
	callee, err := it.Evaluate(e.Callee, frame)
	if err != nil {
		return Value{}, err
	}
	if callee.Kind != KindLambda {
		return Value{}, diag.New(e.Loc, diag.KindConflictingSubexpression)
	}

	args := make([]Value, len(e.Args))
	for i, a := range e.Args {
		v, err := it.Evaluate(a, frame)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}

	lambda := callee.Lambda
	// The args frame is a child of the lambda's *captured* environment,
	// not of the caller's — this is what makes closures close over
	// their defining scope rather than their call site.
	argsFrame := lambda.Closure.Narrow()
	for i, p := range lambda.Params {
		if i < len(args) {
			argsFrame.Insert(p.Name, args[i])
		} else {
			argsFrame.Insert(p.Name, Nil)
		}
	}

	// The args frame IS the body frame — no further narrowing — so a
	// declaration in the body shadows a same-named parameter in the
	// same frame rather than a fresh nested one.
	f, err := it.execStmts(lambda.Body, argsFrame)
	if err != nil {
		return Value{}, err
	}
	if f.signal == returnSignal {
		return f.value, nil
	}
	return Nil, nil
}
