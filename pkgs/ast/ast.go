// Package ast defines the tagged-union node types produced by the
// parser: identifiers, expressions, and statements. Each sum type is
// expressed as an interface with an unexported marker method; a
// shallow type switch at each consumer site is the intended style —
// there is no node-level behavior beyond that.
package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aledsdavies/loxwalk/pkgs/diag"
)

// Location aliases diag.Location so ast nodes that need one (for
// runtime diagnostics raised while evaluating them) don't force every
// consumer to import diag just to read a field.
type Location = diag.Location

// Identifier names a variable use or declaration. Offset is the
// parser-resolved distance, in environment frames, from the use site
// to the frame holding the declaration; nil means unresolved.
type Identifier struct {
	Name   string
	Offset *int
}

func (id Identifier) String() string {
	if id.Offset == nil {
		return id.Name
	}
	return fmt.Sprintf("%s@%d", id.Name, *id.Offset)
}

// Resolved reports whether the parser found a declaration for id.
func (id Identifier) Resolved() bool { return id.Offset != nil }

// BasicKind tags the value-carrying leaf of Expr.
type BasicKind int

const (
	BasicNil BasicKind = iota
	BasicBoolean
	BasicNumber
	BasicString
	BasicLambda
)

// Basic is the literal/lambda leaf expression. Exactly one of the
// value fields is meaningful, selected by Kind.
type Basic struct {
	Kind   BasicKind
	Bool   bool
	Num    float64
	Text   string
	Lambda *LambdaLit
}

// LambdaLit is the syntactic form of a function carried as a Basic
// value; the evaluator closes it over the frame in which it is
// evaluated. The parser emits FunctionStmt for `fun` declarations and
// does not build a LambdaLit.
type LambdaLit struct {
	Params []Identifier
	Body   []Stmt
}

func Nil() Basic               { return Basic{Kind: BasicNil} }
func Bool(b bool) Basic        { return Basic{Kind: BasicBoolean, Bool: b} }
func Num(n float64) Basic      { return Basic{Kind: BasicNumber, Num: n} }
func Str(s string) Basic       { return Basic{Kind: BasicString, Text: s} }
func Lambda(l *LambdaLit) Basic { return Basic{Kind: BasicLambda, Lambda: l} }

func (b Basic) String() string {
	switch b.Kind {
	case BasicNil:
		return "nil"
	case BasicBoolean:
		return strconv.FormatBool(b.Bool)
	case BasicNumber:
		return strconv.FormatFloat(b.Num, 'g', -1, 64)
	case BasicString:
		return strconv.Quote(b.Text)
	case BasicLambda:
		return "<fn>"
	default:
		return "<basic?>"
	}
}

// BinOp is the operator of a Binary expression.
type BinOp int

const (
	OpEq BinOp = iota
	OpNotEq
	OpLess
	OpLessEq
	OpGreater
	OpGreaterEq
	OpAdd
	OpSub
	OpMul
	OpDiv
)

var binOpNames = map[BinOp]string{
	OpEq: "==", OpNotEq: "!=", OpLess: "<", OpLessEq: "<=",
	OpGreater: ">", OpGreaterEq: ">=", OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/",
}

func (op BinOp) String() string { return binOpNames[op] }

// UnOp is the operator of a Unary expression.
type UnOp int

const (
	OpNeg UnOp = iota
	OpNot
)

func (op UnOp) String() string {
	if op == OpNeg {
		return "-"
	}
	return "!"
}

// Expr is the sum type of expression nodes.
type Expr interface {
	exprNode()
	String() string
}

type EmptyExpr struct{}

func (EmptyExpr) exprNode()      {}
func (EmptyExpr) String() string { return "<empty>" }

type BasicExpr struct{ Value Basic }

func (BasicExpr) exprNode()        {}
func (e BasicExpr) String() string { return e.Value.String() }

type IdentifierExpr struct {
	Id  Identifier
	Loc Location
}

func (IdentifierExpr) exprNode()        {}
func (e IdentifierExpr) String() string { return e.Id.String() }

type AssignmentExpr struct {
	Target Expr
	Value  Expr
	Loc    Location
}

func (AssignmentExpr) exprNode() {}
func (e AssignmentExpr) String() string {
	return fmt.Sprintf("(%s = %s)", e.Target, e.Value)
}

type UnaryExpr struct {
	Op      UnOp
	Operand Expr
	Loc     Location
}

func (UnaryExpr) exprNode() {}
func (e UnaryExpr) String() string {
	return fmt.Sprintf("(%s%s)", e.Op, e.Operand)
}

type BinaryExpr struct {
	Op          BinOp
	Left, Right Expr
	Loc         Location
}

func (BinaryExpr) exprNode() {}
func (e BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left, e.Op, e.Right)
}

type OrExpr struct{ Left, Right Expr }

func (OrExpr) exprNode()        {}
func (e OrExpr) String() string { return fmt.Sprintf("(%s or %s)", e.Left, e.Right) }

type AndExpr struct{ Left, Right Expr }

func (AndExpr) exprNode()        {}
func (e AndExpr) String() string { return fmt.Sprintf("(%s and %s)", e.Left, e.Right) }

type GroupingExpr struct{ Inner Expr }

func (GroupingExpr) exprNode()        {}
func (e GroupingExpr) String() string { return fmt.Sprintf("(%s)", e.Inner) }

type CallExpr struct {
	Callee Expr
	Args   []Expr
	Loc    Location
}

func (CallExpr) exprNode() {}
func (e CallExpr) String() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", e.Callee, strings.Join(parts, ", "))
}

// Stmt is the sum type of statement nodes.
type Stmt interface {
	stmtNode()
	String() string
}

type EmptyStmt struct{}

func (EmptyStmt) stmtNode()      {}
func (EmptyStmt) String() string { return ";" }

type ExpressionStmt struct{ Expr Expr }

func (ExpressionStmt) stmtNode()        {}
func (s ExpressionStmt) String() string { return s.Expr.String() + ";" }

type PrintStmt struct{ Expr Expr }

func (PrintStmt) stmtNode()        {}
func (s PrintStmt) String() string { return fmt.Sprintf("print %s;", s.Expr) }

type DeclarationStmt struct {
	Name        Identifier
	Initializer Expr // EmptyExpr when absent
}

func (DeclarationStmt) stmtNode() {}
func (s DeclarationStmt) String() string {
	return fmt.Sprintf("var %s = %s;", s.Name.Name, s.Initializer)
}

type BlockStmt struct{ Stmts []Stmt }

func (BlockStmt) stmtNode() {}
func (s BlockStmt) String() string {
	parts := make([]string, len(s.Stmts))
	for i, st := range s.Stmts {
		parts[i] = st.String()
	}
	return "{ " + strings.Join(parts, " ") + " }"
}

type ConditionalStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt // nil when absent
}

func (ConditionalStmt) stmtNode() {}
func (s ConditionalStmt) String() string {
	if s.Else == nil {
		return fmt.Sprintf("if (%s) %s", s.Cond, s.Then)
	}
	return fmt.Sprintf("if (%s) %s else %s", s.Cond, s.Then, s.Else)
}

type WhileStmt struct {
	Cond Expr
	Body []Stmt
}

func (WhileStmt) stmtNode() {}
func (s WhileStmt) String() string {
	return fmt.Sprintf("while (%s) %s", s.Cond, BlockStmt{s.Body})
}

type LoopStmt struct{ Body []Stmt }

func (LoopStmt) stmtNode()        {}
func (s LoopStmt) String() string { return "loop " + BlockStmt{s.Body}.String() }

type BreakStmt struct{}

func (BreakStmt) stmtNode()      {}
func (BreakStmt) String() string { return "break;" }

type FunctionStmt struct {
	Name   Identifier
	Params []Identifier
	Body   []Stmt
}

func (FunctionStmt) stmtNode() {}
func (s FunctionStmt) String() string {
	names := make([]string, len(s.Params))
	for i, p := range s.Params {
		names[i] = p.Name
	}
	return fmt.Sprintf("fun %s(%s) %s", s.Name.Name, strings.Join(names, ", "), BlockStmt{s.Body})
}

type ReturnStmt struct{ Expr Expr }

func (ReturnStmt) stmtNode()        {}
func (s ReturnStmt) String() string { return fmt.Sprintf("return %s;", s.Expr) }
