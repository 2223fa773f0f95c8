package interpreter

import (
	"math"
	"strconv"

	"github.com/aledsdavies/loxwalk/pkgs/ast"
	"github.com/aledsdavies/loxwalk/pkgs/diag"
	"github.com/aledsdavies/loxwalk/pkgs/environment"
)

// Kind tags the active field of a Value.
type Kind int

const (
	KindNil Kind = iota
	KindBoolean
	KindNumber
	KindString
	KindLambda
)

// Value is the runtime representation of every Lox-family value: the
// same sum the parser's Basic literal carries, plus the Lambda
// closure a function declaration produces.
type Value struct {
	Kind   Kind
	Bool   bool
	Num    float64
	Text   string
	Lambda *Lambda
}

// Lambda is a runtime function: the environment frame it closed over
// at the point its `fun` statement executed, plus its parameter names
// and body. Its captured frame outlives any reachable invocation of
// it — Go's garbage collector keeps it alive as long as this Lambda
// (or anything it was assigned to) is reachable.
type Lambda struct {
	Params  []ast.Identifier
	Body    []ast.Stmt
	Closure *environment.Frame
}

var (
	Nil   = Value{Kind: KindNil}
	True  = Value{Kind: KindBoolean, Bool: true}
	False = Value{Kind: KindBoolean, Bool: false}
)

func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

func Number(n float64) Value { return Value{Kind: KindNumber, Num: n} }
func String(s string) Value  { return Value{Kind: KindString, Text: s} }

func fromBasic(b ast.Basic, closure *environment.Frame) Value {
	switch b.Kind {
	case ast.BasicNil:
		return Nil
	case ast.BasicBoolean:
		return Bool(b.Bool)
	case ast.BasicNumber:
		return Number(b.Num)
	case ast.BasicString:
		return String(b.Text)
	case ast.BasicLambda:
		return Value{Kind: KindLambda, Lambda: &Lambda{Params: b.Lambda.Params, Body: b.Lambda.Body, Closure: closure}}
	default:
		return Nil
	}
}

// Truthy implements the boolean-context coercion: only Nil and false
// are falsy, everything else — including 0.0 and "" — is truthy.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindNil:
		return false
	case KindBoolean:
		return v.Bool
	default:
		return true
	}
}

// Boolean is Truthy under the name the conversion trio uses.
func (v Value) Boolean() bool { return v.Truthy() }

// Numeric coerces v to a float64, parsing String operands. It never
// succeeds for Nil, Boolean or Lambda, and never succeeds for a
// non-numeric String.
func (v Value) Numeric() (float64, *diag.Error) {
	switch v.Kind {
	case KindNumber:
		return v.Num, nil
	case KindString:
		n, err := strconv.ParseFloat(v.Text, 64)
		if err != nil {
			return 0, diag.Newf(diag.Location{}, diag.KindInvalidConversion, "cannot convert %q to a number", v.Text)
		}
		return n, nil
	default:
		return 0, diag.New(diag.Location{}, diag.KindInvalidConversion)
	}
}

// AsNumber is Numeric under the name operator evaluation calls it by.
func (v Value) AsNumber() (float64, *diag.Error) { return v.Numeric() }

// Text coerces v to its string form, the same rendering Format uses
// for every kind but String itself (returned verbatim).
func (v Value) Text() string { return v.Format() }

// Equal implements the non-coercing `==` rule: Nil equals only Nil,
// booleans/numbers/strings compare by value (NaN != NaN per IEEE-754),
// and any cross-type pair is unequal — never an error.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindNil:
		return true
	case KindBoolean:
		return v.Bool == other.Bool
	case KindNumber:
		return v.Num == other.Num // NaN != NaN falls out of float64 ==
	case KindString:
		return v.Text == other.Text
	case KindLambda:
		return v.Lambda == other.Lambda
	default:
		return false
	}
}

// Format renders v the way `print` does: Nil -> "nil", booleans their
// literal spelling, numbers via the shortest round-trip decimal with
// whole numbers losing their trailing ".0", strings verbatim.
func (v Value) Format() string {
	switch v.Kind {
	case KindNil:
		return "nil"
	case KindBoolean:
		return strconv.FormatBool(v.Bool)
	case KindNumber:
		return formatNumber(v.Num)
	case KindString:
		return v.Text
	case KindLambda:
		return "<fn>"
	default:
		return ""
	}
}

func formatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "inf"
	case math.IsInf(n, -1):
		return "-inf"
	default:
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
}
