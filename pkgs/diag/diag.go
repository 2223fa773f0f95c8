// Package diag holds source locations and the diagnostic records the
// lexer, parser and interpreter raise. It has no dependency on any of
// the other core packages so every one of them can import it.
package diag

import "fmt"

// Location is a 0-indexed source position.
type Location struct {
	Line int
	Col  int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Col)
}

// Kind identifies the family and specific variant of a diagnostic.
// The string values double as the text rendered to users, matching
// the "typed constant" style this corpus uses for error categories.
type Kind string

const (
	// Lexical
	KindUnrecognised    Kind = "UNRECOGNISED_CHARACTER"
	KindTrailingDot     Kind = "TRAILING_DOT"
	KindMultilineString Kind = "MULTILINE_STRING"

	// Parse
	KindMissingToken       Kind = "MISSING_TOKEN"
	KindExpectedFound      Kind = "EXPECTED_FOUND"
	KindUnexpected         Kind = "UNEXPECTED_TOKEN"
	KindOpenStatement      Kind = "OPEN_STATEMENT"
	KindMismatchedParens   Kind = "MISMATCHED_PARENTHESES"
	KindExpectedAssignment Kind = "EXPECTED_ASSIGNMENT"
	KindInvalidAsignee     Kind = "INVALID_ASIGNEE"
	KindForInitialiser     Kind = "FOR_INITIALISER"
	KindArgLimit           Kind = "ARG_LIMIT"
	KindTokensExhausted    Kind = "TOKENS_EXHAUSTED"
	KindExpectedBlock      Kind = "EXPECTED_BLOCK"
	KindExpectedLambda     Kind = "EXPECTED_LAMBDA"
	KindTodo               Kind = "TODO"

	// Runtime
	KindConflictingSubexpression Kind = "CONFLICTING_SUBEXPRESSION"
	KindInvalidConversion        Kind = "INVALID_CONVERSION"
	KindInvalidAssignTo          Kind = "INVALID_ASSIGN_TO"
	KindInvalidIdentifier        Kind = "INVALID_IDENTIFIER"
	KindMissingAsignee           Kind = "MISSING_ASIGNEE"
)

// Error is the single diagnostic record every fallible core operation
// returns. Detail is a short human-readable elaboration (the offending
// character, the expected/found token pair, the unresolved name); it
// is empty when Kind is self-explanatory.
type Error struct {
	Loc    Location
	Kind   Kind
	Detail string
	// Suggestion is an optional "did you mean X?" hint attached by the
	// interpreter when a name lookup fails close to a known name.
	Suggestion string
	Cause      error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	if e.Suggestion != "" {
		msg = fmt.Sprintf("%s (did you mean %q?)", msg, e.Suggestion)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (caused by: %v)", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds a diagnostic at loc with no further detail.
func New(loc Location, kind Kind) *Error {
	return &Error{Loc: loc, Kind: kind}
}

// Newf builds a diagnostic with a formatted detail string.
func Newf(loc Location, kind Kind, format string, args ...interface{}) *Error {
	return &Error{Loc: loc, Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
