package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Kind categorizes an expression failure. Every kind is deterministic for a
// given input, so none of them is worth retrying.
type Kind string

const (
	KindEmptyInput           Kind = "empty_input"            // Input blank after whitespace removal
	KindTooManyOperators     Kind = "too_many_operators"     // Binary operator without a preceding operand
	KindUnbalancedCloseParen Kind = "unbalanced_close_paren" // ")" without a matching "("
	KindUnbalancedOpenParen  Kind = "unbalanced_open_paren"  // "(" left open at end of input
	KindUnsupportedSymbol    Kind = "unsupported_symbol"     // Character or token outside the grammar
	KindInsufficientOperands Kind = "insufficient_operands"  // Operator with fewer than two operands
	KindInvalidNumberLiteral Kind = "invalid_number_literal" // Numeric token that does not parse
	KindDivideByZero         Kind = "divide_by_zero"         // Division by an exact zero
	KindExtraOperands        Kind = "extra_operands"         // More than one value left after evaluation
	KindNonFiniteResult      Kind = "non_finite_result"      // Result overflowed to ±Inf or became NaN
)

// Kinds lists every error kind in a stable order.
var Kinds = []Kind{
	KindEmptyInput,
	KindTooManyOperators,
	KindUnbalancedCloseParen,
	KindUnbalancedOpenParen,
	KindUnsupportedSymbol,
	KindInsufficientOperands,
	KindInvalidNumberLiteral,
	KindDivideByZero,
	KindExtraOperands,
	KindNonFiniteResult,
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrEmptyInput           = &Error{Kind: KindEmptyInput, Message: "input is empty", Position: NoPosition}
	ErrTooManyOperators     = &Error{Kind: KindTooManyOperators, Message: "too many operations together", Position: NoPosition}
	ErrUnbalancedCloseParen = &Error{Kind: KindUnbalancedCloseParen, Message: "too many ')'", Position: NoPosition}
	ErrUnbalancedOpenParen  = &Error{Kind: KindUnbalancedOpenParen, Message: "too many '('", Position: NoPosition}
	ErrUnsupportedSymbol    = &Error{Kind: KindUnsupportedSymbol, Message: "not supported symbol", Position: NoPosition}
	ErrInsufficientOperands = &Error{Kind: KindInsufficientOperands, Message: "not enough operands", Position: NoPosition}
	ErrInvalidNumberLiteral = &Error{Kind: KindInvalidNumberLiteral, Message: "invalid number literal", Position: NoPosition}
	ErrDivideByZero         = &Error{Kind: KindDivideByZero, Message: "divide by 0", Position: NoPosition}
	ErrExtraOperands        = &Error{Kind: KindExtraOperands, Message: "too many operands", Position: NoPosition}
	ErrNonFiniteResult      = &Error{Kind: KindNonFiniteResult, Message: "result is not a finite number", Position: NoPosition}
)

// NoPosition marks an error that is not tied to a location in the input.
const NoPosition = -1

// Error is a classified expression failure with the location that caused it.
type Error struct {
	Kind       Kind   // Category of error
	Message    string // Human readable message
	Symbol     string // Offending character or token, if any
	Position   int    // Rune offset in Input, or NoPosition
	Input      string // Normalized input the position refers to (optional)
	Suggestion string // Suggested fix (optional)
}

// New creates an error of the given kind at a position.
func New(kind Kind, message string, position int) *Error {
	return &Error{
		Kind:     kind,
		Message:  message,
		Position: position,
	}
}

// Newf creates an error with a formatted message.
func Newf(kind Kind, position int, format string, args ...any) *Error {
	return New(kind, fmt.Sprintf(format, args...), position)
}

// Error implements the error interface.
// The format is "<kind>: <message>" followed by the position when known.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Kind))
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Position >= 0 {
		fmt.Fprintf(&sb, " (at position %d)", e.Position)
	}
	return sb.String()
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// WithInput attaches the input the position refers to.
func (e *Error) WithInput(input string) *Error {
	e.Input = input
	return e
}

// WithSymbol attaches the offending symbol.
func (e *Error) WithSymbol(symbol string) *Error {
	e.Symbol = symbol
	return e
}

// WithSuggestion attaches a suggested fix.
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestion = suggestion
	return e
}

// HasPosition reports whether the error points at a location in the input.
func (e *Error) HasPosition() bool {
	return e.Position >= 0
}

// Detail returns a multi-line report with the input, a caret under the
// offending position and the suggestion, if any.
//
//	[divide_by_zero] divide by 0: 10/0
//	  |
//	  | 10/(5-5)
//	  |   ^
//	  = suggestion: ...
func (e *Error) Detail() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "[%s] %s\n", e.Kind, e.Message)

	if ctx := ExtractContext(e.Input, e.Position); ctx != "" {
		sb.WriteString("  |\n")
		sb.WriteString(ctx)
	}

	if e.Suggestion != "" {
		fmt.Fprintf(&sb, "  = suggestion: %s\n", e.Suggestion)
	}

	return sb.String()
}

// KindOf returns the kind of the first *Error in err's chain, or "" if
// there is none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	ok := stderrors.As(err, &e)
	return e, ok
}
