// Package errors provides the classified error type for expression
// conversion and evaluation.
//
// Every failure carries a Kind, the offending symbol and its position in
// the normalized input so callers can point users at the problem.
//
// # Error Kinds
//
// KindEmptyInput: the input is blank after whitespace removal
//
// KindTooManyOperators: two binary operators with no operand between them
//
// KindUnbalancedCloseParen / KindUnbalancedOpenParen: parentheses do not pair up
//
// KindUnsupportedSymbol: a character or token outside the grammar
//
// KindInsufficientOperands: an operator with fewer than two operands
//
// KindInvalidNumberLiteral: a numeric token that does not parse
//
// KindDivideByZero: division by an exact zero
//
// KindExtraOperands: operands left over once evaluation finishes
//
// KindNonFiniteResult: the result overflowed to ±Inf or is NaN; reported by
// the engine, which serves results as JSON numbers
//
// # Basic Usage
//
// Match kinds with the standard library:
//
//	if errors.Is(err, rpnerrors.ErrDivideByZero) {
//	    ...
//	}
//
// Or extract the kind directly:
//
//	switch rpnerrors.KindOf(err) {
//	case rpnerrors.KindEmptyInput:
//	    ...
//	}
//
// # Error Format
//
// Error returns a single line; Detail adds the input with a caret and a
// suggestion:
//
//	[too_many_operators] too many operations together
//	  |
//	  | 3--2
//	  |   ^
//	  = suggestion: Wrap a negative operand in parentheses, e.g. 3-(-2)
package errors
