package errors

import (
	"unicode"
	"unicode/utf8"
)

// symbolHints maps commonly mistyped characters to the supported spelling.
var symbolHints = map[string]string{
	"x": "Use '*' for multiplication",
	"X": "Use '*' for multiplication",
	"×": "Use '*' for multiplication",
	"·": "Use '*' for multiplication",
	"÷": "Use '/' for division",
	":": "Use '/' for division",
	",": "Use '.' as the decimal separator",
	"^": "Exponentiation is not supported; multiply the operand instead",
	"%": "The modulo operator is not supported",
	"[": "Only round parentheses are supported",
	"]": "Only round parentheses are supported",
	"{": "Only round parentheses are supported",
	"}": "Only round parentheses are supported",
	"−": "Use the ASCII '-' for minus",
}

// Suggest returns a suggested fix for the error, or an empty string when
// there is nothing useful to say.
func Suggest(e *Error) string {
	switch e.Kind {
	case KindEmptyInput:
		return "Provide an expression such as 2*(3+4)"
	case KindTooManyOperators:
		if e.Symbol == "-" {
			return "Wrap a negative operand in parentheses, e.g. 3-(-2)"
		}
		return "Put an operand between operators"
	case KindUnbalancedCloseParen:
		return "Remove the extra ')' or add a matching '('"
	case KindUnbalancedOpenParen:
		return "Close every '(' with a matching ')'"
	case KindUnsupportedSymbol:
		return suggestSymbol(e.Symbol)
	case KindInsufficientOperands:
		return "Every operator needs an operand on both sides"
	case KindInvalidNumberLiteral:
		if e.Symbol == "-" {
			return "A unary minus must be followed by digits"
		}
		return "Numbers may contain at most one decimal point"
	case KindExtraOperands:
		return "Join operands with an operator"
	case KindNonFiniteResult:
		return "The result exceeds the float64 range; use smaller operands"
	default:
		return ""
	}
}

func suggestSymbol(symbol string) string {
	if hint, ok := symbolHints[symbol]; ok {
		return hint
	}
	if r, _ := utf8.DecodeRuneInString(symbol); unicode.IsLetter(r) {
		return "Functions and variables are not supported"
	}
	return "Supported symbols are digits, '.', '+', '-', '*', '/', '(' and ')'"
}

// Enrich fills in the suggestion when none is set and returns the error.
func Enrich(e *Error) *Error {
	if e.Suggestion == "" {
		e.Suggestion = Suggest(e)
	}
	return e
}
