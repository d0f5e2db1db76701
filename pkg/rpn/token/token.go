package token

import (
	"fmt"
	"strings"
)

// Kind categorizes a token produced by the converter.
type Kind int

const (
	// Number is a numeric literal kept as text until evaluation.
	Number Kind = iota
	// Operator is one of the binary operators + - * /.
	Operator
	// OpenParen is "(".
	OpenParen
	// CloseParen is ")".
	CloseParen
	// Symbol is text outside the supported grammar.
	Symbol
)

// String returns a lowercase name for the kind.
func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case Operator:
		return "operator"
	case OpenParen:
		return "open_paren"
	case CloseParen:
		return "close_paren"
	case Symbol:
		return "symbol"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Operator symbols.
const (
	Plus     = "+"
	Minus    = "-"
	Multiply = "*"
	Divide   = "/"
)

// Operators lists every supported binary operator symbol.
const Operators = "+-*/"

// Token is a single lexical unit of an expression.
type Token struct {
	// Kind is the token category.
	Kind Kind

	// Text is the literal text. Numbers keep the digits exactly as scanned
	// (including a leading unary minus), operators hold their symbol.
	Text string

	// Pos is the rune offset of the token in the scanned input.
	Pos int
}

// NewNumber creates a number token.
func NewNumber(text string, pos int) Token {
	return Token{Kind: Number, Text: text, Pos: pos}
}

// NewOperator creates an operator token.
func NewOperator(symbol string, pos int) Token {
	return Token{Kind: Operator, Text: symbol, Pos: pos}
}

// String returns the literal text of the token.
func (t Token) String() string {
	return t.Text
}

// IsNumber reports whether the token is a number.
func (t Token) IsNumber() bool {
	return t.Kind == Number
}

// IsOperator reports whether the token is a binary operator.
func (t Token) IsOperator() bool {
	return t.Kind == Operator
}

// Priority returns the binding strength of an operator symbol:
// 1 for + and -, 2 for * and /, 0 for anything else.
func Priority(symbol string) int {
	switch symbol {
	case Plus, Minus:
		return 1
	case Multiply, Divide:
		return 2
	default:
		return 0
	}
}

// IsOperator reports whether s is one of the supported operator symbols.
func IsOperator(s string) bool {
	return len(s) == 1 && strings.Contains(Operators, s)
}

// IsOperatorRune reports whether r is one of the supported operator symbols.
func IsOperatorRune(r rune) bool {
	return strings.ContainsRune(Operators, r)
}

// IsNumeric reports whether r can be part of a numeric literal.
func IsNumeric(r rune) bool {
	return (r >= '0' && r <= '9') || r == '.'
}

// IsNumberLiteral reports whether s is a plain decimal literal: an optional
// leading minus, at least one digit and at most one decimal point.
func IsNumberLiteral(s string) bool {
	s = strings.TrimPrefix(s, Minus)
	digits, points := 0, 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			points++
		default:
			return false
		}
	}
	return digits > 0 && points <= 1
}

// Format renders a postfix sequence as space separated text, e.g. "3 4 +".
func Format(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}

// Texts returns the literal text of every token.
func Texts(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}

// ParsePostfix splits whitespace separated RPN text into tokens. Fields made
// only of digits, points and minus signs are numbers (malformed ones are
// rejected later by the evaluator); anything else that is not an operator or
// a parenthesis becomes a Symbol token. Pos is the index of the field.
func ParsePostfix(text string) []Token {
	fields := strings.Fields(text)
	tokens := make([]Token, 0, len(fields))
	for i, f := range fields {
		switch {
		case IsOperator(f):
			tokens = append(tokens, NewOperator(f, i))
		case f == "(":
			tokens = append(tokens, Token{Kind: OpenParen, Text: f, Pos: i})
		case f == ")":
			tokens = append(tokens, Token{Kind: CloseParen, Text: f, Pos: i})
		case isNumberShaped(f):
			tokens = append(tokens, NewNumber(f, i))
		default:
			tokens = append(tokens, Token{Kind: Symbol, Text: f, Pos: i})
		}
	}
	return tokens
}

func isNumberShaped(s string) bool {
	for _, r := range s {
		if !IsNumeric(r) && r != '-' {
			return false
		}
	}
	return true
}
