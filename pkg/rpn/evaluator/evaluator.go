package evaluator

import (
	"errors"
	"strconv"

	"intlab/rpncalc/internal/stack"
	rpnErrors "intlab/rpncalc/pkg/rpn/errors"
	"intlab/rpncalc/pkg/rpn/token"
)

// Evaluator computes the value of a postfix token sequence.
// The zero value is a strict evaluator.
type Evaluator struct {
	// LenientOperands returns the top of the operand stack when more than
	// one value is left at the end, instead of failing with
	// KindExtraOperands.
	LenientOperands bool
}

// New creates a strict evaluator.
func New() *Evaluator {
	return &Evaluator{}
}

// WithLenientOperands sets whether leftover operands are tolerated.
func (e *Evaluator) WithLenientOperands(lenient bool) *Evaluator {
	e.LenientOperands = lenient
	return e
}

// Evaluate computes tokens with a strict evaluator.
func Evaluate(tokens []token.Token) (float64, error) {
	return New().Evaluate(tokens)
}

// Evaluate consumes tokens left to right on an operand stack. Each operator
// pops the most recent operand as its right-hand side and the one below it
// as its left-hand side. Errors are *rpnErrors.Error values whose position
// is the Pos of the offending token.
func (e *Evaluator) Evaluate(tokens []token.Token) (float64, error) {
	operands := stack.New[float64](len(tokens))

	for _, tok := range tokens {
		switch tok.Kind {
		case token.Number:
			v, err := parseNumber(tok)
			if err != nil {
				return 0, err
			}
			operands.Push(v)

		case token.Operator:
			if operands.Len() < 2 {
				return 0, rpnErrors.New(rpnErrors.KindInsufficientOperands, "not enough operands", tok.Pos).
					WithSymbol(tok.Text)
			}
			second, _ := operands.Pop()
			first, _ := operands.Pop()

			v, err := apply(first, second, tok)
			if err != nil {
				return 0, err
			}
			operands.Push(v)

		default:
			return 0, rpnErrors.Newf(rpnErrors.KindUnsupportedSymbol, tok.Pos, "not supported symbol '%s'", tok.Text).
				WithSymbol(tok.Text)
		}
	}

	result, ok := operands.Pop()
	if !ok {
		return 0, rpnErrors.New(rpnErrors.KindInsufficientOperands, "not enough operands", rpnErrors.NoPosition)
	}
	if !operands.Empty() && !e.LenientOperands {
		return 0, rpnErrors.Newf(rpnErrors.KindExtraOperands, rpnErrors.NoPosition,
			"too many operands: %d values left", operands.Len()+1)
	}
	return result, nil
}

func parseNumber(tok token.Token) (float64, *rpnErrors.Error) {
	if !token.IsNumberLiteral(tok.Text) {
		return 0, invalidNumber(tok)
	}
	// Literals of any length are valid. Out of range ones round to ±Inf or
	// zero the way ParseFloat reports them.
	v, err := strconv.ParseFloat(tok.Text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, invalidNumber(tok)
	}
	return v, nil
}

func invalidNumber(tok token.Token) *rpnErrors.Error {
	return rpnErrors.Newf(rpnErrors.KindInvalidNumberLiteral, tok.Pos, "invalid number literal '%s'", tok.Text).
		WithSymbol(tok.Text)
}

// apply computes first <op> second. Division fails on an exact zero
// divisor; there is no epsilon tolerance.
func apply(first, second float64, op token.Token) (float64, *rpnErrors.Error) {
	switch op.Text {
	case token.Plus:
		return first + second, nil
	case token.Minus:
		return first - second, nil
	case token.Multiply:
		return first * second, nil
	case token.Divide:
		if second == 0 {
			return 0, rpnErrors.Newf(rpnErrors.KindDivideByZero, op.Pos, "Divide by 0: %s/0", formatOperand(first)).
				WithSymbol(op.Text)
		}
		return first / second, nil
	default:
		return 0, rpnErrors.Newf(rpnErrors.KindUnsupportedSymbol, op.Pos, "not supported symbol '%s'", op.Text).
			WithSymbol(op.Text)
	}
}

func formatOperand(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
