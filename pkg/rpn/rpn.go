package rpn

import (
	"strings"
	"unicode"

	"intlab/rpncalc/pkg/rpn/converter"
	rpnErrors "intlab/rpncalc/pkg/rpn/errors"
	"intlab/rpncalc/pkg/rpn/evaluator"
	"intlab/rpncalc/pkg/rpn/token"
)

// Calculate evaluates an infix expression with a strict calculator.
// It is a convenience for NewCalculator().Calculate(expression).
func Calculate(expression string) (float64, error) {
	return NewCalculator().Calculate(expression)
}

// Normalize removes every whitespace rune from the input. Scanning and
// error positions refer to the normalized string.
func Normalize(input string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, input)
}

// Result is the outcome of a calculation with its intermediate forms.
type Result struct {
	// Expression is the input as given.
	Expression string `json:"expression"`

	// Normalized is the input without whitespace.
	Normalized string `json:"normalized"`

	// Postfix is the converted token sequence (empty if conversion failed).
	Postfix []token.Token `json:"-"`

	// Value is the computed value (zero if evaluation failed).
	Value float64 `json:"result"`
}

// PostfixString renders the postfix sequence as "3 4 +".
func (r *Result) PostfixString() string {
	return token.Format(r.Postfix)
}

// Calculator converts and evaluates expressions. It holds no per-call
// state and is safe for concurrent use.
type Calculator struct {
	lenientOperands bool
}

// NewCalculator creates a strict calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// WithLenientOperands makes the calculator return the last computed value
// when operands are left over instead of failing with KindExtraOperands.
func (c *Calculator) WithLenientOperands(lenient bool) *Calculator {
	c.lenientOperands = lenient
	return c
}

// LenientOperands reports whether leftover operands are tolerated.
func (c *Calculator) LenientOperands() bool {
	return c.lenientOperands
}

// Calculate normalizes, converts and evaluates an expression.
func (c *Calculator) Calculate(expression string) (float64, error) {
	res, err := c.Explain(expression)
	if err != nil {
		return 0, err
	}
	return res.Value, nil
}

// Convert normalizes an expression and converts it to postfix order.
func (c *Calculator) Convert(expression string) ([]token.Token, error) {
	return converter.ConvertToRPN(Normalize(expression))
}

// Explain is Calculate returning the intermediate forms as well. On error
// the result holds whatever stages completed.
func (c *Calculator) Explain(expression string) (*Result, error) {
	res := &Result{
		Expression: expression,
		Normalized: Normalize(expression),
	}

	tokens, err := converter.ConvertToRPN(res.Normalized)
	if err != nil {
		return res, err
	}
	res.Postfix = tokens

	value, err := c.evaluator().Evaluate(tokens)
	if err != nil {
		if e, ok := rpnErrors.As(err); ok {
			rpnErrors.Enrich(e.WithInput(res.Normalized))
		}
		return res, err
	}
	res.Value = value

	return res, nil
}

// EvaluatePostfix evaluates whitespace separated RPN text such as "3 4 +".
// Error positions are field indices.
func (c *Calculator) EvaluatePostfix(text string) (float64, error) {
	value, err := c.evaluator().Evaluate(token.ParsePostfix(text))
	if err != nil {
		if e, ok := rpnErrors.As(err); ok {
			rpnErrors.Enrich(e)
		}
		return 0, err
	}
	return value, nil
}

func (c *Calculator) evaluator() *evaluator.Evaluator {
	return evaluator.New().WithLenientOperands(c.lenientOperands)
}
