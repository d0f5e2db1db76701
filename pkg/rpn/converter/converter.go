package converter

import (
	"strings"

	"intlab/rpncalc/internal/stack"
	rpnErrors "intlab/rpncalc/pkg/rpn/errors"
	"intlab/rpncalc/pkg/rpn/token"
)

// ConvertToRPN converts an infix expression into postfix order using the
// shunting-yard algorithm. The input is scanned once, one rune at a time;
// whitespace is not skipped, so callers normalize the input first.
//
// The returned sequence only holds Number and Operator tokens. Errors are
// *rpnErrors.Error values positioned in input.
func ConvertToRPN(input string) ([]token.Token, error) {
	if strings.TrimSpace(input) == "" {
		return nil, decorate(rpnErrors.New(rpnErrors.KindEmptyInput, "input is empty", rpnErrors.NoPosition), input)
	}

	c := newConverter(input)
	for pos, r := range c.input {
		if err := c.scan(pos, r); err != nil {
			return nil, decorate(err, input)
		}
	}

	if err := c.finish(); err != nil {
		return nil, decorate(err, input)
	}
	return c.output, nil
}

// converter holds the state of a single conversion.
type converter struct {
	input  []rune
	output []token.Token
	ops    *stack.Stack[token.Token]

	// pending accumulates the number being scanned; it is emitted on the
	// first rune that cannot extend it.
	pending    strings.Builder
	pendingPos int

	// operand is true when the last emitted token completes an operand,
	// so a binary operator may follow.
	operand bool
}

func newConverter(input string) *converter {
	runes := []rune(input)
	return &converter{
		input:  runes,
		output: make([]token.Token, 0, len(runes)),
		ops:    stack.New[token.Token](len(runes) / 2),
	}
}

// scan processes the rune at pos.
func (c *converter) scan(pos int, r rune) *rpnErrors.Error {
	switch {
	case token.IsNumeric(r):
		c.extend(pos, r)
		c.operand = true
		return nil

	case r == '-' && c.unaryAt(pos):
		// A unary minus is the start of a literal, not an operator.
		c.flush()
		c.extend(pos, r)
		c.operand = true
		return nil

	case token.IsOperatorRune(r):
		c.flush()
		if !c.operand {
			return rpnErrors.New(rpnErrors.KindTooManyOperators, "too many operations together", pos).
				WithSymbol(string(r))
		}
		c.operand = false
		c.pushOperator(token.NewOperator(string(r), pos))
		return nil

	case r == '(':
		c.flush()
		c.ops.Push(token.Token{Kind: token.OpenParen, Text: "(", Pos: pos})
		c.operand = false
		return nil

	case r == ')':
		c.flush()
		return c.closeParen(pos)

	default:
		return rpnErrors.Newf(rpnErrors.KindUnsupportedSymbol, pos, "not supported symbol '%c'", r).
			WithSymbol(string(r))
	}
}

// unaryAt reports whether a minus at pos is unary: it is the first rune of
// the input or directly follows "(".
func (c *converter) unaryAt(pos int) bool {
	return pos == 0 || c.input[pos-1] == '('
}

func (c *converter) extend(pos int, r rune) {
	if c.pending.Len() == 0 {
		c.pendingPos = pos
	}
	c.pending.WriteRune(r)
}

// flush emits the pending number, if any.
func (c *converter) flush() {
	if c.pending.Len() == 0 {
		return
	}
	c.output = append(c.output, token.NewNumber(c.pending.String(), c.pendingPos))
	c.pending.Reset()
}

// pushOperator moves every stacked operator of equal or higher priority to
// the output, then stacks op. Ties pop, which makes all operators
// left-associative.
func (c *converter) pushOperator(op token.Token) {
	priority := token.Priority(op.Text)
	for {
		top, ok := c.ops.Peek()
		if !ok || top.Kind != token.Operator || token.Priority(top.Text) < priority {
			break
		}
		c.ops.Pop()
		c.output = append(c.output, top)
	}
	c.ops.Push(op)
}

// closeParen emits operators down to the matching "(", which is dropped.
func (c *converter) closeParen(pos int) *rpnErrors.Error {
	for {
		top, ok := c.ops.Pop()
		if !ok {
			return rpnErrors.New(rpnErrors.KindUnbalancedCloseParen, "too many ')'", pos).WithSymbol(")")
		}
		if top.Kind == token.OpenParen {
			return nil
		}
		c.output = append(c.output, top)
	}
}

// finish emits the pending number and drains the operator stack.
func (c *converter) finish() *rpnErrors.Error {
	c.flush()
	for {
		top, ok := c.ops.Pop()
		if !ok {
			return nil
		}
		if top.Kind == token.OpenParen {
			return rpnErrors.New(rpnErrors.KindUnbalancedOpenParen, "too many '('", top.Pos).WithSymbol("(")
		}
		c.output = append(c.output, top)
	}
}

func decorate(err *rpnErrors.Error, input string) error {
	return rpnErrors.Enrich(err.WithInput(input))
}
