// Package evaluator computes the value of postfix token sequences produced
// by the converter (or parsed from RPN text with token.ParsePostfix).
//
// Operands are pushed on a stack; every operator pops its right-hand side
// first and its left-hand side second, so "10 4 -" is 6.
//
// A strict evaluator (the default) requires exactly one value on the stack
// at the end. A lenient one returns the top value and ignores the rest:
//
//	v, err := evaluator.New().WithLenientOperands(true).Evaluate(tokens)
package evaluator
