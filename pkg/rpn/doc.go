// Package rpn evaluates arithmetic expressions.
//
// An expression may contain integer and decimal numbers, the binary
// operators + - * /, unary minus and parentheses. Evaluation runs in two
// stages: the converter turns the infix text into postfix (RPN) tokens with
// the shunting-yard algorithm, then the evaluator reduces them on an operand
// stack.
//
// # Usage
//
//	v, err := rpn.Calculate("2*(3+4)") // 14
//
// Intermediate forms are available through a Calculator:
//
//	res, err := rpn.NewCalculator().Explain("-5 + 10")
//	fmt.Println(res.Normalized)      // -5+10
//	fmt.Println(res.PostfixString()) // -5 10 +
//	fmt.Println(res.Value)           // 5
//
// # Errors
//
// Every failure is a *errors.Error from the rpn/errors package with a Kind
// such as KindDivideByZero or KindTooManyOperators:
//
//	_, err := rpn.Calculate("10/(5-5)")
//	errors.Is(err, rpnerrors.ErrDivideByZero) // true
//
// # Unary Minus
//
// A minus is unary only at the start of the expression or directly after
// '('. "3-(-2)" is 5; "3--2" fails with KindTooManyOperators.
//
// # Concurrency
//
// All state is local to a call; a Calculator may be shared freely.
package rpn
