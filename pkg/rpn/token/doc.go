// Package token defines the lexical units shared by the infix converter and
// the postfix evaluator, together with the classification helpers both
// stages rely on.
//
// Numbers are carried as text rather than parsed values so that a literal
// can be assembled one character at a time by the converter and parsed only
// once, by the evaluator:
//
//	tokens := []token.Token{
//	    token.NewNumber("100", 0),
//	    token.NewNumber("1", 4),
//	    token.NewOperator("+", 3),
//	}
//	fmt.Println(token.Format(tokens)) // 100 1 +
//
// Operator priority is a pure function of the symbol:
//
//	token.Priority("+") // 1
//	token.Priority("*") // 2
//	token.Priority("(") // 0
package token
