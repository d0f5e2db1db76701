// Package converter turns infix arithmetic expressions into postfix (RPN)
// token sequences using the shunting-yard algorithm.
//
// # Scanning
//
// The input is read one rune at a time with a single rune of lookbehind:
//
//   - digits and '.' extend the number being scanned, so "100" is built
//     from three runes and emitted as one token;
//   - '-' is a unary sign when it is the first rune of the input or follows
//     '(' directly; it then starts a number literal ("-5");
//   - any other '+', '-', '*' or '/' is a binary operator and must follow an
//     operand;
//   - '(' and ')' group, and never reach the output.
//
// The unary rule is purely positional. "3-(-2)" is valid, "3--2" is not.
//
// # Usage
//
//	tokens, err := converter.ConvertToRPN("2*(3+4)")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(token.Format(tokens)) // 2 3 4 + *
//
// Whitespace is not skipped: callers strip it first (see rpn.Normalize).
package converter
