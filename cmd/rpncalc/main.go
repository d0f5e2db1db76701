// rpncalc evaluates infix arithmetic expressions by converting them to
// Reverse Polish Notation and running them on an operand stack.
//
// It supports:
//   - One-shot evaluation from arguments or stdin
//   - Conversion to postfix and evaluation of postfix input
//   - An HTTP service with history, metrics and tracing
//   - Re-evaluating an expressions file whenever it changes
//
// Usage:
//
//	# Evaluate expressions
//	rpncalc eval "2 * (3 + 4)" "-5 + 10"
//
//	# Show the postfix form
//	rpncalc convert "2 * (3 + 4)"
//
//	# Evaluate postfix input
//	rpncalc postfix 2 3 4 + "*"
//
//	# Start the HTTP service
//	rpncalc serve --config rpncalc.yaml
//
//	# List recorded evaluations
//	rpncalc history list --status error
package main

func main() {
	Execute()
}
