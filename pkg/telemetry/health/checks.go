package health

import (
	"context"
	"fmt"
)

// Calculator is the part of rpn.Calculator the self check needs.
type Calculator interface {
	Calculate(expression string) (float64, error)
}

// canaryExpression exercises unary minus, precedence and parentheses.
const (
	canaryExpression = "-2+3*(4-1)"
	canaryResult     = 7.0
)

// CalculatorCheck evaluates a fixed expression and fails if the result is
// wrong.
func CalculatorCheck(calc Calculator) CheckFunc {
	return func(ctx context.Context) error {
		v, err := calc.Calculate(canaryExpression)
		if err != nil {
			return fmt.Errorf("canary %q failed: %w", canaryExpression, err)
		}
		if v != canaryResult {
			return fmt.Errorf("canary %q = %v, want %v", canaryExpression, v, canaryResult)
		}
		return nil
	}
}

// Pinger is implemented by stores that can verify their connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingCheck wraps a Pinger as a CheckFunc.
func PingCheck(p Pinger) CheckFunc {
	return func(ctx context.Context) error {
		return p.Ping(ctx)
	}
}
