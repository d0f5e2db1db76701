package evaluator

import (
	"errors"
	"math"
	"strings"
	"testing"

	rpnErrors "intlab/rpncalc/pkg/rpn/errors"
	"intlab/rpncalc/pkg/rpn/token"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name    string
		postfix string
		want    float64
	}{
		{"single number", "7", 7},
		{"addition", "3 4 +", 7},
		{"subtraction order", "10 4 -", 6},
		{"division order", "8 2 /", 4},
		{"multiplication", "2.5 4 *", 10},
		{"nested", "2 3 4 + *", 14},
		{"left associative", "10 5 - 2 -", 3},
		{"negative literal", "-5 10 +", 5},
		{"subtract negative", "3 -2 -", 5},
		{"fractional result", "1 3 /", 1.0 / 3.0},
		{"demo", "-100 3 55 45 - * 25 10 - / +", -98},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(token.ParsePostfix(tt.postfix))
			if err != nil {
				t.Fatalf("Evaluate(%q) error = %v", tt.postfix, err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.postfix, got, tt.want)
			}
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		postfix  string
		kind     rpnErrors.Kind
		position int
	}{
		{"empty sequence", "", rpnErrors.KindInsufficientOperands, rpnErrors.NoPosition},
		{"operator only", "+", rpnErrors.KindInsufficientOperands, 0},
		{"one operand", "2 +", rpnErrors.KindInsufficientOperands, 1},
		{"divide by zero", "10 0 /", rpnErrors.KindDivideByZero, 2},
		{"divide by computed zero", "10 5 5 - /", rpnErrors.KindDivideByZero, 4},
		{"divide by negative zero", "1 -0 /", rpnErrors.KindDivideByZero, 2},
		{"two points", "1.2.3 1 +", rpnErrors.KindInvalidNumberLiteral, 0},
		{"lone minus literal", "1 -- +", rpnErrors.KindInvalidNumberLiteral, 1},
		{"parenthesis", "1 ( +", rpnErrors.KindUnsupportedSymbol, 1},
		{"unknown symbol", "1 2 ^", rpnErrors.KindUnsupportedSymbol, 2},
		{"leftover operands", "1 2", rpnErrors.KindExtraOperands, rpnErrors.NoPosition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(token.ParsePostfix(tt.postfix))
			if err == nil {
				t.Fatalf("Evaluate(%q) = %v, want error", tt.postfix, got)
			}

			var e *rpnErrors.Error
			if !errors.As(err, &e) {
				t.Fatalf("error type = %T, want *errors.Error", err)
			}
			if e.Kind != tt.kind {
				t.Errorf("Kind = %q, want %q", e.Kind, tt.kind)
			}
			if e.Position != tt.position {
				t.Errorf("Position = %d, want %d", e.Position, tt.position)
			}
		})
	}
}

func TestEvaluate_LoneUnaryMinusToken(t *testing.T) {
	tokens := []token.Token{token.NewNumber("-", 0), token.NewNumber("2", 2)}

	_, err := Evaluate(tokens)
	if !errors.Is(err, rpnErrors.ErrInvalidNumberLiteral) {
		t.Fatalf("Evaluate() error = %v, want invalid number literal", err)
	}
}

func TestEvaluate_RejectsNonDecimalLiterals(t *testing.T) {
	for _, text := range []string{"NaN", "Inf", "1e3", "0x10"} {
		tokens := []token.Token{token.NewNumber(text, 0)}
		if _, err := Evaluate(tokens); !errors.Is(err, rpnErrors.ErrInvalidNumberLiteral) {
			t.Errorf("Evaluate(%q) error = %v, want invalid number literal", text, err)
		}
	}
}

func TestEvaluate_OutOfRangeLiterals(t *testing.T) {
	huge := "1" + strings.Repeat("0", 340)
	tiny := "0." + strings.Repeat("0", 400) + "1"

	tests := []struct {
		name   string
		tokens []token.Token
		want   float64
	}{
		{"huge", []token.Token{token.NewNumber(huge, 0)}, math.Inf(1)},
		{"negative huge", []token.Token{token.NewNumber("-"+huge, 0)}, math.Inf(-1)},
		{"tiny", []token.Token{token.NewNumber(tiny, 0)}, 0},
		{
			"huge difference",
			[]token.Token{token.NewNumber(huge, 0), token.NewNumber(huge, 342), token.NewOperator("-", 341)},
			math.NaN(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.tokens)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if math.IsNaN(tt.want) {
				if !math.IsNaN(got) {
					t.Errorf("Evaluate() = %v, want NaN", got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluate_UnknownOperatorText(t *testing.T) {
	tokens := []token.Token{
		token.NewNumber("1", 0),
		token.NewNumber("2", 2),
		{Kind: token.Operator, Text: "%", Pos: 1},
	}

	_, err := Evaluate(tokens)
	if !errors.Is(err, rpnErrors.ErrUnsupportedSymbol) {
		t.Fatalf("Evaluate() error = %v, want unsupported symbol", err)
	}
}

func TestEvaluator_LenientOperands(t *testing.T) {
	tokens := token.ParsePostfix("1 2 3")

	if _, err := New().Evaluate(tokens); !errors.Is(err, rpnErrors.ErrExtraOperands) {
		t.Fatalf("strict Evaluate() error = %v, want extra operands", err)
	}

	got, err := New().WithLenientOperands(true).Evaluate(tokens)
	if err != nil {
		t.Fatalf("lenient Evaluate() error = %v", err)
	}
	if got != 3 {
		t.Errorf("lenient Evaluate() = %v, want top of stack 3", got)
	}
}

func TestEvaluate_DivideByZeroMessage(t *testing.T) {
	_, err := Evaluate(token.ParsePostfix("10 0 /"))

	e, ok := rpnErrors.As(err)
	if !ok {
		t.Fatalf("error type = %T, want *errors.Error", err)
	}
	if e.Message != "Divide by 0: 10/0" {
		t.Errorf("Message = %q, want %q", e.Message, "Divide by 0: 10/0")
	}
	if e.Symbol != "/" {
		t.Errorf("Symbol = %q, want %q", e.Symbol, "/")
	}
}

func BenchmarkEvaluate(b *testing.B) {
	tokens := token.ParsePostfix("1 5 10 -100 -50 50 - + - 100 + * 100 90 - / -")
	for i := 0; i < b.N; i++ {
		if _, err := Evaluate(tokens); err != nil {
			b.Fatal(err)
		}
	}
}
