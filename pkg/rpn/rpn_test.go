package rpn

import (
	"errors"
	"math"
	"sync"
	"testing"

	rpnErrors "intlab/rpncalc/pkg/rpn/errors"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		expression string
		want       float64
	}{
		{"3+4", 7},
		{"2*(3+4)", 14},
		{"-5+10", 5},
		{"2+3*4", 14},
		{"10-5-2", 3},
		{"3-(-2)", 5},
		{"100+1", 101},
		{"1 + 2", 3},
		{"7/2", 3.5},
		{"0.1+0.2", 0.1 + 0.2},
		{"((2))", 2},
		{"-100+(3* (55 - 45))/(25-10)", -98},
		{"1-5*(10-(-100+ (-50-50)) + 100)/(100-90)", -154},
		{"-19 + (10 * 8 + 1)-100/(-10)", 72},
		{" 1\t+\n2 ", 3},
	}

	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			got, err := Calculate(tt.expression)
			if err != nil {
				t.Fatalf("Calculate(%q) error = %v", tt.expression, err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Calculate(%q) = %v, want %v", tt.expression, got, tt.want)
			}
		})
	}
}

func TestCalculate_Errors(t *testing.T) {
	tests := []struct {
		expression string
		want       *rpnErrors.Error
	}{
		{"", rpnErrors.ErrEmptyInput},
		{"   ", rpnErrors.ErrEmptyInput},
		{"10/(5-5)", rpnErrors.ErrDivideByZero},
		{"2+", rpnErrors.ErrInsufficientOperands},
		{"3--2", rpnErrors.ErrTooManyOperators},
		{"(1+2", rpnErrors.ErrUnbalancedOpenParen},
		{"1+2)", rpnErrors.ErrUnbalancedCloseParen},
		{"2+x", rpnErrors.ErrUnsupportedSymbol},
		{"1.2.3+1", rpnErrors.ErrInvalidNumberLiteral},
		{"-(2)", rpnErrors.ErrInvalidNumberLiteral},
		{"(1)2", rpnErrors.ErrExtraOperands},
		{"()", rpnErrors.ErrInsufficientOperands},
	}

	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			got, err := Calculate(tt.expression)
			if err == nil {
				t.Fatalf("Calculate(%q) = %v, want %s", tt.expression, got, tt.want.Kind)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Calculate(%q) error = %v, want kind %s", tt.expression, err, tt.want.Kind)
			}
		})
	}
}

func TestCalculate_WhitespaceIsInsignificant(t *testing.T) {
	a, errA := Calculate("1 + 2")
	b, errB := Calculate("1+2")
	if errA != nil || errB != nil {
		t.Fatalf("errors: %v, %v", errA, errB)
	}
	if a != b {
		t.Errorf("Calculate(\"1 + 2\") = %v, Calculate(\"1+2\") = %v", a, b)
	}
}

func TestCalculate_UnaryAfterSpaceStrippedParen(t *testing.T) {
	// Spaces are removed before scanning, so "( -2)" still has '-' right after '('.
	got, err := Calculate("3 - ( -2)")
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if got != 5 {
		t.Errorf("Calculate() = %v, want 5", got)
	}
}

func TestCalculate_Deterministic(t *testing.T) {
	const expression = "1-5*(10-(-100+ (-50-50)) + 100)/(100-90)"

	first, err := Calculate(expression)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	for i := 0; i < 20; i++ {
		got, err := Calculate(expression)
		if err != nil || got != first {
			t.Fatalf("run %d = %v, %v; want %v", i, got, err, first)
		}
	}
}

func TestCalculate_ConcurrentUse(t *testing.T) {
	calc := NewCalculator()

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := calc.Calculate("2*(3+4)")
			if err != nil {
				errs <- err
				return
			}
			if v != 14 {
				errs <- errors.New("wrong result")
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestCalculator_Explain(t *testing.T) {
	res, err := NewCalculator().Explain(" -5 + 10 ")
	if err != nil {
		t.Fatalf("Explain() error = %v", err)
	}

	if res.Expression != " -5 + 10 " {
		t.Errorf("Expression = %q", res.Expression)
	}
	if res.Normalized != "-5+10" {
		t.Errorf("Normalized = %q, want %q", res.Normalized, "-5+10")
	}
	if res.PostfixString() != "-5 10 +" {
		t.Errorf("PostfixString() = %q, want %q", res.PostfixString(), "-5 10 +")
	}
	if res.Value != 5 {
		t.Errorf("Value = %v, want 5", res.Value)
	}
}

func TestCalculator_ExplainKeepsPartialResult(t *testing.T) {
	res, err := NewCalculator().Explain("10 / (5 - 5)")
	if !errors.Is(err, rpnErrors.ErrDivideByZero) {
		t.Fatalf("Explain() error = %v, want divide by zero", err)
	}
	if res.PostfixString() != "10 5 5 - /" {
		t.Errorf("PostfixString() = %q, want %q", res.PostfixString(), "10 5 5 - /")
	}

	e, _ := rpnErrors.As(err)
	if e.Input != "10/(5-5)" {
		t.Errorf("error Input = %q, want normalized input", e.Input)
	}
	if e.Position != 2 {
		t.Errorf("error Position = %d, want 2", e.Position)
	}
}

func TestCalculator_LenientOperands(t *testing.T) {
	if _, err := NewCalculator().Calculate("(1)2"); !errors.Is(err, rpnErrors.ErrExtraOperands) {
		t.Fatalf("strict Calculate() error = %v, want extra operands", err)
	}

	calc := NewCalculator().WithLenientOperands(true)
	if !calc.LenientOperands() {
		t.Fatal("LenientOperands() = false, want true")
	}
	got, err := calc.Calculate("(1)2")
	if err != nil {
		t.Fatalf("lenient Calculate() error = %v", err)
	}
	if got != 2 {
		t.Errorf("lenient Calculate() = %v, want 2", got)
	}
}

func TestCalculator_Convert(t *testing.T) {
	tokens, err := NewCalculator().Convert("2 * (3 + 4)")
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	res := Result{Postfix: tokens}
	if res.PostfixString() != "2 3 4 + *" {
		t.Errorf("Convert() = %q, want %q", res.PostfixString(), "2 3 4 + *")
	}
}

func TestCalculator_EvaluatePostfix(t *testing.T) {
	calc := NewCalculator()

	got, err := calc.EvaluatePostfix("3 4 + 2 *")
	if err != nil {
		t.Fatalf("EvaluatePostfix() error = %v", err)
	}
	if got != 14 {
		t.Errorf("EvaluatePostfix() = %v, want 14", got)
	}

	if _, err := calc.EvaluatePostfix("3 x +"); !errors.Is(err, rpnErrors.ErrUnsupportedSymbol) {
		t.Errorf("EvaluatePostfix() error = %v, want unsupported symbol", err)
	}
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"1 + 2":       "1+2",
		"\t(3)\n*\r4": "(3)*4",
		"":            "",
		"   ":         "",
		"1\u00a0+2":   "1+2",
	}
	for in, want := range tests {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func BenchmarkCalculate(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := Calculate("1-5*(10-(-100+ (-50-50)) + 100)/(100-90)"); err != nil {
			b.Fatal(err)
		}
	}
}
