package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"intlab/rpncalc/pkg/rpn"
)

func evaluate(t *testing.T, expression string) Evaluation {
	t.Helper()
	res, err := rpn.NewCalculator().Explain(expression)
	return NewEvaluation(expression, res, err)
}

func TestNewEvaluation(t *testing.T) {
	ok := evaluate(t, "2*(3+4)")
	if ok.Failed() || ok.Result == nil || *ok.Result != 14 || ok.Postfix != "2 3 4 + *" {
		t.Errorf("success evaluation = %+v", ok)
	}

	bad := evaluate(t, "10/(5-5)")
	if !bad.Failed() || bad.ErrorKind != "divide_by_zero" || bad.Result != nil {
		t.Errorf("failed evaluation = %+v", bad)
	}
	if bad.Position == nil || bad.Context == "" {
		t.Errorf("failed evaluation missing position: %+v", bad)
	}

	unbalanced := evaluate(t, "(1+2")
	if unbalanced.Postfix != "" {
		t.Errorf("Postfix = %q, want empty for a failed conversion", unbalanced.Postfix)
	}
}

func TestTextFormatter(t *testing.T) {
	evals := []Evaluation{evaluate(t, "-19 + (10 * 8 + 1)-100/(-10)"), evaluate(t, "2+x")}

	buf := &bytes.Buffer{}
	if err := (&TextFormatter{}).FormatTo(buf, evals); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "-19 + (10 * 8 + 1)-100/(-10) = 72\n") {
		t.Errorf("first line wrong:\n%s", out)
	}
	if !strings.Contains(out, "2+x: error: not supported symbol 'x'") {
		t.Errorf("missing error line:\n%s", out)
	}
	if !strings.Contains(out, "^") {
		t.Errorf("missing caret excerpt:\n%s", out)
	}
}

func TestTextFormatter_ShowPostfix(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := (&TextFormatter{ShowPostfix: true}).FormatTo(buf, []Evaluation{evaluate(t, "3+4")}); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	want := "3+4 = 7\n  postfix: 3 4 +\n"
	if buf.String() != want {
		t.Errorf("FormatTo() = %q, want %q", buf.String(), want)
	}
}

func TestJSONFormatter(t *testing.T) {
	buf := &bytes.Buffer{}
	evals := []Evaluation{evaluate(t, "1+1"), evaluate(t, "1/0")}
	if err := (&JSONFormatter{}).FormatTo(buf, evals); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	var first, second map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("line 1: %v", err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("line 2: %v", err)
	}
	if first["result"] != 2.0 {
		t.Errorf("result = %v, want 2", first["result"])
	}
	if second["error_kind"] != "divide_by_zero" {
		t.Errorf("error_kind = %v, want divide_by_zero", second["error_kind"])
	}
	if _, ok := second["result"]; ok {
		t.Error("failed evaluation should omit result")
	}
}

func TestCSVFormatter(t *testing.T) {
	buf := &bytes.Buffer{}
	evals := []Evaluation{evaluate(t, "1.5*2"), evaluate(t, "")}
	if err := (&CSVFormatter{}).FormatTo(buf, evals); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	rows, err := csv.NewReader(buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if strings.Join(rows[0], ",") != strings.Join(csvHeaders, ",") {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][2] != "3" {
		t.Errorf("result = %q, want 3", rows[1][2])
	}
	if rows[2][3] != "empty_input" {
		t.Errorf("error_kind = %q, want empty_input", rows[2][3])
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format  OutputFormat
		wantErr bool
	}{
		{FormatText, false},
		{"", false},
		{FormatJSON, false},
		{FormatCSV, false},
		{"junit", true},
	}

	for _, tt := range tests {
		_, err := NewFormatter(tt.format, false)
		if (err != nil) != tt.wantErr {
			t.Errorf("NewFormatter(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestFormatValue(t *testing.T) {
	tests := map[float64]string{
		-98:  "-98",
		3.5:  "3.5",
		0:    "0",
		1e21: "1e+21",
	}
	for v, want := range tests {
		if got := FormatValue(v); got != want {
			t.Errorf("FormatValue(%v) = %q, want %q", v, got, want)
		}
	}
}
