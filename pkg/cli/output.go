package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"intlab/rpncalc/pkg/rpn"
	rpnErrors "intlab/rpncalc/pkg/rpn/errors"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatText is plain text output (default).
	FormatText OutputFormat = "text"
	// FormatJSON is JSON output, one object per line.
	FormatJSON OutputFormat = "json"
	// FormatCSV is CSV output with a header row.
	FormatCSV OutputFormat = "csv"
)

// Evaluation is the printable outcome of one expression.
type Evaluation struct {
	Expression string   `json:"expression"`
	Postfix    string   `json:"postfix,omitempty"`
	Result     *float64 `json:"result,omitempty"`
	ErrorKind  string   `json:"error_kind,omitempty"`
	Error      string   `json:"error,omitempty"`
	Position   *int     `json:"position,omitempty"`

	// Context is the caret excerpt of the input around Position. Text
	// output only.
	Context string `json:"-"`
}

// NewEvaluation builds an Evaluation from a calculation outcome. res may
// be nil when the expression was rejected before conversion.
func NewEvaluation(expression string, res *rpn.Result, err error) Evaluation {
	eval := Evaluation{Expression: expression}
	if res != nil && len(res.Postfix) > 0 {
		eval.Postfix = res.PostfixString()
	}

	if err == nil {
		if res != nil {
			v := res.Value
			eval.Result = &v
		}
		return eval
	}

	eval.Error = err.Error()
	if e, ok := rpnErrors.As(err); ok {
		eval.ErrorKind = string(e.Kind)
		eval.Error = e.Message
		if e.HasPosition() {
			pos := e.Position
			eval.Position = &pos
			eval.Context = rpnErrors.ExtractContext(e.Input, e.Position)
		}
	}
	return eval
}

// Failed reports whether the evaluation carries an error.
func (e Evaluation) Failed() bool {
	return e.Error != ""
}

// FormatValue prints a result the shortest way that round-trips.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Formatter formats command output.
type Formatter interface {
	FormatTo(w io.Writer, evals []Evaluation) error
}

// TextFormatter prints "<expr> = <result>" per evaluation, or the error
// with a caret excerpt.
type TextFormatter struct {
	ShowPostfix bool
}

// FormatTo writes evals to w as text.
func (f *TextFormatter) FormatTo(w io.Writer, evals []Evaluation) error {
	for _, eval := range evals {
		var err error
		switch {
		case eval.Failed():
			_, err = fmt.Fprintf(w, "%s: error: %s\n", eval.Expression, eval.Error)
			if err == nil && eval.Context != "" {
				_, err = io.WriteString(w, eval.Context)
			}
		case eval.Result != nil:
			_, err = fmt.Fprintf(w, "%s = %s\n", eval.Expression, FormatValue(*eval.Result))
		default:
			_, err = fmt.Fprintln(w, eval.Expression)
		}
		if err == nil && f.ShowPostfix && eval.Postfix != "" {
			_, err = fmt.Fprintf(w, "  postfix: %s\n", eval.Postfix)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// JSONFormatter formats output as JSON lines.
type JSONFormatter struct {
	Indent bool
}

// FormatTo writes one JSON object per evaluation.
func (f *JSONFormatter) FormatTo(w io.Writer, evals []Evaluation) error {
	encoder := json.NewEncoder(w)
	if f.Indent {
		encoder.SetIndent("", "  ")
	}
	for _, eval := range evals {
		if err := encoder.Encode(eval); err != nil {
			return err
		}
	}
	return nil
}

// CSVFormatter formats output as CSV.
type CSVFormatter struct {
	// OmitHeader skips the header row, for appending to an existing file.
	OmitHeader bool
}

var csvHeaders = []string{"expression", "postfix", "result", "error_kind", "error"}

// FormatTo writes evals to w as CSV rows.
func (f *CSVFormatter) FormatTo(w io.Writer, evals []Evaluation) error {
	csvWriter := csv.NewWriter(w)

	if !f.OmitHeader {
		if err := csvWriter.Write(csvHeaders); err != nil {
			return err
		}
	}

	for _, eval := range evals {
		result := ""
		if eval.Result != nil {
			result = FormatValue(*eval.Result)
		}
		row := []string{eval.Expression, eval.Postfix, result, eval.ErrorKind, eval.Error}
		if err := csvWriter.Write(row); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// NewFormatter creates a formatter for the specified format.
func NewFormatter(format OutputFormat, showPostfix bool) (Formatter, error) {
	switch format {
	case FormatText, "":
		return &TextFormatter{ShowPostfix: showPostfix}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	case FormatCSV:
		return &CSVFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (supported: text, json, csv)", format)
	}
}
