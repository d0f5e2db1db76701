package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"intlab/rpncalc/pkg/history"
)

// Exporter writes history records in some format.
type Exporter interface {
	Export(ctx context.Context, records []*history.Record, w io.Writer) error
}

// Supported formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// New returns the exporter for format.
func New(format string) (Exporter, error) {
	switch format {
	case FormatJSON:
		return NewJSONExporter(true), nil
	case FormatCSV:
		return NewCSVExporter(true), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q (want %s or %s)", format, FormatJSON, FormatCSV)
	}
}

// JSONExporter writes records as a JSON array.
type JSONExporter struct {
	// Pretty enables indentation.
	Pretty bool
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(pretty bool) *JSONExporter {
	return &JSONExporter{Pretty: pretty}
}

// Export writes records as a JSON array followed by a newline. An empty
// set is written as [].
func (e *JSONExporter) Export(ctx context.Context, records []*history.Record, w io.Writer) error {
	if records == nil {
		records = []*history.Record{}
	}

	enc := json.NewEncoder(w)
	if e.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(records); err != nil {
		return history.NewExportError(FormatJSON, len(records), err)
	}
	return nil
}

// CSVExporter writes records as CSV rows.
type CSVExporter struct {
	// IncludeHeader includes a header row with column names.
	IncludeHeader bool
}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{IncludeHeader: includeHeader}
}

var csvHeader = []string{
	"id", "created_at", "source", "status",
	"expression", "normalized", "postfix", "result",
	"error_kind", "error_message", "duration_us",
}

// Export writes records to w in CSV format.
func (e *CSVExporter) Export(ctx context.Context, records []*history.Record, w io.Writer) error {
	writer := csv.NewWriter(w)

	if e.IncludeHeader {
		if err := writer.Write(csvHeader); err != nil {
			return history.NewExportError(FormatCSV, len(records), err)
		}
	}

	for i, record := range records {
		if err := ctx.Err(); err != nil {
			return history.NewExportError(FormatCSV, i, err)
		}
		if err := writer.Write(recordToRow(record)); err != nil {
			return history.NewExportError(FormatCSV, len(records), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return history.NewExportError(FormatCSV, len(records), err)
	}
	return nil
}

func recordToRow(record *history.Record) []string {
	result := ""
	if record.Result != nil {
		result = strconv.FormatFloat(*record.Result, 'g', -1, 64)
	}

	return []string{
		record.ID,
		record.CreatedAt.Format(time.RFC3339Nano),
		record.Source,
		string(record.Status),
		record.Expression,
		record.Normalized,
		record.Postfix,
		result,
		record.ErrorKind,
		record.ErrorMessage,
		strconv.FormatInt(record.Duration.Microseconds(), 10),
	}
}
