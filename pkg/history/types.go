package history

import (
	"context"
	"time"

	"github.com/google/uuid"

	"intlab/rpncalc/pkg/rpn"
	rpnErrors "intlab/rpncalc/pkg/rpn/errors"
)

// Status is the outcome of a recorded evaluation.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Sources of an evaluation.
const (
	SourceCLI   = "cli"
	SourceHTTP  = "http"
	SourceWatch = "watch"
)

// Record is one evaluated expression.
type Record struct {
	ID         string `json:"id"`
	Expression string `json:"expression"`
	Normalized string `json:"normalized"`
	Postfix    string `json:"postfix,omitempty"`

	// Result is nil when the evaluation failed.
	Result *float64 `json:"result,omitempty"`

	Status       Status `json:"status"`
	ErrorKind    string `json:"error_kind,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`

	// Source is where the expression came from ("cli", "http", "watch").
	Source string `json:"source"`

	Duration  time.Duration `json:"duration_ns"`
	CreatedAt time.Time     `json:"created_at"`
}

// NewRecord builds a record from a calculation outcome. res may be partial
// when evalErr is set.
func NewRecord(source string, res *rpn.Result, evalErr error, duration time.Duration) *Record {
	record := &Record{
		ID:        uuid.New().String(),
		Source:    source,
		Status:    StatusSuccess,
		Duration:  duration,
		CreatedAt: time.Now().UTC(),
	}

	if res != nil {
		record.Expression = res.Expression
		record.Normalized = res.Normalized
		record.Postfix = res.PostfixString()
	}

	if evalErr != nil {
		record.Status = StatusError
		record.ErrorKind = string(rpnErrors.KindOf(evalErr))
		record.ErrorMessage = evalErr.Error()
		return record
	}

	value := res.Value
	record.Result = &value
	return record
}

// Sort orders for queries.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// DefaultQueryLimit applies when Query.Limit is zero on a read.
const DefaultQueryLimit = 100

// Query filters history records. Zero fields match everything.
type Query struct {
	// StartTime matches records created at or after this time.
	StartTime *time.Time

	// EndTime matches records created at or before this time.
	EndTime *time.Time

	Status    Status
	ErrorKind string
	Source    string

	// Limit caps the number of records. For Query it defaults to
	// DefaultQueryLimit; for Delete zero means no cap.
	Limit  int
	Offset int

	// SortOrder is SortDesc (newest first, the default) or SortAsc.
	SortOrder string
}

// Ascending reports whether results are ordered oldest first.
func (q *Query) Ascending() bool {
	return q != nil && q.SortOrder == SortAsc
}

// Matches reports whether r passes the query's filters. Limit, Offset and
// SortOrder are not considered.
func (q *Query) Matches(r *Record) bool {
	if q == nil {
		return true
	}
	if q.StartTime != nil && r.CreatedAt.Before(*q.StartTime) {
		return false
	}
	if q.EndTime != nil && r.CreatedAt.After(*q.EndTime) {
		return false
	}
	if q.Status != "" && r.Status != q.Status {
		return false
	}
	if q.ErrorKind != "" && r.ErrorKind != q.ErrorKind {
		return false
	}
	if q.Source != "" && r.Source != q.Source {
		return false
	}
	return true
}

// Storage persists history records.
type Storage interface {
	// Store persists a record.
	Store(ctx context.Context, record *Record) error

	// Query returns records matching q.
	Query(ctx context.Context, q *Query) ([]*Record, error)

	// Count returns the number of records matching q.
	Count(ctx context.Context, q *Query) (int64, error)

	// Delete removes records matching q and returns how many were removed.
	// With a Limit, only the first Limit records in q's sort order go.
	Delete(ctx context.Context, q *Query) (int64, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend.
	Close() error
}
