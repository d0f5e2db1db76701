package history

import (
	"errors"
	"fmt"
)

var (
	// ErrBufferFull is returned by the recorder when its queue has no room.
	ErrBufferFull = errors.New("record buffer full")

	// ErrClosed is returned when a closed recorder or store is used.
	ErrClosed = errors.New("history closed")
)

// StorageError wraps a failure of a storage backend ("sqlite", "memory")
// during an operation such as "store", "query" or "delete".
type StorageError struct {
	Backend   string
	Operation string
	Cause     error
}

func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{Backend: backend, Operation: operation, Cause: cause}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("history %s: %s: %v", e.Backend, e.Operation, e.Cause)
}

func (e *StorageError) Unwrap() error { return e.Cause }

// RecorderError reports a record the recorder refused to queue.
type RecorderError struct {
	RecordID string
	Cause    error
}

func NewRecorderError(recordID string, cause error) *RecorderError {
	return &RecorderError{RecordID: recordID, Cause: cause}
}

func (e *RecorderError) Error() string {
	if e.RecordID == "" {
		return "history recorder: " + e.Cause.Error()
	}
	return fmt.Sprintf("history recorder: record %s: %v", e.RecordID, e.Cause)
}

func (e *RecorderError) Unwrap() error { return e.Cause }

// RetentionError reports a failed prune pass. Reason is "age" or "count".
type RetentionError struct {
	Reason string
	Cause  error
}

func NewRetentionError(reason string, cause error) *RetentionError {
	return &RetentionError{Reason: reason, Cause: cause}
}

func (e *RetentionError) Error() string {
	return fmt.Sprintf("history retention: prune by %s: %v", e.Reason, e.Cause)
}

func (e *RetentionError) Unwrap() error { return e.Cause }

// ExportError reports a failed export. RecordCount is the number of records
// in the batch, or the index reached when writing stopped part way.
type ExportError struct {
	Format      string
	RecordCount int
	Cause       error
}

func NewExportError(format string, recordCount int, cause error) *ExportError {
	return &ExportError{Format: format, RecordCount: recordCount, Cause: cause}
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("history export: %s (%d records): %v", e.Format, e.RecordCount, e.Cause)
}

func (e *ExportError) Unwrap() error { return e.Cause }
