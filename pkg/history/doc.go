// Package history defines the evaluation history record and the storage
// contract shared by its backends.
//
// # Layout
//
//   - storage: SQLite (modernc or mattn driver) and in-memory backends
//   - recorder: asynchronous, non-blocking writes
//   - retention: age and count based pruning on a cron schedule
//   - export: JSON and CSV output
//
// Records are created with NewRecord from a calculation outcome:
//
//	res, err := calc.Explain(expr)
//	record := history.NewRecord(history.SourceHTTP, res, err, time.Since(start))
package history
