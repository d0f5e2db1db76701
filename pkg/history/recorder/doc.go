// Package recorder writes evaluation history in the background.
//
// Record never blocks: records go onto a buffered channel drained by one
// worker goroutine. When the buffer is full the record is dropped, counted
// and ErrBufferFull is returned. Close drains whatever is buffered.
//
//	rec := recorder.NewRecorder(store, recorder.ConfigFrom(&cfg.History), collector)
//	defer rec.Close()
//
//	res, err := calc.Explain(expr)
//	_ = rec.Record(ctx, history.NewRecord(history.SourceCLI, res, err, elapsed))
package recorder
