package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"intlab/rpncalc/pkg/cli"
	"intlab/rpncalc/pkg/config"
	"intlab/rpncalc/pkg/engine"
	"intlab/rpncalc/pkg/history"
	"intlab/rpncalc/pkg/history/recorder"
	"intlab/rpncalc/pkg/history/storage"
)

// historySink is an opened history store with its async recorder.
type historySink struct {
	store    history.Storage
	recorder *recorder.Recorder
}

// openHistory opens the configured store and starts a recorder on it. The
// recorder is enabled even when history.enabled is false, since callers
// only open history when recording was asked for.
func openHistory(cfg *config.HistoryConfig, m recorder.Metrics) (*historySink, error) {
	store, err := storage.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}

	recCfg := recorder.ConfigFrom(cfg)
	recCfg.Enabled = true

	return &historySink{
		store:    store,
		recorder: recorder.NewRecorder(store, recCfg, m),
	}, nil
}

// Close drains the recorder before closing the store.
func (h *historySink) Close() error {
	if err := h.recorder.Close(); err != nil {
		slog.Warn("failed to close history recorder", "error", err)
	}
	return h.store.Close()
}

// newCLIEngine builds an engine for one-shot commands. rec may be nil.
func newCLIEngine(cfg config.CalculatorConfig, lenient bool, rec *historySink) *engine.Engine {
	if lenient {
		cfg.LenientOperands = true
	}

	opts := engine.Options{Calculator: cfg}
	if rec != nil {
		opts.Recorder = rec.recorder
	}
	return engine.New(opts)
}

// readExpressions returns the non-blank lines of r. Lines starting with
// '#' are comments.
func readExpressions(r io.Reader) ([]string, error) {
	var exprs []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		exprs = append(exprs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read expressions: %w", err)
	}
	return exprs, nil
}

// evalPrinter writes evaluations one at a time and counts failures.
type evalPrinter struct {
	w      io.Writer
	f      cli.Formatter
	failed int
}

func newEvalPrinter(w io.Writer, format string, showPostfix bool) (*evalPrinter, error) {
	f, err := cli.NewFormatter(cli.OutputFormat(format), showPostfix)
	if err != nil {
		return nil, cli.NewConfigError("format", err.Error())
	}
	return &evalPrinter{w: w, f: f}, nil
}

func (p *evalPrinter) print(eval cli.Evaluation) error {
	if eval.Failed() {
		p.failed++
	}
	err := p.f.FormatTo(p.w, []cli.Evaluation{eval})
	if c, ok := p.f.(*cli.CSVFormatter); ok {
		c.OmitHeader = true
	}
	return err
}

// result is ErrEvaluationFailed when any printed evaluation failed.
func (p *evalPrinter) result() error {
	if p.failed > 0 {
		return cli.ErrEvaluationFailed
	}
	return nil
}

// evaluateAll runs each expression through eng and prints it. progress
// may be nil.
func evaluateAll(ctx context.Context, eng *engine.Engine, source string, exprs []string, p *evalPrinter, progress cli.ProgressReporter) error {
	if progress != nil {
		progress.Start(len(exprs))
		defer progress.Finish()
	}

	for _, expr := range exprs {
		if err := ctx.Err(); err != nil {
			return err
		}

		res, err := eng.Calculate(ctx, source, expr)
		if err := p.print(cli.NewEvaluation(expr, res, err)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}

		if progress != nil {
			progress.Step(err != nil)
		}
	}
	return nil
}
