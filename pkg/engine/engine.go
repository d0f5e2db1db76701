package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"
	"unicode/utf8"

	"intlab/rpncalc/pkg/config"
	"intlab/rpncalc/pkg/history"
	"intlab/rpncalc/pkg/rpn"
	rpnErrors "intlab/rpncalc/pkg/rpn/errors"
	"intlab/rpncalc/pkg/rpn/token"
	"intlab/rpncalc/pkg/telemetry/logging"
	"intlab/rpncalc/pkg/telemetry/metrics"
	"intlab/rpncalc/pkg/telemetry/tracing"
)

// ErrExpressionTooLong is returned for input above the configured maximum
// length. It is checked before any conversion work.
var ErrExpressionTooLong = errors.New("expression too long")

// Recorder accepts history records. *recorder.Recorder satisfies it.
type Recorder interface {
	Record(ctx context.Context, record *history.Record) error
}

// Options wires the engine's collaborators. Every field is optional.
type Options struct {
	Calculator config.CalculatorConfig
	Recorder   Recorder
	Metrics    *metrics.Collector
	Tracer     *tracing.Tracer
	Logger     *slog.Logger
}

// Engine runs calculations with the service's cross-cutting concerns: a
// span per call, evaluation metrics, history recording and a length
// limit. Settings can be swapped at runtime with Apply.
type Engine struct {
	recorder Recorder
	metrics  *metrics.Collector
	tracer   *tracing.Tracer
	logger   *slog.Logger

	mu        sync.RWMutex
	calc      *rpn.Calculator
	maxLength int
}

// New creates an engine.
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer, _ = tracing.New(&config.TracingConfig{})
	}

	e := &Engine{
		recorder: opts.Recorder,
		metrics:  opts.Metrics,
		tracer:   tracer,
		logger:   logger.With("component", "engine"),
	}
	e.Apply(opts.Calculator)
	return e
}

// Apply replaces the calculator settings. Calls in flight keep the
// settings they started with.
func (e *Engine) Apply(cfg config.CalculatorConfig) {
	calc := rpn.NewCalculator().WithLenientOperands(cfg.LenientOperands)

	e.mu.Lock()
	e.calc = calc
	e.maxLength = cfg.MaxExpressionLength
	e.mu.Unlock()

	e.logger.Debug("calculator settings applied",
		"lenient_operands", cfg.LenientOperands,
		"max_expression_length", cfg.MaxExpressionLength,
	)
}

func (e *Engine) current() (*rpn.Calculator, int) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.calc, e.maxLength
}

// Calculator returns the calculator currently in use.
func (e *Engine) Calculator() *rpn.Calculator {
	calc, _ := e.current()
	return calc
}

// Calculate evaluates an infix expression. On failure the result holds
// whatever stages completed.
func (e *Engine) Calculate(ctx context.Context, source, expression string) (*rpn.Result, error) {
	calc, maxLength := e.current()

	ctx, span := e.tracer.Start(ctx, "rpn.calculate")
	defer span.End()
	tracing.SetExpressionAttributes(span, expression, source)

	if err := checkLength(expression, maxLength); err != nil {
		tracing.SetStatus(span, err)
		return &rpn.Result{Expression: expression}, err
	}

	start := time.Now()
	res, err := calc.Explain(expression)
	duration := time.Since(start)
	if err == nil {
		if ferr := checkFinite(res.Value); ferr != nil {
			err = ferr.WithInput(res.Normalized)
		}
	}

	tracing.RecordResult(span, res.PostfixString(), res.Value, err)
	e.metrics.RecordEvaluation(source, string(rpnErrors.KindOf(err)), duration, len(res.Postfix))
	e.record(ctx, history.NewRecord(source, res, err, duration))
	e.log(ctx, source, expression, err)

	return res, err
}

// Convert converts an infix expression to postfix without evaluating it.
func (e *Engine) Convert(ctx context.Context, source, expression string) ([]token.Token, error) {
	calc, maxLength := e.current()

	_, span := e.tracer.Start(ctx, "rpn.convert")
	defer span.End()
	tracing.SetExpressionAttributes(span, expression, source)

	if err := checkLength(expression, maxLength); err != nil {
		tracing.SetStatus(span, err)
		return nil, err
	}

	tokens, err := calc.Convert(expression)
	tracing.RecordResult(span, token.Format(tokens), 0, err)
	return tokens, err
}

// EvaluatePostfix evaluates whitespace separated postfix text.
func (e *Engine) EvaluatePostfix(ctx context.Context, source, text string) (float64, error) {
	calc, maxLength := e.current()

	_, span := e.tracer.Start(ctx, "rpn.evaluate")
	defer span.End()
	tracing.SetExpressionAttributes(span, text, source)

	if err := checkLength(text, maxLength); err != nil {
		tracing.SetStatus(span, err)
		return 0, err
	}

	start := time.Now()
	value, err := calc.EvaluatePostfix(text)
	duration := time.Since(start)
	if err == nil {
		if ferr := checkFinite(value); ferr != nil {
			err = ferr
		}
	}

	tracing.RecordResult(span, text, value, err)
	e.metrics.RecordEvaluation(source, string(rpnErrors.KindOf(err)), duration, len(token.ParsePostfix(text)))
	e.log(ctx, source, text, err)

	return value, err
}

func checkLength(expression string, maxLength int) error {
	if maxLength <= 0 {
		return nil
	}
	if n := utf8.RuneCountInString(expression); n > maxLength {
		return fmt.Errorf("%w: %d characters, limit %d", ErrExpressionTooLong, n, maxLength)
	}
	return nil
}

// checkFinite rejects ±Inf and NaN. Results leave the engine as JSON numbers,
// which cannot carry them.
func checkFinite(value float64) *rpnErrors.Error {
	if !math.IsInf(value, 0) && !math.IsNaN(value) {
		return nil
	}
	return rpnErrors.Enrich(rpnErrors.Newf(rpnErrors.KindNonFiniteResult, rpnErrors.NoPosition,
		"result is not a finite number (%v)", value))
}

func (e *Engine) record(ctx context.Context, record *history.Record) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.Record(ctx, record); err != nil {
		e.logger.Debug("history record not queued", "record_id", record.ID, "error", err)
	}
}

func (e *Engine) log(ctx context.Context, source, expression string, err error) {
	attrs := []any{"source", source, "expression", expression}
	if id := logging.GetRequestID(ctx); id != "" {
		attrs = append(attrs, "request_id", id)
	}
	if err != nil {
		e.logger.DebugContext(ctx, "evaluation failed", append(attrs, "error_kind", rpnErrors.KindOf(err), "error", err)...)
		return
	}
	e.logger.DebugContext(ctx, "evaluation succeeded", attrs...)
}
