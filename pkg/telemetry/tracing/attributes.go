package tracing

import (
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	rpnErrors "intlab/rpncalc/pkg/rpn/errors"
)

// Attribute keys for evaluation spans.
const (
	AttrExpression = "rpncalc.expression"
	AttrPostfix    = "rpncalc.postfix"
	AttrResult     = "rpncalc.result"
	AttrSource     = "rpncalc.source"
	AttrErrorKind  = "rpncalc.error.kind"
	AttrErrorPos   = "rpncalc.error.position"
	AttrRequestID  = "rpncalc.request_id"
)

// maxExpressionAttr caps expression text stored on spans.
const maxExpressionAttr = 256

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// SetExpressionAttributes records the input of an evaluation.
func SetExpressionAttributes(span trace.Span, expression, source string) {
	span.SetAttributes(
		attribute.String(AttrExpression, truncate(expression, maxExpressionAttr)),
		attribute.String(AttrSource, source),
	)
}

// RecordResult records the outcome of an evaluation on span: the postfix
// form and value on success, the error kind and position on failure.
func RecordResult(span trace.Span, postfix string, value float64, err error) {
	if postfix != "" {
		span.SetAttributes(attribute.String(AttrPostfix, truncate(postfix, maxExpressionAttr)))
	}

	if err != nil {
		attrs := []attribute.KeyValue{attribute.String(AttrErrorKind, string(rpnErrors.KindOf(err)))}
		if e, ok := rpnErrors.As(err); ok && e.HasPosition() {
			attrs = append(attrs, attribute.Int(AttrErrorPos, e.Position))
		}
		span.SetAttributes(attrs...)
		SetStatus(span, err)
		return
	}

	span.SetAttributes(attribute.Float64(AttrResult, value))
	SetStatus(span, nil)
}
