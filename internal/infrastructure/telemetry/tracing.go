package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName scopes the spans opened by the membership and content services
const tracerName = "mediaassoc-backend"

// Span attribute keys used by the membership services
const (
	SpanAttrMemberID   = "member_id"
	SpanAttrRenewalID  = "renewal_id"
	SpanAttrLedgerID   = "ledger_id"
	SpanAttrJobID      = "archival_job_id"
	SpanAttrStatus     = "status"
	SpanAttrRowCount   = "row_count"
	SpanAttrSourceKind = "source_kind"
)

// SpanOption adds start attributes to a service span
type SpanOption func(*[]attribute.KeyValue)

// WithAttribute attaches key=value when the span starts
func WithAttribute(key string, value any) SpanOption {
	return func(attrs *[]attribute.KeyValue) {
		*attrs = append(*attrs, attributeOf(key, value))
	}
}

// StartServiceSpan opens an internal span named {service}.{method}, such as
// "member.update_status" or "archival.retry". Callers must End the span.
func StartServiceSpan(ctx context.Context, service, method string, opts ...SpanOption) (context.Context, trace.Span) {
	var attrs []attribute.KeyValue
	for _, opt := range opts {
		opt(&attrs)
	}
	return otel.Tracer(tracerName).Start(ctx, service+"."+method,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// SetAttribute records key=value on a running span
func SetAttribute(span trace.Span, key string, value any) {
	if span == nil {
		return
	}
	span.SetAttributes(attributeOf(key, value))
}

// RecordError marks the span failed with err
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// SetOK marks the span successful
func SetOK(span trace.Span) {
	if span == nil {
		return
	}
	span.SetStatus(codes.Ok, "")
}

// AddEvent adds a named event. Attributes are given as alternating string
// keys and values; a pair with a non-string key is ignored.
func AddEvent(span trace.Span, name string, keyValues ...any) {
	if span == nil {
		return
	}
	var attrs []attribute.KeyValue
	for i := 0; i+1 < len(keyValues); i += 2 {
		if key, ok := keyValues[i].(string); ok {
			attrs = append(attrs, attributeOf(key, keyValues[i+1]))
		}
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

func attributeOf(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case bool:
		return attribute.Bool(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case []string:
		return attribute.StringSlice(key, v)
	case fmt.Stringer:
		return attribute.String(key, v.String())
	}
	return attribute.String(key, fmt.Sprint(value))
}
