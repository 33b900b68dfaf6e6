package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// recordSpans installs an in-memory tracer provider for the test
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func valuesByKey(attrs []attribute.KeyValue) map[string]attribute.Value {
	out := make(map[string]attribute.Value, len(attrs))
	for _, a := range attrs {
		out[string(a.Key)] = a.Value
	}
	return out
}

func TestStartServiceSpan_MemberStatusUpdate(t *testing.T) {
	sr := recordSpans(t)
	memberID := uuid.New()

	_, span := StartServiceSpan(context.Background(), "member", "update_status",
		WithAttribute(SpanAttrMemberID, memberID),
		WithAttribute(SpanAttrStatus, "Approved"),
	)
	SetOK(span)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "member.update_status", spans[0].Name())
	assert.Equal(t, trace.SpanKindInternal, spans[0].SpanKind())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Equal(t, tracerName, spans[0].InstrumentationScope().Name)

	attrs := valuesByKey(spans[0].Attributes())
	assert.Equal(t, memberID.String(), attrs[SpanAttrMemberID].AsString())
	assert.Equal(t, "Approved", attrs[SpanAttrStatus].AsString())
}

func TestStartServiceSpan_ProjectionNestsUnderStatusUpdate(t *testing.T) {
	sr := recordSpans(t)

	ctx, parent := StartServiceSpan(context.Background(), "renewal", "update")
	_, child := StartServiceSpan(ctx, "archival", "project",
		WithAttribute(SpanAttrSourceKind, "renewal"),
	)
	SetAttribute(child, SpanAttrLedgerID, uuid.New())
	child.End()
	parent.End()

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "archival.project", spans[0].Name())
	assert.Equal(t, parent.SpanContext().SpanID(), spans[0].Parent().SpanID())
	assert.Equal(t, parent.SpanContext().TraceID(), spans[0].SpanContext().TraceID())
	assert.Contains(t, valuesByKey(spans[0].Attributes()), SpanAttrLedgerID)
}

func TestRecordError_ArchivalRetry(t *testing.T) {
	sr := recordSpans(t)

	_, span := StartServiceSpan(context.Background(), "archival", "retry",
		WithAttribute(SpanAttrJobID, uuid.New().String()),
	)
	RecordError(span, errors.New("deadlock detected"))
	RecordError(span, nil)
	span.End()

	got := sr.Ended()[0]
	assert.Equal(t, codes.Error, got.Status().Code)
	assert.Equal(t, "deadlock detected", got.Status().Description)
	require.Len(t, got.Events(), 1)
	assert.Equal(t, "exception", got.Events()[0].Name)
}

func TestAddEvent_LedgerImport(t *testing.T) {
	sr := recordSpans(t)

	_, span := StartServiceSpan(context.Background(), "ledger", "import_csv",
		WithAttribute(SpanAttrRowCount, 12),
	)
	AddEvent(span, "ledger_rows_imported",
		SpanAttrRowCount, 10,
		"skipped_count", 2,
		42, "ignored",
		"dangling",
	)
	span.End()

	got := sr.Ended()[0]
	assert.Equal(t, int64(12), valuesByKey(got.Attributes())[SpanAttrRowCount].AsInt64())
	require.Len(t, got.Events(), 1)
	event := valuesByKey(got.Events()[0].Attributes)
	assert.Len(t, event, 2)
	assert.Equal(t, int64(10), event[SpanAttrRowCount].AsInt64())
	assert.Equal(t, int64(2), event["skipped_count"].AsInt64())
}

func TestSpanHelpers_NilSpan(t *testing.T) {
	assert.NotPanics(t, func() {
		SetAttribute(nil, SpanAttrStatus, "Active")
		RecordError(nil, errors.New("boom"))
		SetOK(nil)
		AddEvent(nil, "ledger_rows_imported")
	})
}

func TestAttributeOf(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		value any
		want  attribute.Value
	}{
		{"Active", attribute.StringValue("Active")},
		{true, attribute.BoolValue(true)},
		{3, attribute.IntValue(3)},
		{int64(2024), attribute.Int64Value(2024)},
		{0.5, attribute.Float64Value(0.5)},
		{[]string{"radio", "tv"}, attribute.StringSliceValue([]string{"radio", "tv"})},
		{id, attribute.StringValue(id.String())},
		{90 * time.Second, attribute.StringValue("1m30s")},
		{struct{ Year int }{2022}, attribute.StringValue("{2022}")},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, attributeOf("k", tt.value).Value, "%T", tt.value)
	}
}
