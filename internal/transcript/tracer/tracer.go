// Package tracer provides a lightweight tracing abstraction for the
// transcript module, decoupling it from OpenTelemetry APIs so services can
// run under a noop tracer in tests.
package tracer

import (
	"context"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span, recording any error that occurred.
	// End must be called exactly once, typically via defer.
	End(err error)

	// SetAttributes adds key-value pairs to the span.
	SetAttributes(attrs ...Attribute)

	// AddEvent records a timestamped event within the span.
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute.
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int64 creates an int64 attribute.
func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Span names used by the transcript module.
const (
	SpanMint          = "transcript.mint"
	SpanFieldRead     = "transcript.field_read"
	SpanCompare       = "transcript.compare"
	SpanRevealRequest = "transcript.reveal.request"
	SpanRevealResolve = "transcript.reveal.resolve"
	SpanRevoke        = "transcript.revoke"
)

// Attribute keys used by the transcript module.
const (
	AttrRecordID = "record_id"
	AttrField    = "field"
	AttrOperator = "operator"
)
