package rtcache

import (
	"errors"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// recordError marks span as failed. Not-found is an expected outcome of a
// read-through lookup and leaves the span status unset.
func recordError(span trace.Span, err error) {
	if err == nil || errors.Is(err, ErrNotFound) {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
