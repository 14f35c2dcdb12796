package middleware

import (
	"testing"

	"github.com/google/uuid"
)

// TestTrace tests that the trace callback stores an ID and mirrors it on
// the response.
func TestTrace(t *testing.T) {
	cb := Trace()
	ctx, _, _ := newTestContext("GET", "/test")

	if v := cb(ctx); v != nil {
		t.Errorf("Expected nil, got %v", v)
	}

	traceID := TraceID(ctx)
	if traceID == "" {
		t.Fatal("Expected a trace ID to be set")
	}
	if _, err := uuid.Parse(traceID); err != nil {
		t.Errorf("Expected a valid UUID, got %q: %v", traceID, err)
	}
	if got := ctx.Writer.Header().Get("X-Trace-Id"); got != traceID {
		t.Errorf("Expected header %q, got %q", traceID, got)
	}
}

// TestTraceIDMissing tests the empty default.
func TestTraceIDMissing(t *testing.T) {
	ctx, _, _ := newTestContext("GET", "/test")
	if got := TraceID(ctx); got != "" {
		t.Errorf("Expected an empty trace ID, got %q", got)
	}
}

// TestTraceUnique tests that consecutive requests get distinct IDs.
func TestTraceUnique(t *testing.T) {
	cb := Trace()

	first, _, _ := newTestContext("GET", "/a")
	second, _, _ := newTestContext("GET", "/b")
	cb(first)
	cb(second)

	if TraceID(first) == TraceID(second) {
		t.Error("Expected distinct trace IDs")
	}
}
