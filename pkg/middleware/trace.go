package middleware

import (
	"github.com/google/uuid"

	"github.com/patmux/patmux/pkg/common"
)

// traceKey is the scratch key holding the request trace ID.
const traceKey = "middleware.trace_id"

// Trace returns a before callback that generates a unique trace ID for
// each request and exposes it both on the context and as the X-Trace-Id
// response header. This allows for request tracing across logs.
func Trace() common.Handler {
	return func(ctx *common.Context) any {
		// Generate a unique trace ID
		traceID := uuid.New().String()

		ctx.Set(traceKey, traceID)
		ctx.Writer.Header().Set("X-Trace-Id", traceID)
		return nil
	}
}

// TraceID extracts the trace ID from the context.
// Returns an empty string if no trace ID is found.
func TraceID(ctx *common.Context) string {
	if traceID, ok := ctx.Value(traceKey).(string); ok {
		return traceID
	}
	return ""
}
