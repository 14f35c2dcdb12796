// Package middleware provides a collection of before and after callbacks
// for the patmux router.
package middleware

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/patmux/patmux/pkg/common"
)

// startKey is the scratch key holding the dispatch start time.
const startKey = "middleware.start"

// Logging returns a before and after callback pair that logs each
// matched request. The before callback stamps the start time; the after
// callback reads the buffered status and emits one leveled line.
func Logging(logger *zap.Logger) (before, after common.Handler) {
	before = func(ctx *common.Context) any {
		ctx.Set(startKey, time.Now())
		return nil
	}

	after = func(ctx *common.Context) any {
		start, ok := ctx.Value(startKey).(time.Time)
		if !ok {
			return nil
		}
		duration := time.Since(start)

		// The status is visible because output is still buffered
		status := http.StatusOK
		if bw, ok := ctx.Writer.(*common.BufferedWriter); ok && bw.Status() != 0 {
			status = bw.Status()
		}

		// Use appropriate log level based on status code and duration
		if status >= 500 {
			logger.Error("Server error",
				zap.String("method", ctx.Request.Method),
				zap.String("path", ctx.Path),
				zap.Int("status", status),
				zap.Duration("duration", duration),
				zap.String("remote_addr", ctx.Request.RemoteAddr),
			)
		} else if status >= 400 {
			logger.Warn("Client error",
				zap.String("method", ctx.Request.Method),
				zap.String("path", ctx.Path),
				zap.Int("status", status),
				zap.Duration("duration", duration),
			)
		} else if duration > 1*time.Second {
			logger.Warn("Slow request",
				zap.String("method", ctx.Request.Method),
				zap.String("path", ctx.Path),
				zap.Int("status", status),
				zap.Duration("duration", duration),
			)
		} else {
			// Normal requests at Debug level to avoid log spam
			logger.Debug("Request",
				zap.String("method", ctx.Request.Method),
				zap.String("path", ctx.Path),
				zap.Int("status", status),
				zap.Duration("duration", duration),
			)
		}
		return nil
	}

	return before, after
}

// MaxBodySize returns a before callback that limits the size of the
// request body.
func MaxBodySize(maxSize int64) common.Handler {
	return func(ctx *common.Context) any {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxSize)
		return nil
	}
}

// CORS returns a before callback that adds CORS headers to the
// response. Preflight requests are answered immediately and halt the
// cycle.
func CORS(origins, methods, headers []string) common.Handler {
	return func(ctx *common.Context) any {
		// Set CORS headers
		if len(origins) > 0 {
			ctx.Writer.Header().Set("Access-Control-Allow-Origin", strings.Join(origins, ", "))
		}
		if len(methods) > 0 {
			ctx.Writer.Header().Set("Access-Control-Allow-Methods", strings.Join(methods, ", "))
		}
		if len(headers) > 0 {
			ctx.Writer.Header().Set("Access-Control-Allow-Headers", strings.Join(headers, ", "))
		}

		// Handle preflight requests
		if ctx.Request.Method == http.MethodOptions {
			ctx.Writer.WriteHeader(http.StatusOK)
			return false
		}
		return nil
	}
}
