package router

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"github.com/patmux/patmux/pkg/common"
	"github.com/patmux/patmux/pkg/pattern"
)

// ServeHTTP dispatches one request: the path is normalized, the route
// table scanned in registration order, and the matched handlers run
// between the before and after chains. All output is buffered and
// flushed when the dispatch cycle completes, so middleware and recovery
// can still change the response after a handler has written.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	// Join the wait group before checking the drain flag; checking first
	// would let a request slip in unseen after Shutdown finished waiting.
	r.wg.Add(1)
	if r.isShutdown() {
		r.wg.Done()
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}
	defer r.wg.Done()

	start := time.Now()
	bw := common.NewBufferedWriter(w)
	path := pattern.Normalize(httprouter.CleanPath(req.URL.Path))
	method := strings.ToUpper(req.Method)
	matched := false

	ctx := common.NewContext(bw, req, r.logger)
	ctx.Path = path
	ctx.SetURLFor(r.URLFor)

	defer func() {
		if rec := recover(); rec != nil {
			r.recoverPanic(bw, req, rec)
		}
		if err := bw.Flush(); err != nil {
			r.logger.Error("Failed to flush response",
				zap.Error(err),
				zap.String("method", method),
				zap.String("path", req.URL.Path))
		}
		status := bw.Status()
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)
		r.logRequest(method, req.URL.Path, status, duration)
		r.metrics.ObserveDispatch(method, status, duration, matched)
	}()

	invocations := r.collectMatches(req, path, method)
	matched = len(invocations) > 0

	if !matched {
		// Unmatched OPTIONS requests stay silently unhandled.
		if method != http.MethodOptions {
			r.notFound(ctx)
		}
		return
	}

	ctx.SetPermission(r.permissions[path])
	proceed := r.before.Emit(ctx)
	if proceed {
		for _, inv := range invocations {
			ctx.BindArgs(inv.args, inv.order, inv.positional, inv.catchAll)
			if v := inv.route.handler(ctx); v != nil {
				r.encode(ctx, v)
			}
		}
	}
	r.after.Emit(ctx)
}

// collectMatches scans the table in registration order. A route is
// attempted as long as no terminal match has occurred; a match without
// the Continue option is terminal. Each match records the handler with
// its bound arguments.
func (r *Router) collectMatches(req *http.Request, path, method string) []invocation {
	ajax := r.isAJAX(req)
	var out []invocation
	for _, rt := range r.routes {
		if rt.opts.AjaxOnly && !ajax {
			continue
		}
		if !rt.allowsMethod(method) {
			continue
		}
		if rt.groupMatcher != nil {
			if _, ok := rt.groupMatcher.MatchPrefix(path); !ok {
				continue
			}
		}
		caps, ok := rt.matcher.Match(path)
		if !ok {
			continue
		}
		out = append(out, bind(rt, caps))
		if !rt.opts.Continue {
			break
		}
	}
	return out
}

// encode writes a handler return value onto the buffered response.
// Strings and byte slices pass through raw, booleans are flow-control
// values and produce no body, everything else goes through the codec.
func (r *Router) encode(ctx *common.Context, v any) {
	switch body := v.(type) {
	case bool:
		// Flow control, not a body.
	case string:
		if ctx.Writer.Header().Get("Content-Type") == "" {
			ctx.Writer.Header().Set("Content-Type", "text/plain; charset=utf-8")
		}
		if _, err := io.WriteString(ctx.Writer, body); err != nil {
			r.logger.Error("Failed to write response", zap.Error(err), zap.String("path", ctx.Path))
		}
	case []byte:
		if _, err := ctx.Writer.Write(body); err != nil {
			r.logger.Error("Failed to write response", zap.Error(err), zap.String("path", ctx.Path))
		}
	default:
		if err := r.codec.Encode(ctx.Writer, v); err != nil {
			r.logger.Error("Failed to encode response", zap.Error(err), zap.String("path", ctx.Path))
		}
	}
}

// notFound answers an unmatched non-OPTIONS request.
func (r *Router) notFound(ctx *common.Context) {
	if h := r.config.NotFound; h != nil {
		if v := h(ctx); v != nil {
			r.encode(ctx, v)
		}
		return
	}
	ctx.Writer.WriteHeader(http.StatusNotFound)
	r.encode(ctx, map[string]string{"error": "Not Found", "path": ctx.Path})
}

// recoverPanic replaces any half-written output with a 500 response and
// logs the recovered value. Callable resolution failures raised at
// invocation time surface here as well.
func (r *Router) recoverPanic(bw *common.BufferedWriter, req *http.Request, rec any) {
	r.logger.Error("Panic recovered in handler",
		zap.Any("error", rec),
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Stack("stack"),
	)
	bw.Reset()
	bw.WriteHeader(http.StatusInternalServerError)
	if err := r.codec.Encode(bw, map[string]string{"error": "Internal Server Error"}); err != nil {
		r.logger.Error("Failed to encode error response", zap.Error(err))
	}
}

// logRequest emits one leveled line per dispatch cycle.
func (r *Router) logRequest(method, path string, status int, duration time.Duration) {
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Duration("duration", duration),
	}

	// Use Debug level for routine requests to avoid log spam
	r.logger.Debug("Request handled", fields...)

	if duration > time.Second {
		r.logger.Warn("Slow request", fields...)
	}
	if status >= 500 {
		r.logger.Error("Server error", fields...)
	} else if status >= 400 {
		r.logger.Warn("Client error", fields...)
	}
}
