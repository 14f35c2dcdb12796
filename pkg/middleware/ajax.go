package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/patmux/patmux/pkg/common"
)

// RequireAJAX returns a before callback that halts requests missing the
// XMLHttpRequest marker with a 400 Bad Request response. It covers
// whole path scopes the way the per-route AjaxOnly option covers single
// routes.
func RequireAJAX(logger *zap.Logger) common.Handler {
	return func(ctx *common.Context) any {
		if ctx.IsAJAX() {
			return nil
		}
		logger.Warn("Rejected non-AJAX request",
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Path),
		)
		http.Error(ctx.Writer, "Bad Request", http.StatusBadRequest)
		return false
	}
}
