package router

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/patmux/patmux/pkg/codec"
	"github.com/patmux/patmux/pkg/common"
	"github.com/patmux/patmux/pkg/metrics"
)

// Config holds the router's construction-time settings. The zero value
// is usable: it yields a production logger, the JSON codec and no
// instrumentation.
type Config struct {
	// Logger is used for dispatch logging. When nil a production logger
	// is created, falling back to a no-op logger on failure.
	Logger *zap.Logger

	// BaseURL prefixes URLFor results, e.g. "https://example.com".
	BaseURL string

	// Patterns is merged into the fragment registry at construction,
	// overriding default fragments with the same name.
	Patterns map[string]string

	// Codec encodes structured handler return values and the default
	// not-found body. Defaults to the JSON codec.
	Codec codec.Codec

	// EnableMetrics turns on Prometheus instrumentation of dispatch.
	EnableMetrics bool

	// Metrics supplies the collector bundle when EnableMetrics is set.
	// When nil a bundle under the "patmux" namespace is created.
	Metrics *metrics.Metrics

	// AJAXCheck overrides how requests are classified for the AjaxOnly
	// route option. The default checks the X-Requested-With marker.
	AJAXCheck func(*http.Request) bool

	// NotFound, when set, handles unmatched non-OPTIONS requests in
	// place of the default 404 JSON body.
	NotFound common.Handler
}
