package middleware

import (
	"strings"

	"github.com/patmux/patmux/pkg/common"
)

// IPSourceType defines the source for client IP addresses
type IPSourceType string

const (
	// IPSourceRemoteAddr uses the request's RemoteAddr field
	IPSourceRemoteAddr IPSourceType = "remote_addr"

	// IPSourceXForwardedFor uses the X-Forwarded-For header
	IPSourceXForwardedFor IPSourceType = "x_forwarded_for"

	// IPSourceXRealIP uses the X-Real-IP header
	IPSourceXRealIP IPSourceType = "x_real_ip"

	// IPSourceCustomHeader uses a custom header specified in the configuration
	IPSourceCustomHeader IPSourceType = "custom_header"
)

// IPConfig defines configuration for IP extraction
type IPConfig struct {
	// Source specifies where to extract the client IP from
	Source IPSourceType

	// CustomHeader is the name of the custom header to use when Source is IPSourceCustomHeader
	CustomHeader string

	// TrustProxy determines whether to trust proxy headers like X-Forwarded-For
	// If false, RemoteAddr will be used as a fallback for all sources
	TrustProxy bool
}

// DefaultIPConfig returns the default IP configuration
func DefaultIPConfig() *IPConfig {
	return &IPConfig{
		Source:     IPSourceXForwardedFor,
		TrustProxy: true,
	}
}

// ipKey is the scratch key holding the extracted client IP.
const ipKey = "middleware.client_ip"

// ClientIP returns the client IP stored by ClientIPExtractor, falling
// back to header inspection when the extractor did not run.
func ClientIP(ctx *common.Context) string {
	if ip, ok := ctx.Value(ipKey).(string); ok {
		return ip
	}
	return extractClientIP(ctx, DefaultIPConfig())
}

// ClientIPExtractor returns a before callback that extracts the client
// IP from the request and stores it on the context for later callbacks
// and handlers.
func ClientIPExtractor(config *IPConfig) common.Handler {
	if config == nil {
		config = DefaultIPConfig()
	}

	return func(ctx *common.Context) any {
		ctx.Set(ipKey, extractClientIP(ctx, config))
		return nil
	}
}

// extractClientIP extracts the client IP from the request based on the configuration
func extractClientIP(ctx *common.Context, config *IPConfig) string {
	var ip string

	switch config.Source {
	case IPSourceXForwardedFor:
		ip = forwardedFor(ctx)
	case IPSourceXRealIP:
		ip = ctx.Request.Header.Get("X-Real-IP")
	case IPSourceCustomHeader:
		ip = ctx.Request.Header.Get(config.CustomHeader)
	case IPSourceRemoteAddr:
		ip = ctx.Request.RemoteAddr
	default:
		ip = forwardedFor(ctx)
	}

	// If we don't trust proxy headers or couldn't extract an IP, fall back to RemoteAddr
	if !config.TrustProxy || ip == "" {
		ip = ctx.Request.RemoteAddr
	}

	return stripPort(ip)
}

// forwardedFor returns the leftmost entry of the X-Forwarded-For header,
// which is the original client.
func forwardedFor(ctx *common.Context) string {
	xff := ctx.Request.Header.Get("X-Forwarded-For")
	if xff == "" {
		return ""
	}
	first, _, _ := strings.Cut(xff, ",")
	return strings.TrimSpace(first)
}

// stripPort removes the port from an address if present
func stripPort(ip string) string {
	// IPv6 addresses with ports are formatted as [IPv6]:port
	if strings.HasPrefix(ip, "[") {
		if end := strings.LastIndex(ip, "]"); end > 0 {
			return ip[1:end]
		}
		return ip
	}

	// More than one colon means a bare IPv6 address without a port
	if strings.Count(ip, ":") > 1 {
		return ip
	}

	if end := strings.LastIndex(ip, ":"); end > 0 {
		return ip[:end]
	}
	return ip
}
