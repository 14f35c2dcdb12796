package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/patmux/patmux/pkg/common"
)

// AuthProvider defines an interface for authentication providers.
// Different authentication mechanisms can implement this interface to be
// used with the Guard callback. The package includes several
// implementations: BasicAuthProvider, BearerTokenProvider and
// APIKeyProvider.
type AuthProvider interface {
	// Authenticate examines the request for credentials and validates
	// them according to the provider's implementation.
	Authenticate(r *http.Request) bool
}

// BasicAuthProvider provides HTTP Basic Authentication.
// It validates username and password credentials against a predefined map.
type BasicAuthProvider struct {
	Credentials map[string]string // username -> password
}

// Authenticate validates the Authorization header against the stored
// credentials.
func (p *BasicAuthProvider) Authenticate(r *http.Request) bool {
	username, password, ok := r.BasicAuth()
	if !ok {
		return false
	}

	expected, exists := p.Credentials[username]
	if !exists {
		return false
	}
	return password == expected
}

// BearerTokenProvider provides Bearer Token Authentication.
// It can validate tokens against a predefined map or using a custom validator function.
type BearerTokenProvider struct {
	ValidTokens map[string]bool         // token -> valid
	Validator   func(token string) bool // optional token validator
}

// Authenticate extracts the bearer token from the Authorization header
// and validates it with the Validator function when one is set, else
// against the ValidTokens map.
func (p *BearerTokenProvider) Authenticate(r *http.Request) bool {
	authHeader := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found || token == "" {
		return false
	}

	if p.Validator != nil {
		return p.Validator(token)
	}
	return p.ValidTokens[token]
}

// APIKeyProvider provides API Key Authentication.
// It can validate API keys provided in a header or query parameter.
type APIKeyProvider struct {
	ValidKeys map[string]bool // key -> valid
	Header    string          // header name (e.g., "X-API-Key")
	Query     string          // query parameter name (e.g., "api_key")
}

// Authenticate checks for the API key in the configured header or query
// parameter and validates it against the stored valid keys.
func (p *APIKeyProvider) Authenticate(r *http.Request) bool {
	if p.Header != "" {
		if key := r.Header.Get(p.Header); key != "" && p.ValidKeys[key] {
			return true
		}
	}
	if p.Query != "" {
		if key := r.URL.Query().Get(p.Query); key != "" && p.ValidKeys[key] {
			return true
		}
	}
	return false
}

// Guard returns a before callback that halts unauthenticated requests
// with a 401 Unauthorized response.
func Guard(provider AuthProvider, logger *zap.Logger) common.Handler {
	return func(ctx *common.Context) any {
		if !provider.Authenticate(ctx.Request) {
			logger.Warn("Authentication failed",
				zap.String("method", ctx.Request.Method),
				zap.String("path", ctx.Path),
				zap.String("remote_addr", ctx.Request.RemoteAddr),
			)
			http.Error(ctx.Writer, "Unauthorized", http.StatusUnauthorized)
			return false
		}
		return nil
	}
}

// Authentication returns a before callback gated by a plain predicate,
// for callers that do not need a full provider.
func Authentication(authFunc func(*http.Request) bool, logger *zap.Logger) common.Handler {
	return Guard(authFuncProvider(authFunc), logger)
}

type authFuncProvider func(*http.Request) bool

func (f authFuncProvider) Authenticate(r *http.Request) bool { return f(r) }

// PermissionGuard returns a before callback that evaluates the
// permission payload attached to the request path. Requests whose
// payload fails the check are halted with a 403 Forbidden response;
// paths without a payload pass through untouched.
func PermissionGuard(check func(ctx *common.Context, payload any) bool, logger *zap.Logger) common.Handler {
	return func(ctx *common.Context) any {
		payload := ctx.Permission()
		if payload == nil {
			return nil
		}
		if !check(ctx, payload) {
			logger.Warn("Permission denied",
				zap.String("method", ctx.Request.Method),
				zap.String("path", ctx.Path),
				zap.Any("permission", payload),
			)
			http.Error(ctx.Writer, "Forbidden", http.StatusForbidden)
			return false
		}
		return nil
	}
}
