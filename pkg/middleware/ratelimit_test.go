package middleware

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/patmux/patmux/pkg/common"
)

// TestUberRateLimiterAllow tests the window counter.
func TestUberRateLimiterAllow(t *testing.T) {
	limiter := NewUberRateLimiter()

	// The first two requests pass
	for i := 0; i < 2; i++ {
		allowed, _, _ := limiter.Allow("test", 2, time.Minute)
		if !allowed {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
	}

	// The third is over the limit
	allowed, remaining, _ := limiter.Allow("test", 2, time.Minute)
	if allowed {
		t.Error("Expected the third request to be denied")
	}
	if remaining != 0 {
		t.Errorf("Expected 0 remaining, got %d", remaining)
	}
}

// TestUberRateLimiterWindowReset tests that an expired window starts a
// fresh count.
func TestUberRateLimiterWindowReset(t *testing.T) {
	limiter := NewUberRateLimiter()

	if allowed, _, _ := limiter.Allow("reset", 1, 30*time.Millisecond); !allowed {
		t.Fatal("Expected the first request to be allowed")
	}
	if allowed, _, _ := limiter.Allow("reset", 1, 30*time.Millisecond); allowed {
		t.Fatal("Expected the second request to be denied")
	}

	time.Sleep(50 * time.Millisecond)

	if allowed, _, _ := limiter.Allow("reset", 1, 30*time.Millisecond); !allowed {
		t.Error("Expected a request in the new window to be allowed")
	}
}

// TestUberRateLimiterSeparateKeys tests that buckets do not bleed into
// each other.
func TestUberRateLimiterSeparateKeys(t *testing.T) {
	limiter := NewUberRateLimiter()

	limiter.Allow("a", 1, time.Minute)
	if allowed, _, _ := limiter.Allow("a", 1, time.Minute); allowed {
		t.Error("Expected key a to be exhausted")
	}
	if allowed, _, _ := limiter.Allow("b", 1, time.Minute); !allowed {
		t.Error("Expected key b to be untouched")
	}
}

// TestRateLimitCallback tests the allow path with its headers and the
// deny path with its halt.
func TestRateLimitCallback(t *testing.T) {
	config := &RateLimitConfig{
		BucketName: "api",
		Limit:      1,
		Window:     time.Minute,
		Strategy:   "ip",
	}
	cb := RateLimit(config, NewUberRateLimiter(), zap.NewNop())

	ctx, _, _ := newTestContext("GET", "/api/data")
	ctx.Request.RemoteAddr = "192.0.2.1:1234"
	if v := cb(ctx); common.Halted(v) {
		t.Fatal("Expected the first request to pass")
	}
	if got := ctx.Writer.Header().Get("X-RateLimit-Limit"); got != "1" {
		t.Errorf("Expected limit header %q, got %q", "1", got)
	}
	if got := ctx.Writer.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Errorf("Expected remaining header %q, got %q", "0", got)
	}

	ctx, bw, _ := newTestContext("GET", "/api/data")
	ctx.Request.RemoteAddr = "192.0.2.1:1234"
	if v := cb(ctx); !common.Halted(v) {
		t.Fatal("Expected the second request to halt")
	}
	if bw.Status() != http.StatusTooManyRequests {
		t.Errorf("Expected status %d, got %d", http.StatusTooManyRequests, bw.Status())
	}
	if ctx.Writer.Header().Get("Retry-After") == "" {
		t.Error("Expected a Retry-After header")
	}
}

// TestRateLimitCustomExtractor tests keying by an application value.
func TestRateLimitCustomExtractor(t *testing.T) {
	config := &RateLimitConfig{
		BucketName: "token",
		Limit:      1,
		Window:     time.Minute,
		Strategy:   "custom",
		KeyExtractor: func(ctx *common.Context) (string, error) {
			return ctx.Request.Header.Get("Authorization"), nil
		},
	}
	cb := RateLimit(config, NewUberRateLimiter(), zap.NewNop())

	// Two clients with distinct tokens get separate buckets
	for _, token := range []string{"alpha", "beta"} {
		ctx, _, _ := newTestContext("GET", "/api/data")
		ctx.Request.Header.Set("Authorization", token)
		if v := cb(ctx); common.Halted(v) {
			t.Errorf("Expected token %q to pass", token)
		}
	}

	ctx, _, _ := newTestContext("GET", "/api/data")
	ctx.Request.Header.Set("Authorization", "alpha")
	if v := cb(ctx); !common.Halted(v) {
		t.Error("Expected the repeated token to halt")
	}
}

// TestRateLimitExtractorError tests that a failing extractor halts with
// a 500.
func TestRateLimitExtractorError(t *testing.T) {
	config := &RateLimitConfig{
		BucketName: "broken",
		Limit:      10,
		Window:     time.Minute,
		Strategy:   "custom",
		KeyExtractor: func(ctx *common.Context) (string, error) {
			return "", errors.New("no key material")
		},
	}
	cb := RateLimit(config, NewUberRateLimiter(), zap.NewNop())

	ctx, bw, _ := newTestContext("GET", "/api/data")
	if v := cb(ctx); !common.Halted(v) {
		t.Fatal("Expected the request to halt")
	}
	if bw.Status() != http.StatusInternalServerError {
		t.Errorf("Expected status %d, got %d", http.StatusInternalServerError, bw.Status())
	}
}

// TestRateLimitExceededHandler tests the custom exceeded response.
func TestRateLimitExceededHandler(t *testing.T) {
	config := &RateLimitConfig{
		BucketName: "custom-deny",
		Limit:      1,
		Window:     time.Minute,
		ExceededHandler: func(ctx *common.Context) any {
			ctx.Writer.WriteHeader(http.StatusServiceUnavailable)
			return nil
		},
	}
	cb := RateLimit(config, NewUberRateLimiter(), zap.NewNop())

	ctx, _, _ := newTestContext("GET", "/api/data")
	ctx.Request.RemoteAddr = "192.0.2.1:1234"
	cb(ctx)

	ctx, bw, _ := newTestContext("GET", "/api/data")
	ctx.Request.RemoteAddr = "192.0.2.1:1234"
	if v := cb(ctx); !common.Halted(v) {
		t.Fatal("Expected the second request to halt")
	}
	if bw.Status() != http.StatusServiceUnavailable {
		t.Errorf("Expected status %d, got %d", http.StatusServiceUnavailable, bw.Status())
	}
}

// TestRateLimitNilConfig tests that a nil config disables the callback.
func TestRateLimitNilConfig(t *testing.T) {
	cb := RateLimit(nil, NewUberRateLimiter(), zap.NewNop())

	ctx, _, _ := newTestContext("GET", "/api/data")
	if v := cb(ctx); v != nil {
		t.Errorf("Expected nil, got %v", v)
	}
}
