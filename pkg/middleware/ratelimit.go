package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"

	"github.com/patmux/patmux/pkg/common"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Unique identifier for this rate limit bucket
	// Callbacks sharing the same BucketName share the same rate limit
	BucketName string

	// Maximum number of requests allowed in the time window
	Limit int

	// Time window for the rate limit (e.g., 1 minute, 1 hour)
	Window time.Duration

	// Strategy for identifying clients
	// - "ip": Use the client IP address
	// - "custom": Use the KeyExtractor function
	Strategy string

	// Custom key extractor function (used when Strategy is "custom")
	KeyExtractor func(*common.Context) (string, error)

	// ExceededHandler answers requests over the limit. If nil, a default
	// 429 Too Many Requests response is sent.
	ExceededHandler common.Handler
}

// RateLimiter defines the interface for rate limiting algorithms
type RateLimiter interface {
	// Allow checks if a request is allowed based on the key and rate limit config.
	// Also returns the number of remaining requests and the time until reset.
	Allow(key string, limit int, window time.Duration) (bool, int, time.Duration)
}

// UberRateLimiter implements RateLimiter with a window counter for the
// allow decision and Uber's leaky bucket for pacing the allowed
// requests.
type UberRateLimiter struct {
	buckets sync.Map // map[string]*rateBucket
	mu      sync.Mutex
}

type rateBucket struct {
	limiter ratelimit.Limiter

	mu          sync.Mutex
	windowStart time.Time
	count       int
}

// NewUberRateLimiter creates a new rate limiter backed by Uber's
// ratelimit library.
func NewUberRateLimiter() *UberRateLimiter {
	return &UberRateLimiter{}
}

// getBucket gets or creates the bucket for the given key and rate
func (u *UberRateLimiter) getBucket(key string, limit int, window time.Duration) *rateBucket {
	if b, ok := u.buckets.Load(key); ok {
		return b.(*rateBucket)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	// Double-check after acquiring lock
	if b, ok := u.buckets.Load(key); ok {
		return b.(*rateBucket)
	}

	rps := int(float64(limit) / window.Seconds())
	if rps < 1 {
		rps = 1
	}
	b := &rateBucket{limiter: ratelimit.New(rps), windowStart: time.Now()}
	u.buckets.Store(key, b)
	return b
}

// Allow checks if a request is allowed based on the key and rate limit config
func (u *UberRateLimiter) Allow(key string, limit int, window time.Duration) (bool, int, time.Duration) {
	if window <= 0 {
		window = time.Second
	}
	if limit <= 0 {
		limit = 1
	}

	b := u.getBucket(key, limit, window)

	b.mu.Lock()
	now := time.Now()
	if now.Sub(b.windowStart) > window {
		// New window
		b.windowStart = now
		b.count = 0
	}
	b.count++
	count := b.count
	reset := b.windowStart.Add(window).Sub(now)
	b.mu.Unlock()

	if count > limit {
		return false, 0, reset
	}

	// Pace the allowed requests through the leaky bucket
	b.limiter.Take()

	remaining := limit - count
	return true, remaining, reset
}

// RateLimit returns a before callback that enforces the configured rate
// limit and halts the cycle with a 429 response when it is exceeded.
func RateLimit(config *RateLimitConfig, limiter RateLimiter, logger *zap.Logger) common.Handler {
	return func(ctx *common.Context) any {
		if config == nil {
			return nil
		}

		// Extract key based on strategy
		var key string
		switch config.Strategy {
		case "custom":
			if config.KeyExtractor == nil {
				key = ClientIP(ctx)
				break
			}
			var err error
			key, err = config.KeyExtractor(ctx)
			if err != nil {
				logger.Error("Failed to extract rate limit key",
					zap.Error(err),
					zap.String("method", ctx.Request.Method),
					zap.String("path", ctx.Path),
				)
				http.Error(ctx.Writer, "Internal Server Error", http.StatusInternalServerError)
				return false
			}
		default:
			key = ClientIP(ctx)
		}

		// Combine bucket name and key to create a unique identifier
		bucketKey := config.BucketName + ":" + key

		allowed, remaining, reset := limiter.Allow(bucketKey, config.Limit, config.Window)

		// Set rate limit headers
		h := ctx.Writer.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		h.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(reset).Unix(), 10))

		if !allowed {
			h.Set("Retry-After", strconv.FormatInt(int64(reset.Seconds()), 10))

			if config.ExceededHandler != nil {
				config.ExceededHandler(ctx)
			} else {
				http.Error(ctx.Writer, "Too Many Requests", http.StatusTooManyRequests)
			}

			logger.Warn("Rate limit exceeded",
				zap.String("method", ctx.Request.Method),
				zap.String("path", ctx.Path),
				zap.String("key", key),
				zap.Int("limit", config.Limit),
			)
			return false
		}
		return nil
	}
}
