package middleware

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net/http"
	"time"

	"github.com/diagnosis/visitor-portal/internal/http/response"
	"github.com/diagnosis/visitor-portal/internal/utils"
	"github.com/diagnosis/visitor-portal/pkg/logger"
)

// Counter increments a fixed-window counter and returns its new value. The
// session stores implement it.
type Counter interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// RateLimitConfig defines rate limiting parameters
type RateLimitConfig struct {
	Requests int                            // Max requests per window
	Window   time.Duration                  // Time window duration
	KeyFunc  func(r *http.Request) []string // Function to generate rate limit keys
	SkipFunc func(r *http.Request) bool     // Function to skip rate limiting
	// OnLimit answers a limited request. Defaults to a JSON 429.
	OnLimit http.HandlerFunc
}

// RateLimiter provides rate limiting functionality
type RateLimiter struct {
	counter Counter
	config  RateLimitConfig
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(counter Counter, config RateLimitConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = ClientIPKeyFunc
	}
	if config.OnLimit == nil {
		config.OnLimit = func(w http.ResponseWriter, r *http.Request) {
			response.RateLimit(w, "Too many requests. Try again later.")
		}
	}
	return &RateLimiter{counter: counter, config: config}
}

// Middleware returns the rate limiting middleware
func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rl.config.SkipFunc != nil && rl.config.SkipFunc(r) {
				next.ServeHTTP(w, r)
				return
			}

			for _, key := range rl.config.KeyFunc(r) {
				if !rl.allow(r.Context(), key) {
					logger.WarnContext(r.Context(), "Rate limit exceeded", "path", r.URL.Path)
					rl.config.OnLimit(w, r)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// allow counts one request against key. A failing counter allows the request.
func (rl *RateLimiter) allow(ctx context.Context, key string) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	// Hash the key for privacy
	hashedKey := fmt.Sprintf("ratelimit:%x", sha256.Sum256([]byte(key)))

	count, err := rl.counter.Incr(ctx, hashedKey, rl.config.Window)
	if err != nil {
		logger.WarnContext(ctx, "Rate limiter unavailable", "error", err)
		return true
	}
	return count <= int64(rl.config.Requests)
}

// ClientIPKeyFunc limits per client IP and route.
func ClientIPKeyFunc(r *http.Request) []string {
	ip := utils.ClientIP(r)
	if ip == "" {
		return nil
	}
	return []string{"ip:" + ip + ":" + r.URL.Path}
}

// OnlyMethods skips every request whose method is not listed.
func OnlyMethods(methods ...string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		for _, m := range methods {
			if r.Method == m {
				return false
			}
		}
		return true
	}
}
