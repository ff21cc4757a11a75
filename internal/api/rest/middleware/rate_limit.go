package middleware

import (
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/ronittamrakar/Xordon-sub011/pkg/logger"
)

// RateLimiter manages per-caller rate limiting
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	logger   *logger.Logger
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(rps float64, burst int, log *logger.Logger) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
		logger:   log,
	}
}

func (rl *RateLimiter) getLimiter(identifier string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.limiters[identifier]
	if !exists {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[identifier] = limiter
	}
	return limiter
}

// RateLimit applies per-caller rate limiting, keyed by the authenticated
// user when present, otherwise the client IP
func RateLimit(rl *RateLimiter) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identifier := getIdentifier(r)

			if !rl.getLimiter(identifier).Allow() {
				rl.logger.Warn("rate limit exceeded",
					logger.String("identifier", identifier),
					logger.String("path", r.URL.Path),
				)
				w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", rl.burst))
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("Retry-After", "60")
				respondError(w, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitWithConfig creates a rate limiter middleware with specific limits
func RateLimitWithConfig(rps float64, burst int, log *logger.Logger) func(next http.Handler) http.Handler {
	return RateLimit(NewRateLimiter(rps, burst, log))
}

func getIdentifier(r *http.Request) string {
	if owner, ok := OwnerFromContext(r.Context()); ok {
		return "user:" + owner.UserID.String()
	}

	ip := r.RemoteAddr
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		ip = forwarded
	} else if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		ip = realIP
	}
	return "ip:" + ip
}
