// Package middleware holds HTTP middleware shared by the API surface.
package middleware

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RunLimiter throttles condensation requests per client. A run holds
// the store for its full duration, so callers are kept from queueing
// runs faster than the engine retires them. Limiters are created lazily
// per key and live for the server's lifetime.
type RunLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

func NewRunLimiter(perSecond float64, burst int) *RunLimiter {
	return &RunLimiter{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (l *RunLimiter) limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, ok := l.limiters[key]; ok {
		return limiter
	}
	limiter := rate.NewLimiter(l.limit, l.burst)
	l.limiters[key] = limiter
	return limiter
}

// Allow reports whether the key may start another request now.
func (l *RunLimiter) Allow(key string) bool {
	return l.limiter(key).Allow()
}

// Middleware rejects over-limit requests with 429, keyed by client IP.
func (l *RunLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.Allow(c.RealIP()) {
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error": "too many condensation requests",
				})
			}
			return next(c)
		}
	}
}
