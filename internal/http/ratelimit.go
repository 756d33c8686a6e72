package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"health-chatbot/pkg"
)

// RateLimiter hands out one token bucket per client.  Buckets of clients
// that stay quiet for longer than the idle TTL are evicted.
type RateLimiter struct {
	mu       sync.Mutex
	limiters *gocache.Cache
	limit    rate.Limit
	burst    int
}

// NewRateLimiter allows perSecond requests per client with the given burst.
func NewRateLimiter(perSecond float64, burst int, idleTTL time.Duration) *RateLimiter {
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}
	return &RateLimiter{
		limiters: gocache.New(idleTTL, idleTTL/2),
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}
}

// getLimiter gets or creates the limiter for key and refreshes its TTL.
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if v, ok := rl.limiters.Get(key); ok {
		limiter := v.(*rate.Limiter)
		rl.limiters.SetDefault(key, limiter)
		return limiter
	}
	limiter := rate.NewLimiter(rl.limit, rl.burst)
	rl.limiters.SetDefault(key, limiter)
	return limiter
}

// Allow reports whether a request from key may proceed now.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// Clients returns the number of tracked clients.
func (rl *RateLimiter) Clients() int {
	return rl.limiters.ItemCount()
}

// Middleware rejects requests over the limit with 429.  Clients are keyed
// by user id when present, else by remote address.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rl.Allow(clientKey(c)) {
				return c.JSON(http.StatusTooManyRequests, pkg.ErrorResponse{
					Status: pkg.StatusError,
					Error:  "Too many requests",
				})
			}
			return next(c)
		}
	}
}

func clientKey(c echo.Context) string {
	if id := c.Request().Header.Get(HeaderUserID); id != "" {
		return "user:" + id
	}
	return "ip:" + c.RealIP()
}
