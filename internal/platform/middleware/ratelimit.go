package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/ehr/hms/internal/platform/auth"
)

// RateLimitConfig holds rate limiting configuration. A non-positive
// RequestsPerSecond disables limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
	// IdleExpiry drops a visitor's limiter after this long without requests.
	IdleExpiry time.Duration
	Skipper    func(echo.Context) bool
}

func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 20,
		BurstSize:         40,
		IdleExpiry:        3 * time.Minute,
	}
}

// rateLimitKey buckets logged-in users by username and everyone else
// (including login attempts) by client IP.
func rateLimitKey(c echo.Context) string {
	if user := auth.UsernameFromContext(c.Request().Context()); user != "" {
		return "user:" + user
	}
	return "ip:" + c.RealIP()
}

// retryAfterSeconds is the wait for one token to refill, at least a second.
func retryAfterSeconds(rps float64) int {
	return max(1, int(math.Ceil(1/rps)))
}

// RateLimit limits each user (or anonymous client IP) to a token bucket.
// Mount it after the session middleware so requests are keyed per user.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	if cfg.RequestsPerSecond <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	skipper := echomw.DefaultSkipper
	if cfg.Skipper != nil {
		skipper = cfg.Skipper
	}
	limit := strconv.FormatFloat(cfg.RequestsPerSecond, 'f', -1, 64)
	retryAfter := strconv.Itoa(retryAfterSeconds(cfg.RequestsPerSecond))

	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Skipper: skipper,
		Store: echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(cfg.RequestsPerSecond),
			Burst:     max(cfg.BurstSize, 1),
			ExpiresIn: cfg.IdleExpiry,
		}),
		BeforeFunc: func(c echo.Context) {
			c.Response().Header().Set("X-RateLimit-Limit", limit)
		},
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return rateLimitKey(c), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "cannot identify client").SetInternal(err)
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			c.Response().Header().Set("Retry-After", retryAfter)
			return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
		},
	})
}
