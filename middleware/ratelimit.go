package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
)

// RateLimiter throttles requests per client IP using a Redis-backed GCRA
// limiter, so the limit holds across several server instances.
type RateLimiter struct {
	limiter *redis_rate.Limiter
	limit   redis_rate.Limit
	prefix  string
	logger  *slog.Logger
}

func NewRateLimiter(client redis.UniversalClient, prefix string, limit redis_rate.Limit, logger *slog.Logger) *RateLimiter {
	return &RateLimiter{
		limiter: redis_rate.NewLimiter(client),
		limit:   limit,
		prefix:  prefix,
		logger:  logger,
	}
}

// AuthRateLimit is the limit applied to login, registration and reset routes.
func AuthRateLimit() redis_rate.Limit {
	return redis_rate.PerMinute(10)
}

// Middleware returns next unchanged when rl is nil. Redis errors let the
// request through.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	if rl == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := "ratelimit:" + rl.prefix + ":" + clientIP(r)
		res, err := rl.limiter.Allow(r.Context(), key, rl.limit)
		if err != nil {
			rl.logger.Warn("Rate limiter unavailable", slog.String("key", key), slog.Any("error", err))
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit.Rate))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if res.Allowed == 0 {
			retry := int(res.RetryAfter / time.Second)
			if retry < 1 {
				retry = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			writeError(w, http.StatusTooManyRequests, "too many requests, please try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
