package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func hit(h http.Handler, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiterBlocksAfterLimit(t *testing.T) {
	_, client := newRedis(t)
	rl := NewRateLimiter(client, "auth", redis_rate.PerMinute(2), slog.New(slog.NewTextHandler(io.Discard, nil)))
	h := rl.Middleware(okHandler())

	first := hit(h, "10.0.0.1:5000")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:5001").Code)

	blocked := hit(h, "10.0.0.1:5002")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.NotEmpty(t, blocked.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.2:5000").Code, "other clients keep their own budget")
}

func TestRateLimiterFailsOpen(t *testing.T) {
	mr, client := newRedis(t)
	var logs bytes.Buffer
	rl := NewRateLimiter(client, "auth", redis_rate.PerMinute(1), slog.New(slog.NewTextHandler(&logs, nil)))
	h := rl.Middleware(okHandler())

	mr.Close()
	require.Equal(t, http.StatusOK, hit(h, "10.0.0.1:5000").Code)
	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:5000").Code)
	assert.Contains(t, logs.String(), "Rate limiter unavailable")
}

func TestNilRateLimiterPassesThrough(t *testing.T) {
	var rl *RateLimiter
	assert.Equal(t, http.StatusOK, hit(rl.Middleware(okHandler()), "10.0.0.1:1").Code)
}
