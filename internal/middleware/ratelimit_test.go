// AngelaMos | 2026
// ratelimit_test.go

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableRedis forces the limiter onto its in-process fallback.
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()

	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRateLimiterFallsBackLocally(t *testing.T) {
	rl := NewRateLimiter(unreachableRedis(t), RateLimitConfig{
		Limit: PerMinute(2, 2),
		Keys:  "test",
	})
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	serve := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil)
		req.RemoteAddr = "10.1.1.1:5000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, serve().Code)
	assert.Equal(t, http.StatusOK, serve().Code)

	rec := serve()
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
}

func TestRoleLimits(t *testing.T) {
	base, elevated := PerMinute(10, 2), PerMinute(100, 20)
	pick := RoleLimits(base, elevated)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, base, pick(req))

	maintainer := req.WithContext(WithSession(req.Context(), &Session{UserID: "u", Role: "maintainer"}))
	assert.Equal(t, base, pick(maintainer))

	supervisor := req.WithContext(WithSession(req.Context(), &Session{UserID: "u", Role: "supervisor"}))
	assert.Equal(t, elevated, pick(supervisor))
}

func TestKeyFuncs(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/tasks/3f1c2b8e-1111-4a2b-9c3d-0123456789ab/complete", nil)
	req.RemoteAddr = "10.1.1.1:5000"

	assert.Equal(t, "ratelimit:ip:10.1.1.1", KeyByIP(req))
	assert.Equal(t, "ratelimit:ip:10.1.1.1", KeyByUser(req))
	assert.Equal(t, "ratelimit:ip:10.1.1.1:endpoint:/v1/tasks/{id}/complete", KeyByEndpoint(req))

	authed := req.WithContext(WithSession(req.Context(), &Session{UserID: "u-9"}))
	assert.Equal(t, "ratelimit:user:u-9", KeyByUser(authed))
}
