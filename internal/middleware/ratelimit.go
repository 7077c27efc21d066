// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/maintenance-tracker/internal/core"
)

var errRateLimited = errors.New("rate limited")

type RateLimitConfig struct {
	Limit redis_rate.Limit
	// LimitFunc picks a per-request limit and overrides Limit when set.
	LimitFunc func(*http.Request) redis_rate.Limit
	KeyFunc   func(*http.Request) string
	Keys      core.Keyspace
	// FailOpen lets requests through when neither Redis nor the local
	// fallback can answer.
	FailOpen bool
}

// RateLimiter counts requests in Redis. While Redis is unreachable each
// process counts on its own, so the effective limit is per instance.
type RateLimiter struct {
	shared   *redis_rate.Limiter
	local    *localLimiter
	limit    func(*http.Request) redis_rate.Limit
	key      func(*http.Request) string
	keys     core.Keyspace
	failOpen bool
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		shared:   redis_rate.NewLimiter(rdb),
		local:    newLocalLimiter(),
		limit:    cfg.LimitFunc,
		key:      cfg.KeyFunc,
		keys:     cfg.Keys,
		failOpen: cfg.FailOpen,
	}

	if rl.limit == nil {
		fixed := cfg.Limit
		rl.limit = func(*http.Request) redis_rate.Limit { return fixed }
	}
	if rl.key == nil {
		rl.key = KeyByIP
	}

	return rl
}

// RoleLimits gives admin-capable sessions the elevated limit and everyone
// else the base one.
func RoleLimits(base, elevated redis_rate.Limit) func(*http.Request) redis_rate.Limit {
	return func(r *http.Request) redis_rate.Limit {
		if Can(GetUserRole(r.Context()), ViewAdmin) {
			return elevated
		}
		return base
	}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := rl.keys.Key(rl.key(r))
		limit := rl.limit(r)

		res, err := rl.allow(r.Context(), key, limit)
		if err != nil {
			if rl.failOpen {
				slog.WarnContext(r.Context(), "rate limiter failing open", "error", err, "key", key)
				next.ServeHTTP(w, r)
				return
			}
			core.JSONError(w, core.NewAppError(err,
				"Rate limiting is temporarily unavailable",
				http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"))
			return
		}

		writeLimitHeaders(w.Header(), res, limit)

		if res.Allowed == 0 {
			retry := retryAfterSeconds(res.RetryAfter)
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			core.JSONError(w, core.NewAppError(errRateLimited,
				fmt.Sprintf("Rate limit exceeded. Retry after %d seconds.", retry),
				http.StatusTooManyRequests, "RATE_LIMITED"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(
	ctx context.Context,
	key string,
	limit redis_rate.Limit,
) (*redis_rate.Result, error) {
	res, err := rl.shared.Allow(ctx, key, limit)
	if err == nil {
		return res, nil
	}

	slog.DebugContext(ctx, "redis rate limiter unavailable, counting locally", "error", err)
	return rl.local.allow(key, limit, time.Now())
}

func KeyByIP(r *http.Request) string {
	return "ratelimit:ip:" + core.ClientIP(r)
}

func KeyByUser(r *http.Request) string {
	if userID := GetUserID(r.Context()); userID != "" {
		return "ratelimit:user:" + userID
	}
	return KeyByIP(r)
}

// KeyByEndpoint scopes the caller's IP to one route shape, so sign-in
// attempts are counted apart from other traffic and ids in the path do
// not split the bucket.
func KeyByEndpoint(r *http.Request) string {
	return KeyByIP(r) + ":endpoint:" + routeShape(r.URL.Path)
}

func routeShape(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segments {
		if isIdentifier(seg) {
			segments[i] = "{id}"
		}
	}
	return "/" + strings.Join(segments, "/")
}

func isIdentifier(seg string) bool {
	if _, err := uuid.Parse(seg); err == nil && len(seg) == 36 {
		return true
	}
	_, err := strconv.ParseUint(seg, 10, 64)
	return err == nil
}

func writeLimitHeaders(h http.Header, res *redis_rate.Result, limit redis_rate.Limit) {
	reset := int(res.ResetAfter / time.Second)

	h.Set("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(res.ResetAfter).Unix(), 10))
	h.Set("RateLimit-Policy", fmt.Sprintf("%d;w=%d", limit.Rate, int(limit.Period/time.Second)))
	h.Set("RateLimit", fmt.Sprintf("%d;t=%d", res.Remaining, reset))
}

func retryAfterSeconds(d time.Duration) int {
	return max(int(d/time.Second), 1)
}

// PerWindow allows rate requests per window. A zero window means a minute.
func PerWindow(rate, burst int, window time.Duration) redis_rate.Limit {
	if window <= 0 {
		window = time.Minute
	}
	return redis_rate.Limit{Rate: rate, Burst: burst, Period: window}
}

func PerMinute(rate, burst int) redis_rate.Limit {
	return PerWindow(rate, burst, time.Minute)
}
