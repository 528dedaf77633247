// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/carterperez-dev/souk-api/internal/core"
)

const keyPrefix = "souk:rl"

type RateLimitConfig struct {
	Limit    redis_rate.Limit
	KeyFunc  func(*http.Request) string
	FailOpen bool
}

// RateLimiter enforces a GCRA limit in redis, shared by every instance.
// Without redis, or while redis errors, an in-process token bucket per key
// takes over.
type RateLimiter struct {
	limiter  *redis_rate.Limiter
	fallback *localLimiter
	config   RateLimitConfig
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByIP
	}

	rl := &RateLimiter{
		fallback: newLocalLimiter(),
		config:   cfg,
	}
	if rdb != nil {
		rl.limiter = redis_rate.NewLimiter(rdb)
	}

	return rl
}

// Close stops the fallback limiter's eviction loop.
func (rl *RateLimiter) Close() {
	rl.fallback.stop()
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := rl.config.KeyFunc(r)

		res, err := rl.allow(r.Context(), key)
		if err != nil {
			if !rl.config.FailOpen {
				core.InternalServerError(w, err)
				return
			}
			slog.WarnContext(r.Context(), "rate limiter failed open",
				"error", err,
				"key", key,
			)
			next.ServeHTTP(w, r)
			return
		}

		writeLimitHeaders(w.Header(), res)

		if res.Allowed == 0 {
			retryAfter := max(int(res.RetryAfter.Seconds()), 1)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			core.JSONError(w, core.RateLimitedError(retryAfter))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(
	ctx context.Context,
	key string,
) (*redis_rate.Result, error) {
	if rl.limiter == nil {
		return rl.fallback.allow(key, rl.config.Limit)
	}

	res, err := rl.limiter.Allow(ctx, key, rl.config.Limit)
	if err != nil {
		slog.DebugContext(ctx, "redis limiter unavailable, using local bucket",
			"error", err,
		)
		return rl.fallback.allow(key, rl.config.Limit)
	}
	return res, nil
}

// KeyByIP keys on the last X-Forwarded-For hop, which is the one appended
// by our own proxy.
func KeyByIP(r *http.Request) string {
	return keyPrefix + ":ip:" + clientIP(r)
}

// KeyByUserAndRoute keys on the caller and the matched chi route, so
// /orders/{orderID} is one bucket regardless of the id. Anonymous callers
// fall back to their address.
func KeyByUserAndRoute(r *http.Request) string {
	who := "ip:" + clientIP(r)
	if userID := GetUserID(r.Context()); userID != "" {
		who = "user:" + userID
	}

	return fmt.Sprintf("%s:%s:%s %s", keyPrefix, who, r.Method, routeOf(r))
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		return strings.TrimSpace(hops[len(hops)-1])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func routeOf(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

func writeLimitHeaders(h http.Header, res *redis_rate.Result) {
	h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(
		time.Now().Add(res.ResetAfter).Unix(), 10))
	h.Set("RateLimit-Policy", fmt.Sprintf("%d;w=%d",
		res.Limit.Rate, int(res.Limit.Period.Seconds())))
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

type localLimiter struct {
	buckets  sync.Map
	done     chan struct{}
	stopOnce sync.Once
}

const (
	sweepInterval = 5 * time.Minute
	bucketTTL     = 10 * time.Minute
)

func newLocalLimiter() *localLimiter {
	l := &localLimiter{done: make(chan struct{})}
	go l.sweep()
	return l
}

func (l *localLimiter) stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

func (l *localLimiter) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
		}

		cutoff := time.Now().Add(-bucketTTL).Unix()
		l.buckets.Range(func(key, value any) bool {
			if b, ok := value.(*bucket); ok && b.lastSeen.Load() < cutoff {
				l.buckets.Delete(key)
			}
			return true
		})
	}
}

func (l *localLimiter) allow(
	key string,
	limit redis_rate.Limit,
) (*redis_rate.Result, error) {
	perSec := float64(limit.Rate) / limit.Period.Seconds()
	if perSec <= 0 {
		return nil, fmt.Errorf("rate limit %v has no rate", limit)
	}
	interval := time.Duration(float64(time.Second) / perSec)

	v, ok := l.buckets.Load(key)
	if !ok {
		v, _ = l.buckets.LoadOrStore(key, &bucket{
			limiter: rate.NewLimiter(rate.Limit(perSec), limit.Burst),
		})
	}
	b := v.(*bucket)
	b.lastSeen.Store(time.Now().Unix())

	res := &redis_rate.Result{
		Limit:      limit,
		ResetAfter: interval,
		RetryAfter: -1,
	}
	if b.limiter.Allow() {
		res.Allowed = 1
	} else {
		res.RetryAfter = interval
	}
	res.Remaining = max(int(b.limiter.Tokens()), 0)

	return res, nil
}

// NewLimit allows requests per window with the given burst.
func NewLimit(requests, burst int, window time.Duration) redis_rate.Limit {
	if window <= 0 {
		window = time.Minute
	}
	return redis_rate.Limit{
		Rate:   requests,
		Burst:  burst,
		Period: window,
	}
}

func PerMinute(requests, burst int) redis_rate.Limit {
	return NewLimit(requests, burst, time.Minute)
}
