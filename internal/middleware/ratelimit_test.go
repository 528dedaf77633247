// AngelaMos | 2026
// ratelimit_test.go

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterLocalFallback(t *testing.T) {
	rl := NewRateLimiter(nil, RateLimitConfig{Limit: PerMinute(60, 2)})
	defer rl.Close()

	handler := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for range 3 {
		last = send("10.0.0.1:1234")
		codes = append(codes, last.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, "1", last.Header().Get("Retry-After"))

	var body struct {
		Success bool   `json:"success"`
		Code    string `json:"code"`
	}
	require.NoError(t, json.NewDecoder(last.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, "RATE_LIMITED", body.Code)

	other := send("10.0.0.2:1234")
	assert.Equal(t, http.StatusOK, other.Code)
	assert.Equal(t, "60", other.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "60;w=60", other.Header().Get("RateLimit-Policy"))
}

func TestKeyByIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.RemoteAddr = "192.168.1.5:4000"
	assert.Equal(t, "souk:rl:ip:192.168.1.5", KeyByIP(req))

	req.Header.Set("X-Real-IP", "3.3.3.3")
	assert.Equal(t, "souk:rl:ip:3.3.3.3", KeyByIP(req))

	req.Header.Set("X-Forwarded-For", "1.1.1.1, 2.2.2.2")
	assert.Equal(t, "souk:rl:ip:2.2.2.2", KeyByIP(req))
}

func TestKeyByUserAndRouteUsesPattern(t *testing.T) {
	var keys []string

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := WithClaims(req.Context(), &AccessTokenClaims{UserID: "u9", Role: "customer"})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.With(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			keys = append(keys, KeyByUserAndRoute(req))
			next.ServeHTTP(w, req)
		})
	}).Get("/api/orders/{orderID}", func(w http.ResponseWriter, _ *http.Request) {})

	for _, id := range []string{"a1", "b2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/orders/"+id, nil))
	}

	assert.Equal(t, []string{
		"souk:rl:user:u9:GET /api/orders/{orderID}",
		"souk:rl:user:u9:GET /api/orders/{orderID}",
	}, keys)

	anon := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	anon.RemoteAddr = "10.1.1.1:80"
	assert.Equal(t, "souk:rl:ip:10.1.1.1:POST /api/orders", KeyByUserAndRoute(anon))
}

func TestNewLimitDefaultsWindow(t *testing.T) {
	l := NewLimit(5, 1, 0)
	assert.Equal(t, time.Minute, l.Period)
	assert.Equal(t, 5, l.Rate)
}
