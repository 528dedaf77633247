// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func healthy(context.Context) error { return nil }

func TestReadiness(t *testing.T) {
	tests := []struct {
		name   string
		deps   []Dependency
		status int
		body   string
	}{
		{
			name:   "all healthy",
			deps:   []Dependency{{Name: "store", Checker: pingFunc(healthy)}},
			status: http.StatusOK,
			body:   "ok",
		},
		{
			name: "failing dependency",
			deps: []Dependency{
				{Name: "store", Checker: pingFunc(healthy)},
				{Name: "redis", Checker: pingFunc(func(context.Context) error {
					return errors.New("down")
				})},
			},
			status: http.StatusServiceUnavailable,
			body:   "degraded",
		},
		{
			name:   "nil checker",
			deps:   []Dependency{{Name: "store"}},
			status: http.StatusServiceUnavailable,
			body:   "degraded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(tt.deps...)
			rec := httptest.NewRecorder()

			h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			require.Equal(t, tt.status, rec.Code)

			var resp ReadinessResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.body, resp.Status)
			assert.Len(t, resp.Checks, len(tt.deps))
		})
	}
}

func TestShutdownFlags(t *testing.T) {
	h := NewHandler()

	rec := httptest.NewRecorder()
	h.Liveness(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	h.SetReady(false)
	rec = httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	h.SetShutdown(true)
	rec = httptest.NewRecorder()
	h.Liveness(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
