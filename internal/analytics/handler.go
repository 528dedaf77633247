// AngelaMos | 2026
// handler.go

package analytics

import (
	"context"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/souk-api/internal/core"
)

type Handler struct {
	service     *Service
	storeDriver string
	storePing   func(ctx context.Context) error
	dbStats     func() *core.DBPoolStats
	redisStats  func() *core.RedisPoolStats
	redisPing   func(ctx context.Context) error
}

// HandlerConfig wires the dashboard service plus optional probes. Nil
// funcs are reported as absent, not failed.
type HandlerConfig struct {
	Service     *Service
	StoreDriver string
	StorePing   func(ctx context.Context) error
	DBStats     func() *core.DBPoolStats
	RedisStats  func() *core.RedisPoolStats
	RedisPing   func(ctx context.Context) error
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		service:     cfg.Service,
		storeDriver: cfg.StoreDriver,
		storePing:   cfg.StorePing,
		dbStats:     cfg.DBStats,
		redisStats:  cfg.RedisStats,
		redisPing:   cfg.RedisPing,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/analytics/dashboard", h.GetDashboard)
		r.Get("/admin/stats", h.GetSystemStats)
		r.Get("/admin/stats/runtime", h.GetRuntimeStats)
	})
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.service.Dashboard(r.Context())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, dashboard)
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	store := StoreStatus{
		Driver:  h.storeDriver,
		Healthy: true,
		Pool:    callStats(h.dbStats),
	}
	if h.storePing != nil {
		if err := h.storePing(ctx); err != nil {
			store.Healthy = false
		}
	}

	var redisStatus *RedisStatus
	if h.redisPing != nil {
		redisStatus = &RedisStatus{
			Healthy: h.redisPing(ctx) == nil,
			Stats:   callStats(h.redisStats),
		}
	}

	core.OK(w, SystemStatsResponse{
		Store:   store,
		Redis:   redisStatus,
		Runtime: readRuntimeStats(),
	})
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, readRuntimeStats())
}

func readRuntimeStats() RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     memStats.Alloc,
		MemSys:       memStats.Sys,
		NumGC:        memStats.NumGC,
	}
}

func callStats[T any](fn func() *T) *T {
	if fn == nil {
		return nil
	}
	return fn()
}

type SystemStatsResponse struct {
	Store   StoreStatus  `json:"store"`
	Redis   *RedisStatus `json:"redis,omitempty"`
	Runtime RuntimeStats `json:"runtime"`
}

type StoreStatus struct {
	Driver  string            `json:"driver"`
	Healthy bool              `json:"healthy"`
	Pool    *core.DBPoolStats `json:"pool,omitempty"`
}

type RedisStatus struct {
	Healthy bool                 `json:"healthy"`
	Stats   *core.RedisPoolStats `json:"stats,omitempty"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	NumCPU       int    `json:"num_cpu"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
	MemSys       uint64 `json:"mem_sys_bytes"`
	NumGC        uint32 `json:"num_gc"`
}
