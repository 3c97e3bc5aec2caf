// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/tierboard/internal/board"
	"github.com/carterperez-dev/tierboard/internal/core"
)

// DomainCounter reports board, character and ranking totals.
type DomainCounter interface {
	Stats(ctx context.Context) (*board.Stats, error)
}

// UserCounter reports the number of registered users.
type UserCounter interface {
	Count(ctx context.Context) (int, error)
}

// HandlerConfig wires the admin endpoints. Redis fields may be nil when
// sessions are kept in memory.
type HandlerConfig struct {
	DBStats    func() sql.DBStats
	DBPing     func(ctx context.Context) error
	RedisStats func() *redis.PoolStats
	RedisPing  func(ctx context.Context) error
	Boards     DomainCounter
	Users      UserCounter
}

type Handler struct {
	cfg HandlerConfig
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{cfg: cfg}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/stats", h.GetSystemStats)
		r.Get("/stats/db", h.GetDatabaseStats)
		r.Get("/stats/redis", h.GetRedisStats)
		r.Get("/stats/runtime", h.GetRuntimeStats)
		r.Get("/stats/domain", h.GetDomainStats)
	})
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp := SystemStatsResponse{
		Database: DatabaseStatus{
			Healthy: pingOK(ctx, h.cfg.DBPing),
			Stats:   h.dbStats(),
		},
		Runtime: runtimeStats(),
	}

	if h.cfg.RedisPing != nil {
		resp.Redis = &RedisStatus{
			Healthy: pingOK(ctx, h.cfg.RedisPing),
			Stats:   h.redisStats(),
		}
	}

	core.OK(w, resp)
}

func (h *Handler) GetDatabaseStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, h.dbStats())
}

func (h *Handler) GetRedisStats(w http.ResponseWriter, _ *http.Request) {
	stats := h.redisStats()
	if stats == nil {
		core.NotFound(w, "redis")
		return
	}
	core.OK(w, stats)
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, runtimeStats())
}

func (h *Handler) GetDomainStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var resp DomainStatsResponse

	if h.cfg.Users != nil {
		n, err := h.cfg.Users.Count(ctx)
		if err != nil {
			core.InternalServerError(w, err)
			return
		}
		resp.Users = n
	}

	if h.cfg.Boards != nil {
		s, err := h.cfg.Boards.Stats(ctx)
		if err != nil {
			core.InternalServerError(w, err)
			return
		}
		resp.Boards = s.Boards
		resp.Characters = s.Characters
		resp.Rankings = s.Rankings
	}

	core.OK(w, resp)
}

func pingOK(ctx context.Context, ping func(context.Context) error) bool {
	if ping == nil {
		return false
	}
	return ping(ctx) == nil
}

func (h *Handler) dbStats() *DBPoolStats {
	if h.cfg.DBStats == nil {
		return nil
	}

	s := h.cfg.DBStats()
	return &DBPoolStats{
		MaxOpenConnections: s.MaxOpenConnections,
		OpenConnections:    s.OpenConnections,
		InUse:              s.InUse,
		Idle:               s.Idle,
		WaitCount:          s.WaitCount,
		WaitDuration:       s.WaitDuration.String(),
		MaxIdleClosed:      s.MaxIdleClosed,
		MaxLifetimeClosed:  s.MaxLifetimeClosed,
	}
}

func (h *Handler) redisStats() *RedisPoolStats {
	if h.cfg.RedisStats == nil {
		return nil
	}

	s := h.cfg.RedisStats()
	return &RedisPoolStats{
		Hits:       s.Hits,
		Misses:     s.Misses,
		Timeouts:   s.Timeouts,
		TotalConns: s.TotalConns,
		IdleConns:  s.IdleConns,
		StaleConns: s.StaleConns,
	}
}

func runtimeStats() RuntimeStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     m.Alloc,
		MemSys:       m.Sys,
		NumGC:        m.NumGC,
	}
}

type SystemStatsResponse struct {
	Database DatabaseStatus `json:"database"`
	Redis    *RedisStatus   `json:"redis,omitempty"`
	Runtime  RuntimeStats   `json:"runtime"`
}

type DatabaseStatus struct {
	Healthy bool         `json:"healthy"`
	Stats   *DBPoolStats `json:"stats,omitempty"`
}

type RedisStatus struct {
	Healthy bool            `json:"healthy"`
	Stats   *RedisPoolStats `json:"stats,omitempty"`
}

type DomainStatsResponse struct {
	Users      int `json:"users"`
	Boards     int `json:"boards"`
	Characters int `json:"characters"`
	Rankings   int `json:"rankings"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"maxOpenConnections"`
	OpenConnections    int    `json:"openConnections"`
	InUse              int    `json:"inUse"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"waitCount"`
	WaitDuration       string `json:"waitDuration"`
	MaxIdleClosed      int64  `json:"maxIdleClosed"`
	MaxLifetimeClosed  int64  `json:"maxLifetimeClosed"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"totalConns"`
	IdleConns  uint32 `json:"idleConns"`
	StaleConns uint32 `json:"staleConns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"goVersion"`
	NumGoroutine int    `json:"numGoroutine"`
	NumCPU       int    `json:"numCpu"`
	MemAlloc     uint64 `json:"memAllocBytes"`
	MemSys       uint64 `json:"memSysBytes"`
	NumGC        uint32 `json:"numGc"`
}
