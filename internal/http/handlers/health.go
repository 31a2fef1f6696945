package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is anything whose reachability can be probed.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports whether the process is up and the task store answers.
type HealthHandler struct {
	store   Pinger
	started time.Time
	version string
}

func NewHealthHandler(store Pinger, version string) *HealthHandler {
	return &HealthHandler{store: store, started: time.Now(), version: version}
}

// StoreStatus is the body of /readyz.
type StoreStatus struct {
	Status    string `json:"status"`
	Store     string `json:"store"`
	Error     string `json:"error,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
	Version   string `json:"version,omitempty"`
	Uptime    string `json:"uptime"`
}

// pingStore reports the store round trip, or the failure.
func (h *HealthHandler) pingStore(ctx context.Context, timeout time.Duration) (time.Duration, error) {
	if h.store == nil {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := h.store.Ping(ctx)
	return time.Since(start), err
}

// Liveness answers as long as the process serves requests; it never touches storage.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness fails with 503 while the task store cannot be reached.
func (h *HealthHandler) Readiness(c *gin.Context) {
	latency, err := h.pingStore(c.Request.Context(), 5*time.Second)

	res := StoreStatus{
		Status:    "ready",
		Store:     "up",
		LatencyMS: latency.Milliseconds(),
		Version:   h.version,
		Uptime:    time.Since(h.started).Round(time.Second).String(),
	}
	code := http.StatusOK
	if err != nil {
		res.Status = "not_ready"
		res.Store = "down"
		res.Error = err.Error()
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, res)
}

// Health is the short form of Readiness; storage errors are not echoed.
func (h *HealthHandler) Health(c *gin.Context) {
	if _, err := h.pingStore(c.Request.Context(), 3*time.Second); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "task store unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.version})
}
