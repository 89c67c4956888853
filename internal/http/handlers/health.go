package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

const aliveText = "Kanban API with Real-Time Sockets is alive."

// Pinger reports whether the task store answers.
type Pinger interface {
	Ready(ctx context.Context) error
}

// ClientCounter reports connected websocket clients.
type ClientCounter interface {
	ClientCount() int
}

type HealthHandler struct {
	store   Pinger
	clients ClientCounter
	started time.Time
	version string
}

func NewHealthHandler(store Pinger, clients ClientCounter, version string) *HealthHandler {
	return &HealthHandler{store: store, clients: clients, started: time.Now(), version: version}
}

// Readiness is the /readyz body. Store holds "ok" or the ping error.
type Readiness struct {
	Ready     bool    `json:"ready"`
	Version   string  `json:"version,omitempty"`
	Uptime    string  `json:"uptime"`
	Store     string  `json:"store"`
	WSClients int     `json:"ws_clients"`
	HeapMB    float64 `json:"heap_mb"`
}

// Root serves the plain-text line the original frontend polls at /.
func (h *HealthHandler) Root(c *gin.Context) {
	c.String(http.StatusOK, aliveText)
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness pings the store; 503 when it does not answer.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	resp := Readiness{
		Ready:   true,
		Version: h.version,
		Uptime:  time.Since(h.started).Round(time.Second).String(),
		Store:   "ok",
	}
	if err := h.store.Ready(ctx); err != nil {
		resp.Ready = false
		resp.Store = err.Error()
	}
	if h.clients != nil {
		resp.WSClients = h.clients.ClientCount()
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	resp.HeapMB = float64(m.HeapAlloc) / (1 << 20)

	code := http.StatusOK
	if !resp.Ready {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, resp)
}
