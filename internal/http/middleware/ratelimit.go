package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type clientInfo struct {
	start time.Time
	count int
}

// windowCounter counts hits per key in fixed windows. Keys whose window has
// passed are swept at most once per window, so idle clients do not accumulate.
type windowCounter struct {
	mu        sync.Mutex
	window    time.Duration
	clients   map[string]*clientInfo
	lastSweep time.Time
}

func newWindowCounter(window time.Duration) *windowCounter {
	return &windowCounter{window: window, clients: make(map[string]*clientInfo), lastSweep: time.Now()}
}

// hit records one request for key and returns the count in its current window.
func (w *windowCounter) hit(key string, now time.Time) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	if now.Sub(w.lastSweep) > w.window {
		for k, ci := range w.clients {
			if now.Sub(ci.start) > w.window {
				delete(w.clients, k)
			}
		}
		w.lastSweep = now
	}

	ci, ok := w.clients[key]
	if !ok || now.Sub(ci.start) > w.window {
		ci = &clientInfo{start: now}
		w.clients[key] = ci
	}
	ci.count++
	return ci.count
}

func (w *windowCounter) size() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.clients)
}

// SimpleRateLimit is the in-process fixed-window limiter used when no Redis is
// configured. Limits are per server process.
func SimpleRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	counter := newWindowCounter(window)

	return func(c *gin.Context) {
		if counter.hit(c.ClientIP(), time.Now()) > maxRequests {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}

// RateLimit picks the Redis limiter when addr is set and reachable, the
// in-process one otherwise. The returned close func releases the Redis client.
func RateLimit(addr, password string, db, maxRequests int, window time.Duration, log *slog.Logger) (gin.HandlerFunc, func()) {
	if addr != "" {
		client, err := ConnectRedis(addr, password, db)
		if err == nil {
			log.Info("rate limiter using redis", "addr", addr)
			return RedisRateLimit(client, maxRequests, window, log), func() { _ = client.Close() }
		}
		log.Warn("redis unavailable, rate limiting in process", "error", err)
	}
	return SimpleRateLimit(maxRequests, window), func() {}
}
