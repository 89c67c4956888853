package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"

	"realtime_kanban/internal/domain"
)

const broadcastBuffer = 256

// Hub is the registry of connected board clients. It is owned by whoever
// creates it and passed to the routes; there is no package-level instance.
// Register, unregister and broadcast are serialized through Run, so every
// client observes events in publish order.
type Hub struct {
	log        *slog.Logger
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan outbound
	done       chan struct{}
	count      atomic.Int64
}

type outbound struct {
	typ domain.EventType
	msg []byte
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		log:        log,
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan outbound, broadcastBuffer),
		done:       make(chan struct{}),
	}
}

// Run serves the hub until ctx is cancelled, then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for c := range h.clients {
			h.remove(c)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.count.Store(int64(len(h.clients)))
			wsClients.Set(float64(len(h.clients)))
			h.log.Info("client connected", "client_id", c.ID, "clients", len(h.clients))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.remove(c)
				h.log.Info("client disconnected", "client_id", c.ID, "clients", len(h.clients))
			}
		case out := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- out.msg:
				default:
					// a full queue means the client stopped reading; others must not wait on it
					h.remove(c)
					wsDropped.Inc()
					h.log.Warn("dropping slow client", "client_id", c.ID, "event", out.typ)
				}
			}
		}
	}
}

func (h *Hub) remove(c *Client) {
	delete(h.clients, c)
	close(c.send)
	h.count.Store(int64(len(h.clients)))
	wsClients.Set(float64(len(h.clients)))
}

// Publish queues ev for every connected client. It never waits on clients,
// only on the hub loop; after the hub stops it is a no-op.
func (h *Hub) Publish(ev domain.Event) {
	msg, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("encode event", "event", ev.Type, "error", err)
		return
	}
	wsEvents.WithLabelValues(string(ev.Type)).Inc()

	select {
	case h.broadcast <- outbound{typ: ev.Type, msg: msg}:
	case <-h.done:
	}
}

// ClientCount reports the number of registered clients.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
