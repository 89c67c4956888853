package ws

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Handler upgrades GET /ws and registers the connection with hub.
// An empty or "*" allowedOrigin accepts any origin; requests without an
// Origin header (non-browser clients) are always accepted.
func Handler(hub *Hub, allowedOrigin string) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || allowedOrigin == "" || allowedOrigin == "*" {
				return true
			}
			return strings.EqualFold(origin, allowedOrigin)
		},
	}

	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			hub.log.Warn("ws upgrade failed", "error", err)
			return
		}

		client := newClient(hub, conn)
		if !hub.join(client) {
			_ = conn.Close()
			return
		}
		go client.writePump()
		go client.readPump()
	}
}
