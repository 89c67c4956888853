package ws

import "github.com/prometheus/client_golang/prometheus"

var (
	wsClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "kanban_ws_clients",
		Help: "Currently connected websocket clients",
	})
	wsEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kanban_ws_events_total",
			Help: "Board events published to the hub",
		},
		[]string{"type"},
	)
	wsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "kanban_ws_dropped_clients_total",
		Help: "Clients disconnected because their send queue was full",
	})
)

func init() {
	prometheus.MustRegister(wsClients, wsEvents, wsDropped)
}
