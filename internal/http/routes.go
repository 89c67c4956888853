package http

import (
	"log/slog"

	"realtime_kanban/internal/http/handlers"
	"realtime_kanban/internal/http/middleware"
	"realtime_kanban/internal/service"
	"realtime_kanban/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the collaborators the routes are wired to. Hub is owned by the
// caller; the router never creates its own.
type Deps struct {
	Tasks         *service.TaskService
	Hub           *ws.Hub
	Log           *slog.Logger
	Version       string
	AllowedOrigin string
	// RateLimit guards /api; nil disables limiting.
	RateLimit gin.HandlerFunc
}

// NewRouter returns a gin engine with middleware and every route registered.
func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(deps.Log))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(deps.AllowedOrigin))

	RegisterRoutes(r, deps)
	return r
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	h := handlers.NewHandler(deps.Tasks)
	healthHandler := handlers.NewHealthHandler(deps.Tasks, deps.Hub, deps.Version)

	// Health checks (no rate limiting)
	r.GET("/", healthHandler.Root)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	if deps.RateLimit != nil {
		api.Use(deps.RateLimit)
	}
	api.GET("/tasks", h.ListTasks)
	api.POST("/tasks", h.CreateTask)
	api.PUT("/tasks/:id", h.UpdateTaskStatus)
	api.DELETE("/tasks/:id", h.DeleteTask)
	api.DELETE("/tasks", h.ClearBoard)

	// Realtime board events
	r.GET("/ws", ws.Handler(deps.Hub, deps.AllowedOrigin))
}
