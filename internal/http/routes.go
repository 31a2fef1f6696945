package http

import (
	"time"

	"todo_app/internal/http/handlers"
	"todo_app/internal/http/middleware"
	"todo_app/internal/service"
	"todo_app/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouteConfig carries what RegisterRoutes needs besides the service.
type RouteConfig struct {
	Version       string
	Store         handlers.Pinger
	Hub           *ws.Hub
	AllowedOrigin string
	RateLimit     int
	RateWindow    time.Duration
}

func RegisterRoutes(r *gin.Engine, tasks *service.TaskService, cfg RouteConfig) {
	h := handlers.NewHandler(tasks)
	healthHandler := handlers.NewHealthHandler(cfg.Store, cfg.Version)

	r.Use(middleware.RequestID(), middleware.Metrics(), middleware.CORS(cfg.AllowedOrigin))

	// Health checks and metrics (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rateLimit := cfg.RateLimit
	if rateLimit <= 0 {
		rateLimit = 120
	}
	rateWindow := cfg.RateWindow
	if rateWindow <= 0 {
		rateWindow = time.Minute
	}
	limiter := middleware.RateLimit(rateLimit, rateWindow)

	v1 := r.Group("/api/v1")
	v1.Use(limiter)
	registerTaskRoutes(v1, h)

	// Original REST surface
	todos := r.Group("/todos")
	todos.Use(limiter)
	{
		todos.GET("", h.ListTodos)
		todos.POST("", h.CreateTodo)
		todos.GET("/:id", h.GetTodo)
		todos.PUT("/:id", h.UpdateTodo)
		todos.DELETE("/:id", h.DeleteTodo)
	}

	if cfg.Hub != nil {
		r.GET("/ws", handlers.WS(cfg.Hub, cfg.AllowedOrigin))
	}
}

func registerTaskRoutes(api *gin.RouterGroup, h *handlers.Handler) {
	tasks := api.Group("/tasks")
	{
		tasks.GET("", h.ListTasks)
		tasks.POST("", h.CreateTask)
		tasks.GET("/:id", h.GetTask)
		tasks.PATCH("/:id", h.UpdateTask)
		tasks.DELETE("/:id", h.DeleteTask)
		tasks.POST("/:id/toggle", h.ToggleTask)
		tasks.PATCH("/:id/complete", h.CompleteTask)
		tasks.PATCH("/:id/reopen", h.ReopenTask)
	}
}
