package http

import (
	"net/http"
	"os"

	"github.com/geocoder89/taskhub/internal/auth"
	"github.com/geocoder89/taskhub/internal/cache"
	"github.com/geocoder89/taskhub/internal/config"
	"github.com/geocoder89/taskhub/internal/http/handlers"
	"github.com/geocoder89/taskhub/internal/http/middlewares"
	"github.com/geocoder89/taskhub/internal/observability"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Deps carries the wired stores and infrastructure. Stores come in as
// interfaces so tests can mount the router on the memory repos.
type Deps struct {
	Users          handlers.UserStore
	Tasks          handlers.TaskStore
	JWT            *auth.Manager
	Cache          *cache.Cache
	Metrics        *observability.Prom
	MetricsHandler http.Handler
	Ping           func() error
}

func NewRouter(cfg config.Config, deps Deps) *gin.Engine {
	if os.Getenv("APP_ENV") != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))
	r.Use(otelgin.Middleware("taskhub"))

	if deps.Metrics != nil {
		r.Use(deps.Metrics.GinHandleMiddleware())
	}

	// probes and metrics
	health := handlers.NewHealthHandler(deps.Ping)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)

	if deps.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}

	r.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "Welcome to the Task Management API"})
	})

	r.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "Route not found"})
	})

	// wire up handlers
	authHandler := handlers.NewAuthHandler(deps.Users, deps.JWT, deps.Cache)
	usersHandler := handlers.NewUsersHandler(deps.Users, deps.Cache)
	tasksHandler := handlers.NewTasksHandler(deps.Tasks)
	gate := middlewares.NewAuthMiddleware(deps.JWT, deps.Users)

	api := r.Group("/api")
	api.Use(middlewares.RequireJSON())

	users := api.Group("/users")
	users.POST("/register", authHandler.Register)
	users.POST("/login", authHandler.Login)
	users.GET("", usersHandler.ListUsers)
	users.GET("/profile", gate.RequireAuth(), authHandler.Profile)

	tasks := api.Group("/tasks")
	tasks.Use(gate.RequireAuth())
	tasks.POST("", tasksHandler.CreateTask)
	tasks.GET("", tasksHandler.ListTasks)
	tasks.PUT("/:id", tasksHandler.UpdateTask)
	tasks.DELETE("/:id", tasksHandler.DeleteTask)

	return r
}
