package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/geocoder89/taskhub/internal/auth"
	"github.com/geocoder89/taskhub/internal/config"
	"github.com/geocoder89/taskhub/internal/http/handlers"
	"github.com/geocoder89/taskhub/internal/http/middlewares"
	"github.com/geocoder89/taskhub/internal/observability"
	"github.com/geocoder89/taskhub/internal/repo/postgres"
	"github.com/geocoder89/taskhub/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// fresh registry per router so tests can build engines freely
	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.RequireJSON())
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))
	r.Use(prom.GinHandleMiddleware())
	r.Use(otelgin.Middleware("taskhub"))

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// wire up repositories and services

	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL())

	usersRepo := postgres.NewUsersRepo(pool, prom)
	tasksRepo := postgres.NewTasksRepo(pool, prom)

	authService := service.NewAuthService(usersRepo, jwtManager)
	taskService := service.NewTaskService(tasksRepo)

	authHandler := handlers.NewAuthHandler(authService)
	tasksHandler := handlers.NewTasksHandler(taskService)

	authMW := middlewares.NewAuthMiddleware(jwtManager)

	// credential endpoints are the brute-force surface, keep them rate limited
	limiter := middlewares.NewRateLimiter(cfg.AuthRateLimit, time.Duration(cfg.AuthRateWindowSec)*time.Second)

	api := r.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.POST("/register", limiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.Register)
	authRoutes.POST("/login", limiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.Login)
	authRoutes.GET("/profile", authMW.RequireAuth(), authHandler.Profile)

	todoRoutes := api.Group("/todo", authMW.RequireAuth())
	todoRoutes.GET("", tasksHandler.ListTasks)
	todoRoutes.POST("", tasksHandler.CreateTask)
	todoRoutes.PUT("/:id", tasksHandler.UpdateTask)
	todoRoutes.DELETE("/:id", tasksHandler.DeleteTask)

	return r
}
