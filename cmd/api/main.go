package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/sjperalta/fintera-schedule/docs" // Swagger docs
	"github.com/sjperalta/fintera-schedule/internal/cache"
	"github.com/sjperalta/fintera-schedule/internal/config"
	"github.com/sjperalta/fintera-schedule/internal/database"
	"github.com/sjperalta/fintera-schedule/internal/handlers"
	"github.com/sjperalta/fintera-schedule/internal/jobs"
	"github.com/sjperalta/fintera-schedule/internal/middleware"
	"github.com/sjperalta/fintera-schedule/internal/repository"
	"github.com/sjperalta/fintera-schedule/internal/services"
	"github.com/sjperalta/fintera-schedule/internal/tracing"
	"github.com/sjperalta/fintera-schedule/pkg/logger"

	"github.com/gin-gonic/gin"
)

const serviceName = "fintera-schedule"

// @title Fintera Schedule API
// @version 1.0
// @description Installment schedule reconciliation for Fintera contracts

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Setup(cfg.Environment)

	// Initialize Sentry (GlitchTip) when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	ctx := context.Background()
	shutdownTracing, err := tracing.Init(ctx, serviceName, cfg.Environment, cfg.OTelEndpoint)
	if err != nil {
		logger.Error("Tracing initialization failed", "error", err)
		os.Exit(1)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL, cfg.Environment)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	repos := repository.NewRepositories(db)

	worker := jobs.NewWorker(cfg.WorkerCount, cfg.BusinessTimezone)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	scheduleCache, closeCache := setupCache(ctx, cfg, worker)

	svcs := services.NewServices(repos, worker, scheduleCache, cfg)

	if err := svcs.Job.ScheduleDelinquencyScan(cfg.DelinquencyScanCron); err != nil {
		logger.Error("Failed to schedule delinquency scan", "error", err)
		os.Exit(1)
	}
	logger.Info("Scheduled recurring jobs", "delinquency_scan", cfg.DelinquencyScanCron, "timezone", cfg.BusinessTimezone.String())

	h := handlers.NewHandlers(svcs)
	router := setupRouter(h, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	worker.Shutdown()
	logger.Info("Background worker stopped")

	closeCache()

	if err := database.Close(db); err != nil {
		logger.Error("Failed to close database", "error", err)
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("Failed to flush traces", "error", err)
	}

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

// setupCache connects to Redis when configured and falls back to an
// in-process cache swept by the worker.
func setupCache(ctx context.Context, cfg *config.Config, worker *jobs.Worker) (cache.Cache, func()) {
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisAddr)
		if err == nil {
			logger.Info("Connected to Redis schedule cache", "addr", cfg.RedisAddr)
			return rc, func() {
				if err := rc.Close(); err != nil {
					logger.Error("Failed to close Redis", "error", err)
				}
			}
		}
		logger.Warn("Redis unavailable, using in-process schedule cache", "addr", cfg.RedisAddr, "error", err)
	}

	mc := cache.NewMemoryCache()
	sweepEvery := cfg.ScheduleCacheTTL
	if sweepEvery < time.Minute {
		sweepEvery = time.Minute
	}
	worker.ScheduleEvery(sweepEvery, "schedule-cache-sweep", mc.Sweep)
	return mc, func() {}
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		// Health check (public)
		v1.GET("/health", h.Health.Index)

		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			protected.POST("/schedules/preview", h.Schedule.Preview)
			protected.GET("/contracts/:contract_id/schedule", h.Schedule.Show)

			// Documents (seller and admin)
			documents := protected.Group("/contracts/:contract_id")
			documents.Use(middleware.RequireRole(middleware.RoleAdmin, middleware.RoleSeller))
			{
				documents.GET("/schedule/export", h.Schedule.Export)
				documents.GET("/statement", h.Schedule.Statement)
			}

			admin := protected.Group("/jobs")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/status", h.Job.Status)
				admin.POST("/delinquency_scan", h.Job.DelinquencyScan)
			}
		}
	}

	return router
}
