package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appclient "github.com/atelier/backend/internal/application/client"
	"github.com/atelier/backend/internal/application/report"
	"github.com/atelier/backend/internal/domain/company"
	"github.com/atelier/backend/internal/infrastructure/config"
	"github.com/atelier/backend/internal/infrastructure/logger"
	"github.com/atelier/backend/internal/infrastructure/remote"
	"github.com/atelier/backend/internal/interfaces/http/handler"
	"github.com/atelier/backend/internal/interfaces/http/middleware"
	"github.com/atelier/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting atelier backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("remote", cfg.Remote.BaseURL()),
	)

	// Domain and application wiring. The company aggregate is the
	// in-process store: catalog of record, client fallback when the
	// remote service is down. Everything lives for the process only.
	co := company.New()
	gateway := remote.NewGateway(cfg.Remote, log)
	clientRepo := appclient.NewRepository(gateway, co, log)
	reportEngine := report.NewEngine(clientRepo, co)

	clientHandler := handler.NewClientHandler(clientRepo, log)
	catalogHandler := handler.NewCatalogHandler(co, log)
	consumptionHandler := handler.NewConsumptionHandler(clientRepo, co, log)
	reportHandler := handler.NewReportHandler(reportEngine, log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsConfig))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(clientHandler).
		Register(catalogHandler).
		Register(consumptionHandler).
		Register(reportHandler)
	r.Setup()

	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Warm the client list; a down remote just leaves the repository
	// in its error state, the server starts regardless.
	warmCtx, warmCancel := context.WithTimeout(context.Background(), cfg.Remote.Timeout)
	if err := clientRepo.Refresh(warmCtx); err != nil {
		log.Warn("Initial client load failed, remote service may be down", zap.Error(err))
	}
	warmCancel()

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
