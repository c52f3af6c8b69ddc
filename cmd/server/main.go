package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jewelry-backend/config"
	"jewelry-backend/internal/api"
	"jewelry-backend/internal/service"
	"jewelry-backend/internal/store"
	"jewelry-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting jewelry backend")

	tp, err := util.InitTracer("jewelry-backend", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		log.Fatalf("Failed to create upload directory: %v", err)
	}
	if err := os.MkdirAll(cfg.Upload.TmpDir, 0o755); err != nil {
		log.Fatalf("Failed to create temp upload directory: %v", err)
	}

	db, err := store.NewStore(cfg.Database.URI, cfg.Database.Name)
	if err != nil {
		log.Fatalf("Failed to create store: %v", err)
	}
	defer db.Close()

	// Connectivity handshake: retry a fixed number of times with a fixed
	// delay, then keep serving regardless so a late-starting database is
	// picked up by subsequent requests.
	connected := false
	for attempt := 1; attempt <= cfg.Database.ConnectRetries; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := db.Ping(ctx)
		cancel()
		if err == nil {
			connected = true
			break
		}
		logger.Warn("Database not reachable",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", cfg.Database.ConnectRetries),
			zap.Error(err))
		time.Sleep(cfg.Database.RetryDelay)
	}
	if connected {
		logger.Info("Database connected", zap.String("db", cfg.Database.Name))
	} else {
		logger.Warn("Starting without database connectivity; health checks will report it")
	}

	uploads := service.NewUploadService(cfg.Upload.Dir, cfg.Upload.TmpDir, cfg.Upload.PublicPath)
	products := service.NewProductService(db, uploads)
	orders := service.NewOrderService(db)
	dashboard := service.NewDashboardService(db)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(products, orders, uploads, dashboard, db)
	handler.SetupRoutes(router, cfg.Upload.Dir)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
