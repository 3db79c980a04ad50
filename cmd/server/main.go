package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appinventory "github.com/warehouse/backend/internal/application/inventory"
	appprocurement "github.com/warehouse/backend/internal/application/procurement"
	"github.com/warehouse/backend/internal/application/receiving"
	"github.com/warehouse/backend/internal/infrastructure/auth"
	"github.com/warehouse/backend/internal/infrastructure/cache"
	"github.com/warehouse/backend/internal/infrastructure/config"
	"github.com/warehouse/backend/internal/infrastructure/logger"
	"github.com/warehouse/backend/internal/infrastructure/persistence"
	"github.com/warehouse/backend/internal/interfaces/http/handler"
	"github.com/warehouse/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLogger := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogger)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	// Redis backs receive idempotency; fall back to the in-process store so
	// a missing Redis never blocks receiving.
	var idempotencyStore receiving.IdempotencyStore
	redisStore, err := cache.NewRedisIdempotencyStore(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory idempotency store", zap.Error(err))
		memStore := cache.NewInMemoryIdempotencyStore()
		defer memStore.Close()
		idempotencyStore = memStore
	} else {
		defer redisStore.Close()
		idempotencyStore = redisStore
	}

	scope := persistence.NewGormTransactionScope(db.DB)
	componentRepo := persistence.NewGormComponentRepository(db.DB)
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)

	receivingService := receiving.NewService(scope, componentRepo, warehouseRepo)
	receivingService.SetIdempotencyStore(idempotencyStore)
	orderService := appprocurement.NewPurchaseOrderService(scope, componentRepo, warehouseRepo)
	queryService := appinventory.NewQueryService(scope)

	jwtService := auth.NewJWTService(cfg.JWT)

	ginMode := gin.ReleaseMode
	if cfg.App.Env == "development" {
		ginMode = gin.DebugMode
	}

	engine := router.New(router.Config{
		Logger:      log,
		JWTService:  jwtService,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		MaxBodySize: cfg.HTTP.MaxBodySize,
		EnableAuth:  cfg.App.Env == "production",
		GinMode:     ginMode,
	}, router.Handlers{
		PurchaseOrder: handler.NewPurchaseOrderHandler(orderService),
		Receiving:     handler.NewReceivingHandler(receivingService),
		Stock:         handler.NewStockHandler(queryService),
		System:        handler.NewSystemHandler(db),
	})

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
