package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/golf-edge/internal/api/handlers"
	"github.com/stitts-dev/golf-edge/internal/engine"
	"github.com/stitts-dev/golf-edge/internal/providers"
	"github.com/stitts-dev/golf-edge/internal/services"
	"github.com/stitts-dev/golf-edge/internal/storage"
	"github.com/stitts-dev/golf-edge/internal/websocket"
	"github.com/stitts-dev/golf-edge/pkg/config"
	"github.com/stitts-dev/golf-edge/pkg/database"
	"github.com/stitts-dev/golf-edge/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	structuredLogger := logger.InitLogger("info", cfg.IsDevelopment())
	logger.WithService("golf-edge").WithFields(logrus.Fields{
		"version":     "1.0.0",
		"environment": cfg.Env,
		"port":        cfg.Port,
	}).Info("Starting Golf Edge Service")

	if cfg.DataGolfAPIKey == "" {
		logger.WithService("golf-edge").Fatal("DATAGOLF_API_KEY is required")
	}

	// Setup Gin mode
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Database is optional; without it the service runs without persistence.
	var db *database.DB
	if cfg.DatabaseURL != "" {
		db, err = database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
		if err != nil {
			logger.WithService("golf-edge").Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
	} else {
		logger.WithService("golf-edge").Info("DATABASE_URL not set, running without persistence")
	}

	// Connect to Redis
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.WithService("golf-edge").Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opt)
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.WithService("golf-edge").Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize services
	cacheService := services.NewCacheService(redisClient)
	circuitBreakerService := services.NewCircuitBreakerService(
		cfg.CircuitBreakerThreshold,
		cfg.ExternalAPITimeout,
		structuredLogger,
	)

	store, err := storage.NewStore(db, structuredLogger)
	if err != nil {
		logger.WithService("golf-edge").Fatalf("Failed to initialize storage: %v", err)
	}

	// External providers
	feedClient := providers.NewFeedClient(
		cfg.DataGolfAPIKey,
		cfg.DataGolfBaseURL,
		cfg.DataGolfTour,
		cfg.OddsMarket,
		cacheService,
		circuitBreakerService,
		structuredLogger,
	)
	statsProvider := providers.NewStatsProvider(
		feedClient,
		cfg.SimulationCount,
		cfg.SimulationWorkers,
		structuredLogger,
	)

	// Core engine and fan-out
	eng := engine.New()
	hub := websocket.NewHub(structuredLogger)
	go hub.Run()

	refresher := services.NewRefresherService(
		feedClient,
		statsProvider,
		eng,
		hub,
		store,
		cfg.RefreshSchedule,
		cfg.ExternalAPITimeout,
		structuredLogger,
	)
	if err := refresher.Start(); err != nil {
		logger.WithService("golf-edge").Fatalf("Failed to start refresher: %v", err)
	}
	defer refresher.Stop()

	// Initialize router
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	// Initialize handlers
	edgeHandler := handlers.NewEdgeHandler(eng, refresher, store, structuredLogger)
	healthHandler := handlers.NewHealthHandler(db, redisClient, circuitBreakerService, structuredLogger)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/view", edgeHandler.GetView)
		apiV1.GET("/matchups", edgeHandler.GetMatchups)

		apiV1.POST("/selection/matchup", edgeHandler.SelectMatchup)
		apiV1.POST("/selection/bookmaker", edgeHandler.SetBookmaker)
		apiV1.POST("/selection/side", edgeHandler.SetPickSide)
		apiV1.POST("/selection/stake", edgeHandler.SetStake)

		apiV1.POST("/refresh", edgeHandler.TriggerRefresh)
		apiV1.GET("/reports", edgeHandler.GetReports)
		apiV1.GET("/edges", edgeHandler.GetEdgeHistory)
	}

	// Health check endpoints (support both GET and HEAD)
	router.GET("/health", healthHandler.GetHealth)
	router.HEAD("/health", healthHandler.GetHealth)
	router.GET("/ready", healthHandler.GetReady)
	router.HEAD("/ready", healthHandler.GetReady)

	// WebSocket snapshot stream
	router.GET("/ws", hub.ServeWS)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		logger.WithService("golf-edge").WithField("port", cfg.Port).Info("Golf edge service started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithService("golf-edge").Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.WithService("golf-edge").Info("Shutting down golf edge service...")

	// The server has 5 seconds to finish the request it is currently handling
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithService("golf-edge").Fatalf("Golf edge service forced to shutdown: %v", err)
	}

	logger.WithService("golf-edge").Info("Golf edge service exited")
}
