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
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"collab-board-api/internal/activity"
	"collab-board-api/internal/command"
	"collab-board-api/internal/config"
	"collab-board-api/internal/database"
	"collab-board-api/internal/metrics"
	"collab-board-api/internal/realtime"
	"collab-board-api/internal/repository"
	"collab-board-api/internal/router"

	jobpkg "collab-board-api/internal/job"
	tokenpkg "collab-board-api/internal/token"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Starting collab board API",
		zap.String("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
	)

	// Database
	dbConfig := database.Config{
		DSN:             cfg.Database.GetDSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	connectCtx, connectCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	db, err := database.NewWithRetry(connectCtx, dbConfig, 5*time.Second, logger)
	connectCancel()
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)
	logger.Info("Database connected")

	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.Info("Database migrations completed")

	// Redis
	redisClient, err := database.NewRedis(database.RedisConfig{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("Redis connected")

	// Metrics
	m := metrics.New(logger)
	database.RegisterMetricsCallbacks(db, m)
	statsDone := database.StartDBStatsCollector(db, m)
	defer close(statsDone)

	// Activity pipeline: materializer persists and publishes, bridge
	// relays published events to attached websocket sessions.
	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()

	publisher := activity.NewRedisPublisher(redisClient, logger)
	materializer := activity.NewMaterializer(db, publisher, logger, cfg.Activity.QueueSize)
	materializer.Start(runCtx)

	registry := realtime.NewRegistry(logger)
	bridge := realtime.NewBridge(redisClient, registry, logger)
	bridge.Start(runCtx)

	// Retention cleanup
	activityRepo := repository.NewActivityRepository(db)
	cleanup := jobpkg.NewCleanupJob(activityRepo, cfg.Activity.RetentionDays, logger)
	scheduler := cron.New()
	if _, err := scheduler.AddJob(cfg.Activity.CleanupSchedule, cleanup); err != nil {
		logger.Fatal("Failed to schedule cleanup job",
			zap.String("schedule", cfg.Activity.CleanupSchedule),
			zap.Error(err))
	}
	scheduler.Start()

	tokens := tokenpkg.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)

	r := router.Setup(router.Config{
		DB:             db,
		Redis:          redisClient,
		Logger:         logger,
		Metrics:        m,
		Tokens:         tokens,
		Submitter:      command.MeteredSubmitter{Inner: materializer, Metrics: m},
		Registry:       registry,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("Server started", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// stop accepting new activity, drain what is queued
	runCancel()
	materializer.Stop()
	bridge.Wait()

	cronCtx := scheduler.Stop()
	<-cronCtx.Done()

	logger.Info("Server exited gracefully")
}

// initLogger initializes the zap logger with the specified level
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}
