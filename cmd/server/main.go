package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"anoa.com/kgscp/internal/bootstrap"
	"anoa.com/kgscp/internal/config"
	"anoa.com/kgscp/internal/server"
	"anoa.com/kgscp/pkg/database"
	"anoa.com/kgscp/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logger.Init(cfg.LogLevel, cfg.LogPath); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.L.Sync() }()

	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		logger.L.Fatal("database connection failed", zap.Error(err))
	}
	if err := bootstrap.Migrate(db); err != nil {
		logger.L.Fatal("migration failed", zap.Error(err))
	}
	if err := bootstrap.SeedAdmins(db, cfg.AdminIDs); err != nil {
		logger.L.Fatal("failed to seed admins", zap.Error(err))
	}

	redisClient, err := database.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		logger.L.Fatal("redis connection failed", zap.Error(err))
	}
	if redisClient == nil {
		logger.L.Warn("REDIS_URL not set, rate limits and caches are disabled")
	} else {
		defer redisClient.Close()
	}

	srv, err := server.NewServer(cfg, db, redisClient)
	if err != nil {
		logger.L.Fatal("failed to build server", zap.Error(err))
	}

	if err := srv.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.L.Fatal("server exited with error", zap.Error(err))
	}
	logger.L.Info("server stopped")
}

