package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/platewise/recipe-ai/backend/config"
	"github.com/platewise/recipe-ai/backend/internal/api"
	"github.com/platewise/recipe-ai/backend/internal/database"
	"github.com/platewise/recipe-ai/backend/internal/logger"
	"github.com/platewise/recipe-ai/backend/internal/router"
	"github.com/platewise/recipe-ai/backend/internal/server"
	"github.com/platewise/recipe-ai/backend/internal/service"
	"github.com/platewise/recipe-ai/backend/internal/vectorstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Debug)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	db, err := database.New(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to document store", zap.Error(err))
	}

	// Redis is optional: without it the latest-recipe and summary
	// caches are skipped.
	redisClient, err := database.NewRedisClient(cfg, zlog)
	if err != nil {
		zlog.Warn("Redis unavailable, caching disabled", zap.Error(err))
		redisClient = nil
	}

	var s3cfg *config.S3Config
	if cfg.S3Bucket != "" {
		s3cfg, err = config.NewS3Config(context.Background(), cfg.S3Bucket, cfg.AWSRegion)
		if err != nil {
			zlog.Warn("S3 unavailable, image re-hosting disabled", zap.Error(err))
			s3cfg = nil
		}
	}

	embedder := vectorstore.NewOpenAIEmbedder(cfg.OpenAIAPIKey, cfg.EmbeddingDimension)
	index := vectorstore.NewIndex(vectorstore.IndexConfig{
		Host:   cfg.PineconeIndexHost,
		APIKey: cfg.PineconeAPIKey,
	})
	recipeStore := vectorstore.NewStore(index, embedder, zlog)

	profiles := service.NewProfileService(db, zlog)
	conversations := service.NewConversationService(db, redisClient, zlog)
	aiService := service.NewAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel, zlog)
	imageService := service.NewImageService(cfg.OpenAIAPIKey, s3cfg, zlog)

	var cache service.LatestRecipeCache
	if redisClient != nil {
		cache = service.NewRecipeCache(redisClient, zlog)
	}

	generator := service.NewRecipeGenerator(
		profiles, conversations, aiService, imageService, recipeStore, cache, zlog)

	userHandler := api.NewUserHandler(profiles, zlog)
	recipeHandler := api.NewRecipeHandler(
		generator, profiles, conversations, recipeStore, aiService, cache, zlog)

	engine := router.SetupRouter(userHandler, recipeHandler, cfg.Debug)
	srv := server.New(cfg, engine, zlog)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			zlog.Fatal("server error", zap.Error(err))
		}
	case sig := <-quit:
		zlog.Info("received shutdown signal", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}

	zlog.Info("server stopped")
}
