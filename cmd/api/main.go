package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/zizouhuweidi/trivia/internal/cache"
	"github.com/zizouhuweidi/trivia/internal/config"
	"github.com/zizouhuweidi/trivia/internal/database"
	"github.com/zizouhuweidi/trivia/internal/domain"
	"github.com/zizouhuweidi/trivia/internal/handler"
	"github.com/zizouhuweidi/trivia/internal/logger"
	"github.com/zizouhuweidi/trivia/internal/quiz"
	"github.com/zizouhuweidi/trivia/internal/ratelimit"
	"github.com/zizouhuweidi/trivia/internal/repository/memory"
	"github.com/zizouhuweidi/trivia/internal/repository/postgres"
	"github.com/zizouhuweidi/trivia/internal/service"
	"github.com/zizouhuweidi/trivia/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.NewLogger(cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zl.Sync()
	sugar := zl.Sugar()
	sugar.Infof("starting trivia api: %s", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize repositories
	var (
		questionRepo domain.QuestionRepository
		categoryRepo domain.CategoryRepository
	)
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := database.ConnectPostgres(ctx, cfg.Store)
		if err != nil {
			sugar.Fatalf("Failed to connect to database: %v", err)
		}
		defer pool.Close()

		questionRepo = postgres.NewQuestionRepository(pool)
		categoryRepo = postgres.NewCategoryRepository(pool)
	case config.DriverMemory:
		store, err := memory.Seed(ctx)
		if err != nil {
			sugar.Fatalf("Failed to seed memory store: %v", err)
		}
		questionRepo = store.Questions()
		categoryRepo = store.Categories()
	}

	// Initialize Redis backed cache and rate limiter
	var limiter handler.Limiter
	if cfg.RedisEnabled() {
		redisClient, err := database.ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			sugar.Fatalf("Failed to connect to redis: %v", err)
		}
		defer closeRedis(redisClient, zl)

		cached := cache.NewCategoryRepository(categoryRepo, redisClient, cfg.Redis.CategoryTTL, zl)
		if err := cached.Invalidate(ctx); err != nil {
			zl.Warn("failed to clear category cache", zap.Error(err))
		}
		categoryRepo = cached

		if cfg.Limiter.Enabled {
			limiter = ratelimit.NewLimiter(redisClient, cfg.Limiter.Requests, cfg.Limiter.Window)
		}
	}

	// Initialize websocket hub
	hub := websocket.NewHub(zl)
	go hub.Run(ctx)

	trivia := service.NewTriviaService(questionRepo, categoryRepo, quiz.NewSelector(nil), hub, zl)
	e := handler.NewServer(trivia, hub, limiter, zl)

	// Start server
	go func() {
		sugar.Infof("listening on %s", cfg.GetServerAddr())
		if err := e.Start(cfg.GetServerAddr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalf("shutting down the server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	<-ctx.Done()
	sugar.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		sugar.Errorf("server shutdown failed: %v", err)
	}
}

func closeRedis(client *redis.Client, logger *zap.Logger) {
	if err := client.Close(); err != nil {
		logger.Warn("failed to close redis client", zap.Error(err))
	}
}
