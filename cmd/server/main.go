package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"smartbrief-backend/internal/config"
	"smartbrief-backend/internal/database"
	"smartbrief-backend/internal/handlers"
	"smartbrief-backend/internal/logger"
	"smartbrief-backend/internal/middleware"
	"smartbrief-backend/internal/repository"
	"smartbrief-backend/internal/router"
	"smartbrief-backend/internal/services"
	"smartbrief-backend/internal/websocket"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LoggerFormat())
	slog.SetDefault(log)
	log.Info("starting SmartBrief backend", "env", cfg.Env, "provider", cfg.InferenceProvider)

	// ──── Step 2: Connect Document Database (optional) ────
	var (
		mongoDB     *database.Mongo
		summaryRepo *repository.SummaryRepo
	)
	if cfg.MongoURI != "" {
		mongoDB, err = database.NewMongo(cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			log.Error("MongoDB connection failed", "error", err)
			os.Exit(1)
		}
		defer mongoDB.Close()

		summaryRepo = repository.NewSummaryRepo(mongoDB.DB)
		if err := summaryRepo.EnsureIndexes(context.Background()); err != nil {
			log.Warn("failed to ensure summary indexes", "error", err)
		}
		log.Info("MongoDB connected", "database", cfg.MongoDatabase)
	} else {
		log.Warn("MONGO_URI not set, summary history disabled")
	}

	// ──── Step 3: Chat Session Store ────
	sched := cron.New()
	chatTTL := time.Duration(cfg.ChatSessionTTLMin) * time.Minute

	var (
		redisClient *redis.Client
		chatRepo    repository.ChatRepo
	)
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Error("Redis connection failed", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		chatRepo = repository.NewRedisChatRepo(redisClient, chatTTL)
		log.Info("Redis connected, chat sessions stored in Redis")
	} else {
		memRepo := repository.NewMemoryChatRepo(chatTTL)
		if _, err := sched.AddFunc("@every 5m", func() {
			if n := memRepo.Sweep(); n > 0 {
				log.Debug("swept idle chat sessions", "removed", n)
			}
		}); err != nil {
			log.Error("failed to schedule chat sweeper", "error", err)
			os.Exit(1)
		}
		chatRepo = memRepo
		log.Info("chat sessions stored in memory")
	}

	// ──── Step 4: Initialize Inference Client ────
	completer, closeCompleter, err := newCompleter(cfg)
	if err != nil {
		log.Error("inference client initialization failed", "error", err)
		os.Exit(1)
	}
	defer closeCompleter()

	// ──── Initialize Services ────
	extractor, err := services.NewContentExtractor(nil, services.NewYouTubeService(), log)
	if err != nil {
		log.Error("content extractor initialization failed", "error", err)
		os.Exit(1)
	}
	catalog := services.NewCatalog()

	var store services.SummaryStore
	if summaryRepo != nil {
		store = summaryRepo
	}
	summarizeService := services.NewSummarizeService(extractor, catalog, completer, store, cfg.DefaultModel, log)

	aiLimiter := middleware.NewRateLimiter(cfg.RequestsPerMinute, time.Minute)
	if _, err := sched.AddFunc("@every 1m", func() { aiLimiter.Sweep() }); err != nil {
		log.Error("failed to schedule rate limiter sweep", "error", err)
		os.Exit(1)
	}

	wsHub := websocket.NewHub(redisClient, aiLimiter, log)
	chatService := services.NewChatService(summarizeService, chatRepo, wsHub, log)

	// ──── Initialize Handlers ────
	summaryHandler := handlers.NewSummaryHandler(nil)
	healthHandler := handlers.NewHealthHandler(nil)
	if summaryRepo != nil {
		summaryHandler = handlers.NewSummaryHandler(summaryRepo)
		healthHandler = handlers.NewHealthHandler(mongoDB)
	}

	sched.Start()

	r := router.New(router.Handlers{
		Summarize: handlers.NewSummarizeHandler(summarizeService, log),
		Chat:      handlers.NewChatHandler(chatService, log),
		Export:    handlers.NewExportHandler(),
		Catalog:   handlers.NewCatalogHandler(catalog, cfg.DefaultModel),
		Summaries: summaryHandler,
		Health:    healthHandler,
		ChatWS:    wsHub.Handler(chatService),
	}, aiLimiter, cfg.FrontendURL)

	// ──── Start HTTP Server ────
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutting down")
		<-sched.Stop().Done()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
	}()

	log.Info("SmartBrief backend ready",
		"api", fmt.Sprintf("http://localhost:%s/api/v1", cfg.Port),
		"ws", fmt.Sprintf("ws://localhost:%s/api/v1/chat/ws", cfg.Port),
	)

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

// newCompleter builds the completion client for the configured provider. The
// returned close func is always non-nil.
func newCompleter(cfg *config.Config) (services.Completer, func(), error) {
	if cfg.UsesGemini() {
		g, err := services.NewGeminiCompleter(context.Background(), cfg.GeminiAPIKey, "")
		if err != nil {
			return nil, func() {}, err
		}
		return g, g.Close, nil
	}

	c, err := services.NewOpenAICompleter(services.OpenAIConfig{
		APIKey:  cfg.APIKey(),
		BaseURL: cfg.InferenceBaseURL,
		Referer: cfg.SiteURL,
		Title:   cfg.AppTitle,
	})
	if err != nil {
		return nil, func() {}, err
	}
	return c, func() {}, nil
}
