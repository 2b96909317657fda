package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Rishabh-devloper/wealthwise/internal/ai"
	"github.com/Rishabh-devloper/wealthwise/internal/alerts"
	"github.com/Rishabh-devloper/wealthwise/internal/auth"
	"github.com/Rishabh-devloper/wealthwise/internal/config"
	apphttp "github.com/Rishabh-devloper/wealthwise/internal/http"
	"github.com/Rishabh-devloper/wealthwise/internal/log"
	"github.com/Rishabh-devloper/wealthwise/internal/middleware"
	"github.com/Rishabh-devloper/wealthwise/internal/response"
	"github.com/Rishabh-devloper/wealthwise/internal/services"
	"github.com/Rishabh-devloper/wealthwise/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	logger := log.New(log.Config{
		Level:     parseLevel(cfg.LogLevel),
		Component: log.ComponentApp,
	})
	log.SetDefault(logger)

	logger.Info("Starting wealthwise server")

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Alert publishing is optional; without a broker the crossings are
	// still caught by the worker's sweep.
	var publisher services.AlertPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := alerts.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("AMQP alert publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	var suggester ai.CategorySuggester
	if cfg.GeminiModel != "" {
		suggester, err = ai.NewGeminiSuggester(context.Background(), cfg.GeminiModel)
		if err != nil {
			logger.Error("Failed to initialize Gemini suggester", "error", err)
			os.Exit(1)
		}
		logger.Info("Category suggestions enabled", "model", cfg.GeminiModel)
	} else {
		logger.Info("Category suggestions disabled - no GEMINI_MODEL provided")
	}

	finance := services.NewFinanceService(repo, publisher)
	authMW := middleware.NewMiddleware(auth.NewVerifier(cfg.AuthSecret))

	srv := apphttp.NewServer(apphttp.ServerConfig{
		Port:               cfg.Port,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	}, &apphttp.Deps{
		Logger:          logger,
		ResponseHandler: response.New(logger.WithComponent(log.ComponentHTTP)),
		Finance:         finance,
		Suggester:       suggester,
	}, authMW)

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Listening", "port", cfg.Port)
	if err := srv.Start(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
