package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"audit-agent/backends"
	"audit-agent/config"
	"audit-agent/docstore"
	"audit-agent/engine"
	"audit-agent/retrieval"
	"audit-agent/web"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	// Initialize logger with default level to load config
	tempLogger, err := config.InitLogger("info")
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// Load config (which includes log level setting)
	cfg := config.Load(tempLogger)

	// Re-initialize logger with configured level
	logger, err := config.InitLogger(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to re-initialize logger with configured level: %v\n", err)
		os.Exit(1)
	}
	defer config.Cleanup()

	store, err := docstore.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := store.EnsureSchema(ctx); err != nil {
		logger.Fatal("Failed to ensure database schema", zap.Error(err))
	}

	if cfg.SeedDemoData {
		if err := store.Seed(ctx); err != nil {
			logger.Warn("Failed to seed demo data", zap.Error(err))
		}
	}

	retriever := retrieval.NewRetriever(store, cfg, logger)
	chain := backends.BuildChain(cfg, logger)
	if len(chain) == 0 {
		logger.Warn("No generation backends configured, all answers will use the rule-based responder")
	}

	chatEngine := engine.New(retriever, chain, cfg, logger)

	webServer := web.NewServer(chatEngine, chain, logger, cfg)

	// Create context that listens for interrupt signals
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	port := fmt.Sprintf(":%d", cfg.WebPort)
	logger.Info("Starting audit assistant web server", zap.String("port", port))
	if err := webServer.Start(ctx, port); err != nil {
		logger.Error("Web server error", zap.Error(err))
		os.Exit(1)
	}
}
