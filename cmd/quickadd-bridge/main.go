package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/existflow/quickadd/internal/config"
	"github.com/existflow/quickadd/internal/db"
	"github.com/existflow/quickadd/internal/logger"
	"github.com/existflow/quickadd/server"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Bridge failed: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	addr := os.Getenv("QUICKADD_BRIDGE_ADDR")
	if addr == "" {
		addr = cfg.BridgeAddr
	}

	if err := logger.Init(logger.Config{
		Level:      logger.ParseLevel(cfg.LogLevel),
		FilePath:   cfg.LogFile,
		MaxSize:    10 * 1024 * 1024, // 10MB
		MaxAge:     7,
		MaxBackups: 5,
		Console:    true,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Close()
	}()

	database, err := db.OpenDefault()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	srv := server.New(database, cfg)
	defer func() {
		_ = srv.Close()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("quickadd bridge starting on %s", addr)
	return srv.Run(ctx, addr)
}
