package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/easygen/auth-service/internal/config"
	"github.com/easygen/auth-service/internal/server"
	"github.com/easygen/auth-service/internal/server/storage"
	"github.com/easygen/auth-service/internal/server/storage/bolt"
	"github.com/easygen/auth-service/internal/server/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Parse flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := newLogger()

	cfg, err := config.Load(logger)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Открываем хранилище учетных записей
	store, err := openStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()

	logger.Info("storage opened", "driver", cfg.DBDriver, "path", cfg.DBPath)

	srv := server.New(cfg, logger, store, Version)
	return srv.Run(ctx)
}

// newLogger строит логгер процесса
// JSON в production, текст с Debug уровнем для разработки
func newLogger() *slog.Logger {
	if os.Getenv("NODE_ENV") == config.EnvProduction {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// openStorage открывает хранилище, выбранное конфигурацией
func openStorage(ctx context.Context, cfg *config.Config) (storage.UserStorage, error) {
	switch cfg.DBDriver {
	case "sqlite":
		return sqlite.New(ctx, cfg.DBPath)
	default:
		return bolt.New(ctx, cfg.DBPath)
	}
}

func printVersion() {
	fmt.Printf("Auth Service\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
