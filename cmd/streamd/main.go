// streamd serves the dashboard's real-time event endpoint. It listens for
// NOTIFY frames on a Postgres channel and fans them out over WebSocket to
// connected dashboard sessions.
// Usage: go run ./cmd/streamd --config configs/streamd.local.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/opsdeck/opsdeck/internal/config"
	"github.com/opsdeck/opsdeck/internal/database"
	"github.com/opsdeck/opsdeck/internal/event"
	"github.com/opsdeck/opsdeck/internal/stream"
	"github.com/opsdeck/opsdeck/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/streamd.local.yaml", "path to config file")
	flag.Parse()

	// Load configuration first; the log level comes from it.
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Server.LogLevel),
	}))
	slog.SetDefault(logger)

	logger.Info("starting streamd",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to the dashboard database
	logger.Info("connecting to database",
		"host", cfg.Database.Postgres.Host,
		"port", cfg.Database.Postgres.Port,
		"database", cfg.Database.Postgres.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database.Postgres)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	logger.Info("database connected")

	hub := stream.NewHub(cfg.Stream.ClientBuffer, logger)
	listener := database.NewListener(pool, cfg.Stream.Channel, logger)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: stream.NewServer(hub, logger).Handler(),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return listener.Listen(ctx, func(payload []byte) {
			env, err := event.Decode(payload)
			if err != nil {
				logger.Warn("discarding malformed notify payload", "error", err)
				return
			}
			hub.Publish(env)
		})
	})

	g.Go(func() error {
		logger.Info("serving event stream", "addr", server.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("streamd exited with error", "error", err)
		os.Exit(1)
	}

	logger.Info("streamd stopped")
}

func logLevel(name string) slog.Level {
	switch name {
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
