// opsdeck connects to the dashboard event stream and prints live events and
// notifications to the console.
// Usage: go run ./cmd/opsdeck --config configs/opsdeck.local.yaml --user user-1 --role manager
package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/opsdeck/opsdeck/internal/config"
	"github.com/opsdeck/opsdeck/internal/connection"
	"github.com/opsdeck/opsdeck/internal/event"
	"github.com/opsdeck/opsdeck/internal/identity"
	"github.com/opsdeck/opsdeck/internal/notify"
	"github.com/opsdeck/opsdeck/internal/registry"
	"github.com/opsdeck/opsdeck/internal/router"
	"github.com/opsdeck/opsdeck/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/opsdeck.example.yaml", "path to config file")
	user := flag.String("user", "", "session user id")
	role := flag.String("role", "staff", "session role")
	verbose := flag.Bool("verbose", false, "print full event payloads")
	flag.Parse()

	// Set up structured logging
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	logger.Info("starting opsdeck",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	if *user == "" {
		logger.Error("--user is required")
		os.Exit(1)
	}

	// Load configuration; the client only needs the realtime section.
	cfg, err := config.LoadWithDefaults(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Realtime.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	endpoint, err := connection.EndpointURL(cfg.Realtime.BaseURL)
	if err != nil {
		logger.Error("failed to resolve event endpoint", "base_url", cfg.Realtime.BaseURL, "error", err)
		os.Exit(1)
	}

	session := identity.Identity{ID: *user, Role: *role}
	provider := identity.Static{Identity: session}

	// Wire the real-time core: registry and policy behind the router,
	// router behind the connection manager.
	reg := registry.New(logger)
	presenter := notify.LogPresenter{Logger: logger}
	rt := router.New(reg, provider, presenter, logger)

	for _, eventType := range event.KnownTypes {
		reg.Subscribe(eventType, func(env event.Envelope) {
			logger.Debug("event",
				"type", eventType,
				"timestamp", env.Timestamp,
				"payload", string(env.Data),
			)
		})
	}

	manager := connection.NewManager(connection.Config{
		URL:              endpoint,
		ReconnectDelay:   cfg.Realtime.ReconnectDelay,
		HandshakeTimeout: cfg.Realtime.HandshakeTimeout,
		WriteTimeout:     cfg.Realtime.WriteTimeout,
	}, rt, logger)

	logger.Info("connecting to event stream", "endpoint", endpoint, "user_id", session.ID)
	manager.Connect(session)

	// Wait for shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received shutdown signal", "signal", sig)

	manager.Disconnect()

	stats := rt.Stats()
	logger.Info("session summary",
		"frames", stats.FramesReceived,
		"decode_errors", stats.DecodeErrors,
		"notified", stats.Notified,
	)
}
