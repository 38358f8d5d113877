// main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ViniZap4/gestor360/config"
	"github.com/ViniZap4/gestor360/desktop"
	"github.com/ViniZap4/gestor360/events"
	"github.com/ViniZap4/gestor360/gitsync"
	gestorhttp "github.com/ViniZap4/gestor360/http"
	"github.com/ViniZap4/gestor360/logger"
	"github.com/ViniZap4/gestor360/store"
	"github.com/ViniZap4/gestor360/watcher"
)

const shutdownTimeout = 5 * time.Second

// ownWriteWindow hides watcher events caused by the server's own writes.
const ownWriteWindow = 2 * time.Second

// backend is the store the server runs on together with its sync façade.
type backend struct {
	store  store.Store
	syncer gitsync.Syncer
	close  func()
}

func main() {
	if err := config.LoadEnvFile(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load environment")
	}
	cfg, err := config.Load("")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Setup(cfg.LogLevel, cfg.IsDevelopment())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := events.NewHub()
	go hub.Run(ctx)

	b, err := openBackend(ctx, cfg, hub)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Backend).Msg("Failed to open store")
	}
	defer b.close()

	server := gestorhttp.NewServer(b.store, b.syncer, hub)
	app := server.App(gestorhttp.Options{
		TokenHash:      cfg.TokenHash,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	go func() {
		<-ctx.Done()
		log.Info().Msg("Shutting down")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			log.Error().Err(err).Msg("Shutdown failed")
		}
	}()

	log.Info().
		Str("port", cfg.Port).
		Str("backend", cfg.Backend).
		Bool("auth", cfg.TokenHash != "").
		Msg("Server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

func openBackend(ctx context.Context, cfg *config.Config, hub *events.Hub) (*backend, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		p, err := store.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := store.Seed(ctx, p); err != nil {
			p.Close()
			return nil, fmt.Errorf("failed to seed database: %w", err)
		}
		return &backend{store: p, syncer: gitsync.Unavailable{}, close: p.Close}, nil

	case config.BackendFiles:
		lib, repo, err := desktop.Bootstrap(ctx, cfg.DocsDir)
		if err != nil {
			return nil, err
		}

		var syncer gitsync.Syncer = gitsync.Unavailable{}
		if repo != nil {
			syncer = gitsync.NewGitSyncer(repo)
		}

		w, err := watcher.New(lib.Root(), watcher.WithIgnore(func(path string) bool {
			return lib.WroteRecently(path, ownWriteWindow)
		}))
		if err != nil {
			return nil, err
		}
		if err := w.Start(); err != nil {
			return nil, err
		}
		go func() {
			for path := range w.Changes() {
				hub.Publish(events.FileChanged, nil, path)
			}
		}()

		log.Info().Str("dir", lib.Root()).Bool("git", repo != nil).Msg("Serving documents directory")
		return &backend{store: lib, syncer: syncer, close: func() { w.Stop() }}, nil

	default:
		m := store.NewMemory()
		if err := store.Seed(ctx, m); err != nil {
			return nil, err
		}
		return &backend{store: m, syncer: gitsync.Unavailable{}, close: func() {}}, nil
	}
}
