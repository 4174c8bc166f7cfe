package cmd

import (
	"context"
	"log/slog"

	"github.com/illarion/sealnote/internal/config"
	"github.com/illarion/sealnote/internal/logging"
	"github.com/illarion/sealnote/internal/notes"
	"github.com/illarion/sealnote/internal/server"
	"github.com/illarion/sealnote/internal/storage"
)

// Serve runs the HTTP API until ctx is cancelled
func Serve(ctx context.Context, addr string) {
	cfg, err := config.Load()
	if err != nil {
		HandleError(err)
	}
	if addr != "" {
		cfg.Addr = addr
	}

	logOpts := []logging.Option{logging.WithLevel(logging.ParseLevel(cfg.LogLevel))}
	if cfg.LogFormat == "json" {
		logOpts = append(logOpts, logging.WithJSON())
	}
	log := logging.New(logOpts...)

	store, err := openStore(ctx, cfg)
	if err != nil {
		HandleError(err)
	}

	storeAttrs := []any{slog.String("store", cfg.Store)}
	if db, ok := store.(*storage.Storage); ok {
		storeAttrs = append(storeAttrs, slog.String("path", db.Path()))
		if id, err := db.GetOrCreateStoreID(); err == nil {
			storeAttrs = append(storeAttrs, slog.String("store_id", id))
		}
	}
	log.Info("note store opened", storeAttrs...)

	svc := notes.New(store,
		notes.WithLogger(log),
		notes.WithMaxConcurrent(cfg.MaxConcurrentKDF),
	)
	defer func() {
		if err := svc.Close(); err != nil {
			log.Error("failed to close note store", logging.Error(err))
		}
	}()

	handler := server.NewHandler(svc,
		server.WithLogger(log),
		server.WithBaseURL(cfg.BaseURL),
		server.WithMaxBodyBytes(cfg.MaxBodyBytes),
	)

	timeouts := server.Timeouts{
		Read:     cfg.ReadTimeout,
		Write:    cfg.WriteTimeout,
		Shutdown: cfg.ShutdownTimeout,
	}
	if err := server.Run(ctx, cfg.ListenAddr(), handler, timeouts, log); err != nil {
		log.Error("server stopped", logging.Error(err))
		svc.Close()
		HandleError(err)
	}
}
