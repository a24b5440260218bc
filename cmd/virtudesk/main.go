package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Shlok-Goswami/virtudesk/internal/config"
	"github.com/Shlok-Goswami/virtudesk/internal/directory"
	"github.com/Shlok-Goswami/virtudesk/internal/logger"
	"github.com/Shlok-Goswami/virtudesk/internal/minutes"
	"github.com/Shlok-Goswami/virtudesk/internal/server"
	"github.com/Shlok-Goswami/virtudesk/internal/session"
	"github.com/Shlok-Goswami/virtudesk/internal/storage"
	"github.com/Shlok-Goswami/virtudesk/internal/summarizer"
	"github.com/Shlok-Goswami/virtudesk/internal/transcriber"
	"github.com/Shlok-Goswami/virtudesk/internal/watcher"
)

func main() {
	ctx := context.Background()

	// Local overrides first; neither file is required.
	godotenv.Load(".env.local")
	godotenv.Load(".env")

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log.Info(ctx, "VirtuDesk meeting recap service starting")
	log.Info(ctx, "Summarizer backend: %s", cfg.Summarizer.Backend)

	store, err := storage.New(cfg.Storage, log)
	if err != nil {
		log.Error(ctx, "Failed to open storage: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	mgr := session.NewManager(cfg.Session, session.Deps{
		Transcriber: transcriber.New(cfg.Transcriber, log),
		Summarizer:  summarizer.New(cfg.Summarizer, log),
		Resolver:    directory.New(cfg.Directory, log),
		Sink:        store,
		Minutes:     minutes.New(cfg.Paths.Artifacts, log),
	}, log)

	srv := server.New(cfg.Server, mgr, store, log)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errChan := make(chan error, 2)

	if cfg.Paths.Spool != "" {
		if err := os.MkdirAll(cfg.Paths.Spool, 0755); err != nil {
			log.Error(ctx, "Failed to create spool directory: %v", err)
			os.Exit(1)
		}
		w, err := watcher.New(cfg.Paths.Spool, watcher.NewSpoolHandler(mgr, log), log, cfg.Session.MaxConcurrentTranscriptions)
		if err != nil {
			log.Error(ctx, "Failed to create spool watcher: %v", err)
			os.Exit(1)
		}
		defer w.Stop()
		go func() {
			if err := w.Start(ctx); err != nil && err != context.Canceled {
				errChan <- err
			}
		}()
		log.Info(ctx, "Spool ingestion enabled: %s", cfg.Paths.Spool)
	}

	go func() {
		log.Info(ctx, "Listening on %s", cfg.Server.Addr)
		if err := srv.Run(); err != nil {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "Fatal: %v", err)
	}

	log.Info(ctx, "Shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn(ctx, "Server shutdown: %v", err)
	}

	log.Info(ctx, "VirtuDesk meeting recap service stopped")
}
