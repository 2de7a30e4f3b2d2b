package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/quotewatch/isin-data/internal/api"
	"github.com/quotewatch/isin-data/internal/calendar"
	"github.com/quotewatch/isin-data/internal/config"
	"github.com/quotewatch/isin-data/internal/database"
	"github.com/quotewatch/isin-data/internal/history"
	"github.com/quotewatch/isin-data/internal/logo"
	"github.com/quotewatch/isin-data/internal/model"
	"github.com/quotewatch/isin-data/internal/poller"
	"github.com/quotewatch/isin-data/internal/quote"
	"github.com/quotewatch/isin-data/internal/server"
	"github.com/quotewatch/isin-data/internal/version"
	"github.com/quotewatch/isin-data/internal/writer"
)

func main() {
	configPath := flag.String("config", "configs/watcher.yaml", "path to config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting watcher",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"api_url", cfg.API.BaseURL,
		"instruments", len(cfg.Instruments),
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Create API client
	apiClient := api.NewClient(
		cfg.API.BaseURL,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
	)

	cal := calendar.Default()

	// Scheduling driver and one coordinator per instrument
	p := poller.New(poller.Config{CycleTimeout: cfg.Poller.CycleTimeout}, logger)
	for _, ic := range cfg.Instruments {
		coord := quote.New(quote.Config{
			Instrument:     ic.Instrument(),
			OpenInterval:   cfg.Poller.OpenInterval,
			ClosedInterval: cfg.Poller.ClosedInterval,
		}, apiClient, cal, logger)
		p.Register(coord)
	}

	// On-disk caches
	charts := history.NewCache(filepath.Join(cfg.Cache.Dir, "charts"), apiClient, logger)
	logos := logo.NewCache(filepath.Join(cfg.Cache.Dir, "logos"), apiClient, logger)

	p.Subscribe(poller.SnapshotHandlerFunc(func(_ uuid.UUID, snap model.Snapshot) error {
		_, err := logos.Ensure(ctx, snap.ISIN, snap.AssetClass())
		return err
	}))

	// Optional quote-history persistence
	var histWriter *writer.HistoryWriter
	if cfg.History.Enabled {
		logger.Info("connecting to database",
			"host", cfg.History.Database.Host,
			"port", cfg.History.Database.Port,
			"database", cfg.History.Database.Name,
		)

		pool, err := database.Connect(ctx, cfg.History.Database)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		logger.Info("database connected")

		histWriter = writer.NewHistoryWriter(writer.Config{
			BatchSize:     cfg.History.BatchSize,
			FlushInterval: cfg.History.FlushInterval,
			BufferSize:    cfg.History.BufferSize,
		}, pool, logger)

		p.Subscribe(poller.SnapshotHandlerFunc(func(_ uuid.UUID, snap model.Snapshot) error {
			histWriter.Enqueue(snap)
			return nil
		}))
	}

	// HTTP and WebSocket surface
	srv := server.New(server.Config{
		Port:        cfg.Server.Port,
		MinInterval: config.MinUpdateInterval,
		MaxInterval: config.MaxUpdateInterval,
	}, p, apiClient, charts, logger)
	p.Subscribe(srv.Hub())

	// Start components: writer first so no snapshot is dropped
	if histWriter != nil {
		if err := histWriter.Start(ctx); err != nil {
			logger.Error("failed to start history writer", "error", err)
			os.Exit(1)
		}
	}
	if err := p.Start(ctx); err != nil {
		logger.Error("failed to start poller", "error", err)
		os.Exit(1)
	}
	if err := srv.Start(ctx); err != nil {
		logger.Error("failed to start server", "error", err)
		os.Exit(1)
	}

	logger.Info("watcher running",
		"instance_id", cfg.Instance.ID,
		"health_url", fmt.Sprintf("http://localhost:%d/healthz", cfg.Server.Port),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop intake first, then drain the rest in parallel
	if err := p.Stop(shutdownCtx); err != nil {
		logger.Error("poller shutdown error", "error", err)
	}

	var g errgroup.Group
	g.Go(func() error { return srv.Stop(shutdownCtx) })
	if histWriter != nil {
		g.Go(func() error { return histWriter.Stop(shutdownCtx) })
	}
	if err := g.Wait(); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("watcher stopped")
}
