package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dataviz/adapters/excel"
	"dataviz/app"
	"dataviz/internal"
	"dataviz/internal/config"
	"dataviz/internal/session"
	"dataviz/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	internal.DefaultLogger = logger
	logger.Info("[Startup] max upload %dMB, session ttl %s, max sessions %d, filter workers %d",
		cfg.Server.MaxUploadMB, cfg.Session.TTL, cfg.Session.MaxSessions, cfg.Pipeline.FilterWorkers)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := session.NewMemoryStore(cfg.Session, logger)
	sweeperDone := store.StartSweeper(ctx, sweepInterval(cfg.Session.TTL))

	server, err := ui.NewServer(*cfg, store, excel.NewLoader(), app.NewPipelineService(cfg.Pipeline, logger), logger)
	if err != nil {
		return err
	}

	err = server.Run(ctx, ":"+cfg.Server.Port)
	stop()
	<-sweeperDone
	return err
}

// sweepInterval checks for idle sessions a few times per TTL
func sweepInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	if interval > 5*time.Minute {
		interval = 5 * time.Minute
	}
	return interval
}
