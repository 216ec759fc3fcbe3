package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/offsync/offsync/internal/adapter"
	"github.com/offsync/offsync/internal/config"
	"github.com/offsync/offsync/internal/logger"
	"github.com/offsync/offsync/internal/rack"
	"github.com/offsync/offsync/internal/service"
	"github.com/offsync/offsync/internal/store"
	"github.com/offsync/offsync/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	// the optional mode comes first, everything after it is flags
	mode := "watch"
	args := os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		mode, args = args[0], args[1:]
	}

	cfg, err := config.Get(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error getting configs: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("offsync", cfg.Log.Level)

	backend, err := newBackend(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}

	pipeline := rack.NewPipeline(log,
		rack.NewLoggingHandler(log),
		rack.NewTimeoutHandler(),
		rack.NewStorageHandler(backend, log),
	)
	defer func() {
		if err := pipeline.Close(); err != nil {
			log.Error().Err(err).Msg("close pipeline")
		}
	}()

	remote := adapter.NewHTTPRemoteClient(adapter.HTTPConfig{
		BaseURL:   cfg.API.BaseURL,
		Namespace: cfg.App.Namespace,
		AppKey:    cfg.App.Key,
		AppSecret: cfg.App.Secret,
		Timeout:   cfg.API.RequestTimeout,
	})

	services := service.NewServices(cfg, pipeline, remote, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, mode, cfg, services, log); err != nil {
		log.Fatal().Err(err).Str("mode", mode).Msg("run failed")
	}
}

func run(ctx context.Context, mode string, cfg *config.Config, services *service.Services, log *logger.Logger) error {
	switch mode {
	case "count":
		count, err := services.Sync.Count(ctx, nil)
		if err != nil {
			return err
		}
		fmt.Printf("%d pending operations\n", count)
		return nil

	case "push":
		results, err := services.Sync.Push(ctx, nil)
		if err != nil {
			return err
		}
		failed := 0
		for _, result := range results {
			if result.Err != nil {
				failed++
				log.Warn().Err(result.Err).Str("entity_id", result.ID).Msg("push failed")
			}
		}
		fmt.Printf("pushed %d operations, %d failed\n", len(results)-failed, failed)
		return nil

	case "clear":
		removed, err := services.Sync.Clear(ctx, nil)
		if err != nil {
			return err
		}
		fmt.Printf("cleared %d pending operations\n", removed)
		return nil

	case "watch":
		ws := workers.New(workers.NewSyncWorker(services.Job, cfg.Sync.Interval))
		ws.Run(ctx)

		log.Info().Dur("interval", cfg.Sync.Interval).Msg("background sync started")
		<-ctx.Done()

		ws.Stop()
		log.Info().Msg("background sync stopped")
		return nil

	default:
		return fmt.Errorf("unknown mode %q (expected count, push, clear, or watch)", mode)
	}
}

func newBackend(cfg *config.Config, log *logger.Logger) (store.Storage, error) {
	if cfg.Storage.DSN == "" {
		return store.NewMemoryStorage(cfg.App.IDAttribute), nil
	}
	return store.NewSQLiteStorage(cfg.Storage.DSN, cfg.App.IDAttribute, log)
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
