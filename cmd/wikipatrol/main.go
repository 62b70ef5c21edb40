package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wikipatrol/internal/config"
	"wikipatrol/internal/logging"
	"wikipatrol/internal/monitor"
	"wikipatrol/internal/notify"
	"wikipatrol/internal/storage"
	"wikipatrol/internal/wiki"
)

func main() {
	configPath := flag.String("config", "config.yml", "Path to the configuration file")
	apiURL := flag.String("api-url", "", "api.php URL of the wiki to watch (overrides config)")
	once := flag.Bool("once", false, "Run a single pass and exit even if an interval is configured")
	flag.Parse()

	var cfg *config.Config
	var err error
	if *apiURL != "" {
		cfg, err = config.LoadWithAPIURL(*configPath, *apiURL)
	} else {
		cfg, err = config.Load(*configPath)
	}
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.Shutdown()

	host, err := cfg.Wiki.Host()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	classifier, err := monitor.NewClassifier(cfg.Rules)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.NewStore(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to open watermark store: %v", err)
	}
	defer store.Close(context.Background())

	notifier, err := notify.New(cfg.Notify)
	if err != nil {
		log.Fatalf("Failed to set up notifications: %v", err)
	}
	defer notifier.Close()

	client := wiki.NewClient(cfg.Wiki)
	mon := monitor.New(client, store, classifier, host, cfg.Monitor.FetchWorkers, slog.Default())

	runOnce := func(ctx context.Context) error {
		res, err := mon.Run(ctx)
		if err != nil {
			return err
		}
		if res.Report != "" {
			fmt.Print(res.Report)
			if err := notifier.Publish(ctx, host, res.Report); err != nil {
				slog.Warn("report publish failed", "error", err)
			}
		}
		for _, warn := range res.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", warn)
		}
		return nil
	}

	if *once || cfg.Monitor.Interval <= 0 {
		if err := runOnce(ctx); err != nil {
			slog.Error("run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	slog.Info("watching wiki", "wiki", host, "interval", cfg.Monitor.Interval)
	if err := runOnce(ctx); err != nil {
		slog.Error("run failed", "error", err)
	}

	ticker := time.NewTicker(cfg.Monitor.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := runOnce(ctx); err != nil {
				slog.Error("run failed", "error", err)
			}
		case sig := <-sigCh:
			slog.Info("received shutdown signal", "signal", sig.String())
			return
		}
	}
}
