package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rssradar/app/api"
	"rssradar/app/cfg"
	"rssradar/app/consumer"
	"rssradar/app/database"
	"rssradar/app/llm"
	"rssradar/app/source"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was requested
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting RSS Radar", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "migration_version", version, "dirty", dirty)

	itemRepo := database.NewItemRepository(db)
	resultRepo := database.NewResultRepository(db)
	sourceRepo := database.NewSourceRepository(db)

	configCache := source.NewConfigCache(appCfg.FeedsDir)
	if err := configCache.Run(); err != nil {
		slog.Error("Failed to load source configurations", "dir", appCfg.FeedsDir, "error", err)
		os.Exit(1)
	}

	httpClient := &http.Client{}

	var sources []source.Source
	for _, config := range configCache.GetEnabledConfigs() {
		src, err := source.New(config, httpClient, appCfg.UserAgent)
		if err != nil {
			slog.Warn("Skipping source", "source", config.Name, "error", err)
			continue
		}
		sources = append(sources, src)
		slog.Info("Source configured", "source", config.Name, "kind", src.Describe().Kind, "url", config.URL)
	}

	if len(sources) == 0 {
		slog.Warn("No enabled sources configured", "dir", appCfg.FeedsDir)
	}

	llmClient := llm.NewServerClient(appCfg.LLMServerURL, &http.Client{})
	scorer := llm.NewScorer(llmClient, appCfg.LLMMaxTokens, appCfg.LLMTemperature,
		time.Duration(appCfg.LLMTimeout)*time.Second)

	feedConsumer := consumer.NewConsumer(sources, scorer, itemRepo, resultRepo, sourceRepo, appCfg.Query)
	scheduler := consumer.NewScheduler(feedConsumer, itemRepo, consumer.NewClock(),
		time.Duration(appCfg.Interval)*time.Minute, appCfg.MaxRuns, appCfg.CleanupDays)

	schedulerCtx, cancelScheduler := context.WithCancel(context.Background())
	schedulerDone := make(chan error, 1)
	go func() {
		slog.Info("Starting scheduler",
			"query", appCfg.Query, "interval_minutes", appCfg.Interval,
			"max_runs", appCfg.MaxRuns, "cleanup_days", appCfg.CleanupDays)
		schedulerDone <- scheduler.Run(schedulerCtx)
	}()

	handler := api.NewHandler(itemRepo, resultRepo, sourceRepo)
	server := api.NewServer(handler)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	case err := <-schedulerDone:
		if err != nil {
			slog.Error("Scheduler stopped with error", "error", err)
		} else {
			slog.Info("Scheduler finished")
		}
	}

	slog.Info("Shutting down")

	cancelScheduler()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
