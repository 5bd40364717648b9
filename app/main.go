package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aidosmk/kzrates/app/cfg"
	"github.com/aidosmk/kzrates/app/feed"
	"github.com/aidosmk/kzrates/app/history"
	"github.com/aidosmk/kzrates/app/tasks"
)

func main() {
	os.Exit(run())
}

func run() int {
	config, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}
	if config == nil {
		// Help was shown, exit gracefully
		return 0
	}

	setupLogger(config.Debug)

	slog.Info("Starting rate snapshot pipeline", "version", config.Version)

	source := feed.DefaultSource()
	if config.SourceFile != "" {
		source, err = feed.LoadSource(config.SourceFile)
		if err != nil {
			slog.Error("Failed to load source definition", "error", err)
			return 1
		}
	}
	slog.Debug("Source configured", "name", source.Name, "url", source.URL)

	if config.Date != "" {
		if _, err := time.Parse(source.DateLayout, config.Date); err != nil {
			slog.Error("Invalid date override", "date", config.Date, "expected_format", source.DateLayout)
			return 1
		}
	}

	httpClient := &http.Client{
		Timeout: time.Duration(config.Timeout) * time.Second,
	}
	fetcher := feed.NewFetcher(source, httpClient, config.UserAgent)
	parser := feed.NewParser(source)

	var historyRepo history.Repository = history.NewNoopRepository()
	if config.HistoryDB != "" {
		repo, err := history.NewSQLiteRepository(config.HistoryDB)
		if err != nil {
			slog.Warn("Failed to open history database, archiving disabled", "error", err)
		} else {
			historyRepo = repo
			defer repo.Close()
		}
	}

	newTask := func() tasks.TaskInterface {
		return tasks.NewSnapshotTask(source, fetcher, parser,
			feed.CurrentDate, config.Date, config.OutputPath, historyRepo)
	}

	if config.Schedule == "" {
		task := newTask()
		task.Start()
		if err := task.Execute(context.Background()); err != nil {
			slog.Error("Pipeline run failed", "type", string(task.GetType()), "id", task.GetID(), "error", err)
			return 1
		}
		return 0
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scheduler := tasks.NewScheduler(ctx, newTask)
	if err := scheduler.Register(config.Schedule); err != nil {
		slog.Error("Failed to register schedule", "error", err)
		return 1
	}
	scheduler.Start()
	defer scheduler.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	slog.Info("Received signal, shutting down", "signal", sig.String())

	return 0
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})))
}
