package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aidosmk/kzrates/app/feed"
	"github.com/aidosmk/kzrates/app/history"
	"github.com/aidosmk/kzrates/app/snapshot"
)

// SnapshotTask runs the whole pipeline once: pick the target date, fetch
// the feed, parse it, and replace the published snapshot when the parsed
// rate set is non-empty. Terminal failures are returned to the caller,
// which owns the failure status line; recovered outcomes (not yet
// published, skipped write) are logged here and return nil.
type SnapshotTask struct {
	Task
	source       *feed.Source
	fetcher      *feed.Fetcher
	parser       *feed.Parser
	datePolicy   feed.DatePolicy
	dateOverride string
	outputPath   string
	historyRepo  history.Repository
}

func NewSnapshotTask(source *feed.Source, fetcher *feed.Fetcher, parser *feed.Parser,
	datePolicy feed.DatePolicy, dateOverride string, outputPath string,
	historyRepo history.Repository) *SnapshotTask {
	return &SnapshotTask{
		Task:         NewTask(TaskTypeSnapshot),
		source:       source,
		fetcher:      fetcher,
		parser:       parser,
		datePolicy:   datePolicy,
		dateOverride: dateOverride,
		outputPath:   outputPath,
		historyRepo:  historyRepo,
	}
}

func (t *SnapshotTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	targetDate := t.dateOverride
	if targetDate == "" {
		targetDate = feed.TargetDate(time.Now(), t.datePolicy, t.source.DateLayout)
	}
	slog.Debug("Requesting feed", "source", t.source.Name, "date", targetDate)

	data, err := t.fetcher.Fetch(ctx, targetDate)
	if err != nil {
		t.recordRun(history.Run{TargetDate: targetDate, Outcome: history.OutcomeFailed, Error: err.Error()}, nil)
		return fmt.Errorf("failed to fetch feed: %w", err)
	}

	result, err := t.parser.Run(data, targetDate)
	if err != nil {
		t.recordRun(history.Run{TargetDate: targetDate, Outcome: history.OutcomeFailed, Error: err.Error()}, nil)
		return fmt.Errorf("failed to parse feed: %w", err)
	}

	if result.NotPublished {
		t.recordRun(history.Run{TargetDate: targetDate, RatesDate: result.Metadata.Date, Outcome: history.OutcomeNotPublished}, nil)
		slog.Info("Rates not yet published, keeping previous snapshot",
			"source", t.source.Name, "date", targetDate, "duration", t.GetDuration())
		return nil
	}

	if !snapshot.ShouldPublish(result.Rates) {
		t.recordRun(history.Run{TargetDate: targetDate, RatesDate: result.Metadata.Date, Outcome: history.OutcomeSkipped}, nil)
		slog.Info("No valid rates in feed, keeping previous snapshot",
			"source", t.source.Name, "date", targetDate, "duration", t.GetDuration())
		return nil
	}

	snap := snapshot.New(result.Metadata, result.Rates)
	if err := snapshot.Write(t.outputPath, snap); err != nil {
		t.recordRun(history.Run{TargetDate: targetDate, RatesDate: result.Metadata.Date,
			Outcome: history.OutcomeFailed, RateCount: len(result.Rates), Error: err.Error()}, nil)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	t.recordRun(history.Run{TargetDate: targetDate, RatesDate: result.Metadata.Date,
		Outcome: history.OutcomePublished, RateCount: len(result.Rates)}, result.Rates)
	slog.Info("Snapshot published",
		"source", t.source.Name,
		"date", result.Metadata.Date,
		"rates", len(result.Rates),
		"path", t.outputPath,
		"duration", t.GetDuration())

	return nil
}

// recordRun archives the run outcome. Archiving is best-effort and never
// fails the pipeline.
func (t *SnapshotTask) recordRun(run history.Run, rates []feed.Rate) {
	run.Source = t.source.Name
	if err := t.historyRepo.RecordRun(run, rates); err != nil {
		slog.Warn("Failed to archive run", "source", t.source.Name, "error", err)
	}
}
