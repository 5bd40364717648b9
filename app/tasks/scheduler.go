package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler runs a fresh snapshot task on a cron schedule. Each tick is an
// independent run; failures are logged and the schedule keeps going.
type Scheduler struct {
	cron    *cron.Cron
	ctx     context.Context
	newTask func() TaskInterface
}

func NewScheduler(ctx context.Context, newTask func() TaskInterface) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		ctx:     ctx,
		newTask: newTask,
	}
}

func (s *Scheduler) Register(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.runOnce); err != nil {
		return fmt.Errorf("failed to register schedule %q: %w", spec, err)
	}
	return nil
}

func (s *Scheduler) runOnce() {
	task := s.newTask()
	task.Start()
	if err := task.Execute(s.ctx); err != nil {
		slog.Error("Scheduled run failed", "type", string(task.GetType()), "id", task.GetID(), "error", err)
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("Scheduler started")
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	slog.Info("Scheduler stopped")
}
