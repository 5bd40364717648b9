package history

import (
	"github.com/aidosmk/kzrates/app/feed"
)

type Outcome string

const (
	OutcomePublished    Outcome = "published"
	OutcomeSkipped      Outcome = "skipped"
	OutcomeNotPublished Outcome = "not_published"
	OutcomeFailed       Outcome = "failed"
)

// Run is the archived record of one pipeline execution.
type Run struct {
	Source     string
	TargetDate string
	RatesDate  string
	Outcome    Outcome
	RateCount  int
	Error      string
}

// Repository archives pipeline runs and their published rates. Archiving
// failures must never abort the pipeline; callers log and continue.
type Repository interface {
	RecordRun(run Run, rates []feed.Rate) error
	Close() error
}

// NoopRepository is used when no history database is configured.
type NoopRepository struct{}

func NewNoopRepository() *NoopRepository {
	return &NoopRepository{}
}

func (r *NoopRepository) RecordRun(Run, []feed.Rate) error { return nil }

func (r *NoopRepository) Close() error { return nil }
