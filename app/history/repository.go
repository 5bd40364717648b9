package history

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aidosmk/kzrates/app/feed"
)

// SQLiteRepository archives runs to a local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (or creates) the history database and applies
// pending migrations.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	version, dirty, err := runMigrations(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	slog.Debug("History database ready", "path", dbPath, "migration_version", version, "dirty", dirty)

	return &SQLiteRepository{db: db}, nil
}

// RecordRun stores one run and its rates in a single transaction.
func (r *SQLiteRepository) RecordRun(run Run, rates []feed.Rate) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO runs (run_at, source, target_date, rates_date, outcome, rate_count, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, time.Now().UTC().Unix(), run.Source, run.TargetDate, run.RatesDate,
		string(run.Outcome), run.RateCount, run.Error)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get run id: %w", err)
	}

	for _, rate := range rates {
		_, err := tx.Exec(`
			INSERT INTO run_rates (run_id, code, fullname, rate, quant, index_flag, change)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, runID, rate.Code, rate.FullName, rate.Rate, rate.Quant, rate.Index, rate.Change)
		if err != nil {
			return fmt.Errorf("failed to insert rate %s: %w", rate.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	return nil
}

// RecentRuns returns the most recent runs, newest first.
func (r *SQLiteRepository) RecentRuns(limit int) ([]Run, error) {
	rows, err := r.db.Query(`
		SELECT source, target_date, COALESCE(rates_date, ''), outcome, rate_count, COALESCE(error, '')
		FROM runs
		ORDER BY run_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var outcome string
		if err := rows.Scan(&run.Source, &run.TargetDate, &run.RatesDate, &outcome, &run.RateCount, &run.Error); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		run.Outcome = Outcome(outcome)
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run rows: %w", err)
	}

	return runs, nil
}

// RatesForRun returns the archived rates of the most recent run for the
// given target date, in feed order.
func (r *SQLiteRepository) RatesForRun(targetDate string) ([]feed.Rate, error) {
	rows, err := r.db.Query(`
		SELECT rr.code, rr.fullname, rr.rate, rr.quant, rr.index_flag, rr.change
		FROM run_rates rr
		JOIN runs ON runs.id = rr.run_id
		WHERE runs.id = (
			SELECT id FROM runs WHERE target_date = ? ORDER BY run_at DESC, id DESC LIMIT 1
		)
		ORDER BY rr.id
	`, targetDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query rates: %w", err)
	}
	defer rows.Close()

	var rates []feed.Rate
	for rows.Next() {
		var rate feed.Rate
		if err := rows.Scan(&rate.Code, &rate.FullName, &rate.Rate, &rate.Quant, &rate.Index, &rate.Change); err != nil {
			return nil, fmt.Errorf("failed to scan rate row: %w", err)
		}
		rates = append(rates, rate)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rate rows: %w", err)
	}

	return rates, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
