package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Pipeline configuration
	OutputPath string `long:"output" env:"OUTPUT_PATH" default:"data/latest_rates.json" description:"Path of the published JSON snapshot"`
	SourceFile string `long:"source" env:"SOURCE_FILE" description:"YAML source definition file (optional, defaults to the built-in NBK feed)"`
	HistoryDB  string `long:"history-db" env:"HISTORY_DB" description:"SQLite database for per-run history (archiving disabled when empty)"`
	Timeout    int    `long:"timeout" env:"FETCH_TIMEOUT" default:"15" description:"HTTP fetch timeout in seconds"`
	Schedule   string `long:"schedule" env:"SCHEDULE" description:"Cron expression for daemon mode (runs once and exits when empty)"`
	Date       string `long:"date" env:"TARGET_DATE" description:"Override the requested date (DD.MM.YYYY)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"kzrates/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"Asia/Almaty" description:"Timezone used to pick the target date"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		OutputPath: raw.OutputPath,
		SourceFile: raw.SourceFile,
		HistoryDB:  raw.HistoryDB,
		Timeout:    raw.Timeout,
		Schedule:   raw.Schedule,
		Date:       raw.Date,
		UserAgent:  raw.UserAgent,
		Timezone:   raw.Timezone,
		Debug:      raw.Debug,
		Version:    GetVersion(),
	}

	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("fetch timeout must be positive, got %d", cfg.Timeout)
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
