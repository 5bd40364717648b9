package feed

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDateParam  = "fdate"
	DefaultDateLayout = "02.01.2006"

	// Marker phrase the feed puts into its info element on days the rates
	// have not been published yet.
	DefaultMarker = "информации нет"
)

// Source describes one rate feed: where to fetch it and how to recognize
// its "not yet published" state.
type Source struct {
	Name       string `yaml:"name"`
	URL        string `yaml:"url"`
	DateParam  string `yaml:"date_param"`
	DateLayout string `yaml:"date_format"`
	Marker     string `yaml:"not_published_marker"`
}

// DefaultSource returns the built-in National Bank of Kazakhstan feed.
func DefaultSource() *Source {
	return &Source{
		Name:       "nbk",
		URL:        "https://nationalbank.kz/rss/get_rates.cfm",
		DateParam:  DefaultDateParam,
		DateLayout: DefaultDateLayout,
		Marker:     DefaultMarker,
	}
}

// LoadSource loads a source definition from a YAML file, applies defaults
// and validates it.
func LoadSource(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file: %w", err)
	}

	var source Source
	if err := yaml.Unmarshal(data, &source); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	setDefaults(&source, path)

	if err := validate(&source); err != nil {
		return nil, fmt.Errorf("invalid source %s: %w", path, err)
	}

	return &source, nil
}

// setDefaults applies default values to a loaded source definition. The
// name falls back to the file name without extension.
func setDefaults(source *Source, path string) {
	if source.Name == "" {
		base := filepath.Base(path)
		source.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if source.DateParam == "" {
		source.DateParam = DefaultDateParam
	}
	if source.DateLayout == "" {
		source.DateLayout = DefaultDateLayout
	}
	if source.Marker == "" {
		source.Marker = DefaultMarker
	}
}

func validate(source *Source) error {
	if source.URL == "" {
		return fmt.Errorf("source URL is required")
	}
	return nil
}

// IsNotPublished reports whether the feed's info text carries the
// "no information available" marker. The marker string is the single
// point of change if the upstream wording changes.
func (s *Source) IsNotPublished(info string) bool {
	if info == "" {
		return false
	}
	return strings.Contains(strings.ToLower(info), strings.ToLower(s.Marker))
}
