package snapshot

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/aidosmk/kzrates/app/feed"
)

func TestShouldPublish(t *testing.T) {
	tests := []struct {
		name     string
		rates    []feed.Rate
		expected bool
	}{
		{
			name:     "empty rate set",
			rates:    nil,
			expected: false,
		},
		{
			name:     "empty non-nil rate set",
			rates:    []feed.Rate{},
			expected: false,
		},
		{
			name:     "single rate",
			rates:    []feed.Rate{{Code: "USD", Rate: 450.25, Quant: 1}},
			expected: true,
		},
		{
			name: "multiple rates",
			rates: []feed.Rate{
				{Code: "USD", Rate: 450.25, Quant: 1},
				{Code: "EUR", Rate: 490.10, Quant: 1},
			},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldPublish(tt.rates); got != tt.expected {
				t.Errorf("ShouldPublish() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNewKeepsFeedOrder(t *testing.T) {
	meta := feed.Metadata{Date: "15.01.2026", RetrievedAt: time.Now().UTC()}
	rates := []feed.Rate{
		{FullName: "Доллар США", Code: "USD", Rate: 450.25, Quant: 1, Index: "UP", Change: 0.5},
		{FullName: "Евро", Code: "EUR", Rate: 490.10, Quant: 1, Index: "NONE"},
		{FullName: "Венгерский форинт", Code: "HUF", Rate: 1.32, Quant: 100, Index: "DOWN", Change: -0.01},
	}

	snap := New(meta, rates)

	if len(snap.Rates) != 3 {
		t.Fatalf("Expected 3 rates, got: %d", len(snap.Rates))
	}
	for i, code := range []string{"USD", "EUR", "HUF"} {
		if snap.Rates[i].Code != code {
			t.Errorf("Expected rate %d to be %s, got: %s", i, code, snap.Rates[i].Code)
		}
	}
}

func TestNewNullableMetadata(t *testing.T) {
	meta := feed.Metadata{
		Date:        "15.01.2026",
		Title:       "Официальные курсы валют",
		RetrievedAt: time.Date(2026, time.January, 15, 6, 0, 0, 0, time.UTC),
	}

	snap := New(meta, []feed.Rate{{FullName: "Доллар США", Code: "USD", Rate: 450.25, Quant: 1, Index: "NONE"}})

	if snap.Metadata.Title == nil || *snap.Metadata.Title != "Официальные курсы валют" {
		t.Error("Expected title to be carried over")
	}
	if snap.Metadata.Generator != nil {
		t.Error("Expected absent generator to be nil")
	}

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	body := string(data)
	if !strings.Contains(body, `"generator":null`) {
		t.Errorf("Expected absent metadata fields serialized as null, got: %s", body)
	}
	if !strings.Contains(body, `"retrieved_at":"2026-01-15T06:00:00Z"`) {
		t.Errorf("Expected RFC 3339 retrieved_at, got: %s", body)
	}
}
