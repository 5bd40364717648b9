package feed

import (
	"testing"
	"time"
)

func TestTargetDate(t *testing.T) {
	now := time.Date(2026, time.March, 5, 8, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		policy   DatePolicy
		layout   string
		expected string
	}{
		{
			name:     "current date policy zero-pads",
			policy:   CurrentDate,
			layout:   DefaultDateLayout,
			expected: "05.03.2026",
		},
		{
			name:     "nil policy defaults to current date",
			policy:   nil,
			layout:   DefaultDateLayout,
			expected: "05.03.2026",
		},
		{
			name:     "next date policy requests the following day",
			policy:   NextDate,
			layout:   DefaultDateLayout,
			expected: "06.03.2026",
		},
		{
			name:     "empty layout falls back to default",
			policy:   CurrentDate,
			layout:   "",
			expected: "05.03.2026",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := TargetDate(now, tt.policy, tt.layout)
			if result != tt.expected {
				t.Errorf("TargetDate() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestNextDateCrossesMonthBoundary(t *testing.T) {
	now := time.Date(2026, time.January, 31, 23, 0, 0, 0, time.UTC)

	result := TargetDate(now, NextDate, DefaultDateLayout)
	if result != "01.02.2026" {
		t.Errorf("Expected '01.02.2026', got: %s", result)
	}
}
