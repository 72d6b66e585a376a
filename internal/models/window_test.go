package models

import (
	"testing"
	"time"
)

func TestWindow_Contains(t *testing.T) {
	w := Window{
		Start: time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"Start", w.Start, true},
		{"Middle", time.Date(2025, time.August, 15, 12, 0, 0, 0, time.UTC), true},
		{"JustBeforeEnd", w.End.Add(-time.Second), true},
		{"End", w.End, false},
		{"BeforeStart", w.Start.Add(-time.Second), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.Contains(tt.t); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}

	if !w.Valid() {
		t.Error("Valid() = false for a non-empty window")
	}
	if got := w.Duration(); got != 31*24*time.Hour {
		t.Errorf("Duration() = %v", got)
	}
	if got := w.Label(); got != "August 2025" {
		t.Errorf("Label() = %q, want %q", got, "August 2025")
	}
}

func TestWindow_Invalid(t *testing.T) {
	now := time.Now()
	if (Window{Start: now, End: now}).Valid() {
		t.Error("Valid() = true for an empty window")
	}
}
