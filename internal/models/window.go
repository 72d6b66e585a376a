package models

import "time"

// Window is a half-open reporting interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Duration returns the length of the window.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Valid reports whether the window is non-empty.
func (w Window) Valid() bool {
	return w.Start.Before(w.End)
}

// Label returns the billing month of the window, e.g. "August 2025".
func (w Window) Label() string {
	return w.Start.Format("January 2006")
}
