// Package period resolves the billing window for a run.
package period

import (
	"errors"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/edgenative/bill95/internal/models"
)

// ErrEmptyWindow means the resolved window has no duration.
var ErrEmptyWindow = errors.New("empty reporting window")

// Resolve returns the reporting window for now. With prev set it covers the
// whole previous calendar month, otherwise the current month up to now.
// At the first instant of a month there is no month-to-date yet, so the
// previous month is returned instead.
// Month boundaries are taken in now's location.
func Resolve(now time.Time, prev bool) models.Window {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if prev || !now.After(monthStart) {
		// time.Date normalises month 0 to December of the prior year.
		return models.Window{
			Start: time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location()),
			End:   monthStart,
		}
	}
	return models.Window{Start: monthStart, End: now}
}

// Service resolves windows against an injectable clock.
type Service struct {
	clock clockwork.Clock
}

// New returns a Service. A nil clock means the real wall clock.
func New(clock clockwork.Clock) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{clock: clock}
}

// Current returns the window for the clock's current time.
func (s *Service) Current(prev bool) models.Window {
	return Resolve(s.clock.Now(), prev)
}

// Now returns the clock's current time.
func (s *Service) Now() time.Time {
	return s.clock.Now()
}
