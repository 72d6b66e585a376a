package period

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func date(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.UTC)
}

func TestResolve_PreviousMonth(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{"January rolls back a year", date(2024, time.January, 15, 9, 30), date(2023, time.December, 1, 0, 0), date(2024, time.January, 1, 0, 0)},
		{"First instant of month", date(2025, time.March, 1, 0, 0), date(2025, time.February, 1, 0, 0), date(2025, time.March, 1, 0, 0)},
		{"Last day of month", date(2025, time.August, 31, 23, 59), date(2025, time.July, 1, 0, 0), date(2025, time.August, 1, 0, 0)},
		{"Leap year March", date(2024, time.March, 10, 12, 0), date(2024, time.February, 1, 0, 0), date(2024, time.March, 1, 0, 0)},
		{"December", date(2025, time.December, 2, 1, 0), date(2025, time.November, 1, 0, 0), date(2025, time.December, 1, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Resolve(tt.now, true)
			if !w.Start.Equal(tt.wantStart) || !w.End.Equal(tt.wantEnd) {
				t.Errorf("Resolve(%v, true) = [%v, %v), want [%v, %v)", tt.now, w.Start, w.End, tt.wantStart, tt.wantEnd)
			}
			if !w.Valid() {
				t.Errorf("window [%v, %v) is not valid", w.Start, w.End)
			}
		})
	}
}

func TestResolve_PreviousMonthAlwaysAligned(t *testing.T) {
	now := date(2020, time.January, 1, 0, 0)
	for i := 0; i < 3*366; i++ {
		w := Resolve(now, true)
		for _, ts := range []time.Time{w.Start, w.End} {
			if ts.Day() != 1 || ts.Hour() != 0 || ts.Minute() != 0 || ts.Second() != 0 {
				t.Fatalf("Resolve(%v, true) boundary %v not aligned to month start", now, ts)
			}
		}
		if w.End.Month() != now.Month() || w.End.Year() != now.Year() {
			t.Fatalf("Resolve(%v, true) end %v not in the current month", now, w.End)
		}
		if !w.Valid() {
			t.Fatalf("Resolve(%v, true) = empty window", now)
		}
		now = now.Add(24*time.Hour + 7*time.Minute)
	}
}

func TestResolve_MonthToDate(t *testing.T) {
	now := date(2025, time.October, 19, 14, 5)
	w := Resolve(now, false)

	if !w.Start.Equal(date(2025, time.October, 1, 0, 0)) {
		t.Errorf("Start = %v, want 2025-10-01", w.Start)
	}
	if !w.End.Equal(now) {
		t.Errorf("End = %v, want %v", w.End, now)
	}
}

func TestResolve_MonthToDateAtMonthStart(t *testing.T) {
	now := date(2024, time.March, 1, 0, 0)
	w := Resolve(now, false)

	if !w.Valid() {
		t.Fatalf("Resolve(%v, false) = empty window [%v, %v)", now, w.Start, w.End)
	}
	if !w.Start.Equal(date(2024, time.February, 1, 0, 0)) || !w.End.Equal(now) {
		t.Errorf("Resolve(%v, false) = [%v, %v), want February 2024", now, w.Start, w.End)
	}

	// One second later month-to-date applies again.
	w = Resolve(now.Add(time.Second), false)
	if !w.Start.Equal(now) {
		t.Errorf("Start = %v, want %v", w.Start, now)
	}
}

func TestResolve_KeepsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	// 2024-02-01 03:00 local is still January in UTC.
	now := time.Date(2024, time.February, 1, 3, 0, 0, 0, loc)

	w := Resolve(now, true)
	want := time.Date(2024, time.January, 1, 0, 0, 0, 0, loc)
	if !w.Start.Equal(want) || w.Start.Location() != loc {
		t.Errorf("Start = %v, want %v", w.Start, want)
	}
	if w.Label() != "January 2024" {
		t.Errorf("Label() = %q, want January 2024", w.Label())
	}
}

func TestService_Current(t *testing.T) {
	clock := clockwork.NewFakeClockAt(date(2024, time.January, 3, 8, 0))
	svc := New(clock)

	prev := svc.Current(true)
	if !prev.Start.Equal(date(2023, time.December, 1, 0, 0)) || !prev.End.Equal(date(2024, time.January, 1, 0, 0)) {
		t.Errorf("Current(true) = [%v, %v)", prev.Start, prev.End)
	}

	clock.Advance(48 * time.Hour)
	mtd := svc.Current(false)
	if !mtd.End.Equal(date(2024, time.January, 5, 8, 0)) {
		t.Errorf("Current(false).End = %v, want advanced clock time", mtd.End)
	}
	if !svc.Now().Equal(mtd.End) {
		t.Errorf("Now() = %v, want %v", svc.Now(), mtd.End)
	}
}

func TestNew_NilClock(t *testing.T) {
	svc := New(nil)
	if time.Since(svc.Now()) > time.Minute {
		t.Error("New(nil) should use the real clock")
	}
}
