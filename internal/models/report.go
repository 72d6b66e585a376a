package models

import (
	"sort"
	"time"
)

// UnitBitsPerSecond is the unit of every computed percentile.
const UnitBitsPerSecond = "bps"

// ReportEntry is the result for a single port.
type ReportEntry struct {
	Port       Port
	Customer   string
	Percentile float64
	Unit       string
	Samples    int
	// Available is false when the window held no usable samples.
	Available bool
	// Rates holds the per-sample rates in bits/s, used for charts.
	Rates []float64
}

// SkippedPort records a port left out of the report and why.
type SkippedPort struct {
	Port   Port
	Reason string
}

// CustomerTotal is the billable figure for one customer: the highest 95th
// percentile among its ports.
type CustomerTotal struct {
	Customer   string
	Percentile float64
	Interfaces int
	Available  bool
}

// Report is the outcome of one run.
type Report struct {
	Window      Window
	GeneratedAt time.Time
	Entries     []ReportEntry
	Skipped     []SkippedPort
}

// Title returns the report heading, also used as the email subject.
func (r *Report) Title() string {
	return "95th Percentile Billing Report for " + r.Window.Label()
}

// Customers groups entries by customer, sorted by name.
func (r *Report) Customers() []CustomerTotal {
	byName := make(map[string]*CustomerTotal)
	for _, e := range r.Entries {
		total, ok := byName[e.Customer]
		if !ok {
			total = &CustomerTotal{Customer: e.Customer}
			byName[e.Customer] = total
		}
		total.Interfaces++
		if !e.Available {
			continue
		}
		if !total.Available || e.Percentile > total.Percentile {
			total.Percentile = e.Percentile
		}
		total.Available = true
	}

	totals := make([]CustomerTotal, 0, len(byName))
	for _, total := range byName {
		totals = append(totals, *total)
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Customer < totals[j].Customer
	})
	return totals
}
