// Package report renders billing reports and delivers them.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/edgenative/bill95/internal/models"
)

const notAvailable = "N/A"

// Options controls rendering.
type Options struct {
	// Charts appends a traffic chart per interface.
	Charts bool
	// ChartWidth and ChartHeight size each chart in characters.
	ChartWidth  int
	ChartHeight int
}

// Render returns the report as plain text.
func Render(r *models.Report, opts Options) string {
	var b strings.Builder
	Write(&b, r, opts)
	return b.String()
}

// Write renders the report to w.
func Write(w io.Writer, r *models.Report, opts Options) {
	fmt.Fprintf(w, "%s\n\n", r.Title())
	fmt.Fprintf(w, "Period: %s to %s\n\n",
		r.Window.Start.Format("2006-01-02 15:04 MST"),
		r.Window.End.Format("2006-01-02 15:04 MST"))

	if len(r.Entries) == 0 {
		if len(r.Skipped) > 0 {
			fmt.Fprintln(w, "No customer interfaces with RRD data.")
		} else {
			fmt.Fprintln(w, "No customer interfaces found.")
		}
		writeSkipped(w, r)
		writeGenerated(w, r)
		return
	}

	writeCustomers(w, r.Customers())
	fmt.Fprintln(w)
	writeInterfaces(w, r.Entries)
	writeSkipped(w, r)
	writeGenerated(w, r)

	if opts.Charts {
		for _, e := range r.Entries {
			if !e.Available {
				continue
			}
			fmt.Fprintf(w, "\n%s\n", RenderChart(e, opts.ChartWidth, opts.ChartHeight))
		}
	}
}

func writeCustomers(w io.Writer, totals []models.CustomerTotal) {
	table := newTable(w)
	table.SetHeader([]string{"Customer", "Interfaces", "95th (Mbps)", "95th"})
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	})
	for _, c := range totals {
		table.Append([]string{
			c.Customer,
			strconv.Itoa(c.Interfaces),
			formatMbps(c.Percentile, c.Available),
			formatRate(c.Percentile, c.Available),
		})
	}
	table.Render()
}

func writeInterfaces(w io.Writer, entries []models.ReportEntry) {
	table := newTable(w)
	table.SetHeader([]string{"Customer", "Device", "Interface", "Samples", "95th (Mbps)"})
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	})
	for _, e := range entries {
		iface := e.Port.IfDescr
		if iface == "" {
			iface = "ifIndex " + strconv.FormatInt(e.Port.IfIndex, 10)
		}
		table.Append([]string{
			e.Customer,
			e.Port.Hostname,
			iface,
			strconv.Itoa(e.Samples),
			formatMbps(e.Percentile, e.Available),
		})
	}
	table.Render()
}

func writeSkipped(w io.Writer, r *models.Report) {
	if n := len(r.Skipped); n > 0 {
		fmt.Fprintf(w, "\n%d interface(s) skipped due to missing or unreadable RRD data.\n", n)
	}
}

func writeGenerated(w io.Writer, r *models.Report) {
	if !r.GeneratedAt.IsZero() {
		fmt.Fprintf(w, "\nGenerated %s\n", r.GeneratedAt.Format("2006-01-02 15:04 MST"))
	}
}

func newTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(true)
	return table
}

// formatMbps prints bits/s as megabits with two decimals. Percentiles are
// always computed in models.UnitBitsPerSecond; tables show Mbps.
func formatMbps(bps float64, available bool) string {
	if !available {
		return notAvailable
	}
	return fmt.Sprintf("%.2f", bps/1e6)
}

// formatRate prints bits/s with an SI prefix, e.g. "123.45 Mbps".
func formatRate(bps float64, available bool) string {
	if !available {
		return notAvailable
	}
	return humanize.SIWithDigits(bps, 2, "bps")
}
