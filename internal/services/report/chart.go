package report

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/edgenative/bill95/internal/models"
)

const (
	defaultChartWidth  = 72
	defaultChartHeight = 10
)

// RenderChart plots an entry's traffic in Mbps with its 95th percentile as a
// flat line.
func RenderChart(e models.ReportEntry, width, height int) string {
	caption := fmt.Sprintf("%s (%s) - 95th %s Mbps",
		e.Port.DisplayName(), e.Customer, formatMbps(e.Percentile, e.Available))
	if len(e.Rates) == 0 {
		return caption + ": no data"
	}

	// Ensure minimum dimensions
	if width < 20 {
		width = defaultChartWidth
	}
	if height < 3 {
		height = defaultChartHeight
	}

	traffic := make([]float64, len(e.Rates))
	p95 := make([]float64, len(e.Rates))
	for i, bps := range e.Rates {
		traffic[i] = bps / 1e6
		p95[i] = e.Percentile / 1e6
	}

	return asciigraph.PlotMany([][]float64{traffic, p95},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(2),
		asciigraph.Caption(caption),
	)
}
