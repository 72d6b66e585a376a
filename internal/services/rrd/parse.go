package rrd

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// fetchResult is the parsed text output of `rrdtool fetch`.
type fetchResult struct {
	DataSources []string
	Rows        []fetchRow
}

type fetchRow struct {
	Timestamp int64
	// Values holds one entry per data source; NaN marks an unknown value.
	Values []float64
}

// parseFetchOutput parses output of the form
//
//	              INOCTETS          OUTOCTETS
//
//	1692000000: 1.2000000000e+03 3.4000000000e+03
//	1692000300: -nan -nan
func parseFetchOutput(r io.Reader) (*fetchResult, error) {
	res := &fetchResult{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if res.DataSources == nil {
			if strings.Contains(line, ":") {
				return nil, fmt.Errorf("line %d: expected data source header, got %q", lineNo, line)
			}
			res.DataSources = strings.Fields(line)
			continue
		}

		tsField, rest, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("line %d: missing timestamp separator", lineNo)
		}
		ts, err := strconv.ParseInt(strings.TrimSpace(tsField), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid timestamp %q", lineNo, tsField)
		}

		fields := strings.Fields(rest)
		if len(fields) != len(res.DataSources) {
			return nil, fmt.Errorf("line %d: got %d values for %d data sources", lineNo, len(fields), len(res.DataSources))
		}
		row := fetchRow{Timestamp: ts, Values: make([]float64, len(fields))}
		for i, field := range fields {
			v, err := parseValue(field)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			row.Values[i] = v
		}
		res.Rows = append(res.Rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if res.DataSources == nil {
		return nil, fmt.Errorf("no data source header in output")
	}
	return res, nil
}

// parseValue parses a fetched value. rrdtool prints unknowns as nan, -nan or
// NaN depending on platform.
func parseValue(s string) (float64, error) {
	if strings.EqualFold(strings.TrimLeft(s, "+-"), "nan") {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q", s)
	}
	return v, nil
}

// trafficColumns returns the indexes of the inbound and outbound octet
// counters, falling back to the first two data sources.
func (f *fetchResult) trafficColumns() (in, out int, err error) {
	in, out = -1, -1
	for i, name := range f.DataSources {
		switch strings.ToUpper(name) {
		case "INOCTETS":
			in = i
		case "OUTOCTETS":
			out = i
		}
	}
	if in >= 0 && out >= 0 {
		return in, out, nil
	}
	if len(f.DataSources) < 2 {
		return 0, 0, fmt.Errorf("need at least two data sources (in/out), got %d", len(f.DataSources))
	}
	return 0, 1, nil
}
