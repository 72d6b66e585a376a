package rrd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/edgenative/bill95/internal/config"
	"github.com/edgenative/bill95/internal/logger"
	"github.com/edgenative/bill95/internal/models"
)

var (
	// ErrFileNotFound means the port has no RRD file.
	ErrFileNotFound = errors.New("rrd file not found")
	// ErrRead means the RRD file exists but could not be read or parsed.
	ErrRead = errors.New("rrd read error")
)

var execCommand = exec.CommandContext

// Reader extracts traffic samples for a port over a window.
type Reader struct {
	binary  string
	daemon  string
	resolve PathResolver
}

// NewReader returns a Reader that invokes rrdtool as configured and locates
// files with resolve.
func NewReader(cfg config.RRDTool, resolve PathResolver) *Reader {
	binary := cfg.Binary
	if binary == "" {
		binary = "rrdtool"
	}
	return &Reader{binary: binary, daemon: cfg.Daemon, resolve: resolve}
}

// Path returns the RRD file the reader would use for port.
func (r *Reader) Path(port models.Port) string {
	return r.resolve(port)
}

// Read returns the AVERAGE samples of port whose timestamps fall inside
// window, ordered by time. Rows where either direction is unknown are
// dropped. The result may be empty.
func (r *Reader) Read(ctx context.Context, port models.Port, window models.Window) (models.Series, error) {
	path := r.resolve(port)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrRead, path, err)
	}

	args := []string{
		"fetch", path, "AVERAGE",
		"--start", strconv.FormatInt(window.Start.Unix(), 10),
		"--end", strconv.FormatInt(window.End.Unix(), 10),
	}
	if r.daemon != "" {
		args = append(args, "--daemon", r.daemon)
	}

	var stdout, stderr bytes.Buffer
	cmd := execCommand(ctx, r.binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	logger.Debug("fetching rrd", "path", path, "start", window.Start, "end", window.End)
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("%w: %s: rrdtool fetch: %s", ErrRead, path, msg)
	}

	res, err := parseFetchOutput(&stdout)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRead, path, err)
	}
	series, err := extractSeries(res, window)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRead, path, err)
	}
	return series, nil
}

func extractSeries(res *fetchResult, window models.Window) (models.Series, error) {
	in, out, err := res.trafficColumns()
	if err != nil {
		return nil, err
	}

	loc := window.Start.Location()
	series := make(models.Series, 0, len(res.Rows))
	for _, row := range res.Rows {
		inVal, outVal := row.Values[in], row.Values[out]
		if math.IsNaN(inVal) || math.IsNaN(outVal) {
			continue
		}
		ts := time.Unix(row.Timestamp, 0).In(loc)
		if !window.Contains(ts) {
			continue
		}
		series = append(series, models.Sample{Timestamp: ts, In: inVal, Out: outVal})
	}

	if !series.Monotonic() {
		logger.Debug("rrd rows out of order, sorting", "rows", len(series))
		sort.SliceStable(series, func(i, j int) bool {
			return series[i].Timestamp.Before(series[j].Timestamp)
		})
	}
	return series, nil
}
