// Package rrd reads per-port traffic samples from Observium RRD files.
package rrd

import (
	"path/filepath"
	"strconv"

	"github.com/edgenative/bill95/internal/models"
)

// PathResolver maps a port to the location of its RRD file.
type PathResolver func(port models.Port) string

// ObserviumLayout resolves ports using Observium's on-disk convention:
// <base>/<hostname>/port-<ifIndex>.rrd
func ObserviumLayout(base string) PathResolver {
	return func(port models.Port) string {
		return filepath.Join(base, port.Hostname, "port-"+strconv.FormatInt(port.IfIndex, 10)+".rrd")
	}
}
