// Package discovery finds the customer-tagged ports to report on.
package discovery

import (
	"context"
	"fmt"

	"github.com/edgenative/bill95/internal/config"
	"github.com/edgenative/bill95/internal/db"
	"github.com/edgenative/bill95/internal/logger"
	"github.com/edgenative/bill95/internal/models"
)

// Opener opens a database connection. The caller owns the result.
type Opener func(ctx context.Context) (*db.DB, error)

// Service queries Observium for customer ports.
type Service struct {
	open Opener
}

// New returns a Service connecting to the Observium MySQL database.
func New(cfg config.Database) *Service {
	return NewWithOpener(func(ctx context.Context) (*db.DB, error) {
		return db.New(ctx, cfg)
	})
}

// NewWithOpener returns a Service using a custom connection opener.
func NewWithOpener(open Opener) *Service {
	return &Service{open: open}
}

// Discover returns every customer-tagged port. The connection is opened and
// closed within the call. No matching ports is not an error.
func (s *Service) Discover(ctx context.Context) ([]models.Port, error) {
	database, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := database.Close(); closeErr != nil {
			logger.Warn("failed to close database", "error", closeErr)
		}
	}()

	ports, err := database.CustomerPorts(ctx)
	if err != nil {
		return nil, fmt.Errorf("discovering customer ports: %w", err)
	}

	if len(ports) == 0 {
		logger.Warn("no interfaces found with customer tag", "marker", models.CustomerTagMarker)
	} else {
		logger.Debug("discovered customer ports", "count", len(ports), "driver", database.Driver())
	}
	return ports, nil
}
