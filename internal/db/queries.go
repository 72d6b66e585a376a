package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/edgenative/bill95/internal/models"
)

// customerPortsQuery selects ports whose ifAlias starts with the customer
// tag. LOWER() keeps the match case-insensitive regardless of collation.
const customerPortsQuery = `
	SELECT p.port_id, p.device_id, d.hostname, p.ifIndex, p.ifDescr, p.ifAlias
	FROM ports AS p
	JOIN devices AS d ON p.device_id = d.device_id
	WHERE LOWER(p.ifAlias) LIKE ?
	ORDER BY d.hostname, p.ifIndex
`

// CustomerPorts returns every port tagged with models.CustomerTagMarker.
func (db *DB) CustomerPorts(ctx context.Context) ([]models.Port, error) {
	pattern := strings.ToLower(models.CustomerTagMarker) + "%"

	rows, err := db.QueryContext(ctx, customerPortsQuery, pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query customer ports: %v", ErrDatabase, err)
	}
	defer func() { _ = rows.Close() }()

	var ports []models.Port
	for rows.Next() {
		var (
			p            models.Port
			descr, alias sql.NullString
		)
		if err := rows.Scan(&p.PortID, &p.DeviceID, &p.Hostname, &p.IfIndex, &descr, &alias); err != nil {
			return nil, fmt.Errorf("%w: failed to scan port: %v", ErrDatabase, err)
		}
		p.IfDescr = descr.String
		p.IfAlias = alias.String
		ports = append(ports, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to read customer ports: %v", ErrDatabase, err)
	}

	return ports, nil
}
