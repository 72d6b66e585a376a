// Package models defines data structures and domain types.
package models

import (
	"fmt"
	"strings"
)

// CustomerTagMarker prefixes the ifAlias of ports billed to a customer.
const CustomerTagMarker = "Cust:"

// Port is a customer-tagged interface as recorded by Observium.
type Port struct {
	PortID   int64
	DeviceID int64
	Hostname string
	IfIndex  int64
	IfDescr  string
	IfAlias  string
}

// Customer returns the customer name following the tag marker.
// The marker match is case-insensitive ("cust:" is accepted).
func (p Port) Customer() string {
	alias := strings.TrimSpace(p.IfAlias)
	if len(alias) < len(CustomerTagMarker) ||
		!strings.EqualFold(alias[:len(CustomerTagMarker)], CustomerTagMarker) {
		return "Unknown"
	}
	name := strings.TrimSpace(alias[len(CustomerTagMarker):])
	if name == "" {
		return "Unknown"
	}
	return name
}

// DisplayName returns a label identifying the port on its device.
func (p Port) DisplayName() string {
	iface := p.IfDescr
	if iface == "" {
		iface = fmt.Sprintf("ifIndex %d", p.IfIndex)
	}
	return p.Hostname + " " + iface
}
