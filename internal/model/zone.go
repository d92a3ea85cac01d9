// Package model defines the typed records shared across the dashboard core:
// zones, flow rows, spatiotemporal cluster rows, corridor semantics, and the
// view state the UI surfaces mutate.
package model

import (
	"fmt"
	"strings"

	"github.com/twpayne/go-geom"
)

// ZoneID is the stable TLC taxi-zone identifier (LocationID).
type ZoneID int

// Borough is the closed set of NYC boroughs a zone can belong to.
type Borough string

// Borough values. Unmatched or missing input normalizes to BoroughUnknown.
const (
	BoroughManhattan    Borough = "Manhattan"
	BoroughBrooklyn     Borough = "Brooklyn"
	BoroughQueens       Borough = "Queens"
	BoroughBronx        Borough = "Bronx"
	BoroughStatenIsland Borough = "Staten Island"
	BoroughUnknown      Borough = "Unknown"
)

// BoroughFilterAll is the borough-filter value meaning "no filter".
const BoroughFilterAll = "__all__"

// Boroughs lists the five real boroughs in display order.
var Boroughs = []Borough{
	BoroughManhattan,
	BoroughBrooklyn,
	BoroughQueens,
	BoroughBronx,
	BoroughStatenIsland,
}

// ParseBorough normalizes a raw borough string into the closed enum via
// case-insensitive substring matching. "the bronx", "Bronx County", and
// "BRONX" all map to BoroughBronx; anything unmatched maps to BoroughUnknown.
func ParseBorough(raw string) Borough {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return BoroughUnknown
	}
	switch {
	case strings.Contains(s, "manhattan"):
		return BoroughManhattan
	case strings.Contains(s, "brooklyn"):
		return BoroughBrooklyn
	case strings.Contains(s, "queens"):
		return BoroughQueens
	case strings.Contains(s, "bronx"):
		return BoroughBronx
	case strings.Contains(s, "staten"):
		return BoroughStatenIsland
	default:
		return BoroughUnknown
	}
}

// Zone is one taxi zone: geometry joined with its name/borough lookup row.
// Built once at load and immutable afterward.
type Zone struct {
	ID       ZoneID        `json:"id"`
	Name     string        `json:"name"`
	Borough  Borough       `json:"borough"`
	Geometry *geom.Polygon `json:"-"`
	Centroid geom.Coord    `json:"centroid"`
}

// PlaceholderName is the label used for a zone id with no registry entry.
func PlaceholderName(id ZoneID) string {
	return fmt.Sprintf("Zone %d", id)
}
