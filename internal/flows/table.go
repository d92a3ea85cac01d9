// Package flows holds the normalized OD flow table: per-zone connectivity
// degrees, display caps, and the aggregations behind the OD flow view.
package flows

import (
	"sort"

	"github.com/sells-group/taxiflow/internal/model"
)

// Display caps by connectivity-percentile band. A zone's cap bounds how many
// partner edges the OD view draws for it at once; the lowest-volume edges are
// truncated first.
const (
	capTop     = 50 // top 5% of zones by degree
	capHigh    = 40 // next 5-10%
	capMid     = 30 // 10-20%
	capLow     = 20 // 20-40%
	capDefault = 20 // remainder, and zones absent from the flow table
)

// Table is the full in-memory flow table plus derived per-zone degrees and
// display caps. Read-only after New.
type Table struct {
	records []model.FlowRecord
	degrees map[model.ZoneID]int
	caps    map[model.ZoneID]int
}

// New computes the undirected connectivity degree of every zone (ignoring
// hour) and assigns display caps by percentile band.
func New(records []model.FlowRecord) *Table {
	adjacency := make(map[model.ZoneID]map[model.ZoneID]struct{})
	link := func(a, b model.ZoneID) {
		set, ok := adjacency[a]
		if !ok {
			set = make(map[model.ZoneID]struct{})
			adjacency[a] = set
		}
		set[b] = struct{}{}
	}
	for _, r := range records {
		link(r.Origin, r.Destination)
		link(r.Destination, r.Origin)
	}

	degrees := make(map[model.ZoneID]int, len(adjacency))
	ranked := make([]model.ZoneID, 0, len(adjacency))
	for id, set := range adjacency {
		degrees[id] = len(set)
		ranked = append(ranked, id)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if degrees[ranked[i]] != degrees[ranked[j]] {
			return degrees[ranked[i]] > degrees[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})

	caps := make(map[model.ZoneID]int, len(ranked))
	total := float64(len(ranked))
	for i, id := range ranked {
		switch pct := float64(i) / total; {
		case pct < 0.05:
			caps[id] = capTop
		case pct < 0.10:
			caps[id] = capHigh
		case pct < 0.20:
			caps[id] = capMid
		case pct < 0.40:
			caps[id] = capLow
		default:
			caps[id] = capDefault
		}
	}

	return &Table{records: records, degrees: degrees, caps: caps}
}

// Records returns the full normalized flow table.
func (t *Table) Records() []model.FlowRecord { return t.records }

// Degree is the zone's undirected connectivity degree across all hours.
func (t *Table) Degree(id model.ZoneID) int { return t.degrees[id] }

// Cap is the zone's display cap. Zones that never appear in the flow table
// get the flat default.
func (t *Table) Cap(id model.ZoneID) int {
	if c, ok := t.caps[id]; ok {
		return c
	}
	return capDefault
}
