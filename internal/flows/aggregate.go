package flows

import (
	"sort"

	"github.com/sells-group/taxiflow/internal/model"
)

// Partner is the undirected aggregate of all flows between a selected zone
// and one other zone at a given hour.
type Partner struct {
	Zone            model.ZoneID `json:"zone"`
	OutCount        int          `json:"out_count"`
	InCount         int          `json:"in_count"`
	Total           int          `json:"total"`
	DominantCluster *int         `json:"dominant_cluster,omitempty"`
	AvgFare         *float64     `json:"avg_fare,omitempty"`
	AvgDuration     *float64     `json:"avg_duration_min,omitempty"`
}

// DirectedFlow is one origin->destination aggregate in corridor overview
// mode, where direction is preserved.
type DirectedFlow struct {
	Origin      model.ZoneID `json:"origin"`
	Destination model.ZoneID `json:"destination"`
	TripCount   int          `json:"trip_count"`
}

// partnerAccum accumulates per-partner state during aggregation.
type partnerAccum struct {
	partner      Partner
	clusterTrips map[int]int
	clusterOrder []int
	fareWeighted float64
	fareTrips    int
	durWeighted  float64
	durTrips     int
}

// PartnersFor aggregates every flow record at the given hour with the zone
// at either endpoint, grouped by the other endpoint. The dominant cluster of
// a pair is the flow cluster with the highest trip volume among its records;
// on equal volume the first-encountered cluster wins (implementation-defined,
// see DESIGN.md). Partners are sorted descending by total trips, ties by
// zone id.
func (t *Table) PartnersFor(zone model.ZoneID, hour int) []Partner {
	accum := make(map[model.ZoneID]*partnerAccum)
	order := make([]model.ZoneID, 0, 16)

	for _, r := range t.records {
		if r.Hour != hour {
			continue
		}
		var other model.ZoneID
		var out bool
		switch zone {
		case r.Origin:
			other, out = r.Destination, true
		case r.Destination:
			other, out = r.Origin, false
		default:
			continue
		}

		a, ok := accum[other]
		if !ok {
			a = &partnerAccum{
				partner:      Partner{Zone: other},
				clusterTrips: make(map[int]int),
			}
			accum[other] = a
			order = append(order, other)
		}

		if out {
			a.partner.OutCount += r.TripCount
		} else {
			a.partner.InCount += r.TripCount
		}
		a.partner.Total += r.TripCount

		if cid, ok := r.ClusterOf(); ok {
			if _, seen := a.clusterTrips[cid]; !seen {
				a.clusterOrder = append(a.clusterOrder, cid)
			}
			a.clusterTrips[cid] += r.TripCount
		}
		if r.AvgFare != nil {
			a.fareWeighted += *r.AvgFare * float64(r.TripCount)
			a.fareTrips += r.TripCount
		}
		if r.AvgDuration != nil {
			a.durWeighted += *r.AvgDuration * float64(r.TripCount)
			a.durTrips += r.TripCount
		}
	}

	partners := make([]Partner, 0, len(order))
	for _, id := range order {
		a := accum[id]

		best, bestTrips := 0, -1
		for _, cid := range a.clusterOrder {
			if a.clusterTrips[cid] > bestTrips {
				best, bestTrips = cid, a.clusterTrips[cid]
			}
		}
		if bestTrips >= 0 {
			dominant := best
			a.partner.DominantCluster = &dominant
		}

		if a.fareTrips > 0 {
			fare := a.fareWeighted / float64(a.fareTrips)
			a.partner.AvgFare = &fare
		}
		if a.durTrips > 0 {
			dur := a.durWeighted / float64(a.durTrips)
			a.partner.AvgDuration = &dur
		}

		partners = append(partners, a.partner)
	}

	sort.SliceStable(partners, func(i, j int) bool {
		if partners[i].Total != partners[j].Total {
			return partners[i].Total > partners[j].Total
		}
		return partners[i].Zone < partners[j].Zone
	})
	return partners
}

// ApplyCap enforces the display cap. With a secondary zone selected the
// result is just that partner (if present). Otherwise, when the partner
// count exceeds cap, only the top cap partners by total volume are kept.
func ApplyCap(partners []Partner, limit int, secondary *model.ZoneID) (kept []Partner, truncated bool) {
	if secondary != nil {
		for _, p := range partners {
			if p.Zone == *secondary {
				return []Partner{p}, false
			}
		}
		return nil, false
	}
	if limit > 0 && len(partners) > limit {
		return partners[:limit], true
	}
	return partners, false
}

// FilterByClusters keeps only partners whose dominant cluster is in the set.
func FilterByClusters(partners []Partner, clusters map[int]struct{}) []Partner {
	out := make([]Partner, 0, len(partners))
	for _, p := range partners {
		if p.DominantCluster == nil {
			continue
		}
		if _, ok := clusters[*p.DominantCluster]; ok {
			out = append(out, p)
		}
	}
	return out
}

// CorridorOverview aggregates every flow record whose cluster id is in the
// set by directed origin->destination pair, across all hours. Direction is
// preserved here, unlike the per-partner aggregation. Results are sorted
// descending by trip count, ties by origin then destination.
func (t *Table) CorridorOverview(clusters map[int]struct{}) []DirectedFlow {
	type pair struct{ o, d model.ZoneID }
	totals := make(map[pair]int)
	order := make([]pair, 0, 32)

	for _, r := range t.records {
		cid, ok := r.ClusterOf()
		if !ok {
			continue
		}
		if _, ok := clusters[cid]; !ok {
			continue
		}
		p := pair{r.Origin, r.Destination}
		if _, seen := totals[p]; !seen {
			order = append(order, p)
		}
		totals[p] += r.TripCount
	}

	out := make([]DirectedFlow, 0, len(order))
	for _, p := range order {
		out = append(out, DirectedFlow{Origin: p.o, Destination: p.d, TripCount: totals[p]})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TripCount != out[j].TripCount {
			return out[i].TripCount > out[j].TripCount
		}
		if out[i].Origin != out[j].Origin {
			return out[i].Origin < out[j].Origin
		}
		return out[i].Destination < out[j].Destination
	})
	return out
}
