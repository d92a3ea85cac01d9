// Package cluster groups the precomputed per-cluster hourly trip series
// into label-level areas for the cluster time-patterns panel.
package cluster

import (
	"sort"

	"github.com/sells-group/taxiflow/internal/corridor"
	"github.com/sells-group/taxiflow/internal/model"
)

// Labeler resolves a cluster id to its display label. Satisfied by
// *corridor.Resolver.
type Labeler interface {
	ReadableLabel(clusterID int) string
}

// Series holds the full time-series table indexed by cluster id.
// Read-only after New.
type Series struct {
	byCluster map[int][]model.TimeSeriesRecord
	ids       []int
}

// New indexes the time-series rows by cluster, dropping noise ids (< 0).
func New(rows []model.TimeSeriesRecord) *Series {
	s := &Series{byCluster: make(map[int][]model.TimeSeriesRecord)}
	for _, r := range rows {
		if r.ClusterID < 0 {
			continue
		}
		if _, ok := s.byCluster[r.ClusterID]; !ok {
			s.ids = append(s.ids, r.ClusterID)
		}
		s.byCluster[r.ClusterID] = append(s.byCluster[r.ClusterID], r)
	}
	sort.Ints(s.ids)
	return s
}

// BuildAreas groups clusters into areas by their suffix-stripped label, sums
// trip (and fare, when present) volume per area, and records the
// highest-volume member as the area's representative for map
// cross-highlighting. Areas are sorted descending by total trips.
func (s *Series) BuildAreas(labels Labeler) []model.Area {
	type accum struct {
		area      model.Area
		bestTrips float64
	}
	byKey := make(map[string]*accum)
	order := make([]string, 0, len(s.ids))

	for _, cid := range s.ids {
		var trips, fare float64
		for _, r := range s.byCluster[cid] {
			trips += r.TripCount
			fare += r.TotalFare
		}

		key := corridor.StripWindowSuffix(labels.ReadableLabel(cid))
		a, ok := byKey[key]
		if !ok {
			a = &accum{area: model.Area{Key: key, RepresentativeCluster: cid}, bestTrips: -1}
			byKey[key] = a
			order = append(order, key)
		}
		a.area.TotalTrips += trips
		a.area.TotalFare += fare
		a.area.MemberClusters = append(a.area.MemberClusters, cid)
		if trips > a.bestTrips {
			a.bestTrips = trips
			a.area.RepresentativeCluster = cid
		}
	}

	areas := make([]model.Area, 0, len(order))
	for _, key := range order {
		areas = append(areas, byKey[key].area)
	}
	sort.SliceStable(areas, func(i, j int) bool {
		if areas[i].TotalTrips != areas[j].TotalTrips {
			return areas[i].TotalTrips > areas[j].TotalTrips
		}
		return areas[i].Key < areas[j].Key
	})
	return areas
}

// TopAreas returns the first n areas of BuildAreas, the ranked table shown
// in the panel.
func (s *Series) TopAreas(labels Labeler, n int) []model.Area {
	areas := s.BuildAreas(labels)
	if len(areas) > n {
		areas = areas[:n]
	}
	return areas
}

// Point is one hour of an area detail series.
type Point struct {
	Hour  int     `json:"time_bin"`
	Trips float64 `json:"trip_count"`
}

// Detail unions the rows of all member clusters and sums trips by
// hour-of-day. The result always has exactly 24 points over hours 0..23;
// hours with no data are zero. Sparse input stays dense on output.
func (s *Series) Detail(area model.Area) []Point {
	var byHour [24]float64
	for _, cid := range area.MemberClusters {
		for _, r := range s.byCluster[cid] {
			if r.Hour >= 0 && r.Hour < 24 {
				byHour[r.Hour] += r.TripCount
			}
		}
	}

	points := make([]Point, 24)
	for h := range byHour {
		points[h] = Point{Hour: h, Trips: byHour[h]}
	}
	return points
}

// Clusters returns the indexed cluster ids, ascending.
func (s *Series) Clusters() []int { return s.ids }

// Len is the number of indexed clusters.
func (s *Series) Len() int { return len(s.ids) }
