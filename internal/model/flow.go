package model

// FlowRecord is one normalized row of the precomputed OD flow table.
// A nil FlowCluster means the row was not assigned to any flow cluster;
// negative, empty, or missing cluster ids in the raw artifact all normalize
// to nil, never to a sentinel value.
type FlowRecord struct {
	Origin      ZoneID   `json:"origin_zone"`
	Destination ZoneID   `json:"destination_zone"`
	Hour        int      `json:"time_bin"`
	TripCount   int      `json:"trip_count"`
	FlowCluster *int     `json:"flow_cluster_id,omitempty"`
	AvgFare     *float64 `json:"avg_fare,omitempty"`
	AvgDuration *float64 `json:"avg_duration_min,omitempty"`
}

// ClusterOf returns the flow-cluster id and whether one is assigned.
func (f FlowRecord) ClusterOf() (int, bool) {
	if f.FlowCluster == nil {
		return 0, false
	}
	return *f.FlowCluster, true
}

// ZoneHour keys per-zone-per-hour lookups.
type ZoneHour struct {
	Zone ZoneID
	Hour int
}

// NoiseCluster is the DBSCAN sentinel for points not assigned to any
// density cluster.
const NoiseCluster = -1

// SpatiotemporalRecord is one row of the zone-hour clustering output,
// keyed uniquely by (zone, hour).
type SpatiotemporalRecord struct {
	Zone        ZoneID   `json:"zone_id"`
	Hour        int      `json:"hour"`
	ClusterID   int      `json:"cluster_id"`
	Intensity   float64  `json:"intensity"`
	AvgFare     *float64 `json:"avg_fare,omitempty"`
	AvgDuration *float64 `json:"avg_duration_min,omitempty"`
}

// IsNoise reports whether the record was marked as DBSCAN noise.
func (r SpatiotemporalRecord) IsNoise() bool {
	return r.ClusterID == NoiseCluster
}

// TimeSeriesRecord is one row of the per-cluster hourly trip series.
type TimeSeriesRecord struct {
	ClusterID int     `json:"cluster"`
	Hour      int     `json:"hour"`
	TripCount float64 `json:"trip_count"`
	TotalFare float64 `json:"total_fare,omitempty"`
}
