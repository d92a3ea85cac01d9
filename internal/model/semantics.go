package model

// ClusterSemantics carries the human-readable labeling for one flow or
// zone cluster, produced offline by the semantics build scripts. Both
// semantics documents are optional; absence degrades every label to
// "Cluster <id>".
type ClusterSemantics struct {
	ClusterID       int      `json:"-"`
	Label           string   `json:"label"`
	FromArea        string   `json:"from_area"`
	ToArea          string   `json:"to_area"`
	FromBoroughArea string   `json:"from_borough_area"`
	ToBoroughArea   string   `json:"to_borough_area"`
	TopZones        []string `json:"top_zones"`
}

// CorridorKey is the canonical direction-agnostic identity of a corridor:
// the two endpoint names of its label alpha-sorted and joined with the
// corridor separator, so that key(A,B) == key(B,A).
type CorridorKey string

// Area groups one or more time-series clusters that share a semantics label
// once any trailing parenthetical time-window suffix is stripped.
type Area struct {
	Key                   string  `json:"area"`
	TotalTrips            float64 `json:"total_trips"`
	TotalFare             float64 `json:"total_fare,omitempty"`
	MemberClusters        []int   `json:"member_clusters"`
	RepresentativeCluster int     `json:"representative_cluster"`
}
