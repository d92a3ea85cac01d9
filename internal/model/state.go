package model

// ViewTab selects which of the two detail panels is active.
type ViewTab string

// The two detail tabs.
const (
	TabFlows    ViewTab = "od_flows"
	TabClusters ViewTab = "cluster_time"
)

// ViewState is the single source of truth every view reads and every UI
// event handler mutates. One instance per process, owned by the viewstate
// Coordinator; handlers run to completion one at a time, so no locking.
//
// SecondaryZone is only meaningful while PrimaryZone is set, and
// ActiveCorridor only while CorridorMode is true.
type ViewState struct {
	Hour           int         `json:"hour"`
	PrimaryZone    *ZoneID     `json:"primary_zone,omitempty"`
	SecondaryZone  *ZoneID     `json:"secondary_zone,omitempty"`
	HoveredZone    *ZoneID     `json:"hovered_zone,omitempty"`
	BoroughFilter  string      `json:"borough_filter"`
	CorridorMode   bool        `json:"corridor_mode"`
	ActiveCorridor CorridorKey `json:"active_corridor,omitempty"`
	ActiveTab      ViewTab     `json:"active_tab"`

	// HighlightCluster is the spatiotemporal cluster the time-patterns
	// panel is cross-highlighting on the map. Only meaningful while
	// ActiveTab is TabClusters.
	HighlightCluster *int `json:"highlight_cluster,omitempty"`

	// FromOverview records that the current corridor drill-down was entered
	// from the corridor overview, so an empty-map click returns there
	// instead of performing a full reset.
	FromOverview bool `json:"from_overview,omitempty"`
}

// NewViewState returns the boot-time state: hour 0, no selection, no
// filter, flows tab active.
func NewViewState() ViewState {
	return ViewState{
		Hour:          0,
		BoroughFilter: BoroughFilterAll,
		ActiveTab:     TabFlows,
	}
}

// HasPrimary reports whether a primary zone is selected.
func (s ViewState) HasPrimary() bool { return s.PrimaryZone != nil }

// PassesBoroughFilter reports whether a zone in the given borough is
// interactable under the current filter. Filtered-out zones reject input;
// this is a precondition, not just dimmed styling.
func (s ViewState) PassesBoroughFilter(b Borough) bool {
	return s.BoroughFilter == BoroughFilterAll || s.BoroughFilter == string(b)
}
