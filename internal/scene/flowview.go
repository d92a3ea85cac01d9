package scene

import (
	"sort"

	"github.com/sells-group/taxiflow/internal/corridor"
	"github.com/sells-group/taxiflow/internal/flows"
	"github.com/sells-group/taxiflow/internal/model"
	"github.com/sells-group/taxiflow/internal/registry"
)

// Mode names for the OD flow view state machine.
const (
	ModeNoSelection      = "no_selection"
	ModeSingleZone       = "single_zone"
	ModeZonePair         = "zone_pair"
	ModeCorridorOverview = "corridor_overview"
	ModeCorridorZone     = "corridor_zone"
)

// Mode derives the OD view's state-machine state from the shared view state.
func Mode(state model.ViewState) string {
	switch {
	case state.CorridorMode && !state.HasPrimary():
		return ModeCorridorOverview
	case state.CorridorMode:
		return ModeCorridorZone
	case state.SecondaryZone != nil && state.HasPrimary():
		return ModeZonePair
	case state.HasPrimary():
		return ModeSingleZone
	default:
		return ModeNoSelection
	}
}

// NodePaint is the paint assignment for one zone centroid node.
type NodePaint struct {
	Zone        model.ZoneID `json:"zone"`
	X           float64      `json:"x"`
	Y           float64      `json:"y"`
	Fill        string       `json:"fill"`
	Radius      float64      `json:"radius"`
	Opacity     float64      `json:"opacity"`
	Interactive bool         `json:"interactive"`
}

// FlowEdge is one rendered partner edge: endpoint coordinates plus the
// volume encoding.
type FlowEdge struct {
	From     model.ZoneID `json:"from"`
	To       model.ZoneID `json:"to"`
	FromX    float64      `json:"from_x"`
	FromY    float64      `json:"from_y"`
	ToX      float64      `json:"to_x"`
	ToY      float64      `json:"to_y"`
	OutCount int          `json:"out_count"`
	InCount  int          `json:"in_count"`
	Total    int          `json:"total"`
	Color    string       `json:"color"`
	Width    float64      `json:"width"`
	Label    string       `json:"label,omitempty"`
	AvgFare  *float64     `json:"avg_fare,omitempty"`
}

// CorridorOption is one entry of the corridor filter selector scoped to the
// current zone and hour.
type CorridorOption struct {
	Key        model.CorridorKey `json:"key"`
	Label      string            `json:"label"`
	Clusters   []int             `json:"clusters"`
	TotalTrips int               `json:"total_trips"`
}

// FlowView is the full computed OD panel: mode, edges, corridor options,
// and the user-facing empty-state message when nothing matches.
type FlowView struct {
	Mode      string           `json:"mode"`
	Edges     []FlowEdge       `json:"edges"`
	Corridors []CorridorOption `json:"corridors,omitempty"`
	Truncated bool             `json:"truncated"`
	Message   string           `json:"message,omitempty"`
}

// Empty-state messages.
const (
	msgNoTrips    = "No trips for this selection."
	msgNoClusters = "No clusters found for this corridor."
)

// Nodes computes the centroid node layer. Node styling follows the same
// precedence as the choropleth strokes and the same borough-filter
// interactivity rule.
func Nodes(reg *registry.Registry, state model.ViewState) []NodePaint {
	nodes := make([]NodePaint, 0, reg.Len())
	for _, z := range reg.All() {
		c, ok := reg.CentroidOf(z.ID)
		if !ok {
			continue
		}
		n := NodePaint{
			Zone:        z.ID,
			X:           c.X(),
			Y:           c.Y(),
			Fill:        "#5f6368",
			Radius:      2.5,
			Opacity:     opacityFull,
			Interactive: state.PassesBoroughFilter(z.Borough),
		}
		switch {
		case state.PrimaryZone != nil && *state.PrimaryZone == z.ID:
			n.Fill = strokeSelected
			n.Radius = 5
		case state.SecondaryZone != nil && *state.SecondaryZone == z.ID:
			n.Fill = strokeSecondary
			n.Radius = 4
		case state.HoveredZone != nil && *state.HoveredZone == z.ID:
			n.Fill = strokeHover
			n.Radius = 3.5
		}
		if !state.PassesBoroughFilter(z.Borough) {
			n.Opacity = opacityDimmed
		}
		nodes = append(nodes, n)
	}
	return nodes
}

// ForPrimary computes the flow panel for the selected primary zone at the
// state's hour: partner aggregation, corridor options, cap truncation,
// optional corridor-membership filtering, and the per-render volume
// encoding.
func ForPrimary(table *flows.Table, reg *registry.Registry, res *corridor.Resolver, state model.ViewState) FlowView {
	view := FlowView{Mode: Mode(state)}
	if state.PrimaryZone == nil {
		view.Message = msgNoTrips
		return view
	}
	primary := *state.PrimaryZone

	partners := table.PartnersFor(primary, state.Hour)

	// Corridor options come from the full partner set, before cap
	// truncation, so the selector always lists every corridor present.
	view.Corridors = corridorOptions(partners, res)

	partners, view.Truncated = flows.ApplyCap(partners, table.Cap(primary), state.SecondaryZone)

	if state.CorridorMode && state.ActiveCorridor != "" {
		partners = flows.FilterByClusters(partners, res.ClusterSet(state.ActiveCorridor))
	}

	if len(partners) == 0 {
		view.Message = msgNoTrips
		return view
	}

	maxTotal := 0
	for _, p := range partners {
		if p.Total > maxTotal {
			maxTotal = p.Total
		}
	}

	px, py := 0.0, 0.0
	if c, ok := reg.CentroidOf(primary); ok {
		px, py = c.X(), c.Y()
	}

	view.Edges = make([]FlowEdge, 0, len(partners))
	for _, p := range partners {
		e := FlowEdge{
			From:     primary,
			To:       p.Zone,
			FromX:    px,
			FromY:    py,
			OutCount: p.OutCount,
			InCount:  p.InCount,
			Total:    p.Total,
			Color:    EdgeColor(float64(p.Total), float64(maxTotal)),
			Width:    EdgeWidth(float64(p.Total), float64(maxTotal)),
			AvgFare:  p.AvgFare,
		}
		if c, ok := reg.CentroidOf(p.Zone); ok {
			e.ToX, e.ToY = c.X(), c.Y()
		}
		if p.DominantCluster != nil {
			e.Label = res.ReadableLabel(*p.DominantCluster)
		}
		view.Edges = append(view.Edges, e)
	}
	return view
}

// Overview computes the many-to-many corridor view: one arc per distinct
// directed origin->destination pair among the corridor's flow records.
func Overview(table *flows.Table, reg *registry.Registry, res *corridor.Resolver, key model.CorridorKey) FlowView {
	view := FlowView{Mode: ModeCorridorOverview}

	clusters := res.ClusterSet(key)
	if len(clusters) == 0 {
		view.Message = msgNoClusters
		return view
	}

	arcs := table.CorridorOverview(clusters)
	if len(arcs) == 0 {
		view.Message = msgNoTrips
		return view
	}

	maxTotal := 0
	for _, a := range arcs {
		if a.TripCount > maxTotal {
			maxTotal = a.TripCount
		}
	}

	view.Edges = make([]FlowEdge, 0, len(arcs))
	for _, a := range arcs {
		e := FlowEdge{
			From:     a.Origin,
			To:       a.Destination,
			OutCount: a.TripCount,
			Total:    a.TripCount,
			Color:    EdgeColor(float64(a.TripCount), float64(maxTotal)),
			Width:    EdgeWidth(float64(a.TripCount), float64(maxTotal)),
		}
		if c, ok := reg.CentroidOf(a.Origin); ok {
			e.FromX, e.FromY = c.X(), c.Y()
		}
		if c, ok := reg.CentroidOf(a.Destination); ok {
			e.ToX, e.ToY = c.X(), c.Y()
		}
		view.Edges = append(view.Edges, e)
	}
	return view
}

// corridorOptions groups the partners' dominant-cluster labels by canonical
// key and ranks them by aggregate trip volume, descending.
func corridorOptions(partners []flows.Partner, res *corridor.Resolver) []CorridorOption {
	type accum struct {
		option CorridorOption
		seen   map[int]struct{}
	}
	byKey := make(map[model.CorridorKey]*accum)
	order := make([]model.CorridorKey, 0, 8)

	for _, p := range partners {
		if p.DominantCluster == nil {
			continue
		}
		cid := *p.DominantCluster
		key, ok := res.KeyFor(cid)
		if !ok {
			key = model.CorridorKey(corridor.FallbackLabel(cid))
		}

		a, found := byKey[key]
		if !found {
			a = &accum{
				option: CorridorOption{Key: key, Label: res.ReadableLabel(cid)},
				seen:   make(map[int]struct{}),
			}
			byKey[key] = a
			order = append(order, key)
		}
		a.option.TotalTrips += p.Total
		if _, dup := a.seen[cid]; !dup {
			a.seen[cid] = struct{}{}
			a.option.Clusters = append(a.option.Clusters, cid)
		}
	}

	options := make([]CorridorOption, 0, len(order))
	for _, key := range order {
		options = append(options, byKey[key].option)
	}
	sort.SliceStable(options, func(i, j int) bool {
		if options[i].TotalTrips != options[j].TotalTrips {
			return options[i].TotalTrips > options[j].TotalTrips
		}
		return options[i].Key < options[j].Key
	})
	return options
}
