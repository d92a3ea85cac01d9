package scene

import (
	"github.com/sells-group/taxiflow/internal/model"
	"github.com/sells-group/taxiflow/internal/registry"
	"github.com/sells-group/taxiflow/internal/stindex"
)

// Stroke styling constants for the hotspot choropleth.
const (
	strokeBase      = "#8c8c8c"
	strokeNoise     = "#00bcd4" // DBSCAN noise designator, independent of fill
	strokeHighlight = "#00e676" // active time-cluster cross-highlight
	strokeSelected  = "#2563eb"
	strokeSecondary = "#7c3aed"
	strokeHover     = "#1a1a1a"

	fillMissing = "#ececec" // zone with no spatiotemporal row at this hour

	opacityFull   = 1.0
	opacityDimmed = 0.15 // outside the active borough filter
)

// ZonePaint is the full visual attribute assignment for one zone polygon.
// Computing the whole assignment from state on every repaint (instead of
// patching attributes in place) is what makes the borough-filter repaint
// idempotent.
type ZonePaint struct {
	Zone        model.ZoneID `json:"zone"`
	Fill        string       `json:"fill"`
	Stroke      string       `json:"stroke"`
	StrokeWidth float64      `json:"stroke_width"`
	Opacity     float64      `json:"opacity"`
	Interactive bool         `json:"interactive"`
}

// Hotspot computes the choropleth paint for every registered zone at the
// state's current hour.
//
// Fill is always a function of (zone, hour) through the spatiotemporal
// index, independent of selection. Stroke and opacity compose with fixed
// precedence: time-cluster highlight (when that tab is active) over
// selection, over hover, over borough dimming; the noise designator is the
// base stroke wherever the row is DBSCAN noise. Interactive mirrors the
// borough filter: filtered-out zones reject pointer input, which the state
// machine treats as a precondition, not just styling.
func Hotspot(reg *registry.Registry, idx *stindex.Index, state model.ViewState) []ZonePaint {
	paints := make([]ZonePaint, 0, reg.Len())
	maxIntensity := idx.MaxIntensity()

	for _, z := range reg.All() {
		p := ZonePaint{
			Zone:        z.ID,
			Fill:        fillMissing,
			Stroke:      strokeBase,
			StrokeWidth: 0.5,
			Opacity:     opacityFull,
			Interactive: state.PassesBoroughFilter(z.Borough),
		}

		rec, ok := idx.At(z.ID, state.Hour)
		if ok {
			p.Fill = IntensityFill(rec.Intensity, maxIntensity)
			if rec.IsNoise() {
				p.Stroke = strokeNoise
				p.StrokeWidth = 1
			}
		}

		switch {
		case clusterHighlighted(state, rec, ok):
			p.Stroke = strokeHighlight
			p.StrokeWidth = 2.5
		case state.PrimaryZone != nil && *state.PrimaryZone == z.ID:
			p.Stroke = strokeSelected
			p.StrokeWidth = 2.5
		case state.SecondaryZone != nil && *state.SecondaryZone == z.ID:
			p.Stroke = strokeSecondary
			p.StrokeWidth = 2
		case state.HoveredZone != nil && *state.HoveredZone == z.ID:
			p.Stroke = strokeHover
			p.StrokeWidth = 1.5
		}

		// Borough dimming is applied last so it is never overwritten by
		// selection styling.
		if !state.PassesBoroughFilter(z.Borough) {
			p.Opacity = opacityDimmed
		}

		paints = append(paints, p)
	}
	return paints
}

// clusterHighlighted reports whether the zone's spatiotemporal cluster at
// this hour is the one the time-patterns panel is highlighting.
func clusterHighlighted(state model.ViewState, rec model.SpatiotemporalRecord, ok bool) bool {
	if !ok || state.ActiveTab != model.TabClusters || state.HighlightCluster == nil {
		return false
	}
	return !rec.IsNoise() && rec.ClusterID == *state.HighlightCluster
}
