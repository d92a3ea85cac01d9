package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/taxiflow/internal/cluster"
	"github.com/sells-group/taxiflow/internal/corridor"
	"github.com/sells-group/taxiflow/internal/flows"
	"github.com/sells-group/taxiflow/internal/model"
	"github.com/sells-group/taxiflow/internal/registry"
	"github.com/sells-group/taxiflow/internal/stindex"
)

func zoneAt(id model.ZoneID, name string, borough string, x, y float64) registry.ZoneFeature {
	p := geom.NewPolygon(geom.XY)
	_, err := p.SetCoords([][]geom.Coord{{
		{x, y}, {x + 1, y}, {x + 1, y + 1}, {x, y + 1}, {x, y},
	}})
	if err != nil {
		panic(err)
	}
	return registry.ZoneFeature{ID: id, Name: name, Borough: borough, Geometry: p}
}

func testRegistry() *registry.Registry {
	return registry.Build([]registry.ZoneFeature{
		zoneAt(1, "Midtown Center", "Manhattan", 0, 0),
		zoneAt(2, "JFK Airport", "Queens", 10, 0),
		zoneAt(10, "Astoria", "Queens", 5, 5),
	}, nil)
}

func zonePtr(id model.ZoneID) *model.ZoneID { return &id }

func TestHotspotNoiseStrokeIndependentOfFill(t *testing.T) {
	// End-to-end scenario: {zone:10, hour:5, clusterId:-1, intensity:12}.
	idx := stindex.Build([]model.SpatiotemporalRecord{
		{Zone: 10, Hour: 5, ClusterID: model.NoiseCluster, Intensity: 12},
		{Zone: 1, Hour: 5, ClusterID: 2, Intensity: 24},
	})
	state := model.NewViewState()
	state.Hour = 5

	paints := Hotspot(testRegistry(), idx, state)
	byZone := make(map[model.ZoneID]ZonePaint)
	for _, p := range paints {
		byZone[p.Zone] = p
	}

	noisy := byZone[10]
	assert.Equal(t, IntensityFill(12, 24), noisy.Fill, "fill still follows intensity")
	assert.Equal(t, strokeNoise, noisy.Stroke)

	clustered := byZone[1]
	assert.Equal(t, strokeBase, clustered.Stroke)

	missing := byZone[2]
	assert.Equal(t, fillMissing, missing.Fill, "no row at this hour")
}

func TestHotspotStylePrecedence(t *testing.T) {
	idx := stindex.Build([]model.SpatiotemporalRecord{
		{Zone: 1, Hour: 0, ClusterID: 4, Intensity: 10},
	})
	reg := testRegistry()

	state := model.NewViewState()
	state.PrimaryZone = zonePtr(1)
	state.HoveredZone = zonePtr(1)

	paints := Hotspot(reg, idx, state)
	assert.Equal(t, strokeSelected, paints[0].Stroke, "selection overrides hover")

	// Cluster-time highlighting overrides selection while that tab is active.
	highlight := 4
	state.ActiveTab = model.TabClusters
	state.HighlightCluster = &highlight
	paints = Hotspot(reg, idx, state)
	assert.Equal(t, strokeHighlight, paints[0].Stroke)

	// The highlight has no effect on the flows tab.
	state.ActiveTab = model.TabFlows
	paints = Hotspot(reg, idx, state)
	assert.Equal(t, strokeSelected, paints[0].Stroke)
}

func TestHotspotBoroughDimmingAppliedLast(t *testing.T) {
	idx := stindex.Build(nil)
	state := model.NewViewState()
	state.BoroughFilter = string(model.BoroughQueens)
	state.PrimaryZone = zonePtr(2)

	paints := Hotspot(testRegistry(), idx, state)
	byZone := make(map[model.ZoneID]ZonePaint)
	for _, p := range paints {
		byZone[p.Zone] = p
	}

	assert.Equal(t, opacityDimmed, byZone[1].Opacity)
	assert.False(t, byZone[1].Interactive, "out-of-filter zones reject input")
	assert.Equal(t, opacityFull, byZone[2].Opacity)
	assert.Equal(t, strokeSelected, byZone[2].Stroke, "selection styling survives the dimming pass")
}

func TestHotspotRepaintIdempotent(t *testing.T) {
	idx := stindex.Build([]model.SpatiotemporalRecord{
		{Zone: 1, Hour: 0, ClusterID: 2, Intensity: 7},
	})
	state := model.NewViewState()
	state.BoroughFilter = string(model.BoroughManhattan)

	reg := testRegistry()
	first := Hotspot(reg, idx, state)
	second := Hotspot(reg, idx, state)
	assert.Equal(t, first, second, "repainting unchanged state must not drift")
}

func TestMode(t *testing.T) {
	s := model.NewViewState()
	assert.Equal(t, ModeNoSelection, Mode(s))

	s.PrimaryZone = zonePtr(1)
	assert.Equal(t, ModeSingleZone, Mode(s))

	s.SecondaryZone = zonePtr(2)
	assert.Equal(t, ModeZonePair, Mode(s))

	s.CorridorMode = true
	assert.Equal(t, ModeCorridorZone, Mode(s))

	s.PrimaryZone, s.SecondaryZone = nil, nil
	assert.Equal(t, ModeCorridorOverview, Mode(s))
}

func flowFixture() (*flows.Table, *corridor.Resolver) {
	cid := 3
	table := flows.New([]model.FlowRecord{
		{Origin: 1, Destination: 2, Hour: 8, TripCount: 50, FlowCluster: &cid},
		{Origin: 2, Destination: 1, Hour: 8, TripCount: 30, FlowCluster: &cid},
		{Origin: 1, Destination: 10, Hour: 8, TripCount: 5},
	})
	res := corridor.New(map[int]model.ClusterSemantics{
		3: {Label: "Midtown ↔ JFK", FromArea: "Midtown", ToArea: "JFK"},
	}, nil)
	return table, res
}

func TestForPrimaryEndToEnd(t *testing.T) {
	table, res := flowFixture()
	state := model.NewViewState()
	state.Hour = 8
	state.PrimaryZone = zonePtr(1)

	view := ForPrimary(table, testRegistry(), res, state)
	require.Len(t, view.Edges, 2)
	assert.False(t, view.Truncated)

	top := view.Edges[0]
	assert.Equal(t, model.ZoneID(2), top.To)
	assert.Equal(t, 50, top.OutCount)
	assert.Equal(t, 30, top.InCount)
	assert.Equal(t, 80, top.Total)
	assert.Equal(t, "Midtown ↔ JFK", top.Label)
	assert.Equal(t, "#d7191c", top.Color, "max-volume edge gets the hot end of the ramp")
	assert.InDelta(t, 5.5, top.Width, 1e-9)

	require.Len(t, view.Corridors, 1)
	assert.Equal(t, corridor.CanonicalKey("Midtown ↔ JFK"), view.Corridors[0].Key)
	assert.Equal(t, 80, view.Corridors[0].TotalTrips)
}

func TestForPrimaryCorridorFilter(t *testing.T) {
	table, res := flowFixture()
	state := model.NewViewState()
	state.Hour = 8
	state.PrimaryZone = zonePtr(1)
	state.CorridorMode = true
	state.ActiveCorridor = corridor.CanonicalKey("JFK ↔ Midtown")

	view := ForPrimary(table, testRegistry(), res, state)
	require.Len(t, view.Edges, 1, "partners outside the corridor are filtered out")
	assert.Equal(t, model.ZoneID(2), view.Edges[0].To)
}

func TestForPrimaryNoMatches(t *testing.T) {
	table, res := flowFixture()
	state := model.NewViewState()
	state.Hour = 3 // no flows at this hour
	state.PrimaryZone = zonePtr(1)

	view := ForPrimary(table, testRegistry(), res, state)
	assert.Empty(t, view.Edges)
	assert.Equal(t, "No trips for this selection.", view.Message)
}

func TestOverviewPreservesDirectionAndDrillTarget(t *testing.T) {
	table, res := flowFixture()
	key := corridor.CanonicalKey("Midtown ↔ JFK")

	view := Overview(table, testRegistry(), res, key)
	require.Len(t, view.Edges, 2)
	assert.Equal(t, model.ZoneID(1), view.Edges[0].From)
	assert.Equal(t, model.ZoneID(2), view.Edges[0].To)
	assert.Equal(t, 50, view.Edges[0].Total)
	assert.Equal(t, model.ZoneID(2), view.Edges[1].From, "reverse direction is a separate arc")
}

func TestOverviewUnknownKey(t *testing.T) {
	table, res := flowFixture()

	view := Overview(table, testRegistry(), res, "Nowhere ↔ Nowhere Else")
	assert.Empty(t, view.Edges)
	assert.Equal(t, "No clusters found for this corridor.", view.Message)
}

func TestFitTransformClampsScale(t *testing.T) {
	b := EmptyBounds()
	b.Extend(0, 0)
	b.Extend(1000, 1000)

	tr := FitTransform(b, 800, 600)
	assert.Equal(t, fitScaleMin, tr.Scale, "oversized bounds clamp to min scale")

	small := EmptyBounds()
	small.Extend(0, 0)
	small.Extend(1, 1)
	tr = FitTransform(small, 800, 600)
	assert.Equal(t, fitScaleMax, tr.Scale, "tiny bounds clamp to max scale")

	assert.Equal(t, Identity(), FitTransform(EmptyBounds(), 800, 600))
}

func TestFitTransformCentersBounds(t *testing.T) {
	b := EmptyBounds()
	b.Extend(100, 100)
	b.Extend(300, 200)

	tr := FitTransform(b, 800, 600)
	// The bounds center must land on the viewport center.
	assert.InDelta(t, 400.0, tr.Scale*200+tr.TranslateX, 1e-9)
	assert.InDelta(t, 300.0, tr.Scale*150+tr.TranslateY, 1e-9)
}

func TestBuildTimeSeriesMarksExtremes(t *testing.T) {
	points := make([]cluster.Point, 24)
	for h := range points {
		points[h] = cluster.Point{Hour: h}
	}
	points[8].Trips = 120
	points[17].Trips = 340
	points[3].Trips = 5

	ts := BuildTimeSeries(points)
	assert.Equal(t, 17, ts.MaxHour)
	assert.Equal(t, 0, ts.MinHour, "first zero hour is the single minimum")
	assert.Equal(t, 500.0, ts.YMax, "y domain niced above the max")
	assert.Empty(t, ts.Message)
}

func TestBuildTimeSeriesAllZero(t *testing.T) {
	points := make([]cluster.Point, 24)
	for h := range points {
		points[h] = cluster.Point{Hour: h}
	}

	ts := BuildTimeSeries(points)
	assert.Equal(t, "No trips for this selection.", ts.Message)
	assert.Equal(t, 1.0, ts.YMax, "axis keeps extent even with no data")
}
