package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/taxiflow/internal/model"
)

func squarePolygon(x, y, size float64) *geom.Polygon {
	p := geom.NewPolygon(geom.XY)
	_, err := p.SetCoords([][]geom.Coord{{
		{x, y},
		{x + size, y},
		{x + size, y + size},
		{x, y + size},
		{x, y},
	}})
	if err != nil {
		panic(err)
	}
	return p
}

func TestBuildJoinsLookup(t *testing.T) {
	features := []ZoneFeature{
		{ID: 1, Name: "geom name", Borough: "manhattan", Geometry: squarePolygon(0, 0, 1)},
		{ID: 2, Name: "Astoria", Borough: "queens", Geometry: squarePolygon(2, 0, 1)},
	}
	lookup := []LookupRow{
		{ID: 1, Name: "Times Sq/Theatre District", Borough: "Manhattan"},
	}

	r := Build(features, lookup)
	require.Equal(t, 2, r.Len())

	z1, ok := r.Zone(1)
	require.True(t, ok)
	assert.Equal(t, "Times Sq/Theatre District", z1.Name, "lookup row wins over embedded name")
	assert.Equal(t, model.BoroughManhattan, z1.Borough)

	z2, ok := r.Zone(2)
	require.True(t, ok)
	assert.Equal(t, "Astoria", z2.Name, "no lookup row falls back to embedded name")
	assert.Equal(t, model.BoroughQueens, z2.Borough)
}

func TestBuildNoLookupRowSynthesizesName(t *testing.T) {
	features := []ZoneFeature{
		{ID: 42, Borough: "the bronx", Geometry: squarePolygon(0, 0, 1)},
	}

	r := Build(features, nil)
	z, ok := r.Zone(42)
	require.True(t, ok)
	assert.Equal(t, "Zone 42", z.Name)
	assert.Equal(t, model.BoroughBronx, z.Borough, "borough inferred from geometry's own field")
}

func TestBuildDuplicateIDKeepsFirst(t *testing.T) {
	features := []ZoneFeature{
		{ID: 5, Name: "first", Geometry: squarePolygon(0, 0, 1)},
		{ID: 5, Name: "second", Geometry: squarePolygon(3, 3, 1)},
	}

	r := Build(features, nil)
	require.Equal(t, 1, r.Len())
	assert.Equal(t, "first", r.Name(5))
}

func TestRenderTimeLookupMiss(t *testing.T) {
	r := Build(nil, nil)
	assert.Equal(t, "Zone 99", r.Name(99))
	assert.Equal(t, model.BoroughUnknown, r.BoroughOf(99))
	_, ok := r.CentroidOf(99)
	assert.False(t, ok)
}

func TestCentroid(t *testing.T) {
	c := Centroid(squarePolygon(0, 0, 2))
	assert.InDelta(t, 1.0, c.X(), 1e-9)
	assert.InDelta(t, 1.0, c.Y(), 1e-9)
}
