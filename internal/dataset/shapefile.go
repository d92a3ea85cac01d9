package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/sells-group/taxiflow/internal/model"
	"github.com/sells-group/taxiflow/internal/registry"
)

// LoadZonesShapefile reads zone polygons from the TLC shapefile
// distribution. Attributes LocationID, zone, and borough come from the
// sidecar DBF.
func LoadZonesShapefile(path string) ([]registry.ZoneFeature, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: open shapefile")
	}
	defer func() { _ = reader.Close() }()

	idIdx := fieldIndex(reader, "LocationID")
	if idIdx < 0 {
		idIdx = fieldIndex(reader, "OBJECTID")
	}
	nameIdx := fieldIndex(reader, "zone")
	boroughIdx := fieldIndex(reader, "borough")
	if idIdx < 0 {
		return nil, eris.New("dataset: shapefile has no LocationID field")
	}

	var features []registry.ZoneFeature
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok || poly == nil {
			skipped++
			continue
		}

		id, err := strconv.Atoi(strings.TrimSpace(reader.Attribute(idIdx)))
		if err != nil {
			skipped++
			continue
		}

		g := largestPart(poly)
		if g == nil {
			skipped++
			continue
		}

		f := registry.ZoneFeature{ID: model.ZoneID(id), Geometry: g}
		if nameIdx >= 0 {
			f.Name = strings.TrimSpace(reader.Attribute(nameIdx))
		}
		if boroughIdx >= 0 {
			f.Borough = strings.TrimSpace(reader.Attribute(boroughIdx))
		}
		features = append(features, f)
	}
	if err := reader.Err(); err != nil {
		return nil, eris.Wrap(err, "dataset: read shapefile")
	}

	if skipped > 0 {
		zap.L().Warn("dataset: skipped malformed shapefile records", zap.Int("skipped", skipped))
	}
	if len(features) == 0 {
		return nil, eris.New("dataset: shapefile contains no usable zone records")
	}
	return features, nil
}

// fieldIndex returns the index of a named DBF field, or -1 if not found.
func fieldIndex(reader *shp.Reader, name string) int {
	for i, f := range reader.Fields() {
		if strings.EqualFold(strings.TrimRight(f.String(), "\x00"), name) {
			return i
		}
	}
	return -1
}

// largestPart converts the shapefile polygon's largest ring into a
// geom.Polygon, matching the multipolygon handling on the GeoJSON path.
func largestPart(p *shp.Polygon) *geom.Polygon {
	if p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	var best *geom.Polygon
	bestArea := -1.0
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}
		if len(flat) < 8 { // fewer than 4 points cannot close a ring
			continue
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			continue
		}
		if a := math.Abs(poly.Area()); a > bestArea {
			best, bestArea = poly, a
		}
	}
	return best
}
