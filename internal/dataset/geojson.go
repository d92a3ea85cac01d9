package dataset

import (
	"encoding/json"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/sells-group/taxiflow/internal/model"
	"github.com/sells-group/taxiflow/internal/registry"
)

// LoadZonesGeoJSON reads a GeoJSON feature collection of zone polygons.
// Each feature must carry a LocationID property; name and borough
// properties are optional and degrade per the registry join rules.
func LoadZonesGeoJSON(path string) ([]registry.ZoneFeature, error) {
	f, err := openArtifact(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: read geojson")
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrap(err, "dataset: parse geojson")
	}

	features := make([]registry.ZoneFeature, 0, len(fc.Features))
	var skipped int
	for _, feat := range fc.Features {
		id, ok := propertyInt(feat.Properties, "LocationID", "location_id", "locationid")
		if !ok {
			skipped++
			continue
		}
		poly := asPolygon(feat.Geometry)
		if poly == nil {
			skipped++
			continue
		}

		name, _ := propertyString(feat.Properties, "zone", "Zone", "name")
		borough, _ := propertyString(feat.Properties, "borough", "Borough")
		features = append(features, registry.ZoneFeature{
			ID:       model.ZoneID(id),
			Name:     name,
			Borough:  borough,
			Geometry: poly,
		})
	}

	if skipped > 0 {
		zap.L().Warn("dataset: skipped geojson features without id or polygon",
			zap.Int("skipped", skipped))
	}
	if len(features) == 0 {
		return nil, eris.New("dataset: geojson contains no usable zone features")
	}
	return features, nil
}

// asPolygon normalizes a feature geometry to a single polygon. For a
// multipolygon the largest-area member stands in for the zone; the
// centroid and hit area it drives are dominated by that member anyway.
func asPolygon(g geom.T) *geom.Polygon {
	switch t := g.(type) {
	case *geom.Polygon:
		return t
	case *geom.MultiPolygon:
		var best *geom.Polygon
		bestArea := math.Inf(-1)
		for i := 0; i < t.NumPolygons(); i++ {
			p := t.Polygon(i)
			if a := math.Abs(p.Area()); a > bestArea {
				best, bestArea = p, a
			}
		}
		return best
	default:
		return nil
	}
}

// propertyInt reads the first present property under any of the names,
// tolerating JSON numbers and numeric strings.
func propertyInt(props map[string]interface{}, names ...string) (int, bool) {
	for _, name := range names {
		v, ok := props[name]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return int(n), true
		case int:
			return n, true
		case string:
			if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
				return i, true
			}
		}
	}
	return 0, false
}

// propertyString reads the first present non-empty string property.
func propertyString(props map[string]interface{}, names ...string) (string, bool) {
	for _, name := range names {
		if v, ok := props[name]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s), true
			}
		}
	}
	return "", false
}
