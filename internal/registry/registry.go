// Package registry builds the immutable zone catalog by joining zone
// geometry with the optional name/borough lookup table.
package registry

import (
	"sort"

	"github.com/twpayne/go-geom"

	"github.com/sells-group/taxiflow/internal/model"
)

// ZoneFeature is one geometry feature as produced by the dataset loaders:
// the polygon plus whatever name/borough properties the file embeds.
type ZoneFeature struct {
	ID       model.ZoneID
	Name     string
	Borough  string // raw, unnormalized
	Geometry *geom.Polygon
}

// LookupRow is one row of the taxi-zone lookup table.
type LookupRow struct {
	ID      model.ZoneID
	Name    string
	Borough string
}

// Registry is the id-keyed zone catalog. Immutable after Build.
type Registry struct {
	zones map[model.ZoneID]model.Zone
	ids   []model.ZoneID
}

// Build joins geometry features with lookup rows. A feature with a lookup
// row takes its name and borough from it; otherwise it falls back to the
// feature's own embedded name (or "Zone <id>") and its raw borough field,
// normalized by the same rules. Missing lookup data degrades silently.
// Every feature yields exactly one entry; a repeated id keeps the first.
func Build(features []ZoneFeature, lookup []LookupRow) *Registry {
	byID := make(map[model.ZoneID]LookupRow, len(lookup))
	for _, row := range lookup {
		byID[row.ID] = row
	}

	r := &Registry{zones: make(map[model.ZoneID]model.Zone, len(features))}
	for _, f := range features {
		if _, ok := r.zones[f.ID]; ok {
			continue
		}

		z := model.Zone{ID: f.ID, Geometry: f.Geometry}
		if f.Geometry != nil {
			z.Centroid = Centroid(f.Geometry)
		}

		if row, ok := byID[f.ID]; ok {
			z.Name = row.Name
			z.Borough = model.ParseBorough(row.Borough)
		} else {
			z.Name = f.Name
			z.Borough = model.ParseBorough(f.Borough)
		}
		if z.Name == "" {
			z.Name = model.PlaceholderName(f.ID)
		}

		r.zones[f.ID] = z
		r.ids = append(r.ids, f.ID)
	}

	sort.Slice(r.ids, func(i, j int) bool { return r.ids[i] < r.ids[j] })
	return r
}

// Zone returns the entry for id.
func (r *Registry) Zone(id model.ZoneID) (model.Zone, bool) {
	z, ok := r.zones[id]
	return z, ok
}

// Name returns the zone's display name, or the "Zone <id>" placeholder for
// an id with no entry. Render-time lookup misses never error.
func (r *Registry) Name(id model.ZoneID) string {
	if z, ok := r.zones[id]; ok {
		return z.Name
	}
	return model.PlaceholderName(id)
}

// BoroughOf returns the zone's borough, or Unknown for a missing id.
func (r *Registry) BoroughOf(id model.ZoneID) model.Borough {
	if z, ok := r.zones[id]; ok {
		return z.Borough
	}
	return model.BoroughUnknown
}

// Centroid of a registered zone; ok is false for ids with no geometry.
func (r *Registry) CentroidOf(id model.ZoneID) (geom.Coord, bool) {
	z, ok := r.zones[id]
	if !ok || z.Geometry == nil {
		return nil, false
	}
	return z.Centroid, true
}

// Len is the number of registered zones.
func (r *Registry) Len() int { return len(r.zones) }

// IDs returns all zone ids in ascending order.
func (r *Registry) IDs() []model.ZoneID { return r.ids }

// All returns the registered zones in id order.
func (r *Registry) All() []model.Zone {
	out := make([]model.Zone, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.zones[id])
	}
	return out
}

// Centroid computes the area-weighted centroid of the polygon's outer ring.
// Degenerate rings (zero area) fall back to the vertex mean.
func Centroid(p *geom.Polygon) geom.Coord {
	ring := p.LinearRing(0)
	n := ring.NumCoords()
	if n == 0 {
		return geom.Coord{0, 0}
	}

	var area, cx, cy float64
	for i := 0; i < n; i++ {
		a := ring.Coord(i)
		b := ring.Coord((i + 1) % n)
		cross := a.X()*b.Y() - b.X()*a.Y()
		area += cross
		cx += (a.X() + b.X()) * cross
		cy += (a.Y() + b.Y()) * cross
	}

	if area == 0 {
		var sx, sy float64
		for i := 0; i < n; i++ {
			sx += ring.Coord(i).X()
			sy += ring.Coord(i).Y()
		}
		return geom.Coord{sx / float64(n), sy / float64(n)}
	}

	area /= 2
	return geom.Coord{cx / (6 * area), cy / (6 * area)}
}
