// Package stindex indexes the offline zone-hour clustering output for the
// hotspot choropleth: a (zone, hour) lookup plus the global intensity
// maximum that bounds the color scale.
package stindex

import (
	"github.com/sells-group/taxiflow/internal/model"
)

// Index is the (zone, hour) keyed spatiotemporal lookup. Read-only after
// Build.
type Index struct {
	byKey        map[model.ZoneHour]model.SpatiotemporalRecord
	maxIntensity float64
}

// Build indexes all rows by (zone, hour). Later duplicates of a key replace
// earlier ones; the artifact is keyed uniquely upstream, so in practice
// there are none.
func Build(rows []model.SpatiotemporalRecord) *Index {
	idx := &Index{byKey: make(map[model.ZoneHour]model.SpatiotemporalRecord, len(rows))}
	for _, r := range rows {
		idx.byKey[model.ZoneHour{Zone: r.Zone, Hour: r.Hour}] = r
		if r.Intensity > idx.maxIntensity {
			idx.maxIntensity = r.Intensity
		}
	}
	return idx
}

// At returns the record for (zone, hour).
func (i *Index) At(zone model.ZoneID, hour int) (model.SpatiotemporalRecord, bool) {
	r, ok := i.byKey[model.ZoneHour{Zone: zone, Hour: hour}]
	return r, ok
}

// MaxIntensity is the upper domain bound for the hotspot color scale.
func (i *Index) MaxIntensity() float64 { return i.maxIntensity }

// ClusterAt returns the spatiotemporal cluster covering (zone, hour).
// ok is false when there is no row or the row is DBSCAN noise.
func (i *Index) ClusterAt(zone model.ZoneID, hour int) (int, bool) {
	r, ok := i.At(zone, hour)
	if !ok || r.IsNoise() {
		return 0, false
	}
	return r.ClusterID, true
}

// Len is the number of indexed (zone, hour) rows.
func (i *Index) Len() int { return len(i.byKey) }
