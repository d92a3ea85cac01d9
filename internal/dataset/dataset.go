// Package dataset is the load boundary: it reads the static artifacts the
// offline pipeline produces (zone geometry, flow table, clustering outputs,
// semantics documents), coerces them into the typed records in
// internal/model exactly once, and reports which optional datasets degraded.
package dataset

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/taxiflow/internal/model"
	"github.com/sells-group/taxiflow/internal/registry"
)

// Paths locates the artifacts inside the data directory. Zones and Flows
// are required; everything else is optional and degrades to empty.
type Paths struct {
	Zones         string // GeoJSON feature collection or .shp shapefile
	Lookup        string // taxi_zone_lookup.csv
	Flows         string // flows.csv
	ZoneHours     string // zone_hour_clusters.csv
	TimeSeries    string // cluster_timeseries.csv
	FlowSemantics string // flow-corridor semantics JSON
	ZoneSemantics string // zone-cluster semantics JSON
}

// DefaultPaths resolves the conventional artifact names under dir.
func DefaultPaths(dir string) Paths {
	return Paths{
		Zones:         filepath.Join(dir, "taxi_zones.geojson"),
		Lookup:        filepath.Join(dir, "taxi_zone_lookup.csv"),
		Flows:         filepath.Join(dir, "flows.csv"),
		ZoneHours:     filepath.Join(dir, "zone_hour_clusters.csv"),
		TimeSeries:    filepath.Join(dir, "cluster_timeseries.csv"),
		FlowSemantics: filepath.Join(dir, "flow_cluster_semantics.json"),
		ZoneSemantics: filepath.Join(dir, "zone_cluster_semantics.json"),
	}
}

// Bundle is everything the dashboard loads at boot, already typed.
type Bundle struct {
	Features      []registry.ZoneFeature
	Lookup        []registry.LookupRow
	Flows         []model.FlowRecord
	ZoneHours     []model.SpatiotemporalRecord
	TimeSeries    []model.TimeSeriesRecord
	FlowSemantics map[int]model.ClusterSemantics
	ZoneSemantics map[int]model.ClusterSemantics

	mu       sync.Mutex
	degraded []string
}

// Degraded lists the optional datasets that failed to load, sorted.
func (b *Bundle) Degraded() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.degraded))
	copy(out, b.degraded)
	sort.Strings(out)
	return out
}

func (b *Bundle) markDegraded(name string, err error) {
	zap.L().Warn("dataset: optional artifact unavailable, degrading",
		zap.String("dataset", name),
		zap.Error(err),
	)
	b.mu.Lock()
	b.degraded = append(b.degraded, name)
	b.mu.Unlock()
}

// Load reads all artifacts concurrently and joins. A failure loading zone
// geometry or the flow table is fatal; every other artifact degrades to
// empty with a warning. There are no retries: the data is static and local.
func Load(ctx context.Context, paths Paths) (*Bundle, error) {
	b := &Bundle{}
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		features, err := LoadZones(paths.Zones)
		if err != nil {
			return eris.Wrap(err, "dataset: load zone geometry")
		}
		b.Features = features
		return nil
	})

	g.Go(func() error {
		flows, err := LoadFlows(paths.Flows)
		if err != nil {
			return eris.Wrap(err, "dataset: load flow table")
		}
		b.Flows = flows
		return nil
	})

	g.Go(func() error {
		rows, err := LoadLookup(paths.Lookup)
		if err != nil {
			b.markDegraded("lookup", err)
			return nil
		}
		b.Lookup = rows
		return nil
	})

	g.Go(func() error {
		rows, err := LoadZoneHours(paths.ZoneHours)
		if err != nil {
			b.markDegraded("zone_hours", err)
			return nil
		}
		b.ZoneHours = rows
		return nil
	})

	g.Go(func() error {
		rows, err := LoadTimeSeries(paths.TimeSeries)
		if err != nil {
			b.markDegraded("timeseries", err)
			return nil
		}
		b.TimeSeries = rows
		return nil
	})

	g.Go(func() error {
		sem, err := LoadSemantics(paths.FlowSemantics)
		if err != nil {
			b.markDegraded("flow_semantics", err)
			return nil
		}
		b.FlowSemantics = sem
		return nil
	})

	g.Go(func() error {
		sem, err := LoadSemantics(paths.ZoneSemantics)
		if err != nil {
			b.markDegraded("zone_semantics", err)
			return nil
		}
		b.ZoneSemantics = sem
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	zap.L().Info("dataset: loaded",
		zap.Int("zones", len(b.Features)),
		zap.Int("flows", len(b.Flows)),
		zap.Int("zone_hours", len(b.ZoneHours)),
		zap.Int("timeseries", len(b.TimeSeries)),
		zap.Int("flow_semantics", len(b.FlowSemantics)),
		zap.Int("zone_semantics", len(b.ZoneSemantics)),
		zap.Strings("degraded", b.Degraded()),
	)
	return b, nil
}

// LoadZones dispatches on the geometry file extension: GeoJSON by default,
// shapefile for .shp (the TLC's native distribution format).
func LoadZones(path string) ([]registry.ZoneFeature, error) {
	if strings.EqualFold(filepath.Ext(path), ".shp") {
		return LoadZonesShapefile(path)
	}
	return LoadZonesGeoJSON(path)
}

// openArtifact opens a static artifact for reading.
func openArtifact(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open %s", filepath.Base(path))
	}
	return f, nil
}
