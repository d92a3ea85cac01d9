package dataset

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/taxiflow/internal/model"
	"github.com/sells-group/taxiflow/internal/registry"
)

// header maps lowercased column names to their positions.
type header map[string]int

func (h header) get(row []string, names ...string) (string, bool) {
	for _, name := range names {
		if i, ok := h[name]; ok && i < len(row) {
			return strings.TrimSpace(row[i]), true
		}
	}
	return "", false
}

// readCSV reads a headered CSV artifact and calls fn per data row. Rows fn
// rejects are counted and logged once; a malformed row never fails the
// whole load.
func readCSV(path, what string, fn func(h header, row []string) bool) error {
	f, err := openArtifact(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	head, err := reader.Read()
	if err != nil {
		return eris.Wrapf(err, "dataset: read %s header", what)
	}
	h := make(header, len(head))
	for i, name := range head {
		h[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var bad int
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return eris.Wrapf(err, "dataset: read %s row", what)
		}
		if !fn(h, row) {
			bad++
		}
	}

	if bad > 0 {
		zap.L().Warn("dataset: dropped malformed rows",
			zap.String("dataset", what),
			zap.Int("rows", bad),
		)
	}
	return nil
}

func parseInt(s string) (int, bool) {
	i, err := strconv.Atoi(s)
	return i, err == nil
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

// optionalFloat parses a float column, returning nil when missing or blank.
func optionalFloat(h header, row []string, names ...string) *float64 {
	s, ok := h.get(row, names...)
	if !ok || s == "" {
		return nil
	}
	if v, ok := parseFloat(s); ok {
		return &v
	}
	return nil
}

// LoadLookup reads the taxi zone lookup table (LocationID, Borough, Zone).
func LoadLookup(path string) ([]registry.LookupRow, error) {
	var rows []registry.LookupRow
	err := readCSV(path, "lookup", func(h header, row []string) bool {
		idRaw, ok := h.get(row, "locationid")
		if !ok {
			return false
		}
		id, ok := parseInt(idRaw)
		if !ok {
			return false
		}
		name, _ := h.get(row, "zone")
		borough, _ := h.get(row, "borough")
		rows = append(rows, registry.LookupRow{
			ID:      model.ZoneID(id),
			Name:    name,
			Borough: borough,
		})
		return true
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// LoadFlows reads the precomputed OD flow table. Negative, blank, or
// unparseable flow-cluster ids normalize to "no cluster" here, once, so no
// consumer ever sees a sentinel.
func LoadFlows(path string) ([]model.FlowRecord, error) {
	var records []model.FlowRecord
	err := readCSV(path, "flows", func(h header, row []string) bool {
		originRaw, ok := h.get(row, "origin_zone", "pulocationid")
		if !ok {
			return false
		}
		destRaw, ok := h.get(row, "destination_zone", "dolocationid")
		if !ok {
			return false
		}
		hourRaw, ok := h.get(row, "time_bin", "hour")
		if !ok {
			return false
		}
		tripsRaw, ok := h.get(row, "trip_count")
		if !ok {
			return false
		}

		origin, okO := parseInt(originRaw)
		dest, okD := parseInt(destRaw)
		hour, okH := parseInt(hourRaw)
		trips, okT := parseInt(tripsRaw)
		if !okO || !okD || !okH || !okT || hour < 0 || hour > 23 || trips < 0 {
			return false
		}

		rec := model.FlowRecord{
			Origin:      model.ZoneID(origin),
			Destination: model.ZoneID(dest),
			Hour:        hour,
			TripCount:   trips,
			AvgFare:     optionalFloat(h, row, "avg_fare"),
			AvgDuration: optionalFloat(h, row, "avg_duration_min"),
		}
		if s, ok := h.get(row, "flow_cluster_id"); ok && s != "" {
			if cid, ok := parseInt(s); ok && cid >= 0 {
				rec.FlowCluster = &cid
			}
		}
		records = append(records, rec)
		return true
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, eris.New("dataset: flow table is empty")
	}
	return records, nil
}

// LoadZoneHours reads the spatiotemporal clustering output
// (LocationID, hour, cluster_id, intensity_hour, ...). Cluster id -1 is the
// DBSCAN noise designator and is preserved as-is.
func LoadZoneHours(path string) ([]model.SpatiotemporalRecord, error) {
	var rows []model.SpatiotemporalRecord
	err := readCSV(path, "zone_hours", func(h header, row []string) bool {
		idRaw, ok := h.get(row, "locationid", "zone_id")
		if !ok {
			return false
		}
		hourRaw, ok := h.get(row, "hour")
		if !ok {
			return false
		}
		clusterRaw, ok := h.get(row, "cluster_id", "cluster_st")
		if !ok {
			return false
		}
		intensityRaw, ok := h.get(row, "intensity_hour", "intensity")
		if !ok {
			return false
		}

		id, okI := parseInt(idRaw)
		hour, okH := parseInt(hourRaw)
		cid, okC := parseInt(clusterRaw)
		intensity, okN := parseFloat(intensityRaw)
		if !okI || !okH || !okC || !okN || hour < 0 || hour > 23 || intensity < 0 {
			return false
		}

		rows = append(rows, model.SpatiotemporalRecord{
			Zone:        model.ZoneID(id),
			Hour:        hour,
			ClusterID:   cid,
			Intensity:   intensity,
			AvgFare:     optionalFloat(h, row, "avg_fare_hour", "avg_fare"),
			AvgDuration: optionalFloat(h, row, "avg_duration_min_hour", "avg_duration_min"),
		})
		return true
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// LoadTimeSeries reads the per-cluster hourly trip series
// (cluster, hour, trip_count, optional total_fare).
func LoadTimeSeries(path string) ([]model.TimeSeriesRecord, error) {
	var rows []model.TimeSeriesRecord
	err := readCSV(path, "timeseries", func(h header, row []string) bool {
		clusterRaw, ok := h.get(row, "cluster", "cluster_id")
		if !ok {
			return false
		}
		hourRaw, ok := h.get(row, "hour")
		if !ok {
			return false
		}
		tripsRaw, ok := h.get(row, "trip_count")
		if !ok {
			return false
		}

		cid, okC := parseInt(clusterRaw)
		hour, okH := parseInt(hourRaw)
		trips, okT := parseFloat(tripsRaw)
		if !okC || !okH || !okT || hour < 0 || hour > 23 || trips < 0 {
			return false
		}

		rec := model.TimeSeriesRecord{ClusterID: cid, Hour: hour, TripCount: trips}
		if fare := optionalFloat(h, row, "total_fare"); fare != nil {
			rec.TotalFare = *fare
		}
		rows = append(rows, rec)
		return true
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}
