package scene

import (
	"github.com/sells-group/taxiflow/internal/cluster"
)

// TimeSeries is the computed 24-hour line chart for one area: a dense
// series, a niced y domain, and the marked extreme points.
type TimeSeries struct {
	Points  []cluster.Point `json:"points"`
	YMax    float64         `json:"y_max"`
	MaxHour int             `json:"max_hour"`
	MinHour int             `json:"min_hour"`
	Message string          `json:"message,omitempty"`
}

// BuildTimeSeries computes the chart geometry for a dense 24-point series.
// The y domain is [0, max] niced; the single maximum and single minimum
// points are marked (first occurrence on ties). An all-zero series carries
// the "no trips" message instead of an empty chart.
func BuildTimeSeries(points []cluster.Point) TimeSeries {
	ts := TimeSeries{Points: points}
	if len(points) == 0 {
		ts.Message = msgNoTrips
		return ts
	}

	maxIdx, minIdx := 0, 0
	var total float64
	for i, p := range points {
		total += p.Trips
		if p.Trips > points[maxIdx].Trips {
			maxIdx = i
		}
		if p.Trips < points[minIdx].Trips {
			minIdx = i
		}
	}

	ts.MaxHour = points[maxIdx].Hour
	ts.MinHour = points[minIdx].Hour
	ts.YMax = NiceCeil(points[maxIdx].Trips)
	if total == 0 {
		ts.Message = msgNoTrips
	}
	return ts
}
