// Package server assembles the loaded artifacts into the live dashboard
// and serves it over HTTP. The scene endpoints are pure reads of the
// coordinator's view state; every mutation goes through the command
// endpoint so the fixed repaint order holds no matter how many browser
// tabs are connected.
package server

import (
	"github.com/jonboulle/clockwork"

	"github.com/sells-group/taxiflow/internal/cluster"
	"github.com/sells-group/taxiflow/internal/corridor"
	"github.com/sells-group/taxiflow/internal/dataset"
	"github.com/sells-group/taxiflow/internal/flows"
	"github.com/sells-group/taxiflow/internal/registry"
	"github.com/sells-group/taxiflow/internal/stindex"
	"github.com/sells-group/taxiflow/internal/viewstate"
)

// App is the assembled dashboard: every index and resolver built from one
// artifact bundle, plus the coordinator owning the view state.
type App struct {
	Registry    *registry.Registry
	Index       *stindex.Index
	Table       *flows.Table
	Corridors   *corridor.Resolver // flow-cluster semantics
	AreaLabels  *corridor.Resolver // zone-cluster semantics, labels the time panel
	Series      *cluster.Series
	Coordinator *viewstate.Coordinator
	Degraded    []string
}

// NewApp builds the full dashboard from a loaded bundle. Construction is
// pure assembly; all artifact coercion already happened in the dataset
// package.
func NewApp(bundle *dataset.Bundle, clock clockwork.Clock) *App {
	reg := registry.Build(bundle.Features, bundle.Lookup)
	idx := stindex.Build(bundle.ZoneHours)

	return &App{
		Registry:    reg,
		Index:       idx,
		Table:       flows.New(bundle.Flows),
		Corridors:   corridor.New(bundle.FlowSemantics, reg.All()),
		AreaLabels:  corridor.New(bundle.ZoneSemantics, reg.All()),
		Series:      cluster.New(bundle.TimeSeries),
		Coordinator: viewstate.New(reg, idx, clock),
		Degraded:    bundle.Degraded(),
	}
}
