// Package viewstate owns the single mutable ViewState and the fixed
// repaint-notification order every state-changing UI action runs through.
// Commands decide the next state; painting happens elsewhere against the
// scene package.
package viewstate

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/sells-group/taxiflow/internal/model"
	"github.com/sells-group/taxiflow/internal/registry"
	"github.com/sells-group/taxiflow/internal/stindex"
)

// TransitionDuration is how long an auto-zoom animation suppresses hover
// cross-highlighting.
const TransitionDuration = 400 * time.Millisecond

// Repaints is the set of view repaint callbacks the coordinator drives.
// The invocation order is fixed: hotspot, OD node coloring, OD flows for
// the current primary, borough filter styling, then the active
// time-cluster highlight. Borough dimming runs after selection styling on
// purpose, so it is never overwritten; do not reorder.
type Repaints struct {
	Hotspot          func()
	ODNodes          func()
	ODFlows          func()
	BoroughFilter    func()
	ClusterHighlight func()
}

// Coordinator holds the process-wide ViewState. All commands are
// synchronous and run to completion; the coordinator serializes them with
// a mutex so concurrent HTTP handlers behave like a single-threaded event
// loop.
type Coordinator struct {
	mu    sync.Mutex
	state model.ViewState

	reg *registry.Registry
	idx *stindex.Index

	repaints Repaints
	clock    clockwork.Clock

	// autoZoomed tracks primaries that already ran their one zoom-to-fit.
	autoZoomed map[model.ZoneID]bool

	// transitionUntil is the deadline of the running auto-zoom animation.
	// Hover handlers no-op before it; checking a deadline instead of a
	// stored flag means an interrupted animation can never leave hover
	// suppressed forever.
	transitionUntil time.Time
}

// New creates a coordinator at the boot-time state.
func New(reg *registry.Registry, idx *stindex.Index, clock clockwork.Clock) *Coordinator {
	return &Coordinator{
		state:      model.NewViewState(),
		reg:        reg,
		idx:        idx,
		clock:      clock,
		autoZoomed: make(map[model.ZoneID]bool),
	}
}

// SetRepaints registers the view repaint callbacks.
func (c *Coordinator) SetRepaints(r Repaints) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.repaints = r
}

// State returns a copy of the current view state.
func (c *Coordinator) State() model.ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// notify runs the fixed repaint sequence for the current state.
func (c *Coordinator) notify() {
	if c.repaints.Hotspot != nil {
		c.repaints.Hotspot()
	}
	if c.repaints.ODNodes != nil {
		c.repaints.ODNodes()
	}
	if c.repaints.ODFlows != nil && c.state.HasPrimary() {
		c.repaints.ODFlows()
	}
	if c.repaints.BoroughFilter != nil {
		c.repaints.BoroughFilter()
	}
	if c.repaints.ClusterHighlight != nil && c.state.ActiveTab == model.TabClusters {
		c.repaints.ClusterHighlight()
	}
}

// SetHour moves the hour slider. Out-of-range input clamps to [0, 23].
func (c *Coordinator) SetHour(hour int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if hour < 0 {
		hour = 0
	}
	if hour > 23 {
		hour = 23
	}
	c.state.Hour = hour
	c.refreshHighlight()
	c.notify()
}

// ClickZone handles a zone click on the map. Clicks on zones outside the
// active borough filter are rejected before any state changes; their
// pointer events are disabled, so this models the same precondition.
// Selecting a new primary clears any secondary, keeps corridor lock, and
// runs the one-time auto-zoom for primaries not zoomed before.
func (c *Coordinator) ClickZone(id model.ZoneID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.PassesBoroughFilter(c.reg.BoroughOf(id)) {
		return
	}

	already := c.state.PrimaryZone != nil && *c.state.PrimaryZone == id
	c.state.PrimaryZone = &id
	c.state.SecondaryZone = nil
	c.state.FromOverview = false
	c.refreshHighlight()

	if !already && !c.autoZoomed[id] {
		c.autoZoomed[id] = true
		c.beginTransition()
	}
	c.notify()
}

// ClickEmpty handles a click on empty map space. From a corridor
// drill-down that originated in the overview it returns to that overview;
// from every other state it performs a full reset of selection and
// corridor state (the borough filter value itself is kept and restyled).
func (c *Coordinator) ClickEmpty() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.CorridorMode && c.state.HasPrimary() && c.state.FromOverview {
		c.state.PrimaryZone = nil
		c.state.SecondaryZone = nil
		c.state.HighlightCluster = nil
		c.notify()
		return
	}

	c.state.PrimaryZone = nil
	c.state.SecondaryZone = nil
	c.state.CorridorMode = false
	c.state.ActiveCorridor = ""
	c.state.FromOverview = false
	c.state.HighlightCluster = nil
	c.notify()
}

// SetBoroughFilter changes the borough filter. Any zone selection is
// cleared; the hotspot view returns to Idle.
func (c *Coordinator) SetBoroughFilter(filter string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	valid := filter == model.BoroughFilterAll
	for _, b := range model.Boroughs {
		if filter == string(b) {
			valid = true
		}
	}
	if !valid {
		zap.L().Warn("viewstate: ignoring unknown borough filter", zap.String("filter", filter))
		return
	}

	c.state.BoroughFilter = filter
	c.state.PrimaryZone = nil
	c.state.SecondaryZone = nil
	c.state.HighlightCluster = nil
	c.notify()
}

// SelectCorridor activates corridor filtering for the current selection
// (the per-zone corridor dropdown).
func (c *Coordinator) SelectCorridor(key model.CorridorKey) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.CorridorMode = true
	c.state.ActiveCorridor = key
	c.state.FromOverview = false
	c.notify()
}

// ShowCorridorOverview enters many-to-many corridor overview mode: no
// primary, corridor active.
func (c *Coordinator) ShowCorridorOverview(key model.CorridorKey) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.CorridorMode = true
	c.state.ActiveCorridor = key
	c.state.PrimaryZone = nil
	c.state.SecondaryZone = nil
	c.state.FromOverview = false
	c.state.HighlightCluster = nil
	c.notify()
}

// DrillDown anchors a corridor overview arc: origin becomes primary,
// destination secondary, corridor lock kept, and the origin is remembered
// so ClickEmpty returns to the overview.
func (c *Coordinator) DrillDown(origin, destination model.ZoneID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.CorridorMode {
		return
	}
	c.state.PrimaryZone = &origin
	c.state.SecondaryZone = &destination
	c.state.FromOverview = true
	c.refreshHighlight()
	c.notify()
}

// SetTab toggles between the OD flows and cluster time-patterns panels.
func (c *Coordinator) SetTab(tab model.ViewTab) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if tab != model.TabFlows && tab != model.TabClusters {
		return
	}
	c.state.ActiveTab = tab
	c.notify()
}

// HighlightClusterOnMap sets the time-patterns cross-highlight to an
// area's representative cluster.
func (c *Coordinator) HighlightClusterOnMap(clusterID int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.HighlightCluster = &clusterID
	c.notify()
}

// Hover moves the hover target. Hover is a no-op while an auto-zoom
// animation is in flight, and on zones outside the borough filter. Pass
// nil to clear.
func (c *Coordinator) Hover(id *model.ZoneID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inTransition() {
		return
	}
	if id != nil && !c.state.PassesBoroughFilter(c.reg.BoroughOf(*id)) {
		return
	}
	c.state.HoveredZone = id
	c.notify()
}

// EndTransition clears the animation guard. Both the normal-completion and
// the interrupted-transition callbacks call this; the deadline check in
// inTransition keeps hover live even if neither ever fires.
func (c *Coordinator) EndTransition() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transitionUntil = time.Time{}
}

// InTransition reports whether an auto-zoom animation is suppressing hover.
func (c *Coordinator) InTransition() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inTransition()
}

func (c *Coordinator) inTransition() bool {
	return c.clock.Now().Before(c.transitionUntil)
}

func (c *Coordinator) beginTransition() {
	c.transitionUntil = c.clock.Now().Add(TransitionDuration)
}

// refreshHighlight recomputes the time-patterns cross-highlight from the
// current primary zone and hour: the spatiotemporal cluster covering that
// pair, if any.
func (c *Coordinator) refreshHighlight() {
	if c.state.PrimaryZone == nil || c.idx == nil {
		return
	}
	if cid, ok := c.idx.ClusterAt(*c.state.PrimaryZone, c.state.Hour); ok {
		c.state.HighlightCluster = &cid
	} else {
		c.state.HighlightCluster = nil
	}
}
