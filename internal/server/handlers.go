package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/sells-group/taxiflow/internal/model"
	"github.com/sells-group/taxiflow/internal/scene"
)

const (
	defaultViewportW = 800
	defaultViewportH = 600
)

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Error("server: encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// queryInt parses an integer query parameter, returning fallback when the
// parameter is absent.
func queryInt(r *http.Request, name string, fallback int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// zoneSummary is the per-zone boot payload: identity, the centroid the
// node layer renders at, and the polygon the choropleth draws.
type zoneSummary struct {
	ID       model.ZoneID    `json:"id"`
	Name     string          `json:"name"`
	Borough  model.Borough   `json:"borough"`
	X        float64         `json:"x"`
	Y        float64         `json:"y"`
	Geometry json.RawMessage `json:"geometry,omitempty"`
}

func (s *Server) handleBootstrap(w http.ResponseWriter, _ *http.Request) {
	app := s.app

	zones := make([]zoneSummary, 0, app.Registry.Len())
	for _, z := range app.Registry.All() {
		zs := zoneSummary{ID: z.ID, Name: z.Name, Borough: z.Borough}
		if c, ok := app.Registry.CentroidOf(z.ID); ok {
			zs.X, zs.Y = c.X(), c.Y()
		}
		if z.Geometry != nil {
			if raw, err := geojson.Marshal(z.Geometry); err == nil {
				zs.Geometry = raw
			}
		}
		zones = append(zones, zs)
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"zones":         zones,
		"boroughs":      model.Boroughs,
		"max_intensity": app.Index.MaxIntensity(),
		"areas":         app.Series.TopAreas(app.AreaLabels, 10),
		"degraded":      app.Degraded,
		"state":         app.Coordinator.State(),
	})
}

// sceneState returns the coordinator state with any explicit query
// overrides applied to the copy. Overrides never mutate the shared state;
// they exist so a client can prefetch a neighboring hour.
func (s *Server) sceneState(r *http.Request) (model.ViewState, bool) {
	state := s.app.Coordinator.State()

	hour, ok := queryInt(r, "hour", state.Hour)
	if !ok || hour < 0 || hour > 23 {
		return state, false
	}
	state.Hour = hour

	if raw := r.URL.Query().Get("zone"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return state, false
		}
		zid := model.ZoneID(id)
		state.PrimaryZone = &zid
	}

	if key := r.URL.Query().Get("corridor"); key != "" {
		state.CorridorMode = true
		state.ActiveCorridor = model.CorridorKey(key)
	}
	return state, true
}

func (s *Server) handleHotspot(w http.ResponseWriter, r *http.Request) {
	state, ok := s.sceneState(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid hour or zone")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"hour":          state.Hour,
		"max_intensity": s.app.Index.MaxIntensity(),
		"zones":         scene.Hotspot(s.app.Registry, s.app.Index, state),
	})
}

func (s *Server) handleFlows(w http.ResponseWriter, r *http.Request) {
	state, ok := s.sceneState(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid hour or zone")
		return
	}
	if !state.HasPrimary() {
		respondError(w, http.StatusBadRequest, "zone is required")
		return
	}

	w2, okW := queryInt(r, "width", defaultViewportW)
	h2, okH := queryInt(r, "height", defaultViewportH)
	if !okW || !okH {
		respondError(w, http.StatusBadRequest, "invalid viewport")
		return
	}

	view := scene.ForPrimary(s.app.Table, s.app.Registry, s.app.Corridors, state)
	respondJSON(w, http.StatusOK, map[string]any{
		"flows": view,
		"nodes": scene.Nodes(s.app.Registry, state),
		"fit": scene.FitToEdges(s.app.Registry, *state.PrimaryZone, view.Edges,
			float64(w2), float64(h2)),
	})
}

func (s *Server) handleCorridorOverview(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		respondError(w, http.StatusBadRequest, "key is required")
		return
	}
	view := scene.Overview(s.app.Table, s.app.Registry, s.app.Corridors, model.CorridorKey(key))
	respondJSON(w, http.StatusOK, map[string]any{"flows": view})
}

func (s *Server) handleTimeSeries(w http.ResponseWriter, r *http.Request) {
	areas := s.app.Series.BuildAreas(s.app.AreaLabels)

	key := r.URL.Query().Get("area")
	if key == "" {
		respondJSON(w, http.StatusOK, map[string]any{"areas": areas})
		return
	}

	for _, area := range areas {
		if area.Key == key {
			points := s.app.Series.Detail(area)
			respondJSON(w, http.StatusOK, map[string]any{
				"area":   area,
				"points": points,
				"chart":  scene.BuildTimeSeries(points),
			})
			return
		}
	}
	respondError(w, http.StatusNotFound, "unknown area")
}

func (s *Server) handleCorridorSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	matches := s.app.Corridors.Search(q.Get("from"), q.Get("to"))
	respondJSON(w, http.StatusOK, map[string]any{"matches": matches})
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	state := s.app.Coordinator.State()
	respondJSON(w, http.StatusOK, map[string]any{
		"state": state,
		"mode":  scene.Mode(state),
	})
}

// command is the envelope every state mutation arrives in. Which fields
// are read depends on the command name.
type command struct {
	Command     string `json:"command"`
	Hour        *int   `json:"hour,omitempty"`
	Zone        *int   `json:"zone,omitempty"`
	Origin      *int   `json:"origin,omitempty"`
	Destination *int   `json:"destination,omitempty"`
	Key         string `json:"key,omitempty"`
	Filter      string `json:"filter,omitempty"`
	Tab         string `json:"tab,omitempty"`
	Cluster     *int   `json:"cluster,omitempty"`
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var cmd command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	coord := s.app.Coordinator
	switch cmd.Command {
	case "set_hour":
		if cmd.Hour == nil {
			respondError(w, http.StatusBadRequest, "hour is required")
			return
		}
		coord.SetHour(*cmd.Hour)
	case "click_zone":
		if cmd.Zone == nil {
			respondError(w, http.StatusBadRequest, "zone is required")
			return
		}
		coord.ClickZone(model.ZoneID(*cmd.Zone))
	case "click_empty":
		coord.ClickEmpty()
	case "hover":
		if cmd.Zone == nil {
			coord.Hover(nil)
		} else {
			zid := model.ZoneID(*cmd.Zone)
			coord.Hover(&zid)
		}
	case "set_borough":
		coord.SetBoroughFilter(cmd.Filter)
	case "select_corridor":
		coord.SelectCorridor(model.CorridorKey(cmd.Key))
	case "show_corridor_overview":
		coord.ShowCorridorOverview(model.CorridorKey(cmd.Key))
	case "drill_down":
		if cmd.Origin == nil || cmd.Destination == nil {
			respondError(w, http.StatusBadRequest, "origin and destination are required")
			return
		}
		coord.DrillDown(model.ZoneID(*cmd.Origin), model.ZoneID(*cmd.Destination))
	case "set_tab":
		coord.SetTab(model.ViewTab(cmd.Tab))
	case "highlight_cluster":
		if cmd.Cluster == nil {
			respondError(w, http.StatusBadRequest, "cluster is required")
			return
		}
		coord.HighlightClusterOnMap(*cmd.Cluster)
	case "end_transition":
		coord.EndTransition()
	default:
		respondError(w, http.StatusBadRequest, "unknown command")
		return
	}

	s.metrics.StateCommands.WithLabelValues(cmd.Command).Inc()
	state := coord.State()
	respondJSON(w, http.StatusOK, map[string]any{
		"state": state,
		"mode":  scene.Mode(state),
	})
}
