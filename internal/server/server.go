package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/taxiflow/internal/config"
	"github.com/sells-group/taxiflow/internal/viewstate"
)

// Server exposes the dashboard API, the static frontend, and the
// observability endpoints.
type Server struct {
	app        *App
	metrics    *Metrics
	limiter    *rate.Limiter
	httpServer *http.Server
	log        *zap.Logger
}

// New wires the router and registers the coordinator's repaint callbacks.
func New(cfg config.ServerConfig, app *App, metrics *Metrics) *Server {
	s := &Server{
		app:     app,
		metrics: metrics,
		log:     zap.L().With(zap.String("component", "server")),
	}
	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}

	metrics.DatasetDegraded.Set(float64(len(app.Degraded)))

	// In the browser the repaint order repaints canvases; here it feeds
	// the repaint counters, which is enough to assert the order held.
	app.Coordinator.SetRepaints(repaintCounters(metrics))

	r := chi.NewRouter()
	r.Use(s.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))
	r.Use(s.rateLimit)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/bootstrap", s.handleBootstrap)
		r.Get("/scene/hotspot", s.handleHotspot)
		r.Get("/scene/flows", s.handleFlows)
		r.Get("/scene/corridor-overview", s.handleCorridorOverview)
		r.Get("/scene/timeseries", s.handleTimeSeries)
		r.Get("/corridors/search", s.handleCorridorSearch)
		r.Get("/state", s.handleState)
		r.Post("/state/command", s.handleCommand)
	})

	if cfg.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// repaintCounters maps the coordinator's fixed notification order onto the
// per-view repaint counters.
func repaintCounters(m *Metrics) viewstate.Repaints {
	bump := func(view string) func() {
		return func() { m.SceneRepaints.WithLabelValues(view).Inc() }
	}
	return viewstate.Repaints{
		Hotspot:          bump("hotspot"),
		ODNodes:          bump("od_nodes"),
		ODFlows:          bump("od_flows"),
		BoroughFilter:    bump("borough_filter"),
		ClusterHighlight: bump("cluster_highlight"),
	}
}

// Start begins listening. Blocks until Shutdown or a listen error.
func (s *Server) Start() error {
	s.log.Info("starting server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "server: listen")
	}
	return nil
}

// Shutdown drains connections within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down server")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
