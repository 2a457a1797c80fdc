// Package rest wires the loopback debug HTTP surface: health, metrics, and
// a read-only graph snapshot.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"notecanvas/interfaces/http/rest/handlers"
	"notecanvas/interfaces/http/rest/middleware"
	"notecanvas/pkg/observability"
)

// Router configures the debug routes.
type Router struct {
	provider handlers.SnapshotProvider
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(provider handlers.SnapshotProvider, metrics *observability.Metrics, logger *zap.Logger) *Router {
	return &Router{provider: provider, metrics: metrics, logger: logger}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	router.Get("/health", rt.healthCheck)
	router.Handle("/metrics", promhttp.HandlerFor(rt.metrics.Registry, promhttp.HandlerOpts{}))

	router.Route("/api", func(r chi.Router) {
		r.Get("/graph", handlers.NewGraphHandler(rt.provider, rt.logger).GetGraph)
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
