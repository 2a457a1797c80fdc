// Package observability provides the metrics registry and logger
// construction shared across the application.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics aggregates the canvas counters and gauges on a private registry so
// the debug endpoint only exposes what the application registers.
type Metrics struct {
	Registry *prometheus.Registry

	GraphReloads   prometheus.Counter
	WriteBacks     *prometheus.CounterVec
	FramesRendered prometheus.Counter

	Nodes prometheus.Gauge
	Edges prometheus.Gauge
}

// NewMetrics builds and registers the metric set.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		Registry: reg,
		GraphReloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "notecanvas",
			Name:      "graph_reloads_total",
			Help:      "Number of graph rebuilds from the vault.",
		}),
		WriteBacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "notecanvas",
			Name:      "write_backs_total",
			Help:      "Number of note write-backs by outcome.",
		}, []string{"outcome"}),
		FramesRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "notecanvas",
			Name:      "frames_rendered_total",
			Help:      "Number of canvas frames rendered.",
		}),
		Nodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "notecanvas",
			Name:      "graph_nodes",
			Help:      "Nodes in the current graph.",
		}),
		Edges: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "notecanvas",
			Name:      "graph_edges",
			Help:      "Edges in the current graph.",
		}),
	}

	reg.MustRegister(m.GraphReloads, m.WriteBacks, m.FramesRendered, m.Nodes, m.Edges)
	return m
}

// ObserveGraph records the size of a freshly built graph.
func (m *Metrics) ObserveGraph(nodes, edges int) {
	m.GraphReloads.Inc()
	m.Nodes.Set(float64(nodes))
	m.Edges.Set(float64(edges))
}

// WriteBackSucceeded increments the success counter.
func (m *Metrics) WriteBackSucceeded() {
	m.WriteBacks.WithLabelValues("ok").Inc()
}

// WriteBackFailed increments the failure counter.
func (m *Metrics) WriteBackFailed() {
	m.WriteBacks.WithLabelValues("failed").Inc()
}
