package sched

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	meshed       prometheus.Counter
	skipped      prometheus.Counter
	dirtyDepth   prometheus.Gauge
	meshDuration prometheus.Histogram
}

// newMetrics builds the scheduler's collectors. They are registered only
// when the host passes a Registerer; without one they still count, which
// keeps the hot path free of nil checks.
func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		meshed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "voxmesh_chunks_meshed_total",
			Help: "Chunk meshes produced and applied.",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "voxmesh_units_skipped_total",
			Help: "Meshing units dropped because their chunk was unloaded in flight.",
		}),
		dirtyDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "voxmesh_dirty_chunks",
			Help: "Chunks currently waiting for a remesh.",
		}),
		meshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "voxmesh_mesh_duration_seconds",
			Help:    "Wall time of a single chunk meshing unit.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.meshed, m.skipped, m.dirtyDepth, m.meshDuration)
	}
	return m
}
