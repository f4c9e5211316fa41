// Package metrics exports memo store and resource usage metrics through Prometheus.
package metrics

import (
	"io"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

const namespace = "kiln"

var (
	_ ports.CacheObserver = (*Metrics)(nil)
	_ ports.SnapshotSink  = (*Metrics)(nil)
)

// Metrics collects engine metrics into its own registry.
type Metrics struct {
	registry *prometheus.Registry

	lookups        *prometheus.CounterVec
	snapshots      prometheus.Counter
	processes      prometheus.Gauge
	totalMemoryKB  prometheus.Gauge
	processMemory  *prometheus.GaugeVec
	peakMemoryKB   prometheus.Gauge
	peakMemorySeen int
}

// New creates the metrics and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "memo_lookups_total",
				Help:      "Memo store lookups by key space and result.",
			},
			[]string{"key_space", "result"},
		),
		snapshots: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resource_snapshots_total",
			Help:      "Resource snapshots taken.",
		}),
		processes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sampled_processes",
			Help:      "Processes in the latest resource snapshot.",
		}),
		totalMemoryKB: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "memory_kilobytes",
			Help:      "Memory used by all sampled processes in the latest snapshot.",
		}),
		processMemory: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "process_memory_kilobytes",
				Help:      "Memory used by each sampled process in the latest snapshot.",
			},
			[]string{"pid"},
		),
		peakMemoryKB: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "peak_memory_kilobytes",
			Help:      "Highest total memory seen in any snapshot.",
		}),
	}

	m.registry.MustRegister(
		m.lookups,
		m.snapshots,
		m.processes,
		m.totalMemoryKB,
		m.processMemory,
		m.peakMemoryKB,
	)
	return m
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// CacheHit counts a lookup answered from the memo store.
func (m *Metrics) CacheHit(keySpace string) {
	m.lookups.WithLabelValues(keySpace, "hit").Inc()
}

// CacheMiss counts a lookup that had to compute its value.
func (m *Metrics) CacheMiss(keySpace string) {
	m.lookups.WithLabelValues(keySpace, "miss").Inc()
}

// ObserveSnapshot records a resource snapshot. Per-process series are replaced on each call.
func (m *Metrics) ObserveSnapshot(snapshot domain.ResourceSnapshot) {
	m.snapshots.Inc()
	m.processes.Set(float64(snapshot.Len()))

	total := snapshot.TotalMemoryKB()
	m.totalMemoryKB.Set(float64(total))

	m.processMemory.Reset()
	for pid, kb := range snapshot.PIDToMemoryKB() {
		m.processMemory.WithLabelValues(strconv.FormatInt(pid, 10)).Set(float64(kb))
	}

	// Gauge has no read accessor, so the peak is tracked alongside it.
	if total > m.peakMemorySeen {
		m.peakMemorySeen = total
		m.peakMemoryKB.Set(float64(total))
	}
}

// WriteText writes every metric in the Prometheus text format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return zerr.Wrap(err, "failed to gather metrics")
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return zerr.Wrap(err, "failed to write metrics")
		}
	}
	return nil
}
