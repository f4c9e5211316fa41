package resource

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

// DefaultInterval is the sampling cadence used when none is configured.
const DefaultInterval = time.Second

// Sampler periodically snapshots the processes reported by a probe source.
type Sampler struct {
	collector *Collector
	source    ports.ProbeSource
	sinks     []ports.SnapshotSink
	clock     clockwork.Clock
	interval  time.Duration
	latest    atomic.Pointer[domain.ResourceSnapshot]
}

// NewSampler creates a sampler. A non-positive interval selects DefaultInterval.
func NewSampler(
	collector *Collector,
	source ports.ProbeSource,
	clock clockwork.Clock,
	interval time.Duration,
	sinks ...ports.SnapshotSink,
) *Sampler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Sampler{
		collector: collector,
		source:    source,
		sinks:     sinks,
		clock:     clock,
		interval:  interval,
	}
}

// Run samples until ctx is done.
func (s *Sampler) Run(ctx context.Context) {
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			s.Sample()
		}
	}
}

// Sample takes one snapshot immediately and publishes it.
func (s *Sampler) Sample() domain.ResourceSnapshot {
	snapshot := s.collector.CollectResourceUsage(s.source.Probes(), s.clock)
	s.latest.Store(&snapshot)
	for _, sink := range s.sinks {
		sink.ObserveSnapshot(snapshot)
	}
	return snapshot
}

// Latest returns the most recent snapshot, if any has been taken.
func (s *Sampler) Latest() (domain.ResourceSnapshot, bool) {
	p := s.latest.Load()
	if p == nil {
		return domain.ResourceSnapshot{}, false
	}
	return *p, true
}
