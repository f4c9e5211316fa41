package app

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"go.trai.ch/kiln/internal/adapters/procfs"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/engine/resource"
	"go.trai.ch/zerr"
)

// SampleOptions configuration for the Sample method.
type SampleOptions struct {
	PIDs     []int
	Probe    domain.ProbeMode
	Interval time.Duration
	Count    int
	Metrics  bool
}

// Sample prints Count memory snapshots of the given processes, Interval apart.
func (a *App) Sample(ctx context.Context, opts SampleOptions) error {
	if len(opts.PIDs) == 0 {
		return domain.ErrNoProcessesSpecified
	}

	factory, err := a.probes(opts.Probe)
	if err != nil {
		return zerr.Wrap(err, "failed to create resource probes")
	}

	interval := opts.Interval
	if interval <= 0 {
		interval = resource.DefaultInterval
	}
	source := procfs.StaticSource(factory.Probes(opts.PIDs...))
	sampler := resource.NewSampler(a.collector, source, a.clock, interval, a.metrics)

	for i := range max(opts.Count, 1) {
		if i > 0 {
			select {
			case <-ctx.Done():
				return domain.NewCancelledError(ctx.Err())
			case <-a.clock.After(interval):
			}
		}
		if err := a.printSnapshot(i+1, sampler.Sample()); err != nil {
			return err
		}
	}

	if opts.Metrics {
		return a.metrics.WriteText(a.stdout)
	}
	return nil
}

func (a *App) printSnapshot(n int, snapshot domain.ResourceSnapshot) error {
	usage := snapshot.PIDToMemoryKB()
	pids := slices.Sorted(maps.Keys(usage))

	if _, err := fmt.Fprintf(a.stdout, "sample %d: %d process(es), %d kB\n", n, snapshot.Len(), snapshot.TotalMemoryKB()); err != nil {
		return zerr.Wrap(err, "failed to write sample")
	}
	for _, pid := range pids {
		if _, err := fmt.Fprintf(a.stdout, "  pid %d: %d kB\n", pid, usage[pid]); err != nil {
			return zerr.Wrap(err, "failed to write sample")
		}
	}
	return nil
}
