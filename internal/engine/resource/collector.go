// Package resource samples the memory usage of running processes.
package resource

import (
	"fmt"
	"slices"

	"github.com/jonboulle/clockwork"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

// Collector turns a set of probes into a point-in-time snapshot.
// It keeps no state between calls.
type Collector struct {
	logger ports.Logger
}

// NewCollector creates a collector that reports unreadable probes to logger.
func NewCollector(logger ports.Logger) *Collector {
	return &Collector{logger: logger}
}

// CollectResourceUsage reads every probe and returns the usage of those that exist.
// Probes that no longer exist are skipped; probes that fail to read are skipped and logged.
func (c *Collector) CollectResourceUsage(probes map[int64]ports.ResourceProbe, clock clockwork.Clock) domain.ResourceSnapshot {
	pids := make([]int64, 0, len(probes))
	for pid := range probes {
		pids = append(pids, pid)
	}
	slices.Sort(pids)

	usage := make(map[int64]int, len(pids))
	for _, pid := range pids {
		probe := probes[pid]
		if !probe.Exists() {
			continue
		}
		kb, err := probe.MemoryUsageKB()
		if err != nil {
			c.logger.Debug(fmt.Sprintf("failed to read memory usage of process %d: %v", pid, err))
			continue
		}
		usage[pid] = kb
	}

	return domain.NewResourceSnapshot(clock.Now(), usage)
}
