package ports

import "go.trai.ch/kiln/internal/core/domain"

//go:generate mockgen -source=resource.go -destination=mocks/mock_resource.go -package=mocks

// ResourceProbe reads the memory usage of one process or process group.
type ResourceProbe interface {
	// Exists reports whether the process or group is still alive.
	Exists() bool
	// MemoryUsageKB returns the current memory usage in kilobytes.
	MemoryUsageKB() (int, error)
}

// ProbeSource lists the processes currently worth sampling, keyed by pid.
type ProbeSource interface {
	Probes() map[int64]ResourceProbe
}

// ProbeFactory builds a probe for a running process.
type ProbeFactory interface {
	ForProcess(pid int) ResourceProbe
}

// SnapshotSink receives every resource snapshot taken by the sampler.
type SnapshotSink interface {
	ObserveSnapshot(snapshot domain.ResourceSnapshot)
}
