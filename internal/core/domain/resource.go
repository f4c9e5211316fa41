package domain

import (
	"maps"
	"time"
)

// ResourceSnapshot is the memory usage of a set of processes at one instant.
// Processes that did not exist or could not be read are absent.
type ResourceSnapshot struct {
	collectedAt time.Time
	memoryKB    map[int64]int
}

// NewResourceSnapshot creates a snapshot holding a copy of memoryKB.
func NewResourceSnapshot(collectedAt time.Time, memoryKB map[int64]int) ResourceSnapshot {
	m := maps.Clone(memoryKB)
	if m == nil {
		m = map[int64]int{}
	}
	return ResourceSnapshot{collectedAt: collectedAt, memoryKB: m}
}

// CollectedAt returns the collection time.
func (s ResourceSnapshot) CollectedAt() time.Time {
	return s.collectedAt
}

// PIDToMemoryKB returns a copy of the per-process memory usage in kilobytes.
func (s ResourceSnapshot) PIDToMemoryKB() map[int64]int {
	m := maps.Clone(s.memoryKB)
	if m == nil {
		m = map[int64]int{}
	}
	return m
}

// MemoryKB returns the usage recorded for pid.
func (s ResourceSnapshot) MemoryKB(pid int64) (int, bool) {
	kb, ok := s.memoryKB[pid]
	return kb, ok
}

// Len returns the number of processes in the snapshot.
func (s ResourceSnapshot) Len() int {
	return len(s.memoryKB)
}

// TotalMemoryKB returns the sum over all processes.
func (s ResourceSnapshot) TotalMemoryKB() int {
	total := 0
	for _, kb := range s.memoryKB {
		total += kb
	}
	return total
}
