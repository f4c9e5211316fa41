// Package procfs reads process memory usage from the proc and cgroup filesystems.
package procfs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/prometheus/procfs"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultCgroupRoot is where the cgroup hierarchy is mounted on most systems.
const DefaultCgroupRoot = "/sys/fs/cgroup"

// ProcessProbe reports the resident set size of a single process.
type ProcessProbe struct {
	fs  procfs.FS
	pid int
}

// Exists reports whether the process is still listed under /proc.
func (p *ProcessProbe) Exists() bool {
	_, err := p.fs.Proc(p.pid)
	return err == nil
}

// MemoryUsageKB returns VmRSS in kilobytes.
func (p *ProcessProbe) MemoryUsageKB() (int, error) {
	proc, err := p.fs.Proc(p.pid)
	if err != nil {
		return 0, notFound(err, p.pid)
	}
	status, err := proc.NewStatus()
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to read process status"), "pid", p.pid)
	}
	return int(status.VmRSS / 1024), nil //nolint:gosec // RSS in kB fits an int
}

// CgroupProbe reports the memory usage of the cgroup a process belongs to.
// Both the unified (v2) and the legacy memory controller (v1) layouts are supported.
type CgroupProbe struct {
	fs   procfs.FS
	root string
	pid  int
}

// Exists reports whether the process, and therefore its group, is still alive.
func (p *CgroupProbe) Exists() bool {
	_, err := p.fs.Proc(p.pid)
	return err == nil
}

// MemoryUsageKB returns the group's current memory usage in kilobytes.
func (p *CgroupProbe) MemoryUsageKB() (int, error) {
	proc, err := p.fs.Proc(p.pid)
	if err != nil {
		return 0, notFound(err, p.pid)
	}

	cgroups, err := proc.Cgroups()
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to read process cgroups"), "pid", p.pid)
	}

	file, ok := p.usageFile(cgroups)
	if !ok {
		return 0, zerr.With(zerr.Wrap(domain.ErrNoMemoryCgroup, "failed to locate memory usage"), "pid", p.pid)
	}

	data, err := os.ReadFile(file) //nolint:gosec // path is built from the cgroup root
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, notFound(err, p.pid)
		}
		return 0, zerr.With(zerr.Wrap(err, "failed to read cgroup memory usage"), "path", file)
	}

	bytes, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "malformed cgroup memory usage"), "path", file)
	}
	return int(bytes / 1024), nil //nolint:gosec // usage in kB fits an int
}

func (p *CgroupProbe) usageFile(cgroups []procfs.Cgroup) (string, bool) {
	for _, cg := range cgroups {
		if cg.HierarchyID == 0 {
			return filepath.Join(p.root, cg.Path, "memory.current"), true
		}
	}
	for _, cg := range cgroups {
		if slices.Contains(cg.Controllers, "memory") {
			return filepath.Join(p.root, "memory", cg.Path, "memory.usage_in_bytes"), true
		}
	}
	return "", false
}

func notFound(err error, pid int) error {
	return zerr.With(fmt.Errorf("%w: %w", domain.ErrProcessNotFound, err), "pid", pid)
}

// Factory builds probes of one mode.
type Factory struct {
	fs         procfs.FS
	cgroupRoot string
	mode       domain.ProbeMode
}

// NewFactory creates a factory reading processes from procRoot and cgroups from cgroupRoot.
// An empty mode selects process probes.
func NewFactory(procRoot, cgroupRoot string, mode domain.ProbeMode) (*Factory, error) {
	switch mode {
	case "":
		mode = domain.ProbeProcess
	case domain.ProbeProcess, domain.ProbeCgroup:
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidProbeMode, "unsupported probe mode"), "mode", string(mode))
	}

	pfs, err := procfs.NewFS(procRoot)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to open proc filesystem"), "path", procRoot)
	}

	return &Factory{fs: pfs, cgroupRoot: cgroupRoot, mode: mode}, nil
}

// NewDefaultFactory creates a factory over the host's proc and cgroup mounts.
func NewDefaultFactory(mode domain.ProbeMode) (*Factory, error) {
	return NewFactory(procfs.DefaultMountPoint, DefaultCgroupRoot, mode)
}

// Mode returns the kind of probe the factory builds.
func (f *Factory) Mode() domain.ProbeMode {
	return f.mode
}

// ForProcess returns a probe for pid.
func (f *Factory) ForProcess(pid int) ports.ResourceProbe {
	if f.mode == domain.ProbeCgroup {
		return &CgroupProbe{fs: f.fs, root: f.cgroupRoot, pid: pid}
	}
	return &ProcessProbe{fs: f.fs, pid: pid}
}

// Probes builds a probe for each pid, keyed by pid.
func (f *Factory) Probes(pids ...int) map[int64]ports.ResourceProbe {
	probes := make(map[int64]ports.ResourceProbe, len(pids))
	for _, pid := range pids {
		probes[int64(pid)] = f.ForProcess(pid)
	}
	return probes
}

// StaticSource is a ports.ProbeSource over a fixed set of probes.
type StaticSource map[int64]ports.ResourceProbe

// Probes returns the probes.
func (s StaticSource) Probes() map[int64]ports.ResourceProbe {
	return s
}
