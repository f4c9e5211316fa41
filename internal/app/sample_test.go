package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/procfs"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/core/domain"
)

func fakeProcFS(mode domain.ProbeMode) (app.ProbeFactory, error) {
	f, err := procfs.NewFactory("../adapters/procfs/testdata/proc", "../adapters/procfs/testdata/cgroup", mode)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func TestApp_Sample(t *testing.T) {
	ta := newTestApp(t, &domain.Workspace{})
	ta.allowLogs()
	ta.app.WithProbeFactory(fakeProcFS)

	err := ta.app.Sample(context.Background(), app.SampleOptions{
		PIDs:  []int{43, 42, 999},
		Probe: domain.ProbeProcess,
	})
	require.NoError(t, err)

	assert.Equal(t, "sample 1: 2 process(es), 2560 kB\n  pid 42: 2048 kB\n  pid 43: 512 kB\n", ta.out.String())
}

func TestApp_Sample_Cgroup(t *testing.T) {
	ta := newTestApp(t, &domain.Workspace{})
	ta.allowLogs()
	ta.app.WithProbeFactory(fakeProcFS)

	err := ta.app.Sample(context.Background(), app.SampleOptions{
		PIDs:    []int{42},
		Probe:   domain.ProbeCgroup,
		Metrics: true,
	})
	require.NoError(t, err)

	assert.Contains(t, ta.out.String(), "sample 1: 1 process(es), 4096 kB\n")
	assert.Contains(t, ta.out.String(), "kiln_memory_kilobytes 4096")
}

func TestApp_Sample_Interval(t *testing.T) {
	clock := clockwork.NewFakeClock()
	ta := newTestApp(t, &domain.Workspace{})
	ta.allowLogs()
	ta.app.WithProbeFactory(fakeProcFS).WithClock(clock)

	done := make(chan error)
	go func() {
		done <- ta.app.Sample(context.Background(), app.SampleOptions{
			PIDs:     []int{42},
			Interval: 5 * time.Second,
			Count:    2,
		})
	}()

	clock.BlockUntil(1)
	clock.Advance(5 * time.Second)
	require.NoError(t, <-done)

	assert.Equal(t,
		"sample 1: 1 process(es), 2048 kB\n  pid 42: 2048 kB\n"+
			"sample 2: 1 process(es), 2048 kB\n  pid 42: 2048 kB\n",
		ta.out.String())
}

func TestApp_Sample_Cancelled(t *testing.T) {
	ta := newTestApp(t, &domain.Workspace{})
	ta.allowLogs()
	ta.app.WithProbeFactory(fakeProcFS).WithClock(clockwork.NewFakeClock())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ta.app.Sample(ctx, app.SampleOptions{PIDs: []int{42}, Count: 3})
	require.Error(t, err)
	assert.True(t, domain.IsCancelled(err))
	assert.Equal(t, "sample 1: 1 process(es), 2048 kB\n  pid 42: 2048 kB\n", ta.out.String())
}

func TestApp_Sample_NoProcesses(t *testing.T) {
	ta := newTestApp(t, &domain.Workspace{})

	err := ta.app.Sample(context.Background(), app.SampleOptions{})
	require.ErrorIs(t, err, domain.ErrNoProcessesSpecified)
}
