package local_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/local"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func quietLogger(ctrl *gomock.Controller) *mocks.MockLogger {
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	return logger
}

func shellSpawn(t *testing.T, script string) *domain.Spawn {
	t.Helper()
	spawn, err := domain.NewSpawn("Genrule", domain.NewActionOwner("//pkg:gen", ""),
		[]string{"sh", "-c", script}, map[string]string{"GREETING": "hello"}, domain.NewPlatform(domain.HostPlatform))
	require.NoError(t, err)
	return spawn
}

func TestStrategy_CanExec(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := local.New(quietLogger(ctrl), nil)

	spawn := shellSpawn(t, "true")
	assert.True(t, s.CanExec(spawn, nil))
	assert.True(t, s.CanExecWithLegacyFallback(spawn, nil))

	spawn.ExecutionInfo[domain.ExecutionInfoNoLocal] = ""
	assert.False(t, s.CanExec(spawn, nil))
	assert.False(t, s.CanExecWithLegacyFallback(spawn, nil))
	assert.Equal(t, "local", s.Name())
}

func TestStrategy_ExecSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := local.New(quietLogger(ctrl), nil)

	var out bytes.Buffer
	dir := t.TempDir()
	results, err := s.Exec(context.Background(), shellSpawn(t, "echo $GREETING; pwd"),
		&ports.SpawnExecutionContext{ExecRoot: dir, Stdout: &out})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, domain.SpawnSucceeded, results[0].Status)
	assert.Equal(t, "local", results[0].RunnerName)
	assert.Equal(t, 1, results[0].Attempt)
	assert.Contains(t, out.String(), "hello")
	assert.Contains(t, out.String(), dir)
}

func TestStrategy_NonZeroExit(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := local.New(quietLogger(ctrl), nil, local.WithAttempts(3))

	results, err := s.Exec(context.Background(), shellSpawn(t, "exit 3"), &ports.SpawnExecutionContext{})

	var execErr *domain.ExecError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, domain.CategorySpawn, execErr.Detail.Category)
	assert.Equal(t, domain.CodeNonZeroExit, execErr.Detail.Code)
	assert.Equal(t, "Genrule //pkg:gen failed: exit status 3", execErr.Error())

	require.Len(t, results, 1, "non-zero exits are not retried")
	assert.Equal(t, 3, results[0].ExitCode)
	assert.Equal(t, results, execErr.Results)
}

func TestStrategy_RetriesKilledSpawns(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := local.New(quietLogger(ctrl), nil, local.WithAttempts(2))

	results, err := s.Exec(context.Background(), shellSpawn(t, "kill -KILL $$"), &ports.SpawnExecutionContext{})

	var execErr *domain.ExecError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, domain.CodeKilled, execErr.Detail.Code)

	require.Len(t, results, 2)
	for i, r := range results {
		assert.Equal(t, domain.SpawnKilled, r.Status)
		assert.Equal(t, i+1, r.Attempt)
	}
}

func TestStrategy_ExecutionFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := local.New(quietLogger(ctrl), nil)

	spawn, err := domain.NewSpawn("Tool", domain.NewActionOwner("//:tool", ""),
		[]string{"/nonexistent/kiln-tool"}, nil, domain.NewPlatform(domain.HostPlatform))
	require.NoError(t, err)

	results, err := s.Exec(context.Background(), spawn, &ports.SpawnExecutionContext{})
	require.ErrorIs(t, err, domain.ErrSpawnFailed)

	var execErr *domain.ExecError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, domain.CodeExecutionFailed, execErr.Detail.Code)
	require.Len(t, results, 1)
	assert.Equal(t, domain.SpawnExecutionFailed, results[0].Status)
}

func TestStrategy_Cancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := local.New(quietLogger(ctrl), nil, local.WithAttempts(3))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	var (
		results []domain.SpawnResult
		err     error
	)
	go func() {
		defer close(done)
		results, err = s.Exec(ctx, shellSpawn(t, "sleep 30"), &ports.SpawnExecutionContext{})
	}()

	require.Eventually(t, func() bool { return len(s.Running()) == 1 }, 5*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("spawn was not interrupted")
	}

	var cancelled *domain.CancelledError
	require.ErrorAs(t, err, &cancelled)
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, results, 1, "a cancelled spawn is not retried")
	assert.Empty(t, s.Running())
}

func TestStrategy_CancelledBeforeStart(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := local.New(quietLogger(ctrl), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := s.Exec(ctx, shellSpawn(t, "true"), &ports.SpawnExecutionContext{})
	assert.True(t, domain.IsCancelled(err))
	assert.Empty(t, results)
}

func TestStrategy_ProbesRunningProcesses(t *testing.T) {
	ctrl := gomock.NewController(t)
	factory := mocks.NewMockProbeFactory(ctrl)
	probe := mocks.NewMockResourceProbe(ctrl)
	factory.EXPECT().ForProcess(gomock.Any()).Return(probe).AnyTimes()

	s := local.New(quietLogger(ctrl), factory)
	assert.Empty(t, s.Probes())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		_, err := s.Exec(ctx, shellSpawn(t, "sleep 30"), &ports.SpawnExecutionContext{})
		done <- err
	}()

	require.Eventually(t, func() bool { return len(s.Probes()) == 1 }, 5*time.Second, 10*time.Millisecond)
	for pid, p := range s.Probes() {
		assert.Positive(t, pid)
		assert.Same(t, probe, p)
	}

	cancel()
	err := <-done
	assert.True(t, errors.As(err, new(*domain.CancelledError)))
}
