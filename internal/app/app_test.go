package app_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/metrics"
	"go.trai.ch/kiln/internal/adapters/telemetry"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.trai.ch/kiln/internal/engine/executor"
	"go.trai.ch/kiln/internal/engine/resource"
	"go.uber.org/mock/gomock"
)

type testApp struct {
	app    *app.App
	logger *mocks.MockLogger
	out    *bytes.Buffer
}

func newTestApp(t *testing.T, ws *domain.Workspace) *testApp {
	t.Helper()
	ctrl := gomock.NewController(t)

	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load(gomock.Any()).Return(ws, nil).AnyTimes()

	logger := mocks.NewMockLogger(ctrl)
	renderer := mocks.NewMockRenderer(ctrl)
	renderer.EXPECT().Stop().Return(nil).AnyTimes()

	tracer := telemetry.NewNoOpTracer()
	m := metrics.New()
	out := new(bytes.Buffer)

	a := app.New(
		loader,
		executor.New(logger, tracer, executor.WithObserver(m)),
		resource.NewCollector(logger),
		logger,
		tracer,
		renderer,
		m,
	).
		WithOutput(out).
		WithProbeFactory(func(domain.ProbeMode) (app.ProbeFactory, error) {
			return nil, errors.New("no proc filesystem")
		})

	return &testApp{app: a, logger: logger, out: out}
}

// allowLogs accepts any log call not matched by an earlier expectation.
func (ta *testApp) allowLogs() {
	ta.logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	ta.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	ta.logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	ta.logger.EXPECT().Error(gomock.Any()).AnyTimes()
}

func copyWorkspace(t *testing.T) *domain.Workspace {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "in.txt"), []byte("v1"), 0o600))

	return &domain.Workspace{
		Root:     root,
		ExecRoot: root,
		Actions: []domain.ActionSpec{{
			Name:    "copy",
			Kind:    domain.ActionCopyFile,
			Owner:   domain.NewActionOwner("//:copy", ""),
			Inputs:  []string{"in.txt"},
			Outputs: []string{"out/copy.txt"},
		}},
	}
}

func TestApp_Run_NoActions(t *testing.T) {
	ta := newTestApp(t, &domain.Workspace{})

	err := ta.app.Run(context.Background(), nil, app.RunOptions{})
	require.ErrorIs(t, err, domain.ErrNoActionsSpecified)
}

func TestApp_Run_CopyAction(t *testing.T) {
	ws := copyWorkspace(t)
	ta := newTestApp(t, ws)
	ta.allowLogs()

	require.NoError(t, ta.app.Run(context.Background(), []string{"copy"}, app.RunOptions{Jobs: 1}))

	got, err := os.ReadFile(filepath.Join(ws.ExecRoot, "out", "copy.txt"))
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got))

	// The second run of the same invocation reuses the memoized result.
	require.NoError(t, ta.app.Run(context.Background(), []string{"copy"}, app.RunOptions{Jobs: 1, Metrics: true}))
	assert.Contains(t, ta.out.String(), `kiln_memo_lookups_total{key_space="ACTION_EXECUTION",result="hit"} 1`)
	assert.Contains(t, ta.out.String(), `kiln_memo_lookups_total{key_space="ACTION_EXECUTION",result="miss"} 1`)
}

func TestApp_Run_UnknownAction(t *testing.T) {
	ta := newTestApp(t, copyWorkspace(t))

	err := ta.app.Run(context.Background(), []string{"missing"}, app.RunOptions{})
	require.ErrorIs(t, err, domain.ErrActionNotFound)
}

func TestApp_Run_UnknownStrategy(t *testing.T) {
	ws := copyWorkspace(t)
	ws.Execution.Strategies = []domain.StrategySpec{{Name: "remote"}}
	ta := newTestApp(t, ws)
	ta.allowLogs()

	err := ta.app.Run(context.Background(), []string{"copy"}, app.RunOptions{})
	require.ErrorIs(t, err, domain.ErrInvalidStrategy)
}

func TestApp_Run_CopyFailure(t *testing.T) {
	ws := copyWorkspace(t)
	require.NoError(t, os.Remove(filepath.Join(ws.Root, "in.txt")))
	ta := newTestApp(t, ws)
	ta.allowLogs()

	err := ta.app.Run(context.Background(), []string{"copy"}, app.RunOptions{})
	require.ErrorIs(t, err, domain.ErrBuildExecutionFailed)

	detail, ok := domain.FailureDetailOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.CategoryCopyAction, detail.Category)
	assert.Equal(t, domain.CodeIOError, detail.Code)
	assert.Contains(t, detail.Message, "'in.txt'")
	assert.Contains(t, detail.Message, "'out/copy.txt'")
}

func TestApp_Run_NoApplicableStrategy(t *testing.T) {
	root := t.TempDir()
	ws := &domain.Workspace{
		Root:     root,
		ExecRoot: root,
		Execution: domain.ExecutionSettings{
			Strategies: []domain.StrategySpec{{Name: "local", Platform: "//platforms:remote"}},
		},
		Actions: []domain.ActionSpec{{
			Name:     "gen",
			Kind:     domain.ActionSpawn,
			Owner:    domain.NewActionOwner("//:gen", ""),
			Mnemonic: "Genrule",
			Outputs:  []string{"gen.txt"},
			Args:     []string{"touch", "gen.txt"},
			Platform: domain.NewPlatform("//platforms:linux"),
		}},
	}
	ta := newTestApp(t, ws)
	ta.allowLogs()

	err := ta.app.Run(context.Background(), []string{"gen"}, app.RunOptions{})
	require.ErrorIs(t, err, domain.ErrBuildExecutionFailed)
	require.ErrorIs(t, err, domain.ErrNoApplicableStrategy)
	assert.NoFileExists(t, filepath.Join(root, "gen.txt"))
}
