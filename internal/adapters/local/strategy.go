// Package local runs spawns as processes on the host machine.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// StrategyName identifies the local strategy in configuration.
const StrategyName = "local"

// waitDelay bounds how long output copying may outlive a killed process.
const waitDelay = 2 * time.Second

// Strategy is a ports.SpawnStrategy that runs spawns as host processes.
// It is also a ports.ProbeSource over the processes it is currently running.
type Strategy struct {
	logger   ports.Logger
	probes   ports.ProbeFactory
	clock    clockwork.Clock
	attempts int

	mu      sync.Mutex
	running map[int64]struct{}
}

// Option configures a Strategy.
type Option func(*Strategy)

// WithAttempts sets how many times a spawn killed by a signal is run. Values below one select one attempt.
func WithAttempts(n int) Option {
	return func(s *Strategy) {
		s.attempts = max(n, 1)
	}
}

// WithClock sets the clock used to measure wall time.
func WithClock(c clockwork.Clock) Option {
	return func(s *Strategy) {
		s.clock = c
	}
}

// New creates a local strategy. probes may be nil when resource sampling is disabled.
func New(logger ports.Logger, probes ports.ProbeFactory, opts ...Option) *Strategy {
	s := &Strategy{
		logger:   logger,
		probes:   probes,
		clock:    clockwork.NewRealClock(),
		attempts: 1,
		running:  make(map[int64]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns "local".
func (s *Strategy) Name() string {
	return StrategyName
}

// CanExec reports whether the spawn may run on this machine.
func (s *Strategy) CanExec(spawn *domain.Spawn, _ ports.ActionContextRegistry) bool {
	return !spawn.HasExecutionInfo(domain.ExecutionInfoNoLocal)
}

// CanExecWithLegacyFallback is the same as CanExec.
func (s *Strategy) CanExecWithLegacyFallback(spawn *domain.Spawn, registry ports.ActionContextRegistry) bool {
	return s.CanExec(spawn, registry)
}

// Exec runs the spawn, retrying it while it is killed by a signal and attempts remain.
func (s *Strategy) Exec(
	ctx context.Context,
	spawn *domain.Spawn,
	sctx *ports.SpawnExecutionContext,
) ([]domain.SpawnResult, error) {
	var results []domain.SpawnResult

	for attempt := 1; attempt <= s.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return results, domain.NewCancelledError(err, results...)
		}

		result, runErr := s.run(ctx, spawn, sctx, attempt)
		results = append(results, result)

		if err := ctx.Err(); err != nil {
			return results, domain.NewCancelledError(err, results...)
		}

		switch result.Status {
		case domain.SpawnSucceeded:
			return results, nil
		case domain.SpawnKilled:
			if attempt < s.attempts {
				s.logger.Debug(fmt.Sprintf("%s: killed by a signal, retrying (attempt %d of %d)",
					spawn.Mnemonic, attempt+1, s.attempts))
				continue
			}
			return results, domain.NewExecError(domain.FailureDetail{
				Message:  fmt.Sprintf("%s was killed by a signal after %d attempt(s)", describe(spawn), attempt),
				Category: domain.CategorySpawn,
				Code:     domain.CodeKilled,
			}, runErr, results...)
		case domain.SpawnNonZeroExit:
			return results, domain.NewExecError(domain.FailureDetail{
				Message:  fmt.Sprintf("%s failed: exit status %d", describe(spawn), result.ExitCode),
				Category: domain.CategorySpawn,
				Code:     domain.CodeNonZeroExit,
			}, runErr, results...)
		default:
			return results, domain.NewExecError(domain.FailureDetail{
				Message:  fmt.Sprintf("%s could not be started: %v", describe(spawn), runErr),
				Category: domain.CategorySpawn,
				Code:     domain.CodeExecutionFailed,
			}, fmt.Errorf("%w: %w", domain.ErrSpawnFailed, runErr), results...)
		}
	}

	return results, nil
}

func (s *Strategy) run(
	ctx context.Context,
	spawn *domain.Spawn,
	sctx *ports.SpawnExecutionContext,
	attempt int,
) (domain.SpawnResult, error) {
	result := domain.SpawnResult{RunnerName: StrategyName, Attempt: attempt}
	started := s.clock.Now()

	env := resolveEnvironment(os.Environ(), spawn.Env)

	name := spawn.Args[0]
	executable := name
	if !filepath.IsAbs(name) && !strings.ContainsRune(name, filepath.Separator) {
		if lp, err := lookPath(name, env); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, spawn.Args[1:]...) //nolint:gosec // argv comes from the workspace
	cmd.Args[0] = name
	cmd.Env = env
	cmd.WaitDelay = waitDelay
	if sctx != nil && sctx.ExecRoot != "" {
		cmd.Dir = sctx.ExecRoot
	}

	stdout, stderr := io.Discard, io.Discard
	if sctx != nil && sctx.Stdout != nil {
		stdout = sctx.Stdout
	}
	if sctx != nil && sctx.Stderr != nil {
		stderr = sctx.Stderr
	}
	outLog := &lineLogger{logger: s.logger, prefix: spawn.Mnemonic + ": "}
	errLog := &lineLogger{logger: s.logger, prefix: spawn.Mnemonic + ": "}
	defer func() {
		_ = outLog.Close()
		_ = errLog.Close()
	}()

	proc, err := start(cmd, io.MultiWriter(outLog, stdout), io.MultiWriter(errLog, stderr), s.logger)
	if err != nil {
		result.Status = domain.SpawnExecutionFailed
		result.ExitCode = -1
		result.WallTime = s.clock.Since(started)
		return result, zerr.With(zerr.Wrap(err, "failed to start process"), "argv0", name)
	}

	pid := int64(cmd.Process.Pid)
	s.track(pid)
	defer s.untrack(pid)

	err = proc.wait()
	result.WallTime = s.clock.Since(started)
	if err == nil {
		result.Status = domain.SpawnSucceeded
		return result, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		result.Status = domain.SpawnExecutionFailed
		result.ExitCode = -1
		return result, err
	}

	result.ExitCode = exitErr.ExitCode()
	if result.ExitCode < 0 {
		result.Status = domain.SpawnKilled
	} else {
		result.Status = domain.SpawnNonZeroExit
	}
	return result, zerr.With(zerr.Wrap(err, "command failed"), "exit_code", result.ExitCode)
}

func (s *Strategy) track(pid int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running[pid] = struct{}{}
}

func (s *Strategy) untrack(pid int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.running, pid)
}

// Running returns the pids of the processes currently running.
func (s *Strategy) Running() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedKeys(s.running)
}

// Probes implements ports.ProbeSource. It is empty when no probe factory is configured.
func (s *Strategy) Probes() map[int64]ports.ResourceProbe {
	if s.probes == nil {
		return map[int64]ports.ResourceProbe{}
	}
	pids := s.Running()
	probes := make(map[int64]ports.ResourceProbe, len(pids))
	for _, pid := range pids {
		probes[pid] = s.probes.ForProcess(int(pid))
	}
	return probes
}

func describe(spawn *domain.Spawn) string {
	if spawn.Owner.String() == "" {
		return spawn.Mnemonic
	}
	return fmt.Sprintf("%s %s", spawn.Mnemonic, spawn.Owner)
}

func sortedKeys(m map[int64]struct{}) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range maps.Keys(m) {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
