package local

import (
	"bytes"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/creack/pty"
	"go.trai.ch/kiln/internal/core/ports"
)

// process is a started command whose output is being copied.
type process struct {
	cmd  *exec.Cmd
	wait func() error
}

// start launches cmd in a PTY, or with plain pipes when no PTY can be allocated.
func start(cmd *exec.Cmd, out io.Writer, errOut io.Writer, logger ports.Logger) (*process, error) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		logger.Debug("pty unavailable, using pipes: " + err.Error())
		cmd.Stdout = out
		cmd.Stderr = errOut
		if err := cmd.Start(); err != nil {
			return nil, err
		}
		return &process{cmd: cmd, wait: cmd.Wait}, nil
	}

	cmd.Stdin, cmd.Stdout, cmd.Stderr = tty, tty, tty
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true, Setctty: true}

	err = cmd.Start()
	_ = tty.Close()
	if err != nil {
		_ = ptmx.Close()
		return nil, err
	}

	// The PTY merges both streams.
	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		_, _ = io.Copy(out, ptmx)
	}()

	return &process{
		cmd: cmd,
		wait: func() error {
			err := cmd.Wait()
			<-ioDone
			_ = ptmx.Close()
			return err
		},
	}, nil
}

// lineLogger forwards complete output lines to the logger at debug level.
type lineLogger struct {
	logger ports.Logger
	prefix string
	buf    []byte
}

func (w *lineLogger) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

func (w *lineLogger) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *lineLogger) logLine(line []byte) {
	// PTYs terminate lines with \r\n.
	msg := strings.TrimSuffix(string(line), "\r")
	if msg == "" {
		return
	}
	w.logger.Debug(w.prefix + msg)
}

// allowListedEnvVars are the host variables a spawn inherits.
var allowListedEnvVars = map[string]struct{}{
	"HOME": {},
	"TERM": {},
	"USER": {},
	"PATH": {},
}

// resolveEnvironment keeps the allow-listed host variables and applies the spawn's overrides.
// The result is sorted.
func resolveEnvironment(sysEnv []string, spawnEnv map[string]string) []string {
	envMap := make(map[string]string, len(allowListedEnvVars)+len(spawnEnv))
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, allowed := allowListedEnvVars[k]; allowed {
			envMap[k] = v
		}
	}
	for k, v := range spawnEnv {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}

// lookPath searches the PATH of env, not of the engine, for an executable.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if p, ok := strings.CutPrefix(e, "PATH="); ok {
			path = p
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func isExecutable(file string) bool {
	d, err := os.Stat(file)
	if err != nil {
		return false
	}
	m := d.Mode()
	return !m.IsDir() && m&0o111 != 0
}
