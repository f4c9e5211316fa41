// Package linear renders action progress as chronological, prefixed lines.
package linear

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/kiln/internal/ui/output"
	"go.trai.ch/kiln/internal/ui/style"
)

// Renderer implements ports.Renderer. Action output goes to stdout prefixed with the
// action's progress message; lifecycle lines go to stderr.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output

	mu      sync.Mutex
	actions map[string]*actionState
}

type actionState struct {
	name      string
	startTime time.Time
	buf       bytes.Buffer
}

// NewRenderer creates a Renderer; nil writers select stdout and stderr.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Renderer{
		stdout:  stdout,
		stderr:  stderr,
		output:  output.New(stderr),
		actions: make(map[string]*actionState),
	}
}

// Stop flushes partial lines of actions that are still running.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.actions {
		r.flushLocked(a)
	}
	return nil
}

// OnPlanEmit prints how many actions are about to run.
func (r *Renderer) OnPlanEmit(actions []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.stderr, "Running %d action(s)\n", len(actions))
}

// OnActionStart records the action; nothing is printed until it produces output or ends.
func (r *Renderer) OnActionStart(spanID, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.actions[spanID] = &actionState{name: name, startTime: startTime}
}

// OnActionLog prints complete lines and keeps a trailing partial line buffered.
func (r *Renderer) OnActionLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.actions[spanID]
	if !ok {
		return
	}

	a.buf.Write(data)
	for {
		i := bytes.IndexByte(a.buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := a.buf.Next(i + 1)
		r.printLineLocked(a.name, line)
	}
}

// OnActionComplete flushes remaining output and prints the outcome.
func (r *Renderer) OnActionComplete(spanID string, endTime time.Time, cached bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.actions[spanID]
	if !ok {
		return
	}
	delete(r.actions, spanID)
	r.flushLocked(a)

	prefix := r.output.String(fmt.Sprintf("[%s]", a.name)).Faint().String()
	duration := endTime.Sub(a.startTime)

	switch {
	case err != nil:
		symbol := r.output.String(style.Cross).Foreground(termenv.RGBColor(string(style.Red))).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Failed after %v: %v\n", prefix, symbol, duration, err)
	case cached:
		symbol := r.output.String(style.Tilde).Foreground(termenv.RGBColor(string(style.Slate))).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Cached\n", prefix, symbol)
	default:
		symbol := r.output.String(style.Check).Foreground(termenv.RGBColor(string(style.Green))).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Completed in %v\n", prefix, symbol, duration)
	}
}

func (r *Renderer) flushLocked(a *actionState) {
	if a.buf.Len() > 0 {
		r.printLineLocked(a.name, a.buf.Bytes())
		a.buf.Reset()
	}
}

func (r *Renderer) printLineLocked(name string, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(line) == 0 {
		return
	}
	_, _ = fmt.Fprintf(r.stdout, "[%s] %s\n", name, line)
}
