// Package telemetry adapts OpenTelemetry to the engine's tracing port.
package telemetry

import (
	"bytes"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	// DefaultSizeLimit is the buffer size that triggers a flush.
	DefaultSizeLimit = 4096
	// DefaultTimeLimit is the longest complete lines stay buffered.
	DefaultTimeLimit = 50 * time.Millisecond
)

var errBatcherClosed = errors.New("action output is closed")

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithSizeLimit sets the buffer size that triggers a flush.
func WithSizeLimit(n int) BatchOption {
	return func(bp *BatchProcessor) {
		if n > 0 {
			bp.sizeLimit = n
		}
	}
}

// WithTimeLimit sets how often buffered lines are flushed.
func WithTimeLimit(d time.Duration) BatchOption {
	return func(bp *BatchProcessor) {
		if d > 0 {
			bp.timeLimit = d
		}
	}
}

// WithBatchClock sets the clock that paces timed flushes.
func WithBatchClock(c clockwork.Clock) BatchOption {
	return func(bp *BatchProcessor) {
		bp.clock = c
	}
}

// BatchProcessor buffers the output of one action and hands it on in whole lines.
// A partial trailing line is held back on timed flushes until it is completed, the buffer
// fills up, or the processor is closed. It is safe for concurrent use.
type BatchProcessor struct {
	sizeLimit int
	timeLimit time.Duration
	clock     clockwork.Clock
	onFlush   func([]byte)

	mu      sync.Mutex
	buffer  bytes.Buffer
	written int64
	ticker  clockwork.Ticker
	stopCh  chan struct{}
	closed  bool
}

// NewBatchProcessor starts a processor that calls onFlush with each batch. Call Close to stop it.
func NewBatchProcessor(onFlush func([]byte), opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		sizeLimit: DefaultSizeLimit,
		timeLimit: DefaultTimeLimit,
		clock:     clockwork.NewRealClock(),
		onFlush:   onFlush,
		stopCh:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(bp)
	}

	bp.ticker = bp.clock.NewTicker(bp.timeLimit)
	go bp.run()

	return bp
}

// Write buffers p. A full buffer is flushed immediately.
func (bp *BatchProcessor) Write(p []byte) (int, error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.closed {
		return 0, errBatcherClosed
	}

	n, _ := bp.buffer.Write(p)
	bp.written += int64(n)

	if bp.buffer.Len() >= bp.sizeLimit {
		bp.flushLocked(false)
		bp.ticker.Reset(bp.timeLimit)
	}

	return n, nil
}

// Written returns the number of bytes accepted so far.
func (bp *BatchProcessor) Written() int64 {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	return bp.written
}

// Flush sends every complete buffered line to the callback.
func (bp *BatchProcessor) Flush() {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	if bp.closed {
		return
	}
	bp.flushLocked(true)
}

// Close stops the background flusher and sends whatever is left, partial line included.
func (bp *BatchProcessor) Close() error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.closed {
		return nil
	}

	bp.closed = true
	close(bp.stopCh)
	bp.flushLocked(false)
	return nil
}

func (bp *BatchProcessor) run() {
	for {
		select {
		case <-bp.ticker.Chan():
			bp.Flush()
		case <-bp.stopCh:
			bp.ticker.Stop()
			return
		}
	}
}

// flushLocked must be called with mu held. The callback runs under the lock to keep batches ordered.
// With wholeLines set, bytes after the last newline stay buffered unless the buffer is full.
func (bp *BatchProcessor) flushLocked(wholeLines bool) {
	n := bp.buffer.Len()
	if n == 0 {
		return
	}

	if wholeLines && n < bp.sizeLimit {
		n = bytes.LastIndexByte(bp.buffer.Bytes(), '\n') + 1
		if n == 0 {
			return
		}
	}

	data := bytes.Clone(bp.buffer.Next(n))

	if bp.onFlush != nil {
		bp.onFlush(data)
	}
}
