package ports

import "time"

// Renderer presents action progress. It is driven by telemetry events so that the
// engine never writes to the terminal directly.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Stop flushes any buffered output.
	Stop() error

	// OnPlanEmit is called with the progress messages of the actions about to run.
	OnPlanEmit(actions []string)

	// OnActionStart is called when an action span begins.
	OnActionStart(spanID, name string, startTime time.Time)

	// OnActionLog carries a chunk of an action's output.
	OnActionLog(spanID string, data []byte)

	// OnActionComplete is called when an action span ends.
	// cached is true when the memoized result was reused.
	OnActionComplete(spanID string, endTime time.Time, cached bool, err error)
}
