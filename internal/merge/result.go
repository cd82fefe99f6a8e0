package merge

import (
	"errors"
	"time"

	"vidmerge/internal/session"
)

var (
	// ErrOpen indicates an input, output, or preview could not be opened.
	ErrOpen = errors.New("open failed")
	// ErrWrite indicates the output stream rejected a frame or failed to finalize.
	ErrWrite = errors.New("write failed")
)

// Outcome describes why a merge loop stopped.
type Outcome string

const (
	// OutcomeEndOfStream means a source ran out of frames.
	OutcomeEndOfStream Outcome = "end_of_stream"
	// OutcomeReadFault means a source failed to decode a frame; output is truncated.
	OutcomeReadFault Outcome = "read_fault"
	// OutcomeInterrupted means the user stopped the run.
	OutcomeInterrupted Outcome = "interrupted"
	// OutcomeFailed means the run returned an error.
	OutcomeFailed Outcome = "failed"
)

// Complete reports whether every source was consumed up to the shortest stream.
func (o Outcome) Complete() bool {
	return o == OutcomeEndOfStream
}

// Result summarizes a merge run.
type Result struct {
	RunID      string
	SessionID  string
	Backend    string
	Sources    []session.Source
	OutputPath string
	Width      int
	Height     int
	Frames     int
	Outcome    Outcome
	Fault      error // read error when Outcome is OutcomeReadFault
	StartedAt  time.Time
	FinishedAt time.Time
}

// Cameras returns the camera names in merge order.
func (r Result) Cameras() []string {
	names := make([]string, len(r.Sources))
	for i, s := range r.Sources {
		names[i] = s.Camera
	}
	return names
}

// Elapsed returns the wall-clock duration of the run.
func (r Result) Elapsed() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
