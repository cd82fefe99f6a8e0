package history

import (
	"errors"
	"time"

	"vidmerge/internal/merge"
)

// Run is one recorded merge invocation.
type Run struct {
	ID         int64
	RunID      string
	SessionID  string
	Backend    string
	Cameras    []string
	OutputPath string
	Width      int
	Height     int
	Frames     int
	Outcome    merge.Outcome
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration returns how long the run took.
func (r Run) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// FromResult converts a merge result and the error returned alongside it. A
// read fault is recorded in Error even though the merge itself succeeded.
func FromResult(res merge.Result, runErr error) Run {
	run := Run{
		RunID:      res.RunID,
		SessionID:  res.SessionID,
		Backend:    res.Backend,
		Cameras:    res.Cameras(),
		OutputPath: res.OutputPath,
		Width:      res.Width,
		Height:     res.Height,
		Frames:     res.Frames,
		Outcome:    res.Outcome,
		StartedAt:  res.StartedAt,
		FinishedAt: res.FinishedAt,
	}
	switch {
	case runErr != nil:
		run.Outcome = merge.OutcomeFailed
		run.Error = runErr.Error()
	case res.Fault != nil:
		run.Error = res.Fault.Error()
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = run.FinishedAt
	}
	return run
}

func (r Run) validate() error {
	if r.RunID == "" {
		return errors.New("run id is required")
	}
	if r.SessionID == "" {
		return errors.New("session id is required")
	}
	if r.Outcome == "" {
		return errors.New("outcome is required")
	}
	return nil
}
