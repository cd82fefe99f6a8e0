package merge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"vidmerge/internal/frame"
	"vidmerge/internal/logging"
	"vidmerge/internal/session"
)

// Progress is reported after every merged frame is written.
type Progress struct {
	Frames int
	// Total is the expected frame count (shortest source), or 0 when unknown.
	Total int
}

// Plan is the resolved input and output layout of a session.
type Plan struct {
	Options Options
	Sources []session.Source
	Output  session.Output
}

// Pipeline runs merges against a Backend.
type Pipeline struct {
	backend  Backend
	logger   *slog.Logger
	progress func(Progress)
	opened   func(Plan, []Source)
	now      func() time.Time
}

// PipelineOption customizes a Pipeline.
type PipelineOption func(*Pipeline)

// WithProgress registers a callback invoked after every written frame.
func WithProgress(fn func(Progress)) PipelineOption {
	return func(p *Pipeline) {
		p.progress = fn
	}
}

// WithOpened registers a callback invoked once all sources are open, before
// the first tick.
func WithOpened(fn func(Plan, []Source)) PipelineOption {
	return func(p *Pipeline) {
		p.opened = fn
	}
}

// NewPipeline constructs a pipeline using the provided backend.
func NewPipeline(backend Backend, logger *slog.Logger, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		backend: backend,
		logger:  logging.NewComponentLogger(logger, "merge"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Prepare discovers the per-camera sources and creates the output directory.
// Discovery runs first, so a missing camera never leaves an empty output
// directory behind.
func Prepare(opts Options) (Plan, error) {
	if err := opts.Validate(); err != nil {
		return Plan{}, err
	}
	sources, err := session.Discover(session.Query{
		SessionID: opts.SessionID,
		DataDir:   opts.DataDir,
		Cameras:   opts.Cameras,
		InputExt:  opts.InputExt,
	})
	if err != nil {
		return Plan{}, err
	}
	output, err := session.PlanOutput(opts.DataDir, opts.Prefix, opts.SessionID, opts.OutputExt)
	if err != nil {
		return Plan{}, err
	}
	if err := output.Ensure(); err != nil {
		return Plan{}, err
	}
	return Plan{Options: opts, Sources: sources, Output: output}, nil
}

// Run performs a complete merge: discovery, output preparation, locking, and
// the frame loop. The returned Result is populated as far as the run got, even
// when an error is returned.
func (p *Pipeline) Run(ctx context.Context, opts Options) (Result, error) {
	result := Result{
		RunID:     uuid.NewString(),
		SessionID: opts.SessionID,
		Backend:   p.backend.Name(),
		StartedAt: p.now(),
		Outcome:   OutcomeFailed,
	}
	ctx = logging.WithRunID(ctx, result.RunID)
	ctx = logging.WithSessionID(ctx, opts.SessionID)
	logger := logging.WithContext(ctx, p.logger)

	plan, err := Prepare(opts)
	if err != nil {
		result.FinishedAt = p.now()
		logging.ErrorWithContext(logger, "merge preparation failed", "merge_prepare_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the data directory, camera names, and session id"),
		)
		return result, err
	}
	result.Sources = plan.Sources
	result.OutputPath = plan.Output.Path()
	for _, src := range plan.Sources {
		logger.Info("source located", logging.Args(
			logging.String(logging.FieldCamera, src.Camera),
			logging.String("path", src.Path),
		)...)
	}

	lock, err := session.AcquireLock(plan.Output)
	if err != nil {
		result.FinishedAt = p.now()
		return result, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("release output lock", logging.Args(logging.Error(err))...)
		}
	}()

	merged, err := p.Merge(ctx, plan)
	merged.RunID = result.RunID
	merged.StartedAt = result.StartedAt
	return merged, err
}

// Merge opens the planned sources and sink and runs the lock-step loop.
func (p *Pipeline) Merge(ctx context.Context, plan Plan) (result Result, err error) {
	logger := logging.WithContext(ctx, p.logger)
	opts := plan.Options
	result = Result{
		SessionID:  opts.SessionID,
		Backend:    p.backend.Name(),
		Sources:    plan.Sources,
		OutputPath: plan.Output.Path(),
		StartedAt:  p.now(),
		Outcome:    OutcomeFailed,
	}
	defer func() {
		result.FinishedAt = p.now()
	}()

	sources, err := p.openSources(ctx, plan.Sources)
	if err != nil {
		return result, err
	}

	dims := lo.Map(sources, func(s Source, _ int) frame.Dims { return s.Dims() })
	canvas, err := frame.Layout(dims, opts.HeightPolicy)
	if err != nil {
		closeSources(logger, sources)
		return result, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	result.Width, result.Height = canvas.Width, canvas.Height

	var preview Preview
	if opts.Preview {
		preview, err = p.backend.OpenPreview(ctx, PreviewSpec{
			Title:  previewTitle(opts.Prefix),
			Width:  canvas.Width,
			Height: canvas.Height,
			FPS:    opts.FPS,
		})
		if err != nil {
			closeSources(logger, sources)
			return result, fmt.Errorf("%w: preview: %w", ErrOpen, err)
		}
	}

	_, statErr := os.Stat(result.OutputPath)
	preexisting := statErr == nil
	sink, err := p.backend.OpenSink(ctx, result.OutputPath, SinkSpec{
		Width:  canvas.Width,
		Height: canvas.Height,
		FPS:    opts.FPS,
		FourCC: opts.FourCC,
	})
	if err != nil {
		closeSources(logger, sources)
		closePreview(logger, preview)
		// Only clean up a file this open created; an earlier run's output stays.
		if !preexisting {
			_ = os.Remove(result.OutputPath)
		}
		return result, fmt.Errorf("%w: output %s: %w", ErrOpen, result.OutputPath, err)
	}

	logger.Info("merge started", logging.Args(
		logging.Int("sources", len(sources)),
		logging.String("output", result.OutputPath),
		logging.String("size", fmt.Sprintf("%dx%d", canvas.Width, canvas.Height)),
		logging.Int("fps", opts.FPS),
		logging.String("fourcc", opts.FourCC),
		logging.Bool("preview", preview != nil),
	)...)

	if p.opened != nil {
		p.opened(plan, sources)
	}

	tick := &ticker{
		sources: sources,
		cameras: lo.Map(plan.Sources, func(s session.Source, _ int) string { return s.Camera }),
		sink:    sink,
		preview: preview,
		policy:  opts.HeightPolicy,
		canvas:  canvas,
		logger:  logger,
	}
	defer func() {
		closeSources(logger, sources)
		if closeErr := sink.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("%w: finalize %s: %w", ErrWrite, result.OutputPath, closeErr)
			result.Outcome = OutcomeFailed
		}
		closePreview(logger, tick.preview)
	}()

	total := expectedFrames(sources)
	for tick.allOpen() {
		if ctx.Err() != nil {
			result.Outcome = OutcomeInterrupted
			break
		}
		outcome, stepErr := tick.step()
		if stepErr != nil {
			return result, stepErr
		}
		if outcome != "" {
			result.Outcome = outcome
			result.Fault = tick.fault
			break
		}
		result.Frames++
		if p.progress != nil {
			p.progress(Progress{Frames: result.Frames, Total: total})
		}
	}
	if result.Outcome == OutcomeFailed {
		// A source closed itself between ticks.
		result.Outcome = OutcomeEndOfStream
	}

	attrs := []logging.Attr{
		logging.Int("frames", result.Frames),
		logging.String("outcome", string(result.Outcome)),
	}
	if result.Fault != nil {
		attrs = append(attrs, logging.Error(result.Fault))
		logging.WarnWithContext(logger, "merge stopped on read fault", "read_fault", append(attrs,
			logging.String(logging.FieldImpact, "output truncated"),
			logging.Alert("output_truncated"),
		)...)
	} else {
		logger.Info("merge loop finished", logging.Args(attrs...)...)
	}
	return result, nil
}

type ticker struct {
	sources []Source
	cameras []string
	frames  []*frame.Frame
	merged  *frame.Frame
	sink    Sink
	preview Preview
	policy  frame.HeightPolicy
	canvas  frame.Dims
	logger  *slog.Logger
	fault   error
}

func (t *ticker) allOpen() bool {
	return lo.EveryBy(t.sources, func(s Source) bool { return s.IsOpen() })
}

// step advances every source by one frame. A non-empty Outcome ends the loop
// without error; a non-nil error aborts the run. Read faults are kept in
// t.fault.
func (t *ticker) step() (Outcome, error) {
	if t.frames == nil {
		t.frames = make([]*frame.Frame, len(t.sources))
	}
	for i, src := range t.sources {
		f, err := src.Read()
		if errors.Is(err, io.EOF) {
			return OutcomeEndOfStream, nil
		}
		if err != nil {
			t.fault = fmt.Errorf("read %s: %w", t.cameras[i], err)
			return OutcomeReadFault, nil
		}
		t.frames[i] = f
	}

	merged, err := frame.HConcat(t.merged, t.frames, t.policy)
	if err != nil {
		return "", fmt.Errorf("merge frame: %w", err)
	}
	t.merged = merged
	if merged.Width != t.canvas.Width || merged.Height != t.canvas.Height {
		return "", fmt.Errorf("%w: merged frame %s does not match output %dx%d",
			ErrWrite, merged, t.canvas.Width, t.canvas.Height)
	}

	if t.preview != nil {
		stop, err := t.preview.Show(merged)
		if err != nil {
			logging.WarnWithContext(t.logger, "preview failed; continuing without preview", "preview_error",
				logging.Error(err),
				logging.String(logging.FieldImpact, "merged frames are still written"),
			)
			closePreview(t.logger, t.preview)
			t.preview = nil
		} else if stop {
			return OutcomeInterrupted, nil
		}
	}

	if err := t.sink.Write(merged); err != nil {
		return "", fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return "", nil
}

func (p *Pipeline) openSources(ctx context.Context, located []session.Source) ([]Source, error) {
	logger := logging.WithContext(ctx, p.logger)
	sources := make([]Source, 0, len(located))
	for _, loc := range located {
		src, err := p.backend.OpenSource(ctx, loc.Path)
		if err != nil {
			closeSources(logger, sources)
			return nil, fmt.Errorf("%w: %s (%s): %w", ErrOpen, loc.Camera, loc.Path, err)
		}
		d := src.Dims()
		logger.Debug("source opened", logging.Args(
			logging.String(logging.FieldCamera, loc.Camera),
			logging.Int("width", d.Width),
			logging.Int("height", d.Height),
			logging.Int("frames", src.FrameCount()),
		)...)
		sources = append(sources, src)
	}
	return sources, nil
}

// expectedFrames returns the shortest known frame count, or 0 if any source
// does not report one.
func expectedFrames(sources []Source) int {
	counts := lo.Map(sources, func(s Source, _ int) int { return s.FrameCount() })
	if len(counts) == 0 || lo.Min(counts) <= 0 {
		return 0
	}
	return lo.Min(counts)
}

func closeSources(logger *slog.Logger, sources []Source) {
	for _, src := range sources {
		if err := src.Close(); err != nil {
			logger.Warn("close source", logging.Args(logging.Error(err))...)
		}
	}
}

func closePreview(logger *slog.Logger, preview Preview) {
	if preview == nil {
		return
	}
	if err := preview.Close(); err != nil {
		logger.Debug("close preview", logging.Args(logging.Error(err))...)
	}
}

func previewTitle(prefix string) string {
	label := strings.TrimSpace(strings.ReplaceAll(prefix, "_", " "))
	if label == "" {
		label = "combined"
	}
	return cases.Title(language.Und).String(label) + " views"
}
