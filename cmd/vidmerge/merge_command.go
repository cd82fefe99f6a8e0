package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"vidmerge/internal/config"
	"vidmerge/internal/frame"
	"vidmerge/internal/history"
	"vidmerge/internal/logging"
	"vidmerge/internal/merge"
	"vidmerge/internal/preflight"
)

type mergeFlags struct {
	dataDir      string
	cameras      []string
	fps          int
	prefix       string
	inputExt     string
	outputExt    string
	fourcc       string
	preview      bool
	heightPolicy string
	backend      string
}

func (f *mergeFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.dataDir, "data-dir", "", "Directory holding the per-camera recording folders")
	flags.StringArrayVar(&f.cameras, "camera", nil, "Camera name, repeat in left-to-right order")
	flags.IntVar(&f.fps, "fps", 0, "Output frame rate")
	flags.StringVar(&f.prefix, "prefix", "", "Output folder and file name prefix")
	flags.StringVar(&f.inputExt, "input-ext", "", "Recording file extension")
	flags.StringVar(&f.outputExt, "output-ext", "", "Output file extension")
	flags.StringVar(&f.fourcc, "fourcc", "", "Output codec FourCC")
	flags.BoolVar(&f.preview, "preview", false, "Show merged frames while writing")
	flags.StringVar(&f.heightPolicy, "height-policy", "", "Differing frame heights: strict or pad")
	flags.StringVar(&f.backend, "backend", "", "Frame I/O backend")
}

// apply overrides configured values with the flags the user set.
func (f *mergeFlags) apply(cmd *cobra.Command, opts *merge.Options, backend *string) error {
	changed := cmd.Flags().Changed
	if changed("data-dir") {
		dir, err := config.ExpandPath(f.dataDir)
		if err != nil {
			return fmt.Errorf("resolve data dir: %w", err)
		}
		opts.DataDir = dir
	}
	if changed("camera") {
		opts.Cameras = append([]string(nil), f.cameras...)
	}
	if changed("fps") {
		opts.FPS = f.fps
	}
	if changed("prefix") {
		opts.Prefix = strings.TrimSpace(f.prefix)
	}
	if changed("input-ext") {
		opts.InputExt = withDot(f.inputExt)
	}
	if changed("output-ext") {
		opts.OutputExt = withDot(f.outputExt)
	}
	if changed("fourcc") {
		opts.FourCC = strings.TrimSpace(f.fourcc)
	}
	if changed("preview") {
		opts.Preview = f.preview
	}
	if changed("height-policy") {
		policy, err := frame.ParseHeightPolicy(f.heightPolicy)
		if err != nil {
			return err
		}
		opts.HeightPolicy = policy
	}
	if changed("backend") {
		*backend = strings.ToLower(strings.TrimSpace(f.backend))
	}
	return opts.Validate()
}

func withDot(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		return "." + ext
	}
	return ext
}

func newMergeCommand(ctx *commandContext) *cobra.Command {
	var flags mergeFlags

	cmd := &cobra.Command{
		Use:   "merge <session-id>",
		Short: "Merge the recordings of one session side by side",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			opts := merge.OptionsFromConfig(cfg, args[0])
			backendName := cfg.Merge.Backend
			if err := flags.apply(cmd, &opts, &backendName); err != nil {
				return err
			}

			runCfg := *cfg
			runCfg.Paths.DataDir = opts.DataDir
			runCfg.Merge.Backend = backendName
			runCfg.Merge.Preview = opts.Preview
			if err := preflight.Ready(&runCfg); err != nil {
				return err
			}
			backend, err := newBackend(backendName, cfg, logger)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			progress := &mergeProgress{out: out, enabled: shouldColorize(out)}
			pipeline := merge.NewPipeline(backend, logger,
				merge.WithOpened(func(plan merge.Plan, _ []merge.Source) {
					printPlan(out, plan)
				}),
				merge.WithProgress(progress.update),
			)

			res, runErr := pipeline.Run(runCtx, opts)
			progress.finish()
			if cfg.History.Enabled {
				recordHistory(context.WithoutCancel(cmd.Context()), cfg, logger, res, runErr)
			}
			if runErr != nil {
				return runErr
			}
			printCompletion(out, res)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func printPlan(out io.Writer, plan merge.Plan) {
	for _, src := range plan.Sources {
		fmt.Fprintf(out, "%s: %s\n", src.Camera, src.Path)
	}
	fmt.Fprintf(out, "Output: %s\n", plan.Output.Path())
}

// mergeProgress draws a frame counter on interactive terminals.
type mergeProgress struct {
	out     io.Writer
	enabled bool
	bar     *progressbar.ProgressBar
}

func (p *mergeProgress) update(progress merge.Progress) {
	if !p.enabled {
		return
	}
	if p.bar == nil {
		total := progress.Total
		if total <= 0 {
			total = -1
		}
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.out),
			progressbar.OptionSetDescription("Merging"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("frames"),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionSetWidth(30),
		)
	}
	_ = p.bar.Set(progress.Frames)
}

func (p *mergeProgress) finish() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
	fmt.Fprintln(p.out)
}

func printCompletion(out io.Writer, res merge.Result) {
	size := "size unknown"
	if info, err := os.Stat(res.OutputPath); err == nil {
		size = humanize.Bytes(uint64(info.Size()))
	}
	elapsed := res.Elapsed().Round(time.Millisecond)

	switch res.Outcome {
	case merge.OutcomeReadFault:
		fmt.Fprintf(out, "Merge stopped early after %d frames: a recording could not be read.\n", res.Frames)
		fmt.Fprintf(out, "  Cause: %v\n", res.Fault)
		fmt.Fprintf(out, "  Truncated output kept at %s (%s)\n", res.OutputPath, size)
	case merge.OutcomeInterrupted:
		fmt.Fprintf(out, "Merge interrupted after %d frames; partial output kept at %s (%s)\n", res.Frames, res.OutputPath, size)
	default:
		fmt.Fprintf(out, "Merged %d frames at %dx%d into %s (%s, %s)\n",
			res.Frames, res.Width, res.Height, res.OutputPath, size, elapsed)
	}
}

func recordHistory(ctx context.Context, cfg *config.Config, logger *slog.Logger, res merge.Result, runErr error) {
	store, err := history.Open(cfg)
	if err != nil {
		logger.Warn("history unavailable", logging.Args(logging.Error(err))...)
		return
	}
	defer store.Close()
	id, err := store.Record(ctx, history.FromResult(res, runErr))
	if err != nil {
		logger.Warn("record merge run", logging.Args(logging.Error(err))...)
		return
	}
	logger.Debug("merge run recorded", logging.Args(
		logging.Int64("history_id", id),
		logging.String("path", store.Path()),
	)...)
}
