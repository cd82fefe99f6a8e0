package main

import (
	"fmt"
	"strconv"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"vidmerge/internal/frame"
	"vidmerge/internal/merge"
	"vidmerge/internal/preflight"
	"vidmerge/internal/session"
)

func newSourcesCommand(ctx *commandContext) *cobra.Command {
	var flags mergeFlags

	cmd := &cobra.Command{
		Use:   "sources <session-id>",
		Short: "List and probe the recordings a merge would use",
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
			backend, err := newBackend(backendName, cfg, logger)
			if err != nil {
				return err
			}
			if check := preflight.CheckDirectoryReadable("data directory", opts.DataDir); !check.Passed {
				return fmt.Errorf("%s: %s", check.Name, check.Detail)
			}

			located, err := session.Discover(session.Query{
				SessionID: opts.SessionID,
				DataDir:   opts.DataDir,
				Cameras:   opts.Cameras,
				InputExt:  opts.InputExt,
			})
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(located))
			dims := make([]frame.Dims, 0, len(located))
			counts := make([]int, 0, len(located))
			for _, src := range located {
				opened, err := backend.OpenSource(cmd.Context(), src.Path)
				if err != nil {
					return fmt.Errorf("%w: %s (%s): %w", merge.ErrOpen, src.Camera, src.Path, err)
				}
				d := opened.Dims()
				frames := opened.FrameCount()
				_ = opened.Close()

				dims = append(dims, d)
				counts = append(counts, frames)
				rows = append(rows, []string{
					src.Camera,
					src.Path,
					fmt.Sprintf("%dx%d", d.Width, d.Height),
					frameCountLabel(frames),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]tableColumn{
				{Header: "Camera"},
				{Header: "Path", MaxWidth: 80},
				{Header: "Size", Align: alignRight},
				{Header: "Frames", Align: alignRight},
			}, rows))

			canvas, err := frame.Layout(dims, opts.HeightPolicy)
			if err != nil {
				fmt.Fprintf(out, "Merged size: unavailable (%v)\n", err)
				return nil
			}
			fmt.Fprintf(out, "Merged size: %dx%d (%s heights)\n", canvas.Width, canvas.Height, opts.HeightPolicy)
			fmt.Fprintf(out, "Expected frames: %s\n", frameCountLabel(lo.Min(counts)))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func frameCountLabel(frames int) string {
	if frames <= 0 {
		return "unknown"
	}
	return strconv.Itoa(frames)
}
