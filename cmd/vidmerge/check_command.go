package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"vidmerge/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report helper binaries and directory readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			_, compiled := backendFactories[cfg.Merge.Backend]
			backendKind, backendDetail := statusOK, cfg.Merge.Backend
			if !compiled {
				backendKind, backendDetail = statusError, cfg.Merge.Backend+" (not compiled in)"
			}
			lines := renderSectionHeader("Backend", colorize)
			lines = append(lines, renderStatusLine("Merge backend", backendKind, backendDetail, colorize))
			lines = append(lines, renderStatusLine("Preview", statusOK, yesNo(cfg.Merge.Preview), colorize))

			statuses := preflight.CheckSystemDeps(cfg)
			if len(statuses) > 0 {
				lines = append(lines, "")
				lines = append(lines, renderSectionHeader("Dependencies", colorize)...)
				lines = append(lines, dependencyLines(statuses, colorize)...)
			}

			dirs := preflight.RunAll(cfg)
			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Directories", colorize)...)
			lines = append(lines, directoryLines(dirs, colorize)...)

			for _, line := range lines {
				fmt.Fprintln(out, line)
			}

			if !compiled || preflight.Ready(cfg) != nil {
				return errors.New("vidmerge is not ready to merge")
			}
			return nil
		},
	}
}
