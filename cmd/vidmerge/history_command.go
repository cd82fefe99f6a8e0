package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"vidmerge/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var sessionID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent merge runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !cfg.History.Enabled {
				fmt.Fprintln(out, "Run history is disabled (history.enabled = false)")
				return nil
			}

			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), history.Filter{SessionID: sessionID, Limit: limit})
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No merge runs recorded")
				return nil
			}

			now := time.Now()
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					humanize.RelTime(run.StartedAt, now, "ago", "from now"),
					run.SessionID,
					string(run.Outcome),
					strconv.Itoa(run.Frames),
					fmt.Sprintf("%dx%d", run.Width, run.Height),
					run.Duration().Round(time.Millisecond).String(),
					historyDetail(run),
				})
			}
			fmt.Fprintln(out, renderTable([]tableColumn{
				{Header: "Started"},
				{Header: "Session"},
				{Header: "Outcome"},
				{Header: "Frames", Align: alignRight},
				{Header: "Size", Align: alignRight},
				{Header: "Took", Align: alignRight},
				{Header: "Output / Error", MaxWidth: 60},
			}, rows))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show (0 for all)")
	cmd.Flags().StringVar(&sessionID, "session", "", "Only show runs of this session")
	return cmd
}

func historyDetail(run history.Run) string {
	if run.Error != "" {
		return run.Error
	}
	return run.OutputPath
}
