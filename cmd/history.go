// SPDX-License-Identifier: MIT
package cmd

import (
	"errors"
	"fmt"
	"time"

	"tempo/internal/store"

	"github.com/spf13/cobra"
)

func (a *app) newHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [file]",
		Short: "Show recent analysis runs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.History.Path == "" {
				return errors.New("history.path is not configured")
			}
			st, err := store.Open(a.cfg.History.Path)
			if err != nil {
				return err
			}
			defer st.Close()

			var runs []store.Run
			if len(args) == 1 {
				runs, err = st.ForPath(args[0])
			} else {
				runs, err = st.Recent(limit)
			}
			if err != nil {
				return err
			}

			if len(runs) == 0 {
				a.printf("No runs recorded.\n")
				return nil
			}
			for _, r := range runs {
				result := "failed: " + r.Error
				if !r.Failed() {
					result = formatBPM(r.BPM)
				}
				a.printf("%s  %-8s  %-24s  %s\n",
					r.CreatedAt.Local().Format(time.DateTime), r.Method, result, r.Path)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show")
	return cmd
}

func formatBPM(bpm float64) string {
	return fmt.Sprintf("%.2f bpm", bpm)
}
