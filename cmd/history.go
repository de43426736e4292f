package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mouse-blink/quill/internal/config"
)

var historyLimitFlag int
var historyProjectDirFlag string

// historyCmd represents the history command.
var historyCmd = newHistoryCmd()

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [path]",
		Short: "Show recorded runs, newest first",
		Long: `List the runs recorded in the project's history database, with the
language, style, and per-file counters of each. Dry runs are never
recorded.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(config.Config{ProjectDir: historyProjectDirFlag})
			if err != nil {
				return err
			}

			root := projectRoot(cfg, args)

			store, err := newHistoryStore(root)
			if err != nil {
				return fmt.Errorf("open history for %s: %w", root, err)
			}
			defer store.Close()

			runs, err := store.RecentRuns(historyLimitFlag)
			if err != nil {
				return fmt.Errorf("read history: %w", err)
			}

			resolveUI(cmd, false).ShowHistory(runs)

			return nil
		},
	}

	cmd.Flags().IntVar(&historyLimitFlag, "limit", 10, "maximum number of runs to list")
	cmd.Flags().StringVar(&historyProjectDirFlag, "project-dir", "", "project directory holding the history database")

	return cmd
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
