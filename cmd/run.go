package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/quill/internal/config"
	"github.com/mouse-blink/quill/internal/domain"
	m "github.com/mouse-blink/quill/internal/model"
)

var runFilesFlags []string
var runFunctionsFlags []string
var runIgnoreFilesFlags []string
var runIgnoreFunctionsFlags []string
var runLanguageFlag string
var runStyleFlag string
var runProjectDirFlag string
var runForceAllFlag bool
var runOverwriteFlag bool
var runDryRunFlag bool
var runNoSummaryFlag bool
var runParallelFlag int
var runTUIFlag bool
var runFailOnNoMatchFlag bool

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [path]",
		Short: "Insert docstring templates into source files",
		Long: `Scan the project for functions and methods without docstrings and
insert template docstrings in the configured style.

Each candidate is confirmed interactively (accept, edit, skip, quit)
unless --force-all applies everything; --force-all also unlocks parallel
processing. Existing docstrings are left alone unless --overwrite is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(runFlagConfig(cmd))
			if err != nil {
				return err
			}

			root := projectRoot(cfg, args)
			view := resolveUI(cmd, runTUIFlag)

			wf, cleanup, err := buildWorkflow(cfg, root, view, !cfg.DryRun)
			if err != nil {
				return err
			}
			defer cleanup()

			report, err := wf.Run(cmd.Context(), runOptions(cfg, root))
			if err != nil {
				return err
			}

			view.ShowRunReport(report)

			if report.Failed() > 0 {
				return errFilesFailed
			}

			return nil
		},
	}

	cmd.Flags().StringArrayVar(&runFilesFlags, "files", nil, "include files matching pattern (can be repeated)")
	cmd.Flags().StringArrayVar(&runFunctionsFlags, "functions", nil, "include functions matching pattern (can be repeated)")
	cmd.Flags().StringArrayVar(&runIgnoreFilesFlags, "ignore-files", nil, "exclude files matching pattern (can be repeated)")
	cmd.Flags().StringArrayVar(&runIgnoreFunctionsFlags, "ignore-functions", nil, "exclude functions matching pattern (can be repeated)")
	cmd.Flags().StringVarP(&runLanguageFlag, "language", "l", "", "source language: python, csharp, go")
	cmd.Flags().StringVarP(&runStyleFlag, "style", "s", "", "docstring style: basic, PEP, numpy, xml, doxygen, godoc")
	cmd.Flags().StringVar(&runProjectDirFlag, "project-dir", "", "project directory to scan")
	cmd.Flags().BoolVar(&runForceAllFlag, "force-all", false, "apply every candidate without confirmation")
	cmd.Flags().BoolVar(&runOverwriteFlag, "overwrite", false, "replace existing docstrings instead of skipping them")
	cmd.Flags().BoolVar(&runDryRunFlag, "dry-run", false, "plan and report but leave files untouched")
	cmd.Flags().BoolVar(&runNoSummaryFlag, "no-summary", false, "omit the summary section from rendered docstrings")
	cmd.Flags().IntVarP(&runParallelFlag, "parallel", "p", 1, "number of parallel workers (force-all only)")
	cmd.Flags().BoolVar(&runTUIFlag, "tui", false, "confirm candidates in a full-screen terminal ui")
	cmd.Flags().BoolVar(&runFailOnNoMatchFlag, "fail-on-no-match", false, "exit non-zero when no files match")

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runFlagConfig(cmd *cobra.Command) config.Config {
	overlay := config.Config{
		Files:           runFilesFlags,
		Functions:       runFunctionsFlags,
		IgnoreFiles:     runIgnoreFilesFlags,
		IgnoreFunctions: runIgnoreFunctionsFlags,
		Language:        runLanguageFlag,
		Style:           runStyleFlag,
		ProjectDir:      runProjectDirFlag,
		NoSummary:       runNoSummaryFlag,
		ForceAll:        runForceAllFlag,
		Overwrite:       runOverwriteFlag,
		DryRun:          runDryRunFlag,
		FailOnNoMatch:   runFailOnNoMatchFlag,
	}

	if cmd.Flags().Changed("parallel") {
		overlay.Parallel = runParallelFlag
	}

	return overlay
}

func runOptions(cfg config.Config, root m.Path) domain.RunOptions {
	style, _ := m.ParseStyle(cfg.Style)
	language, _ := m.ParseLanguage(cfg.Language)

	policy := m.PolicySkipExisting
	if cfg.Overwrite {
		policy = m.PolicyOverwriteExisting
	}

	return domain.RunOptions{
		Root:          root,
		FilePatterns:  cfg.Files,
		IgnoreFiles:   cfg.IgnoreFiles,
		Functions:     functionFilter(cfg),
		Language:      language,
		Style:         style,
		Policy:        policy,
		NoSummary:     cfg.NoSummary,
		ForceAll:      cfg.ForceAll,
		DryRun:        cfg.DryRun,
		Parallel:      cfg.Parallel,
		FailOnNoMatch: cfg.FailOnNoMatch,
	}
}
