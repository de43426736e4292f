package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/mouse-blink/quill/internal/config"
	"github.com/mouse-blink/quill/internal/domain"
	m "github.com/mouse-blink/quill/internal/model"
)

var checkFilesFlags []string
var checkFunctionsFlags []string
var checkIgnoreFilesFlags []string
var checkIgnoreFunctionsFlags []string
var checkLanguageFlag string
var checkProjectDirFlag string
var checkFailOnNoMatchFlag bool

// errUndocumented marks a check that found missing docstrings or files it
// could not scan. The report was already shown.
var errUndocumented = errors.New("undocumented functions found")

// checkCmd represents the check command.
var checkCmd = newCheckCmd()

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "List undocumented functions without writing anything",
		Long: `Scan the project and report every function or method that lacks a
docstring, without modifying any file. Exits non-zero when undocumented
functions are found, which makes it usable as a CI gate.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(checkFlagConfig())
			if err != nil {
				return err
			}

			root := projectRoot(cfg, args)
			view := resolveUI(cmd, false)

			wf, cleanup, err := buildWorkflow(cfg, root, view, false)
			if err != nil {
				return err
			}
			defer cleanup()

			report, err := wf.Check(cmd.Context(), checkOptions(cfg, root))
			if err != nil {
				return err
			}

			view.ShowCheckReport(report)

			if len(report.Undocumented) > 0 || len(report.Failures) > 0 {
				return errUndocumented
			}

			return nil
		},
	}

	cmd.Flags().StringArrayVar(&checkFilesFlags, "files", nil, "include files matching pattern (can be repeated)")
	cmd.Flags().StringArrayVar(&checkFunctionsFlags, "functions", nil, "include functions matching pattern (can be repeated)")
	cmd.Flags().StringArrayVar(&checkIgnoreFilesFlags, "ignore-files", nil, "exclude files matching pattern (can be repeated)")
	cmd.Flags().StringArrayVar(&checkIgnoreFunctionsFlags, "ignore-functions", nil, "exclude functions matching pattern (can be repeated)")
	cmd.Flags().StringVarP(&checkLanguageFlag, "language", "l", "", "source language: python, csharp, go")
	cmd.Flags().StringVar(&checkProjectDirFlag, "project-dir", "", "project directory to scan")
	cmd.Flags().BoolVar(&checkFailOnNoMatchFlag, "fail-on-no-match", false, "exit non-zero when no files match")

	return cmd
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func checkFlagConfig() config.Config {
	return config.Config{
		Files:           checkFilesFlags,
		Functions:       checkFunctionsFlags,
		IgnoreFiles:     checkIgnoreFilesFlags,
		IgnoreFunctions: checkIgnoreFunctionsFlags,
		Language:        checkLanguageFlag,
		ProjectDir:      checkProjectDirFlag,
		FailOnNoMatch:   checkFailOnNoMatchFlag,
	}
}

func checkOptions(cfg config.Config, root m.Path) domain.CheckOptions {
	language, _ := m.ParseLanguage(cfg.Language)

	return domain.CheckOptions{
		Root:          root,
		FilePatterns:  cfg.Files,
		IgnoreFiles:   cfg.IgnoreFiles,
		Functions:     functionFilter(cfg),
		Language:      language,
		FailOnNoMatch: cfg.FailOnNoMatch,
	}
}
