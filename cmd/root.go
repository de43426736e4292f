// Package cmd provides the root command and CLI setup for quill.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mouse-blink/quill/internal/adapter"
	"github.com/mouse-blink/quill/internal/config"
	"github.com/mouse-blink/quill/internal/controller"
	"github.com/mouse-blink/quill/internal/domain"
	m "github.com/mouse-blink/quill/internal/model"
)

var log = logrus.New()
var fsAdapter adapter.SourceFSAdapter
var registry *adapter.Registry

// workflow and ui are nil in normal operation and constructed per command
// invocation from the resolved configuration. Tests inject fakes here.
var workflow domain.Workflow
var ui controller.UI

// newHistoryStore is swapped by tests to avoid touching real databases.
var newHistoryStore = adapter.NewHistoryStore

// errFilesFailed marks a run where at least one file could not be
// processed. The report was already shown; Execute maps it to exit code 1.
var errFilesFailed = errors.New("some files could not be processed")

var cfgFileFlag string
var logLevelFlag string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quill",
		Short: "Docstring template generator for Python, C#, and Go",
		Long: `Quill scans source files for functions and methods without docstrings
and inserts template docstrings in a configurable style, either
interactively or in bulk.

Configuration is read from the nearest .quill.yaml; flags override it.

  quill run            insert docstring templates (writes files)
  quill check          list undocumented functions, write nothing
  quill history        show recorded runs
  quill watch          re-check files as they change`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&cfgFileFlag, "config", "c", "", "path to a configuration file (default: nearest .quill.yaml)")
	cmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log verbosity: debug, info, warning, error")

	return cmd
}

func init() {
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	registry = adapter.NewRegistry()
	log.SetOutput(os.Stderr)
}

// Execute runs the root command and returns the process exit code: 0 on
// success, 2 when no files matched and the run is configured to fail on
// that, 1 for configuration errors and file failures.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return 0
	}

	fmt.Fprintf(rootCmd.ErrOrStderr(), "quill: %v\n", err)

	if errors.Is(err, domain.ErrNoFilesMatched) {
		return 2
	}

	return 1
}

// resolveConfig layers defaults, the configuration file, and the calling
// command's flag overlay, then validates the result and applies the log
// level.
func resolveConfig(overlay config.Config) (config.Config, error) {
	cfg := config.Default()

	fileCfg, err := loadFileConfig()
	if err != nil {
		return config.Config{}, err
	}

	cfg = cfg.Merge(fileCfg).Merge(overlay)

	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
	}

	// A language choice without an explicit style picks the language's
	// conventional style instead of failing validation.
	if fileCfg.Style == "" && overlay.Style == "" {
		if language, parseErr := m.ParseLanguage(cfg.Language); parseErr == nil {
			cfg.Style = string(defaultStyleFor(language))
		}
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	configureLogger(cfg.LogLevel)

	return cfg, nil
}

func loadFileConfig() (config.Config, error) {
	if cfgFileFlag != "" {
		return config.Load(cfgFileFlag)
	}

	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, err
	}

	cfg, _, err := config.Find(wd)

	return cfg, err
}

func defaultStyleFor(language m.Language) m.DocstringStyle {
	switch language {
	case m.LanguageCSharp:
		return m.StyleXML
	case m.LanguageGo:
		return m.StyleGodoc
	default:
		return m.DefaultStyle
	}
}

func configureLogger(level string) {
	switch strings.ToLower(level) {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "warning", "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
}

// projectRoot picks the directory a command operates on: the positional
// argument, then project_dir from config, then the directory holding the
// nearest .quill.yaml, then the working directory.
func projectRoot(cfg config.Config, args []string) m.Path {
	if len(args) > 0 {
		return m.Path(args[0])
	}

	if cfg.ProjectDir != "" {
		return m.Path(cfg.ProjectDir)
	}

	if root, err := fsAdapter.FindProjectRoot("."); err == nil {
		return root
	}

	return "."
}

// resolveUI returns the injected UI when a test set one, otherwise builds
// one for the command. TUI mode additionally requires stdout to be a
// terminal.
func resolveUI(cmd *cobra.Command, wantTUI bool) controller.UI {
	if ui != nil {
		return ui
	}

	return controller.NewUI(cmd, wantTUI && controller.IsTTY(os.Stdout))
}

// buildWorkflow assembles the pipeline for one command invocation. The
// returned cleanup closes the history store. withHistory is false for
// read-only commands and dry runs so they never create the database.
func buildWorkflow(cfg config.Config, root m.Path, view controller.UI, withHistory bool) (domain.Workflow, func(), error) {
	noop := func() {}

	if workflow != nil {
		return workflow, noop, nil
	}

	provider, err := adapter.NewContentProvider(adapter.ProviderOptions{
		Kind:           cfg.Provider.Kind,
		BaseURL:        cfg.Provider.BaseURL,
		Model:          cfg.Provider.Model,
		APIKeyEnv:      cfg.Provider.APIKeyEnv,
		TimeoutSeconds: cfg.Provider.TimeoutSeconds,
	})
	if err != nil {
		return nil, nil, &config.ConfigError{Reason: err.Error()}
	}

	var history adapter.HistoryStore

	cleanup := noop

	if withHistory {
		history, err = newHistoryStore(root)
		if err != nil {
			// History is best effort; a run proceeds without it.
			log.WithError(err).Warn("run history disabled")
			history = nil
		} else {
			store := history
			cleanup = func() { _ = store.Close() }
		}
	}

	return domain.NewWorkflow(fsAdapter, registry, provider, history, view, log), cleanup, nil
}

func functionFilter(cfg config.Config) m.FilterSpec {
	return m.FilterSpec{Include: cfg.Functions, Exclude: cfg.IgnoreFunctions}
}
