package cmd

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mouse-blink/quill/internal/adapter"
	"github.com/mouse-blink/quill/internal/config"
	"github.com/mouse-blink/quill/internal/controller"
	"github.com/mouse-blink/quill/internal/domain"
	m "github.com/mouse-blink/quill/internal/model"
)

var watchFilesFlags []string
var watchFunctionsFlags []string
var watchIgnoreFilesFlags []string
var watchIgnoreFunctionsFlags []string
var watchLanguageFlag string
var watchProjectDirFlag string
var watchDebounceFlag int

// watchCmd represents the watch command.
var watchCmd = newWatchCmd()

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Re-check files for missing docstrings as they change",
		Long: `Watch the project directory and, whenever a source file is written or
created, report its undocumented functions. Nothing is ever modified;
the loop runs until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(watchFlagConfig())
			if err != nil {
				return err
			}

			root := projectRoot(cfg, args)

			return runWatch(cmd, cfg, root, time.Duration(watchDebounceFlag)*time.Millisecond)
		},
	}

	cmd.Flags().StringArrayVar(&watchFilesFlags, "files", nil, "include files matching pattern (can be repeated)")
	cmd.Flags().StringArrayVar(&watchFunctionsFlags, "functions", nil, "include functions matching pattern (can be repeated)")
	cmd.Flags().StringArrayVar(&watchIgnoreFilesFlags, "ignore-files", nil, "exclude files matching pattern (can be repeated)")
	cmd.Flags().StringArrayVar(&watchIgnoreFunctionsFlags, "ignore-functions", nil, "exclude functions matching pattern (can be repeated)")
	cmd.Flags().StringVarP(&watchLanguageFlag, "language", "l", "", "source language: python, csharp, go")
	cmd.Flags().StringVar(&watchProjectDirFlag, "project-dir", "", "project directory to watch")
	cmd.Flags().IntVar(&watchDebounceFlag, "debounce", 300, "debounce interval in milliseconds")

	return cmd
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func watchFlagConfig() config.Config {
	return config.Config{
		Files:           watchFilesFlags,
		Functions:       watchFunctionsFlags,
		IgnoreFiles:     watchIgnoreFilesFlags,
		IgnoreFunctions: watchIgnoreFunctionsFlags,
		Language:        watchLanguageFlag,
		ProjectDir:      watchProjectDirFlag,
	}
}

func runWatch(cmd *cobra.Command, cfg config.Config, root m.Path, debounce time.Duration) error {
	watcher, err := adapter.NewRecursiveWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.AddRecursive(root); err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}

	language, _ := m.ParseLanguage(cfg.Language)
	view := resolveUI(cmd, false)

	wf, cleanup, err := buildWorkflow(cfg, root, view, false)
	if err != nil {
		return err
	}
	defer cleanup()

	log.WithFields(logrus.Fields{
		"root":     root,
		"language": language,
	}).Info("watching for changes")

	// Debounce state: changed files accumulate until the events settle.
	var mu sync.Mutex

	pending := make(map[m.Path]struct{})

	var timer *time.Timer

	recheck := func() {
		mu.Lock()
		changed := make([]m.Path, 0, len(pending))
		for path := range pending {
			changed = append(changed, path)
		}
		pending = make(map[m.Path]struct{})
		mu.Unlock()

		if len(changed) == 0 {
			return
		}

		sort.Slice(changed, func(i, j int) bool { return changed[i] < changed[j] })

		checkChanged(cmd, wf, view, cfg, root, language, changed)
	}

	ctx := cmd.Context()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if watcher.HandleNewDirectory(event) {
				continue
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			if !relevantSource(event.Name, language) {
				continue
			}

			mu.Lock()
			pending[m.Path(event.Name)] = struct{}{}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, recheck)
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			log.WithError(err).Error("watcher error")
		}
	}
}

func checkChanged(
	cmd *cobra.Command,
	wf domain.Workflow,
	view controller.UI,
	cfg config.Config,
	root m.Path,
	language m.Language,
	changed []m.Path,
) {
	report, err := wf.Check(cmd.Context(), domain.CheckOptions{
		Root:         root,
		Paths:        changed,
		FilePatterns: cfg.Files,
		IgnoreFiles:  cfg.IgnoreFiles,
		Functions:    functionFilter(cfg),
		Language:     language,
	})
	if err != nil {
		log.WithError(err).Error("check failed")

		return
	}

	view.ShowCheckReport(report)
}

// relevantSource reports whether the event path has one of the watched
// language's extensions.
func relevantSource(name string, language m.Language) bool {
	ext := filepath.Ext(name)

	for _, known := range language.Extensions() {
		if ext == known {
			return true
		}
	}

	return false
}
