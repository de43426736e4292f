package adapter

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	m "github.com/mouse-blink/quill/internal/model"
)

// RecursiveWatcher wraps fsnotify with recursive directory support.
// fsnotify does not descend into subdirectories on its own, so every
// directory under the root is attached explicitly and directories created
// while watching are attached as they appear.
type RecursiveWatcher struct {
	*fsnotify.Watcher
}

// NewRecursiveWatcher constructs a watcher with no directories attached.
func NewRecursiveWatcher() (*RecursiveWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &RecursiveWatcher{Watcher: w}, nil
}

// AddRecursive attaches root and every directory below it, skipping hidden
// and build directories the same way Discover does.
func (w *RecursiveWatcher) AddRecursive(root m.Path) error {
	return filepath.WalkDir(string(root), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped rather than failing the walk.
			return nil
		}

		if !d.IsDir() {
			return nil
		}

		name := d.Name()
		if path != string(root) {
			if strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}

			if _, skip := skipDirNames[name]; skip {
				return filepath.SkipDir
			}
		}

		_ = w.Add(path)

		return nil
	})
}

// HandleNewDirectory attaches a directory created while watching. Returns
// true when the event named a directory that is now watched.
func (w *RecursiveWatcher) HandleNewDirectory(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) {
		return false
	}

	info, err := os.Stat(event.Name)
	if err != nil || !info.IsDir() {
		return false
	}

	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return false
	}

	if _, skip := skipDirNames[name]; skip {
		return false
	}

	_ = w.AddRecursive(m.Path(event.Name))

	return true
}
