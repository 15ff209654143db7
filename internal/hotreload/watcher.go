package hotreload

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watchFile watches the directory holding path. Editors and config management
// tools usually replace files by rename, which a watch on the file itself
// would lose.
func watchFile(path string) (*fsnotify.Watcher, string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, "", fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(absPath)); err != nil {
		_ = w.Close()
		return nil, "", fmt.Errorf("failed to watch %s: %w", filepath.Dir(absPath), err)
	}
	return w, absPath, nil
}

// relevant reports whether event may have changed the contents of target.
func relevant(event fsnotify.Event, target string) bool {
	if shouldSkipEvent(event.Name) {
		return false
	}
	if filepath.Clean(event.Name) != target {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// shouldSkipEvent filters editor swap and temporary files.
func shouldSkipEvent(path string) bool {
	base := filepath.Base(path)
	if base == "" || base == "." {
		return true
	}
	ext := filepath.Ext(path)
	return ext == ".tmp" || ext == ".swp" || base[0] == '~'
}
