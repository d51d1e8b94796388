// Package watcher re-runs work when a scene file changes on disk.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/df07/go-pathtracer/pkg/log"
)

// DefaultDebounce collapses the bursts of events editors emit for one save
const DefaultDebounce = 250 * time.Millisecond

var logger = log.New("watcher")

// FileWatcher reports changes to a set of files. The containing directories
// are watched so that editors that save by rename are still seen.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu     sync.Mutex
	files  map[string]bool
	timers map[string]*time.Timer
}

// NewFileWatcher creates a new file watcher
func NewFileWatcher(debounce time.Duration) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: create: %w", err)
	}

	return &FileWatcher{
		watcher:  watcher,
		debounce: debounce,
		files:    make(map[string]bool),
		timers:   make(map[string]*time.Timer),
	}, nil
}

// Add starts watching the given files
func (fw *FileWatcher) Add(files ...string) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for _, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("watcher: resolve %s: %w", file, err)
		}

		if err := fw.watcher.Add(filepath.Dir(absPath)); err != nil {
			return fmt.Errorf("watcher: watch %s: %w", absPath, err)
		}
		fw.files[absPath] = true
	}

	return nil
}

// Run calls onChange once per debounced burst of writes to a watched file
// until ctx is done or the watcher is closed. Callbacks never overlap.
func (fw *FileWatcher) Run(ctx context.Context, onChange func(path string)) error {
	changes := make(chan string, 1)
	defer fw.stopTimers()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case path := <-changes:
			onChange(path)

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				fw.schedule(filepath.Clean(event.Name), changes)
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warningf("watch error: %v", err)
		}
	}
}

// schedule restarts the debounce timer for path
func (fw *FileWatcher) schedule(path string, changes chan<- string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if !fw.files[path] {
		return
	}

	if timer, exists := fw.timers[path]; exists {
		timer.Stop()
	}
	fw.timers[path] = time.AfterFunc(fw.debounce, func() {
		// A change is already pending; this one folds into it
		select {
		case changes <- path:
		default:
		}
	})
}

func (fw *FileWatcher) stopTimers() {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for path, timer := range fw.timers {
		timer.Stop()
		delete(fw.timers, path)
	}
}

// Close stops the watcher
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}
