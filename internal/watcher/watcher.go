// Package watcher reports changes to task source files.
package watcher

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType represents the type of file system event.
type EventType int

// Event types for source file changes.
const (
	EventSourceChanged EventType = iota
	EventSourceRemoved
)

func (t EventType) String() string {
	switch t {
	case EventSourceChanged:
		return "changed"
	case EventSourceRemoved:
		return "removed"
	}
	return fmt.Sprintf("EventType(%d)", int(t))
}

// DefaultDebounce is how long a path must stay quiet before an event fires.
const DefaultDebounce = 100 * time.Millisecond

// Event represents a change to a watched file.
type Event struct {
	Type EventType
	Path string
}

// Watcher watches individual files by watching their parent directories,
// so editors that save through a temp file and rename are still seen.
type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	eventsChan chan Event
	done       chan struct{}
	stopOnce   sync.Once
	delay      time.Duration

	mu    sync.RWMutex
	files map[string]bool // absolute path -> watched
	dirs  map[string]int  // directory -> number of watched files in it

	debounce   map[string]*time.Timer
	debounceMu sync.Mutex
}

// New creates a watcher with the default debounce.
func New() (*Watcher, error) {
	return NewWithDebounce(DefaultDebounce)
}

// NewWithDebounce creates a watcher with a custom debounce delay.
func NewWithDebounce(delay time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher:  fsWatcher,
		eventsChan: make(chan Event, 100),
		done:       make(chan struct{}),
		delay:      delay,
		files:      make(map[string]bool),
		dirs:       make(map[string]int),
		debounce:   make(map[string]*time.Timer),
	}
	go w.processEvents()
	return w, nil
}

// Events returns the channel for receiving events.
func (w *Watcher) Events() <-chan Event {
	return w.eventsChan
}

// Stop stops the watcher. Pending debounced events are dropped.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		_ = w.fsWatcher.Close()

		w.debounceMu.Lock()
		for path, timer := range w.debounce {
			timer.Stop()
			delete(w.debounce, path)
		}
		w.debounceMu.Unlock()
	})
}

// WatchFile starts reporting changes to path. The file itself may not exist
// yet, but its directory must.
func (w *Watcher) WatchFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.files[abs] {
		return nil
	}
	dir := filepath.Dir(abs)
	if w.dirs[dir] == 0 {
		if err := w.fsWatcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	w.dirs[dir]++
	w.files[abs] = true

	log.Printf("[watcher] Watching %s", abs)
	return nil
}

// UnwatchFile stops reporting changes to path.
func (w *Watcher) UnwatchFile(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.files[abs] {
		return
	}
	delete(w.files, abs)

	dir := filepath.Dir(abs)
	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		_ = w.fsWatcher.Remove(dir)
	}
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Printf("[watcher] error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}

	path := filepath.Clean(event.Name)
	w.mu.RLock()
	watched := w.files[path]
	w.mu.RUnlock()
	if !watched {
		return
	}

	w.debounceEvent(path, func() {
		w.processFileChange(path)
	})
}

// debounceEvent debounces events for the same path.
func (w *Watcher) debounceEvent(path string, fn func()) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, ok := w.debounce[path]; ok {
		timer.Stop()
	}

	w.debounce[path] = time.AfterFunc(w.delay, func() {
		w.debounceMu.Lock()
		delete(w.debounce, path)
		w.debounceMu.Unlock()
		fn()
	})
}

// processFileChange classifies a settled path by whether it still exists.
// An atomic save (write temp, rename over target) ends with the file present,
// so it reports as a change rather than a removal.
func (w *Watcher) processFileChange(path string) {
	ev := Event{Type: EventSourceChanged, Path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		ev.Type = EventSourceRemoved
	}

	select {
	case w.eventsChan <- ev:
	case <-w.done:
	}
}
