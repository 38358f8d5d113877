// Package watcher reports changes to markdown files under the documents
// directory.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// IgnoreFunc reports whether a change to path should be suppressed, for
// example because the process wrote the file itself.
type IgnoreFunc func(path string) bool

// Watcher watches a root directory and its first-level folders for
// modified markdown files. Hidden files and directories are skipped.
type Watcher struct {
	fsw     *fsnotify.Watcher
	root    string
	ignore  IgnoreFunc
	changes chan string
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

type Option func(*Watcher)

func WithIgnore(fn IgnoreFunc) Option {
	return func(w *Watcher) {
		w.ignore = fn
	}
}

func New(root string, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fsw:     fsw,
		root:    root,
		changes: make(chan string, 100),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start adds the root and every visible subdirectory to the watch list and
// begins emitting changes.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("watcher already running")
	}

	if err := w.fsw.Add(w.root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.root, err)
	}
	entries, err := os.ReadDir(w.root)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", w.root, err)
	}
	for _, e := range entries {
		if e.IsDir() && !hidden(e.Name()) {
			if err := w.fsw.Add(filepath.Join(w.root, e.Name())); err != nil {
				return fmt.Errorf("failed to watch %s: %w", e.Name(), err)
			}
		}
	}

	w.running = true
	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop blocks until the event loop has exited, then closes Changes.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return w.fsw.Close()
	}
	w.running = false
	w.mu.Unlock()

	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	close(w.changes)
	if err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

// Changes emits the absolute path of each changed markdown file.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	logger := log.With().Str("component", "watcher").Logger()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			path, ok := w.convert(event)
			if !ok {
				continue
			}
			select {
			case w.changes <- path:
			case <-w.done:
				return
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn().Err(err).Msg("Watch error")
		}
	}
}

func (w *Watcher) convert(event fsnotify.Event) (string, bool) {
	name := filepath.Base(event.Name)
	if hidden(name) {
		return "", false
	}

	if event.Has(fsnotify.Create) && filepath.Dir(event.Name) == filepath.Clean(w.root) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.fsw.Add(event.Name); err != nil {
				log.Warn().Str("component", "watcher").Err(err).Str("dir", event.Name).Msg("Failed to watch new folder")
			}
			return "", false
		}
	}

	if !strings.HasSuffix(name, ".md") {
		return "", false
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return "", false
	}

	path, err := filepath.Abs(event.Name)
	if err != nil {
		path = event.Name
	}
	if w.ignore != nil && w.ignore(path) {
		return "", false
	}
	return path, true
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
