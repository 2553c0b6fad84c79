package config

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the config file for changes and triggers hot reload.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	filePath string
	done     chan struct{}

	mu       sync.Mutex
	running  bool
	onReload func(*Config)
	onError  func(error)
}

// NewWatcher creates a watcher for the config file at filePath.
func NewWatcher(filePath string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:  watcher,
		logger:   logger,
		filePath: filePath,
		done:     make(chan struct{}),
	}, nil
}

// SetReloadCallback sets the callback invoked with the freshly loaded and
// validated configuration after the file changes.
func (w *Watcher) SetReloadCallback(cb func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = cb
}

// SetErrorCallback sets the callback invoked when a changed file fails to
// load or validate. The previous configuration stays in effect.
func (w *Watcher) SetErrorCallback(cb func(error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = cb
}

// Start begins watching. Watches the parent directory, which is more
// reliable than watching the file itself across editor rename-and-replace
// writes.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	dir := filepath.Dir(w.filePath)
	if err := w.watcher.Add(dir); err != nil {
		return err
	}

	go w.watch()
	w.logger.Debug("config watcher started", "path", w.filePath)
	return nil
}

// watch is the main watch loop.
func (w *Watcher) watch() {
	filename := filepath.Base(w.filePath)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.reload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "error", err)

		case <-w.done:
			return
		}
	}
}

// reload loads the changed file and dispatches to the callbacks.
func (w *Watcher) reload() {
	cfg, err := Load(w.filePath)

	w.mu.Lock()
	onReload := w.onReload
	onError := w.onError
	w.mu.Unlock()

	if err != nil {
		w.logger.Warn("config reload failed, keeping previous", "error", err)
		if onError != nil {
			onError(err)
		}
		return
	}

	w.logger.Info("config reloaded", "path", w.filePath)
	if onReload != nil {
		onReload(cfg)
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}
	w.running = false
	close(w.done)
	return w.watcher.Close()
}
