package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceInterval is the quiet period after the last file event
// before a reload is triggered.
const DefaultDebounceInterval = 250 * time.Millisecond

// Watcher reloads a Live configuration when its file changes.
//
// The parent directory is watched rather than the file itself so that
// editors and config-map updates that replace the file by rename are seen.
type Watcher struct {
	live     *Live
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	debounce *Debouncer
	target   string

	// OnReload, if set, is called after every reload attempt with its result.
	OnReload func(error)

	mu      sync.Mutex
	running bool
}

// NewWatcher creates a watcher for live's configuration file.
func NewWatcher(live *Live, interval time.Duration, logger *slog.Logger) (*Watcher, error) {
	if live.Path() == "" {
		return nil, fmt.Errorf("no configuration file to watch")
	}
	if interval <= 0 {
		interval = DefaultDebounceInterval
	}
	if logger == nil {
		logger = slog.Default()
	}

	target, err := filepath.Abs(live.Path())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve configuration path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		live:     live,
		watcher:  fw,
		logger:   logger,
		debounce: NewDebouncer(interval),
		target:   target,
	}, nil
}

// Watch processes file events until ctx is cancelled. It blocks and always
// releases the underlying fsnotify watcher before returning.
func (w *Watcher) Watch(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.debounce.Stop()
		_ = w.watcher.Close()
	}()

	if err := w.watcher.Add(filepath.Dir(w.target)); err != nil {
		return fmt.Errorf("failed to watch %q: %w", filepath.Dir(w.target), err)
	}

	w.logger.Info("configuration watcher started",
		"path", w.target,
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("configuration watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.relevant(event) {
				continue
			}

			w.logger.Debug("configuration file event",
				"path", event.Name,
				"op", event.Op.String(),
			)
			w.debounce.Trigger(w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("configuration watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	err := w.live.Reload()
	if err != nil {
		w.logger.Error("configuration reload failed, keeping previous configuration",
			"path", w.target,
			"error", err,
		)
	} else {
		cfg := w.live.Get()
		w.logger.Info("configuration reloaded",
			"path", w.target,
			"base_url", cfg.Upstream.BaseURL,
			"default_model", cfg.Upstream.DefaultModel,
			"default_key_set", cfg.Upstream.APIKey != "",
		)
	}

	if w.OnReload != nil {
		w.OnReload(err)
	}
}

// relevant reports whether event concerns the watched file.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return name == w.target
}

// Debouncer collapses bursts of events into a single callback that runs
// once the events have stopped for the configured interval.
type Debouncer struct {
	interval time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewDebouncer creates a new debouncer.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval}
}

// Trigger schedules callback, replacing any pending one.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		stopped := d.stopped
		d.mu.Unlock()
		if !stopped {
			callback()
		}
	})
}

// Stop cancels any pending callback. Later triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
