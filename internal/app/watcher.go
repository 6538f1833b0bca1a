package app

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/mantle/pkg/log"
)

// DefaultDebounce is the delay between the last change to a job file and
// the run it triggers.
const DefaultDebounce = 200 * time.Millisecond

// ResultHandler receives the outcome of every run started by a Watcher.
type ResultHandler func(res Result, err error)

// Watcher re-runs a job file each time it changes.
type Watcher struct {
	path     string
	runner   *Runner
	debounce time.Duration
	logger   log.Logger
	onResult ResultHandler

	mu    sync.Mutex
	timer *time.Timer
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the debounce delay.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatcherLogger sets the watcher logger.
func WithWatcherLogger(l log.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithResultHandler sets the function called after every run.
func WithResultHandler(fn ResultHandler) WatcherOption {
	return func(w *Watcher) { w.onResult = fn }
}

// NewWatcher creates a watcher for the job file at path.
func NewWatcher(path string, runner *Runner, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		path:     filepath.Clean(path),
		runner:   runner,
		debounce: DefaultDebounce,
		logger:   log.NoopLogger{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run runs the job once, then again after every write to the job file,
// until ctx is cancelled. Runs happen one at a time on the calling
// goroutine.
func (w *Watcher) Run(ctx context.Context) error {
	abs, err := filepath.Abs(w.path)
	if err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	w.logger.Info("watching job file", log.String("path", abs))

	trigger := make(chan struct{}, 1)
	defer w.stopTimer()

	w.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.schedule(trigger)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", log.Err(err))

		case <-trigger:
			w.runOnce(ctx)
		}
	}
}

func (w *Watcher) schedule(trigger chan<- struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case trigger <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *Watcher) runOnce(ctx context.Context) {
	job, err := LoadJob(w.path)
	if err != nil {
		w.logger.Error("cannot load job", log.String("path", w.path), log.Err(err))
		w.report(Result{}, err)
		return
	}
	res, err := w.runner.Run(ctx, job)
	w.report(res, err)
}

func (w *Watcher) report(res Result, err error) {
	if w.onResult != nil {
		w.onResult(res, err)
	}
}
