package confloader

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// DefaultMinInterval is the default minimum gap between change callbacks.
const DefaultMinInterval = 250 * time.Millisecond

// Watcher watches a set of files and reports changes to registered
// callbacks. Bursts of events (editors often write a file several times)
// are coalesced: at most one callback run per interval, and a change that
// arrives while one is pending is folded into it.
type Watcher struct {
	watcher   *fsnotify.Watcher
	callbacks []func(string)
	files     map[string]struct{}
	dirs      map[string]struct{}
	limiter   *rate.Limiter
	pending   bool
	mu        sync.RWMutex
	done      chan struct{}
	stopOnce  sync.Once
	logger    *slog.Logger
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherLogger sets the logger for the watcher.
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithMinInterval sets the minimum gap between callback runs.
// Zero or negative disables throttling.
func WithMinInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d <= 0 {
			w.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		w.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// NewWatcher creates a new file watcher.
func NewWatcher(opts ...WatcherOption) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher: fw,
		files:   make(map[string]struct{}),
		dirs:    make(map[string]struct{}),
		limiter: rate.NewLimiter(rate.Every(DefaultMinInterval), 1),
		done:    make(chan struct{}),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Watch adds a file to the watch set. The file need not exist yet, but
// its directory must.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()

	// Watch the directory, not the file, to catch rename-on-save editors.
	if _, ok := w.dirs[dir]; !ok {
		if err := w.watcher.Add(dir); err != nil {
			w.logger.Error("failed to watch directory",
				"path", dir,
				"error", err,
			)
			return err
		}
		w.dirs[dir] = struct{}{}
	}
	w.files[abs] = struct{}{}

	w.logger.Debug("watching file for changes",
		"dir", dir,
		"file", filepath.Base(abs),
	)
	return nil
}

// Files returns the number of watched files.
func (w *Watcher) Files() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.files)
}

// OnChange registers a callback run with the path of a changed file.
func (w *Watcher) OnChange(callback func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start processes events until Stop is called.
func (w *Watcher) Start() {
	w.logger.Debug("file watcher started")

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !w.watched(event.Name) {
				continue
			}
			w.logger.Debug("config file changed",
				"file", event.Name,
				"op", event.Op.String(),
			)
			w.trigger(event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error",
				"error", err,
			)
		case <-w.done:
			return
		}
	}
}

// StartAsync starts watching in a goroutine.
func (w *Watcher) StartAsync() {
	go w.Start()
}

// Stop stops the watcher. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		if err = w.watcher.Close(); err != nil {
			w.logger.Error("failed to close watcher",
				"error", err,
			)
			return
		}
		w.logger.Debug("file watcher stopped")
	})
	return err
}

func (w *Watcher) watched(name string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.files[filepath.Clean(name)]
	return ok
}

// trigger runs callbacks now if the limiter allows, otherwise schedules a
// single deferred run unless one is already pending.
func (w *Watcher) trigger(path string) {
	w.mu.Lock()
	if w.pending {
		w.mu.Unlock()
		return
	}
	delay := w.limiter.Reserve().Delay()
	if delay == 0 {
		w.mu.Unlock()
		w.notifyCallbacks(path)
		return
	}
	w.pending = true
	w.mu.Unlock()

	time.AfterFunc(delay, func() {
		w.mu.Lock()
		w.pending = false
		w.mu.Unlock()

		select {
		case <-w.done:
			return
		default:
		}
		w.notifyCallbacks(path)
	})
}

func (w *Watcher) notifyCallbacks(path string) {
	w.mu.RLock()
	callbacks := append([]func(string)(nil), w.callbacks...)
	w.mu.RUnlock()

	for _, cb := range callbacks {
		cb(path)
	}
}
