package file

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/salafifatawa/fatawa-cli/internal/logger"
)

// DefaultDebounce collapses bursts of events from a single save.
const DefaultDebounce = 200 * time.Millisecond

// SessionWatcher calls onChange when the session file is written, replaced
// or removed by any process. The directory is watched rather than the file
// so that rename-based writes and deletions are seen.
type SessionWatcher struct {
	path     string
	onChange func(ctx context.Context) error
	debounce time.Duration

	watcher *fsnotify.Watcher

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	done    chan struct{}
}

// NewSessionWatcher creates a watcher for path.
func NewSessionWatcher(path string, onChange func(ctx context.Context) error) (*SessionWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &SessionWatcher{
		path:     path,
		onChange: onChange,
		debounce: DefaultDebounce,
		watcher:  w,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// SetDebounce changes the debounce interval. Call before Start.
func (w *SessionWatcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Start begins watching. It returns immediately.
func (w *SessionWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.running = true

	logger.Debug("Watching %s", w.path)
	go w.loop(ctx)
	return nil
}

// Stop stops watching and waits for the loop to exit.
func (w *SessionWatcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return w.watcher.Close()
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	err := w.watcher.Close()
	<-w.done
	return err
}

func (w *SessionWatcher) loop(ctx context.Context) {
	defer close(w.done)

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.isSessionEvent(event) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("Session file event: %s", event.Op)

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			if err := w.onChange(ctx); err != nil {
				logger.Warn("Session reload failed: %v", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Session watcher error: %v", err)

		case <-w.stopCh:
			return

		case <-ctx.Done():
			return
		}
	}
}

func (w *SessionWatcher) isSessionEvent(event fsnotify.Event) bool {
	eventPath, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	sessionPath, err := filepath.Abs(w.path)
	if err != nil {
		return false
	}
	return eventPath == sessionPath
}
