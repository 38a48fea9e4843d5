package exp

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/teranos/SIMYX/errors"
	"github.com/teranos/SIMYX/logger"
)

// Watcher invokes a callback when a scenario file changes on disk.
// Editors often write a file several times in quick succession, so
// bursts collapse into one callback per debounce period.
type Watcher struct {
	path           string
	watcher        *fsnotify.Watcher
	onChange       func()
	mu             sync.Mutex
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
}

// WatchFile watches path and invokes onChange after each debounced
// modification. Call Start to begin watching and Stop to end it.
func WatchFile(path string, onChange func()) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating fsnotify watcher")
	}

	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, errors.Wrapf(err, "watching %s", path)
	}

	return &Watcher{
		path:           path,
		watcher:        watcher,
		onChange:       onChange,
		debouncePeriod: 500 * time.Millisecond,
	}, nil
}

// Start begins watching for file changes
func (w *Watcher) Start() {
	go w.watchLoop()
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				logger.Debugw("Scenario change detected",
					"file", event.Name,
					"op", event.Op.String())
				w.scheduleChange()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnw("Scenario watcher error", logger.FieldError, err)
		}
	}
}

// scheduleChange debounces rapid writes into one callback
func (w *Watcher) scheduleChange() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, w.onChange)
}

// Stop stops watching for changes
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}
