package app

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/andyrewlee/assistive/internal/logging"
)

// configWatcher reports edits to config.json. It watches the parent
// directory because editors and SaveUISettings replace the file rather than
// writing it in place.
type configWatcher struct {
	watcher *fsnotify.Watcher

	path string
	dir  string

	onChanged func(reason string)
	debounce  time.Duration

	mu            sync.Mutex
	timer         *time.Timer
	pendingReason string
	closed        bool
	closeOnce     sync.Once
}

func newConfigWatcher(path string, onChanged func(reason string)) (*configWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	cw := &configWatcher{
		watcher:   watcher,
		path:      filepath.Clean(path),
		dir:       filepath.Dir(filepath.Clean(path)),
		onChanged: onChanged,
		debounce:  configWatcherDebounce,
	}
	if err := watcher.Add(cw.dir); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	return cw, nil
}

func (cw *configWatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return nil
			}
			if reason := cw.classify(event); reason != "" {
				cw.scheduleNotify(reason)
			}
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn("config watcher: %v", err)
		}
	}
}

func (cw *configWatcher) Close() error {
	var err error
	cw.closeOnce.Do(func() {
		cw.mu.Lock()
		cw.closed = true
		if cw.timer != nil {
			cw.timer.Stop()
			cw.timer = nil
		}
		cw.mu.Unlock()
		err = cw.watcher.Close()
	})
	return err
}

func (cw *configWatcher) classify(event fsnotify.Event) string {
	if filepath.Clean(event.Name) != cw.path {
		return ""
	}
	switch {
	case event.Op&fsnotify.Remove != 0, event.Op&fsnotify.Rename != 0:
		return "removed"
	case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
		return "written"
	}
	return ""
}

func (cw *configWatcher) scheduleNotify(reason string) {
	if cw.onChanged == nil {
		return
	}
	cw.mu.Lock()
	defer cw.mu.Unlock()
	if cw.closed {
		return
	}
	cw.pendingReason = reason
	if cw.timer == nil {
		cw.timer = time.AfterFunc(cw.debounce, cw.fire)
	} else {
		cw.timer.Reset(cw.debounce)
	}
}

func (cw *configWatcher) fire() {
	cw.mu.Lock()
	if cw.closed {
		cw.mu.Unlock()
		return
	}
	reason := cw.pendingReason
	cw.pendingReason = ""
	cw.timer = nil
	cw.mu.Unlock()

	cw.onChanged(reason)
}
