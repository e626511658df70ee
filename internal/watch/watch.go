// Package watch re-runs the analysis pipeline whenever the document
// directory changes on disk.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/knowledge-engine/explorer/internal/cluster"
	"github.com/knowledge-engine/explorer/internal/debounce"
	"github.com/knowledge-engine/explorer/internal/engine"
	"github.com/knowledge-engine/explorer/internal/source"
)

// DefaultDelay is the quiet period before a burst of file events
// triggers a reload.
const DefaultDelay = 200 * time.Millisecond

// Handler receives every fresh snapshot together with how the documents
// moved relative to the previous one.
type Handler func(snap *engine.Snapshot, t cluster.Transition)

// Watcher reloads a source directory on change.
type Watcher struct {
	Delay  time.Duration
	Method cluster.Method

	engine    *engine.Engine
	dir       *source.Directory
	handler   Handler
	logger    *logrus.Entry
	debouncer *debounce.Debouncer

	reloadMu sync.Mutex
	mu       sync.Mutex
	current  *engine.Snapshot
}

// New creates a watcher over dir. Transitions are computed on the
// semantic view unless Method is changed before Run.
func New(eng *engine.Engine, dir *source.Directory, delay time.Duration, handler Handler) *Watcher {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if handler == nil {
		handler = func(*engine.Snapshot, cluster.Transition) {}
	}
	return &Watcher{
		Delay:     delay,
		Method:    cluster.MethodSemantic,
		engine:    eng,
		dir:       dir,
		handler:   handler,
		logger:    eng.Logger.WithFields(logrus.Fields{"component": "watcher", "root": dir.Root}),
		debouncer: debounce.New(),
	}
}

// Current returns the latest snapshot, or nil before the first load.
func (w *Watcher) Current() *engine.Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Run performs an initial load, then watches until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()
	defer w.debouncer.Stop()

	if err := w.addRecursive(fsw, w.dir.Root); err != nil {
		return err
	}
	if err := w.reload(); err != nil {
		return err
	}

	w.logger.Info("Watching for changes")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Watcher stopped")
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fsw, event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.WithError(err).Warn("Watcher error")
		}
	}
}

func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, event fsnotify.Event) {
	if source.IsHidden(filepath.Base(event.Name)) || (event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write)) {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(fsw, event.Name); err != nil {
				w.logger.WithError(err).WithField("path", event.Name).Warn("Failed to watch new directory")
			}
			w.schedule()
			return
		}
	}

	// A removed directory has no extension, so it reloads as well.
	if w.dir.Matches(event.Name) || filepath.Ext(event.Name) == "" {
		w.logger.WithFields(logrus.Fields{"path": event.Name, "op": event.Op.String()}).Debug("Change detected")
		w.schedule()
	}
}

func (w *Watcher) schedule() {
	w.debouncer.Schedule(w.Delay, func() {
		if err := w.reload(); err != nil {
			w.logger.WithError(err).Error("Reload failed")
		}
	})
}

func (w *Watcher) reload() error {
	w.reloadMu.Lock()
	defer w.reloadMu.Unlock()

	raws, err := w.dir.Load()
	if err != nil {
		return err
	}
	snap, err := w.engine.Analyze(raws)
	if err != nil {
		return err
	}

	w.mu.Lock()
	prev := w.current
	w.current = snap
	w.mu.Unlock()

	w.handler(snap, engine.Diff(prev, snap, w.Method))
	return nil
}

func (w *Watcher) addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if path != w.dir.Root && source.IsHidden(entry.Name()) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}
