// Package watch re-runs a handler for source files as they change on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yaklabco/parenfmt/internal/logging"
)

// DefaultInterval is how long a file must stay quiet before the handler
// runs. Editors often write a file several times in a row.
const DefaultInterval = 150 * time.Millisecond

// Handler is called once per settled change.
type Handler func(ctx context.Context, path string)

// Options configures a Watcher.
type Options struct {
	// Roots are the directories watched recursively.
	Roots []string

	// Interval is the debounce interval. Zero means DefaultInterval.
	Interval time.Duration

	// Match selects the files handed to the handler. Nil accepts all.
	Match func(path string) bool

	// SkipDir prunes directories from the watch. Nil skips nothing.
	SkipDir func(path string) bool
}

// Watcher debounces file system events per path.
type Watcher struct {
	opts    Options
	handler Handler
	fsw     *fsnotify.Watcher

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
	wg     sync.WaitGroup
}

// New creates a Watcher and starts watching opts.Roots. Events are
// buffered by fsnotify until Run consumes them.
func New(ctx context.Context, opts Options, handler Handler) (*Watcher, error) {
	if handler == nil {
		return nil, errors.New("watch: nil handler")
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &Watcher{
		opts:    opts,
		handler: handler,
		fsw:     fsw,
		timers:  make(map[string]*time.Timer),
	}

	for _, root := range opts.Roots {
		if err := w.addRecursive(ctx, root); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Run handles events until ctx is cancelled. Handlers that already
// started are waited for before Run returns. A Watcher runs once.
func (w *Watcher) Run(ctx context.Context) error {
	logger := logging.FromContext(ctx)

	defer func() {
		w.stopTimers()
		w.wg.Wait()
	}()
	defer w.fsw.Close()

	for {
		select {
		case <-ctx.Done():
			return nil

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watch error", logging.FieldError, err)

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, ev)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, ev fsnotify.Event) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return
	}
	if !editorSafe(ev.Name) {
		return
	}

	if ev.Has(fsnotify.Create) && isDir(ev.Name) {
		if err := w.addRecursive(ctx, ev.Name); err != nil {
			logging.FromContext(ctx).Warn("cannot watch new directory",
				logging.FieldPath, ev.Name,
				logging.FieldError, err,
			)
		}
		return
	}

	if w.opts.Match != nil && !w.opts.Match(ev.Name) {
		return
	}
	w.schedule(ctx, ev.Name)
}

// schedule runs the handler for path once it has been quiet for the
// interval. A newer event for the same path restarts the wait.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	t, ok := w.timers[path]
	if !ok {
		t = time.AfterFunc(math.MaxInt64, func() {
			w.mu.Lock()
			if w.closed {
				w.mu.Unlock()
				return
			}
			delete(w.timers, path)
			w.wg.Add(1)
			w.mu.Unlock()

			defer w.wg.Done()
			if ctx.Err() == nil {
				w.handler(ctx, path)
			}
		})
		t.Stop()
		w.timers[path] = t
	}
	t.Reset(w.opts.Interval)
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

func (w *Watcher) addRecursive(ctx context.Context, root string) error {
	logger := logging.FromContext(ctx)

	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if os.IsPermission(err) {
				return nil
			}
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if path != root && w.opts.SkipDir != nil && w.opts.SkipDir(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("adding path %s to watch: %w", path, err)
		}
		logger.Debug("watching directory", logging.FieldPath, path)
		return nil
	})
}

// editorSafe filters out swap, backup and autosave files written by vim
// and Emacs.
func editorSafe(path string) bool {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	switch {
	case len(ext) == 4 && strings.HasPrefix(ext, ".sw"):
		return false
	case strings.HasSuffix(base, "~"):
		return false
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return false
	case strings.HasPrefix(base, ".#"):
		return false
	}
	return true
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
