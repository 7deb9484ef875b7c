package watcher

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/modcss/internal/core/domain"
	"go.trai.ch/modcss/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// skipDirectories are never watched.
var skipDirectories = map[string]bool{
	".git":         true,
	".jj":          true,
	"node_modules": true,
}

const batchBuffer = 16

// Watcher implements file system watching using fsnotify.
type Watcher struct {
	logger    ports.Logger
	root      string
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	ignore    []string
	batches   chan []ports.WatchEvent
	done      chan struct{}
	closeOnce sync.Once
}

// NewWatcher creates a file system watcher. No OS resources are held until Start.
func NewWatcher(logger ports.Logger) *Watcher {
	return &Watcher{
		logger:  logger,
		batches: make(chan []ports.WatchEvent, batchBuffer),
		done:    make(chan struct{}),
	}
}

// Start begins watching the given root directory recursively.
// A watcher can be started once.
func (w *Watcher) Start(ctx context.Context, root string, opts ports.WatchOptions) error {
	if w.fsWatcher != nil {
		return zerr.With(domain.ErrWatcherFailed, "reason", "already started")
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return zerr.Wrap(err, domain.ErrWatcherFailed.Error())
	}
	w.fsWatcher = fsWatcher
	w.root = filepath.Clean(root)
	w.ignore = make([]string, 0, len(opts.Ignore))
	for _, dir := range opts.Ignore {
		w.ignore = append(w.ignore, filepath.Clean(dir))
	}
	w.debouncer = NewDebouncer(opts.Debounce, w.emit)

	for dir := range w.directories(root) {
		if err := w.fsWatcher.Add(dir); err != nil {
			_ = fsWatcher.Close()
			return zerr.With(zerr.Wrap(err, domain.ErrWatcherFailed.Error()), "path", dir)
		}
	}

	go w.processEvents(ctx)
	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	if w.fsWatcher == nil {
		w.finish()
		return nil
	}
	return w.fsWatcher.Close()
}

// Events returns an iterator of debounced batches.
func (w *Watcher) Events() iter.Seq[[]ports.WatchEvent] {
	return func(yield func([]ports.WatchEvent) bool) {
		for {
			select {
			case batch := <-w.batches:
				if !yield(batch) {
					return
				}
			case <-w.done:
				return
			}
		}
	}
}

func (w *Watcher) emit(batch []ports.WatchEvent) {
	select {
	case w.batches <- batch:
	case <-w.done:
	}
}

func (w *Watcher) finish() {
	w.closeOnce.Do(func() { close(w.done) })
}

// directories walks the tree and yields every directory worth watching.
func (w *Watcher) directories(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // unreadable directories are skipped
			}
			if !d.IsDir() {
				return nil
			}
			if w.skipped(path) {
				return fs.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// skipped reports whether path is an ignored directory or lies inside one.
func (w *Watcher) skipped(path string) bool {
	if rel, err := filepath.Rel(w.root, path); err == nil && rel != "." {
		for dir := range strings.SplitSeq(filepath.ToSlash(rel), "/") {
			if skipDirectories[dir] {
				return true
			}
		}
	}
	for _, dir := range w.ignore {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer w.finish()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				// Stopped: deliver what is pending before iteration ends.
				w.debouncer.Flush()
				return
			}
			w.handle(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher: " + err.Error())
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if w.skipped(event.Name) {
		return
	}
	op, ok := convertOp(event.Op)
	if !ok {
		return
	}
	w.debouncer.Add(ports.WatchEvent{Path: event.Name, Operation: op})

	if op != ports.OpCreate {
		return
	}
	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		for dir := range w.directories(event.Name) {
			if err := w.fsWatcher.Add(dir); err != nil {
				w.logger.Warn("watcher: " + err.Error())
			}
		}
	}
}

// convertOp maps an fsnotify operation. Permission changes are dropped.
func convertOp(op fsnotify.Op) (ports.WatchOp, bool) {
	switch {
	case op.Has(fsnotify.Write):
		return ports.OpWrite, true
	case op.Has(fsnotify.Create):
		return ports.OpCreate, true
	case op.Has(fsnotify.Remove):
		return ports.OpRemove, true
	case op.Has(fsnotify.Rename):
		return ports.OpRename, true
	default:
		return 0, false
	}
}
