// Package watch re-runs an operation whenever its input file changes.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	apperrors "github.com/leeforge/iconkit/errors"
	"github.com/leeforge/iconkit/logging"
	"go.uber.org/zap"
)

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 150 * time.Millisecond

// RunFunc is invoked once at start and again after each settled change.
// Its errors are reported through OnResult and never stop the watcher.
type RunFunc func(ctx context.Context) error

// Watcher observes a single file.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   logging.Logger
	// OnResult, when set, receives the outcome of every run.
	OnResult func(err error)
}

// New creates a Watcher for path.
func New(path string, logger logging.Logger) *Watcher {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Watcher{
		path:     path,
		debounce: DefaultDebounce,
		logger:   logger.Named("watch"),
	}
}

// WithDebounce overrides the settle delay.
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// Run calls fn once, then after every write, create or rename touching the
// file, until ctx is done. Stopping through ctx returns a canceled error. The parent directory is watched rather than the
// file so atomic replace-on-save keeps working.
func (w *Watcher) Run(ctx context.Context, fn RunFunc) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return apperrors.WrapWithType(err, apperrors.ErrorTypeInternal, "cannot start file watcher")
	}
	defer fsw.Close()

	target := filepath.Clean(w.path)
	dir := filepath.Dir(target)
	if err := fsw.Add(dir); err != nil {
		return apperrors.WrapWithType(err, apperrors.ErrorTypeNotFound, "cannot watch "+dir).
			WithDetail("path", dir)
	}
	w.logger.Info("watching for changes", logging.Path("input", target))

	w.report(fn(ctx))

	// settle is nil while idle; each relevant event restarts it.
	var settle <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return apperrors.NewCanceled(ctx.Err())
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !relevant(ev.Op) {
				continue
			}
			w.logger.Debug("change detected", zap.Stringer("op", ev.Op))
			settle = time.After(w.debounce)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))
		case <-settle:
			settle = nil
			w.report(fn(ctx))
		}
	}
}

func (w *Watcher) report(err error) {
	if err != nil {
		w.logger.WithError(err).Error("run failed")
	}
	if w.OnResult != nil {
		w.OnResult(err)
	}
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename)
}
