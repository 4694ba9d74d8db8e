package gen

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 100 * time.Millisecond

// Watcher regenerates packages whose sources change.
type Watcher struct {
	logger   *zap.Logger
	engine   Engine
	suffix   string
	handle   func(Package) error
	watcher  *fsnotify.Watcher
	debounce time.Duration
}

// NewWatcher returns a Watcher that passes every regenerated package to
// handle. Files ending in suffix are ignored so that writing the output does
// not trigger another run.
func NewWatcher(logger *zap.Logger, engine Engine, suffix string, handle func(Package) error) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	return &Watcher{
		logger:   logger,
		engine:   engine,
		suffix:   suffix,
		handle:   handle,
		watcher:  w,
		debounce: defaultDebounce,
	}, nil
}

// Watch blocks until ctx is done, regenerating changed packages under dirs.
func (w *Watcher) Watch(ctx context.Context, dirs []string) error {
	defer w.watcher.Close()

	for _, dir := range dirs {
		found, err := packageDirs(dir)
		if err != nil {
			return err
		}
		for _, d := range found {
			if err := w.watcher.Add(d); err != nil {
				return fmt.Errorf("error adding directory to watcher: %w", err)
			}
			w.logger.Debug("Watching", zap.String("dir", d))
		}
	}

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			pending[filepath.Dir(event.Name)] = struct{}{}
			// several writes in a row count as one change
			timer.Reset(w.debounce)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", zap.Error(err))
		case <-timer.C:
			dirs := make([]string, 0, len(pending))
			for dir := range pending {
				dirs = append(dirs, dir)
			}
			slices.Sort(dirs)
			clear(pending)
			for _, dir := range dirs {
				w.regenerate(dir)
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(event.Name)
	return filepath.Ext(name) == ".go" &&
		!strings.HasSuffix(name, "_test.go") &&
		!strings.HasSuffix(name, w.suffix)
}

func (w *Watcher) regenerate(dir string) {
	pkg, err := w.engine.Run(dir)
	if err != nil {
		w.logger.Error("Error generating package", zap.String("dir", dir), zap.Error(err))
		return
	}
	if err := w.handle(pkg); err != nil {
		w.logger.Error("Error writing package", zap.String("dir", dir), zap.Error(err))
	}
}
