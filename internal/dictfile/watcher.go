package dictfile

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 300 * time.Millisecond

// ReloadFunc receives a changed dictionary file after it has been parsed.
type ReloadFunc func(path string, res *Result)

// Watcher reparses dictionary files matching a glob when they are written.
// Removed files are ignored; their entries stay in the store.
type Watcher struct {
	pattern  string
	base     string
	debounce time.Duration
	onReload ReloadFunc
	logger   *slog.Logger

	fs     *fsnotify.Watcher
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher creates a watcher for pattern. A nil logger uses slog.Default().
func NewWatcher(pattern string, onReload ReloadFunc, logger *slog.Logger) (*Watcher, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid dictionary glob %q", pattern)
	}
	if logger == nil {
		logger = slog.Default()
	}
	base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &Watcher{
		pattern:  pattern,
		base:     filepath.FromSlash(base),
		debounce: DefaultDebounce,
		onReload: onReload,
		logger:   logger,
		fs:       fsw,
	}, nil
}

// SetDebounce changes the settle delay. It must be called before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	if d > 0 {
		w.debounce = d
	}
}

// Start watches every directory under the pattern base and begins processing events.
func (w *Watcher) Start(ctx context.Context) error {
	err := filepath.WalkDir(w.base, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if err := w.fs.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "dir", path, "error", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to add watches under %s: %w", w.base, err)
	}

	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.run(ctx)

	w.logger.Info("dictionary watcher started", "pattern", w.pattern, "base", w.base)
	return nil
}

// Close stops the watcher and waits for the event loop to exit.
func (w *Watcher) Close() error {
	if w.cancel != nil {
		w.cancel()
	}
	err := w.fs.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	pending := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Op.Has(fsnotify.Create) {
				w.watchNewDir(ev.Name)
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
				continue
			}
			if !Matches(filepath.ToSlash(w.pattern), filepath.ToSlash(ev.Name)) {
				continue
			}
			pending[ev.Name] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("dictionary watcher error", "error", err)

		case <-timer.C:
			w.flush(pending)
			pending = make(map[string]struct{})
		}
	}
}

func (w *Watcher) watchNewDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.fs.Add(path); err != nil {
		w.logger.Warn("failed to watch new directory", "dir", path, "error", err)
	}
}

func (w *Watcher) flush(pending map[string]struct{}) {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		res, err := LoadFile(p)
		if err != nil {
			w.logger.Warn("failed to reload dictionary file", "path", p, "error", err)
			continue
		}
		w.logger.Info("dictionary file changed", "path", p, "entries", len(res.Entries), "rejected", len(res.Rejected))
		if w.onReload != nil {
			w.onReload(p, res)
		}
	}
}
