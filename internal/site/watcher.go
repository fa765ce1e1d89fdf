package site

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Reloader is what the watcher triggers.
type Reloader interface {
	Reload(ctx context.Context) (*Site, error)
}

// Watcher rebuilds the site when the docs tree, the sidebars file or the
// site config changes. Bursts of events within the debounce window cause a
// single reload.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	target   Reloader
	log      *slog.Logger
	dirs     []string
	docDirs  map[string]bool // only touched by Start and the event loop
	files    map[string]bool
	debounce time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// NewWatcher watches opts.DocsDir recursively plus the directories holding
// the sidebars and site config files.
func NewWatcher(opts Options, target Reloader, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	log := opts.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}

	w := &Watcher{
		watcher:  fw,
		target:   target,
		log:      log,
		docDirs:  make(map[string]bool),
		files:    make(map[string]bool),
		debounce: debounce,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}

	err = filepath.WalkDir(opts.DocsDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			w.docDirs[p] = true
			w.dirs = append(w.dirs, p)
		}
		return nil
	})
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("scan docs dir: %w", err)
	}
	// Single files are watched through their directory so editors that
	// replace the file on save are still seen.
	for _, f := range []string{opts.SidebarsPath, opts.SiteConfig} {
		if f == "" {
			continue
		}
		f = filepath.Clean(f)
		w.files[f] = true
		if dir := filepath.Dir(f); !w.docDirs[dir] {
			w.dirs = append(w.dirs, dir)
		}
	}
	return w, nil
}

// Start registers the watches and runs the event loop in a goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	for _, dir := range w.dirs {
		if err := w.watcher.Add(dir); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				w.log.Warn("watch target missing", "dir", dir)
				continue
			}
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.log.Info("watching for changes", "dirs", len(w.dirs), "debounce_ms", w.debounce.Milliseconds())

	w.running = true
	go w.run(ctx)
	return nil
}

// Stop ends the event loop and releases the watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		w.watcher.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	if err := w.watcher.Close(); err != nil {
		w.log.Error("close watcher", "error", err)
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.Debug("source changed", "path", ev.Name, "op", ev.Op.String())
			if ev.Op&fsnotify.Create != 0 {
				w.addIfDir(ev.Name)
			}
			pending = true
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("watcher error", "error", err)

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			if _, err := w.target.Reload(ctx); err != nil {
				w.log.Warn("rebuild after change failed", "error", err)
			}
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Base(ev.Name)
	if name == "" || name[0] == '.' || name[len(name)-1] == '~' {
		return false
	}
	return w.docDirs[filepath.Dir(ev.Name)] || w.docDirs[ev.Name] || w.files[filepath.Clean(ev.Name)]
}

// addIfDir starts watching a directory created inside the docs tree.
func (w *Watcher) addIfDir(p string) {
	if !w.docDirs[filepath.Dir(p)] {
		return
	}
	info, err := os.Stat(p)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.watcher.Add(p); err != nil {
		w.log.Warn("watch new directory", "dir", p, "error", err)
		return
	}
	w.docDirs[p] = true
}
