package watcher

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// FileWatcher reports source files that changed under a set of directories.
// Events are debounced: the callback receives every path touched during the
// quiet period, sorted, once the period ends.
type FileWatcher struct {
	watcher    *fsnotify.Watcher
	roots      []string
	extensions []string
	excludes   []string
	debounce   time.Duration
	logger     *slog.Logger

	mu      sync.Mutex
	pending map[string]bool
	timer   *time.Timer

	stopOnce sync.Once
	cancel   context.CancelFunc
	doneCh   chan struct{}
}

// NewFileWatcher watches dirs recursively for files ending with one of
// extensions. Excludes are doublestar patterns matched against paths relative
// to the watched directory, as the scanner does.
func NewFileWatcher(dirs, extensions, excludes []string, debounce time.Duration, logger *slog.Logger) (*FileWatcher, error) {
	roots := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		roots = append(roots, abs)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	fw := &FileWatcher{
		watcher:    w,
		roots:      roots,
		extensions: extensions,
		excludes:   excludes,
		debounce:   debounce,
		logger:     logger,
		pending:    make(map[string]bool),
		doneCh:     make(chan struct{}),
	}

	for _, dir := range roots {
		if err := fw.addRecursive(dir); err != nil {
			w.Close()
			return nil, err
		}
	}
	return fw, nil
}

// Start runs the event loop until ctx is done or Stop is called.
func (fw *FileWatcher) Start(ctx context.Context, callback func(files []string)) {
	ctx, fw.cancel = context.WithCancel(ctx)
	go fw.loop(ctx, callback)
}

// Stop ends the event loop and releases the watcher. It is safe to call more
// than once.
func (fw *FileWatcher) Stop() error {
	var err error
	fw.stopOnce.Do(func() {
		if fw.cancel != nil {
			fw.cancel()
			<-fw.doneCh
		}
		fw.mu.Lock()
		if fw.timer != nil {
			fw.timer.Stop()
		}
		fw.mu.Unlock()
		err = fw.watcher.Close()
	})
	return err
}

func (fw *FileWatcher) loop(ctx context.Context, callback func(files []string)) {
	defer close(fw.doneCh)

	fire := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := fw.addRecursive(event.Name); err != nil {
						fw.logger.Warn("failed to watch new directory",
							slog.String("dir", event.Name),
							slog.String("error", err.Error()))
					}
					continue
				}
			}

			if !fw.relevant(event) {
				continue
			}

			fw.mu.Lock()
			fw.pending[event.Name] = true
			if fw.timer != nil {
				fw.timer.Stop()
			}
			fw.timer = time.AfterFunc(fw.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
			fw.mu.Unlock()

		case <-fire:
			fw.mu.Lock()
			files := make([]string, 0, len(fw.pending))
			for f := range fw.pending {
				files = append(files, f)
			}
			fw.pending = make(map[string]bool)
			fw.mu.Unlock()

			if len(files) > 0 {
				sort.Strings(files)
				callback(files)
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("file watcher error", slog.String("error", err.Error()))
		}
	}
}

func (fw *FileWatcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if fw.excluded(event.Name, false) {
		return false
	}
	for _, ext := range fw.extensions {
		if ext != "" && strings.HasSuffix(event.Name, ext) {
			return true
		}
	}
	return false
}

// excluded reports whether path, relative to the watched directory holding
// it, matches one of the exclude patterns.
func (fw *FileWatcher) excluded(path string, isDir bool) bool {
	for _, root := range fw.roots {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
			continue
		}
		for _, pattern := range fw.excludes {
			if ok, _ := doublestar.Match(pattern, rel); ok {
				return true
			}
			if isDir {
				if ok, _ := doublestar.Match(pattern, rel+"/"); ok {
					return true
				}
			}
		}
	}
	return false
}

// addRecursive adds dir and its subdirectories. Excluded directories are
// skipped, and unreadable ones are ignored rather than failing the walk.
func (fw *FileWatcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if fw.excluded(path, true) {
			return filepath.SkipDir
		}
		return fw.watcher.Add(path)
	})
}
