package fs

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrRootUnreadable is returned by ScanDetailed when the root itself is
// missing, not a directory or cannot be listed.
var ErrRootUnreadable = errors.New("scan root unreadable")

// Walker finds source files by extension. Excludes are doublestar patterns
// matched against slash-separated paths relative to the root.
type Walker struct {
	excludes []string
}

func NewWalker(excludes []string) *Walker {
	return &Walker{excludes: excludes}
}

// Scan returns the absolute paths of regular files under root whose names end
// with one of extensions. Entries that cannot be read are skipped, and a root
// that cannot be opened yields an empty result. Paths come back in lexical
// walk order, so repeated scans of an unchanged tree are identical.
func (w *Walker) Scan(root string, extensions []string) []string {
	files, _ := w.ScanDetailed(root, extensions)
	return files
}

// ScanDetailed is Scan but reports a failing root as ErrRootUnreadable.
func (w *Walker) ScanDetailed(root string, extensions []string) ([]string, error) {
	abs, walkRoot, err := resolveRoot(root)
	if err != nil {
		return []string{}, err
	}

	files := []string{}
	err = filepath.WalkDir(walkRoot, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			if path == walkRoot {
				return fmt.Errorf("%w: %v", ErrRootUnreadable, err)
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if path == walkRoot {
			return nil
		}

		relPath, err := filepath.Rel(walkRoot, path)
		if err != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if w.shouldExclude(relPath) || w.shouldExclude(relPath+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		// Symlinks, sockets and devices are never reported.
		if !d.Type().IsRegular() {
			return nil
		}

		if hasSuffix(d.Name(), extensions) && !w.shouldExclude(relPath) {
			files = append(files, filepath.Join(abs, relPath))
		}
		return nil
	})
	if err != nil {
		return []string{}, err
	}

	return files, nil
}

// resolveRoot returns the absolute root used in reported paths and the
// directory actually walked, which differs when root is a symlink.
func resolveRoot(root string) (abs, walkRoot string, err error) {
	abs, err = filepath.Abs(root)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrRootUnreadable, err)
	}
	walkRoot = abs

	info, err := os.Lstat(abs)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrRootUnreadable, err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		if walkRoot, err = filepath.EvalSymlinks(abs); err != nil {
			return "", "", fmt.Errorf("%w: %v", ErrRootUnreadable, err)
		}
		if info, err = os.Stat(walkRoot); err != nil {
			return "", "", fmt.Errorf("%w: %v", ErrRootUnreadable, err)
		}
	}
	if !info.IsDir() {
		return "", "", fmt.Errorf("%w: %s is not a directory", ErrRootUnreadable, abs)
	}

	return abs, walkRoot, nil
}

func hasSuffix(name string, extensions []string) bool {
	for _, ext := range extensions {
		if ext != "" && strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func (w *Walker) shouldExclude(path string) bool {
	for _, pattern := range w.excludes {
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}
