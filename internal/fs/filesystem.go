package fs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"catalog-go/internal/catalog"
)

// IgnoreFileName is read from the root of every Location before a walk.
const IgnoreFileName = ".catalogignore"

// OSFilesystemManager is the real filesystem implementation of FilesystemManager.
type OSFilesystemManager struct {
	patterns []string
}

// NewOSFilesystemManager creates a filesystem manager that skips entries
// matching patterns during walks, in addition to each root's .catalogignore.
func NewOSFilesystemManager(patterns []string) *OSFilesystemManager {
	return &OSFilesystemManager{patterns: patterns}
}

// Resolve validates a raw path and returns a Path object.
func (m *OSFilesystemManager) Resolve(rawPath string) (*catalog.Path, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat path: %w", err)
	}
	if err := checkMode(absPath, info.Mode()); err != nil {
		return nil, err
	}

	return catalog.NewPath(absPath, info.IsDir(), info), nil
}

func checkMode(path string, mode fs.FileMode) error {
	switch {
	case mode&os.ModeSymlink != 0:
		return fmt.Errorf("symlinks not supported: %s", path)
	case mode&os.ModeDevice != 0:
		return fmt.Errorf("device files not supported: %s", path)
	case mode&os.ModeNamedPipe != 0:
		return fmt.Errorf("named pipes not supported: %s", path)
	case mode&os.ModeSocket != 0:
		return fmt.Errorf("sockets not supported: %s", path)
	}
	return nil
}

// Open opens a file for reading.
func (m *OSFilesystemManager) Open(path *catalog.Path) (io.ReadCloser, error) {
	if path.IsDir() {
		return nil, fmt.Errorf("cannot open directory as file: %s", path.String())
	}
	return os.Open(path.String())
}

// Stat returns fresh file info for a path.
func (m *OSFilesystemManager) Stat(path *catalog.Path) (fs.FileInfo, error) {
	return os.Stat(path.String())
}

// Walk lists the regular files and directories below root. filepath.WalkDir
// visits entries in lexical order, so parents always precede their children.
// Ignored directories are pruned. A subdirectory that cannot be read keeps
// its entry, marked Unreadable, so a scan does not mistake its children for
// removed files.
func (m *OSFilesystemManager) Walk(root *catalog.Path) ([]catalog.Entry, error) {
	if !root.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root.String())
	}

	matcher, err := m.matcherFor(root.String())
	if err != nil {
		return nil, err
	}

	var entries []catalog.Entry
	err = filepath.WalkDir(root.String(), func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p != root.String() && errors.Is(err, fs.ErrPermission) {
				markUnreadable(entries, p)
				return nil
			}
			return err
		}
		if p == root.String() {
			return nil
		}

		rel, err := filepath.Rel(root.String(), p)
		if err != nil {
			return err
		}
		if matcher.Match(rel, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return fmt.Errorf("stat %s: %w", p, err)
		}
		entries = append(entries, catalog.Entry{
			Path:       catalog.NewPath(p, d.IsDir(), info),
			Components: strings.Split(filepath.ToSlash(rel), "/"),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root.String(), err)
	}
	return entries, nil
}

// markUnreadable flags the entry for dir. WalkDir reports a failed ReadDir
// right after visiting the directory, so it is normally the last entry.
func markUnreadable(entries []catalog.Entry, dir string) {
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Path.String() == dir {
			entries[i].Unreadable = true
			return
		}
	}
}

func (m *OSFilesystemManager) matcherFor(root string) (*IgnoreMatcher, error) {
	fromFile, err := ParseIgnoreFile(filepath.Join(root, IgnoreFileName))
	if err != nil {
		return nil, err
	}
	patterns := append([]string{}, defaultIgnorePatterns...)
	patterns = append(patterns, m.patterns...)
	patterns = append(patterns, fromFile...)
	return NewIgnoreMatcher(patterns), nil
}

var _ catalog.FilesystemManager = (*OSFilesystemManager)(nil)
