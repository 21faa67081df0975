package archive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"catalog-go/internal/catalog"
)

// FileSystemArchive stores items under a directory, typically a mounted
// backup drive or network share:
//
//	<root>/
//	  <clientID>/
//	    catalog.db           (encrypted snapshot)
//	    catalog.db.version   (operation id of the snapshot)
type FileSystemArchive struct {
	root string
}

// NewFileSystemArchive creates the archive root if needed.
func NewFileSystemArchive(root string) (*FileSystemArchive, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive root: %w", err)
	}
	return &FileSystemArchive{root: root}, nil
}

func (a *FileSystemArchive) itemPath(clientID, name string) (string, error) {
	for _, part := range []string{clientID, name} {
		if part == "" || part == "." || part == ".." || strings.ContainsAny(part, `/\`) {
			return "", fmt.Errorf("invalid archive item component %q", part)
		}
	}
	return filepath.Join(a.root, clientID, name), nil
}

// Put writes the item atomically, then its version marker.
func (a *FileSystemArchive) Put(clientID, name string, r io.Reader, size int64, version int64) error {
	dest, err := a.itemPath(clientID, name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create client directory: %w", err)
	}
	if err := writeFile(dest, r, size); err != nil {
		return err
	}
	v := strconv.FormatInt(version, 10)
	return writeFile(dest+".version", strings.NewReader(v), int64(len(v)))
}

func (a *FileSystemArchive) Get(clientID, name string, w io.Writer) error {
	src, err := a.itemPath(clientID, name)
	if err != nil {
		return err
	}
	f, err := os.Open(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("archive item %q for client %s: %w", name, clientID, catalog.ErrNotFound)
		}
		return fmt.Errorf("failed to open item: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read item: %w", err)
	}
	return nil
}

// Version returns 0 when no version marker exists.
func (a *FileSystemArchive) Version(clientID, name string) (int64, error) {
	p, err := a.itemPath(clientID, name)
	if err != nil {
		return 0, err
	}
	data, err := os.ReadFile(p + ".version")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading version file: %w", err)
	}
	v, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing version: %w", err)
	}
	return v, nil
}

// ValidateSetup checks that the root is a writable directory.
func (a *FileSystemArchive) ValidateSetup() error {
	info, err := os.Stat(a.root)
	if err != nil {
		return fmt.Errorf("archive root not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("archive root is not a directory: %s", a.root)
	}
	probe, err := os.CreateTemp(a.root, ".probe-*")
	if err != nil {
		return fmt.Errorf("archive root not writable: %w", err)
	}
	probe.Close()
	return os.Remove(probe.Name())
}

// writeFile copies r to destPath through a temp file and a rename.
func writeFile(destPath string, r io.Reader, expectedSize int64) error {
	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if written != expectedSize {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", expectedSize, written)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

var _ catalog.Archive = (*FileSystemArchive)(nil)
