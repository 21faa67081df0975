package testutil

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"catalog-go/internal/catalog"
)

// MockFile represents a file in the mock filesystem.
type MockFile struct {
	Content     []byte
	Permissions fs.FileMode
	ModTime     time.Time
	IsDirectory bool
}

// MockFilesystemManager is an in-memory filesystem for testing. Adding a file
// creates its missing parent directories.
type MockFilesystemManager struct {
	mu      sync.RWMutex
	files   map[string]*MockFile
	ignored map[string]bool
	denied  map[string]bool
	modTime time.Time
}

func NewMockFilesystemManager() *MockFilesystemManager {
	return &MockFilesystemManager{
		files:   make(map[string]*MockFile),
		ignored: make(map[string]bool),
		denied:  make(map[string]bool),
		modTime: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

// AddFile adds a regular file, replacing any entry at path.
func (m *MockFilesystemManager) AddFile(path string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addParents(path)
	m.files[path] = &MockFile{Content: content, Permissions: 0644, ModTime: m.modTime}
}

// AddDirectory adds a directory and its missing parents.
func (m *MockFilesystemManager) AddDirectory(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addParents(path)
	m.files[path] = &MockFile{Permissions: 0755, ModTime: m.modTime, IsDirectory: true}
}

func (m *MockFilesystemManager) addParents(path string) {
	for dir := filepath.Dir(path); dir != "/" && dir != "."; dir = filepath.Dir(dir) {
		if f, ok := m.files[dir]; ok && f.IsDirectory {
			continue
		}
		m.files[dir] = &MockFile{Permissions: 0755, ModTime: m.modTime, IsDirectory: true}
	}
}

// SetModTime changes the modification time of an existing entry.
func (m *MockFilesystemManager) SetModTime(path string, t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.files[path]; ok {
		f.ModTime = t
	}
}

// Remove deletes path and everything below it.
func (m *MockFilesystemManager) Remove(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for p := range m.files {
		if p == path || strings.HasPrefix(p, path+"/") {
			delete(m.files, p)
		}
	}
}

// Rename moves path and everything below it to newPath.
func (m *MockFilesystemManager) Rename(path, newPath string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	moved := make(map[string]*MockFile)
	for p, f := range m.files {
		if p == path || strings.HasPrefix(p, path+"/") {
			delete(m.files, p)
			moved[newPath+strings.TrimPrefix(p, path)] = f
		}
	}
	m.addParents(newPath)
	for p, f := range moved {
		m.files[p] = f
	}
}

// Ignore makes Walk skip every entry with this base name, and its subtree.
func (m *MockFilesystemManager) Ignore(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ignored[name] = true
}

// Deny makes the directory at path unreadable: Walk lists it as Unreadable
// and omits its children. Allow undoes it.
func (m *MockFilesystemManager) Deny(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.denied[path] = true
}

func (m *MockFilesystemManager) Allow(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.denied, path)
}

func (m *MockFilesystemManager) Resolve(rawPath string) (*catalog.Path, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	file, ok := m.files[absPath]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", absPath)
	}
	return catalog.NewPath(absPath, file.IsDirectory, newMockFileInfo(absPath, file)), nil
}

func (m *MockFilesystemManager) Open(path *catalog.Path) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	file, ok := m.files[path.String()]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path.String())
	}
	if file.IsDirectory {
		return nil, fmt.Errorf("cannot open directory: %s", path.String())
	}
	return io.NopCloser(bytes.NewReader(file.Content)), nil
}

func (m *MockFilesystemManager) Stat(path *catalog.Path) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	file, ok := m.files[path.String()]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path.String())
	}
	return newMockFileInfo(path.String(), file), nil
}

func (m *MockFilesystemManager) Walk(root *catalog.Path) ([]catalog.Entry, error) {
	if !root.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	prefix := root.String() + "/"
	var paths []string
	for p := range m.files {
		if strings.HasPrefix(p, prefix) {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	var entries []catalog.Entry
	for _, p := range paths {
		components := strings.Split(strings.TrimPrefix(p, prefix), "/")
		if m.isIgnored(components) || m.underDenied(p) {
			continue
		}
		f := m.files[p]
		entries = append(entries, catalog.Entry{
			Path:       catalog.NewPath(p, f.IsDirectory, newMockFileInfo(p, f)),
			Components: components,
			Unreadable: f.IsDirectory && m.denied[p],
		})
	}
	return entries, nil
}

func (m *MockFilesystemManager) underDenied(p string) bool {
	for dir := filepath.Dir(p); dir != "/" && dir != "."; dir = filepath.Dir(dir) {
		if m.denied[dir] {
			return true
		}
	}
	return false
}

func (m *MockFilesystemManager) isIgnored(components []string) bool {
	for _, c := range components {
		if m.ignored[c] {
			return true
		}
	}
	return false
}

type mockFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

func newMockFileInfo(path string, f *MockFile) *mockFileInfo {
	mode := f.Permissions
	if f.IsDirectory {
		mode |= fs.ModeDir
	}
	return &mockFileInfo{
		name:    filepath.Base(path),
		size:    int64(len(f.Content)),
		mode:    mode,
		modTime: f.ModTime,
		isDir:   f.IsDirectory,
	}
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() fs.FileMode  { return m.mode }
func (m *mockFileInfo) ModTime() time.Time { return m.modTime }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() any           { return nil }

var _ catalog.FilesystemManager = (*MockFilesystemManager)(nil)
