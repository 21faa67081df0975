package catalog

import (
	"io/fs"
	"path/filepath"
)

// Path is a validated filesystem path with the stat info captured when it was
// resolved. Paths are created by FilesystemManager implementations.
type Path struct {
	absPath string
	isDir   bool
	info    fs.FileInfo
}

// NewPath creates a Path from its components.
func NewPath(absPath string, isDir bool, info fs.FileInfo) *Path {
	return &Path{absPath: absPath, isDir: isDir, info: info}
}

func (p *Path) String() string { return p.absPath }

func (p *Path) IsDir() bool { return p.isDir }

// Info returns the cached file info from when the path was resolved.
func (p *Path) Info() fs.FileInfo { return p.info }

// joinLocationPath joins a Location root and a slash-separated relative path
// into an OS path.
func joinLocationPath(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}
