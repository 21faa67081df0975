package catalog

import (
	"io"
	"io/fs"
)

// Entry is one file or directory discovered under a Location root.
// Components is the location-relative path split on the separator.
// Unreadable marks a directory whose contents could not be listed.
type Entry struct {
	Path       *Path
	Components []string
	Unreadable bool
}

// FilesystemManager abstracts file access so scans can run without touching
// the real filesystem.
type FilesystemManager interface {
	// Resolve turns a raw path into an absolute Path. Only regular files and
	// directories are accepted.
	Resolve(rawPath string) (*Path, error)

	// Open opens a regular file for reading.
	Open(path *Path) (io.ReadCloser, error)

	// Stat returns fresh file info, unlike Path.Info which is cached.
	Stat(path *Path) (fs.FileInfo, error)

	// Walk lists every entry below root in lexical order, parents before
	// children, skipping ignored entries and anything that is neither a
	// regular file nor a directory. A subdirectory that cannot be read is
	// listed with Unreadable set and none of its children.
	Walk(root *Path) ([]Entry, error)
}
