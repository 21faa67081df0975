package catalog

import (
	"fmt"
	"path"
	"strings"

	"catalog-go/internal/database/sqlc"
)

// FileKey is the identity of a File within its Location.
//
// Stem is the location-relative path of the entry with the extension removed
// ("photos/2023/beach" for photos/2023/beach.jpg). Directories use their full
// relative path as stem and have no extension. Name is the display name of the
// last path component and Extension is "" when absent.
type FileKey struct {
	Stem      string
	Name      string
	Extension string
}

func (k FileKey) String() string {
	return fmt.Sprintf("%s (%s)", k.Stem, k.Name)
}

// ParentStem returns the stem of the directory holding k, or "" at the root.
func (k FileKey) ParentStem() string {
	dir := path.Dir(k.Stem)
	if dir == "." {
		return ""
	}
	return dir
}

// KeyOf returns the identity key stored on a File row.
func KeyOf(f *sqlc.File) FileKey {
	return FileKey{Stem: f.Stem, Name: f.Name, Extension: f.Extension}
}

// KeySet is the set of keys observed during a full scan of one Location.
type KeySet map[FileKey]struct{}

// NewKeySet returns a set holding keys.
func NewKeySet(keys ...FileKey) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

func (s KeySet) Add(k FileKey) { s[k] = struct{}{} }

func (s KeySet) Has(k FileKey) bool {
	_, ok := s[k]
	return ok
}

// SplitName splits a base name at its last dot. Dot-files (".bashrc"), names
// ending in a dot and directories have no extension.
func SplitName(base string, isDir bool, policy ExtensionCase) (stem, ext string) {
	if isDir {
		return base, ""
	}
	i := strings.LastIndexByte(base, '.')
	if i <= 0 || i == len(base)-1 {
		return base, ""
	}
	ext = base[i+1:]
	if policy == ExtensionLower {
		ext = strings.ToLower(ext)
	}
	return base[:i], ext
}

// ValidateComponents checks a location-relative path split into components.
func ValidateComponents(components []string) error {
	if len(components) == 0 {
		return fmt.Errorf("empty path: %w", ErrInvariantViolation)
	}
	for _, c := range components {
		if c == "" || c == "." || c == ".." || strings.ContainsRune(c, '/') {
			return fmt.Errorf("invalid path component %q: %w", c, ErrInvariantViolation)
		}
	}
	return nil
}

// KeyFor computes the identity key of the entry at components.
func KeyFor(components []string, isDir bool, policy ExtensionCase) (FileKey, error) {
	if err := ValidateComponents(components); err != nil {
		return FileKey{}, err
	}
	base := components[len(components)-1]
	stem, ext := SplitName(base, isDir, policy)
	if dir := strings.Join(components[:len(components)-1], "/"); dir != "" {
		stem = dir + "/" + stem
	}
	return FileKey{Stem: stem, Name: base, Extension: ext}, nil
}

// DirectoryKey is KeyFor for a directory; components must already be valid.
func DirectoryKey(components []string) FileKey {
	return FileKey{
		Stem: strings.Join(components, "/"),
		Name: components[len(components)-1],
	}
}

// CheckPlacement verifies that key can live directly under a directory with
// stem parentStem ("" for the Location root) and that its name agrees with
// its stem and extension.
func CheckPlacement(key FileKey, isDir bool, parentStem string) error {
	if key.Stem == "" || key.Name == "" {
		return fmt.Errorf("empty stem or name: %w", ErrInvariantViolation)
	}
	if key.ParentStem() != parentStem {
		return fmt.Errorf("stem %q does not belong under %q: %w", key.Stem, parentStem, ErrInvariantViolation)
	}
	base := path.Base(key.Stem)
	if isDir {
		if key.Extension != "" || key.Name != base {
			return fmt.Errorf("directory name %q does not match stem %q: %w", key.Name, key.Stem, ErrInvariantViolation)
		}
		return nil
	}
	want := base
	if key.Extension != "" {
		want += "." + key.Extension
	}
	if !strings.EqualFold(want, key.Name) {
		return fmt.Errorf("name %q does not match stem %q and extension %q: %w", key.Name, key.Stem, key.Extension, ErrInvariantViolation)
	}
	return nil
}

// RelativePath returns the location-relative, slash-separated path of f.
func RelativePath(f *sqlc.File) string {
	return path.Join(KeyOf(f).ParentStem(), f.Name)
}
