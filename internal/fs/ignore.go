package fs

import (
	"bufio"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// defaultIgnorePatterns are applied to every walk.
var defaultIgnorePatterns = []string{IgnoreFileName}

// ignoreRule is one parsed line of an ignore list.
//
//	*.log     matches the base name anywhere below the root
//	tmp/*.o   contains a slash, matches the whole relative path
//	/build    a leading slash also anchors to the root
//	cache/    a trailing slash restricts the rule to directories
type ignoreRule struct {
	glob     string
	anchored bool
	dirOnly  bool
}

// IgnoreMatcher decides which Location entries a walk skips.
type IgnoreMatcher struct {
	rules []ignoreRule
}

// NewIgnoreMatcher parses raw pattern lines. Blank lines, comments and
// malformed globs are dropped.
func NewIgnoreMatcher(lines []string) *IgnoreMatcher {
	var rules []ignoreRule
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		r := ignoreRule{}
		if strings.HasSuffix(line, "/") {
			r.dirOnly = true
			line = strings.TrimRight(line, "/")
		}
		if strings.HasPrefix(line, "/") {
			r.anchored = true
			line = strings.TrimLeft(line, "/")
		}
		if line == "" {
			continue
		}
		if strings.Contains(line, "/") {
			r.anchored = true
		}
		if _, err := path.Match(line, ""); err != nil {
			continue
		}
		r.glob = line
		rules = append(rules, r)
	}
	return &IgnoreMatcher{rules: rules}
}

// Match reports whether the entry at relativePath (OS separators, relative
// to the Location root) is ignored.
func (m *IgnoreMatcher) Match(relativePath string, isDir bool) bool {
	if relativePath == "" {
		return false
	}
	rel := filepath.ToSlash(relativePath)
	base := path.Base(rel)

	for _, r := range m.rules {
		if r.dirOnly && !isDir {
			continue
		}
		subject := base
		if r.anchored {
			subject = rel
		}
		if ok, _ := path.Match(r.glob, subject); ok {
			return true
		}
	}
	return false
}

// ParseIgnoreFile reads an ignore file and returns its raw lines.
// A missing file yields no patterns.
func ParseIgnoreFile(name string) ([]string, error) {
	f, err := os.Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening ignore file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ignore file: %w", err)
	}
	return lines, nil
}
