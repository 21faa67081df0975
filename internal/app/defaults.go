package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths locates the catalog's config file and data directory before any
// config has been read.
type Paths struct {
	ConfigFile string
	BaseDir    string
}

// DefaultPaths resolves Paths from the environment. Each path is taken from
// the first source that is set:
//
//	config file: CATALOG_CONFIG_PATH, $XDG_CONFIG_HOME/catalog.toml, ~/.config/catalog.toml
//	base dir:    CATALOG_HOME, $XDG_DATA_HOME/catalog, ~/.local/share/catalog
func DefaultPaths() (Paths, error) {
	configFile, err := resolvePath("CATALOG_CONFIG_PATH", "XDG_CONFIG_HOME", "catalog.toml", ".config")
	if err != nil {
		return Paths{}, err
	}
	baseDir, err := resolvePath("CATALOG_HOME", "XDG_DATA_HOME", "catalog", ".local", "share")
	if err != nil {
		return Paths{}, err
	}
	return Paths{ConfigFile: configFile, BaseDir: baseDir}, nil
}

// resolvePath returns $override, else $xdgVar/name, else ~/<homeRel...>/name.
func resolvePath(override, xdgVar, name string, homeRel ...string) (string, error) {
	if p := os.Getenv(override); p != "" {
		return p, nil
	}
	if dir := os.Getenv(xdgVar); dir != "" {
		return filepath.Join(dir, name), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	parts := append([]string{home}, homeRel...)
	return filepath.Join(append(parts, name)...), nil
}
