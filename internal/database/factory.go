package database

import (
	"fmt"
	"os"
	"path/filepath"

	"catalog-go/internal/config"
)

// NewDatabaseFromConfig opens the catalog database for clientID as described
// by cfg. SQLite catalogs live at <data_dir>/<clientID>.db.
func NewDatabaseFromConfig(cfg config.DatabaseConfig, clientID string) (*SQLiteDatabase, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		return NewSQLiteDatabase(DatabasePath(cfg, clientID), nil, nil)
	case "memory":
		return NewSQLiteDatabase(":memory:", nil, nil)
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}

// DatabasePath returns where the sqlite catalog for clientID is stored.
func DatabasePath(cfg config.DatabaseConfig, clientID string) string {
	if cfg.Type == "memory" {
		return ":memory:"
	}
	return filepath.Join(cfg.DataDir, clientID+".db")
}
