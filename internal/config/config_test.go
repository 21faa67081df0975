package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := NewConfig("laptop-1", "/home/user/.local/share/catalog")
	original.Archive = ArchiveConfig{Type: "s3", S3Bucket: "snapshots", S3Prefix: "catalog/", S3UsePathStyle: true}
	original.Filesystem.LowercaseExtensions = true
	original.Jobs.ChecksumWorkers = 8

	var buf bytes.Buffer
	m := &Manager{}
	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.ClientID != "laptop-1" {
		t.Errorf("ClientID = %q, want %q", got.ClientID, "laptop-1")
	}
	if got.Archive.Type != "s3" || got.Archive.S3Bucket != "snapshots" || !got.Archive.S3UsePathStyle {
		t.Errorf("Archive = %+v, want s3 bucket snapshots with path style", got.Archive)
	}
	if !got.Filesystem.LowercaseExtensions {
		t.Error("Filesystem.LowercaseExtensions = false, want true")
	}
	if got.Jobs.ChecksumWorkers != 8 {
		t.Errorf("Jobs.ChecksumWorkers = %d, want 8", got.Jobs.ChecksumWorkers)
	}
	if got.Database.DataDir != original.Database.DataDir {
		t.Errorf("Database.DataDir = %q, want %q", got.Database.DataDir, original.Database.DataDir)
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("host-1", "/data/catalog")

	if cfg.LogDir != "/data/catalog/log" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/data/catalog/log")
	}
	if cfg.Encryption.PublicKeyPath != "/data/catalog/keys/catalog.pub" {
		t.Errorf("Encryption.PublicKeyPath = %q", cfg.Encryption.PublicKeyPath)
	}
	if cfg.Database.Type != "sqlite" || cfg.Database.DataDir != "/data/catalog/db" {
		t.Errorf("Database = %+v, want sqlite in /data/catalog/db", cfg.Database)
	}
	if cfg.Library != DefaultLibrary {
		t.Errorf("Library = %q, want %q", cfg.Library, DefaultLibrary)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing client id", func(c *Config) { c.ClientID = "" }, "client_id"},
		{"unknown database", func(c *Config) { c.Database.Type = "postgres" }, "database type"},
		{"sqlite without data dir", func(c *Config) { c.Database.DataDir = "" }, "data_dir"},
		{"filesystem archive without root", func(c *Config) { c.Archive.Type = "filesystem" }, "fs_archive_root"},
		{"s3 archive without bucket", func(c *Config) { c.Archive.Type = "s3" }, "s3_bucket"},
		{"unknown archive", func(c *Config) { c.Archive.Type = "ftp" }, "archive type"},
		{"unknown encryption", func(c *Config) { c.Encryption.Type = "rot13" }, "encryption type"},
		{"unknown log level", func(c *Config) { c.LogLevel = "verbose" }, "log_level"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig("c", "/data")
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}

	t.Run("fills defaults", func(t *testing.T) {
		cfg := NewConfig("c", "/data")
		cfg.Jobs = JobsConfig{}
		cfg.Server.Listen = ""
		if err := cfg.Validate(); err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		if cfg.Jobs.ChecksumWorkers != DefaultChecksumWorkers {
			t.Errorf("ChecksumWorkers = %d, want %d", cfg.Jobs.ChecksumWorkers, DefaultChecksumWorkers)
		}
		if cfg.Jobs.CancelCheckInterval != DefaultCancelCheckInterval {
			t.Errorf("CancelCheckInterval = %d, want %d", cfg.Jobs.CancelCheckInterval, DefaultCancelCheckInterval)
		}
		if cfg.Server.Listen != DefaultListen {
			t.Errorf("Listen = %q, want %q", cfg.Server.Listen, DefaultListen)
		}
	})
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "catalog.toml")

		if err := Init(path, NewConfig("h1", dir)); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("config file not created: %v", err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("config mode = %v, want 0600", info.Mode().Perm())
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "catalog.toml")
		cfg := NewConfig("h1", dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}
		if err := Init(path, cfg); err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "catalog.toml")
		cfg := NewConfig("read-test", dir)
		cfg.Database = DatabaseConfig{Type: "memory"}

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.ClientID != "read-test" {
			t.Errorf("ClientID = %q, want %q", got.ClientID, "read-test")
		}
		if got.Database.Type != "memory" {
			t.Errorf("Database.Type = %q, want memory", got.Database.Type)
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		if _, err := ReadFromFile("/nonexistent/path/catalog.toml"); err == nil {
			t.Fatal("ReadFromFile() expected error for missing file")
		}
	})
}
