package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for catalog.
type Config struct {
	ClientID   string           `toml:"client_id"`
	Library    string           `toml:"library"`
	BaseDir    string           `toml:"base_dir"`
	LogDir     string           `toml:"log_dir"`
	LogLevel   string           `toml:"log_level"` // "debug", "info" (default), "warn" or "error"
	Archive    ArchiveConfig    `toml:"archive"`
	Encryption EncryptionConfig `toml:"encryption"`
	Database   DatabaseConfig   `toml:"database"`
	Filesystem FilesystemConfig `toml:"filesystem"`
	Jobs       JobsConfig       `toml:"jobs"`
	Server     ServerConfig     `toml:"server"`
}

// EncryptionConfig holds paths to the age key pair used for snapshot encryption.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "age" (default), "none" or "test"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// FilesystemConfig holds scan settings.
type FilesystemConfig struct {
	Ignore              []string `toml:"ignore"`
	LowercaseExtensions bool     `toml:"lowercase_extensions"`
}

// ArchiveConfig is where catalog snapshots are kept.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type ArchiveConfig struct {
	Type string `toml:"type"` // "", "memory", "filesystem" or "s3"; empty disables snapshots

	// S3-specific fields (only used when Type == "s3")
	S3Bucket          string `toml:"s3_bucket,omitempty"`
	S3Prefix          string `toml:"s3_prefix,omitempty"`
	S3Region          string `toml:"s3_region,omitempty"`
	S3Endpoint        string `toml:"s3_endpoint,omitempty"` // for S3-compatible stores
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty"`
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty"`
	S3UsePathStyle    bool   `toml:"s3_use_path_style,omitempty"`

	// Filesystem-specific fields (only used when Type == "filesystem")
	FSArchiveRoot string `toml:"fs_archive_root,omitempty"`
}

// DatabaseConfig represents configuration for the catalog database.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// JobsConfig tunes the job runners.
type JobsConfig struct {
	ChecksumWorkers     int `toml:"checksum_workers"`
	CancelCheckInterval int `toml:"cancel_check_interval"`
}

// ServerConfig configures `catalog serve`.
type ServerConfig struct {
	Listen string `toml:"listen"`
}

const (
	DefaultLibrary             = "default"
	DefaultListen              = "127.0.0.1:8420"
	DefaultChecksumWorkers     = 4
	DefaultCancelCheckInterval = 25
)

// NewConfig creates a new Config with the provided values and default paths.
func NewConfig(clientID, baseDir string) *Config {
	return &Config{
		ClientID: clientID,
		Library:  DefaultLibrary,
		BaseDir:  baseDir,
		LogDir:   filepath.Join(baseDir, "log"),
		LogLevel: "info",
		Encryption: EncryptionConfig{
			Type:           "age",
			PublicKeyPath:  filepath.Join(baseDir, "keys", "catalog.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "catalog.key"),
		},
		Database: DatabaseConfig{Type: "sqlite", DataDir: filepath.Join(baseDir, "db")},
		Filesystem: FilesystemConfig{
			Ignore: []string{".DS_Store", "Thumbs.db"},
		},
		Jobs: JobsConfig{
			ChecksumWorkers:     DefaultChecksumWorkers,
			CancelCheckInterval: DefaultCancelCheckInterval,
		},
		Server: ServerConfig{Listen: DefaultListen},
	}
}

// Validate checks the tagged unions and fills zero tunables with defaults.
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("client_id is required")
	}
	if c.Library == "" {
		c.Library = DefaultLibrary
	}

	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level: %q", c.LogLevel)
	}

	switch c.Database.Type {
	case "sqlite":
		if c.Database.DataDir == "" {
			return fmt.Errorf("database.data_dir is required for sqlite")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown database type: %q", c.Database.Type)
	}

	switch c.Archive.Type {
	case "", "memory":
	case "filesystem":
		if c.Archive.FSArchiveRoot == "" {
			return fmt.Errorf("archive.fs_archive_root is required for a filesystem archive")
		}
	case "s3":
		if c.Archive.S3Bucket == "" {
			return fmt.Errorf("archive.s3_bucket is required for an s3 archive")
		}
	default:
		return fmt.Errorf("unknown archive type: %q", c.Archive.Type)
	}

	switch c.Encryption.Type {
	case "", "age", "none", "test":
	default:
		return fmt.Errorf("unknown encryption type: %q", c.Encryption.Type)
	}

	if c.Jobs.ChecksumWorkers <= 0 {
		c.Jobs.ChecksumWorkers = DefaultChecksumWorkers
	}
	if c.Jobs.CancelCheckInterval <= 0 {
		c.Jobs.CancelCheckInterval = DefaultCancelCheckInterval
	}
	if c.Server.Listen == "" {
		c.Server.Listen = DefaultListen
	}
	return nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

func writeToFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// The archive section may carry S3 credentials.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init writes a new config file at path. An existing file is never overwritten.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
