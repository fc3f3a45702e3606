package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Storage backend names accepted in lucro.yaml.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Config represents the top-level lucro.yaml configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Listen string `yaml:"listen"`
}

// StorageConfig selects and parameterizes the persistence backend.
type StorageConfig struct {
	Backend  string         `yaml:"backend"` // "file" or "postgres"
	File     FileConfig     `yaml:"file,omitempty"`
	Postgres PostgresConfig `yaml:"postgres,omitempty"`
}

// FileConfig locates the JSON-file store.
type FileConfig struct {
	Path string `yaml:"path"`
}

// PostgresConfig holds the table-backed store's connection string.
type PostgresConfig struct {
	URL string `yaml:"url"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Validate checks that the backend selection is usable.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.File.Path == "" {
			return fmt.Errorf("storage.file.path is required for the file backend")
		}
	case BackendPostgres:
		if c.Storage.Postgres.URL == "" {
			return fmt.Errorf("storage.postgres.url is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q (want %q or %q)", c.Storage.Backend, BackendFile, BackendPostgres)
	}
	return nil
}

// Load reads a lucro.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults: file-backed storage
// under data/, listening on :8080.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Listen: ":8080",
		},
		Storage: StorageConfig{
			Backend: BackendFile,
			File: FileConfig{
				Path: "data/transactions.json",
			},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
