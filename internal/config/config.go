package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds all application configuration.
type Config struct {
	// Storage paths
	Storage StorageConfig `json:"storage" mapstructure:"storage"`

	// Organization behavior
	Organize OrganizeConfig `json:"organize" mapstructure:"organize"`

	// Duplicate index persistence
	Index IndexConfig `json:"index" mapstructure:"index"`

	// Logging
	Log LogConfig `json:"log" mapstructure:"log"`
}

// StorageConfig for local file paths.
type StorageConfig struct {
	DataDir    string `json:"data_dir" mapstructure:"data_dir"`       // Base directory for all data
	ReportsDir string `json:"reports_dir" mapstructure:"reports_dir"` // Persisted run reports
}

// OrganizeConfig for scan and move behavior.
type OrganizeConfig struct {
	Mode            string   `json:"mode" mapstructure:"mode"`                         // move, copy
	DuplicatePolicy string   `json:"duplicate_policy" mapstructure:"duplicate_policy"` // report, quarantine
	HashAlgorithm   string   `json:"hash_algorithm" mapstructure:"hash_algorithm"`     // sha256, blake2b
	ChunkSize       int      `json:"chunk_size" mapstructure:"chunk_size"`             // Hash read chunk size
	MaxConcurrent   int      `json:"max_concurrent" mapstructure:"max_concurrent"`     // Concurrent hash workers
	IgnorePatterns  []string `json:"ignore_patterns" mapstructure:"ignore_patterns"`   // Glob patterns skipped during scan
	IncludeHidden   bool     `json:"include_hidden" mapstructure:"include_hidden"`     // Scan dotfiles too
}

// IndexConfig for the persisted duplicate index.
type IndexConfig struct {
	Backend string `json:"backend" mapstructure:"backend"` // memory, json, sqlite
	Path    string `json:"path" mapstructure:"path"`       // Index file path (json/sqlite)
}

// LogConfig for logging behavior.
type LogConfig struct {
	Level  string `json:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `json:"format" mapstructure:"format"` // text, json
	File   string `json:"file" mapstructure:"file"`     // Log file path (empty = stderr)
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() *Config {
	dataDir := ".organizer"

	return &Config{
		Storage: StorageConfig{
			DataDir:    dataDir,
			ReportsDir: filepath.Join(dataDir, "reports"),
		},
		Organize: OrganizeConfig{
			Mode:            "move",
			DuplicatePolicy: "report",
			HashAlgorithm:   "sha256",
			ChunkSize:       64 * 1024,
			MaxConcurrent:   4,
			IncludeHidden:   false,
		},
		Index: IndexConfig{
			Backend: "json",
			Path:    filepath.Join(dataDir, "index.json"),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.Storage.DataDir == "" {
		return errors.New("storage.data_dir is required")
	}

	if c.Storage.ReportsDir == "" {
		return errors.New("storage.reports_dir is required")
	}

	switch c.Organize.Mode {
	case "move", "copy":
	default:
		return fmt.Errorf("invalid organize mode: %s", c.Organize.Mode)
	}

	switch c.Organize.DuplicatePolicy {
	case "report", "quarantine":
	default:
		return fmt.Errorf("invalid duplicate policy: %s", c.Organize.DuplicatePolicy)
	}

	switch c.Organize.HashAlgorithm {
	case "sha256", "blake2b":
	default:
		return fmt.Errorf("invalid hash algorithm: %s", c.Organize.HashAlgorithm)
	}

	if c.Organize.ChunkSize <= 0 {
		return errors.New("organize.chunk_size must be positive")
	}

	if c.Organize.MaxConcurrent <= 0 {
		return errors.New("organize.max_concurrent must be positive")
	}

	switch c.Index.Backend {
	case "memory":
	case "json", "sqlite":
		if c.Index.Path == "" {
			return fmt.Errorf("index.path is required for backend %s", c.Index.Backend)
		}
	default:
		return fmt.Errorf("invalid index backend: %s", c.Index.Backend)
	}

	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Log.Format] {
		return fmt.Errorf("invalid log format: %s", c.Log.Format)
	}

	return nil
}

// EnsureDirectories creates required directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Storage.DataDir,
		c.Storage.ReportsDir,
	}

	if c.Index.Path != "" && c.Index.Backend != "memory" {
		dirs = append(dirs, filepath.Dir(c.Index.Path))
	}

	if c.Log.File != "" {
		dirs = append(dirs, filepath.Dir(c.Log.File))
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
