package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/codealchemy/organizer/internal/models"
)

// Loader handles configuration loading from file and environment.
type Loader struct {
	configPath string
	envPrefix  string
}

// NewLoader creates a config loader. An empty configPath searches the
// default locations.
func NewLoader(configPath string) *Loader {
	return &Loader{
		configPath: configPath,
		envPrefix:  "ORGANIZER",
	}
}

// Load reads configuration, layering file values and ORGANIZER_* environment
// variables over the defaults.
func (l *Loader) Load() (*Config, error) {
	v := viper.New()

	// Seed defaults so env-only overrides still produce a full config.
	defaults := DefaultConfig()
	v.SetDefault("storage.data_dir", defaults.Storage.DataDir)
	v.SetDefault("storage.reports_dir", defaults.Storage.ReportsDir)
	v.SetDefault("organize.mode", defaults.Organize.Mode)
	v.SetDefault("organize.duplicate_policy", defaults.Organize.DuplicatePolicy)
	v.SetDefault("organize.hash_algorithm", defaults.Organize.HashAlgorithm)
	v.SetDefault("organize.chunk_size", defaults.Organize.ChunkSize)
	v.SetDefault("organize.max_concurrent", defaults.Organize.MaxConcurrent)
	v.SetDefault("organize.include_hidden", defaults.Organize.IncludeHidden)
	v.SetDefault("index.backend", defaults.Index.Backend)
	v.SetDefault("index.path", defaults.Index.Path)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("log.file", defaults.Log.File)

	v.SetEnvPrefix(l.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if l.configPath != "" {
		v.SetConfigFile(l.configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", l.configPath, err)
		}
	} else {
		v.SetConfigName("organizer")
		v.SetConfigType("yaml")
		for _, dir := range l.defaultDirs() {
			v.AddConfigPath(dir)
		}

		var notFound viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrInvalidConfig, err)
	}

	return cfg, nil
}

// defaultDirs returns default config search directories.
func (l *Loader) defaultDirs() []string {
	dirs := []string{"."}

	if homeDir, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs,
			filepath.Join(homeDir, ".config", "organizer"),
			filepath.Join(homeDir, ".organizer"),
		)
	}

	return dirs
}
