// Package config manages Scholar configuration and the .scholar directory
// structure. It handles loading, saving, and initializing the repository
// configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const (
	ScholarDir      = ".scholar"
	ConfigFile      = "config"
	DatabaseFile    = "scholar.db"
	DefaultBlobsDir = "blobs"
)

// Config represents the Scholar repository configuration
type Config struct {
	BlobsDir string `toml:"blobs_dir"` // blob store root, relative to .scholar unless absolute
	path     string // path to .scholar directory
}

// FindScholarRoot finds the .scholar directory by walking up from current directory
func FindScholarRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		scholarPath := filepath.Join(dir, ScholarDir)
		if info, err := os.Stat(scholarPath); err == nil && info.IsDir() {
			return scholarPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not a scholar repository (or any parent up to root)")
		}
		dir = parent
	}
}

// Load loads the configuration from the .scholar directory
func Load() (*Config, error) {
	scholarPath, err := FindScholarRoot()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(scholarPath, ConfigFile)
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.BlobsDir == "" {
		cfg.BlobsDir = DefaultBlobsDir
	}
	cfg.path = scholarPath
	return &cfg, nil
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	configPath := filepath.Join(c.path, ConfigFile)
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// ScholarPath returns the path to the .scholar directory
func (c *Config) ScholarPath() string {
	return c.path
}

// DatabasePath returns the path to the SQLite database
func (c *Config) DatabasePath() string {
	return filepath.Join(c.path, DatabaseFile)
}

// BlobsPath returns the path to the blob store root
func (c *Config) BlobsPath() string {
	if filepath.IsAbs(c.BlobsDir) {
		return c.BlobsDir
	}
	return filepath.Join(c.path, c.BlobsDir)
}

// Initialize creates a new .scholar directory with initial configuration
func Initialize() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	scholarPath := filepath.Join(cwd, ScholarDir)

	// Check if already initialized
	if _, err := os.Stat(scholarPath); err == nil {
		return nil, fmt.Errorf("scholar repository already exists")
	}

	if err := os.MkdirAll(scholarPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create .scholar directory: %w", err)
	}

	cfg := &Config{
		BlobsDir: DefaultBlobsDir,
		path:     scholarPath,
	}

	if err := cfg.Save(); err != nil {
		// Cleanup on failure
		os.RemoveAll(scholarPath)
		return nil, err
	}

	return cfg, nil
}
