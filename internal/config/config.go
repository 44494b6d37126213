package config

import (
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	DatabasePath string `koanf:"database_path"` // empty means the default data dir

	// Scan behavior
	Scan ScanConfig `koanf:"scan"`

	// Re-tag reconciliation behavior
	Reconcile ReconcileConfig `koanf:"reconcile"`

	// Batch ranking settings
	Ranking RankingConfig `koanf:"ranking"`
}

// ScanConfig controls directory scanning.
type ScanConfig struct {
	DeleteOrphanedTracks bool `koanf:"delete_orphaned_tracks"` // drop tracks whose last file disappeared (default: false)
}

// ReconcileConfig controls what happens when a file's recording ID
// points at an already-known track.
type ReconcileConfig struct {
	ReattachComparisons *bool `koanf:"reattach_comparisons"` // move the losing track's history to the survivor (default: true)
}

// RankingConfig holds batch estimator settings.
type RankingConfig struct {
	Algorithm      string  `koanf:"algorithm"`      // "elo", "asm", "bestfit", or "bt" (default: "elo")
	MaxIterations  int     `koanf:"max_iterations"` // cap for the iterative estimators (default: estimator-specific)
	Regularization float64 `koanf:"regularization"` // Bradley-Terry virtual-comparison weight (default: 0.0001)
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	configPaths := getConfigPaths()

	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	// Expand ~ in database_path
	if cfg.DatabasePath != "" {
		cfg.DatabasePath = expandPath(cfg.DatabasePath)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/faceoff/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "faceoff", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// ReattachComparisons reports whether merges should carry the losing
// track's comparison history over to the survivor. Defaults to true.
func (c *Config) ReattachComparisons() bool {
	if c.Reconcile.ReattachComparisons == nil {
		return true
	}
	return *c.Reconcile.ReattachComparisons
}

// GetRankingConfig returns the ranking configuration with defaults applied.
func (c *Config) GetRankingConfig() RankingConfig {
	cfg := c.Ranking

	// Apply defaults
	if cfg.Algorithm == "" {
		cfg.Algorithm = "elo"
	}
	if cfg.MaxIterations < 0 {
		cfg.MaxIterations = 0
	}
	if cfg.Regularization <= 0 {
		cfg.Regularization = 0.0001
	}

	return cfg
}
