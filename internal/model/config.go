package model

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Config holds the complete runtime configuration.
type Config struct {
	DB          DBConfig          `yaml:"db"`
	Cache       CacheConfig       `yaml:"cache"`
	Retrieval   RetrievalConfig   `yaml:"retrieval"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Server      ServerConfig      `yaml:"server"`
	Output      OutputConfig      `yaml:"output"`
}

// DBConfig locates the incident corpus.
type DBConfig struct {
	Path string `yaml:"path"`
}

// CacheConfig controls the category statistics snapshot and the
// in-memory stats cache.
type CacheConfig struct {
	Enabled      bool          `yaml:"enabled"`
	SnapshotPath string        `yaml:"snapshot_path"`
	TTL          time.Duration `yaml:"ttl"`
}

// RetrievalConfig controls evidence retrieval defaults.
type RetrievalConfig struct {
	DefaultK int `yaml:"default_k"`
}

// ConcurrencyConfig controls worker counts.
type ConcurrencyConfig struct {
	StatsWorkers int `yaml:"stats_workers"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr              string  `yaml:"addr"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// OutputConfig controls CLI output behavior.
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.DB.Path = filepath.Join(dataDir(), "osha_incidents.db")
	cfg.Cache.Enabled = true
	cfg.Cache.SnapshotPath = filepath.Join(dataDir(), "osha_stats_cache.json")
	cfg.Cache.TTL = 15 * time.Minute
	cfg.Retrieval.DefaultK = 3
	cfg.Concurrency.StatsWorkers = runtime.NumCPU()
	cfg.Server.Addr = ":8420"
	cfg.Server.RequestsPerSecond = 20
	cfg.Server.Burst = 40
	return cfg
}

// dataDir returns the default directory for the corpus and cache files.
func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".vesta"
	}
	return filepath.Join(home, ".vesta")
}
