package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	LogLevel             string   `toml:"log_level"`
	LogJSON              *bool    `toml:"log_json"`
	ArtifactBackend      string   `toml:"artifact_backend"`
	RedisAddr            string   `toml:"redis_addr"`
	RedisDB              int      `toml:"redis_db"`
	RedisTTL             string   `toml:"redis_ttl"`
	RedisConnectAttempts int      `toml:"redis_connect_attempts"`
	StoreDir             string   `toml:"store_dir"`
	HiddenCategories     []string `toml:"hidden_categories"`
	Trace                *bool    `toml:"trace"`
	MetricsSummary       *bool    `toml:"metrics_summary"`
	WatchDebounce        string   `toml:"watch_debounce"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.mantle/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".mantle", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("artifact-backend", fc.ArtifactBackend, &cfg.ArtifactBackend)
	s.setString("redis-addr", fc.RedisAddr, &cfg.RedisAddr)
	s.setString("store-dir", fc.StoreDir, &cfg.StoreDir)
	s.setStrings("hidden-categories", fc.HiddenCategories, &cfg.HiddenCategories)

	if err := s.setDuration("redis-ttl", fc.RedisTTL, &cfg.RedisTTL); err != nil {
		return err
	}
	if err := s.setDuration("watch-debounce", fc.WatchDebounce, &cfg.WatchDebounce); err != nil {
		return err
	}

	s.setInt("redis-db", fc.RedisDB, &cfg.RedisDB)
	s.setInt("redis-connect-attempts", fc.RedisConnectAttempts, &cfg.RedisConnectAttempts)

	s.setBool("log-json", fc.LogJSON, &cfg.LogJSON)
	s.setBool("trace", fc.Trace, &cfg.Trace)
	s.setBool("metrics", fc.MetricsSummary, &cfg.MetricsSummary)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
