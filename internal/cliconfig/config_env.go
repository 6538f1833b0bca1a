package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (MANTLE_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("log-level", os.Getenv("MANTLE_LOG_LEVEL"), &cfg.LogLevel)
	s.setString("artifact-backend", os.Getenv("MANTLE_ARTIFACT_BACKEND"), &cfg.ArtifactBackend)
	s.setString("redis-addr", os.Getenv("MANTLE_REDIS_ADDR"), &cfg.RedisAddr)
	s.setString("store-dir", os.Getenv("MANTLE_STORE_DIR"), &cfg.StoreDir)
	s.setStringsFromCSV("hidden-categories", os.Getenv("MANTLE_HIDDEN_CATEGORIES"), &cfg.HiddenCategories)

	if err := s.setDuration("redis-ttl", os.Getenv("MANTLE_REDIS_TTL"), &cfg.RedisTTL); err != nil {
		return err
	}
	if err := s.setDuration("watch-debounce", os.Getenv("MANTLE_WATCH_DEBOUNCE"), &cfg.WatchDebounce); err != nil {
		return err
	}

	if err := s.setIntFromString("redis-db", os.Getenv("MANTLE_REDIS_DB"), &cfg.RedisDB); err != nil {
		return err
	}
	if err := s.setIntFromString("redis-connect-attempts", os.Getenv("MANTLE_REDIS_CONNECT_ATTEMPTS"), &cfg.RedisConnectAttempts); err != nil {
		return err
	}

	s.setBoolFromString("log-json", os.Getenv("MANTLE_LOG_JSON"), &cfg.LogJSON)
	s.setBoolFromString("trace", os.Getenv("MANTLE_TRACE"), &cfg.Trace)
	s.setBoolFromString("metrics", os.Getenv("MANTLE_METRICS"), &cfg.MetricsSummary)

	return nil
}
