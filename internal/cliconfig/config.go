package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Artifact store back ends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendFile   = "file"
)

// DefaultRedisAddr is the redis address used when none is configured.
const DefaultRedisAddr = "localhost:6379"

// Config holds CLI configuration for mantle.
type Config struct {
	LogLevel string
	LogJSON  bool

	ArtifactBackend string

	RedisAddr            string
	RedisDB              int
	RedisTTL             time.Duration
	RedisConnectAttempts int

	StoreDir string

	HiddenCategories []string

	Trace          bool
	MetricsSummary bool

	WatchDebounce time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		LogLevel:             "info",
		ArtifactBackend:      BackendMemory,
		RedisAddr:            DefaultRedisAddr,
		RedisConnectAttempts: 3,
		StoreDir:             "", // Derived from the home directory during Validate
		HiddenCategories:     []string{"Testing"},
		WatchDebounce:        200 * time.Millisecond,
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "notice", "warn", "error", "fatal":
		c.LogLevel = strings.ToLower(c.LogLevel)
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}

	c.ArtifactBackend = strings.ToLower(strings.TrimSpace(c.ArtifactBackend))
	switch c.ArtifactBackend {
	case BackendMemory:
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("redis-addr is required for the redis back end")
		}
		if c.RedisDB < 0 {
			return fmt.Errorf("redis db must not be negative")
		}
		if c.RedisTTL < 0 {
			return fmt.Errorf("redis ttl must not be negative")
		}
		if c.RedisConnectAttempts <= 0 {
			c.RedisConnectAttempts = 1
		}
	case BackendFile:
		if c.StoreDir == "" {
			h, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("store-dir is required for the file back end: %w", err)
			}
			c.StoreDir = filepath.Join(h, ".mantle", "workspaces")
		}
	default:
		return fmt.Errorf("unknown artifact back end %q (want memory, redis or file)", c.ArtifactBackend)
	}

	if c.WatchDebounce <= 0 {
		return fmt.Errorf("watch debounce must be positive")
	}

	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setStrings sets a list if not nil and flag not changed. An empty,
// non-nil list clears the destination.
func (s *configSetter) setStrings(flag string, value []string, dst *[]string) {
	if value == nil || s.changed[flag] {
		return
	}
	cp := make([]string, len(value))
	copy(cp, value)
	*dst = cp
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i < 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}

// setStringsFromCSV splits a comma separated list and sets the destination.
func (s *configSetter) setStringsFromCSV(flag, value string, dst *[]string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = SplitList(value)
}

// SplitList splits a comma separated list, dropping empty items.
func SplitList(value string) []string {
	out := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
