// Package config loads zwconf settings from a TOML file.
//
// The file lives at ~/.config/zwconf/config.toml by default. Every
// field has a sensible default, so a missing file is not an error;
// command-line flags override whatever the file says.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Cache backend names accepted in the [cache] section.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config holds all zwconf settings.
type Config struct {
	// DevicesDir is the root of the device configuration corpus.
	DevicesDir string `toml:"devices_dir"`

	// ManufacturersFile is the manufacturer index, a JSONC object
	// mapping hex IDs to names.
	ManufacturersFile string `toml:"manufacturers_file"`

	// OutputDir is where resolved artifacts are written.
	OutputDir string `toml:"output_dir"`

	Cache CacheConfig `toml:"cache"`
}

// CacheConfig selects and configures the scan-report cache backend.
type CacheConfig struct {
	// Backend is one of "file", "redis", or "none".
	Backend string `toml:"backend"`

	// Dir is the file backend's directory. Empty means a "cache"
	// subdirectory next to the config file.
	Dir string `toml:"dir"`

	// RedisAddr is the redis backend's host:port.
	RedisAddr string `toml:"redis_addr"`

	// TTL bounds the lifetime of cached reports. Zero means the
	// cache package default.
	TTL duration `toml:"ttl"`
}

// duration lets TTL be written as "12h" in the file.
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(parsed)
	return nil
}

// TTLDuration returns the configured TTL as a time.Duration.
func (c CacheConfig) TTLDuration() time.Duration { return time.Duration(c.TTL) }

// DefaultPath returns the standard config file location,
// ~/.config/zwconf/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "zwconf", "config.toml"), nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		DevicesDir:        "config/devices",
		ManufacturersFile: "config/manufacturers.json",
		OutputDir:         "dist/devices",
		Cache: CacheConfig{
			Backend: BackendFile,
		},
	}
}

// Load reads the config file at path. An empty path means
// [DefaultPath]. A missing file yields [Default] without error; a file
// that exists but does not parse is an error.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case "", BackendFile, BackendRedis, BackendNone:
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisAddr == "" {
		return fmt.Errorf("cache backend %q requires redis_addr", BackendRedis)
	}
	return nil
}

// CacheDir returns the directory for the file cache backend, deriving
// the default from the config file location when unset.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	base, err := DefaultPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(base), "cache"), nil
}
