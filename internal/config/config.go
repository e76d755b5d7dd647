// Package config loads finddups settings from defaults, a YAML file, a .env
// file and FINDDUPS_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/leeovery/finddups/internal/dedup"
	"github.com/leeovery/finddups/internal/export"
)

// FileName is the config file looked up in the working directory when no
// path is given.
const FileName = ".finddups.yaml"

// MaxShards bounds Config.Shards.
const MaxShards = 64

// Config holds the settings a run can be tuned with.
type Config struct {
	Separator   string
	PropMode    string
	OutputMode  string
	Shards      int
	CacheDir    string
	LockTimeout time.Duration
}

// File is the on-disk YAML form of Config. Empty fields leave the current
// value alone.
type File struct {
	Separator   string `yaml:"separator"`
	PropMode    string `yaml:"prop_mode"`
	OutputMode  string `yaml:"mode"`
	Shards      *int   `yaml:"shards"`
	CacheDir    string `yaml:"cache_dir"`
	LockTimeout string `yaml:"lock_timeout"` // e.g. "5s"
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Separator:   dedup.Separator,
		PropMode:    export.DefaultPropMode,
		OutputMode:  string(export.ModeFilter),
		LockTimeout: 5 * time.Second,
	}
}

// Load returns the default configuration overlaid with the YAML file at
// path. With an empty path, FileName in dir is used if it exists. A path
// given explicitly must exist.
func Load(dir, path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, FileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if err := cfg.apply(f); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) apply(f File) error {
	if f.Separator != "" {
		c.Separator = f.Separator
	}
	if f.PropMode != "" {
		c.PropMode = f.PropMode
	}
	if f.OutputMode != "" {
		c.OutputMode = f.OutputMode
	}
	if f.Shards != nil {
		c.Shards = *f.Shards
	}
	if f.CacheDir != "" {
		c.CacheDir = f.CacheDir
	}
	if f.LockTimeout != "" {
		d, err := time.ParseDuration(f.LockTimeout)
		if err != nil {
			return fmt.Errorf("invalid lock_timeout %q: %w", f.LockTimeout, err)
		}
		c.LockTimeout = d
	}
	return nil
}

// ReadDotEnv reads the .env file in dir without touching the process
// environment. A missing file yields an empty map.
func ReadDotEnv(dir string) (map[string]string, error) {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return env, nil
}

// Lookup returns a getenv function that consults getenv first and falls back
// to the .env values.
func Lookup(getenv func(string) string, dotenv map[string]string) func(string) string {
	return func(key string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}
}

// ApplyEnv overlays FINDDUPS_* variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("FINDDUPS_SEPARATOR"); v != "" {
		c.Separator = v
	}
	if v := getenv("FINDDUPS_PROP_MODE"); v != "" {
		c.PropMode = v
	}
	if v := getenv("FINDDUPS_MODE"); v != "" {
		c.OutputMode = v
	}
	if v := getenv("FINDDUPS_SHARDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid FINDDUPS_SHARDS %q: %w", v, err)
		}
		c.Shards = n
	}
	if v := getenv("FINDDUPS_CACHE_DIR"); v != "" {
		c.CacheDir = v
	}
	if v := getenv("FINDDUPS_LOCK_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid FINDDUPS_LOCK_TIMEOUT %q: %w", v, err)
		}
		c.LockTimeout = d
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	r, size := utf8.DecodeRuneInString(c.Separator)
	if size == 0 || size != len(c.Separator) {
		return fmt.Errorf("separator must be a single character, got %q", c.Separator)
	}
	if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
		return fmt.Errorf("separator %q must not be a letter, digit or space", c.Separator)
	}
	if _, err := export.ParseMode(c.OutputMode); err != nil {
		return err
	}
	if c.PropMode == "" {
		return errors.New("prop_mode must not be empty")
	}
	if c.Shards < 0 || c.Shards > MaxShards {
		return fmt.Errorf("shards must be between 0 and %d, got %d", MaxShards, c.Shards)
	}
	if c.LockTimeout <= 0 {
		return fmt.Errorf("lock_timeout must be positive, got %s", c.LockTimeout)
	}
	return nil
}
