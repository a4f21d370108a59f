// Package config loads cardpath settings from a TOML file.
//
// The default location is $XDG_CONFIG_HOME/cardpath/config.toml (falling
// back to ~/.config/cardpath/config.toml). Every field has a working
// default, so a missing file is not an error; CLI flags override
// whatever the file provides.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/cardpath/cardpath/pkg/anki"
	"github.com/cardpath/cardpath/pkg/errors"
	"github.com/cardpath/cardpath/pkg/queue"
)

// Config holds all cardpath settings.
type Config struct {
	Vault VaultConfig `toml:"vault"`
	Anki  AnkiConfig  `toml:"anki"`
	Cache CacheConfig `toml:"cache"`
	Queue QueueConfig `toml:"queue"`
}

// VaultConfig locates the note vault.
type VaultConfig struct {
	// Root is the vault directory to scan for markdown notes.
	Root string `toml:"root"`
}

// AnkiConfig configures the AnkiConnect client.
type AnkiConfig struct {
	// URL of the AnkiConnect endpoint.
	URL string `toml:"url"`

	// Deck narrows due-card and stat queries to one deck. Empty means
	// the whole collection.
	Deck string `toml:"deck"`

	// Timeout for individual AnkiConnect requests.
	Timeout duration `toml:"timeout"`
}

// CacheConfig selects the scan cache backend.
type CacheConfig struct {
	// Backend is one of "file", "redis" or "none".
	Backend string `toml:"backend"`

	// Dir is the file backend's directory. Empty means
	// ~/.cache/cardpath.
	Dir string `toml:"dir"`

	// RedisAddr is the redis backend's host:port.
	RedisAddr string `toml:"redis_addr"`
}

// QueueConfig carries study queue defaults and weak-card thresholds.
type QueueConfig struct {
	Depth    int `toml:"depth"`
	MaxNodes int `toml:"max_nodes"`

	// Weak thresholds; each is optional and only applies when set.
	MinStability *float64 `toml:"min_stability"`
	MaxLapses    *int     `toml:"max_lapses"`
	MinReviews   *int     `toml:"min_reviews"`
	MaxInterval  *int     `toml:"max_interval"`
}

// Criteria converts the configured thresholds to queue criteria, or nil
// when none is set (meaning every prerequisite counts as weak).
func (q QueueConfig) Criteria() *queue.WeakCriteria {
	if q.MinStability == nil && q.MaxLapses == nil && q.MinReviews == nil && q.MaxInterval == nil {
		return nil
	}
	return &queue.WeakCriteria{
		MinStability: q.MinStability,
		MaxLapses:    q.MaxLapses,
		MinReviews:   q.MinReviews,
		MaxInterval:  q.MaxInterval,
	}
}

// duration wraps time.Duration with TOML string decoding ("30s", "2m").
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(parsed)
	return nil
}

// Duration returns the wrapped value.
func (d duration) Duration() time.Duration { return time.Duration(d) }

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Anki: AnkiConfig{
			URL:     anki.DefaultURL,
			Timeout: duration(30 * time.Second),
		},
		Cache: CacheConfig{
			Backend: "file",
		},
		Queue: QueueConfig{
			Depth:    queue.DefaultDepth,
			MaxNodes: queue.DefaultMaxNodes,
		},
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cardpath", "config.toml"), nil
}

// DefaultCacheDir returns the standard file cache location.
func DefaultCacheDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cardpath"), nil
}

// Load reads the config file at path, layering it over [Default]. An
// empty path means [DefaultPath]; a missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return cfg, nil
		}
	}

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parsing %s", path)
	}
	if keys := meta.Undecoded(); len(keys) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown key %q in %s", keys[0].String(), path)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Cache.Backend {
	case "file", "redis", "none":
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"cache backend must be file, redis or none, got %q", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis requires redis_addr")
	}
	if c.Queue.Depth < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "queue depth must not be negative")
	}
	if c.Queue.MaxNodes < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "queue max_nodes must be positive")
	}
	return nil
}
