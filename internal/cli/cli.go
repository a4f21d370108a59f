// Package cli implements the cardpath command-line interface.
//
// This package provides commands for building prerequisite-aware study
// queues, inspecting the card dependency graph, auditing card ids, and
// serving the HTTP API. The CLI is built using cobra and supports
// verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - queue: Build a study queue from due cards and their prerequisites
//   - graph: Check graph health and inspect local neighborhoods
//   - ids: Audit and mint stable card ids
//   - cache: Manage the vault scan cache
//   - serve: Run the HTTP API
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers
// are passed through context.Context to allow structured progress
// tracking.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cardpath/cardpath/pkg/anki"
	"github.com/cardpath/cardpath/pkg/buildinfo"
	"github.com/cardpath/cardpath/pkg/cache"
	"github.com/cardpath/cardpath/pkg/config"
	"github.com/cardpath/cardpath/pkg/errors"
	"github.com/cardpath/cardpath/pkg/graph"
	"github.com/cardpath/cardpath/pkg/vault"
)

// appName is the application name used for directories and display.
const appName = "cardpath"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath overrides the default config file location.
	ConfigPath string

	cfg *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "cardpath builds prerequisite-aware study queues from your note vault",
		Long:         `cardpath reads flashcard dependencies from markdown frontmatter, combines them with review statistics from Anki, and orders what is due so that weak prerequisites come first.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default ~/.config/cardpath/config.toml)")
	root.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	}

	root.AddCommand(c.queueCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.idsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file once and memoizes it for the run.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.cfg != nil {
		return *c.cfg, nil
	}
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return cfg, err
	}
	c.cfg = &cfg
	return cfg, nil
}

// newCache opens the configured scan cache backend. Failures to open the
// file backend degrade to a null cache rather than aborting the command.
func (c *CLI) newCache(ctx context.Context, cfg config.Config, noCache bool) cache.Cache {
	if noCache || cfg.Cache.Backend == "none" {
		return cache.NewNullCache()
	}
	if cfg.Cache.Backend == "redis" {
		store, err := cache.NewRedisCache(ctx, cfg.Cache.RedisAddr, "")
		if err != nil {
			c.Logger.Warn("redis cache unavailable, continuing without cache", "err", err)
			return cache.NewNullCache()
		}
		return store
	}
	dir, err := cacheDir(cfg)
	if err != nil {
		return cache.NewNullCache()
	}
	store, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("file cache unavailable, continuing without cache", "err", err)
		return cache.NewNullCache()
	}
	return store
}

// newScanner builds a vault scanner for the configured root, optionally
// overridden by a --vault flag.
func (c *CLI) newScanner(ctx context.Context, cfg config.Config, vaultRoot string, noCache bool) (*vault.Scanner, error) {
	root := vaultRoot
	if root == "" {
		root = cfg.Vault.Root
	}
	if root == "" {
		return nil, errors.New(errors.ErrCodeInvalidVault,
			"no vault configured: pass --vault or set vault.root in the config file")
	}
	return &vault.Scanner{
		Root:   root,
		Logger: c.Logger,
		Cache:  c.newCache(ctx, cfg, noCache),
	}, nil
}

// buildGraph scans the vault and assembles the dependency graph.
func (c *CLI) buildGraph(ctx context.Context, scanner *vault.Scanner) (*graph.DependencyGraph, error) {
	builder := &graph.Builder{Logger: c.Logger}
	return builder.BuildFrom(ctx, scanner)
}

// newAnkiClient builds an AnkiConnect client from the config.
func (c *CLI) newAnkiClient(cfg config.Config) *anki.Client {
	return &anki.Client{
		URL:        cfg.Anki.URL,
		HTTPClient: httpClientWithTimeout(cfg),
		Logger:     c.Logger,
	}
}

// cacheDir returns the scan cache directory, preferring the configured
// one, then XDG, then ~/.cache/cardpath.
func cacheDir(cfg config.Config) (string, error) {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
