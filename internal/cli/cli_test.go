package cli

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/cardpath/cardpath/pkg/config"
)

func TestRootCommandSubcommands(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()

	want := map[string]bool{
		"queue":      false,
		"graph":      false,
		"ids":        false,
		"cache":      false,
		"serve":      false,
		"completion": false,
	}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("root command is missing subcommand %q", name)
		}
	}
}

func TestSetLogLevel(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	c.SetLogLevel(log.DebugLevel)
	if got := c.Logger.GetLevel(); got != log.DebugLevel {
		t.Errorf("level = %v, want debug", got)
	}
}

func TestCacheDir(t *testing.T) {
	t.Run("configured dir wins", func(t *testing.T) {
		cfg := config.Default()
		cfg.Cache.Dir = "/tmp/custom-cache"
		dir, err := cacheDir(cfg)
		if err != nil {
			t.Fatal(err)
		}
		if dir != "/tmp/custom-cache" {
			t.Errorf("dir = %q", dir)
		}
	})

	t.Run("xdg fallback", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
		dir, err := cacheDir(config.Default())
		if err != nil {
			t.Fatal(err)
		}
		if dir != "/tmp/xdg/cardpath" {
			t.Errorf("dir = %q, want /tmp/xdg/cardpath", dir)
		}
	})
}

func TestValueOr(t *testing.T) {
	if got := valueOr(0, 7); got != 7 {
		t.Errorf("valueOr(0, 7) = %d, want 7", got)
	}
	if got := valueOr(3, 7); got != 3 {
		t.Errorf("valueOr(3, 7) = %d, want 3", got)
	}
}
