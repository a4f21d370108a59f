package vault

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cardpath/cardpath/pkg/cache"
	"github.com/cardpath/cardpath/pkg/errors"
	"github.com/cardpath/cardpath/pkg/graph"
	"github.com/cardpath/cardpath/pkg/observability"
)

// scanTTL bounds how long memoized parse results live. Entries are also
// invalidated whenever a file's mtime or size changes.
const scanTTL = 30 * 24 * time.Hour

// Scanner walks a vault directory and extracts card records from the
// frontmatter of every markdown note. It implements [graph.RecordSource],
// so a builder can consume it directly.
//
// Per-file parse results are memoized in Cache keyed by path, size and
// mtime, which makes repeat scans of a large vault nearly free.
type Scanner struct {
	// Root is the vault directory to walk.
	Root string

	// Logger receives per-file diagnostics. Defaults to [log.Default].
	Logger *log.Logger

	// Cache memoizes parse results. Defaults to [cache.NullCache].
	Cache cache.Cache
}

// Records implements [graph.RecordSource]. Files are visited in
// lexical order, so record order (and therefore graph insertion order)
// is deterministic for a given vault.
//
// A file that fails to read or parse is logged and skipped; one broken
// note never aborts the scan. Directories whose name starts with "." are
// pruned entirely.
func (s *Scanner) Records(ctx context.Context) (records []graph.CardRecord, err error) {
	start := time.Now()
	observability.Scan().OnScanStart(ctx, s.Root)
	defer func() {
		observability.Scan().OnScanComplete(ctx, s.Root, len(records), time.Since(start), err)
	}()

	if s.Root == "" {
		return nil, errors.New(errors.ErrCodeInvalidVault, "vault root must not be empty")
	}
	info, err := os.Stat(s.Root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidVault, err, "opening vault root")
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidVault, "vault root %q is not a directory", s.Root)
	}

	logger := s.Logger
	if logger == nil {
		logger = log.Default()
	}
	store := s.Cache
	if store == nil {
		store = cache.NewNullCache()
	}

	var scanned, skipped int
	err = filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != s.Root {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}

		recs, err := s.scanFile(ctx, store, logger, path, d)
		if err != nil {
			logger.Warn("skipping unparseable note", "file", path, "err", err)
			skipped++
			return nil
		}
		scanned++
		records = append(records, recs...)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidVault, err, "walking vault")
	}

	logger.Debug("vault scan complete",
		"root", s.Root, "files", scanned, "skipped", skipped, "cards", len(records))
	return records, nil
}

func (s *Scanner) scanFile(ctx context.Context, store cache.Cache, logger *log.Logger, path string, d fs.DirEntry) ([]graph.CardRecord, error) {
	rel, err := filepath.Rel(s.Root, path)
	if err != nil {
		rel = path
	}

	info, err := d.Info()
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("scan:%s|%d|%d", rel, info.Size(), info.ModTime().UnixNano())

	if raw, ok, err := store.Get(ctx, key); err == nil && ok {
		var cached []graph.CardRecord
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		// Undecodable entry, fall through to a fresh parse.
	} else if err != nil {
		logger.Debug("cache read failed", "file", rel, "err", err)
	}

	text, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	recs, err := ParseNote(rel, string(text))
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(recs); err == nil {
		if err := store.Set(ctx, key, raw, scanTTL); err != nil {
			logger.Debug("cache write failed", "file", rel, "err", err)
		}
	}
	return recs, nil
}

// Notes returns the relative paths of all markdown notes under the vault
// root in lexical order, without parsing them. Used by diagnostics.
func (s *Scanner) Notes() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != s.Root {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".md") {
			rel, err := filepath.Rel(s.Root, path)
			if err != nil {
				rel = path
			}
			paths = append(paths, rel)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidVault, err, "walking vault")
	}
	sort.Strings(paths)
	return paths, nil
}
