package anki

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cardpath/cardpath/pkg/errors"
	"github.com/cardpath/cardpath/pkg/httputil"
	"github.com/cardpath/cardpath/pkg/observability"
	"github.com/cardpath/cardpath/pkg/queue"
)

const (
	// DefaultURL is AnkiConnect's standard listen address.
	DefaultURL = "http://127.0.0.1:8765"

	// apiVersion is the AnkiConnect API version this client speaks.
	apiVersion = 6

	// chunkSize bounds how many note ids go into a single request.
	chunkSize = 500

	// cardTagPrefix marks the note tag carrying the vault card id.
	cardTagPrefix = "card_"
)

// Client is an AnkiConnect API client. The zero value is usable and
// targets [DefaultURL].
type Client struct {
	// URL is the AnkiConnect endpoint. Defaults to [DefaultURL].
	URL string

	// HTTPClient defaults to a client with a 30 second timeout.
	HTTPClient *http.Client

	// Logger receives request diagnostics. Defaults to [log.Default].
	Logger *log.Logger
}

type envelope struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

func (c *Client) url() string {
	if c.URL != "" {
		return c.URL
	}
	return DefaultURL
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}

func (c *Client) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.Default()
}

// invoke performs one AnkiConnect action with retry and decodes the
// result into out (nil to discard).
func (c *Client) invoke(ctx context.Context, action string, params, out any) (err error) {
	payload := map[string]any{"action": action, "version": apiVersion}
	if params != nil {
		payload["params"] = params
	}

	start := time.Now()
	defer func() {
		observability.Anki().OnCall(ctx, action, time.Since(start), err)
	}()

	var env envelope
	err = httputil.RetryWithBackoff(ctx, func() error {
		env = envelope{}
		return httputil.PostJSON(ctx, c.httpClient(), c.url(), payload, &env)
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "anki-connect call %s", action)
	}
	if env.Error != nil {
		return errors.New(errors.ErrCodeNetwork, "anki-connect call %s: %s", action, *env.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "anki-connect call %s: decoding result", action)
	}
	return nil
}

// Ping verifies that AnkiConnect is reachable and speaks the expected
// API version.
func (c *Client) Ping(ctx context.Context) error {
	var version int
	if err := c.invoke(ctx, "version", nil, &version); err != nil {
		return err
	}
	if version < apiVersion {
		return errors.New(errors.ErrCodeNetwork,
			"anki-connect API version %d is older than required %d", version, apiVersion)
	}
	return nil
}

// DueCardIDs returns the vault card ids of all currently due notes, in
// the order AnkiConnect reports them. deck narrows the search to one
// deck; "" searches everywhere. Notes without a card tag are skipped.
func (c *Client) DueCardIDs(ctx context.Context, deck string) ([]string, error) {
	query := "is:due"
	if deck != "" {
		query = fmt.Sprintf("deck:%q %s", deck, query)
	}

	var nids []int64
	if err := c.invoke(ctx, "findNotes", map[string]any{"query": query}, &nids); err != nil {
		return nil, err
	}
	if len(nids) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(nids))
	for chunk := range chunks(nids) {
		var infos []noteInfo
		if err := c.invoke(ctx, "notesInfo", map[string]any{"notes": chunk}, &infos); err != nil {
			return nil, err
		}
		for _, info := range infos {
			if id, ok := cardTag(info.Tags); ok {
				ids = append(ids, id)
			}
		}
	}
	c.logger().Debug("resolved due cards", "notes", len(nids), "cards", len(ids))
	return ids, nil
}

type noteInfo struct {
	NoteID int64    `json:"noteId"`
	Tags   []string `json:"tags"`
}

type cardInfo struct {
	CardID   int64 `json:"cardId"`
	Note     int64 `json:"note"`
	Lapses   int   `json:"lapses"`
	Reps     int   `json:"reps"`
	Interval int   `json:"interval"`
}

type fsrsStat struct {
	CardID    int64    `json:"cardId"`
	Stability *float64 `json:"stability"`
}

// CardStats fetches review statistics for every tagged note, keyed by
// vault card id. deck narrows the search; "" covers the whole
// collection.
//
// A note can have several Anki cards (e.g. reverse templates). Stats are
// collapsed to the weakest view: minimum stability, maximum lapses,
// minimum reps and minimum interval, so that prerequisite gating errs
// toward reviewing.
//
// FSRS stability is fetched best-effort via getFSRSStats; if the action
// is unavailable the stats come back with nil Stability.
func (c *Client) CardStats(ctx context.Context, deck string) (map[string]queue.CardStats, error) {
	query := "tag:" + cardTagPrefix + "*"
	if deck != "" {
		query = fmt.Sprintf("deck:%q %s", deck, query)
	}

	var nids []int64
	if err := c.invoke(ctx, "findNotes", map[string]any{"query": query}, &nids); err != nil {
		return nil, err
	}
	if len(nids) == 0 {
		return map[string]queue.CardStats{}, nil
	}

	stats := make(map[string]queue.CardStats)
	for chunk := range chunks(nids) {
		if err := c.statsChunk(ctx, chunk, stats); err != nil {
			return nil, err
		}
	}
	return stats, nil
}

func (c *Client) statsChunk(ctx context.Context, nids []int64, stats map[string]queue.CardStats) error {
	var infos []noteInfo
	if err := c.invoke(ctx, "notesInfo", map[string]any{"notes": nids}, &infos); err != nil {
		return err
	}
	idByNote := make(map[int64]string, len(infos))
	for _, info := range infos {
		if id, ok := cardTag(info.Tags); ok {
			idByNote[info.NoteID] = id
		}
	}
	if len(idByNote) == 0 {
		return nil
	}

	terms := make([]string, 0, len(nids))
	for _, nid := range nids {
		terms = append(terms, fmt.Sprintf("nid:%d", nid))
	}
	var cids []int64
	if err := c.invoke(ctx, "findCards", map[string]any{"query": strings.Join(terms, " OR ")}, &cids); err != nil {
		return err
	}
	if len(cids) == 0 {
		return nil
	}

	var cards []cardInfo
	if err := c.invoke(ctx, "cardsInfo", map[string]any{"cards": cids}, &cards); err != nil {
		return err
	}
	stability := c.fsrsStability(ctx, cids)

	for _, card := range cards {
		id, ok := idByNote[card.Note]
		if !ok {
			continue
		}
		cur := queue.CardStats{
			Stability: stability[card.CardID],
			Lapses:    card.Lapses,
			Reps:      card.Reps,
			Interval:  card.Interval,
		}
		prev, seen := stats[id]
		if !seen {
			stats[id] = cur
			continue
		}
		stats[id] = weakest(prev, cur)
	}
	return nil
}

// fsrsStability returns per-card FSRS stability, or an empty map when
// the action is unsupported by the running Anki.
func (c *Client) fsrsStability(ctx context.Context, cids []int64) map[int64]*float64 {
	var results []fsrsStat
	if err := c.invoke(ctx, "getFSRSStats", map[string]any{"cards": cids}, &results); err != nil {
		c.logger().Debug("getFSRSStats unavailable", "err", err)
		return map[int64]*float64{}
	}
	out := make(map[int64]*float64, len(results))
	for _, r := range results {
		if r.Stability != nil {
			out[r.CardID] = r.Stability
		}
	}
	return out
}

// weakest merges two per-card stat views, keeping whichever value makes
// the card look most in need of review.
func weakest(a, b queue.CardStats) queue.CardStats {
	out := a
	if out.Stability == nil {
		out.Stability = b.Stability
	} else if b.Stability != nil && *b.Stability < *out.Stability {
		out.Stability = b.Stability
	}
	out.Lapses = max(out.Lapses, b.Lapses)
	out.Reps = min(out.Reps, b.Reps)
	out.Interval = min(out.Interval, b.Interval)
	return out
}

// cardTag returns the first tag carrying a vault card id.
func cardTag(tags []string) (string, bool) {
	for _, tag := range tags {
		if strings.HasPrefix(tag, cardTagPrefix) {
			return tag, true
		}
	}
	return "", false
}

// chunks yields nids in slices of at most chunkSize.
func chunks(nids []int64) func(func([]int64) bool) {
	return func(yield func([]int64) bool) {
		for i := 0; i < len(nids); i += chunkSize {
			end := min(i+chunkSize, len(nids))
			if !yield(nids[i:end]) {
				return
			}
		}
	}
}
