package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cardpath/cardpath/pkg/graph"
	"github.com/cardpath/cardpath/pkg/queue"
)

// queueOpts holds the command-line flags for the queue command.
type queueOpts struct {
	vaultRoot      string   // override for the configured vault root
	due            []string // explicit due card ids, bypassing Anki
	deck           string   // Anki deck filter
	depth          int      // prerequisite traversal depth
	maxNodes       int      // cap on weak prerequisites
	includeRelated bool     // reserved; rejected by the queue builder
	noStats        bool     // skip the Anki stats fetch
	noCache        bool     // bypass the scan cache
	jsonOut        bool     // machine-readable output
	interactive    bool     // step through the queue in a TUI
}

// queueCommand creates the queue command.
func (c *CLI) queueCommand() *cobra.Command {
	var opts queueOpts

	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Build a study queue from due cards and their prerequisites",
		Long: `Build a study queue for what is currently due.

Due cards come from Anki (via AnkiConnect) unless --due provides explicit
card ids. Weak prerequisites of due cards are queued first, ordered so
that deeper prerequisites come before the cards that require them.

Examples:
  cardpath queue                          # due cards from Anki
  cardpath queue --deck Algebra           # one deck only
  cardpath queue --due card_ring          # explicit due set, no Anki needed
  cardpath queue --json                   # machine-readable output
  cardpath queue --interactive            # step through the queue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runQueue(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.vaultRoot, "vault", "", "vault directory (default from config)")
	cmd.Flags().StringSliceVar(&opts.due, "due", nil, "explicit due card ids (skips the Anki due lookup)")
	cmd.Flags().StringVar(&opts.deck, "deck", "", "Anki deck to search (default from config)")
	cmd.Flags().IntVar(&opts.depth, "depth", 0, "prerequisite depth (default from config)")
	cmd.Flags().IntVar(&opts.maxNodes, "max-nodes", 0, "maximum weak prerequisites to queue (default from config)")
	cmd.Flags().BoolVar(&opts.includeRelated, "include-related", false, "include related cards in the queue (not yet supported)")
	cmd.Flags().BoolVar(&opts.noStats, "no-stats", false, "skip review statistics; every prerequisite counts as weak")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the vault scan cache")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the queue as JSON")
	cmd.Flags().BoolVar(&opts.interactive, "interactive", false, "step through the queue interactively")

	return cmd
}

func (c *CLI) runQueue(cmd *cobra.Command, opts queueOpts) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	scanner, err := c.newScanner(ctx, cfg, opts.vaultRoot, opts.noCache)
	if err != nil {
		return err
	}
	defer scanner.Cache.Close()

	prog := newProgress(loggerFromContext(ctx))
	g, err := c.buildGraph(ctx, scanner)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Scanned vault: %d cards, %d edges", g.NodeCount(), g.EdgeCount()))

	deck := opts.deck
	if deck == "" {
		deck = cfg.Anki.Deck
	}

	dueIDs := opts.due
	var stats map[string]queue.CardStats
	if len(dueIDs) == 0 || !opts.noStats {
		client := c.newAnkiClient(cfg)
		spinner := newSpinnerWithContext(ctx, "Talking to Anki...")
		spinner.Start()

		if len(dueIDs) == 0 {
			dueIDs, err = client.DueCardIDs(ctx, deck)
			if err != nil {
				spinner.Stop()
				return err
			}
		}
		if !opts.noStats {
			stats, err = client.CardStats(ctx, deck)
			if err != nil {
				c.Logger.Warn("review stats unavailable, treating all prerequisites as weak", "err", err)
				stats = nil
			}
		}
		spinner.Stop()
	}

	if len(dueIDs) == 0 {
		printInfo("Nothing is due")
		return nil
	}

	qopts := queue.Options{
		Depth:          valueOr(opts.depth, cfg.Queue.Depth),
		MaxNodes:       valueOr(opts.maxNodes, cfg.Queue.MaxNodes),
		IncludeRelated: opts.includeRelated,
		Criteria:       cfg.Queue.Criteria(),
	}
	builder := &queue.Builder{Logger: c.Logger}
	result, err := builder.BuildGraph(ctx, g, dueIDs, qopts, stats)
	if err != nil {
		return err
	}

	if opts.jsonOut {
		return json.NewEncoder(os.Stdout).Encode(result)
	}
	if opts.interactive {
		return runQueueTUI(g, result)
	}
	printQueue(g, result)
	return nil
}

// printQueue renders the study queue for terminal display.
func printQueue(g *graph.DependencyGraph, result *queue.Result) {
	pos := 1
	if len(result.PrereqQueue) > 0 {
		fmt.Println(StyleTitle.Render("Prerequisites first"))
		for _, id := range result.PrereqQueue {
			printQueueItem(pos, cardTitle(g, id), id)
			pos++
		}
		fmt.Println()
	}

	fmt.Println(StyleTitle.Render("Due cards"))
	if len(result.MainQueue) == 0 {
		printDetail("none")
	}
	for _, id := range result.MainQueue {
		printQueueItem(pos, cardTitle(g, id), id)
		pos++
	}

	if len(result.SkippedStrong) > 0 {
		fmt.Println()
		printDetail("%d prerequisites already strong: %s",
			len(result.SkippedStrong), strings.Join(result.SkippedStrong, ", "))
	}
	if len(result.MissingPrereqs) > 0 {
		printWarning("%d prerequisites missing from the vault: %s",
			len(result.MissingPrereqs), strings.Join(result.MissingPrereqs, ", "))
	}
	for _, cycle := range result.Cycles {
		printWarning("dependency cycle: %s", strings.Join(cycle, " "+iconArrow+" "))
	}
}

func cardTitle(g *graph.DependencyGraph, id string) string {
	if node, ok := g.Node(id); ok {
		return node.Title
	}
	return id
}

func valueOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
