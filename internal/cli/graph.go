package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cardpath/cardpath/pkg/errors"
	"github.com/cardpath/cardpath/pkg/graph"
	"github.com/cardpath/cardpath/pkg/render"
)

// graphCommand creates the graph inspection command group.
func (c *CLI) graphCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Inspect the card dependency graph",
	}

	cmd.AddCommand(c.graphCheckCommand())
	cmd.AddCommand(c.graphLocalCommand())

	return cmd
}

// graphCheckCommand creates the "graph check" subcommand.
func (c *CLI) graphCheckCommand() *cobra.Command {
	var (
		vaultRoot string
		noCache   bool
		jsonOut   bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report graph health: cycles, unresolved references, isolated cards",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			scanner, err := c.newScanner(ctx, cfg, vaultRoot, noCache)
			if err != nil {
				return err
			}
			defer scanner.Cache.Close()

			g, err := c.buildGraph(ctx, scanner)
			if err != nil {
				return err
			}
			report := graph.Health(g)

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(report)
			}
			printHealth(report)
			if len(report.Cycles) > 0 {
				return errors.New(errors.ErrCodeInvalidInput, "dependency graph contains cycles")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&vaultRoot, "vault", "", "vault directory (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the vault scan cache")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the report as JSON")

	return cmd
}

func printHealth(report graph.Report) {
	fmt.Println(StyleTitle.Render("Graph health"))
	printKeyValue("cards", fmt.Sprintf("%d", report.Nodes))
	printKeyValue("edges", fmt.Sprintf("%d", report.Edges))
	printKeyValue("components", fmt.Sprintf("%d", len(report.Components)))
	printKeyValue("roots", fmt.Sprintf("%d", len(report.Roots)))

	if len(report.Cycles) == 0 && len(report.Unresolved) == 0 {
		printSuccess("No cycles, no unresolved references")
	}
	for _, cycle := range report.Cycles {
		printError("cycle: %s", strings.Join(cycle, " "+iconArrow+" "))
	}
	for source, targets := range report.Unresolved {
		printWarning("%s references missing cards: %s", source, strings.Join(targets, ", "))
	}
	if len(report.Isolated) > 0 {
		printDetail("%d isolated cards: %s", len(report.Isolated), strings.Join(report.Isolated, ", "))
	}
}

// graphLocalCommand creates the "graph local" subcommand.
func (c *CLI) graphLocalCommand() *cobra.Command {
	var (
		vaultRoot string
		noCache   bool
		depth     int
		maxNodes  int
		jsonOut   bool
		dotOut    bool
		svgPath   string
	)

	cmd := &cobra.Command{
		Use:   "local <card-id>",
		Short: "Show the dependency neighborhood around one card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			scanner, err := c.newScanner(ctx, cfg, vaultRoot, noCache)
			if err != nil {
				return err
			}
			defer scanner.Cache.Close()

			g, err := c.buildGraph(ctx, scanner)
			if err != nil {
				return err
			}

			centerID := args[0]
			local, ok := graph.LocalGraph(g, centerID, depth, maxNodes)
			if !ok {
				return errors.New(errors.ErrCodeCardNotFound, "card %q is not in the vault", centerID)
			}

			switch {
			case jsonOut:
				return json.NewEncoder(os.Stdout).Encode(local)
			case dotOut:
				fmt.Print(render.ToDOT(g, local, render.Options{Detailed: true}))
				return nil
			case svgPath != "":
				dot := render.ToDOT(g, local, render.Options{Detailed: true})
				svg, err := render.RenderSVG(ctx, dot)
				if err != nil {
					return err
				}
				if err := os.WriteFile(svgPath, svg, 0o644); err != nil {
					return err
				}
				printSuccess("Wrote neighborhood diagram")
				printFile(svgPath)
				return nil
			}
			printLocal(local)
			return nil
		},
	}

	cmd.Flags().StringVar(&vaultRoot, "vault", "", "vault directory (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the vault scan cache")
	cmd.Flags().IntVar(&depth, "depth", 2, "traversal depth")
	cmd.Flags().IntVar(&maxNodes, "max-nodes", 50, "soft cap on neighborhood size")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the neighborhood as JSON")
	cmd.Flags().BoolVar(&dotOut, "dot", false, "print Graphviz DOT to stdout")
	cmd.Flags().StringVar(&svgPath, "svg", "", "write an SVG diagram to this file")

	return cmd
}

func printLocal(local graph.LocalGraphResult) {
	title := local.Center.Title
	if title == "" {
		title = local.Center.ID
	}
	fmt.Println(StyleTitle.Render(title) + " " + StyleDim.Render("("+local.Center.ID+")"))
	if local.Center.FilePath != "" {
		printDetail("%s:%d", local.Center.FilePath, local.Center.Line)
	}

	printSection := func(name string, nodes []graph.CardNode) {
		if len(nodes) == 0 {
			return
		}
		fmt.Println()
		fmt.Println(StyleHighlight.Render(name))
		for _, n := range nodes {
			label := n.Title
			if label == "" {
				label = n.ID
			}
			fmt.Println("  " + StyleValue.Render(label) + " " + StyleDim.Render("("+n.ID+")"))
		}
	}
	printSection("Prerequisites", local.Prerequisites)
	printSection("Dependents", local.Dependents)
	printSection("Related", local.Related)

	for _, cycle := range local.Cycles {
		fmt.Println()
		printWarning("cycle through this card: %s", strings.Join(cycle, " "+iconArrow+" "))
	}
}
