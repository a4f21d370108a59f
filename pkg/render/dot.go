// Package render turns local dependency neighborhoods into Graphviz
// diagrams: [ToDOT] emits DOT text, [RenderSVG] rasterizes it.
//
// Prerequisite edges are solid and point from a card to what it
// requires; related edges are dashed and carry no direction semantics
// beyond how they were declared. The center card is highlighted.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/cardpath/cardpath/pkg/graph"
)

// Options configures diagram rendering.
type Options struct {
	// Detailed includes file locations in node labels. When false,
	// only the card title (or id) is shown.
	Detailed bool
}

// ToDOT converts a local graph neighborhood to Graphviz DOT format.
// The resulting DOT string can be rendered with [RenderSVG].
func ToDOT(g *graph.DependencyGraph, local graph.LocalGraphResult, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph cards {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	members := map[string]bool{}
	var order []string
	emit := func(nodes []graph.CardNode) {
		for _, n := range nodes {
			if members[n.ID] {
				continue
			}
			members[n.ID] = true
			order = append(order, n.ID)
			attrs := fmtAttrs(n, n.ID == local.Center.ID, opts.Detailed)
			fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
		}
	}
	emit([]graph.CardNode{local.Center})
	emit(local.Prerequisites)
	emit(local.Dependents)
	emit(local.Related)

	buf.WriteString("\n")
	seen := map[string]bool{}
	for _, id := range order {
		for _, req := range g.Prerequisites(id) {
			edge := id + "->" + req
			if members[req] && !seen[edge] {
				seen[edge] = true
				fmt.Fprintf(&buf, "  %q -> %q;\n", id, req)
			}
		}
		for _, rel := range g.Related(id) {
			edge := id + "~>" + rel
			if members[rel] && !seen[edge] {
				seen[edge] = true
				fmt.Fprintf(&buf, "  %q -> %q [style=dashed, arrowhead=none];\n", id, rel)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(n graph.CardNode, center, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, detailed))}
	if center {
		attrs = append(attrs, "fillcolor=gold", "penwidth=2")
	}
	return attrs
}

func fmtLabel(n graph.CardNode, detailed bool) string {
	label := n.Title
	if label == "" {
		label = n.ID
	}
	if detailed && n.FilePath != "" {
		label += fmt.Sprintf("\n%s:%d", n.FilePath, n.Line)
	}
	return label
}
