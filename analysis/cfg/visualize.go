package cfg

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/cs-au-dk/dflow/utils/dot"
)

// DotGraph builds a DOT graph of the reachable blocks. Exceptional edges
// are dashed and labelled with their exception kind.
func (g *Cfg) DotGraph() *dot.DotGraph {
	G := &dot.DotGraph{
		Title: g.name,
		Options: map[string]string{
			"rankdir": "TB",
		},
	}

	blockToDotNode := make(map[Block]*dot.DotNode)
	for _, b := range g.Blocks() {
		attrs := dot.DotAttrs{}

		lines := []string{b.Label()}
		switch b := b.(type) {
		case *RegularBlock:
			for _, n := range b.contents {
				lines = append(lines, n.String())
			}
		case *ConditionalBlock:
			lines = append(lines, b.cond.String())
			attrs["shape"] = "diamond"
			attrs["fillcolor"] = "lightyellow"
		case *SpecialBlock:
			attrs["shape"] = "oval"
			attrs["fillcolor"] = "lightgrey"
		}
		attrs["label"] = strings.Join(lines, "\n")

		node := &dot.DotNode{ID: strconv.Itoa(b.ID()), Attrs: attrs}
		blockToDotNode[b] = node
		G.Nodes = append(G.Nodes, node)
	}

	addEdge := func(from, to Block, attrs dot.DotAttrs) {
		if to == nil {
			return
		}
		G.Edges = append(G.Edges, &dot.DotEdge{
			From:  blockToDotNode[from],
			To:    blockToDotNode[to],
			Attrs: attrs,
		})
	}

	for _, b := range g.Blocks() {
		switch b := b.(type) {
		case *RegularBlock:
			addEdge(b, b.succ, dot.DotAttrs{})
		case *ConditionalBlock:
			addEdge(b, b.then, dot.DotAttrs{"label": "then", "color": "darkgreen"})
			addEdge(b, b.els, dot.DotAttrs{"label": "else", "color": "red"})
		case *SpecialBlock:
			addEdge(b, b.succ, dot.DotAttrs{})
		}

		for _, kind := range b.ExceptionalKinds() {
			succ, _ := b.Exceptional(kind)
			addEdge(b, succ, dot.DotAttrs{"label": kind, "style": "dashed"})
		}
	}

	return G
}

// Visualize renders the CFG with Graphviz in the given format, e.g. svg or
// png, and returns the path of the produced image.
func (g *Cfg) Visualize(outfname, format string) (string, error) {
	var buf bytes.Buffer
	if err := g.DotGraph().WriteDot(&buf); err != nil {
		return "", fmt.Errorf("writing dot graph for %s: %w", g.name, err)
	}
	return dot.DotToImage(outfname, format, buf.Bytes())
}
