package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/mindtower/pkg/errors"
	"github.com/matzehuels/mindtower/pkg/outline"
	"github.com/matzehuels/mindtower/pkg/scene"
)

// ToDOT converts an outline tree to Graphviz DOT format for a quick
// node-link preview of the parsed structure, before any layout runs.
// The resulting DOT string can be rendered with [RenderDOTSVG].
//
// Nodes are colored the same way the layout engines color them: the root is
// dark grey, each top-level branch takes the next palette color, and deeper
// nodes inherit their branch color.
func ToDOT(root *outline.Node) string {
	var buf bytes.Buffer
	buf.WriteString("digraph mindmap {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	ids := map[*outline.Node]string{}
	colors := map[*outline.Node]string{}
	next := 0
	branch := 0

	root.Walk(func(n *outline.Node, depth int) {
		ids[n] = "n" + strconv.Itoa(next)
		next++

		switch depth {
		case 1:
			colors[n] = scene.RootColor
		case 2:
			colors[n] = scene.BranchColor(branch)
			branch++
		default:
			// Inherited color is resolved below via the parent edge pass.
		}
	})

	root.Walk(func(n *outline.Node, depth int) {
		color := colors[n]
		fontColor := "white"
		if depth > 1 {
			fontColor = "black"
		}
		fmt.Fprintf(&buf, "  %s [label=%q, fillcolor=%q, fontcolor=%s];\n",
			ids[n], n.Content, color, fontColor)
		for _, child := range n.Children {
			if _, ok := colors[child]; !ok {
				colors[child] = color
			}
		}
	})

	buf.WriteString("\n")
	root.Walk(func(n *outline.Node, depth int) {
		for _, child := range n.Children {
			fmt.Fprintf(&buf, "  %s -> %s [color=%q];\n", ids[n], ids[child], colors[child])
		}
	})

	buf.WriteString("}\n")
	return buf.String()
}

// RenderDOTSVG renders a DOT graph to SVG using Graphviz.
func RenderDOTSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "render DOT")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the Graphviz SVG header so the document scales
// cleanly when embedded. Graphviz emits point-based width/height attributes
// that fight with CSS sizing.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
