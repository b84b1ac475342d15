package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/mindtower/pkg/scene"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	dpi        float64
	fontFamily string
}

// WithSVGDPI sets the pixel density used to size the SVG document (default 150).
func WithSVGDPI(dpi float64) SVGOption {
	return func(r *svgRenderer) {
		if dpi > 0 {
			r.dpi = dpi
		}
	}
}

// WithFontFamily overrides the CSS font-family used for node labels.
func WithFontFamily(family string) SVGOption {
	return func(r *svgRenderer) { r.fontFamily = family }
}

// RenderSVG emits a scene as a standalone SVG document.
// Connector curves are sampled from the scene geometry, so the output matches
// the PNG backend visually.
func RenderSVG(s *scene.Scene, opts ...SVGOption) []byte {
	r := svgRenderer{dpi: DefaultDPI, fontFamily: "sans-serif"}
	for _, opt := range opts {
		opt(&r)
	}

	w := s.CanvasWidth * r.dpi
	h := s.CanvasHeight * r.dpi
	t := newTransform(s, w, h)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="#FFFFFF"/>`+"\n")

	for _, c := range s.Connectors {
		renderConnectorPath(&buf, s, t, c)
	}
	for _, n := range s.Nodes {
		renderNodeBox(&buf, t, n, r.fontFamily)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderConnectorPath(buf *bytes.Buffer, s *scene.Scene, t transform, c scene.Connector) {
	points := s.Curve(c)
	if len(points) == 0 {
		return
	}

	var d strings.Builder
	fmt.Fprintf(&d, "M %.2f %.2f", t.px(points[0].X), t.py(points[0].Y))
	for _, p := range points[1:] {
		fmt.Fprintf(&d, " L %.2f %.2f", t.px(p.X), t.py(p.Y))
	}

	fmt.Fprintf(buf, `  <path d="%s" fill="none" stroke="%s" stroke-width="%.1f" stroke-opacity="%.1f" stroke-linecap="round"/>`+"\n",
		d.String(), c.Color, c.Width, connectorAlpha)
}

func renderNodeBox(buf *bytes.Buffer, t transform, n scene.Node, fontFamily string) {
	fontSize := nodeFontSize(n.Depth)
	pad := nodePadding(n.Depth)

	tw := estimateTextWidth(n.Content, fontSize)
	boxW := tw + 2*pad
	boxH := fontSize + 2*pad

	cx := t.px(n.X)
	cy := t.py(n.Y)

	fmt.Fprintf(buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="5" fill="#FFFFFF" stroke="%s" stroke-width="%.0f"/>`+"\n",
		cx-boxW/2, cy-boxH/2, boxW, boxH, n.Color, nodeBorderWidth(n.Depth))
	fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-family="%s" font-size="%.0f" fill="%s" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
		cx, cy, fontFamily, fontSize, n.Color, escapeXML(n.Content))
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
