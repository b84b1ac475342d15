package render

import (
	"bytes"
	"context"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/mindtower/pkg/errors"
	"github.com/matzehuels/mindtower/pkg/geometry"
	"github.com/matzehuels/mindtower/pkg/outline"
	"github.com/matzehuels/mindtower/pkg/scene"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"png", FormatPNG, false},
		{"svg", FormatSVG, false},
		{"dot", FormatDOT, false},
		{"dot-svg", FormatDOTSVG, false},
		{"PNG", FormatPNG, false},
		{"  svg ", FormatSVG, false},
		{"jpeg", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseFormat(%q) should fail", tt.in)
			} else if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("ParseFormat(%q) error code = %s", tt.in, errors.GetCode(err))
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFormat(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	// A % in the input must survive into the message verbatim.
	_, err := ParseFormat("100%")
	if err == nil {
		t.Fatal("ParseFormat(100%) should fail")
	}
	if !strings.Contains(err.Error(), `"100%"`) || strings.Contains(err.Error(), "%!") {
		t.Errorf("percent input garbled the message: %v", err)
	}
}

func TestParseHexColor(t *testing.T) {
	r, g, b := parseHexColor("#FF6B6B")
	if math.Abs(r-1) > 0.01 || math.Abs(g-0x6B/255.0) > 0.01 || math.Abs(b-0x6B/255.0) > 0.01 {
		t.Errorf("parseHexColor(#FF6B6B) = %v, %v, %v", r, g, b)
	}

	r, g, b = parseHexColor("#000000")
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("parseHexColor(#000000) = %v, %v, %v", r, g, b)
	}

	// Malformed colors degrade to black
	for _, bad := range []string{"", "#FFF", "not-a-color", "#GGGGGG"} {
		r, g, b = parseHexColor(bad)
		if r != 0 || g != 0 || b != 0 {
			t.Errorf("parseHexColor(%q) = %v, %v, %v, want black", bad, r, g, b)
		}
	}
}

func TestEstimateTextWidth(t *testing.T) {
	// ASCII counts 0.6em per rune
	if got := estimateTextWidth("abcd", 10); got != 24 {
		t.Errorf("ASCII width = %v, want 24", got)
	}
	// CJK counts a full em per rune
	if got := estimateTextWidth("思维导图", 10); got != 40 {
		t.Errorf("CJK width = %v, want 40", got)
	}
	// Mixed
	if got := estimateTextWidth("图a", 10); got != 16 {
		t.Errorf("mixed width = %v, want 16", got)
	}
	if got := estimateTextWidth("", 10); got != 0 {
		t.Errorf("empty width = %v, want 0", got)
	}
}

func TestNodeSizing(t *testing.T) {
	// Font size tapers with depth and bottoms out at 8
	if got := nodeFontSize(1); got != 12 {
		t.Errorf("nodeFontSize(1) = %v, want 12", got)
	}
	if got := nodeFontSize(2); got != 10 {
		t.Errorf("nodeFontSize(2) = %v, want 10", got)
	}
	if got := nodeFontSize(10); got != 8 {
		t.Errorf("nodeFontSize(10) = %v, want floor 8", got)
	}

	if got := nodePadding(1); got != 7 {
		t.Errorf("nodePadding(1) = %v, want 7", got)
	}
	if got := nodePadding(10); got != 4 {
		t.Errorf("nodePadding(10) = %v, want floor 4", got)
	}
	if nodeBorderWidth(1) <= nodeBorderWidth(2) {
		t.Error("root border should be thicker than child borders")
	}
}

func TestTransform(t *testing.T) {
	s := &scene.Scene{Kind: scene.KindRadial, AxisExtentX: 10, AxisExtentY: 5}
	tr := newTransform(s, 200, 100)

	// Scene origin maps to the image center; Y is flipped.
	if got := tr.px(0); got != 100 {
		t.Errorf("px(0) = %v, want 100", got)
	}
	if got := tr.py(0); got != 50 {
		t.Errorf("py(0) = %v, want 50", got)
	}
	if got := tr.py(5); got != 0 {
		t.Errorf("py(top) = %v, want 0", got)
	}
	if got := tr.py(-5); got != 100 {
		t.Errorf("py(bottom) = %v, want 100", got)
	}
}

func testScene() *scene.Scene {
	return &scene.Scene{
		Kind: scene.KindRadial,
		Nodes: []scene.Node{
			{Content: "Root", X: 0, Y: 0, Depth: 1, Color: scene.RootColor},
			{Content: "A & B", X: 2.4, Y: 0, Depth: 2, Color: scene.BranchPalette[0]},
		},
		Connectors: []scene.Connector{
			{From: geometry.Point{}, To: geometry.Point{X: 2.4}, Color: scene.BranchPalette[0], Width: 2.5},
		},
		CanvasWidth:  12,
		CanvasHeight: 12,
		AxisExtentX:  8,
		AxisExtentY:  8,
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(testScene()))

	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg"`) {
		t.Error("missing SVG header")
	}
	if !strings.Contains(svg, "</svg>") {
		t.Error("missing closing tag")
	}
	// One path per connector, one rect per node plus the background
	if got := strings.Count(svg, "<path "); got != 1 {
		t.Errorf("got %d paths, want 1", got)
	}
	if got := strings.Count(svg, "<rect "); got != 3 {
		t.Errorf("got %d rects, want 3", got)
	}
	if !strings.Contains(svg, scene.BranchPalette[0]) {
		t.Error("branch color missing from output")
	}
	// Labels are XML-escaped
	if !strings.Contains(svg, "A &amp; B") {
		t.Error("label not escaped")
	}
	if strings.Contains(svg, ">A & B<") {
		t.Error("raw ampersand leaked into output")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	s := testScene()

	small := RenderSVG(s, WithSVGDPI(10))
	if !bytes.Contains(small, []byte(`width="120"`)) {
		t.Errorf("custom DPI not applied: %s", firstLine(small))
	}

	mono := RenderSVG(s, WithFontFamily("monospace"))
	if !bytes.Contains(mono, []byte(`font-family="monospace"`)) {
		t.Error("custom font family not applied")
	}
}

func TestRenderPNG(t *testing.T) {
	png, err := RenderPNG(testScene(), WithDPI(10), WithSupersample(1))
	if err != nil {
		t.Fatalf("RenderPNG error: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("output is not a PNG")
	}
}

func TestRenderPNGEmptyCanvas(t *testing.T) {
	s := &scene.Scene{Kind: scene.KindRadial}
	if _, err := RenderPNG(s); err == nil {
		t.Error("empty canvas should fail")
	} else if !errors.Is(err, errors.ErrCodeRender) {
		t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.ErrCodeRender)
	}
}

func TestToDOT(t *testing.T) {
	tree := outline.Parse("# Root\n- A\n  - A1\n- B")
	dot := ToDOT(tree)

	if !strings.HasPrefix(dot, "digraph mindmap {") {
		t.Error("missing digraph header")
	}
	if !strings.Contains(dot, "rankdir=LR") {
		t.Error("missing rankdir")
	}
	for _, label := range []string{`"Root"`, `"A"`, `"A1"`, `"B"`} {
		if !strings.Contains(dot, "label="+label) {
			t.Errorf("missing node label %s", label)
		}
	}

	// Root is dark with white text; branches take palette colors.
	if !strings.Contains(dot, `fillcolor="`+scene.RootColor+`", fontcolor=white`) {
		t.Error("root styling missing")
	}
	if !strings.Contains(dot, scene.BranchPalette[0]) || !strings.Contains(dot, scene.BranchPalette[1]) {
		t.Error("branch palette colors missing")
	}

	// A1 inherits A's branch color on both its node and its edge.
	if got := strings.Count(dot, scene.BranchPalette[0]); got < 3 {
		t.Errorf("branch color appears %d times, want node + inherited node + edges", got)
	}

	// One edge per parent→child pair
	if got := strings.Count(dot, "->"); got != 3 {
		t.Errorf("got %d edges, want 3", got)
	}
}

func TestRenderDOTSVG(t *testing.T) {
	tree := outline.Parse("# Root\n- A\n- B")
	svg, err := RenderDOTSVG(context.Background(), ToDOT(tree))
	if err != nil {
		t.Fatalf("RenderDOTSVG error: %v", err)
	}

	out := string(svg)
	if !strings.Contains(out, "<svg") {
		t.Errorf("output is not SVG: %s", firstLine(svg))
	}
	for _, label := range []string{"Root", "A", "B"} {
		if !strings.Contains(out, ">"+label+"<") {
			t.Errorf("label %q missing from rendered SVG", label)
		}
	}
	if strings.Contains(out, "pt\"") {
		t.Error("point-based dimensions survived normalization")
	}
}

func TestRenderDOTSVGInvalid(t *testing.T) {
	if _, err := RenderDOTSVG(context.Background(), "digraph {"); err == nil {
		t.Error("malformed DOT should fail")
	} else if !errors.Is(err, errors.ErrCodeRender) {
		t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.ErrCodeRender)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<?xml version="1.0"?>
<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg">
<g></g>
</svg>`)
	out := normalizeViewBox(in)

	if !bytes.Contains(out, []byte(`viewBox="0 0 100.00 50.00"`)) {
		t.Errorf("viewBox not rewritten: %s", out)
	}
	if bytes.Contains(out, []byte("100pt")) {
		t.Error("point-based width survived rewrite")
	}

	// SVG without a viewBox passes through untouched
	plain := []byte(`<svg><rect/></svg>`)
	if got := normalizeViewBox(plain); !bytes.Equal(got, plain) {
		t.Errorf("plain SVG modified: %s", got)
	}
}

func firstLine(b []byte) string {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}
