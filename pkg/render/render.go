package render

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/matzehuels/mindtower/pkg/errors"
	"github.com/matzehuels/mindtower/pkg/scene"
)

// Format identifies an output artifact format.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
	FormatDOT Format = "dot"

	// FormatDOTSVG runs the DOT preview through Graphviz in-process and
	// returns the resulting SVG document.
	FormatDOTSVG Format = "dot-svg"
)

// ValidFormats lists the supported output formats.
var ValidFormats = map[Format]bool{
	FormatPNG:    true,
	FormatSVG:    true,
	FormatDOT:    true,
	FormatDOTSVG: true,
}

// ParseFormat validates and normalizes a format string.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !ValidFormats[f] {
		return "", errors.New(errors.ErrCodeInvalidFormat,
			"unsupported format %q (valid: png, svg, dot, dot-svg)", s)
	}
	return f, nil
}

// DefaultDPI controls how many pixels one canvas unit occupies.
const DefaultDPI = 150.0

// transform maps scene coordinates to pixel coordinates. Scene Y grows
// upward; pixel Y grows downward, so the Y axis is flipped.
type transform struct {
	xMin, xMax float64
	yMin, yMax float64
	width      float64
	height     float64
}

func newTransform(s *scene.Scene, width, height float64) transform {
	xMin, xMax := s.XRange()
	yMin, yMax := s.YRange()
	return transform{
		xMin: xMin, xMax: xMax,
		yMin: yMin, yMax: yMax,
		width: width, height: height,
	}
}

func (t transform) px(x float64) float64 {
	return (x - t.xMin) / (t.xMax - t.xMin) * t.width
}

func (t transform) py(y float64) float64 {
	return (t.yMax - y) / (t.yMax - t.yMin) * t.height
}

// nodeFontSize shrinks label text with depth so outer nodes stay compact.
// The root sits at depth 1, so it renders at 12pt.
func nodeFontSize(depth int) float64 {
	size := 14.0 - 2.0*float64(depth)
	if size < 8 {
		size = 8
	}
	return size
}

// nodePadding shrinks box padding with depth.
func nodePadding(depth int) float64 {
	p := 8.0 - float64(depth)
	if p < 4 {
		p = 4
	}
	return p
}

// nodeBorderWidth is thicker for the root so it reads as the center.
func nodeBorderWidth(depth int) float64 {
	if depth == 1 {
		return 3
	}
	return 2
}

// parseHexColor converts "#RRGGBB" to normalized RGB components.
// Malformed input yields black, matching how browsers degrade.
func parseHexColor(hex string) (r, g, b float64) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0
	}
	var ri, gi, bi int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &ri, &gi, &bi); err != nil {
		return 0, 0, 0
	}
	return float64(ri) / 255, float64(gi) / 255, float64(bi) / 255
}

// estimateTextWidth approximates rendered label width in pixels without a
// font face. Wide (CJK) runes count as a full em, everything else as 0.6em.
// Used by the SVG backend where actual glyph metrics are unavailable.
func estimateTextWidth(text string, fontSize float64) float64 {
	var w float64
	for _, r := range text {
		if isWideRune(r) {
			w += fontSize
		} else {
			w += fontSize * 0.6
		}
	}
	return w
}

func isWideRune(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hangul, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r)
}
