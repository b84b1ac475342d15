package render

import (
	"bytes"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/matzehuels/mindtower/pkg/errors"
	"github.com/matzehuels/mindtower/pkg/fonts"
	"github.com/matzehuels/mindtower/pkg/scene"
)

// connectorAlpha softens branch curves so overlapping lines stay readable.
const connectorAlpha = 0.8

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	dpi         float64
	supersample float64
}

// WithDPI sets the output resolution in pixels per canvas unit (default 150).
func WithDPI(dpi float64) PNGOption {
	return func(r *pngRenderer) {
		if dpi > 0 {
			r.dpi = dpi
		}
	}
}

// WithSupersample sets the anti-aliasing oversampling factor (default 2.0).
// The image is drawn at this multiple of the target resolution and then
// downscaled with a Lanczos filter.
func WithSupersample(s float64) PNGOption {
	return func(r *pngRenderer) {
		if s >= 1 {
			r.supersample = s
		}
	}
}

// RenderPNG rasterizes a scene to a PNG image.
func RenderPNG(s *scene.Scene, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{dpi: DefaultDPI, supersample: 2.0}
	for _, opt := range opts {
		opt(&r)
	}

	finalW := int(s.CanvasWidth * r.dpi)
	finalH := int(s.CanvasHeight * r.dpi)
	if finalW <= 0 || finalH <= 0 {
		return nil, errors.New(errors.ErrCodeRender, "scene has empty canvas")
	}

	// Draw at supersampled resolution, downscale at the end.
	w := int(float64(finalW) * r.supersample)
	h := int(float64(finalH) * r.supersample)
	t := newTransform(s, float64(w), float64(h))

	// Pixel scale for strokes, padding, and corner radii.
	k := r.dpi / DefaultDPI * r.supersample

	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	// Connectors go down first so node boxes sit on top of them.
	for _, c := range s.Connectors {
		points := s.Curve(c)
		if len(points) == 0 {
			continue
		}
		cr, cg, cb := parseHexColor(c.Color)
		dc.SetRGBA(cr, cg, cb, connectorAlpha)
		dc.SetLineWidth(c.Width * k)
		dc.MoveTo(t.px(points[0].X), t.py(points[0].Y))
		for _, p := range points[1:] {
			dc.LineTo(t.px(p.X), t.py(p.Y))
		}
		dc.Stroke()
	}

	for _, n := range s.Nodes {
		if err := drawNode(dc, t, n, r.dpi, r.supersample, k); err != nil {
			return nil, err
		}
	}

	img := dc.Image()
	if r.supersample > 1 {
		img = imaging.Resize(img, finalW, finalH, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "encode PNG")
	}
	return buf.Bytes(), nil
}

func drawNode(dc *gg.Context, t transform, n scene.Node, dpi, ss, k float64) error {
	fontPt := nodeFontSize(n.Depth)
	face, err := fonts.Face(fontPt * dpi / 72 * ss)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)

	tw, th := dc.MeasureString(n.Content)
	pad := nodePadding(n.Depth) * k
	boxW := tw + 2*pad
	boxH := th + 2*pad

	cx := t.px(n.X)
	cy := t.py(n.Y)

	cr, cg, cb := parseHexColor(n.Color)

	dc.DrawRoundedRectangle(cx-boxW/2, cy-boxH/2, boxW, boxH, 5*k)
	dc.SetRGB(1, 1, 1)
	dc.FillPreserve()
	dc.SetRGB(cr, cg, cb)
	dc.SetLineWidth(nodeBorderWidth(n.Depth) * k)
	dc.Stroke()

	dc.DrawStringAnchored(n.Content, cx, cy, 0.5, 0.4)
	return nil
}
