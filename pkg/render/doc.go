// Package render turns computed scenes into output artifacts.
//
// # Overview
//
// This package contains the rendering backends that transform a
// [scene.Scene] into visual outputs. It provides:
//
//   - PNG rasterization with supersampled anti-aliasing ([RenderPNG])
//   - Standalone SVG documents ([RenderSVG])
//   - Graphviz node-link previews of the raw outline tree ([ToDOT],
//     [RenderDOTSVG])
//
// # Raster Output
//
// [RenderPNG] draws directly with an in-process 2D canvas, so no external
// conversion tool is required. Output is drawn at a supersampled resolution
// and downscaled with a Lanczos filter for smooth curves and text:
//
//	png, err := render.RenderPNG(s, render.WithDPI(150))
//
// # Vector Output
//
// [RenderSVG] emits the same scene as a standalone SVG document. Connector
// curves are sampled from the scene geometry, so vector and raster output
// stay visually identical.
//
// # Tree Previews
//
// [ToDOT] renders the parsed outline tree (before any layout runs) as a
// Graphviz node-link diagram, useful for debugging outline parsing:
//
//	dot := render.ToDOT(tree)
//	svg, err := render.RenderDOTSVG(dot)
//
// [scene.Scene]: github.com/matzehuels/mindtower/pkg/scene
package render
