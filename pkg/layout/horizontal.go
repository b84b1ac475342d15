package layout

import (
	"math"

	"github.com/matzehuels/mindtower/pkg/geometry"
	"github.com/matzehuels/mindtower/pkg/outline"
	"github.com/matzehuels/mindtower/pkg/scene"
)

// Canvas and placement constants for the horizontal engine.
const (
	horizontalBaseWidth  = 16.0
	horizontalBaseHeight = 10.0
	horizontalMaxWidth   = 24.0
	horizontalMaxHeight  = 14.0
	horizontalMaxXLimit  = 12.0
	horizontalMaxYLimit  = 8.0

	horizontalRootX = -2.0

	horizontalBaseSpacing = 3.0
	horizontalMaxSpacing  = 3.0

	// Hard cap on availableHeight/childCount before horizontalMaxSpacing
	// applies.
	horizontalSpacingCap = 4.0
)

// Horizontal arranges the tree left to right: depth maps to increasing X,
// siblings spread along Y within a height budget inherited from the parent.
//
// When the next column would pass the usable X range, recursion stops: the
// cut-off child is still placed and labeled at the boundary column, but its
// own children are not laid out. This truncation is deliberate and specific
// to this engine; the radial engine always recurses.
type Horizontal struct{}

// Kind returns scene.KindHorizontal.
func (Horizontal) Kind() string { return scene.KindHorizontal }

// Layout positions the tree left to right starting near the left edge.
func (Horizontal) Layout(root *outline.Node) *scene.Scene {
	depth := root.Depth()
	total := root.Size()

	xLimit := math.Min(horizontalMaxXLimit, math.Max(10, float64(depth)*3))
	yLimit := math.Min(horizontalMaxYLimit, math.Max(6, float64(total/4)))

	s := &scene.Scene{
		Kind:         scene.KindHorizontal,
		CanvasWidth:  math.Min(horizontalBaseWidth+float64(depth)*3, horizontalMaxWidth),
		CanvasHeight: math.Min(horizontalBaseHeight+float64(total)*0.3, horizontalMaxHeight),
		AxisExtentX:  xLimit,
		AxisExtentY:  yLimit,
	}

	h := horizontalPass{scene: s, xLimit: xLimit, yLimit: yLimit}
	h.place(root, geometry.Point{X: horizontalRootX, Y: 0}, 1, yLimit*2, scene.RootColor)
	return s
}

// horizontalPass carries the per-invocation state of one layout run.
type horizontalPass struct {
	scene  *scene.Scene
	xLimit float64
	yLimit float64
}

// place records node at pos and recursively positions its children one
// column to the right. availHeight is the vertical band this subtree may
// use. It returns the node's reported Y: the midpoint of its children's
// reported Ys, so ancestors appear vertically balanced around their
// descendants rather than around literal input order.
func (h *horizontalPass) place(node *outline.Node, pos geometry.Point, depth int, availHeight float64, inherited string) float64 {
	color := inherited
	if depth == 1 {
		color = scene.RootColor
	}
	h.scene.Nodes = append(h.scene.Nodes, scene.Node{
		Content: node.Content,
		X:       pos.X,
		Y:       pos.Y,
		Depth:   depth,
		Color:   color,
	})

	n := len(node.Children)
	if n == 0 {
		return pos.Y
	}

	// rawX is where the children's column wants to be. Placement caps it at
	// xLimit-1 so labels stay on canvas; the truncation decision below uses
	// the uncapped position.
	rawX := pos.X + horizontalBaseSpacing + float64(depth)*0.5
	nextX := rawX
	if nextX > h.xLimit-1 {
		nextX = h.xLimit - 1
	}

	var spacing float64
	ys := make([]float64, n)
	if n == 1 {
		ys[0] = pos.Y
	} else {
		spacing = math.Min(math.Min(availHeight/float64(n), horizontalSpacingCap), horizontalMaxSpacing)
		top := pos.Y + float64(n-1)*spacing/2
		for i := range ys {
			ys[i] = geometry.Clamp(top-float64(i)*spacing, -h.yLimit+0.5, h.yLimit-0.5)
		}
	}

	minY, maxY := math.Inf(1), math.Inf(-1)
	for i, child := range node.Children {
		branch := inherited
		if depth == 1 {
			branch = scene.BranchColor(i)
		}

		h.scene.Connectors = append(h.scene.Connectors, scene.Connector{
			From:  pos,
			To:    geometry.Point{X: nextX, Y: ys[i]},
			Color: branch,
			Width: math.Max(2.5-float64(depth)*0.2, minLineWidth),
		})

		childHeight := availHeight * 0.6
		if n > 1 {
			childHeight = math.Max(spacing*0.8, 1.0)
		}

		var reported float64
		if rawX < h.xLimit-0.5 {
			reported = h.place(child, geometry.Point{X: nextX, Y: ys[i]}, depth+1, childHeight, branch)
		} else {
			// Out of horizontal room: label the child at the boundary
			// column but do not lay out its subtree.
			h.scene.Nodes = append(h.scene.Nodes, scene.Node{
				Content: child.Content,
				X:       nextX,
				Y:       ys[i],
				Depth:   depth + 1,
				Color:   branch,
			})
			reported = ys[i]
		}
		minY = math.Min(minY, reported)
		maxY = math.Max(maxY, reported)
	}

	return (minY + maxY) / 2
}
