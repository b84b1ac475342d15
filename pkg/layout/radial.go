package layout

import (
	"math"

	"github.com/matzehuels/mindtower/pkg/geometry"
	"github.com/matzehuels/mindtower/pkg/outline"
	"github.com/matzehuels/mindtower/pkg/scene"
)

// Canvas and placement constants for the radial engine. Canvas sizes are in
// abstract figure units and grow with tree shape up to fixed caps, so
// pathological trees cannot blow up the output size.
const (
	radialBaseSize  = 12.0
	radialMaxWidth  = 20.0
	radialMaxHeight = 16.0
	radialMaxExtent = 10.0

	radialBaseRadius  = 3.0
	radialDepthFactor = 0.3
	radialChildFactor = 0.05

	// A child subtree may claim at most this much arc, however wide its
	// parent's budget is.
	radialMaxChildArc = math.Pi / 3
)

// Radial arranges the tree around a center point. Depth-1 children spread
// evenly over the full circle; deeper children share a shrinking angular
// budget centered on their parent's own angle.
type Radial struct{}

// Kind returns scene.KindRadial.
func (Radial) Kind() string { return scene.KindRadial }

// Layout positions the tree radially around the origin.
func (Radial) Layout(root *outline.Node) *scene.Scene {
	depth := root.Depth()
	fanout := root.MaxFanout()
	if fanout < 1 {
		fanout = 1
	}

	extent := math.Min(radialMaxExtent,
		math.Max(8, math.Max(float64(depth)*2, float64(fanout))))

	s := &scene.Scene{
		Kind:         scene.KindRadial,
		CanvasWidth:  math.Min(radialBaseSize+float64(depth)*2, radialMaxWidth),
		CanvasHeight: math.Min(radialBaseSize+float64(fanout), radialMaxHeight),
		AxisExtentX:  extent,
		AxisExtentY:  extent,
	}

	r := radialPass{scene: s, extent: extent}
	r.place(root, geometry.Point{}, 1, 0, 2*math.Pi, scene.RootColor)
	return s
}

// radialPass carries the per-invocation state of one layout run.
type radialPass struct {
	scene  *scene.Scene
	extent float64
}

// place records node at center and recursively positions its children on a
// circle around it. parentAngle is the angle at which node itself was
// reached; angleRange is the arc budget this subtree may use. The branch
// color is chosen at the depth 1→2 edge and threaded down unchanged.
func (r *radialPass) place(node *outline.Node, center geometry.Point, depth int, parentAngle, angleRange float64, inherited string) {
	color := inherited
	if depth == 1 {
		color = scene.RootColor
	}
	r.scene.Nodes = append(r.scene.Nodes, scene.Node{
		Content: node.Content,
		X:       center.X,
		Y:       center.Y,
		Depth:   depth,
		Color:   color,
	})

	n := len(node.Children)
	if n == 0 {
		return
	}

	radius := radialBaseRadius + float64(depth)*radialDepthFactor + float64(n)*radialChildFactor
	radius = math.Min(radius, r.extent*0.3)

	var start, step float64
	switch {
	case n == 1:
		start = parentAngle // an only child keeps its parent's direction
	case depth == 1:
		start, step = 0, 2*math.Pi/float64(n)
	default:
		start = parentAngle - angleRange/2
		step = angleRange / float64(n-1)
	}

	for i, child := range node.Children {
		angle := start + float64(i)*step
		pos := geometry.Point{
			X: geometry.Clamp(center.X+radius*math.Cos(angle), -r.extent+1, r.extent-1),
			Y: geometry.Clamp(center.Y+radius*math.Sin(angle), -r.extent+1, r.extent-1),
		}

		branch := inherited
		if depth == 1 {
			branch = scene.BranchColor(i)
		}

		r.scene.Connectors = append(r.scene.Connectors, scene.Connector{
			From:  center,
			To:    pos,
			Color: branch,
			Width: math.Max(3-float64(depth)*0.5, minLineWidth),
		})

		childArc := 0.0
		if len(child.Children) > 0 {
			childArc = math.Min(radialMaxChildArc, angleRange/float64(n))
		}
		r.place(child, pos, depth+1, angle, childArc, branch)
	}
}
