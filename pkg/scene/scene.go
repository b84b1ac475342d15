// Package scene defines the renderer-agnostic description of a computed
// mind map: positioned label nodes, parent→child connectors, and the canvas
// and axis extents the layout engine chose.
//
// Scene is the canonical serialization format used for CLI output, caching,
// archiving, and as the sole input to every renderer. The format is
// human-readable and round-trips through JSON without loss.
package scene

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/mindtower/pkg/geometry"
)

// Layout kinds.
const (
	KindRadial     = "radial"
	KindHorizontal = "horizontal"
)

// ValidKinds is the set of supported layout kinds.
var ValidKinds = map[string]bool{
	KindRadial:     true,
	KindHorizontal: true,
}

// HorizontalXMin is the left edge of the horizontal layout's coordinate
// range. The radial layout is symmetric around the origin; the horizontal
// layout starts slightly left of it so the root label has room.
const HorizontalXMin = -3.0

// =============================================================================
// Colors
// =============================================================================

// RootColor is the neutral color of the root node and its label box.
const RootColor = "#333333"

// BranchPalette is the fixed categorical palette for top-level branches.
// A branch's color is chosen by sibling order at depth 1 and inherited
// unchanged by the branch's entire subtree.
var BranchPalette = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FECA57", "#FF9FF3",
	"#54A0FF", "#5F27CD", "#00D2D3", "#FF9F43", "#EE5A24", "#0984E3",
}

// BranchColor returns the palette color for the i-th depth-1 branch,
// cycling when i exceeds the palette size.
func BranchColor(i int) string {
	return BranchPalette[i%len(BranchPalette)]
}

// =============================================================================
// Scene Types
// =============================================================================

// Node is a positioned, colored label box.
type Node struct {
	Content string  `json:"content" bson:"content"`
	X       float64 `json:"x" bson:"x"`
	Y       float64 `json:"y" bson:"y"`
	// Depth is the distance from the root (1 for the root itself). It is
	// decoupled from the parse-time level: after a synthetic root is
	// inserted, former top-level nodes sit at depth 2 regardless of their
	// original heading markers.
	Depth int    `json:"depth" bson:"depth"`
	Color string `json:"color" bson:"color"`
}

// Position returns the node's location as a geometry point.
func (n Node) Position() geometry.Point {
	return geometry.Point{X: n.X, Y: n.Y}
}

// Connector is a parent→child edge. Color equals the child's branch color;
// Width never increases with depth and never drops below 1.
type Connector struct {
	From  geometry.Point `json:"from" bson:"from"`
	To    geometry.Point `json:"to" bson:"to"`
	Color string         `json:"color" bson:"color"`
	Width float64        `json:"width" bson:"width"`
}

// Scene is the complete description of one computed diagram.
type Scene struct {
	Kind       string      `json:"kind" bson:"kind"`
	Nodes      []Node      `json:"nodes" bson:"nodes"`
	Connectors []Connector `json:"connectors,omitempty" bson:"connectors,omitempty"`

	// Canvas size in abstract figure units; renderers multiply by their DPI.
	CanvasWidth  float64 `json:"canvas_width" bson:"canvas_width"`
	CanvasHeight float64 `json:"canvas_height" bson:"canvas_height"`

	// Axis extents bound node positions: radial scenes use
	// [-AxisExtentX, AxisExtentX] × [-AxisExtentY, AxisExtentY], horizontal
	// scenes use [HorizontalXMin, AxisExtentX] × [-AxisExtentY, AxisExtentY].
	AxisExtentX float64 `json:"axis_extent_x" bson:"axis_extent_x"`
	AxisExtentY float64 `json:"axis_extent_y" bson:"axis_extent_y"`
}

// XRange returns the horizontal coordinate range covered by the scene.
func (s *Scene) XRange() (min, max float64) {
	if s.Kind == KindHorizontal {
		return HorizontalXMin, s.AxisExtentX
	}
	return -s.AxisExtentX, s.AxisExtentX
}

// YRange returns the vertical coordinate range covered by the scene.
func (s *Scene) YRange() (min, max float64) {
	return -s.AxisExtentY, s.AxisExtentY
}

// Curve returns the sampled connector curve for c under the scene's layout
// kind. Returns nil for degenerate (coincident-endpoint) connectors.
func (s *Scene) Curve(c Connector) []geometry.Point {
	if s.Kind == KindHorizontal {
		return geometry.HorizontalCurve(c.From, c.To)
	}
	return geometry.RadialCurve(c.From, c.To)
}

// =============================================================================
// Serialization
// =============================================================================

// Marshal serializes a scene to indented JSON.
func Marshal(s *Scene) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Unmarshal deserializes JSON bytes into a scene.
func Unmarshal(data []byte) (*Scene, error) {
	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Read reads a JSON scene from r.
func Read(r io.Reader) (*Scene, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

// ReadFile reads a JSON scene from path.
func ReadFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

// WriteFile writes a scene to path as indented JSON.
func WriteFile(path string, s *Scene) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
