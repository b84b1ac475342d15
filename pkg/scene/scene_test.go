package scene

import (
	"path/filepath"
	"testing"

	"github.com/matzehuels/mindtower/pkg/geometry"
)

func TestBranchColor(t *testing.T) {
	if got := BranchColor(0); got != BranchPalette[0] {
		t.Errorf("BranchColor(0) = %s, want %s", got, BranchPalette[0])
	}
	// Cycles past the palette end.
	n := len(BranchPalette)
	if got := BranchColor(n); got != BranchPalette[0] {
		t.Errorf("BranchColor(%d) = %s, want wrap to %s", n, got, BranchPalette[0])
	}
	if got := BranchColor(n + 3); got != BranchPalette[3] {
		t.Errorf("BranchColor(%d) = %s, want %s", n+3, got, BranchPalette[3])
	}
}

func TestXRange(t *testing.T) {
	radial := &Scene{Kind: KindRadial, AxisExtentX: 8}
	min, max := radial.XRange()
	if min != -8 || max != 8 {
		t.Errorf("radial XRange = [%v, %v], want [-8, 8]", min, max)
	}

	horizontal := &Scene{Kind: KindHorizontal, AxisExtentX: 12}
	min, max = horizontal.XRange()
	if min != HorizontalXMin || max != 12 {
		t.Errorf("horizontal XRange = [%v, %v], want [%v, 12]", min, max, HorizontalXMin)
	}
}

func TestYRange(t *testing.T) {
	s := &Scene{Kind: KindRadial, AxisExtentY: 6}
	min, max := s.YRange()
	if min != -6 || max != 6 {
		t.Errorf("YRange = [%v, %v], want [-6, 6]", min, max)
	}
}

func TestCurveDispatch(t *testing.T) {
	c := Connector{
		From: geometry.Point{X: 0, Y: 0},
		To:   geometry.Point{X: 4, Y: 1},
	}

	radial := &Scene{Kind: KindRadial}
	if got := len(radial.Curve(c)); got != 50 {
		t.Errorf("radial curve has %d points, want 50", got)
	}

	horizontal := &Scene{Kind: KindHorizontal}
	if got := len(horizontal.Curve(c)); got != 40 {
		t.Errorf("horizontal curve has %d points, want 40", got)
	}

	degenerate := Connector{From: geometry.Point{X: 1, Y: 1}, To: geometry.Point{X: 1, Y: 1}}
	if got := radial.Curve(degenerate); got != nil {
		t.Errorf("degenerate connector produced %d points, want nil", len(got))
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	s := &Scene{
		Kind: KindRadial,
		Nodes: []Node{
			{Content: "Root", X: 0, Y: 0, Depth: 1, Color: RootColor},
			{Content: "Child", X: 2.4, Y: 0, Depth: 2, Color: BranchPalette[0]},
		},
		Connectors: []Connector{
			{From: geometry.Point{}, To: geometry.Point{X: 2.4}, Color: BranchPalette[0], Width: 2.5},
		},
		CanvasWidth:  16,
		CanvasHeight: 15,
		AxisExtentX:  8,
		AxisExtentY:  8,
	}

	data, err := Marshal(s)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if got.Kind != s.Kind || len(got.Nodes) != 2 || len(got.Connectors) != 1 {
		t.Errorf("round trip lost structure: %+v", got)
	}
	if got.Nodes[1].Color != BranchPalette[0] {
		t.Errorf("round trip color = %s, want %s", got.Nodes[1].Color, BranchPalette[0])
	}
	if got.CanvasWidth != 16 || got.AxisExtentX != 8 {
		t.Errorf("round trip extents = %v/%v, want 16/8", got.CanvasWidth, got.AxisExtentX)
	}
}

func TestWriteReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.scene.json")
	s := &Scene{
		Kind:        KindHorizontal,
		Nodes:       []Node{{Content: "Root", Depth: 1, Color: RootColor}},
		AxisExtentX: 10,
		AxisExtentY: 6,
	}

	if err := WriteFile(path, s); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if got.Kind != KindHorizontal || len(got.Nodes) != 1 {
		t.Errorf("file round trip lost structure: %+v", got)
	}
}

func TestNodePosition(t *testing.T) {
	n := Node{X: 1.5, Y: -2}
	if p := n.Position(); p.X != 1.5 || p.Y != -2 {
		t.Errorf("Position = %v, want {1.5 -2}", p)
	}
}
