// Package layout computes mind map geometry from an outline tree.
//
// Two engines share the tree model, the color inheritance rules, and the
// connector rules, and differ only in coordinate math:
//
//   - Radial: branches arranged around a center, each subtree confined to a
//     shrinking angular budget.
//   - Horizontal: depth maps to increasing X, siblings distributed along Y
//     inside an inherited height budget.
//
// Both are single-pass recursive traversals: positions are final on first
// computation, with no backtracking or iterative relaxation. Layout never
// fails for any tree the outline parser can produce; a childless root is a
// valid one-node scene.
package layout

import (
	"github.com/matzehuels/mindtower/pkg/errors"
	"github.com/matzehuels/mindtower/pkg/outline"
	"github.com/matzehuels/mindtower/pkg/scene"
)

// Engine computes a scene from an outline tree. Engines are stateless and
// safe for concurrent use; every call operates on its own scene.
type Engine interface {
	// Kind returns the layout kind constant this engine implements.
	Kind() string

	// Layout positions every node of the tree and records one connector per
	// parent→child edge.
	Layout(root *outline.Node) *scene.Scene
}

// New returns the engine for the given layout kind.
func New(kind string) (Engine, error) {
	switch kind {
	case scene.KindRadial:
		return Radial{}, nil
	case scene.KindHorizontal:
		return Horizontal{}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidLayout,
			"invalid layout kind: %q (must be %q or %q)", kind, scene.KindRadial, scene.KindHorizontal)
	}
}

// Compute is a convenience wrapper: it selects the engine for kind and lays
// out the tree.
func Compute(root *outline.Node, kind string) (*scene.Scene, error) {
	eng, err := New(kind)
	if err != nil {
		return nil, err
	}
	return eng.Layout(root), nil
}

// Connector line widths taper with depth but never drop below this floor.
const minLineWidth = 1.0
