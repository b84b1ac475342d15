package pipeline

import (
	"github.com/matzehuels/mindtower/pkg/layout"
	"github.com/matzehuels/mindtower/pkg/outline"
	"github.com/matzehuels/mindtower/pkg/scene"
)

// ComputeScene runs the layout engine selected by opts.Kind over a tree.
func ComputeScene(tree *outline.Node, opts Options) (*scene.Scene, error) {
	return layout.Compute(tree, opts.Kind)
}
