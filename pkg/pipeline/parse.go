package pipeline

import (
	"github.com/matzehuels/mindtower/pkg/outline"
)

// ParseOutline parses outline text into a tree.
//
// Parsing never fails: unrecognized lines are skipped and an outline with no
// structure produces a placeholder root, so the caller always gets a tree.
// Validation of the input (size, presence) happens in
// [Options.ValidateForParse] before this is called.
func ParseOutline(opts Options) *outline.Node {
	return outline.Parse(opts.Outline)
}
