// Package outline parses loosely indented outline text into a rooted tree.
//
// The input format is a pragmatic subset of Markdown: heading lines
// ("# Title"), ordered list items ("1. item"), and unordered list items
// ("- item", "* item", "+ item") with two spaces of indentation per nesting
// level. Anything else is ignored. Parsing never fails: malformed input
// degrades to a smaller tree, and input with no recognizable structure yields
// a single placeholder root.
//
// # Level Assignment
//
// Heading levels are taken literally from the marker count, with no
// monotonicity validation. List items derive their level from indentation
// (floor(spaces/2) + 2), except unindented bullets immediately following a
// heading, which attach one level below that heading. Parent assignment uses
// a stack of open nodes ordered by increasing level, so a node's level is
// always strictly greater than its parent's.
package outline

import (
	"bufio"
	"regexp"
	"strings"
)

// PlaceholderTitle is the content of synthetic roots: the wrapper inserted
// above multiple top-level nodes, and the placeholder returned for input
// with no parseable structure.
const PlaceholderTitle = "Mind Map"

// indentWidth is the number of leading spaces per nesting level.
const indentWidth = 2

// Node is a single entry in the parsed outline tree.
// Trees are built once by Parse and read-only afterward.
type Node struct {
	Content  string  `json:"content"`
	Level    int     `json:"level"`
	Children []*Node `json:"children,omitempty"`
}

// =============================================================================
// Parsing
// =============================================================================

// Parse converts outline text into a tree. It always returns a single
// well-formed root:
//   - no parseable lines → a childless placeholder root
//   - exactly one top-level node → that node
//   - multiple top-level nodes → a synthetic root wrapping them in order
//
// Callers can detect the degenerate case via len(root.Children) == 0
// together with root.Content == PlaceholderTitle.
func Parse(text string) *Node {
	var (
		roots []*Node
		stack []*Node // open nodes, strictly increasing level
		// Level of the most recent heading, so unindented bullets directly
		// below a heading nest under it. Reset by any non-heading,
		// non-bullet node.
		lastHeading int
	)

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t")
		if line == "" || strings.HasPrefix(line, "```") {
			continue
		}

		var (
			level     int
			content   string
			isHeading bool
			isBullet  bool
		)

		switch {
		case strings.HasPrefix(line, "#"):
			n := markerRun(line, '#')
			level = n
			content = strings.TrimSpace(line[n:])
			isHeading = true
			lastHeading = level // remembered even if the heading text is empty

		case isOrderedItem(line):
			indent := leadingWhitespace(line)
			level = indent/indentWidth + 2
			content = CleanInline(stripOrderedMarker(line))

		case isUnorderedItem(line):
			indent := leadingWhitespace(line)
			isBullet = true
			if indent == 0 && lastHeading > 0 {
				level = lastHeading + 1
			} else {
				level = indent/indentWidth + 2
			}
			content = CleanInline(stripUnorderedMarker(line))

		default:
			continue
		}

		if content == "" {
			continue
		}

		node := &Node{Content: content, Level: level}

		if !isHeading && !isBullet {
			lastHeading = 0
		}

		for len(stack) > 0 && stack[len(stack)-1].Level >= level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, node)
		} else {
			roots = append(roots, node)
		}
		stack = append(stack, node)
	}

	switch len(roots) {
	case 0:
		return &Node{Content: PlaceholderTitle, Level: 1}
	case 1:
		return roots[0]
	default:
		return &Node{Content: PlaceholderTitle, Level: 1, Children: roots}
	}
}

// =============================================================================
// Line Classification
// =============================================================================

// markerRun counts the leading run of marker characters in line.
func markerRun(line string, marker byte) int {
	n := 0
	for n < len(line) && line[n] == marker {
		n++
	}
	return n
}

// leadingWhitespace counts leading space and tab characters.
func leadingWhitespace(line string) int {
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return n
}

// isOrderedItem reports whether line is an ordered list item: optional
// indentation, one or more digits, a dot, then whitespace.
func isOrderedItem(line string) bool {
	rest := line[leadingWhitespace(line):]
	n := 0
	for n < len(rest) && rest[n] >= '0' && rest[n] <= '9' {
		n++
	}
	if n == 0 || n+1 >= len(rest) || rest[n] != '.' {
		return false
	}
	return rest[n+1] == ' ' || rest[n+1] == '\t'
}

// isUnorderedItem reports whether line is an unordered list item: optional
// indentation, a '-', '*' or '+' marker, then whitespace.
func isUnorderedItem(line string) bool {
	rest := line[leadingWhitespace(line):]
	if len(rest) < 2 {
		return false
	}
	switch rest[0] {
	case '-', '*', '+':
		return rest[1] == ' ' || rest[1] == '\t'
	}
	return false
}

// stripOrderedMarker removes indentation and the "<digits>." prefix.
func stripOrderedMarker(line string) string {
	rest := line[leadingWhitespace(line):]
	i := 0
	for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
		i++
	}
	return strings.TrimLeft(rest[i+1:], " \t") // skip the dot, then whitespace
}

// stripUnorderedMarker removes indentation and the bullet marker.
func stripUnorderedMarker(line string) string {
	rest := line[leadingWhitespace(line):]
	return strings.TrimLeft(rest[1:], " \t")
}

// =============================================================================
// Inline Cleaning
// =============================================================================

var (
	boldLabelRe = regexp.MustCompile(`\*\*(.*?)\*\*:\s*`)
	boldRe      = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRe    = regexp.MustCompile(`\*(.*?)\*`)
)

// CleanInline strips inline emphasis from list item content: "**Label**: "
// collapses to "Label: ", bold and italic wrappers are removed, and
// guillemet-style 《》 brackets are dropped.
func CleanInline(text string) string {
	text = boldLabelRe.ReplaceAllString(text, "$1: ")
	text = boldRe.ReplaceAllString(text, "$1")
	text = italicRe.ReplaceAllString(text, "$1")
	text = strings.ReplaceAll(text, "《", "")
	text = strings.ReplaceAll(text, "》", "")
	return strings.TrimSpace(text)
}

// =============================================================================
// Tree Measurement
// =============================================================================

// Depth returns the maximum depth of the tree rooted at n (1 for a leaf).
func (n *Node) Depth() int {
	max := 0
	for _, c := range n.Children {
		if d := c.Depth(); d > max {
			max = d
		}
	}
	return max + 1
}

// Size returns the total number of nodes in the tree rooted at n.
func (n *Node) Size() int {
	total := 1
	for _, c := range n.Children {
		total += c.Size()
	}
	return total
}

// MaxFanout returns the largest child count of any node in the tree.
func (n *Node) MaxFanout() int {
	max := len(n.Children)
	for _, c := range n.Children {
		if f := c.MaxFanout(); f > max {
			max = f
		}
	}
	return max
}

// Walk visits every node in the tree in document order, parents before
// children, calling fn with each node and its depth (1 for the root).
func (n *Node) Walk(fn func(node *Node, depth int)) {
	n.walk(1, fn)
}

func (n *Node) walk(depth int, fn func(node *Node, depth int)) {
	fn(n, depth)
	for _, c := range n.Children {
		c.walk(depth+1, fn)
	}
}
