package outline_test

import (
	"fmt"

	"github.com/matzehuels/mindtower/pkg/outline"
)

func ExampleParse() {
	root := outline.Parse(`# Trip
- Pack bags
- Book flights
  - Compare prices`)

	root.Walk(func(n *outline.Node, depth int) {
		for i := 1; i < depth; i++ {
			fmt.Print("  ")
		}
		fmt.Println(n.Content)
	})
	// Output:
	// Trip
	//   Pack bags
	//   Book flights
	//     Compare prices
}

func ExampleParse_placeholder() {
	// Input with no recognizable structure still yields a tree.
	root := outline.Parse("nothing here resembles an outline")
	fmt.Println(root.Content, len(root.Children))
	// Output: Mind Map 0
}

func ExampleCleanInline() {
	fmt.Println(outline.CleanInline("**Owner**: *Kim*"))
	// Output: Owner: Kim
}

func ExampleNode_Size() {
	root := outline.Parse("# Root\n- A\n- B\n  - B1")
	fmt.Println(root.Size(), root.Depth(), root.MaxFanout())
	// Output: 4 3 2
}
