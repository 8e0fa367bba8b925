package node_test

import (
	"fmt"

	"github.com/go-drift/stage/pkg/deps"
	"github.com/go-drift/stage/pkg/geometry"
	"github.com/go-drift/stage/pkg/input"
	"github.com/go-drift/stage/pkg/node"
)

// Only the topmost of several overlapping listeners receives a click.
func ExampleContainer_MouseDown() {
	root := &node.Container{}
	for _, name := range []string{"back", "middle", "front"} {
		root.Add(&node.MouseArea{OnMouseDown: func(input.MouseEvent) {
			fmt.Println("clicked", name)
		}})
	}
	root.MouseDown(input.MouseEvent{Button: input.ButtonLeft, Position: geometry.V(10, 10)})
	// Output:
	// clicked front
}

func ExampleContainer_Load() {
	reg := deps.New()
	_ = deps.Store(reg, "stage", "title")

	title := &node.Func{}
	root := node.NewContainer(title)
	root.Load(reg)
	root.LoadComplete()

	name, _ := deps.Retrieve[string](title.Dependencies(), "title")
	fmt.Println(title.State(), name)
	// Output:
	// load-complete stage
}
