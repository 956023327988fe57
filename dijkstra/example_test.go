package dijkstra_test

import (
	"fmt"

	"github.com/katalvlaran/lvroute/core"
	"github.com/katalvlaran/lvroute/dijkstra"
)

// ExampleEngine_ShortestPath builds a triangle and asks for the path 0→2.
func ExampleEngine_ShortestPath() {
	g := core.NewGraph()
	a := g.AddNode(0, 0)
	b := g.AddNode(3, 4)
	c := g.AddNode(6, 0)
	_ = g.Connect(a, b)
	_ = g.Connect(b, c)

	eng, err := dijkstra.New(g.Edges())
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	length, path := eng.ShortestPath(a, c)
	fmt.Println(length, path)

	// Output: 10 [0 1 2]
}
