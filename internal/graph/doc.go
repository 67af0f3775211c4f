// Package graph provides the node and edge records shared by every layout
// component, plus the initializer that turns loosely specified input into a
// fully resolved graph.
//
//   - [NodeSpec], [EdgeSpec]: input records with optional fields
//   - [Node], [Edge]: runtime records mutated by the simulation
//   - [Build]: fills defaults, resolves edge endpoints, rejects broken edges
//
// # Example
//
//	g, err := graph.Build(nodes, edges, graph.DefaultDefaults())
//	if errors.Is(err, graph.ErrBrokenEdge) {
//	    // an edge points at an unknown node id
//	}
//
// # Thread Safety
//
// Nodes are plain structs owned by the simulation that built them. They are
// NOT safe to mutate from other goroutines while a layout loop is running.
package graph
