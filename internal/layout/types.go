package layout

import (
	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/quadtree"
)

// Component is a force or constraint plugged into a Simulation.
type Component interface {
	// Initialize binds the component to its filtered nodes and edges. It is
	// called on registration and again whenever the graph is replaced.
	Initialize(nodes []*graph.Node, edges []*graph.Edge, ctx Context)

	// Execute applies one tick at the given alpha, normally by writing
	// velocities.
	Execute(alpha float64)

	// Dismount releases anything the component holds, such as pins.
	Dismount()
}

// Context is handed to a component on initialization.
type Context struct {
	// Index covers every node of the graph, not only the bound ones, and is
	// rebuilt after each tick.
	Index *quadtree.Tree

	// Remove unregisters the component. Called from Execute, the removal
	// happens at the end of the running tick.
	Remove func()
}

type NodePredicate func(*graph.Node) bool

type EdgePredicate func(*graph.Edge) bool

type Event string

const (
	EventLoopStart Event = "layoutloopstart"
	EventUpdate    Event = "layoutupdate"
	EventLoopEnd   Event = "layoutloopend"
)

func (e Event) valid() bool {
	switch e {
	case EventLoopStart, EventUpdate, EventLoopEnd:
		return true
	}
	return false
}

// TargetState is one node destination for AnimateState. Nil sources start
// from the node's current position.
type TargetState struct {
	ID      string
	SourceX *float64
	SourceY *float64
	TargetX float64
	TargetY float64
}

// Position is a copied node position returned by Snapshot.
type Position struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

type binding struct {
	id       string
	instance Component
	nodePred NodePredicate
	edgePred EdgePredicate
	nodes    []*graph.Node
	edges    []*graph.Edge
}

func (b *binding) filter(g *graph.Graph) {
	b.nodes = g.Nodes
	if b.nodePred != nil {
		b.nodes = make([]*graph.Node, 0, len(g.Nodes))
		for _, n := range g.Nodes {
			if b.nodePred(n) {
				b.nodes = append(b.nodes, n)
			}
		}
	}

	b.edges = g.Edges
	if b.edgePred != nil {
		b.edges = make([]*graph.Edge, 0, len(g.Edges))
		for _, e := range g.Edges {
			if b.edgePred(e) {
				b.edges = append(b.edges, e)
			}
		}
	}
}
