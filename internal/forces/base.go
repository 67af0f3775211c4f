// Package forces provides force components for layout simulations.
//
// Every component implements [layout.Component]. Most forces write node
// velocities and leave integration to the simulation; constraint forces such
// as [Center] and [BoundingBox] move positions directly, and positional
// forces such as [Fan] and [Matrix] pin nodes.
//
//   - [NBody]: hierarchical long-range repulsion (or attraction)
//   - [Collision]: separates overlapping circles
//   - [Link]: springs along edges
//   - [Attraction], [Center], [Cluster], [Radial], [Grid]: shaping forces
//   - [BoundingBox]: clamps positions into a box
//   - [Fan], [Matrix]: pin nodes to fixed formations
//   - [Animation]: moves nodes to destinations and removes itself
//   - [FruchtermanReingold]: classic all-pairs layout force
//   - [Func], [BarnesHut]: adapters for external forces
package forces

import (
	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/layout"
	"github.com/san-kum/forcegraph/internal/lcg"
)

// Base holds what every component receives on initialization. Embedding it
// provides default Initialize and Dismount methods.
type Base struct {
	nodes []*graph.Node
	edges []*graph.Edge
	ctx   layout.Context
	rng   *lcg.Source
}

func (b *Base) Initialize(nodes []*graph.Node, edges []*graph.Edge, ctx layout.Context) {
	b.nodes = nodes
	b.edges = edges
	b.ctx = ctx
	if b.rng == nil {
		b.rng = lcg.New()
	}
}

func (b *Base) Dismount() {}

func (b *Base) jitter() float64 {
	if b.rng == nil {
		b.rng = lcg.New()
	}
	return b.rng.Jitter()
}

// separate replaces zero axis deltas with jitter and returns the adjusted
// squared distance.
func (b *Base) separate(x, y, d2 float64) (float64, float64, float64) {
	if x == 0 {
		x = b.jitter()
		d2 += x * x
	}
	if y == 0 {
		y = b.jitter()
		d2 += y * y
	}
	return x, y, d2
}

func (b *Base) averagePosition() (float64, float64) {
	if len(b.nodes) == 0 {
		return 0, 0
	}
	var x, y float64
	for _, n := range b.nodes {
		x += n.X
		y += n.Y
	}
	count := float64(len(b.nodes))
	return x / count, y / count
}

func releasePins(nodes []*graph.Node) {
	for _, n := range nodes {
		n.Unpin()
	}
}
