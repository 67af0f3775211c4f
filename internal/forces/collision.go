package forces

import (
	"math"

	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/quadtree"
)

// Collision pushes apart nodes whose padded circles overlap. Non-circular
// nodes use their radius, which Build derives from the larger side.
type Collision struct {
	Base

	Strength      float64
	RadiusPadding float64
}

func NewCollision() *Collision {
	return &Collision{Strength: 1, RadiusPadding: 5}
}

func (f *Collision) Execute(float64) {
	tree := f.ctx.Index
	if tree == nil {
		return
	}
	tree.ComputeLargestRadius(f.RadiusPadding)

	var (
		n *graph.Node
		r float64
	)
	visit := func(q quadtree.Quad) bool {
		if q.Leaf() {
			for e := range q.Entities {
				// each pair once
				if e.Index < n.Index {
					f.resolve(n, r, e)
				}
			}
			return true
		}
		reach := r + q.Radius()
		return q.X0 > n.X+reach || q.X1 < n.X-reach || q.Y0 > n.Y+reach || q.Y1 < n.Y-reach
	}

	for _, n = range f.nodes {
		r = n.Radius + f.RadiusPadding
		tree.TraverseTopBottom(visit)
	}
}

func (f *Collision) resolve(n *graph.Node, rn float64, e *graph.Node) {
	re := e.Radius + f.RadiusPadding
	combined := rn + re

	x, y := n.X-e.X, n.Y-e.Y
	d2 := x*x + y*y
	if d2 >= combined*combined {
		return
	}
	x, y, d2 = f.separate(x, y, d2)

	d := math.Sqrt(d2)
	force := (combined - d) / d * f.Strength
	fx, fy := x*force, y*force

	rn2, re2 := rn*rn, re*re
	share := re2 / (rn2 + re2)
	n.VX += fx * share
	n.VY += fy * share
	e.VX -= fx * (1 - share)
	e.VY -= fy * (1 - share)
}
