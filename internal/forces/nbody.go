package forces

import (
	"math"

	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/quadtree"
)

// NBody approximates all-pairs repulsion with the Barnes-Hut opening
// criterion over the simulation's index. Distant quadrants act as a single
// body at their centroid.
type NBody struct {
	Base

	// Theta trades accuracy for speed. A quadrant of width w at distance d
	// is approximated when w²/Theta < d². Zero forces exact evaluation.
	Theta float64

	// DistanceMin softens the force at short range; DistanceMax ignores
	// bodies beyond it.
	DistanceMin float64
	DistanceMax float64

	// Repulse pushes bodies apart; false attracts them.
	Repulse bool

	// Strength scales the quadrant mass.
	Strength float64
}

func NewNBody() *NBody {
	return &NBody{
		Theta:       1.1,
		DistanceMin: 1,
		DistanceMax: math.Inf(1),
		Repulse:     true,
		Strength:    1,
	}
}

func (f *NBody) Execute(alpha float64) {
	tree := f.ctx.Index
	if tree == nil {
		return
	}
	tree.ComputeMass()

	minD2 := f.DistanceMin * f.DistanceMin
	maxD2 := f.DistanceMax * f.DistanceMax
	k := alpha * f.Strength
	if f.Repulse {
		k = -k
	}

	apply := func(n *graph.Node, x, y, d2, mass float64) {
		force := k * mass / d2
		n.VX += x * force
		n.VY += y * force
	}

	var n *graph.Node
	visit := func(q quadtree.Quad) bool {
		mass := q.Mass()
		if mass == 0 {
			return true
		}

		cx, cy := q.Centroid()
		x, y := cx-n.X, cy-n.Y
		d2 := x*x + y*y

		if w := q.Width(); w*w/f.Theta < d2 {
			if d2 < maxD2 {
				x, y, d2 = f.soften(x, y, d2, minD2)
				apply(n, x, y, d2, mass)
			}
			return true
		}

		if !q.Leaf() || d2 >= maxD2 {
			return false
		}
		if q.Entity() == n && !q.Chained() {
			return true
		}

		x, y, d2 = f.soften(x, y, d2, minD2)
		for e := range q.Entities {
			if e != n {
				apply(n, x, y, d2, e.Mass)
			}
		}
		return true
	}

	for _, n = range f.nodes {
		tree.TraverseTopBottom(visit)
	}
}

func (f *NBody) soften(x, y, d2, minD2 float64) (float64, float64, float64) {
	x, y, d2 = f.separate(x, y, d2)
	if d2 < minD2 {
		d2 = math.Sqrt(minD2 * d2)
	}
	return x, y, d2
}
