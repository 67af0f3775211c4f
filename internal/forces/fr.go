package forces

import (
	"math"

	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/layout"
)

// FruchtermanReingold is the classic O(n²) force-directed layout: every pair
// repels with k²/d, edges attract with d²/k and a weak gravity pulls toward
// the origin. The displacement is speed-limited and fed into velocity.
type FruchtermanReingold struct {
	Base

	// Size is the layout area. Zero uses 20000 per node.
	Size    float64
	Speed   float64
	Gravity float64

	slot map[*graph.Node]int
	dx   []float64
	dy   []float64
}

func NewFruchtermanReingold() *FruchtermanReingold {
	return &FruchtermanReingold{Speed: 0.1, Gravity: 0.75}
}

func (f *FruchtermanReingold) Initialize(nodes []*graph.Node, edges []*graph.Edge, ctx layout.Context) {
	f.Base.Initialize(nodes, edges, ctx)
	f.slot = make(map[*graph.Node]int, len(nodes))
	for i, n := range nodes {
		f.slot[n] = i
	}
	f.dx = make([]float64, len(nodes))
	f.dy = make([]float64, len(nodes))
}

func (f *FruchtermanReingold) Execute(alpha float64) {
	count := len(f.nodes)
	if count == 0 {
		return
	}

	area := f.Size
	if area <= 0 {
		area = float64(count) * 20000
	}
	maxDisplace := math.Sqrt(area) / 10
	k := math.Sqrt(area / float64(1+count))

	clear(f.dx)
	clear(f.dy)

	for i, a := range f.nodes {
		for j, b := range f.nodes {
			if i == j {
				continue
			}
			x, y := a.X-b.X, a.Y-b.Y
			d := math.Sqrt(x*x+y*y) + 0.01
			repulse := k * k / d
			f.dx[i] += x / d * repulse
			f.dy[i] += y / d * repulse
		}
	}

	for _, e := range f.edges {
		si, sok := f.slot[e.Source]
		ti, tok := f.slot[e.Target]
		x, y := e.Source.X-e.Target.X, e.Source.Y-e.Target.Y
		d := math.Sqrt(x*x+y*y) + 0.01
		attract := d * d / k
		if sok {
			f.dx[si] -= x / d * attract
			f.dy[si] -= y / d * attract
		}
		if tok {
			f.dx[ti] += x / d * attract
			f.dy[ti] += y / d * attract
		}
	}

	for i, n := range f.nodes {
		if d := math.Sqrt(n.X*n.X + n.Y*n.Y); d > 0 {
			g := 0.01 * k * f.Gravity * d
			f.dx[i] -= g * n.X / d
			f.dy[i] -= g * n.Y / d
		}

		dx, dy := f.dx[i]*f.Speed, f.dy[i]*f.Speed
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist > 0 {
			limited := math.Min(maxDisplace*f.Speed, dist)
			n.VX += dx / dist * limited * alpha
			n.VY += dy / dist * limited * alpha
		}
	}
}
