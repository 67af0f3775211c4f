package forces

import (
	"math"

	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/layout"
)

// Link pulls the endpoints of every bound edge toward the edge's rest
// distance. The correction is split by degree so that hubs move less than
// their leaves.
type Link struct {
	Base
	bias []float64
}

func NewLink() *Link {
	return &Link{}
}

func (f *Link) Initialize(nodes []*graph.Node, edges []*graph.Edge, ctx layout.Context) {
	f.Base.Initialize(nodes, edges, ctx)

	degree := make(map[*graph.Node]int, len(nodes))
	for _, e := range edges {
		degree[e.Source]++
		degree[e.Target]++
	}

	f.bias = make([]float64, len(edges))
	for i, e := range edges {
		s, t := float64(degree[e.Source]), float64(degree[e.Target])
		f.bias[i] = s / (s + t)
	}
}

// Bias is the share of edge i's correction applied to its target.
func (f *Link) Bias(i int) float64 {
	return f.bias[i]
}

func (f *Link) Execute(alpha float64) {
	for i, e := range f.edges {
		s, t := e.Source, e.Target

		x := t.X + t.VX - s.X - s.VX
		if x == 0 {
			x = f.jitter()
		}
		y := t.Y + t.VY - s.Y - s.VY
		if y == 0 {
			y = f.jitter()
		}

		d := math.Sqrt(x*x + y*y)
		force := (d - e.Distance) / d * alpha * e.Strength
		x *= force
		y *= force

		bias := f.bias[i]
		t.VX -= x * bias
		t.VY -= y * bias
		s.VX += x * (1 - bias)
		s.VY += y * (1 - bias)
	}
}
