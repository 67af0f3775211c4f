package metrics

import "github.com/san-kum/forcegraph/internal/graph"

// Overlap is the fraction of node pairs whose circles intersect.
type Overlap struct {
	name     string
	fraction float64
}

func NewOverlap() *Overlap {
	return &Overlap{name: "overlap"}
}

func (o *Overlap) Name() string {
	return o.name
}

func (o *Overlap) Observe(g *graph.Graph, _ float64) {
	n := len(g.Nodes)
	if n < 2 {
		o.fraction = 0
		return
	}
	hits := 0
	for i := 0; i < n; i++ {
		a := g.Nodes[i]
		for j := i + 1; j < n; j++ {
			b := g.Nodes[j]
			dx, dy := b.X-a.X, b.Y-a.Y
			r := a.Radius + b.Radius
			if dx*dx+dy*dy < r*r {
				hits++
			}
		}
	}
	o.fraction = float64(hits) / float64(n*(n-1)/2)
}

func (o *Overlap) Value() float64 {
	return o.fraction
}

func (o *Overlap) Reset() {
	o.fraction = 0
}
