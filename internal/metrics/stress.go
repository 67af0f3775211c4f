package metrics

import (
	"math"

	"github.com/san-kum/forcegraph/internal/graph"
)

// EdgeStress is the mean relative deviation of edge lengths from their rest
// distances.
type EdgeStress struct {
	name   string
	stress float64
}

func NewEdgeStress() *EdgeStress {
	return &EdgeStress{name: "edge_stress"}
}

func (s *EdgeStress) Name() string { return s.name }

func (s *EdgeStress) Observe(g *graph.Graph, _ float64) {
	var sum float64
	count := 0
	for _, e := range g.Edges {
		if e.Distance <= 0 {
			continue
		}
		sum += math.Abs(e.Length()-e.Distance) / e.Distance
		count++
	}
	if count == 0 {
		s.stress = 0
		return
	}
	s.stress = sum / float64(count)
}

func (s *EdgeStress) Value() float64 { return s.stress }

func (s *EdgeStress) Reset() { s.stress = 0 }

// Crossings counts pairs of edges whose segments properly intersect. Edges
// sharing an endpoint are not counted.
type Crossings struct {
	name  string
	count int
}

func NewCrossings() *Crossings {
	return &Crossings{name: "crossings"}
}

func (c *Crossings) Name() string { return c.name }

func (c *Crossings) Observe(g *graph.Graph, _ float64) {
	c.count = 0
	for i, a := range g.Edges {
		for _, b := range g.Edges[i+1:] {
			if a.Source == b.Source || a.Source == b.Target || a.Target == b.Source || a.Target == b.Target {
				continue
			}
			if intersects(a, b) {
				c.count++
			}
		}
	}
}

func (c *Crossings) Value() float64 { return float64(c.count) }

func (c *Crossings) Reset() { c.count = 0 }

func orient(ax, ay, bx, by, cx, cy float64) float64 {
	return (bx-ax)*(cy-ay) - (by-ay)*(cx-ax)
}

func intersects(a, b *graph.Edge) bool {
	p1x, p1y := a.Source.X, a.Source.Y
	p2x, p2y := a.Target.X, a.Target.Y
	q1x, q1y := b.Source.X, b.Source.Y
	q2x, q2y := b.Target.X, b.Target.Y

	d1 := orient(q1x, q1y, q2x, q2y, p1x, p1y)
	d2 := orient(q1x, q1y, q2x, q2y, p2x, p2y)
	d3 := orient(p1x, p1y, p2x, p2y, q1x, q1y)
	d4 := orient(p1x, p1y, p2x, p2y, q2x, q2y)
	return d1*d2 < 0 && d3*d4 < 0
}
