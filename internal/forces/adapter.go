package forces

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/barneshut"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/layout"
)

// Func adapts plain functions to the component contract. Init receives a
// deterministic random source seeded like the built-in components.
type Func struct {
	Base

	Init  func(nodes []*graph.Node, edges []*graph.Edge, rnd *rand.Rand)
	Force func(alpha float64)
}

func (f *Func) Initialize(nodes []*graph.Node, edges []*graph.Edge, ctx layout.Context) {
	f.Base.Initialize(nodes, edges, ctx)
	if f.Init != nil {
		f.Init(nodes, edges, rand.New(f.rng))
	}
}

func (f *Func) Execute(alpha float64) {
	if f.Force != nil {
		f.Force(alpha)
	}
}

// particle exposes a node to gonum. The offset separates coincident nodes
// without moving them.
type particle struct {
	n      *graph.Node
	dx, dy float64
}

func (p *particle) Coord2() r2.Vec { return r2.Vec{X: p.n.X + p.dx, Y: p.n.Y + p.dy} }
func (p *particle) Mass() float64  { return p.n.Mass }

// BarnesHut computes repulsion with gonum's Barnes-Hut plane instead of the
// simulation's index. It builds its own tree every tick.
type BarnesHut struct {
	Base

	Theta       float64
	Strength    float64
	DistanceMin float64

	particles []barneshut.Particle2
	plane     barneshut.Plane
	seen      map[r2.Vec]struct{}
}

func NewBarnesHut() *BarnesHut {
	return &BarnesHut{Theta: 0.5, Strength: 1, DistanceMin: 1}
}

func (f *BarnesHut) Initialize(nodes []*graph.Node, edges []*graph.Edge, ctx layout.Context) {
	f.Base.Initialize(nodes, edges, ctx)
	f.particles = make([]barneshut.Particle2, len(nodes))
	for i, n := range nodes {
		f.particles[i] = &particle{n: n}
	}
	f.plane = barneshut.Plane{Particles: f.particles}
	f.seen = make(map[r2.Vec]struct{}, len(nodes))
}

// spread jitters every particle that shares a coordinate with an earlier one.
// gonum cannot split a tile holding two identical points.
func (f *BarnesHut) spread() {
	clear(f.seen)
	for _, e := range f.particles {
		p := e.(*particle)
		p.dx, p.dy = 0, 0
		c := p.Coord2()
		if _, ok := f.seen[c]; ok {
			p.dx, p.dy = f.jitter(), f.jitter()
			c = p.Coord2()
		}
		f.seen[c] = struct{}{}
	}
}

func (f *BarnesHut) repulse(p1, p2 barneshut.Particle2, _, m2 float64, v r2.Vec) r2.Vec {
	if p1 == p2 {
		return r2.Vec{}
	}
	d2 := v.X*v.X + v.Y*v.Y
	if d2 == 0 {
		v.X, v.Y, d2 = f.separate(v.X, v.Y, d2)
	}
	if minD2 := f.DistanceMin * f.DistanceMin; d2 < minD2 {
		d2 = math.Sqrt(minD2 * d2)
	}
	return r2.Scale(-m2/d2, v)
}

func (f *BarnesHut) Execute(alpha float64) {
	if len(f.particles) == 0 {
		return
	}
	f.spread()

	theta := f.Theta
	if err := f.plane.Reset(); err != nil {
		// The tree is half built; sum every pair exactly instead.
		theta = 0
	}

	k := alpha * f.Strength
	for i, p := range f.particles {
		v := f.plane.ForceOn(p, theta, f.repulse)
		n := f.nodes[i]
		n.VX += v.X * k
		n.VY += v.Y * k
	}
}
