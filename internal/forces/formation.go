package forces

import (
	"math"

	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/layout"
)

type point struct{ x, y float64 }

// Fan lays groups of nodes out on rays from a center, one ray per group in
// order of first appearance. Nodes are pinned to their slots while the
// component is mounted.
type Fan struct {
	Base

	// GroupOf assigns a node to a ray. Nil groups by Node.Group.
	GroupOf func(*graph.Node) string

	// Strength of 1 or more pins nodes to their slots; lower values pull
	// them there through velocity instead.
	Strength float64

	// Space is the distance from the center to the first slot of a ray.
	Space float64

	CenterX *float64
	CenterY *float64

	slots  map[*graph.Node]point
	cx, cy float64
	placed bool
}

func NewFan() *Fan {
	return &Fan{Strength: 1, Space: 300}
}

func (f *Fan) Initialize(nodes []*graph.Node, edges []*graph.Edge, ctx layout.Context) {
	f.Base.Initialize(nodes, edges, ctx)

	if !f.placed {
		f.cx, f.cy = f.averagePosition()
		if f.CenterX != nil {
			f.cx = *f.CenterX
		}
		if f.CenterY != nil {
			f.cy = *f.CenterY
		}
		f.placed = true
	}

	groupOf := f.GroupOf
	if groupOf == nil {
		groupOf = func(n *graph.Node) string { return n.Group }
	}

	var order []string
	groups := make(map[string][]*graph.Node)
	for _, n := range nodes {
		g := groupOf(n)
		if _, ok := groups[g]; !ok {
			order = append(order, g)
		}
		groups[g] = append(groups[g], n)
	}

	f.slots = make(map[*graph.Node]point, len(nodes))
	if len(order) == 0 {
		return
	}

	step := math.Floor(360 / float64(len(order)))
	for i, g := range order {
		rad := step * float64(i) * math.Pi / 180
		cos, sin := math.Cos(rad), math.Sin(rad)
		x := f.cx + f.Space*cos
		y := f.cy + f.Space*sin
		for _, n := range groups[g] {
			d := n.Radius * 2
			x += d * cos
			y += d * sin
			f.slots[n] = point{x, y}
			x += d * cos
			y += d * sin
		}
	}
}

// Slot returns the formation position assigned to n.
func (f *Fan) Slot(n *graph.Node) (float64, float64, bool) {
	p, ok := f.slots[n]
	return p.x, p.y, ok
}

func (f *Fan) Execute(alpha float64) {
	k := alpha * f.Strength
	for _, n := range f.nodes {
		p := f.slots[n]
		if f.Strength >= 1 {
			n.Pin(p.x, p.y)
			continue
		}
		n.VX -= (n.X - p.x) * k
		n.VY -= (n.Y - p.y) * k
	}
}

func (f *Fan) Dismount() {
	if f.Strength >= 1 {
		releasePins(f.nodes)
	}
}

// Matrix pins nodes in index order onto a square grid around a center.
type Matrix struct {
	Base

	CenterX *float64
	CenterY *float64

	cell   float64
	side   int
	half   float64
	cx, cy float64
	placed bool
}

// matrixMultiplier scales the largest node footprint into a cell size.
const matrixMultiplier = 2

func NewMatrix() *Matrix {
	return &Matrix{}
}

func (f *Matrix) Initialize(nodes []*graph.Node, edges []*graph.Edge, ctx layout.Context) {
	f.Base.Initialize(nodes, edges, ctx)

	f.cell = 0
	for _, n := range nodes {
		f.cell = math.Max(f.cell, math.Max(n.ShapeWidth(), n.ShapeHeight())*matrixMultiplier)
	}
	f.side = int(math.Ceil(math.Sqrt(float64(len(nodes)))))
	f.half = float64(f.side-1) * f.cell / 2

	if !f.placed {
		f.cx, f.cy = f.averagePosition()
		if f.CenterX != nil {
			f.cx = *f.CenterX
		}
		if f.CenterY != nil {
			f.cy = *f.CenterY
		}
		f.placed = true
	}
}

func (f *Matrix) Execute(float64) {
	for i, n := range f.nodes {
		row, col := i/f.side, i%f.side
		n.Pin(
			float64(col)*f.cell-f.half+f.cx+n.Radius,
			float64(row)*f.cell-f.half+f.cy+n.Radius,
		)
	}
}

func (f *Matrix) Dismount() {
	releasePins(f.nodes)
}

// Animation moves bound nodes to a destination by driving their pins. Each
// node uses its own TargetX/TargetY when set, else the component's
// destination. Once every node has arrived the pins are released and, with
// RemoveOnArrival, the component removes itself from the simulation.
type Animation struct {
	Base

	XDestination    float64
	YDestination    float64
	Strength        float64
	RemoveOnArrival bool
}

func NewAnimation(x, y float64) *Animation {
	return &Animation{XDestination: x, YDestination: y, Strength: 1, RemoveOnArrival: true}
}

func (f *Animation) Execute(alpha float64) {
	arrived := 0
	for _, n := range f.nodes {
		tx, ty := f.XDestination, f.YDestination
		if n.TargetX != nil {
			tx = *n.TargetX
		}
		if n.TargetY != nil {
			ty = *n.TargetY
		}

		fx, fy := n.X, n.Y
		if n.FX != nil {
			fx = *n.FX
		}
		if n.FY != nil {
			fy = *n.FY
		}

		fx = f.approach(fx, n.X, tx, alpha)
		fy = f.approach(fy, n.Y, ty, alpha)
		n.Pin(fx, fy)

		if fx == tx && fy == ty {
			arrived++
		}
	}

	if !f.RemoveOnArrival || arrived != len(f.nodes) {
		return
	}
	for _, n := range f.nodes {
		n.X, n.Y = *n.FX, *n.FY
		n.VX, n.VY = 0, 0
		n.Unpin()
	}
	if f.ctx.Remove != nil {
		f.ctx.Remove()
	}
}

func (f *Animation) Dismount() {
	releasePins(f.nodes)
}

// approach advances pin toward target by half the alpha-scaled gap, snapping
// once the step is at most one unit.
func (f *Animation) approach(pin, pos, target, alpha float64) float64 {
	step := (target - pos) * f.Strength * alpha / 2
	if math.Abs(step) > 1 {
		return pin + step
	}
	return target
}
