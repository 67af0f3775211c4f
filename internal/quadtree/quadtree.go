// Package quadtree implements an adaptive point-region quadtree over graph
// node coordinates.
//
// Every entity gets its own quadrant except entities sharing exactly the same
// coordinate, which are chained on one leaf. The tree lives in an arena of
// slots addressed by index and is rebuilt wholesale by [Tree.Build]; the arena
// is reused across builds so per-tick rebuilds do not churn the allocator.
//
// Aggregates are computed lazily and memoized until the next build:
//
//   - [Tree.ComputeMass]: total mass and mass-weighted centroid per quadrant
//   - [Tree.ComputeLargestRadius]: largest contained radius per quadrant
//
// A Tree is NOT safe for concurrent use.
package quadtree

import (
	"math"

	"github.com/san-kum/forcegraph/internal/graph"
)

const none int32 = -1

type Bounds struct {
	X0, Y0, X1, Y1 float64
}

func (b Bounds) Width() float64  { return b.X1 - b.X0 }
func (b Bounds) Height() float64 { return b.Y1 - b.Y0 }

// Contains reports whether (x, y) lies strictly inside b.
func (b Bounds) Contains(x, y float64) bool {
	return x > b.X0 && x < b.X1 && y > b.Y0 && y < b.Y1
}

type slot struct {
	children [4]int32
	entity   *graph.Node
	next     int32

	mass   float64
	cx, cy float64
	radius float64
}

func internalSlot() slot {
	return slot{children: [4]int32{none, none, none, none}, next: none}
}

func leafSlot(n *graph.Node) slot {
	return slot{children: [4]int32{none, none, none, none}, entity: n, next: none}
}

type Tree struct {
	slots  []slot
	bounds Bounds
	count  int

	massComputed   bool
	radiusComputed bool
	radiusPadding  float64

	scratch []Quad
	order   []Quad
}

func New() *Tree {
	t := &Tree{}
	t.Build(nil)
	return t
}

// Build discards the previous tree and inserts nodes in order.
func (t *Tree) Build(nodes []*graph.Node) {
	t.slots = t.slots[:0]
	t.massComputed = false
	t.radiusComputed = false
	t.count = len(nodes)
	t.bounds = boundsOf(nodes)
	t.alloc(internalSlot())
	for _, n := range nodes {
		t.insert(n)
	}
}

func (t *Tree) Bounds() Bounds { return t.bounds }
func (t *Tree) Len() int       { return t.count }

func (t *Tree) Root() Quad {
	return Quad{t: t, id: 0, Bounds: t.bounds}
}

func (t *Tree) alloc(s slot) int32 {
	t.slots = append(t.slots, s)
	return int32(len(t.slots) - 1)
}

// boundsOf returns the smallest integer-aligned square holding every node
// strictly inside, padded by one unit per axis. Past 2^53 the pad shrinks to
// one ulp.
func boundsOf(nodes []*graph.Node) Bounds {
	if len(nodes) == 0 {
		return Bounds{0, 0, 1, 1}
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range nodes {
		minX = math.Min(minX, n.X)
		maxX = math.Max(maxX, n.X)
		minY = math.Min(minY, n.Y)
		maxY = math.Max(maxY, n.Y)
	}
	if math.IsInf(minX, 0) || math.IsInf(minY, 0) || math.IsNaN(minX) || math.IsNaN(minY) {
		return Bounds{0, 0, 1, 1}
	}

	b := Bounds{
		X0: padBelow(minX),
		Y0: padBelow(minY),
		X1: padAbove(maxX),
		Y1: padAbove(maxY),
	}

	w, h := b.Width(), b.Height()
	if w > h {
		d := (w - h) / 2
		b.Y0 -= d
		b.Y1 += d
	} else if h > w {
		d := (h - w) / 2
		b.X0 -= d
		b.X1 += d
	}
	return b
}

func padBelow(v float64) float64 {
	if p := math.Floor(v - 1); p < v {
		return p
	}
	return math.Nextafter(v, math.Inf(-1))
}

func padAbove(v float64) float64 {
	if p := math.Ceil(v + 1); p > v {
		return p
	}
	return math.Nextafter(v, math.Inf(1))
}

// quadrant returns the child index (bottom<<1 | right) of (x, y) within b and
// the child's bounds.
func quadrant(b Bounds, x, y float64) (int, Bounds) {
	mx := (b.X0 + b.X1) / 2
	my := (b.Y0 + b.Y1) / 2
	i := 0
	if x >= mx {
		i |= 1
		b.X0 = mx
	} else {
		b.X1 = mx
	}
	if y >= my {
		i |= 2
		b.Y0 = my
	} else {
		b.Y1 = my
	}
	return i, b
}

func childBounds(b Bounds, i int) Bounds {
	mx := (b.X0 + b.X1) / 2
	my := (b.Y0 + b.Y1) / 2
	if i&1 != 0 {
		b.X0 = mx
	} else {
		b.X1 = mx
	}
	if i&2 != 0 {
		b.Y0 = my
	} else {
		b.Y1 = my
	}
	return b
}

func (t *Tree) insert(n *graph.Node) {
	parent := int32(0)
	b := t.bounds
	for {
		var q int
		q, b = quadrant(b, n.X, n.Y)
		child := t.slots[parent].children[q]
		if child == none {
			t.slots[parent].children[q] = t.alloc(leafSlot(n))
			return
		}
		if t.slots[child].entity != nil {
			t.split(parent, q, child, b, n)
			return
		}
		parent = child
	}
}

// split separates the new entity n from the leaf at parent.children[q] by
// subdividing until they land in different quadrants.
func (t *Tree) split(parent int32, q int, existing int32, b Bounds, n *graph.Node) {
	other := t.slots[existing].entity
	if other.X == n.X && other.Y == n.Y {
		t.chain(parent, q, existing, n)
		return
	}

	for {
		mx := (b.X0 + b.X1) / 2
		my := (b.Y0 + b.Y1) / 2
		// Bounds too narrow to halve in float64: the points are
		// indistinguishable at this depth, so treat them as coincident.
		if !(b.X0 < mx && mx < b.X1) || !(b.Y0 < my && my < b.Y1) {
			t.chain(parent, q, existing, n)
			return
		}

		inner := t.alloc(internalSlot())
		t.slots[parent].children[q] = inner
		parent = inner

		i, nb := quadrant(b, n.X, n.Y)
		j, _ := quadrant(b, other.X, other.Y)
		if i != j {
			t.slots[inner].children[j] = existing
			t.slots[inner].children[i] = t.alloc(leafSlot(n))
			return
		}
		q = i
		b = nb
	}
}

func (t *Tree) chain(parent int32, q int, existing int32, n *graph.Node) {
	leaf := t.alloc(leafSlot(n))
	t.slots[leaf].next = existing
	t.slots[parent].children[q] = leaf
}

// TraverseTopBottom visits quadrants parents first. Returning true from visit
// stops descent below that quadrant.
func (t *Tree) TraverseTopBottom(visit func(q Quad) bool) {
	var buf [64]Quad
	stack := append(buf[:0], t.Root())
	for len(stack) > 0 {
		q := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visit(q) {
			continue
		}
		s := &t.slots[q.id]
		if s.entity != nil {
			continue
		}
		for i, c := range s.children {
			if c != none {
				stack = append(stack, Quad{t: t, id: c, Bounds: childBounds(q.Bounds, i)})
			}
		}
	}
}

// TraverseBottomTop visits every quadrant after all of its children.
func (t *Tree) TraverseBottomTop(visit func(q Quad)) {
	stack, order := t.scratch[:0], t.order[:0]
	t.scratch, t.order = nil, nil

	stack = append(stack, t.Root())
	for len(stack) > 0 {
		q := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, q)
		s := &t.slots[q.id]
		if s.entity != nil {
			continue
		}
		for i, c := range s.children {
			if c != none {
				stack = append(stack, Quad{t: t, id: c, Bounds: childBounds(q.Bounds, i)})
			}
		}
	}

	for i := len(order) - 1; i >= 0; i-- {
		visit(order[i])
	}

	t.scratch, t.order = stack[:0], order[:0]
}

// ComputeMass aggregates mass and centroid bottom-up. No-op until the next Build.
func (t *Tree) ComputeMass() {
	if t.massComputed {
		return
	}
	t.TraverseBottomTop(func(q Quad) {
		s := &t.slots[q.id]
		if s.entity != nil {
			m := 0.0
			for id := q.id; id != none; id = t.slots[id].next {
				m += t.slots[id].entity.Mass
			}
			s.mass = m
			s.cx, s.cy = s.entity.X, s.entity.Y
			return
		}

		var m, x, y float64
		for _, c := range s.children {
			if c == none {
				continue
			}
			cs := &t.slots[c]
			m += cs.mass
			x += cs.mass * cs.cx
			y += cs.mass * cs.cy
		}
		s.mass = m
		if m != 0 {
			s.cx, s.cy = x/m, y/m
		} else {
			s.cx, s.cy = (q.X0+q.X1)/2, (q.Y0+q.Y1)/2
		}
	})
	t.massComputed = true
}

// ComputeLargestRadius records the largest entity radius plus padding below
// each quadrant. No-op until the next Build unless padding changes.
func (t *Tree) ComputeLargestRadius(padding float64) {
	if t.radiusComputed && t.radiusPadding == padding {
		return
	}
	t.TraverseBottomTop(func(q Quad) {
		s := &t.slots[q.id]
		if s.entity != nil {
			r := 0.0
			for id := q.id; id != none; id = t.slots[id].next {
				r = math.Max(r, t.slots[id].entity.Radius)
			}
			s.radius = r + padding
			return
		}
		r := 0.0
		for _, c := range s.children {
			if c != none && t.slots[c].radius > r {
				r = t.slots[c].radius
			}
		}
		s.radius = r
	})
	t.radiusComputed = true
	t.radiusPadding = padding
}
