package quadtree

import "github.com/san-kum/forcegraph/internal/graph"

// Quad is a view of one quadrant during a traversal. It is only valid until
// the next Build.
type Quad struct {
	t  *Tree
	id int32
	Bounds
}

func (q Quad) Leaf() bool { return q.t.slots[q.id].entity != nil }

// Entity returns the first entity of a leaf, or nil for an internal quadrant.
func (q Quad) Entity() *graph.Node { return q.t.slots[q.id].entity }

// Chained reports whether a leaf holds more than one coincident entity.
func (q Quad) Chained() bool { return q.t.slots[q.id].next != none }

// Entities yields every entity chained on a leaf. It can be used directly in
// a range statement.
func (q Quad) Entities(yield func(*graph.Node) bool) {
	for id := q.id; id != none; id = q.t.slots[id].next {
		e := q.t.slots[id].entity
		if e == nil || !yield(e) {
			return
		}
	}
}

// Mass is valid after ComputeMass.
func (q Quad) Mass() float64 { return q.t.slots[q.id].mass }

// Centroid is valid after ComputeMass.
func (q Quad) Centroid() (float64, float64) {
	s := &q.t.slots[q.id]
	return s.cx, s.cy
}

// Radius is valid after ComputeLargestRadius and already includes padding.
func (q Quad) Radius() float64 { return q.t.slots[q.id].radius }
