package graph

import (
	"errors"
	"math"
	"testing"
)

func testSpecs() ([]NodeSpec, []EdgeSpec) {
	nodes := []NodeSpec{
		{ID: "n1"}, {ID: "n2"}, {ID: "n3"}, {ID: "n4"}, {ID: "n5"},
		{ID: "n6"}, {ID: "n7"}, {ID: "n8"}, {ID: "n9"}, {ID: "n10"},
	}
	edges := []EdgeSpec{
		{Source: "n1", Target: "n2"},
		{Source: "n1", Target: "n3"},
		{Source: "n1", Target: "n4"},
		{Source: "n2", Target: "n5"},
		{Source: "n2", Target: "n5"},
		{Source: "n5", Target: "n6"},
		{Source: "n6", Target: "n1"},
		{Source: "n8", Target: "n9"},
		{Source: "n9", Target: "n10"},
	}
	return nodes, edges
}

func TestBuildFillsFiniteFields(t *testing.T) {
	nodes, edges := testSpecs()
	g, err := Build(nodes, edges, DefaultDefaults())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	for i, n := range g.Nodes {
		if n.Index != i {
			t.Errorf("node %s: index %d, want %d", n.ID, n.Index, i)
		}
		if !n.IsFinite() {
			t.Errorf("node %s has non-finite fields: %+v", n.ID, n)
		}
		if n.Mass != DefaultNodeMass || n.Radius != DefaultNodeRadius {
			t.Errorf("node %s: mass %v radius %v", n.ID, n.Mass, n.Radius)
		}
	}

	for _, e := range g.Edges {
		if e.Source == nil || e.Target == nil {
			t.Fatalf("edge %d not resolved", e.Index)
		}
		for _, v := range []float64{e.Distance, e.Strength, e.Weight} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("edge %d has non-finite field: %+v", e.Index, e)
			}
		}
		want := e.Source.Radius + e.Target.Radius + DefaultVisibleEdgeDistance
		if e.Distance != want {
			t.Errorf("edge %d distance = %v, want %v", e.Index, e.Distance, want)
		}
	}
}

func TestBuildSeedsDistinctPositions(t *testing.T) {
	nodes, _ := testSpecs()
	g, err := Build(nodes, nil, DefaultDefaults())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	seen := make(map[[2]float64]string)
	for _, n := range g.Nodes {
		key := [2]float64{n.X, n.Y}
		if other, ok := seen[key]; ok {
			t.Errorf("nodes %s and %s share position %v", n.ID, other, key)
		}
		seen[key] = n.ID
	}
}

func TestBuildRespectsSpecFields(t *testing.T) {
	nodes := []NodeSpec{
		{ID: "a", X: Float(3), Y: Float(4), Mass: Float(2), Radius: Float(7)},
		{ID: "b", FX: Float(10), FY: Float(-10)},
		{ID: "c", Width: 30, Height: 10},
	}
	edges := []EdgeSpec{
		{Source: "a", Target: "b", Distance: Float(100), Strength: Float(0.5), Weight: Float(3)},
		{Source: "b", Target: "c", VisibleDistance: Float(5)},
	}
	g, err := Build(nodes, edges, DefaultDefaults())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	a, _ := g.Node("a")
	if a.X != 3 || a.Y != 4 || a.Mass != 2 || a.Radius != 7 {
		t.Errorf("node a fields not respected: %+v", a)
	}
	b, _ := g.Node("b")
	if b.X != 10 || b.Y != -10 || b.FX == nil || b.FY == nil {
		t.Errorf("pinned node b not positioned at its pin: %+v", b)
	}
	c, _ := g.Node("c")
	if c.Radius != 15 {
		t.Errorf("node c radius = %v, want 15 (half the larger side)", c.Radius)
	}

	e0 := g.Edges[0]
	if e0.Distance != 100 || e0.Strength != 0.5 || e0.Weight != 3 {
		t.Errorf("edge 0 fields not respected: %+v", e0)
	}
	if want := 100 - a.Radius - b.Radius; e0.VisibleDistance != want {
		t.Errorf("edge 0 visible distance = %v, want %v", e0.VisibleDistance, want)
	}
	e1 := g.Edges[1]
	if want := b.Radius + c.Radius + 5; e1.Distance != want {
		t.Errorf("edge 1 distance = %v, want %v", e1.Distance, want)
	}
}

func TestBuildBrokenEdge(t *testing.T) {
	tests := []struct {
		name  string
		edges []EdgeSpec
	}{
		{"unknown source", []EdgeSpec{{Source: "missing", Target: "a"}}},
		{"unknown target", []EdgeSpec{{Source: "a", Target: "missing"}}},
		{"later edge", []EdgeSpec{{Source: "a", Target: "b"}, {Source: "b", Target: "zzz"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Build([]NodeSpec{{ID: "a"}, {ID: "b"}}, tt.edges, DefaultDefaults())
			if g != nil {
				t.Error("expected no graph on broken edge")
			}
			if !errors.Is(err, ErrBrokenEdge) {
				t.Fatalf("expected ErrBrokenEdge, got %v", err)
			}
			var be *BrokenEdgeError
			if !errors.As(err, &be) {
				t.Fatalf("expected *BrokenEdgeError, got %T", err)
			}
		})
	}
}

func TestBrokenEdgeErrorMessage(t *testing.T) {
	err := &BrokenEdgeError{Index: 2, Source: "x", Target: "y"}
	expected := "graph: broken edge #2 x -> y"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestDefaultsNormalize(t *testing.T) {
	d := Defaults{NodeRadius: 4}.Normalize()
	if d.NodeRadius != 4 {
		t.Errorf("explicit radius overwritten: %v", d.NodeRadius)
	}
	if d.NodeMass != DefaultNodeMass || d.EdgeStrength != DefaultEdgeStrength || d.VisibleEdgeDistance != DefaultVisibleEdgeDistance {
		t.Errorf("zero fields not defaulted: %+v", d)
	}
}

func TestNodePin(t *testing.T) {
	n := &Node{}
	n.Pin(1, 2)
	if !n.Pinned() || *n.FX != 1 || *n.FY != 2 {
		t.Fatalf("pin not applied: %+v", n)
	}
	n.Unpin()
	if n.Pinned() {
		t.Error("unpin left a pin behind")
	}
}
