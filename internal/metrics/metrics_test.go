package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/forcegraph/internal/graph"
)

func build(t *testing.T, nodes []graph.NodeSpec, edges []graph.EdgeSpec) *graph.Graph {
	t.Helper()
	g, err := graph.Build(nodes, edges, graph.DefaultDefaults())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return g
}

func at(id string, x, y float64) graph.NodeSpec {
	return graph.NodeSpec{ID: id, X: graph.Float(x), Y: graph.Float(y)}
}

func TestKineticEnergy(t *testing.T) {
	m := NewKineticEnergy()
	g := build(t, []graph.NodeSpec{at("a", 0, 0), at("b", 5, 5)}, nil)
	g.Nodes[0].VX, g.Nodes[0].VY = 3, 4
	g.Nodes[1].Mass = 2
	g.Nodes[1].VX = 1

	m.Observe(g, 1)
	// 0.5*1*25 + 0.5*2*1
	if math.Abs(m.Value()-13.5) > 1e-12 {
		t.Errorf("expected 13.5, got %f", m.Value())
	}

	g.Nodes[0].VX, g.Nodes[0].VY = 0, 0
	m.Observe(g, 1)
	if m.Value() != 1 || m.Peak() != 13.5 {
		t.Errorf("expected value 1 and peak 13.5, got %f and %f", m.Value(), m.Peak())
	}

	m.Reset()
	if m.Value() != 0 || m.Peak() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestEdgeStress(t *testing.T) {
	m := NewEdgeStress()
	d := 100.0
	g := build(t,
		[]graph.NodeSpec{at("a", 0, 0), at("b", 150, 0), at("c", 0, 100)},
		[]graph.EdgeSpec{
			{Source: "a", Target: "b", Distance: &d},
			{Source: "a", Target: "c", Distance: &d},
		})

	m.Observe(g, 1)
	if math.Abs(m.Value()-0.25) > 1e-12 {
		t.Errorf("expected stress 0.25, got %f", m.Value())
	}

	empty := build(t, []graph.NodeSpec{at("a", 0, 0)}, nil)
	m.Observe(empty, 1)
	if m.Value() != 0 {
		t.Errorf("expected zero stress without edges, got %f", m.Value())
	}
}

func TestCrossings(t *testing.T) {
	tests := []struct {
		name  string
		edges []graph.EdgeSpec
		want  float64
	}{
		{"diagonals cross", []graph.EdgeSpec{{Source: "a", Target: "d"}, {Source: "b", Target: "c"}}, 1},
		{"sides do not", []graph.EdgeSpec{{Source: "a", Target: "b"}, {Source: "c", Target: "d"}}, 0},
		{"shared endpoint", []graph.EdgeSpec{{Source: "a", Target: "d"}, {Source: "a", Target: "c"}}, 0},
	}

	nodes := []graph.NodeSpec{at("a", 0, 0), at("b", 10, 0), at("c", 0, 10), at("d", 10, 10)}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewCrossings()
			m.Observe(build(t, nodes, tt.edges), 1)
			if m.Value() != tt.want {
				t.Errorf("expected %v crossings, got %v", tt.want, m.Value())
			}
		})
	}
}

func TestDisplacement(t *testing.T) {
	m := NewDisplacement()
	g := build(t, []graph.NodeSpec{at("a", 0, 0), at("b", 10, 0)}, nil)

	m.Observe(g, 1)
	if m.Value() != 0 {
		t.Errorf("first observation should be zero, got %f", m.Value())
	}

	g.Nodes[0].X = 3
	g.Nodes[0].Y = 4
	m.Observe(g, 1)
	if math.Abs(m.Value()-2.5) > 1e-12 {
		t.Errorf("expected mean displacement 2.5, got %f", m.Value())
	}

	m.Reset()
	m.Observe(g, 1)
	if m.Value() != 0 {
		t.Errorf("expected zero after reset, got %f", m.Value())
	}
}

func TestOverlap(t *testing.T) {
	m := NewOverlap()
	g := build(t, []graph.NodeSpec{at("a", 0, 0), at("b", 5, 0), at("c", 100, 0)}, nil)

	m.Observe(g, 1)
	if math.Abs(m.Value()-1.0/3) > 1e-12 {
		t.Errorf("expected 1/3 overlapping pairs, got %f", m.Value())
	}
}

func TestDefaultsAreDistinct(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Defaults() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %s", m.Name())
		}
		seen[m.Name()] = true
	}
}
