package graph

import (
	"errors"
	"reflect"
	"testing"
)

func TestGenerateBuildsValidGraphs(t *testing.T) {
	for _, kind := range Generators() {
		t.Run(kind, func(t *testing.T) {
			nodes, edges, err := Generate(kind, 30, 7)
			if err != nil {
				t.Fatalf("generate failed: %v", err)
			}
			if len(nodes) != 30 {
				t.Errorf("expected 30 nodes, got %d", len(nodes))
			}
			if _, err := Build(nodes, edges, DefaultDefaults()); err != nil {
				t.Errorf("generated graph does not build: %v", err)
			}
		})
	}
}

func TestGenerateDeterministic(t *testing.T) {
	n1, e1, _ := Generate("random", 40, 3)
	n2, e2, _ := Generate("random", 40, 3)
	if !reflect.DeepEqual(n1, n2) || !reflect.DeepEqual(e1, e2) {
		t.Error("same seed produced different graphs")
	}
}

func TestGenerateShapes(t *testing.T) {
	tests := []struct {
		kind  string
		n     int
		edges int
	}{
		{"tree", 10, 9},
		{"star", 10, 9},
		{"ring", 10, 10},
		{"ring", 1, 0},
		{"grid", 9, 12},
		{"tree", 0, 0},
	}

	for _, tt := range tests {
		_, edges, err := Generate(tt.kind, tt.n, 1)
		if err != nil {
			t.Fatalf("%s: %v", tt.kind, err)
		}
		if len(edges) != tt.edges {
			t.Errorf("%s(%d): expected %d edges, got %d", tt.kind, tt.n, tt.edges, len(edges))
		}
	}
}

func TestGenerateUnknown(t *testing.T) {
	_, _, err := Generate("hypercube", 10, 1)
	if !errors.Is(err, ErrUnknownGenerator) {
		t.Errorf("expected ErrUnknownGenerator, got %v", err)
	}
}
