// Package metrics provides layout quality measures observed after each tick.
package metrics

import "github.com/san-kum/forcegraph/internal/graph"

// Metric is observed once per tick with exclusive access to the graph.
type Metric interface {
	Name() string
	Observe(g *graph.Graph, alpha float64)
	Value() float64
	Reset()
}

// KineticEnergy reports the total kinetic energy of the last observed tick.
type KineticEnergy struct {
	name    string
	energy  float64
	peak    float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(g *graph.Graph, _ float64) {
	var total float64
	for _, n := range g.Nodes {
		total += 0.5 * n.Mass * (n.VX*n.VX + n.VY*n.VY)
	}
	e.energy = total
	e.peak = max(e.peak, total)
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	return e.energy
}

// Peak is the largest energy seen since the last reset.
func (e *KineticEnergy) Peak() float64 {
	return e.peak
}

func (e *KineticEnergy) Reset() {
	e.energy = 0
	e.peak = 0
	e.samples = 0
}
