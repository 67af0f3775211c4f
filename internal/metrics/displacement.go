package metrics

import (
	"math"

	"github.com/san-kum/forcegraph/internal/graph"
)

// Displacement is the mean distance nodes moved during the last observed
// tick. It falls toward zero as the layout settles.
type Displacement struct {
	name  string
	prev  map[string][2]float64
	value float64
}

func NewDisplacement() *Displacement {
	return &Displacement{name: "displacement", prev: make(map[string][2]float64)}
}

func (d *Displacement) Name() string { return d.name }

func (d *Displacement) Observe(g *graph.Graph, _ float64) {
	var sum float64
	moved := 0
	for _, n := range g.Nodes {
		if p, ok := d.prev[n.ID]; ok {
			sum += math.Hypot(n.X-p[0], n.Y-p[1])
			moved++
		}
		d.prev[n.ID] = [2]float64{n.X, n.Y}
	}
	if moved == 0 {
		d.value = 0
		return
	}
	d.value = sum / float64(moved)
}

func (d *Displacement) Value() float64 { return d.value }

func (d *Displacement) Reset() {
	clear(d.prev)
	d.value = 0
}

// Defaults returns a fresh set of the standard metrics.
func Defaults() []Metric {
	return []Metric{
		NewKineticEnergy(),
		NewEdgeStress(),
		NewDisplacement(),
		NewOverlap(),
	}
}
