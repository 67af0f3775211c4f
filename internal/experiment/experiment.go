// Package experiment assembles simulations from configuration and drives them
// offline while recording metrics.
package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/forcegraph/internal/config"
	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/layout"
	"github.com/san-kum/forcegraph/internal/metrics"
)

// Build creates a simulation for cfg and registers its forces in order.
func (r *Registry) Build(cfg *config.Config, opts ...layout.Option) (*layout.Simulation, error) {
	nodes, edges, err := cfg.LoadGraph()
	if err != nil {
		return nil, err
	}
	sim, err := layout.New(nodes, edges, cfg.Options(), opts...)
	if err != nil {
		return nil, err
	}
	if err := r.Apply(sim, cfg.Forces); err != nil {
		return nil, err
	}
	return sim, nil
}

// Apply adds the configured forces to sim.
func (r *Registry) Apply(sim *layout.Simulation, fcs []config.ForceConfig) error {
	for _, fc := range fcs {
		c, err := r.GetForce(fc.Name, fc.Params)
		if err != nil {
			return err
		}
		var pred layout.NodePredicate
		if group := fc.Group; group != "" {
			pred = func(n *graph.Node) bool { return n.Group == group }
		}
		if err := sim.AddComponent(fc.Key(), c, pred, nil); err != nil {
			return fmt.Errorf("experiment: add %s: %w", fc.Key(), err)
		}
	}
	return nil
}

type RunConfig struct {
	// MaxTicks bounds the run; zero runs until the layout settles.
	MaxTicks int
	// Emit forwards layoutupdate events to the simulation's listeners.
	Emit bool
}

// Sample is one row of run history.
type Sample struct {
	Iteration int
	Alpha     float64
	Metrics   []float64
}

type Result struct {
	Iterations  int
	Settled     bool
	Elapsed     time.Duration
	MetricNames []string
	Final       map[string]float64
	History     []Sample
	Positions   []layout.Position
}

// Run ticks sim until alpha drops below alphaMin, MaxTicks is reached or ctx
// is done. Metrics are reset first and observed after every tick. On
// cancellation the partial result is returned with ctx.Err().
func Run(ctx context.Context, sim *layout.Simulation, cfg RunConfig, ms ...metrics.Metric) (*Result, error) {
	names := make([]string, len(ms))
	for i, m := range ms {
		m.Reset()
		names[i] = m.Name()
	}

	res := &Result{MetricNames: names, Final: make(map[string]float64, len(ms))}
	start := time.Now()

	var err error
	for cfg.MaxTicks == 0 || res.Iterations < cfg.MaxTicks {
		if err = ctx.Err(); err != nil {
			break
		}

		sim.Update(cfg.Emit)
		res.Iterations++

		sample := Sample{Iteration: res.Iterations, Alpha: sim.Alpha(), Metrics: make([]float64, len(ms))}
		sim.Do(func(g *graph.Graph) {
			for i, m := range ms {
				m.Observe(g, sample.Alpha)
				sample.Metrics[i] = m.Value()
			}
		})
		res.History = append(res.History, sample)

		if sample.Alpha < sim.AlphaMin() {
			res.Settled = true
			break
		}
	}

	res.Elapsed = time.Since(start)
	for _, m := range ms {
		res.Final[m.Name()] = m.Value()
	}
	res.Positions = sim.Snapshot()
	return res, err
}
