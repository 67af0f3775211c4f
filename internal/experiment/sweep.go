package experiment

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"sync"

	"github.com/san-kum/forcegraph/internal/config"
	"github.com/san-kum/forcegraph/internal/metrics"
)

var ErrNoForce = errors.New("experiment: force not configured")

// Ensemble lays out cfg once per seed, in parallel. newMetrics is called once
// per run since metrics hold state.
func (r *Registry) Ensemble(ctx context.Context, cfg *config.Config, seeds []int64, newMetrics func() []metrics.Metric) ([]*Result, error) {
	results := make([]*Result, len(seeds))
	errs := make([]error, len(seeds))

	var wg sync.WaitGroup
	for i, seed := range seeds {
		wg.Add(1)
		go func(idx int, seed int64) {
			defer wg.Done()

			c := *cfg
			c.Graph.Seed = seed
			sim, err := r.Build(&c)
			if err != nil {
				errs[idx] = err
				return
			}
			var ms []metrics.Metric
			if newMetrics != nil {
				ms = newMetrics()
			}
			results[idx], errs[idx] = Run(ctx, sim, RunConfig{MaxTicks: c.MaxTicks}, ms...)
		}(i, seed)
	}

	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return results, nil
}

// GridSearch tries every combination of parameter values on one configured
// force and keeps the combination with the lowest mean metric.
type GridSearch struct {
	force      string
	paramNames []string
	ranges     [][]float64
}

// NewGridSearch searches params of the force whose key is force. ranges[i]
// lists the values tried for params[i].
func NewGridSearch(force string, params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{force: force, paramNames: params, ranges: ranges}
}

// Trial is one evaluated grid point.
type Trial struct {
	Params map[string]float64
	Value  float64
}

// Search evaluates every grid point over seeds and returns the best trial
// along with all trials in evaluation order.
func (g *GridSearch) Search(ctx context.Context, r *Registry, cfg *config.Config, seeds []int64, metric func() metrics.Metric) (Trial, []Trial, error) {
	idx := slices.IndexFunc(cfg.Forces, func(f config.ForceConfig) bool { return f.Key() == g.force })
	if idx < 0 {
		return Trial{}, nil, fmt.Errorf("%w: %s", ErrNoForce, g.force)
	}
	if len(seeds) == 0 {
		seeds = []int64{cfg.Graph.Seed}
	}

	best := Trial{Value: math.Inf(1)}
	var trials []Trial
	err := g.searchRecursive(0, make(map[string]float64), func(params map[string]float64) error {
		c := withParams(cfg, idx, params)
		results, err := r.Ensemble(ctx, c, seeds, func() []metrics.Metric { return []metrics.Metric{metric()} })
		if err != nil {
			return err
		}
		var sum float64
		for _, res := range results {
			for _, v := range res.Final {
				sum += v
			}
		}
		t := Trial{Params: params, Value: sum / float64(len(results))}
		trials = append(trials, t)
		if t.Value < best.Value {
			best = t
		}
		return nil
	})
	return best, trials, err
}

func (g *GridSearch) searchRecursive(depth int, current map[string]float64, eval func(map[string]float64) error) error {
	if depth == len(g.paramNames) {
		return eval(maps.Clone(current))
	}
	name := g.paramNames[depth]
	for _, v := range g.ranges[depth] {
		current[name] = v
		if err := g.searchRecursive(depth+1, current, eval); err != nil {
			return err
		}
	}
	delete(current, name)
	return nil
}

// withParams copies cfg with params merged into force idx.
func withParams(cfg *config.Config, idx int, params map[string]float64) *config.Config {
	c := *cfg
	c.Forces = slices.Clone(cfg.Forces)
	merged := maps.Clone(c.Forces[idx].Params)
	if merged == nil {
		merged = make(map[string]float64, len(params))
	}
	maps.Copy(merged, params)
	c.Forces[idx].Params = merged
	return &c
}
