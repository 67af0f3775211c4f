package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/forcegraph/internal/config"
	"github.com/san-kum/forcegraph/internal/metrics"
)

func smallConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Graph.Generator = "ring"
	cfg.Graph.Nodes = 8
	cfg.MaxTicks = 20
	cfg.Layout.Unthrottled = true
	return cfg
}

func TestEnsemble(t *testing.T) {
	r := NewRegistry()
	seeds := []int64{1, 2, 3}
	results, err := r.Ensemble(context.Background(), smallConfig(), seeds,
		func() []metrics.Metric { return []metrics.Metric{metrics.NewEdgeStress()} })
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != len(seeds) {
		t.Fatalf("expected %d results, got %d", len(seeds), len(results))
	}
	for i, res := range results {
		if res.Iterations != 20 {
			t.Errorf("run %d: expected 20 ticks, got %d", i, res.Iterations)
		}
		if _, ok := res.Final["edge_stress"]; !ok {
			t.Errorf("run %d: missing stress metric in %v", i, res.Final)
		}
	}
}

func TestEnsembleReportsBuildErrors(t *testing.T) {
	cfg := smallConfig()
	cfg.Forces = []config.ForceConfig{{Name: "nope"}}
	_, err := NewRegistry().Ensemble(context.Background(), cfg, []int64{1, 2}, nil)
	if !errors.Is(err, ErrUnknownForce) {
		t.Errorf("expected ErrUnknownForce, got %v", err)
	}
}

func TestGridSearch(t *testing.T) {
	cfg := smallConfig()
	gs := NewGridSearch("nbody", []string{"strength", "theta"}, [][]float64{{0.5, 1}, {0.5, 0.9}})

	best, trials, err := gs.Search(context.Background(), NewRegistry(), cfg, nil,
		func() metrics.Metric { return metrics.NewEdgeStress() })
	if err != nil {
		t.Fatal(err)
	}
	if len(trials) != 4 {
		t.Fatalf("expected 4 trials, got %d", len(trials))
	}
	for _, tr := range trials {
		if len(tr.Params) != 2 {
			t.Errorf("trial params not isolated: %v", tr.Params)
		}
		if tr.Value < best.Value {
			t.Errorf("trial %v beats best %v", tr, best)
		}
	}
	if cfg.Forces[0].Params != nil {
		t.Errorf("search mutated the input config: %v", cfg.Forces[0].Params)
	}
}

func TestGridSearchUnknownForce(t *testing.T) {
	gs := NewGridSearch("fr", []string{"strength"}, [][]float64{{1}})
	_, _, err := gs.Search(context.Background(), NewRegistry(), smallConfig(), nil,
		func() metrics.Metric { return metrics.NewEdgeStress() })
	if !errors.Is(err, ErrNoForce) {
		t.Errorf("expected ErrNoForce, got %v", err)
	}
}
