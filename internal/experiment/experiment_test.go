package experiment

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/forcegraph/internal/config"
	"github.com/san-kum/forcegraph/internal/forces"
	"github.com/san-kum/forcegraph/internal/layout"
	"github.com/san-kum/forcegraph/internal/metrics"
)

func TestRegistryBuildsEveryForce(t *testing.T) {
	r := NewRegistry()
	names := r.ListForces()
	if len(names) < 14 {
		t.Fatalf("expected at least 14 forces, got %d", len(names))
	}
	for _, name := range names {
		c, err := r.GetForce(name, nil)
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if c == nil {
			t.Errorf("%s: nil component", name)
		}
		if info, ok := r.Info(name); !ok || info.Doc == "" {
			t.Errorf("%s: missing description", name)
		}
	}
}

func TestRegistryAppliesParams(t *testing.T) {
	r := NewRegistry()

	c, err := r.GetForce("nbody", map[string]float64{"theta": 0.3, "attract": 1})
	if err != nil {
		t.Fatal(err)
	}
	nb := c.(*forces.NBody)
	if nb.Theta != 0.3 || nb.Repulse {
		t.Errorf("params not applied: %+v", nb)
	}
	if !math.IsInf(nb.DistanceMax, 1) {
		t.Errorf("expected unbounded distance max, got %v", nb.DistanceMax)
	}

	c, err = r.GetForce("radial", map[string]float64{"x": 5})
	if err != nil {
		t.Fatal(err)
	}
	rad := c.(*forces.Radial)
	if rad.CenterX == nil || *rad.CenterX != 5 || rad.CenterY != nil {
		t.Errorf("center not applied: %v %v", rad.CenterX, rad.CenterY)
	}
}

func TestRegistryErrors(t *testing.T) {
	r := NewRegistry()

	if _, err := r.GetForce("gravity-well", nil); !errors.Is(err, ErrUnknownForce) {
		t.Errorf("expected ErrUnknownForce, got %v", err)
	}
	if _, err := r.GetForce("link", map[string]float64{"stiffness": 2}); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
}

func TestBuildFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Graph.Generator = "clusters"
	cfg.Graph.Nodes = 16
	cfg.Forces = append(cfg.Forces, config.ForceConfig{Name: "attraction", ID: "pull-c0", Group: "c0"})

	sim, err := NewRegistry().Build(cfg)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	want := []string{"nbody", "link", "collision", "center", "pull-c0"}
	got := sim.Components()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("component %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestBuildRejectsUnknownForce(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Forces = []config.ForceConfig{{Name: "nope"}}
	if _, err := NewRegistry().Build(cfg); !errors.Is(err, ErrUnknownForce) {
		t.Errorf("expected ErrUnknownForce, got %v", err)
	}
}

func TestRunSettles(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Graph.Nodes = 20
	cfg.Layout.AlphaDecay = 0.05

	sim, err := NewRegistry().Build(cfg)
	if err != nil {
		t.Fatal(err)
	}

	ms := metrics.Defaults()
	res, err := Run(context.Background(), sim, RunConfig{}, ms...)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !res.Settled {
		t.Error("expected the layout to settle")
	}
	if len(res.History) != res.Iterations {
		t.Errorf("history %d rows for %d iterations", len(res.History), res.Iterations)
	}
	for i := 1; i < len(res.History); i++ {
		if res.History[i].Alpha >= res.History[i-1].Alpha {
			t.Fatalf("alpha did not decrease at row %d", i)
		}
	}
	if len(res.Positions) != 20 {
		t.Errorf("expected 20 positions, got %d", len(res.Positions))
	}
	for _, m := range ms {
		if _, ok := res.Final[m.Name()]; !ok {
			t.Errorf("missing final value for %s", m.Name())
		}
	}
}

func TestRunMaxTicks(t *testing.T) {
	sim, err := layout.New(nil, nil, layout.Options{})
	if err != nil {
		t.Fatal(err)
	}
	res, err := Run(context.Background(), sim, RunConfig{MaxTicks: 7})
	if err != nil {
		t.Fatal(err)
	}
	if res.Iterations != 7 || res.Settled {
		t.Errorf("expected 7 unsettled iterations, got %d settled=%v", res.Iterations, res.Settled)
	}
}

func TestRunCancelled(t *testing.T) {
	sim, err := layout.New(nil, nil, layout.Options{})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Run(ctx, sim, RunConfig{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if res == nil || res.Iterations != 0 {
		t.Errorf("expected an empty partial result, got %+v", res)
	}
}
