package main

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/forcegraph/internal/config"
	"github.com/san-kum/forcegraph/internal/experiment"
	"github.com/san-kum/forcegraph/internal/export"
	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/layout"
	"github.com/san-kum/forcegraph/internal/metrics"
	"github.com/san-kum/forcegraph/internal/storage"
	"github.com/san-kum/forcegraph/internal/viz"
)

func newRunCmd() *cobra.Command {
	var (
		lf        layoutFlags
		noSave    bool
		crossings bool
		jsonOut   string
		svgOut    string
		labels    bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "run a layout offline and store the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			logger := loggerFromContext(ctx)

			cfg, name, err := lf.resolve(cmd)
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			sim, err := experiment.NewRegistry().Build(cfg, layout.WithLogger(logger))
			if err != nil {
				return err
			}
			logger.Debug("layout built", "nodes", len(sim.Nodes()), "edges", len(sim.Edges()),
				"forces", strings.Join(sim.Components(), ","))

			ms := metrics.Defaults()
			if crossings {
				ms = append(ms, metrics.NewCrossings())
			}
			res, err := experiment.Run(ctx, sim, experiment.RunConfig{MaxTicks: cfg.MaxTicks}, ms...)
			switch {
			case errors.Is(err, context.Canceled):
				logger.Warn("interrupted", "iterations", res.Iterations)
			case err != nil:
				return err
			}
			prog.done(fmt.Sprintf("Laid out %d nodes in %d ticks", len(res.Positions), res.Iterations))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "settled\t%v\n", res.Settled)
			fmt.Fprintf(w, "alpha\t%.5f\n", sim.Alpha())
			for _, n := range res.MetricNames {
				fmt.Fprintf(w, "%s\t%.4f\n", n, res.Final[n])
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if !noSave {
				st := storage.New(dataDir)
				if err := st.Init(); err != nil {
					return err
				}
				id, err := st.Save(storage.RunInfo{
					Preset: name,
					Edges:  len(sim.Edges()),
					Forces: sim.Components(),
				}, res)
				if err != nil {
					return err
				}
				logger.Info("saved run", "id", id)
			}

			if jsonOut != "" {
				sim.Do(func(g *graph.Graph) { err = export.WriteFile(jsonOut, g) })
				if err != nil {
					return err
				}
				logger.Info("wrote layout", "path", jsonOut)
			}
			if svgOut != "" {
				opts := export.DefaultSVGOptions()
				opts.Labels = labels
				if err := writeSVG(svgOut, sim, opts); err != nil {
					return err
				}
				logger.Info("wrote svg", "path", svgOut)
			}
			return nil
		},
	}
	lf.register(cmd)
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	cmd.Flags().BoolVar(&crossings, "crossings", false, "also count edge crossings (quadratic)")
	cmd.Flags().StringVar(&jsonOut, "json", "", "write the final layout as a json graph file (- for stdout)")
	cmd.Flags().StringVar(&svgOut, "svg", "", "write the final layout as svg")
	cmd.Flags().BoolVar(&labels, "labels", false, "label nodes in svg output")
	return cmd
}

func writeSVG(path string, sim *layout.Simulation, opts export.SVGOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	sim.Do(func(g *graph.Graph) { err = export.LayoutToSVG(f, g, opts) })
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newLiveCmd() *cobra.Command {
	var (
		lf    layoutFlags
		theme string
	)
	cmd := &cobra.Command{
		Use:   "live",
		Short: "watch a layout settle in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, name, err := lf.resolve(cmd)
			if err != nil {
				return err
			}
			// No logger: output would tear the alternate screen.
			sim, err := experiment.NewRegistry().Build(cfg)
			if err != nil {
				return err
			}

			m := viz.NewModel(sim, name).WithTheme(viz.GetTheme(theme))
			p := tea.NewProgram(m, tea.WithAltScreen())
			if err := viz.Attach(sim, p); err != nil {
				return err
			}
			_, err = p.Run()
			sim.Stop()
			return err
		},
	}
	lf.register(cmd)
	cmd.Flags().StringVar(&theme, "theme", viz.Themes[0].Name,
		"color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	return cmd
}

func newBenchCmd() *cobra.Command {
	var (
		lf    layoutFlags
		sizes []int
		ticks int
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "time layout ticks across graph sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, name, err := lf.resolve(cmd)
			if err != nil {
				return err
			}
			reg := experiment.NewRegistry()

			fmt.Printf("benchmarking %s\n\n", name)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NODES\tEDGES\tTICKS\tTIME\tTICKS/SEC")

			for _, n := range sizes {
				c := *cfg
				c.Graph.Path = ""
				c.Graph.Nodes = n
				sim, err := reg.Build(&c)
				if err != nil {
					return err
				}
				res, err := experiment.Run(cmd.Context(), sim, experiment.RunConfig{MaxTicks: ticks})
				if err != nil {
					return err
				}
				rate := float64(res.Iterations) / res.Elapsed.Seconds()
				fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\n",
					n, len(sim.Edges()), res.Iterations, res.Elapsed.Round(time.Microsecond), rate)
			}
			return w.Flush()
		},
	}
	lf.register(cmd)
	cmd.Flags().IntSliceVar(&sizes, "sizes", []int{50, 100, 200, 400}, "node counts")
	cmd.Flags().IntVar(&ticks, "ticks", 200, "ticks per size")
	return cmd
}

func newDumpConfigCmd() *cobra.Command {
	var lf layoutFlags
	cmd := &cobra.Command{
		Use:   "dump-config [path]",
		Short: "write the resolved configuration as yaml or toml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := lf.resolve(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Info("wrote config", "path", args[0])
			return nil
		},
	}
	lf.register(cmd)
	return cmd
}

func newSweepCmd() *cobra.Command {
	var (
		lf     layoutFlags
		force  string
		params []string
		seeds  []int64
		metric string
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search force parameters for the lowest metric",
		Example: `  forcegraph sweep --force nbody --param strength=0.5,1,2 --param theta=0.5,0.9
  forcegraph sweep -p clusters --force cluster --param strength=0.01,0.05 --metric overlap`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			cfg, name, err := lf.resolve(cmd)
			if err != nil {
				return err
			}
			newMetric, ok := sweepMetrics[metric]
			if !ok {
				return fmt.Errorf("unknown metric %q", metric)
			}

			names := make([]string, len(params))
			ranges := make([][]float64, len(params))
			for i, p := range params {
				key, values, ok := strings.Cut(p, "=")
				if !ok {
					return fmt.Errorf("param %q: expected name=v1,v2", p)
				}
				names[i] = key
				for _, s := range strings.Split(values, ",") {
					v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
					if err != nil {
						return fmt.Errorf("param %s: %w", key, err)
					}
					ranges[i] = append(ranges[i], v)
				}
			}

			prog := newProgress(logger)
			gs := experiment.NewGridSearch(force, names, ranges)
			best, trials, err := gs.Search(cmd.Context(), experiment.NewRegistry(), cfg, seeds, newMetric)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Evaluated %d points on %s", len(trials), name))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, strings.ToUpper(strings.Join(names, "\t"))+"\t"+strings.ToUpper(metric))
			for _, tr := range trials {
				for _, n := range names {
					fmt.Fprintf(w, "%g\t", tr.Params[n])
				}
				marker := ""
				if maps.Equal(tr.Params, best.Params) {
					marker = " *"
				}
				fmt.Fprintf(w, "%.4f%s\n", tr.Value, marker)
			}
			return w.Flush()
		},
	}
	lf.register(cmd)
	cmd.Flags().StringVar(&force, "force", "nbody", "force id to tune")
	cmd.Flags().StringArrayVar(&params, "param", nil, "parameter grid as name=v1,v2,... (repeatable)")
	cmd.Flags().Int64SliceVar(&seeds, "seeds", []int64{1, 2, 3}, "generator seeds averaged per point")
	cmd.Flags().StringVar(&metric, "metric", "edge_stress", "metric to minimize")
	_ = cmd.MarkFlagRequired("param")
	return cmd
}

var sweepMetrics = map[string]func() metrics.Metric{
	"edge_stress":    func() metrics.Metric { return metrics.NewEdgeStress() },
	"overlap":        func() metrics.Metric { return metrics.NewOverlap() },
	"crossings":      func() metrics.Metric { return metrics.NewCrossings() },
	"kinetic_energy": func() metrics.Metric { return metrics.NewKineticEnergy() },
}
