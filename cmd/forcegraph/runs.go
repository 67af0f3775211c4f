package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/forcegraph/internal/config"
	"github.com/san-kum/forcegraph/internal/experiment"
	"github.com/san-kum/forcegraph/internal/storage"
	"github.com/san-kum/forcegraph/internal/viz"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := storage.New(dataDir).List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPRESET\tTIME\tNODES\tEDGES\tTICKS\tSETTLED\tELAPSED")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%v\t%.1fms\n",
					run.ID,
					run.Preset,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					run.Nodes,
					run.Edges,
					run.Iterations,
					run.Settled,
					run.ElapsedMS,
				)
			}
			return w.Flush()
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [run_id]",
		Short: "print run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := storage.New(dataDir).Load(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(meta)
		},
	}
}

func newPlotCmd() *cobra.Command {
	var width, height int
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run history and final positions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir)
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			hist, err := st.LoadHistory(args[0])
			if err != nil {
				return err
			}
			if len(hist.Iterations) == 0 {
				return fmt.Errorf("run %s has no history", args[0])
			}

			fmt.Printf("run: %s\n", meta.ID)
			fmt.Printf("preset: %s\n", meta.Preset)
			fmt.Printf("ticks: %d\n\n", meta.Iterations)

			plot := func(data []float64, caption string) {
				if len(data) < 2 {
					return
				}
				fmt.Println(asciigraph.Plot(data,
					asciigraph.Height(height),
					asciigraph.Width(width),
					asciigraph.Caption(caption),
				))
				fmt.Println()
			}
			plot(hist.Alpha, "alpha")
			for i, name := range hist.Columns {
				plot(hist.Metrics[i], name)
			}

			positions, err := st.LoadPositions(args[0])
			if err != nil {
				return err
			}
			c := viz.NewCanvas(width/2, height*2)
			c.Draw(positions, nil)
			fmt.Println(c.String())
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 80, "plot width")
	cmd.Flags().IntVar(&height, "height", 10, "plot height")
	return cmd
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list preset configurations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tGENERATOR\tNODES\tFORCES")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				keys := make([]string, len(cfg.Forces))
				for i, f := range cfg.Forces {
					keys[i] = f.Key()
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
					name, cfg.Graph.Generator, cfg.Graph.Nodes, strings.Join(keys, ", "))
			}
			return w.Flush()
		},
	}
}

func newForcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forces",
		Short: "list registered forces and their parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := experiment.NewRegistry()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDESCRIPTION\tPARAMS")
			for _, name := range reg.ListForces() {
				info, _ := reg.Info(name)
				fmt.Fprintf(w, "%s\t%s\t%s\n", info.Name, info.Doc, strings.Join(info.Params, ", "))
			}
			return w.Flush()
		},
	}
}
