package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/forcegraph/internal/config"
)

var (
	dataDir string
	verbose bool
)

// layoutFlags select the configuration shared by every command that builds a
// simulation.
type layoutFlags struct {
	preset      string
	configFile  string
	graphFile   string
	generator   string
	nodes       int
	seed        int64
	maxTicks    int
	unthrottled bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.preset, "preset", "p", "default", "preset configuration")
	cmd.Flags().StringVarP(&f.configFile, "config", "c", "", "config file (yaml or toml)")
	cmd.Flags().StringVarP(&f.graphFile, "graph", "g", "", "graph file (json, yaml or toml)")
	cmd.Flags().StringVar(&f.generator, "generator", config.DefaultGenerator, "graph generator")
	cmd.Flags().IntVarP(&f.nodes, "nodes", "n", config.DefaultNodes, "generated node count")
	cmd.Flags().Int64Var(&f.seed, "seed", 1, "generator seed")
	cmd.Flags().IntVar(&f.maxTicks, "max-ticks", config.DefaultMaxTicks, "tick limit, 0 runs until settled")
	cmd.Flags().BoolVar(&f.unthrottled, "unthrottled", false, "tick as fast as possible")
}

// resolve loads the config file or preset and applies the flags the user set
// explicitly. The returned name labels stored runs.
func (f *layoutFlags) resolve(cmd *cobra.Command) (*config.Config, string, error) {
	var (
		cfg  *config.Config
		name string
	)
	if f.configFile != "" {
		c, err := config.Load(f.configFile)
		if err != nil {
			return nil, "", err
		}
		cfg = c
		name = strings.TrimSuffix(filepath.Base(f.configFile), filepath.Ext(f.configFile))
	} else {
		cfg = config.GetPreset(f.preset)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset %q (available: %s)",
				f.preset, strings.Join(config.ListPresets(), ", "))
		}
		name = f.preset
	}

	flags := cmd.Flags()
	if f.graphFile != "" {
		cfg.Graph.Path = f.graphFile
		name = strings.TrimSuffix(filepath.Base(f.graphFile), filepath.Ext(f.graphFile))
	}
	if flags.Changed("generator") {
		cfg.Graph.Generator = f.generator
	}
	if flags.Changed("nodes") {
		cfg.Graph.Nodes = f.nodes
	}
	if flags.Changed("seed") {
		cfg.Graph.Seed = f.seed
	}
	if flags.Changed("max-ticks") {
		cfg.MaxTicks = f.maxTicks
	}
	if f.unthrottled {
		cfg.Layout.Unthrottled = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, name, nil
}

func main() {
	logger := newLogger(os.Stderr, log.InfoLevel)
	if err := newRootCmd().ExecuteContext(withLogger(context.Background(), logger)); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

// newRootCmd expects the logger in the context passed to ExecuteContext.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "forcegraph",
		Short:         "force-directed graph layout lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				loggerFromContext(cmd.Context()).SetLevel(log.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".forcegraph", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(
		newRunCmd(),
		newLiveCmd(),
		newBenchCmd(),
		newSweepCmd(),
		newDumpConfigCmd(),
		newListCmd(),
		newShowCmd(),
		newPlotCmd(),
		newPresetsCmd(),
		newForcesCmd(),
	)
	return rootCmd
}
