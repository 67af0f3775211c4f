package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/layout"
)

const (
	DefaultGenerator = "random"
	DefaultNodes     = 60
	DefaultMaxTicks  = 1000
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Graph    GraphConfig   `yaml:"graph" toml:"graph"`
	Layout   LayoutConfig  `yaml:"layout" toml:"layout"`
	Forces   []ForceConfig `yaml:"forces" toml:"forces"`
	MaxTicks int           `yaml:"max_ticks" toml:"max_ticks"`
}

// GraphConfig selects the input graph: a file when Path is set, otherwise a
// generated graph.
type GraphConfig struct {
	Path      string `yaml:"path,omitempty" toml:"path,omitempty"`
	Generator string `yaml:"generator" toml:"generator"`
	Nodes     int    `yaml:"nodes" toml:"nodes"`
	Seed      int64  `yaml:"seed" toml:"seed"`
}

type LayoutConfig struct {
	UpdateCap     float64        `yaml:"update_cap" toml:"update_cap"`
	Unthrottled   bool           `yaml:"unthrottled" toml:"unthrottled"`
	Alpha         float64        `yaml:"alpha" toml:"alpha"`
	AlphaMin      float64        `yaml:"alpha_min" toml:"alpha_min"`
	AlphaDecay    float64        `yaml:"alpha_decay" toml:"alpha_decay"`
	AlphaTarget   float64        `yaml:"alpha_target" toml:"alpha_target"`
	VelocityDecay float64        `yaml:"velocity_decay" toml:"velocity_decay"`
	Defaults      graph.Defaults `yaml:"defaults" toml:"defaults"`
}

// ForceConfig names a registered force. ID defaults to Name; Group limits the
// force to nodes of one group.
type ForceConfig struct {
	Name   string             `yaml:"name" toml:"name"`
	ID     string             `yaml:"id,omitempty" toml:"id,omitempty"`
	Group  string             `yaml:"group,omitempty" toml:"group,omitempty"`
	Params map[string]float64 `yaml:"params,omitempty" toml:"params,omitempty"`
}

func (f ForceConfig) Key() string {
	if f.ID != "" {
		return f.ID
	}
	return f.Name
}

func DefaultConfig() *Config {
	opts := layout.DefaultOptions()
	return &Config{
		Graph: GraphConfig{
			Generator: DefaultGenerator,
			Nodes:     DefaultNodes,
			Seed:      1,
		},
		Layout: LayoutConfig{
			UpdateCap:     opts.UpdateCap,
			Alpha:         opts.Alpha,
			AlphaMin:      opts.AlphaMin,
			AlphaDecay:    opts.AlphaDecay,
			AlphaTarget:   opts.AlphaTarget,
			VelocityDecay: opts.VelocityDecay,
			Defaults:      opts.Defaults,
		},
		Forces: []ForceConfig{
			{Name: "nbody"},
			{Name: "link"},
			{Name: "collision"},
			{Name: "center"},
		},
		MaxTicks: DefaultMaxTicks,
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads a yaml or toml (by extension) file over DefaultConfig and
// validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if isTOML(path) {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		var sb strings.Builder
		err = toml.NewEncoder(&sb).Encode(cfg)
		data = []byte(sb.String())
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	l := c.Layout
	switch {
	case len(c.Forces) == 0:
		return fmt.Errorf("%w: no forces", ErrInvalid)
	case c.MaxTicks < 0:
		return fmt.Errorf("%w: max_ticks %d", ErrInvalid, c.MaxTicks)
	case c.Graph.Path == "" && c.Graph.Nodes < 0:
		return fmt.Errorf("%w: graph nodes %d", ErrInvalid, c.Graph.Nodes)
	case l.UpdateCap < 0 || math.IsNaN(l.UpdateCap):
		return fmt.Errorf("%w: update_cap %v", ErrInvalid, l.UpdateCap)
	case l.Alpha < 0 || l.Alpha > 1:
		return fmt.Errorf("%w: alpha %v outside [0, 1]", ErrInvalid, l.Alpha)
	case l.AlphaMin < 0 || l.AlphaMin > 1:
		return fmt.Errorf("%w: alpha_min %v outside [0, 1]", ErrInvalid, l.AlphaMin)
	case l.AlphaDecay < 0 || l.AlphaDecay >= 1:
		return fmt.Errorf("%w: alpha_decay %v outside [0, 1)", ErrInvalid, l.AlphaDecay)
	case l.VelocityDecay < 0 || l.VelocityDecay > 1:
		return fmt.Errorf("%w: velocity_decay %v outside [0, 1]", ErrInvalid, l.VelocityDecay)
	}

	seen := make(map[string]bool, len(c.Forces))
	for i, f := range c.Forces {
		if f.Name == "" {
			return fmt.Errorf("%w: force #%d has no name", ErrInvalid, i)
		}
		if seen[f.Key()] {
			return fmt.Errorf("%w: duplicate force id %q", ErrInvalid, f.Key())
		}
		seen[f.Key()] = true
	}
	return nil
}

// Options converts the layout section into simulation options.
func (c *Config) Options() layout.Options {
	l := c.Layout
	opts := layout.Options{
		UpdateCap:     l.UpdateCap,
		Alpha:         l.Alpha,
		AlphaMin:      l.AlphaMin,
		AlphaDecay:    l.AlphaDecay,
		AlphaTarget:   l.AlphaTarget,
		VelocityDecay: l.VelocityDecay,
		Defaults:      l.Defaults,
	}
	if l.Unthrottled {
		opts.UpdateCap = math.Inf(1)
	}
	return opts
}

// GraphFile is the on-disk graph format.
type GraphFile struct {
	Nodes []graph.NodeSpec `yaml:"nodes" json:"nodes" toml:"nodes"`
	Edges []graph.EdgeSpec `yaml:"edges" json:"edges" toml:"edges"`
}

// LoadGraph reads a graph from .json, .toml or yaml.
func LoadGraph(path string) ([]graph.NodeSpec, []graph.EdgeSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	var gf GraphFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &gf)
	case ".toml":
		err = toml.Unmarshal(data, &gf)
	default:
		err = yaml.Unmarshal(data, &gf)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("config: parse graph %s: %w", path, err)
	}
	return gf.Nodes, gf.Edges, nil
}

// LoadGraph resolves the graph section into specs.
func (c *Config) LoadGraph() ([]graph.NodeSpec, []graph.EdgeSpec, error) {
	if c.Graph.Path != "" {
		return LoadGraph(c.Graph.Path)
	}
	return graph.Generate(c.Graph.Generator, c.Graph.Nodes, c.Graph.Seed)
}
