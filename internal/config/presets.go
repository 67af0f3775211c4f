package config

import "sort"

func forces(names ...string) []ForceConfig {
	out := make([]ForceConfig, len(names))
	for i, n := range names {
		out[i] = ForceConfig{Name: n}
	}
	return out
}

func preset(gen string, nodes int, f ...ForceConfig) *Config {
	cfg := DefaultConfig()
	cfg.Graph.Generator = gen
	cfg.Graph.Nodes = nodes
	cfg.Forces = f
	return cfg
}

var Presets = map[string]*Config{
	"default": preset("random", 60, forces("nbody", "link", "collision", "center")...),
	"tree":    preset("tree", 80, forces("nbody", "link", "collision", "center")...),
	"clusters": preset("clusters", 64,
		ForceConfig{Name: "nbody", Params: map[string]float64{"strength": 1.5}},
		ForceConfig{Name: "link"},
		ForceConfig{Name: "cluster", Params: map[string]float64{"strength": 0.05}},
		ForceConfig{Name: "collision"},
	),
	"grid": preset("grid", 49,
		ForceConfig{Name: "nbody"},
		ForceConfig{Name: "link"},
		ForceConfig{Name: "grid", Params: map[string]float64{"size": 40}},
		ForceConfig{Name: "collision"},
	),
	"radial": preset("star", 40,
		ForceConfig{Name: "nbody"},
		ForceConfig{Name: "radial", Params: map[string]float64{"diameter": 400}},
		ForceConfig{Name: "collision"},
	),
	"boxed": preset("random", 100,
		ForceConfig{Name: "nbody"},
		ForceConfig{Name: "link"},
		ForceConfig{Name: "collision"},
		ForceConfig{Name: "bbox"},
	),
	"fruchterman": preset("ring", 30, forces("fr", "center")...),
	"barneshut":   preset("random", 200, forces("barneshut", "link", "collision", "center")...),
	"matrix":      preset("random", 25, forces("matrix")...),
	"fan":         preset("clusters", 32, forces("fan")...),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	c.Forces = append([]ForceConfig(nil), cfg.Forces...)
	return &c
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
