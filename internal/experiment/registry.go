package experiment

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/san-kum/forcegraph/internal/forces"
	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/layout"
)

var (
	ErrUnknownForce = errors.New("experiment: unknown force")
	ErrUnknownParam = errors.New("experiment: unknown parameter")
)

// Params configures a force. Booleans are encoded as non-zero values.
type Params map[string]float64

func (p Params) get(key string, def float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

func (p Params) flag(key string, def bool) bool {
	if v, ok := p[key]; ok {
		return v != 0
	}
	return def
}

// ptr returns a pointer to the value under key, or nil when absent.
func (p Params) ptr(key string) *float64 {
	if v, ok := p[key]; ok {
		return graph.Float(v)
	}
	return nil
}

// ForceInfo describes a registered force.
type ForceInfo struct {
	Name   string
	Doc    string
	Params []string
}

type entry struct {
	info  ForceInfo
	build func(p Params) layout.Component
}

type Registry struct {
	forces map[string]entry
}

func NewRegistry() *Registry {
	r := &Registry{forces: make(map[string]entry)}

	r.Register(ForceInfo{Name: "nbody", Doc: "Barnes-Hut repulsion over the quadtree",
		Params: []string{"theta", "distance_min", "distance_max", "strength", "attract"}},
		func(p Params) layout.Component {
			f := forces.NewNBody()
			f.Theta = p.get("theta", f.Theta)
			f.DistanceMin = p.get("distance_min", f.DistanceMin)
			f.DistanceMax = p.get("distance_max", math.Inf(1))
			f.Strength = p.get("strength", f.Strength)
			f.Repulse = !p.flag("attract", false)
			return f
		})
	r.Register(ForceInfo{Name: "collision", Doc: "separates overlapping nodes",
		Params: []string{"strength", "radius_padding"}},
		func(p Params) layout.Component {
			f := forces.NewCollision()
			f.Strength = p.get("strength", f.Strength)
			f.RadiusPadding = p.get("radius_padding", f.RadiusPadding)
			return f
		})
	r.Register(ForceInfo{Name: "link", Doc: "springs along edges"},
		func(Params) layout.Component { return forces.NewLink() })
	r.Register(ForceInfo{Name: "attraction", Doc: "pulls nodes toward an axis coordinate",
		Params: []string{"horizontal", "coordinate", "strength"}},
		func(p Params) layout.Component {
			f := forces.NewAttraction(p.flag("horizontal", true), p.get("coordinate", 0))
			f.Strength = p.get("strength", f.Strength)
			return f
		})
	r.Register(ForceInfo{Name: "center", Doc: "keeps the mean position at a point",
		Params: []string{"x", "y", "strength"}},
		func(p Params) layout.Component {
			f := forces.NewCenter()
			f.X, f.Y = p.get("x", 0), p.get("y", 0)
			f.Strength = p.get("strength", f.Strength)
			return f
		})
	r.Register(ForceInfo{Name: "cluster", Doc: "pulls nodes toward their weighted centroid",
		Params: []string{"strength"}},
		func(p Params) layout.Component {
			f := forces.NewCluster()
			f.Strength = p.get("strength", f.Strength)
			return f
		})
	r.Register(ForceInfo{Name: "bbox", Doc: "clamps positions into a box, auto-sized when zero",
		Params: []string{"width", "height"}},
		func(p Params) layout.Component {
			return forces.NewBoundingBox(p.get("width", 0), p.get("height", 0))
		})
	r.Register(ForceInfo{Name: "radial", Doc: "pulls nodes onto a ring",
		Params: []string{"x", "y", "diameter", "strength", "size_multiplier"}},
		func(p Params) layout.Component {
			f := forces.NewRadial()
			f.CenterX, f.CenterY = p.ptr("x"), p.ptr("y")
			f.Diameter = p.get("diameter", f.Diameter)
			f.Strength = p.get("strength", f.Strength)
			f.SizeMultiplier = p.get("size_multiplier", f.SizeMultiplier)
			return f
		})
	r.Register(ForceInfo{Name: "grid", Doc: "snaps nodes toward grid lines",
		Params: []string{"size", "strength", "offset_multiplier", "use_x", "use_y"}},
		func(p Params) layout.Component {
			f := forces.NewGrid()
			f.Size = p.get("size", f.Size)
			f.Strength = p.get("strength", f.Strength)
			f.OffsetMultiplier = p.get("offset_multiplier", f.OffsetMultiplier)
			f.UseX = p.flag("use_x", f.UseX)
			f.UseY = p.flag("use_y", f.UseY)
			return f
		})
	r.Register(ForceInfo{Name: "fan", Doc: "places groups on rays from a center",
		Params: []string{"x", "y", "space", "strength"}},
		func(p Params) layout.Component {
			f := forces.NewFan()
			f.CenterX, f.CenterY = p.ptr("x"), p.ptr("y")
			f.Space = p.get("space", f.Space)
			f.Strength = p.get("strength", f.Strength)
			return f
		})
	r.Register(ForceInfo{Name: "matrix", Doc: "pins nodes to a square matrix",
		Params: []string{"x", "y"}},
		func(p Params) layout.Component {
			f := forces.NewMatrix()
			f.CenterX, f.CenterY = p.ptr("x"), p.ptr("y")
			return f
		})
	r.Register(ForceInfo{Name: "animation", Doc: "moves nodes to a destination, then removes itself",
		Params: []string{"x", "y", "strength", "keep"}},
		func(p Params) layout.Component {
			f := forces.NewAnimation(p.get("x", 0), p.get("y", 0))
			f.Strength = p.get("strength", f.Strength)
			f.RemoveOnArrival = !p.flag("keep", false)
			return f
		})
	r.Register(ForceInfo{Name: "fr", Doc: "Fruchterman-Reingold all-pairs layout",
		Params: []string{"size", "speed", "gravity"}},
		func(p Params) layout.Component {
			f := forces.NewFruchtermanReingold()
			f.Size = p.get("size", f.Size)
			f.Speed = p.get("speed", f.Speed)
			f.Gravity = p.get("gravity", f.Gravity)
			return f
		})
	r.Register(ForceInfo{Name: "barneshut", Doc: "repulsion through gonum's Barnes-Hut plane",
		Params: []string{"theta", "strength", "distance_min"}},
		func(p Params) layout.Component {
			f := forces.NewBarnesHut()
			f.Theta = p.get("theta", f.Theta)
			f.Strength = p.get("strength", f.Strength)
			f.DistanceMin = p.get("distance_min", f.DistanceMin)
			return f
		})

	return r
}

// Register adds or replaces a force factory.
func (r *Registry) Register(info ForceInfo, build func(p Params) layout.Component) {
	r.forces[info.Name] = entry{info: info, build: build}
}

// GetForce builds a fresh instance of the named force. Parameters the force
// does not declare are rejected.
func (r *Registry) GetForce(name string, params map[string]float64) (layout.Component, error) {
	e, ok := r.forces[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownForce, name)
	}
	for key := range params {
		if !slices.Contains(e.info.Params, key) {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownParam, name, key)
		}
	}
	return e.build(params), nil
}

func (r *Registry) ListForces() []string {
	names := make([]string, 0, len(r.forces))
	for name := range r.forces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Info(name string) (ForceInfo, bool) {
	e, ok := r.forces[name]
	return e.info, ok
}
