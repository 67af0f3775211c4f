package graph

import "math"

// NodeSpec is an application-supplied node. Nil fields are filled by Build.
type NodeSpec struct {
	ID     string   `yaml:"id" json:"id" toml:"id"`
	X      *float64 `yaml:"x,omitempty" json:"x,omitempty" toml:"x,omitempty"`
	Y      *float64 `yaml:"y,omitempty" json:"y,omitempty" toml:"y,omitempty"`
	VX     *float64 `yaml:"vx,omitempty" json:"vx,omitempty" toml:"vx,omitempty"`
	VY     *float64 `yaml:"vy,omitempty" json:"vy,omitempty" toml:"vy,omitempty"`
	FX     *float64 `yaml:"fx,omitempty" json:"fx,omitempty" toml:"fx,omitempty"`
	FY     *float64 `yaml:"fy,omitempty" json:"fy,omitempty" toml:"fy,omitempty"`
	Mass   *float64 `yaml:"mass,omitempty" json:"mass,omitempty" toml:"mass,omitempty"`
	Radius *float64 `yaml:"radius,omitempty" json:"radius,omitempty" toml:"radius,omitempty"`
	Width  float64  `yaml:"width,omitempty" json:"width,omitempty" toml:"width,omitempty"`
	Height float64  `yaml:"height,omitempty" json:"height,omitempty" toml:"height,omitempty"`
	Group  string   `yaml:"group,omitempty" json:"group,omitempty" toml:"group,omitempty"`
}

// EdgeSpec is an application-supplied edge between two node ids.
type EdgeSpec struct {
	Source          string   `yaml:"sourceNode" json:"sourceNode" toml:"sourceNode"`
	Target          string   `yaml:"targetNode" json:"targetNode" toml:"targetNode"`
	Strength        *float64 `yaml:"strength,omitempty" json:"strength,omitempty" toml:"strength,omitempty"`
	Distance        *float64 `yaml:"distance,omitempty" json:"distance,omitempty" toml:"distance,omitempty"`
	VisibleDistance *float64 `yaml:"visibleDistance,omitempty" json:"visibleDistance,omitempty" toml:"visibleDistance,omitempty"`
	Weight          *float64 `yaml:"weight,omitempty" json:"weight,omitempty" toml:"weight,omitempty"`
}

type Node struct {
	ID    string
	Index int

	X, Y   float64
	VX, VY float64

	// FX and FY pin an axis. A non-nil pin overrides the simulated position
	// and zeroes the velocity on that axis.
	FX, FY *float64

	Mass   float64
	Radius float64
	Width  float64
	Height float64
	Group  string

	// TargetX and TargetY are per-node destinations read by the animation force.
	TargetX, TargetY *float64
}

// Pin fixes the node at (x, y) on both axes.
func (n *Node) Pin(x, y float64) {
	n.FX = &x
	n.FY = &y
}

func (n *Node) Unpin() {
	n.FX = nil
	n.FY = nil
}

func (n *Node) Pinned() bool { return n.FX != nil || n.FY != nil }

// ShapeWidth is the explicit width, or the circle diameter.
func (n *Node) ShapeWidth() float64 {
	if n.Width > 0 {
		return n.Width
	}
	return n.Radius * 2
}

func (n *Node) ShapeHeight() float64 {
	if n.Height > 0 {
		return n.Height
	}
	return n.Radius * 2
}

func (n *Node) IsFinite() bool {
	for _, v := range [...]float64{n.X, n.Y, n.VX, n.VY, n.Mass, n.Radius} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type Edge struct {
	SourceID, TargetID string
	Source, Target     *Node
	Index              int

	Strength        float64
	Distance        float64
	VisibleDistance float64
	Weight          float64
}

// Length is the current euclidean distance between the endpoints.
func (e *Edge) Length() float64 {
	return math.Hypot(e.Target.X-e.Source.X, e.Target.Y-e.Source.Y)
}

type Defaults struct {
	NodeRadius          float64 `yaml:"node_radius" toml:"node_radius"`
	NodeMass            float64 `yaml:"node_mass" toml:"node_mass"`
	EdgeStrength        float64 `yaml:"edge_strength" toml:"edge_strength"`
	VisibleEdgeDistance float64 `yaml:"visible_edge_distance" toml:"visible_edge_distance"`
}

const (
	DefaultNodeRadius          = 10.0
	DefaultNodeMass            = 1.0
	DefaultEdgeStrength        = 1.0
	DefaultVisibleEdgeDistance = 50.0
)

func DefaultDefaults() Defaults {
	return Defaults{
		NodeRadius:          DefaultNodeRadius,
		NodeMass:            DefaultNodeMass,
		EdgeStrength:        DefaultEdgeStrength,
		VisibleEdgeDistance: DefaultVisibleEdgeDistance,
	}
}

// Normalize replaces non-positive fields with the package defaults.
func (d Defaults) Normalize() Defaults {
	if d.NodeRadius <= 0 {
		d.NodeRadius = DefaultNodeRadius
	}
	if d.NodeMass <= 0 {
		d.NodeMass = DefaultNodeMass
	}
	if d.EdgeStrength <= 0 {
		d.EdgeStrength = DefaultEdgeStrength
	}
	if d.VisibleEdgeDistance <= 0 {
		d.VisibleEdgeDistance = DefaultVisibleEdgeDistance
	}
	return d
}

// Graph is the resolved result of Build.
type Graph struct {
	Nodes []*Node
	Edges []*Edge
	byID  map[string]*Node
}

func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}
