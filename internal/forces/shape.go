package forces

import (
	"math"

	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/layout"
)

// Attraction pulls one axis of every node toward Coordinate. A negative
// Strength pushes nodes away instead.
type Attraction struct {
	Base

	Horizontal bool
	Coordinate float64
	Strength   float64
}

func NewAttraction(horizontal bool, coordinate float64) *Attraction {
	return &Attraction{Horizontal: horizontal, Coordinate: coordinate, Strength: 0.05}
}

func (f *Attraction) Execute(alpha float64) {
	k := f.Strength * alpha
	for _, n := range f.nodes {
		if f.Horizontal {
			n.VX += (f.Coordinate - n.X) * k
		} else {
			n.VY += (f.Coordinate - n.Y) * k
		}
	}
}

// Center translates the bound nodes so that their mean position moves toward
// (X, Y). It writes positions directly and ignores alpha.
type Center struct {
	Base

	X, Y     float64
	Strength float64
}

func NewCenter() *Center {
	return &Center{Strength: 1}
}

func (f *Center) Execute(float64) {
	if len(f.nodes) == 0 {
		return
	}
	mx, my := f.averagePosition()
	dx := (mx - f.X) * f.Strength
	dy := (my - f.Y) * f.Strength
	for _, n := range f.nodes {
		n.X -= dx
		n.Y -= dy
	}
}

// Cluster draws the bound nodes toward their centroid weighted by mass².
type Cluster struct {
	Base

	Strength float64
}

func NewCluster() *Cluster {
	return &Cluster{Strength: 0.7}
}

func (f *Cluster) Execute(alpha float64) {
	var x, y, z float64
	for _, n := range f.nodes {
		m := n.Mass * n.Mass
		x += n.X * m
		y += n.Y * m
		z += m
	}
	if z == 0 {
		return
	}

	cx, cy := x/z, y/z
	k := alpha * f.Strength
	for _, n := range f.nodes {
		n.VX -= (n.X - cx) * k
		n.VY -= (n.Y - cy) * k
	}
}

// BoundingBox clamps positions into a box centered on the origin. A zero
// side is sized from the bound nodes.
type BoundingBox struct {
	Base

	Width, Height float64

	halfW, halfH float64
}

// boxMultiplier scales node footprints when sizing a box automatically.
const boxMultiplier = 5

func NewBoundingBox(width, height float64) *BoundingBox {
	return &BoundingBox{Width: width, Height: height}
}

func (f *BoundingBox) Initialize(nodes []*graph.Node, edges []*graph.Edge, ctx layout.Context) {
	f.Base.Initialize(nodes, edges, ctx)

	w, h := f.Width, f.Height
	if w <= 0 || h <= 0 {
		size := 0.0
		for _, n := range nodes {
			size += math.Max(n.ShapeWidth(), n.ShapeHeight()) * boxMultiplier
		}
		switch {
		case w <= 0 && h <= 0:
			w, h = size/2, size/2
		case w <= 0:
			w = size - h
			if w <= 0 {
				w = 100
			}
		default:
			h = size - w
			if h <= 0 {
				h = 100
			}
		}
	}
	f.halfW, f.halfH = w/2, h/2
}

// Extent returns the half width and half height in use.
func (f *BoundingBox) Extent() (float64, float64) {
	return f.halfW, f.halfH
}

func (f *BoundingBox) Execute(float64) {
	for _, n := range f.nodes {
		n.X = math.Max(-f.halfW, math.Min(f.halfW, n.X))
		n.Y = math.Max(-f.halfH, math.Min(f.halfH, n.Y))
	}
}

// Radial pulls nodes onto a circle around a center. A zero Diameter is
// derived from the node sizes so that the nodes fit around the circumference.
type Radial struct {
	Base

	Strength       float64
	CenterX        *float64
	CenterY        *float64
	Diameter       float64
	SizeMultiplier float64

	ring   float64
	cx, cy float64
	placed bool
}

func NewRadial() *Radial {
	return &Radial{Strength: 0.9, SizeMultiplier: 1.2}
}

func (f *Radial) Initialize(nodes []*graph.Node, edges []*graph.Edge, ctx layout.Context) {
	f.Base.Initialize(nodes, edges, ctx)

	diameter := f.Diameter
	if diameter <= 0 {
		sum := 0.0
		for _, n := range nodes {
			sum += n.Radius * 2
		}
		diameter = sum / math.Pi * f.SizeMultiplier
	}
	f.ring = diameter / 2

	// the center is fixed on the first initialization
	if !f.placed {
		f.cx, f.cy = f.averagePosition()
		if f.CenterX != nil {
			f.cx = *f.CenterX
		}
		if f.CenterY != nil {
			f.cy = *f.CenterY
		}
		f.placed = true
	}
}

func (f *Radial) Execute(alpha float64) {
	for _, n := range f.nodes {
		x := n.X - f.cx
		if x == 0 {
			x = 1e-6
		}
		y := n.Y - f.cy
		if y == 0 {
			y = 1e-6
		}
		d := math.Sqrt(x*x + y*y)
		force := (f.ring - d) * f.Strength * alpha / d
		n.VX += x * force
		n.VY += y * force
	}
}

// Grid draws nodes toward the nearest grid line on the enabled axes.
type Grid struct {
	Base

	UseX, UseY bool
	Strength   float64

	// Size is the grid spacing. Zero derives it from the largest node
	// footprint times OffsetMultiplier.
	Size             float64
	OffsetMultiplier float64

	cellX, cellY float64
}

func NewGrid() *Grid {
	return &Grid{UseX: true, UseY: true, Strength: 0.6, OffsetMultiplier: 3}
}

func (f *Grid) Initialize(nodes []*graph.Node, edges []*graph.Edge, ctx layout.Context) {
	f.Base.Initialize(nodes, edges, ctx)

	if f.Size > 0 {
		f.cellX, f.cellY = f.Size, f.Size
		return
	}

	f.cellX, f.cellY = 0, 0
	for _, n := range nodes {
		f.cellX = math.Max(f.cellX, n.ShapeWidth()*f.OffsetMultiplier)
		f.cellY = math.Max(f.cellY, n.ShapeHeight()*f.OffsetMultiplier)
	}
	if f.UseX && f.UseY {
		m := math.Max(f.cellX, f.cellY)
		f.cellX, f.cellY = m, m
	}
}

func (f *Grid) Execute(alpha float64) {
	k := alpha * f.Strength
	for _, n := range f.nodes {
		if f.UseY && f.cellY > 0 {
			line := math.Round(n.Y/f.cellY) * f.cellY
			n.VY -= (n.Y - line) * k
		}
		if f.UseX && f.cellX > 0 {
			line := math.Round(n.X/f.cellX) * f.cellX
			n.VX -= (n.X - line) * k
		}
	}
}
