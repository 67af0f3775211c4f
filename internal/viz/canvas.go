package viz

import (
	"math"
	"strings"

	"github.com/san-kum/forcegraph/internal/layout"
)

// brailleBase is the empty braille cell. Each cell holds a 2x4 dot matrix:
//
//	1 4
//	2 5
//	3 6
//	7 8
const brailleBase = 0x2800

var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille dot canvas of Cols x Rows terminal cells, giving
// (2*Cols) x (4*Rows) addressable dots.
type Canvas struct {
	Cols, Rows int
	cells      [][]rune
}

func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{Cols: cols, Rows: rows, cells: make([][]rune, rows)}
	for i := range c.cells {
		c.cells[i] = make([]rune, cols)
	}
	c.Reset()
	return c
}

// Dots returns the canvas size in dots.
func (c *Canvas) Dots() (w, h int) {
	return c.Cols * 2, c.Rows * 4
}

func (c *Canvas) Reset() {
	for _, row := range c.cells {
		for j := range row {
			row[j] = brailleBase
		}
	}
}

// Dot sets the dot at (x, y). Out-of-range dots are ignored.
func (c *Canvas) Dot(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Cols || row >= c.Rows {
		return
	}
	c.cells[row][col] |= dotBits[y%4][x%2]
}

// On reports whether the dot at (x, y) is set.
func (c *Canvas) On(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Cols || y/4 >= c.Rows {
		return false
	}
	return c.cells[y/4][x/2]&dotBits[y%4][x%2] != 0
}

// Line draws a Bresenham line.
func (c *Canvas) Line(x0, y0, x1, y1 int) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x1 < x0 {
		sx = -1
	}
	if y1 < y0 {
		sy = -1
	}
	e := dx + dy
	for {
		c.Dot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// Disc fills a circle of radius r dots. A zero radius sets a single dot.
func (c *Canvas) Disc(cx, cy, r int) {
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			if x*x+y*y <= r*r {
				c.Dot(cx+x, cy+y)
			}
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.cells {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(row))
	}
	return b.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Viewport maps layout coordinates onto canvas dots with a uniform scale.
type Viewport struct {
	minX, minY float64
	scale      float64
	offX, offY float64
}

// Fit frames every position inside a w x h dot area, leaving margin dots on
// each side. Terminal cells are twice as tall as wide, which braille's 2x4
// dot matrix already compensates for.
func Fit(positions []layout.Position, w, h, margin int) Viewport {
	if len(positions) == 0 {
		return Viewport{scale: 1, offX: float64(w) / 2, offY: float64(h) / 2}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range positions {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	spanX, spanY := maxX-minX, maxY-minY
	availX := float64(max(w-2*margin-1, 1))
	availY := float64(max(h-2*margin-1, 1))

	scale := math.Inf(1)
	if spanX > 0 {
		scale = availX / spanX
	}
	if spanY > 0 {
		scale = math.Min(scale, availY/spanY)
	}
	if math.IsInf(scale, 1) {
		scale = 1
	}

	return Viewport{
		minX:  minX,
		minY:  minY,
		scale: scale,
		offX:  float64(margin) + (availX-spanX*scale)/2,
		offY:  float64(margin) + (availY-spanY*scale)/2,
	}
}

func (v Viewport) Project(x, y float64) (int, int) {
	return int(math.Round((x-v.minX)*v.scale + v.offX)),
		int(math.Round((y-v.minY)*v.scale + v.offY))
}

// Scale is the number of dots per layout unit.
func (v Viewport) Scale() float64 { return v.scale }

// Draw renders positions, and edges given as index pairs into positions,
// fitted to the canvas.
func (c *Canvas) Draw(positions []layout.Position, edges [][2]int) Viewport {
	c.Reset()
	w, h := c.Dots()
	v := Fit(positions, w, h, 2)

	for _, e := range edges {
		if e[0] < 0 || e[1] < 0 || e[0] >= len(positions) || e[1] >= len(positions) {
			continue
		}
		a, b := positions[e[0]], positions[e[1]]
		x0, y0 := v.Project(a.X, a.Y)
		x1, y1 := v.Project(b.X, b.Y)
		c.Line(x0, y0, x1, y1)
	}
	for _, p := range positions {
		x, y := v.Project(p.X, p.Y)
		c.Disc(x, y, 1)
	}
	return v
}
