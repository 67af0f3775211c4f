package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/forcegraph/internal/graph"
)

// Palette colors node groups in order of first appearance.
var Palette = []string{"#00ffff", "#ff00ff", "#ffd700", "#00ff88", "#ff8800", "#88aaff", "#ff4444"}

type SVGOptions struct {
	Width, Height int
	Padding       float64
	Background    string
	EdgeColor     string
	Labels        bool
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:      800,
		Height:     600,
		Padding:    20,
		Background: "#0a0a0a",
		EdgeColor:  "#555555",
	}
}

type bounds struct {
	minX, minY, maxX, maxY float64
}

func layoutBounds(g *graph.Graph) bounds {
	if len(g.Nodes) == 0 {
		return bounds{}
	}
	b := bounds{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
	for _, n := range g.Nodes {
		hw, hh := n.ShapeWidth()/2, n.ShapeHeight()/2
		b.minX = math.Min(b.minX, n.X-hw)
		b.maxX = math.Max(b.maxX, n.X+hw)
		b.minY = math.Min(b.minY, n.Y-hh)
		b.maxY = math.Max(b.maxY, n.Y+hh)
	}
	return b
}

// LayoutToSVG draws g as circles joined by straight edges, scaled uniformly to
// fit the image. Nodes with an explicit width or height are drawn as
// rectangles.
func LayoutToSVG(w io.Writer, g *graph.Graph, opts SVGOptions) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("export: invalid image size %dx%d", opts.Width, opts.Height)
	}

	b := layoutBounds(g)
	availW := float64(opts.Width) - 2*opts.Padding
	availH := float64(opts.Height) - 2*opts.Padding
	scale := 1.0
	if spanX, spanY := b.maxX-b.minX, b.maxY-b.minY; spanX > 0 && spanY > 0 {
		scale = math.Min(availW/spanX, availH/spanY)
	}
	offX := opts.Padding + (availW-(b.maxX-b.minX)*scale)/2
	offY := opts.Padding + (availH-(b.maxY-b.minY)*scale)/2
	project := func(x, y float64) (float64, float64) {
		return (x-b.minX)*scale + offX, (y-b.minY)*scale + offY
	}

	colors := make(map[string]string)
	color := func(group string) string {
		c, ok := colors[group]
		if !ok {
			c = Palette[len(colors)%len(Palette)]
			colors[group] = c
		}
		return c
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, opts.Width, opts.Height, opts.Width, opts.Height, opts.Background)

	fmt.Fprintf(&sb, "<g stroke=\"%s\" stroke-width=\"1\">\n", opts.EdgeColor)
	for _, e := range g.Edges {
		x1, y1 := project(e.Source.X, e.Source.Y)
		x2, y2 := project(e.Target.X, e.Target.Y)
		fmt.Fprintf(&sb, "<line x1=\"%.1f\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\"/>\n", x1, y1, x2, y2)
	}
	sb.WriteString("</g>\n<g>\n")

	for _, n := range g.Nodes {
		cx, cy := project(n.X, n.Y)
		fill := color(n.Group)
		if n.Width > 0 || n.Height > 0 {
			w, h := n.ShapeWidth()*scale, n.ShapeHeight()*scale
			fmt.Fprintf(&sb, "<rect id=\"%s\" x=\"%.1f\" y=\"%.1f\" width=\"%.1f\" height=\"%.1f\" fill=\"%s\"/>\n",
				escape(n.ID), cx-w/2, cy-h/2, w, h, fill)
		} else {
			fmt.Fprintf(&sb, "<circle id=\"%s\" cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"/>\n",
				escape(n.ID), cx, cy, n.Radius*scale, fill)
		}
		if opts.Labels {
			fmt.Fprintf(&sb, "<text x=\"%.1f\" y=\"%.1f\" fill=\"#ffffff\" font-size=\"10\" text-anchor=\"middle\">%s</text>\n",
				cx, cy+3, escape(n.ID))
		}
	}
	sb.WriteString("</g>\n</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return escaper.Replace(s) }
