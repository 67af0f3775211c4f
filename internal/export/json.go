// Package export writes finished layouts as JSON graph files and SVG images.
package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/forcegraph/internal/config"
	"github.com/san-kum/forcegraph/internal/graph"
)

// Specs converts g back into specs that rebuild the same positions, pins and
// edge geometry.
func Specs(g *graph.Graph) config.GraphFile {
	gf := config.GraphFile{
		Nodes: make([]graph.NodeSpec, len(g.Nodes)),
		Edges: make([]graph.EdgeSpec, len(g.Edges)),
	}
	for i, n := range g.Nodes {
		s := graph.NodeSpec{
			ID:     n.ID,
			X:      graph.Float(n.X),
			Y:      graph.Float(n.Y),
			Mass:   graph.Float(n.Mass),
			Radius: graph.Float(n.Radius),
			Width:  n.Width,
			Height: n.Height,
			Group:  n.Group,
		}
		if n.FX != nil {
			s.FX = graph.Float(*n.FX)
		}
		if n.FY != nil {
			s.FY = graph.Float(*n.FY)
		}
		gf.Nodes[i] = s
	}
	for i, e := range g.Edges {
		gf.Edges[i] = graph.EdgeSpec{
			Source:          e.SourceID,
			Target:          e.TargetID,
			Strength:        graph.Float(e.Strength),
			Distance:        graph.Float(e.Distance),
			VisibleDistance: graph.Float(e.VisibleDistance),
			Weight:          graph.Float(e.Weight),
		}
	}
	return gf
}

func LayoutToJSON(w io.Writer, g *graph.Graph) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Specs(g))
}

// WriteFile writes g to path as JSON, or to stdout when path is "-".
func WriteFile(path string, g *graph.Graph) error {
	if path == "-" {
		return LayoutToJSON(os.Stdout, g)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := LayoutToJSON(f, g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
