package graph

import "math"

// goldenAngle spaces seeded nodes on a phyllotaxis spiral.
var goldenAngle = math.Pi * (3 - math.Sqrt(5))

// Build resolves specs into a Graph. Edge endpoints are checked before any
// runtime record is created, so a broken edge yields no partial graph.
// When several nodes share an id, edges resolve to the first of them.
func Build(nodeSpecs []NodeSpec, edgeSpecs []EdgeSpec, d Defaults) (*Graph, error) {
	d = d.Normalize()

	specIndex := make(map[string]int, len(nodeSpecs))
	for i := range nodeSpecs {
		if _, ok := specIndex[nodeSpecs[i].ID]; !ok {
			specIndex[nodeSpecs[i].ID] = i
		}
	}
	for i, es := range edgeSpecs {
		_, okSource := specIndex[es.Source]
		_, okTarget := specIndex[es.Target]
		if !okSource || !okTarget {
			return nil, &BrokenEdgeError{Index: i, Source: es.Source, Target: es.Target}
		}
	}

	g := &Graph{
		Nodes: make([]*Node, len(nodeSpecs)),
		Edges: make([]*Edge, len(edgeSpecs)),
		byID:  make(map[string]*Node, len(nodeSpecs)),
	}

	for i := range nodeSpecs {
		n := newNode(i, &nodeSpecs[i], d)
		g.Nodes[i] = n
		if _, ok := g.byID[n.ID]; !ok {
			g.byID[n.ID] = n
		}
	}

	for i := range edgeSpecs {
		g.Edges[i] = newEdge(i, &edgeSpecs[i], g.byID, d)
	}

	return g, nil
}

func newNode(i int, s *NodeSpec, d Defaults) *Node {
	n := &Node{
		ID:     s.ID,
		Index:  i,
		Width:  s.Width,
		Height: s.Height,
		Group:  s.Group,
	}

	switch {
	case s.Radius != nil && *s.Radius > 0:
		n.Radius = *s.Radius
	case s.Width > 0 || s.Height > 0:
		n.Radius = math.Max(s.Width, s.Height) / 2
	default:
		n.Radius = d.NodeRadius
	}

	n.Mass = d.NodeMass
	if s.Mass != nil && *s.Mass > 0 {
		n.Mass = *s.Mass
	}

	if s.X != nil && s.Y != nil && isFinite(*s.X) && isFinite(*s.Y) {
		n.X, n.Y = *s.X, *s.Y
	} else {
		r := n.Radius * math.Sqrt(0.5+float64(i))
		a := float64(i) * goldenAngle
		n.X = r * math.Cos(a)
		n.Y = r * math.Sin(a)
	}

	if s.FX != nil {
		fx := *s.FX
		n.FX = &fx
		n.X = fx
	}
	if s.FY != nil {
		fy := *s.FY
		n.FY = &fy
		n.Y = fy
	}

	if s.VX != nil && s.VY != nil && isFinite(*s.VX) && isFinite(*s.VY) {
		n.VX, n.VY = *s.VX, *s.VY
	}

	return n
}

func newEdge(i int, s *EdgeSpec, byID map[string]*Node, d Defaults) *Edge {
	e := &Edge{
		SourceID: s.Source,
		TargetID: s.Target,
		Source:   byID[s.Source],
		Target:   byID[s.Target],
		Index:    i,
		Strength: d.EdgeStrength,
		Weight:   1,
	}
	if s.Strength != nil && *s.Strength != 0 {
		e.Strength = *s.Strength
	}

	radii := e.Source.Radius + e.Target.Radius
	switch {
	case s.Distance != nil && *s.Distance > 0:
		e.Distance = *s.Distance
	case s.VisibleDistance != nil && *s.VisibleDistance > 0:
		e.Distance = radii + *s.VisibleDistance
	default:
		e.Distance = radii + d.VisibleEdgeDistance
	}

	if s.VisibleDistance != nil && *s.VisibleDistance > 0 {
		e.VisibleDistance = *s.VisibleDistance
	} else {
		e.VisibleDistance = e.Distance - radii
	}

	if s.Weight != nil && isFinite(*s.Weight) {
		e.Weight = *s.Weight
	}
	return e
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Float returns a pointer to v, for building specs in code.
func Float(v float64) *float64 {
	return &v
}
