package graph

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/san-kum/forcegraph/internal/lcg"
)

var ErrUnknownGenerator = errors.New("graph: unknown generator")

// Generator produces a synthetic graph of roughly n nodes.
type Generator func(n int, rng *lcg.Source) ([]NodeSpec, []EdgeSpec)

var generators = map[string]Generator{
	"tree":     genTree,
	"ring":     genRing,
	"star":     genStar,
	"grid":     genGrid,
	"random":   genRandom,
	"clusters": genClusters,
}

// Generators lists the registered generator names in sorted order.
func Generators() []string {
	names := make([]string, 0, len(generators))
	for name := range generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Generate builds a synthetic graph. The same kind, size and seed always
// produce the same specs. Positions are left unset so Build seeds them.
func Generate(kind string, n int, seed int64) ([]NodeSpec, []EdgeSpec, error) {
	gen, ok := generators[kind]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownGenerator, kind)
	}
	if n < 0 {
		n = 0
	}
	nodes, edges := gen(n, lcg.NewSeeded(seed))
	return nodes, edges, nil
}

func nodeID(i int) string {
	return "n" + strconv.Itoa(i)
}

func plainNodes(n int) []NodeSpec {
	nodes := make([]NodeSpec, n)
	for i := range nodes {
		nodes[i] = NodeSpec{ID: nodeID(i)}
	}
	return nodes
}

func link(a, b int) EdgeSpec {
	return EdgeSpec{Source: nodeID(a), Target: nodeID(b)}
}

// genTree attaches every node to a random earlier node.
func genTree(n int, rng *lcg.Source) ([]NodeSpec, []EdgeSpec) {
	nodes := plainNodes(n)
	var edges []EdgeSpec
	for i := 1; i < n; i++ {
		edges = append(edges, link(int(rng.Float64()*float64(i)), i))
	}
	return nodes, edges
}

func genRing(n int, _ *lcg.Source) ([]NodeSpec, []EdgeSpec) {
	nodes := plainNodes(n)
	if n < 2 {
		return nodes, nil
	}
	edges := make([]EdgeSpec, 0, n)
	for i := 0; i < n; i++ {
		edges = append(edges, link(i, (i+1)%n))
	}
	return nodes, edges
}

func genStar(n int, _ *lcg.Source) ([]NodeSpec, []EdgeSpec) {
	nodes := plainNodes(n)
	var edges []EdgeSpec
	for i := 1; i < n; i++ {
		edges = append(edges, link(0, i))
	}
	return nodes, edges
}

// genGrid lays n nodes on a near-square lattice.
func genGrid(n int, _ *lcg.Source) ([]NodeSpec, []EdgeSpec) {
	nodes := plainNodes(n)
	cols := 1
	for cols*cols < n {
		cols++
	}
	var edges []EdgeSpec
	for i := 0; i < n; i++ {
		if (i+1)%cols != 0 && i+1 < n {
			edges = append(edges, link(i, i+1))
		}
		if i+cols < n {
			edges = append(edges, link(i, i+cols))
		}
	}
	return nodes, edges
}

// genRandom is a spanning tree plus n/2 random chords.
func genRandom(n int, rng *lcg.Source) ([]NodeSpec, []EdgeSpec) {
	nodes, edges := genTree(n, rng)
	if n < 3 {
		return nodes, edges
	}
	for k := 0; k < n/2; k++ {
		a := int(rng.Float64() * float64(n))
		b := int(rng.Float64() * float64(n))
		if a != b {
			edges = append(edges, link(a, b))
		}
	}
	return nodes, edges
}

// genClusters builds dense groups joined by a single bridge each.
func genClusters(n int, rng *lcg.Source) ([]NodeSpec, []EdgeSpec) {
	nodes := plainNodes(n)
	size := 8
	var edges []EdgeSpec
	for i := range nodes {
		c := i / size
		nodes[i].Group = "c" + strconv.Itoa(c)
		start := c * size
		if i == start {
			if c > 0 {
				edges = append(edges, link(start-size, start))
			}
			continue
		}
		edges = append(edges, link(start+int(rng.Float64()*float64(i-start)), i))
		if i-start > 1 {
			edges = append(edges, link(start+int(rng.Float64()*float64(i-start)), i))
		}
	}
	return nodes, edges
}
