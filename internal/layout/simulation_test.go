package layout_test

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/forcegraph/internal/forces"
	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/layout"
)

type recorder struct {
	mu        sync.Mutex
	inits     int
	nodes     []*graph.Node
	edges     []*graph.Edge
	ctx       layout.Context
	alphas    []float64
	dismounts int
	onExecute func(r *recorder)
}

func (r *recorder) Initialize(nodes []*graph.Node, edges []*graph.Edge, ctx layout.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inits++
	r.nodes, r.edges, r.ctx = nodes, edges, ctx
}

func (r *recorder) Execute(alpha float64) {
	r.mu.Lock()
	r.alphas = append(r.alphas, alpha)
	hook := r.onExecute
	r.mu.Unlock()
	if hook != nil {
		hook(r)
	}
}

func (r *recorder) Dismount() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dismounts++
}

func (r *recorder) executions() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.alphas)
}

func at(id string, x, y float64) graph.NodeSpec {
	return graph.NodeSpec{ID: id, X: graph.Float(x), Y: graph.Float(y)}
}

func pathGraph() ([]graph.NodeSpec, []graph.EdgeSpec) {
	nodes := []graph.NodeSpec{{ID: "a", Group: "left"}, {ID: "b", Group: "left"}, {ID: "c"}, {ID: "d"}}
	edges := []graph.EdgeSpec{
		{Source: "a", Target: "b"},
		{Source: "b", Target: "c"},
		{Source: "c", Target: "d"},
	}
	return nodes, edges
}

func unthrottled() layout.Options {
	opts := layout.DefaultOptions()
	opts.UpdateCap = math.Inf(1)
	return opts
}

var _ = Describe("Simulation", func() {
	var sim *layout.Simulation

	BeforeEach(func() {
		nodes, edges := pathGraph()
		var err error
		sim, err = layout.New(nodes, edges, unthrottled(), layout.WithMinDelay(100*time.Microsecond))
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("construction", func() {
		It("initializes every node with finite values", func() {
			for _, n := range sim.Nodes() {
				Expect(n.IsFinite()).To(BeTrue(), "node %s", n.ID)
			}
			Expect(sim.Edges()).To(HaveLen(3))
			Expect(sim.Index().Len()).To(Equal(4))
		})

		It("rejects a broken edge", func() {
			_, err := layout.New(
				[]graph.NodeSpec{{ID: "a"}},
				[]graph.EdgeSpec{{Source: "a", Target: "missing"}},
				layout.Options{})
			Expect(err).To(MatchError(graph.ErrBrokenEdge))

			var broken *graph.BrokenEdgeError
			Expect(err).To(BeAssignableToTypeOf(broken))
		})

		It("fills zero options with defaults", func() {
			s, err := layout.New(nil, nil, layout.Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Alpha()).To(Equal(layout.DefaultAlpha))
			Expect(s.AlphaMin()).To(Equal(layout.DefaultAlphaMin))
		})
	})

	Describe("components", func() {
		It("initializes a component immediately with the filtered graph", func() {
			r := &recorder{}
			left := func(n *graph.Node) bool { return n.Group == "left" }
			Expect(sim.AddComponent("rec", r, left, nil)).To(Succeed())

			Expect(r.inits).To(Equal(1))
			Expect(r.nodes).To(HaveLen(2))
			Expect(r.edges).To(HaveLen(3))
			Expect(r.ctx.Index).To(BeIdenticalTo(sim.Index()))
		})

		It("filters edges with the edge predicate", func() {
			r := &recorder{}
			fromB := func(e *graph.Edge) bool { return e.SourceID == "b" }
			Expect(sim.AddComponent("rec", r, nil, fromB)).To(Succeed())
			Expect(r.nodes).To(HaveLen(4))
			Expect(r.edges).To(HaveLen(1))
		})

		It("rejects a duplicate id until the first is removed", func() {
			first, second := &recorder{}, &recorder{}
			Expect(sim.AddComponent("x", first, nil, nil)).To(Succeed())

			err := sim.AddComponent("x", second, nil, nil)
			Expect(err).To(MatchError(layout.ErrDuplicateComponent))
			Expect(second.inits).To(BeZero())

			sim.RemoveComponent("x")
			Expect(first.dismounts).To(Equal(1))
			Expect(sim.HasComponent("x")).To(BeFalse())

			Expect(sim.AddComponent("x", second, nil, nil)).To(Succeed())
			Expect(sim.HasComponent("x")).To(BeTrue())
		})

		It("ignores removal of an unknown id", func() {
			sim.RemoveComponent("nope")
			Expect(sim.Components()).To(BeEmpty())
		})

		It("executes components in registration order", func() {
			var order []string
			for _, id := range []string{"one", "two", "three"} {
				id := id
				Expect(sim.AddComponent(id, &recorder{onExecute: func(*recorder) {
					order = append(order, id)
				}}, nil, nil)).To(Succeed())
			}
			sim.Update(false)
			Expect(order).To(Equal([]string{"one", "two", "three"}))
			Expect(sim.Components()).To(Equal([]string{"one", "two", "three"}))
		})

		It("defers self-removal to the end of the tick", func() {
			removing := &recorder{onExecute: func(r *recorder) { r.ctx.Remove() }}
			after := &recorder{}
			Expect(sim.AddComponent("removing", removing, nil, nil)).To(Succeed())
			Expect(sim.AddComponent("after", after, nil, nil)).To(Succeed())

			sim.Update(false)
			Expect(after.executions()).To(Equal(1))
			Expect(removing.dismounts).To(Equal(1))
			Expect(sim.Components()).To(Equal([]string{"after"}))

			sim.Update(false)
			Expect(removing.executions()).To(Equal(1))
			Expect(after.executions()).To(Equal(2))
		})

		It("applies Context.Remove immediately outside a tick", func() {
			r := &recorder{}
			Expect(sim.AddComponent("r", r, nil, nil)).To(Succeed())
			r.ctx.Remove()
			Expect(sim.HasComponent("r")).To(BeFalse())
			Expect(r.dismounts).To(Equal(1))
		})
	})

	Describe("Update", func() {
		It("decays alpha monotonically toward the target", func() {
			r := &recorder{}
			Expect(sim.AddComponent("r", r, nil, nil)).To(Succeed())

			prev := sim.Alpha()
			for i := 0; i < 50; i++ {
				sim.Update(false)
				Expect(sim.Alpha()).To(BeNumerically("<", prev))
				prev = sim.Alpha()
			}
			Expect(sim.Iteration()).To(Equal(50))
			Expect(r.alphas).To(HaveLen(50))
			Expect(r.alphas[0]).To(BeNumerically("~", 1-layout.DefaultAlphaDecay(layout.DefaultAlphaMin), 1e-12))
		})

		It("emits layoutupdate only when asked", func() {
			var updates atomic.Int32
			Expect(sim.On(layout.EventUpdate, func() { updates.Add(1) })).To(Succeed())

			sim.Update(false)
			Expect(updates.Load()).To(BeZero())
			sim.Update(true)
			Expect(updates.Load()).To(Equal(int32(1)))
		})

		It("integrates velocity with damping", func() {
			n := sim.Nodes()[0]
			x0 := n.X
			n.VX = 10
			sim.Update(false)
			Expect(n.VX).To(BeNumerically("~", 6, 1e-12))
			Expect(n.X).To(BeNumerically("~", x0+6, 1e-12))
		})

		It("keeps pinned nodes on their pins", func() {
			nodes, edges := pathGraph()
			nodes[1].FX = graph.Float(42)
			nodes[1].FY = graph.Float(-7)
			s, err := layout.New(nodes, edges, unthrottled())
			Expect(err).NotTo(HaveOccurred())
			Expect(s.AddComponent("nbody", forces.NewNBody(), nil, nil)).To(Succeed())
			Expect(s.AddComponent("link", forces.NewLink(), nil, nil)).To(Succeed())
			Expect(s.AddComponent("collide", forces.NewCollision(), nil, nil)).To(Succeed())

			for i := 0; i < 100; i++ {
				s.Update(false)
				pinned := s.Nodes()[1]
				Expect(pinned.X).To(Equal(42.0))
				Expect(pinned.Y).To(Equal(-7.0))
				Expect(pinned.VX).To(BeZero())
				Expect(pinned.VY).To(BeZero())
			}
		})

		It("converges a two-node spring to its rest distance", func() {
			s, err := layout.New(
				[]graph.NodeSpec{at("a", 0, 0), at("b", 150, 0)},
				[]graph.EdgeSpec{{Source: "a", Target: "b"}},
				unthrottled())
			Expect(err).NotTo(HaveOccurred())
			Expect(s.AddComponent("link", forces.NewLink(), nil, nil)).To(Succeed())

			for i := 0; i < 300; i++ {
				s.Update(false)
			}
			e := s.Edges()[0]
			Expect(e.Length()).To(BeNumerically("~", e.Distance, 1))
		})

		It("spreads a random graph without producing NaN", func() {
			specs := make([]graph.NodeSpec, 60)
			var edges []graph.EdgeSpec
			for i := range specs {
				specs[i] = graph.NodeSpec{ID: string(rune('A' + i))}
				if i > 0 {
					edges = append(edges, graph.EdgeSpec{Source: specs[i/2].ID, Target: specs[i].ID})
				}
			}
			s, err := layout.New(specs, edges, unthrottled())
			Expect(err).NotTo(HaveOccurred())
			Expect(s.AddComponent("nbody", forces.NewNBody(), nil, nil)).To(Succeed())
			Expect(s.AddComponent("link", forces.NewLink(), nil, nil)).To(Succeed())
			Expect(s.AddComponent("collide", forces.NewCollision(), nil, nil)).To(Succeed())
			Expect(s.AddComponent("center", forces.NewCenter(), nil, nil)).To(Succeed())

			for i := 0; i < 200; i++ {
				s.Update(false)
			}
			for _, n := range s.Nodes() {
				Expect(n.IsFinite()).To(BeTrue(), "node %s", n.ID)
			}
		})
	})

	Describe("loop", func() {
		It("runs until alpha drops below alphaMin and ends once", func() {
			var starts, ends, updates atomic.Int32
			Expect(sim.On(layout.EventLoopStart, func() { starts.Add(1) })).To(Succeed())
			Expect(sim.On(layout.EventLoopEnd, func() { ends.Add(1) })).To(Succeed())
			Expect(sim.On(layout.EventUpdate, func() { updates.Add(1) })).To(Succeed())
			sim.SetAlphaDecay(0.1)

			sim.Start()
			sim.Start()

			Eventually(ends.Load, "5s").Should(Equal(int32(1)))
			Consistently(ends.Load, "50ms").Should(Equal(int32(1)))

			Expect(starts.Load()).To(Equal(int32(1)))
			Expect(sim.Running()).To(BeFalse())
			Expect(sim.Alpha()).To(BeNumerically("<", sim.AlphaMin()))
			Expect(updates.Load()).To(Equal(int32(sim.Iteration())))
		})

		It("stops on request and emits layoutloopend", func() {
			var ends atomic.Int32
			Expect(sim.On(layout.EventLoopEnd, func() { ends.Add(1) })).To(Succeed())
			sim.SetAlphaDecay(1e-9)

			sim.Start()
			Eventually(sim.Iteration, "2s").Should(BeNumerically(">", 3))
			sim.Stop()

			Expect(ends.Load()).To(Equal(int32(1)))
			Expect(sim.Running()).To(BeFalse())

			settled := sim.Iteration()
			Consistently(sim.Iteration, "30ms").Should(BeNumerically("<=", settled+1))
		})

		It("lets listeners call back into the simulation", func() {
			var once sync.Once
			Expect(sim.On(layout.EventUpdate, func() {
				_ = sim.Snapshot()
				once.Do(sim.Stop)
			})).To(Succeed())
			sim.SetAlphaDecay(1e-9)

			sim.Start()
			Eventually(sim.Running, "2s").Should(BeFalse())
		})

		It("honours the update cap", func() {
			sim.SetAlphaDecay(1e-9)
			sim.SetUpdateCap(20)

			sim.Start()
			time.Sleep(200 * time.Millisecond)
			sim.Stop()

			Expect(sim.Iteration()).To(BeNumerically("<=", 8))
		})
	})

	Describe("events", func() {
		It("rejects unknown event names", func() {
			err := sim.On(layout.Event("layoutexplode"), func() {})
			Expect(err).To(MatchError(layout.ErrUnknownEvent))
		})
	})

	Describe("queries", func() {
		It("finds the closest node", func() {
			s, err := layout.New([]graph.NodeSpec{at("a", 0, 0), at("b", 100, 0), at("c", 0, 100)}, nil, layout.Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.FindClosestNode(90, 5).ID).To(Equal("b"))
			Expect(s.FindClosestNode(-3, 70).ID).To(Equal("c"))
		})

		It("returns nil on an empty graph", func() {
			s, err := layout.New(nil, nil, layout.Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.FindClosestNode(0, 0)).To(BeNil())
		})

		It("snapshots positions by value", func() {
			snap := sim.Snapshot()
			Expect(snap).To(HaveLen(4))
			Expect(snap[0].ID).To(Equal("a"))

			sim.Nodes()[0].X += 1000
			Expect(snap[0].X).NotTo(Equal(sim.Nodes()[0].X))
		})
	})

	Describe("UpdateNodesAndEdges", func() {
		It("keeps the previous graph when an edge is broken", func() {
			r := &recorder{}
			Expect(sim.AddComponent("r", r, nil, nil)).To(Succeed())
			before := sim.Snapshot()

			err := sim.UpdateNodesAndEdges(
				[]graph.NodeSpec{{ID: "z"}},
				[]graph.EdgeSpec{{Source: "z", Target: "ghost"}})
			Expect(err).To(MatchError(graph.ErrBrokenEdge))

			Expect(sim.Snapshot()).To(Equal(before))
			Expect(sim.Edges()).To(HaveLen(3))
			Expect(r.inits).To(Equal(1))
		})

		It("re-initializes every component with the new graph", func() {
			left := &recorder{}
			all := &recorder{}
			Expect(sim.AddComponent("left", left, func(n *graph.Node) bool { return n.Group == "left" }, nil)).To(Succeed())
			Expect(sim.AddComponent("all", all, nil, nil)).To(Succeed())

			err := sim.UpdateNodesAndEdges(
				[]graph.NodeSpec{{ID: "p", Group: "left"}, {ID: "q"}},
				[]graph.EdgeSpec{{Source: "p", Target: "q"}})
			Expect(err).NotTo(HaveOccurred())

			Expect(left.inits).To(Equal(2))
			Expect(left.nodes).To(HaveLen(1))
			Expect(all.nodes).To(HaveLen(2))
			Expect(all.edges).To(HaveLen(1))
			Expect(sim.Index().Len()).To(Equal(2))
		})
	})

	Describe("AnimateState", func() {
		It("moves nodes to their targets and pins them", func() {
			targets := []layout.TargetState{
				{ID: "a", TargetX: 10, TargetY: 20},
				{ID: "c", SourceX: graph.Float(0), SourceY: graph.Float(0), TargetX: -30, TargetY: 5},
			}
			Expect(sim.AnimateState(targets, 40*time.Millisecond, true)).To(Succeed())
			Expect(sim.AnimateState(targets, time.Millisecond, false)).To(MatchError(layout.ErrAnimationActive))

			Eventually(sim.Animating, "2s").Should(BeFalse())

			pos := map[string]layout.Position{}
			for _, p := range sim.Snapshot() {
				pos[p.ID] = p
			}
			Expect(pos["a"].X).To(Equal(10.0))
			Expect(pos["a"].Y).To(Equal(20.0))
			Expect(pos["c"].X).To(Equal(-30.0))
			Expect(pos["c"].Y).To(Equal(5.0))
			Expect(sim.Nodes()[0].Pinned()).To(BeTrue())
		})

		It("suspends ticks while animating", func() {
			Expect(sim.AnimateState([]layout.TargetState{{ID: "a", TargetX: 1, TargetY: 1}}, 100*time.Millisecond, false)).To(Succeed())
			sim.Update(false)
			Expect(sim.Iteration()).To(BeZero())

			Eventually(sim.Animating, "2s").Should(BeFalse())
			sim.Update(false)
			Expect(sim.Iteration()).To(Equal(1))
		})

		It("emits layoutupdate while animating", func() {
			var updates atomic.Int32
			Expect(sim.On(layout.EventUpdate, func() { updates.Add(1) })).To(Succeed())
			Expect(sim.AnimateState([]layout.TargetState{{ID: "b", TargetX: 1, TargetY: 1}}, 20*time.Millisecond, false)).To(Succeed())
			Eventually(sim.Animating, "2s").Should(BeFalse())
			Expect(updates.Load()).To(BeNumerically(">=", 1))
		})

		It("treats an empty target list as a no-op", func() {
			Expect(sim.AnimateState(nil, time.Second, false)).To(Succeed())
			Expect(sim.Animating()).To(BeFalse())
		})

		It("rejects unknown node ids", func() {
			err := sim.AnimateState([]layout.TargetState{{ID: "ghost"}}, time.Second, false)
			Expect(err).To(MatchError(layout.ErrUnknownNode))
			Expect(sim.Animating()).To(BeFalse())
		})
	})
})
