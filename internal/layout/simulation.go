package layout

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/quadtree"
	"github.com/san-kum/forcegraph/internal/scheduler"
)

type Simulation struct {
	mu sync.Mutex

	graph    *graph.Graph
	defaults graph.Defaults
	index    *quadtree.Tree

	bindings []*binding
	byID     map[string]*binding

	alpha         float64
	alphaMin      float64
	alphaDecay    float64
	alphaTarget   float64
	velocityDecay float64
	iteration     int

	loop      *scheduler.Scheduler
	running   bool
	animating bool

	pendingMu sync.Mutex
	pending   []string

	listenMu  sync.RWMutex
	listeners map[Event][]func()

	clock    scheduler.Clock
	minDelay time.Duration
	logger   *log.Logger
}

// New builds the graph and an idle simulation. A broken edge returns a
// *graph.BrokenEdgeError.
func New(nodes []graph.NodeSpec, edges []graph.EdgeSpec, opts Options, extra ...Option) (*Simulation, error) {
	opts = opts.normalize()

	g, err := graph.Build(nodes, edges, opts.Defaults)
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		graph:         g,
		defaults:      opts.Defaults,
		index:         quadtree.New(),
		byID:          make(map[string]*binding),
		alpha:         opts.Alpha,
		alphaMin:      opts.AlphaMin,
		alphaDecay:    opts.AlphaDecay,
		alphaTarget:   opts.AlphaTarget,
		velocityDecay: opts.VelocityDecay,
		listeners:     make(map[Event][]func()),
		clock:         scheduler.NewRealClock(),
		logger:        discardLogger(),
	}
	for _, o := range extra {
		o(s)
	}

	s.loop = scheduler.New(s.runLoop, opts.UpdateCap, s.schedulerOptions()...)
	s.index.Build(g.Nodes)
	return s, nil
}

func (s *Simulation) schedulerOptions() []scheduler.Option {
	opts := []scheduler.Option{scheduler.WithClock(s.clock)}
	if s.minDelay > 0 {
		opts = append(opts, scheduler.WithMinDelay(s.minDelay))
	}
	return opts
}

// unlock applies removals requested through Context.Remove, then releases
// the lock.
func (s *Simulation) unlock() {
	for {
		s.pendingMu.Lock()
		ids := s.pending
		s.pending = nil
		s.pendingMu.Unlock()
		if len(ids) == 0 {
			break
		}
		for _, id := range ids {
			s.removeLocked(id)
		}
	}
	s.mu.Unlock()
}

func (s *Simulation) requestRemove(id string) {
	s.pendingMu.Lock()
	s.pending = append(s.pending, id)
	s.pendingMu.Unlock()

	// Inside a tick the lock is held and the holder applies the removal
	// when it unlocks.
	if s.mu.TryLock() {
		s.unlock()
	}
}

func (s *Simulation) On(event Event, fn func()) error {
	if !event.valid() {
		return fmt.Errorf("%w: %q", ErrUnknownEvent, event)
	}
	s.listenMu.Lock()
	defer s.listenMu.Unlock()
	s.listeners[event] = append(s.listeners[event], fn)
	return nil
}

func (s *Simulation) emit(event Event) {
	s.listenMu.RLock()
	fns := s.listeners[event]
	s.listenMu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}

// AddComponent registers c under id and initializes it with the nodes and
// edges accepted by the predicates. Nil predicates accept everything.
func (s *Simulation) AddComponent(id string, c Component, nodePred NodePredicate, edgePred EdgePredicate) error {
	s.mu.Lock()
	defer s.unlock()

	if _, ok := s.byID[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateComponent, id)
	}

	b := &binding{id: id, instance: c, nodePred: nodePred, edgePred: edgePred}
	s.bindings = append(s.bindings, b)
	s.byID[id] = b
	s.initialize(b)

	s.logger.Debug("component added", "id", id, "nodes", len(b.nodes), "edges", len(b.edges))
	return nil
}

func (s *Simulation) initialize(b *binding) {
	b.filter(s.graph)
	id := b.id
	b.instance.Initialize(b.nodes, b.edges, Context{
		Index:  s.index,
		Remove: func() { s.requestRemove(id) },
	})
}

// RemoveComponent dismounts and drops the component. Unknown ids are ignored.
func (s *Simulation) RemoveComponent(id string) {
	s.mu.Lock()
	defer s.unlock()
	s.removeLocked(id)
}

func (s *Simulation) removeLocked(id string) {
	b, ok := s.byID[id]
	if !ok {
		return
	}
	b.instance.Dismount()
	delete(s.byID, id)
	for i, other := range s.bindings {
		if other == b {
			s.bindings = append(s.bindings[:i], s.bindings[i+1:]...)
			break
		}
	}
	s.logger.Debug("component removed", "id", id)
}

func (s *Simulation) HasComponent(id string) bool {
	s.mu.Lock()
	defer s.unlock()
	_, ok := s.byID[id]
	return ok
}

// Components returns the registered ids in execution order.
func (s *Simulation) Components() []string {
	s.mu.Lock()
	defer s.unlock()
	ids := make([]string, len(s.bindings))
	for i, b := range s.bindings {
		ids[i] = b.id
	}
	return ids
}

// Update runs one tick unless an animation is in progress. It does not need
// the scheduler and can drive the simulation offline.
func (s *Simulation) Update(emit bool) {
	s.mu.Lock()
	ticked := !s.animating
	if ticked {
		s.tick()
	}
	s.unlock()

	if ticked && emit {
		s.emit(EventUpdate)
	}
}

func (s *Simulation) tick() {
	s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay

	for _, b := range s.bindings {
		b.instance.Execute(s.alpha)
	}

	for _, n := range s.graph.Nodes {
		if n.FX == nil {
			n.VX *= s.velocityDecay
			n.X += n.VX
		} else {
			n.X = *n.FX
			n.VX = 0
		}
		if n.FY == nil {
			n.VY *= s.velocityDecay
			n.Y += n.VY
		} else {
			n.Y = *n.FY
			n.VY = 0
		}
	}

	s.iteration++
	s.index.Build(s.graph.Nodes)
}

func (s *Simulation) runLoop() {
	s.mu.Lock()
	if !s.running || s.animating {
		s.unlock()
		return
	}
	s.tick()
	settled := s.alpha < s.alphaMin
	if settled {
		s.running = false
		s.loop.Stop()
	}
	iteration, alpha := s.iteration, s.alpha
	s.unlock()

	s.emit(EventUpdate)
	if settled {
		s.logger.Debug("layout settled", "iteration", iteration, "alpha", alpha)
		s.emit(EventLoopEnd)
	}
}

// Start emits EventLoopStart and begins ticking under the update cap. It is a
// no-op while the loop is running.
func (s *Simulation) Start() {
	s.mu.Lock()
	if s.running {
		s.unlock()
		return
	}
	s.running = true
	s.unlock()

	s.logger.Debug("layout loop start")
	s.emit(EventLoopStart)

	s.mu.Lock()
	if s.running {
		s.loop.Start()
	}
	s.unlock()
}

// Stop halts the loop at the next pass boundary and emits EventLoopEnd.
func (s *Simulation) Stop() {
	s.mu.Lock()
	s.running = false
	s.loop.Stop()
	s.unlock()

	s.logger.Debug("layout loop stop")
	s.emit(EventLoopEnd)
}

func (s *Simulation) Running() bool {
	s.mu.Lock()
	defer s.unlock()
	return s.running
}

// FindClosestNode returns the node nearest to (x, y), or nil when the graph
// is empty.
func (s *Simulation) FindClosestNode(x, y float64) *graph.Node {
	s.mu.Lock()
	defer s.unlock()

	var closest *graph.Node
	best := math.Inf(1)
	for _, n := range s.graph.Nodes {
		dx, dy := x-n.X, y-n.Y
		if d2 := dx*dx + dy*dy; d2 < best {
			closest, best = n, d2
		}
	}
	return closest
}

// UpdateNodesAndEdges replaces the graph and re-initializes every component.
// On error the previous graph stays in place.
func (s *Simulation) UpdateNodesAndEdges(nodes []graph.NodeSpec, edges []graph.EdgeSpec) error {
	g, err := graph.Build(nodes, edges, s.defaults)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.unlock()

	s.graph = g
	s.index.Build(g.Nodes)
	for _, b := range s.bindings {
		s.initialize(b)
	}

	s.logger.Debug("graph replaced", "nodes", len(g.Nodes), "edges", len(g.Edges), "components", len(s.bindings))
	return nil
}

// Snapshot copies every node position.
func (s *Simulation) Snapshot() []Position {
	s.mu.Lock()
	defer s.unlock()
	out := make([]Position, len(s.graph.Nodes))
	for i, n := range s.graph.Nodes {
		out[i] = Position{ID: n.ID, X: n.X, Y: n.Y}
	}
	return out
}

// Nodes returns the live node records. Callers on other goroutines must not
// read them while the loop runs; use Snapshot or Do instead.
func (s *Simulation) Nodes() []*graph.Node {
	s.mu.Lock()
	defer s.unlock()
	return s.graph.Nodes
}

func (s *Simulation) Edges() []*graph.Edge {
	s.mu.Lock()
	defer s.unlock()
	return s.graph.Edges
}

// Do runs fn with exclusive access to the live graph.
func (s *Simulation) Do(fn func(g *graph.Graph)) {
	s.mu.Lock()
	defer s.unlock()
	fn(s.graph)
}

func (s *Simulation) Index() *quadtree.Tree {
	s.mu.Lock()
	defer s.unlock()
	return s.index
}

func (s *Simulation) Iteration() int {
	s.mu.Lock()
	defer s.unlock()
	return s.iteration
}

func (s *Simulation) Alpha() float64 {
	s.mu.Lock()
	defer s.unlock()
	return s.alpha
}

func (s *Simulation) AlphaMin() float64 {
	s.mu.Lock()
	defer s.unlock()
	return s.alphaMin
}

func (s *Simulation) SetAlpha(v float64) {
	s.mu.Lock()
	defer s.unlock()
	s.alpha = v
}

func (s *Simulation) SetAlphaMin(v float64) {
	s.mu.Lock()
	defer s.unlock()
	s.alphaMin = v
}

func (s *Simulation) SetAlphaDecay(v float64) {
	s.mu.Lock()
	defer s.unlock()
	s.alphaDecay = v
}

func (s *Simulation) SetAlphaTarget(v float64) {
	s.mu.Lock()
	defer s.unlock()
	s.alphaTarget = v
}

func (s *Simulation) SetVelocityDecay(v float64) {
	s.mu.Lock()
	defer s.unlock()
	s.velocityDecay = v
}

// SetUpdateCap changes the tick rate cap; math.Inf(1) disables throttling.
func (s *Simulation) SetUpdateCap(v float64) {
	s.loop.SetUpdateCap(v)
}
