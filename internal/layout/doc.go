// Package layout runs a force-directed simulation over a graph.
//
// A [Simulation] owns the nodes and edges, a spatial index rebuilt every tick,
// and an ordered set of force components:
//
//   - [Component]: the three-method contract every force implements
//   - [Context]: what a component receives at initialization
//   - [Simulation]: cooling schedule, integration, events, and the tick loop
//
// # Tick
//
// Each tick decays alpha toward alphaTarget, executes every component in
// registration order, integrates velocities into positions with damping
// (pinned axes are overridden), rebuilds the index and emits [EventUpdate].
// Components see the velocity writes of the components before them.
//
// # Example
//
//	sim, err := layout.New(nodes, edges, layout.DefaultOptions())
//	if err != nil {
//		return err
//	}
//	_ = sim.AddComponent("nbody", forces.NewNBody(), nil, nil)
//	_ = sim.AddComponent("link", forces.NewLink(), nil, nil)
//	sim.On(layout.EventLoopEnd, func() { close(done) })
//	sim.Start()
//
// # Thread Safety
//
// Simulation methods are safe for concurrent use. Ticks, mutators and
// snapshots are serialized; listeners run after the lock is released and may
// call back into the Simulation. Components run under the lock and must not
// call Simulation methods; they use [Context.Remove] instead.
package layout
