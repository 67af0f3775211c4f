package layout

import (
	"fmt"
	"math"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/scheduler"
)

type track struct {
	node           *graph.Node
	sx, sy, tx, ty float64
}

// AnimateState moves the listed nodes linearly from their source to their
// target positions over d. Ticks are suspended until the animation ends;
// every animation pass emits EventUpdate. With fixate the nodes are pinned at
// their targets on completion.
//
// An empty list is a no-op. A second call before the first completes returns
// ErrAnimationActive.
func (s *Simulation) AnimateState(targets []TargetState, d time.Duration, fixate bool) error {
	if len(targets) == 0 {
		return nil
	}

	s.mu.Lock()
	if s.animating {
		s.unlock()
		return ErrAnimationActive
	}

	tracks := make([]track, len(targets))
	for i, t := range targets {
		n, ok := s.graph.Node(t.ID)
		if !ok {
			s.unlock()
			return fmt.Errorf("%w: %s", ErrUnknownNode, t.ID)
		}
		tr := track{node: n, sx: n.X, sy: n.Y, tx: t.TargetX, ty: t.TargetY}
		if t.SourceX != nil && !math.IsNaN(*t.SourceX) {
			tr.sx = *t.SourceX
		}
		if t.SourceY != nil && !math.IsNaN(*t.SourceY) {
			tr.sy = *t.SourceY
		}
		tracks[i] = tr
	}
	s.animating = true
	s.unlock()

	s.logger.Debug("animation start", "nodes", len(tracks), "duration", d)

	// The tween runs on progress in [0, 1] so positions keep float64
	// precision.
	tween := gween.New(0, 1, float32(d.Seconds()), ease.Linear)
	last := s.clock.Now()

	var anim *scheduler.Scheduler
	anim = scheduler.New(func() {
		now := s.clock.Now()
		dt := now.Sub(last)
		last = now
		p, finished := tween.Update(float32(dt.Seconds()))

		s.mu.Lock()
		for _, tr := range tracks {
			if finished {
				tr.node.X, tr.node.Y = tr.tx, tr.ty
				if fixate {
					tr.node.Pin(tr.tx, tr.ty)
				}
				continue
			}
			tr.node.X = tr.sx + (tr.tx-tr.sx)*float64(p)
			tr.node.Y = tr.sy + (tr.ty-tr.sy)*float64(p)
		}
		if finished {
			s.index.Build(s.graph.Nodes)
			s.animating = false
			anim.Stop()
		}
		s.unlock()

		s.emit(EventUpdate)
		if finished {
			s.logger.Debug("animation end", "nodes", len(tracks))
		}
	}, math.Inf(1), s.schedulerOptions()...)
	anim.Start()

	return nil
}

// Animating reports whether AnimateState is in progress.
func (s *Simulation) Animating() bool {
	s.mu.Lock()
	defer s.unlock()
	return s.animating
}
