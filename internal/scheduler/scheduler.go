// Package scheduler repeatedly invokes a callback at no more than a configured
// number of calls per second.
//
// The scheduler runs short passes separated by a minimal delay. Each pass adds
// the elapsed time to an unprocessed-time accumulator and fires the callback
// at most once when a full interval has accumulated. The accumulator is capped
// at ten intervals, so a stalled process catches up with a short burst instead
// of an unbounded one.
package scheduler

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"
)

const (
	DefaultUpdateCap = 60.0
	DefaultMinDelay  = time.Millisecond

	// maxDebt bounds the accumulator in multiples of the interval.
	maxDebt = 10
)

var ErrRunning = errors.New("scheduler: already running")

type Option func(*Scheduler)

func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithMinDelay sets the pause between passes.
func WithMinDelay(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.minDelay = d
		}
	}
}

type run struct {
	cancel context.CancelFunc
}

type Scheduler struct {
	fn       func()
	clock    Clock
	minDelay time.Duration

	mu          sync.Mutex
	interval    time.Duration
	unprocessed time.Duration
	last        time.Time
	primed      bool
	current     *run
}

// New creates an idle scheduler. updateCap is in calls per second; +Inf fires
// on every pass, and non-positive values select DefaultUpdateCap.
func New(fn func(), updateCap float64, opts ...Option) *Scheduler {
	s := &Scheduler{
		fn:       fn,
		clock:    realClock{},
		minDelay: DefaultMinDelay,
		interval: intervalFor(updateCap),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func intervalFor(updateCap float64) time.Duration {
	switch {
	case math.IsInf(updateCap, 1):
		return 0
	case !(updateCap > 0):
		updateCap = DefaultUpdateCap
	}
	return time.Duration(float64(time.Second) / updateCap)
}

// SetUpdateCap changes the interval used by subsequent passes. The
// accumulated time is kept.
func (s *Scheduler) SetUpdateCap(updateCap float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interval = intervalFor(updateCap)
}

func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

func (s *Scheduler) resetLocked() {
	s.unprocessed = 0
	s.primed = false
}

// Start runs passes on a new goroutine. It is a no-op while running.
func (s *Scheduler) Start() {
	r, ctx, ok := s.begin(context.Background())
	if !ok {
		return
	}
	go func() {
		s.loop(ctx)
		s.end(r)
	}()
}

// Run runs passes on the calling goroutine until ctx is done or Stop is
// called. It returns ctx.Err() when ctx ended the run.
func (s *Scheduler) Run(ctx context.Context) error {
	r, runCtx, ok := s.begin(ctx)
	if !ok {
		return ErrRunning
	}
	s.loop(runCtx)
	s.end(r)
	return ctx.Err()
}

// Stop returns the scheduler to idle. A pass already in progress completes;
// no further pass starts. Safe to call from inside the callback.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.cancel()
		s.current = nil
	}
	s.resetLocked()
}

func (s *Scheduler) begin(parent context.Context) (*run, context.Context, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		return nil, nil, false
	}
	ctx, cancel := context.WithCancel(parent)
	r := &run{cancel: cancel}
	s.current = r
	s.resetLocked()
	return r, ctx, true
}

func (s *Scheduler) end(r *run) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.cancel()
	if s.current == r {
		s.current = nil
		s.resetLocked()
	}
}

func (s *Scheduler) loop(ctx context.Context) {
	timer := time.NewTimer(s.minDelay)
	defer timer.Stop()

	for {
		if ctx.Err() != nil {
			return
		}
		s.Pass()

		timer.Reset(s.minDelay)
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}
}

// Pass performs one accounting step and fires the callback when a full
// interval is owed. It reports whether the callback ran.
func (s *Scheduler) Pass() bool {
	s.mu.Lock()
	now := s.clock.Now()
	if d := now.Sub(s.last); s.primed && d > 0 {
		s.unprocessed += d
	}
	s.primed = true
	s.last = now

	if limit := maxDebt * s.interval; s.unprocessed > limit {
		s.unprocessed = limit
	}
	fire := s.unprocessed >= s.interval
	if fire {
		s.unprocessed -= s.interval
	}
	s.mu.Unlock()

	if fire {
		s.fn()
	}
	return fire
}
