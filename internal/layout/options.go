package layout

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/scheduler"
)

const (
	DefaultAlpha         = 1.0
	DefaultAlphaMin      = 0.001
	DefaultAlphaTarget   = 0.0
	DefaultVelocityDecay = 0.6
	DefaultUpdateCap     = scheduler.DefaultUpdateCap

	// coolingTicks is the number of ticks alpha takes to fall from 1 to
	// alphaMin under the default decay.
	coolingTicks = 300
)

// Options configures a Simulation. Zero fields take their defaults.
type Options struct {
	// UpdateCap is the maximum number of ticks per second; math.Inf(1)
	// disables throttling.
	UpdateCap     float64        `yaml:"update_cap" toml:"update_cap"`
	Alpha         float64        `yaml:"alpha" toml:"alpha"`
	AlphaMin      float64        `yaml:"alpha_min" toml:"alpha_min"`
	AlphaDecay    float64        `yaml:"alpha_decay" toml:"alpha_decay"`
	AlphaTarget   float64        `yaml:"alpha_target" toml:"alpha_target"`
	VelocityDecay float64        `yaml:"velocity_decay" toml:"velocity_decay"`
	Defaults      graph.Defaults `yaml:"defaults" toml:"defaults"`
}

func DefaultAlphaDecay(alphaMin float64) float64 {
	return 1 - math.Pow(alphaMin, 1.0/coolingTicks)
}

func DefaultOptions() Options {
	return Options{
		UpdateCap:     DefaultUpdateCap,
		Alpha:         DefaultAlpha,
		AlphaMin:      DefaultAlphaMin,
		AlphaDecay:    DefaultAlphaDecay(DefaultAlphaMin),
		AlphaTarget:   DefaultAlphaTarget,
		VelocityDecay: DefaultVelocityDecay,
		Defaults:      graph.DefaultDefaults(),
	}
}

func (o Options) normalize() Options {
	if o.UpdateCap == 0 {
		o.UpdateCap = DefaultUpdateCap
	}
	if o.Alpha == 0 {
		o.Alpha = DefaultAlpha
	}
	if o.AlphaMin == 0 {
		o.AlphaMin = DefaultAlphaMin
	}
	if o.AlphaDecay == 0 {
		o.AlphaDecay = DefaultAlphaDecay(o.AlphaMin)
	}
	if o.VelocityDecay == 0 {
		o.VelocityDecay = DefaultVelocityDecay
	}
	o.Defaults = o.Defaults.Normalize()
	return o
}

// Option customizes a Simulation beyond its numeric Options.
type Option func(*Simulation)

func WithLogger(l *log.Logger) Option {
	return func(s *Simulation) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the clock used by the tick and animation schedulers.
func WithClock(c scheduler.Clock) Option {
	return func(s *Simulation) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithMinDelay sets the pause between scheduler passes.
func WithMinDelay(d time.Duration) Option {
	return func(s *Simulation) { s.minDelay = d }
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}
