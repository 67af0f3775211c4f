package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/layout"
	"github.com/san-kum/forcegraph/internal/metrics"
)

const (
	canvasCols      = 80
	canvasRows      = 24
	historyCapacity = 240
	circleDuration  = 750 * time.Millisecond
)

// UpdateMsg carries the state after one tick or animation pass.
type UpdateMsg struct {
	Positions []layout.Position
	Iteration int
	Alpha     float64
	Energy    float64
}

// LoopEndMsg reports that the layout loop stopped.
type LoopEndMsg struct{}

// errMsg carries a failed simulation call back to the view.
type errMsg struct{ err error }

// Sender is satisfied by *tea.Program.
type Sender interface {
	Send(msg tea.Msg)
}

// Attach forwards the simulation's update and loop-end events to p. Events
// arrive on scheduler goroutines, so the model never touches the live graph.
func Attach(sim *layout.Simulation, p Sender) error {
	ke := metrics.NewKineticEnergy()
	err := sim.On(layout.EventUpdate, func() {
		msg := UpdateMsg{Iteration: sim.Iteration(), Alpha: sim.Alpha()}
		sim.Do(func(g *graph.Graph) {
			ke.Observe(g, msg.Alpha)
			msg.Energy = ke.Value()
			msg.Positions = make([]layout.Position, len(g.Nodes))
			for i, n := range g.Nodes {
				msg.Positions[i] = layout.Position{ID: n.ID, X: n.X, Y: n.Y}
			}
		})
		p.Send(msg)
	})
	if err != nil {
		return err
	}
	return sim.On(layout.EventLoopEnd, func() { p.Send(LoopEndMsg{}) })
}

// Model is the live layout view.
type Model struct {
	sim   *layout.Simulation
	title string

	canvas    *Canvas
	edges     [][2]int
	positions []layout.Position

	iteration     int
	alpha         float64
	alphaMin      float64
	energy        float64
	energyHistory []float64

	running   bool
	showEdges bool
	showHelp  bool
	status    string
	theme     Theme
	styles    styles
}

// NewModel builds a view over sim. The simulation is started by Init and
// must be stopped by the caller once the program exits.
func NewModel(sim *layout.Simulation, title string) Model {
	m := Model{
		sim:           sim,
		title:         title,
		canvas:        NewCanvas(canvasCols, canvasRows),
		positions:     sim.Snapshot(),
		alpha:         sim.Alpha(),
		alphaMin:      sim.AlphaMin(),
		energyHistory: make([]float64, 0, historyCapacity),
		showEdges:     true,
		running:       true,
		theme:         Themes[0],
	}
	m.styles = newStyles(m.theme)
	sim.Do(func(g *graph.Graph) {
		m.edges = make([][2]int, len(g.Edges))
		for i, e := range g.Edges {
			m.edges[i] = [2]int{e.Source.Index, e.Target.Index}
		}
	})
	return m
}

func (m Model) WithTheme(t Theme) Model {
	m.theme = t
	m.styles = newStyles(t)
	return m
}

// Simulation calls run on a separate goroutine: they emit events, and the
// listeners block on Program.Send until Update returns.
func (m Model) do(fn func(sim *layout.Simulation)) tea.Cmd {
	sim := m.sim
	return func() tea.Msg {
		fn(sim)
		return nil
	}
}

func (m Model) Init() tea.Cmd {
	return m.do((*layout.Simulation).Start)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			if m.running {
				m.running = false
				return m, m.do((*layout.Simulation).Stop)
			}
			m.running = true
			return m, m.do((*layout.Simulation).Start)
		case "r":
			m.running = true
			return m, m.do(func(sim *layout.Simulation) {
				sim.SetAlpha(1)
				sim.Start()
			})
		case "c":
			m.status = ""
			return m, m.circle()
		case "u":
			return m, m.do(func(sim *layout.Simulation) {
				sim.Do(func(g *graph.Graph) {
					for _, n := range g.Nodes {
						n.Unpin()
					}
				})
			})
		case "e":
			m.showEdges = !m.showEdges
		case "t":
			m.theme = m.theme.next()
			m.styles = newStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}

	case UpdateMsg:
		m.positions = msg.Positions
		m.iteration = msg.Iteration
		m.alpha = msg.Alpha
		m.energy = msg.Energy
		if len(m.energyHistory) == historyCapacity {
			copy(m.energyHistory, m.energyHistory[1:])
			m.energyHistory = m.energyHistory[:historyCapacity-1]
		}
		m.energyHistory = append(m.energyHistory, msg.Energy)

	case LoopEndMsg:
		m.running = false

	case errMsg:
		m.status = msg.err.Error()
	}
	return m, nil
}

// circle animates every node onto a ring sized to the current layout. A
// refused animation comes back as an errMsg.
func (m Model) circle() tea.Cmd {
	sim, positions := m.sim, m.positions
	return func() tea.Msg {
		if len(positions) == 0 {
			return nil
		}
		var cx, cy float64
		for _, p := range positions {
			cx += p.X / float64(len(positions))
			cy += p.Y / float64(len(positions))
		}
		var radius float64
		for _, p := range positions {
			radius = math.Max(radius, math.Hypot(p.X-cx, p.Y-cy))
		}

		targets := make([]layout.TargetState, len(positions))
		for i, p := range positions {
			a := 2 * math.Pi * float64(i) / float64(len(positions))
			targets[i] = layout.TargetState{
				ID:      p.ID,
				TargetX: cx + radius*math.Cos(a),
				TargetY: cy + radius*math.Sin(a),
			}
		}
		sim.Stop()
		if err := sim.AnimateState(targets, circleDuration, false); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

// settleProgress maps alpha onto [0, 1] on a log scale, reaching 1 at alphaMin.
func (m Model) settleProgress() float64 {
	if m.alpha <= m.alphaMin {
		return 1
	}
	if m.alpha >= 1 || m.alphaMin <= 0 {
		return 0
	}
	return math.Log(m.alpha) / math.Log(m.alphaMin)
}

func (m Model) View() string {
	var edges [][2]int
	if m.showEdges {
		edges = m.edges
	}
	m.canvas.Draw(m.positions, edges)
	canvasView := m.styles.canvas.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(m.styles.header.Render(strings.ToUpper(m.title)) + "\n")
	if m.running {
		s.WriteString(m.styles.running.Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(m.styles.paused.Render("IDLE") + "\n\n")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory,
			asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(m.styles.chart.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(m.styles.label.Render(label) + m.styles.value.Render(value) + "\n")
	}
	row("Iteration", fmt.Sprintf("%d", m.iteration))
	row("Alpha", fmt.Sprintf("%.4f", m.alpha))
	row("Energy", fmt.Sprintf("%.3f", m.energy))
	row("Nodes", fmt.Sprintf("%d", len(m.positions)))
	row("Edges", fmt.Sprintf("%d", len(m.edges)))
	s.WriteString("\n" + m.styles.progressBar(m.settleProgress(), 20) + "\n")
	if m.status != "" {
		s.WriteString(m.styles.paused.Render(m.status) + "\n")
	}

	s.WriteString(m.styles.help.Render("SP:Pause R:Reheat C:Circle\nE:Edges T:Theme ?:Help Q:Quit"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.styles.panel.Render(s.String()))

	if m.showHelp {
		return m.styles.panel.Render(helpText) + "\n" + mainView
	}
	return mainView
}

const helpText = `Space  pause or resume the layout loop
R      reheat (alpha = 1) and restart
C      animate nodes onto a circle
U      release every pinned node
E      toggle edges
T      cycle themes
Q      quit`
