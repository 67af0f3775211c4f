package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	canvas lipgloss.Style
	panel  lipgloss.Style
	header lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	chart  lipgloss.Style
	help   lipgloss.Style

	running lipgloss.Style
	paused  lipgloss.Style

	high, mid, low lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		canvas: lipgloss.NewStyle().Foreground(t.Node).Padding(1, 2),
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(40),
		header:  lipgloss.NewStyle().Foreground(t.Accent).Bold(true).MarginBottom(1),
		label:   lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:   lipgloss.NewStyle().Foreground(t.Text),
		chart:   lipgloss.NewStyle().Foreground(t.Node).Padding(1, 0),
		help:    lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		running: lipgloss.NewStyle().Bold(true).Foreground(t.High),
		paused:  lipgloss.NewStyle().Bold(true).Foreground(t.Mid),
		high:    lipgloss.NewStyle().Foreground(t.High),
		mid:     lipgloss.NewStyle().Foreground(t.Mid),
		low:     lipgloss.NewStyle().Foreground(t.Low),
	}
}

// progressBar renders fraction in [0, 1] as a bar, colored by how far along
// it is.
func (s styles) progressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	filled = min(max(filled, 0), width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	switch {
	case fraction > 0.8:
		return s.high.Render(bar)
	case fraction > 0.4:
		return s.mid.Render(bar)
	default:
		return s.low.Render(bar)
	}
}
