package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the color scheme of the live view.
type Theme struct {
	Name   string
	Node   lipgloss.Color
	Accent lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	High   lipgloss.Color
	Mid    lipgloss.Color
	Low    lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:   "cyberpunk",
		Node:   lipgloss.Color("#00ffff"),
		Accent: lipgloss.Color("#ff00ff"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#666666"),
		High:   lipgloss.Color("#00ff00"),
		Mid:    lipgloss.Color("#ff8800"),
		Low:    lipgloss.Color("#ff0000"),
	}

	ThemeRetro = Theme{
		Name:   "retro",
		Node:   lipgloss.Color("#00ff00"),
		Accent: lipgloss.Color("#88ff88"),
		Text:   lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#005500"),
		High:   lipgloss.Color("#88ff88"),
		Mid:    lipgloss.Color("#ffff00"),
		Low:    lipgloss.Color("#ff0000"),
	}

	ThemeOcean = Theme{
		Name:   "ocean",
		Node:   lipgloss.Color("#00a8cc"),
		Accent: lipgloss.Color("#ffd700"),
		Text:   lipgloss.Color("#e0f0ff"),
		Muted:  lipgloss.Color("#4488aa"),
		High:   lipgloss.Color("#00ff88"),
		Mid:    lipgloss.Color("#ffcc00"),
		Low:    lipgloss.Color("#ff4444"),
	}

	Themes = []Theme{ThemeCyberpunk, ThemeRetro, ThemeOcean}
)

// GetTheme returns the named theme, falling back to the first one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// next returns the theme after t, wrapping around.
func (t Theme) next() Theme {
	for i, other := range Themes {
		if other.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
