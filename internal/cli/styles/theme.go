// Package styles provides the lipgloss styles shared by the TUI models.
package styles

import "github.com/charmbracelet/lipgloss"

// Theme holds the colors and prebuilt styles of the simulator.
type Theme struct {
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Accent lipgloss.Color
	Warn   lipgloss.Color
	Good   lipgloss.Color

	Title    lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Subtle   lipgloss.Style
	WarnText lipgloss.Style
	GoodText lipgloss.Style

	Header  lipgloss.Style
	Footer  lipgloss.Style
	Snack   lipgloss.Style
	Reader  lipgloss.Style
	Content lipgloss.Style

	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style
}

// DefaultTheme returns the dark theme used by the simulator.
func DefaultTheme() *Theme {
	t := &Theme{
		Text:   lipgloss.Color("#e0def4"),
		Muted:  lipgloss.Color("#6e6a86"),
		Accent: lipgloss.Color("#9ccfd8"),
		Warn:   lipgloss.Color("#eb6f92"),
		Good:   lipgloss.Color("#31748f"),
	}

	t.Title = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.Label = lipgloss.NewStyle().Foreground(t.Muted)
	t.Value = lipgloss.NewStyle().Foreground(t.Text)
	t.Subtle = lipgloss.NewStyle().Foreground(t.Muted).Italic(true)
	t.WarnText = lipgloss.NewStyle().Foreground(t.Warn)
	t.GoodText = lipgloss.NewStyle().Foreground(t.Good)

	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	t.Header = box.BorderForeground(t.Accent)
	t.Footer = box.BorderForeground(t.Accent)
	t.Snack = box.BorderForeground(t.Warn)
	t.Reader = box.BorderForeground(t.Good)
	t.Content = lipgloss.NewStyle().Foreground(t.Muted).Padding(0, 1)

	t.HelpKey = lipgloss.NewStyle().Foreground(t.Accent)
	t.HelpDesc = lipgloss.NewStyle().Foreground(t.Muted)

	return t
}
