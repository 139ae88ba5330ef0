package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent    = lipgloss.AdaptiveColor{Light: "#1F4E79", Dark: "#7FB3E6"}
	highlight = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#F6B26B"}
	muted     = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	danger    = lipgloss.Color("#E53935")
)

// Styles holds the lipgloss styles shared by every screen
type Styles struct {
	App       lipgloss.Style
	Header    lipgloss.Style
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Help      lipgloss.Style
	Tag       lipgloss.Style
	Selected  lipgloss.Style
	Card      lipgloss.Style
	TypeOn    lipgloss.Style
	TypeOff   lipgloss.Style
	StatusBar lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		App:       lipgloss.NewStyle().Padding(1, 2),
		Header:    lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1),
		Title:     lipgloss.NewStyle().Bold(true),
		Subtitle:  lipgloss.NewStyle().Italic(true).Foreground(muted),
		Label:     lipgloss.NewStyle().Bold(true).Foreground(accent).Width(12),
		Value:     lipgloss.NewStyle(),
		Muted:     lipgloss.NewStyle().Foreground(muted),
		Error:     lipgloss.NewStyle().Foreground(danger).Bold(true),
		Help:      lipgloss.NewStyle().Foreground(muted).MarginTop(1),
		Tag:       lipgloss.NewStyle().Foreground(highlight).Padding(0, 1),
		Selected:  lipgloss.NewStyle().Foreground(highlight).Bold(true),
		Card:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1),
		TypeOn:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(accent).Padding(0, 1),
		TypeOff:   lipgloss.NewStyle().Foreground(muted).Padding(0, 1),
		StatusBar: lipgloss.NewStyle().Foreground(muted),
	}
}
