package tui

import "github.com/charmbracelet/lipgloss"

var (
	brand  = lipgloss.Color("#25D366")
	muted  = lipgloss.Color("#6B7280")
	danger = lipgloss.Color("#E53935")
	info   = lipgloss.Color("#2196F3")
)

// Styles groups the lipgloss styles used by the storefront views.
type Styles struct {
	Header     lipgloss.Style
	AddressBar lipgloss.Style
	Selected   lipgloss.Style
	Muted      lipgloss.Style
	OutOfStock lipgloss.Style
	Pane       lipgloss.Style
	FocusPane  lipgloss.Style
	Modal      lipgloss.Style
	Error      lipgloss.Style
	Toast      map[string]lipgloss.Style
	Help       lipgloss.Style
}

// DefaultStyles returns the storefront palette.
func DefaultStyles() Styles {
	pane := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted).Padding(0, 1)
	return Styles{
		Header:     lipgloss.NewStyle().Bold(true).Foreground(brand),
		AddressBar: lipgloss.NewStyle().Foreground(info).Underline(true),
		Selected:   lipgloss.NewStyle().Bold(true).Foreground(brand),
		Muted:      lipgloss.NewStyle().Foreground(muted),
		OutOfStock: lipgloss.NewStyle().Foreground(danger).Faint(true),
		Pane:       pane,
		FocusPane:  pane.BorderForeground(brand),
		Modal:      lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(brand).Padding(1, 2),
		Error:      lipgloss.NewStyle().Foreground(danger),
		Toast: map[string]lipgloss.Style{
			"info":    lipgloss.NewStyle().Foreground(info),
			"success": lipgloss.NewStyle().Foreground(brand),
			"error":   lipgloss.NewStyle().Foreground(danger),
		},
		Help: lipgloss.NewStyle().Foreground(muted).Italic(true),
	}
}
