package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/balance/internal/board"
	"github.com/roach88/balance/internal/view"
)

const (
	colorRed     lipgloss.Color = "#f38ba8"
	colorBlue    lipgloss.Color = "#89b4fa"
	colorText    lipgloss.Color = "#cdd6f4"
	colorMuted   lipgloss.Color = "#7f849c"
	colorSurface lipgloss.Color = "#45475a"
	colorFocus   lipgloss.Color = "#b4befe"
	colorWarning lipgloss.Color = "#f9e2af"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	helpKeyStyle = lipgloss.NewStyle().Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorWarning)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface).
			Padding(0, 1).
			Width(16)
	focusBoxStyle = boxStyle.BorderForeground(colorFocus)
	labelStyle    = lipgloss.NewStyle().Foreground(colorMuted)

	redTokenStyle  = lipgloss.NewStyle().Foreground(colorRed)
	blueTokenStyle = lipgloss.NewStyle().Foreground(colorBlue)

	netStyles = map[view.NetClass]lipgloss.Style{
		view.Positive: lipgloss.NewStyle().Bold(true).Foreground(colorBlue),
		view.Negative: lipgloss.NewStyle().Bold(true).Foreground(colorRed),
		view.Zero:     lipgloss.NewStyle().Bold(true).Foreground(colorMuted),
	}
)

func tokenStyle(c board.Color) lipgloss.Style {
	if c == board.Blue {
		return blueTokenStyle
	}
	return redTokenStyle
}

func netStyle(class view.NetClass) lipgloss.Style {
	if s, ok := netStyles[class]; ok {
		return s
	}
	return netStyles[view.Zero]
}
