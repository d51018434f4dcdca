package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	canvas lipgloss.Style
	stats  lipgloss.Style
	header lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	alert  lipgloss.Style
	graph  lipgloss.Style
	help   lipgloss.Style
}

// currentStyles derives the panel styles from CurrentTheme.
func currentStyles() styles {
	th := CurrentTheme
	return styles{
		canvas: lipgloss.NewStyle().Padding(1, 2).Foreground(th.Walls),
		stats: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(th.Muted).
			Padding(1, 2).
			Width(44),
		header: lipgloss.NewStyle().Foreground(th.Accent).Bold(true).MarginBottom(1),
		label:  lipgloss.NewStyle().Foreground(th.Muted).Width(12),
		value:  lipgloss.NewStyle().Foreground(th.Text),
		alert:  lipgloss.NewStyle().Foreground(th.Contact).Bold(true),
		graph:  lipgloss.NewStyle().Foreground(th.Ball).Padding(1, 0),
		help:   lipgloss.NewStyle().Foreground(th.Muted).MarginTop(1),
	}
}

// ProgressBar renders a fixed-width bar for percent in [0, 1].
func ProgressBar(percent float64, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 1 {
		percent = 1
	}
	filled := int(percent * float64(width))
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
}
