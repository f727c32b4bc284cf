package main

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title    lipgloss.Style
	muted    lipgloss.Style
	selected lipgloss.Style
	err      lipgloss.Style
	help     lipgloss.Style
	panel    lipgloss.Style
}

// newStyles binds the styles to w so colors are dropped when w is not a terminal.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		muted:    r.NewStyle().Faint(true),
		selected: r.NewStyle().Bold(true).Reverse(true),
		err:      r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		help:     r.NewStyle().Faint(true),
		panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1),
	}
}
