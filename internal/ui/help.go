package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// renderHelp draws the full key reference centred on screen.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	h := m.help
	h.ShowAll = true
	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.AccentText.Render("Keys"),
		"",
		h.View(m.keys),
		"",
		styles.FaintText.Render("press any key to close"),
	)
	box := styles.Panel.
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Padding(1, 2).
		Render(body)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
