package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pokedex/internal/pokeapi"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#71839b")).
			Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#dbc074"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8c95a5"))
)

// renderCard formats a summary for plain terminal output.
func renderCard(s *pokeapi.Summary) string {
	if s == nil {
		return ""
	}
	lines := []string{
		titleStyle.Render(fmt.Sprintf("#%03d %s", s.ID, s.Name)),
		labelStyle.Render("types ") + strings.Join(s.Types, ", "),
		labelStyle.Render("height ") + fmt.Sprintf("%.1f m", float64(s.Height)/10) +
			labelStyle.Render("  weight ") + fmt.Sprintf("%.1f kg", float64(s.Weight)/10),
	}
	for _, st := range s.Stats {
		lines = append(lines, fmt.Sprintf("%s %d", labelStyle.Render(fmt.Sprintf("%-16s", st.Name)), st.Value))
	}
	image := s.Images.Best()
	if image == "" {
		image = "No image"
	}
	lines = append(lines, labelStyle.Render("image ")+image)
	return cardStyle.Render(strings.Join(lines, "\n"))
}
