package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pokedex/internal/pokeapi"
)

// maxStat is the ceiling used to scale stat bars.
const maxStat = 255

// refreshDetail rebuilds the viewport content for the open detail query.
func (m *Model) refreshDetail() {
	if m.detail == nil {
		return
	}
	res := m.detail.Result()
	if res.Summary == nil {
		m.detailView.SetContent("")
		return
	}
	m.detailView.SetContent(m.detailContent(res.Summary))
}

func (m Model) renderDetail() string {
	styles := m.theme.Styles()
	if m.detail == nil {
		return ""
	}
	res := m.detail.Result()

	switch {
	case res.Summary == nil && res.Err != nil && res.Err.NotFound():
		return styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left,
			styles.WarningText.Render("Pokémon not found"),
			styles.MutedText.Render(fmt.Sprintf("No entry matches %q.", m.detail.Key())),
			styles.FaintText.Render("esc to go back"),
		))
	case res.Summary == nil && res.Err != nil:
		return styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left,
			styles.DangerText.Render("Something went wrong: "+res.Err.Message),
			styles.MutedText.Render("r to retry  ·  esc to go back"),
		))
	case res.Summary == nil:
		return styles.Panel.Render(m.spinner.View() + " Loading details...")
	}

	view := m.detailView.View()
	if res.Err != nil {
		view = lipgloss.JoinVertical(lipgloss.Left, view,
			styles.DangerText.Render("Refresh failed: "+res.Err.Message+" (r to retry)"))
	}
	return view
}

func (m Model) detailContent(s *pokeapi.Summary) string {
	styles := m.theme.Styles()
	var b strings.Builder

	b.WriteString(styles.AccentText.Render(displayName(s.Name)))
	b.WriteString("  ")
	b.WriteString(styles.MutedText.Render(formatID(s.ID)))
	b.WriteString("\n\n")

	badges := make([]string, 0, len(s.Types))
	for _, t := range s.Types {
		badges = append(badges, styles.TypeStyle(t).Render(" "+t+" "))
	}
	if len(badges) > 0 {
		b.WriteString(strings.Join(badges, " "))
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "%s %s   %s %s   %s %d\n\n",
		styles.MutedText.Render("Height"), formatHeight(s.Height),
		styles.MutedText.Render("Weight"), formatWeight(s.Weight),
		styles.MutedText.Render("Base exp"), s.BaseExperience,
	)

	if len(s.Abilities) > 0 {
		names := make([]string, 0, len(s.Abilities))
		for _, a := range s.Abilities {
			name := displayName(a.Name)
			if a.IsHidden {
				name += " (hidden)"
			}
			names = append(names, name)
		}
		b.WriteString(styles.MutedText.Render("Abilities"))
		b.WriteString(" ")
		b.WriteString(strings.Join(names, ", "))
		b.WriteString("\n\n")
	}

	if len(s.Stats) > 0 {
		b.WriteString(styles.MutedText.Render("Base stats"))
		b.WriteString("\n")
		for _, st := range s.Stats {
			pct := float64(min(max(st.Value, 0), maxStat)) / maxStat
			fmt.Fprintf(&b, "%s %3d %s\n", padRight(statLabel(st.Name), 8), st.Value, m.bar.ViewAs(pct))
		}
		b.WriteString("\n")
	}

	b.WriteString(styles.MutedText.Render("Image"))
	b.WriteString(" ")
	if url := s.Images.Best(); url != "" {
		b.WriteString(styles.FaintText.Render(truncate(url, max(m.detailView.Width-8, 16))))
	} else {
		b.WriteString(styles.FaintText.Render("No image"))
	}
	return b.String()
}
