package ui

import (
	"fmt"
	"strings"
	"unicode"
)

// formatID renders an id as a zero-padded card label, e.g. #025.
func formatID(id int) string {
	if id <= 0 {
		return "#???"
	}
	return fmt.Sprintf("#%03d", id)
}

// displayName capitalizes the first letter of a name.
func displayName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	r := []rune(name)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// formatHeight converts decimetres to metres.
func formatHeight(dm int) string {
	return fmt.Sprintf("%.1f m", float64(dm)/10)
}

// formatWeight converts hectograms to kilograms.
func formatWeight(hg int) string {
	return fmt.Sprintf("%.1f kg", float64(hg)/10)
}

var statLabels = map[string]string{
	"hp":              "HP",
	"attack":          "Attack",
	"defense":         "Defense",
	"special-attack":  "Sp. Atk",
	"special-defense": "Sp. Def",
	"speed":           "Speed",
}

func statLabel(name string) string {
	if label, ok := statLabels[name]; ok {
		return label
	}
	return displayName(strings.ReplaceAll(name, "-", " "))
}

// pageWindow lists the page links shown around current: the first page, the
// neighbours of current, and the last page. Zero marks an ellipsis.
func pageWindow(current, total int) []int {
	if total <= 0 || current < 1 || current > total {
		return nil
	}
	var out []int
	if current > 2 {
		out = append(out, 1)
		if current > 3 {
			out = append(out, 0)
		}
	}
	for p := current - 1; p <= current+1; p++ {
		if p >= 1 && p <= total {
			out = append(out, p)
		}
	}
	if current < total-1 {
		if current < total-2 {
			out = append(out, 0)
		}
		out = append(out, total)
	}
	return out
}

// truncate shortens a string to the given limit, adding ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// padRight pads a string with spaces to the given width.
func padRight(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(r))
}
