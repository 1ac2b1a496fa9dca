package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pokedex/internal/pokeapi"
)

// gridColumns sizes the list columns for the terminal width.
func gridColumns(width int) []table.Column {
	const (
		idWidth    = 6
		typesWidth = 18
		imageWidth = 10
	)
	name := max(width-idWidth-typesWidth-imageWidth-10, 12)
	return []table.Column{
		{Title: "#", Width: idWidth},
		{Title: "Name", Width: name},
		{Title: "Types", Width: typesWidth},
		{Title: "Image", Width: imageWidth},
	}
}

// gridState is the list content shared by both browsing modes.
type gridState struct {
	items   []pokeapi.ListRef
	loading bool
	err     *pokeapi.ErrorInfo
}

func (m *Model) gridState() gridState {
	switch {
	case m.pager != nil:
		res := m.pager.Result()
		return gridState{items: res.Items, loading: res.IsLoading, err: res.Err}
	case m.feed != nil:
		res := m.feed.Result()
		return gridState{items: res.Items, loading: res.IsLoading, err: res.Err}
	}
	return gridState{}
}

// refreshGrid rebuilds the table rows and mounts cards for the visible window.
func (m *Model) refreshGrid() {
	st := m.gridState()
	m.syncCards(st.items)

	rows := make([]table.Row, len(st.items))
	for i, ref := range st.items {
		rows[i] = m.cardRow(ref)
	}
	m.table.SetRows(rows)
	// An empty table leaves the cursor at -1.
	if n := len(rows); n > 0 {
		if c := m.table.Cursor(); c < 0 || c >= n {
			m.table.SetCursor(min(max(c, 0), n-1))
		}
	}

	if m.pager != nil {
		res := m.pager.Result()
		m.paginator.PerPage = res.Limit
		m.paginator.TotalPages = max(res.TotalPages, 1)
		m.paginator.Page = res.CurrentPage - 1
	}
}

// visibleRange is the half-open slice of rows around the cursor that get a
// mounted card.
func (m *Model) visibleRange(n int) (int, int) {
	height := max(m.table.Height(), 1)
	cursor := min(m.table.Cursor(), max(n-1, 0))
	start := max(cursor-height, 0)
	end := min(cursor+height+1, n)
	return min(start, end), end
}

// syncCards keeps exactly the visible rows subscribed to their detail query.
func (m *Model) syncCards(items []pokeapi.ListRef) {
	start, end := m.visibleRange(len(items))
	wanted := make(map[string]pokeapi.ListRef, end-start)
	for _, ref := range items[start:end] {
		wanted[ref.Name] = ref
	}
	for name, q := range m.cards {
		if _, ok := wanted[name]; !ok {
			q.Close()
			delete(m.cards, name)
		}
	}
	notify := m.notifier()
	for name, ref := range wanted {
		if _, ok := m.cards[name]; !ok {
			m.cards[name] = m.catalog.Card(m.ctx, ref, notify)
		}
	}
}

// cardRow renders one list entry. Unmounted and loading cards show what the
// list entry alone provides.
func (m *Model) cardRow(ref pokeapi.ListRef) table.Row {
	id, _ := ref.ID()
	types := ""
	image := ""
	if q, ok := m.cards[ref.Name]; ok {
		res := q.Result()
		switch {
		case res.Summary != nil:
			id = res.Summary.ID
			types = strings.Join(res.Summary.Types, "/")
			image = imageLabel(res.Summary.Images)
		case res.Err != nil:
			types = "unavailable"
			image = "No image"
		case res.IsLoading:
			types = m.spinner.View()
		}
	}
	return table.Row{formatID(id), displayName(ref.Name), types, image}
}

func imageLabel(img pokeapi.Images) string {
	switch {
	case img.Primary != "":
		return "artwork"
	case img.Fallback != "":
		return "sprite"
	}
	return "No image"
}

func (m *Model) selectedRef() (pokeapi.ListRef, bool) {
	items := m.gridState().items
	i := m.table.Cursor()
	if i < 0 || i >= len(items) {
		return pokeapi.ListRef{}, false
	}
	return items[i], true
}

func (m *Model) anyLoading() bool {
	st := m.gridState()
	if st.loading {
		return true
	}
	if m.feed != nil && m.feed.Result().IsFetchingNextPage {
		return true
	}
	if m.detail != nil && m.detail.Result().IsLoading {
		return true
	}
	for _, q := range m.cards {
		if q.Result().IsLoading {
			return true
		}
	}
	return false
}

func (m Model) renderGrid() string {
	styles := m.theme.Styles()
	st := m.gridState()

	switch {
	case st.loading && len(st.items) == 0:
		return styles.Panel.Render(m.spinner.View() + " Loading Pokémon...")
	case st.err != nil && len(st.items) == 0:
		return styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left,
			styles.DangerText.Render("Couldn't load Pokémon: "+st.err.Message),
			styles.MutedText.Render("Press r to retry"),
		))
	case len(st.items) == 0:
		return styles.Panel.Render(styles.MutedText.Render("No Pokémon found"))
	}

	var footer string
	if m.pager != nil {
		footer = m.renderPagerFooter()
	} else {
		footer = m.renderFeedFooter()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.table.View(), footer)
}

func (m Model) renderPagerFooter() string {
	styles := m.theme.Styles()
	res := m.pager.Result()
	if res.TotalPages == 0 {
		return styles.MutedText.Render(fmt.Sprintf("Page %d", res.CurrentPage))
	}

	var links []string
	for _, n := range pageWindow(res.CurrentPage, res.TotalPages) {
		switch {
		case n == 0:
			links = append(links, styles.FaintText.Render("…"))
		case n == res.CurrentPage:
			links = append(links, styles.AccentText.Render("["+strconv.Itoa(n)+"]"))
		default:
			links = append(links, styles.MutedText.Render(strconv.Itoa(n)))
		}
	}

	summary := fmt.Sprintf("Page %s (%d total)", m.paginator.View(), res.TotalCount)
	line := styles.Text.Render(summary) + "  " + strings.Join(links, " ")
	if res.Err != nil {
		line += "  " + styles.DangerText.Render(res.Err.Message+" (r to retry)")
	} else if res.IsLoading {
		line += "  " + m.spinner.View()
	}
	return line
}

func (m Model) renderFeedFooter() string {
	styles := m.theme.Styles()
	res := m.feed.Result()
	switch {
	case res.Err != nil:
		return styles.DangerText.Render("Couldn't load more: " + res.Err.Message + " (r to retry)")
	case res.IsFetchingNextPage:
		return styles.MutedText.Render(m.spinner.View() + " Loading more...")
	case !res.HasNextPage:
		return styles.SuccessText.Render(fmt.Sprintf("You've seen all Pokémon! (%d)", len(res.Items)))
	}
	return styles.MutedText.Render(fmt.Sprintf("Loaded %d of %d  ·  l to load more", len(res.Items), res.TotalCount))
}
