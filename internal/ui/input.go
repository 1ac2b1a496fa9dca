package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pokedex/internal/browse"
	"github.com/five82/pokedex/internal/config"
)

// loadAhead is how close to the end of the feed the cursor must be before
// the next page is requested.
const loadAhead = 3

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.inputMode != inputNone {
		return m.handleInputKey(msg)
	}
	if m.showHelp {
		if key.Matches(msg, m.keys.Quit) {
			m.closeAll()
			return m, tea.Quit
		}
		m.showHelp = false
		return m, nil
	}
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.closeAll()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.applyTheme()
		m.refreshDetail()
		m.savePrefs()
		return m, nil
	case key.Matches(msg, m.keys.Search):
		return m, m.openInput(inputSearch)
	}

	if m.screen == screenDetail {
		return m.handleDetailKey(msg)
	}
	return m.handleGridKey(msg)
}

func (m Model) handleGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Open):
		if ref, ok := m.selectedRef(); ok {
			m.openDetail(m.catalog.Card(m.ctx, ref, m.notifier()))
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleMode):
		next := config.ModePagination
		if m.mode == config.ModePagination {
			next = config.ModeInfinite
		}
		m.startMode(next)
		m.table.SetCursor(0)
		m.refreshGrid()
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Retry):
		m.retryGrid()
		m.refreshGrid()
		return m, nil
	}

	if m.pager != nil {
		switch {
		case key.Matches(msg, m.keys.NextPage):
			if m.pager.NextPage() {
				m.table.SetCursor(0)
			}
			m.refreshGrid()
			return m, nil
		case key.Matches(msg, m.keys.PrevPage):
			if m.pager.PreviousPage() {
				m.table.SetCursor(0)
			}
			m.refreshGrid()
			return m, nil
		case key.Matches(msg, m.keys.GoToPage):
			if m.pager.Result().TotalPages == 0 {
				m.status = "page count not known yet"
				return m, nil
			}
			return m, m.openInput(inputPage)
		}
	}

	if m.feed != nil && key.Matches(msg, m.keys.LoadMore) {
		m.feed.LoadMore()
		m.refreshGrid()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	if m.feed != nil {
		rows := len(m.table.Rows())
		if rows > 0 && m.table.Cursor() >= rows-loadAhead && m.feed.Result().HasNextPage {
			m.feed.LoadMore()
		}
	}
	m.refreshGrid()
	return m, cmd
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.closeDetail()
		return m, nil
	case key.Matches(msg, m.keys.Retry):
		if m.detail != nil {
			m.detail.Retry()
		}
		m.refreshDetail()
		return m, nil
	}
	var cmd tea.Cmd
	m.detailView, cmd = m.detailView.Update(msg)
	return m, cmd
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.closeInput()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		value := strings.TrimSpace(m.input.Value())
		mode := m.inputMode
		m.closeInput()
		m.submitInput(mode, value)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submitInput(mode inputMode, value string) {
	switch mode {
	case inputSearch:
		if value == "" {
			return
		}
		m.openDetail(m.catalog.Lookup(m.ctx, value, m.notifier()))
	case inputPage:
		if m.pager == nil {
			return
		}
		total := m.pager.Result().TotalPages
		n, err := strconv.Atoi(value)
		if err != nil || !m.pager.GoToPage(n) {
			m.status = fmt.Sprintf("page must be between 1 and %d", total)
			return
		}
		m.table.SetCursor(0)
		m.refreshGrid()
	}
}

func (m *Model) openInput(mode inputMode) tea.Cmd {
	m.inputMode = mode
	m.input.Reset()
	switch mode {
	case inputSearch:
		m.input.Prompt = "Search: "
		m.input.Placeholder = "name or number"
	case inputPage:
		m.input.Prompt = "Go to page: "
		m.input.Placeholder = fmt.Sprintf("1-%d", m.pager.Result().TotalPages)
	}
	m.table.Blur()
	return m.input.Focus()
}

func (m *Model) closeInput() {
	m.inputMode = inputNone
	m.input.Blur()
	m.input.Reset()
	m.table.Focus()
}

// openDetail replaces the detail query and switches to the detail screen.
func (m *Model) openDetail(q *browse.DetailQuery) {
	if m.detail != nil {
		m.detail.Close()
	}
	m.detail = q
	m.screen = screenDetail
	m.detailView.GotoTop()
	m.refreshDetail()
}

func (m *Model) closeDetail() {
	if m.detail != nil {
		m.detail.Close()
		m.detail = nil
	}
	m.screen = screenGrid
	m.refreshGrid()
}

// retryGrid retries the list controller and every failed card.
func (m *Model) retryGrid() {
	if m.pager != nil && m.pager.Result().Err != nil {
		m.pager.Retry()
	}
	if m.feed != nil && m.feed.Result().Err != nil {
		m.feed.LoadMore()
	}
	for _, q := range m.cards {
		if q.Result().Err != nil {
			q.Retry()
		}
	}
}
