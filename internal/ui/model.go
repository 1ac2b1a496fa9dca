package ui

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/five82/pokedex/internal/browse"
	"github.com/five82/pokedex/internal/config"
	"github.com/five82/pokedex/internal/pokeapi"
	"github.com/five82/pokedex/internal/prefs"
)

// screen is the active top-level view.
type screen int

const (
	screenGrid screen = iota
	screenDetail
)

// inputMode is the purpose of the text prompt, if one is open.
type inputMode int

const (
	inputNone inputMode = iota
	inputSearch
	inputPage
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Catalog   *browse.Catalog
	Mode      string // config.ModePagination or config.ModeInfinite
	PageSize  int
	ThemeName string
	PrefsPath string
	Logger    *log.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	catalog   *browse.Catalog
	logger    *log.Logger
	prefsPath string
	pageSize  int

	// UI state
	theme    Theme
	keys     keyMap
	help     help.Model
	width    int
	height   int
	ready    bool
	screen   screen
	showHelp bool
	status   string

	// Controllers signal changes here; waitForUpdate turns them into messages.
	updates chan struct{}

	// Grid state
	mode      string
	pager     *browse.Pager
	feed      *browse.Feed
	cards     map[string]*browse.DetailQuery // keyed by entry name
	table     table.Model
	paginator paginator.Model
	spinner   spinner.Model

	// Detail state
	detail     *browse.DetailQuery
	detailView viewport.Model
	bar        progress.Model

	// Prompt state
	input     textinput.Model
	inputMode inputMode
}

// New creates a new Bubble Tea model and starts loading the first page.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	pageSize := opts.PageSize
	if pageSize < 1 {
		pageSize = pokeapi.DefaultLimit
	}
	mode, ok := config.ParseMode(opts.Mode)
	if !ok {
		mode = config.ModeInfinite
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	input := textinput.New()
	input.CharLimit = 64

	pg := paginator.New()
	pg.Type = paginator.Arabic

	m := Model{
		ctx:       ctx,
		catalog:   opts.Catalog,
		logger:    logger,
		prefsPath: prefsPath,
		pageSize:  pageSize,
		theme:     GetTheme(opts.ThemeName),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		updates:   make(chan struct{}, 1),
		cards:     make(map[string]*browse.DetailQuery),
		table: table.New(
			table.WithColumns(gridColumns(80)),
			table.WithFocused(true),
			table.WithHeight(10),
			table.WithKeyMap(tableKeyMap()),
		),
		paginator:  pg,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		detailView: viewport.New(80, 20),
		input:      input,
	}
	m.applyTheme()
	m.startMode(mode)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForUpdate(m.ctx, m.updates), m.spinner.Tick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		m.refreshGrid()
		m.refreshDetail()
		return m, nil

	case updateMsg:
		m.refreshGrid()
		m.refreshDetail()
		return m, waitForUpdate(m.ctx, m.updates)

	case tea.FocusMsg:
		if n := m.catalog.Cache().Focus(); n > 0 {
			m.logger.Debug("refetching on focus", "queries", n)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.anyLoading() {
			m.refreshGrid()
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	switch m.screen {
	case screenDetail:
		b.WriteString(m.renderDetail())
	default:
		b.WriteString(m.renderGrid())
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader renders the title bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	modeLabel := "Scroll"
	if m.mode == config.ModePagination {
		modeLabel = "Pages"
	}
	parts := []string{
		styles.Logo.Render("Pokédex"),
		styles.MutedText.Render("mode: " + modeLabel),
		styles.FaintText.Render("theme: " + m.theme.Name),
	}
	if m.status != "" {
		parts = append(parts, styles.WarningText.Render(m.status))
	}
	return styles.Header.Width(max(m.width, 1)).Render(strings.Join(parts, "  "))
}

// renderFooter renders the prompt when open and the short help otherwise.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	if m.inputMode != inputNone {
		return styles.Footer.Render(m.input.View())
	}
	return styles.Footer.Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}

// layout sizes components to the terminal.
func (m *Model) layout() {
	body := max(m.height-6, 3)
	m.table.SetHeight(body)
	m.table.SetColumns(gridColumns(m.width))
	m.detailView.Width = max(m.width-4, 20)
	m.detailView.Height = max(m.height-4, 3)
	m.help.Width = m.width
}

func (m *Model) applyTheme() {
	th := m.theme
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(th.Border)).
		BorderBottom(true).
		Bold(true).
		Foreground(lipgloss.Color(th.Accent))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color(th.SelectionText)).
		Background(lipgloss.Color(th.SelectionBg)).
		Bold(false)
	m.table.SetStyles(s)

	m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(th.Accent))
	m.bar = progress.New(
		progress.WithSolidFill(th.Accent),
		progress.WithoutPercentage(),
		progress.WithWidth(24),
	)
}

// startMode replaces the grid controller.
func (m *Model) startMode(mode string) {
	if m.pager != nil {
		m.pager.Close()
		m.pager = nil
	}
	if m.feed != nil {
		m.feed.Close()
		m.feed = nil
	}
	m.mode = mode
	notify := m.notifier()
	if mode == config.ModePagination {
		m.pager = m.catalog.Pager(m.ctx, m.pageSize, notify)
		return
	}
	m.feed = m.catalog.Feed(m.ctx, m.pageSize, notify)
	if m.feed.Result().Pages == 0 {
		m.feed.LoadMore()
	}
}

func (m *Model) savePrefs() {
	p := prefs.Prefs{Theme: m.theme.Name, Mode: m.mode}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save prefs failed", "err", err)
	}
}

// closeAll releases every controller and card query.
func (m *Model) closeAll() {
	if m.pager != nil {
		m.pager.Close()
	}
	if m.feed != nil {
		m.feed.Close()
	}
	for name, q := range m.cards {
		q.Close()
		delete(m.cards, name)
	}
	if m.detail != nil {
		m.detail.Close()
	}
}

// notifier returns a non-blocking signal for controllers. Bursts collapse
// into one pending update.
func (m *Model) notifier() func() {
	ch := m.updates
	return func() {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Messages

type updateMsg struct{}

// Commands

func waitForUpdate(ctx context.Context, ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case <-ch:
			return updateMsg{}
		}
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
		opts.Context = ctx
	}
	m := New(opts)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithReportFocus(),
	)
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.closeAll()
	} else {
		m.closeAll()
	}
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
