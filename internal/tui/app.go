// Package tui is the interactive terminal interface. Screens render the
// state held by the navigation controller; network calls run as tea.Cmds
// and report back through messages.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/lehigh-university-libraries/bookfinder/internal/discovery"
	"github.com/lehigh-university-libraries/bookfinder/internal/models"
	"github.com/lehigh-university-libraries/bookfinder/internal/navigation"
	"github.com/lehigh-university-libraries/bookfinder/internal/normalize"
)

// Discovery is what the interface needs from the discovery service
type Discovery interface {
	Search(ctx context.Context, query string, searchType models.SearchType) (*discovery.SearchOutcome, error)
	FetchWork(ctx context.Context, book models.BookSummary) *models.WorkDetail
	FetchEditions(ctx context.Context, book models.BookSummary) []models.Edition
	Recommend(ctx context.Context, book models.BookSummary, work *models.WorkDetail) []models.BookSummary
	History() ([]models.SearchHistoryEntry, error)
	ClearHistory() error
}

// Summarizer produces a short blurb for the details screen
type Summarizer interface {
	Summarize(ctx context.Context, fields discovery.Fields) (string, error)
}

type Options struct {
	// Summarizer is optional; without it the summary key does nothing
	Summarizer Summarizer
	CoversURL  string
	CoverSize  models.CoverSize
	// MarkdownStyle is a glamour style name, or "auto" to detect the terminal
	MarkdownStyle string
}

// Model is the root bubbletea model
type Model struct {
	ctx        context.Context
	svc        Discovery
	summarizer Summarizer
	nav        *navigation.Controller
	styles     Styles
	style      string

	search   searchView
	details  detailsView
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	history   []models.SearchHistoryEntry
	searchSeq uint64
	// inFlight stays set until the reply for searchSeq arrives, whichever screen is showing
	inFlight bool
	width    int
	height   int
}

func New(ctx context.Context, svc Discovery, opts Options) Model {
	if opts.CoversURL == "" {
		opts.CoversURL = normalize.DefaultCoversURL
	}
	if opts.CoverSize == "" {
		opts.CoverSize = models.CoverMedium
	}
	if opts.MarkdownStyle == "" {
		opts.MarkdownStyle = "auto"
	}

	styles := DefaultStyles()
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Selected

	renderer := newRenderer(opts.MarkdownStyle, 80)

	m := Model{
		ctx:        ctx,
		svc:        svc,
		summarizer: opts.Summarizer,
		nav:        navigation.NewController(),
		styles:     styles,
		style:      opts.MarkdownStyle,
		search:     newSearchView(styles),
		details:    newDetailsView(styles, renderer, opts.CoversURL, opts.CoverSize),
		spinner:    sp,
		renderer:   renderer,
	}
	m.details.summaries = opts.Summarizer != nil
	m.loadHistory()
	return m
}

// Run starts the interface and blocks until the user quits
func Run(ctx context.Context, svc Discovery, opts Options) error {
	p := tea.NewProgram(New(ctx, svc, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func newRenderer(style string, width int) *glamour.TermRenderer {
	styleOpt := glamour.WithStylePath(style)
	if style == "auto" {
		styleOpt = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		slog.Warn("Unable to create markdown renderer", "style", style, "err", err)
		return nil
	}
	return r
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Screen reports the visible screen
func (m Model) Screen() navigation.Screen {
	return m.nav.Screen()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.renderer = newRenderer(m.style, max(msg.Width-8, 20))
		m.details.renderer = m.renderer
		m.search.SetSize(msg.Width-4, msg.Height-2)
		m.details.SetSize(msg.Width-4, msg.Height-2)
		return m, nil

	case spinner.TickMsg:
		if !m.loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case searchDoneMsg:
		return m.handleSearchDone(msg)

	case workLoadedMsg:
		if !m.nav.IsCurrentVisit(msg.visit) {
			slog.Debug("Dropping stale work response", "visit", msg.visit)
			return m, nil
		}
		m.details.SetWork(msg.work)
		book := m.details.details.Book
		return m, tea.Batch(
			m.fetchEditions(msg.visit, book),
			m.fetchRecommendations(msg.visit, book, msg.work),
		)

	case editionsLoadedMsg:
		if m.nav.IsCurrentVisit(msg.visit) {
			m.details.SetEditions(msg.editions)
		}
		return m, nil

	case recommendationsLoadedMsg:
		if m.nav.IsCurrentVisit(msg.visit) {
			m.details.SetRecommendations(msg.books)
		}
		return m, nil

	case summaryMsg:
		if m.nav.IsCurrentVisit(msg.visit) {
			m.details.SetSummary(msg.text, msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.nav.Screen() {
		case navigation.ScreenDashboard:
			return m.updateDashboard(msg)
		case navigation.ScreenSearch:
			return m.updateSearch(msg)
		case navigation.ScreenDetails:
			return m.updateDetails(msg)
		case navigation.ScreenAbout:
			return m.updateAbout(msg)
		}
	}

	if m.nav.Screen() == navigation.ScreenDetails {
		var cmd tea.Cmd
		m.details, cmd = m.details.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "s", "enter":
		if err := m.nav.StartSearch(); err != nil {
			return m, nil
		}
		m.search.SetHistory(m.history)
		return m, m.search.Reset(m.nav.SearchType())
	case "a", "?":
		m.nav.ShowAbout()
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateAbout(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		_ = m.nav.Back()
	case "h":
		m.nav.GoHome()
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+x":
		m.clearHistory()
		return m, nil
	case "ctrl+l":
		if m.inFlight {
			return m, nil
		}
		if err := m.nav.ClearResults(); err != nil {
			slog.Debug("Results not cleared", "err", err)
			return m, nil
		}
		m.search.input.SetValue("")
		m.search.SetResults(nil)
		return m, m.search.FocusInput()
	}

	switch m.search.focus {
	case focusResults:
		switch key {
		case "enter":
			if book, ok := m.search.SelectedBook(); ok {
				return m.openBook(book)
			}
			return m, nil
		case "esc", "/":
			return m, m.search.FocusInput()
		case "h":
			m.nav.GoHome()
			return m, nil
		}

	case focusHistory:
		switch key {
		case "enter":
			entry, ok := m.search.SelectedHistory()
			if !ok {
				return m, nil
			}
			m.nav.SetSearchType(entry.Type)
			m.search.SetType(entry.Type)
			m.search.input.SetValue(entry.Query)
			cmd := m.search.FocusInput()
			var submit tea.Cmd
			m, submit = m.submitSearch()
			return m, tea.Batch(cmd, submit)
		case "esc":
			return m, m.search.FocusInput()
		}

	default:
		switch key {
		case "esc":
			m.nav.GoHome()
			return m, nil
		case "enter":
			return m.submitSearch()
		case "tab":
			next := m.nav.SearchType().Next()
			m.nav.SetSearchType(next)
			m.search.SetType(next)
			return m, nil
		case "down":
			if len(m.search.results.Items()) > 0 && m.searchState().Performed {
				m.search.focus = focusResults
				m.search.input.Blur()
				return m, nil
			}
			if len(m.search.history.Items()) > 0 {
				m.search.focus = focusHistory
				m.search.input.Blur()
			}
			return m, nil
		case "ctrl+r":
			if len(m.search.history.Items()) > 0 {
				m.search.focus = focusHistory
				m.search.input.Blur()
			}
			return m, nil
		}
		if m.inFlight {
			// the input is disabled while a search is in flight
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) updateDetails(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "esc", "backspace":
		_ = m.nav.Back()
		return m, nil
	case "/":
		_ = m.nav.Back()
		return m, m.search.FocusInput()
	case "h":
		m.nav.GoHome()
		return m, nil
	case "a", "?":
		m.nav.ShowAbout()
		return m, nil
	case "q":
		return m, tea.Quit
	case "e":
		m.details.ToggleEditions()
		return m, nil
	case "[":
		m.details.SelectEdition(m.details.details.Selected() - 1)
		return m, nil
	case "]":
		m.details.SelectEdition(m.details.details.Selected() + 1)
		return m, nil
	case "tab":
		m.details.MoveRecommendation(1)
		return m, nil
	case "shift+tab":
		m.details.MoveRecommendation(-1)
		return m, nil
	case "enter":
		if rec, ok := m.details.SelectedRecommendation(); ok {
			return m.openBook(rec)
		}
		return m, nil
	case "s":
		cmd := m.requestSummary()
		return m, cmd
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		i := int(key[0] - '1')
		if i < len(m.details.details.EditionOptions(m.details.showAll)) {
			m.details.SelectEdition(i)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.details, cmd = m.details.Update(msg)
	return m, cmd
}

func (m Model) submitSearch() (Model, tea.Cmd) {
	query := strings.TrimSpace(m.search.input.Value())
	if query == "" || m.inFlight {
		return m, nil
	}
	if err := m.nav.BeginSearch(query); err != nil {
		slog.Debug("Search not started", "query", query, "err", err)
		return m, nil
	}
	m.searchSeq++
	m.inFlight = true
	m.search.results.SetItems(nil)
	return m, tea.Batch(m.runSearch(m.searchSeq, query, m.nav.SearchType()), m.spinner.Tick)
}

func (m Model) handleSearchDone(msg searchDoneMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.searchSeq {
		return m, nil
	}
	m.inFlight = false
	if msg.err != nil {
		message := discovery.SearchFailedMessage
		var searchErr *discovery.SearchError
		if errors.As(msg.err, &searchErr) {
			message = searchErr.UserMessage()
		}
		if err := m.nav.FailSearch(message); err != nil {
			slog.Debug("Search failed after leaving the search screen", "err", err)
		}
		m.search.SetResults(nil)
		return m, nil
	}

	if msg.outcome.History != nil {
		m.history = msg.outcome.History
		m.search.SetHistory(m.history)
	}
	if err := m.nav.CompleteSearch(msg.outcome.Results); err != nil {
		slog.Debug("Search completed after leaving the search screen", "err", err)
		return m, nil
	}
	m.search.SetResults(msg.outcome.Results)
	if len(msg.outcome.Results) > 0 {
		m.search.focus = focusResults
		m.search.input.Blur()
	}
	return m, nil
}

func (m Model) openBook(book models.BookSummary) (tea.Model, tea.Cmd) {
	if err := m.nav.SelectBook(book); err != nil {
		return m, nil
	}
	state := m.nav.State().(navigation.DetailsState)
	m.details.Open(book, state.Visit)
	return m, tea.Batch(m.fetchWork(state.Visit, book), m.spinner.Tick)
}

func (m *Model) requestSummary() tea.Cmd {
	if m.summarizer == nil || m.details.summaryPending || m.details.summary != "" {
		return nil
	}
	m.details.summaryPending = true
	m.details.summaryErr = ""
	m.details.refresh()

	visit := m.details.visit
	fields := m.details.Fields()
	ctx, summarizer := m.ctx, m.summarizer
	return func() tea.Msg {
		text, err := summarizer.Summarize(ctx, fields)
		if err != nil {
			slog.Warn("Unable to summarize book", "title", fields.Title, "err", err)
		}
		return summaryMsg{visit: visit, text: text, err: err}
	}
}

func (m Model) runSearch(seq uint64, query string, searchType models.SearchType) tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		outcome, err := svc.Search(ctx, query, searchType)
		return searchDoneMsg{seq: seq, outcome: outcome, err: err}
	}
}

func (m Model) fetchWork(visit uint64, book models.BookSummary) tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		return workLoadedMsg{visit: visit, work: svc.FetchWork(ctx, book)}
	}
}

func (m Model) fetchEditions(visit uint64, book models.BookSummary) tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		return editionsLoadedMsg{visit: visit, editions: svc.FetchEditions(ctx, book)}
	}
}

func (m Model) fetchRecommendations(visit uint64, book models.BookSummary, work *models.WorkDetail) tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		return recommendationsLoadedMsg{visit: visit, books: svc.Recommend(ctx, book, work)}
	}
}

func (m *Model) loadHistory() {
	entries, err := m.svc.History()
	if err != nil {
		slog.Warn("Unable to load search history", "err", err)
		return
	}
	m.history = entries
}

func (m *Model) clearHistory() {
	if err := m.svc.ClearHistory(); err != nil {
		slog.Error("Unable to clear search history", "err", err)
		return
	}
	m.history = nil
	m.search.SetHistory(nil)
}

func (m Model) searchState() navigation.SearchState {
	s, _ := m.nav.State().(navigation.SearchState)
	return s
}

func (m Model) loading() bool {
	return m.nav.Searching() || (m.nav.Screen() == navigation.ScreenDetails && m.details.loading)
}

func (m Model) View() string {
	var body string
	switch s := m.nav.State().(type) {
	case navigation.DashboardState:
		body = dashboardView(m.styles, m.history, m.width)
	case navigation.SearchState:
		body = m.search.View(s, m.nav.SearchType(), m.spinner.View())
	case navigation.DetailsState:
		body = m.details.View(m.spinner.View())
	case navigation.AboutState:
		body = aboutView(m.styles, m.renderer)
	}
	return m.styles.App.Render(body)
}
