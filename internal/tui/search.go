package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lehigh-university-libraries/bookfinder/internal/models"
	"github.com/lehigh-university-libraries/bookfinder/internal/navigation"
	"github.com/lehigh-university-libraries/bookfinder/internal/normalize"
)

// maxRecentSearches is how many history entries the search screen offers
const maxRecentSearches = 5

type searchFocus int

const (
	focusInput searchFocus = iota
	focusResults
	focusHistory
)

var searchPlaceholders = map[models.SearchType]string{
	models.SearchTitle:   "Search by book title...",
	models.SearchAuthor:  "Search by author name...",
	models.SearchGenre:   "Search by genre or subject...",
	models.SearchGeneral: "Search books...",
}

// bookItem adapts a search hit to the bubbles list
type bookItem struct {
	book models.BookSummary
}

func (i bookItem) Title() string { return normalize.Title(i.book) }

func (i bookItem) Description() string {
	parts := append([]string{normalize.Authors(i.book.AuthorNames)}, normalize.CardMeta(i.book)...)
	if tags := normalize.SubjectTags(i.book.Subjects); len(tags) > 0 {
		parts = append(parts, strings.Join(tags, ", "))
	}
	return strings.Join(parts, " · ")
}

func (i bookItem) FilterValue() string { return i.Title() }

type historyItem struct {
	entry models.SearchHistoryEntry
}

func (i historyItem) Title() string { return i.entry.Query }

func (i historyItem) Description() string {
	return fmt.Sprintf("%s · %d results · %s", i.entry.Type, i.entry.ResultCount, i.entry.Timestamp.Local().Format(time.DateTime))
}

func (i historyItem) FilterValue() string { return i.entry.Query }

type searchView struct {
	input   textinput.Model
	results list.Model
	history list.Model
	focus   searchFocus
	styles  Styles
}

func newSearchView(styles Styles) searchView {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 256
	ti.Width = 60
	ti.Placeholder = searchPlaceholders[models.SearchTitle]

	results := list.New(nil, list.NewDefaultDelegate(), 80, 20)
	listSettings(&results)

	history := list.New(nil, list.NewDefaultDelegate(), 80, 20)
	listSettings(&history)

	return searchView{
		input:   ti,
		results: results,
		history: history,
		styles:  styles,
	}
}

func listSettings(l *list.Model) {
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowTitle(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
}

func (v *searchView) SetSize(w, h int) {
	v.input.Width = max(w-8, 10)
	// input, type bar, status and help
	listHeight := max(h-8, 3)
	v.results.SetSize(w, listHeight)
	v.history.SetSize(w, listHeight)
}

// Reset clears the input and focuses it, as on a fresh search screen
func (v *searchView) Reset(t models.SearchType) tea.Cmd {
	v.input.SetValue("")
	v.results.SetItems(nil)
	v.SetType(t)
	return v.FocusInput()
}

func (v *searchView) FocusInput() tea.Cmd {
	v.focus = focusInput
	return v.input.Focus()
}

func (v *searchView) SetType(t models.SearchType) {
	v.input.Placeholder = searchPlaceholders[t]
}

func (v *searchView) SetResults(books []models.BookSummary) {
	items := make([]list.Item, len(books))
	for i, b := range books {
		items[i] = bookItem{book: b}
	}
	v.results.SetItems(items)
	v.results.Select(0)
}

func (v *searchView) SetHistory(entries []models.SearchHistoryEntry) {
	if len(entries) > maxRecentSearches {
		entries = entries[:maxRecentSearches]
	}
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = historyItem{entry: e}
	}
	v.history.SetItems(items)
	v.history.Select(0)
	if len(entries) == 0 && v.focus == focusHistory {
		v.focus = focusInput
		v.input.Focus()
	}
}

// SelectedBook returns the highlighted result when the results list is focused
func (v searchView) SelectedBook() (models.BookSummary, bool) {
	item, ok := v.results.SelectedItem().(bookItem)
	if !ok {
		return models.BookSummary{}, false
	}
	return item.book, true
}

func (v searchView) SelectedHistory() (models.SearchHistoryEntry, bool) {
	item, ok := v.history.SelectedItem().(historyItem)
	if !ok {
		return models.SearchHistoryEntry{}, false
	}
	return item.entry, true
}

// Update forwards a message to whichever component has focus
func (v searchView) Update(msg tea.Msg) (searchView, tea.Cmd) {
	var cmd tea.Cmd
	switch v.focus {
	case focusInput:
		v.input, cmd = v.input.Update(msg)
	case focusResults:
		v.results, cmd = v.results.Update(msg)
	case focusHistory:
		v.history, cmd = v.history.Update(msg)
	}
	return v, cmd
}

func (v searchView) View(state navigation.SearchState, searchType models.SearchType, spinner string) string {
	var b strings.Builder

	b.WriteString(v.styles.Header.Render("Search the catalog"))
	b.WriteString("\n")
	b.WriteString(v.typeBar(searchType))
	b.WriteString("\n\n")
	b.WriteString(v.input.View())
	b.WriteString("\n\n")

	switch {
	case state.Loading:
		b.WriteString(spinner + " Searching...")
	case v.focus == focusHistory || (!state.Performed && len(v.history.Items()) > 0):
		b.WriteString(v.styles.Title.Render("Recent searches"))
		b.WriteString("\n")
		b.WriteString(v.history.View())
	case state.Err != "":
		b.WriteString(v.styles.Error.Render(state.Err))
	case !state.Performed:
		b.WriteString(v.styles.Muted.Render("Type a query and press enter."))
	case len(state.Results) == 0:
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("No books found for %q.", state.Query)))
	default:
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("Found %d books for %q", len(state.Results), state.Query)))
		b.WriteString("\n")
		b.WriteString(v.results.View())
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render(v.help()))
	return b.String()
}

func (v searchView) typeBar(current models.SearchType) string {
	tabs := make([]string, len(models.SearchTypes))
	for i, t := range models.SearchTypes {
		label := strings.ToUpper(string(t[:1])) + string(t[1:])
		if t == current {
			tabs[i] = v.styles.TypeOn.Render(label)
		} else {
			tabs[i] = v.styles.TypeOff.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (v searchView) help() string {
	switch v.focus {
	case focusResults:
		return "enter: open book • ↑/↓: move • /: edit query • esc: back to input"
	case focusHistory:
		return "enter: search again • ctrl+x: clear history • esc: back to input"
	default:
		return "enter: search • tab: search type • ↓: results • ctrl+r: recent searches • ctrl+l: clear • esc: home"
	}
}
