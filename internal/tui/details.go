package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/lehigh-university-libraries/bookfinder/internal/discovery"
	"github.com/lehigh-university-libraries/bookfinder/internal/models"
	"github.com/lehigh-university-libraries/bookfinder/internal/normalize"
)

// detailsView is the local UI state of the details screen. It is rebuilt
// for every visit.
type detailsView struct {
	details  *discovery.Details
	visit    uint64
	loading  bool
	showAll  bool
	recIndex int

	summaries      bool
	summary        string
	summaryErr     string
	summaryPending bool

	viewport  viewport.Model
	renderer  *glamour.TermRenderer
	styles    Styles
	coverURL  string
	coverSize models.CoverSize
}

func newDetailsView(styles Styles, renderer *glamour.TermRenderer, coversURL string, coverSize models.CoverSize) detailsView {
	return detailsView{
		viewport:  viewport.New(80, 20),
		renderer:  renderer,
		styles:    styles,
		coverURL:  coversURL,
		coverSize: coverSize,
	}
}

// Open starts a new visit for book
func (v *detailsView) Open(book models.BookSummary, visit uint64) {
	v.details = discovery.NewDetails(book)
	v.visit = visit
	v.loading = true
	v.showAll = false
	v.recIndex = 0
	v.summary = ""
	v.summaryErr = ""
	v.summaryPending = false
	v.viewport.GotoTop()
	v.refresh()
}

func (v *detailsView) SetSize(w, h int) {
	v.viewport.Width = w
	v.viewport.Height = max(h-4, 3)
	v.refresh()
}

func (v *detailsView) SetWork(work *models.WorkDetail) {
	v.details.SetWork(work)
	v.loading = false
	v.refresh()
}

func (v *detailsView) SetEditions(editions []models.Edition) {
	v.details.SetEditions(editions)
	v.refresh()
}

func (v *detailsView) SetRecommendations(books []models.BookSummary) {
	v.details.Recommendations = books
	v.recIndex = 0
	v.refresh()
}

func (v *detailsView) SetSummary(text string, err error) {
	v.summaryPending = false
	if err != nil {
		v.summaryErr = "Summary unavailable."
	} else {
		v.summary = text
	}
	v.refresh()
}

// SelectEdition switches the displayed edition and collapses the selector
func (v *detailsView) SelectEdition(i int) {
	if err := v.details.SelectEdition(i); err != nil {
		return
	}
	v.showAll = false
	v.refresh()
}

func (v *detailsView) ToggleEditions() {
	if !v.details.CanToggleEditions() {
		return
	}
	v.showAll = !v.showAll
	v.refresh()
}

func (v *detailsView) MoveRecommendation(delta int) {
	n := len(v.details.Recommendations)
	if n == 0 {
		return
	}
	v.recIndex = (v.recIndex + delta + n) % n
	v.refresh()
}

// SelectedRecommendation returns the highlighted recommendation
func (v detailsView) SelectedRecommendation() (models.BookSummary, bool) {
	if v.details == nil || len(v.details.Recommendations) == 0 {
		return models.BookSummary{}, false
	}
	return v.details.Recommendations[v.recIndex], true
}

// Fields are the display values using the configured covers service
func (v detailsView) Fields() discovery.Fields {
	f := v.details.Fields(v.coverSize)
	f.CoverURL = normalize.CoverURLFrom(v.coverURL, v.details.Book.CoverID, v.coverSize)
	return f
}

func (v detailsView) Update(msg tea.Msg) (detailsView, tea.Cmd) {
	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

func (v detailsView) View(spinner string) string {
	var b strings.Builder
	if v.loading {
		b.WriteString(spinner + " Loading book details...\n")
	}
	b.WriteString(v.viewport.View())
	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render(v.help()))
	return b.String()
}

func (v detailsView) help() string {
	parts := []string{"esc: back"}
	if v.details != nil && v.details.HasEditionSelector() {
		parts = append(parts, "1-9: edition", "[/]: prev/next edition")
		if v.details.CanToggleEditions() {
			parts = append(parts, "e: all editions")
		}
	}
	if v.details != nil && len(v.details.Recommendations) > 0 {
		parts = append(parts, "tab: next recommendation", "enter: open")
	}
	if v.summaries {
		parts = append(parts, "s: summary")
	}
	parts = append(parts, "/: new search", "h: home")
	return strings.Join(parts, " • ")
}

func (v *detailsView) refresh() {
	if v.details == nil {
		v.viewport.SetContent("")
		return
	}
	v.viewport.SetContent(v.render())
}

func (v detailsView) render() string {
	f := v.Fields()
	var b strings.Builder

	b.WriteString(v.styles.Header.Render(f.Title))
	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render("by " + f.Authors))
	b.WriteString("\n\n")

	if f.Edition != "" {
		b.WriteString(v.styles.Tag.Render(f.Edition))
		b.WriteString("\n")
	}

	rows := []struct{ label, value string }{
		{"Published", f.Year},
		{"Genre", f.Genre},
		{"ISBN", f.ISBN},
		{"Pages", f.Pages},
		{"Publisher", f.Publisher},
		{"Cover", f.CoverURL},
	}
	for _, r := range rows {
		value := r.value
		if r.value == normalize.PlaceholderCover {
			value = "No cover"
		}
		b.WriteString(v.styles.Label.Render(r.label))
		b.WriteString(v.styles.Value.Render(value))
		b.WriteString("\n")
	}

	if v.details.HasEditionSelector() {
		b.WriteString("\n")
		b.WriteString(v.styles.Title.Render(fmt.Sprintf("Editions (%d)", len(v.details.Editions))))
		b.WriteString("\n")
		for _, opt := range v.details.EditionOptions(v.showAll) {
			line := fmt.Sprintf("  %d. %s", opt.Index+1, opt.Label)
			if opt.Selected {
				line = v.styles.Selected.Render(fmt.Sprintf("> %d. %s", opt.Index+1, opt.Label))
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		if v.details.CanToggleEditions() {
			label := fmt.Sprintf("  Show all %d editions", len(v.details.Editions))
			if v.showAll {
				label = "  Show fewer"
			}
			b.WriteString(v.styles.Muted.Render(label))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Title.Render("Description"))
	b.WriteString("\n")
	b.WriteString(v.markdown(f.Description))
	b.WriteString("\n")

	switch {
	case v.summaryPending:
		b.WriteString(v.styles.Muted.Render("Generating summary..."))
		b.WriteString("\n")
	case v.summary != "":
		b.WriteString(v.styles.Title.Render("Summary"))
		b.WriteString("\n")
		b.WriteString(v.markdown(v.summary))
		b.WriteString("\n")
	case v.summaryErr != "":
		b.WriteString(v.styles.Error.Render(v.summaryErr))
		b.WriteString("\n")
	}

	if recs := v.details.Recommendations; len(recs) > 0 {
		b.WriteString("\n")
		b.WriteString(v.styles.Title.Render("You might also like"))
		b.WriteString("\n")
		for i, rec := range recs {
			line := fmt.Sprintf("%s by %s", normalize.Title(rec), normalize.Authors(rec.AuthorNames))
			if i == v.recIndex {
				b.WriteString(v.styles.Selected.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (v detailsView) markdown(text string) string {
	if v.renderer == nil {
		return text
	}
	out, err := v.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}
