package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lehigh-university-libraries/bookfinder/internal/models"
)

const tagline = "Discover books from the Open Library catalog"

var features = []struct{ title, body string }{
	{"Search", "Find books by title, author, genre or anything else."},
	{"Details", "Browse editions, publishers, page counts and ISBNs."},
	{"Discover", "Get recommendations that share a subject with the book you are reading about."},
}

func dashboardView(styles Styles, history []models.SearchHistoryEntry, width int) string {
	var b strings.Builder

	b.WriteString(styles.Header.Render("BookFinder"))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render(tagline))
	b.WriteString("\n\n")

	cardWidth := 30
	if width > 0 {
		cardWidth = max(min((width-10)/len(features), 40), 20)
	}
	cards := make([]string, len(features))
	for i, f := range features {
		cards[i] = styles.Card.Width(cardWidth).Render(styles.Title.Render(f.title) + "\n" + f.body)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	b.WriteString("\n\n")

	if len(history) > 0 {
		b.WriteString(styles.Title.Render("Recent searches"))
		b.WriteString("\n")
		for i, e := range history {
			if i == 3 {
				break
			}
			b.WriteString(styles.Muted.Render(fmt.Sprintf("  %s (%s, %d results)", e.Query, e.Type, e.ResultCount)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(styles.Help.Render("s/enter: start searching • a: about • q: quit"))
	return b.String()
}
