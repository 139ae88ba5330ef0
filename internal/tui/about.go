package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const aboutMarkdown = `# About BookFinder

BookFinder searches the [Open Library](https://openlibrary.org) catalog, a
free and open index of books maintained by the Internet Archive.

## How it works

- **Search** by title, author, genre or a general query. Up to 50 results
  are shown per search.
- **Details** combine the work record with its editions. Pick an edition to
  see its publisher, ISBN and page count.
- **Recommendations** are other books sharing the first subject of the work.
- Your last 10 searches are remembered between sessions.

Cover images are served by covers.openlibrary.org.
`

func aboutView(styles Styles, renderer *glamour.TermRenderer) string {
	var b strings.Builder
	body := aboutMarkdown
	if renderer != nil {
		if out, err := renderer.Render(aboutMarkdown); err == nil {
			body = out
		}
	}
	b.WriteString(body)
	b.WriteString(styles.Help.Render("esc: back • h: home • q: quit"))
	return b.String()
}
