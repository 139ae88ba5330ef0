package normalize

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lehigh-university-libraries/bookfinder/internal/models"
)

func TestExtractYear(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		found    bool
	}{
		{"first match wins", "Published 1999 (reprint 2005)", "1999", true},
		{"plain year", "2001", "2001", true},
		{"month and year", "March 1965", "1965", true},
		{"out of range", "Published 0999", "", false},
		{"five digits", "12345", "", false},
		{"year 3000 rejected", "3000", "", false},
		{"embedded in word", "abc1999def", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractYear(tt.input)
			if ok != tt.found {
				t.Fatalf("Expected found=%v, got %v", tt.found, ok)
			}
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestSortEditions(t *testing.T) {
	editions := []models.Edition{
		{Key: "a", PublishDate: "2001"},
		{Key: "b"},
		{Key: "c", PublishDate: "June 1995"},
	}

	sorted := SortEditions(editions)

	var keys []string
	for _, e := range sorted {
		keys = append(keys, e.Key)
	}
	if diff := cmp.Diff([]string{"a", "c", "b"}, keys); diff != "" {
		t.Errorf("Unexpected order (-want +got):\n%s", diff)
	}

	if editions[0].Key != "a" || editions[1].Key != "b" {
		t.Error("SortEditions must not reorder its input")
	}
}

func TestSortEditionsKeepsTiesInOrder(t *testing.T) {
	editions := []models.Edition{
		{Key: "x"},
		{Key: "a", PublishDate: "2010"},
		{Key: "y", PublishDate: "n.d."},
		{Key: "b", PublishDate: "2010"},
	}

	sorted := SortEditions(editions)

	var keys []string
	for _, e := range sorted {
		keys = append(keys, e.Key)
	}
	if diff := cmp.Diff([]string{"a", "b", "x", "y"}, keys); diff != "" {
		t.Errorf("Unexpected order (-want +got):\n%s", diff)
	}
}

func TestYear(t *testing.T) {
	book := models.BookSummary{
		FirstPublishYear: 1965,
		PublishDates:     []string{"1990"},
	}

	tests := []struct {
		name     string
		edition  *models.Edition
		work     *models.WorkDetail
		book     models.BookSummary
		expected string
	}{
		{
			name:     "selected edition wins",
			edition:  &models.Edition{PublishDate: "Ace, 1987"},
			work:     &models.WorkDetail{FirstPublishDate: "1965"},
			book:     book,
			expected: "1987",
		},
		{
			name:     "edition without year falls to work",
			edition:  &models.Edition{PublishDate: "n.d."},
			work:     &models.WorkDetail{FirstPublishDate: "August 1965"},
			book:     book,
			expected: "August 1965",
		},
		{
			name:     "summary first publish year",
			book:     book,
			expected: "1965",
		},
		{
			name:     "summary publish date list",
			book:     models.BookSummary{PublishDates: []string{"unknown", "c. 1972"}},
			expected: "1972",
		},
		{
			name:     "fallback",
			book:     models.BookSummary{},
			expected: UnknownYear,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Year(tt.edition, tt.work, tt.book); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestEditionFields(t *testing.T) {
	tests := []struct {
		name      string
		edition   *models.Edition
		isbn      string
		pages     string
		publisher string
	}{
		{
			name:      "no edition",
			edition:   nil,
			isbn:      NotAvailable,
			pages:     NotSpecified,
			publisher: NotSpecified,
		},
		{
			name: "isbn 13 preferred",
			edition: &models.Edition{
				ISBN13:        []string{"9780441013593"},
				ISBN10:        []string{"0441013597"},
				NumberOfPages: 528,
				Publishers:    []string{"Ace", "Penguin"},
			},
			isbn:      "9780441013593",
			pages:     "528 pages",
			publisher: "Ace",
		},
		{
			name: "isbn 10 then pagination",
			edition: &models.Edition{
				ISBN10:     []string{"0441013597"},
				Pagination: "xii, 412 p.",
			},
			isbn:      "0441013597",
			pages:     "xii, 412 p.",
			publisher: NotSpecified,
		},
		{
			name:      "generic isbn list",
			edition:   &models.Edition{ISBN: []string{"123456789X"}},
			isbn:      "123456789X",
			pages:     NotSpecified,
			publisher: NotSpecified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ISBN(tt.edition); got != tt.isbn {
				t.Errorf("ISBN: expected %q, got %q", tt.isbn, got)
			}
			if got := Pages(tt.edition); got != tt.pages {
				t.Errorf("Pages: expected %q, got %q", tt.pages, got)
			}
			if got := Publisher(tt.edition); got != tt.publisher {
				t.Errorf("Publisher: expected %q, got %q", tt.publisher, got)
			}
		})
	}
}

func TestGenre(t *testing.T) {
	summary := models.BookSummary{Subjects: []string{"Science fiction", "Deserts"}}

	if got := Genre(&models.WorkDetail{}, summary); got != "Science fiction, Deserts" {
		t.Errorf("Expected summary subjects, got %q", got)
	}

	work := &models.WorkDetail{Subjects: []string{"Arrakis", "Ecology", "Politics", "Religion"}}
	if got := Genre(work, summary); got != "Arrakis, Ecology, Politics" {
		t.Errorf("Expected first three work subjects, got %q", got)
	}

	if got := Genre(nil, models.BookSummary{}); got != NotSpecified {
		t.Errorf("Expected fallback, got %q", got)
	}
}

func TestPrimarySubject(t *testing.T) {
	if _, ok := PrimarySubject(nil, models.BookSummary{}); ok {
		t.Error("Expected no subject")
	}

	got, ok := PrimarySubject(&models.WorkDetail{}, models.BookSummary{Subjects: []string{"Fantasy"}})
	if !ok || got != "Fantasy" {
		t.Errorf("Expected summary subject, got %q", got)
	}

	got, _ = PrimarySubject(&models.WorkDetail{Subjects: []string{"Dragons"}}, models.BookSummary{Subjects: []string{"Fantasy"}})
	if got != "Dragons" {
		t.Errorf("Expected work subject, got %q", got)
	}
}

func TestAuthors(t *testing.T) {
	if got := Authors(nil); got != UnknownAuthor {
		t.Errorf("Expected %q, got %q", UnknownAuthor, got)
	}
	if got := Authors([]string{"A", "B", "C"}); got != "A, B" {
		t.Errorf("Expected first two authors, got %q", got)
	}
}

func TestCoverURL(t *testing.T) {
	if got := CoverURL(0, models.CoverSmall); got != PlaceholderCover {
		t.Errorf("Expected placeholder for missing cover id, got %q", got)
	}
	if got := CoverURL(12345, models.CoverSmall); got != "https://covers.openlibrary.org/b/id/12345-S.jpg" {
		t.Errorf("Unexpected cover URL %q", got)
	}
	if got := CoverURLFrom("http://localhost:9000/", 7, ""); got != "http://localhost:9000/b/id/7-M.jpg" {
		t.Errorf("Unexpected cover URL %q", got)
	}
}

func TestTruncateDescription(t *testing.T) {
	short := "A short description."
	if got := TruncateDescription(short); got != short {
		t.Errorf("Expected unchanged text, got %q", got)
	}

	long := make([]rune, 600)
	for i := range long {
		long[i] = 'é'
	}
	got := []rune(TruncateDescription(string(long)))
	if len(got) != MaxDescriptionLength+3 {
		t.Errorf("Expected %d runes, got %d", MaxDescriptionLength+3, len(got))
	}
}

func TestCardHelpers(t *testing.T) {
	if got, ok := LanguageDisplay([]string{"eng", "fre", "ger"}); !ok || got != "ENG +2" {
		t.Errorf("Unexpected language display %q", got)
	}
	if _, ok := LanguageDisplay(nil); ok {
		t.Error("Expected no language display")
	}

	tags := SubjectTags([]string{"Science fiction", "Deserts", "Ecology", "Politics"})
	if diff := cmp.Diff([]string{"Science fict...", "Deserts", "+2"}, tags); diff != "" {
		t.Errorf("Unexpected tags (-want +got):\n%s", diff)
	}

	if got := EditionLabel(models.Edition{PublishDate: "1990", Publishers: []string{"Ace"}}); got != "1990 - Ace" {
		t.Errorf("Unexpected label %q", got)
	}
	if got := EditionLabel(models.Edition{}); got != UnknownYear {
		t.Errorf("Unexpected label %q", got)
	}

	if got, ok := CardPages(models.BookSummary{NumberOfPagesMedian: 412}); !ok || got != "412 pages" {
		t.Errorf("Unexpected pages %q", got)
	}
	if _, ok := CardPages(models.BookSummary{}); ok {
		t.Error("Expected no pages")
	}
	if got, ok := CardPublisher(models.BookSummary{Publishers: []string{"Ace Books", "Chilton"}}); !ok || got != "Ace Books" {
		t.Errorf("Unexpected publisher %q", got)
	}
	if _, ok := CardPublisher(models.BookSummary{Publishers: []string{""}}); ok {
		t.Error("Expected no publisher")
	}
}

func TestCardMeta(t *testing.T) {
	tests := []struct {
		name     string
		book     models.BookSummary
		expected []string
	}{
		{
			name: "everything",
			book: models.BookSummary{
				FirstPublishYear:    1965,
				NumberOfPagesMedian: 412,
				Languages:           []string{"eng"},
				Publishers:          []string{"Ace Books"},
			},
			expected: []string{"1965", "412 pages", "ENG", "Ace Books"},
		},
		{
			name:     "pages and publisher only",
			book:     models.BookSummary{NumberOfPagesMedian: 412, Publishers: []string{"Ace Books"}},
			expected: []string{"412 pages", "Ace Books"},
		},
		{
			name:     "nothing",
			book:     models.BookSummary{Title: "Dune"},
			expected: []string{BasicInfo},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.expected, CardMeta(tt.book)); diff != "" {
				t.Errorf("Unexpected meta (-want +got):\n%s", diff)
			}
		})
	}
}
