// Package normalize turns the catalog's heterogeneous record shapes (search
// hits, work records, edition records) into display values. Each field has a
// fixed priority order and a fixed fallback, so a missing or malformed
// optional field never becomes an error.
package normalize

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/bookfinder/internal/models"
)

// Fallback display strings
const (
	UnknownYear   = "Unknown"
	NotAvailable  = "Not available"
	NotSpecified  = "Not specified"
	UnknownAuthor = "Unknown Author"
	Untitled      = "Untitled Book"
	NoDescription = "No description available for this book."
	BasicInfo     = "Basic info available"
)

const (
	// DefaultCoversURL is the covers service used when none is configured
	DefaultCoversURL = "https://covers.openlibrary.org"

	// PlaceholderCover is shown whenever a cover id is absent or the image fails to load
	PlaceholderCover = "data:image/svg+xml;base64,PHN2ZyB3aWR0aD0iMTIwIiBoZWlnaHQ9IjE4MCIgeG1sbnM9Imh0dHA6Ly93d3cudzMub3JnLzIwMDAvc3ZnIj48cmVjdCB3aWR0aD0iMTAwJSIgaGVpZ2h0PSIxMDAlIiBmaWxsPSIjZjNmNGY2Ii8+PHRleHQgeD0iNTAlIiB5PSI1MCUiIGZvbnQtZmFtaWx5PSJBcmlhbCwgc2Fucy1zZXJpZiIgZm9udC1zaXplPSIxMiIgZmlsbD0iIzljYTNiMyIgdGV4dC1hbmNob3I9Im1pZGRsZSIgZHk9Ii4zZW0iPk5vIENvdmVyPC90ZXh0Pjwvc3ZnPg=="

	// MaxDescriptionLength is the number of characters shown before truncating
	MaxDescriptionLength = 500

	maxAuthors       = 2
	maxGenres        = 3
	maxSubjectTags   = 2
	maxSubjectTagLen = 12
)

var yearPattern = regexp.MustCompile(`\b(1[0-9]{3}|2[0-9]{3})\b`)

// ExtractYear returns the first four-digit year between 1000 and 2999 found in s
func ExtractYear(s string) (string, bool) {
	m := yearPattern.FindString(s)
	if m == "" {
		return "", false
	}
	return m, true
}

// EditionYear returns the numeric publish year of an edition, or 0 when none can be parsed
func EditionYear(e models.Edition) int {
	y, ok := ExtractYear(e.PublishDate)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(y)
	if err != nil {
		return 0
	}
	return n
}

// SortEditions returns a copy of editions ordered newest first. Editions
// without a parseable year sort last; ties keep their upstream order.
func SortEditions(editions []models.Edition) []models.Edition {
	sorted := make([]models.Edition, len(editions))
	copy(sorted, editions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return EditionYear(sorted[i]) > EditionYear(sorted[j])
	})
	return sorted
}

// Title returns the book title or a fallback
func Title(book models.BookSummary) string {
	if strings.TrimSpace(book.Title) == "" {
		return Untitled
	}
	return book.Title
}

// Authors formats at most two author names
func Authors(names []string) string {
	if len(names) == 0 {
		return UnknownAuthor
	}
	if len(names) > maxAuthors {
		names = names[:maxAuthors]
	}
	return strings.Join(names, ", ")
}

// SummaryYear returns the year shown on a result card, if any
func SummaryYear(book models.BookSummary) (string, bool) {
	if book.FirstPublishYear != 0 {
		return strconv.Itoa(book.FirstPublishYear), true
	}
	for _, date := range book.PublishDates {
		if y, ok := ExtractYear(date); ok {
			return y, true
		}
	}
	return "", false
}

// Year picks the publish year for the details view. A nil edition or work
// means that record is not available.
func Year(edition *models.Edition, work *models.WorkDetail, book models.BookSummary) string {
	if edition != nil {
		if y, ok := ExtractYear(edition.PublishDate); ok {
			return y
		}
	}
	if work != nil && work.FirstPublishDate != "" {
		return work.FirstPublishDate
	}
	if y, ok := SummaryYear(book); ok {
		return y
	}
	return UnknownYear
}

// ISBN returns the first ISBN of the edition, preferring ISBN-13
func ISBN(edition *models.Edition) string {
	if edition == nil {
		return NotAvailable
	}
	for _, list := range [][]string{edition.ISBN13, edition.ISBN10, edition.ISBN} {
		if len(list) > 0 && list[0] != "" {
			return list[0]
		}
	}
	return NotAvailable
}

// Pages returns the page count of the edition
func Pages(edition *models.Edition) string {
	if edition == nil {
		return NotSpecified
	}
	if edition.NumberOfPages > 0 {
		return fmt.Sprintf("%d pages", edition.NumberOfPages)
	}
	if edition.Pagination != "" {
		return edition.Pagination
	}
	return NotSpecified
}

// Publisher returns the first publisher of the edition
func Publisher(edition *models.Edition) string {
	if edition == nil || len(edition.Publishers) == 0 || edition.Publishers[0] == "" {
		return NotSpecified
	}
	return edition.Publishers[0]
}

// Genre joins the first three subjects of the work, falling back to the search hit
func Genre(work *models.WorkDetail, book models.BookSummary) string {
	if work != nil && len(work.Subjects) > 0 {
		return joinFirst(work.Subjects, maxGenres)
	}
	if len(book.Subjects) > 0 {
		return joinFirst(book.Subjects, maxGenres)
	}
	return NotSpecified
}

// PrimarySubject returns the subject used to look up recommendations
func PrimarySubject(work *models.WorkDetail, book models.BookSummary) (string, bool) {
	subjects := book.Subjects
	if work != nil && len(work.Subjects) > 0 {
		subjects = work.Subjects
	}
	if len(subjects) == 0 || subjects[0] == "" {
		return "", false
	}
	return subjects[0], true
}

// Description extracts the work description, if there is one
func Description(work *models.WorkDetail) (string, bool) {
	if work == nil {
		return "", false
	}
	text := strings.TrimSpace(work.Description.Text)
	if text == "" {
		return "", false
	}
	return text, true
}

// TruncateDescription shortens long descriptions for display
func TruncateDescription(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxDescriptionLength {
		return text
	}
	return string(runes[:MaxDescriptionLength]) + "..."
}

// CoverURL builds the cover image URL for the default covers service
func CoverURL(coverID int, size models.CoverSize) string {
	return CoverURLFrom(DefaultCoversURL, coverID, size)
}

// CoverURLFrom builds a cover image URL against the given covers service
func CoverURLFrom(baseURL string, coverID int, size models.CoverSize) string {
	if coverID <= 0 {
		return PlaceholderCover
	}
	if size == "" {
		size = models.CoverMedium
	}
	return fmt.Sprintf("%s/b/id/%d-%s.jpg", strings.TrimRight(baseURL, "/"), coverID, size)
}

// LanguageDisplay shows the main language and how many others exist
func LanguageDisplay(languages []string) (string, bool) {
	if len(languages) == 0 {
		return "", false
	}
	primary := strings.ToUpper(languages[0])
	if len(languages) == 1 {
		return primary, true
	}
	return fmt.Sprintf("%s +%d", primary, len(languages)-1), true
}

// CardPages is the median page count of a search hit, as "N pages"
func CardPages(book models.BookSummary) (string, bool) {
	if book.NumberOfPagesMedian <= 0 {
		return "", false
	}
	return fmt.Sprintf("%d pages", book.NumberOfPagesMedian), true
}

// CardPublisher is the first listed publisher of a search hit
func CardPublisher(book models.BookSummary) (string, bool) {
	if len(book.Publishers) == 0 || book.Publishers[0] == "" {
		return "", false
	}
	return book.Publishers[0], true
}

// CardMeta lists the year, pages, language and publisher a result card shows,
// in that order, skipping the missing ones. With none available it returns
// BasicInfo alone.
func CardMeta(book models.BookSummary) []string {
	var meta []string
	if y, ok := SummaryYear(book); ok {
		meta = append(meta, y)
	}
	if p, ok := CardPages(book); ok {
		meta = append(meta, p)
	}
	if lang, ok := LanguageDisplay(book.Languages); ok {
		meta = append(meta, lang)
	}
	if pub, ok := CardPublisher(book); ok {
		meta = append(meta, pub)
	}
	if len(meta) == 0 {
		return []string{BasicInfo}
	}
	return meta
}

// SubjectTags returns up to two shortened subject tags and an overflow marker
func SubjectTags(subjects []string) []string {
	var tags []string
	for i, s := range subjects {
		if i == maxSubjectTags {
			tags = append(tags, fmt.Sprintf("+%d", len(subjects)-maxSubjectTags))
			break
		}
		if r := []rune(s); len(r) > maxSubjectTagLen {
			s = string(r[:maxSubjectTagLen]) + "..."
		}
		tags = append(tags, s)
	}
	return tags
}

// EditionLabel is the short label used in the edition selector
func EditionLabel(e models.Edition) string {
	label := UnknownYear
	if y, ok := ExtractYear(e.PublishDate); ok {
		label = y
	}
	if len(e.Publishers) > 0 && e.Publishers[0] != "" {
		label += " - " + e.Publishers[0]
	}
	return label
}

func joinFirst(items []string, n int) string {
	if len(items) > n {
		items = items[:n]
	}
	return strings.Join(items, ", ")
}
