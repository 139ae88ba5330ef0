package discovery

import (
	"fmt"

	"github.com/lehigh-university-libraries/bookfinder/internal/models"
	"github.com/lehigh-university-libraries/bookfinder/internal/normalize"
)

// collapsedEditions is how many editions the selector shows before "show all"
const collapsedEditions = 5

// Details holds everything fetched for one book on the details screen
type Details struct {
	Book            models.BookSummary
	Work            *models.WorkDetail
	Editions        []models.Edition
	Recommendations []models.BookSummary
	Description     string

	selected int
}

// Fields are the display values of the details screen
type Fields struct {
	Title       string `json:"title" yaml:"title"`
	Authors     string `json:"authors" yaml:"authors"`
	Year        string `json:"year" yaml:"year"`
	Genre       string `json:"genre" yaml:"genre"`
	ISBN        string `json:"isbn" yaml:"isbn"`
	Pages       string `json:"pages" yaml:"pages"`
	Publisher   string `json:"publisher" yaml:"publisher"`
	Description string `json:"description" yaml:"description"`
	CoverURL    string `json:"cover_url" yaml:"coverurl"`
	Edition     string `json:"edition,omitempty" yaml:"edition,omitempty"`
}

// EditionOption is one entry of the edition selector
type EditionOption struct {
	Index    int    `json:"index" yaml:"index"`
	Label    string `json:"label" yaml:"label"`
	Selected bool   `json:"selected" yaml:"selected"`
}

func NewDetails(book models.BookSummary) *Details {
	return &Details{
		Book:            book,
		Editions:        []models.Edition{},
		Recommendations: []models.BookSummary{},
	}
}

// SetWork stores the work record (nil when it could not be loaded) and
// derives the description from it.
func (d *Details) SetWork(work *models.WorkDetail) {
	d.Work = work
	d.Description = ""
	if text, ok := normalize.Description(work); ok {
		d.Description = text
	}
}

// SetEditions replaces the edition list and resets the selection.
// The list is expected to be sorted already and is not re-sorted.
func (d *Details) SetEditions(editions []models.Edition) {
	if editions == nil {
		editions = []models.Edition{}
	}
	d.Editions = editions
	d.selected = 0
}

// Selected returns the index of the selected edition
func (d *Details) Selected() int {
	return d.selected
}

// SelectEdition changes which fetched edition is displayed
func (d *Details) SelectEdition(i int) error {
	if i < 0 || i >= len(d.Editions) {
		return fmt.Errorf("%w: %d (have %d)", ErrEditionOutOfRange, i, len(d.Editions))
	}
	d.selected = i
	return nil
}

// CurrentEdition returns the selected edition, or nil when there are none
func (d *Details) CurrentEdition() *models.Edition {
	if len(d.Editions) == 0 {
		return nil
	}
	return &d.Editions[d.selected]
}

// Fields computes the display values
func (d *Details) Fields(coverSize models.CoverSize) Fields {
	edition := d.CurrentEdition()

	description := normalize.NoDescription
	if d.Description != "" {
		description = normalize.TruncateDescription(d.Description)
	}

	f := Fields{
		Title:       normalize.Title(d.Book),
		Authors:     normalize.Authors(d.Book.AuthorNames),
		Year:        normalize.Year(edition, d.Work, d.Book),
		Genre:       normalize.Genre(d.Work, d.Book),
		ISBN:        normalize.ISBN(edition),
		Pages:       normalize.Pages(edition),
		Publisher:   normalize.Publisher(edition),
		Description: description,
		CoverURL:    normalize.CoverURL(d.Book.CoverID, coverSize),
	}
	if len(d.Editions) > 1 {
		f.Edition = fmt.Sprintf("Edition %d of %d", d.selected+1, len(d.Editions))
	}
	return f
}

// HasEditionSelector reports whether there is more than one edition to pick from
func (d *Details) HasEditionSelector() bool {
	return len(d.Editions) > 1
}

// EditionOptions lists the selector entries, the first five unless showAll
func (d *Details) EditionOptions(showAll bool) []EditionOption {
	n := len(d.Editions)
	if !showAll && n > collapsedEditions {
		n = collapsedEditions
	}
	options := make([]EditionOption, 0, n)
	for i := 0; i < n; i++ {
		options = append(options, EditionOption{
			Index:    i,
			Label:    normalize.EditionLabel(d.Editions[i]),
			Selected: i == d.selected,
		})
	}
	return options
}

// CanToggleEditions reports whether the "show all" toggle applies
func (d *Details) CanToggleEditions() bool {
	return len(d.Editions) > collapsedEditions
}
