package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// SearchType selects which catalog field a query is matched against
type SearchType string

const (
	SearchTitle   SearchType = "title"
	SearchAuthor  SearchType = "author"
	SearchGenre   SearchType = "genre"
	SearchGeneral SearchType = "general"
)

// SearchTypes lists the search types in the order they are offered to the user
var SearchTypes = []SearchType{SearchTitle, SearchAuthor, SearchGenre, SearchGeneral}

// ParseSearchType converts user input into a SearchType
func ParseSearchType(s string) (SearchType, error) {
	switch t := SearchType(strings.ToLower(strings.TrimSpace(s))); t {
	case SearchTitle, SearchAuthor, SearchGenre, SearchGeneral:
		return t, nil
	default:
		return "", fmt.Errorf("unknown search type %q (expected title, author, genre or general)", s)
	}
}

// QueryParam returns the upstream query parameter name for the search type
func (t SearchType) QueryParam() string {
	switch t {
	case SearchTitle:
		return "title"
	case SearchAuthor:
		return "author"
	case SearchGenre:
		return "subject"
	default:
		return "q"
	}
}

// Next cycles to the following search type, wrapping around
func (t SearchType) Next() SearchType {
	for i, st := range SearchTypes {
		if st == t {
			return SearchTypes[(i+1)%len(SearchTypes)]
		}
	}
	return SearchTitle
}

// SearchHistoryEntry represents one completed search
type SearchHistoryEntry struct {
	Query       string     `json:"query" yaml:"query"`
	Type        SearchType `json:"type" yaml:"type"`
	Timestamp   time.Time  `json:"timestamp" yaml:"timestamp"`
	ResultCount int        `json:"resultCount" yaml:"resultcount"`
}

// BookSummary represents a search hit from the catalog
type BookSummary struct {
	Key                 string   `json:"key" parquet:"key" yaml:"key"`
	Title               string   `json:"title" parquet:"title" yaml:"title"`
	AuthorNames         []string `json:"author_name,omitempty" parquet:"author_name,list" yaml:"authors,omitempty"`
	CoverID             int      `json:"cover_i,omitempty" parquet:"cover_i" yaml:"coverid,omitempty"`
	FirstPublishYear    int      `json:"first_publish_year,omitempty" parquet:"first_publish_year" yaml:"firstpublishyear,omitempty"`
	PublishDates        []string `json:"publish_date,omitempty" parquet:"publish_date,list" yaml:"publishdates,omitempty"`
	Languages           []string `json:"language,omitempty" parquet:"language,list" yaml:"languages,omitempty"`
	Publishers          []string `json:"publisher,omitempty" parquet:"publisher,list" yaml:"publishers,omitempty"`
	Subjects            []string `json:"subject,omitempty" parquet:"subject,list" yaml:"subjects,omitempty"`
	NumberOfPagesMedian int      `json:"number_of_pages_median,omitempty" parquet:"number_of_pages_median" yaml:"pages,omitempty"`
}

// WorkDetail represents a work record
type WorkDetail struct {
	Key              string      `json:"key"`
	Title            string      `json:"title,omitempty"`
	Description      Description `json:"description,omitempty"`
	Subjects         []string    `json:"subjects,omitempty"`
	FirstPublishDate string      `json:"first_publish_date,omitempty"`
}

// Description holds a work description. The catalog sends either a plain
// string or an object carrying the text under "value".
type Description struct {
	Text string
}

// UnmarshalJSON accepts both description shapes. Anything else decodes to an
// empty description rather than failing the whole record.
func (d *Description) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		d.Text = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		d.Text = s
		return nil
	}

	var typed struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &typed); err == nil {
		d.Text = typed.Value
		return nil
	}

	d.Text = ""
	return nil
}

// MarshalJSON writes the description as a plain string
func (d Description) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Text)
}

// Edition represents a published instance of a work
type Edition struct {
	Key           string   `json:"key,omitempty"`
	Title         string   `json:"title,omitempty"`
	PublishDate   string   `json:"publish_date,omitempty"`
	ISBN13        []string `json:"isbn_13,omitempty"`
	ISBN10        []string `json:"isbn_10,omitempty"`
	ISBN          []string `json:"isbn,omitempty"`
	NumberOfPages int      `json:"number_of_pages,omitempty"`
	Pagination    string   `json:"pagination,omitempty"`
	Publishers    []string `json:"publishers,omitempty"`
}

// CoverSize is the size code used by the covers service
type CoverSize string

const (
	CoverSmall  CoverSize = "S"
	CoverMedium CoverSize = "M"
	CoverLarge  CoverSize = "L"
)

// ParseCoverSize converts user input into a CoverSize
func ParseCoverSize(s string) (CoverSize, error) {
	switch c := CoverSize(strings.ToUpper(strings.TrimSpace(s))); c {
	case CoverSmall, CoverMedium, CoverLarge:
		return c, nil
	default:
		return "", fmt.Errorf("unknown cover size %q (expected S, M or L)", s)
	}
}
