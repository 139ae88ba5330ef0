package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lehigh-university-libraries/bookfinder/internal/models"
	"github.com/lehigh-university-libraries/bookfinder/internal/normalize"
)

// SearchFailedMessage is the only text shown to the user when a search fails
const SearchFailedMessage = "Failed to search books. Please check your internet connection and try again."

var (
	// ErrEmptyQuery is returned when the query is blank; nothing is requested
	ErrEmptyQuery = errors.New("empty search query")

	// ErrEditionOutOfRange is returned when selecting an edition that does not exist
	ErrEditionOutOfRange = errors.New("edition index out of range")
)

// SearchError wraps the cause of a failed search with the user-facing message
type SearchError struct {
	Query string
	Type  models.SearchType
	Err   error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("search %s=%q: %v", e.Type, e.Query, e.Err)
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

// UserMessage returns the fixed message shown instead of the cause
func (e *SearchError) UserMessage() string {
	return SearchFailedMessage
}

// Catalog is the subset of the catalog client the service needs
type Catalog interface {
	Search(ctx context.Context, query string, searchType models.SearchType) ([]models.BookSummary, error)
	FetchWork(ctx context.Context, workKey string) (*models.WorkDetail, error)
	FetchEditions(ctx context.Context, workKey string) ([]models.Edition, error)
	SearchBySubject(ctx context.Context, subject, excludeKey string) ([]models.BookSummary, error)
}

// History is the subset of the history store the service needs
type History interface {
	List() ([]models.SearchHistoryEntry, error)
	Record(query string, searchType models.SearchType, resultCount int) ([]models.SearchHistoryEntry, error)
	Clear() error
}

// SearchOutcome is the result of a completed search
type SearchOutcome struct {
	Query   string
	Type    models.SearchType
	Results []models.BookSummary
	History []models.SearchHistoryEntry
}

// Service ties the catalog, normalizer and history together
type Service struct {
	catalog Catalog
	history History
}

func NewService(catalog Catalog, history History) *Service {
	return &Service{
		catalog: catalog,
		history: history,
	}
}

// Search queries the catalog and records the search in history.
// Failures come back as *SearchError; the cause is logged, not shown.
func (s *Service) Search(ctx context.Context, query string, searchType models.SearchType) (*SearchOutcome, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	results, err := s.catalog.Search(ctx, query, searchType)
	if err != nil {
		slog.Error("Search error", "query", query, "type", searchType, "err", err)
		return nil, &SearchError{Query: query, Type: searchType, Err: err}
	}
	slog.Info("Search completed", "query", query, "type", searchType, "results", len(results))

	outcome := &SearchOutcome{
		Query:   query,
		Type:    searchType,
		Results: results,
	}

	entries, err := s.history.Record(query, searchType, len(results))
	if err != nil {
		slog.Error("Unable to record search history", "query", query, "err", err)
		return outcome, nil
	}
	outcome.History = entries
	return outcome, nil
}

// FetchWork returns the work record, or nil when it cannot be loaded
func (s *Service) FetchWork(ctx context.Context, book models.BookSummary) *models.WorkDetail {
	if book.Key == "" {
		return nil
	}
	work, err := s.catalog.FetchWork(ctx, book.Key)
	if err != nil {
		slog.Warn("Error fetching book details", "key", book.Key, "err", err)
		return nil
	}
	return work
}

// FetchEditions returns the editions of a book sorted newest first.
// Failures yield an empty list.
func (s *Service) FetchEditions(ctx context.Context, book models.BookSummary) []models.Edition {
	if book.Key == "" {
		return []models.Edition{}
	}
	editions, err := s.catalog.FetchEditions(ctx, book.Key)
	if err != nil {
		slog.Warn("Error fetching editions", "key", book.Key, "err", err)
		return []models.Edition{}
	}
	return normalize.SortEditions(editions)
}

// Recommend finds up to four books sharing the primary subject of the work
// (or of the search hit when the work has none).
func (s *Service) Recommend(ctx context.Context, book models.BookSummary, work *models.WorkDetail) []models.BookSummary {
	subject, ok := normalize.PrimarySubject(work, book)
	if !ok {
		return []models.BookSummary{}
	}
	books, err := s.catalog.SearchBySubject(ctx, subject, book.Key)
	if err != nil {
		slog.Warn("Error fetching recommended books", "subject", subject, "err", err)
		return []models.BookSummary{}
	}
	return books
}

// LoadDetails runs the whole details sequence: work, then editions, then
// recommendations. Every step is best effort.
func (s *Service) LoadDetails(ctx context.Context, book models.BookSummary) *Details {
	d := NewDetails(book)
	d.SetWork(s.FetchWork(ctx, book))
	d.SetEditions(s.FetchEditions(ctx, book))
	d.Recommendations = s.Recommend(ctx, book, d.Work)
	return d
}

// History returns the recorded searches
func (s *Service) History() ([]models.SearchHistoryEntry, error) {
	return s.history.List()
}

// ClearHistory removes all recorded searches
func (s *Service) ClearHistory() error {
	return s.history.Clear()
}
