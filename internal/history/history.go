// Package history keeps the list of recent searches. Entries are unique by
// (query, type), newest first, capped at MaxEntries, and every change is
// written straight through to the storage backend.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lehigh-university-libraries/bookfinder/internal/models"
	"github.com/lehigh-university-libraries/bookfinder/internal/storage"
)

const (
	// StorageKey is the name the list is persisted under
	StorageKey = "bookSearchHistory"

	// MaxEntries bounds the list length
	MaxEntries = 10
)

// Store manages persisted search history
type Store struct {
	backend storage.Backend
	key     string
	now     func() time.Time
	mu      sync.Mutex
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the timestamp source
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithKey overrides the storage key
func WithKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

// New creates a history store on top of a storage backend
func New(backend storage.Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		key:     StorageKey,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the stored entries, newest first
func (s *Store) List() ([]models.SearchHistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Record adds a completed search to the front of the list, replacing any
// earlier entry for the same query and type.
func (s *Store) Record(query string, searchType models.SearchType, resultCount int) ([]models.SearchHistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return nil, err
	}

	updated := make([]models.SearchHistoryEntry, 0, MaxEntries)
	updated = append(updated, models.SearchHistoryEntry{
		Query:       query,
		Type:        searchType,
		Timestamp:   s.now().UTC(),
		ResultCount: resultCount,
	})
	for _, e := range entries {
		if e.Query == query && e.Type == searchType {
			continue
		}
		if len(updated) == MaxEntries {
			break
		}
		updated = append(updated, e)
	}

	if err := s.save(updated); err != nil {
		return nil, err
	}
	slog.Debug("Recorded search", "query", query, "type", searchType, "results", resultCount, "entries", len(updated))
	return updated, nil
}

// Clear removes every entry
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Delete(s.key); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	slog.Debug("Cleared search history")
	return nil
}

func (s *Store) load() ([]models.SearchHistoryEntry, error) {
	data, err := s.backend.Get(s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return []models.SearchHistoryEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	var entries []models.SearchHistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		// A damaged value should not block searching; start over.
		slog.Warn("Discarding unreadable search history", "key", s.key, "err", err)
		return []models.SearchHistoryEntry{}, nil
	}
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	return entries, nil
}

func (s *Store) save(entries []models.SearchHistoryEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := s.backend.Set(s.key, data); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}
