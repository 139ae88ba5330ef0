package storage

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound is returned when a key has never been written or was deleted
var ErrNotFound = errors.New("storage: key not found")

// Backend is a small key/value store used like browser local storage:
// values are opaque serialized blobs under well-known names.
type Backend interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// Kind names a Backend implementation
type Kind string

const (
	KindMemory Kind = "memory"
	KindFile   Kind = "file"
	KindBadger Kind = "badger"
)

// Open creates the backend of the given kind rooted at dir
func Open(kind Kind, dir string) (Backend, error) {
	switch kind {
	case KindMemory:
		return NewMemory(), nil
	case KindFile, "":
		return NewFile(dir)
	case KindBadger:
		return NewBadger(dir)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s (supported: file, badger, memory)", kind)
	}
}

// MemoryStore keeps values in process memory only
type MemoryStore struct {
	values map[string][]byte
	mu     sync.RWMutex
}

func NewMemory() *MemoryStore {
	return &MemoryStore{
		values: make(map[string][]byte),
	}
}

func (s *MemoryStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, exists := s.values[key]
	if !exists {
		return nil, ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (s *MemoryStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	s.values[key] = stored
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// Keys returns a snapshot of the stored keys
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	return keys
}

func (s *MemoryStore) Close() error {
	return nil
}
