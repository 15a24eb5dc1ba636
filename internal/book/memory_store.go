package book

import (
	"fmt"
	"sort"
	"sync"
)

// MemoryStore keeps books in a map keyed by ISBN. It is safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	books map[string]Book
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{books: make(map[string]Book)}
}

// List returns a copy of every stored book, sorted by ISBN.
func (s *MemoryStore) List() []Book {
	s.mu.RLock()
	out := make([]Book, 0, len(s.books))
	for _, b := range s.books {
		out = append(out, b)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ISBN < out[j].ISBN })
	return out
}

func (s *MemoryStore) Get(isbn string) (Book, bool, error) {
	if isbn == "" {
		return Book{}, false, fmt.Errorf("get book: empty isbn: %w", ErrInvalidArgument)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.books[isbn]
	return b, ok, nil
}

// Insert stores a new book unless one with the same ISBN already exists.
// Existing books are never overwritten.
func (s *MemoryStore) Insert(in *Insert) (Book, bool, error) {
	if in == nil {
		return Book{}, false, fmt.Errorf("insert book: nil insert: %w", ErrInvalidArgument)
	}
	// an empty key could never be read back or deleted
	if in.ISBN == "" {
		return Book{}, false, fmt.Errorf("insert book: empty isbn: %w", ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.books[in.ISBN]; exists {
		return Book{}, false, nil
	}
	b := fromInsert(in)
	s.books[b.ISBN] = b
	return b, true, nil
}

func (s *MemoryStore) Delete(isbn string) (bool, error) {
	if isbn == "" {
		return false, fmt.Errorf("delete book: empty isbn: %w", ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.books[isbn]; !ok {
		return false, nil
	}
	delete(s.books, isbn)
	return true, nil
}

// Len returns the number of stored books.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.books)
}
