package book

import (
	"bookrest/internal/logging"

	"go.uber.org/zap"
)

// Service provides book-related business logic.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new book service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{repo: repo, logger: logger}
}

// List returns every stored book.
func (s *Service) List() []Book {
	return s.repo.List()
}

// Get returns the book with the given ISBN, if any.
func (s *Service) Get(isbn string) (Book, bool, error) {
	return s.repo.Get(isbn)
}

// Insert stores a new book. ok is false when the ISBN is already taken.
func (s *Service) Insert(in *Insert) (b Book, ok bool, err error) {
	b, ok, err = s.repo.Insert(in)
	if err != nil {
		return Book{}, false, err
	}
	if ok {
		s.logger.Info("book inserted", zap.String("isbn", b.ISBN), zap.String("title", b.Title))
	} else {
		s.logger.Debug("book insert rejected", zap.String("isbn", in.ISBN))
	}
	return b, ok, nil
}

// Delete removes the book with the given ISBN and reports whether it existed.
func (s *Service) Delete(isbn string) (bool, error) {
	deleted, err := s.repo.Delete(isbn)
	if err != nil {
		return false, err
	}
	if deleted {
		s.logger.Info("book deleted", zap.String("isbn", isbn))
	}
	return deleted, nil
}

// Seed inserts the given books, skipping ISBNs that are already present.
// It returns the number of books inserted.
func (s *Service) Seed(inserts []Insert) (int, error) {
	n := 0
	for i := range inserts {
		b, ok, err := s.repo.Insert(&inserts[i])
		if err != nil {
			return n, err
		}
		if !ok {
			continue
		}
		s.logger.Info("inserting book", zap.String("isbn", b.ISBN), zap.String("title", b.Title))
		n++
	}
	return n, nil
}
