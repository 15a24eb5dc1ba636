//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

package book

// Repository defines the contract for book storage.
//
// Absent books and duplicate inserts are reported through the bool result.
// A non-nil error always wraps ErrInvalidArgument.
type Repository interface {
	List() []Book
	Get(isbn string) (Book, bool, error)
	Insert(in *Insert) (Book, bool, error)
	Delete(isbn string) (bool, error)
}
