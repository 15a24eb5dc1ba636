package book

import (
	"errors"
)

// ErrInvalidArgument is returned when a store operation is called with an
// unset isbn or a nil insert. It marks a caller bug, not a domain outcome.
var ErrInvalidArgument = errors.New("invalid argument")

// Book represents a stored book. Books are immutable once inserted.
type Book struct {
	ISBN  string `json:"isbn"`
	Title string `json:"title"`
}

// Insert is a candidate book proposed for insertion.
type Insert struct {
	ISBN  string `json:"isbn" validate:"required,isbn"`
	Title string `json:"title" validate:"required,notblank"`
}

// SampleBooks is the fixed set seeded on startup.
var SampleBooks = []Insert{
	{ISBN: "0345391802", Title: "The Hitchhiker's Guide to the Galaxy"},
	{ISBN: "9781451673319", Title: "Fahrenheit 451"},
	{ISBN: "0062225677", Title: "The Color of Magic"},
}

func fromInsert(in *Insert) Book {
	return Book{ISBN: in.ISBN, Title: in.Title}
}
