package model

import (
	"time"

	"github.com/google/uuid"

	"library-api/internal/shared/pagination"
)

// Book is the persisted book row
type Book struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Title         string     `json:"title" db:"title"`
	ISBN          string     `json:"isbn" db:"isbn"`
	PublishedDate *time.Time `json:"publishedDate" db:"published_date"`
	Genre         *string    `json:"genre" db:"genre"`
	AuthorID      uuid.UUID  `json:"authorId" db:"author_id"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`
}

// Author is the author embedded in book reads. Columns are selected
// with an author_ prefix so they do not clash with the book's own.
type Author struct {
	ID        uuid.UUID  `db:"author_id"`
	FirstName string     `db:"author_first_name"`
	LastName  string     `db:"author_last_name"`
	Bio       *string    `db:"author_bio"`
	BirthDate *time.Time `db:"author_birth_date"`
	CreatedAt time.Time  `db:"author_created_at"`
	UpdatedAt time.Time  `db:"author_updated_at"`
}

func (a Author) FullName() string {
	return a.FirstName + " " + a.LastName
}

// BookWithAuthor is a book row joined with its author
type BookWithAuthor struct {
	ID            uuid.UUID  `db:"id"`
	Title         string     `db:"title"`
	ISBN          string     `db:"isbn"`
	PublishedDate *time.Time `db:"published_date"`
	Genre         *string    `db:"genre"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
	Author
}

// Book returns the plain row
func (b *BookWithAuthor) Book() Book {
	return Book{
		ID:            b.ID,
		Title:         b.Title,
		ISBN:          b.ISBN,
		PublishedDate: b.PublishedDate,
		Genre:         b.Genre,
		AuthorID:      b.Author.ID,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// BookFilter is the repository-level list query.
// Title and ISBN are case-insensitive substring matches, AuthorID is exact.
type BookFilter struct {
	Title    string
	ISBN     string
	AuthorID *uuid.UUID
	Page     pagination.Params
}
