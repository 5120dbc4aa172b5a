package model

import (
	"time"

	"github.com/google/uuid"

	"library-api/internal/shared/pagination"
)

// Author is the persisted author row
type Author struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	FirstName string     `json:"firstName" db:"first_name"`
	LastName  string     `json:"lastName" db:"last_name"`
	Bio       *string    `json:"bio" db:"bio"`
	BirthDate *time.Time `json:"birthDate" db:"birth_date"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
}

func (a *Author) FullName() string {
	return a.FirstName + " " + a.LastName
}

// Book is the author's view of a book row, without the back-reference
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

// AuthorWithBooks is returned by GET /authors/:id
type AuthorWithBooks struct {
	Author
	Books []Book
}

// AuthorFilter is the repository-level list query.
// String filters are case-insensitive substring matches, AND-combined.
type AuthorFilter struct {
	FirstName string
	LastName  string
	Page      pagination.Params
}
