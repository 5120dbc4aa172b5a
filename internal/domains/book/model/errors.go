package model

import (
	"errors"

	"github.com/google/uuid"

	"library-api/internal/shared/apperror"
)

var (
	ErrBookNotFound   = errors.New("book not found")
	ErrAuthorNotFound = errors.New("author not found")
)

// NotFound builds the client-facing error for a missing book
func NotFound(id uuid.UUID) *apperror.Error {
	return apperror.NotFound("Book", id, ErrBookNotFound)
}

// AuthorNotFound is returned when a book references a missing author
func AuthorNotFound(id uuid.UUID) *apperror.Error {
	return apperror.NotFound("Author", id, ErrAuthorNotFound)
}
