package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"library-api/internal/shared/apperror"
)

var (
	ErrAuthorNotFound = errors.New("author not found")
	ErrAuthorHasBooks = errors.New("author has associated books")
)

// NotFound builds the client-facing error for a missing author
func NotFound(id uuid.UUID) *apperror.Error {
	return apperror.NotFound("Author", id, ErrAuthorNotFound)
}

// HasBooks builds the delete guard error carrying the blocking book count
func HasBooks(count int64) *apperror.Error {
	return apperror.BusinessRule(
		fmt.Sprintf("Cannot delete author with %d associated book(s). Please delete the books first.", count),
		ErrAuthorHasBooks,
	)
}
