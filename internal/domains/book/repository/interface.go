package repository

import (
	"context"

	"github.com/google/uuid"

	"library-api/internal/domains/book/model"
)

//go:generate mockgen -source=interface.go -destination=./mocks/repository_mock.go -package=mocks

// RepositoryInterface is the book data access contract.
// Every method joins the transaction carried by ctx, if any.
type RepositoryInterface interface {
	// Create returns the new row; a duplicate ISBN surfaces as the
	// unique violation from the driver
	Create(ctx context.Context, b *model.Book) (*model.Book, error)

	// GetByID returns the book joined with its author, or model.ErrBookNotFound
	GetByID(ctx context.Context, id uuid.UUID) (*model.BookWithAuthor, error)

	// GetByIDForUpdate locks the book row until the surrounding transaction ends
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Book, error)

	List(ctx context.Context, filter model.BookFilter) ([]model.BookWithAuthor, int64, error)

	Update(ctx context.Context, b *model.Book) (*model.Book, error)

	Delete(ctx context.Context, id uuid.UUID) error
}
