package repository

import (
	"context"

	"github.com/google/uuid"

	"library-api/internal/domains/author/model"
)

//go:generate mockgen -source=interface.go -destination=./mocks/repository_mock.go -package=mocks

// RepositoryInterface is the author data access contract.
// Every method joins the transaction carried by ctx, if any.
type RepositoryInterface interface {
	Create(ctx context.Context, a *model.Author) (*model.Author, error)

	// GetByID returns model.ErrAuthorNotFound when the row is missing
	GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error)

	// GetByIDForUpdate also locks the row until the surrounding transaction ends
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Author, error)

	// List returns one page plus the total matching the filter
	List(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int64, error)

	// ListBooks returns the author's books, newest first
	ListBooks(ctx context.Context, authorID uuid.UUID) ([]model.Book, error)

	// Update writes every column of a; updated_at is server-assigned
	Update(ctx context.Context, a *model.Author) (*model.Author, error)

	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByID takes a FOR SHARE lock on the row when it exists, so a
	// concurrent delete waits for the caller's transaction
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)

	CountBooks(ctx context.Context, authorID uuid.UUID) (int64, error)
}
