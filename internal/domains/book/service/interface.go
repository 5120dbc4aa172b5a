package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"library-api/internal/domains/book/model"
	"library-api/internal/shared/pagination"
)

//go:generate mockgen -source=interface.go -destination=./mocks/service_mock.go -package=mocks

// AuthorLookup is the only thing the book service needs from authors.
// ExistsByID must hold a share lock on the author row for the rest of
// the caller's transaction.
type AuthorLookup interface {
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}

// ServiceInterface holds the book business rules. Every read returns
// the book together with its author.
type ServiceInterface interface {
	Create(ctx context.Context, req *model.CreateBookRequest) (*model.BookWithAuthor, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.BookWithAuthor, error)
	List(ctx context.Context, filter model.BookFilter) (pagination.Page[model.BookWithAuthor], error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateBookRequest) (*model.BookWithAuthor, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Export renders every book matching filter into a workbook, ignoring
	// the filter's page
	Export(ctx context.Context, filter model.BookFilter) (*excelize.File, error)
}
