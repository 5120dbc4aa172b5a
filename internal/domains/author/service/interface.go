package service

import (
	"context"

	"github.com/google/uuid"

	"library-api/internal/domains/author/model"
	"library-api/internal/shared/pagination"
)

//go:generate mockgen -source=interface.go -destination=./mocks/service_mock.go -package=mocks

// ServiceInterface holds the author business rules. Failures the client
// can act on are returned as *apperror.Error.
type ServiceInterface interface {
	Create(ctx context.Context, req *model.CreateAuthorRequest) (*model.Author, error)

	// GetByID includes the author's books
	GetByID(ctx context.Context, id uuid.UUID) (*model.AuthorWithBooks, error)

	List(ctx context.Context, filter model.AuthorFilter) (pagination.Page[model.Author], error)

	// Update applies only the fields present in req
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateAuthorRequest) (*model.Author, error)

	// Delete refuses while any book references the author
	Delete(ctx context.Context, id uuid.UUID) error
}
