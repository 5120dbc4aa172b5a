package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"library-api/internal/domains/book/model"
	"library-api/internal/domains/book/repository"
	"library-api/internal/shared/apperror"
	"library-api/internal/shared/pagination"
	"library-api/pkg/database"
)

type bookService struct {
	repo    repository.RepositoryInterface
	authors AuthorLookup
	tx      database.Transactor
}

func NewBookService(repo repository.RepositoryInterface, authors AuthorLookup, tx database.Transactor) ServiceInterface {
	return &bookService{
		repo:    repo,
		authors: authors,
		tx:      tx,
	}
}

// Create checks the author and inserts in one transaction. A duplicate
// ISBN is reported by the unique constraint.
func (s *bookService) Create(ctx context.Context, req *model.CreateBookRequest) (*model.BookWithAuthor, error) {
	b, err := req.ToEntity()
	if err != nil {
		return nil, apperror.Validation(err.Error())
	}

	var result *model.BookWithAuthor
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.ensureAuthor(ctx, b.AuthorID); err != nil {
			return err
		}

		created, err := s.repo.Create(ctx, b)
		if err != nil {
			return err
		}

		result, err = s.repo.GetByID(ctx, created.ID)
		return err
	})
	if err != nil {
		return nil, translate(err)
	}

	log.Info().
		Str("book_id", result.ID.String()).
		Str("author_id", result.Author.ID.String()).
		Msg("book created")
	return result, nil
}

func (s *bookService) GetByID(ctx context.Context, id uuid.UUID) (*model.BookWithAuthor, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(id, err)
	}
	return b, nil
}

func (s *bookService) List(ctx context.Context, filter model.BookFilter) (pagination.Page[model.BookWithAuthor], error) {
	books, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return pagination.Page[model.BookWithAuthor]{}, err
	}

	return pagination.NewPage(books, total, filter.Page), nil
}

// Update re-validates the author only when authorId is sent and differs
// from the current one
func (s *bookService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateBookRequest) (*model.BookWithAuthor, error) {
	var result *model.BookWithAuthor

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFoundOr(id, err)
		}

		if authorID, changed := req.NewAuthorID(current.AuthorID); changed {
			if err := s.ensureAuthor(ctx, authorID); err != nil {
				return err
			}
		}

		if err := req.ApplyTo(current); err != nil {
			return apperror.Validation(err.Error())
		}

		if _, err := s.repo.Update(ctx, current); err != nil {
			return notFoundOr(id, err)
		}

		result, err = s.repo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, translate(err)
	}

	return result, nil
}

func (s *bookService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetByIDForUpdate(ctx, id); err != nil {
			return err
		}
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return notFoundOr(id, err)
	}

	log.Info().Str("book_id", id.String()).Msg("book deleted")
	return nil
}

func (s *bookService) ensureAuthor(ctx context.Context, authorID uuid.UUID) error {
	exists, err := s.authors.ExistsByID(ctx, authorID)
	if err != nil {
		return err
	}
	if !exists {
		return model.AuthorNotFound(authorID)
	}
	return nil
}

func notFoundOr(id uuid.UUID, err error) error {
	if errors.Is(err, model.ErrBookNotFound) {
		return model.NotFound(id)
	}
	return err
}

// translate turns constraint violations into typed errors and leaves
// everything else for the error middleware
func translate(err error) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	if dbErr := apperror.FromDatabase(err); dbErr != nil {
		return dbErr
	}
	return err
}
