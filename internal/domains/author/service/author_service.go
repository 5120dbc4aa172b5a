package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"library-api/internal/domains/author/model"
	"library-api/internal/domains/author/repository"
	"library-api/internal/shared/apperror"
	"library-api/internal/shared/pagination"
	"library-api/pkg/database"
)

type authorService struct {
	repo repository.RepositoryInterface
	tx   database.Transactor
}

func NewAuthorService(repo repository.RepositoryInterface, tx database.Transactor) ServiceInterface {
	return &authorService{
		repo: repo,
		tx:   tx,
	}
}

func (s *authorService) Create(ctx context.Context, req *model.CreateAuthorRequest) (*model.Author, error) {
	a, err := req.ToEntity()
	if err != nil {
		return nil, apperror.Validation("birthDate: " + err.Error())
	}

	created, err := s.repo.Create(ctx, a)
	if err != nil {
		return nil, translate(err)
	}

	log.Info().Str("author_id", created.ID.String()).Msg("author created")
	return created, nil
}

func (s *authorService) GetByID(ctx context.Context, id uuid.UUID) (*model.AuthorWithBooks, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(id, err)
	}

	books, err := s.repo.ListBooks(ctx, id)
	if err != nil {
		return nil, err
	}

	return &model.AuthorWithBooks{Author: *a, Books: books}, nil
}

func (s *authorService) List(ctx context.Context, filter model.AuthorFilter) (pagination.Page[model.Author], error) {
	authors, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return pagination.Page[model.Author]{}, err
	}

	return pagination.NewPage(authors, total, filter.Page), nil
}

// Update locks the row so concurrent partial updates do not overwrite
// each other's fields
func (s *authorService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateAuthorRequest) (*model.Author, error) {
	var updated *model.Author

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFoundOr(id, err)
		}

		if err := req.ApplyTo(current); err != nil {
			return apperror.Validation("birthDate: " + err.Error())
		}

		updated, err = s.repo.Update(ctx, current)
		return err
	})
	if err != nil {
		return nil, translate(err)
	}

	return updated, nil
}

// Delete checks the book count under a row lock. Books created after the
// count still hit the foreign key; that violation is reported with a
// fresh count.
func (s *authorService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetByIDForUpdate(ctx, id); err != nil {
			return notFoundOr(id, err)
		}

		count, err := s.repo.CountBooks(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return model.HasBooks(count)
		}

		return s.repo.Delete(ctx, id)
	})
	if err == nil {
		log.Info().Str("author_id", id.String()).Msg("author deleted")
		return nil
	}

	if dbErr := apperror.FromDatabase(err); dbErr != nil && dbErr.Kind == apperror.KindBadReference {
		count, countErr := s.repo.CountBooks(ctx, id)
		if countErr != nil {
			return fmt.Errorf("recount books after delete conflict: %w", countErr)
		}
		return model.HasBooks(max(count, 1))
	}

	return notFoundOr(id, err)
}

// notFoundOr maps the repository sentinel to the client-facing error
func notFoundOr(id uuid.UUID, err error) error {
	if errors.Is(err, model.ErrAuthorNotFound) {
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
