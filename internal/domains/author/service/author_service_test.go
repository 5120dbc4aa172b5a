package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"library-api/internal/domains/author/model"
	"library-api/internal/domains/author/repository/mocks"
	"library-api/internal/shared/apperror"
	"library-api/internal/shared/optional"
	"library-api/internal/shared/pagination"
	dbmocks "library-api/pkg/database/mocks"
)

func setupAuthorService(t *testing.T) (ServiceInterface, *mocks.MockRepositoryInterface, *dbmocks.MockTransactor) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepositoryInterface(ctrl)
	tx := dbmocks.NewMockTransactor(ctrl)
	return NewAuthorService(repo, tx), repo, tx
}

func runInTx(tx *dbmocks.MockTransactor) {
	tx.EXPECT().
		WithTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		})
}

func strPtr(s string) *string { return &s }

func sampleAuthor(id uuid.UUID) *model.Author {
	birth := time.Date(1892, 1, 3, 0, 0, 0, 0, time.UTC)
	return &model.Author{
		ID:        id,
		FirstName: "John",
		LastName:  "Tolkien",
		Bio:       strPtr("Philologist"),
		BirthDate: &birth,
		CreatedAt: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestAuthorService_Create(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	tests := []struct {
		name       string
		req        *model.CreateAuthorRequest
		setupMocks func(repo *mocks.MockRepositoryInterface)
		wantErr    bool
		check      func(t *testing.T, got *model.Author)
	}{
		{
			name: "optional fields default to null",
			req:  &model.CreateAuthorRequest{FirstName: " Ursula ", LastName: "Le Guin"},
			setupMocks: func(repo *mocks.MockRepositoryInterface) {
				repo.EXPECT().
					Create(ctx, gomock.Any()).
					DoAndReturn(func(_ context.Context, a *model.Author) (*model.Author, error) {
						assert.Equal(t, "Ursula", a.FirstName)
						assert.Nil(t, a.Bio)
						assert.Nil(t, a.BirthDate)
						created := *a
						created.ID = id
						return &created, nil
					})
			},
			check: func(t *testing.T, got *model.Author) {
				assert.Equal(t, id, got.ID)
				assert.Equal(t, "Ursula Le Guin", got.FullName())
			},
		},
		{
			name: "birth date is parsed",
			req:  &model.CreateAuthorRequest{FirstName: "A", LastName: "B", BirthDate: strPtr("1990-05-17")},
			setupMocks: func(repo *mocks.MockRepositoryInterface) {
				repo.EXPECT().
					Create(ctx, gomock.Any()).
					DoAndReturn(func(_ context.Context, a *model.Author) (*model.Author, error) {
						require.NotNil(t, a.BirthDate)
						assert.Equal(t, time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC), *a.BirthDate)
						return a, nil
					})
			},
		},
		{
			name: "repository error is returned",
			req:  &model.CreateAuthorRequest{FirstName: "A", LastName: "B"},
			setupMocks: func(repo *mocks.MockRepositoryInterface) {
				repo.EXPECT().Create(ctx, gomock.Any()).Return(nil, errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := setupAuthorService(t)
			tt.setupMocks(repo)

			got, err := svc.Create(ctx, tt.req)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}

func TestAuthorService_GetByID(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("includes books", func(t *testing.T) {
		svc, repo, _ := setupAuthorService(t)
		books := []model.Book{{ID: uuid.New(), Title: "The Hobbit", AuthorID: id}}

		repo.EXPECT().GetByID(ctx, id).Return(sampleAuthor(id), nil)
		repo.EXPECT().ListBooks(ctx, id).Return(books, nil)

		got, err := svc.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, books, got.Books)
	})

	t.Run("missing author is not found", func(t *testing.T) {
		svc, repo, _ := setupAuthorService(t)
		repo.EXPECT().GetByID(ctx, id).Return(nil, model.ErrAuthorNotFound)

		_, err := svc.GetByID(ctx, id)

		var appErr *apperror.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.KindNotFound, appErr.Kind)
		assert.Equal(t, "Author with ID "+id.String()+" not found", appErr.Message)
	})
}

func TestAuthorService_List(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := setupAuthorService(t)

	filter := model.AuthorFilter{FirstName: "jo", Page: pagination.Calculate(2, 2)}
	authors := []model.Author{*sampleAuthor(uuid.New())}
	repo.EXPECT().List(ctx, filter).Return(authors, int64(5), nil)

	page, err := svc.List(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, authors, page.Data)
	assert.Equal(t, pagination.Meta{
		Total:           5,
		Page:            2,
		Limit:           2,
		TotalPages:      3,
		HasNextPage:     true,
		HasPreviousPage: true,
	}, page.Meta)
}

func TestAuthorService_Update(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	tests := []struct {
		name       string
		req        *model.UpdateAuthorRequest
		setupMocks func(repo *mocks.MockRepositoryInterface)
		wantKind   apperror.Kind
		check      func(t *testing.T, got *model.Author)
	}{
		{
			name: "partial update keeps other fields",
			req:  &model.UpdateAuthorRequest{FirstName: optional.Of("J.R.R.")},
			setupMocks: func(repo *mocks.MockRepositoryInterface) {
				repo.EXPECT().GetByIDForUpdate(gomock.Any(), id).Return(sampleAuthor(id), nil)
				repo.EXPECT().
					Update(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, a *model.Author) (*model.Author, error) {
						return a, nil
					})
			},
			check: func(t *testing.T, got *model.Author) {
				assert.Equal(t, "J.R.R.", got.FirstName)
				assert.Equal(t, "Tolkien", got.LastName)
				require.NotNil(t, got.Bio)
				assert.Equal(t, "Philologist", *got.Bio)
				assert.NotNil(t, got.BirthDate)
			},
		},
		{
			name: "explicit null clears bio and birth date",
			req: &model.UpdateAuthorRequest{
				Bio:       optional.Null[string](),
				BirthDate: optional.Null[string](),
			},
			setupMocks: func(repo *mocks.MockRepositoryInterface) {
				repo.EXPECT().GetByIDForUpdate(gomock.Any(), id).Return(sampleAuthor(id), nil)
				repo.EXPECT().
					Update(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, a *model.Author) (*model.Author, error) {
						return a, nil
					})
			},
			check: func(t *testing.T, got *model.Author) {
				assert.Nil(t, got.Bio)
				assert.Nil(t, got.BirthDate)
				assert.Equal(t, "John", got.FirstName)
			},
		},
		{
			name: "missing author is not found",
			req:  &model.UpdateAuthorRequest{LastName: optional.Of("X")},
			setupMocks: func(repo *mocks.MockRepositoryInterface) {
				repo.EXPECT().GetByIDForUpdate(gomock.Any(), id).Return(nil, model.ErrAuthorNotFound)
			},
			wantKind: apperror.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, tx := setupAuthorService(t)
			runInTx(tx)
			tt.setupMocks(repo)

			got, err := svc.Update(ctx, id, tt.req)
			if tt.wantKind != "" {
				assert.True(t, apperror.Is(err, tt.wantKind), "got %v", err)
				return
			}
			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestAuthorService_Delete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	fkViolation := &pgconn.PgError{
		Code:           "23503",
		TableName:      "books",
		ConstraintName: "books_author_id_fkey",
	}

	tests := []struct {
		name        string
		setupMocks  func(repo *mocks.MockRepositoryInterface)
		wantKind    apperror.Kind
		wantMessage string
	}{
		{
			name: "author without books is deleted",
			setupMocks: func(repo *mocks.MockRepositoryInterface) {
				repo.EXPECT().GetByIDForUpdate(gomock.Any(), id).Return(sampleAuthor(id), nil)
				repo.EXPECT().CountBooks(gomock.Any(), id).Return(int64(0), nil)
				repo.EXPECT().Delete(gomock.Any(), id).Return(nil)
			},
		},
		{
			name: "author with books is refused with the count",
			setupMocks: func(repo *mocks.MockRepositoryInterface) {
				repo.EXPECT().GetByIDForUpdate(gomock.Any(), id).Return(sampleAuthor(id), nil)
				repo.EXPECT().CountBooks(gomock.Any(), id).Return(int64(2), nil)
			},
			wantKind:    apperror.KindBusinessRule,
			wantMessage: "Cannot delete author with 2 associated book(s). Please delete the books first.",
		},
		{
			name: "missing author is not found",
			setupMocks: func(repo *mocks.MockRepositoryInterface) {
				repo.EXPECT().GetByIDForUpdate(gomock.Any(), id).Return(nil, model.ErrAuthorNotFound)
			},
			wantKind:    apperror.KindNotFound,
			wantMessage: "Author with ID " + id.String() + " not found",
		},
		{
			name: "foreign key violation at delete is reported as the book guard",
			setupMocks: func(repo *mocks.MockRepositoryInterface) {
				repo.EXPECT().GetByIDForUpdate(gomock.Any(), id).Return(sampleAuthor(id), nil)
				gomock.InOrder(
					repo.EXPECT().CountBooks(gomock.Any(), id).Return(int64(0), nil),
					repo.EXPECT().CountBooks(gomock.Any(), id).Return(int64(1), nil),
				)
				repo.EXPECT().Delete(gomock.Any(), id).Return(fkViolation)
			},
			wantKind:    apperror.KindBusinessRule,
			wantMessage: "Cannot delete author with 1 associated book(s). Please delete the books first.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, tx := setupAuthorService(t)
			runInTx(tx)
			tt.setupMocks(repo)

			err := svc.Delete(ctx, id)
			if tt.wantKind == "" {
				require.NoError(t, err)
				return
			}

			var appErr *apperror.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.wantKind, appErr.Kind)
			assert.Equal(t, tt.wantMessage, appErr.Message)
		})
	}
}
