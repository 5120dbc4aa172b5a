package main

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	authorModel "library-api/internal/domains/author/model"
	bookModel "library-api/internal/domains/book/model"
)

// memStore backs both fake repositories so the author/book constraints
// behave like the real schema: unique isbn and a restricting foreign key.
type memStore struct {
	mu      sync.Mutex
	clock   time.Time
	authors map[uuid.UUID]authorModel.Author
	books   map[uuid.UUID]bookModel.Book
}

func newMemStore() *memStore {
	return &memStore{
		clock:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		authors: map[uuid.UUID]authorModel.Author{},
		books:   map[uuid.UUID]bookModel.Book{},
	}
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func containsFold(value, filter string) bool {
	return filter == "" || strings.Contains(strings.ToLower(value), strings.ToLower(filter))
}

func newestFirst(aCreated, bCreated time.Time, aID, bID uuid.UUID) int {
	if c := bCreated.Compare(aCreated); c != 0 {
		return c
	}
	return cmp.Compare(bID.String(), aID.String())
}

func pageOf[T any](items []T, skip, limit int) []T {
	if skip >= len(items) {
		return []T{}
	}
	return items[skip:min(len(items), skip+limit)]
}

type passthroughTx struct{}

func (passthroughTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// ════════════════════════════════════════════════════════════════
// AUTHORS
// ════════════════════════════════════════════════════════════════

type memAuthorRepo struct{ s *memStore }

func (r memAuthorRepo) Create(_ context.Context, a *authorModel.Author) (*authorModel.Author, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	created := *a
	created.ID = uuid.New()
	created.CreatedAt = r.s.tick()
	created.UpdatedAt = created.CreatedAt
	r.s.authors[created.ID] = created
	return &created, nil
}

func (r memAuthorRepo) GetByID(_ context.Context, id uuid.UUID) (*authorModel.Author, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.authors[id]
	if !ok {
		return nil, authorModel.ErrAuthorNotFound
	}
	return &a, nil
}

func (r memAuthorRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*authorModel.Author, error) {
	return r.GetByID(ctx, id)
}

func (r memAuthorRepo) List(_ context.Context, f authorModel.AuthorFilter) ([]authorModel.Author, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []authorModel.Author
	for _, a := range r.s.authors {
		if containsFold(a.FirstName, f.FirstName) && containsFold(a.LastName, f.LastName) {
			matched = append(matched, a)
		}
	}
	slices.SortFunc(matched, func(a, b authorModel.Author) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return pageOf(matched, f.Page.Skip, f.Page.Limit), int64(len(matched)), nil
}

func (r memAuthorRepo) ListBooks(_ context.Context, authorID uuid.UUID) ([]authorModel.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var books []authorModel.Book
	for _, b := range r.s.books {
		if b.AuthorID == authorID {
			books = append(books, authorModel.Book{
				ID:            b.ID,
				Title:         b.Title,
				ISBN:          b.ISBN,
				PublishedDate: b.PublishedDate,
				Genre:         b.Genre,
				AuthorID:      b.AuthorID,
				CreatedAt:     b.CreatedAt,
				UpdatedAt:     b.UpdatedAt,
			})
		}
	}
	slices.SortFunc(books, func(a, b authorModel.Book) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return books, nil
}

func (r memAuthorRepo) Update(_ context.Context, a *authorModel.Author) (*authorModel.Author, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.authors[a.ID]; !ok {
		return nil, authorModel.ErrAuthorNotFound
	}
	updated := *a
	updated.UpdatedAt = r.s.tick()
	r.s.authors[a.ID] = updated
	return &updated, nil
}

func (r memAuthorRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.authors[id]; !ok {
		return authorModel.ErrAuthorNotFound
	}
	for _, b := range r.s.books {
		if b.AuthorID == id {
			return &pgconn.PgError{
				Code:           "23503",
				TableName:      "books",
				ConstraintName: "books_author_id_fkey",
			}
		}
	}
	delete(r.s.authors, id)
	return nil
}

func (r memAuthorRepo) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, ok := r.s.authors[id]
	return ok, nil
}

func (r memAuthorRepo) CountBooks(_ context.Context, authorID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, b := range r.s.books {
		if b.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}

// ════════════════════════════════════════════════════════════════
// BOOKS
// ════════════════════════════════════════════════════════════════

type memBookRepo struct{ s *memStore }

// checkConstraints must be called with the lock held
func (r memBookRepo) checkConstraints(b *bookModel.Book) error {
	for _, other := range r.s.books {
		if other.ID != b.ID && other.ISBN == b.ISBN {
			return &pgconn.PgError{
				Code:           "23505",
				TableName:      "books",
				ConstraintName: "books_isbn_key",
				Detail:         fmt.Sprintf("Key (isbn)=(%s) already exists.", b.ISBN),
			}
		}
	}
	if _, ok := r.s.authors[b.AuthorID]; !ok {
		return &pgconn.PgError{
			Code:           "23503",
			TableName:      "books",
			ConstraintName: "books_author_id_fkey",
		}
	}
	return nil
}

func (r memBookRepo) withAuthor(b bookModel.Book) bookModel.BookWithAuthor {
	a := r.s.authors[b.AuthorID]
	return bookModel.BookWithAuthor{
		ID:            b.ID,
		Title:         b.Title,
		ISBN:          b.ISBN,
		PublishedDate: b.PublishedDate,
		Genre:         b.Genre,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
		Author: bookModel.Author{
			ID:        a.ID,
			FirstName: a.FirstName,
			LastName:  a.LastName,
			Bio:       a.Bio,
			BirthDate: a.BirthDate,
			CreatedAt: a.CreatedAt,
			UpdatedAt: a.UpdatedAt,
		},
	}
}

func (r memBookRepo) Create(_ context.Context, b *bookModel.Book) (*bookModel.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkConstraints(b); err != nil {
		return nil, err
	}
	created := *b
	created.ID = uuid.New()
	created.CreatedAt = r.s.tick()
	created.UpdatedAt = created.CreatedAt
	r.s.books[created.ID] = created
	return &created, nil
}

func (r memBookRepo) GetByID(_ context.Context, id uuid.UUID) (*bookModel.BookWithAuthor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.books[id]
	if !ok {
		return nil, bookModel.ErrBookNotFound
	}
	joined := r.withAuthor(b)
	return &joined, nil
}

func (r memBookRepo) GetByIDForUpdate(_ context.Context, id uuid.UUID) (*bookModel.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.books[id]
	if !ok {
		return nil, bookModel.ErrBookNotFound
	}
	return &b, nil
}

func (r memBookRepo) List(_ context.Context, f bookModel.BookFilter) ([]bookModel.BookWithAuthor, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []bookModel.BookWithAuthor
	for _, b := range r.s.books {
		if !containsFold(b.Title, f.Title) || !containsFold(b.ISBN, f.ISBN) {
			continue
		}
		if f.AuthorID != nil && b.AuthorID != *f.AuthorID {
			continue
		}
		matched = append(matched, r.withAuthor(b))
	}
	slices.SortFunc(matched, func(a, b bookModel.BookWithAuthor) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return pageOf(matched, f.Page.Skip, f.Page.Limit), int64(len(matched)), nil
}

func (r memBookRepo) Update(_ context.Context, b *bookModel.Book) (*bookModel.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.books[b.ID]; !ok {
		return nil, bookModel.ErrBookNotFound
	}
	if err := r.checkConstraints(b); err != nil {
		return nil, err
	}
	updated := *b
	updated.UpdatedAt = r.s.tick()
	r.s.books[b.ID] = updated
	return &updated, nil
}

func (r memBookRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.books[id]; !ok {
		return bookModel.ErrBookNotFound
	}
	delete(r.s.books, id)
	return nil
}
