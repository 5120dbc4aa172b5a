package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"library-api/internal/domains/book/model"
	"library-api/internal/shared/utils"
	"library-api/pkg/database"
)

const (
	bookColumns = `id, title, isbn, published_date, genre, author_id, created_at, updated_at`

	// joined read: book columns plus author columns prefixed with author_
	bookWithAuthorSelect = `
        SELECT
            b.id, b.title, b.isbn, b.published_date, b.genre, b.created_at, b.updated_at,
            a.id         AS author_id,
            a.first_name AS author_first_name,
            a.last_name  AS author_last_name,
            a.bio        AS author_bio,
            a.birth_date AS author_birth_date,
            a.created_at AS author_created_at,
            a.updated_at AS author_updated_at
        FROM books b
        JOIN authors a ON a.id = b.author_id`
)

type postgresRepository struct {
	db database.Querier
}

func NewPostgresRepository(db database.Querier) RepositoryInterface {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) conn(ctx context.Context) database.Querier {
	return database.Conn(ctx, r.db)
}

func (r *postgresRepository) Create(ctx context.Context, b *model.Book) (*model.Book, error) {
	query := `
        INSERT INTO books (title, isbn, published_date, genre, author_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING ` + bookColumns

	rows, err := r.conn(ctx).Query(ctx, query, b.Title, b.ISBN, b.PublishedDate, b.Genre, b.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.Book])
	if err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	return created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.BookWithAuthor, error) {
	rows, err := r.conn(ctx).Query(ctx, bookWithAuthorSelect+` WHERE b.id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get book by id: %w", err)
	}

	b, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.BookWithAuthor])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book by id: %w", err)
	}

	return b, nil
}

func (r *postgresRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to lock book: %w", err)
	}

	b, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.Book])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to lock book: %w", err)
	}

	return b, nil
}

func (r *postgresRepository) List(ctx context.Context, filter model.BookFilter) ([]model.BookWithAuthor, int64, error) {
	where, args := buildWhereClause(filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM books b ` + where
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	if total == 0 {
		return []model.BookWithAuthor{}, 0, nil
	}

	n := len(args)
	listQuery := fmt.Sprintf(`%s
        %s
        ORDER BY b.created_at DESC, b.id DESC
        LIMIT $%d OFFSET $%d`, bookWithAuthorSelect, where, n+1, n+2)
	args = append(args, filter.Page.Limit, filter.Page.Skip)

	log.Debug().Str("query", listQuery).Interface("args", args).Msg("list books")

	rows, err := r.conn(ctx).Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list books: %w", err)
	}

	books, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.BookWithAuthor])
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan books: %w", err)
	}

	return books, total, nil
}

// buildWhereClause expects the books table aliased as b
func buildWhereClause(filter model.BookFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)

	if filter.Title != "" {
		args = append(args, utils.ContainsPattern(filter.Title))
		clauses = append(clauses, fmt.Sprintf(`LOWER(b.title) LIKE $%d ESCAPE '\'`, len(args)))
	}
	if filter.ISBN != "" {
		args = append(args, utils.ContainsPattern(filter.ISBN))
		clauses = append(clauses, fmt.Sprintf(`LOWER(b.isbn) LIKE $%d ESCAPE '\'`, len(args)))
	}
	if filter.AuthorID != nil {
		args = append(args, *filter.AuthorID)
		clauses = append(clauses, fmt.Sprintf(`b.author_id = $%d`, len(args)))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + utils.JoinWithAnd(clauses), args
}

func (r *postgresRepository) Update(ctx context.Context, b *model.Book) (*model.Book, error) {
	query := `
        UPDATE books
        SET title          = $2,
            isbn           = $3,
            published_date = $4,
            genre          = $5,
            author_id      = $6,
            updated_at     = GREATEST(NOW(), created_at)
        WHERE id = $1
        RETURNING ` + bookColumns

	rows, err := r.conn(ctx).Query(ctx, query, b.ID, b.Title, b.ISBN, b.PublishedDate, b.Genre, b.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("failed to update book: %w", err)
	}

	updated, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.Book])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to update book: %w", err)
	}

	return updated, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}
