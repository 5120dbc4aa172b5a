package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"library-api/internal/domains/author/model"
	"library-api/internal/shared/utils"
	"library-api/pkg/database"
)

const authorColumns = `id, first_name, last_name, bio, birth_date, created_at, updated_at`

// postgresRepository implements RepositoryInterface on pgx
type postgresRepository struct {
	db database.Querier
}

func NewPostgresRepository(db database.Querier) RepositoryInterface {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) conn(ctx context.Context) database.Querier {
	return database.Conn(ctx, r.db)
}

func (r *postgresRepository) Create(ctx context.Context, a *model.Author) (*model.Author, error) {
	query := `
        INSERT INTO authors (first_name, last_name, bio, birth_date)
        VALUES ($1, $2, $3, $4)
        RETURNING ` + authorColumns

	rows, err := r.conn(ctx).Query(ctx, query, a.FirstName, a.LastName, a.Bio, a.BirthDate)
	if err != nil {
		return nil, fmt.Errorf("failed to create author: %w", err)
	}

	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.Author])
	if err != nil {
		return nil, fmt.Errorf("failed to create author: %w", err)
	}

	return created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	return r.getOne(ctx, `SELECT `+authorColumns+` FROM authors WHERE id = $1`, id)
}

func (r *postgresRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	return r.getOne(ctx, `SELECT `+authorColumns+` FROM authors WHERE id = $1 FOR UPDATE`, id)
}

func (r *postgresRepository) getOne(ctx context.Context, query string, id uuid.UUID) (*model.Author, error) {
	rows, err := r.conn(ctx).Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get author by id: %w", err)
	}

	a, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.Author])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to get author by id: %w", err)
	}

	return a, nil
}

// List runs the page query and the count query with the same WHERE clause
func (r *postgresRepository) List(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int64, error) {
	where, args := buildWhereClause(filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM authors ` + where
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count authors: %w", err)
	}

	if total == 0 {
		return []model.Author{}, 0, nil
	}

	n := len(args)
	listQuery := fmt.Sprintf(`
        SELECT %s
        FROM authors
        %s
        ORDER BY created_at DESC, id DESC
        LIMIT $%d OFFSET $%d`, authorColumns, where, n+1, n+2)
	args = append(args, filter.Page.Limit, filter.Page.Skip)

	log.Debug().Str("query", listQuery).Interface("args", args).Msg("list authors")

	rows, err := r.conn(ctx).Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list authors: %w", err)
	}

	authors, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Author])
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan authors: %w", err)
	}

	return authors, total, nil
}

// buildWhereClause lower-cases both sides so matching does not depend on
// the database collation
func buildWhereClause(filter model.AuthorFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)

	if filter.FirstName != "" {
		args = append(args, utils.ContainsPattern(filter.FirstName))
		clauses = append(clauses, fmt.Sprintf(`LOWER(first_name) LIKE $%d ESCAPE '\'`, len(args)))
	}
	if filter.LastName != "" {
		args = append(args, utils.ContainsPattern(filter.LastName))
		clauses = append(clauses, fmt.Sprintf(`LOWER(last_name) LIKE $%d ESCAPE '\'`, len(args)))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + utils.JoinWithAnd(clauses), args
}

func (r *postgresRepository) ListBooks(ctx context.Context, authorID uuid.UUID) ([]model.Book, error) {
	query := `
        SELECT id, title, isbn, published_date, genre, author_id, created_at, updated_at
        FROM books
        WHERE author_id = $1
        ORDER BY created_at DESC, id DESC`

	rows, err := r.conn(ctx).Query(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list author books: %w", err)
	}

	books, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		return nil, fmt.Errorf("failed to scan author books: %w", err)
	}

	return books, nil
}

func (r *postgresRepository) Update(ctx context.Context, a *model.Author) (*model.Author, error) {
	query := `
        UPDATE authors
        SET first_name = $2,
            last_name  = $3,
            bio        = $4,
            birth_date = $5,
            updated_at = GREATEST(NOW(), created_at)
        WHERE id = $1
        RETURNING ` + authorColumns

	rows, err := r.conn(ctx).Query(ctx, query, a.ID, a.FirstName, a.LastName, a.Bio, a.BirthDate)
	if err != nil {
		return nil, fmt.Errorf("failed to update author: %w", err)
	}

	updated, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.Author])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to update author: %w", err)
	}

	return updated, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete author: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAuthorNotFound
	}
	return nil
}

func (r *postgresRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var one int
	err := r.conn(ctx).QueryRow(ctx, `SELECT 1 FROM authors WHERE id = $1 FOR SHARE`, id).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check author existence: %w", err)
	}
	return true, nil
}

func (r *postgresRepository) CountBooks(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM books WHERE author_id = $1`, authorID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get book count: %w", err)
	}
	return count, nil
}
