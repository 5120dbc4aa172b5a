package apperror

import (
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes
// https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgUniqueViolation       = "23505"
	pgForeignKeyViolation   = "23503"
	pgNotNullViolation      = "23502"
	pgStringTooLong         = "22001"
	pgInvalidTextRepr       = "22P02"
	pgInvalidDatetime       = "22007"
	pgDatetimeFieldOverflow = "22008"
	pgInvalidLimitRowCount  = "2201W"
	pgInvalidOffsetRowCount = "2201X"
)

// "Key (isbn)=(978...) already exists." → isbn
var detailKeyPattern = regexp.MustCompile(`Key \(([^)]+)\)=`)

// FromDatabase translates storage errors into typed errors.
// Returns nil when err is not a recognised storage error.
func FromDatabase(err error) *Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return &Error{Kind: KindNotFound, Message: "Record not found", Err: err}
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return Conflict(fieldFromPgError(pgErr, "field"), err)

	case pgForeignKeyViolation:
		return BadReference(fieldFromPgError(pgErr, "related record"), err)

	case pgNotNullViolation:
		column := pgErr.ColumnName
		if column == "" {
			column = "field"
		}
		return &Error{
			Kind:     KindValidation,
			Messages: []string{toCamel(column) + " must not be null"},
			Err:      err,
		}

	case pgStringTooLong, pgInvalidTextRepr, pgInvalidDatetime, pgDatetimeFieldOverflow,
		pgInvalidLimitRowCount, pgInvalidOffsetRowCount:
		return &Error{
			Kind:     KindValidation,
			Messages: []string{pgErr.Message},
			Err:      err,
		}
	}

	return nil
}

// fieldFromPgError resolves the offending field, preferring the
// "Key (col)=" part of the detail, then the constraint name.
func fieldFromPgError(pgErr *pgconn.PgError, fallback string) string {
	if m := detailKeyPattern.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
		return toCamel(strings.TrimSpace(m[1]))
	}
	if pgErr.ConstraintName != "" {
		return fieldFromConstraint(pgErr.ConstraintName, pgErr.TableName)
	}
	if pgErr.ColumnName != "" {
		return toCamel(pgErr.ColumnName)
	}
	return fallback
}

// fieldFromConstraint turns PostgreSQL default constraint names into
// field names: books_isbn_key → isbn, books_author_id_fkey → authorId.
func fieldFromConstraint(constraint, table string) string {
	name := constraint
	for _, suffix := range []string{"_key", "_fkey", "_pkey", "_idx", "_unique"} {
		if strings.HasSuffix(name, suffix) {
			name = strings.TrimSuffix(name, suffix)
			break
		}
	}
	if table != "" {
		name = strings.TrimPrefix(name, table+"_")
	} else if i := strings.Index(name, "_"); i >= 0 {
		name = name[i+1:]
	}
	return toCamel(name)
}

// toCamel converts snake_case to camelCase to match the JSON field names
func toCamel(s string) string {
	parts := strings.Split(s, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] == "" {
			continue
		}
		parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
	}
	return strings.Join(parts, "")
}
