package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_StatusAndLabel(t *testing.T) {
	tests := []struct {
		err        *Error
		wantStatus int
		wantLabel  string
	}{
		{Validation("title: cannot be blank"), http.StatusBadRequest, "Bad Request"},
		{NotFound("Author", "abc", nil), http.StatusNotFound, "Not Found"},
		{Conflict("isbn", nil), http.StatusConflict, "Conflict"},
		{BadReference("authorId", nil), http.StatusBadRequest, "Bad Request"},
		{BusinessRule("blocked", nil), http.StatusBadRequest, "Bad Request"},
		{MethodNotAllowed("PUT", "/authors"), http.StatusMethodNotAllowed, "Method Not Allowed"},
		{TooManyRequests(), http.StatusTooManyRequests, "Too Many Requests"},
		{Unknown(errors.New("boom")), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Kind), func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode())
			assert.Equal(t, tt.wantLabel, tt.err.Label())
		})
	}
}

func TestError_Messages(t *testing.T) {
	assert.Equal(t, "Author with ID 42 not found", NotFound("Author", 42, nil).PublicMessage())
	assert.Equal(t, "A record with this isbn already exists", Conflict("isbn", nil).PublicMessage())
	assert.Equal(t, "Invalid reference: authorId does not exist", BadReference("authorId", nil).PublicMessage())
	assert.Equal(t, "Cannot PUT /authors", MethodNotAllowed("PUT", "/authors").PublicMessage())
	assert.Equal(t, []string{"a", "b"}, Validation("a", "b").PublicMessage())
}

func TestUnknown_HidesCause(t *testing.T) {
	err := Unknown(errors.New("connection refused on 10.0.0.3"))

	assert.Equal(t, GenericMessage, err.PublicMessage())
	assert.Contains(t, err.Error(), "connection refused")
}

func TestNormalize(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, Normalize(nil))
	})

	t.Run("typed error passes through wrapping", func(t *testing.T) {
		typed := NotFound("Book", "x", nil)
		got := Normalize(fmt.Errorf("service: %w", typed))
		assert.Same(t, typed, got)
	})

	t.Run("storage error", func(t *testing.T) {
		got := Normalize(fmt.Errorf("insert: %w", &pgconn.PgError{
			Code:           "23505",
			ConstraintName: "books_isbn_key",
			TableName:      "books",
		}))
		assert.Equal(t, KindConflict, got.Kind)
	})

	t.Run("validation error", func(t *testing.T) {
		got := Normalize(validation.Errors{"title": errors.New("cannot be blank")})
		assert.Equal(t, KindValidation, got.Kind)
		assert.Equal(t, []string{"title: cannot be blank"}, got.Messages)
	})

	t.Run("anything else", func(t *testing.T) {
		cause := errors.New("boom")
		got := Normalize(cause)
		assert.Equal(t, KindUnknown, got.Kind)
		assert.ErrorIs(t, got, cause)
	})
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", BusinessRule("nope", nil))
	assert.True(t, Is(err, KindBusinessRule))
	assert.False(t, Is(err, KindConflict))
	assert.False(t, Is(errors.New("plain"), KindUnknown))
}

func TestFromDatabase(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantKind    Kind
		wantMessage any
	}{
		{
			name:        "no rows",
			err:         pgx.ErrNoRows,
			wantKind:    KindNotFound,
			wantMessage: "Record not found",
		},
		{
			name: "unique violation from detail",
			err: &pgconn.PgError{
				Code:   "23505",
				Detail: "Key (isbn)=(9780306406157) already exists.",
			},
			wantKind:    KindConflict,
			wantMessage: "A record with this isbn already exists",
		},
		{
			name: "unique violation from constraint",
			err: &pgconn.PgError{
				Code:           "23505",
				ConstraintName: "books_isbn_key",
				TableName:      "books",
			},
			wantKind:    KindConflict,
			wantMessage: "A record with this isbn already exists",
		},
		{
			name: "foreign key violation",
			err: &pgconn.PgError{
				Code:           "23503",
				ConstraintName: "books_author_id_fkey",
				TableName:      "books",
			},
			wantKind:    KindBadReference,
			wantMessage: "Invalid reference: authorId does not exist",
		},
		{
			name: "foreign key detail wins over constraint",
			err: &pgconn.PgError{
				Code:           "23503",
				Detail:         `Key (author_id)=(4b7c...) is not present in table "authors".`,
				ConstraintName: "whatever",
			},
			wantKind:    KindBadReference,
			wantMessage: "Invalid reference: authorId does not exist",
		},
		{
			name:        "not null violation",
			err:         &pgconn.PgError{Code: "23502", ColumnName: "first_name"},
			wantKind:    KindValidation,
			wantMessage: []string{"firstName must not be null"},
		},
		{
			name:        "invalid text representation",
			err:         &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "x"`},
			wantKind:    KindValidation,
			wantMessage: []string{`invalid input syntax for type uuid: "x"`},
		},
		{
			name:        "value too long for column",
			err:         &pgconn.PgError{Code: "22001", Message: "value too long for type character varying(32)"},
			wantKind:    KindValidation,
			wantMessage: []string{"value too long for type character varying(32)"},
		},
		{
			name:        "negative offset",
			err:         &pgconn.PgError{Code: "2201X", Message: "OFFSET must not be negative"},
			wantKind:    KindValidation,
			wantMessage: []string{"OFFSET must not be negative"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromDatabase(fmt.Errorf("repo: %w", tt.err))
			require.NotNil(t, got)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantMessage, got.PublicMessage())
		})
	}
}

func TestFromDatabase_Unrecognised(t *testing.T) {
	assert.Nil(t, FromDatabase(errors.New("dial tcp: timeout")))
	assert.Nil(t, FromDatabase(&pgconn.PgError{Code: "40001"}))
}

func TestFromValidation(t *testing.T) {
	err := validation.Errors{
		"lastName":  errors.New("cannot be blank"),
		"firstName": errors.New("cannot be blank"),
		"ignored":   nil,
	}

	got := FromValidation(err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"firstName: cannot be blank", "lastName: cannot be blank"}, got.Messages)
}

func TestFromValidation_Internal(t *testing.T) {
	err := validation.NewInternalError(errors.New("bad rule"))
	assert.Nil(t, FromValidation(err))
	assert.Equal(t, KindUnknown, Normalize(err).Kind)
}
