package model

import (
	"errors"
	"maps"
	"strings"
	"time"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"library-api/internal/shared/optional"
	"library-api/internal/shared/pagination"
	"library-api/internal/shared/utils"
	"library-api/internal/shared/validator"
)

// Limits mirror the books table columns
const (
	MaxTitleLength = 500
	MaxISBNLength  = 32
	MaxGenreLength = 100
)

var (
	titleRules = []validation.Rule{
		validation.Required,
		validator.NotBlank,
		validation.RuneLength(1, MaxTitleLength),
	}
	isbnRules = []validation.Rule{
		validation.Required,
		validation.RuneLength(1, MaxISBNLength),
		is.ISBN,
	}
	authorIDRules = []validation.Rule{
		validation.Required,
		is.UUID,
	}
)

// NormalizeISBN drops hyphens and whitespace and upper-cases the ISBN-10
// check digit, so every spelling of one ISBN hits the same unique key
func NormalizeISBN(s string) string {
	return strings.ToUpper(strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s))
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /books
// ════════════════════════════════════════════════════════════════

type CreateBookRequest struct {
	Title         string  `json:"title"`
	ISBN          string  `json:"isbn"`
	PublishedDate *string `json:"publishedDate"`
	Genre         *string `json:"genre"`
	AuthorID      string  `json:"authorId"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, titleRules...),
		validation.Field(&r.ISBN, isbnRules...),
		validation.Field(&r.PublishedDate, validator.Date),
		validation.Field(&r.Genre, validation.RuneLength(0, MaxGenreLength)),
		validation.Field(&r.AuthorID, authorIDRules...),
	)
}

// ToEntity converts a validated request; optional fields default to null
func (r *CreateBookRequest) ToEntity() (*Book, error) {
	authorID, err := uuid.Parse(strings.TrimSpace(r.AuthorID))
	if err != nil {
		return nil, err
	}

	b := &Book{
		Title:    strings.TrimSpace(r.Title),
		ISBN:     NormalizeISBN(r.ISBN),
		Genre:    r.Genre,
		AuthorID: authorID,
	}

	if r.PublishedDate != nil && *r.PublishedDate != "" {
		d, err := utils.ParseDate(*r.PublishedDate)
		if err != nil {
			return nil, err
		}
		b.PublishedDate = &d
	}

	return b, nil
}

// ════════════════════════════════════════════════════════════════
// UPDATE: PATCH /books/:id
// ════════════════════════════════════════════════════════════════

// UpdateBookRequest only touches fields present in the payload.
// genre and publishedDate may be sent as null to clear them.
type UpdateBookRequest struct {
	Title         optional.Field[string] `json:"title"`
	ISBN          optional.Field[string] `json:"isbn"`
	PublishedDate optional.Field[string] `json:"publishedDate"`
	Genre         optional.Field[string] `json:"genre"`
	AuthorID      optional.Field[string] `json:"authorId"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.Errors{
		"title":         validator.Optional(r.Title, false, titleRules...),
		"isbn":          validator.Optional(r.ISBN, false, isbnRules...),
		"publishedDate": validator.Optional(r.PublishedDate, true, validator.Date),
		"genre":         validator.Optional(r.Genre, true, validation.RuneLength(0, MaxGenreLength)),
		"authorId":      validator.Optional(r.AuthorID, false, authorIDRules...),
	}.Filter()
}

// NewAuthorID returns the requested author when it differs from current
func (r *UpdateBookRequest) NewAuthorID(current uuid.UUID) (uuid.UUID, bool) {
	if !r.AuthorID.HasValue() {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(strings.TrimSpace(r.AuthorID.Value))
	if err != nil || id == current {
		return uuid.Nil, false
	}
	return id, true
}

// ApplyTo copies the present fields onto b
func (r *UpdateBookRequest) ApplyTo(b *Book) error {
	if r.Title.HasValue() {
		b.Title = strings.TrimSpace(r.Title.Value)
	}
	if r.ISBN.HasValue() {
		b.ISBN = NormalizeISBN(r.ISBN.Value)
	}
	if r.AuthorID.HasValue() {
		id, err := uuid.Parse(strings.TrimSpace(r.AuthorID.Value))
		if err != nil {
			return err
		}
		b.AuthorID = id
	}
	r.Genre.Apply(&b.Genre)

	if r.PublishedDate.Set {
		b.PublishedDate = nil
		if r.PublishedDate.HasValue() {
			d, err := utils.ParseDate(r.PublishedDate.Value)
			if err != nil {
				return err
			}
			b.PublishedDate = &d
		}
	}

	return nil
}

// ════════════════════════════════════════════════════════════════
// LIST: GET /books?page=&limit=&title=&isbn=&authorId=
// ════════════════════════════════════════════════════════════════

type ListBooksRequest struct {
	pagination.Query
	Title    string
	ISBN     string
	AuthorID string
}

func (r ListBooksRequest) Validate() error {
	errs := validation.Errors{}

	if err := r.Query.Validate(); err != nil {
		var queryErrs validation.Errors
		if !errors.As(err, &queryErrs) {
			return err
		}
		maps.Copy(errs, queryErrs)
	}

	if err := validation.Validate(strings.TrimSpace(r.AuthorID), is.UUID); err != nil {
		errs["authorId"] = err
	}

	return errs.Filter()
}

// ToFilter must be called after Validate
func (r ListBooksRequest) ToFilter() BookFilter {
	filter := BookFilter{
		Title: strings.TrimSpace(r.Title),
		ISBN:  NormalizeISBN(r.ISBN),
		Page:  r.Params(),
	}
	if id, err := uuid.Parse(strings.TrimSpace(r.AuthorID)); err == nil {
		filter.AuthorID = &id
	}
	return filter
}

// ════════════════════════════════════════════════════════════════
// RESPONSES
// ════════════════════════════════════════════════════════════════

type AuthorResponse struct {
	ID        uuid.UUID  `json:"id"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	FullName  string     `json:"fullName"`
	Bio       *string    `json:"bio"`
	BirthDate *time.Time `json:"birthDate"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type BookResponse struct {
	ID            uuid.UUID      `json:"id"`
	Title         string         `json:"title"`
	ISBN          string         `json:"isbn"`
	PublishedDate *time.Time     `json:"publishedDate"`
	Genre         *string        `json:"genre"`
	AuthorID      uuid.UUID      `json:"authorId"`
	Author        AuthorResponse `json:"author"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

func (b *BookWithAuthor) ToResponse() BookResponse {
	return BookResponse{
		ID:            b.ID,
		Title:         b.Title,
		ISBN:          b.ISBN,
		PublishedDate: b.PublishedDate,
		Genre:         b.Genre,
		AuthorID:      b.Author.ID,
		Author: AuthorResponse{
			ID:        b.Author.ID,
			FirstName: b.Author.FirstName,
			LastName:  b.Author.LastName,
			FullName:  b.Author.FullName(),
			Bio:       b.Author.Bio,
			BirthDate: b.Author.BirthDate,
			CreatedAt: b.Author.CreatedAt,
			UpdatedAt: b.Author.UpdatedAt,
		},
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
