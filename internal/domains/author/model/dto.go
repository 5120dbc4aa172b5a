package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"library-api/internal/shared/optional"
	"library-api/internal/shared/pagination"
	"library-api/internal/shared/utils"
	"library-api/internal/shared/validator"
)

const (
	MaxNameLength = 255
	MaxBioLength  = 5000
)

var nameRules = []validation.Rule{
	validation.Required,
	validator.NotBlank,
	validation.RuneLength(1, MaxNameLength),
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /authors
// ════════════════════════════════════════════════════════════════

type CreateAuthorRequest struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Bio       *string `json:"bio"`
	BirthDate *string `json:"birthDate"`
}

func (r CreateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, nameRules...),
		validation.Field(&r.LastName, nameRules...),
		validation.Field(&r.Bio, validation.RuneLength(0, MaxBioLength)),
		validation.Field(&r.BirthDate, validator.Date),
	)
}

// ToEntity converts a validated request; optional fields default to null
func (r *CreateAuthorRequest) ToEntity() (*Author, error) {
	a := &Author{
		FirstName: strings.TrimSpace(r.FirstName),
		LastName:  strings.TrimSpace(r.LastName),
		Bio:       r.Bio,
	}

	if r.BirthDate != nil && *r.BirthDate != "" {
		d, err := utils.ParseDate(*r.BirthDate)
		if err != nil {
			return nil, err
		}
		a.BirthDate = &d
	}

	return a, nil
}

// ════════════════════════════════════════════════════════════════
// UPDATE: PATCH /authors/:id
// ════════════════════════════════════════════════════════════════

// UpdateAuthorRequest only touches fields present in the payload.
// bio and birthDate may be sent as null to clear them.
type UpdateAuthorRequest struct {
	FirstName optional.Field[string] `json:"firstName"`
	LastName  optional.Field[string] `json:"lastName"`
	Bio       optional.Field[string] `json:"bio"`
	BirthDate optional.Field[string] `json:"birthDate"`
}

func (r UpdateAuthorRequest) Validate() error {
	return validation.Errors{
		"firstName": validator.Optional(r.FirstName, false, nameRules...),
		"lastName":  validator.Optional(r.LastName, false, nameRules...),
		"bio":       validator.Optional(r.Bio, true, validation.RuneLength(0, MaxBioLength)),
		"birthDate": validator.Optional(r.BirthDate, true, validator.Date),
	}.Filter()
}

// ApplyTo copies the present fields onto a
func (r *UpdateAuthorRequest) ApplyTo(a *Author) error {
	if r.FirstName.HasValue() {
		a.FirstName = strings.TrimSpace(r.FirstName.Value)
	}
	if r.LastName.HasValue() {
		a.LastName = strings.TrimSpace(r.LastName.Value)
	}
	r.Bio.Apply(&a.Bio)

	if r.BirthDate.Set {
		a.BirthDate = nil
		if r.BirthDate.HasValue() {
			d, err := utils.ParseDate(r.BirthDate.Value)
			if err != nil {
				return err
			}
			a.BirthDate = &d
		}
	}

	return nil
}

// ════════════════════════════════════════════════════════════════
// LIST: GET /authors?page=&limit=&firstName=&lastName=
// ════════════════════════════════════════════════════════════════

type ListAuthorsRequest struct {
	pagination.Query
	FirstName string
	LastName  string
}

func (r ListAuthorsRequest) Validate() error {
	return r.Query.Validate()
}

// ToFilter must be called after Validate
func (r ListAuthorsRequest) ToFilter() AuthorFilter {
	return AuthorFilter{
		FirstName: strings.TrimSpace(r.FirstName),
		LastName:  strings.TrimSpace(r.LastName),
		Page:      r.Params(),
	}
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

// AuthorDetailResponse adds the author's books, newest first
type AuthorDetailResponse struct {
	AuthorResponse
	Books []Book `json:"books"`
}

func (a *Author) ToResponse() AuthorResponse {
	return AuthorResponse{
		ID:        a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		FullName:  a.FullName(),
		Bio:       a.Bio,
		BirthDate: a.BirthDate,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func (a *AuthorWithBooks) ToDetailResponse() AuthorDetailResponse {
	books := a.Books
	if books == nil {
		books = []Book{}
	}
	return AuthorDetailResponse{
		AuthorResponse: a.Author.ToResponse(),
		Books:          books,
	}
}
