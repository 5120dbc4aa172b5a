package model

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-api/internal/shared/apperror"
	"library-api/internal/shared/pagination"
)

func messages(t *testing.T, err error) []string {
	t.Helper()
	if err == nil {
		return nil
	}
	appErr := apperror.FromValidation(err)
	require.NotNil(t, appErr, "not a validation error: %v", err)
	return appErr.Messages
}

func TestCreateAuthorRequest_Validate(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "valid",
			body: `{"firstName":"Ursula","lastName":"Le Guin","birthDate":"1929-10-21"}`,
		},
		{
			name: "missing names",
			body: `{}`,
			want: []string{"firstName: cannot be blank", "lastName: cannot be blank"},
		},
		{
			name: "whitespace name",
			body: `{"firstName":"   ","lastName":"B"}`,
			want: []string{"firstName: cannot be blank"},
		},
		{
			name: "name too long",
			body: `{"firstName":"` + strings.Repeat("a", MaxNameLength+1) + `","lastName":"B"}`,
			want: []string{"firstName: the length must be between 1 and 255"},
		},
		{
			name: "bad birth date",
			body: `{"firstName":"A","lastName":"B","birthDate":"21/10/1929"}`,
			want: []string{"birthDate: must be an ISO-8601 date (YYYY-MM-DD) or date-time"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req CreateAuthorRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.want, messages(t, req.Validate()))
		})
	}
}

func TestUpdateAuthorRequest_Validate(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{name: "empty body", body: `{}`},
		{name: "nullable fields accept null", body: `{"bio":null,"birthDate":null}`},
		{
			name: "names cannot be null",
			body: `{"firstName":null,"lastName":null}`,
			want: []string{"firstName: cannot be null", "lastName: cannot be null"},
		},
		{
			name: "present values go through rules",
			body: `{"lastName":"","birthDate":"soon"}`,
			want: []string{
				"birthDate: must be an ISO-8601 date (YYYY-MM-DD) or date-time",
				"lastName: cannot be blank",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateAuthorRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.want, messages(t, req.Validate()))
		})
	}
}

func TestUpdateAuthorRequest_ApplyTo(t *testing.T) {
	bio := "old"
	a := &Author{FirstName: "A", LastName: "B", Bio: &bio}

	var req UpdateAuthorRequest
	require.NoError(t, json.Unmarshal([]byte(`{"lastName":" C ","bio":null,"birthDate":"2000-02-29"}`), &req))
	require.NoError(t, req.ApplyTo(a))

	assert.Equal(t, "A", a.FirstName)
	assert.Equal(t, "C", a.LastName)
	assert.Nil(t, a.Bio)
	require.NotNil(t, a.BirthDate)
	assert.Equal(t, "2000-02-29", a.BirthDate.Format("2006-01-02"))
}

func TestListAuthorsRequest(t *testing.T) {
	bounds := pagination.DefaultBounds()

	t.Run("defaults and trimmed filters", func(t *testing.T) {
		req := ListAuthorsRequest{Query: pagination.NewQuery("", "", bounds), FirstName: " jo "}
		require.NoError(t, req.Validate())

		filter := req.ToFilter()
		assert.Equal(t, "jo", filter.FirstName)
		assert.Equal(t, pagination.Params{Page: 1, Limit: 10, Skip: 0}, filter.Page)
	})

	t.Run("limit out of range", func(t *testing.T) {
		req := ListAuthorsRequest{Query: pagination.NewQuery("1", "101", bounds)}
		assert.Equal(t, []string{"limit: must be an integer between 1 and 100"}, messages(t, req.Validate()))
	})
}

func TestAuthorWithBooks_ToDetailResponse(t *testing.T) {
	a := &AuthorWithBooks{Author: Author{FirstName: "Ursula", LastName: "Le Guin"}}

	resp := a.ToDetailResponse()
	assert.Equal(t, "Ursula Le Guin", resp.FullName)
	assert.NotNil(t, resp.Books)

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"books":[]`)
	assert.Contains(t, string(body), `"bio":null`)
}
