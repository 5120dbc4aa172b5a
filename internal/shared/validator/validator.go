package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"library-api/internal/shared/apperror"
	"library-api/internal/shared/optional"
	"library-api/internal/shared/utils"
)

// Validatable is implemented by every request DTO
type Validatable interface {
	Validate() error
}

// BindJSON decodes the body into dst and runs dst.Validate().
// Decoding problems come back as validation errors so they share the
// error envelope with rule failures.
func BindJSON(c *gin.Context, dst Validatable) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return decodeError(err)
	}
	return dst.Validate()
}

// ParseID validates a path parameter as a UUID
func ParseID(c *gin.Context, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return uuid.Nil, apperror.Validation(param + " must be a valid UUID")
	}
	return id, nil
}

func decodeError(err error) *apperror.Error {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)

	switch {
	case errors.Is(err, io.EOF):
		return &apperror.Error{Kind: apperror.KindValidation, Messages: []string{"request body must be a JSON object"}, Err: err}
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return &apperror.Error{Kind: apperror.KindValidation, Messages: []string{"request body is not valid JSON"}, Err: err}
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return &apperror.Error{
			Kind:     apperror.KindValidation,
			Messages: []string{fmt.Sprintf("%s: must be of type %s", field, jsonType(typeErr.Type.Kind().String()))},
			Err:      err,
		}
	}

	// encoding/json reports unknown fields as `json: unknown field "x"`
	if name, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		return &apperror.Error{
			Kind:     apperror.KindValidation,
			Messages: []string{fmt.Sprintf("property %s should not exist", strings.Trim(name, `"`))},
			Err:      err,
		}
	}

	return &apperror.Error{Kind: apperror.KindValidation, Messages: []string{err.Error()}, Err: err}
}

func jsonType(kind string) string {
	switch kind {
	case "string":
		return "string"
	case "struct", "map":
		return "object"
	case "slice", "array":
		return "array"
	case "bool":
		return "boolean"
	default:
		return "number"
	}
}

// ════════════════════════════════════════════════════════════════
// RULES
// ════════════════════════════════════════════════════════════════

// NotBlank rejects strings made only of whitespace
var NotBlank = validation.By(func(value interface{}) error {
	s := indirectString(value)
	if s != "" && strings.TrimSpace(s) == "" {
		return validation.NewError("validation_not_blank", "cannot be blank")
	}
	return nil
})

// Date accepts YYYY-MM-DD or an RFC 3339 date-time. Empty values pass.
var Date = validation.By(func(value interface{}) error {
	s := indirectString(value)
	if s == "" {
		return nil
	}
	if _, err := utils.ParseDate(s); err != nil {
		return validation.NewError("validation_date", utils.ErrInvalidDate.Error())
	}
	return nil
})

func indirectString(value interface{}) string {
	v, isNil := validation.Indirect(value)
	if isNil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Optional validates a partial-update field: absent passes, null passes
// only when nullable, values go through rules.
func Optional[T any](f optional.Field[T], nullable bool, rules ...validation.Rule) error {
	if !f.Set {
		return nil
	}
	if f.Null {
		if nullable {
			return nil
		}
		return validation.NewError("validation_not_nullable", "cannot be null")
	}
	return validation.Validate(f.Value, rules...)
}
