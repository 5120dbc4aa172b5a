package apperror

import (
	"errors"
	"fmt"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// FromValidation flattens ozzo-validation errors into a Validation error
// with sorted "field: message" entries. Returns nil for other errors.
func FromValidation(err error) *Error {
	if err == nil {
		return nil
	}

	var internal validation.InternalError
	if errors.As(err, &internal) {
		return nil
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		messages := flatten("", fieldErrs)
		sort.Strings(messages)
		return &Error{Kind: KindValidation, Messages: messages, Err: err}
	}

	var single validation.Error
	if errors.As(err, &single) {
		return &Error{Kind: KindValidation, Messages: []string{single.Error()}, Err: err}
	}

	return nil
}

func flatten(prefix string, errs validation.Errors) []string {
	var messages []string
	for field, fieldErr := range errs {
		if fieldErr == nil {
			continue
		}
		name := field
		if prefix != "" {
			name = prefix + "." + field
		}

		var nested validation.Errors
		if errors.As(fieldErr, &nested) {
			messages = append(messages, flatten(name, nested)...)
			continue
		}
		messages = append(messages, fmt.Sprintf("%s: %s", name, fieldErr.Error()))
	}
	return messages
}
