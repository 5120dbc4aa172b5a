package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the HTTP boundary
type Kind string

const (
	KindValidation       Kind = "validation"
	KindNotFound         Kind = "not_found"
	KindConflict         Kind = "conflict"
	KindBadReference     Kind = "bad_reference"
	KindBusinessRule     Kind = "business_rule"
	KindMethodNotAllowed Kind = "method_not_allowed"
	KindTooManyRequests  Kind = "too_many_requests"
	KindUnknown          Kind = "unknown"
)

// GenericMessage is returned to clients for unknown errors.
// The real cause only goes to the logs.
const GenericMessage = "Internal server error"

// Error is the single error type understood by the error middleware.
// Services return it for every expected failure; anything else is
// treated as KindUnknown.
type Error struct {
	Kind Kind

	// Message is used for every kind except validation
	Message string

	// Messages holds field-level messages for KindValidation
	Messages []string

	// Err keeps the underlying cause for logging and errors.Is
	Err error
}

func (e *Error) Error() string {
	if e.Kind == KindValidation && len(e.Messages) > 0 {
		return fmt.Sprintf("validation failed: %v", e.Messages)
	}
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode maps the kind to its HTTP status
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindValidation, KindBadReference, KindBusinessRule:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Label is the "error" field of the envelope
func (e *Error) Label() string {
	return http.StatusText(e.StatusCode())
}

// PublicMessage is what the client sees: a string, or a list of
// strings for validation failures.
func (e *Error) PublicMessage() any {
	switch e.Kind {
	case KindValidation:
		if len(e.Messages) > 0 {
			return e.Messages
		}
		return []string{e.Message}
	case KindUnknown:
		return GenericMessage
	default:
		return e.Message
	}
}

// ════════════════════════════════════════════════════════════════
// CONSTRUCTORS
// ════════════════════════════════════════════════════════════════

func Validation(messages ...string) *Error {
	return &Error{Kind: KindValidation, Messages: messages}
}

// NotFound builds "<Entity> with ID <id> not found"
func NotFound(entity string, id any, cause error) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", entity, id),
		Err:     cause,
	}
}

// Conflict builds "A record with this <field> already exists"
func Conflict(field string, cause error) *Error {
	return &Error{
		Kind:    KindConflict,
		Message: fmt.Sprintf("A record with this %s already exists", field),
		Err:     cause,
	}
}

// BadReference builds "Invalid reference: <field> does not exist"
func BadReference(field string, cause error) *Error {
	return &Error{
		Kind:    KindBadReference,
		Message: fmt.Sprintf("Invalid reference: %s does not exist", field),
		Err:     cause,
	}
}

func BusinessRule(message string, cause error) *Error {
	return &Error{Kind: KindBusinessRule, Message: message, Err: cause}
}

func MethodNotAllowed(method, path string) *Error {
	return &Error{
		Kind:    KindMethodNotAllowed,
		Message: fmt.Sprintf("Cannot %s %s", method, path),
	}
}

func RouteNotFound(method, path string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("Cannot %s %s", method, path),
	}
}

func TooManyRequests() *Error {
	return &Error{
		Kind:    KindTooManyRequests,
		Message: "Too many requests, please try again later",
	}
}

func Unknown(cause error) *Error {
	return &Error{Kind: KindUnknown, Err: cause}
}

// ════════════════════════════════════════════════════════════════
// NORMALIZATION
// ════════════════════════════════════════════════════════════════

// Normalize classifies any error into an *Error.
// Order: already typed → storage error → validation error → unknown.
func Normalize(err error) *Error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	if dbErr := FromDatabase(err); dbErr != nil {
		return dbErr
	}

	if vErr := FromValidation(err); vErr != nil {
		return vErr
	}

	return Unknown(err)
}

// Is reports whether err normalizes to the given kind
func Is(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}
