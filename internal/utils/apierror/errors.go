package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse abstracts all API error responses to the user.
//
// This interface does not implement `error`, since its only purpose
// is to be used for API responses and not for logging circumstances.
//
// In general, the whole ErrorResponse can be sent for serialization.
type ErrorResponse interface {
	// Code is the HTTP status code to be returned.
	Code() int
}

type APIError struct {
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (a *APIError) Code() int {
	return a.Status
}

type StructuredError struct {
	Errors map[string][]string `json:"errors"`
	Status int                 `json:"-"`
}

func (s *StructuredError) Code() int {
	return s.Status
}

func (s *StructuredError) Add(field, problem string) {
	s.Errors[field] = append(s.Errors[field], problem)
}

var (
	MalformedBodyError  = NewSimple(400, "Malformed JSON body")
	InternalServerError = NewSimple(500, "Internal server error")

	NotFoundError         = NewSimple(404, "Note not found")
	ForbiddenError        = NewSimple(403, "Only the author of a note may access it")
	InvalidIDError        = NewSimple(400, "The provided ID is invalid, IDs are usually int64 > 0")
	UnauthorizedError     = NewSimple(401, "Missing or invalid credentials")
	InvalidAuthTokenError = NewSimple(401, "Invalid authorization token")

	/*
	 * Scope validation at note creation
	 */
	CourseNotFoundError      = NewSimple(400, "The referenced course does not exist")
	ModuleNotFoundError      = NewSimple(400, "The referenced course module does not exist")
	RelatedUserNotFoundError = NewSimple(400, "The related user does not exist")
	CourseNotVisibleError    = NewSimple(403, "The user cannot access the course information")
	ModuleNotVisibleError    = NewSimple(403, "The user cannot access the course module")
	NotEnrolledError         = NewSimple(400, "The user is not enrolled in the course")
	ScopeMismatchError       = NewSimple(400, "The course given is different from the course of the course module")

	NotebookDisabledError = NewSimple(403, "You cannot use the notebook on this page")
)

func FromValidationError(err error) *StructuredError {
	var ve validator.ValidationErrors
	ok := errors.As(err, &ve)
	if !ok {
		return nil
	}

	problems := map[string][]string{}
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())

		switch fe.Tag() {
		case "required", "notblank":
			problems[field] = append(problems[field], "This field is required")
		case "min":
			problems[field] = append(problems[field], "Value is too short, min: "+fe.Param())
		case "max":
			problems[field] = append(problems[field], "Value is too long, max: "+fe.Param())

		default:
			problems[field] = append(problems[field], "Invalid value provided")
		}
	}

	return &StructuredError{
		Errors: problems,
		Status: http.StatusBadRequest,
	}
}

func NewSimple(status int, msg string, args ...any) *APIError {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &APIError{Status: status, Message: msg}
}

func NewStructured(code int) *StructuredError {
	return &StructuredError{
		Errors: make(map[string][]string),
		Status: code,
	}
}

// NewEmptyFieldError flags a subject or note body that is blank once trimmed.
func NewEmptyFieldError(field string) *StructuredError {
	serr := NewStructured(http.StatusBadRequest)
	serr.Add(field, "The "+field+" cannot be empty")
	return serr
}

func NewInvalidParamTypeError(name, dataType string) *APIError {
	return NewSimple(http.StatusBadRequest, "Parameter '%s' has invalid type, expected: %s", name, dataType)
}
