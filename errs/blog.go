package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Blog domain errors. The not-found kinds wrap ErrNotFound and the duplicate
// tag kind wraps ErrAlreadyExists so the generic checkers keep working.
var (
	ErrPostNotFound     = fmt.Errorf("blog post %w", ErrNotFound)
	ErrTagNotFound      = fmt.Errorf("tag %w", ErrNotFound)
	ErrTagAlreadyExists = fmt.Errorf("tag %w", ErrAlreadyExists)
)

func NewPostNotFoundError(id uint) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        ErrPostNotFound,
		Details:    fmt.Sprintf("no blog post with id %d", id),
	}
}

func NewTagNotFoundError(details string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        ErrTagNotFound,
		Details:    details,
	}
}

// NewTagAlreadyExistsError is reported as a bad request, not a conflict.
func NewTagAlreadyExistsError(name string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrTagAlreadyExists,
		Details:    fmt.Sprintf("a tag named %q already exists", name),
		Field:      "name",
	}
}

func IsPostNotFound(err error) bool {
	return errors.Is(err, ErrPostNotFound)
}

func IsTagNotFound(err error) bool {
	return errors.Is(err, ErrTagNotFound)
}

func IsTagAlreadyExists(err error) bool {
	return errors.Is(err, ErrTagAlreadyExists)
}
