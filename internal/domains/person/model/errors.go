package model

import "errors"

var (
	ErrPersonNotFound = errors.New("person not found")
	ErrDuplicateSlug  = errors.New("person with this slug already exists")
	ErrInvalidName    = errors.New("person name is invalid")
)

// ToHTTPStatus converts a domain error to an HTTP status code.
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrPersonNotFound):
		return 404
	case errors.Is(err, ErrDuplicateSlug):
		return 409
	case errors.Is(err, ErrInvalidName):
		return 400
	default:
		return 500
	}
}
