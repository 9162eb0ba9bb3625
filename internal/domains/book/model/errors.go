package model

import "errors"

var (
	ErrBookNotFound  = errors.New("book not found")
	ErrDuplicateSlug = errors.New("book with this slug already exists")
	ErrInvalidTitle  = errors.New("book title is invalid")
)

// ToHTTPStatus converts a domain error to an HTTP status code.
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrBookNotFound):
		return 404
	case errors.Is(err, ErrDuplicateSlug):
		return 409
	case errors.Is(err, ErrInvalidTitle):
		return 400
	default:
		return 500
	}
}
