package model

import "errors"

var (
	ErrCitationNotFound = errors.New("citation not found")
	ErrPersonNotFound   = errors.New("cited person does not exist")
	ErrBookNotFound     = errors.New("cited book does not exist")
	ErrInvalidCitedType = errors.New("invalid citation type")
)

// ToHTTPStatus converts a domain error to an HTTP status code.
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrCitationNotFound):
		return 404
	case errors.Is(err, ErrPersonNotFound), errors.Is(err, ErrBookNotFound):
		return 422
	case errors.Is(err, ErrInvalidCitedType):
		return 400
	default:
		return 500
	}
}
