package model

import "errors"

var (
	ErrSessionNotFound   = errors.New("import session not found")
	ErrCandidateNotFound = errors.New("candidate not found in review queue")
	ErrEntryNotFound     = errors.New("entry not found in assignment stage")
	ErrNoPersonSelected  = errors.New("a curator must be selected")
	ErrPersonNotFound    = errors.New("selected curator does not exist")
	ErrEmptyInput        = errors.New("either a url or a text must be provided")
	ErrAmbiguousInput    = errors.New("url and text are mutually exclusive")
)

// ToHTTPStatus converts a domain error to an HTTP status code.
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound),
		errors.Is(err, ErrCandidateNotFound),
		errors.Is(err, ErrEntryNotFound):
		return 404
	case errors.Is(err, ErrNoPersonSelected),
		errors.Is(err, ErrPersonNotFound),
		errors.Is(err, ErrEmptyInput),
		errors.Is(err, ErrAmbiguousInput):
		return 422
	default:
		return 500
	}
}
