package model

import "errors"

var (
	ErrUnknownKind    = errors.New("unknown activity kind")
	ErrInvalidPayload = errors.New("activity payload does not match its kind")
)
