package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// ExtractRequest starts an extraction. URL and Text are mutually
// exclusive; exactly one must be set.
type ExtractRequest struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

func (r ExtractRequest) Validate() error {
	if r.URL == "" && r.Text == "" {
		return ErrEmptyInput
	}
	if r.URL != "" && r.Text != "" {
		return ErrAmbiguousInput
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.URL, is.URL),
	)
}

type AssignRequest struct {
	PersonID uuid.UUID `json:"person_id"`
}

func (r AssignRequest) Validate() error {
	if r.PersonID == uuid.Nil {
		return ErrNoPersonSelected
	}
	return nil
}
