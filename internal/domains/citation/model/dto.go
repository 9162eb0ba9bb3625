package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// SourceURLPlaceholder marks citations whose import input was pasted
// text, where no source page exists.
const SourceURLPlaceholder = "#"

type CreateCitationRequest struct {
	PersonID     uuid.UUID `json:"person_id"`
	BookID       uuid.UUID `json:"book_id"`
	CitedYear    int       `json:"cited_year"`
	CitedType    string    `json:"cited_type"`
	SourceURL    string    `json:"source_url"`
	SourceTitle  string    `json:"source_title"`
	SourceDate   string    `json:"source_date"`
	QuoteExcerpt string    `json:"quote_excerpt"`
}

func (r CreateCitationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PersonID, validation.Required, validation.By(nonNilUUID)),
		validation.Field(&r.BookID, validation.Required, validation.By(nonNilUUID)),
		validation.Field(&r.CitedYear, validation.Min(0), validation.Max(2200)),
		validation.Field(&r.CitedType, validation.Required, validation.By(validCitationType)),
		validation.Field(&r.SourceURL, validation.When(r.SourceURL != SourceURLPlaceholder, is.URL)),
		validation.Field(&r.QuoteExcerpt, validation.Length(0, 2000)),
	)
}

func nonNilUUID(value interface{}) error {
	id, ok := value.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return validation.NewError("validation_uuid", "must be a non-nil UUID")
	}
	return nil
}

func validCitationType(value interface{}) error {
	s, _ := value.(string)
	if !CitationType(s).IsValid() {
		return validation.NewError("validation_cited_type",
			"must be one of recommended, reading, favorite, cited")
	}
	return nil
}
