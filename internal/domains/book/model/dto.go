package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

// CreateBookRequest is the payload for creating a book directly (operator
// path) or through the import pipeline.
type CreateBookRequest struct {
	Title           string   `json:"title"`
	Slug            string   `json:"slug"` // derived from title when empty
	Authors         string   `json:"authors"`
	ISBN13          string   `json:"isbn13"`
	CoverURL        string   `json:"cover_url"`
	Synopsis        string   `json:"synopsis"`
	Language        string   `json:"language"`
	Categories      []string `json:"categories"`
	Pages           int      `json:"pages"`
	PublicationDate string   `json:"publication_date"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 500)),
		validation.Field(&r.Authors, validation.Length(0, 500)),
		validation.Field(&r.CoverURL, is.URL),
		validation.Field(&r.Synopsis, validation.Length(0, 20000)),
		validation.Field(&r.Language, validation.Length(0, 10)),
		validation.Field(&r.Pages, validation.Min(0)),
	)
}

/// UpdateBookRequest is a partial update: nil fields are left unchanged.
type UpdateBookRequest struct {
	Title           *string          `json:"title"`
	Authors         *string          `json:"authors"`
	ISBN13          *string          `json:"isbn13"`
	CoverURL        *string          `json:"cover_url"`
	Synopsis        *string          `json:"synopsis"`
	Language        *string          `json:"language"`
	Categories      []string         `json:"categories"`
	Rating          *decimal.Decimal `json:"rating"`
	ReviewCount     *int             `json:"review_count"`
	Pages           *int             `json:"pages"`
	PublicationDate *string          `json:"publication_date"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, 500)),
		validation.Field(&r.CoverURL, is.URL),
	)
}

// BookFilter drives list queries.
type BookFilter struct {
	Search   string
	Language string
	Category string
	SortBy   string // title | citation_count | created_at
	Order    string // asc | desc
	Limit    int
	Offset   int
}
