package model

import (
	"time"

	"github.com/google/uuid"

	bookmodel "melivro-backend/internal/domains/book/model"
)

// CitationType classifies how a person referenced a book.
type CitationType string

const (
	CitationRecommended CitationType = "recommended"
	CitationReading     CitationType = "reading"
	CitationFavorite    CitationType = "favorite"
	CitationCited       CitationType = "cited"
)

func (t CitationType) IsValid() bool {
	switch t {
	case CitationRecommended, CitationReading, CitationFavorite, CitationCited:
		return true
	}
	return false
}

// Citation records one person citing one book, with its provenance.
// Creating or deleting a citation adjusts the book's citation_count in
// the same transaction.
type Citation struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	PersonID     uuid.UUID    `json:"person_id" db:"person_id"`
	BookID       uuid.UUID    `json:"book_id" db:"book_id"`
	CitedYear    *int         `json:"cited_year" db:"cited_year"`
	CitedType    CitationType `json:"cited_type" db:"cited_type"`
	SourceURL    *string      `json:"source_url" db:"source_url"`
	SourceTitle  *string      `json:"source_title" db:"source_title"`
	SourceDate   *string      `json:"source_date" db:"source_date"`
	QuoteExcerpt *string      `json:"quote_excerpt" db:"quote_excerpt"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CitationWithBook is a citation joined with its book, used on person
// detail pages.
type CitationWithBook struct {
	Citation
	Book bookmodel.Book `json:"book"`
}

// CitationWithPerson is a citation joined with the citing person's name
// and slug, used on book detail pages.
type CitationWithPerson struct {
	Citation
	PersonName string `json:"person_name"`
	PersonSlug string `json:"person_slug"`
}
